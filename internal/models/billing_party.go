package models

// BillingParty is a row of the guests or companies directory tables.
type BillingParty struct {
	ID               string  `db:"id"`
	DisplayName      string  `db:"display_name"`
	CityLedgerMethod *string `db:"city_ledger_method"` // companies only
}
