package domain

// BillingParty is what the guest/company directory tells the ledger about a party.
type BillingParty struct {
	Ref              BillingPartyRef
	DisplayName      string
	CityLedgerMethod PaymentMethod // Companies only; empty when none is designated
}
