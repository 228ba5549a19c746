package domain

import "time"

// Audit actions written by the ledger.
const (
	ActionFolioCreated       = "FOLIO_CREATED"
	ActionFolioClosed        = "FOLIO_CLOSED"
	ActionTransactionPosted  = "TRANSACTION_POSTED"
	ActionPendingPosted      = "PENDING_TRANSACTION_POSTED"
	ActionPaymentAssigned    = "PAYMENT_ASSIGNED"
	ActionAssignmentSet      = "ASSIGNMENT_SET"
	ActionPaymentVoided      = "PAYMENT_VOIDED"
	ActionAssignmentReleased = "ASSIGNMENT_RELEASED"
	ActionFolioRecalculated  = "FOLIO_RECALCULATED"
)

// Audit entity types.
const (
	EntityFolio            = "folio"
	EntityFolioTransaction = "folio_transaction"
)

// AuditEntry is one record appended to the activity log.
type AuditEntry struct {
	ActorID     string         `json:"actorID"`
	Action      string         `json:"action"`
	EntityType  string         `json:"entityType"`
	EntityID    string         `json:"entityID"`
	Description string         `json:"description"`
	Changes     map[string]any `json:"changes,omitempty"`
	Meta        map[string]any `json:"meta,omitempty"`
	HotelID     string         `json:"hotelID"`
	Context     string         `json:"context"`
	OccurredAt  time.Time      `json:"occurredAt"`
}
