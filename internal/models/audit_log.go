package models

import "time"

// AuditLog is the audit_logs row. Changes and Meta are JSONB.
type AuditLog struct {
	AuditLogID  string    `db:"audit_log_id"`
	ActorID     string    `db:"actor_id"`
	Action      string    `db:"action"`
	EntityType  string    `db:"entity_type"`
	EntityID    string    `db:"entity_id"`
	Description string    `db:"description"`
	Changes     []byte    `db:"changes"`
	Meta        []byte    `db:"meta"`
	HotelID     string    `db:"hotel_id"`
	Context     string    `db:"context"`
	OccurredAt  time.Time `db:"occurred_at"`
}
