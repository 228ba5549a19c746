package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskNightAudit posts the pending transactions of a business date.
	TaskNightAudit = "folio:night_audit"
	// TaskIntegrityCheck verifies every open folio of a property.
	TaskIntegrityCheck = "folio:integrity_check"

	businessDateLayout = "2006-01-02"
	systemActorID      = "system:night-audit"
)

// NightAuditPayload scopes one night-audit run. An empty BusinessDate means
// the day before the moment the task is handled.
type NightAuditPayload struct {
	PropertyID   string `json:"propertyId"`
	BusinessDate string `json:"businessDate,omitempty"`
	ActorID      string `json:"actorId,omitempty"`
}

// IntegrityCheckPayload scopes one integrity check.
type IntegrityCheckPayload struct {
	PropertyID string `json:"propertyId"`
}

// NewNightAuditTask constructs an Asynq task for the night audit.
func NewNightAuditTask(payload NightAuditPayload) (*asynq.Task, error) {
	if payload.PropertyID == "" {
		return nil, fmt.Errorf("night audit: property id required")
	}
	if payload.BusinessDate != "" {
		if _, err := time.Parse(businessDateLayout, payload.BusinessDate); err != nil {
			return nil, fmt.Errorf("night audit: invalid business date %q: %w", payload.BusinessDate, err)
		}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNightAudit, data, asynq.Queue(QueueDefault), asynq.MaxRetry(3)), nil
}

// NewIntegrityCheckTask constructs an Asynq task for the integrity check.
func NewIntegrityCheckTask(propertyID string) (*asynq.Task, error) {
	if propertyID == "" {
		return nil, fmt.Errorf("integrity check: property id required")
	}
	data, err := json.Marshal(IntegrityCheckPayload{PropertyID: propertyID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskIntegrityCheck, data, asynq.Queue(QueueDefault), asynq.MaxRetry(1)), nil
}

// FormatBusinessDate renders a business date the way payloads carry it.
func FormatBusinessDate(t time.Time) string {
	return t.UTC().Format(businessDateLayout)
}
