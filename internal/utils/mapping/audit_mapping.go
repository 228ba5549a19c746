package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/folio_ledger/internal/core/domain"
	"github.com/SscSPs/folio_ledger/internal/models"
	"github.com/google/uuid"
)

// ToModelAuditLog converts an audit entry into a row with a fresh ID.
func ToModelAuditLog(e domain.AuditEntry) (models.AuditLog, error) {
	changes, err := json.Marshal(orEmpty(e.Changes))
	if err != nil {
		return models.AuditLog{}, fmt.Errorf("encode audit changes: %w", err)
	}
	meta, err := json.Marshal(orEmpty(e.Meta))
	if err != nil {
		return models.AuditLog{}, fmt.Errorf("encode audit meta: %w", err)
	}
	return models.AuditLog{
		AuditLogID:  uuid.NewString(),
		ActorID:     e.ActorID,
		Action:      e.Action,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Description: e.Description,
		Changes:     changes,
		Meta:        meta,
		HotelID:     e.HotelID,
		Context:     e.Context,
		OccurredAt:  e.OccurredAt,
	}, nil
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

// ToDomainBillingParty converts a directory row.
func ToDomainBillingParty(kind domain.FolioType, m models.BillingParty) domain.BillingParty {
	party := domain.BillingParty{
		Ref:         domain.BillingPartyRef{Type: kind, ID: m.ID},
		DisplayName: m.DisplayName,
	}
	if m.CityLedgerMethod != nil {
		party.CityLedgerMethod = domain.PaymentMethod(*m.CityLedgerMethod)
	}
	return party
}
