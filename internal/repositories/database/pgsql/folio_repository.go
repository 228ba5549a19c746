package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/folio_ledger/internal/apperrors"
	"github.com/SscSPs/folio_ledger/internal/core/domain"
	"github.com/SscSPs/folio_ledger/internal/models"
	"github.com/SscSPs/folio_ledger/internal/utils/mapping"
	"github.com/SscSPs/folio_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

const folioColumns = `
	folio_id, property_id, folio_type, guest_id, company_id, reservation_id, folio_number,
	status, settlement_status, workflow_status,
	total_charges, total_taxes, total_service_charges, total_discounts,
	total_payments, total_adjustments, total_refunds, balance,
	currency_code, exchange_rate, credit_limit, print_count, last_print_date,
	closed_at, closed_by,
	created_at, created_by, last_updated_at, last_updated_by, version`

func scanFolio(row pgx.Row) (domain.Folio, error) {
	var m models.Folio
	err := row.Scan(
		&m.FolioID, &m.PropertyID, &m.FolioType, &m.GuestID, &m.CompanyID, &m.ReservationID, &m.FolioNumber,
		&m.Status, &m.SettlementStatus, &m.WorkflowStatus,
		&m.TotalCharges, &m.TotalTaxes, &m.TotalServiceCharges, &m.TotalDiscounts,
		&m.TotalPayments, &m.TotalAdjustments, &m.TotalRefunds, &m.Balance,
		&m.CurrencyCode, &m.ExchangeRate, &m.CreditLimit, &m.PrintCount, &m.LastPrintDate,
		&m.ClosedAt, &m.ClosedBy,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy, &m.Version,
	)
	if err != nil {
		return domain.Folio{}, err
	}
	return mapping.ToDomainFolio(m), nil
}

func (r *PgxLedgerRepository) findFolio(ctx context.Context, query string, args ...any) (*domain.Folio, error) {
	folio, err := scanFolio(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapPgError(err, "find folio")
	}
	return &folio, nil
}

// FindFolioByID retrieves a folio by its ID.
func (r *PgxLedgerRepository) FindFolioByID(ctx context.Context, folioID string) (*domain.Folio, error) {
	return r.findFolio(ctx, `SELECT `+folioColumns+` FROM folios WHERE folio_id = $1`, folioID)
}

// FindFolioByIDForUpdate retrieves a folio and locks its row.
func (r *PgxLedgerRepository) FindFolioByIDForUpdate(ctx context.Context, folioID string) (*domain.Folio, error) {
	return r.findFolio(ctx, `SELECT `+folioColumns+` FROM folios WHERE folio_id = $1 FOR UPDATE`, folioID)
}

// FindOpenFolioForParty finds the open folio of a guest or company at a property.
func (r *PgxLedgerRepository) FindOpenFolioForParty(ctx context.Context, propertyID string, party domain.BillingPartyRef) (*domain.Folio, error) {
	partyColumn := "guest_id"
	if party.Type == domain.FolioTypeCompany {
		partyColumn = "company_id"
	}
	query := fmt.Sprintf(`SELECT %s FROM folios
		WHERE property_id = $1 AND folio_type = $2 AND %s = $3 AND status = $4`, folioColumns, partyColumn)
	return r.findFolio(ctx, query, propertyID, string(party.Type), party.ID, string(domain.FolioOpen))
}

// ListFolios lists folios of a property by (created_at, folio_id) with keyset pagination.
func (r *PgxLedgerRepository) ListFolios(ctx context.Context, propertyID string, status *domain.FolioStatus, limit int, nextToken *string) ([]domain.Folio, *string, error) {
	args := []any{propertyID}
	query := `SELECT ` + folioColumns + ` FROM folios WHERE property_id = $1`
	if status != nil {
		args = append(args, string(*status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if nextToken != nil && *nextToken != "" {
		createdAt, folioID, err := pagination.DecodeKeysetToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		args = append(args, createdAt, folioID)
		query += fmt.Sprintf(" AND (created_at, folio_id) > ($%d, $%d)", len(args)-1, len(args))
	}
	// Fetch one extra row to know whether another page exists.
	fetchLimit := limit + 1
	args = append(args, fetchLimit)
	query += fmt.Sprintf(" ORDER BY created_at, folio_id LIMIT $%d", len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, mapPgError(err, "list folios")
	}
	defer rows.Close()

	folios := make([]domain.Folio, 0, limit)
	for rows.Next() {
		folio, err := scanFolio(rows)
		if err != nil {
			return nil, nil, mapPgError(err, "scan folio")
		}
		folios = append(folios, folio)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, mapPgError(err, "iterate folios")
	}

	var next *string
	if len(folios) > limit {
		folios = folios[:limit]
		last := folios[len(folios)-1]
		token := pagination.EncodeKeysetToken(last.CreatedAt, last.FolioID)
		next = &token
	}
	return folios, next, nil
}

// InsertFolio inserts a new folio. A second open folio for the same party violates
// the partial unique index and surfaces as ErrDuplicate.
func (r *PgxLedgerRepository) InsertFolio(ctx context.Context, folio domain.Folio) error {
	m := mapping.ToModelFolio(folio)
	_, err := r.q.Exec(ctx, `INSERT INTO folios (`+folioColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
		        $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30)`,
		m.FolioID, m.PropertyID, m.FolioType, m.GuestID, m.CompanyID, m.ReservationID, m.FolioNumber,
		m.Status, m.SettlementStatus, m.WorkflowStatus,
		m.TotalCharges, m.TotalTaxes, m.TotalServiceCharges, m.TotalDiscounts,
		m.TotalPayments, m.TotalAdjustments, m.TotalRefunds, m.Balance,
		m.CurrencyCode, m.ExchangeRate, m.CreditLimit, m.PrintCount, m.LastPrintDate,
		m.ClosedAt, m.ClosedBy,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.Version,
	)
	if err != nil {
		return mapPgError(err, "insert folio "+m.FolioID)
	}
	return nil
}

// UpdateFolio persists the mutable fields of a folio.
func (r *PgxLedgerRepository) UpdateFolio(ctx context.Context, folio domain.Folio) error {
	m := mapping.ToModelFolio(folio)
	tag, err := r.q.Exec(ctx, `
		UPDATE folios SET
			status = $2, settlement_status = $3, workflow_status = $4,
			total_charges = $5, total_taxes = $6, total_service_charges = $7, total_discounts = $8,
			total_payments = $9, total_adjustments = $10, total_refunds = $11, balance = $12,
			credit_limit = $13, print_count = $14, last_print_date = $15,
			closed_at = $16, closed_by = $17,
			last_updated_at = $18, last_updated_by = $19, version = $20
		WHERE folio_id = $1`,
		m.FolioID,
		m.Status, m.SettlementStatus, m.WorkflowStatus,
		m.TotalCharges, m.TotalTaxes, m.TotalServiceCharges, m.TotalDiscounts,
		m.TotalPayments, m.TotalAdjustments, m.TotalRefunds, m.Balance,
		m.CreditLimit, m.PrintCount, m.LastPrintDate,
		m.ClosedAt, m.ClosedBy,
		m.LastUpdatedAt, m.LastUpdatedBy, m.Version,
	)
	if err != nil {
		return mapPgError(err, "update folio "+m.FolioID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("folio", m.FolioID)
	}
	return nil
}
