package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/folio_ledger/internal/apperrors"
	"github.com/SscSPs/folio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/folio_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/folio_ledger/internal/models"
	"github.com/SscSPs/folio_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxDirectoryRepository reads the guests and companies tables.
type PgxDirectoryRepository struct {
	BaseRepository
}

func newPgxDirectoryRepository(pool *pgxpool.Pool) portsrepo.BillingPartyDirectory {
	return &PgxDirectoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BillingPartyDirectory = (*PgxDirectoryRepository)(nil)

// FindGuest looks up a guest by ID.
func (r *PgxDirectoryRepository) FindGuest(ctx context.Context, guestID string) (*domain.BillingParty, error) {
	var m models.BillingParty
	err := r.Pool.QueryRow(ctx, `SELECT guest_id, display_name FROM guests WHERE guest_id = $1`, guestID).
		Scan(&m.ID, &m.DisplayName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("guest", guestID)
	}
	if err != nil {
		return nil, mapPgError(err, "find guest")
	}
	party := mapping.ToDomainBillingParty(domain.FolioTypeGuest, m)
	return &party, nil
}

// FindCompany looks up a company and its city-ledger payment method.
func (r *PgxDirectoryRepository) FindCompany(ctx context.Context, companyID string) (*domain.BillingParty, error) {
	var m models.BillingParty
	err := r.Pool.QueryRow(ctx, `SELECT company_id, display_name, city_ledger_method FROM companies WHERE company_id = $1`, companyID).
		Scan(&m.ID, &m.DisplayName, &m.CityLedgerMethod)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("company", companyID)
	}
	if err != nil {
		return nil, mapPgError(err, "find company")
	}
	party := mapping.ToDomainBillingParty(domain.FolioTypeCompany, m)
	return &party, nil
}
