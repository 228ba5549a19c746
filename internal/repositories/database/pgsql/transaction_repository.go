package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/folio_ledger/internal/apperrors"
	"github.com/SscSPs/folio_ledger/internal/core/domain"
	"github.com/SscSPs/folio_ledger/internal/models"
	"github.com/SscSPs/folio_ledger/internal/utils/mapping"
	"github.com/SscSPs/folio_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const transactionColumns = `
	transaction_id, folio_id, property_id, transaction_number, transaction_code,
	transaction_type, category, description,
	amount, tax_amount, service_charge_amount, discount_amount, total_amount, net_amount,
	assigned_amount, unassigned_amount, assignment_history, balance,
	currency_code, exchange_rate, details, status,
	is_voided, voided_at, voided_by, void_reason, posting_date, transaction_date,
	created_at, created_by, last_updated_at, last_updated_by, version`

const statementOrder = ` ORDER BY transaction_date, created_at, transaction_number`

func scanTransaction(row pgx.Row) (domain.FolioTransaction, error) {
	var m models.FolioTransaction
	err := row.Scan(
		&m.TransactionID, &m.FolioID, &m.PropertyID, &m.TransactionNumber, &m.TransactionCode,
		&m.TransactionType, &m.Category, &m.Description,
		&m.Amount, &m.TaxAmount, &m.ServiceChargeAmount, &m.DiscountAmount, &m.TotalAmount, &m.NetAmount,
		&m.AssignedAmount, &m.UnassignedAmount, &m.AssignmentHistory, &m.Balance,
		&m.CurrencyCode, &m.ExchangeRate, &m.Details, &m.Status,
		&m.IsVoided, &m.VoidedAt, &m.VoidedBy, &m.VoidReason, &m.PostingDate, &m.TransactionDate,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy, &m.Version,
	)
	if err != nil {
		return domain.FolioTransaction{}, err
	}
	return mapping.ToDomainTransaction(m)
}

func (r *PgxLedgerRepository) queryTransactions(ctx context.Context, op, query string, args ...any) ([]domain.FolioTransaction, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, op)
	}
	defer rows.Close()

	var txns []domain.FolioTransaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, mapPgError(err, op)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, op)
	}
	return txns, nil
}

// FindTransactionByID retrieves a folio transaction by its ID.
func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.FolioTransaction, error) {
	txn, err := scanTransaction(r.q.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM folio_transactions WHERE transaction_id = $1`, transactionID))
	if err != nil {
		return nil, mapPgError(err, "find transaction "+transactionID)
	}
	return &txn, nil
}

// FindTransactionsByIDsForUpdate locks the rows in ID order so concurrent callers queue up consistently.
func (r *PgxLedgerRepository) FindTransactionsByIDsForUpdate(ctx context.Context, transactionIDs []string) (map[string]domain.FolioTransaction, error) {
	result := make(map[string]domain.FolioTransaction, len(transactionIDs))
	if len(transactionIDs) == 0 {
		return result, nil
	}
	txns, err := r.queryTransactions(ctx, "lock transactions",
		`SELECT `+transactionColumns+` FROM folio_transactions
		WHERE transaction_id = ANY($1) ORDER BY transaction_id FOR UPDATE`, transactionIDs)
	if err != nil {
		return nil, err
	}
	for _, txn := range txns {
		result[txn.TransactionID] = txn
	}
	return result, nil
}

// ListTransactionsByFolio returns the full history of a folio.
func (r *PgxLedgerRepository) ListTransactionsByFolio(ctx context.Context, folioID string) ([]domain.FolioTransaction, error) {
	return r.queryTransactions(ctx, "list folio transactions",
		`SELECT `+transactionColumns+` FROM folio_transactions WHERE folio_id = $1`+statementOrder, folioID)
}

// ListFolioStatement returns one statement page, keyed on (transaction_date, created_at, transaction_number).
func (r *PgxLedgerRepository) ListFolioStatement(ctx context.Context, folioID string, includeVoided bool, limit int, nextToken *string) ([]domain.FolioTransaction, *string, error) {
	args := []any{folioID}
	query := `SELECT ` + transactionColumns + ` FROM folio_transactions WHERE folio_id = $1`
	if !includeVoided {
		query += " AND NOT is_voided"
	}
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		args = append(args, cursor.TransactionDate, cursor.CreatedAt, cursor.TransactionNumber)
		query += fmt.Sprintf(" AND (transaction_date, created_at, transaction_number) > ($%d, $%d, $%d)", len(args)-2, len(args)-1, len(args))
	}
	fetchLimit := limit + 1
	args = append(args, fetchLimit)
	query += statementOrder + fmt.Sprintf(" LIMIT $%d", len(args))

	txns, err := r.queryTransactions(ctx, "list folio statement", query, args...)
	if err != nil {
		return nil, nil, err
	}
	var next *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		token := pagination.EncodeToken(pagination.StatementCursor{
			TransactionDate:   last.TransactionDate,
			CreatedAt:         last.CreatedAt,
			TransactionNumber: last.TransactionNumber,
		})
		next = &token
	}
	return txns, next, nil
}

// FindTransactionsAssignedFromPayment locks every transaction whose history names the payment.
// The containment test is served by the GIN index on assignment_history.
func (r *PgxLedgerRepository) FindTransactionsAssignedFromPayment(ctx context.Context, paymentTransactionID string) ([]domain.FolioTransaction, error) {
	return r.queryTransactions(ctx, "find assigned transactions",
		`SELECT `+transactionColumns+` FROM folio_transactions
		WHERE assignment_history @> jsonb_build_array(jsonb_build_object('paymentTransactionId', $1::text))
		ORDER BY transaction_id FOR UPDATE`, paymentTransactionID)
}

// ListPendingTransactions lists pending postings dated before cutoff.
func (r *PgxLedgerRepository) ListPendingTransactions(ctx context.Context, propertyID string, cutoff time.Time) ([]domain.FolioTransaction, error) {
	return r.queryTransactions(ctx, "list pending transactions",
		`SELECT `+transactionColumns+` FROM folio_transactions
		WHERE property_id = $1 AND status = $2 AND transaction_date < $3`+statementOrder,
		propertyID, string(domain.StatusPending), cutoff)
}

// InsertTransaction inserts a new folio transaction.
func (r *PgxLedgerRepository) InsertTransaction(ctx context.Context, txn domain.FolioTransaction) error {
	m, err := mapping.ToModelTransaction(txn)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode transaction "+txn.TransactionID, err)
	}
	_, err = r.q.Exec(ctx, `INSERT INTO folio_transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
		        $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33)`,
		m.TransactionID, m.FolioID, m.PropertyID, m.TransactionNumber, m.TransactionCode,
		m.TransactionType, m.Category, m.Description,
		m.Amount, m.TaxAmount, m.ServiceChargeAmount, m.DiscountAmount, m.TotalAmount, m.NetAmount,
		m.AssignedAmount, m.UnassignedAmount, m.AssignmentHistory, m.Balance,
		m.CurrencyCode, m.ExchangeRate, m.Details, m.Status,
		m.IsVoided, m.VoidedAt, m.VoidedBy, m.VoidReason, m.PostingDate, m.TransactionDate,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.Version,
	)
	if err != nil {
		return mapPgError(err, "insert transaction "+m.TransactionID)
	}
	return nil
}

// UpdateTransaction persists the mutable fields of a folio transaction.
func (r *PgxLedgerRepository) UpdateTransaction(ctx context.Context, txn domain.FolioTransaction) error {
	m, err := mapping.ToModelTransaction(txn)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode transaction "+txn.TransactionID, err)
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE folio_transactions SET
			amount = $2, tax_amount = $3, service_charge_amount = $4, discount_amount = $5,
			total_amount = $6, net_amount = $7,
			assigned_amount = $8, unassigned_amount = $9, assignment_history = $10, balance = $11,
			status = $12, is_voided = $13, voided_at = $14, voided_by = $15, void_reason = $16,
			posting_date = $17, last_updated_at = $18, last_updated_by = $19, version = $20
		WHERE transaction_id = $1`,
		m.TransactionID,
		m.Amount, m.TaxAmount, m.ServiceChargeAmount, m.DiscountAmount,
		m.TotalAmount, m.NetAmount,
		m.AssignedAmount, m.UnassignedAmount, m.AssignmentHistory, m.Balance,
		m.Status, m.IsVoided, m.VoidedAt, m.VoidedBy, m.VoidReason,
		m.PostingDate, m.LastUpdatedAt, m.LastUpdatedBy, m.Version,
	)
	if err != nil {
		return mapPgError(err, "update transaction "+m.TransactionID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("transaction", m.TransactionID)
	}
	return nil
}

// ShiftBalancesAfter repairs the running-balance snapshots posted after a changed transaction.
func (r *PgxLedgerRepository) ShiftBalancesAfter(ctx context.Context, folioID string, after time.Time, excludeID string, delta decimal.Decimal) (int, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE folio_transactions
		SET balance = balance + $4, version = version + 1
		WHERE folio_id = $1 AND created_at > $2 AND transaction_id <> $3 AND NOT is_voided`,
		folioID, after, excludeID, delta)
	if err != nil {
		return 0, mapPgError(err, "repair balance snapshots")
	}
	return int(tag.RowsAffected()), nil
}
