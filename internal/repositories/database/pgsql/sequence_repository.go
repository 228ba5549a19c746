package pgsql

import (
	"context"
)

// NextSequenceValue increments the counter row, creating it at 1. The row lock
// is held until the unit of work ends, so numbers follow commit order.
func (r *PgxLedgerRepository) NextSequenceValue(ctx context.Context, propertyID, name string) (int64, error) {
	var value int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO folio_sequences (property_id, sequence_name, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (property_id, sequence_name)
		DO UPDATE SET last_value = folio_sequences.last_value + 1
		RETURNING last_value`, propertyID, name).Scan(&value)
	if err != nil {
		return 0, mapPgError(err, "advance sequence "+name)
	}
	return value, nil
}

// LockSequence creates the counter at 0 when missing and locks it.
func (r *PgxLedgerRepository) LockSequence(ctx context.Context, propertyID, name string) (int64, error) {
	if _, err := r.q.Exec(ctx, `
		INSERT INTO folio_sequences (property_id, sequence_name, last_value)
		VALUES ($1, $2, 0)
		ON CONFLICT (property_id, sequence_name) DO NOTHING`, propertyID, name); err != nil {
		return 0, mapPgError(err, "create sequence "+name)
	}
	var value int64
	err := r.q.QueryRow(ctx, `
		SELECT last_value FROM folio_sequences
		WHERE property_id = $1 AND sequence_name = $2
		FOR UPDATE`, propertyID, name).Scan(&value)
	if err != nil {
		return 0, mapPgError(err, "lock sequence "+name)
	}
	return value, nil
}

// SetSequenceValue stores the value drawn under LockSequence.
func (r *PgxLedgerRepository) SetSequenceValue(ctx context.Context, propertyID, name string, value int64) error {
	_, err := r.q.Exec(ctx, `
		UPDATE folio_sequences SET last_value = $3
		WHERE property_id = $1 AND sequence_name = $2`, propertyID, name, value)
	if err != nil {
		return mapPgError(err, "set sequence "+name)
	}
	return nil
}
