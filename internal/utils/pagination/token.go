package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// DefaultLimit is used when a caller asks for zero or a negative page size.
const DefaultLimit = 50

// MaxLimit caps page sizes for statement and folio listings.
const MaxLimit = 500

// NormalizeLimit clamps a requested page size into [1, MaxLimit].
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// StatementCursor is the ordering key of folio statements.
type StatementCursor struct {
	TransactionDate   time.Time
	CreatedAt         time.Time
	TransactionNumber int64
}

// EncodeToken creates a cursor positioned after the given statement row.
func EncodeToken(cursor StatementCursor) string {
	tokenStr := fmt.Sprintf("%s|%s|%d", cursor.TransactionDate.Format(timeFormat), cursor.CreatedAt.Format(timeFormat), cursor.TransactionNumber)
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a cursor produced by EncodeToken.
func DecodeToken(token string) (StatementCursor, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return StatementCursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 3)
	if len(parts) != 3 {
		return StatementCursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	transactionDate, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return StatementCursor{}, fmt.Errorf("invalid pagination token format (transaction date parse): %w", err)
	}
	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return StatementCursor{}, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}
	number, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return StatementCursor{}, fmt.Errorf("invalid pagination token format (transaction number parse): %w", err)
	}

	return StatementCursor{TransactionDate: transactionDate, CreatedAt: createdAt, TransactionNumber: number}, nil
}

// EncodeKeysetToken creates a cursor from a creation time and a tie-breaking ID.
func EncodeKeysetToken(createdAt time.Time, id string) string {
	return base64.StdEncoding.EncodeToString([]byte(createdAt.Format(timeFormat) + "|" + id))
}

// DecodeKeysetToken parses a cursor produced by EncodeKeysetToken.
func DecodeKeysetToken(token string) (time.Time, string, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (split)")
	}
	createdAt, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}
	return createdAt, parts[1], nil
}
