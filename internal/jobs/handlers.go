package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	portssvc "github.com/SscSPs/folio_ledger/internal/core/ports/services"
	"github.com/SscSPs/folio_ledger/internal/middleware"
	"github.com/hibiken/asynq"
)

// NightAuditJob posts the pending transactions of a business date.
type NightAuditJob struct {
	Service portssvc.NightAuditSvc
	Logger  *slog.Logger
	clock   func() time.Time
}

// NewNightAuditJob constructs the job handler.
func NewNightAuditJob(service portssvc.NightAuditSvc, logger *slog.Logger) *NightAuditJob {
	return &NightAuditJob{Service: service, Logger: logger, clock: func() time.Time { return time.Now().UTC() }}
}

// WithClock overrides the internal clock for deterministic tests.
func (j *NightAuditJob) WithClock(clock func() time.Time) {
	if clock != nil {
		j.clock = clock
	}
}

// Handle executes the night audit.
func (j *NightAuditJob) Handle(ctx context.Context, task *asynq.Task) error {
	var payload NightAuditPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil || payload.PropertyID == "" {
		return fmt.Errorf("night audit: bad payload: %w", asynq.SkipRetry)
	}
	businessDate, err := j.resolveBusinessDate(payload.BusinessDate)
	if err != nil {
		return fmt.Errorf("night audit: %v: %w", err, asynq.SkipRetry)
	}
	actorID := payload.ActorID
	if actorID == "" {
		actorID = systemActorID
	}

	logger := jobLogger(j.Logger, TaskNightAudit).With(
		slog.String("property_id", payload.PropertyID),
		slog.String("business_date", FormatBusinessDate(businessDate)),
	)
	ctx = middleware.WithLogger(middleware.WithActorID(ctx, actorID), logger)

	start := time.Now()
	result, err := j.Service.RunNightAudit(ctx, payload.PropertyID, businessDate, actorID)
	if err != nil {
		logger.Error("Night audit failed", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Night audit completed",
		slog.Int("posted", result.PostedCount),
		slog.Int("folios_touched", result.FoliosTouched),
		slog.Duration("duration", time.Since(start)),
	)
	if len(result.FailedPostings) > 0 {
		logger.Warn("Night audit left transactions pending", slog.Any("transaction_ids", result.FailedPostings))
	}
	return nil
}

// resolveBusinessDate defaults to yesterday, the day a post-midnight audit closes.
func (j *NightAuditJob) resolveBusinessDate(raw string) (time.Time, error) {
	if raw == "" {
		now := j.clock().UTC()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return today.AddDate(0, 0, -1), nil
	}
	date, err := time.Parse(businessDateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid business date %q", raw)
	}
	return date, nil
}

// IntegrityCheckJob verifies the stored balances of every open folio of a property.
type IntegrityCheckJob struct {
	Service portssvc.NightAuditSvc
	Logger  *slog.Logger
}

// NewIntegrityCheckJob constructs the job handler.
func NewIntegrityCheckJob(service portssvc.NightAuditSvc, logger *slog.Logger) *IntegrityCheckJob {
	return &IntegrityCheckJob{Service: service, Logger: logger}
}

// Handle runs the check. Discrepancies are reported, never repaired here.
func (j *IntegrityCheckJob) Handle(ctx context.Context, task *asynq.Task) error {
	var payload IntegrityCheckPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil || payload.PropertyID == "" {
		return fmt.Errorf("integrity check: bad payload: %w", asynq.SkipRetry)
	}
	logger := jobLogger(j.Logger, TaskIntegrityCheck).With(slog.String("property_id", payload.PropertyID))
	ctx = middleware.WithLogger(ctx, logger)

	results, err := j.Service.VerifyProperty(ctx, payload.PropertyID)
	if err != nil {
		logger.Error("Integrity check failed", slog.String("error", err.Error()))
		return err
	}

	inconsistent := 0
	for _, v := range results {
		if v.Consistent() {
			continue
		}
		inconsistent++
		logger.Error("Folio balance discrepancy",
			slog.String("folio_id", v.FolioID),
			slog.String("stored_balance", v.StoredBalance.String()),
			slog.String("computed_balance", v.ComputedBalance.String()),
			slog.Int("snapshot_discrepancies", len(v.Discrepancies)),
		)
	}
	logger.Info("Integrity check completed", slog.Int("folios", len(results)), slog.Int("inconsistent", inconsistent))
	return nil
}

func jobLogger(logger *slog.Logger, task string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(slog.String("job", task))
}
