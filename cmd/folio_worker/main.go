package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/SscSPs/folio_ledger/internal/core/services"
	"github.com/SscSPs/folio_ledger/internal/jobs"
	"github.com/SscSPs/folio_ledger/internal/platform/cache"
	"github.com/SscSPs/folio_ledger/internal/platform/config"
	"github.com/SscSPs/folio_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/folio_ledger/pkg/database"
	"github.com/hibiken/asynq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.RedisAddr == "" {
		logger.Error("REDIS_ADDR is required to run the worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	repos := pgsql.NewRepositoryProvider(dbPool, cfg.DBLockTimeout)
	if redisClient, err := cache.NewRedisClient(ctx, cfg.RedisAddr); err != nil {
		logger.Warn("Directory cache disabled", slog.String("error", err.Error()))
	} else {
		defer redisClient.Close()
		repos.DirectoryRepo = cache.NewDirectoryCache(repos.DirectoryRepo, redisClient, cfg.DirectoryCacheTTL)
	}
	serviceContainer := services.NewServiceContainer(cfg, repos)

	nightAudit := jobs.NewNightAuditJob(serviceContainer.NightAudit, logger)
	integrityCheck := jobs.NewIntegrityCheckJob(serviceContainer.NightAudit, logger)

	cron, err := scheduleProperties(cfg)
	if err != nil {
		logger.Error("Failed to build job schedule", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if len(cron) == 0 {
		logger.Warn("PROPERTY_IDS not set, worker will only process enqueued jobs")
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskNightAudit, Handler: nightAudit.Handle},
			{Type: jobs.TaskIntegrityCheck, Handler: integrityCheck.Handle},
		},
		Cron: cron,
	})
	if err != nil {
		logger.Error("Failed to create worker", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Worker shut down")
}

// scheduleProperties registers a night audit and an integrity check per property.
func scheduleProperties(cfg *config.Config) ([]jobs.CronRegistration, error) {
	var cron []jobs.CronRegistration
	for _, propertyID := range cfg.PropertyIDs {
		audit, err := jobs.NewNightAuditTask(jobs.NightAuditPayload{PropertyID: propertyID})
		if err != nil {
			return nil, err
		}
		check, err := jobs.NewIntegrityCheckTask(propertyID)
		if err != nil {
			return nil, err
		}
		cron = append(cron,
			jobs.CronRegistration{Spec: cfg.NightAuditCron, Task: audit},
			jobs.CronRegistration{Spec: cfg.IntegrityCheckCron, Task: check},
		)
	}
	return cron, nil
}
