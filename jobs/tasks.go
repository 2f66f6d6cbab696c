// Package jobs defines the background tasks and the Asynq worker that runs
// them. Two tasks exist: catalog reconciliation keeps the permission table
// aligned with the desired catalog, and the orphan scan surfaces accounts
// left without a role by interrupted add-user workflows.
package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/meridian-lms/meridian-lms/internal/jobs"
	"github.com/meridian-lms/meridian-lms/internal/rbac"
	"github.com/meridian-lms/meridian-lms/internal/users"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCatalogReconcile re-runs permission catalog reconciliation.
	TaskCatalogReconcile = "catalog:reconcile"
	// TaskOrphanScan looks for accounts created without a role.
	TaskOrphanScan = "users:orphan_scan"
)

// NewCatalogReconcileTask constructs the reconciliation task. It carries no
// payload; the desired catalog is derived from configuration at run time.
func NewCatalogReconcileTask() *asynq.Task {
	return asynq.NewTask(TaskCatalogReconcile, nil)
}

// NewOrphanScanTask constructs the orphan scan task.
func NewOrphanScanTask() *asynq.Task {
	return asynq.NewTask(TaskOrphanScan, nil)
}

// NewCatalogReconcileHandler processes TaskCatalogReconcile tasks.
func NewCatalogReconcileHandler(seeder *rbac.Seeder, metrics *jobmetrics.Metrics, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		tracker := metrics.Track("catalog_reconcile")
		err := seeder.Seed(ctx)
		if err != nil {
			logger.Error("catalog reconcile failed", slog.Any("error", err))
		} else {
			logger.Info("catalog reconciled")
		}
		return tracker.End(err)
	}
}

// NewOrphanScanHandler processes TaskOrphanScan tasks.
func NewOrphanScanHandler(service *users.Service, metrics *jobmetrics.Metrics, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		tracker := metrics.Track("orphan_scan")
		orphans, err := service.ScanOrphans(ctx)
		if err != nil {
			logger.Error("orphan scan failed", slog.Any("error", err))
			return tracker.End(err)
		}
		metrics.SetOrphanAccounts(len(orphans))
		logger.Info("orphan scan finished", slog.Int("orphans", len(orphans)))
		return tracker.End(nil)
	}
}
