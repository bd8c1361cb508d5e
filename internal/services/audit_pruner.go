package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taskdesk/backend/internal/infrastructure/audit"
)

// PrunerConfig controls how frequently old audit records are removed.
type PrunerConfig struct {
	Interval  time.Duration
	Retention time.Duration
}

// AuditPruner periodically drops login records older than the retention
// window so the audit file stays bounded.
type AuditPruner struct {
	store  *audit.Store
	logger *zap.Logger
	cron   *cron.Cron
	cfg    PrunerConfig
}

func NewAuditPruner(store *audit.Store, logger *zap.Logger, cfg PrunerConfig) *AuditPruner {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 30 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ap := &AuditPruner{
		store:  store,
		logger: logger,
		cfg:    cfg,
		cron:   cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = ap.cron.AddFunc(schedule, func() {
		if err := ap.PruneOnce(); err != nil {
			ap.logger.Error("audit prune failed", zap.Error(err))
		}
	})

	return ap
}

// Start launches the cron scheduler.
func (ap *AuditPruner) Start() {
	if ap == nil || ap.cron == nil {
		return
	}
	ap.cron.Start()
	ap.logger.Info("audit pruner started")
}

// Stop gracefully stops the scheduler.
func (ap *AuditPruner) Stop(ctx context.Context) {
	if ap == nil || ap.cron == nil {
		return
	}
	stopCtx := ap.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	ap.logger.Info("audit pruner stopped")
}

// PruneOnce removes records outside the retention window.
func (ap *AuditPruner) PruneOnce() error {
	if ap == nil || ap.store == nil {
		return nil
	}
	removed, err := ap.store.Prune(time.Now().Add(-ap.cfg.Retention))
	if err != nil {
		return err
	}
	if removed > 0 {
		ap.logger.Info("pruned audit records", zap.Int("removed", removed))
	}
	return nil
}
