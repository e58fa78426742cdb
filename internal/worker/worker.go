package worker

import (
	"context"
	"time"

	"github.com/rookgm/deliverystore/internal/models"
	"go.uber.org/zap"
)

type ReconcileService interface {
	Reconcile(ctx context.Context) (models.Reconciliation, error)
}

// Reconciler is worker compares stored orders with OrderPlaced history
type Reconciler struct {
	svc      ReconcileService
	interval time.Duration
	logger   *zap.Logger
}

// NewReconciler creates new reconciler, zero interval disables it
func NewReconciler(svc ReconcileService, interval time.Duration, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{svc: svc, interval: interval, logger: logger}
}

// Run reconciles on every tick until ctx is done
func (rc *Reconciler) Run(ctx context.Context) {
	if rc.interval <= 0 {
		rc.logger.Info("reconciler is disabled")
		return
	}

	ticker := time.NewTicker(rc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			rc.logger.Debug("reconciler is done")
			return
		case <-ticker.C:
			rc.runOnce(ctx)
		}
	}
}

func (rc *Reconciler) runOnce(ctx context.Context) {
	rec, err := rc.svc.Reconcile(ctx)
	if err != nil {
		rc.logger.Error("error reconcile orders", zap.Error(err))
		return
	}

	if rec.Diverged() {
		rc.logger.Warn("store and chain diverged",
			zap.Uint64s("missing_in_store", rec.MissingInStore),
			zap.Uint64s("missing_on_chain", rec.MissingOnChain),
		)
		return
	}
	rc.logger.Debug("store and chain in sync")
}
