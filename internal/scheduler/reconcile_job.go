package scheduler

import (
	"context"

	"pixel-canvas-system/internal/service"
	"pixel-canvas-system/pkg/logger"

	"github.com/robfig/cron/v3"
)

// ReconcileScheduler periodically recomputes project counters from the fact
// tables.
type ReconcileScheduler struct {
	cron      *cron.Cron
	reconcile *service.ReconcileService
	cronExpr  string
}

func NewReconcileScheduler(reconcile *service.ReconcileService, cronExpr string) *ReconcileScheduler {
	return &ReconcileScheduler{
		cron:      cron.New(cron.WithSeconds()),
		reconcile: reconcile,
		cronExpr:  cronExpr,
	}
}

func (s *ReconcileScheduler) Start() error {
	expr := s.cronExpr
	if expr == "" {
		expr = "0 0 * * * *"
	}
	_, err := s.cron.AddFunc(expr, s.run)
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Info("Counter reconciliation scheduler started")
	return nil
}

func (s *ReconcileScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Counter reconciliation scheduler stopped")
}

func (s *ReconcileScheduler) run() {
	ctx := context.Background()

	logger.Info("Starting counter reconciliation")
	if err := s.reconcile.ReconcileAll(ctx); err != nil {
		logger.Error("Counter reconciliation failed:", err)
		return
	}
	logger.Info("Counter reconciliation completed")
}

// TriggerManual 供管理接口手工触发一轮对账
func (s *ReconcileScheduler) TriggerManual(ctx context.Context) error {
	return s.reconcile.ReconcileAll(ctx)
}
