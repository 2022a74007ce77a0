package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/safelink-deal-service/internal/config"
	usecase "github.com/LavaJover/safelink-deal-service/internal/usecase/deal"
	dealdto "github.com/LavaJover/safelink-deal-service/internal/usecase/dto/deal"
)

type BackgroundTasks struct {
	DealUsecase usecase.DealUsecase
	Reconciler  config.Reconciler
}

func NewBackgroundTasks(dealUC usecase.DealUsecase, reconciler config.Reconciler) *BackgroundTasks {
	return &BackgroundTasks{
		DealUsecase: dealUC,
		Reconciler:  reconciler,
	}
}

// Run blocks until ctx is cancelled.
func (bt *BackgroundTasks) Run(ctx context.Context) {
	if !bt.Reconciler.Enabled {
		slog.Info("pending payment reconciler disabled")
		<-ctx.Done()
		return
	}
	bt.startPendingPaymentReconciler(ctx)
}

func (bt *BackgroundTasks) startPendingPaymentReconciler(ctx context.Context) {
	interval := bt.Reconciler.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("pending payment reconciler started", "interval", interval, "min_age", bt.Reconciler.MinAge)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bt.ReconcileOnce(ctx)
		}
	}
}

// ReconcileOnce runs a single reconciliation pass and logs its outcome.
func (bt *BackgroundTasks) ReconcileOnce(ctx context.Context) *dealdto.ReconcileOutput {
	out, err := bt.DealUsecase.ReconcilePendingPayments(ctx, &dealdto.ReconcileInput{
		MinAge:    bt.Reconciler.MinAge,
		BatchSize: bt.Reconciler.BatchSize,
	})
	if err != nil {
		slog.Error("pending payment reconciliation failed", "error", err)
		return nil
	}
	if out.Checked > 0 {
		slog.Info("pending payments reconciled",
			"checked", out.Checked,
			"paid", out.Paid,
			"failed", out.Failed,
		)
	}
	return out
}
