package worker

import (
	"context"
	"log/slog"
	"time"
)

// KYCRefresher re-checks pending verifications against the KYC service.
type KYCRefresher interface {
	RefreshPendingKYC(ctx context.Context) error
}

// KYCWorker periodically refreshes pending KYC verifications.
type KYCWorker struct {
	refresher KYCRefresher
	interval  time.Duration
}

// NewKYCWorker creates a new KYCWorker.
func NewKYCWorker(refresher KYCRefresher, interval time.Duration) *KYCWorker {
	return &KYCWorker{
		refresher: refresher,
		interval:  interval,
	}
}

// Run starts the KYC worker loop. It blocks until the context is cancelled.
func (w *KYCWorker) Run(ctx context.Context) {
	slog.Info("KYCWorker: starting")

	// Refresh immediately on startup
	if err := w.refresher.RefreshPendingKYC(ctx); err != nil {
		slog.Error("KYCWorker: initial refresh failed", "error", err)
	} else {
		slog.Info("KYCWorker: initial refresh completed")
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("KYCWorker: shutting down")
			return
		case <-ticker.C:
			if err := w.refresher.RefreshPendingKYC(ctx); err != nil {
				slog.Error("KYCWorker: refresh failed", "error", err)
			} else {
				slog.Info("KYCWorker: refresh completed")
			}
		}
	}
}
