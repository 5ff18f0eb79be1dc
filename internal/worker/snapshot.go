package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/dafiprotocol/gateway/internal/portfolio"
)

// SnapshotGenerator defines the interface for generating platform snapshots.
type SnapshotGenerator interface {
	Generate(ctx context.Context, slug string, date time.Time) (portfolio.PlatformOverview, error)
}

// AfterSnapshotHook is called after each successful snapshot generation.
type AfterSnapshotHook interface {
	Export(ctx context.Context, overview portfolio.PlatformOverview) error
}

// SnapshotWorker periodically generates platform snapshots.
type SnapshotWorker struct {
	generator SnapshotGenerator
	slug      string
	interval  time.Duration
	hook      AfterSnapshotHook // optional
}

// NewSnapshotWorker creates a snapshot worker with an optional post-generation hook.
func NewSnapshotWorker(generator SnapshotGenerator, slug string, interval time.Duration, hook AfterSnapshotHook) *SnapshotWorker {
	return &SnapshotWorker{
		generator: generator,
		slug:      slug,
		interval:  interval,
		hook:      hook,
	}
}

func (w *SnapshotWorker) generate(ctx context.Context) {
	overview, err := w.generator.Generate(ctx, w.slug, utcDate())
	if err != nil {
		slog.Error("SnapshotWorker: generation failed", "error", err)
		return
	}
	slog.Info("SnapshotWorker: generation completed", "assets", overview.AssetCount)

	if w.hook == nil {
		return
	}
	if err := w.hook.Export(ctx, overview); err != nil {
		slog.Error("SnapshotWorker: export hook failed", "error", err)
	} else {
		slog.Info("SnapshotWorker: export hook completed")
	}
}

// utcDate returns the current date normalized to midnight UTC.
func utcDate() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Run starts the snapshot worker loop. It blocks until the context is cancelled.
func (w *SnapshotWorker) Run(ctx context.Context) {
	slog.Info("SnapshotWorker: starting")

	// Generate immediately on startup
	w.generate(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("SnapshotWorker: shutting down")
			return
		case <-ticker.C:
			w.generate(ctx)
		}
	}
}
