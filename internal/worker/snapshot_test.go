package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dafiprotocol/gateway/internal/portfolio"
)

type mockGenerator struct {
	callCount atomic.Int32
	err       error
}

func (m *mockGenerator) Generate(ctx context.Context, slug string, date time.Time) (portfolio.PlatformOverview, error) {
	m.callCount.Add(1)
	if m.err != nil {
		return portfolio.PlatformOverview{}, m.err
	}
	return portfolio.PlatformOverview{AssetCount: 3}, nil
}

type mockHook struct {
	callCount atomic.Int32
	err       error
}

func (m *mockHook) Export(ctx context.Context, overview portfolio.PlatformOverview) error {
	m.callCount.Add(1)
	return m.err
}

func TestSnapshotWorker_RunsImmediately(t *testing.T) {
	generator := &mockGenerator{}
	w := NewSnapshotWorker(generator, "platform", time.Hour, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	w.Run(ctx)

	if generator.callCount.Load() < 1 {
		t.Error("expected at least one generation on startup")
	}
}

func TestSnapshotWorker_CallsHookAfterGeneration(t *testing.T) {
	generator := &mockGenerator{}
	hook := &mockHook{}
	w := NewSnapshotWorker(generator, "platform", time.Hour, hook)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	w.Run(ctx)

	if hook.callCount.Load() < 1 {
		t.Error("expected hook to run after generation")
	}
}

func TestSnapshotWorker_SkipsHookOnGenerationFailure(t *testing.T) {
	generator := &mockGenerator{err: errors.New("overview unavailable")}
	hook := &mockHook{}
	w := NewSnapshotWorker(generator, "platform", time.Hour, hook)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	w.Run(ctx)

	if hook.callCount.Load() != 0 {
		t.Errorf("expected hook not to run, got %d calls", hook.callCount.Load())
	}
}

func TestSnapshotWorker_TicksOnInterval(t *testing.T) {
	generator := &mockGenerator{}
	w := NewSnapshotWorker(generator, "platform", 50*time.Millisecond, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 180*time.Millisecond)
	defer cancel()

	w.Run(ctx)

	if generator.callCount.Load() < 2 {
		t.Errorf("expected repeated generations, got %d", generator.callCount.Load())
	}
}

func TestUTCDate(t *testing.T) {
	d := utcDate()
	if d.Hour() != 0 || d.Minute() != 0 || d.Second() != 0 {
		t.Errorf("expected midnight, got %v", d)
	}
	if d.Location() != time.UTC {
		t.Errorf("expected UTC, got %v", d.Location())
	}
}
