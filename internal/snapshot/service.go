package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dafiprotocol/gateway/internal/portfolio"
)

// OverviewService generates the platform-wide marketplace view.
type OverviewService interface {
	GetPlatformOverview(ctx context.Context) (portfolio.PlatformOverview, error)
}

// Service manages snapshot generation and retrieval.
type Service struct {
	overview OverviewService
	repo     Repository
}

// NewService creates a snapshot service.
func NewService(overview OverviewService, repo Repository) *Service {
	return &Service{overview: overview, repo: repo}
}

// Generate creates a new snapshot for the given entity slug and date.
func (s *Service) Generate(ctx context.Context, slug string, date time.Time) (portfolio.PlatformOverview, error) {
	entityID, err := s.repo.GetEntityID(ctx, slug)
	if err != nil {
		return portfolio.PlatformOverview{}, fmt.Errorf("getting entity: %w", err)
	}

	overview, err := s.overview.GetPlatformOverview(ctx)
	if err != nil {
		return portfolio.PlatformOverview{}, fmt.Errorf("generating platform overview: %w", err)
	}

	data, err := json.Marshal(overview)
	if err != nil {
		return portfolio.PlatformOverview{}, fmt.Errorf("marshaling overview: %w", err)
	}

	if err := s.repo.Save(ctx, entityID, date, data); err != nil {
		return portfolio.PlatformOverview{}, fmt.Errorf("saving snapshot: %w", err)
	}

	return overview, nil
}

// GetLatest retrieves the most recent snapshot for the entity.
func (s *Service) GetLatest(ctx context.Context, slug string) (*Snapshot, error) {
	return s.repo.GetLatest(ctx, slug)
}

// GetByDate retrieves a snapshot for a specific date.
func (s *Service) GetByDate(ctx context.Context, slug string, date time.Time) (*Snapshot, error) {
	return s.repo.GetByDate(ctx, slug, date)
}

// List retrieves recent snapshots.
func (s *Service) List(ctx context.Context, slug string, limit int) ([]Snapshot, error) {
	return s.repo.List(ctx, slug, limit)
}
