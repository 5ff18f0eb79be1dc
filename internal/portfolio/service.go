package portfolio

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/dafiprotocol/gateway/internal/domain"
)

// Contracts is the slice of the interaction layer used for aggregation.
type Contracts interface {
	GetAssetDetails(ctx context.Context, assetID string) (*domain.Asset, error)
	GetAvailableAssets(ctx context.Context) ([]domain.Asset, error)
	GetInvestmentsByAsset(ctx context.Context, assetID string) ([]domain.Investment, error)
	GetInvestmentsByInvestor(ctx context.Context, investor string) ([]domain.Investment, error)
	GetReturnsByAsset(ctx context.Context, assetID string) ([]domain.Return, error)
}

// Position is one asset an investor holds a stake in, with its investments
// and distributions.
type Position struct {
	Asset            *domain.Asset       `json:"asset"`
	Investments      []domain.Investment `json:"investments"`
	Returns          []domain.Return     `json:"returns"`
	TotalInvested    decimal.Decimal     `json:"totalInvested"`
	TotalShares      int64               `json:"totalShares"`
	TotalDistributed decimal.Decimal     `json:"totalDistributed"`
}

// InvestorPortfolio is the dashboard view for one investor.
type InvestorPortfolio struct {
	Investor  string          `json:"investor"`
	Positions []Position      `json:"positions"`
	Totals    PortfolioTotals `json:"totals"`
}

// PortfolioTotals aggregates across all positions.
type PortfolioTotals struct {
	Invested          decimal.Decimal `json:"invested"`
	Distributed       decimal.Decimal `json:"distributed"`
	ActiveInvestments int             `json:"activeInvestments"`
	AssetCount        int             `json:"assetCount"`
}

// Service aggregates ledger data into investor and platform views.
type Service struct {
	contracts Contracts
}

// NewService creates a portfolio service.
func NewService(contracts Contracts) *Service {
	if contracts == nil {
		panic("portfolio.NewService: contracts is nil")
	}
	return &Service{contracts: contracts}
}

// GetInvestorPortfolio builds the dashboard view for an investor: their
// investments grouped per asset, joined with that asset's distributions.
// Position order follows the ledger's investment order (first appearance).
func (s *Service) GetInvestorPortfolio(ctx context.Context, investor string) (InvestorPortfolio, error) {
	investments, err := s.contracts.GetInvestmentsByInvestor(ctx, investor)
	if err != nil {
		return InvestorPortfolio{}, fmt.Errorf("fetching investments for %s: %w", investor, err)
	}

	byAsset := make(map[string]*Position)
	var order []string
	for _, inv := range investments {
		pos, ok := byAsset[inv.AssetID]
		if !ok {
			pos = &Position{}
			byAsset[inv.AssetID] = pos
			order = append(order, inv.AssetID)
		}
		pos.Investments = append(pos.Investments, inv)
		pos.TotalInvested = pos.TotalInvested.Add(domain.SafeParse(inv.Amount))
		pos.TotalShares += inv.Shares
	}

	positions := make([]Position, 0, len(order))
	for _, assetID := range order {
		pos := byAsset[assetID]

		asset, err := s.contracts.GetAssetDetails(ctx, assetID)
		if err != nil {
			slog.Warn("failed to fetch asset for portfolio", "asset", assetID, "error", err)
		}
		pos.Asset = asset

		returns, err := s.contracts.GetReturnsByAsset(ctx, assetID)
		if err != nil {
			return InvestorPortfolio{}, fmt.Errorf("fetching returns for %s: %w", assetID, err)
		}
		pos.Returns = returns
		for _, r := range returns {
			pos.TotalDistributed = pos.TotalDistributed.Add(domain.SafeParse(r.Amount))
		}

		positions = append(positions, *pos)
	}

	return InvestorPortfolio{
		Investor:  investor,
		Positions: positions,
		Totals:    calculateTotals(positions),
	}, nil
}
