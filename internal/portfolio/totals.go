package portfolio

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/dafiprotocol/gateway/internal/domain"
)

// calculateTotals aggregates position totals into the portfolio summary.
func calculateTotals(positions []Position) PortfolioTotals {
	invested := lo.Reduce(positions, func(acc decimal.Decimal, p Position, _ int) decimal.Decimal {
		return acc.Add(p.TotalInvested)
	}, decimal.Zero)

	distributed := lo.Reduce(positions, func(acc decimal.Decimal, p Position, _ int) decimal.Decimal {
		return acc.Add(p.TotalDistributed)
	}, decimal.Zero)

	active := lo.Reduce(positions, func(acc int, p Position, _ int) int {
		return acc + lo.CountBy(p.Investments, func(inv domain.Investment) bool {
			return inv.Status == domain.InvestmentStatusActive
		})
	}, 0)

	return PortfolioTotals{
		Invested:          invested,
		Distributed:       distributed,
		ActiveInvestments: active,
		AssetCount:        len(positions),
	}
}

// AssetSummary is one listed asset with its investment totals.
type AssetSummary struct {
	Asset         domain.Asset    `json:"asset"`
	Valuation     decimal.Decimal `json:"valuation"`
	Invested      decimal.Decimal `json:"invested"`
	InvestorCount int             `json:"investorCount"`
}

// PlatformOverview is the marketplace-wide state captured by snapshots.
type PlatformOverview struct {
	Assets           []AssetSummary  `json:"assets"`
	TotalListedValue decimal.Decimal `json:"totalListedValue"`
	TotalInvested    decimal.Decimal `json:"totalInvested"`
	AssetCount       int             `json:"assetCount"`
	Warnings         []string        `json:"warnings,omitempty"`
}

// GetPlatformOverview aggregates every available asset with its investment
// totals. An asset whose investments cannot be fetched is included with a
// warning rather than failing the whole overview.
func (s *Service) GetPlatformOverview(ctx context.Context) (PlatformOverview, error) {
	assets, err := s.contracts.GetAvailableAssets(ctx)
	if err != nil {
		return PlatformOverview{}, fmt.Errorf("fetching available assets: %w", err)
	}

	var warnings []string
	summaries := make([]AssetSummary, 0, len(assets))
	for _, asset := range assets {
		summary := AssetSummary{Asset: asset, Valuation: asset.Valuation()}

		investments, err := s.contracts.GetInvestmentsByAsset(ctx, asset.ID)
		if err != nil {
			w := fmt.Sprintf("failed to fetch investments for %s: %v", asset.ID, err)
			slog.Warn(w)
			warnings = append(warnings, w)
			summaries = append(summaries, summary)
			continue
		}

		summary.Invested = lo.Reduce(investments, func(acc decimal.Decimal, inv domain.Investment, _ int) decimal.Decimal {
			return acc.Add(domain.SafeParse(inv.Amount))
		}, decimal.Zero)
		summary.InvestorCount = len(lo.UniqBy(investments, func(inv domain.Investment) string {
			return inv.Investor
		}))
		summaries = append(summaries, summary)
	}

	return PlatformOverview{
		Assets: summaries,
		TotalListedValue: lo.Reduce(summaries, func(acc decimal.Decimal, s AssetSummary, _ int) decimal.Decimal {
			return acc.Add(s.Valuation)
		}, decimal.Zero),
		TotalInvested: lo.Reduce(summaries, func(acc decimal.Decimal, s AssetSummary, _ int) decimal.Decimal {
			return acc.Add(s.Invested)
		}, decimal.Zero),
		AssetCount: len(summaries),
		Warnings:   warnings,
	}, nil
}
