package export

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dafiprotocol/gateway/internal/portfolio"
)

// Report is the tabular form of a platform overview, ready for a spreadsheet.
type Report struct {
	GeneratedAt time.Time
	AssetRows   [][]any
	OverviewRow []any
}

// assetHeaders are the columns of the ASSETS sheet.
var assetHeaders = []any{
	"ID", "Name", "Type", "Location", "Owner", "Status",
	"Total Shares", "Price Per Share", "Valuation", "Invested", "Investors",
}

// overviewHeaders are the columns of the OVERVIEW sheet.
var overviewHeaders = []any{
	"Date", "Assets", "Total Listed Value", "Total Invested", "Investment Ratio",
}

// ReportWriter writes a report to a spreadsheet destination.
type ReportWriter interface {
	Write(ctx context.Context, report Report) error
}

// Service builds reports from platform overviews and delegates writing.
type Service struct {
	writer ReportWriter
}

// NewService creates a new export Service.
func NewService(writer ReportWriter) *Service {
	return &Service{writer: writer}
}

// Export builds a report from the overview and writes it out.
// Implements worker.AfterSnapshotHook.
func (s *Service) Export(ctx context.Context, overview portfolio.PlatformOverview) error {
	report := BuildReport(overview, time.Now().UTC())
	if err := s.writer.Write(ctx, report); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// BuildReport converts a platform overview into spreadsheet rows.
func BuildReport(overview portfolio.PlatformOverview, at time.Time) Report {
	assetRows := make([][]any, 0, len(overview.Assets)+1)
	assetRows = append(assetRows, assetHeaders)

	for _, summary := range overview.Assets {
		asset := summary.Asset
		assetRows = append(assetRows, []any{
			asset.ID,
			asset.Metadata.Name,
			asset.Metadata.Type,
			asset.Metadata.Location,
			asset.Owner,
			string(asset.Status),
			float64(asset.TotalShares),
			asset.PricePerShare,
			toFloat(summary.Valuation),
			toFloat(summary.Invested),
			float64(summary.InvestorCount),
		})
	}

	return Report{
		GeneratedAt: at,
		AssetRows:   assetRows,
		OverviewRow: []any{
			at.Format("02.01.2006"),
			float64(overview.AssetCount),
			toFloat(overview.TotalListedValue),
			toFloat(overview.TotalInvested),
			investmentRatio(overview),
		},
	}
}

// investmentRatio returns invested / listed value, or nil when nothing is listed.
func investmentRatio(overview portfolio.PlatformOverview) any {
	if overview.TotalListedValue.IsZero() {
		return nil
	}
	return toFloat(overview.TotalInvested.Div(overview.TotalListedValue))
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
