package domain

import "github.com/shopspring/decimal"

// AssetStatus reflects the lifecycle state reported by the asset registry.
// Transitions are authoritative on the remote ledger; this layer only relays them.
type AssetStatus string

const (
	AssetStatusAvailable AssetStatus = "Available"
	AssetStatusSold      AssetStatus = "Sold"
	AssetStatusInvested  AssetStatus = "Invested"
)

// AssetMetadata describes the real-world agricultural asset behind a token.
type AssetMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Type        string `json:"type"`
}

// Asset is a tokenized agricultural asset as recorded in the asset registry.
type Asset struct {
	ID            string        `json:"id"`
	Owner         string        `json:"owner"`
	Metadata      AssetMetadata `json:"metadata"`
	TotalShares   int64         `json:"totalShares"`
	PricePerShare string        `json:"pricePerShare"`
	MinInvestment string        `json:"minInvestment,omitempty"`
	Status        AssetStatus   `json:"status"`
}

// Valuation returns the nominal valuation: totalShares * pricePerShare.
func (a Asset) Valuation() decimal.Decimal {
	return decimal.NewFromInt(a.TotalShares).Mul(SafeParse(a.PricePerShare))
}

// TokenizeRequest carries the fields required to register a new asset.
type TokenizeRequest struct {
	Owner         string        `json:"owner"`
	Metadata      AssetMetadata `json:"metadata"`
	TotalShares   int64         `json:"totalShares"`
	PricePerShare string        `json:"pricePerShare"`
	MinInvestment string        `json:"minInvestment,omitempty"`
}
