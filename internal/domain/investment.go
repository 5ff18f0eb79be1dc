package domain

import "time"

// InvestmentStatus reflects the lifecycle state reported by the investment ledger.
type InvestmentStatus string

const (
	InvestmentStatusActive    InvestmentStatus = "Active"
	InvestmentStatusCompleted InvestmentStatus = "Completed"
	InvestmentStatusDefaulted InvestmentStatus = "Defaulted"
)

// Investment is a recorded stake in a tokenized asset.
type Investment struct {
	ID           string           `json:"id"`
	Investor     string           `json:"investor"`
	Farmer       string           `json:"farmer"`
	AssetID      string           `json:"assetId"`
	Amount       string           `json:"amount"`
	Shares       int64            `json:"shares"`
	InterestRate string           `json:"interestRate"`
	StartDate    time.Time        `json:"startDate"`
	Status       InvestmentStatus `json:"status"`
}

// ReturnStatus reflects the state of a distribution as reported by the returns ledger.
type ReturnStatus string

const (
	ReturnStatusPending ReturnStatus = "pending"
	ReturnStatusSuccess ReturnStatus = "success"
)

// Return is a distribution of proceeds from an asset to its investors.
type Return struct {
	ID               string       `json:"id"`
	AssetID          string       `json:"assetId"`
	Amount           string       `json:"amount"`
	DistributionDate time.Time    `json:"distributionDate"`
	Status           ReturnStatus `json:"status"`
}

// CreateReturnRequest carries the fields required to record a distribution.
type CreateReturnRequest struct {
	AssetID          string    `json:"assetId"`
	Amount           string    `json:"amount"`
	DistributionDate time.Time `json:"distributionDate"`
}
