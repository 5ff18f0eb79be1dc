package domain

import "time"

// Role classifies a registered participant.
type Role string

const (
	RoleFarmer   Role = "farmer"
	RoleInvestor Role = "investor"
)

// KYCStatus reflects the verification state reported by the KYC service.
type KYCStatus string

const (
	KYCStatusPending  KYCStatus = "pending"
	KYCStatusVerified KYCStatus = "verified"
	KYCStatusRejected KYCStatus = "rejected"
)

// Profile is a registered participant. Role-specific fields are populated
// according to Role: farmers carry Experience and Specialization, investors
// carry InvestmentGoals and RiskProfile.
type Profile struct {
	Principal       string    `json:"principal"`
	Role            Role      `json:"role"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	WalletAddress   string    `json:"walletAddress"`
	Experience      string    `json:"experience,omitempty"`
	Specialization  string    `json:"specialization,omitempty"`
	InvestmentGoals string    `json:"investmentGoals,omitempty"`
	RiskProfile     string    `json:"riskProfile,omitempty"`
	KYCStatus       KYCStatus `json:"kycStatus"`
	RegisteredAt    time.Time `json:"registeredAt"`
}
