// Package contract is the interaction layer between callers and the remote
// ledger services. It is a stateless façade: one stable entry point per
// business operation, independent of which transport backs it. It performs no
// retries, no caching and no in-flight deduplication; two rapid calls for the
// same asset are fully independent round-trips.
package contract

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/dafiprotocol/gateway/internal/domain"
	"github.com/dafiprotocol/gateway/internal/ledger"
)

// AssetRegistry is the slice of the asset registry service used here.
type AssetRegistry interface {
	RegisterAsset(ctx context.Context, signer ledger.Signer, req domain.TokenizeRequest) (string, error)
	UpdateAssetStatus(ctx context.Context, signer ledger.Signer, assetID string, status domain.AssetStatus) error
	GetAsset(ctx context.Context, assetID string) (*domain.Asset, error)
	GetAssetsByFarmer(ctx context.Context, farmer string) ([]domain.Asset, error)
	GetAvailableAssets(ctx context.Context) ([]domain.Asset, error)
}

// InvestmentLedger is the slice of the investment ledger service used here.
type InvestmentLedger interface {
	CreateInvestment(ctx context.Context, signer ledger.Signer, req ledger.InvestRequest) (string, error)
	CompleteInvestment(ctx context.Context, signer ledger.Signer, investmentID string) error
	GetInvestment(ctx context.Context, investmentID string) (*domain.Investment, error)
	GetInvestmentsByAsset(ctx context.Context, assetID string) ([]domain.Investment, error)
	GetInvestmentsByFarmer(ctx context.Context, farmer string) ([]domain.Investment, error)
	GetInvestmentsByInvestor(ctx context.Context, investor string) ([]domain.Investment, error)
}

// ReturnLedger is the slice of the returns ledger service used here.
type ReturnLedger interface {
	CreateReturn(ctx context.Context, signer ledger.Signer, req domain.CreateReturnRequest) (string, error)
	GetReturnsByAsset(ctx context.Context, assetID string) ([]domain.Return, error)
}

// Service holds one client handle per remote service. All dependencies are required.
type Service struct {
	registry    AssetRegistry
	investments InvestmentLedger
	returns     ReturnLedger
}

// NewService creates the interaction layer façade.
func NewService(registry AssetRegistry, investments InvestmentLedger, returns ReturnLedger) *Service {
	if registry == nil {
		panic("contract.NewService: registry is nil")
	}
	if investments == nil {
		panic("contract.NewService: investments is nil")
	}
	if returns == nil {
		panic("contract.NewService: returns is nil")
	}
	return &Service{registry: registry, investments: investments, returns: returns}
}

// TokenizeAsset registers a new asset. The remote-assigned id passes through
// untransformed. A remote-side rejection becomes an error Result; transport
// failures propagate as errors.
func (s *Service) TokenizeAsset(ctx context.Context, session ledger.Signer, req domain.TokenizeRequest) (domain.Result, error) {
	if strings.TrimSpace(req.Owner) == "" {
		return domain.Result{}, &domain.ValidationError{Message: "asset owner is required"}
	}
	if strings.TrimSpace(req.Metadata.Name) == "" {
		return domain.Result{}, &domain.ValidationError{Message: "asset name is required"}
	}
	if req.TotalShares <= 0 {
		return domain.Result{}, &domain.ValidationError{Message: "total shares must be greater than zero"}
	}
	if domain.SafeParse(req.PricePerShare).IsNegative() {
		return domain.Result{}, &domain.ValidationError{Message: "price per share must not be negative"}
	}

	id, err := s.registry.RegisterAsset(ctx, session, req)
	return normalize(id, err)
}

// GetAssetDetails fetches a single asset. Read-only, no side effects; returns
// nil when the registry has no record.
func (s *Service) GetAssetDetails(ctx context.Context, assetID string) (*domain.Asset, error) {
	return s.registry.GetAsset(ctx, assetID)
}

// GetAvailableAssets lists assets open for investment, in registry order.
func (s *Service) GetAvailableAssets(ctx context.Context) ([]domain.Asset, error) {
	return s.registry.GetAvailableAssets(ctx)
}

// GetAssetsByFarmer lists a farmer's assets, in registry order.
func (s *Service) GetAssetsByFarmer(ctx context.Context, farmer string) ([]domain.Asset, error) {
	return s.registry.GetAssetsByFarmer(ctx, farmer)
}

// UpdateAssetStatus sets an asset's lifecycle status on the registry.
func (s *Service) UpdateAssetStatus(ctx context.Context, session ledger.Signer, assetID string, status domain.AssetStatus) (domain.Result, error) {
	if err := s.registry.UpdateAssetStatus(ctx, session, assetID, status); err != nil {
		return normalize("", err)
	}
	return domain.Accepted(assetID), nil
}

// Invest records an investment. The only local precondition is amount > 0;
// share availability is authoritative on the investment ledger, and its
// rejection message is relayed verbatim. Amount is forwarded unmodified.
func (s *Service) Invest(ctx context.Context, session ledger.Signer, req ledger.InvestRequest) (domain.Result, error) {
	if !domain.SafeParse(req.Amount).IsPositive() {
		return domain.Result{}, &domain.ValidationError{Message: "Invalid investment amount"}
	}
	if req.RequestID == "" {
		// Tracing id only. Whether the ledger deduplicates on it is its own
		// affair; this layer does not.
		req.RequestID = uuid.NewString()
	}

	id, err := s.investments.CreateInvestment(ctx, session, req)
	return normalize(id, err)
}

// CompleteInvestment marks an investment completed on the ledger.
func (s *Service) CompleteInvestment(ctx context.Context, session ledger.Signer, investmentID string) (domain.Result, error) {
	if err := s.investments.CompleteInvestment(ctx, session, investmentID); err != nil {
		return normalize("", err)
	}
	return domain.Accepted(investmentID), nil
}

// GetInvestment fetches a single investment, nil when absent.
func (s *Service) GetInvestment(ctx context.Context, investmentID string) (*domain.Investment, error) {
	return s.investments.GetInvestment(ctx, investmentID)
}

// GetInvestmentsByAsset lists investments in an asset exactly as the ledger
// returned them: no re-sort, no filtering.
func (s *Service) GetInvestmentsByAsset(ctx context.Context, assetID string) ([]domain.Investment, error) {
	return s.investments.GetInvestmentsByAsset(ctx, assetID)
}

// GetInvestmentsByFarmer lists investments in a farmer's assets, in ledger order.
func (s *Service) GetInvestmentsByFarmer(ctx context.Context, farmer string) ([]domain.Investment, error) {
	return s.investments.GetInvestmentsByFarmer(ctx, farmer)
}

// GetInvestmentsByInvestor lists an investor's investments, in ledger order.
func (s *Service) GetInvestmentsByInvestor(ctx context.Context, investor string) ([]domain.Investment, error) {
	return s.investments.GetInvestmentsByInvestor(ctx, investor)
}

// CreateReturn records a distribution for an asset.
func (s *Service) CreateReturn(ctx context.Context, session ledger.Signer, req domain.CreateReturnRequest) (domain.Result, error) {
	if strings.TrimSpace(req.AssetID) == "" {
		return domain.Result{}, &domain.ValidationError{Message: "asset id is required"}
	}
	if !domain.SafeParse(req.Amount).IsPositive() {
		return domain.Result{}, &domain.ValidationError{Message: "distribution amount must be positive"}
	}

	id, err := s.returns.CreateReturn(ctx, session, req)
	return normalize(id, err)
}

// GetReturnsByAsset lists distributions for an asset, in ledger order.
func (s *Service) GetReturnsByAsset(ctx context.Context, assetID string) ([]domain.Return, error) {
	return s.returns.GetReturnsByAsset(ctx, assetID)
}

// normalize converts a remote call outcome into the Result envelope. The err
// branch of a remote result becomes an error Result carrying the literal
// message; transport failures stay errors.
func normalize(id string, err error) (domain.Result, error) {
	if err == nil {
		return domain.Accepted(id), nil
	}
	var de *ledger.DomainError
	if errors.As(err, &de) {
		return domain.Rejected(de.Message), nil
	}
	return domain.Result{}, err
}
