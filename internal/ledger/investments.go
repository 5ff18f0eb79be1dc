package ledger

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/dafiprotocol/gateway/internal/domain"
)

// InvestRequest carries the fields required to record an investment.
// Share availability is not checked here: the investment ledger is
// authoritative and rejects oversubscription with a domain error.
type InvestRequest struct {
	AssetID   string `json:"assetId"`
	Investor  string `json:"investor"`
	Amount    string `json:"amount"`
	Shares    int64  `json:"shares"`
	RequestID string `json:"requestId,omitempty"`
}

// Investments is the client for the remote investment ledger service.
type Investments struct {
	client
}

// NewInvestments creates an investment ledger client.
func NewInvestments(baseURL string) *Investments {
	return &Investments{client: newClient(baseURL, "investments")}
}

// CreateInvestment records an investment and returns the remote-assigned id.
// The amount is forwarded unmodified.
func (i *Investments) CreateInvestment(ctx context.Context, signer Signer, req InvestRequest) (string, error) {
	raw, err := i.post(ctx, "createInvestment", "/v1/investments", req, signer)
	if err != nil {
		return "", err
	}
	return decodeID(i.service, "createInvestment", raw)
}

// CompleteInvestment marks an investment as completed on the ledger.
func (i *Investments) CompleteInvestment(ctx context.Context, signer Signer, investmentID string) error {
	payload := map[string]any{"investmentId": investmentID}
	_, err := i.post(ctx, "completeInvestment", fmt.Sprintf("/v1/investments/%s/complete", url.PathEscape(investmentID)), payload, signer)
	return err
}

// GetInvestment fetches a single investment. Returns nil without error when
// the ledger has no record for the id.
func (i *Investments) GetInvestment(ctx context.Context, investmentID string) (*domain.Investment, error) {
	var inv domain.Investment
	err := i.get(ctx, "getInvestment", fmt.Sprintf("/v1/investments/%s", url.PathEscape(investmentID)), &inv)
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetInvestmentsByAsset lists investments in an asset, in ledger order.
func (i *Investments) GetInvestmentsByAsset(ctx context.Context, assetID string) ([]domain.Investment, error) {
	return i.listInvestments(ctx, "getInvestmentsByAsset", fmt.Sprintf("/v1/investments?asset=%s", url.QueryEscape(assetID)))
}

// GetInvestmentsByFarmer lists investments in a farmer's assets, in ledger order.
func (i *Investments) GetInvestmentsByFarmer(ctx context.Context, farmer string) ([]domain.Investment, error) {
	return i.listInvestments(ctx, "getInvestmentsByFarmer", fmt.Sprintf("/v1/investments?farmer=%s", url.QueryEscape(farmer)))
}

// GetInvestmentsByInvestor lists an investor's investments, in ledger order.
func (i *Investments) GetInvestmentsByInvestor(ctx context.Context, investor string) ([]domain.Investment, error) {
	return i.listInvestments(ctx, "getInvestmentsByInvestor", fmt.Sprintf("/v1/investments?investor=%s", url.QueryEscape(investor)))
}

func (i *Investments) listInvestments(ctx context.Context, op, path string) ([]domain.Investment, error) {
	var resp struct {
		Records []domain.Investment `json:"records"`
	}
	if err := i.get(ctx, op, path, &resp); err != nil {
		return nil, err
	}
	return resp.Records, nil
}
