package ledger

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dafiprotocol/gateway/internal/domain"
)

// Returns is the client for the remote return/distribution ledger service.
type Returns struct {
	client
}

// NewReturns creates a returns ledger client.
func NewReturns(baseURL string) *Returns {
	return &Returns{client: newClient(baseURL, "returns")}
}

// CreateReturn records a distribution and returns the remote-assigned id.
func (r *Returns) CreateReturn(ctx context.Context, signer Signer, req domain.CreateReturnRequest) (string, error) {
	raw, err := r.post(ctx, "createReturn", "/v1/returns", req, signer)
	if err != nil {
		return "", err
	}
	return decodeID(r.service, "createReturn", raw)
}

// GetReturnsByAsset lists distributions for an asset, in ledger order.
func (r *Returns) GetReturnsByAsset(ctx context.Context, assetID string) ([]domain.Return, error) {
	var resp struct {
		Records []domain.Return `json:"records"`
	}
	if err := r.get(ctx, "getReturnsByAsset", fmt.Sprintf("/v1/returns?asset=%s", url.QueryEscape(assetID)), &resp); err != nil {
		return nil, err
	}
	return resp.Records, nil
}
