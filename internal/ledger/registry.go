package ledger

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/dafiprotocol/gateway/internal/domain"
)

// Registry is the client for the remote asset registry service.
type Registry struct {
	client
}

// NewRegistry creates an asset registry client.
func NewRegistry(baseURL string) *Registry {
	return &Registry{client: newClient(baseURL, "registry")}
}

// RegisterAsset records a new tokenized asset and returns the remote-assigned id.
func (r *Registry) RegisterAsset(ctx context.Context, signer Signer, req domain.TokenizeRequest) (string, error) {
	raw, err := r.post(ctx, "registerAsset", "/v1/assets", req, signer)
	if err != nil {
		return "", err
	}
	return decodeID(r.service, "registerAsset", raw)
}

// UpdateAssetStatus sets the lifecycle status of an asset on the registry.
func (r *Registry) UpdateAssetStatus(ctx context.Context, signer Signer, assetID string, status domain.AssetStatus) error {
	payload := map[string]any{"assetId": assetID, "status": status}
	_, err := r.post(ctx, "updateAssetStatus", fmt.Sprintf("/v1/assets/%s/status", url.PathEscape(assetID)), payload, signer)
	return err
}

// GetAsset fetches a single asset. Returns nil without error when the
// registry has no record for the id.
func (r *Registry) GetAsset(ctx context.Context, assetID string) (*domain.Asset, error) {
	var asset domain.Asset
	err := r.get(ctx, "getAsset", fmt.Sprintf("/v1/assets/%s", url.PathEscape(assetID)), &asset)
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// GetAssetsByFarmer lists assets owned by the given farmer, in registry order.
func (r *Registry) GetAssetsByFarmer(ctx context.Context, farmer string) ([]domain.Asset, error) {
	return r.listAssets(ctx, "getAssetsByFarmer", fmt.Sprintf("/v1/assets?farmer=%s", url.QueryEscape(farmer)))
}

// GetAvailableAssets lists assets currently open for investment, in registry order.
func (r *Registry) GetAvailableAssets(ctx context.Context) ([]domain.Asset, error) {
	return r.listAssets(ctx, "getAvailableAssets", "/v1/assets?status=Available")
}

func (r *Registry) listAssets(ctx context.Context, op, path string) ([]domain.Asset, error) {
	var resp struct {
		Records []domain.Asset `json:"records"`
	}
	if err := r.get(ctx, op, path, &resp); err != nil {
		return nil, err
	}
	return resp.Records, nil
}
