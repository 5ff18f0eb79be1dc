package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dafiprotocol/gateway/internal/contract"
	"github.com/dafiprotocol/gateway/internal/domain"
	"github.com/dafiprotocol/gateway/internal/identity"
	"github.com/dafiprotocol/gateway/internal/ledger"
	"github.com/dafiprotocol/gateway/internal/portfolio"
	"github.com/dafiprotocol/gateway/internal/registration"
	"github.com/dafiprotocol/gateway/internal/snapshot"
)

// Handler provides the HTTP endpoints of the gateway API.
type Handler struct {
	contracts     *contract.Service
	registrations *registration.Service
	portfolios    *portfolio.Service
	snapshots     *snapshot.Service
	session       *identity.Session
	slug          string
}

// NewHandler creates a new API handler. The session signs ledger requests
// submitted on behalf of API callers.
func NewHandler(
	contracts *contract.Service,
	registrations *registration.Service,
	portfolios *portfolio.Service,
	snapshots *snapshot.Service,
	session *identity.Session,
	slug string,
) *Handler {
	return &Handler{
		contracts:     contracts,
		registrations: registrations,
		portfolios:    portfolios,
		snapshots:     snapshots,
		session:       session,
		slug:          slug,
	}
}

// investPayload is the request body for POST /api/investments.
type investPayload struct {
	AssetID  string `json:"assetId"`
	Investor string `json:"investor"`
	Amount   string `json:"amount"`
}

// Invest handles POST /api/investments. The share count is derived from
// the amount and the asset's price; it is never taken from the caller.
func (h *Handler) Invest(w http.ResponseWriter, r *http.Request) {
	var payload investPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	// Obviously invalid amounts fail before the asset lookup round-trip.
	amount := domain.SafeParse(payload.Amount)
	if !amount.IsPositive() {
		writeError(w, http.StatusBadRequest, "Invalid investment amount")
		return
	}

	asset, err := h.contracts.GetAssetDetails(r.Context(), payload.AssetID)
	if err != nil {
		h.respondError(w, err, "fetching asset for investment")
		return
	}
	if asset == nil {
		writeError(w, http.StatusNotFound, "asset not found")
		return
	}

	if amount.LessThan(domain.SafeParse(asset.MinInvestment)) {
		writeError(w, http.StatusBadRequest, "Invalid investment amount")
		return
	}

	result, err := h.contracts.Invest(r.Context(), h.session, ledger.InvestRequest{
		AssetID:  asset.ID,
		Investor: payload.Investor,
		Amount:   payload.Amount,
		Shares:   domain.DeriveShares(payload.Amount, asset.PricePerShare),
	})
	h.respondResult(w, result, err, "submitting investment")
}

// GetInvestment handles GET /api/v1/investments/{id}.
func (h *Handler) GetInvestment(w http.ResponseWriter, r *http.Request) {
	investment, err := h.contracts.GetInvestment(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondError(w, err, "fetching investment")
		return
	}
	if investment == nil {
		writeError(w, http.StatusNotFound, "investment not found")
		return
	}
	writeJSON(w, http.StatusOK, investment)
}

// CompleteInvestment handles POST /api/v1/investments/{id}/complete.
func (h *Handler) CompleteInvestment(w http.ResponseWriter, r *http.Request) {
	result, err := h.contracts.CompleteInvestment(r.Context(), h.session, r.PathValue("id"))
	h.respondResult(w, result, err, "completing investment")
}

// TokenizeAsset handles POST /api/v1/assets.
func (h *Handler) TokenizeAsset(w http.ResponseWriter, r *http.Request) {
	var req domain.TokenizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.contracts.TokenizeAsset(r.Context(), h.session, req)
	h.respondResult(w, result, err, "tokenizing asset")
}

// ListAssets handles GET /api/v1/assets. With ?farmer= the listing narrows
// to that farmer's assets; otherwise only available assets are returned.
func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	var (
		assets []domain.Asset
		err    error
	)
	if farmer := r.URL.Query().Get("farmer"); farmer != "" {
		assets, err = h.contracts.GetAssetsByFarmer(r.Context(), farmer)
	} else {
		assets, err = h.contracts.GetAvailableAssets(r.Context())
	}
	if err != nil {
		h.respondError(w, err, "listing assets")
		return
	}
	writeJSON(w, http.StatusOK, assets)
}

// GetAsset handles GET /api/v1/assets/{id}.
func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	asset, err := h.contracts.GetAssetDetails(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondError(w, err, "fetching asset")
		return
	}
	if asset == nil {
		writeError(w, http.StatusNotFound, "asset not found")
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

// statusPayload is the request body for POST /api/v1/assets/{id}/status.
type statusPayload struct {
	Status domain.AssetStatus `json:"status"`
}

// UpdateAssetStatus handles POST /api/v1/assets/{id}/status.
func (h *Handler) UpdateAssetStatus(w http.ResponseWriter, r *http.Request) {
	var payload statusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.contracts.UpdateAssetStatus(r.Context(), h.session, r.PathValue("id"), payload.Status)
	h.respondResult(w, result, err, "updating asset status")
}

// ListAssetInvestments handles GET /api/v1/assets/{id}/investments.
func (h *Handler) ListAssetInvestments(w http.ResponseWriter, r *http.Request) {
	investments, err := h.contracts.GetInvestmentsByAsset(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondError(w, err, "listing asset investments")
		return
	}
	writeJSON(w, http.StatusOK, investments)
}

// ListAssetReturns handles GET /api/v1/assets/{id}/returns.
func (h *Handler) ListAssetReturns(w http.ResponseWriter, r *http.Request) {
	returns, err := h.contracts.GetReturnsByAsset(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondError(w, err, "listing asset returns")
		return
	}
	writeJSON(w, http.StatusOK, returns)
}

// CreateReturn handles POST /api/v1/returns.
func (h *Handler) CreateReturn(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateReturnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.contracts.CreateReturn(r.Context(), h.session, req)
	h.respondResult(w, result, err, "creating return")
}

// GetPortfolio handles GET /api/v1/portfolio/{principal}.
func (h *Handler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	p, err := h.portfolios.GetInvestorPortfolio(r.Context(), r.PathValue("principal"))
	if err != nil {
		h.respondError(w, err, "building portfolio")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GetOverview handles GET /api/v1/overview.
func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.portfolios.GetPlatformOverview(r.Context())
	if err != nil {
		h.respondError(w, err, "building platform overview")
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

// respondResult translates a mutating operation's outcome to HTTP. A remote
// rejection keeps its literal message and maps to 422; transport failures
// never leak upstream details.
func (h *Handler) respondResult(w http.ResponseWriter, result domain.Result, err error, op string) {
	if err != nil {
		h.respondError(w, err, op)
		return
	}
	if result.Status == domain.ResultError {
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) respondError(w http.ResponseWriter, err error, op string) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeError(w, http.StatusBadRequest, ve.Message)
		return
	}

	var rce *ledger.RemoteCallError
	if errors.As(err, &rce) {
		slog.Error("upstream call failed", "op", op, "service", rce.Service, "error", err)
		writeError(w, http.StatusBadGateway, "upstream service unavailable")
		return
	}

	slog.Error("request failed", "op", op, "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
		return
	}
	_, _ = w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
