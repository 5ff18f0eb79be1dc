package api

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewServer creates an HTTP server with all routes configured. The auth and
// investment submission routes keep their unversioned paths for client
// compatibility; the v1 aliases serve the same handlers. Administrative
// routes require the admin API key when one is set.
func NewServer(port string, handler *Handler, adminAPIKey string) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", handler.Register)
	mux.HandleFunc("POST /api/auth/documents", handler.SubmitDocument)
	mux.HandleFunc("POST /api/investments", handler.Invest)
	mux.HandleFunc("GET /api/v1/profiles/{principal}", handler.GetProfile)

	mux.HandleFunc("GET /api/v1/assets", handler.ListAssets)
	mux.HandleFunc("GET /api/v1/assets/{id}", handler.GetAsset)
	mux.HandleFunc("GET /api/v1/assets/{id}/investments", handler.ListAssetInvestments)
	mux.HandleFunc("GET /api/v1/assets/{id}/returns", handler.ListAssetReturns)

	mux.HandleFunc("POST /api/v1/investments", handler.Invest)
	mux.HandleFunc("GET /api/v1/investments/{id}", handler.GetInvestment)

	mux.HandleFunc("GET /api/v1/portfolio/{principal}", handler.GetPortfolio)
	mux.HandleFunc("GET /api/v1/overview", handler.GetOverview)

	mux.HandleFunc("GET /api/v1/snapshots/latest", handler.GetLatestSnapshot)
	mux.HandleFunc("GET /api/v1/snapshots/{date}", handler.GetSnapshotByDate)
	mux.HandleFunc("GET /api/v1/snapshots", handler.ListSnapshots)

	admin := func(pattern string, next http.HandlerFunc) {
		if adminAPIKey != "" {
			mux.Handle(pattern, requireAuth(adminAPIKey, next))
		} else {
			mux.Handle(pattern, next)
		}
	}
	admin("POST /api/v1/assets", handler.TokenizeAsset)
	admin("POST /api/v1/assets/{id}/status", handler.UpdateAssetStatus)
	admin("POST /api/v1/investments/{id}/complete", handler.CompleteInvestment)
	admin("POST /api/v1/returns", handler.CreateReturn)
	admin("POST /api/v1/snapshots/generate", handler.GenerateSnapshot)

	return &http.Server{
		Addr:         ":" + port,
		Handler:      recoverPanics(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func requireAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if !strings.HasPrefix(auth, "Bearer ") || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// recoverPanics converts handler panics into 500 responses. Each request gets
// an id so a logged panic can be matched to the failing response.
func recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic in handler", "request_id", requestID, "path", r.URL.Path, "panic", rec)
				writeError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
