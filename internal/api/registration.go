package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dafiprotocol/gateway/internal/registration"
	"github.com/dafiprotocol/gateway/internal/submission"
)

// Register handles POST /api/auth/register. Role-specific fields are
// validated before anything reaches the KYC service.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var input submission.RegistrationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if ve := submission.ValidateRegistration(input); ve != nil {
		writeError(w, http.StatusBadRequest, ve.Message)
		return
	}

	result, err := h.registrations.Register(r.Context(), h.session, input)
	h.respondResult(w, result, err, "registering profile")
}

// documentPayload is the request body for POST /api/auth/documents.
type documentPayload struct {
	Kind    string `json:"kind"`
	Content []byte `json:"content"`
}

// SubmitDocument handles POST /api/auth/documents.
func (h *Handler) SubmitDocument(w http.ResponseWriter, r *http.Request) {
	var payload documentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if payload.Kind == "" || len(payload.Content) == 0 {
		writeError(w, http.StatusBadRequest, "kind and content are required")
		return
	}

	result, err := h.registrations.SubmitDocument(r.Context(), h.session, payload.Kind, payload.Content)
	h.respondResult(w, result, err, "submitting document")
}

// GetProfile handles GET /api/v1/profiles/{principal}.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.registrations.GetProfile(r.Context(), r.PathValue("principal"))
	if err != nil {
		if errors.Is(err, registration.ErrNotFound) {
			writeError(w, http.StatusNotFound, "profile not found")
			return
		}
		slog.Error("failed to get profile", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
