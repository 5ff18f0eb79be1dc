package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dafiprotocol/gateway/internal/domain"
	"github.com/dafiprotocol/gateway/internal/registration"
)

type mockProfileRepo struct {
	profiles map[string]domain.Profile
	saveErr  error
}

func (m *mockProfileRepo) Save(_ context.Context, p domain.Profile) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.profiles == nil {
		m.profiles = make(map[string]domain.Profile)
	}
	m.profiles[p.Principal] = p
	return nil
}

func (m *mockProfileRepo) GetByPrincipal(_ context.Context, principal string) (domain.Profile, error) {
	p, ok := m.profiles[principal]
	if !ok {
		return domain.Profile{}, registration.ErrNotFound
	}
	return p, nil
}

func (m *mockProfileRepo) ListByKYCStatus(_ context.Context, status domain.KYCStatus) ([]domain.Profile, error) {
	var out []domain.Profile
	for _, p := range m.profiles {
		if p.KYCStatus == status {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProfileRepo) UpdateKYCStatus(_ context.Context, principal string, status domain.KYCStatus) error {
	p := m.profiles[principal]
	p.KYCStatus = status
	m.profiles[principal] = p
	return nil
}

func newRegistrationHandler(t *testing.T, repo *mockProfileRepo) *Handler {
	t.Helper()
	svc := registration.NewService(repo, nil)
	return NewHandler(nil, svc, nil, nil, testSession(t), "platform")
}

func TestRegisterFarmer(t *testing.T) {
	repo := &mockProfileRepo{}
	handler := newRegistrationHandler(t, repo)

	body := strings.NewReader(`{
		"role":"farmer",
		"name":"Alice Green",
		"email":"alice@example.com",
		"walletAddress":"WALLET1",
		"experience":"10 years",
		"specialization":"organic grain"
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", body)
	w := httptest.NewRecorder()
	handler.Register(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
	if len(repo.profiles) != 1 {
		t.Fatalf("expected one stored profile, got %d", len(repo.profiles))
	}
	for _, p := range repo.profiles {
		if p.Role != domain.RoleFarmer {
			t.Errorf("role = %q, want farmer", p.Role)
		}
		if p.KYCStatus != domain.KYCStatusPending {
			t.Errorf("kyc status = %q, want pending", p.KYCStatus)
		}
	}
}

func TestRegisterMissingRoleFields(t *testing.T) {
	repo := &mockProfileRepo{}
	handler := newRegistrationHandler(t, repo)

	// Farmer without experience and specialization
	body := strings.NewReader(`{
		"role":"farmer",
		"name":"Alice Green",
		"email":"alice@example.com",
		"walletAddress":"WALLET1"
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", body)
	w := httptest.NewRecorder()
	handler.Register(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if len(repo.profiles) != 0 {
		t.Errorf("expected no stored profile, got %d", len(repo.profiles))
	}
}

func TestGetProfileNotFound(t *testing.T) {
	handler := newRegistrationHandler(t, &mockProfileRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profiles/UNKNOWN", nil)
	req.SetPathValue("principal", "UNKNOWN")
	w := httptest.NewRecorder()
	handler.GetProfile(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestGetProfileSuccess(t *testing.T) {
	repo := &mockProfileRepo{profiles: map[string]domain.Profile{
		"INVESTOR1": {Principal: "INVESTOR1", Role: domain.RoleInvestor, Name: "Bob Field"},
	}}
	handler := newRegistrationHandler(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profiles/INVESTOR1", nil)
	req.SetPathValue("principal", "INVESTOR1")
	w := httptest.NewRecorder()
	handler.GetProfile(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var p domain.Profile
	json.NewDecoder(w.Body).Decode(&p)
	if p.Name != "Bob Field" {
		t.Errorf("profile name = %q, want Bob Field", p.Name)
	}
}

func TestSubmitDocumentMissingFields(t *testing.T) {
	handler := newRegistrationHandler(t, &mockProfileRepo{})

	body := strings.NewReader(`{"kind":"","content":""}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/documents", body)
	w := httptest.NewRecorder()
	handler.SubmitDocument(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
