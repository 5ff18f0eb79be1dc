package submission

import (
	"context"
	"testing"

	"github.com/dafiprotocol/gateway/internal/domain"
	"github.com/dafiprotocol/gateway/internal/identity"
)

type mockSessions struct {
	current    *identity.Session
	connected  *identity.Session
	connectErr error
	connects   int
}

func (m *mockSessions) Current() (*identity.Session, bool) {
	return m.current, m.current != nil
}

func (m *mockSessions) Connect(_ context.Context) (*identity.Session, error) {
	m.connects++
	if m.connectErr != nil {
		return nil, m.connectErr
	}
	m.current = m.connected
	return m.connected, nil
}

type mockRegistrar struct {
	result domain.Result
	err    error
	calls  int
	got    RegistrationInput
}

func (m *mockRegistrar) Register(_ context.Context, _ *identity.Session, input RegistrationInput) (domain.Result, error) {
	m.calls++
	m.got = input
	return m.result, m.err
}

func farmerInput() RegistrationInput {
	return RegistrationInput{
		Role:           domain.RoleFarmer,
		Name:           "Amara Diallo",
		Email:          "amara@example.com",
		WalletAddress:  "0xabc",
		Experience:     "12 years",
		Specialization: "rice",
	}
}

func investorInput() RegistrationInput {
	return RegistrationInput{
		Role:            domain.RoleInvestor,
		Name:            "Kim Lee",
		Email:           "kim@example.com",
		WalletAddress:   "0xdef",
		InvestmentGoals: "long-term yield",
		RiskProfile:     "moderate",
	}
}

func TestValidateRegistrationRoleFields(t *testing.T) {
	tests := []struct {
		name    string
		input   RegistrationInput
		wantErr bool
	}{
		{"valid farmer", farmerInput(), false},
		{"valid investor", investorInput(), false},
		{"farmer missing experience", func() RegistrationInput { i := farmerInput(); i.Experience = ""; return i }(), true},
		{"farmer missing specialization", func() RegistrationInput { i := farmerInput(); i.Specialization = ""; return i }(), true},
		{"investor missing goals", func() RegistrationInput { i := investorInput(); i.InvestmentGoals = ""; return i }(), true},
		{"investor missing risk profile", func() RegistrationInput { i := investorInput(); i.RiskProfile = ""; return i }(), true},
		{"missing name", func() RegistrationInput { i := farmerInput(); i.Name = ""; return i }(), true},
		{"unknown role", func() RegistrationInput { i := farmerInput(); i.Role = "broker"; return i }(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegistration(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRegistration() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubmitConnectsBeforeRegistering(t *testing.T) {
	sessions := &mockSessions{connected: testSession(t, "user-1")}
	registrar := &mockRegistrar{result: domain.Accepted("user-1")}
	c := NewRegistrationController(sessions, registrar)

	state, err := c.Submit(context.Background(), investorInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sessions.connects != 1 {
		t.Errorf("connects = %d, want 1", sessions.connects)
	}
	if registrar.calls != 1 {
		t.Errorf("register calls = %d, want 1", registrar.calls)
	}
	if state.Phase != PhaseSuccess {
		t.Errorf("phase = %q, want success", state.Phase)
	}
}

func TestSubmitSkipsConnectWhenAlreadyConnected(t *testing.T) {
	sessions := &mockSessions{current: testSession(t, "user-1")}
	registrar := &mockRegistrar{result: domain.Accepted("user-1")}
	c := NewRegistrationController(sessions, registrar)

	if _, err := c.Submit(context.Background(), farmerInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sessions.connects != 0 {
		t.Errorf("connects = %d, want 0 (already connected)", sessions.connects)
	}
	if registrar.calls != 1 {
		t.Errorf("register calls = %d, want 1", registrar.calls)
	}
}

func TestSubmitConnectFailureAbortsRegistration(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{"wallet unavailable", identity.ErrWalletUnavailable, "No compatible wallet found"},
		{"user rejected", identity.ErrUserRejected, "Wallet connection was declined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := &mockSessions{connectErr: tt.err}
			registrar := &mockRegistrar{}
			c := NewRegistrationController(sessions, registrar)

			state, err := c.Submit(context.Background(), investorInput())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if registrar.calls != 0 {
				t.Error("registration was attempted after a failed connect")
			}
			if state.Phase != PhaseError || state.Message != tt.message {
				t.Errorf("state = %+v, want error/%q", state, tt.message)
			}
		})
	}
}

func TestSubmitInvalidInputFailsBeforeConnect(t *testing.T) {
	sessions := &mockSessions{connected: testSession(t, "user-1")}
	registrar := &mockRegistrar{}
	c := NewRegistrationController(sessions, registrar)

	input := farmerInput()
	input.Experience = ""

	state, err := c.Submit(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sessions.connects != 0 {
		t.Error("connect flow was triggered for invalid input")
	}
	if state.Phase != PhaseError || state.Message != "Experience is required for farmers" {
		t.Errorf("state = %+v, want the validation message", state)
	}
}
