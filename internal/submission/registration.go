package submission

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/dafiprotocol/gateway/internal/domain"
	"github.com/dafiprotocol/gateway/internal/identity"
)

// SessionSource is the identity provider surface the registration flow needs.
type SessionSource interface {
	Current() (*identity.Session, bool)
	Connect(ctx context.Context) (*identity.Session, error)
}

// Registrar persists a validated registration.
type Registrar interface {
	Register(ctx context.Context, session *identity.Session, input RegistrationInput) (domain.Result, error)
}

// RegistrationInput is the raw form payload. Role-specific fields are
// required according to Role.
type RegistrationInput struct {
	Role            domain.Role `json:"role"`
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	WalletAddress   string      `json:"walletAddress"`
	Experience      string      `json:"experience,omitempty"`
	Specialization  string      `json:"specialization,omitempty"`
	InvestmentGoals string      `json:"investmentGoals,omitempty"`
	RiskProfile     string      `json:"riskProfile,omitempty"`
}

// RegistrationController validates registration input and runs the compound
// connect-then-register sequence: if no wallet session exists, submission
// first triggers a connect flow; a failed connect aborts without attempting
// registration.
type RegistrationController struct {
	sessions  SessionSource
	registrar Registrar

	mu    sync.Mutex
	state State
}

// NewRegistrationController creates a registration controller.
func NewRegistrationController(sessions SessionSource, registrar Registrar) *RegistrationController {
	return &RegistrationController{
		sessions:  sessions,
		registrar: registrar,
		state:     State{Phase: PhaseIdle},
	}
}

// State returns the current lifecycle snapshot.
func (c *RegistrationController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit validates the input, connects the wallet if needed, then registers.
func (c *RegistrationController) Submit(ctx context.Context, input RegistrationInput) (State, error) {
	c.mu.Lock()
	if c.state.Phase == PhaseSubmitting {
		state := c.state
		c.mu.Unlock()
		return state, ErrInFlight
	}

	if err := ValidateRegistration(input); err != nil {
		c.state = State{Phase: PhaseError, Message: err.Error()}
		state := c.state
		c.mu.Unlock()
		return state, nil
	}

	c.state = State{Phase: PhaseSubmitting}
	c.mu.Unlock()

	session, ok := c.sessions.Current()
	if !ok {
		var err error
		session, err = c.sessions.Connect(ctx)
		if err != nil {
			return c.fail(connectFailureMessage(err)), nil
		}
	}

	result, err := c.registrar.Register(ctx, session, input)

	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case err != nil:
		slog.Error("registration failed", "principal", session.Principal(), "error", err)
		c.state = State{Phase: PhaseError, Message: genericFailure}
	case result.Status == domain.ResultError:
		c.state = State{Phase: PhaseError, Message: result.Message}
	default:
		c.state = State{Phase: PhaseSuccess, ID: result.ID}
	}
	return c.state, nil
}

func (c *RegistrationController) fail(message string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = State{Phase: PhaseError, Message: message}
	return c.state
}

// ValidateRegistration applies the role-specific required-field rules.
func ValidateRegistration(input RegistrationInput) *domain.ValidationError {
	if strings.TrimSpace(input.Name) == "" {
		return &domain.ValidationError{Message: "Name is required"}
	}

	switch input.Role {
	case domain.RoleFarmer:
		if strings.TrimSpace(input.Experience) == "" {
			return &domain.ValidationError{Message: "Experience is required for farmers"}
		}
		if strings.TrimSpace(input.Specialization) == "" {
			return &domain.ValidationError{Message: "Specialization is required for farmers"}
		}
	case domain.RoleInvestor:
		if strings.TrimSpace(input.InvestmentGoals) == "" {
			return &domain.ValidationError{Message: "Investment goals are required for investors"}
		}
		if strings.TrimSpace(input.RiskProfile) == "" {
			return &domain.ValidationError{Message: "Risk profile is required for investors"}
		}
	default:
		return &domain.ValidationError{Message: "Role must be farmer or investor"}
	}
	return nil
}

// connectFailureMessage maps wallet errors to dismissible notices; both are
// recoverable by retrying connect.
func connectFailureMessage(err error) string {
	switch {
	case errors.Is(err, identity.ErrWalletUnavailable):
		return "No compatible wallet found"
	case errors.Is(err, identity.ErrUserRejected):
		return "Wallet connection was declined"
	default:
		return genericFailure
	}
}
