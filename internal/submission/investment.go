package submission

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/dafiprotocol/gateway/internal/domain"
	"github.com/dafiprotocol/gateway/internal/ledger"
)

// ErrInFlight rejects a submission attempted while another is in progress.
var ErrInFlight = errors.New("submission already in progress")

// InvestContracts is the slice of the interaction layer used by the
// investment controller.
type InvestContracts interface {
	Invest(ctx context.Context, session ledger.Signer, req ledger.InvestRequest) (domain.Result, error)
}

// InvestmentController translates investment form input into a validated
// request, dispatches it through the interaction layer and tracks lifecycle
// state for the UI.
type InvestmentController struct {
	contracts InvestContracts

	mu    sync.Mutex
	asset domain.Asset
	state State
}

// NewInvestmentController creates a controller for investing into the given
// asset. The asset carries the price and minimum used for local validation.
func NewInvestmentController(contracts InvestContracts, asset domain.Asset) *InvestmentController {
	return &InvestmentController{
		contracts: contracts,
		asset:     asset,
		state:     State{Phase: PhaseIdle},
	}
}

// State returns the current lifecycle snapshot.
func (c *InvestmentController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SharesFor returns the derived share count for an entered amount:
// floor(amount / pricePerShare). Recomputed on every amount change; the share
// count is never independently editable.
func (c *InvestmentController) SharesFor(amount string) int64 {
	return domain.DeriveShares(amount, c.asset.PricePerShare)
}

// Submit validates the amount locally and dispatches the investment. Obviously
// invalid input fails fast with no network round-trip. Share availability is
// not checked here; the ledger's rejection is relayed into the error state
// verbatim.
func (c *InvestmentController) Submit(ctx context.Context, session ledger.Signer, amount string) (State, error) {
	c.mu.Lock()
	if c.state.Phase == PhaseSubmitting {
		state := c.state
		c.mu.Unlock()
		return state, ErrInFlight
	}

	if msg, ok := c.validate(amount); !ok {
		c.state = State{Phase: PhaseError, Message: msg}
		state := c.state
		c.mu.Unlock()
		return state, nil
	}

	c.state = State{Phase: PhaseSubmitting}
	c.mu.Unlock()

	result, err := c.contracts.Invest(ctx, session, ledger.InvestRequest{
		AssetID:  c.asset.ID,
		Investor: session.Principal(),
		Amount:   amount,
		Shares:   c.SharesFor(amount),
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case err != nil:
		slog.Error("investment submission failed", "asset", c.asset.ID, "error", err)
		c.state = State{Phase: PhaseError, Message: genericFailure}
	case result.Status == domain.ResultError:
		c.state = State{Phase: PhaseError, Message: result.Message}
	default:
		c.state = State{Phase: PhaseSuccess, ID: result.ID}
	}
	return c.state, nil
}

// validate applies the local form rules: positive amount, at or above the
// asset minimum when one is set.
func (c *InvestmentController) validate(amount string) (string, bool) {
	amt := domain.SafeParse(amount)
	if !amt.IsPositive() {
		return "Invalid investment amount", false
	}
	if minInv := domain.SafeParse(c.asset.MinInvestment); minInv.IsPositive() && amt.LessThan(minInv) {
		return "Invalid investment amount", false
	}
	return "", true
}
