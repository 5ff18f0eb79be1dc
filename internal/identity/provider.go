package identity

import (
	"context"
	"log/slog"
	"sync"
)

// State is the connection state of the provider.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
)

// EventType classifies session lifecycle notifications.
type EventType string

const (
	EventConnected      EventType = "connected"
	EventDisconnected   EventType = "disconnected"
	EventAccountChanged EventType = "accountChanged"
)

// Event notifies subscribers of a session change. Session is nil on disconnect.
// Delivery is asynchronous: readers may observe a stale session between the
// event firing and their own re-read.
type Event struct {
	Type    EventType
	Session *Session
}

// Provider owns the current session for the lifetime of a connected account.
// All session mutation flows through Connect, Disconnect and SwitchAccount;
// everything else only reads.
type Provider struct {
	wallet Wallet

	mu      sync.RWMutex
	state   State
	session *Session
	subs    map[chan Event]struct{}
}

// NewProvider creates a disconnected provider backed by the given wallet.
func NewProvider(wallet Wallet) *Provider {
	return &Provider{
		wallet: wallet,
		state:  StateDisconnected,
		subs:   make(map[chan Event]struct{}),
	}
}

// State returns the current connection state.
func (p *Provider) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Current returns the active session, or false when disconnected.
func (p *Provider) Current() (*Session, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.session, p.session != nil
}

// Connect establishes a session. Idempotent when already connected: the
// existing session is returned without re-prompting the wallet. Fails with
// ErrWalletUnavailable or ErrUserRejected from the wallet, in which case the
// provider returns to the disconnected state.
func (p *Provider) Connect(ctx context.Context) (*Session, error) {
	p.mu.Lock()
	if p.state == StateConnected {
		session := p.session
		p.mu.Unlock()
		return session, nil
	}
	p.state = StateConnecting
	p.mu.Unlock()

	principal, key, err := p.wallet.Authorize(ctx)
	if err != nil {
		p.mu.Lock()
		p.state = StateDisconnected
		p.mu.Unlock()
		return nil, err
	}

	session := NewSession(principal, key)

	p.mu.Lock()
	p.state = StateConnected
	p.session = session
	p.mu.Unlock()

	slog.Info("wallet connected", "principal", principal)
	p.broadcast(Event{Type: EventConnected, Session: session})
	return session, nil
}

// Disconnect drops the current session. No-op when already disconnected.
func (p *Provider) Disconnect() {
	p.mu.Lock()
	if p.session == nil {
		p.mu.Unlock()
		return
	}
	principal := p.session.Principal()
	p.state = StateDisconnected
	p.session = nil
	p.mu.Unlock()

	slog.Info("wallet disconnected", "principal", principal)
	p.broadcast(Event{Type: EventDisconnected})
}

// SwitchAccount re-authorizes through the wallet and replaces the session.
// Subscribers must re-derive any identity-scoped state on the resulting
// accountChanged event. The previous session stays active if the wallet fails.
func (p *Provider) SwitchAccount(ctx context.Context) (*Session, error) {
	principal, key, err := p.wallet.Authorize(ctx)
	if err != nil {
		return nil, err
	}

	session := NewSession(principal, key)

	p.mu.Lock()
	p.state = StateConnected
	p.session = session
	p.mu.Unlock()

	slog.Info("wallet account changed", "principal", principal)
	p.broadcast(Event{Type: EventAccountChanged, Session: session})
	return session, nil
}

// Subscribe registers a listener for session events. The channel is buffered;
// events are dropped for subscribers that stop draining.
func (p *Provider) Subscribe() chan Event {
	ch := make(chan Event, 8)
	p.mu.Lock()
	p.subs[ch] = struct{}{}
	p.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener and closes its channel.
func (p *Provider) Unsubscribe(ch chan Event) {
	p.mu.Lock()
	if _, ok := p.subs[ch]; ok {
		delete(p.subs, ch)
		close(ch)
	}
	p.mu.Unlock()
}

func (p *Provider) broadcast(ev Event) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for ch := range p.subs {
		select {
		case ch <- ev:
		default:
			slog.Warn("dropping session event for slow subscriber", "event", ev.Type)
		}
	}
}
