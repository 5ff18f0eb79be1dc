package identity

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrWalletUnavailable indicates no compatible wallet is reachable. Recoverable
// by retrying connect once a wallet is present.
var ErrWalletUnavailable = errors.New("wallet unavailable")

// ErrUserRejected indicates the wallet declined the connection prompt.
var ErrUserRejected = errors.New("connection rejected by user")

// Wallet authorizes accounts on behalf of the user.
type Wallet interface {
	Authorize(ctx context.Context) (principal string, key ed25519.PrivateKey, err error)
}

// LocalWallet is an in-process wallet holding generated ed25519 keys. Used for
// development and tests; each principal keeps a stable key across authorizations.
type LocalWallet struct {
	principal string
	key       ed25519.PrivateKey
}

// NewLocalWallet creates a wallet for a single principal with a fresh key.
func NewLocalWallet(principal string) (*LocalWallet, error) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating wallet key: %w", err)
	}
	return &LocalWallet{principal: principal, key: key}, nil
}

func (w *LocalWallet) Authorize(_ context.Context) (string, ed25519.PrivateKey, error) {
	return w.principal, w.key, nil
}

// RemoteWallet authorizes accounts through an external identity provider.
type RemoteWallet struct {
	providerURL string
	httpClient  *http.Client
}

// NewRemoteWallet creates a wallet backed by the identity provider at
// providerURL. An empty URL yields a wallet that always reports unavailable,
// degrading the connect flow without crashing unrelated features.
func NewRemoteWallet(providerURL string) *RemoteWallet {
	return &RemoteWallet{
		providerURL: providerURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (w *RemoteWallet) Authorize(ctx context.Context) (string, ed25519.PrivateKey, error) {
	if w.providerURL == "" {
		return "", nil, ErrWalletUnavailable
	}

	body := bytes.NewBufferString(`{}`)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.providerURL+"/v1/authorize", body)
	if err != nil {
		return "", nil, fmt.Errorf("creating authorize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrWalletUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("reading authorize response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return "", nil, ErrUserRejected
	case resp.StatusCode/100 != 2:
		return "", nil, fmt.Errorf("%w: HTTP %d", ErrWalletUnavailable, resp.StatusCode)
	}

	var grant struct {
		Principal string `json:"principal"`
		Seed      string `json:"seed"`
	}
	if err := json.Unmarshal(data, &grant); err != nil {
		return "", nil, fmt.Errorf("parsing authorize response: %w", err)
	}

	seed, err := hex.DecodeString(grant.Seed)
	if err != nil || len(seed) != ed25519.SeedSize {
		return "", nil, fmt.Errorf("invalid key seed for %s", grant.Principal)
	}
	return grant.Principal, ed25519.NewKeyFromSeed(seed), nil
}
