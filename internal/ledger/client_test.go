package ledger

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dafiprotocol/gateway/internal/domain"
)

type stubSigner struct {
	principal string
}

func (s stubSigner) Principal() string { return s.principal }
func (s stubSigner) Sign(msg []byte) []byte { return []byte("sig:" + string(msg)) }

func TestRegisterAssetReturnsRemoteID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/assets" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Requester") != "farmer-1" {
			t.Errorf("Requester = %q, want farmer-1", r.Header.Get("Requester"))
		}
		if r.Header.Get("Signature") == "" {
			t.Error("missing Signature header")
		}
		if r.Header.Get("Timestamp") == "" {
			t.Error("missing Timestamp header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": "asset-42"}`))
	}))
	defer server.Close()

	registry := NewRegistry(server.URL)
	id, err := registry.RegisterAsset(context.Background(), stubSigner{"farmer-1"}, domain.TokenizeRequest{
		Owner:         "farmer-1",
		TotalShares:   100,
		PricePerShare: "50",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "asset-42" {
		t.Errorf("id = %q, want asset-42", id)
	}
}

func TestErrBranchBecomesDomainError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"err": "Insufficient shares available"}`))
	}))
	defer server.Close()

	investments := NewInvestments(server.URL)
	_, err := investments.CreateInvestment(context.Background(), stubSigner{"inv-1"}, InvestRequest{
		AssetID: "asset-1", Investor: "inv-1", Amount: "99999", Shares: 999,
	})

	var de *DomainError
	if !errors.As(err, &de) {
		t.Fatalf("expected DomainError, got %T: %v", err, err)
	}
	if de.Message != "Insufficient shares available" {
		t.Errorf("message = %q, want the literal remote message", de.Message)
	}
}

func TestTransportFailureBecomesRemoteCallError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`boom`))
	}))
	defer server.Close()

	returns := NewReturns(server.URL)
	_, err := returns.CreateReturn(context.Background(), stubSigner{"op-1"}, domain.CreateReturnRequest{AssetID: "asset-1", Amount: "5000"})

	var rce *RemoteCallError
	if !errors.As(err, &rce) {
		t.Fatalf("expected RemoteCallError, got %T: %v", err, err)
	}
	if rce.Service != "returns" || rce.Op != "createReturn" {
		t.Errorf("error context = %s/%s, want returns/createReturn", rce.Service, rce.Op)
	}
	if IsDomainError(err) {
		t.Error("transport failure must not classify as DomainError")
	}
}

func TestMalformedEnvelopeBecomesRemoteCallError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"neither": true}`))
	}))
	defer server.Close()

	registry := NewRegistry(server.URL)
	_, err := registry.RegisterAsset(context.Background(), stubSigner{"f"}, domain.TokenizeRequest{})

	var rce *RemoteCallError
	if !errors.As(err, &rce) {
		t.Fatalf("expected RemoteCallError, got %T: %v", err, err)
	}
}

func TestGetAssetMissingReturnsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	registry := NewRegistry(server.URL)
	asset, err := registry.GetAsset(context.Background(), "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if asset != nil {
		t.Errorf("asset = %+v, want nil", asset)
	}
}

func TestGetAssetParsesRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/assets/asset-7" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "asset-7",
			"owner": "farmer-1",
			"metadata": {"name": "Olive grove", "location": "Andalusia", "type": "orchard"},
			"totalShares": 1000,
			"pricePerShare": "25",
			"status": "Available"
		}`))
	}))
	defer server.Close()

	registry := NewRegistry(server.URL)
	asset, err := registry.GetAsset(context.Background(), "asset-7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if asset == nil {
		t.Fatal("asset is nil")
	}
	if asset.Metadata.Name != "Olive grove" {
		t.Errorf("metadata.name = %q, want Olive grove", asset.Metadata.Name)
	}
	if asset.TotalShares != 1000 {
		t.Errorf("totalShares = %d, want 1000", asset.TotalShares)
	}
	if asset.Status != domain.AssetStatusAvailable {
		t.Errorf("status = %q, want Available", asset.Status)
	}
}

func TestListInvestmentsPreservesRemoteOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("asset"); got != "asset-1" {
			t.Errorf("asset query = %q, want asset-1", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"records": [
			{"id": "inv-3", "amount": "300"},
			{"id": "inv-1", "amount": "100"},
			{"id": "inv-2", "amount": "200"}
		]}`))
	}))
	defer server.Close()

	investments := NewInvestments(server.URL)
	got, err := investments.GetInvestmentsByAsset(context.Background(), "asset-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantOrder := []string{"inv-3", "inv-1", "inv-2"}
	if len(got) != len(wantOrder) {
		t.Fatalf("count = %d, want %d", len(got), len(wantOrder))
	}
	for i, want := range wantOrder {
		if got[i].ID != want {
			t.Errorf("records[%d].ID = %q, want %q (remote order must be preserved)", i, got[i].ID, want)
		}
	}
}
