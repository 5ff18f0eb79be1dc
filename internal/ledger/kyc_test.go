package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dafiprotocol/gateway/internal/domain"
)

func TestGetStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("principal"); got != "user-1" {
			t.Errorf("principal query = %q, want user-1", got)
		}
		w.Write([]byte(`{"status": "verified"}`))
	}))
	defer server.Close()

	kyc := NewKYC(server.URL)
	status, err := kyc.GetStatus(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != domain.KYCStatusVerified {
		t.Errorf("status = %q, want verified", status)
	}
}

func TestFetchDocumentFollowsContinuationToken(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req DocumentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}

		calls++
		switch calls {
		case 1:
			if req.Headers["Continuation-Token"] != "" {
				t.Errorf("first query carried a continuation token: %q", req.Headers["Continuation-Token"])
			}
			resp := DocumentResponse{StatusCode: 200, Body: []byte("first-"), NextToken: ptr("tok-2")}
			writeOk(t, w, resp)
		case 2:
			if req.Headers["Continuation-Token"] != "tok-2" {
				t.Errorf("continuation token = %q, want tok-2", req.Headers["Continuation-Token"])
			}
			resp := DocumentResponse{StatusCode: 200, Body: []byte("second")}
			writeOk(t, w, resp)
		default:
			t.Errorf("unexpected extra query %d", calls)
		}
	}))
	defer server.Close()

	kyc := NewKYC(server.URL)
	content, err := kyc.FetchDocument(context.Background(), stubSigner{"user-1"}, DocumentRequest{
		Method: http.MethodGet,
		URL:    "/documents/doc-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(content) != "first-second" {
		t.Errorf("content = %q, want chunks concatenated in order", content)
	}
	if calls != 2 {
		t.Errorf("queries = %d, want 2", calls)
	}
}

func writeOk(t *testing.T, w http.ResponseWriter, resp DocumentResponse) {
	t.Helper()
	ok, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshaling response: %v", err)
	}
	w.Write([]byte(`{"ok": ` + string(ok) + `}`))
}

func ptr(s string) *string { return &s }
