package ledger

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Signer supplies the caller identity attached to every mutating request.
type Signer interface {
	Principal() string
	Sign(message []byte) []byte
}

// client is the shared HTTP transport for the remote ledger services.
// Calls are independent round-trips: no retries, no caching, no deduplication.
type client struct {
	baseURL    string
	service    string
	httpClient *http.Client
}

func newClient(baseURL, service string) client {
	return client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		service:    service,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// get performs a GET request and unmarshals the JSON response into dest.
// A 404 returns errNotFound so callers can map it to an absent record.
func (c client) get(ctx context.Context, op, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &RemoteCallError{Service: c.service, Op: op, Err: err}
	}

	body, status, err := c.do(req)
	if err != nil {
		return &RemoteCallError{Service: c.service, Op: op, Err: err}
	}
	if status == http.StatusNotFound {
		return errNotFound
	}
	if status/100 != 2 {
		return &RemoteCallError{Service: c.service, Op: op, Err: fmt.Errorf("HTTP %d: %s", status, string(body))}
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return &RemoteCallError{Service: c.service, Op: op, Err: fmt.Errorf("parsing response: %w", err)}
	}
	return nil
}

// post performs a signed POST request and unwraps the discriminated
// {"ok": ...} | {"err": "..."} envelope that every mutating remote method
// returns. The err branch is surfaced as a DomainError carrying the literal
// remote message.
func (c client) post(ctx context.Context, op, path string, payload any, signer Signer) (json.RawMessage, error) {
	body := new(bytes.Buffer)
	if err := json.NewEncoder(body).Encode(payload); err != nil {
		return nil, &RemoteCallError{Service: c.service, Op: op, Err: fmt.Errorf("encoding request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, &RemoteCallError{Service: c.service, Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if signer != nil {
		signRequest(req, signer, op)
	}

	data, status, err := c.do(req)
	if err != nil {
		return nil, &RemoteCallError{Service: c.service, Op: op, Err: err}
	}
	if status/100 != 2 {
		return nil, &RemoteCallError{Service: c.service, Op: op, Err: fmt.Errorf("HTTP %d: %s", status, string(data))}
	}

	var envelope struct {
		Ok  json.RawMessage `json:"ok"`
		Err *string         `json:"err"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, &RemoteCallError{Service: c.service, Op: op, Err: fmt.Errorf("parsing response: %w", err)}
	}
	if envelope.Err != nil {
		return nil, &DomainError{Message: *envelope.Err}
	}
	if envelope.Ok == nil {
		return nil, &RemoteCallError{Service: c.service, Op: op, Err: fmt.Errorf("malformed result: %s", string(data))}
	}
	return envelope.Ok, nil
}

func (c client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("reading response: %w", err)
	}
	return body, resp.StatusCode, nil
}

// signRequest attaches the requester, timestamp and signature headers. The
// signed message is "op|principal|timestamp".
func signRequest(req *http.Request, signer Signer, op string) {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
	message := strings.Join([]string{op, signer.Principal(), ts}, "|")
	req.Header.Set("Requester", signer.Principal())
	req.Header.Set("Timestamp", ts)
	req.Header.Set("Signature", hex.EncodeToString(signer.Sign([]byte(message))))
}

// decodeID extracts a plain string identifier from an ok payload.
func decodeID(service, op string, raw json.RawMessage) (string, error) {
	var id string
	if err := json.Unmarshal(raw, &id); err != nil {
		return "", &RemoteCallError{Service: service, Op: op, Err: fmt.Errorf("parsing result id: %w", err)}
	}
	return id, nil
}
