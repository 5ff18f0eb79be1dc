package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/dafiprotocol/gateway/internal/domain"
)

// Document is a KYC document submitted for verification.
type Document struct {
	Principal string `json:"principal"`
	Kind      string `json:"kind"`
	Content   []byte `json:"content"`
}

// DocumentRequest is the HTTP-compatible query for retrieving a stored
// document from the KYC service.
type DocumentRequest struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    []byte            `json:"body,omitempty"`
}

// DocumentResponse is one chunk of a document retrieval. A non-nil NextToken
// means more chunks follow; pass it back to continue streaming.
type DocumentResponse struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       []byte            `json:"body"`
	NextToken  *string           `json:"nextToken,omitempty"`
}

// KYC is the client for the remote KYC service.
type KYC struct {
	client
}

// NewKYC creates a KYC service client.
func NewKYC(baseURL string) *KYC {
	return &KYC{client: newClient(baseURL, "kyc")}
}

// AddDocument submits a verification document and returns the remote-assigned id.
func (k *KYC) AddDocument(ctx context.Context, signer Signer, doc Document) (string, error) {
	raw, err := k.post(ctx, "addDocument", "/v1/documents", doc, signer)
	if err != nil {
		return "", err
	}
	return decodeID(k.service, "addDocument", raw)
}

// VerifyKYC requests verification of the given principal's submitted documents.
func (k *KYC) VerifyKYC(ctx context.Context, signer Signer, principal string) error {
	payload := map[string]any{"principal": principal}
	_, err := k.post(ctx, "verifyKYC", "/v1/verify", payload, signer)
	return err
}

// GetStatus fetches the verification status of a principal.
func (k *KYC) GetStatus(ctx context.Context, principal string) (domain.KYCStatus, error) {
	var resp struct {
		Status domain.KYCStatus `json:"status"`
	}
	if err := k.get(ctx, "getStatus", fmt.Sprintf("/v1/status?principal=%s", url.QueryEscape(principal)), &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// QueryDocument performs a single HTTP-compatible document query.
func (k *KYC) QueryDocument(ctx context.Context, signer Signer, req DocumentRequest) (DocumentResponse, error) {
	raw, err := k.post(ctx, "queryDocument", "/v1/documents/query", req, signer)
	if err != nil {
		return DocumentResponse{}, err
	}

	var resp DocumentResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return DocumentResponse{}, &RemoteCallError{Service: k.service, Op: "queryDocument", Err: fmt.Errorf("parsing document response: %w", err)}
	}
	return resp, nil
}

// FetchDocument retrieves a complete document, following streaming
// continuation tokens until the response is exhausted.
func (k *KYC) FetchDocument(ctx context.Context, signer Signer, req DocumentRequest) ([]byte, error) {
	var content []byte
	for {
		resp, err := k.QueryDocument(ctx, signer, req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode/100 != 2 {
			return nil, &RemoteCallError{Service: k.service, Op: "queryDocument", Err: fmt.Errorf("document status %d", resp.StatusCode)}
		}
		content = append(content, resp.Body...)

		if resp.NextToken == nil {
			return content, nil
		}
		if req.Headers == nil {
			req.Headers = make(map[string]string)
		}
		req.Headers["Continuation-Token"] = *resp.NextToken
	}
}
