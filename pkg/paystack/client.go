package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/sanmiadewale/modaville-backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://api.paystack.co"
	responseBodyLimit    int64 = 2048
	secretKeyTestPrefix        = "sk_test_"
	secretKeyLivePrefix        = "sk_live_"
)

var errSecretKeyRequired = errors.New("paystack secret key is required")

// Client wraps the Paystack transaction APIs used during checkout.
type Client struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the Paystack API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds a Paystack client given a secret key.
func NewClient(secretKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(secretKey)
	if trimmedKey == "" {
		return nil, errSecretKeyRequired
	}
	if !strings.HasPrefix(trimmedKey, secretKeyTestPrefix) && !strings.HasPrefix(trimmedKey, secretKeyLivePrefix) {
		return nil, fmt.Errorf("paystack secret key must start with %s or %s", secretKeyTestPrefix, secretKeyLivePrefix)
	}

	client := &Client{
		secretKey:  trimmedKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}

	return client, nil
}

// InitializeTransaction creates a Paystack transaction and returns the hosted
// checkout URL the client is redirected to.
func (c *Client) InitializeTransaction(ctx context.Context, req InitializeTransactionRequest) (*InitializedTransaction, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "paystack client not configured")
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}
	if req.AmountMinor <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction amount must be positive")
	}
	if strings.TrimSpace(req.Reference) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction reference is required")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal initialize request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL("transaction/initialize"), bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build initialize request")
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute initialize request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp, "initialize transaction failed")
	}

	var apiResp struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			AuthorizationURL string `json:"authorization_url"`
			AccessCode       string `json:"access_code"`
			Reference        string `json:"reference"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode initialize response")
	}
	if !apiResp.Status {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("initialize transaction rejected: %s", apiResp.Message))
	}

	return &InitializedTransaction{
		AuthorizationURL: apiResp.Data.AuthorizationURL,
		AccessCode:       apiResp.Data.AccessCode,
		Reference:        apiResp.Data.Reference,
	}, nil
}

// VerifyTransaction fetches the settled state of a transaction by reference.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*VerifiedTransaction, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "paystack client not configured")
	}
	trimmed := strings.TrimSpace(reference)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction reference is required")
	}

	endpoint := fmt.Sprintf("%s/transaction/verify/%s", strings.TrimRight(c.baseURL, "/"), url.PathEscape(trimmed))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build verify request")
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute verify request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction reference not found")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp, "verify transaction failed")
	}

	var apiResp struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			Status    string          `json:"status"`
			Reference string          `json:"reference"`
			Amount    int64           `json:"amount"`
			Currency  string          `json:"currency"`
			Channel   string          `json:"channel"`
			PaidAt    *time.Time      `json:"paid_at"`
			Metadata  json.RawMessage `json:"metadata"`
			Customer  struct {
				Email string `json:"email"`
			} `json:"customer"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode verify response")
	}
	if !apiResp.Status {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("verify transaction rejected: %s", apiResp.Message))
	}

	verified := &VerifiedTransaction{
		Status:        TransactionStatus(apiResp.Data.Status),
		Reference:     apiResp.Data.Reference,
		AmountMinor:   apiResp.Data.Amount,
		Currency:      apiResp.Data.Currency,
		Channel:       apiResp.Data.Channel,
		PaidAt:        apiResp.Data.PaidAt,
		CustomerEmail: apiResp.Data.Customer.Email,
	}
	if len(apiResp.Data.Metadata) > 0 && string(apiResp.Data.Metadata) != "null" {
		var meta TransactionMetadata
		if err := json.Unmarshal(apiResp.Data.Metadata, &meta); err == nil {
			verified.Metadata = &meta
		}
	}
	return verified, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")
}

func (c *Client) buildURL(path string) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(c.baseURL, "/"), strings.TrimLeft(path, "/"))
}

func apiError(resp *http.Response, msg string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyLimit))
	code := pkgerrors.CodeDependency
	if resp.StatusCode == http.StatusUnauthorized {
		code = pkgerrors.CodeUnauthorized
	}
	return pkgerrors.Wrap(code, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), msg)
}
