package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"
)

// SignatureHeader is the header Paystack signs webhook deliveries with.
const SignatureHeader = "x-paystack-signature"

// Webhook event types handled by the platform.
const (
	EventChargeSuccess = "charge.success"
)

// WebhookEvent is the decoded envelope of a Paystack webhook delivery.
type WebhookEvent struct {
	Event string           `json:"event"`
	Data  WebhookEventData `json:"data"`
}

// WebhookEventData carries the transaction fields used by payment reconciliation.
type WebhookEventData struct {
	Status    string               `json:"status"`
	Reference string               `json:"reference"`
	Amount    int64                `json:"amount"`
	Currency  string               `json:"currency"`
	Channel   string               `json:"channel"`
	PaidAt    *time.Time           `json:"paid_at"`
	Metadata  *TransactionMetadata `json:"metadata"`
	Customer  struct {
		Email string `json:"email"`
	} `json:"customer"`
}

// ValidateSignature checks the HMAC-SHA512 signature Paystack computes over
// the raw request body with the account secret key.
func ValidateSignature(secretKey string, body []byte, signature string) bool {
	trimmed := strings.TrimSpace(signature)
	if trimmed == "" || len(body) == 0 {
		return false
	}

	mac := hmac.New(sha512.New, []byte(secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(strings.ToLower(trimmed)))
}

// ParseWebhookEvent decodes the raw webhook body into its typed envelope.
func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
