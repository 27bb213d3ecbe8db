package paystack

import "time"

// TransactionStatus is the settled state Paystack reports for a transaction.
type TransactionStatus string

const (
	TransactionSuccess   TransactionStatus = "success"
	TransactionFailed    TransactionStatus = "failed"
	TransactionAbandoned TransactionStatus = "abandoned"
	TransactionPending   TransactionStatus = "pending"
)

// IsPaid reports whether the transaction settled successfully.
func (s TransactionStatus) IsPaid() bool {
	return s == TransactionSuccess
}

// TransactionMetadata is the custom payload attached when initializing a
// transaction and echoed back on verify and webhook events.
type TransactionMetadata struct {
	TempReference string `json:"temp_reference,omitempty"`
	UserID        string `json:"user_id,omitempty"`
}

// InitializeTransactionRequest is the payload for creating a hosted checkout.
type InitializeTransactionRequest struct {
	Email       string               `json:"email"`
	AmountMinor int64                `json:"amount"`
	Currency    string               `json:"currency,omitempty"`
	Reference   string               `json:"reference"`
	CallbackURL string               `json:"callback_url,omitempty"`
	Metadata    *TransactionMetadata `json:"metadata,omitempty"`
}

// InitializedTransaction holds the hosted checkout hand-off values.
type InitializedTransaction struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// VerifiedTransaction is the normalized verify response.
type VerifiedTransaction struct {
	Status        TransactionStatus
	Reference     string
	AmountMinor   int64
	Currency      string
	Channel       string
	PaidAt        *time.Time
	CustomerEmail string
	Metadata      *TransactionMetadata
}
