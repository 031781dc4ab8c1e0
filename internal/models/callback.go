package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type CallbackOutcome string

const (
	OutcomeSuccess CallbackOutcome = "success"
	OutcomeFailure CallbackOutcome = "failure"
)

// CallbackResult is what the client result page needs after a gateway redirect.
type CallbackResult struct {
	Outcome              CallbackOutcome `json:"outcome"`
	PaymentRequestID     string          `json:"payment_request_id"`
	PaymentNumber        string          `json:"payment_number"`
	Amount               decimal.Decimal `json:"amount"`
	Currency             string          `json:"currency"`
	TransactionID        string          `json:"transaction_id"`
	GatewayTransactionID string          `json:"payu_transaction_id,omitempty"`
	PaymentMethod        string          `json:"payment_method,omitempty"`
	HashVerified         bool            `json:"hash_verified"`
	// AlreadyProcessed is true when the callback repeated one already applied.
	AlreadyProcessed bool   `json:"already_processed"`
	Title            string `json:"title"`
	Message          string `json:"message"`
}

// CallbackStore remembers gateway callbacks that were fully applied so
// repeated deliveries can short-circuit.
type CallbackStore interface {
	// MarkProcessed records key. Returns false if it was already recorded.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
	IsProcessed(ctx context.Context, key string) (bool, error)
	Close() error
}
