package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type TransactionStatus string

const (
	TransactionInitiated  TransactionStatus = "initiated"
	TransactionProcessing TransactionStatus = "processing"
	TransactionSuccess    TransactionStatus = "success"
	TransactionFailed     TransactionStatus = "failed"
	TransactionRefunded   TransactionStatus = "refunded"
)

// GatewayPayU is the only gateway wired today.
const GatewayPayU = "payu"

// Transaction is one attempt to move money against a payment request.
type Transaction struct {
	// ID is the unique identifier of the transaction row.
	ID string `json:"id" gorm:"column:id;primaryKey;size:36"`
	// PaymentRequestID is the owning payment request.
	PaymentRequestID string `json:"payment_request_id" gorm:"column:payment_request_id;size:36;index;not null"`
	// UserID is the paying account, when known.
	UserID *string `json:"user_id,omitempty" gorm:"column:user_id;size:36"`
	// TransactionID is our reference sent to the gateway as txnid.
	TransactionID string `json:"transaction_id" gorm:"column:transaction_id;uniqueIndex;not null"`
	// GatewayTransactionID is the gateway's own id (PayU mihpayid).
	GatewayTransactionID string `json:"payu_transaction_id,omitempty" gorm:"column:payu_transaction_id"`

	Amount   decimal.Decimal   `json:"amount" gorm:"column:amount;type:numeric(12,2);not null"`
	Currency string            `json:"currency" gorm:"column:currency;size:3;not null"`
	Status   TransactionStatus `json:"status" gorm:"column:status;size:16;index;not null"`

	// PaymentMethod is the gateway's mode, e.g. CC, NB, UPI.
	PaymentMethod  string `json:"payment_method,omitempty" gorm:"column:payment_method"`
	PaymentGateway string `json:"payment_gateway" gorm:"column:payment_gateway;not null"`
	BankRefNum     string `json:"bank_ref_num,omitempty" gorm:"column:bank_ref_num"`
	// GatewayResponse is the raw callback payload.
	GatewayResponse datatypes.JSON `json:"gateway_response,omitempty" gorm:"column:gateway_response"`
	ErrorMessage    *string        `json:"error_message,omitempty" gorm:"column:error_message"`
	InvoiceNumber   *string        `json:"invoice_number,omitempty" gorm:"column:invoice_number"`
	// HashVerified records whether the callback signature matched. Nil until a callback arrives.
	HashVerified *bool `json:"hash_verified,omitempty" gorm:"column:hash_verified"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// IsSettled reports whether the gateway has given a final answer for the attempt.
func (t *Transaction) IsSettled() bool {
	return t.Status == TransactionSuccess || t.Status == TransactionFailed || t.Status == TransactionRefunded
}
