package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the lifecycle state of a payment request.
type PaymentStatus string

const (
	StatusPendingClientReview PaymentStatus = "pending_client_review"
	StatusClientSubmitted     PaymentStatus = "client_submitted"
	StatusAdminApproved       PaymentStatus = "admin_approved"
	StatusAdminRejected       PaymentStatus = "admin_rejected"
	StatusPaymentPending      PaymentStatus = "payment_pending"
	StatusCompleted           PaymentStatus = "completed"
	StatusFailed              PaymentStatus = "failed"
	StatusCancelled           PaymentStatus = "cancelled"
)

// AllStatuses lists every payment status in lifecycle order.
var AllStatuses = []PaymentStatus{
	StatusPendingClientReview,
	StatusClientSubmitted,
	StatusAdminApproved,
	StatusAdminRejected,
	StatusPaymentPending,
	StatusCompleted,
	StatusFailed,
	StatusCancelled,
}

func (s PaymentStatus) IsValid() bool {
	for _, status := range AllStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition can leave s.
// failed is not terminal: a client may retry the payment.
func (s PaymentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusAdminRejected || s == StatusCancelled
}

// PaymentRequest is an admin-issued bill awaiting client review and payment.
// It is the aggregate root for transactions and history.
type PaymentRequest struct {
	// ID is the unique identifier of the payment request.
	ID string `json:"id" gorm:"column:id;primaryKey;size:36"`
	// PaymentNumber is the human readable unique number, e.g. PAY-202610-7QX2KD.
	PaymentNumber string `json:"payment_number" gorm:"column:payment_number;uniqueIndex;not null"`
	// UserID links the request to a client account once one is known.
	UserID *string `json:"user_id,omitempty" gorm:"column:user_id;size:36;index"`
	// CreatedByAdminID is the account that issued the request.
	CreatedByAdminID *string `json:"created_by_admin_id,omitempty" gorm:"column:created_by_admin_id;size:36"`
	// ClientEmail is the billed client's email, used to resolve the client account.
	ClientEmail string `json:"client_email" gorm:"column:client_email;index;not null"`
	ClientPhone string `json:"client_phone,omitempty" gorm:"column:client_phone;index"`
	ClientName  string `json:"client_name,omitempty" gorm:"column:client_name"`

	Amount   decimal.Decimal `json:"amount" gorm:"column:amount;type:numeric(12,2);not null"`
	Currency string          `json:"currency" gorm:"column:currency;size:3;not null"`

	Description string `json:"description" gorm:"column:description;not null"`
	// Remarks holds admin notes, rejection and cancellation reasons.
	Remarks string `json:"remarks,omitempty" gorm:"column:remarks"`

	Status PaymentStatus `json:"status" gorm:"column:status;size:32;index;not null"`

	AdminApproved        bool       `json:"admin_approved" gorm:"column:admin_approved"`
	AdminApprovalDate    *time.Time `json:"admin_approval_date,omitempty" gorm:"column:admin_approval_date"`
	ClientAccepted       bool       `json:"client_accepted" gorm:"column:client_accepted"`
	ClientAcceptanceDate *time.Time `json:"client_acceptance_date,omitempty" gorm:"column:client_acceptance_date"`
	// PaymentEnabled gates the gateway redirect. Only set together with
	// AdminApproved and ClientAccepted.
	PaymentEnabled bool `json:"payment_enabled" gorm:"column:payment_enabled"`

	// Version is incremented on every write and checked on update.
	Version int64 `json:"version" gorm:"column:version;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`

	Transactions []Transaction `json:"transactions,omitempty" gorm:"foreignKey:PaymentRequestID"`
}

func (PaymentRequest) TableName() string {
	return "payment_requests"
}

// OwnedBy reports whether account is the client of the request, either through
// the linked user id or the client email.
func (p *PaymentRequest) OwnedBy(account *Account) bool {
	if account == nil {
		return false
	}
	if p.UserID != nil && *p.UserID == account.ID {
		return true
	}
	return p.ClientEmail != "" && p.ClientEmail == account.Email
}

// LatestTransaction returns the most recently created loaded transaction.
func (p *PaymentRequest) LatestTransaction() *Transaction {
	var latest *Transaction
	for i := range p.Transactions {
		if latest == nil || p.Transactions[i].CreatedAt.After(latest.CreatedAt) {
			latest = &p.Transactions[i]
		}
	}
	return latest
}

// PaymentRequestSnapshot is the state-bearing subset of a request stored in history.
type PaymentRequestSnapshot struct {
	Status         PaymentStatus   `json:"status"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Description    string          `json:"description"`
	Remarks        string          `json:"remarks,omitempty"`
	AdminApproved  bool            `json:"admin_approved"`
	ClientAccepted bool            `json:"client_accepted"`
	PaymentEnabled bool            `json:"payment_enabled"`
}

func (p *PaymentRequest) Snapshot() PaymentRequestSnapshot {
	return PaymentRequestSnapshot{
		Status:         p.Status,
		Amount:         p.Amount,
		Currency:       p.Currency,
		Description:    p.Description,
		Remarks:        p.Remarks,
		AdminApproved:  p.AdminApproved,
		ClientAccepted: p.ClientAccepted,
		PaymentEnabled: p.PaymentEnabled,
	}
}

// CreatePaymentRequestInput is the admin input for a new payment request.
type CreatePaymentRequestInput struct {
	ClientEmail string
	ClientPhone string
	ClientName  string
	Amount      decimal.Decimal
	Currency    string
	Description string
	Remarks     string
	// CreatedByAdminID is filled by the service from the acting admin.
	CreatedByAdminID *string
}

// PaymentRequestEdits are the fields an admin may change up to approval.
// Nil fields are left untouched.
type PaymentRequestEdits struct {
	Amount      *decimal.Decimal
	Description *string
	Remarks     *string
}

// IsEmpty reports whether no field is set.
func (e PaymentRequestEdits) IsEmpty() bool {
	return e.Amount == nil && e.Description == nil && e.Remarks == nil
}

// PaymentRequestFilter narrows admin listings.
type PaymentRequestFilter struct {
	Status PaymentStatus
	Limit  int
	Offset int
}
