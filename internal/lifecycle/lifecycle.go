// Package lifecycle is the payment request state machine. It is pure: Apply
// never touches storage and returns the next state together with the events
// the caller must persist and dispatch.
package lifecycle

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ei-sanu/someshprofile/internal/models"
	"github.com/ei-sanu/someshprofile/pkg/validation"
)

const (
	DefaultCurrency     = "INR"
	DefaultCancelReason = "Payment request cancelled by admin"
)

// maxAmount is the largest value a numeric(12,2) column holds.
var maxAmount = decimal.New(1, 10)

type effect func(pr *models.PaymentRequest, cmd Command, now time.Time) ([]models.Event, error)

type transition struct {
	to     models.PaymentStatus
	effect effect
}

// table is the single source of truth for legal transitions.
var table = map[models.PaymentStatus]map[CommandName]transition{
	models.StatusPendingClientReview: {
		CmdSubmit: {to: models.StatusClientSubmitted, effect: submit},
		CmdCancel: {to: models.StatusCancelled, effect: cancel},
		CmdAccept: {to: models.StatusPaymentPending, effect: accept},
		CmdEdit:   {to: models.StatusPendingClientReview, effect: edit},
	},
	models.StatusClientSubmitted: {
		CmdApprove: {to: models.StatusAdminApproved, effect: approve},
		CmdReject:  {to: models.StatusAdminRejected, effect: reject},
		CmdCancel:  {to: models.StatusCancelled, effect: cancel},
		CmdEdit:    {to: models.StatusClientSubmitted, effect: edit},
	},
	models.StatusAdminApproved: {
		CmdAccept: {to: models.StatusPaymentPending, effect: accept},
	},
	models.StatusPaymentPending: {
		CmdCancel:          {to: models.StatusCancelled, effect: cancel},
		CmdInitiatePayment: {to: models.StatusPaymentPending, effect: initiatePayment},
		CmdRecordSuccess:   {to: models.StatusCompleted, effect: recordSuccess},
		CmdRecordFailure:   {to: models.StatusFailed, effect: recordFailure},
	},
	// A late success for an attempt that is still open settles a failed request.
	models.StatusFailed: {
		CmdInitiatePayment: {to: models.StatusPaymentPending, effect: initiatePayment},
		CmdRecordSuccess:   {to: models.StatusCompleted, effect: recordSuccess},
	},
}

// commandOrder fixes the order Allowed reports commands in.
var commandOrder = []CommandName{
	CmdSubmit, CmdAccept, CmdApprove, CmdReject, CmdEdit, CmdCancel,
	CmdInitiatePayment, CmdRecordSuccess, CmdRecordFailure,
}

// NewRequest validates admin input and builds a request in pending_client_review.
// The caller assigns ID and PaymentNumber.
func NewRequest(input models.CreatePaymentRequestInput, now time.Time) (*models.PaymentRequest, []models.Event, error) {
	email := validation.NormalizeEmail(input.ClientEmail)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, nil, &ValidationError{Field: "client_email", Message: err.Error()}
	}
	if err := validateAmount(input.Amount); err != nil {
		return nil, nil, err
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, nil, &ValidationError{Field: "description", Message: "must not be empty"}
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	if err := validation.ValidateCurrency(currency); err != nil {
		return nil, nil, &ValidationError{Field: "currency", Message: err.Error()}
	}
	phone := validation.NormalizePhone(input.ClientPhone)
	if err := validation.ValidatePhone(phone); err != nil {
		return nil, nil, &ValidationError{Field: "client_phone", Message: err.Error()}
	}

	pr := &models.PaymentRequest{
		CreatedByAdminID: input.CreatedByAdminID,
		ClientEmail:      email,
		ClientPhone:      phone,
		ClientName:       strings.TrimSpace(input.ClientName),
		Amount:           input.Amount,
		Currency:         currency,
		Description:      description,
		Remarks:          strings.TrimSpace(input.Remarks),
		Status:           models.StatusPendingClientReview,
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	return pr, []models.Event{models.RequestCreated{ActorID: input.CreatedByAdminID}}, nil
}

// Apply runs cmd against current. current is never modified. On error no
// state and no events are returned.
func Apply(current models.PaymentRequest, cmd Command, now time.Time) (*models.PaymentRequest, []models.Event, error) {
	t, ok := table[current.Status][cmd.Name()]
	if !ok {
		return nil, nil, &IllegalTransitionError{From: current.Status, Command: cmd.Name()}
	}

	next := current
	next.Transactions = nil
	events, err := t.effect(&next, cmd, now)
	if err != nil {
		return nil, nil, err
	}
	next.Status = t.to
	next.UpdatedAt = now
	return &next, events, nil
}

// Allowed lists the commands legal from status.
func Allowed(status models.PaymentStatus) []CommandName {
	var names []CommandName
	for _, name := range commandOrder {
		if _, ok := table[status][name]; ok {
			names = append(names, name)
		}
	}
	return names
}

// CanApply reports whether the pair exists in the table, ignoring guards.
func CanApply(status models.PaymentStatus, name CommandName) bool {
	_, ok := table[status][name]
	return ok
}

func submit(pr *models.PaymentRequest, cmd Command, now time.Time) ([]models.Event, error) {
	c := cmd.(Submit)
	return []models.Event{models.RequestSubmitted{ActorID: c.ActorID}}, nil
}

func approve(pr *models.PaymentRequest, cmd Command, now time.Time) ([]models.Event, error) {
	c := cmd.(Approve)
	fields, err := applyEdits(pr, c.Edits)
	if err != nil {
		return nil, err
	}
	pr.AdminApproved = true
	pr.AdminApprovalDate = &now
	return []models.Event{models.RequestApproved{ActorID: c.ActorID, EditedFields: fields}}, nil
}

func reject(pr *models.PaymentRequest, cmd Command, now time.Time) ([]models.Event, error) {
	c := cmd.(Reject)
	reason := strings.TrimSpace(c.Reason)
	if reason != "" {
		pr.Remarks = reason
	}
	return []models.Event{models.RequestRejected{ActorID: c.ActorID, Reason: reason}}, nil
}

func cancel(pr *models.PaymentRequest, cmd Command, now time.Time) ([]models.Event, error) {
	c := cmd.(Cancel)
	reason := strings.TrimSpace(c.Reason)
	if reason == "" {
		reason = DefaultCancelReason
	}
	pr.Remarks = reason
	pr.PaymentEnabled = false
	return []models.Event{models.RequestCancelled{ActorID: c.ActorID, Reason: reason}}, nil
}

func accept(pr *models.PaymentRequest, cmd Command, now time.Time) ([]models.Event, error) {
	c := cmd.(Accept)
	shortcut := pr.Status == models.StatusPendingClientReview
	if shortcut {
		pr.AdminApproved = true
		pr.AdminApprovalDate = &now
	} else if !pr.AdminApproved {
		return nil, &IllegalTransitionError{From: pr.Status, Command: CmdAccept, Reason: "request is not approved"}
	}
	pr.ClientAccepted = true
	pr.ClientAcceptanceDate = &now
	pr.PaymentEnabled = true
	return []models.Event{models.RequestAccepted{ActorID: c.ActorID, Shortcut: shortcut}}, nil
}

func edit(pr *models.PaymentRequest, cmd Command, now time.Time) ([]models.Event, error) {
	c := cmd.(Edit)
	if c.Edits.IsEmpty() {
		return nil, &ValidationError{Field: "edits", Message: "no fields to change"}
	}
	fields, err := applyEdits(pr, c.Edits)
	if err != nil {
		return nil, err
	}
	return []models.Event{models.RequestEdited{ActorID: c.ActorID, EditedFields: fields}}, nil
}

func initiatePayment(pr *models.PaymentRequest, cmd Command, now time.Time) ([]models.Event, error) {
	c := cmd.(InitiatePayment)
	if !pr.PaymentEnabled {
		return nil, &IllegalTransitionError{From: pr.Status, Command: CmdInitiatePayment, Reason: "payment is not enabled"}
	}
	if c.TransactionID == "" {
		return nil, &ValidationError{Field: "transaction_id", Message: "must not be empty"}
	}
	return []models.Event{models.PaymentInitiated{
		ActorID:       c.ActorID,
		TransactionID: c.TransactionID,
		Retry:         pr.Status == models.StatusFailed,
	}}, nil
}

func recordSuccess(pr *models.PaymentRequest, cmd Command, now time.Time) ([]models.Event, error) {
	c := cmd.(RecordSuccess)
	if !c.HashVerified && !c.AllowUnverified {
		return nil, &IllegalTransitionError{From: pr.Status, Command: CmdRecordSuccess, Reason: "response hash is not verified"}
	}
	return []models.Event{models.PaymentCompleted{
		TransactionID:        c.TransactionID,
		GatewayTransactionID: c.GatewayTransactionID,
		HashVerified:         c.HashVerified,
	}}, nil
}

func recordFailure(pr *models.PaymentRequest, cmd Command, now time.Time) ([]models.Event, error) {
	c := cmd.(RecordFailure)
	return []models.Event{models.PaymentFailed{
		TransactionID:    c.TransactionID,
		Reason:           c.Reason,
		SignatureFailure: c.SignatureFailure,
	}}, nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return &ValidationError{Field: "amount", Message: "must be greater than zero"}
	}
	if !amount.Equal(amount.Round(2)) {
		return &ValidationError{Field: "amount", Message: "must have at most two decimal places"}
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return &ValidationError{Field: "amount", Message: "is too large"}
	}
	return nil
}

// applyEdits validates and applies edits, returning the names of the fields set.
func applyEdits(pr *models.PaymentRequest, edits models.PaymentRequestEdits) ([]string, error) {
	var fields []string
	if edits.Amount != nil {
		if err := validateAmount(*edits.Amount); err != nil {
			return nil, err
		}
		pr.Amount = *edits.Amount
		fields = append(fields, "amount")
	}
	if edits.Description != nil {
		description := strings.TrimSpace(*edits.Description)
		if description == "" {
			return nil, &ValidationError{Field: "description", Message: "must not be empty"}
		}
		pr.Description = description
		fields = append(fields, "description")
	}
	if edits.Remarks != nil {
		pr.Remarks = strings.TrimSpace(*edits.Remarks)
		fields = append(fields, "remarks")
	}
	return fields, nil
}
