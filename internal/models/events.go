package models

import "fmt"

// Event is emitted by a lifecycle transition. Each variant carries only the
// fields relevant to its action. Events become history rows and feed the
// notification dispatcher.
type Event interface {
	// Action is the history tag recorded for the event.
	Action() HistoryAction
	// Actor is the account that caused the event, nil for the gateway.
	Actor() *string
	// Notes is the free text stored with the history row.
	Notes() string
}

type RequestCreated struct {
	ActorID *string
}

func (e RequestCreated) Action() HistoryAction { return ActionCreated }
func (e RequestCreated) Actor() *string        { return e.ActorID }
func (e RequestCreated) Notes() string         { return "" }

type RequestSubmitted struct {
	ActorID *string
}

func (e RequestSubmitted) Action() HistoryAction { return ActionClientSubmitted }
func (e RequestSubmitted) Actor() *string        { return e.ActorID }
func (e RequestSubmitted) Notes() string         { return "" }

type RequestApproved struct {
	ActorID *string
	// EditedFields names the fields changed together with the approval.
	EditedFields []string
}

func (e RequestApproved) Action() HistoryAction { return ActionAdminApproved }
func (e RequestApproved) Actor() *string        { return e.ActorID }
func (e RequestApproved) Notes() string {
	if len(e.EditedFields) == 0 {
		return ""
	}
	return fmt.Sprintf("approved with edits: %v", e.EditedFields)
}

type RequestRejected struct {
	ActorID *string
	Reason  string
}

func (e RequestRejected) Action() HistoryAction { return ActionAdminRejected }
func (e RequestRejected) Actor() *string        { return e.ActorID }
func (e RequestRejected) Notes() string         { return e.Reason }

type RequestCancelled struct {
	ActorID *string
	Reason  string
}

func (e RequestCancelled) Action() HistoryAction { return ActionAdminCancelled }
func (e RequestCancelled) Actor() *string        { return e.ActorID }
func (e RequestCancelled) Notes() string         { return e.Reason }

type RequestAccepted struct {
	ActorID *string
	// Shortcut is true when the client accepted straight from review,
	// approving the request implicitly.
	Shortcut bool
}

func (e RequestAccepted) Action() HistoryAction { return ActionClientAccepted }
func (e RequestAccepted) Actor() *string        { return e.ActorID }
func (e RequestAccepted) Notes() string {
	if e.Shortcut {
		return "Client accepted payment request and is ready to pay"
	}
	return "Client accepted approved payment request"
}

type RequestEdited struct {
	ActorID      *string
	EditedFields []string
}

func (e RequestEdited) Action() HistoryAction { return ActionEdited }
func (e RequestEdited) Actor() *string        { return e.ActorID }
func (e RequestEdited) Notes() string         { return fmt.Sprintf("edited: %v", e.EditedFields) }

type PaymentInitiated struct {
	ActorID       *string
	TransactionID string
	// Retry is true when the attempt follows a failed one.
	Retry bool
}

func (e PaymentInitiated) Action() HistoryAction { return ActionPaymentInitiated }
func (e PaymentInitiated) Actor() *string        { return e.ActorID }
func (e PaymentInitiated) Notes() string {
	if e.Retry {
		return "retry after failed payment, txnid " + e.TransactionID
	}
	return "txnid " + e.TransactionID
}

type PaymentCompleted struct {
	TransactionID        string
	GatewayTransactionID string
	HashVerified         bool
}

func (e PaymentCompleted) Action() HistoryAction { return ActionPaymentCompleted }
func (e PaymentCompleted) Actor() *string        { return nil }
func (e PaymentCompleted) Notes() string {
	notes := fmt.Sprintf("txnid %s, mihpayid %s", e.TransactionID, e.GatewayTransactionID)
	if !e.HashVerified {
		notes += ", hash not verified"
	}
	return notes
}

type PaymentFailed struct {
	TransactionID string
	Reason        string
	// SignatureFailure is true when the failure comes from a hash mismatch
	// rather than a gateway decline.
	SignatureFailure bool
}

func (e PaymentFailed) Action() HistoryAction { return ActionPaymentFailed }
func (e PaymentFailed) Actor() *string        { return nil }
func (e PaymentFailed) Notes() string {
	if e.SignatureFailure {
		return fmt.Sprintf("txnid %s: signature verification failed", e.TransactionID)
	}
	return fmt.Sprintf("txnid %s: %s", e.TransactionID, e.Reason)
}
