package lifecycle

import "github.com/ei-sanu/someshprofile/internal/models"

// CommandName identifies an action requested on a payment request.
type CommandName string

const (
	CmdSubmit          CommandName = "submit"
	CmdApprove         CommandName = "approve"
	CmdReject          CommandName = "reject"
	CmdCancel          CommandName = "cancel"
	CmdAccept          CommandName = "accept"
	CmdEdit            CommandName = "edit"
	CmdInitiatePayment CommandName = "initiate_payment"
	CmdRecordSuccess   CommandName = "record_success"
	CmdRecordFailure   CommandName = "record_failure"
)

// Command is one requested transition with its payload.
type Command interface {
	Name() CommandName
}

// Submit is the client asking for formal admin review.
type Submit struct {
	ActorID *string
}

// Approve is the admin approving, optionally editing amount, description or remarks.
type Approve struct {
	ActorID *string
	Edits   models.PaymentRequestEdits
}

type Reject struct {
	ActorID *string
	Reason  string
}

// Cancel withdraws the request. An empty reason gets the default wording.
type Cancel struct {
	ActorID *string
	Reason  string
}

// Accept is the client accepting the request. From pending_client_review it
// also approves the request implicitly.
type Accept struct {
	ActorID *string
}

// Edit changes amount, description or remarks without a status change.
type Edit struct {
	ActorID *string
	Edits   models.PaymentRequestEdits
}

// InitiatePayment starts a gateway attempt. From failed it is a retry.
type InitiatePayment struct {
	ActorID       *string
	TransactionID string
}

// RecordSuccess applies a gateway success. An unverified hash is only
// accepted when AllowUnverified is set.
type RecordSuccess struct {
	TransactionID        string
	GatewayTransactionID string
	HashVerified         bool
	AllowUnverified      bool
}

// RecordFailure applies a gateway decline or a signature verification failure.
type RecordFailure struct {
	TransactionID    string
	Reason           string
	SignatureFailure bool
}

func (Submit) Name() CommandName          { return CmdSubmit }
func (Approve) Name() CommandName         { return CmdApprove }
func (Reject) Name() CommandName          { return CmdReject }
func (Cancel) Name() CommandName          { return CmdCancel }
func (Accept) Name() CommandName          { return CmdAccept }
func (Edit) Name() CommandName            { return CmdEdit }
func (InitiatePayment) Name() CommandName { return CmdInitiatePayment }
func (RecordSuccess) Name() CommandName   { return CmdRecordSuccess }
func (RecordFailure) Name() CommandName   { return CmdRecordFailure }
