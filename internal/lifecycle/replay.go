package lifecycle

import (
	"fmt"

	"github.com/ei-sanu/someshprofile/internal/models"
)

var actionCommands = map[models.HistoryAction]CommandName{
	models.ActionClientSubmitted:  CmdSubmit,
	models.ActionAdminApproved:    CmdApprove,
	models.ActionAdminRejected:    CmdReject,
	models.ActionAdminCancelled:   CmdCancel,
	models.ActionClientAccepted:   CmdAccept,
	models.ActionEdited:           CmdEdit,
	models.ActionPaymentInitiated: CmdInitiatePayment,
	models.ActionPaymentCompleted: CmdRecordSuccess,
	models.ActionPaymentFailed:    CmdRecordFailure,
}

// Replay walks an ordered list of history actions through the transition
// table and returns the status it ends in. The first action must be created.
func Replay(actions []models.HistoryAction) (models.PaymentStatus, error) {
	if len(actions) == 0 {
		return "", fmt.Errorf("history is empty")
	}
	if actions[0] != models.ActionCreated {
		return "", fmt.Errorf("history step 0: expected %s, got %s", models.ActionCreated, actions[0])
	}

	status := models.StatusPendingClientReview
	for i, action := range actions[1:] {
		name, ok := actionCommands[action]
		if !ok {
			return status, fmt.Errorf("history step %d: unknown action %q", i+1, action)
		}
		t, ok := table[status][name]
		if !ok {
			return status, fmt.Errorf("history step %d: %w", i+1, &IllegalTransitionError{From: status, Command: name})
		}
		status = t.to
	}
	return status, nil
}
