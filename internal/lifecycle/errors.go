package lifecycle

import (
	"fmt"

	"github.com/ei-sanu/someshprofile/internal/models"
)

// ValidationError reports malformed input. Field names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IllegalTransitionError reports a command that is not allowed from the
// current status, or whose guard does not hold.
type IllegalTransitionError struct {
	From    models.PaymentStatus
	Command CommandName
	// Reason is set when the pair exists in the table but a guard failed.
	Reason string
}

func (e *IllegalTransitionError) Error() string {
	msg := fmt.Sprintf("cannot %s a payment request in status %s", e.Command, e.From)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}
