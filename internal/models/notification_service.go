package models

import "context"

// NotificationService turns lifecycle events into notifications.
// Dispatch is best-effort: failures are logged and never returned.
type NotificationService interface {
	Dispatch(ctx context.Context, pr *PaymentRequest, events []Event)
}
