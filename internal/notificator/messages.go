package notificator

import (
	"fmt"
	"strings"

	"github.com/ei-sanu/someshprofile/internal/models"
)

type audience int

const (
	audienceClient audience = iota + 1
	audienceAdmins
)

type message struct {
	audience audience
	title    string
	body     string
	kind     models.NotificationType
}

// messageFor maps a lifecycle event to the notification it produces.
// Events without a notification return false.
func messageFor(pr *models.PaymentRequest, event models.Event) (message, bool) {
	switch e := event.(type) {
	case models.RequestCreated:
		return message{
			audience: audienceClient,
			title:    "New Payment Request",
			body:     fmt.Sprintf("You have a new payment request for %s %s", pr.Currency, pr.Amount.StringFixed(2)),
			kind:     models.NotificationPaymentPending,
		}, true
	case models.RequestSubmitted:
		return message{
			audience: audienceAdmins,
			title:    "Payment Request Submitted",
			body:     fmt.Sprintf("A client has submitted payment request %s for review", pr.PaymentNumber),
			kind:     models.NotificationInfo,
		}, true
	case models.RequestApproved:
		return message{
			audience: audienceClient,
			title:    "Payment Request Approved",
			body:     "Your payment request has been approved. Please review and accept to proceed with payment.",
			kind:     models.NotificationPaymentApproved,
		}, true
	case models.RequestRejected:
		body := e.Reason
		if body == "" {
			body = "Your payment request has been rejected."
		}
		return message{
			audience: audienceClient,
			title:    "Payment Request Rejected",
			body:     body,
			kind:     models.NotificationError,
		}, true
	case models.RequestCancelled:
		return message{
			audience: audienceClient,
			title:    "Payment Request Cancelled",
			body:     strings.TrimSpace(fmt.Sprintf("Your payment request %s has been cancelled. %s", pr.PaymentNumber, e.Reason)),
			kind:     models.NotificationError,
		}, true
	case models.PaymentCompleted:
		return message{
			audience: audienceAdmins,
			title:    "Payment Completed",
			body:     fmt.Sprintf("Payment %s of %s %s has been successfully completed", pr.PaymentNumber, pr.Currency, pr.Amount.StringFixed(2)),
			kind:     models.NotificationSuccess,
		}, true
	}
	return message{}, false
}
