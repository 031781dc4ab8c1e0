package payu

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// NewTransactionID returns a txnid of the form TXN<unix millis><0..999999>.
func NewTransactionID(now time.Time) string {
	return fmt.Sprintf("TXN%d%d", now.UnixMilli(), rand.IntN(1000000))
}

// NewInvoiceNumber returns INV-YYYYMM-<0..9999>.
func NewInvoiceNumber(now time.Time) string {
	return fmt.Sprintf("INV-%04d%02d-%d", now.Year(), int(now.Month()), rand.IntN(10000))
}

// Message is the user-facing wording of a payment outcome.
type Message struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// StatusMessage maps a gateway or outcome status to its result page wording.
func StatusMessage(status string) Message {
	switch strings.ToLower(status) {
	case "success":
		return Message{Title: "Payment Successful!", Message: "Your payment has been processed successfully.", Type: "success"}
	case "failure", "failed":
		return Message{Title: "Payment Failed", Message: "Your payment could not be processed. Please try again.", Type: "error"}
	case "pending":
		return Message{Title: "Payment Pending", Message: "Your payment is being processed. Please wait.", Type: "warning"}
	case "cancelled", "usercancelled":
		return Message{Title: "Payment Cancelled", Message: "You have cancelled the payment.", Type: "warning"}
	default:
		return Message{Title: "Unknown Status", Message: "Unable to determine payment status.", Type: "error"}
	}
}
