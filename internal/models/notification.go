package models

import (
	"fmt"
	"time"
)

type NotificationType string

const (
	NotificationInfo            NotificationType = "info"
	NotificationSuccess         NotificationType = "success"
	NotificationWarning         NotificationType = "warning"
	NotificationError           NotificationType = "error"
	NotificationPaymentPending  NotificationType = "payment_pending"
	NotificationPaymentApproved NotificationType = "payment_approved"
)

// Notification is an in-app message for one recipient account.
type Notification struct {
	// ID is the unique identifier for the notification.
	ID string `json:"id" gorm:"column:id;primaryKey;size:36"`
	// UserID is the recipient account.
	UserID string `json:"user_id" gorm:"column:user_id;size:36;index;not null"`
	// PaymentRequestID is an informational link; there is no cascade.
	PaymentRequestID *string          `json:"payment_request_id,omitempty" gorm:"column:payment_request_id;size:36;index"`
	Title            string           `json:"title" gorm:"column:title;not null"`
	Message          string           `json:"message" gorm:"column:message;not null"`
	Type             NotificationType `json:"type" gorm:"column:type;size:32;not null"`
	IsRead           bool             `json:"is_read" gorm:"column:is_read;index"`
	CreatedAt        time.Time        `json:"created_at" gorm:"column:created_at;index"`
}

func (Notification) TableName() string {
	return "notifications"
}

// String renders the notification for plain text channels.
func (n *Notification) String() string {
	return fmt.Sprintf("%s\n\n%s", n.Title, n.Message)
}
