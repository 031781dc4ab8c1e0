package models

import (
	"time"

	"gorm.io/datatypes"
)

// HistoryAction tags one audited lifecycle step.
type HistoryAction string

const (
	ActionCreated          HistoryAction = "created"
	ActionClientSubmitted  HistoryAction = "client_submitted"
	ActionAdminApproved    HistoryAction = "admin_approved"
	ActionAdminRejected    HistoryAction = "admin_rejected"
	ActionClientAccepted   HistoryAction = "client_accepted"
	ActionAdminCancelled   HistoryAction = "admin_cancelled"
	ActionPaymentInitiated HistoryAction = "payment_initiated"
	ActionPaymentCompleted HistoryAction = "payment_completed"
	ActionPaymentFailed    HistoryAction = "payment_failed"
	ActionEdited           HistoryAction = "edited"
)

// PaymentHistory is an append-only audit record. Rows are never updated or deleted.
type PaymentHistory struct {
	ID               int64         `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	PaymentRequestID string        `json:"payment_request_id" gorm:"column:payment_request_id;size:36;index;not null"`
	Action           HistoryAction `json:"action" gorm:"column:action;size:32;not null"`
	// PerformedByUserID is nil for gateway and system actions.
	PerformedByUserID *string        `json:"performed_by_user_id,omitempty" gorm:"column:performed_by_user_id;size:36"`
	OldData           datatypes.JSON `json:"old_data,omitempty" gorm:"column:old_data"`
	NewData           datatypes.JSON `json:"new_data,omitempty" gorm:"column:new_data"`
	Notes             string         `json:"notes,omitempty" gorm:"column:notes"`
	CreatedAt         time.Time      `json:"created_at" gorm:"column:created_at;index"`
}

func (PaymentHistory) TableName() string {
	return "payment_history"
}
