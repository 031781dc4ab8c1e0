package repository

import (
	"context"
	"fmt"

	"github.com/ei-sanu/someshprofile/internal/models"
)

// AddHistory appends audit entries. History rows are never updated.
func (db *PostgresDB) AddHistory(ctx context.Context, entries ...*models.PaymentHistory) error {
	if len(entries) == 0 {
		return nil
	}
	if err := db.Conn.WithContext(ctx).Create(entries).Error; err != nil {
		return fmt.Errorf("failed to add payment history: %w", err)
	}
	return nil
}

func (db *PostgresDB) GetHistory(ctx context.Context, paymentRequestID string) ([]*models.PaymentHistory, error) {
	var entries []*models.PaymentHistory
	if err := db.Conn.WithContext(ctx).
		Where("payment_request_id = ?", paymentRequestID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to get payment history: %w", err)
	}
	return entries, nil
}
