package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ei-sanu/someshprofile/internal/models"
)

func (db *PostgresDB) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	if err := db.Conn.WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", translate(err))
	}
	return nil
}

func (db *PostgresDB) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	if err := db.Conn.WithContext(ctx).Save(tx).Error; err != nil {
		return fmt.Errorf("failed to update transaction: %w", translate(err))
	}
	return nil
}

// GetTransactionByReference looks up a transaction by the txnid we sent to the gateway.
func (db *PostgresDB) GetTransactionByReference(ctx context.Context, transactionID string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := db.Conn.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&tx).Error; err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", translate(err))
	}
	return &tx, nil
}

func (db *PostgresDB) GetSuccessfulTransaction(ctx context.Context, paymentRequestID string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := db.Conn.WithContext(ctx).
		Where("payment_request_id = ? AND status = ?", paymentRequestID, models.TransactionSuccess).
		First(&tx).Error; err != nil {
		return nil, fmt.Errorf("failed to get successful transaction: %w", translate(err))
	}
	return &tx, nil
}

func (db *PostgresDB) ListTransactions(ctx context.Context, paymentRequestID string) ([]*models.Transaction, error) {
	var txs []*models.Transaction
	if err := db.Conn.WithContext(ctx).
		Where("payment_request_id = ?", paymentRequestID).
		Order("created_at DESC").
		Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

// ListSuccessfulTransactionsSince returns successful transactions settled at or after since, oldest first.
func (db *PostgresDB) ListSuccessfulTransactionsSince(ctx context.Context, since time.Time) ([]*models.Transaction, error) {
	var txs []*models.Transaction
	if err := db.Conn.WithContext(ctx).
		Where("status = ? AND updated_at >= ?", models.TransactionSuccess, since).
		Order("updated_at ASC").
		Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("failed to list successful transactions: %w", err)
	}
	return txs, nil
}

func (db *PostgresDB) CountTransactionsByStatus(ctx context.Context) (map[models.TransactionStatus]int64, error) {
	var rows []struct {
		Status models.TransactionStatus
		Count  int64
	}
	if err := db.Conn.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("status, count(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	counts := make(map[models.TransactionStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
