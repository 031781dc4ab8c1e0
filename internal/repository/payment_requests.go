package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/ei-sanu/someshprofile/internal/models"
)

func newestTransactionsFirst(tx *gorm.DB) *gorm.DB {
	return tx.Order("created_at DESC")
}

func (db *PostgresDB) CreatePaymentRequest(ctx context.Context, pr *models.PaymentRequest) error {
	if err := db.Conn.WithContext(ctx).Omit("Transactions").Create(pr).Error; err != nil {
		return fmt.Errorf("failed to create payment request: %w", translate(err))
	}
	return nil
}

func (db *PostgresDB) GetPaymentRequest(ctx context.Context, id string) (*models.PaymentRequest, error) {
	var pr models.PaymentRequest
	if err := db.Conn.WithContext(ctx).
		Preload("Transactions", newestTransactionsFirst).
		Where("id = ?", id).
		First(&pr).Error; err != nil {
		return nil, fmt.Errorf("failed to get payment request: %w", translate(err))
	}
	return &pr, nil
}

// UpdatePaymentRequest is a compare-and-set on (status, version). The lifecycle
// fields are written and the version is bumped, or ErrConcurrentModification
// is returned when another writer got there first.
func (db *PostgresDB) UpdatePaymentRequest(ctx context.Context, pr *models.PaymentRequest, expectedStatus models.PaymentStatus, expectedVersion int64) error {
	result := db.Conn.WithContext(ctx).
		Model(&models.PaymentRequest{}).
		Where("id = ? AND status = ? AND version = ?", pr.ID, expectedStatus, expectedVersion).
		Updates(map[string]interface{}{
			"status":                 pr.Status,
			"amount":                 pr.Amount,
			"description":            pr.Description,
			"remarks":                pr.Remarks,
			"user_id":                pr.UserID,
			"admin_approved":         pr.AdminApproved,
			"admin_approval_date":    pr.AdminApprovalDate,
			"client_accepted":        pr.ClientAccepted,
			"client_acceptance_date": pr.ClientAcceptanceDate,
			"payment_enabled":        pr.PaymentEnabled,
			"version":                expectedVersion + 1,
			"updated_at":             pr.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update payment request: %w", translate(result.Error))
	}
	if result.RowsAffected == 0 {
		return models.ErrConcurrentModification
	}
	pr.Version = expectedVersion + 1
	return nil
}

func (db *PostgresDB) ListPaymentRequests(ctx context.Context, filter models.PaymentRequestFilter) ([]*models.PaymentRequest, error) {
	query := db.Conn.WithContext(ctx).Preload("Transactions", newestTransactionsFirst)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var prs []*models.PaymentRequest
	if err := query.Order("created_at DESC").Find(&prs).Error; err != nil {
		return nil, fmt.Errorf("failed to list payment requests: %w", err)
	}
	return prs, nil
}

// ListClientPaymentRequests matches the client by email, linked account or phone.
func (db *PostgresDB) ListClientPaymentRequests(ctx context.Context, userID, email, phone string) ([]*models.PaymentRequest, error) {
	match := db.Conn.Where("client_email = ?", email)
	if userID != "" {
		match = match.Or("user_id = ?", userID)
	}
	if phone != "" {
		match = match.Or("client_phone = ?", phone)
	}

	var prs []*models.PaymentRequest
	if err := db.Conn.WithContext(ctx).
		Preload("Transactions", newestTransactionsFirst).
		Where(match).
		Order("created_at DESC").
		Find(&prs).Error; err != nil {
		return nil, fmt.Errorf("failed to list client payment requests: %w", err)
	}
	return prs, nil
}

// LinkPaymentRequestsToAccount attaches unlinked requests billed to email.
// Ownership is not lifecycle state: status is untouched and no history row is
// written, but version is bumped so an in-flight compare-and-set retries.
func (db *PostgresDB) LinkPaymentRequestsToAccount(ctx context.Context, email, userID string) (int64, error) {
	result := db.Conn.WithContext(ctx).
		Model(&models.PaymentRequest{}).
		Where("client_email = ? AND user_id IS NULL", email).
		Updates(map[string]interface{}{
			"user_id": userID,
			"version": gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to link payment requests: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (db *PostgresDB) CountPaymentRequests(ctx context.Context) (*models.PaymentRequestCounts, error) {
	var rows []struct {
		Status models.PaymentStatus
		Count  int64
	}
	if err := db.Conn.WithContext(ctx).
		Model(&models.PaymentRequest{}).
		Select("status, count(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count payment requests: %w", err)
	}

	counts := &models.PaymentRequestCounts{ByStatus: make(map[models.PaymentStatus]int64, len(rows))}
	for _, row := range rows {
		counts.ByStatus[row.Status] = row.Count
		counts.Total += row.Count
	}

	if err := db.Conn.WithContext(ctx).
		Model(&models.PaymentRequest{}).
		Where("admin_approved = ?", true).
		Count(&counts.Approved).Error; err != nil {
		return nil, fmt.Errorf("failed to count approved payment requests: %w", err)
	}
	return counts, nil
}
