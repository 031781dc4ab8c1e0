package repository

import (
	"context"
	"fmt"

	"github.com/ei-sanu/someshprofile/internal/models"
)

func (db *PostgresDB) CreateNotifications(ctx context.Context, notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	if err := db.Conn.WithContext(ctx).Create(notifications).Error; err != nil {
		return fmt.Errorf("failed to create notifications: %w", err)
	}
	return nil
}

func (db *PostgresDB) ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*models.Notification, error) {
	query := db.Conn.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var notifications []*models.Notification
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (db *PostgresDB) CountUnreadNotifications(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := db.Conn.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkNotificationRead is idempotent. A notification that belongs to
// another user is reported as not found.
func (db *PostgresDB) MarkNotificationRead(ctx context.Context, userID, id string) error {
	var n models.Notification
	if err := db.Conn.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&n).Error; err != nil {
		return fmt.Errorf("failed to get notification: %w", translate(err))
	}
	if n.IsRead {
		return nil
	}
	if err := db.Conn.WithContext(ctx).Model(&n).Update("is_read", true).Error; err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (db *PostgresDB) MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error) {
	result := db.Conn.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", result.Error)
	}
	return result.RowsAffected, nil
}
