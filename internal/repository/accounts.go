package repository

import (
	"context"
	"fmt"

	"github.com/ei-sanu/someshprofile/internal/models"
)

func (db *PostgresDB) CreateAccount(ctx context.Context, account *models.Account) error {
	if err := db.Conn.WithContext(ctx).Create(account).Error; err != nil {
		return fmt.Errorf("failed to create account: %w", translate(err))
	}
	return nil
}

func (db *PostgresDB) SaveAccount(ctx context.Context, account *models.Account) error {
	if err := db.Conn.WithContext(ctx).Save(account).Error; err != nil {
		return fmt.Errorf("failed to save account: %w", translate(err))
	}
	return nil
}

func (db *PostgresDB) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	return db.findAccount(ctx, "id = ?", id)
}

func (db *PostgresDB) GetAccountByExternalID(ctx context.Context, externalID string) (*models.Account, error) {
	return db.findAccount(ctx, "external_id = ?", externalID)
}

func (db *PostgresDB) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	return db.findAccount(ctx, "email = ?", email)
}

func (db *PostgresDB) GetAccountByTelegramUsername(ctx context.Context, username string) (*models.Account, error) {
	return db.findAccount(ctx, "telegram_username = ?", username)
}

func (db *PostgresDB) findAccount(ctx context.Context, query string, arg string) (*models.Account, error) {
	var account models.Account
	if err := db.Conn.WithContext(ctx).Where(query, arg).First(&account).Error; err != nil {
		return nil, fmt.Errorf("failed to get account: %w", translate(err))
	}
	return &account, nil
}

func (db *PostgresDB) ListAdminAccounts(ctx context.Context) ([]*models.Account, error) {
	var accounts []*models.Account
	if err := db.Conn.WithContext(ctx).
		Where("is_admin = ?", true).
		Order("created_at ASC").
		Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to list admin accounts: %w", err)
	}
	return accounts, nil
}

func (db *PostgresDB) SetTelegramChatID(ctx context.Context, accountID, chatID string) error {
	result := db.Conn.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", accountID).
		Update("telegram_chat_id", chatID)
	if result.Error != nil {
		return fmt.Errorf("failed to set telegram chat id: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
