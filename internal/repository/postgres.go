package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/ei-sanu/someshprofile/internal/models"
	"github.com/ei-sanu/someshprofile/pkg/logger"
)

// oneSuccessIndex allows at most one successful transaction per payment request.
// Both PostgreSQL and SQLite support partial indexes.
const oneSuccessIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_one_success
	ON transactions (payment_request_id) WHERE status = 'success'`

type PostgresDB struct {
	logger *logger.Logger

	Conn *gorm.DB
}

var _ models.Repository = (*PostgresDB)(nil)

// GormConfig is the gorm configuration shared by every dialector.
func GormConfig() *gorm.Config {
	// Configure GORM logger to suppress "record not found" messages
	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
	return &gorm.Config{
		Logger:         gormLog,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}
}

func NewPostgresDB(user, password, dbname, host string, port int, logger *logger.Logger) (*PostgresDB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		host, user, password, dbname, port)

	db, err := gorm.Open(postgres.Open(dsn), GormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	repo, err := New(db, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Successfully connected to PostgreSQL")
	return repo, nil
}

// New wraps an open gorm connection and migrates the schema.
func New(conn *gorm.DB, logger *logger.Logger) (*PostgresDB, error) {
	db := &PostgresDB{Conn: conn, logger: logger}
	if err := db.Migrate(); err != nil {
		return nil, err
	}
	return db, nil
}

func (db *PostgresDB) Migrate() error {
	if err := db.Conn.AutoMigrate(
		&models.Account{},
		&models.PaymentRequest{},
		&models.Transaction{},
		&models.PaymentHistory{},
		&models.Notification{},
	); err != nil {
		return fmt.Errorf("failed to auto-migrate models: %w", err)
	}
	if err := db.Conn.Exec(oneSuccessIndex).Error; err != nil {
		return fmt.Errorf("failed to create success transaction index: %w", err)
	}
	return nil
}

func (db *PostgresDB) Close() error {
	sqlDB, err := db.Conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.Close()
}

func (db *PostgresDB) WithTx(ctx context.Context, fn func(repo models.Repository) error) error {
	return db.Conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresDB{Conn: tx, logger: db.logger})
	})
}

// translate maps gorm errors onto the model sentinels.
func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return models.ErrDuplicate
	}
	return err
}
