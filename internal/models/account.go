package models

import (
	"strings"
	"time"
)

// Account is the local projection of an identity provider user.
type Account struct {
	// ID is the unique identifier for the account.
	ID string `json:"id" gorm:"column:id;primaryKey;size:36"`
	// ExternalID is the identity provider subject.
	ExternalID  string `json:"external_id" gorm:"column:external_id;uniqueIndex;not null"`
	Email       string `json:"email" gorm:"column:email;uniqueIndex;not null"`
	FirstName   string `json:"first_name,omitempty" gorm:"column:first_name"`
	LastName    string `json:"last_name,omitempty" gorm:"column:last_name"`
	PhoneNumber string `json:"phone_number,omitempty" gorm:"column:phone_number;index"`
	IsAdmin     bool   `json:"is_admin" gorm:"column:is_admin;index"`
	// TelegramUsername is matched against the sender of /start to link a chat.
	TelegramUsername *string `json:"telegram_username,omitempty" gorm:"column:telegram_username;uniqueIndex"`
	// TelegramChatID is set once the user has started the bot.
	TelegramChatID string    `json:"-" gorm:"column:telegram_chat_id"`
	CreatedAt      time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}

// DisplayName returns the full name, falling back to the email.
func (a *Account) DisplayName() string {
	name := strings.TrimSpace(a.FirstName + " " + a.LastName)
	if name == "" {
		return a.Email
	}
	return name
}

// Identity is who the caller is according to the identity provider token.
type Identity struct {
	ExternalID string
	Email      string
}

// AccountProfile carries optional profile fields supplied on sync.
type AccountProfile struct {
	FirstName   string
	LastName    string
	PhoneNumber string
}
