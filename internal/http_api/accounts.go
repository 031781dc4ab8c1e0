package http_api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ei-sanu/someshprofile/internal/models"
)

// SyncAccountRequest carries optional profile fields. Identity comes from the token.
type SyncAccountRequest struct {
	FirstName   string `json:"first_name" binding:"max=100"`
	LastName    string `json:"last_name" binding:"max=100"`
	PhoneNumber string `json:"phone_number" binding:"max=32"`
}

// TelegramRequest sets the Telegram username. An empty username unlinks.
type TelegramRequest struct {
	Username string `json:"telegram_username"`
}

type ListNotificationsQuery struct {
	Unread bool `form:"unread"`
}

func (s *HTTPServer) syncAccount(c *gin.Context) {
	var req SyncAccountRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		s.respondBindError(c, err)
		return
	}

	claims := currentClaims(c)
	account, err := s.desk.SyncAccount(c.Request.Context(),
		models.Identity{ExternalID: claims.Subject, Email: claims.Email},
		models.AccountProfile{FirstName: req.FirstName, LastName: req.LastName, PhoneNumber: req.PhoneNumber},
	)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, account)
}

func (s *HTTPServer) setTelegram(c *gin.Context) {
	var req TelegramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondBindError(c, err)
		return
	}

	account, err := s.desk.SetTelegramUsername(c.Request.Context(), currentAccount(c), req.Username)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, account)
}

func (s *HTTPServer) listNotifications(c *gin.Context) {
	var query ListNotificationsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		s.respondBindError(c, err)
		return
	}

	notifications, err := s.desk.ListNotifications(c.Request.Context(), currentAccount(c), query.Unread)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, notifications)
}

func (s *HTTPServer) unreadNotificationCount(c *gin.Context) {
	count, err := s.desk.UnreadNotificationCount(c.Request.Context(), currentAccount(c))
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"count": count})
}

func (s *HTTPServer) markNotificationRead(c *gin.Context) {
	if err := s.desk.MarkNotificationRead(c.Request.Context(), currentAccount(c), c.Param("id")); err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"id": c.Param("id"), "read": true})
}

func (s *HTTPServer) markAllNotificationsRead(c *gin.Context) {
	updated, err := s.desk.MarkAllNotificationsRead(c.Request.Context(), currentAccount(c))
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"updated": updated})
}
