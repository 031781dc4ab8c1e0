package http_api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ei-sanu/someshprofile/internal/models"
)

const (
	accountKey = "account"
	claimsKey  = "claims"
)

var (
	errMissingToken = errors.New("missing bearer token")
	errInvalidToken = errors.New("invalid token")
)

// Claims are issued by the identity provider. Subject is the external user id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (s *HTTPServer) parseToken(header string) (*Claims, error) {
	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(tokenString) == "" {
		return nil, errMissingToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(strings.TrimSpace(tokenString), claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}
	if claims.Subject == "" || claims.Email == "" {
		return nil, errInvalidToken
	}
	return claims, nil
}

// authMiddleware resolves the bearer token to a local account. A first visit
// creates the account.
func (s *HTTPServer) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := s.parseToken(c.GetHeader("Authorization"))
		if err != nil {
			s.logger.Debug("Rejected token", "path", c.FullPath(), "error", err)
			respondError(c, http.StatusUnauthorized, "Please login for access")
			return
		}

		identity := models.Identity{ExternalID: claims.Subject, Email: claims.Email}
		account, err := s.desk.ResolveAccount(c.Request.Context(), identity)
		if errors.Is(err, models.ErrNotFound) {
			account, err = s.desk.SyncAccount(c.Request.Context(), identity, models.AccountProfile{})
		}
		if err != nil {
			s.respondServiceError(c, err)
			return
		}

		c.Set(claimsKey, claims)
		c.Set(accountKey, account)
		c.Next()
	}
}

func (s *HTTPServer) adminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentAccount(c).IsAdmin {
			s.logger.Warn("Non-admin attempted admin access", "account_id", currentAccount(c).ID, "path", c.FullPath())
			respondError(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

func currentClaims(c *gin.Context) *Claims {
	return c.MustGet(claimsKey).(*Claims)
}

// currentAccount returns the account set by authMiddleware.
func currentAccount(c *gin.Context) *models.Account {
	return c.MustGet(accountKey).(*models.Account)
}
