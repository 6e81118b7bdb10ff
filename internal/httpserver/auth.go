package httpserver

import (
	"errors"
	"net/http"

	"storefront-orders/internal/domain"
	identitysvc "storefront-orders/internal/service/identity"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type sessionResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken,omitempty"`
	ExpiresAt    string       `json:"expiresAt"`
	User         *domain.User `json:"user,omitempty"`
}

func registerHandler(identity *identitysvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req identitysvc.RegisterInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		u, err := identity.Register(c.Request.Context(), req)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, u)
	}
}

func loginHandler(identity *identitysvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		u, sess, err := identity.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, identitysvc.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}
		c.JSON(http.StatusOK, sessionResponse{
			AccessToken:  sess.AccessToken,
			RefreshToken: sess.RefreshToken,
			ExpiresAt:    sess.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
			User:         u,
		})
	}
}

func refreshHandler(sessions sessionLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			RefreshToken string `json:"refreshToken" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		sess, err := sessions.Refresh(c.Request.Context(), req.RefreshToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token", "action": "log in again"})
			return
		}
		c.JSON(http.StatusOK, sessionResponse{
			AccessToken:  sess.AccessToken,
			RefreshToken: sess.RefreshToken,
			ExpiresAt:    sess.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
}

func logoutHandler(sessions sessionLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessions.Revoke(c.Request.Context(), sessionFrom(c))
		c.Status(http.StatusNoContent)
	}
}
