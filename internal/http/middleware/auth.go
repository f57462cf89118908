package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/you/aarogyam/domain"
	"github.com/you/aarogyam/internal/http/handlers"
)

// AuthMW wraps the token service for middleware
type AuthMW struct {
	tokenSvc domain.TokenService
}

// NewAuthMW creates new auth middleware wrapper
func NewAuthMW(tokenSvc domain.TokenService) *AuthMW {
	return &AuthMW{tokenSvc: tokenSvc}
}

// WithJWT requires a valid bearer token. It sets the identity id and the
// claims on the context; the role is resolved later by the casbin middleware.
func (mw *AuthMW) WithJWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, found := handlers.BearerToken(c)
		if !found {
			handlers.WriteError(c, domain.Unauthorized("Authorization header required"))
			return
		}

		claims, err := mw.tokenSvc.Validate(token)
		if err != nil {
			handlers.WriteError(c, err)
			return
		}

		c.Set(handlers.ContextUserID, claims.UserID)
		c.Set(handlers.ContextClaims, claims)
		c.Next()
	}
}
