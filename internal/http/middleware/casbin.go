package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/you/aarogyam/domain"
	"github.com/you/aarogyam/internal/http/handlers"
	"github.com/you/aarogyam/internal/infrastructure/auth"
	"github.com/you/aarogyam/internal/infrastructure/metrics"
)

// CasbinMiddleware defines the interface for Casbin authorization middleware
type CasbinMiddleware interface {
	Enforce() gin.HandlerFunc
}

// IdentityFinder loads the current state of an identity
type IdentityFinder interface {
	FindByID(ctx context.Context, id uint) (*domain.Identity, error)
}

// CasbinMW wraps the casbin enforcer for middleware. The role is always
// read from the store, never from the token.
type CasbinMW struct {
	enforcer   domain.CasbinEnforcer
	identities IdentityFinder
	audit      domain.AuditLogger
	log        *zap.Logger
}

// NewCasbinMW creates new casbin middleware wrapper
func NewCasbinMW(enforcer domain.CasbinEnforcer, identities IdentityFinder, audit domain.AuditLogger, log *zap.Logger) *CasbinMW {
	if log == nil {
		log = zap.NewNop()
	}
	return &CasbinMW{enforcer: enforcer, identities: identities, audit: audit, log: log}
}

// Enforce returns the casbin authorization middleware. It must run after WithJWT.
func (mw *CasbinMW) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		userID := c.GetUint(handlers.ContextUserID)
		if userID == 0 {
			handlers.WriteError(c, domain.Unauthorized("Not authenticated"))
			return
		}

		identity, err := mw.identities.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				metrics.AccessDenied.WithLabelValues("identity_gone").Inc()
				handlers.WriteError(c, domain.Unauthorized("User no longer exists"))
				return
			}
			handlers.WriteError(c, err)
			return
		}

		path := c.Request.URL.Path
		method := c.Request.Method
		allowed, err := mw.enforcer.Enforce(auth.Subject(identity.Role), path, method)
		if err != nil {
			mw.log.Error("casbin enforce failed", zap.Error(err), zap.String("path", path))
			handlers.WriteError(c, err)
			return
		}

		if !allowed {
			metrics.AccessDenied.WithLabelValues("policy").Inc()
			mw.recordDenied(c, identity)
			handlers.WriteError(c, domain.Forbidden("Access denied"))
			return
		}

		c.Set(handlers.ContextIdentity, identity)
		c.Next()
	}
}

func (mw *CasbinMW) recordDenied(c *gin.Context, identity *domain.Identity) {
	if mw.audit == nil {
		return
	}
	ctx := c.Request.Context()
	event := domain.NewAuditEvent(domain.AccessDeniedEvent, identity.ID).
		WithRequestID(domain.RequestIDFromContext(ctx)).
		WithMetadata("role", identity.Role).
		WithMetadata("path", c.Request.URL.Path).
		WithMetadata("method", c.Request.Method)
	event.Success = false
	if err := mw.audit.LogEvent(ctx, event); err != nil {
		mw.log.Warn("audit log failed", zap.Error(err))
	}
}
