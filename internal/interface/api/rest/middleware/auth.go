package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"drive-me-local/internal/application/ports"
	"drive-me-local/internal/application/services"
	"drive-me-local/internal/domain/user"
	"drive-me-local/internal/infrastructure/metrics"
)

const CtxIdentity = "identity"

// Identify resolves the session cookie on every request. Anonymous requests
// pass through without an identity.
func Identify(auth ports.Auth, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c)
		if token == "" {
			c.Next()
			return
		}

		u, err := auth.Resolve(c.Request.Context(), token)
		if err != nil {
			logger.Error("Resolve() error", zap.Error(err))
			c.AbortWithStatusJSON(
				http.StatusInternalServerError,
				gin.H{"error": "service temporarily unavailable"},
			)
			return
		}
		if u != nil {
			c.Set(CtxIdentity, u)
		}

		c.Next()
	}
}

// Identity is nil for anonymous requests.
func Identity(c *gin.Context) *user.User {
	v, ok := c.Get(CtxIdentity)
	if !ok {
		return nil
	}
	u, _ := v.(*user.User)
	return u
}

// Require turns a gate denial into a 303 redirect carrying a flash notice.
func Require(
	gate *services.Gate,
	needed services.Capability,
	cookies Cookies,
	mCounter *prometheus.CounterVec,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := gate.Require(needed, Identity(c))
		if d.Allowed {
			c.Next()
			return
		}

		if errors.Is(d.Reason, services.ErrForbidden) && mCounter != nil {
			mCounter.WithLabelValues(metrics.AccessDenied).Inc()
		}
		cookies.SetFlash(c, d.Notice)
		c.Redirect(http.StatusSeeOther, d.Redirect)
		c.Abort()
	}
}
