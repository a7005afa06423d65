package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fieldbook/internal/apperr"
	"fieldbook/internal/authz"
	"fieldbook/internal/models"
)

const (
	principalKey = "principal"
	userIDKey    = "user_id"
)

type TokenParser interface {
	Parse(tok string) (uint, error)
}

type UserLoader interface {
	ByID(ctx context.Context, id uint) (*models.User, error)
}

// Authenticate resolves the bearer token to a user and stores its principal on
// the context. The user is reloaded on every request so role and verification
// changes apply immediately.
func Authenticate(tokens TokenParser, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			abort(c, apperr.ErrUnauthenticated)
			return
		}
		uid, err := tokens.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			abort(c, apperr.ErrUnauthenticated)
			return
		}
		u, err := users.ByID(c.Request.Context(), uid)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				abort(c, apperr.ErrUnauthenticated)
				return
			}
			abort(c, err)
			return
		}
		c.Set(userIDKey, u.ID)
		c.Set(principalKey, u.Principal())
		c.Next()
	}
}

// PrincipalFrom returns the principal set by Authenticate.
func PrincipalFrom(c *gin.Context) (authz.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return authz.Principal{}, false
	}
	p, ok := v.(authz.Principal)
	return p, ok
}

// RequireVerified rejects principals that have not confirmed their code.
func RequireVerified() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			abort(c, apperr.ErrUnauthenticated)
			return
		}
		if err := authz.RequireVerified(p); err != nil {
			abort(c, err)
			return
		}
		c.Next()
	}
}

func RequireRole(role authz.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			abort(c, apperr.ErrUnauthenticated)
			return
		}
		if err := authz.RequireRole(p, role); err != nil {
			abort(c, err)
			return
		}
		c.Next()
	}
}

func abort(c *gin.Context, err error) {
	status := apperr.Status(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = http.StatusText(status)
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}
