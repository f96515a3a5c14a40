package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/hireboard/internal/application"
	"github.com/oksasatya/hireboard/internal/domain/entity"
	"github.com/oksasatya/hireboard/pkg/response"
)

// Context keys set by Auth.
const (
	CtxAccountID = "accountID"
	CtxRole      = "role"
	CtxAccount   = "account"
)

// Authorizer resolves a bearer token to its account.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (*entity.Account, error)
}

var errNoToken = errors.New("no token")

func bearerToken(header string) (string, error) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errNoToken
	}
	return parts[1], nil
}

// Auth requires a valid "Authorization: Bearer <token>" header.
// It sets accountID, role and account in the Gin context on success.
func Auth(authz Authorizer, logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "no token", nil)
			return
		}
		acc, err := authz.Authorize(c.Request.Context(), token)
		if err != nil {
			if application.KindOf(err) == application.KindAuthentication {
				response.Abort(c, http.StatusUnauthorized, "invalid token", nil)
				return
			}
			if logger != nil {
				logger.WithError(err).Error("authorize failed")
			}
			response.Abort(c, http.StatusInternalServerError, "internal server error", nil)
			return
		}
		c.Set(CtxAccountID, acc.ID)
		c.Set(CtxRole, acc.Role)
		c.Set(CtxAccount, acc)
		c.Next()
	}
}

// RequireRole rejects authenticated callers whose role is not listed.
// It must run after Auth.
func RequireRole(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := RoleFrom(c)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		response.Abort(c, http.StatusForbidden, "forbidden", nil)
	}
}

func RoleFrom(c *gin.Context) entity.Role {
	r, _ := c.Get(CtxRole)
	role, _ := r.(entity.Role)
	return role
}

func AccountFrom(c *gin.Context) *entity.Account {
	v, _ := c.Get(CtxAccount)
	acc, _ := v.(*entity.Account)
	return acc
}

// ActorFrom returns the caller identity for service calls.
func ActorFrom(c *gin.Context) application.Actor {
	return application.Actor{ID: c.GetString(CtxAccountID), Role: RoleFrom(c)}
}
