package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/hireboard/internal/domain/entity"
	"github.com/oksasatya/hireboard/internal/interface/middleware"
)

// Guard bundles the middleware chain for authenticated routes.
type Guard struct {
	Auth  gin.HandlerFunc
	Limit gin.HandlerFunc
}

// Authed requires a valid session of any role.
func (g Guard) Authed() []gin.HandlerFunc {
	return []gin.HandlerFunc{g.Auth, g.Limit}
}

// As requires a valid session with one of roles.
func (g Guard) As(roles ...entity.Role) []gin.HandlerFunc {
	return []gin.HandlerFunc{g.Auth, g.Limit, middleware.RequireRole(roles...)}
}

func chain(mw []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(mw)+1)
	return append(append(out, mw...), h)
}
