package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/prasetyoadi/admin-directory/internal/interface/http"
)

// UserModule wires the directory routes:
// GET    /api/dashboard          dashboard payload (users + notifications)
// GET    /api/users              paginated user list
// GET    /api/users/search       flat search collection
// GET    /api/users/export       NDJSON stream of all matches
// POST   /api/users              create user with address
// GET    /api/users/:id          single user
// PUT    /api/users/:id          update user with address
// DELETE /api/users/:id          delete user
// DELETE /api/users/search/cache drop cached search results
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rg.GET("/dashboard", m.Handler.Dashboard)

	users := rg.Group("/users")
	{
		users.GET("", m.Handler.Index)
		users.GET("/search", m.Handler.SearchCollection)
		users.GET("/export", m.Handler.Export)
		users.DELETE("/search/cache", m.Handler.ClearSearchCache)
		users.POST("", m.Handler.Store)
		users.GET("/:id", m.Handler.Show)
		users.PUT("/:id", m.Handler.Update)
		users.DELETE("/:id", m.Handler.Destroy)
	}
}
