package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/59-devv/adonis-roleplay/internal/interface/http"
)

// UserModule wires the account handlers into routes:
// POST /users, PUT /users/:id, GET /users/:id, GET /users/search,
// POST /users/:id/avatar.
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.POST("", m.Handler.Create)
		users.GET("/search", m.Handler.Search)
		users.GET("/:id", m.Handler.Get)
		users.PUT("/:id", m.Handler.Update)
		users.POST("/:id/avatar", m.Handler.UploadAvatar)
	}
}
