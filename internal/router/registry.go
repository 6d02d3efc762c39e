package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gabriel-Moraes12/Kinisi2/pkg/response"
)

const apiPrefix = "/api"

// Registry collects modules and mounts them under /api in the order added.
type Registry struct {
	Engine  *gin.Engine
	API     *gin.RouterGroup
	shared  []gin.HandlerFunc
	modules []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group(apiPrefix)}
}

// Use adds middleware that runs before every module route.
func (r *Registry) Use(mw ...gin.HandlerFunc) { r.shared = append(r.shared, mw...) }

func (r *Registry) Add(mod Module) { r.modules = append(r.modules, mod) }

// RegisterAll mounts the modules and answers unknown routes with the JSON envelope.
func (r *Registry) RegisterAll() {
	r.API.Use(r.shared...)
	for _, m := range r.modules {
		m.Register(r.API)
	}
	r.Engine.NoRoute(func(c *gin.Context) {
		response.Error[any](c, http.StatusNotFound, "route_not_found", nil)
	})
}
