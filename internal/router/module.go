package router

import "github.com/gin-gonic/gin"

// Module is one feature area; it mounts its routes on the /api group.
type Module interface {
	Register(api *gin.RouterGroup)
}
