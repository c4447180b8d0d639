package http

import "github.com/gin-gonic/gin"

// Register registers the gas optimizer routes. mw runs before the handler,
// typically the rate limiter.
func (h *Handler) Register(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	g := rg.Group("/gas-optimizer")
	handlers := append(append([]gin.HandlerFunc{}, mw...), h.Suggest)
	g.POST("/suggestions", handlers...)
}
