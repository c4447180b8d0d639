package http

import "github.com/gin-gonic/gin"

// Register registers the minting and contract routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	mint := rg.Group("/mint")
	mint.POST("/images", h.UploadImage)
	mint.POST("/prepare", h.PrepareMint)
	mint.GET("/records", h.ListRecords)
	mint.POST("/records/:id/confirm", h.ConfirmMint)

	rg.GET("/points/:address", h.Points)
	rg.GET("/contract/stats", h.Stats)
}
