package http

import (
	"errors"
	"net/http"

	"github.com/chaincanvas/chaincanvas-backend/internal/gallery"
	"github.com/chaincanvas/chaincanvas-backend/internal/logging"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service *gallery.Service
	logger  *zap.Logger
}

func New(service *gallery.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// Register registers the gallery routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/gallery/:owner", h.ListOwned)
	rg.DELETE("/gallery/:owner/cache", h.Refresh)
}

// ListOwned returns the NFTs held by an owner on Base
func (h *Handler) ListOwned(c *gin.Context) {
	owner := c.Param("owner")

	nfts, err := h.service.ListOwned(c.Request.Context(), owner)
	if err != nil {
		if errors.Is(err, gallery.ErrInvalidOwner) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wallet address"})
			return
		}
		logging.FromContext(c.Request.Context(), h.logger).Error("gallery lookup failed", zap.String("owner", owner), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch NFTs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"owner": owner,
		"total": len(nfts),
		"nfts":  nfts,
	})
}

// Refresh drops the cached gallery for an owner
func (h *Handler) Refresh(c *gin.Context) {
	if err := h.service.Refresh(c.Request.Context(), c.Param("owner")); err != nil {
		if errors.Is(err, gallery.ErrInvalidOwner) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wallet address"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to refresh gallery"})
		return
	}
	c.Status(http.StatusNoContent)
}
