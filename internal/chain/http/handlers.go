package http

import (
	"context"
	"net/http"

	"github.com/chaincanvas/chaincanvas-backend/internal/chain"
	"github.com/chaincanvas/chaincanvas-backend/internal/logging"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PriceSource is satisfied by *chain.GasPriceOracle.
type PriceSource interface {
	Current(ctx context.Context) (chain.GasPrice, error)
}

type Handler struct {
	prices PriceSource
	logger *zap.Logger
}

func New(prices PriceSource, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{prices: prices, logger: logger}
}

// Register registers the chain routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/gas/price", h.GasPrice)
}

// GasPrice returns the current Base gas price in gwei
func (h *Handler) GasPrice(c *gin.Context) {
	price, err := h.prices.Current(c.Request.Context())
	if err != nil {
		logging.FromContext(c.Request.Context(), h.logger).Error("gas price lookup failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch gas price"})
		return
	}
	c.JSON(http.StatusOK, price)
}
