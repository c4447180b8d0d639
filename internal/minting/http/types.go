package http

import (
	"github.com/chaincanvas/chaincanvas-backend/internal/minting/service"
	"go.uber.org/zap"
)

// maxUploadBytes leaves room for multipart framing around a 10MB image.
const maxUploadBytes = 11 << 20

type Handler struct {
	service *service.MintService
	logger  *zap.Logger
}

func New(service *service.MintService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

type confirmRequest struct {
	TxHash string `json:"txHash" binding:"required"`
}
