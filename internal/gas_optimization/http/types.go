package http

import (
	"github.com/chaincanvas/chaincanvas-backend/internal/gas_optimization/service"
	"go.uber.org/zap"
)

// maxBodyBytes bounds a suggestion request body.
const maxBodyBytes = 64 << 10

// Handler serves the gas optimizer over HTTP.
type Handler struct {
	orchestrator *service.Orchestrator
	logger       *zap.Logger
}

// New creates a new Handler
func New(orchestrator *service.Orchestrator, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		orchestrator: orchestrator,
		logger:       logger,
	}
}
