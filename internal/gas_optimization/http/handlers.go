package http

import (
	"io"
	"net/http"

	"github.com/chaincanvas/chaincanvas-backend/internal/gas_optimization/domain"
	"github.com/chaincanvas/chaincanvas-backend/internal/logging"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Suggest answers with the envelope. Validation and backend outcomes are
// part of the envelope, so the status is always 200.
func (h *Handler) Suggest(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		logging.FromContext(ctx, h.logger).Info("gas optimizer body unreadable", zap.Error(err))
		c.JSON(http.StatusOK, domain.Envelope{
			Success: false,
			Error:   domain.MsgMalformedPayload,
			Issues:  []domain.Issue{{FieldPath: "body", Message: "Request body could not be read"}},
		})
		return
	}

	env := h.orchestrator.HandlePayload(ctx, c.GetHeader("Content-Type"), body)
	c.JSON(http.StatusOK, env)
}
