package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/chaincanvas/chaincanvas-backend/internal/logging"
	"github.com/chaincanvas/chaincanvas-backend/internal/minting/domain"
	"github.com/chaincanvas/chaincanvas-backend/internal/minting/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UploadImage pins the multipart "file" field to IPFS
func (h *Handler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": domain.ErrImageTooLarge.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fh.Size > domain.MaxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": domain.ErrImageTooLarge.Error()})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}
	defer f.Close()

	up, err := h.service.UploadImage(c.Request.Context(), fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		h.writeError(c, "image upload failed", err)
		return
	}
	c.JSON(http.StatusCreated, up)
}

// PrepareMint pins metadata and returns the transaction to sign
func (h *Handler) PrepareMint(c *gin.Context) {
	var req domain.PrepareMintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	prepared, err := h.service.PrepareMint(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, "mint preparation failed", err)
		return
	}
	c.JSON(http.StatusCreated, prepared)
}

// ConfirmMint records the hash of the submitted transaction
func (h *Handler) ConfirmMint(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "txHash is required"})
		return
	}

	rec, err := h.service.ConfirmMint(c.Request.Context(), c.Param("id"), req.TxHash)
	if err != nil {
		h.writeError(c, "mint confirmation failed", err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// ListRecords lists an owner's mint records
func (h *Handler) ListRecords(c *gin.Context) {
	owner := c.Query("owner")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	records, err := h.service.ListRecords(c.Request.Context(), owner, limit)
	if err != nil {
		h.writeError(c, "mint record listing failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"owner":   owner,
		"total":   len(records),
		"records": records,
	})
}

func (h *Handler) Points(c *gin.Context) {
	address := c.Param("address")
	points, err := h.service.Points(c.Request.Context(), address)
	if err != nil {
		h.writeError(c, "points lookup failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": address, "points": points})
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.writeError(c, "contract stats lookup failed", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) writeError(c *gin.Context, msg string, err error) {
	var invalid *domain.InvalidRequestError
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "fields": invalid.Fields})
	case errors.Is(err, domain.ErrNotImage):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrImageTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAlreadySubmitted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrChainUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		logging.FromContext(c.Request.Context(), h.logger).Error(msg, zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": msg})
	}
}
