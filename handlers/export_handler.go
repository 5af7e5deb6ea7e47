package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"caseviewer-backend/models"
	"caseviewer-backend/service"

	"github.com/gin-gonic/gin"
)

// ExportHandler handles HTTP requests for CSV exports
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler creates a new export handler
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// CreateExportRequest represents the request body for an export
type CreateExportRequest struct {
	Selection models.FilterSelection `json:"selection"`
	Filename  string                 `json:"filename"`
}

// CreateExport handles POST /api/sessions/:id/exports
func (h *ExportHandler) CreateExport(c *gin.Context) {
	sessionID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req CreateExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	result, err := h.exports.CreateExport(c.Request.Context(), service.CreateExportRequest{
		SessionID: sessionID,
		Selection: req.Selection,
		Filename:  req.Filename,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"export":       result.Export,
			"download_url": "/api/exports/" + result.Export.ID.String(),
		},
	})
}

// ListExports handles GET /api/sessions/:id/exports
func (h *ExportHandler) ListExports(c *gin.Context) {
	sessionID, ok := parseID(c, "id")
	if !ok {
		return
	}

	exports, err := h.exports.ListExports(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    exports,
	})
}

// GetExport handles GET /api/exports/:id and streams the CSV file
func (h *ExportHandler) GetExport(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	export, rc, err := h.exports.OpenExport(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	c.Header("Content-Type", export.MimeType)
	c.Header("Content-Length", strconv.FormatInt(export.Size, 10))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		_ = c.Error(fmt.Errorf("failed to stream export: %w", err))
	}
}
