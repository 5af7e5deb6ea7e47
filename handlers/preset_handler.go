package handlers

import (
	"net/http"

	"caseviewer-backend/models"
	"caseviewer-backend/service"

	"github.com/gin-gonic/gin"
)

// PresetHandler handles HTTP requests for saved filter presets
type PresetHandler struct {
	presets *service.PresetService
}

// NewPresetHandler creates a new preset handler
func NewPresetHandler(presets *service.PresetService) *PresetHandler {
	return &PresetHandler{presets: presets}
}

// SavePresetRequest represents the request body for saving a preset
type SavePresetRequest struct {
	Name      string                 `json:"name" binding:"required"`
	Selection models.FilterSelection `json:"selection"`
}

// SavePreset handles POST /api/presets
func (h *PresetHandler) SavePreset(c *gin.Context) {
	var req SavePresetRequest
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

	preset, err := h.presets.SavePreset(c.Request.Context(), service.SavePresetRequest{
		Name:      req.Name,
		Selection: req.Selection,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    preset,
	})
}

// ListPresets handles GET /api/presets
func (h *PresetHandler) ListPresets(c *gin.Context) {
	presets, err := h.presets.ListPresets(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    presets,
	})
}

// GetPreset handles GET /api/presets/:id
func (h *PresetHandler) GetPreset(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	preset, err := h.presets.GetPreset(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    preset,
	})
}

// DeletePreset handles DELETE /api/presets/:id
func (h *PresetHandler) DeletePreset(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.presets.DeletePreset(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"id": id},
	})
}
