package handlers

import (
	"net/http"
	"time"

	"caseviewer-backend/caseview"
	"caseviewer-backend/models"
	"caseviewer-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionHandler handles HTTP requests for sessions and filter passes
type SessionHandler struct {
	sessions *service.SessionService
	presets  *service.PresetService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *service.SessionService, presets *service.PresetService) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		presets:  presets,
	}
}

// SessionResponse describes a loaded session
type SessionResponse struct {
	ID          uuid.UUID             `json:"id"`
	Source      string                `json:"source"`
	LoadedAt    time.Time             `json:"loaded_at"`
	RowCount    int                   `json:"row_count"`
	Headers     []string              `json:"headers"`
	Mapping     caseview.Mapping      `json:"mapping"`
	Diagnostics []caseview.Diagnostic `json:"diagnostics"`
	Columns     []caseview.Column     `json:"columns"`
	Choices     caseview.Choices      `json:"choices"`
}

func newSessionResponse(s *service.Session) SessionResponse {
	diags := s.Diagnostics
	if diags == nil {
		diags = []caseview.Diagnostic{}
	}
	return SessionResponse{
		ID:          s.ID,
		Source:      s.Source,
		LoadedAt:    s.LoadedAt,
		RowCount:    s.Table.Len(),
		Headers:     s.Table.RawHeaders,
		Mapping:     s.Mapping,
		Diagnostics: diags,
		Columns:     caseview.DisplayColumns(s.Mapping),
		Choices:     s.Choices,
	}
}

// CreateSession handles POST /api/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	result, err := h.sessions.CreateSession(c.Request.Context(), service.CreateSessionRequest{})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    newSessionResponse(result.Session),
	})
}

// GetSession handles GET /api/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.sessions.GetSession(c.Request.Context(), service.GetSessionRequest{ID: id})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    newSessionResponse(result.Session),
	})
}

// DeleteSession handles DELETE /api/sessions/:id
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.sessions.DeleteSession(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"id": id},
	})
}

// FilterRequest represents the request body for a filter pass.
// When PresetID is set the preset's selection replaces Selection.
type FilterRequest struct {
	Selection models.FilterSelection `json:"selection"`
	PresetID  string                 `json:"preset_id"`
	LinkStyle string                 `json:"link_style"`
}

// FilterSession handles POST /api/sessions/:id/filter
func (h *SessionHandler) FilterSession(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req FilterRequest
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

	var style caseview.LinkStyle
	if req.LinkStyle != "" {
		parsed, err := caseview.ParseLinkStyle(req.LinkStyle)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_LINK_STYLE",
					"message": err.Error(),
				},
			})
			return
		}
		style = parsed
	}

	selection := req.Selection
	if req.PresetID != "" {
		presetID, err := uuid.Parse(req.PresetID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_PRESET_ID",
					"message": "Invalid preset_id format",
				},
			})
			return
		}
		preset, err := h.presets.GetPreset(c.Request.Context(), presetID)
		if err != nil {
			respondError(c, err)
			return
		}
		selection = preset.Selection
	}

	result, err := h.sessions.Filter(c.Request.Context(), service.FilterRequest{
		SessionID: id,
		Selection: selection,
		LinkStyle: style,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"count":     result.Count(),
			"selection": result.Selection,
			"columns":   result.Columns,
			"rows":      result.Rows,
		},
	})
}
