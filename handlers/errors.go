package handlers

import (
	"errors"
	"net/http"

	"caseviewer-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError writes the error envelope for a service error
func respondError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL_ERROR"
	switch {
	case errors.Is(err, service.ErrSourceUnavailable):
		status, code = http.StatusBadGateway, "SOURCE_UNAVAILABLE"
	case errors.Is(err, service.ErrSessionNotFound):
		status, code = http.StatusNotFound, "SESSION_NOT_FOUND"
	case errors.Is(err, service.ErrPresetNotFound):
		status, code = http.StatusNotFound, "PRESET_NOT_FOUND"
	case errors.Is(err, service.ErrExportNotFound):
		status, code = http.StatusNotFound, "EXPORT_NOT_FOUND"
	case errors.Is(err, service.ErrInvalidFilter):
		status, code = http.StatusBadRequest, "INVALID_FILTER"
	case errors.Is(err, service.ErrInvalidPreset):
		status, code = http.StatusBadRequest, "INVALID_PRESET"
	case errors.Is(err, service.ErrStoreUnavailable):
		status, code = http.StatusServiceUnavailable, "STORE_UNAVAILABLE"
	}

	_ = c.Error(err)
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": err.Error(),
		},
	})
}

// parseID reads a uuid path parameter, writing a 400 envelope when it is malformed
func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid " + param + " format",
			},
		})
		return uuid.Nil, false
	}
	return id, true
}
