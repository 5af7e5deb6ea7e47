package handlers

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"caseviewer-backend/logging"
	"caseviewer-backend/metrics"
	"caseviewer-backend/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Dependencies are the services the router exposes
type Dependencies struct {
	Sessions *service.SessionService
	Exports  *service.ExportService
	Presets  *service.PresetService
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
}

// NewRouter builds the gin engine with every route registered
func NewRouter(d Dependencies) *gin.Engine {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(logging.Recovery(d.Logger), logging.GinLogger(d.Logger), instrument(d.Metrics))
	r.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	sessionHandler := NewSessionHandler(d.Sessions, d.Presets)
	exportHandler := NewExportHandler(d.Exports)
	presetHandler := NewPresetHandler(d.Presets)
	pageHandler := NewPageHandler(d.Sessions)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"sessions": d.Sessions.ActiveSessions(),
		})
	})
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	// Dashboard pages
	r.GET("/", pageHandler.Index)
	r.GET("/sessions/:id", pageHandler.Dashboard)

	// API routes
	api := r.Group("/api")
	{
		// Session endpoints
		api.POST("/sessions", sessionHandler.CreateSession)
		api.GET("/sessions/:id", sessionHandler.GetSession)
		api.DELETE("/sessions/:id", sessionHandler.DeleteSession)
		api.POST("/sessions/:id/filter", sessionHandler.FilterSession)

		// Export endpoints
		api.POST("/sessions/:id/exports", exportHandler.CreateExport)
		api.GET("/sessions/:id/exports", exportHandler.ListExports)
		api.GET("/exports/:id", exportHandler.GetExport)

		// Preset endpoints
		api.POST("/presets", presetHandler.SavePreset)
		api.GET("/presets", presetHandler.ListPresets)
		api.GET("/presets/:id", presetHandler.GetPreset)
		api.DELETE("/presets/:id", presetHandler.DeletePreset)
	}

	return r
}

func instrument(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.HTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
