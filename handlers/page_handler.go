package handlers

import (
	"errors"
	"net/http"
	"time"

	"caseviewer-backend/caseview"
	"caseviewer-backend/models"
	"caseviewer-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PageHandler serves the server-rendered dashboard
type PageHandler struct {
	sessions *service.SessionService
}

// NewPageHandler creates a new page handler
func NewPageHandler(sessions *service.SessionService) *PageHandler {
	return &PageHandler{sessions: sessions}
}

// pageCell carries link cells as a bare URL so the template builds the anchor
// and html/template filters unsafe schemes.
type pageCell struct {
	Text    string
	URL     string
	Flagged bool
}

type pageView struct {
	SessionID   uuid.UUID
	Source      string
	LoadedAt    string
	TotalRows   int
	Diagnostics []string
	Choices     caseview.Choices
	Selection   models.FilterSelection
	Applied     bool
	Error       string
	Columns     []caseview.Column
	Rows        [][]pageCell
	Count       int
}

// Index handles GET / by loading a fresh session and redirecting to it
func (h *PageHandler) Index(c *gin.Context) {
	result, err := h.sessions.CreateSession(c.Request.Context(), service.CreateSessionRequest{})
	if err != nil {
		_ = c.Error(err)
		c.HTML(http.StatusBadGateway, "error.html", gin.H{
			"Title":   "Error loading data",
			"Message": "The case spreadsheet could not be loaded. Check the source settings and try again.",
		})
		return
	}
	c.Redirect(http.StatusSeeOther, "/sessions/"+result.Session.ID.String())
}

// Dashboard handles GET /sessions/:id. The result table is only rendered when apply=1.
func (h *PageHandler) Dashboard(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.sessionGone(c)
		return
	}
	got, err := h.sessions.GetSession(c.Request.Context(), service.GetSessionRequest{ID: id})
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			h.sessionGone(c)
			return
		}
		_ = c.Error(err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Title": "Error", "Message": err.Error()})
		return
	}
	session := got.Session

	view := pageView{
		SessionID: session.ID,
		Source:    session.Source,
		LoadedAt:  session.LoadedAt.Format(time.RFC1123),
		TotalRows: session.Table.Len(),
		Choices:   session.Choices,
		Selection: session.Choices.Defaults,
	}
	for _, d := range session.Diagnostics {
		view.Diagnostics = append(view.Diagnostics, d.String())
	}

	if c.Query("apply") != "1" {
		c.HTML(http.StatusOK, "page.html", view)
		return
	}

	var sel models.FilterSelection
	if err := c.ShouldBindQuery(&sel); err != nil {
		view.Error = err.Error()
		c.HTML(http.StatusBadRequest, "page.html", view)
		return
	}
	view.Selection = sel

	result, err := h.sessions.FilterSession(session, sel, caseview.LinkPlain)
	if err != nil {
		view.Error = err.Error()
		c.HTML(http.StatusBadRequest, "page.html", view)
		return
	}

	view.Applied = true
	view.Columns = result.Columns
	view.Count = result.Count()
	view.Rows = make([][]pageCell, 0, len(result.Rows))
	for _, row := range result.Rows {
		view.Rows = append(view.Rows, pageCells(row))
	}
	c.HTML(http.StatusOK, "page.html", view)
}

func (h *PageHandler) sessionGone(c *gin.Context) {
	c.HTML(http.StatusNotFound, "error.html", gin.H{
		"Title":   "Session expired",
		"Message": "This session no longer exists.",
	})
}

func pageCells(row caseview.DisplayRow) []pageCell {
	flagged := make(map[models.FieldKey]bool, len(row.Flagged))
	for _, k := range row.Flagged {
		flagged[k] = true
	}

	cells := make([]pageCell, len(row.Cells))
	for i, cell := range row.Cells {
		pc := pageCell{Text: cell.Value, Flagged: flagged[cell.Key]}
		if cell.Key == models.FieldCaseLink && caseview.IsWebURL(cell.Value) {
			pc.URL, pc.Text = cell.Value, ""
		}
		cells[i] = pc
	}
	return cells
}
