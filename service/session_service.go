package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"caseviewer-backend/caseview"
	"caseviewer-backend/metrics"
	"caseviewer-backend/models"
	"caseviewer-backend/source"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrInvalidFilter     = errors.New("invalid filter")
	ErrSourceUnavailable = source.ErrSourceUnavailable
)

// Session is one loaded copy of the sheet. Everything in it is read-only after load.
type Session struct {
	ID          uuid.UUID
	Source      string
	Table       *caseview.Table
	Mapping     caseview.Mapping
	Diagnostics []caseview.Diagnostic
	Choices     caseview.Choices
	LoadedAt    time.Time
}

type sessionEntry struct {
	session  *Session
	lastUsed time.Time
}

// SessionService loads sheets into sessions and runs filter passes against them
type SessionService struct {
	source       source.Source
	catalog      caseview.Catalog
	linkStyle    caseview.LinkStyle
	fetchTimeout time.Duration
	ttl          time.Duration
	maxSessions  int
	logger       *zap.Logger
	metrics      *metrics.Metrics
	now          func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*sessionEntry
}

// SessionServiceOption is a functional option for SessionService
type SessionServiceOption func(*SessionService)

// WithSource sets the spreadsheet source
func WithSource(src source.Source) SessionServiceOption {
	return func(s *SessionService) {
		s.source = src
	}
}

// WithCatalog sets the option data used for filter choices
func WithCatalog(cat caseview.Catalog) SessionServiceOption {
	return func(s *SessionService) {
		s.catalog = cat
	}
}

// WithLinkStyle sets the default link rendering of filter results
func WithLinkStyle(style caseview.LinkStyle) SessionServiceOption {
	return func(s *SessionService) {
		s.linkStyle = style
	}
}

// WithFetchTimeout bounds a single sheet fetch
func WithFetchTimeout(d time.Duration) SessionServiceOption {
	return func(s *SessionService) {
		s.fetchTimeout = d
	}
}

// WithSessionTTL sets how long an unused session is kept
func WithSessionTTL(d time.Duration) SessionServiceOption {
	return func(s *SessionService) {
		s.ttl = d
	}
}

// WithMaxSessions caps the registry; the least recently used session is evicted first
func WithMaxSessions(n int) SessionServiceOption {
	return func(s *SessionService) {
		s.maxSessions = n
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) SessionServiceOption {
	return func(s *SessionService) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics sink
func WithMetrics(m *metrics.Metrics) SessionServiceOption {
	return func(s *SessionService) {
		s.metrics = m
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) SessionServiceOption {
	return func(s *SessionService) {
		s.now = now
	}
}

// NewSessionService creates a new session service
func NewSessionService(opts ...SessionServiceOption) *SessionService {
	s := &SessionService{
		catalog:      caseview.DefaultCatalog(),
		linkStyle:    caseview.LinkButton,
		fetchTimeout: 30 * time.Second,
		ttl:          2 * time.Hour,
		maxSessions:  100,
		logger:       zap.NewNop(),
		now:          time.Now,
		sessions:     make(map[uuid.UUID]*sessionEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSessionRequest represents a request to load a new session
type CreateSessionRequest struct{}

// CreateSessionResult represents the result of loading a session
type CreateSessionResult struct {
	Session *Session
}

// CreateSession fetches the sheet once and registers a new session.
// Any fetch failure is returned wrapped in ErrSourceUnavailable and nothing is registered.
func (s *SessionService) CreateSession(ctx context.Context, req CreateSessionRequest) (*CreateSessionResult, error) {
	if s.source == nil {
		return nil, errors.New("source not set")
	}

	start := s.now()
	session, err := s.load(ctx)
	var ambiguous int
	if session != nil {
		ambiguous = len(session.Diagnostics)
	}
	s.metrics.SessionLoaded(err, s.now().Sub(start), ambiguous)
	if err != nil {
		s.logger.Error("failed to load sheet", zap.String("source", s.source.Name()), zap.Error(err))
		return nil, err
	}

	for _, d := range session.Diagnostics {
		s.logger.Warn("ambiguous column mapping",
			zap.String("session_id", session.ID.String()),
			zap.String("field", string(d.Key)),
			zap.Strings("candidates", d.Candidates),
			zap.String("chosen", d.Chosen),
		)
	}

	s.register(session)
	s.logger.Info("session loaded",
		zap.String("session_id", session.ID.String()),
		zap.String("source", session.Source),
		zap.Int("rows", session.Table.Len()),
		zap.Int("mapped_fields", len(session.Mapping)),
	)

	return &CreateSessionResult{Session: session}, nil
}

func (s *SessionService) load(ctx context.Context) (*Session, error) {
	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}

	sheet, err := s.source.Fetch(ctx)
	if err != nil {
		if !errors.Is(err, ErrSourceUnavailable) {
			err = fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}
		return nil, err
	}

	table, err := caseview.NewTableFromSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	mapping, diags := caseview.MapColumnsWithDiagnostics(table.RawHeaders)
	loadedAt := s.now()

	return &Session{
		ID:          uuid.New(),
		Source:      sheet.Source,
		Table:       table,
		Mapping:     mapping,
		Diagnostics: diags,
		Choices:     caseview.BuildChoices(table, mapping, s.catalog, loadedAt),
		LoadedAt:    loadedAt,
	}, nil
}

func (s *SessionService) register(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)
	for s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		s.evictOldestLocked()
	}
	s.sessions[session.ID] = &sessionEntry{session: session, lastUsed: now}
	s.metrics.SetActiveSessions(len(s.sessions))
}

func (s *SessionService) sweepLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, e := range s.sessions {
		if now.Sub(e.lastUsed) > s.ttl {
			delete(s.sessions, id)
			s.logger.Debug("session expired", zap.String("session_id", id.String()))
		}
	}
}

func (s *SessionService) evictOldestLocked() {
	var oldest uuid.UUID
	var oldestAt time.Time
	for id, e := range s.sessions {
		if oldestAt.IsZero() || e.lastUsed.Before(oldestAt) {
			oldest, oldestAt = id, e.lastUsed
		}
	}
	delete(s.sessions, oldest)
	s.logger.Debug("session evicted", zap.String("session_id", oldest.String()))
}

// GetSessionRequest represents a request to get a session
type GetSessionRequest struct {
	ID uuid.UUID
}

// GetSessionResult represents the result of getting a session
type GetSessionResult struct {
	Session *Session
}

// GetSession returns a live session and marks it as used
func (s *SessionService) GetSession(ctx context.Context, req GetSessionRequest) (*GetSessionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.sessions[req.ID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.ttl > 0 && now.Sub(e.lastUsed) > s.ttl {
		delete(s.sessions, req.ID)
		s.metrics.SetActiveSessions(len(s.sessions))
		return nil, ErrSessionNotFound
	}
	e.lastUsed = now

	return &GetSessionResult{Session: e.session}, nil
}

// DeleteSession drops a session
func (s *SessionService) DeleteSession(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	s.metrics.SetActiveSessions(len(s.sessions))
	return nil
}

// ActiveSessions returns the number of registered sessions
func (s *SessionService) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// FilterRequest represents a filter pass over a session
type FilterRequest struct {
	SessionID uuid.UUID
	Selection models.FilterSelection
	// LinkStyle overrides the service default when set
	LinkStyle caseview.LinkStyle
}

// FilterResult holds the rows that survived a filter pass
type FilterResult struct {
	Session   *Session
	Selection models.FilterSelection
	Columns   []caseview.Column
	Rows      []caseview.DisplayRow
}

// Count is the number of matching rows
func (r *FilterResult) Count() int {
	return len(r.Rows)
}

// Filter applies a selection to a session. Invalid selections are reported as ErrInvalidFilter.
func (s *SessionService) Filter(ctx context.Context, req FilterRequest) (*FilterResult, error) {
	got, err := s.GetSession(ctx, GetSessionRequest{ID: req.SessionID})
	if err != nil {
		return nil, err
	}
	return s.FilterSession(got.Session, req.Selection, req.LinkStyle)
}

// FilterSession applies a selection to an already resolved session
func (s *SessionService) FilterSession(session *Session, sel models.FilterSelection, style caseview.LinkStyle) (*FilterResult, error) {
	criteria, err := caseview.NewCriteria(sel)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}
	if style == "" {
		style = s.linkStyle
	}

	start := s.now()
	rows := caseview.ApplyFilters(session.Table, session.Mapping, criteria, caseview.FormatOptions{LinkStyle: style})
	s.metrics.FilterApplied(len(rows), s.now().Sub(start))

	return &FilterResult{
		Session:   session,
		Selection: criteria.Selection(),
		Columns:   caseview.DisplayColumns(session.Mapping),
		Rows:      rows,
	}, nil
}
