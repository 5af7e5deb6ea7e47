package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"caseviewer-backend/caseview"
	"caseviewer-backend/metrics"
	"caseviewer-backend/models"
	"caseviewer-backend/repository"
	"caseviewer-backend/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrExportNotFound   = errors.New("export not found")
	ErrStoreUnavailable = errors.New("persistent store not configured")
)

// ExportStore persists export records
type ExportStore interface {
	Create(ctx context.Context, export *models.Export) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Export, error)
	ListBySessionID(ctx context.Context, sessionID uuid.UUID) ([]*models.Export, error)
}

// ExportService writes filtered case tables to file storage
type ExportService struct {
	sessions *SessionService
	store    ExportStore
	files    storage.Storage
	logger   *zap.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// ExportServiceOption is a functional option for ExportService
type ExportServiceOption func(*ExportService)

// ExportWithStore sets the export record store
func ExportWithStore(store ExportStore) ExportServiceOption {
	return func(s *ExportService) {
		s.store = store
	}
}

// ExportWithStorage sets the file storage backend
func ExportWithStorage(files storage.Storage) ExportServiceOption {
	return func(s *ExportService) {
		s.files = files
	}
}

// ExportWithLogger sets the logger
func ExportWithLogger(logger *zap.Logger) ExportServiceOption {
	return func(s *ExportService) {
		s.logger = logger
	}
}

// ExportWithMetrics sets the metrics sink
func ExportWithMetrics(m *metrics.Metrics) ExportServiceOption {
	return func(s *ExportService) {
		s.metrics = m
	}
}

// ExportWithClock overrides time.Now
func ExportWithClock(now func() time.Time) ExportServiceOption {
	return func(s *ExportService) {
		s.now = now
	}
}

// NewExportService creates a new export service over a session service
func NewExportService(sessions *SessionService, opts ...ExportServiceOption) *ExportService {
	s := &ExportService{
		sessions: sessions,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ExportService) ready() error {
	if s.store == nil || s.files == nil {
		return ErrStoreUnavailable
	}
	return nil
}

// CreateExportRequest represents a request to export the filtered rows of a session
type CreateExportRequest struct {
	SessionID uuid.UUID
	Selection models.FilterSelection
	Filename  string
}

// CreateExportResult represents the result of an export
type CreateExportResult struct {
	Export *models.Export
}

// CreateExport filters the session, stores the rows as CSV and records the export
func (s *ExportService) CreateExport(ctx context.Context, req CreateExportRequest) (result *CreateExportResult, err error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	defer func() { s.metrics.ExportWritten(err) }()

	filtered, err := s.sessions.Filter(ctx, FilterRequest{
		SessionID: req.SessionID,
		Selection: req.Selection,
		LinkStyle: caseview.LinkPlain,
	})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, filtered.Columns, filtered.Rows); err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	export := &models.Export{
		ID:        uuid.New(),
		SessionID: req.SessionID,
		Filename:  exportFilename(req.Filename, s.now()),
		Size:      int64(buf.Len()),
		RowCount:  filtered.Count(),
		Selection: filtered.Selection,
	}
	export.MimeType = storage.ContentType(export.Filename)
	export.StoragePath = storage.ExportKey(export.ID, export.Filename)

	if err := s.files.Put(ctx, export.StoragePath, &buf); err != nil {
		return nil, fmt.Errorf("failed to store export: %w", err)
	}

	if err := s.store.Create(ctx, export); err != nil {
		if delErr := s.files.Delete(ctx, export.StoragePath); delErr != nil {
			s.logger.Warn("failed to remove orphaned export file",
				zap.String("path", export.StoragePath), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to save export record: %w", err)
	}

	s.logger.Info("export created",
		zap.String("export_id", export.ID.String()),
		zap.String("session_id", req.SessionID.String()),
		zap.Int("rows", export.RowCount),
	)
	return &CreateExportResult{Export: export}, nil
}

// GetExport returns an export record
func (s *ExportService) GetExport(ctx context.Context, id uuid.UUID) (*models.Export, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	export, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExportNotFound
		}
		return nil, fmt.Errorf("failed to load export: %w", err)
	}
	return export, nil
}

// OpenExport returns an export record and a reader over its file. The caller closes the reader.
func (s *ExportService) OpenExport(ctx context.Context, id uuid.UUID) (*models.Export, io.ReadCloser, error) {
	export, err := s.GetExport(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.files.Get(ctx, export.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, ErrExportNotFound
		}
		return nil, nil, fmt.Errorf("failed to open export file: %w", err)
	}
	return export, rc, nil
}

// ListExports returns the exports made from a session
func (s *ExportService) ListExports(ctx context.Context, sessionID uuid.UUID) ([]*models.Export, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	exports, err := s.store.ListBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}
	return exports, nil
}

// WriteCSV writes a header of column labels followed by one line per display row
func WriteCSV(w io.Writer, columns []caseview.Column, rows []caseview.DisplayRow) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.Label
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row.Values()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func exportFilename(name string, now time.Time) string {
	name = strings.TrimSpace(filepath.Base(name))
	if name == "" || name == "." || name == "/" {
		name = "cases-" + now.UTC().Format("20060102-150405")
	}
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		name += ".csv"
	}
	return name
}
