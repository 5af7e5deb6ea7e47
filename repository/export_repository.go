package repository

import (
	"context"

	"caseviewer-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExportRepository handles database operations for case exports
type ExportRepository struct {
	db *pgxpool.Pool
}

// NewExportRepository creates a new export repository
func NewExportRepository(db *pgxpool.Pool) *ExportRepository {
	return &ExportRepository{db: db}
}

// Create inserts an export record. ID is generated when unset.
func (r *ExportRepository) Create(ctx context.Context, export *models.Export) error {
	if export.ID == uuid.Nil {
		export.ID = uuid.New()
	}

	query := `
		INSERT INTO case_exports (
			id, session_id, filename, mime_type, size, row_count, selection, storage_path
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	return r.db.QueryRow(
		ctx, query,
		export.ID,
		export.SessionID,
		export.Filename,
		export.MimeType,
		export.Size,
		export.RowCount,
		export.Selection,
		export.StoragePath,
	).Scan(&export.CreatedAt)
}

// GetByID retrieves an export by ID
func (r *ExportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Export, error) {
	export := &models.Export{}
	query := `
		SELECT id, session_id, filename, mime_type, size, row_count, selection, storage_path, created_at
		FROM case_exports
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&export.ID,
		&export.SessionID,
		&export.Filename,
		&export.MimeType,
		&export.Size,
		&export.RowCount,
		&export.Selection,
		&export.StoragePath,
		&export.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}

	return export, nil
}

// ListBySessionID retrieves every export made from a session, newest first
func (r *ExportRepository) ListBySessionID(ctx context.Context, sessionID uuid.UUID) ([]*models.Export, error) {
	query := `
		SELECT id, session_id, filename, mime_type, size, row_count, selection, storage_path, created_at
		FROM case_exports
		WHERE session_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exports := []*models.Export{}
	for rows.Next() {
		export := &models.Export{}
		err := rows.Scan(
			&export.ID,
			&export.SessionID,
			&export.Filename,
			&export.MimeType,
			&export.Size,
			&export.RowCount,
			&export.Selection,
			&export.StoragePath,
			&export.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		exports = append(exports, export)
	}

	return exports, rows.Err()
}
