package repository

import (
	"context"

	"caseviewer-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PresetRepository handles database operations for saved filter presets
type PresetRepository struct {
	db *pgxpool.Pool
}

// NewPresetRepository creates a new preset repository
func NewPresetRepository(db *pgxpool.Pool) *PresetRepository {
	return &PresetRepository{db: db}
}

// Save inserts a preset, or replaces the selection of the preset with the same name
func (r *PresetRepository) Save(ctx context.Context, preset *models.FilterPreset) error {
	if preset.ID == uuid.Nil {
		preset.ID = uuid.New()
	}

	query := `
		INSERT INTO filter_presets (id, name, selection)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE
		SET selection = EXCLUDED.selection, updated_at = NOW()
		RETURNING id, created_at, updated_at`

	return r.db.QueryRow(ctx, query, preset.ID, preset.Name, preset.Selection).
		Scan(&preset.ID, &preset.CreatedAt, &preset.UpdatedAt)
}

// GetByID retrieves a preset by ID
func (r *PresetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.FilterPreset, error) {
	preset := &models.FilterPreset{}
	query := `
		SELECT id, name, selection, created_at, updated_at
		FROM filter_presets
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&preset.ID,
		&preset.Name,
		&preset.Selection,
		&preset.CreatedAt,
		&preset.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}

	return preset, nil
}

// List retrieves all presets ordered by name
func (r *PresetRepository) List(ctx context.Context) ([]*models.FilterPreset, error) {
	query := `
		SELECT id, name, selection, created_at, updated_at
		FROM filter_presets
		ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	presets := []*models.FilterPreset{}
	for rows.Next() {
		preset := &models.FilterPreset{}
		if err := rows.Scan(&preset.ID, &preset.Name, &preset.Selection, &preset.CreatedAt, &preset.UpdatedAt); err != nil {
			return nil, err
		}
		presets = append(presets, preset)
	}

	return presets, rows.Err()
}

// Delete removes a preset
func (r *PresetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM filter_presets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
