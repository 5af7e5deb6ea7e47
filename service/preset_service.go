package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"caseviewer-backend/caseview"
	"caseviewer-backend/models"
	"caseviewer-backend/repository"

	"github.com/google/uuid"
)

var (
	ErrPresetNotFound = errors.New("preset not found")
	ErrInvalidPreset  = errors.New("invalid preset")
)

// PresetStore persists saved filter selections
type PresetStore interface {
	Save(ctx context.Context, preset *models.FilterPreset) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.FilterPreset, error)
	List(ctx context.Context) ([]*models.FilterPreset, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PresetService manages named filter presets
type PresetService struct {
	store PresetStore
}

// NewPresetService creates a new preset service. A nil store makes every call fail with ErrStoreUnavailable.
func NewPresetService(store PresetStore) *PresetService {
	return &PresetService{store: store}
}

// SavePresetRequest represents a request to save a preset
type SavePresetRequest struct {
	Name      string
	Selection models.FilterSelection
}

// SavePreset validates and stores a preset. Saving an existing name replaces its selection.
func (s *PresetService) SavePreset(ctx context.Context, req SavePresetRequest) (*models.FilterPreset, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidPreset)
	}
	if _, err := caseview.NewCriteria(req.Selection); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}

	preset := &models.FilterPreset{Name: name, Selection: req.Selection}
	if err := s.store.Save(ctx, preset); err != nil {
		return nil, fmt.Errorf("failed to save preset: %w", err)
	}
	return preset, nil
}

// GetPreset retrieves a preset by ID
func (s *PresetService) GetPreset(ctx context.Context, id uuid.UUID) (*models.FilterPreset, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}
	preset, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPresetNotFound
		}
		return nil, fmt.Errorf("failed to load preset: %w", err)
	}
	return preset, nil
}

// ListPresets returns every preset
func (s *PresetService) ListPresets(ctx context.Context) ([]*models.FilterPreset, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}
	presets, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}
	return presets, nil
}

// DeletePreset removes a preset
func (s *PresetService) DeletePreset(ctx context.Context, id uuid.UUID) error {
	if s.store == nil {
		return ErrStoreUnavailable
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPresetNotFound
		}
		return fmt.Errorf("failed to delete preset: %w", err)
	}
	return nil
}
