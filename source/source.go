// Package source fetches the raw case grid from wherever it is hosted.
package source

import (
	"context"
	"errors"
	"fmt"

	"caseviewer-backend/models"
)

// ErrSourceUnavailable wraps every failure to obtain the sheet. It is fatal for the caller.
var ErrSourceUnavailable = errors.New("spreadsheet source unavailable")

// Source delivers a spreadsheet as a grid of text cells, header row first
type Source interface {
	Fetch(ctx context.Context) (*models.Sheet, error)
	Name() string
}

// Type selects a Source implementation
type Type string

const (
	TypeSheets Type = "sheets"
	TypeCSV    Type = "csv"
)

// Config holds the settings for every source type
type Config struct {
	Type            Type
	SheetID         string
	SheetName       string
	CredentialsFile string
	CredentialsJSON string
	CSVPath         string
}

// New creates a source from configuration
func New(ctx context.Context, cfg Config) (Source, error) {
	switch cfg.Type {
	case TypeSheets, "":
		return NewSheetsSource(ctx, SheetsConfig{
			SheetID:         cfg.SheetID,
			SheetName:       cfg.SheetName,
			CredentialsFile: cfg.CredentialsFile,
			CredentialsJSON: cfg.CredentialsJSON,
		})
	case TypeCSV:
		return NewCSVSource(cfg.CSVPath)
	default:
		return nil, fmt.Errorf("unknown source type: %s", cfg.Type)
	}
}
