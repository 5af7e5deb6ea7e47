package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"caseviewer-backend/models"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsConfig identifies a worksheet and the service account used to read it
type SheetsConfig struct {
	SheetID         string
	SheetName       string
	CredentialsFile string
	CredentialsJSON string
	// ClientOptions are appended after the credential options
	ClientOptions []option.ClientOption
}

// SheetsSource reads a worksheet through the Google Sheets API
type SheetsSource struct {
	svc       *sheets.Service
	sheetID   string
	sheetName string
}

// NewSheetsSource creates a read-only Sheets client
func NewSheetsSource(ctx context.Context, cfg SheetsConfig) (*SheetsSource, error) {
	if cfg.SheetID == "" {
		return nil, errors.New("sheet id is required")
	}
	if cfg.SheetName == "" {
		cfg.SheetName = "Sheet1"
	}

	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsReadonlyScope)}
	switch {
	case cfg.CredentialsJSON != "":
		creds, err := RepairCredentialsJSON([]byte(cfg.CredentialsJSON))
		if err != nil {
			return nil, err
		}
		opts = append(opts, option.WithCredentialsJSON(creds))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	opts = append(opts, cfg.ClientOptions...)

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create sheets client: %w", ErrSourceUnavailable, err)
	}

	return &SheetsSource{
		svc:       svc,
		sheetID:   cfg.SheetID,
		sheetName: cfg.SheetName,
	}, nil
}

// Name returns a human readable identifier of the worksheet
func (s *SheetsSource) Name() string {
	return fmt.Sprintf("sheets:%s/%s", s.sheetID, s.sheetName)
}

// Fetch downloads every formatted value of the worksheet
func (s *SheetsSource) Fetch(ctx context.Context) (*models.Sheet, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.sheetID, quoteSheetName(s.sheetName)).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %q: %w", ErrSourceUnavailable, s.sheetName, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, values := range resp.Values {
		row := make([]string, len(values))
		for i, v := range values {
			if v != nil {
				row[i] = fmt.Sprint(v)
			}
		}
		rows = append(rows, row)
	}

	return &models.Sheet{
		Rows:      rows,
		Source:    s.Name(),
		FetchedAt: time.Now().UTC(),
	}, nil
}

// quoteSheetName turns a worksheet title into an A1 range covering the whole sheet
func quoteSheetName(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// RepairCredentialsJSON unescapes a private_key whose newlines arrived as literal "\n".
// Secrets pasted into env vars or dashboards often lose their real line breaks.
func RepairCredentialsJSON(data []byte) ([]byte, error) {
	var creds map[string]any
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials JSON: %w", err)
	}

	key, ok := creds["private_key"].(string)
	if !ok || !strings.Contains(key, `\n`) {
		return data, nil
	}
	creds["private_key"] = strings.ReplaceAll(key, `\n`, "\n")

	out, err := json.Marshal(creds)
	if err != nil {
		return nil, fmt.Errorf("failed to encode credentials JSON: %w", err)
	}
	return out, nil
}
