package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"caseviewer-backend/models"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSVSource reads a CSV export of the case sheet from disk
type CSVSource struct {
	path string
}

// NewCSVSource creates a source for a local CSV file
func NewCSVSource(path string) (*CSVSource, error) {
	if path == "" {
		return nil, errors.New("csv path is required")
	}
	return &CSVSource{path: path}, nil
}

// Name returns the file the source reads
func (s *CSVSource) Name() string {
	return "csv:" + s.path
}

// Fetch reads and decodes the whole file
func (s *CSVSource) Fetch(ctx context.Context) (*models.Sheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %w", ErrSourceUnavailable, s.path, err)
	}

	rows, err := ParseRows(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	return &models.Sheet{
		Rows:      rows,
		Source:    s.Name(),
		FetchedAt: time.Now().UTC(),
	}, nil
}

// ParseRows decodes CSV text into a grid. A UTF-8 or UTF-16 BOM selects the encoding;
// without one the data is read as UTF-8, or as Latin-1 when it is not valid UTF-8.
// Rows may have differing widths.
func ParseRows(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	decoded, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode csv: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func decode(data []byte) ([]byte, error) {
	var fallback transform.Transformer = unicode.UTF8.NewDecoder()
	if !utf8.Valid(data) {
		fallback = charmap.ISO8859_1.NewDecoder()
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(fallback), data)
	return out, err
}
