package service

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"caseviewer-backend/caseview"
	"caseviewer-backend/models"
	"caseviewer-backend/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExportService(t *testing.T) (*ExportService, *SessionService, *memExportStore, string) {
	t.Helper()
	sessions, _ := newTestSessionService(t, &fakeSource{rows: cleanRows})
	dir := t.TempDir()
	files, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	store := newMemExportStore()

	svc := NewExportService(sessions,
		ExportWithStore(store),
		ExportWithStorage(files),
		ExportWithClock(func() time.Time { return time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC) }),
	)
	return svc, sessions, store, dir
}

func TestCreateExport_WritesCSV(t *testing.T) {
	svc, sessions, store, dir := newTestExportService(t)
	ctx := context.Background()

	sess, err := sessions.CreateSession(ctx, CreateSessionRequest{})
	require.NoError(t, err)

	res, err := svc.CreateExport(ctx, CreateExportRequest{
		SessionID: sess.Session.ID,
		Selection: models.FilterSelection{Status: "Entered"},
	})
	require.NoError(t, err)

	e := res.Export
	assert.Equal(t, "cases-20240601-093000.csv", e.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", e.MimeType)
	assert.Equal(t, 2, e.RowCount)
	assert.Equal(t, "Entered", e.Selection.Status)
	assert.Contains(t, store.exports, e.ID)

	body, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(e.StoragePath)))
	require.NoError(t, err)
	assert.Equal(t, int64(len(body)), e.Size)

	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Case Number,Case Status,Judgment Amount,Entry Date,Court System,View Case", lines[0])
	assert.Equal(t, `1A,Entered,"$50,000.00",2020-01-01,Circuit Court,https://cases.test/1A`, lines[1])
	assert.Equal(t, `1C,Entered,"$12,000.00",,District Court,`, lines[2])
}

func TestOpenExport(t *testing.T) {
	svc, sessions, _, _ := newTestExportService(t)
	ctx := context.Background()

	sess, err := sessions.CreateSession(ctx, CreateSessionRequest{})
	require.NoError(t, err)
	res, err := svc.CreateExport(ctx, CreateExportRequest{SessionID: sess.Session.ID, Filename: "my cases"})
	require.NoError(t, err)
	assert.Equal(t, "my cases.csv", res.Export.Filename)

	export, rc, err := svc.OpenExport(ctx, res.Export.ID)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, res.Export.ID, export.ID)
	assert.True(t, strings.HasPrefix(string(body), "Case Number,"))

	list, err := svc.ListExports(ctx, sess.Session.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, _, err = svc.OpenExport(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrExportNotFound)
}

func TestCreateExport_RecordFailureRemovesFile(t *testing.T) {
	svc, sessions, store, dir := newTestExportService(t)
	ctx := context.Background()
	store.createErr = errors.New("db down")

	sess, err := sessions.CreateSession(ctx, CreateSessionRequest{})
	require.NoError(t, err)

	_, err = svc.CreateExport(ctx, CreateExportRequest{SessionID: sess.Session.ID})
	require.Error(t, err)

	var files []string
	require.NoError(t, filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			files = append(files, path)
		}
		return err
	}))
	assert.Empty(t, files)
}

func TestCreateExport_Errors(t *testing.T) {
	svc, _, _, _ := newTestExportService(t)
	_, err := svc.CreateExport(context.Background(), CreateExportRequest{SessionID: uuid.New()})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	bare := NewExportService(NewSessionService())
	_, err = bare.CreateExport(context.Background(), CreateExportRequest{})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	_, err = bare.GetExport(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestWriteCSV_Empty(t *testing.T) {
	var sb strings.Builder
	cols := []caseview.Column{{Key: models.FieldCaseNumber, Label: "Case Number"}}
	require.NoError(t, WriteCSV(&sb, cols, nil))
	assert.Equal(t, "Case Number\n", sb.String())
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, "cases-20240102-030405.csv", exportFilename("", now))
	assert.Equal(t, "report.csv", exportFilename(" report ", now))
	assert.Equal(t, "passwd.csv", exportFilename("../../etc/passwd", now))
	assert.Equal(t, "Report.CSV", exportFilename("Report.CSV", now))
}
