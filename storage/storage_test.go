package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportKey(t *testing.T) {
	id := uuid.MustParse("3f2a9c1e-0000-4000-8000-000000000001")

	assert.Equal(t, "exports/3f/3f2a9c1e-0000-4000-8000-000000000001_cases_2024.csv", ExportKey(id, "cases 2024.csv"))
	assert.Equal(t, "exports/3f/3f2a9c1e-0000-4000-8000-000000000001___etc_passwd.csv", ExportKey(id, "../etc/passwd.csv"))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/csv; charset=utf-8", ContentType("cases.CSV"))
	assert.Equal(t, "application/json", ContentType("rows.json"))
	assert.Equal(t, "application/octet-stream", ContentType("blob"))
}

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	key := ExportKey(uuid.New(), "cases.csv")
	require.NoError(t, s.Put(ctx, key, strings.NewReader("Case Number\n1A\n")))

	rc, err := s.Get(ctx, key)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "Case Number\n1A\n", string(body))

	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, ErrObjectNotFound)

	// deleting twice is fine
	assert.NoError(t, s.Delete(ctx, key))
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, s.Put(context.Background(), "../outside.csv", strings.NewReader("x")))
	_, err = s.Get(context.Background(), "../../etc/passwd")
	assert.Error(t, err)
}

func TestNewStorage(t *testing.T) {
	s, err := NewStorage(StorageConfig{Type: StorageTypeLocal, LocalPath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)

	_, err = NewStorage(StorageConfig{Type: StorageTypeS3})
	assert.Error(t, err)

	_, err = NewStorage(StorageConfig{Type: "ftp"})
	assert.Error(t, err)
}

func TestS3Storage_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/exports-bucket/exports/ab/present.csv":
			w.Header().Set("Content-Type", "text/csv")
			_, _ = w.Write([]byte("Case Number\n1A\n"))
		default:
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`))
		}
	}))
	defer srv.Close()

	s, err := NewS3Storage(StorageConfig{
		S3Bucket:     "exports-bucket",
		S3Region:     "us-east-1",
		S3Endpoint:   srv.URL,
		AWSAccessKey: "test",
		AWSSecretKey: "test",
	})
	require.NoError(t, err)

	rc, err := s.Get(context.Background(), "exports/ab/present.csv")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "Case Number\n1A\n", string(body))

	_, err = s.Get(context.Background(), "exports/ab/missing.csv")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}
