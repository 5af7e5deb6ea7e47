package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"caseviewer-backend/caseview"
	"caseviewer-backend/source"
	"caseviewer-backend/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PORT", "LOG_LEVEL", "DATABASE_URL", "SOURCE_TYPE", "SHEET_ID", "SHEET_NAME",
	"GOOGLE_CREDENTIALS_FILE", "GOOGLE_CREDENTIALS_JSON", "CSV_PATH", "STORAGE_TYPE",
	"STORAGE_LOCAL_PATH", "AWS_S3_BUCKET", "AWS_REGION", "AWS_S3_ENDPOINT",
	"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "LINK_STYLE", "FETCH_TIMEOUT",
	"SESSION_TTL", "READ_TIMEOUT", "WRITE_TIMEOUT", "MAX_SESSIONS",
}

// clearEnv blanks every variable Load reads; t.Setenv restores them afterwards
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SHEET_ID", "abc123")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sheets", cfg.Source.Type)
	assert.Equal(t, "Sheet1", cfg.Source.SheetName)
	assert.Equal(t, 30*time.Second, cfg.Source.FetchTimeout)
	assert.Equal(t, 2*time.Hour, cfg.Sessions.TTL)
	assert.Equal(t, 100, cfg.Sessions.Max)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, caseview.LinkButton, cfg.LinkStyle())
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoad_YAMLWithEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  port: "9000"
source:
  type: csv
  csv_path: /data/cases.csv
  fetch_timeout: 5s
sessions:
  ttl: 30m
  max: 10
catalog:
  statuses: [Open, Closed]
  amount_tiers: [All, ">= $1,000"]
  default_amount: ">= $1,000"
  default_start_date: "2020-01-01"
  link_style: markdown
`)
	t.Setenv("PORT", "9100")
	t.Setenv("MAX_SESSIONS", "25")
	t.Setenv("DATABASE_URL", "postgres://localhost/cases")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, 25, cfg.Sessions.Max)
	assert.Equal(t, 30*time.Minute, cfg.Sessions.TTL)
	assert.Equal(t, 5*time.Second, cfg.Source.FetchTimeout)
	assert.Equal(t, "postgres://localhost/cases", cfg.DatabaseURL)
	assert.Equal(t, caseview.LinkMarkdown, cfg.LinkStyle())

	src := cfg.SourceConfig()
	assert.Equal(t, source.TypeCSV, src.Type)
	assert.Equal(t, "/data/cases.csv", src.CSVPath)

	cat, err := cfg.CaseCatalog()
	require.NoError(t, err)
	assert.Equal(t, []string{"Open", "Closed"}, cat.Statuses)
	assert.Equal(t, caseview.DefaultCourts, cat.Courts)
	assert.Equal(t, ">= $1,000", cat.DefaultAmount)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), cat.DefaultStart)
}

func TestLoad_SecretsOnlyFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SHEET_ID", "abc")
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIA")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "shh")
	t.Setenv("STORAGE_TYPE", "s3")
	t.Setenv("AWS_S3_BUCKET", "exports")

	cfg, err := Load(writeConfig(t, "storage:\n  s3_region: eu-west-1\n"))
	require.NoError(t, err)

	sc := cfg.StorageConfig()
	assert.Equal(t, storage.StorageTypeS3, sc.Type)
	assert.Equal(t, "exports", sc.S3Bucket)
	assert.Equal(t, "eu-west-1", sc.S3Region)
	assert.Equal(t, "AKIA", sc.AWSAccessKey)
	assert.Equal(t, "shh", sc.AWSSecretKey)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		yaml string
	}{
		{"missing sheet id", nil, ""},
		{"csv without path", map[string]string{"SOURCE_TYPE": "csv"}, ""},
		{"unknown source", map[string]string{"SOURCE_TYPE": "ftp"}, ""},
		{"bad duration", map[string]string{"SHEET_ID": "x", "SESSION_TTL": "forever"}, ""},
		{"bad int", map[string]string{"SHEET_ID": "x", "MAX_SESSIONS": "many"}, ""},
		{"bad link style", map[string]string{"SHEET_ID": "x", "LINK_STYLE": "fancy"}, ""},
		{"bad tier", map[string]string{"SHEET_ID": "x"}, "catalog:\n  amount_tiers: [All, lots]\n"},
		{"bad start", map[string]string{"SHEET_ID": "x"}, "catalog:\n  default_start_date: 01/01/2014\n"},
		{"bad default amount", map[string]string{"SHEET_ID": "x"}, "catalog:\n  default_amount: lots\n"},
		{"bad yaml", map[string]string{"SHEET_ID": "x"}, "server: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.yaml != "" {
				path = writeConfig(t, tt.yaml)
			}
			_, err := Load(path)
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	const marker = "CASEVIEWER_DOTENV_MARKER"
	t.Cleanup(func() { os.Unsetenv(marker) })

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte(marker+"=loaded\n"), 0o644))

	assert.Equal(t, "", LoadDotEnv(filepath.Join(dir, "nope.env")))
	assert.Equal(t, path, LoadDotEnv(filepath.Join(dir, "nope.env"), path))
	assert.Equal(t, "loaded", os.Getenv(marker))
}

func TestRead_SkipsValidation(t *testing.T) {
	clearEnv(t)

	cfg, err := Read("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Source.SheetID)
	assert.Error(t, cfg.Validate())

	cfg.Source.Type = "csv"
	cfg.Source.CSVPath = "cases.csv"
	assert.NoError(t, cfg.Validate())
}
