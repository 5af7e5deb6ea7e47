// Package config loads service settings from an optional YAML file and the environment.
// Environment variables win over the file; secrets are only read from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"caseviewer-backend/caseview"
	"caseviewer-backend/source"
	"caseviewer-backend/storage"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Server struct {
	Port         string        `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	LogLevel     string        `yaml:"log_level"`
}

type Source struct {
	Type            string        `yaml:"type"`
	SheetID         string        `yaml:"sheet_id"`
	SheetName       string        `yaml:"sheet_name"`
	CredentialsFile string        `yaml:"credentials_file"`
	CredentialsJSON string        `yaml:"-"`
	CSVPath         string        `yaml:"csv_path"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout"`
}

type Sessions struct {
	TTL time.Duration `yaml:"ttl"`
	Max int           `yaml:"max"`
}

type Storage struct {
	Type         string `yaml:"type"`
	LocalPath    string `yaml:"local_path"`
	S3Bucket     string `yaml:"s3_bucket"`
	S3Region     string `yaml:"s3_region"`
	S3Endpoint   string `yaml:"s3_endpoint"`
	AWSAccessKey string `yaml:"-"`
	AWSSecretKey string `yaml:"-"`
}

// Catalog is the option data shown in the filter controls
type Catalog struct {
	Statuses      []string `yaml:"statuses"`
	Courts        []string `yaml:"courts"`
	CaseTypes     []string `yaml:"case_types"`
	AmountTiers   []string `yaml:"amount_tiers"`
	DefaultAmount string   `yaml:"default_amount"`
	DefaultStart  string   `yaml:"default_start_date"`
	LinkStyle     string   `yaml:"link_style"`
}

type Config struct {
	Server      Server   `yaml:"server"`
	Source      Source   `yaml:"source"`
	Sessions    Sessions `yaml:"sessions"`
	Storage     Storage  `yaml:"storage"`
	Catalog     Catalog  `yaml:"catalog"`
	DatabaseURL string   `yaml:"-"`
}

// LoadDotEnv loads the first .env file found among paths into the process environment.
// It returns the path that was loaded, or "" when none exists.
func LoadDotEnv(paths ...string) string {
	if len(paths) == 0 {
		paths = []string{".env", "../../.env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err == nil {
			return p
		}
	}
	return ""
}

// Load reads and validates the configuration
func Load(path string) (*Config, error) {
	c, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Read loads the YAML file at path (skipped when path is empty), applies
// environment overrides and fills defaults. The result is not validated.
func Read(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("failed to parse config yaml: %w", err)
		}
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Port, "PORT")
	setString(&c.Server.LogLevel, "LOG_LEVEL")
	setString(&c.DatabaseURL, "DATABASE_URL")

	setString(&c.Source.Type, "SOURCE_TYPE")
	setString(&c.Source.SheetID, "SHEET_ID")
	setString(&c.Source.SheetName, "SHEET_NAME")
	setString(&c.Source.CredentialsFile, "GOOGLE_CREDENTIALS_FILE")
	setString(&c.Source.CredentialsJSON, "GOOGLE_CREDENTIALS_JSON")
	setString(&c.Source.CSVPath, "CSV_PATH")

	setString(&c.Storage.Type, "STORAGE_TYPE")
	setString(&c.Storage.LocalPath, "STORAGE_LOCAL_PATH")
	setString(&c.Storage.S3Bucket, "AWS_S3_BUCKET")
	setString(&c.Storage.S3Region, "AWS_REGION")
	setString(&c.Storage.S3Endpoint, "AWS_S3_ENDPOINT")
	setString(&c.Storage.AWSAccessKey, "AWS_ACCESS_KEY_ID")
	setString(&c.Storage.AWSSecretKey, "AWS_SECRET_ACCESS_KEY")

	setString(&c.Catalog.LinkStyle, "LINK_STYLE")

	var errs []error
	errs = append(errs, setDuration(&c.Source.FetchTimeout, "FETCH_TIMEOUT"))
	errs = append(errs, setDuration(&c.Sessions.TTL, "SESSION_TTL"))
	errs = append(errs, setDuration(&c.Server.ReadTimeout, "READ_TIMEOUT"))
	errs = append(errs, setDuration(&c.Server.WriteTimeout, "WRITE_TIMEOUT"))
	errs = append(errs, setInt(&c.Sessions.Max, "MAX_SESSIONS"))
	return errors.Join(errs...)
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Source.Type == "" {
		c.Source.Type = string(source.TypeSheets)
	}
	if c.Source.SheetName == "" {
		c.Source.SheetName = "Sheet1"
	}
	if c.Source.FetchTimeout == 0 {
		c.Source.FetchTimeout = 30 * time.Second
	}
	if c.Sessions.TTL == 0 {
		c.Sessions.TTL = 2 * time.Hour
	}
	if c.Sessions.Max == 0 {
		c.Sessions.Max = 100
	}
	if c.Storage.Type == "" {
		c.Storage.Type = string(storage.StorageTypeLocal)
	}
	if c.Storage.LocalPath == "" {
		c.Storage.LocalPath = "./storage/exports"
	}
	if c.Storage.S3Region == "" {
		c.Storage.S3Region = "us-east-1"
	}
	if c.Catalog.LinkStyle == "" {
		c.Catalog.LinkStyle = string(caseview.LinkButton)
	}
}

// Validate checks settings that would otherwise fail late
func (c *Config) Validate() error {
	switch source.Type(c.Source.Type) {
	case source.TypeSheets:
		if c.Source.SheetID == "" {
			return errors.New("SHEET_ID is required for the sheets source")
		}
	case source.TypeCSV:
		if c.Source.CSVPath == "" {
			return errors.New("CSV_PATH is required for the csv source")
		}
	default:
		return fmt.Errorf("unknown source type: %s", c.Source.Type)
	}

	if _, err := caseview.ParseLinkStyle(c.Catalog.LinkStyle); err != nil {
		return err
	}

	if c.Sessions.Max < 0 {
		return errors.New("max sessions must not be negative")
	}

	_, err := c.CaseCatalog()
	return err
}

// SourceConfig converts the source section for source.New
func (c *Config) SourceConfig() source.Config {
	return source.Config{
		Type:            source.Type(c.Source.Type),
		SheetID:         c.Source.SheetID,
		SheetName:       c.Source.SheetName,
		CredentialsFile: c.Source.CredentialsFile,
		CredentialsJSON: c.Source.CredentialsJSON,
		CSVPath:         c.Source.CSVPath,
	}
}

// StorageConfig converts the storage section for storage.NewStorage
func (c *Config) StorageConfig() storage.StorageConfig {
	return storage.StorageConfig{
		Type:         storage.StorageType(c.Storage.Type),
		LocalPath:    c.Storage.LocalPath,
		S3Bucket:     c.Storage.S3Bucket,
		S3Region:     c.Storage.S3Region,
		S3Endpoint:   c.Storage.S3Endpoint,
		AWSAccessKey: c.Storage.AWSAccessKey,
		AWSSecretKey: c.Storage.AWSSecretKey,
	}
}

// CaseCatalog merges the configured catalog over the stock one
func (c *Config) CaseCatalog() (caseview.Catalog, error) {
	cat := caseview.DefaultCatalog()
	if len(c.Catalog.Statuses) > 0 {
		cat.Statuses = c.Catalog.Statuses
	}
	if len(c.Catalog.Courts) > 0 {
		cat.Courts = c.Catalog.Courts
	}
	if len(c.Catalog.CaseTypes) > 0 {
		cat.CaseTypes = c.Catalog.CaseTypes
	}
	if len(c.Catalog.AmountTiers) > 0 {
		cat.AmountTiers = c.Catalog.AmountTiers
	}
	for _, tier := range cat.AmountTiers {
		if _, _, err := caseview.ParseThreshold(tier); err != nil {
			return caseview.Catalog{}, fmt.Errorf("amount tier %q: %w", tier, err)
		}
	}
	if c.Catalog.DefaultAmount != "" {
		cat.DefaultAmount = c.Catalog.DefaultAmount
	}
	if _, _, err := caseview.ParseThreshold(cat.DefaultAmount); err != nil {
		return caseview.Catalog{}, fmt.Errorf("default amount: %w", err)
	}
	if c.Catalog.DefaultStart != "" {
		start, err := time.Parse(time.DateOnly, strings.TrimSpace(c.Catalog.DefaultStart))
		if err != nil {
			return caseview.Catalog{}, fmt.Errorf("default start date: %w", err)
		}
		cat.DefaultStart = start
	}
	return cat, nil
}

// LinkStyle returns the configured link rendering, falling back to buttons
func (c *Config) LinkStyle() caseview.LinkStyle {
	style, err := caseview.ParseLinkStyle(c.Catalog.LinkStyle)
	if err != nil {
		return caseview.LinkButton
	}
	return style
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}
