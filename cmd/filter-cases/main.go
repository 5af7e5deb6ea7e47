// Command filter-cases loads the case sheet once, applies filters and prints the matching rows.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"caseviewer-backend/caseview"
	"caseviewer-backend/config"
	"caseviewer-backend/logging"
	"caseviewer-backend/models"
	"caseviewer-backend/service"
	"caseviewer-backend/source"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath  string
	sourceType  string
	csvPath     string
	sheetID     string
	sheetName   string
	credentials string
	format      string
	linkStyle   string
	verbose     bool
	showDiags   bool
	selection   models.FilterSelection
)

var rootCmd = &cobra.Command{
	Use:   "filter-cases",
	Short: "Filter the case spreadsheet from the command line",
	Long: `filter-cases fetches the case spreadsheet (Google Sheets or a CSV export),
maps its headers to case fields and prints the rows matching the given filters.

Filters take the same values as the dashboard: "All" disables a filter,
amounts are tier labels such as ">= $25,000" and dates are YYYY-MM-DD.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&configPath, "config", "", "path to a YAML config file")
	f.StringVar(&sourceType, "source", "", "source type: sheets or csv")
	f.StringVar(&csvPath, "csv", "", "CSV file to read (implies --source csv)")
	f.StringVar(&sheetID, "sheet-id", "", "Google spreadsheet id")
	f.StringVar(&sheetName, "sheet-name", "", "worksheet title")
	f.StringVar(&credentials, "credentials", "", "service account credentials file")

	f.StringVar(&selection.Status, "status", caseview.AllOption, "case status")
	f.StringVar(&selection.Court, "court", caseview.AllOption, "court system")
	f.StringVar(&selection.CaseType, "type", caseview.AllOption, "case type")
	f.StringVar(&selection.Amount, "amount", caseview.AllOption, `minimum judgment amount tier, e.g. ">= $10,000"`)
	f.StringVar(&selection.StartDate, "start", "", "earliest entry date (YYYY-MM-DD)")
	f.StringVar(&selection.EndDate, "end", "", "latest entry date (YYYY-MM-DD)")

	f.StringVarP(&format, "output", "o", "table", "output format: table, csv or json")
	f.StringVar(&linkStyle, "links", string(caseview.LinkPlain), "link rendering: plain, markdown or button")
	f.BoolVar(&showDiags, "diagnostics", false, "print ambiguous column mappings to stderr")
	f.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	style, err := checkOutputFlags()
	if err != nil {
		return err
	}

	config.LoadDotEnv()

	cfg, err := config.Read(configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	catalog, err := cfg.CaseCatalog()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	src, err := source.New(ctx, cfg.SourceConfig())
	if err != nil {
		return err
	}

	sessions := service.NewSessionService(
		service.WithSource(src),
		service.WithCatalog(catalog),
		service.WithFetchTimeout(cfg.Source.FetchTimeout),
		service.WithLogger(logger),
	)

	start := time.Now()
	loaded, err := sessions.CreateSession(ctx, service.CreateSessionRequest{})
	if err != nil {
		return fmt.Errorf("failed to load cases: %w", err)
	}
	logger.Debug("sheet loaded", zap.Duration("took", time.Since(start)))

	if showDiags {
		for _, d := range loaded.Session.Diagnostics {
			fmt.Fprintln(cmd.ErrOrStderr(), "ambiguous column:", d.String())
		}
	}

	result, err := sessions.FilterSession(loaded.Session, selection, style)
	if err != nil {
		return err
	}

	return render(cmd.OutOrStdout(), format, result)
}

// checkOutputFlags rejects unknown --links and --output values before anything is fetched
func checkOutputFlags() (caseview.LinkStyle, error) {
	style, err := caseview.ParseLinkStyle(linkStyle)
	if err != nil {
		return "", fmt.Errorf("invalid --links: %w", err)
	}
	switch format {
	case "table", "csv", "json":
	default:
		return "", fmt.Errorf("unknown output format: %s", format)
	}
	return style, nil
}

// applyFlags lets explicitly set flags win over file and environment settings
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("source") {
		cfg.Source.Type = sourceType
	}
	if f.Changed("csv") {
		cfg.Source.CSVPath = csvPath
		if !f.Changed("source") {
			cfg.Source.Type = string(source.TypeCSV)
		}
	}
	if f.Changed("sheet-id") {
		cfg.Source.SheetID = sheetID
	}
	if f.Changed("sheet-name") {
		cfg.Source.SheetName = sheetName
	}
	if f.Changed("credentials") {
		cfg.Source.CredentialsFile = credentials
	}
}
