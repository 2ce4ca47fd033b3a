package cmd

import (
	"fmt"
	"time"

	"github.com/harrison/filetier/internal/config"
	"github.com/spf13/cobra"
)

// NewScanCommand creates the scan command
func NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [root]",
		Short: "Scan a directory tree, classify files and export the results",
		Long: `Scan walks root (default ".") and classifies every regular file as Active,
Stale or Dark by its age in whole days.

Configuration is loaded from the nearest .filetier/config.yaml if present.
CLI flags override configuration file settings.

Examples:
  filetier scan                           # Scan the working directory
  filetier scan /srv/share --quiet        # Only print the summary
  filetier scan data --active-days 7 --stale-days 90
  filetier scan data --markdown report.md --html report.html
  filetier scan data --sqlite scans.db --no-json
  filetier scan data --now 2024-06-01T00:00:00Z   # Reproducible ages`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScan,
	}

	addScanFlags(cmd)

	return cmd
}

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "Path to config file (default: .filetier/config.yaml)")
	cmd.Flags().Int("active-days", 0, "Maximum age in days for the Active tier (default 30)")
	cmd.Flags().Int("stale-days", 0, "Maximum age in days for the Stale tier (default 180)")
	cmd.Flags().String("csv", "", "CSV output file (default classified_files.csv)")
	cmd.Flags().String("json", "", "JSON output file (default classified_files.json)")
	cmd.Flags().Bool("no-csv", false, "Skip the CSV export")
	cmd.Flags().Bool("no-json", false, "Skip the JSON export")
	cmd.Flags().String("markdown", "", "Write a Markdown report to this file")
	cmd.Flags().String("html", "", "Write an HTML report to this file")
	cmd.Flags().String("sqlite", "", "Write a SQLite database to this file")
	cmd.Flags().String("now", "", "Reference time for ages, RFC 3339 (default: current time)")
	cmd.Flags().Bool("quiet", false, "Do not print one line per file")
	cmd.Flags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.Flags().String("log-dir", "", "Also write a run log to this directory")
}

// runScan implements the scan command logic
func runScan(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.FindConfigPath(".")
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	if cmd.Flags().Changed("csv") && cmd.Flags().Changed("no-csv") {
		return fmt.Errorf("cannot use both --csv and --no-csv")
	}
	if cmd.Flags().Changed("json") && cmd.Flags().Changed("no-json") {
		return fmt.Errorf("cannot use both --json and --no-json")
	}

	overrides := overridesFromFlags(cmd)
	if len(args) == 1 {
		overrides.Root = &args[0]
	}
	cfg.MergeWithFlags(overrides)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	now := time.Now()
	if nowFlag, _ := cmd.Flags().GetString("now"); nowFlag != "" {
		now, err = time.Parse(time.RFC3339, nowFlag)
		if err != nil {
			return fmt.Errorf("invalid --now value %q (want RFC 3339, e.g. 2024-06-01T00:00:00Z): %w", nowFlag, err)
		}
	}

	p, err := NewPipeline(cfg, now, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer p.Close()

	_, err = p.Run(cmd.Context())
	return err
}

// overridesFromFlags collects the flags the user actually set.
func overridesFromFlags(cmd *cobra.Command) config.Overrides {
	var o config.Overrides
	flags := cmd.Flags()

	stringFlag := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	intFlag := func(name string) *int {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetInt(name)
		return &v
	}

	o.ActiveDays = intFlag("active-days")
	o.StaleDays = intFlag("stale-days")
	o.LogLevel = stringFlag("log-level")
	o.LogDir = stringFlag("log-dir")
	o.CSV = stringFlag("csv")
	o.JSON = stringFlag("json")
	o.Markdown = stringFlag("markdown")
	o.HTML = stringFlag("html")
	o.SQLite = stringFlag("sqlite")

	if flags.Changed("quiet") {
		quiet, _ := flags.GetBool("quiet")
		o.Quiet = &quiet
	}
	o.NoCSV, _ = flags.GetBool("no-csv")
	o.NoJSON, _ = flags.GetBool("no-json")

	return o
}
