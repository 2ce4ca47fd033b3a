package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for filetier.
// Running it without a subcommand performs a scan.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filetier [root]",
		Short: "Classify files by how recently they were modified",
		Long: `filetier walks a directory tree and sorts every file into an activity tier
by the age of its last modification:

  Active  modified within active_days (default 30)
  Stale   modified within stale_days (default 180)
  Dark    older than stale_days

Each file is printed with its size and timestamp, and the results are exported
to classified_files.csv and classified_files.json in the working directory.
Markdown, HTML and SQLite reports can be enabled with flags or in
.filetier/config.yaml.`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runScan,
		Version: Version,
		// main prints the returned error once
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addScanFlags(cmd)
	cmd.AddCommand(NewScanCommand())

	return cmd
}
