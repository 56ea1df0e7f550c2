package main

import (
	"fmt"

	"github.com/igodwin/campaign-mailer/internal/archive"
	"github.com/spf13/cobra"
)

var archiveExclude []string

var archiveCmd = &cobra.Command{
	Use:   "archive <directory> <zip-file>",
	Short: "Compress a report directory into a ZIP archive",
	Long: `Archive recursively compresses every regular file of the directory into
the ZIP file, naming each entry by its path relative to the directory.
The ZIP file is created or truncated.`,
	Args: cobra.ExactArgs(2),
	RunE: runArchive,
}

func init() {
	archiveCmd.Flags().StringSliceVar(&archiveExclude, "exclude", nil, "glob patterns of files to leave out (e.g. **/*.tmp)")
	rootCmd.AddCommand(archiveCmd)
}

func runArchive(cmd *cobra.Command, args []string) error {
	sourceDir, destination := args[0], args[1]

	var opts []archive.Option
	if len(archiveExclude) > 0 {
		opts = append(opts, archive.WithExclude(archiveExclude...))
	}

	if err := archive.CompressDirectory(sourceDir, destination, opts...); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Archived %s into %s\n", sourceDir, destination)
	return nil
}
