package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "aipx",
	Short: "Convert METS/PREMIS archival packages into a flat item model",
	Long: `aipx reads archival information packages (a METS manifest with PREMIS
object metadata and an objects/ directory of binaries) and converts them into
a flat list of items: folders, files, images, audio, video, PDFs and text layers.

Results can be printed as JSON, inspected as a tree, checked against their
recorded fixity, or ingested into PostgreSQL.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - No (or more than one) METS manifest in the package root
  12 - Invalid package structure or metadata
  13 - Item store rejected a result
  14 - Fixity mismatch`,
	SilenceUsage: true,
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command context.
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	rootCmd.PersistentFlags().String("config", "",
		"Path to the config file (default: ./"+configFileHint+" when present)")
	rootCmd.PersistentFlags().String("log-format", "",
		"Log format: text|json (default: text, or log.format from the config file)")
	_ = rootCmd.RegisterFlagCompletionFunc("log-format", completeLogFormats)
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

// commandContext returns the context cobra was executed with, or a
// background context when the command is invoked directly in tests.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
