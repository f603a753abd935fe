package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vvka-141/aipx/internal/files/scanner"
	"github.com/vvka-141/aipx/internal/services"
	"github.com/vvka-141/aipx/internal/tui"
	"github.com/vvka-141/aipx/pkg/aipx"
)

var processCmd = &cobra.Command{
	Use:   "process <package_path>",
	Short: "Convert one package into items and print them as JSON",
	Long: `Process converts one archival package into the item model and writes the
result as JSON: the root item, the child items in walk order and the text items.

Arguments:
  package_path    Package root holding exactly one METS.<uuid>.xml and an
                  objects/ directory with the binaries

Profiles:
  folder   Every directory becomes a folder item (default)
  root     Content sits in one container directory; --file selects content paths
  custom   Like root, correlated through a custom structMap (--struct-map);
           text-layer rules come from profile.texts in the config file

Examples:
  # Folder mode, JSON to stdout
  aipx process ./packages/letters-5f0c

  # Root mode with content selection, written to a file
  aipx process ./packages/photos-9a1e --mode root --file '\.tif$' -o photos.json

  # Print a per-type summary to stderr
  aipx process ./packages/letters-5f0c --summary --compact > letters.json`,
	Args:              RequirePackagePath,
	ValidArgsFunction: completePackagePath,
	RunE:              runProcess,
}

type processFlagValues struct {
	profile profileFlags
	output  string
	compact bool
	summary bool
}

var processFlags processFlagValues

func init() {
	rootCmd.AddCommand(processCmd)

	processFlags.profile.register(processCmd)
	processCmd.Flags().StringVarP(&processFlags.output, "output", "o", "",
		"Write the JSON result to this file instead of stdout")
	processCmd.Flags().BoolVar(&processFlags.compact, "compact", false,
		"Write JSON without indentation")
	processCmd.Flags().BoolVar(&processFlags.summary, "summary", false,
		"Print a summary of the result to stderr")
}

func runProcess(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	profile, err := processFlags.profile.resolve(s.config)
	if err != nil {
		return err
	}
	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve %s: %w", args[0], err)
	}

	svc := services.NewCollectionService(scanner.NewScanner(), s.logger)
	result, err := svc.Process(commandContext(cmd), path, profile)
	if err != nil {
		return err
	}

	if err := writeResult(cmd.OutOrStdout(), processFlags.output, processFlags.compact, result); err != nil {
		return err
	}
	if processFlags.summary {
		fmt.Fprintln(cmd.ErrOrStderr(), tui.Summary(result.Root.Label, resultRows(result)))
	}
	return nil
}

// writeResult encodes result as JSON to the file at path, or to stdout
// when path is empty.
func writeResult(stdout io.Writer, path string, compact bool, result aipx.Result) error {
	out := stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	if !compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

// resultRows lists the collection id, then item counts per type in name order.
func resultRows(result aipx.Result) []tui.SummaryRow {
	rows := []tui.SummaryRow{{Label: "collection", Value: result.Root.ID}}

	counts := result.CountByType()
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, string(t))
	}
	sort.Strings(types)
	for _, t := range types {
		rows = append(rows, tui.SummaryRow{Label: t, Value: strconv.Itoa(counts[aipx.ItemType(t)])})
	}

	rows = append(rows,
		tui.SummaryRow{Label: "items", Value: strconv.Itoa(len(result.Items))},
		tui.SummaryRow{Label: "text items", Value: strconv.Itoa(len(result.TextItems))},
	)
	return rows
}
