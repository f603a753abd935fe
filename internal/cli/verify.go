package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vvka-141/aipx/internal/checksum"
	"github.com/vvka-141/aipx/internal/files/filesystem"
	"github.com/vvka-141/aipx/internal/files/scanner"
	"github.com/vvka-141/aipx/internal/services"
	"github.com/vvka-141/aipx/internal/tui"
	"github.com/vvka-141/aipx/pkg/aipx"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <package_path>",
	Short: "Check original binaries against their recorded fixity",
	Long: `Verify converts a package and recomputes the message digests recorded in
PREMIS fixity for every original binary (md5, sha1, sha256, sha512).
Digests with other algorithms are reported as skipped.

Exits with code 14 when any digest differs.

Example:
  aipx verify ./packages/letters-5f0c --mode root`,
	Args:              RequirePackagePath,
	ValidArgsFunction: completePackagePath,
	RunE:              runVerify,
}

type verifyFlagValues struct {
	profile profileFlags
}

var verifyFlags verifyFlagValues

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyFlags.profile.register(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	profile, err := verifyFlags.profile.resolve(s.config)
	if err != nil {
		return err
	}
	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve %s: %w", args[0], err)
	}

	ctx := commandContext(cmd)
	fs := filesystem.NewOSFileSystem()
	result, err := services.NewCollectionService(scanner.NewScannerWithFS(fs), s.logger).Process(ctx, path, profile)
	if err != nil {
		return err
	}

	report, err := services.NewFixityVerifier(fs, checksum.New(), s.logger).Verify(ctx, result)
	if err != nil && !errors.Is(err, aipx.ErrFixityMismatch) {
		return err
	}

	out := cmd.OutOrStdout()
	for _, m := range report.Mismatches {
		fmt.Fprintf(out, "%s %s %s: expected %s, got %s\n",
			tui.ErrorStyle.Render(tui.SymbolCross), m.ItemID, m.Algorithm, m.Expected, m.Actual)
	}
	for _, skipped := range report.Skipped {
		fmt.Fprintf(out, "%s skipped %s\n", tui.WarningStyle.Render(tui.SymbolWarn), skipped)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), tui.Summary(result.Root.Label, []tui.SummaryRow{
		{Label: "checked", Value: strconv.Itoa(report.Checked)},
		{Label: "mismatches", Value: strconv.Itoa(len(report.Mismatches))},
		{Label: "skipped", Value: strconv.Itoa(len(report.Skipped))},
	}))
	return err
}
