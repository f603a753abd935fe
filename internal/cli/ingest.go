package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/vvka-141/aipx/internal/config"
	"github.com/vvka-141/aipx/internal/db"
	"github.com/vvka-141/aipx/internal/files/scanner"
	"github.com/vvka-141/aipx/internal/logging"
	"github.com/vvka-141/aipx/internal/services"
	"github.com/vvka-141/aipx/internal/tui"
	"github.com/vvka-141/aipx/pkg/aipx"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <directory>...",
	Short: "Convert packages and store their items in PostgreSQL",
	Long: `Ingest searches each directory for packages, converts them and stores the
items in PostgreSQL. Every package replaces the stored collection with the same
root identifier in one transaction. Packages run in parallel (--jobs); a failed
package does not stop the others.

The schema (aipx_collections, aipx_items, aipx_text_items) is created on first use.

Authentication:
  standard   Password from the URL, $PGPASSWORD or ~/.pgpass
  aws        RDS IAM token (--aws-region or $AWS_REGION)
  google     Cloud SQL IAM through the Cloud SQL connector (--google-instance)
  azure      Entra ID token ($AZURE_TENANT_ID, $AZURE_CLIENT_ID and
             $AZURE_CLIENT_SECRET, or the default credential chain)

Examples:
  # Ingest everything below ./packages
  aipx ingest ./packages --database-url postgres://localhost/aipx

  # List what would be ingested
  aipx ingest ./packages --dry-run

  # RDS with IAM authentication, 8 packages at a time
  aipx ingest ./packages --auth-method aws --aws-region eu-west-1 --jobs 8 \
    --database-url postgres://ingest@aipx.cluster-xyz.eu-west-1.rds.amazonaws.com/aipx`,
	Args:              RequirePackageRoots,
	ValidArgsFunction: completeDirectories,
	RunE:              runIngest,
}

type ingestFlagValues struct {
	profile    profileFlags
	connection connectionFlags
	jobs       int
	timeout    time.Duration
	dryRun     bool
}

var ingestFlags ingestFlagValues

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestFlags.profile.register(ingestCmd)
	ingestFlags.connection.register(ingestCmd)
	ingestCmd.Flags().IntVarP(&ingestFlags.jobs, "jobs", "j", 0,
		"Packages processed in parallel (default: "+strconv.Itoa(aipx.DefaultJobs)+", or jobs from the config file)")
	ingestCmd.Flags().DurationVar(&ingestFlags.timeout, "timeout", aipx.DefaultTimeout,
		"Maximum duration of the whole run")
	ingestCmd.Flags().BoolVar(&ingestFlags.dryRun, "dry-run", false,
		"List the packages found without converting or storing them")
}

func runIngest(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	profile, err := ingestFlags.profile.resolve(s.config)
	if err != nil {
		return err
	}

	paths, err := findPackages(args)
	if err != nil {
		return err
	}
	if ingestFlags.dryRun {
		for _, p := range paths {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	}

	conn, err := ingestFlags.connection.resolve(s.config)
	if err != nil {
		return err
	}
	timeout, err := resolveTimeout(cmd, s.config, ingestFlags.timeout)
	if err != nil {
		return err
	}
	jobs := resolveJobs(ingestFlags.jobs, s.config)

	ctx, cancel := context.WithTimeout(commandContext(cmd), timeout)
	defer cancel()

	interactive := tui.IsInteractive()
	logger := s.logger
	if interactive && !s.verbose {
		// The progress display reports failures itself.
		logger = logging.NewNullLogger()
	}

	store, err := db.Open(ctx, conn, logger)
	if err != nil {
		return fmt.Errorf("%w: %w", aipx.ErrStoreFailed, err)
	}
	defer store.Close() //nolint:errcheck

	processor := services.NewCollectionService(scanner.NewScanner(), logger)
	svc := services.NewIngestService(processor, store, logger, jobs)

	var outcomes []services.IngestOutcome
	work := func(report func(tui.PackageDone)) error {
		svc.OnOutcome = func(o services.IngestOutcome) {
			report(packageDone(o))
		}
		var err error
		outcomes, err = svc.Ingest(ctx, paths, profile)
		return err
	}

	start := time.Now()
	if interactive {
		err = tui.RunWithProgress(fmt.Sprintf("Ingesting %d package(s)", len(paths)), len(paths), cancel, work)
	} else {
		err = work(tui.PlainReporter(cmd.OutOrStdout()))
	}

	fmt.Fprintln(cmd.ErrOrStderr(), tui.Summary("ingest", ingestRows(outcomes, time.Since(start))))
	return err
}

// findPackages searches every root and returns the absolute package paths,
// without duplicates, in argument order.
func findPackages(roots []string) ([]string, error) {
	sc := scanner.NewScanner()
	seen := make(map[string]bool)
	var paths []string
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", root, err)
		}
		found, err := sc.FindPackages(abs)
		if err != nil {
			return nil, fmt.Errorf("search %s: %w", root, err)
		}
		for _, p := range found {
			if !seen[p] {
				seen[p] = true
				paths = append(paths, p)
			}
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no packages found below %v: %w", roots, aipx.ErrManifestNotFound)
	}
	return paths, nil
}

func resolveJobs(flagJobs int, cfg *config.ProjectConfig) int {
	switch {
	case flagJobs > 0:
		return flagJobs
	case cfg != nil && cfg.Jobs > 0:
		return cfg.Jobs
	default:
		return aipx.DefaultJobs
	}
}

func packageDone(o services.IngestOutcome) tui.PackageDone {
	done := tui.PackageDone{Name: filepath.Base(o.Path), Err: o.Err}
	var collErr *aipx.CollectionError
	if errors.As(o.Err, &collErr) {
		done.Err = collErr.Err
	}
	if o.Err == nil {
		done.Detail = fmt.Sprintf("%d items, %d text items in %s",
			len(o.Result.Items), len(o.Result.TextItems), o.Duration.Round(time.Millisecond))
	}
	return done
}

func ingestRows(outcomes []services.IngestOutcome, elapsed time.Duration) []tui.SummaryRow {
	var stored, failed, items int
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			failed++
		case o.Path != "":
			stored++
			items += len(o.Result.Items)
		}
	}
	return []tui.SummaryRow{
		{Label: "stored", Value: strconv.Itoa(stored)},
		{Label: "failed", Value: strconv.Itoa(failed)},
		{Label: "items", Value: strconv.Itoa(items)},
		{Label: "elapsed", Value: elapsed.Round(time.Millisecond).String()},
	}
}
