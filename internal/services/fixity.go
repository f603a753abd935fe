package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/vvka-141/aipx/internal/checksum"
	"github.com/vvka-141/aipx/internal/files/filesystem"
	"github.com/vvka-141/aipx/pkg/aipx"
)

// FixityMismatch is one digest that differs from its PREMIS record.
type FixityMismatch struct {
	ItemID    string
	URI       string
	Algorithm string
	Expected  string
	Actual    string
}

// FixityReport summarizes a verification run.
type FixityReport struct {
	// Checked counts the digests recomputed.
	Checked int
	// Skipped lists "<item id>: <reason>" for digests that could not be checked.
	Skipped    []string
	Mismatches []FixityMismatch
}

// FixityVerifier recomputes the recorded digests of original binaries.
// Safe for concurrent use when the filesystem provider is.
type FixityVerifier struct {
	fs     filesystem.FileSystemProvider
	calc   checksum.Calculator
	logger aipx.Logger
}

// NewFixityVerifier creates a FixityVerifier. Panics on nil dependencies.
func NewFixityVerifier(fs filesystem.FileSystemProvider, calc checksum.Calculator, logger aipx.Logger) *FixityVerifier {
	if fs == nil {
		panic("fs cannot be nil")
	}
	if calc == nil {
		panic("calc cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &FixityVerifier{fs: fs, calc: calc, logger: logger}
}

// Verify checks every fixity entry of items that have an original binary.
// Mismatches are reported and make Verify fail with aipx.ErrFixityMismatch;
// unsupported algorithms are skipped.
func (v *FixityVerifier) Verify(ctx context.Context, result aipx.Result) (FixityReport, error) {
	var report FixityReport
	for _, item := range result.Items {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if item.Original.URI == nil || len(item.Fixity) == 0 {
			continue
		}
		uri := *item.Original.URI

		for _, fx := range item.Fixity {
			algorithm, err := checksum.ParseAlgorithm(fx.Algorithm)
			if err != nil {
				report.Skipped = append(report.Skipped, fmt.Sprintf("%s: %v", item.ID, err))
				continue
			}

			actual, err := v.sum(uri, algorithm)
			if err != nil {
				return report, fmt.Errorf("item %s: %w", item.ID, err)
			}
			report.Checked++

			expected := checksum.NormalizeDigest(fx.Digest)
			if actual != expected {
				v.logger.Error("fixity mismatch for %s (%s): expected %s, got %s", item.ID, algorithm, expected, actual)
				report.Mismatches = append(report.Mismatches, FixityMismatch{
					ItemID:    item.ID,
					URI:       uri,
					Algorithm: string(algorithm),
					Expected:  expected,
					Actual:    actual,
				})
				continue
			}
			v.logger.Verbose("fixity ok: %s %s", algorithm, uri)
		}
	}

	if len(report.Mismatches) > 0 {
		return report, fmt.Errorf("%d of %d digests differ: %w", len(report.Mismatches), report.Checked, aipx.ErrFixityMismatch)
	}
	return report, nil
}

func (v *FixityVerifier) sum(uri string, algorithm checksum.Algorithm) (digest string, err error) {
	r, err := v.fs.OpenFile(uri)
	if err != nil {
		return "", fmt.Errorf("failed to open binary: %w", err)
	}
	defer func() {
		err = errors.Join(err, r.Close())
	}()
	return v.calc.Sum(r, algorithm)
}
