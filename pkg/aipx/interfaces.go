package aipx

import (
	"context"
	"time"
)

// CollectionProcessor converts one package on disk into an item Result.
// Implementations must be safe for concurrent use; each call owns its own
// indexes and tree.
type CollectionProcessor interface {
	// Process reads the manifest and objects listing under path and walks the
	// package with the given profile. It returns a full result or an error,
	// never a partial result.
	Process(ctx context.Context, path string, profile Profile) (Result, error)
}

// PackageScanner locates the parts of a package the processor reads.
type PackageScanner interface {
	// LocateManifest returns the path of the single METS.*.xml in root.
	LocateManifest(root string) (string, error)

	// ReadManifest returns the content of the manifest at path.
	ReadManifest(path string) ([]byte, error)

	// ListObjects returns the file names in root/objects, sorted.
	// A missing objects directory yields an empty listing.
	ListObjects(root string) ([]string, error)
}

// ItemStore persists a converted collection. It is the item-store writer
// collaborator; normalization of partial records happens behind it.
type ItemStore interface {
	// Store replaces everything previously stored for result.Root.CollectionID.
	Store(ctx context.Context, result Result) error
}

// Logger provides a pluggable logging interface.
// Implementations must be safe for concurrent use by multiple goroutines.
type Logger interface {
	// Verbose logs diagnostics, only when verbose mode is enabled.
	Verbose(format string, args ...interface{})

	// Info logs normal progress regardless of verbose mode.
	Info(format string, args ...interface{})

	// Error logs failures regardless of verbose mode.
	Error(format string, args ...interface{})
}

// ErrorClassifier determines whether an error is transient (retryable) or fatal.
type ErrorClassifier interface {
	IsTransient(err error) bool
}

// BackoffStrategy calculates the delay before the next retry attempt.
type BackoffStrategy interface {
	// NextDelay returns the wait before retry number attempt (zero-indexed).
	NextDelay(attempt int) time.Duration

	// MaxAttempts returns the retry budget (0 = no retries, -1 = unlimited).
	MaxAttempts() int
}
