package aipx

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Command completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration
	ExitManifestMissing = 11 // No (or more than one) METS manifest in the package root
	ExitInvalidPackage  = 12 // Structural failure in the manifest or objects
	ExitStoreError      = 13 // Item store rejected the result
	ExitFixityMismatch  = 14 // A binary failed its fixity check
)

const (
	// ManifestPrefix is the filename prefix of a package manifest (METS.<uuid>.xml).
	ManifestPrefix = "METS."

	// ManifestExtension is the filename extension of a package manifest.
	ManifestExtension = ".xml"

	// ObjectsDirectory holds the package binaries, each named with its object identifier as prefix.
	ObjectsDirectory = "objects"

	// DefaultJobs is the default number of packages ingested in parallel.
	DefaultJobs = 4

	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 30 * time.Second

	// DefaultRetryMaxAttempts is the default maximum number of retry attempts.
	DefaultRetryMaxAttempts = 3

	// DefaultTimeout bounds a whole ingest run.
	DefaultTimeout = 10 * time.Minute
)
