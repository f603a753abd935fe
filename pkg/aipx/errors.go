package aipx

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for package conversion failures.
// Callers distinguish failure categories with errors.Is().
//
// Example usage:
//
//	result, err := processor.Process(ctx, path, aipx.FolderProfile{})
//	if errors.Is(err, aipx.ErrManifestNotFound) {
//	    // Not an archival package
//	}
var (
	// ErrManifestNotFound indicates the package root has no METS manifest.
	ErrManifestNotFound = errors.New("no METS manifest found")

	// ErrMultipleManifests indicates the package root has more than one METS manifest.
	ErrMultipleManifests = errors.New("more than one METS manifest found")

	// ErrInvalidManifest indicates the manifest is not well-formed XML.
	ErrInvalidManifest = errors.New("invalid METS manifest")

	// ErrPhysicalStructMapNotFound indicates the manifest has no physical structMap.
	ErrPhysicalStructMapNotFound = errors.New("missing physical structmap")

	// ErrRootMetadataNotFound indicates the outermost physical div has no directory metadata.
	ErrRootMetadataNotFound = errors.New("no root metadata")

	// ErrMissingLabel indicates a structMap div without a LABEL attribute.
	ErrMissingLabel = errors.New("missing label")

	// ErrMissingPointer indicates a physical file div without exactly one fptr.
	ErrMissingPointer = errors.New("missing pointer")

	// ErrConflictingNode indicates a label classified as directory in one structMap and file in the other.
	ErrConflictingNode = errors.New("conflicting directory/file classification")

	// ErrMissingTechnicalExtension indicates a media object without objectCharacteristicsExtension.
	ErrMissingTechnicalExtension = errors.New("missing objectCharacteristicsExtension")

	// ErrMissingObjectCharacteristics indicates an object without objectCharacteristics.
	ErrMissingObjectCharacteristics = errors.New("missing objectCharacteristics")

	// ErrMissingObjectDescription indicates a metadata section without a PREMIS object.
	ErrMissingObjectDescription = errors.New("missing PREMIS object")

	// ErrMissingOriginalName indicates a PREMIS object without originalName.
	ErrMissingOriginalName = errors.New("missing originalName")

	// ErrMissingIdentifier indicates a PREMIS object without a handle or UUID identifier.
	ErrMissingIdentifier = errors.New("no identifier")

	// ErrMissingDirectoryMetadata indicates a directory div whose DMDID has no directory metadata.
	ErrMissingDirectoryMetadata = errors.New("missing directory metadata")

	// ErrBinaryNotFound indicates no file in objects/ starts with the object identifier.
	ErrBinaryNotFound = errors.New("expected to find a file")

	// ErrAmbiguousBinary indicates more than one candidate binary for the same slot.
	ErrAmbiguousBinary = errors.New("more than one matching file")

	// ErrMissingTextFileID indicates the custom structMap did not resolve the file a text layer annotates.
	ErrMissingTextFileID = errors.New("missing file id for text layer")

	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrStoreFailed indicates the item store rejected a result.
	ErrStoreFailed = errors.New("store failed")

	// ErrUnsupportedAuthMethod indicates an unknown database authentication method.
	ErrUnsupportedAuthMethod = errors.New("unsupported auth method")

	// ErrFixityMismatch indicates a binary whose digest differs from its PREMIS fixity.
	ErrFixityMismatch = errors.New("fixity mismatch")
)

// CollectionError wraps any failure raised while processing one package
// with the package path. The wrapped error keeps its message and sentinel chain.
type CollectionError struct {
	Path string
	Err  error
}

func (e *CollectionError) Error() string {
	return fmt.Sprintf("collection %s: %v", e.Path, e.Err)
}

func (e *CollectionError) Unwrap() error { return e.Err }

// manifestErrors are the structural failures of a package.
var manifestErrors = []error{
	ErrManifestNotFound,
	ErrMultipleManifests,
	ErrInvalidManifest,
	ErrPhysicalStructMapNotFound,
	ErrRootMetadataNotFound,
	ErrMissingLabel,
	ErrMissingPointer,
	ErrConflictingNode,
	ErrMissingTechnicalExtension,
	ErrMissingObjectCharacteristics,
	ErrMissingObjectDescription,
	ErrMissingOriginalName,
	ErrMissingIdentifier,
	ErrMissingDirectoryMetadata,
	ErrBinaryNotFound,
	ErrAmbiguousBinary,
	ErrMissingTextFileID,
}

// IsManifestError reports whether err is a structural package failure.
func IsManifestError(err error) bool {
	for _, target := range manifestErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrUnsupportedAuthMethod):
		return ExitConfigError
	case errors.Is(err, ErrManifestNotFound), errors.Is(err, ErrMultipleManifests):
		return ExitManifestMissing
	case IsManifestError(err):
		return ExitInvalidPackage
	case errors.Is(err, ErrStoreFailed):
		return ExitStoreError
	case errors.Is(err, ErrFixityMismatch):
		return ExitFixityMismatch
	}

	errStr := err.Error()
	for _, pattern := range usageErrorPatterns {
		if strings.Contains(errStr, pattern) {
			return ExitUsageError
		}
	}

	return ExitGeneralError
}

// usageErrorPatterns are cobra messages for CLI misuse.
var usageErrorPatterns = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"requires at least",
	"required flag",
	"invalid argument",
	"missing required argument",
}
