// Package metadata builds the lookup indexes of a METS manifest.
//
// # Indexes
//
// A manifest is scanned once into three read-only tables:
//   - directories: DirectoryMetadata keyed by dmdSec ID
//   - objects: ObjectMetadata keyed by amdSec ID
//   - files: amdSec ID keyed by the FILEID of the "original" fileGrp
//
// # Identity
//
// Every PREMIS object resolves to one identifier. A handle-typed identifier
// wins and contributes the part after its first "/"; otherwise the UUID-typed
// identifier is used. An object with neither fails the whole manifest.
//
// # Failures
//
// Structural problems are reported as *SectionError naming the dmdSec or
// amdSec, wrapping one of the aipx sentinels so callers can use errors.Is.
// Missing technical values (resolution, duration and the like) are not
// failures; those fields stay nil.
package metadata
