// Package filesystem provides read access to archival packages.
//
// FileSystemProvider abstracts the few operations package processing needs
// (manifest reads, objects listings, streaming binary reads for fixity checks
// and tree walks for package discovery), so that package fixtures can live in
// memory during tests.
//
// Implementations:
//   - OSFileSystem: production implementation using the OS filesystem
//   - MemoryFileSystem: in-memory implementation for testing
package filesystem
