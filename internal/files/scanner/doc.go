// Package scanner locates the parts of archival packages on a filesystem.
//
// A package root holds exactly one METS.<uuid>.xml manifest and an optional
// objects/ directory whose binaries are named with their object identifier
// as prefix. The scanner also discovers package roots below a batch
// directory for bulk ingest.
package scanner
