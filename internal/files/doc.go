// Package files groups the filesystem access of package processing.
//
// Sub-packages:
//   - filesystem: filesystem abstraction (OS and in-memory)
//   - scanner: manifest location, objects listing and package discovery
//
// # Usage
//
//	import (
//	    "github.com/vvka-141/aipx/internal/files/filesystem"
//	    "github.com/vvka-141/aipx/internal/files/scanner"
//	)
//
//	s := scanner.NewScanner()
//	manifest, err := s.LocateManifest("/archive/aip-1")
//	objects, err := s.ListObjects("/archive/aip-1")
package files
