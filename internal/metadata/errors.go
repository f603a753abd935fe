package metadata

import "fmt"

// SectionError locates a metadata failure in the manifest.
type SectionError struct {
	Section string // dmdSec or amdSec ID
	Err     error
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("section %s: %v", e.Section, e.Err)
}

func (e *SectionError) Unwrap() error { return e.Err }

func sectionError(section string, err error) error {
	return &SectionError{Section: section, Err: err}
}
