package metadata

import (
	"time"

	"github.com/vvka-141/aipx/pkg/aipx"
)

// DirectoryMetadata is the identity of one directory.
type DirectoryMetadata struct {
	ID   string
	Name string
}

// ObjectMetadata is the identity and technical description of one original file.
type ObjectMetadata struct {
	ID        string
	Name      string
	Type      aipx.ItemType
	Size      *int64
	CreatedAt *time.Time
	PUID      *string

	Width      *int
	Height     *int
	Resolution *int
	Duration   *float64
	Encoding   *string

	Fixity []aipx.Fixity
}
