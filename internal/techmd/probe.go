// Package techmd extracts technical metadata (resolution, DPI, duration and
// text encoding) from the objectCharacteristicsExtension of a PREMIS object.
//
// Characterization output comes from several tools. Each tool's output form is
// a Dialect: a set of independent probes. A probe function tries the dialects
// in order and returns the first complete value. Absence is never an error;
// missing values are backfilled by a later enrichment step.
package techmd

import (
	"strings"

	"github.com/vvka-141/aipx/internal/mets"
	"golang.org/x/text/encoding/ianaindex"
)

// Resolution is a pixel size.
type Resolution struct {
	Width  int
	Height int
}

// Dialect is one tool's output form. Nil probes mean the tool does not
// report that value.
type Dialect struct {
	Name       string
	Resolution func(ext *mets.Node) (Resolution, bool)
	DPI        func(ext *mets.Node) (int, bool)
	Duration   func(ext *mets.Node) (float64, bool)
	Encoding   func(ext *mets.Node) (string, bool)
}

// DefaultDialects is the fixed probing order.
var DefaultDialects = []Dialect{MediaInfo, FFprobe, ExifTool, FITS}

func firstMatch[T any](ext *mets.Node, dialects []Dialect, probe func(Dialect) func(*mets.Node) (T, bool)) (T, bool) {
	var zero T
	if ext == nil {
		return zero, false
	}
	if len(dialects) == 0 {
		dialects = DefaultDialects
	}
	for _, d := range dialects {
		fn := probe(d)
		if fn == nil {
			continue
		}
		if v, ok := fn(ext); ok {
			return v, true
		}
	}
	return zero, false
}

// ProbeResolution returns the first width and height pair reported by the dialects.
func ProbeResolution(ext *mets.Node, dialects ...Dialect) (Resolution, bool) {
	return firstMatch(ext, dialects, func(d Dialect) func(*mets.Node) (Resolution, bool) { return d.Resolution })
}

// ProbeDPI returns the first horizontal resolution in dots per inch.
func ProbeDPI(ext *mets.Node, dialects ...Dialect) (int, bool) {
	return firstMatch(ext, dialects, func(d Dialect) func(*mets.Node) (int, bool) { return d.DPI })
}

// ProbeDuration returns the first duration in seconds.
func ProbeDuration(ext *mets.Node, dialects ...Dialect) (float64, bool) {
	return firstMatch(ext, dialects, func(d Dialect) func(*mets.Node) (float64, bool) { return d.Duration })
}

// ProbeEncoding returns the first character encoding, canonicalized to its
// IANA name when the name is registered.
func ProbeEncoding(ext *mets.Node, dialects ...Dialect) (string, bool) {
	enc, ok := firstMatch(ext, dialects, func(d Dialect) func(*mets.Node) (string, bool) { return d.Encoding })
	if !ok {
		return "", false
	}
	return CanonicalEncoding(enc), true
}

// CanonicalEncoding maps a charset label to its preferred MIME name
// ("iso-8859-1" -> "ISO-8859-1"), falling back to the IANA registry name.
// Labels without a supported IANA encoding are returned trimmed.
func CanonicalEncoding(label string) string {
	label = strings.TrimSpace(label)
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil || enc == nil {
		return label
	}
	if name, err := ianaindex.MIME.Name(enc); err == nil && name != "" {
		return name
	}
	if name, err := ianaindex.IANA.Name(enc); err == nil && name != "" {
		return name
	}
	return label
}
