package techmd

import (
	"math"
	"strconv"
	"strings"

	"github.com/vvka-141/aipx/internal/mets"
)

// Namespaces of the tool outputs that declare one.
const (
	NamespaceMediaInfo = "https://mediaarea.net/mediainfo"
	NamespaceRDF       = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NamespaceFITS      = "http://hul.harvard.edu/ois/xml/ns/fits/fits_output"
)

// MediaInfo reads MediaInfo XML (<MediaInfo><media><track type="...">).
var MediaInfo = Dialect{
	Name: "mediainfo",
	Resolution: func(ext *mets.Node) (Resolution, bool) {
		for _, track := range mediaInfoTracks(ext, "Video", "Image") {
			if r, ok := parseDimension(track.ChildValue("", "Width")); ok {
				if h, ok := parseDimension(track.ChildValue("", "Height")); ok {
					return Resolution{Width: r, Height: h}, true
				}
			}
		}
		return Resolution{}, false
	},
	Duration: func(ext *mets.Node) (float64, bool) {
		for _, track := range mediaInfoTracks(ext, "General", "Video", "Audio") {
			if d, ok := parseDuration(track.ChildValue("", "Duration")); ok {
				return d, true
			}
		}
		return 0, false
	},
}

// FFprobe reads ffprobe XML (<ffprobe><streams><stream width=.. height=..>).
var FFprobe = Dialect{
	Name: "ffprobe",
	Resolution: func(ext *mets.Node) (Resolution, bool) {
		for _, stream := range ffprobeStreams(ext) {
			if w, ok := parseDimension(stream.Attr("width")); ok {
				if h, ok := parseDimension(stream.Attr("height")); ok {
					return Resolution{Width: w, Height: h}, true
				}
			}
		}
		return Resolution{}, false
	},
	Duration: func(ext *mets.Node) (float64, bool) {
		root := ext.Descendant("", "ffprobe")
		if root == nil {
			return 0, false
		}
		if d, ok := parseDuration(root.Child("", "format").Attr("duration")); ok {
			return d, true
		}
		for _, stream := range ffprobeStreams(ext) {
			if d, ok := parseDuration(stream.Attr("duration")); ok {
				return d, true
			}
		}
		return 0, false
	},
}

// ExifTool reads ExifTool RDF output (<rdf:RDF><rdf:Description><File:ImageWidth>).
var ExifTool = Dialect{
	Name:       "exiftool",
	Resolution: exifResolution(exifToolFields),
	DPI:        exifDPI(exifToolFields),
	Duration:   exifDuration(exifToolFields),
	Encoding:   exifEncoding(exifToolFields),
}

// FITS reads the ExifTool output wrapped in a FITS report
// (<fits><toolOutput><tool name="Exiftool"><exiftool>).
var FITS = Dialect{
	Name:       "fits",
	Resolution: exifResolution(fitsExifToolFields),
	DPI:        exifDPI(fitsExifToolFields),
	Duration:   exifDuration(fitsExifToolFields),
	Encoding:   exifEncoding(fitsExifToolFields),
}

func mediaInfoTracks(ext *mets.Node, types ...string) []*mets.Node {
	root := ext.Descendant("", "MediaInfo")
	if root == nil {
		// MediaInfo before 17.10 wrote an unqualified <Mediainfo><File> tree.
		root = ext.Descendant("", "Mediainfo")
	}
	if root == nil {
		return nil
	}
	tracks := root.Descendants("", "track")
	var out []*mets.Node
	for _, typ := range types {
		for _, t := range tracks {
			if v, _ := t.Attr("type"); v == typ {
				out = append(out, t)
			}
		}
	}
	return out
}

func ffprobeStreams(ext *mets.Node) []*mets.Node {
	root := ext.Descendant("", "ffprobe")
	if root == nil {
		return nil
	}
	return root.Path("", "streams").Children("", "stream")
}

// exifContainer returns the element whose children are ExifTool tags.
type exifContainer func(ext *mets.Node) *mets.Node

func exifToolFields(ext *mets.Node) *mets.Node {
	return ext.Descendant(NamespaceRDF, "RDF").Child(NamespaceRDF, "Description")
}

func fitsExifToolFields(ext *mets.Node) *mets.Node {
	root := ext.Descendant(NamespaceFITS, "fits")
	for _, tool := range root.Path(NamespaceFITS, "toolOutput").Children(NamespaceFITS, "tool") {
		if name, _ := tool.Attr("name"); strings.EqualFold(name, "exiftool") {
			return tool.Child("", "exiftool")
		}
	}
	return nil
}

// exifTag returns the first tag among names, ignoring the ExifTool group namespace.
func exifTag(fields *mets.Node, names ...string) (string, bool) {
	for _, name := range names {
		if v, ok := fields.ChildValue("", name); ok {
			return v, true
		}
	}
	return "", false
}

func exifResolution(container exifContainer) func(*mets.Node) (Resolution, bool) {
	return func(ext *mets.Node) (Resolution, bool) {
		fields := container(ext)
		if fields == nil {
			return Resolution{}, false
		}
		pairs := [][2]string{{"ImageWidth", "ImageHeight"}, {"ExifImageWidth", "ExifImageHeight"}}
		for _, p := range pairs {
			if w, ok := parseDimension(exifTag(fields, p[0])); ok {
				if h, ok := parseDimension(exifTag(fields, p[1])); ok {
					return Resolution{Width: w, Height: h}, true
				}
			}
		}
		return Resolution{}, false
	}
}

func exifDPI(container exifContainer) func(*mets.Node) (int, bool) {
	return func(ext *mets.Node) (int, bool) {
		fields := container(ext)
		if fields == nil {
			return 0, false
		}
		return parseDimension(exifTag(fields, "XResolution"))
	}
}

func exifDuration(container exifContainer) func(*mets.Node) (float64, bool) {
	return func(ext *mets.Node) (float64, bool) {
		fields := container(ext)
		if fields == nil {
			return 0, false
		}
		return parseDuration(exifTag(fields, "Duration", "MediaDuration", "TrackDuration"))
	}
}

func exifEncoding(container exifContainer) func(*mets.Node) (string, bool) {
	return func(ext *mets.Node) (string, bool) {
		fields := container(ext)
		if fields == nil {
			return "", false
		}
		return exifTag(fields, "MIMEEncoding")
	}
}

// parseDimension accepts positive integral numbers, including "300.0".
func parseDimension(v string, ok bool) (int, bool) {
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || f <= 0 || f > math.MaxInt32 {
		return 0, false
	}
	return int(math.Round(f)), true
}

// parseDuration accepts "12.5", "12.5 s", "1:02:03.5" and "02:03", each
// optionally followed by ExifTool's " (approx)".
func parseDuration(v string, ok bool) (float64, bool) {
	if !ok {
		return 0, false
	}
	v = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "(approx)"))
	v = strings.TrimSpace(strings.TrimSuffix(v, " s"))
	if v == "" {
		return 0, false
	}

	var seconds float64
	parts := strings.Split(v, ":")
	if len(parts) > 3 {
		return 0, false
	}
	for _, part := range parts {
		f, err := strconv.ParseFloat(part, 64)
		if err != nil || f < 0 {
			return 0, false
		}
		seconds = seconds*60 + f
	}
	if seconds <= 0 || math.IsInf(seconds, 0) || math.IsNaN(seconds) {
		return 0, false
	}
	return seconds, true
}
