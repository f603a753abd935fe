// Package formats maps PRONOM format keys to item types and access-copy
// file extensions to PRONOM keys.
package formats

import (
	"path/filepath"
	"strings"

	"github.com/vvka-141/aipx/pkg/aipx"
)

var typeByPUID = map[string]aipx.ItemType{
	// Images
	"fmt/3":     aipx.ItemTypeImage, // GIF 87a
	"fmt/4":     aipx.ItemTypeImage, // GIF 89a
	"fmt/11":    aipx.ItemTypeImage, // PNG 1.0
	"fmt/12":    aipx.ItemTypeImage, // PNG 1.1
	"fmt/13":    aipx.ItemTypeImage, // PNG 1.2
	"fmt/41":    aipx.ItemTypeImage, // Raw JPEG stream
	"fmt/42":    aipx.ItemTypeImage, // JFIF 1.00
	"fmt/43":    aipx.ItemTypeImage, // JFIF 1.01
	"fmt/44":    aipx.ItemTypeImage, // JFIF 1.02
	"fmt/114":   aipx.ItemTypeImage, // BMP 1.0
	"fmt/116":   aipx.ItemTypeImage, // BMP 3.0
	"fmt/353":   aipx.ItemTypeImage, // TIFF
	"fmt/645":   aipx.ItemTypeImage, // Exif JPEG 2.2
	"x-fmt/387": aipx.ItemTypeImage, // TIFF/EP
	"x-fmt/390": aipx.ItemTypeImage, // Exif JPEG 2.1
	"x-fmt/391": aipx.ItemTypeImage, // Exif JPEG 2.2
	"x-fmt/392": aipx.ItemTypeImage, // JPEG 2000 JP2
	"x-fmt/398": aipx.ItemTypeImage, // Exif JPEG 2.0
	"fmt/1507":  aipx.ItemTypeImage, // Exif TIFF 2.3
	"fmt/1917":  aipx.ItemTypeImage, // WebP lossy

	// Video
	"fmt/5":     aipx.ItemTypeVideo, // AVI
	"fmt/199":   aipx.ItemTypeVideo, // MPEG-4 media
	"fmt/569":   aipx.ItemTypeVideo, // Matroska
	"fmt/573":   aipx.ItemTypeVideo, // WebM
	"fmt/585":   aipx.ItemTypeVideo, // MPEG-2 transport stream
	"fmt/640":   aipx.ItemTypeVideo, // MPEG-2 program stream
	"fmt/649":   aipx.ItemTypeVideo, // MPEG-1 program stream
	"fmt/797":   aipx.ItemTypeVideo, // QuickTime (ISO base media)
	"x-fmt/384": aipx.ItemTypeVideo, // QuickTime
	"x-fmt/385": aipx.ItemTypeVideo, // MPEG-1 video
	"x-fmt/386": aipx.ItemTypeVideo, // MPEG-2 video

	// Audio
	"fmt/1":     aipx.ItemTypeAudio, // WAVE PCM 0
	"fmt/2":     aipx.ItemTypeAudio, // WAVE PCM 1
	"fmt/6":     aipx.ItemTypeAudio, // WAVE PCM 2
	"fmt/134":   aipx.ItemTypeAudio, // MPEG 1/2 audio layer 3
	"fmt/141":   aipx.ItemTypeAudio, // WAVE PCM
	"fmt/142":   aipx.ItemTypeAudio, // WAVE non-PCM
	"fmt/203":   aipx.ItemTypeAudio, // Ogg Vorbis
	"fmt/279":   aipx.ItemTypeAudio, // FLAC
	"fmt/414":   aipx.ItemTypeAudio, // AIFF
	"fmt/527":   aipx.ItemTypeAudio, // RF64
	"fmt/703":   aipx.ItemTypeAudio, // BWF 1
	"fmt/704":   aipx.ItemTypeAudio, // BWF 2
	"fmt/946":   aipx.ItemTypeAudio, // Ogg Opus
	"x-fmt/136": aipx.ItemTypeAudio, // AIFF-C

	// PDF
	"fmt/14":   aipx.ItemTypePDF, // PDF 1.0
	"fmt/15":   aipx.ItemTypePDF, // PDF 1.1
	"fmt/16":   aipx.ItemTypePDF, // PDF 1.2
	"fmt/17":   aipx.ItemTypePDF, // PDF 1.3
	"fmt/18":   aipx.ItemTypePDF, // PDF 1.4
	"fmt/19":   aipx.ItemTypePDF, // PDF 1.5
	"fmt/20":   aipx.ItemTypePDF, // PDF 1.6
	"fmt/95":   aipx.ItemTypePDF, // PDF/A-1a
	"fmt/276":  aipx.ItemTypePDF, // PDF 1.7
	"fmt/354":  aipx.ItemTypePDF, // PDF/A-1b
	"fmt/476":  aipx.ItemTypePDF, // PDF/A-2a
	"fmt/477":  aipx.ItemTypePDF, // PDF/A-2b
	"fmt/478":  aipx.ItemTypePDF, // PDF/A-2u
	"fmt/479":  aipx.ItemTypePDF, // PDF/A-3a
	"fmt/480":  aipx.ItemTypePDF, // PDF/A-3b
	"fmt/1129": aipx.ItemTypePDF, // PDF 2.0
}

var puidByExtension = map[string]string{
	".gif":  "fmt/4",
	".png":  "fmt/13",
	".jpg":  "fmt/43",
	".jpeg": "fmt/43",
	".tif":  "fmt/353",
	".tiff": "fmt/353",
	".jp2":  "x-fmt/392",
	".webp": "fmt/1917",
	".mp4":  "fmt/199",
	".m4v":  "fmt/199",
	".webm": "fmt/573",
	".mkv":  "fmt/569",
	".mov":  "x-fmt/384",
	".avi":  "fmt/5",
	".mp3":  "fmt/134",
	".wav":  "fmt/141",
	".ogg":  "fmt/203",
	".oga":  "fmt/203",
	".flac": "fmt/279",
	".opus": "fmt/946",
	".pdf":  "fmt/276",
	".txt":  "x-fmt/111",
	".xml":  "fmt/101",
	".html": "fmt/471",
	".htm":  "fmt/471",
	".json": "fmt/817",
	".csv":  "x-fmt/18",
}

// TypeForPUID returns the item type of a PRONOM key; nil or unknown keys
// yield the generic file type.
func TypeForPUID(puid *string) aipx.ItemType {
	if puid == nil {
		return aipx.ItemTypeFile
	}
	if t, ok := typeByPUID[strings.TrimSpace(*puid)]; ok {
		return t
	}
	return aipx.ItemTypeFile
}

// PUIDForFile infers the PRONOM key of a derived binary from its file extension.
func PUIDForFile(name string) *string {
	if puid, ok := puidByExtension[strings.ToLower(filepath.Ext(name))]; ok {
		return &puid
	}
	return nil
}
