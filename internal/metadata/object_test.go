package metadata

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/aipx/internal/testing/fixtures"
	"github.com/vvka-141/aipx/pkg/aipx"
)

const (
	exifImage = `<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"><rdf:Description>` +
		`<ImageWidth>2480</ImageWidth><ImageHeight>3508</ImageHeight><XResolution>300</XResolution>` +
		`</rdf:Description></rdf:RDF>`
	ffprobeVideo = `<ffprobe><streams><stream width="1280" height="720"/></streams><format duration="61.5"/></ffprobe>`
	mediaInfoAudio = `<MediaInfo xmlns="https://mediaarea.net/mediainfo"><media>` +
		`<track type="General"><Duration>184.2</Duration></track></media></MediaInfo>`
	exifText = `<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"><rdf:Description>` +
		`<MIMEEncoding>utf-8</MIMEEncoding></rdf:Description></rdf:RDF>`
)

func buildObjects(t *testing.T, objects ...fixtures.Object) (ObjectIndex, *fixtures.Package) {
	t.Helper()
	b := fixtures.NewPackageBuilder("objects")
	for _, o := range objects {
		b.Object(o)
	}
	pkg := b.Build()
	index, err := BuildObjectMetadata(parse(t, pkg.Manifest))
	require.NoError(t, err)
	return index, pkg
}

func TestBuildObjectMetadata_Image(t *testing.T) {
	index, pkg := buildObjects(t, fixtures.Object{
		Label:     "page1.tif",
		PUID:      "fmt/353",
		Size:      1048576,
		Created:   "2023-11-05T08:00:00+01:00",
		Extension: exifImage,
		Fixity:    []fixtures.Digest{{Algorithm: "sha256", Value: "ABCDEF"}},
	})

	obj := index[pkg.AmdID("page1.tif")]
	assert.Equal(t, pkg.ObjectID("page1.tif"), obj.ID)
	assert.Equal(t, "page1.tif", obj.Name)
	assert.Equal(t, aipx.ItemTypeImage, obj.Type)
	require.NotNil(t, obj.Size)
	assert.Equal(t, int64(1048576), *obj.Size)
	require.NotNil(t, obj.CreatedAt)
	assert.Equal(t, time.Date(2023, 11, 5, 0, 0, 0, 0, time.UTC), *obj.CreatedAt)
	require.NotNil(t, obj.PUID)
	assert.Equal(t, "fmt/353", *obj.PUID)
	assert.Equal(t, aipx.Ptr(2480), obj.Width)
	assert.Equal(t, aipx.Ptr(3508), obj.Height)
	assert.Equal(t, aipx.Ptr(300), obj.Resolution)
	assert.Nil(t, obj.Duration)
	assert.Equal(t, []aipx.Fixity{{Algorithm: "sha256", Digest: "abcdef"}}, obj.Fixity)
}

func TestBuildObjectMetadata_Video(t *testing.T) {
	index, pkg := buildObjects(t, fixtures.Object{Label: "clip.mp4", PUID: "fmt/199", Extension: ffprobeVideo})

	obj := index[pkg.AmdID("clip.mp4")]
	assert.Equal(t, aipx.ItemTypeVideo, obj.Type)
	assert.Equal(t, aipx.Ptr(1280), obj.Width)
	assert.Equal(t, aipx.Ptr(720), obj.Height)
	assert.Nil(t, obj.Resolution, "dpi is only probed for images")
	require.NotNil(t, obj.Duration)
	assert.InDelta(t, 61.5, *obj.Duration, 0.001)
}

func TestBuildObjectMetadata_Audio(t *testing.T) {
	index, pkg := buildObjects(t, fixtures.Object{Label: "tape.wav", PUID: "fmt/141", Extension: mediaInfoAudio})

	obj := index[pkg.AmdID("tape.wav")]
	assert.Equal(t, aipx.ItemTypeAudio, obj.Type)
	assert.Nil(t, obj.Width)
	assert.Nil(t, obj.Height)
	require.NotNil(t, obj.Duration)
	assert.InDelta(t, 184.2, *obj.Duration, 0.001)
}

func TestBuildObjectMetadata_MediaWithoutTechnicalValues(t *testing.T) {
	index, pkg := buildObjects(t, fixtures.Object{Label: "odd.tif", PUID: "fmt/353", Extension: `<unknownTool/>`})

	obj := index[pkg.AmdID("odd.tif")]
	assert.Equal(t, aipx.ItemTypeImage, obj.Type)
	assert.Nil(t, obj.Width)
	assert.Nil(t, obj.Resolution)
}

func TestBuildObjectMetadata_PlainFile(t *testing.T) {
	index, pkg := buildObjects(t,
		fixtures.Object{Label: "notes.txt", PUID: "x-fmt/111", Extension: exifText},
		fixtures.Object{Label: "unknown.bin"},
	)

	notes := index[pkg.AmdID("notes.txt")]
	assert.Equal(t, aipx.ItemTypeFile, notes.Type)
	require.NotNil(t, notes.Encoding)
	assert.Equal(t, "UTF-8", *notes.Encoding)
	assert.Nil(t, notes.Width)

	unknown := index[pkg.AmdID("unknown.bin")]
	assert.Equal(t, aipx.ItemTypeFile, unknown.Type)
	assert.Nil(t, unknown.PUID)
	assert.Nil(t, unknown.Size)
	assert.Nil(t, unknown.Encoding)
}

func TestBuildObjectMetadata_UnparsableDate(t *testing.T) {
	index, pkg := buildObjects(t, fixtures.Object{Label: "a.txt", Created: "sometime in 1999"})
	assert.Nil(t, index[pkg.AmdID("a.txt")].CreatedAt)
}

func TestBuildObjectMetadata_PremisV2(t *testing.T) {
	pkg := fixtures.NewPackageBuilder("old").PremisV2().
		Object(fixtures.Object{Label: "page.jpg", PUID: "fmt/43", Extension: exifImage}).
		Build()

	index, err := BuildObjectMetadata(parse(t, pkg.Manifest))
	require.NoError(t, err)
	obj := index[pkg.AmdID("page.jpg")]
	assert.Equal(t, aipx.ItemTypeImage, obj.Type)
	assert.Equal(t, aipx.Ptr(2480), obj.Width)
}

func TestBuildObjectMetadata_Failures(t *testing.T) {
	tests := []struct {
		name    string
		object  fixtures.Object
		wantErr error
	}{
		{"missing characteristics", fixtures.Object{Label: "a.txt", OmitCharacteristics: true}, aipx.ErrMissingObjectCharacteristics},
		{"missing original name", fixtures.Object{Label: "a.txt", OmitOriginalName: true}, aipx.ErrMissingOriginalName},
		{"missing identifier", fixtures.Object{Label: "a.txt", OmitIdentifiers: true}, aipx.ErrMissingIdentifier},
		{"image without extension", fixtures.Object{Label: "a.tif", PUID: "fmt/353"}, aipx.ErrMissingTechnicalExtension},
		{"video without extension", fixtures.Object{Label: "a.mov", PUID: "x-fmt/384"}, aipx.ErrMissingTechnicalExtension},
		{"audio without extension", fixtures.Object{Label: "a.mp3", PUID: "fmt/134"}, aipx.ErrMissingTechnicalExtension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg := fixtures.NewPackageBuilder("broken").Object(tt.object).Build()

			_, err := BuildObjectMetadata(parse(t, pkg.Manifest))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Contains(t, err.Error(), pkg.AmdID(tt.object.Label))
		})
	}
}

func TestBuildObjectMetadata_MissingObjectDescription(t *testing.T) {
	manifest := `<mets:mets xmlns:mets="http://www.loc.gov/METS/">` +
		`<mets:amdSec ID="amdSec_9"><mets:rightsMD ID="rightsMD_1"/></mets:amdSec></mets:mets>`

	_, err := BuildObjectMetadata(parse(t, manifest))
	require.Error(t, err)
	assert.True(t, errors.Is(err, aipx.ErrMissingObjectDescription))
	assert.EqualError(t, err, "section amdSec_9: missing PREMIS object")
}
