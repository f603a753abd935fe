package premis

import (
	"encoding/xml"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/aipx/internal/mets"
	"github.com/vvka-141/aipx/pkg/aipx"
)

const objectV3 = `<xmlData xmlns:premis="http://www.loc.gov/premis/v3">
<premis:object>
  <premis:objectIdentifier>
    <premis:objectIdentifierType>UUID</premis:objectIdentifierType>
    <premis:objectIdentifierValue>9f6c2b4e-0000-4000-8000-000000000001</premis:objectIdentifierValue>
  </premis:objectIdentifier>
  <premis:objectIdentifier>
    <premis:objectIdentifierType>hdl</premis:objectIdentifierType>
    <premis:objectIdentifierValue>123/456</premis:objectIdentifierValue>
  </premis:objectIdentifier>
  <premis:objectCharacteristics>
    <premis:fixity>
      <premis:messageDigestAlgorithm>sha256</premis:messageDigestAlgorithm>
      <premis:messageDigest>ABCDEF</premis:messageDigest>
    </premis:fixity>
    <premis:fixity>
      <premis:messageDigestAlgorithm>md5</premis:messageDigestAlgorithm>
    </premis:fixity>
    <premis:size>2048</premis:size>
    <premis:format>
      <premis:formatRegistry>
        <premis:formatRegistryName>PRONOM</premis:formatRegistryName>
        <premis:formatRegistryKey>fmt/353</premis:formatRegistryKey>
      </premis:formatRegistry>
    </premis:format>
    <premis:creatingApplication>
      <premis:dateCreatedByApplication>2019-04-12T10:22:31Z</premis:dateCreatedByApplication>
    </premis:creatingApplication>
    <premis:objectCharacteristicsExtension><tool/></premis:objectCharacteristicsExtension>
  </premis:objectCharacteristics>
  <premis:originalName>%transferDirectory%objects/scan.tif</premis:originalName>
</premis:object>
</xmlData>`

const objectV2 = `<xmlData xmlns:premis="info:lc/xmlns/premis-v2">
<premis:object>
  <premis:objectCharacteristics>
    <premis:size>not a number</premis:size>
    <premis:creatingApplication>
      <premis:dateCreatedByApplication>unknown</premis:dateCreatedByApplication>
    </premis:creatingApplication>
  </premis:objectCharacteristics>
  <premis:originalName>notes.txt</premis:originalName>
</premis:object>
</xmlData>`

func payload(t *testing.T, s string) *mets.Node {
	t.Helper()
	var n mets.Node
	require.NoError(t, xml.Unmarshal([]byte(s), &n))
	return &n
}

func TestFindObject_V3(t *testing.T) {
	obj, ok := FindObject(payload(t, objectV3))
	require.True(t, ok)
	assert.Equal(t, V3, obj.Version)
	assert.Equal(t, "PREMIS v3", obj.Version.String())

	assert.Equal(t, []Identifier{
		{Type: "UUID", Value: "9f6c2b4e-0000-4000-8000-000000000001"},
		{Type: "hdl", Value: "123/456"},
	}, obj.Identifiers())

	name, ok := obj.OriginalName()
	assert.True(t, ok)
	assert.Equal(t, "%transferDirectory%objects/scan.tif", name)

	chars, ok := obj.Characteristics()
	require.True(t, ok)
	assert.Equal(t, aipx.Ptr(int64(2048)), chars.Size())
	assert.Equal(t, aipx.Ptr("fmt/353"), chars.FormatRegistryKey(PronomRegistry))
	assert.Equal(t, aipx.Ptr("fmt/353"), chars.FormatRegistryKey("pronom"))
	assert.Nil(t, chars.FormatRegistryKey("other"))
	assert.Equal(t, []aipx.Fixity{{Algorithm: "sha256", Digest: "abcdef"}}, chars.Fixity())
	assert.NotNil(t, chars.Extension())

	created := chars.CreatedAt()
	require.NotNil(t, created)
	assert.Equal(t, time.Date(2019, 4, 12, 0, 0, 0, 0, time.UTC), *created)
}

func TestFindObject_V2(t *testing.T) {
	obj, ok := FindObject(payload(t, objectV2))
	require.True(t, ok)
	assert.Equal(t, V2, obj.Version)
	assert.Equal(t, NamespaceV2, obj.Version.Namespace())
	assert.Empty(t, obj.Identifiers())

	chars, ok := obj.Characteristics()
	require.True(t, ok)
	assert.Nil(t, chars.Size())
	assert.Nil(t, chars.CreatedAt())
	assert.Nil(t, chars.Extension())
	assert.Empty(t, chars.Fixity())
}

func TestFindObject_Missing(t *testing.T) {
	_, ok := FindObject(payload(t, `<xmlData><object xmlns="urn:not-premis"/></xmlData>`))
	assert.False(t, ok)

	obj, ok := FindObject(payload(t, `<xmlData xmlns:premis="http://www.loc.gov/premis/v3"><premis:object/></xmlData>`))
	require.True(t, ok)
	_, ok = obj.Characteristics()
	assert.False(t, ok)
	_, ok = obj.OriginalName()
	assert.False(t, ok)
}
