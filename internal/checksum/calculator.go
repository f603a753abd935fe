package checksum

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"strings"
)

// ErrUnsupportedAlgorithm is returned for digest algorithms this package cannot compute.
var ErrUnsupportedAlgorithm = errors.New("unsupported digest algorithm")

// Algorithm is a canonical digest algorithm name.
type Algorithm string

const (
	MD5    Algorithm = "md5"
	SHA1   Algorithm = "sha1"
	SHA256 Algorithm = "sha256"
	SHA512 Algorithm = "sha512"
)

// ParseAlgorithm folds a PREMIS messageDigestAlgorithm onto an Algorithm.
// Case, dashes and surrounding spaces are ignored.
func ParseAlgorithm(name string) (Algorithm, error) {
	folded := strings.ToLower(strings.TrimSpace(name))
	folded = strings.ReplaceAll(folded, "-", "")
	switch Algorithm(folded) {
	case MD5, SHA1, SHA256, SHA512:
		return Algorithm(folded), nil
	}
	return "", fmt.Errorf("%q: %w", name, ErrUnsupportedAlgorithm)
}

func (a Algorithm) newHash() hash.Hash {
	switch a {
	case MD5:
		return md5.New()
	case SHA1:
		return sha1.New()
	case SHA512:
		return sha512.New()
	default:
		return sha256.New()
	}
}

// Calculator computes digests of binaries.
type Calculator interface {
	// CalculateRaw computes the SHA-256 of content.
	CalculateRaw(content []byte) string

	// Sum streams r through the given algorithm and returns the lowercase hex digest.
	Sum(r io.Reader, algorithm Algorithm) (string, error)
}

// Streaming is the default Calculator. It is a zero-size type and is safe
// for concurrent use.
type Streaming struct{}

// New creates a streaming calculator.
func New() Streaming {
	return Streaming{}
}

// CalculateRaw computes the SHA-256 of content.
func (Streaming) CalculateRaw(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Sum streams r through algorithm.
func (Streaming) Sum(r io.Reader, algorithm Algorithm) (string, error) {
	if _, err := ParseAlgorithm(string(algorithm)); err != nil {
		return "", err
	}
	h := algorithm.newHash()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("reading content: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// NormalizeDigest lowercases a recorded digest and strips spaces so it
// compares equal to Sum output.
func NormalizeDigest(digest string) string {
	return strings.ToLower(strings.Join(strings.Fields(digest), ""))
}
