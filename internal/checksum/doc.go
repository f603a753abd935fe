// Package checksum computes the message digests PREMIS records as fixity.
//
// # Algorithms
//
// PREMIS producers spell algorithm names in several ways ("SHA-256",
// "sha256", "SHA256"). ParseAlgorithm folds them onto one Algorithm value:
//
//   - md5
//   - sha1
//   - sha256
//   - sha512
//
// # Example Usage
//
//	calculator := checksum.New()
//	digest, err := calculator.Sum(file, checksum.SHA256)
//
// # Thread Safety
//
// Streaming is safe for concurrent use by multiple goroutines.
package checksum
