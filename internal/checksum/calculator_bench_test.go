package checksum

import (
	"bytes"
	"testing"
)

func BenchmarkSum(b *testing.B) {
	calculator := New()
	content := bytes.Repeat([]byte("0123456789abcdef"), 64*1024)

	for _, algorithm := range []Algorithm{MD5, SHA1, SHA256, SHA512} {
		b.Run(string(algorithm), func(b *testing.B) {
			b.SetBytes(int64(len(content)))
			for i := 0; i < b.N; i++ {
				if _, err := calculator.Sum(bytes.NewReader(content), algorithm); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
