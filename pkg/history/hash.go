package history

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/minio/blake2b-simd"
)

// HashReader computes the blake2b-256 hash of everything in r, hex-encoded.
func HashReader(r io.Reader) (string, error) {
	hasher := blake2b.New256()
	if _, err := io.Copy(hasher, r); err != nil {
		return "", fmt.Errorf("failed to hash content: %w", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
