package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// HashContent returns the hex SHA-256 of fetched page bytes, used to detect
// unchanged content on forced refresh.
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// SyntheticKey builds the cache key for non-web sources, e.g.
// "upload://3fa85f64e1b2c3d4". Identical content dedupes to one cache row.
func SyntheticKey(kind string, content []byte) string {
	sum := sha256.Sum256(content)
	return fmt.Sprintf("%s://%s", kind, hex.EncodeToString(sum[:])[:16])
}
