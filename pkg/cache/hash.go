package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey derives a namespaced cache key, prefix:sha256(parts). The parts
// are JSON-encoded so struct field values, not memory layout, determine the
// key. Key opt structs hold only plain values, so encoding cannot fail.
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	return fmt.Sprintf("%s:%s", prefix, Hash(data))
}

// Hash returns the hex SHA-256 digest of data. Layout bytes hash to the
// layout hash that scopes artifact keys.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
