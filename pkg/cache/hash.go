package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON hashes the JSON encoding of v. Values that cannot be encoded
// hash as the empty input.
func HashJSON(v any) string {
	data, _ := json.Marshal(v)
	return Hash(data)
}

// hashKey builds "kind:hash(parts)". Struct fields encode in declaration
// order, so equal options give equal keys.
func hashKey(kind string, parts ...any) string {
	return kind + ":" + HashJSON(parts)
}
