package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Key joins a prefix and parts into a colon-separated cache key.
func Key(prefix string, parts ...interface{}) string {
	b := strings.Builder{}
	b.WriteString(prefix)
	for _, p := range parts {
		fmt.Fprintf(&b, ":%v", p)
	}
	return b.String()
}

// HashKey shortens an arbitrarily long key to a fixed-size digest. Useful
// when the key embeds raw payloads.
func HashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:16])
}

// Pattern builds the glob used by DeleteByPattern for a prefix.
func Pattern(prefix string) string {
	return prefix + "*"
}
