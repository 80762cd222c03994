package transcript

import (
	"encoding/hex"

	"lukechampine.com/blake3"
)

// Digest is the hex BLAKE3-256 of a transcript text. It is stable for a
// cached entry and doubles as the HTTP entity tag.
func Digest(text string) string {
	sum := blake3.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
