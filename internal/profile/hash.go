package profile

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// NormalizeTag lowercases and trims a section tag. All tag storage and
// lookups go through this, so "DEMO" and "demo" name the same section.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// QuestionHash fingerprints a question's identifying fields. The hash is the
// question's natural key: identical content under the same section resolves
// to one row no matter how often it is submitted.
func QuestionHash(sectionID string, number int, text string) string {
	canonical := fmt.Sprintf("%s\x00%d\x00%s", sectionID, number, strings.TrimSpace(text))
	sum := blake2b.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}
