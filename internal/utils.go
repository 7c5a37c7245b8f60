package internal

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BtoX encodes bytes as upper-case hex, the form card identifiers and
// content hashes take on the card side.
func BtoX(bytes []byte) string {
	return strings.ToUpper(hex.EncodeToString(bytes))
}

func SHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return BtoX(sum[:])
}

// NormalizeArtworkID returns the catalog key for an artwork id.
// A Caser is stateful, so each call gets its own.
func NormalizeArtworkID(id string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(id))
}

func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsUnset reports whether a card field carries no meaningful value.
func IsUnset(s string) bool {
	return IsBlank(s) || strings.EqualFold(strings.TrimSpace(s), PlaceholderValue)
}
