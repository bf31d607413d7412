package radar

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// fieldSep keeps adjacent identity fields from running together, so that
// ("ab","c") and ("a","bc") hash differently.
const fieldSep = 0x1f

// Fingerprint derives the stable deduplication id for a signal from its
// identity fields. It is a pure function: the same inputs always reproduce
// the same id, and ids never depend on arrival order or run state.
func Fingerprint(region, organization, title, link string) string {
	h := sha256.New()
	for _, part := range []string{region, organization, title, link} {
		h.Write([]byte(part))
		h.Write([]byte{fieldSep})
	}
	return hex.EncodeToString(h.Sum(nil))
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases text and collapses non-alphanumeric runs to hyphens.
// Used for archive object paths.
func Slugify(text string) string {
	t := slugRe.ReplaceAllString(strings.ToLower(text), "-")
	return strings.Trim(t, "-")
}
