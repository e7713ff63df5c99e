package catalog

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateKey derives a dotted lowercase key from a display name:
// "Seguro Tractora" becomes "seguro.tractora".
func GenerateKey(name string) string {
	key := strings.ToLower(foldAccents(strings.TrimSpace(name)))
	key = nonAlphanumeric.ReplaceAllString(key, ".")
	return strings.Trim(key, ".")
}

// GenerateCode derives an uppercase code from a display name:
// "Gas Natural" becomes "GAS_NATURAL".
func GenerateCode(name string) string {
	return strings.ToUpper(strings.ReplaceAll(GenerateKey(name), ".", "_"))
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
