package playlist

import (
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultSimilarity is the Jaro-Winkler score above which two playlist
// names are reported as near-duplicates.
const DefaultSimilarity = 0.9

// SimilarNames returns the names in existing that look like name without
// being equal to it. Comparison ignores case, accents and surrounding space.
func SimilarNames(name string, existing []string, threshold float64) []string {
	target := foldName(name)
	if target == "" {
		return nil
	}

	var similar []string
	for _, candidate := range existing {
		if candidate == name {
			continue
		}
		folded := foldName(candidate)
		if folded == "" {
			continue
		}
		if folded == target || float64(edlib.JaroWinklerSimilarity(target, folded)) >= threshold {
			similar = append(similar, candidate)
		}
	}
	return similar
}

func foldName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}
	return strings.Join(strings.Fields(strings.ToLower(result)), " ")
}
