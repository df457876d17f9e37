package fileio

import (
	"regexp"
	"strings"
)

var reNonWord = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// NormHeader lowercases a header and collapses punctuation to single spaces,
// so "Unit Price (per m)" and "unit_price_per_m" compare equal.
func NormHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("\u00A0", " ", "\u202F", " ").Replace(s)
	return strings.Join(strings.Fields(reNonWord.ReplaceAllString(s, " ")), " ")
}

// Resolve finds the real header for want. Alternatives are separated by
// "|" ("product_sku|sku"). Exact matches win, then normalized matches.
// A header that merely contains an alternative ("sheath_material" for
// "material") is not a match.
func (t *Table) Resolve(want string) (string, bool) {
	if t == nil || strings.TrimSpace(want) == "" {
		return "", false
	}
	alts := strings.Split(want, "|")
	for i := range alts {
		alts[i] = strings.TrimSpace(alts[i])
	}

	for _, a := range alts {
		for _, h := range t.Headers {
			if h == a {
				return h, true
			}
		}
	}

	norm := make([]string, len(alts))
	for i, a := range alts {
		norm[i] = NormHeader(a)
	}
	for _, n := range norm {
		for _, h := range t.Headers {
			if NormHeader(h) == n {
				return h, true
			}
		}
	}

	return "", false
}
