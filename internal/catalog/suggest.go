package catalog

import (
	"regexp"
	"sort"
	"strings"
)

// MinSuggestScore is the similarity below which a SKU is not offered as a
// "did you mean" hint.
const MinSuggestScore = 0.5

var reSKUSep = regexp.MustCompile(`[^\p{L}\p{N}.]+`)

// skuIndex is a trigram inverted index over normalized SKUs.
type skuIndex struct {
	byNorm map[string][]string
	inv    map[string]map[string]struct{}
}

func normSKU(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(reSKUSep.ReplaceAllString(s, " ")), " ")
}

func buildSKUIndex(items []Item) *skuIndex {
	idx := &skuIndex{
		byNorm: make(map[string][]string),
		inv:    make(map[string]map[string]struct{}),
	}
	for _, it := range items {
		n := normSKU(it.SKU)
		if n == "" {
			continue
		}
		idx.byNorm[n] = append(idx.byNorm[n], it.SKU)
		for g := range trigramSet(n) {
			bucket, ok := idx.inv[g]
			if !ok {
				bucket = make(map[string]struct{})
				idx.inv[g] = bucket
			}
			bucket[n] = struct{}{}
		}
	}
	return idx
}

func trigramSet(s string) map[string]struct{} {
	m := make(map[string]struct{})
	if s == "" {
		return m
	}
	r := []rune(" " + s + " ")
	if len(r) < 3 {
		m[string(r)] = struct{}{}
		return m
	}
	for i := 0; i <= len(r)-3; i++ {
		m[string(r[i:i+3])] = struct{}{}
	}
	return m
}

func (idx *skuIndex) candidates(norm string) []string {
	seen := make(map[string]struct{})
	for g := range trigramSet(norm) {
		for n := range idx.inv[g] {
			seen[n] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Suggest returns up to n catalog SKUs that look like sku, best first.
// Used to enrich "unknown SKU" errors.
func (s *Store) Suggest(sku string, n int) []string {
	if s == nil || n <= 0 {
		return nil
	}
	norm := normSKU(sku)
	if norm == "" {
		return nil
	}

	type hit struct {
		sku   string
		score float64
	}
	var hits []hit
	for _, cand := range s.index.candidates(norm) {
		score := bestSimilarity(norm, cand)
		if score < MinSuggestScore {
			continue
		}
		for _, orig := range s.index.byNorm[cand] {
			hits = append(hits, hit{sku: orig, score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].sku < hits[j].sku
	})

	out := make([]string, 0, min(n, len(hits)))
	for i := 0; i < len(hits) && i < n; i++ {
		out = append(out, hits[i].sku)
	}
	return out
}

// similarity is normalized Damerau-Levenshtein similarity in [0..1].
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	m := max(len([]rune(a)), len([]rune(b)))
	return 1 - float64(damerauLevenshtein(a, b))/float64(m)
}

// bestSimilarity also tries token-sorted forms so "240 xlpe" matches
// "xlpe 240".
func bestSimilarity(a, b string) float64 {
	return max(similarity(a, b), similarity(tokenSort(a), tokenSort(b)))
}

func tokenSort(s string) string {
	t := strings.Fields(s)
	sort.Strings(t)
	return strings.Join(t, " ")
}

func damerauLevenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	al, bl := len(ra), len(rb)

	dp := make([][]int, al+1)
	for i := range dp {
		dp[i] = make([]int, bl+1)
		dp[i][0] = i
	}
	for j := 0; j <= bl; j++ {
		dp[0][j] = j
	}

	for i := 1; i <= al; i++ {
		for j := 1; j <= bl; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			dp[i][j] = min(dp[i-1][j]+1, dp[i][j-1]+1, dp[i-1][j-1]+cost)
			// adjacent transposition
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				dp[i][j] = min(dp[i][j], dp[i-2][j-2]+1)
			}
		}
	}
	return dp[al][bl]
}
