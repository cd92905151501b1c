package dedup

// trigramPadding is prepended and appended before windowing so short
// strings still produce trigrams anchored at their edges.
const trigramPadding = "  "

// trigrams extracts the set of 3-character windows from a padded string.
func trigrams(s string) map[string]struct{} {
	padded := []rune(trigramPadding + s + trigramPadding)
	set := make(map[string]struct{}, len(padded))
	for i := 0; i+3 <= len(padded); i++ {
		set[string(padded[i:i+3])] = struct{}{}
	}
	return set
}

// Similarity computes the trigram Dice coefficient of two strings in
// [0, 1]. Two empty strings are identical (1.0); exactly one empty string
// matches nothing (0.0).
func Similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	setA := trigrams(a)
	setB := trigrams(b)

	var intersection int
	for g := range setA {
		if _, ok := setB[g]; ok {
			intersection++
		}
	}

	return 2.0 * float64(intersection) / float64(len(setA)+len(setB))
}
