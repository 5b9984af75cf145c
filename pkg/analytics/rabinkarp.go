package analytics

// Rabin-Karp parameters: the byte alphabet base and a deliberately small
// prime modulus that keeps every intermediate product inside a machine int.
const (
	rkBase    = 256
	rkModulus = 101
)

// Search reports every byte index at which pattern occurs in text, using
// Rabin-Karp rolling hashes. Each window hash is derived from the previous
// one in O(1) by dropping the leading byte's contribution and mixing in the
// trailing byte. A hash hit is verified byte-for-byte before it is reported,
// so collisions under the small modulus never produce false matches.
//
// An empty pattern, empty text, or a pattern longer than the text yields
// nil; there is nothing to search for.
func Search(text, pattern string) []int {
	n, m := len(text), len(pattern)
	if m == 0 || n == 0 || m > n {
		return nil
	}

	// h is the weight of the window's leading byte: base^(m-1) mod q.
	h := 1
	for i := 0; i < m-1; i++ {
		h = h * rkBase % rkModulus
	}

	patternHash, windowHash := 0, 0
	for i := 0; i < m; i++ {
		patternHash = (rkBase*patternHash + int(pattern[i])) % rkModulus
		windowHash = (rkBase*windowHash + int(text[i])) % rkModulus
	}

	var matches []int
	for i := 0; i+m <= n; i++ {
		if patternHash == windowHash && text[i:i+m] == pattern {
			matches = append(matches, i)
		}
		if i+m < n {
			windowHash = (rkBase*(windowHash-int(text[i])*h) + int(text[i+m])) % rkModulus
			if windowHash < 0 {
				windowHash += rkModulus
			}
		}
	}
	return matches
}
