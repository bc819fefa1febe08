package normalize

import "unicode"

// SquashRuns caps repeated characters at max, so "sooooo goooood" -> "soo good" with max 2
// Used by lexicon lookups for elongated words
func SquashRuns(s string, max int) string {
	if s == "" || max < 1 {
		return s
	}
	out := make([]rune, 0, len(s))
	var prev rune
	count := 0
	for _, r := range s {
		if r == prev {
			count++
			if count <= max {
				out = append(out, r)
			}
			continue
		}
		prev = r
		count = 1
		out = append(out, r)
	}
	return string(out)
}

// Words splits normalized text into lexical tokens
// Letters, digits and inner apostrophes/hyphens form words; '!' is kept as its own token
func Words(s string) []string {
	var (
		out []string
		cur []rune
	)
	flush := func() {
		if len(cur) == 0 {
			return
		}
		// trailing joiners are not part of the word
		for len(cur) > 0 && isJoiner(cur[len(cur)-1]) {
			cur = cur[:len(cur)-1]
		}
		if len(cur) > 0 {
			out = append(out, string(cur))
		}
		cur = cur[:0]
	}
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r):
			cur = append(cur, r)
		case isJoiner(r) && len(cur) > 0:
			cur = append(cur, r)
		case r == '!':
			flush()
			out = append(out, "!")
		default:
			flush()
		}
	}
	flush()
	return out
}

func isJoiner(r rune) bool { return r == '\'' || r == '’' || r == '-' }
