// Package langhint detects the script and language of chat input and warns
// when it is not the language the replies are written for
package langhint

import "unicode"

// scriptTable is checked in order; Latin last so specific scripts win ties.
// lang is empty where one script serves many languages
var scriptTable = []struct {
	name  string
	table *unicode.RangeTable
	lang  string
}{
	{"Hangul", unicode.Hangul, "ko"},
	{"Hiragana", unicode.Hiragana, "ja"},
	{"Katakana", unicode.Katakana, "ja"},
	{"Han", unicode.Han, ""}, // zh, ja
	{"Arabic", unicode.Arabic, "ar"},
	{"Hebrew", unicode.Hebrew, "he"},
	{"Thai", unicode.Thai, "th"},
	{"Greek", unicode.Greek, "el"},
	{"Cyrillic", unicode.Cyrillic, ""}, // ru, uk, bg, sr, ...
	{"Georgian", unicode.Georgian, "ka"},
	{"Armenian", unicode.Armenian, "hy"},
	{"Devanagari", unicode.Devanagari, ""}, // hi, mr, ne, ...
	{"Latin", unicode.Latin, ""},
}

// scriptTally is the letter census of one text
type scriptTally struct {
	script  string
	lang    string
	letters int
}

// tallyScripts names the predominant script of s. lang is set only when the
// script pins a single language; any kana marks the text as Japanese
func tallyScripts(s string) scriptTally {
	counts := make([]int, len(scriptTable))
	var t scriptTally
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		t.letters++
		for i, sc := range scriptTable {
			if unicode.Is(sc.table, r) {
				counts[i]++
				break
			}
		}
	}

	best := -1
	for i, n := range counts {
		if n > 0 && (best < 0 || n > counts[best]) {
			best = i
		}
	}
	if best < 0 {
		return t
	}
	t.script = scriptTable[best].name
	t.lang = scriptTable[best].lang
	if counts[1] > 0 || counts[2] > 0 {
		t.lang = "ja"
	}
	return t
}
