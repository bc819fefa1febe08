package langhint

import (
	"maps"
	"slices"
	"strings"
	"unicode"

	"sentibot/internal/core/normalize"
	perr "sentibot/internal/platform/errors"
)

// ErrUndetectable means the text carried too little evidence to name a language
var ErrUndetectable = perr.New(perr.ErrorCodeDetection, "language undetectable")

// Detector names the language of a piece of text
type Detector interface {
	Detect(text string) (string, error)
}

const (
	// minDetectLetters is the floor below which Detect gives up
	minDetectLetters = 3
	// minEvidence is the smallest Latin profile score that names a language
	minEvidence = 2
	// englishMargin is how far another Latin language must lead en
	englishMargin = 2
)

type profile struct {
	stop  map[string]struct{}
	marks string
}

func newProfile(words, marks string) profile {
	p := profile{stop: map[string]struct{}{}, marks: marks}
	for _, w := range strings.Fields(words) {
		p.stop[w] = struct{}{}
	}
	return p
}

// latinProfiles are stop words and diacritics that only a handful of
// languages share; overlap between profiles resolves as a tie
var latinProfiles = map[string]profile{
	"en": newProfile("the is are was were i you he she it we they this that these those and of to my your "+
		"have has had with for what how am do does don't not be been will would can could there here "+
		"me him her them our their very just about because so if or", ""),
	"es": newProfile("el la los las es son soy está estoy yo tú usted él ella nosotros ellos este esta eso "+
		"y de del que por para con una uno muy pero como qué mi tu su hola gracias también", "ñáéíóú¿¡"),
	"fr": newProfile("le la les est sont je tu il elle nous vous ils elles ce cette et de du des que "+
		"pour avec une un très mais comme mon ton son bonjour merci aussi suis pas", "çàâêèëîïôûù"),
	"de": newProfile("der die das ist sind ich du er sie wir ihr es und von zu mit für ein eine "+
		"sehr aber wie mein dein nicht auch bin hallo danke", "äöüß"),
	"it": newProfile("il lo gli le è sono io tu lui lei noi voi loro questo questa e di del che per "+
		"con una uno molto ma come mio tuo ciao grazie anche non", "àèìòù"),
	"pt": newProfile("o os as é são eu você ele ela nós eles este esta isso e de do da que por para "+
		"com uma um muito mas como meu seu olá obrigado também não", "ãõçáâêô"),
	"nl": newProfile("de het een is zijn ik jij je hij zij wij jullie dit dat en van te met voor "+
		"heel maar hoe mijn niet ook ben hallo dank", "ĳ"),
}

// Languages lists every code the built-in Identifier can return, sorted
func Languages() []string {
	set := map[string]struct{}{}
	for lang := range latinProfiles {
		set[lang] = struct{}{}
	}
	for _, sc := range scriptTable {
		if sc.lang != "" {
			set[sc.lang] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(set))
}

// Identifier is the built-in Detector: script first, then Latin stop words
type Identifier struct {
	profiles map[string]profile
}

// NewIdentifier builds an Identifier over the built-in profiles
func NewIdentifier() *Identifier {
	return &Identifier{profiles: latinProfiles}
}

// Detect returns a BCP-47 primary language subtag or ErrUndetectable
func (id *Identifier) Detect(text string) (string, error) {
	tally := tallyScripts(text)
	if tally.letters < minDetectLetters {
		return "", ErrUndetectable
	}
	if tally.script != "Latin" {
		if tally.lang == "" {
			return "", ErrUndetectable
		}
		return tally.lang, nil
	}

	lower := strings.ToLower(text)
	scores := make(map[string]int, len(id.profiles))
	for _, w := range normalize.Words(lower) {
		for lang, p := range id.profiles {
			if _, ok := p.stop[w]; ok {
				scores[lang]++
			}
		}
	}
	for _, r := range lower {
		if r < unicode.MaxASCII {
			continue
		}
		for lang, p := range id.profiles {
			if strings.ContainsRune(p.marks, r) {
				scores[lang]++
			}
		}
	}

	best, bestN, tie := "", 0, false
	for lang, n := range scores {
		switch {
		case n > bestN:
			best, bestN, tie = lang, n, false
		case n == bestN:
			tie = true
		}
	}
	if bestN < minEvidence || tie {
		return "", ErrUndetectable
	}
	if best != "en" && bestN-scores["en"] < englishMargin {
		return "", ErrUndetectable
	}
	return best, nil
}
