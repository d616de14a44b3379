package textfilter

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Replacements maps strong language to tamer alternatives for worlds
// rated for general audiences. LLM narration occasionally drifts off
// rating even with a well-behaved prompt.
var replacements = map[string]string{
	"fuck":       "fudge",
	"shit":       "shoot",
	"damn":       "dang",
	"goddamn":    "gosh-dang",
	"hell":       "heck",
	"ass":        "butt",
	"asshole":    "jerk",
	"bitch":      "jerk",
	"bastard":    "scoundrel",
	"crap":       "crud",
	"piss":       "ticked",
	"bullshit":   "baloney",
	"dumbass":    "dummy",
	"jackass":    "fool",
	"dickhead":   "jerk",
	"prick":      "jerk",
	"douchebag":  "jerk",
	"motherfucker": "mother-trucker",
}

// Filter replaces strong language in narrator output with
// rating-appropriate alternatives.
type Filter struct {
	patterns map[string]*regexp.Regexp
}

func New() *Filter {
	f := &Filter{patterns: make(map[string]*regexp.Regexp, len(replacements))}
	for word := range replacements {
		f.patterns[word] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	}
	return f
}

// Apply returns the text with every matched word replaced, preserving
// the case pattern of the original.
func (f *Filter) Apply(text string) string {
	result := text
	for word, re := range f.patterns {
		replacement := replacements[word]
		result = re.ReplaceAllStringFunc(result, func(match string) string {
			return matchCase(match, replacement)
		})
	}
	return result
}

// Contains reports whether the text contains any filterable language.
func (f *Filter) Contains(text string) bool {
	for _, re := range f.patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// AppliesTo reports whether a world rating calls for filtering.
func AppliesTo(rating string) bool {
	switch strings.ToUpper(strings.TrimSpace(rating)) {
	case "G", "PG", "PG13", "PG-13":
		return true
	default:
		return false
	}
}

var titleCaser = cases.Title(language.English)

// matchCase applies the case pattern of the original word to the
// replacement: all-caps, all-lower, title case, or per-character.
func matchCase(original, replacement string) string {
	switch {
	case original == strings.ToUpper(original):
		return strings.ToUpper(replacement)
	case original == strings.ToLower(original):
		return strings.ToLower(replacement)
	case original == titleCaser.String(strings.ToLower(original)):
		return titleCaser.String(replacement)
	}

	origRunes := []rune(original)
	out := make([]rune, 0, len(replacement))
	for i, r := range []rune(replacement) {
		if i < len(origRunes) && unicode.IsUpper(origRunes[i]) {
			out = append(out, unicode.ToUpper(r))
		} else {
			out = append(out, unicode.ToLower(r))
		}
	}
	return string(out)
}
