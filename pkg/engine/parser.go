package engine

import (
	"regexp"
	"strings"

	"github.com/fablesmith/scene-engine/pkg/state"
	"github.com/fablesmith/scene-engine/pkg/world"
)

// Parser resolves raw player input into an Intent. A nil Intent is not
// an error: it signals the caller to use a fallback path (an AI parser,
// or a scripted "not understood" response).
type Parser interface {
	Parse(raw string, gs *state.GameState, w *world.World) Intent
}

// RuleParser is the deterministic phase-one parser. It recognizes
// movement and browse commands from an ordered pattern table; everything
// else falls through. All matches carry confidence 1.0, signaling
// certainty to consumers that blend rule-based and probabilistic parsers.
type RuleParser struct{}

var _ Parser = (*RuleParser)(nil)

func NewRuleParser() *RuleParser {
	return &RuleParser{}
}

var directionAliases = map[string]string{
	"north": "north", "n": "north",
	"south": "south", "s": "south",
	"east": "east", "e": "east",
	"west": "west", "w": "west",
	"northeast": "northeast", "ne": "northeast",
	"northwest": "northwest", "nw": "northwest",
	"southeast": "southeast", "se": "southeast",
	"southwest": "southwest", "sw": "southwest",
	"up": "up", "u": "up",
	"down": "down", "d": "down",
}

// DirectionBack is resolved to a concrete exit by the movement
// validator, not the parser.
const DirectionBack = "back"

var (
	// Anchored so that "look at X" does not match browse; that form is
	// reserved for the examine path and must fall through.
	browsePattern = regexp.MustCompile(`^(look( around)?|l|survey|scan)$`)

	movePattern = regexp.MustCompile(`^(go )?([a-z]+)$`)
	backPattern = regexp.MustCompile(`^(go )?(back|leave|exit)$`)
)

// Parse maps raw text to an Intent, or nil if unrecognized. It is a
// pure function of its inputs and never mutates state.
func (p *RuleParser) Parse(raw string, gs *state.GameState, w *world.World) Intent {
	input := strings.ToLower(strings.TrimSpace(raw))
	if input == "" {
		return nil
	}

	// Browse before movement: "l" would otherwise collide with a
	// one-letter direction alias.
	if browsePattern.MatchString(input) {
		return ActionIntent{
			Action:     ActionBrowse,
			RawInput:   raw,
			Verb:       "look",
			Confidence: 1.0,
		}
	}

	if m := backPattern.FindStringSubmatch(input); m != nil {
		return ActionIntent{
			Action:     ActionMove,
			RawInput:   raw,
			Verb:       "go",
			TargetID:   DirectionBack,
			Confidence: 1.0,
		}
	}

	if m := movePattern.FindStringSubmatch(input); m != nil {
		if dir, ok := directionAliases[m[2]]; ok {
			return ActionIntent{
				Action:     ActionMove,
				RawInput:   raw,
				Verb:       "go",
				TargetID:   dir,
				Confidence: 1.0,
			}
		}
	}

	return nil
}
