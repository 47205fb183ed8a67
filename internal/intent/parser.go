// Package intent turns raw player text into a verb/target pair and resolves
// imprecise target phrasing against scene-local keys. Parsing is pure and
// total: every input, including empty or garbage text, yields exactly one
// parsed result and never an error.
package intent

import (
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Kind is the closed set of recognised intents.
type Kind int

const (
	Unknown Kind = iota
	Numeric      // a bare integer: menu/timed selection
	Help
	Look
	Go
	Talk
	Examine
	Take
	Inventory
	Status
	Save
	Quests
	Quit
	Party
	Version
	Virtues
	Rebuild
)

// Parsed is the result of parsing one input line.
type Parsed struct {
	Kind   Kind
	Choice int    // 1-based selection, set when Kind == Numeric
	Target string // stop-word-filtered remainder, may be empty
	Verb   string // raw first token, kept for diagnostics on Unknown
	// Suggestion is the nearest known verb when Kind == Unknown and a
	// close match exists. Diagnostics only; it never changes the intent.
	Suggestion string
}

var verbTable = map[string]Kind{
	"help": Help, "commands": Help, "?": Help,
	"look": Look, "l": Look, "observe": Look, "survey": Look,
	"go": Go, "walk": Go, "move": Go, "head": Go, "travel": Go, "enter": Go, "leave": Go,
	"talk": Talk, "speak": Talk, "ask": Talk, "greet": Talk,
	"examine": Examine, "inspect": Examine, "study": Examine, "read": Examine,
	"take": Take, "get": Take, "grab": Take, "pick": Take,
	"inventory": Inventory, "inv": Inventory, "i": Inventory, "bag": Inventory, "satchel": Inventory,
	"status": Status, "stats": Status, "self": Status,
	"save": Save,
	"quests": Quests, "quest": Quests, "journal": Quests,
	"quit": Quit, "exit": Quit, "q": Quit,
	"party": Party, "fellowship": Party,
	"version": Version,
	"virtues": Virtues, "virtue": Virtues,
	"rebuild": Rebuild, "works": Rebuild, "construction": Rebuild,
}

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "to": true, "at": true, "on": true,
	"in": true, "into": true, "with": true, "of": true, "for": true,
	"up": true, "out": true, "my": true, "some": true,
}

// Parse tokenizes one input line. An integer line yields a Numeric intent
// with priority over verb lookup.
func Parse(raw string) Parsed {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(raw)))
	if len(fields) == 0 {
		return Parsed{Kind: Unknown}
	}

	if len(fields) == 1 {
		if n, err := strconv.Atoi(fields[0]); err == nil {
			return Parsed{Kind: Numeric, Choice: n}
		}
	}

	verb := fields[0]
	target := joinTarget(fields[1:])

	kind, ok := verbTable[verb]
	if !ok {
		return Parsed{Kind: Unknown, Verb: verb, Target: target, Suggestion: suggestVerb(verb)}
	}
	return Parsed{Kind: kind, Verb: verb, Target: target}
}

// joinTarget filters stop words and rejoins the remainder.
func joinTarget(tokens []string) string {
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if stopWords[tok] {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

// suggestVerb finds the nearest known verb within edit distance 2, for the
// "did you mean" line on unknown input.
func suggestVerb(verb string) string {
	best, bestDist := "", 3
	for known := range verbTable {
		if len(known) < 3 {
			continue
		}
		d := levenshtein.ComputeDistance(verb, known)
		if d < bestDist || (d == bestDist && known < best) {
			best, bestDist = known, d
		}
	}
	if bestDist > 2 {
		return ""
	}
	return best
}
