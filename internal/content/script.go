package content

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ScriptKind is the closed set of sub-script dispatch targets. Authored
// content embeds scripts as prefixed strings ("task:penance", "shop:almoner");
// they decode to this enum once at load time so the engine never re-parses
// string prefixes per turn.
type ScriptKind int

const (
	ScriptTask ScriptKind = iota + 1
	ScriptShop
	ScriptMinigame
	ScriptChance
	ScriptRebuild
	ScriptArcGate  // named script: chapter-arc gating
	ScriptEndgame  // named script: final scoring
)

// ScriptRef is a decoded sub-script reference: a kind plus its argument
// (shop id, task id, chance spec, …). Named scripts carry no argument.
type ScriptRef struct {
	Kind ScriptKind
	Arg  string
}

// ParseScript decodes a raw authored script string. Unknown prefixes are a
// load-time error, not a runtime fallback.
func ParseScript(raw string) (ScriptRef, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ScriptRef{}, fmt.Errorf("empty script reference")
	}
	if kind, arg, ok := strings.Cut(raw, ":"); ok {
		switch kind {
		case "task":
			return ScriptRef{Kind: ScriptTask, Arg: arg}, nil
		case "shop":
			return ScriptRef{Kind: ScriptShop, Arg: arg}, nil
		case "minigame":
			return ScriptRef{Kind: ScriptMinigame, Arg: arg}, nil
		case "chance":
			return ScriptRef{Kind: ScriptChance, Arg: arg}, nil
		case "rebuild":
			return ScriptRef{Kind: ScriptRebuild, Arg: arg}, nil
		}
		return ScriptRef{}, fmt.Errorf("unknown script prefix %q", kind)
	}
	switch raw {
	case "arc_gate":
		return ScriptRef{Kind: ScriptArcGate}, nil
	case "endgame":
		return ScriptRef{Kind: ScriptEndgame}, nil
	}
	return ScriptRef{}, fmt.Errorf("unknown named script %q", raw)
}

// String renders the reference back to its authored form.
func (s ScriptRef) String() string {
	switch s.Kind {
	case ScriptTask:
		return "task:" + s.Arg
	case ScriptShop:
		return "shop:" + s.Arg
	case ScriptMinigame:
		return "minigame:" + s.Arg
	case ScriptChance:
		return "chance:" + s.Arg
	case ScriptRebuild:
		return "rebuild:" + s.Arg
	case ScriptArcGate:
		return "arc_gate"
	case ScriptEndgame:
		return "endgame"
	}
	return ""
}

// MarshalJSON writes the authored string form.
func (s ScriptRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes the authored string form, rejecting unknown
// prefixes at load time.
func (s *ScriptRef) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ref, err := ParseScript(raw)
	if err != nil {
		return err
	}
	*s = ref
	return nil
}
