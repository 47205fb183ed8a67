package engine

import (
	"fmt"
	"strings"

	"github.com/aldersgate/greyfriars/internal/content"
)

// clericalBlocklist names worldly pursuits barred to the friar role. The
// restriction is textual and narrative: any option whose display text
// mentions one of these is withheld from players in holy orders.
var clericalBlocklist = []string{
	"marry", "wed", "courtship", "gamble", "wager", "duel", "tavern dice",
}

// roleFriar is the one role tag the clerical blocklist applies to.
const roleFriar = "friar"

// EvaluateOption decides whether an option is currently selectable. Checks
// run in a fixed order and short-circuit on the first failure; the returned
// reason is human-readable. Callers use it both to filter displayed menus
// (silently) and to reject a chosen-but-now-invalid timed default (with an
// explicit message).
func EvaluateOption(gs *GameState, menuID string, index int, opt content.OptionDef, menuRepeatable bool) (bool, string) {
	// (a) already irrevocably chosen for this non-repeatable menu.
	if isConsequential(opt, menuRepeatable) && gs.Chosen.Contains(ChoiceKey{Menu: menuID, Option: index}) {
		return false, "already chosen"
	}

	// (b) required flags all present.
	for _, flag := range opt.RequiresFlags {
		if !gs.HasFlag(flag) {
			return false, fmt.Sprintf("requires %s", flag)
		}
	}

	// (c) forbidden flags all absent.
	for _, flag := range opt.ForbidsFlags {
		if gs.HasFlag(flag) {
			return false, fmt.Sprintf("barred by %s", flag)
		}
	}

	// (d) role restrictions.
	if opt.RequiresRole != "" && !strings.EqualFold(opt.RequiresRole, gs.Role) {
		return false, fmt.Sprintf("only for a %s", opt.RequiresRole)
	}
	if opt.ForbidsRole != "" && strings.EqualFold(opt.ForbidsRole, gs.Role) {
		return false, fmt.Sprintf("not for a %s", opt.ForbidsRole)
	}

	// (e) clerical-office blocklist, friar role only.
	if gs.Role == roleFriar {
		lower := strings.ToLower(opt.Text)
		for _, word := range clericalBlocklist {
			if strings.Contains(lower, word) {
				return false, "not fitting for one in holy orders"
			}
		}
	}

	// (f) sufficient coin when the option costs money.
	if opt.Effect.Coin < 0 && gs.Coin < -opt.Effect.Coin {
		return false, fmt.Sprintf("you need %dd", -opt.Effect.Coin)
	}

	// (g) required removable items present.
	for _, item := range opt.RequiresItems {
		if !gs.HasItem(item) {
			return false, fmt.Sprintf("you lack %s", item)
		}
	}

	return true, ""
}

// isConsequential reports whether a choice is recorded for one-shot
// tracking: it mutates durable state or routing and is not a repeatable
// shop/task-board/minigame option.
func isConsequential(opt content.OptionDef, menuRepeatable bool) bool {
	if opt.Repeatable || menuRepeatable {
		return false
	}
	e := opt.Effect
	if len(e.Virtues) > 0 || len(e.Stats) > 0 || len(e.SetFlags) > 0 || len(e.ClearFlags) > 0 {
		return true
	}
	if e.StartQuest != "" || e.CompleteQuest != "" {
		return true
	}
	if e.NextScene != "" || e.NextMenu != "" || e.NextTimed != "" {
		return true
	}
	return false
}

// availableOption pairs an option with its index in the authored list.
type availableOption struct {
	Index int
	Def   content.OptionDef
}

// availableOptions filters a menu's options through the gate, preserving
// authored indices for one-shot keys and numbering.
func availableOptions(gs *GameState, menuID string, opts []content.OptionDef, menuRepeatable bool) []availableOption {
	out := make([]availableOption, 0, len(opts))
	for i, opt := range opts {
		if ok, _ := EvaluateOption(gs, menuID, i, opt, menuRepeatable); ok {
			out = append(out, availableOption{Index: i, Def: opt})
		}
	}
	return out
}
