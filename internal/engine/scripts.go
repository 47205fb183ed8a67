package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aldersgate/greyfriars/internal/content"
)

// runScript dispatches a decoded sub-script reference. The switch is over a
// closed enum; unknown kinds cannot reach here because content with an
// unrecognised prefix fails to load.
func (s *Session) runScript(ref content.ScriptRef, out *[]string) {
	switch ref.Kind {
	case content.ScriptTask:
		s.runTask(ref.Arg, out)
	case content.ScriptShop:
		s.openShop(ref.Arg, out)
	case content.ScriptMinigame:
		s.runMinigame(ref.Arg, out)
	case content.ScriptChance:
		s.runChance(ref.Arg, out)
	case content.ScriptRebuild:
		s.startRebuildProject(ref.Arg, out)
	case content.ScriptArcGate:
		s.runArcGate(out)
	case content.ScriptEndgame:
		s.runEndgame(out)
	}
}

// runTask performs a repeatable labor. Tasks consume the rest of the
// segment's attention, so the caller skips the usual time advance.
func (s *Session) runTask(id string, out *[]string) {
	gs := s.gs
	gs.Counters["task_"+id]++
	switch id {
	case "chores":
		gs.AdjustStat(StatMorale, 1)
		*out = append(*out, "You sweep the cloister walk and scour the refectory boards.")
	case "penance":
		gs.Virtues[VirtueHumility]++
		*out = append(*out, "You kneel on the cold stone until the bell releases you.")
	case "alms":
		gs.AdjustStat(StatRelations, 1)
		*out = append(*out, "You carry bread to the village poor at the gate.")
	case "copying":
		gs.Rebuild.Scores[ScoreScholarship]++
		*out = append(*out, "You copy a fading page in a careful hand.")
	default:
		*out = append(*out, fmt.Sprintf("You set yourself to the work of %s.", id))
	}
}

// openShop builds an ephemeral menu from the shop's price list. Shop menus
// are repeatable and never recorded as one-shot decisions.
func (s *Session) openShop(id string, out *[]string) {
	shop, ok := s.eng.content.Shop(id)
	if !ok {
		*out = append(*out, "The stall is shuttered.")
		return
	}

	itemIDs := make([]string, 0, len(shop.Prices))
	for itemID := range shop.Prices {
		itemIDs = append(itemIDs, itemID)
	}
	sort.Strings(itemIDs)

	menu := &content.MenuDef{
		ID:         "shop:" + id,
		Title:      shop.Name,
		Repeatable: true,
	}
	for _, itemID := range itemIDs {
		name := itemID
		if item, ok := s.eng.content.Items[itemID]; ok {
			name = item.Name
		}
		// Wares already in hand are withheld; the stall restocks once the
		// item is spent, since the menu is rebuilt on every opening.
		if s.gs.HasItem(name) {
			continue
		}
		price := shop.Prices[itemID]
		menu.Options = append(menu.Options, content.OptionDef{
			Text:       fmt.Sprintf("Buy %s — %dd", name, price),
			Repeatable: true,
			Effect: content.Effect{
				Text:      fmt.Sprintf("You pay %dd for %s.", price, name),
				Coin:      -price,
				GiveItems: []string{name},
			},
		})
	}
	menu.Options = append(menu.Options, content.OptionDef{
		Text:       "Leave the stall",
		Repeatable: true,
	})

	s.ephemeral = menu
	s.openMenu(menu.ID, out)
}

// runMinigame plays one of the small fixed games of chance or wit.
func (s *Session) runMinigame(id string, out *[]string) {
	gs := s.gs
	switch id {
	case "dice":
		const stake = 2
		if gs.Coin < stake {
			*out = append(*out, fmt.Sprintf("You need a stake of %dd to sit at the board.", stake))
			return
		}
		player := s.eng.rng.Roll(6) + s.eng.rng.Roll(6)
		if gs.Virtues[VirtueFortitude] > 0 {
			player++
		}
		house := s.eng.rng.Roll(6) + s.eng.rng.Roll(6)
		if player > house {
			gs.Coin += stake
			*out = append(*out, fmt.Sprintf("Your throw of %d beats the house's %d. You win %dd.", player, house, stake))
		} else {
			gs.Coin -= stake
			*out = append(*out, fmt.Sprintf("The house throws %d against your %d. Your stake of %dd is lost.", house, player, stake))
		}
	case "riddle":
		if s.eng.rng.Roll(20)+gs.Rebuild.Scores[ScoreScholarship]/5 >= 12 {
			gs.Virtues[VirtueHope]++
			*out = append(*out, "You unpick the riddle, to quiet applause.")
		} else {
			*out = append(*out, "The riddle defeats you; the answer, once told, seems obvious.")
		}
	default:
		*out = append(*out, "The game breaks up before it begins.")
	}
}

// runChance rolls a percent chance and sets a flag on success. The argument
// is authored as "percent:flag"; a malformed spec degrades to nothing
// happening rather than failing the turn.
func (s *Session) runChance(arg string, out *[]string) {
	percentStr, flag, ok := strings.Cut(arg, ":")
	if !ok {
		return
	}
	percent, err := strconv.Atoi(percentStr)
	if err != nil || percent <= 0 {
		return
	}
	if s.eng.rng.Intn(100) < percent {
		if s.gs.SetFlag(flag) {
			s.appendLore("chance-"+flag, fmt.Sprintf("Fortune favored %s.", s.gs.Name))
		}
		*out = append(*out, "Fortune favors you.")
	} else {
		*out = append(*out, "Fortune looks elsewhere today.")
	}
}

// runArcGate checks whether the priory is ready for the story's next arc.
func (s *Session) runArcGate(out *[]string) {
	gs := s.gs
	if gs.Stats[StatPiety] >= 40 && gs.Stats[StatMorale] >= 40 {
		if gs.SetFlag("arc_advance") {
			s.appendLore("arc-advance", "The priory's fortunes turn; a new chapter opens.")
		}
		*out = append(*out, "The house stands ready. A new chapter opens before you.")
		return
	}
	*out = append(*out, "The time is not yet ripe; the house needs heart and prayer alike.")
}

// runEndgame tallies the final reckoning.
func (s *Session) runEndgame(out *[]string) {
	gs := s.gs
	rb := &gs.Rebuild

	works := 0
	for _, score := range rb.Scores {
		works += score
	}
	virtue := 0
	for _, v := range gs.Virtues {
		virtue += v
	}
	total := works + virtue + len(gs.DoneQuests)*10 + rb.DonationTotal/10

	*out = append(*out,
		"The reckoning of your stewardship:",
		fmt.Sprintf("  The works of the priory: %d", works),
		fmt.Sprintf("  The virtues of your soul: %d", virtue),
		fmt.Sprintf("  Quests fulfilled: %d", len(gs.DoneQuests)),
		fmt.Sprintf("  Alms gathered: %dd", rb.DonationTotal),
		fmt.Sprintf("  In sum: %d", total),
	)
	gs.SetFlag("game_over")
	s.appendLore("endgame", fmt.Sprintf("%s's stewardship was reckoned at %d.", gs.Name, total))
}
