package engine

import (
	"strings"

	"github.com/aldersgate/greyfriars/internal/content"
)

// virtueCue maps keyword substrings in an option's display text to the
// virtue weights that score it during timed-default selection. The table is
// fixed; changing it changes which way hesitant players lean. It is fragile
// to content rewording; a future content schema should carry explicit
// per-option tags instead.
type virtueCue struct {
	words   []string
	weights map[string]int // virtue → multiplier
}

var defaultCues = []virtueCue{
	{words: []string{"watch", "scan"}, weights: map[string]int{VirtueHope: 2}},
	{words: []string{"seize", "grab", "ready"}, weights: map[string]int{VirtueFortitude: 2}},
	{words: []string{"pray", "steady"}, weights: map[string]int{VirtueFaith: 1, VirtueHope: 1}},
	{words: []string{"shield", "protect", "help"}, weights: map[string]int{VirtueCharity: 2}},
	{words: []string{"hide", "wait"}, weights: map[string]int{VirtueTemperance: 2}},
	{words: []string{"confess", "yield", "kneel"}, weights: map[string]int{VirtueHumility: 2}},
	{words: []string{"run", "flee"}, weights: map[string]int{VirtueHope: 1, VirtueTemperance: 1}},
	{words: []string{"strike", "fight"}, weights: map[string]int{VirtueFortitude: 1, VirtueFaith: 1}},
}

// scoreOptionText sums virtue-keyed bonuses for every cue whose keyword
// appears in the option text.
func scoreOptionText(text string, virtues map[string]int) int {
	lower := strings.ToLower(text)
	score := 0
	for _, cue := range defaultCues {
		hit := false
		for _, w := range cue.words {
			if strings.Contains(lower, w) {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}
		for virtue, mult := range cue.weights {
			score += virtues[virtue] * mult
		}
	}
	return score
}

// defaultTimedChoice picks the option a hesitating player drifts toward:
// the highest virtue-cue score among *available* options, ties broken by
// first occurrence in list order. With nothing available it falls back to
// the content-authored default index.
func defaultTimedChoice(gs *GameState, def content.TimedDef, avail []availableOption) int {
	if len(avail) == 0 {
		return def.DefaultIndex
	}
	best, bestScore := avail[0].Index, scoreOptionText(avail[0].Def.Text, gs.Virtues)
	for _, opt := range avail[1:] {
		if s := scoreOptionText(opt.Def.Text, gs.Virtues); s > bestScore {
			best, bestScore = opt.Index, s
		}
	}
	return best
}
