package engine

import (
	"testing"

	"github.com/aldersgate/greyfriars/internal/content"
)

func TestScoreOptionTextSumsMatchingCues(t *testing.T) {
	virtues := map[string]int{VirtueHope: 3, VirtueFortitude: 2, VirtueFaith: 1}

	// "watch" scores hope*2; "seize" scores fortitude*2.
	if got := scoreOptionText("Watch the road", virtues); got != 6 {
		t.Fatalf("watch score = %d, want 6", got)
	}
	if got := scoreOptionText("Seize the moment", virtues); got != 4 {
		t.Fatalf("seize score = %d, want 4", got)
	}
	// "pray" mixes faith and hope at weight 1 each.
	if got := scoreOptionText("Pray for deliverance", virtues); got != 4 {
		t.Fatalf("pray score = %d, want 4", got)
	}
	if got := scoreOptionText("Say nothing", virtues); got != 0 {
		t.Fatalf("uncued score = %d, want 0", got)
	}
}

func TestDefaultTimedChoicePrefersStrongestVirtue(t *testing.T) {
	gs := NewGameState("Cuthbert", "")
	gs.Virtues[VirtueTemperance] = 4
	def := content.TimedDef{
		Options: []content.OptionDef{
			{Text: "Stand and fight"},
			{Text: "Hide in the undercroft"},
		},
	}
	avail := availableOptions(gs, "t", def.Options, false)

	if got := defaultTimedChoice(gs, def, avail); got != 1 {
		t.Fatalf("default index = %d, want 1 (temperance leans to hiding)", got)
	}
}

func TestDefaultTimedChoiceTieBreaksByListOrder(t *testing.T) {
	gs := NewGameState("Cuthbert", "")
	def := content.TimedDef{
		Options: []content.OptionDef{
			{Text: "Say nothing"},
			{Text: "Look away"},
		},
	}
	avail := availableOptions(gs, "t", def.Options, false)

	// All scores are zero; the first option in list order wins.
	if got := defaultTimedChoice(gs, def, avail); got != 0 {
		t.Fatalf("default index = %d, want 0", got)
	}
}

func TestDefaultTimedChoiceEmptyFallsToAuthoredIndex(t *testing.T) {
	gs := NewGameState("Cuthbert", "")
	def := content.TimedDef{DefaultIndex: 2}
	if got := defaultTimedChoice(gs, def, nil); got != 2 {
		t.Fatalf("default index = %d, want authored 2", got)
	}
}
