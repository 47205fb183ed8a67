package engine

import (
	"testing"

	"github.com/aldersgate/greyfriars/internal/content"
)

func TestGateAlreadyChosen(t *testing.T) {
	gs := NewGameState("Cuthbert", "friar")
	opt := content.OptionDef{Text: "Swear the oath", Effect: content.Effect{SetFlags: []string{"sworn"}}}
	gs.Chosen.Add(ChoiceKey{Menu: "offers", Option: 0})

	ok, reason := EvaluateOption(gs, "offers", 0, opt, false)
	if ok || reason != "already chosen" {
		t.Fatalf("ok=%v reason=%q", ok, reason)
	}

	// The same option under a repeatable menu is never consumed.
	if ok, _ := EvaluateOption(gs, "offers", 0, opt, true); !ok {
		t.Fatal("repeatable menu blocked by one-shot record")
	}
}

func TestGateFlagRequirements(t *testing.T) {
	gs := NewGameState("Cuthbert", "")

	opt := content.OptionDef{Text: "Enter the chapter house", RequiresFlags: []string{"sworn"}}
	if ok, reason := EvaluateOption(gs, "m", 0, opt, false); ok || reason != "requires sworn" {
		t.Fatalf("ok=%v reason=%q", ok, reason)
	}
	gs.SetFlag("Sworn")
	if ok, _ := EvaluateOption(gs, "m", 0, opt, false); !ok {
		t.Fatal("flag check should be case-insensitive")
	}

	opt = content.OptionDef{Text: "Plead ignorance", ForbidsFlags: []string{"sworn"}}
	if ok, reason := EvaluateOption(gs, "m", 0, opt, false); ok || reason != "barred by sworn" {
		t.Fatalf("ok=%v reason=%q", ok, reason)
	}
}

func TestGateRoleRestrictions(t *testing.T) {
	gs := NewGameState("Cuthbert", "mason")

	opt := content.OptionDef{Text: "Bless the gathered", RequiresRole: "friar"}
	if ok, reason := EvaluateOption(gs, "m", 0, opt, false); ok || reason != "only for a friar" {
		t.Fatalf("ok=%v reason=%q", ok, reason)
	}

	opt = content.OptionDef{Text: "Haggle over stone", ForbidsRole: "mason"}
	if ok, reason := EvaluateOption(gs, "m", 0, opt, false); ok || reason != "not for a mason" {
		t.Fatalf("ok=%v reason=%q", ok, reason)
	}
}

func TestClericalBlocklistBindsOnlyFriars(t *testing.T) {
	opt := content.OptionDef{Text: "Sit down to tavern dice"}

	friar := NewGameState("Cuthbert", "friar")
	if ok, reason := EvaluateOption(friar, "m", 0, opt, false); ok || reason != "not fitting for one in holy orders" {
		t.Fatalf("friar: ok=%v reason=%q", ok, reason)
	}

	layman := NewGameState("Wat", "mason")
	if ok, _ := EvaluateOption(layman, "m", 0, opt, false); !ok {
		t.Fatal("blocklist applied to a lay role")
	}
}

func TestGateCoinAndItemChecks(t *testing.T) {
	gs := NewGameState("Cuthbert", "")
	gs.Coin = 2

	opt := content.OptionDef{Text: "Pay the toll", Effect: content.Effect{Coin: -5}}
	if ok, reason := EvaluateOption(gs, "m", 0, opt, false); ok || reason != "you need 5d" {
		t.Fatalf("ok=%v reason=%q", ok, reason)
	}
	gs.Coin = 5
	if ok, _ := EvaluateOption(gs, "m", 0, opt, false); !ok {
		t.Fatal("exact coin should pass")
	}

	opt = content.OptionDef{Text: "Present the charter", RequiresItems: []string{"Charter"}}
	if ok, reason := EvaluateOption(gs, "m", 0, opt, false); ok || reason != "you lack Charter" {
		t.Fatalf("ok=%v reason=%q", ok, reason)
	}
	gs.AddItem("charter")
	if ok, _ := EvaluateOption(gs, "m", 0, opt, false); !ok {
		t.Fatal("item check should be case-insensitive")
	}
}

func TestAvailableOptionsPreserveAuthoredIndices(t *testing.T) {
	gs := NewGameState("Cuthbert", "")
	gs.SetFlag("sworn")
	opts := []content.OptionDef{
		{Text: "A", ForbidsFlags: []string{"sworn"}},
		{Text: "B"},
		{Text: "C", RequiresFlags: []string{"never_set"}},
		{Text: "D"},
	}

	avail := availableOptions(gs, "m", opts, false)
	if len(avail) != 2 {
		t.Fatalf("len = %d, want 2", len(avail))
	}
	if avail[0].Index != 1 || avail[1].Index != 3 {
		t.Fatalf("indices = %d,%d, want 1,3", avail[0].Index, avail[1].Index)
	}
}

func TestIsConsequential(t *testing.T) {
	if isConsequential(content.OptionDef{Text: "Chat", Effect: content.Effect{Text: "idle talk"}}, false) {
		t.Fatal("pure-text option treated as consequential")
	}
	if !isConsequential(content.OptionDef{Text: "Vow", Effect: content.Effect{SetFlags: []string{"v"}}}, false) {
		t.Fatal("flag-setting option not consequential")
	}
	if !isConsequential(content.OptionDef{Text: "Depart", Effect: content.Effect{NextScene: "road"}}, false) {
		t.Fatal("routing option not consequential")
	}
	if isConsequential(content.OptionDef{Text: "Vow", Repeatable: true, Effect: content.Effect{SetFlags: []string{"v"}}}, false) {
		t.Fatal("repeatable option treated as consequential")
	}
}
