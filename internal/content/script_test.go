package content

import (
	"encoding/json"
	"testing"
)

func TestParseScriptPrefixes(t *testing.T) {
	tests := []struct {
		raw  string
		kind ScriptKind
		arg  string
	}{
		{"task:penance", ScriptTask, "penance"},
		{"shop:almoner", ScriptShop, "almoner"},
		{"minigame:dice", ScriptMinigame, "dice"},
		{"chance:30:found_relic", ScriptChance, "30:found_relic"},
		{"rebuild:start", ScriptRebuild, "start"},
		{"arc_gate", ScriptArcGate, ""},
		{"endgame", ScriptEndgame, ""},
	}
	for _, tc := range tests {
		ref, err := ParseScript(tc.raw)
		if err != nil {
			t.Fatalf("ParseScript(%q): %v", tc.raw, err)
		}
		if ref.Kind != tc.kind || ref.Arg != tc.arg {
			t.Fatalf("ParseScript(%q) = %+v, want kind=%v arg=%q", tc.raw, ref, tc.kind, tc.arg)
		}
	}
}

func TestParseScriptRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "wizardry:fireball", "dance", "task"} {
		if _, err := ParseScript(raw); err == nil {
			t.Fatalf("ParseScript(%q) accepted, want error", raw)
		}
	}
}

func TestScriptRefRoundTripsAuthoredForm(t *testing.T) {
	for _, raw := range []string{"task:alms", "shop:mason", "arc_gate", "endgame"} {
		ref, err := ParseScript(raw)
		if err != nil {
			t.Fatalf("ParseScript(%q): %v", raw, err)
		}
		if ref.String() != raw {
			t.Fatalf("String() = %q, want %q", ref.String(), raw)
		}
	}
}

func TestScriptRefJSONRejectsBadPrefixAtDecode(t *testing.T) {
	var ref ScriptRef
	if err := json.Unmarshal([]byte(`"sorcery:hex"`), &ref); err == nil {
		t.Fatal("decode of unknown prefix succeeded, want error")
	}
	if err := json.Unmarshal([]byte(`"shop:chandler"`), &ref); err != nil {
		t.Fatalf("decode of valid script failed: %v", err)
	}
	if ref.Kind != ScriptShop || ref.Arg != "chandler" {
		t.Fatalf("decoded ref = %+v", ref)
	}
}
