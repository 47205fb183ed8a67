package content

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadMinimalLibrary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "meta.json", `{"start":"gate"}`)
	writeFile(t, dir, "scenes.json", `[
		{"id":"gate","title":"The Gate","text":"Ruins.","exits":{"cloister":"cloister"}},
		{"id":"cloister","text":"Grass and stone."}
	]`)
	writeFile(t, dir, "menus.json", `[
		{"id":"offers","options":[
			{"text":"Take up the hod","effect":{"script":"task:chores"}}
		]}
	]`)

	lib, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if lib.Start != "gate" {
		t.Fatalf("start = %q", lib.Start)
	}
	if _, ok := lib.Scene("cloister"); !ok {
		t.Fatal("scene missing")
	}
	menu, ok := lib.Menu("offers")
	if !ok {
		t.Fatal("menu missing")
	}
	script := menu.Options[0].Effect.Script
	if script == nil || script.Kind != ScriptTask || script.Arg != "chores" {
		t.Fatalf("script = %+v", script)
	}
	// Absent entity files leave their kinds empty rather than failing.
	if len(lib.Shops) != 0 || len(lib.Rebuild) != 0 {
		t.Fatalf("unexpected entities: shops=%d rebuild=%d", len(lib.Shops), len(lib.Rebuild))
	}
}

func TestLoadRejectsMissingStartScene(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "meta.json", `{"start":"nowhere"}`)
	writeFile(t, dir, "scenes.json", `[{"id":"gate","text":"Ruins."}]`)

	if _, err := Load(dir); err == nil {
		t.Fatal("accepted a dangling start scene")
	}
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "meta.json", `{"start":"gate"}`)
	writeFile(t, dir, "scenes.json", `[
		{"id":"gate","text":"One."},
		{"id":"gate","text":"Two."}
	]`)

	if _, err := Load(dir); err == nil {
		t.Fatal("accepted duplicate scene ids")
	}
}

func TestLoadRejectsUnknownScriptPrefix(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "meta.json", `{"start":"gate"}`)
	writeFile(t, dir, "scenes.json", `[{"id":"gate","text":"Ruins."}]`)
	writeFile(t, dir, "menus.json", `[
		{"id":"bad","options":[{"text":"Dabble","effect":{"script":"sorcery:hex"}}]}
	]`)

	if _, err := Load(dir); err == nil {
		t.Fatal("accepted an unknown script prefix")
	}
}

func TestLoadRequiresMeta(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("accepted a content dir without meta.json")
	}
}
