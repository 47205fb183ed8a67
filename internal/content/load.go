package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Load reads the content library from JSON files under dir. Each file holds a
// list of one entity kind; absent files leave that kind empty. A meta.json
// with the starting scene id is required.
func Load(dir string) (*Library, error) {
	lib := &Library{
		Scenes:    make(map[string]SceneDef),
		Menus:     make(map[string]MenuDef),
		Timed:     make(map[string]TimedDef),
		LifePaths: make(map[string]LifePathDef),
		Quests:    make(map[string]QuestDef),
		Items:     make(map[string]ItemDef),
		Shops:     make(map[string]ShopDef),
		Rebuild:   make(map[string]RebuildNodeDef),
	}

	var meta struct {
		Start string `json:"start"`
	}
	if err := readJSON(filepath.Join(dir, "meta.json"), &meta); err != nil {
		return nil, fmt.Errorf("load meta: %w", err)
	}
	lib.Start = meta.Start

	if err := loadKind(dir, "scenes.json", lib.Scenes, func(s SceneDef) string { return s.ID }); err != nil {
		return nil, err
	}
	if err := loadKind(dir, "menus.json", lib.Menus, func(m MenuDef) string { return m.ID }); err != nil {
		return nil, err
	}
	if err := loadKind(dir, "timed.json", lib.Timed, func(t TimedDef) string { return t.ID }); err != nil {
		return nil, err
	}
	if err := loadKind(dir, "lifepaths.json", lib.LifePaths, func(p LifePathDef) string { return p.ID }); err != nil {
		return nil, err
	}
	if err := loadKind(dir, "quests.json", lib.Quests, func(q QuestDef) string { return q.ID }); err != nil {
		return nil, err
	}
	if err := loadKind(dir, "items.json", lib.Items, func(i ItemDef) string { return i.ID }); err != nil {
		return nil, err
	}
	if err := loadKind(dir, "shops.json", lib.Shops, func(s ShopDef) string { return s.ID }); err != nil {
		return nil, err
	}
	if err := loadKind(dir, "rebuild.json", lib.Rebuild, func(n RebuildNodeDef) string { return n.ID }); err != nil {
		return nil, err
	}

	if _, ok := lib.Scenes[lib.Start]; !ok {
		return nil, fmt.Errorf("starting scene %q not defined", lib.Start)
	}

	slog.Info("content library loaded",
		"scenes", len(lib.Scenes),
		"menus", len(lib.Menus),
		"timed", len(lib.Timed),
		"life_paths", len(lib.LifePaths),
		"quests", len(lib.Quests),
		"rebuild_nodes", len(lib.Rebuild),
	)
	return lib, nil
}

// loadKind reads one entity file into its map. A missing file is fine; a
// duplicate id within a file is not.
func loadKind[T any](dir, name string, into map[string]T, id func(T) string) error {
	var list []T
	path := filepath.Join(dir, name)
	if err := readJSON(path, &list); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", name, err)
	}
	for _, entity := range list {
		key := id(entity)
		if key == "" {
			return fmt.Errorf("load %s: entity with empty id", name)
		}
		if _, dup := into[key]; dup {
			return fmt.Errorf("load %s: duplicate id %q", name, key)
		}
		into[key] = entity
	}
	return nil
}

func readJSON(path string, into any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, into); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}
