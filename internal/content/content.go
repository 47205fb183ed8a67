// Package content holds the authored game graph: scenes, menus, timed
// prompts, life paths, quests, items, shops, and rebuild nodes. The library
// is loaded once at startup and never mutated by the engine.
package content

// SceneDef is a location node: descriptive text, exits (movement) and
// actions (non-movement interactions), plus optional linked menu/timed
// prompts that open on arrival.
type SceneDef struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Text       string            `json:"text"`
	Exits      map[string]string `json:"exits,omitempty"`   // exit name → scene id
	Actions    map[string]Effect `json:"actions,omitempty"` // action name → effect
	Menu       string            `json:"menu,omitempty"`    // menu opened on entry
	Timed      string            `json:"timed,omitempty"`   // timed prompt armed on entry
	ChapterEnd bool              `json:"chapter_end,omitempty"`
}

// MenuDef is a numbered option list that pins input interpretation until
// resolved or saved.
type MenuDef struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Flavor     string      `json:"flavor,omitempty"` // contextual line shown above options
	Options    []OptionDef `json:"options"`
	Repeatable bool        `json:"repeatable,omitempty"` // shop/task-board/minigame menus
}

// TimedDef is a menu variant with a wall-clock deadline and a
// virtue-weighted automatic default.
type TimedDef struct {
	ID              string      `json:"id"`
	Prompt          string      `json:"prompt"`
	Options         []OptionDef `json:"options"`
	DefaultIndex    int         `json:"default_index"` // 0-based, content-authored fallback
	DeadlineSeconds int         `json:"deadline_seconds"`
}

// OptionDef is a single selectable entry in a menu or timed prompt.
type OptionDef struct {
	Text          string   `json:"text"`
	RequiresFlags []string `json:"requires_flags,omitempty"`
	ForbidsFlags  []string `json:"forbids_flags,omitempty"`
	RequiresRole  string   `json:"requires_role,omitempty"`
	ForbidsRole   string   `json:"forbids_role,omitempty"`
	RequiresItems []string `json:"requires_items,omitempty"` // removed when chosen
	Repeatable    bool     `json:"repeatable,omitempty"`     // exempt from one-shot tracking
	Effect        Effect   `json:"effect"`
}

// Effect is the fixed, enumerable payload applied when an option or action
// is chosen. Fields apply in declaration order; there is no rollback.
type Effect struct {
	Text          string         `json:"text,omitempty"`
	Virtues       map[string]int `json:"virtues,omitempty"`  // unbounded deltas
	Stats         map[string]int `json:"stats,omitempty"`    // priory stats, clamped [0,100]
	Counters      map[string]int `json:"counters,omitempty"` // unbounded tallies
	SetFlags      []string       `json:"set_flags,omitempty"`
	ClearFlags    []string       `json:"clear_flags,omitempty"`
	Coin          int            `json:"coin,omitempty"` // sterling pennies, may be negative
	GiveItems     []string       `json:"give_items,omitempty"`
	TakeItems     []string       `json:"take_items,omitempty"`
	StartQuest    string         `json:"start_quest,omitempty"`
	CompleteQuest string         `json:"complete_quest,omitempty"`
	LifePath      string         `json:"life_path,omitempty"` // adopt a life path (intro menus)
	Script        *ScriptRef     `json:"script,omitempty"`
	NextScene     string         `json:"next_scene,omitempty"`
	NextMenu      string         `json:"next_menu,omitempty"`
	NextTimed     string         `json:"next_timed,omitempty"`
}

// LifePathDef seeds a new character: starting virtues, a coin range, starter
// items, and the menu that introduces the path.
type LifePathDef struct {
	ID        string         `json:"id"`
	Label     string         `json:"label"`
	Virtues   map[string]int `json:"virtues,omitempty"`
	CoinMin   int            `json:"coin_min"`
	CoinMax   int            `json:"coin_max"`
	Items     []string       `json:"items,omitempty"`
	IntroMenu string         `json:"intro_menu,omitempty"`
}

// QuestDef describes a trackable objective.
type QuestDef struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	MinPartySize int    `json:"min_party_size,omitempty"`
	PartySynced  bool   `json:"party_synced,omitempty"` // requires a synchronized party
}

// ItemDef describes an inventory item.
type ItemDef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ShopDef is a price list keyed by item id, in pennies.
type ShopDef struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Prices map[string]int `json:"prices"`
}

// RebuildNodeDef is an upgradeable construction target with a leveled
// cost/benefit ladder and prerequisites.
type RebuildNodeDef struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Levels    []RebuildLevelDef `json:"levels"`
	Requires  map[string]int    `json:"requires,omitempty"`   // node id → min achieved level
	MinScores map[string]int    `json:"min_scores,omitempty"` // rebuild score → min value
}

// RebuildLevelDef is one rung of a node's ladder. Level numbers start at 1
// and must be achieved sequentially.
type RebuildLevelDef struct {
	Level       int            `json:"level"`
	CoinCost    int            `json:"coin_cost"`
	Materials   map[string]int `json:"materials,omitempty"` // item name → count consumed
	Days        int            `json:"days"`
	LaborPerDay int            `json:"labor_per_day"`
	Scores      map[string]int `json:"scores,omitempty"` // rebuild score deltas on completion
	Unlocks     []string       `json:"unlocks,omitempty"` // flags set on completion
}

// Library is the complete read-only content graph.
type Library struct {
	Scenes    map[string]SceneDef
	Menus     map[string]MenuDef
	Timed     map[string]TimedDef
	LifePaths map[string]LifePathDef
	Quests    map[string]QuestDef
	Items     map[string]ItemDef
	Shops     map[string]ShopDef
	Rebuild   map[string]RebuildNodeDef
	Start     string // starting scene id
}

// Scene looks up a scene definition by id.
func (l *Library) Scene(id string) (SceneDef, bool) {
	s, ok := l.Scenes[id]
	return s, ok
}

// Menu looks up a menu definition by id.
func (l *Library) Menu(id string) (MenuDef, bool) {
	m, ok := l.Menus[id]
	return m, ok
}

// TimedPrompt looks up a timed prompt definition by id.
func (l *Library) TimedPrompt(id string) (TimedDef, bool) {
	t, ok := l.Timed[id]
	return t, ok
}

// LifePath looks up a life path definition by id.
func (l *Library) LifePath(id string) (LifePathDef, bool) {
	p, ok := l.LifePaths[id]
	return p, ok
}

// Quest looks up a quest definition by id.
func (l *Library) Quest(id string) (QuestDef, bool) {
	q, ok := l.Quests[id]
	return q, ok
}

// Shop looks up a shop definition by id.
func (l *Library) Shop(id string) (ShopDef, bool) {
	s, ok := l.Shops[id]
	return s, ok
}

// RebuildNode looks up a rebuild node definition by id.
func (l *Library) RebuildNode(id string) (RebuildNodeDef, bool) {
	n, ok := l.Rebuild[id]
	return n, ok
}

// NodeLevel returns the ladder entry for the given level number, if present.
func (n RebuildNodeDef) NodeLevel(level int) (RebuildLevelDef, bool) {
	for _, l := range n.Levels {
		if l.Level == level {
			return l, true
		}
	}
	return RebuildLevelDef{}, false
}
