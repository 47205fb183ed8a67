// Package engine is the narrative state machine: it interprets parsed player
// intents against the content library, gates menu and timed options, applies
// effect payloads, advances the calendar, runs the rebuild sub-game, and
// synchronizes shared state with the party store.
package engine

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// Segment is the time-of-day position within a game day, following the
// canonical hours. The cycle is Matins → Prime → Sext → Vespers → Compline.
type Segment int

const (
	Matins Segment = iota
	Prime
	Sext
	Vespers
	Compline

	segmentsPerDay = 5
)

var segmentNames = [segmentsPerDay]string{"Matins", "Prime", "Sext", "Vespers", "Compline"}

// String returns the canonical-hour name.
func (s Segment) String() string {
	if s < 0 || int(s) >= segmentsPerDay {
		return "Unknown"
	}
	return segmentNames[s]
}

// Priory stat names. Stats are shared resources bounded to [0, 100].
const (
	StatFood      = "food"
	StatMorale    = "morale"
	StatPiety     = "piety"
	StatSecurity  = "security"
	StatRelations = "relations"
	StatTreasury  = "treasury"
)

// Virtue names. Virtues are unbounded and may go negative.
const (
	VirtueFaith      = "faith"
	VirtueHope       = "hope"
	VirtueCharity    = "charity"
	VirtueFortitude  = "fortitude"
	VirtueTemperance = "temperance"
	VirtueHumility   = "humility"
)

// ChoiceKey identifies one option of one menu for one-shot tracking.
// Keying on the option's index in the authored list (not its text) avoids
// collisions between similarly-worded options.
type ChoiceKey struct {
	Menu   string `json:"menu"`
	Option int    `json:"option"`
}

// ChoiceSet records irrevocably-chosen options.
type ChoiceSet map[ChoiceKey]struct{}

// Contains reports whether the key has been consumed.
func (c ChoiceSet) Contains(k ChoiceKey) bool {
	_, ok := c[k]
	return ok
}

// Add marks the key consumed.
func (c ChoiceSet) Add(k ChoiceKey) {
	c[k] = struct{}{}
}

// MarshalJSON serializes the set as a sorted array so snapshots are stable.
func (c ChoiceSet) MarshalJSON() ([]byte, error) {
	keys := make([]ChoiceKey, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Menu != keys[j].Menu {
			return keys[i].Menu < keys[j].Menu
		}
		return keys[i].Option < keys[j].Option
	})
	return json.Marshal(keys)
}

// UnmarshalJSON restores the set from its array form.
func (c *ChoiceSet) UnmarshalJSON(data []byte) error {
	var keys []ChoiceKey
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	*c = make(ChoiceSet, len(keys))
	for _, k := range keys {
		(*c)[k] = struct{}{}
	}
	return nil
}

// GrantKey scopes a once-only virtue grant to its source context and option
// text, so re-entering a menu cannot farm virtue points.
type GrantKey struct {
	Source string `json:"source"`
	Option string `json:"option"`
}

// GrantSet records consumed virtue grants.
type GrantSet map[GrantKey]struct{}

// Contains reports whether the grant has been consumed.
func (g GrantSet) Contains(k GrantKey) bool {
	_, ok := g[k]
	return ok
}

// Add marks the grant consumed.
func (g GrantSet) Add(k GrantKey) {
	g[k] = struct{}{}
}

// MarshalJSON serializes the set as a sorted array.
func (g GrantSet) MarshalJSON() ([]byte, error) {
	keys := make([]GrantKey, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Source != keys[j].Source {
			return keys[i].Source < keys[j].Source
		}
		return keys[i].Option < keys[j].Option
	})
	return json.Marshal(keys)
}

// UnmarshalJSON restores the set from its array form.
func (g *GrantSet) UnmarshalJSON(data []byte) error {
	var keys []GrantKey
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	*g = make(GrantSet, len(keys))
	for _, k := range keys {
		(*g)[k] = struct{}{}
	}
	return nil
}

// LaborAllocation splits the priory's hands across the three labor pools.
type LaborAllocation struct {
	Brothers   int `json:"brothers"`
	Laborers   int `json:"laborers"`
	Volunteers int `json:"volunteers"`
}

// Total returns the number of allocated hands.
func (l LaborAllocation) Total() int {
	return l.Brothers + l.Laborers + l.Volunteers
}

// ActiveProject is the single in-flight rebuild project.
type ActiveProject struct {
	NodeID      string `json:"node_id"`
	TargetLevel int    `json:"target_level"`
	DaysLeft    int    `json:"days_left"`
	LaborPerDay int    `json:"labor_per_day"`
}

// RebuildState is the construction/economy sub-game state embedded in every
// GameState. At most one project is active at a time.
type RebuildState struct {
	Scores          map[string]int  `json:"scores"` // stability, defense, hospitality, sanctity, scholarship, economy
	NodeLevels      map[string]int  `json:"node_levels"`
	Labor           LaborAllocation `json:"labor"`
	Stress          int             `json:"stress"`
	VisitorsToday   int             `json:"visitors_today"`
	VisitorCapacity int             `json:"visitor_capacity"`
	DonationTotal   int             `json:"donation_total"`
	Project         *ActiveProject  `json:"project,omitempty"`
}

// Rebuild score names.
const (
	ScoreStability   = "stability"
	ScoreDefense     = "defense"
	ScoreHospitality = "hospitality"
	ScoreSanctity    = "sanctity"
	ScoreScholarship = "scholarship"
	ScoreEconomy     = "economy"
)

// GameState is the complete per-session player state. It is owned by exactly
// one session and mutated only through engine methods; the persisted save
// document outlives it.
type GameState struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	LifePath string `json:"life_path,omitempty"`

	Scene     string `json:"scene"`
	PrevScene string `json:"prev_scene,omitempty"`

	Coin    int     `json:"coin"` // sterling pennies
	Day     int     `json:"day"`
	Segment Segment `json:"segment"`

	Virtues   map[string]int  `json:"virtues"`
	Stats     map[string]int  `json:"stats"` // priory stats, [0,100]
	Counters  map[string]int  `json:"counters"`
	Flags     map[string]bool `json:"flags"` // keys stored lower-case
	Inventory []string        `json:"inventory"`

	ActiveQuests map[string]bool `json:"active_quests"`
	DoneQuests   map[string]bool `json:"done_quests"`

	ActiveMenu    string    `json:"active_menu,omitempty"`
	ActiveTimed   string    `json:"active_timed,omitempty"`
	TimedDeadline time.Time `json:"timed_deadline,omitempty"`

	SeenLore map[string]bool `json:"seen_lore"`
	Chosen   ChoiceSet       `json:"chosen"`
	Granted  GrantSet        `json:"granted"`

	Rebuild RebuildState `json:"rebuild"`

	SaveID  string `json:"save_id,omitempty"`
	PartyID string `json:"party_id,omitempty"`
}

// NewGameState creates a blank state for a named player.
func NewGameState(name, role string) *GameState {
	return &GameState{
		Name: name,
		Role: strings.ToLower(strings.TrimSpace(role)),
		Virtues: map[string]int{
			VirtueFaith: 0, VirtueHope: 0, VirtueCharity: 0,
			VirtueFortitude: 0, VirtueTemperance: 0, VirtueHumility: 0,
		},
		Stats: map[string]int{
			StatFood: 50, StatMorale: 50, StatPiety: 50,
			StatSecurity: 40, StatRelations: 40, StatTreasury: 20,
		},
		Counters:     make(map[string]int),
		Flags:        make(map[string]bool),
		ActiveQuests: make(map[string]bool),
		DoneQuests:   make(map[string]bool),
		SeenLore:     make(map[string]bool),
		Chosen:       make(ChoiceSet),
		Granted:      make(GrantSet),
		Rebuild: RebuildState{
			Scores: map[string]int{
				ScoreStability: 10, ScoreDefense: 5, ScoreHospitality: 5,
				ScoreSanctity: 10, ScoreScholarship: 5, ScoreEconomy: 5,
			},
			NodeLevels:      make(map[string]int),
			VisitorCapacity: 7,
		},
	}
}

// HasFlag reports whether a flag is set. Flags are case-insensitive.
func (gs *GameState) HasFlag(name string) bool {
	return gs.Flags[strings.ToLower(name)]
}

// SetFlag sets a flag, reporting whether it was newly set.
func (gs *GameState) SetFlag(name string) bool {
	key := strings.ToLower(name)
	if gs.Flags[key] {
		return false
	}
	gs.Flags[key] = true
	return true
}

// ClearFlag removes a flag.
func (gs *GameState) ClearFlag(name string) {
	delete(gs.Flags, strings.ToLower(name))
}

// AdjustStat applies a bounded delta to a priory stat, clamping to [0,100].
func (gs *GameState) AdjustStat(name string, delta int) {
	v := gs.Stats[name] + delta
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	gs.Stats[name] = v
}

// HasItem reports whether the inventory holds the named item,
// case-insensitively.
func (gs *GameState) HasItem(name string) bool {
	return gs.CountItem(name) > 0
}

// CountItem counts case-insensitive inventory matches.
func (gs *GameState) CountItem(name string) int {
	n := 0
	for _, item := range gs.Inventory {
		if strings.EqualFold(item, name) {
			n++
		}
	}
	return n
}

// AddItem appends an item unless an equal item is already held. Adds
// deduplicate; authored duplicates grant once.
func (gs *GameState) AddItem(name string) bool {
	if gs.HasItem(name) {
		return false
	}
	gs.Inventory = append(gs.Inventory, name)
	return true
}

// RemoveItem removes the first case-insensitive match, best-effort.
func (gs *GameState) RemoveItem(name string) bool {
	for i, item := range gs.Inventory {
		if strings.EqualFold(item, name) {
			gs.Inventory = append(gs.Inventory[:i], gs.Inventory[i+1:]...)
			return true
		}
	}
	return false
}

// Snapshot serializes the full state for saving and fingerprinting.
func (gs *GameState) Snapshot() ([]byte, error) {
	return json.Marshal(gs)
}
