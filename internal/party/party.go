// Package party holds the shared state a fellowship of sessions reads and
// writes: priory stats, flags, quests, counters, a bounded lore feed, and a
// member roster. Sharing is cooperative and storage-backed: last writer wins at
// per-turn granularity, with a reload before every mutating turn so a session
// never clobbers peers' earlier writes with stale data.
package party

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aldersgate/greyfriars/internal/savecode"
)

// MaxMembers is the roster soft cap. Returning members are always admitted.
const MaxMembers = 6

// loreCap bounds the lore feed; the oldest entries are evicted first.
const loreCap = 100

// Storage is the blob boundary the store persists through.
type Storage interface {
	Read(id string) ([]byte, bool, error)
	Write(id, kind string, body []byte) error
	Exists(id string) (bool, error)
}

// LoreEvent is a cross-player narrative notice surfaced to members who have
// not yet seen it.
type LoreEvent struct {
	ID   string    `json:"id"`
	Day  int       `json:"day"`
	Text string    `json:"text"`
	By   string    `json:"by"`
	At   time.Time `json:"at"`
}

// Member is a roster entry.
type Member struct {
	Scene    string    `json:"scene"`
	LastSeen time.Time `json:"last_seen"`
}

// State is the shared party document.
type State struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Stats        map[string]int    `json:"stats"`
	Flags        map[string]bool   `json:"flags"`
	Counters     map[string]int    `json:"counters"`
	ActiveQuests map[string]bool   `json:"active_quests"`
	DoneQuests   map[string]bool   `json:"done_quests"`
	Lore         []LoreEvent       `json:"lore"`
	Members      map[string]Member `json:"members"`
}

// AppendLore adds a lore entry, evicting the oldest past the cap.
func (s *State) AppendLore(ev LoreEvent) {
	s.Lore = append(s.Lore, ev)
	if len(s.Lore) > loreCap {
		s.Lore = s.Lore[len(s.Lore)-loreCap:]
	}
}

// Touch re-registers a member's roster entry at the end of a turn.
func (s *State) Touch(name, scene string, now time.Time) {
	if s.Members == nil {
		s.Members = make(map[string]Member)
	}
	s.Members[name] = Member{Scene: scene, LastSeen: now}
}

// Store persists party documents through a Storage backend. A coarse
// process-wide mutex guards each read-modify-write; sessions additionally
// reload before mutating, per the turn-boundary discipline.
type Store struct {
	mu      sync.Mutex
	storage Storage
}

// NewStore creates a party store over the given storage backend.
func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// Create mints a new party id and writes an empty document seeded with the
// creator's shared state.
func (st *Store) Create(stats, counters map[string]int, flags, active, done map[string]bool) (*State, error) {
	ps := &State{
		ID:           savecode.NewPartyID(),
		CreatedAt:    time.Now().UTC(),
		Stats:        stats,
		Flags:        flags,
		Counters:     counters,
		ActiveQuests: active,
		DoneQuests:   done,
		Members:      make(map[string]Member),
	}
	if err := st.Save(ps); err != nil {
		return nil, err
	}
	slog.Info("party created", "party", ps.ID)
	return ps, nil
}

// Load reads a party document, reporting ok=false on a miss.
func (st *Store) Load(id string) (*State, bool, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	body, ok, err := st.storage.Read(docID(id))
	if err != nil {
		return nil, false, fmt.Errorf("load party %s: %w", id, err)
	}
	if !ok {
		return nil, false, nil
	}
	ps := &State{}
	if err := json.Unmarshal(body, ps); err != nil {
		return nil, false, fmt.Errorf("decode party %s: %w", id, err)
	}
	normalize(ps)
	return ps, true, nil
}

// Save writes the full document back.
func (st *Store) Save(ps *State) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	body, err := json.Marshal(ps)
	if err != nil {
		return fmt.Errorf("encode party %s: %w", ps.ID, err)
	}
	if err := st.storage.Write(docID(ps.ID), "party", body); err != nil {
		return fmt.Errorf("save party %s: %w", ps.ID, err)
	}
	return nil
}

// Admit checks whether a named player may join. A full roster rejects
// newcomers but always admits returning members.
func Admit(ps *State, name string) (bool, string) {
	if _, returning := ps.Members[name]; returning {
		return true, ""
	}
	if len(ps.Members) >= MaxMembers {
		return false, fmt.Sprintf("the fellowship is full (%d members)", MaxMembers)
	}
	return true, ""
}

// normalize ensures all maps exist after decoding older documents.
func normalize(ps *State) {
	if ps.Stats == nil {
		ps.Stats = make(map[string]int)
	}
	if ps.Flags == nil {
		ps.Flags = make(map[string]bool)
	}
	if ps.Counters == nil {
		ps.Counters = make(map[string]int)
	}
	if ps.ActiveQuests == nil {
		ps.ActiveQuests = make(map[string]bool)
	}
	if ps.DoneQuests == nil {
		ps.DoneQuests = make(map[string]bool)
	}
	if ps.Members == nil {
		ps.Members = make(map[string]Member)
	}
}

func docID(id string) string {
	return "party/" + id
}
