package engine

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/aldersgate/greyfriars/internal/content"
	"github.com/aldersgate/greyfriars/internal/entropy"
	"github.com/aldersgate/greyfriars/internal/intent"
	"github.com/aldersgate/greyfriars/internal/party"
	"github.com/aldersgate/greyfriars/internal/savecode"
)

// Engine wires the content library, storage, codec, party store, and random
// source together. One Engine serves many Sessions.
type Engine struct {
	content *content.Library
	storage party.Storage
	parties *party.Store
	codec   *savecode.Codec
	rng     entropy.Source
	version string
	now     func() time.Time
}

// New creates an engine over the given collaborators.
func New(lib *content.Library, storage party.Storage, codec *savecode.Codec, rng entropy.Source, version string) *Engine {
	return &Engine{
		content: lib,
		storage: storage,
		parties: party.NewStore(storage),
		codec:   codec,
		rng:     rng,
		version: version,
		now:     time.Now,
	}
}

// SetClock overrides the wall clock, for tests that steer timed deadlines.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Session is one player's seat at the engine. Each session is processed by
// a single logical thread of control at a time.
type Session struct {
	mu  sync.Mutex
	eng *Engine
	gs  *GameState

	party     *party.State
	ephemeral *content.MenuDef
}

// Turn is the outcome of one input or timed resolution: output lines plus a
// descriptor of any timed prompt now awaiting the player.
type Turn struct {
	Lines []string     `json:"lines"`
	Timed *TimedPrompt `json:"timed,omitempty"`
}

// TimedPrompt describes an open timed prompt for the host. The core does
// not schedule the deadline itself; the host invokes ResolveTimed.
type TimedPrompt struct {
	ID       string    `json:"id"`
	Prompt   string    `json:"prompt"`
	Options  []string  `json:"options"`
	Deadline time.Time `json:"deadline"`
}

// StartNewGame creates a session at the starting scene. Any life-path
// selection happens through the content's opening menu.
func (e *Engine) StartNewGame(name, role string) (*Session, Turn, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, Turn{}, fmt.Errorf("a name is required")
	}
	s := &Session{eng: e, gs: NewGameState(name, role)}
	s.gs.SaveID = savecode.NewSaveID()

	var lines []string
	lines = append(lines, fmt.Sprintf("The year is 1349. %s comes to the ruin of Greyfriars priory.", name))
	s.enterScene(e.content.Start, &lines)

	slog.Info("new game started", "player", name, "role", s.gs.Role)
	return s, s.turn(lines), nil
}

// Resume restores a session from a save code. A bad or forged code is a
// recoverable failure, never a panic.
func (e *Engine) Resume(code string) (*Session, Turn, error) {
	id, ok := e.codec.Verify(savecode.TagSave, code)
	if !ok {
		return nil, Turn{}, fmt.Errorf("could not verify that save code")
	}
	body, ok, err := e.storage.Read("save/" + id)
	if err != nil {
		return nil, Turn{}, fmt.Errorf("read save: %w", err)
	}
	if !ok {
		return nil, Turn{}, fmt.Errorf("could not verify that save code")
	}

	gs := &GameState{}
	if err := json.Unmarshal(body, gs); err != nil {
		return nil, Turn{}, fmt.Errorf("decode save: %w", err)
	}
	s := &Session{eng: e, gs: gs}

	var lines []string
	lines = append(lines, fmt.Sprintf("Welcome back, %s.", gs.Name))
	lines = append(lines, fmt.Sprintf("Save mark: %s", savecode.Fingerprint(body)))
	s.reloadParty(&lines)
	if scene, ok := e.content.Scene(gs.Scene); ok {
		s.renderScene(scene, &lines)
	}
	if gs.ActiveMenu != "" {
		s.openMenu(gs.ActiveMenu, &lines)
	}

	slog.Info("game resumed", "player", gs.Name, "save", id)
	return s, s.turn(lines), nil
}

// HandleInput processes one free-text line according to the current state:
// menu mode, timed mode, or free command mode.
func (s *Session) HandleInput(text string) Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	var lines []string
	s.reloadParty(&lines)
	s.surfaceLore(&lines)

	parsed := intent.Parse(text)

	switch {
	case s.gs.ActiveTimed != "":
		// Resolution is a distinct operation; ordinary input is refused.
		lines = append(lines, "The moment presses — enter a number.")

	case s.gs.ActiveMenu != "":
		switch parsed.Kind {
		case intent.Numeric:
			s.chooseMenuOption(parsed.Choice, &lines)
		case intent.Save:
			s.doSave(&lines)
		default:
			lines = append(lines, "Choose a number, or save.")
		}

	default:
		s.dispatchCommand(parsed, &lines)
	}

	s.flushParty()
	return s.turn(lines)
}

// ResolveTimed settles an open timed prompt with a 1-based choice; any
// out-of-range choice (including the host's time's-up sentinel 0) falls to
// the virtue-weighted default. Time advances one segment either way.
func (s *Session) ResolveTimed(choice int) Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	var lines []string
	s.reloadParty(&lines)

	gs := s.gs
	if gs.ActiveTimed == "" {
		lines = append(lines, "No moment presses.")
		s.flushParty()
		return s.turn(lines)
	}

	timedID := gs.ActiveTimed
	def, ok := s.eng.content.TimedPrompt(timedID)
	if !ok {
		gs.ActiveTimed = ""
		lines = append(lines, "The moment passes without further choice.")
		s.flushParty()
		return s.turn(lines)
	}

	avail := availableOptions(gs, timedID, def.Options, false)

	var index int
	if choice >= 1 && choice <= len(avail) {
		index = avail[choice-1].Index
	} else {
		index = defaultTimedChoice(gs, def, avail)
		lines = append(lines, "You hesitate, and your nature chooses for you.")
	}

	gs.ActiveTimed = ""
	if index >= 0 && index < len(def.Options) {
		s.applyChosen(timedID, index, def.Options[index], false, &lines)
	}
	s.advanceTime(1, &lines)

	s.flushParty()
	return s.turn(lines)
}

// chooseMenuOption applies a numeric selection against the currently
// available option list. Malformed or out-of-range choices re-prompt and
// never consume game time.
func (s *Session) chooseMenuOption(choice int, out *[]string) {
	gs := s.gs
	menuID := gs.ActiveMenu
	menu, ok := s.lookupMenu(menuID)
	if !ok {
		gs.ActiveMenu = ""
		*out = append(*out, "The moment passes without further choice.")
		return
	}

	avail := availableOptions(gs, menuID, menu.Options, menu.Repeatable)
	if choice < 1 || choice > len(avail) {
		*out = append(*out, "That is not among the choices.")
		return
	}
	sel := avail[choice-1]

	// Clear the menu before effects run; effects may open a new one.
	gs.ActiveMenu = ""
	if s.ephemeral != nil && s.ephemeral.ID == menuID &&
		sel.Def.Effect.NextMenu == "" && len(sel.Def.Effect.GiveItems) > 0 {
		// A purchase keeps the stall open; leaving or routing away closes
		// it. The stall is rebuilt, not reused, so its stock reflects what
		// the player now holds.
		defer func() {
			if gs.ActiveMenu == "" && gs.ActiveTimed == "" {
				s.openShop(strings.TrimPrefix(menuID, "shop:"), out)
			}
		}()
	}

	s.applyChosen(menuID, sel.Index, sel.Def, menu.Repeatable, out)

	// Tasks absorb the segment's attention; everything else moves the day on.
	if sel.Def.Effect.Script == nil || sel.Def.Effect.Script.Kind != content.ScriptTask {
		s.advanceTime(1, out)
	}
}

// applyChosen applies an accepted option and records its one-shot marker.
func (s *Session) applyChosen(sourceID string, index int, opt content.OptionDef, menuRepeatable bool, out *[]string) {
	s.applyEffect(sourceID, opt.Text, opt.Effect, out)
	if isConsequential(opt, menuRepeatable) {
		s.gs.Chosen.Add(ChoiceKey{Menu: sourceID, Option: index})
	}
}

// dispatchCommand handles free commands in Idle mode.
func (s *Session) dispatchCommand(parsed intent.Parsed, out *[]string) {
	gs := s.gs
	switch parsed.Kind {
	case intent.Help:
		*out = append(*out,
			"You may: look, go <place>, talk <person>, examine <thing>, take <thing>,",
			"inventory, status, virtues, quests, rebuild, party, save, version, quit.")

	case intent.Look:
		if scene, ok := s.eng.content.Scene(gs.Scene); ok {
			s.renderScene(scene, out)
		} else {
			*out = append(*out, "A grey mist; there is nothing to see.")
		}

	case intent.Go:
		s.doGo(parsed.Target, out)

	case intent.Talk, intent.Examine, intent.Take:
		s.doAction(parsed, out)

	case intent.Inventory:
		if len(gs.Inventory) == 0 {
			*out = append(*out, "You carry nothing but your clothes.")
		} else {
			*out = append(*out, "You carry: "+joinList(gs.Inventory)+".")
		}

	case intent.Status:
		s.renderStatus(out)

	case intent.Virtues:
		s.renderVirtues(out)

	case intent.Quests:
		s.renderQuests(out)

	case intent.Rebuild:
		s.doRebuildCommand(parsed.Target, out)

	case intent.Party:
		s.doPartyCommand(parsed.Target, out)

	case intent.Save:
		s.doSave(out)

	case intent.Version:
		*out = append(*out, "Greyfriars "+s.eng.version)

	case intent.Quit:
		*out = append(*out, "Go with God. Your tale waits where you left it.")

	case intent.Numeric:
		*out = append(*out, "There is no question before you.")

	default:
		line := fmt.Sprintf("You cannot think how to %q here.", parsed.Verb)
		if parsed.Suggestion != "" {
			line += fmt.Sprintf(" Did you mean %q?", parsed.Suggestion)
		}
		*out = append(*out, line)
	}
}

// doGo resolves a movement target against the scene's exits. "back" and
// "outside" return to the previous scene when no exit matches. Movement
// advances narrative time by one segment.
func (s *Session) doGo(target string, out *[]string) {
	gs := s.gs
	if target == "" {
		*out = append(*out, "Go where?")
		return
	}
	scene, ok := s.eng.content.Scene(gs.Scene)
	if !ok {
		*out = append(*out, "The mist gives no direction.")
		return
	}

	if key, ok := intent.ResolveKey(target, intent.SortedKeys(scene.Exits)); ok {
		s.enterScene(scene.Exits[key], out)
		s.advanceTime(1, out)
		return
	}
	if (target == "back" || target == "outside") && gs.PrevScene != "" {
		s.enterScene(gs.PrevScene, out)
		s.advanceTime(1, out)
		return
	}
	*out = append(*out, "No way leads there from here.")
}

// doAction resolves talk/examine/take against the scene's action keys.
func (s *Session) doAction(parsed intent.Parsed, out *[]string) {
	gs := s.gs
	if parsed.Target == "" {
		switch parsed.Kind {
		case intent.Talk:
			*out = append(*out, "To whom?")
		case intent.Take:
			*out = append(*out, "Take what?")
		default:
			if scene, ok := s.eng.content.Scene(gs.Scene); ok {
				s.renderScene(scene, out)
			}
		}
		return
	}

	scene, ok := s.eng.content.Scene(gs.Scene)
	if !ok {
		*out = append(*out, "There is nothing here to act upon.")
		return
	}

	key, ok := intent.ResolveKey(parsed.Target, intent.SortedKeys(scene.Actions))
	if !ok {
		switch parsed.Kind {
		case intent.Talk:
			*out = append(*out, "No one of that description is here.")
		case intent.Take:
			*out = append(*out, "There is nothing of that kind to take.")
		default:
			*out = append(*out, "You see nothing remarkable in it.")
		}
		return
	}

	s.applyEffect("action:"+gs.Scene+"/"+key, "", scene.Actions[key], out)
}

// doRebuildCommand shows the works overview, or adjusts labor with
// "rebuild labor <brothers> <laborers> <volunteers>".
func (s *Session) doRebuildCommand(target string, out *[]string) {
	fields := strings.Fields(target)
	if len(fields) == 4 && fields[0] == "labor" {
		var pools [3]int
		okAll := true
		for i := 0; i < 3; i++ {
			n := 0
			if _, err := fmt.Sscanf(fields[i+1], "%d", &n); err != nil || n < 0 || n > 20 {
				okAll = false
				break
			}
			pools[i] = n
		}
		if !okAll {
			*out = append(*out, "Labor is set as: rebuild labor <brothers> <laborers> <volunteers>, each 0–20.")
			return
		}
		s.gs.Rebuild.Labor = LaborAllocation{Brothers: pools[0], Laborers: pools[1], Volunteers: pools[2]}
		*out = append(*out, fmt.Sprintf("The work rolls are redrawn: %d brothers, %d laborers, %d volunteers.",
			pools[0], pools[1], pools[2]))
		return
	}
	*out = append(*out, s.rebuildOverview()...)
}

// doSave writes the full state and hands the player a shareable code.
func (s *Session) doSave(out *[]string) {
	gs := s.gs
	if gs.SaveID == "" {
		gs.SaveID = savecode.NewSaveID()
	}
	body, err := gs.Snapshot()
	if err != nil {
		*out = append(*out, "The ink will not take; your progress could not be recorded.")
		slog.Error("snapshot failed", "player", gs.Name, "error", err)
		return
	}
	if err := s.eng.storage.Write("save/"+gs.SaveID, "save", body); err != nil {
		*out = append(*out, "The ink will not take; your progress could not be recorded.")
		slog.Error("save write failed", "player", gs.Name, "error", err)
		return
	}
	*out = append(*out,
		"Your tale is recorded. Keep this code:",
		"  "+s.eng.codec.Encode(savecode.TagSave, gs.SaveID),
		"Save mark: "+savecode.Fingerprint(body))
}

func (s *Session) renderStatus(out *[]string) {
	gs := s.gs
	*out = append(*out, fmt.Sprintf("%s the %s", gs.Name, gs.Role))
	if gs.LifePath != "" {
		*out = append(*out, "Life: "+gs.LifePath)
	}
	*out = append(*out, fmt.Sprintf("Purse: %dd. %s", gs.Coin, gs.timeLine()))
	stats := []string{StatFood, StatMorale, StatPiety, StatSecurity, StatRelations, StatTreasury}
	parts := make([]string, 0, len(stats))
	for _, st := range stats {
		parts = append(parts, fmt.Sprintf("%s %d", st, gs.Stats[st]))
	}
	*out = append(*out, "The priory: "+joinList(parts)+".")
}

func (s *Session) renderVirtues(out *[]string) {
	gs := s.gs
	virtues := []string{VirtueFaith, VirtueHope, VirtueCharity, VirtueFortitude, VirtueTemperance, VirtueHumility}
	parts := make([]string, 0, len(virtues))
	for _, v := range virtues {
		parts = append(parts, fmt.Sprintf("%s %d", v, gs.Virtues[v]))
	}
	*out = append(*out, "Your virtues: "+joinList(parts)+".")
}

func (s *Session) renderQuests(out *[]string) {
	gs := s.gs
	if len(gs.ActiveQuests) == 0 && len(gs.DoneQuests) == 0 {
		*out = append(*out, "No undertakings weigh on you.")
		return
	}
	for _, id := range sortedSet(gs.ActiveQuests) {
		title := id
		if q, ok := s.eng.content.Quest(id); ok {
			title = q.Title
		}
		*out = append(*out, "In hand: "+title)
	}
	for _, id := range sortedSet(gs.DoneQuests) {
		title := id
		if q, ok := s.eng.content.Quest(id); ok {
			title = q.Title
		}
		*out = append(*out, "Fulfilled: "+title)
	}
}

func sortedSet(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// turn assembles the Turn result, attaching a timed-prompt descriptor when
// one is open.
func (s *Session) turn(lines []string) Turn {
	t := Turn{Lines: lines}
	gs := s.gs
	if gs.ActiveTimed == "" {
		return t
	}
	def, ok := s.eng.content.TimedPrompt(gs.ActiveTimed)
	if !ok {
		return t
	}
	opts := make([]string, 0, len(def.Options))
	for _, opt := range availableOptions(gs, gs.ActiveTimed, def.Options, false) {
		opts = append(opts, opt.Def.Text)
	}
	t.Timed = &TimedPrompt{
		ID:       gs.ActiveTimed,
		Prompt:   def.Prompt,
		Options:  opts,
		Deadline: gs.TimedDeadline,
	}
	return t
}

// ── Party synchronization ─────────────────────────────────────────────

// reloadParty re-reads the party document at turn entry and re-aliases the
// session's shared fields to it, so this turn's writes land on the freshest
// view of the fellowship's state.
func (s *Session) reloadParty(out *[]string) {
	gs := s.gs
	if gs.PartyID == "" {
		return
	}
	ps, ok, err := s.eng.parties.Load(gs.PartyID)
	if err != nil || !ok {
		if err != nil {
			slog.Error("party reload failed", "party", gs.PartyID, "error", err)
		}
		*out = append(*out, "The fellowship's ledger cannot be found; you walk alone for now.")
		gs.PartyID = ""
		s.party = nil
		return
	}
	s.party = ps
	s.aliasToParty(ps)
}

// aliasToParty points the session's shared fields at the party document so
// any mutation this turn lands on the shared maps.
func (s *Session) aliasToParty(ps *party.State) {
	gs := s.gs
	gs.Stats = ps.Stats
	gs.Flags = ps.Flags
	gs.Counters = ps.Counters
	gs.ActiveQuests = ps.ActiveQuests
	gs.DoneQuests = ps.DoneQuests
}

// flushParty re-registers this member's roster entry and writes the whole
// document back at the end of a mutating turn. Last writer wins.
func (s *Session) flushParty() {
	if s.party == nil {
		return
	}
	s.party.Touch(s.gs.Name, s.gs.Scene, s.eng.now().UTC())
	if err := s.eng.parties.Save(s.party); err != nil {
		slog.Error("party save failed", "party", s.party.ID, "error", err)
	}
}

// appendLore adds a cross-party narrative notice and marks it seen by this
// session. Solo sessions keep no feed.
func (s *Session) appendLore(id, text string) {
	gs := s.gs
	if gs.SeenLore[id] {
		return
	}
	gs.SeenLore[id] = true
	if s.party == nil {
		return
	}
	s.party.AppendLore(party.LoreEvent{
		ID:   id,
		Day:  gs.Day,
		Text: text,
		By:   gs.Name,
		At:   s.eng.now().UTC(),
	})
}

// surfaceLore prints feed entries this session has not yet seen.
func (s *Session) surfaceLore(out *[]string) {
	if s.party == nil {
		return
	}
	for _, ev := range s.party.Lore {
		if s.gs.SeenLore[ev.ID] {
			continue
		}
		s.gs.SeenLore[ev.ID] = true
		*out = append(*out, "Word reaches you: "+ev.Text)
	}
}

// doPartyCommand handles "party", "party found", "party join <code>", and
// "party leave".
func (s *Session) doPartyCommand(target string, out *[]string) {
	gs := s.gs
	fields := strings.Fields(target)

	switch {
	case len(fields) == 0:
		s.renderParty(out)

	case fields[0] == "found" || fields[0] == "create":
		if gs.PartyID != "" {
			*out = append(*out, "You already walk with a fellowship.")
			return
		}
		ps, err := s.eng.parties.Create(gs.Stats, gs.Counters, gs.Flags, gs.ActiveQuests, gs.DoneQuests)
		if err != nil {
			slog.Error("party create failed", "error", err)
			*out = append(*out, "The ledger cannot be opened; no fellowship today.")
			return
		}
		gs.PartyID = ps.ID
		s.party = ps
		*out = append(*out,
			"A fellowship is founded. Share this code:",
			"  "+s.eng.codec.Encode(savecode.TagParty, ps.ID))

	case fields[0] == "join" && len(fields) >= 2:
		s.joinParty(fields[1], out)

	case fields[0] == "leave":
		if gs.PartyID == "" {
			*out = append(*out, "You walk alone already.")
			return
		}
		s.flushParty()
		// Departing keeps a private copy of the shared state.
		gs.Stats = copyIntMap(gs.Stats)
		gs.Flags = copyBoolMap(gs.Flags)
		gs.Counters = copyIntMap(gs.Counters)
		gs.ActiveQuests = copyBoolMap(gs.ActiveQuests)
		gs.DoneQuests = copyBoolMap(gs.DoneQuests)
		gs.PartyID = ""
		s.party = nil
		*out = append(*out, "You take your leave of the fellowship.")

	default:
		*out = append(*out, "You may: party, party found, party join <code>, party leave.")
	}
}

// joinParty verifies a code and adopts the fellowship's shared state.
func (s *Session) joinParty(code string, out *[]string) {
	gs := s.gs
	if gs.PartyID != "" {
		*out = append(*out, "You already walk with a fellowship.")
		return
	}
	id, ok := s.eng.codec.Verify(savecode.TagParty, code)
	if !ok {
		*out = append(*out, "That fellowship code could not be verified.")
		return
	}
	ps, ok, err := s.eng.parties.Load(id)
	if err != nil || !ok {
		if err != nil {
			slog.Error("party load failed", "party", id, "error", err)
		}
		*out = append(*out, "That fellowship code could not be verified.")
		return
	}
	if admitted, reason := party.Admit(ps, gs.Name); !admitted {
		*out = append(*out, "You cannot join: "+reason+".")
		return
	}
	gs.PartyID = id
	s.party = ps
	s.aliasToParty(ps)
	*out = append(*out, fmt.Sprintf("You join the fellowship (%d members walk with you).", len(ps.Members)))
	s.appendLore("join-"+gs.Name, fmt.Sprintf("%s has joined the fellowship.", gs.Name))
}

func (s *Session) renderParty(out *[]string) {
	ov, ok := s.PartyOverviewLocked()
	if !ok {
		*out = append(*out, "You walk alone. Found a fellowship with: party found.")
		return
	}
	*out = append(*out, "Your fellowship ("+ov.Code+"):")
	for _, m := range ov.Members {
		*out = append(*out, fmt.Sprintf("  %s — %s, seen %s", m.Name, m.Scene, m.LastSeenAge))
	}
}

func copyIntMap(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyBoolMap(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ── Read-only accessors ───────────────────────────────────────────────

// PlayerOverview is the read-only view of a session's character.
type PlayerOverview struct {
	Name      string   `json:"name"`
	Role      string   `json:"role"`
	LifePath  string   `json:"life_path,omitempty"`
	Coin      int      `json:"coin"`
	Inventory []string `json:"inventory"`
}

// PlayerOverview returns the character sheet. Calling it twice without
// intervening input returns identical data.
func (s *Session) PlayerOverview() PlayerOverview {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs := s.gs
	inv := make([]string, len(gs.Inventory))
	copy(inv, gs.Inventory)
	return PlayerOverview{
		Name:      gs.Name,
		Role:      gs.Role,
		LifePath:  gs.LifePath,
		Coin:      gs.Coin,
		Inventory: inv,
	}
}

// PartyMemberView is one roster line of the party overview.
type PartyMemberView struct {
	Name        string `json:"name"`
	Scene       string `json:"scene"`
	LastSeenAge string `json:"last_seen"`
}

// PartyOverview is the read-only view of a session's fellowship.
type PartyOverview struct {
	Code    string            `json:"code"`
	Members []PartyMemberView `json:"members"`
}

// PartyOverview returns the fellowship view, reporting ok=false when solo.
func (s *Session) PartyOverview() (PartyOverview, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.PartyOverviewLocked()
}

// PartyOverviewLocked is PartyOverview for callers already holding the
// session lock.
func (s *Session) PartyOverviewLocked() (PartyOverview, bool) {
	gs := s.gs
	if gs.PartyID == "" || s.party == nil {
		return PartyOverview{}, false
	}
	ov := PartyOverview{Code: s.eng.codec.Encode(savecode.TagParty, gs.PartyID)}
	for _, name := range sortedMemberNames(s.party.Members) {
		m := s.party.Members[name]
		ov.Members = append(ov.Members, PartyMemberView{
			Name:        name,
			Scene:       m.Scene,
			LastSeenAge: humanize.Time(m.LastSeen),
		})
	}
	return ov, true
}

func sortedMemberNames(members map[string]party.Member) []string {
	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
