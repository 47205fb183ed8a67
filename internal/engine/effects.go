package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/aldersgate/greyfriars/internal/content"
)

// applyEffect runs an effect payload as an ordered, non-transactional
// sequence. Gating has already guaranteed legality; there is no rollback.
// source scopes the once-only virtue grant; optText distinguishes options
// within the same source.
func (s *Session) applyEffect(source, optText string, e content.Effect, out *[]string) {
	gs := s.gs

	if e.Text != "" {
		*out = append(*out, e.Text)
	}

	// Virtue deltas are granted at most once per (source, option text).
	if len(e.Virtues) > 0 {
		key := GrantKey{Source: source, Option: optText}
		if !gs.Granted.Contains(key) {
			gs.Granted.Add(key)
			for virtue, delta := range e.Virtues {
				gs.Virtues[virtue] += delta
			}
		}
	}

	for stat, delta := range e.Stats {
		gs.AdjustStat(stat, delta)
	}
	for counter, delta := range e.Counters {
		gs.Counters[counter] += delta
	}

	for _, flag := range e.SetFlags {
		if gs.SetFlag(flag) {
			s.appendLore("flag-"+flag, fmt.Sprintf("Word spreads: %s.", flagNotice(flag)))
		}
	}
	for _, flag := range e.ClearFlags {
		gs.ClearFlag(flag)
	}

	gs.Coin += e.Coin

	for _, item := range e.GiveItems {
		if gs.AddItem(item) {
			*out = append(*out, fmt.Sprintf("You now carry: %s.", item))
		}
	}
	for _, item := range e.TakeItems {
		gs.RemoveItem(item)
	}

	if e.StartQuest != "" {
		s.startQuest(e.StartQuest, out)
	}
	if e.CompleteQuest != "" {
		s.completeQuest(e.CompleteQuest, out)
	}
	if e.LifePath != "" {
		s.adoptLifePath(e.LifePath, out)
	}

	if e.Script != nil {
		s.runScript(*e.Script, out)
	}

	if e.NextScene != "" {
		s.enterScene(e.NextScene, out)
	}
	if e.NextMenu != "" {
		s.openMenu(e.NextMenu, out)
	}
	if e.NextTimed != "" {
		s.armTimed(e.NextTimed, out)
	}
}

// flagNotice renders a flag name as prose for the lore feed.
func flagNotice(flag string) string {
	return fmt.Sprintf("it is said that %q has come to pass", flag)
}

// adoptLifePath applies a life path's starting deltas: virtues, a coin roll
// within the path's inclusive range, and starter items (granted once each,
// even if the path lists duplicates).
func (s *Session) adoptLifePath(id string, out *[]string) {
	gs := s.gs
	path, ok := s.eng.content.LifePath(id)
	if !ok {
		*out = append(*out, "That life is not open to you.")
		return
	}

	gs.LifePath = path.Label
	for virtue, delta := range path.Virtues {
		gs.Virtues[virtue] += delta
	}

	span := path.CoinMax - path.CoinMin
	if span < 0 {
		span = 0
	}
	gs.Coin = path.CoinMin + s.eng.rng.Intn(span+1)

	for _, item := range path.Items {
		gs.AddItem(item)
	}

	*out = append(*out, fmt.Sprintf("You take up the life of %s, with %dd to your name.", path.Label, gs.Coin))
	if path.IntroMenu != "" {
		s.openMenu(path.IntroMenu, out)
	}
}

// startQuest begins a quest if its party requirements are met.
func (s *Session) startQuest(id string, out *[]string) {
	gs := s.gs
	quest, ok := s.eng.content.Quest(id)
	if !ok {
		return
	}
	if gs.ActiveQuests[id] || gs.DoneQuests[id] {
		return
	}
	size := 1
	if s.party != nil {
		size = len(s.party.Members)
		if size == 0 {
			size = 1
		}
	}
	if quest.MinPartySize > size {
		*out = append(*out, fmt.Sprintf("%q needs a fellowship of %d.", quest.Title, quest.MinPartySize))
		return
	}
	if quest.PartySynced && s.party == nil {
		*out = append(*out, fmt.Sprintf("%q must be undertaken together with a fellowship.", quest.Title))
		return
	}
	gs.ActiveQuests[id] = true
	*out = append(*out, fmt.Sprintf("Quest undertaken: %s.", quest.Title))
	s.appendLore("quest-start-"+id, fmt.Sprintf("%s undertook %q.", gs.Name, quest.Title))
}

// completeQuest moves an active quest to completed.
func (s *Session) completeQuest(id string, out *[]string) {
	gs := s.gs
	if !gs.ActiveQuests[id] {
		return
	}
	delete(gs.ActiveQuests, id)
	gs.DoneQuests[id] = true
	title := id
	if quest, ok := s.eng.content.Quest(id); ok {
		title = quest.Title
	}
	*out = append(*out, fmt.Sprintf("Quest fulfilled: %s.", title))
	s.appendLore("quest-done-"+id, fmt.Sprintf("%s fulfilled %q.", gs.Name, title))
}

// enterScene moves the player and renders the destination, opening any
// linked menu or arming any linked timed prompt. A dangling scene id leaves
// the player where they stand.
func (s *Session) enterScene(id string, out *[]string) {
	gs := s.gs
	scene, ok := s.eng.content.Scene(id)
	if !ok {
		*out = append(*out, "The way is barred; you remain where you are.")
		return
	}
	if gs.Scene != id {
		gs.PrevScene = gs.Scene
	}
	gs.Scene = id
	// A move discards any pending menu or timed prompt without side effects.
	gs.ActiveMenu = ""
	gs.ActiveTimed = ""
	s.ephemeral = nil

	s.renderScene(scene, out)

	if scene.Menu != "" {
		s.openMenu(scene.Menu, out)
	}
	if scene.Timed != "" {
		s.armTimed(scene.Timed, out)
	}
	if scene.ChapterEnd {
		*out = append(*out, "— Here ends a chapter of the priory's story. —")
	}
}

// renderScene prints a scene's text, exits, and actions.
func (s *Session) renderScene(scene content.SceneDef, out *[]string) {
	if scene.Title != "" {
		*out = append(*out, scene.Title)
	}
	*out = append(*out, scene.Text)
	if len(scene.Exits) > 0 {
		names := make([]string, 0, len(scene.Exits))
		for name := range scene.Exits {
			names = append(names, name)
		}
		sort.Strings(names)
		*out = append(*out, "Ways from here: "+joinList(names)+".")
	}
	*out = append(*out, s.gs.timeLine())
}

// openMenu activates a menu and renders it. A dangling menu id clears the
// active menu and emits a continuation line instead of failing.
func (s *Session) openMenu(id string, out *[]string) {
	gs := s.gs
	menu, ok := s.lookupMenu(id)
	if !ok {
		gs.ActiveMenu = ""
		*out = append(*out, "The moment passes without further choice.")
		return
	}

	avail := availableOptions(gs, id, menu.Options, menu.Repeatable)
	if len(avail) == 0 {
		gs.ActiveMenu = ""
		*out = append(*out, "Nothing more remains to be decided here.")
		return
	}

	gs.ActiveMenu = id
	if menu.Title != "" {
		*out = append(*out, menu.Title)
	}
	if menu.Flavor != "" {
		*out = append(*out, fmt.Sprintf("%s It is %s of day %d.", menu.Flavor, gs.Segment, gs.Day))
	}
	for i, opt := range avail {
		*out = append(*out, fmt.Sprintf("  %d. %s", i+1, opt.Def.Text))
	}
}

// armTimed activates a timed prompt with a wall-clock deadline. The core
// never schedules the resolution itself; the host calls ResolveTimed.
func (s *Session) armTimed(id string, out *[]string) {
	gs := s.gs
	def, ok := s.eng.content.TimedPrompt(id)
	if !ok {
		gs.ActiveTimed = ""
		*out = append(*out, "The moment passes without further choice.")
		return
	}
	gs.ActiveTimed = id
	gs.TimedDeadline = s.eng.now().Add(time.Duration(def.DeadlineSeconds) * time.Second)

	*out = append(*out, def.Prompt)
	for i, opt := range availableOptions(gs, id, def.Options, false) {
		*out = append(*out, fmt.Sprintf("  %d. %s", i+1, opt.Def.Text))
	}
}

// lookupMenu resolves a menu id, checking the session's ephemeral menu
// (shops build one at runtime) before the content library.
func (s *Session) lookupMenu(id string) (content.MenuDef, bool) {
	if s.ephemeral != nil && s.ephemeral.ID == id {
		return *s.ephemeral, true
	}
	return s.eng.content.Menu(id)
}

func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	out := items[0]
	for _, item := range items[1:] {
		out += ", " + item
	}
	return out
}
