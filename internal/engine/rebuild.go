package engine

import (
	"fmt"
	"sort"
	"strings"
)

// Labor pool weights: brothers know the priory, hired laborers know the
// trade, volunteers carry what they can.
const (
	laborWeightBrothers   = 1.0
	laborWeightLaborers   = 0.8
	laborWeightVolunteers = 0.5

	delayChance = 0.35 // chance a short-handed day slips the schedule
)

// effectiveLabor is the weighted pool sum plus an economy-score bonus,
// reduced by accumulated stress.
func effectiveLabor(rb *RebuildState) float64 {
	labor := float64(rb.Labor.Brothers)*laborWeightBrothers +
		float64(rb.Labor.Laborers)*laborWeightLaborers +
		float64(rb.Labor.Volunteers)*laborWeightVolunteers +
		float64(rb.Scores[ScoreEconomy])/10
	labor -= 0.5 * float64(rb.Stress)
	if labor < 0 {
		labor = 0
	}
	return labor
}

// rebuildDailyTick runs the construction/economy sub-game once per day:
// project progress, then visitor flow and donations, then the incident roll.
func (s *Session) rebuildDailyTick(out *[]string) {
	gs := s.gs
	rb := &gs.Rebuild

	if rb.Project != nil {
		s.advanceProject(out)
	}

	s.visitorEconomy(out)

	if rb.Project != nil {
		s.incidentRoll(out)
	}
}

// advanceProject moves the active project one day, finalizing it the same
// tick its remaining days reach zero; they never go below zero.
func (s *Session) advanceProject(out *[]string) {
	gs := s.gs
	rb := &gs.Rebuild
	proj := rb.Project

	if effectiveLabor(rb) >= float64(proj.LaborPerDay) {
		proj.DaysLeft--
	} else if s.eng.rng.Float() < delayChance {
		proj.DaysLeft++
		*out = append(*out, "Too few hands on the works today; the schedule slips.")
	}

	if proj.DaysLeft > 0 {
		return
	}

	node, ok := s.eng.content.RebuildNode(proj.NodeID)
	if !ok {
		// Content changed under a saved project. Drop it rather than crash.
		rb.Project = nil
		*out = append(*out, "The works stand finished, though no record remains of what was planned.")
		return
	}
	level, _ := node.NodeLevel(proj.TargetLevel)

	rb.NodeLevels[proj.NodeID] = proj.TargetLevel
	for score, delta := range level.Scores {
		rb.Scores[score] += delta
	}
	for _, flag := range level.Unlocks {
		if gs.SetFlag(flag) {
			s.appendLore("unlock-"+flag, fmt.Sprintf("The %s now stands at level %d.", node.Name, proj.TargetLevel))
		}
	}
	rb.Project = nil
	rb.VisitorCapacity = 5 + rb.Scores[ScoreHospitality]/2
	*out = append(*out, fmt.Sprintf("The %s is complete — it now stands at level %d.", node.Name, proj.TargetLevel))
}

// visitorEconomy computes the day's visitor flow and the donations they
// leave. Flow depends on hospitality, sanctity, and the priory's standing;
// generosity depends on the player's quieter virtues.
func (s *Session) visitorEconomy(out *[]string) {
	gs := s.gs
	rb := &gs.Rebuild

	flow := (rb.Scores[ScoreHospitality] + rb.Scores[ScoreSanctity] + gs.Stats[StatRelations]/2) / 8
	if flow < 0 {
		flow = 0
	}
	if flow > rb.VisitorCapacity {
		flow = rb.VisitorCapacity
	}
	rb.VisitorsToday = flow
	if flow == 0 {
		return
	}

	perVisitor := 2 + (gs.Virtues[VirtueHumility]+gs.Virtues[VirtueTemperance]+gs.Virtues[VirtueCharity])/15
	if perVisitor < 1 {
		perVisitor = 1
	}
	donation := flow * perVisitor
	gs.Coin += donation
	rb.DonationTotal += donation
	gs.Counters["donations_received"] += donation
	*out = append(*out, fmt.Sprintf("%d visitors pass the gate and leave %dd in alms.", flow, donation))
}

// incidentRoll checks the day's d20 against a risk target derived from
// defense, stability, and temperance. On a hit one of three complications
// strikes the works.
func (s *Session) incidentRoll(out *[]string) {
	gs := s.gs
	rb := &gs.Rebuild
	proj := rb.Project

	risk := 6 - (rb.Scores[ScoreDefense]+rb.Scores[ScoreStability])/25 - gs.Virtues[VirtueTemperance]/4
	if risk < 1 {
		risk = 1
	}
	if s.eng.rng.Roll(20) > risk {
		return
	}

	switch s.eng.rng.Intn(3) {
	case 0:
		// Spoiled materials: consume a held material, else lose a day.
		if item := s.firstHeldMaterial(proj); item != "" {
			gs.RemoveItem(item)
			*out = append(*out, fmt.Sprintf("Rot is found in the stores; a measure of %s is spent making good.", item))
		} else {
			proj.DaysLeft++
			*out = append(*out, "Rot is found in the stores and there is nothing to replace it. A day is lost.")
		}
	case 1:
		// The masons demand payment, or down tools.
		const demand = 5
		if gs.Coin >= demand {
			gs.Coin -= demand
			*out = append(*out, fmt.Sprintf("The masons grumble over wages; %dd quiets them.", demand))
		} else {
			rb.Stress++
			proj.DaysLeft++
			*out = append(*out, "The masons down tools over wages. Tempers fray and a day is lost.")
		}
	default:
		// An inspection by the archdeacon's men.
		if s.eng.rng.Roll(20)+rb.Scores[ScoreScholarship]/5 >= 10 {
			*out = append(*out, "The archdeacon's men inspect the works and find them sound.")
		} else {
			proj.DaysLeft++
			*out = append(*out, "The archdeacon's men fault the works; a day goes to corrections.")
		}
	}
}

// firstHeldMaterial returns the first of the project's required materials
// present in inventory, if any.
func (s *Session) firstHeldMaterial(proj *ActiveProject) string {
	node, ok := s.eng.content.RebuildNode(proj.NodeID)
	if !ok {
		return ""
	}
	level, ok := node.NodeLevel(proj.TargetLevel)
	if !ok {
		return ""
	}
	names := make([]string, 0, len(level.Materials))
	for name := range level.Materials {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if s.gs.HasItem(name) {
			return name
		}
	}
	return ""
}

// startRebuildProject validates and starts the next level of a node.
// Affordability is verified in full before any deduction: a partial ability
// to pay rejects the whole transaction.
func (s *Session) startRebuildProject(nodeID string, out *[]string) bool {
	gs := s.gs
	rb := &gs.Rebuild

	if rb.Project != nil {
		node, _ := s.eng.content.RebuildNode(rb.Project.NodeID)
		*out = append(*out, fmt.Sprintf("Work on the %s is already underway.", node.Name))
		return false
	}

	node, ok := s.eng.content.RebuildNode(nodeID)
	if !ok {
		*out = append(*out, "No such part of the priory is marked for rebuilding.")
		return false
	}

	target := rb.NodeLevels[nodeID] + 1
	level, ok := node.NodeLevel(target)
	if !ok {
		*out = append(*out, fmt.Sprintf("The %s is already fully restored.", node.Name))
		return false
	}

	for reqNode, minLevel := range node.Requires {
		if rb.NodeLevels[reqNode] < minLevel {
			req, _ := s.eng.content.RebuildNode(reqNode)
			name := req.Name
			if name == "" {
				name = reqNode
			}
			*out = append(*out, fmt.Sprintf("The %s must first reach level %d.", name, minLevel))
			return false
		}
	}
	for score, min := range node.MinScores {
		if rb.Scores[score] < min {
			*out = append(*out, fmt.Sprintf("The priory's %s is not yet sufficient (%d needed).", score, min))
			return false
		}
	}

	// Verify the whole cost before touching coin or stores.
	if gs.Coin < level.CoinCost {
		*out = append(*out, fmt.Sprintf("The work needs %dd and the purse holds %dd.", level.CoinCost, gs.Coin))
		return false
	}
	for material, count := range level.Materials {
		if gs.CountItem(material) < count {
			*out = append(*out, fmt.Sprintf("The work needs %d %s; you hold %d.", count, strings.ToLower(material), gs.CountItem(material)))
			return false
		}
	}

	gs.Coin -= level.CoinCost
	for material, count := range level.Materials {
		for i := 0; i < count; i++ {
			gs.RemoveItem(material)
		}
	}
	rb.Project = &ActiveProject{
		NodeID:      nodeID,
		TargetLevel: target,
		DaysLeft:    level.Days,
		LaborPerDay: level.LaborPerDay,
	}
	*out = append(*out, fmt.Sprintf("Work begins on the %s (level %d): %d days, %d hands a day.",
		node.Name, target, level.Days, level.LaborPerDay))
	s.appendLore("works-"+nodeID+"-"+fmt.Sprint(target),
		fmt.Sprintf("%s set work going on the %s.", gs.Name, node.Name))
	return true
}

// rebuildOverview renders the sub-game status for the rebuild command.
func (s *Session) rebuildOverview() []string {
	rb := &s.gs.Rebuild
	lines := []string{"The rebuilding of the priory:"}

	scores := []string{ScoreStability, ScoreDefense, ScoreHospitality, ScoreSanctity, ScoreScholarship, ScoreEconomy}
	parts := make([]string, 0, len(scores))
	for _, sc := range scores {
		parts = append(parts, fmt.Sprintf("%s %d", sc, rb.Scores[sc]))
	}
	lines = append(lines, "  "+strings.Join(parts, ", "))
	lines = append(lines, fmt.Sprintf("  Labor: %d brothers, %d laborers, %d volunteers (stress %d)",
		rb.Labor.Brothers, rb.Labor.Laborers, rb.Labor.Volunteers, rb.Stress))
	lines = append(lines, fmt.Sprintf("  Visitors today: %d of %d. Lifetime alms: %dd.",
		rb.VisitorsToday, rb.VisitorCapacity, rb.DonationTotal))

	if rb.Project != nil {
		node, _ := s.eng.content.RebuildNode(rb.Project.NodeID)
		lines = append(lines, fmt.Sprintf("  Underway: %s to level %d, %d days remain.",
			node.Name, rb.Project.TargetLevel, rb.Project.DaysLeft))
	} else {
		lines = append(lines, "  No work is currently underway.")
	}

	for _, id := range sortedNodeIDs(s) {
		node, _ := s.eng.content.RebuildNode(id)
		lines = append(lines, fmt.Sprintf("  %s: level %d of %d", node.Name, rb.NodeLevels[id], len(node.Levels)))
	}
	return lines
}

func sortedNodeIDs(s *Session) []string {
	ids := make([]string, 0, len(s.eng.content.Rebuild))
	for id := range s.eng.content.Rebuild {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
