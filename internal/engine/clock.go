package engine

import "fmt"

// advanceTime moves the calendar forward by n segments, firing the layered
// day and week hooks in order as boundaries are crossed. Advancing N
// segments is exactly equivalent to advancing one segment N times.
func (s *Session) advanceTime(n int, out *[]string) {
	for i := 0; i < n; i++ {
		s.gs.Segment++
		if s.gs.Segment < segmentsPerDay {
			continue
		}
		s.gs.Segment = Matins
		s.gs.Day++
		s.dayTick(out)
		if s.gs.Day%7 == 0 {
			s.weeklyBeat(out)
		}
	}
}

// dayTick runs once per day boundary: daily attrition, labor-stress
// movement, and the rebuild scheduler.
func (s *Session) dayTick(out *[]string) {
	gs := s.gs

	// Exactly one food decrement per day crossing.
	gs.AdjustStat(StatFood, -1)
	if gs.Stats[StatFood] <= 10 {
		*out = append(*out, "The larder grows thin. The brothers eat in silence.")
		gs.AdjustStat(StatMorale, -1)
	}

	// Overworked hands accrue stress; an idle day eases it.
	if gs.Rebuild.Labor.Total() > 10 {
		gs.Rebuild.Stress++
	} else if gs.Rebuild.Stress > 0 {
		gs.Rebuild.Stress--
	}

	s.rebuildDailyTick(out)
}

// weeklyBeat fires exactly when day % 7 == 0: the Sunday observance and its
// small drift on priory stats.
func (s *Session) weeklyBeat(out *[]string) {
	gs := s.gs
	gs.AdjustStat(StatPiety, 1)
	gs.AdjustStat(StatMorale, 1)
	*out = append(*out, fmt.Sprintf(
		"Sunday. Bells call the faithful to Mass; the week turns on day %d.", gs.Day))
	s.appendLore(fmt.Sprintf("week-%d", gs.Day/7),
		fmt.Sprintf("%s kept the Sunday observance.", gs.Name))
}

// timeLine renders the current calendar position.
func (gs *GameState) timeLine() string {
	return fmt.Sprintf("Day %d, %s.", gs.Day, gs.Segment)
}
