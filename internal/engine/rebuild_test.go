package engine

import "testing"

func TestStartRebuildRejectsPartialAffordability(t *testing.T) {
	s := newTestSession(t, 1)
	s.gs.Coin = 30
	s.gs.Inventory = []string{"Logs"} // one short of the required two

	var lines []string
	if s.startRebuildProject("dormitory", &lines) {
		t.Fatal("started without full materials")
	}
	if s.gs.Coin != 30 {
		t.Fatalf("coin = %d, want 30 untouched on rejection", s.gs.Coin)
	}
	if s.gs.CountItem("Logs") != 1 {
		t.Fatal("materials consumed on rejection")
	}
	if s.gs.Rebuild.Project != nil {
		t.Fatal("project set on rejection")
	}
}

func TestStartRebuildRejectsInsufficientCoin(t *testing.T) {
	s := newTestSession(t, 1)
	s.gs.Coin = 19
	s.gs.Inventory = []string{"Logs", "Logs"}

	var lines []string
	if s.startRebuildProject("dormitory", &lines) {
		t.Fatal("started without full coin")
	}
	if s.gs.Coin != 19 || s.gs.CountItem("Logs") != 2 {
		t.Fatal("cost partially deducted on rejection")
	}
}

func TestStartRebuildDeductsFullCost(t *testing.T) {
	s := newTestSession(t, 1)
	s.gs.Coin = 30
	s.gs.Inventory = []string{"Logs", "Logs"}

	var lines []string
	if !s.startRebuildProject("dormitory", &lines) {
		t.Fatalf("start refused: %v", lines)
	}
	if s.gs.Coin != 10 {
		t.Fatalf("coin = %d, want 10", s.gs.Coin)
	}
	if s.gs.CountItem("Logs") != 0 {
		t.Fatal("materials not consumed")
	}
	proj := s.gs.Rebuild.Project
	if proj == nil || proj.NodeID != "dormitory" || proj.TargetLevel != 1 || proj.DaysLeft != 3 {
		t.Fatalf("project = %+v", proj)
	}
}

func TestStartRebuildRefusesSecondProject(t *testing.T) {
	s := newTestSession(t, 1)
	s.gs.Coin = 60
	s.gs.Inventory = []string{"Logs", "Logs"}

	var lines []string
	if !s.startRebuildProject("dormitory", &lines) {
		t.Fatalf("first start refused: %v", lines)
	}
	if s.startRebuildProject("dormitory", &lines) {
		t.Fatal("second concurrent project accepted")
	}
}

func TestProjectCompletionAppliesScoresAndUnlocks(t *testing.T) {
	s := newTestSession(t, 1)
	s.gs.Coin = 30
	s.gs.Inventory = []string{"Logs", "Logs"}
	s.gs.Rebuild.Labor = LaborAllocation{Brothers: 3}

	var lines []string
	if !s.startRebuildProject("dormitory", &lines) {
		t.Fatalf("start refused: %v", lines)
	}

	stability := s.gs.Rebuild.Scores[ScoreStability]
	for i := 0; i < 3; i++ {
		if s.gs.Rebuild.Project == nil {
			t.Fatalf("project finished early on day %d", i)
		}
		s.advanceProject(&lines)
	}

	if s.gs.Rebuild.Project != nil {
		t.Fatalf("project still open: %+v", s.gs.Rebuild.Project)
	}
	if s.gs.Rebuild.NodeLevels["dormitory"] != 1 {
		t.Fatalf("node level = %d, want 1", s.gs.Rebuild.NodeLevels["dormitory"])
	}
	if got := s.gs.Rebuild.Scores[ScoreStability]; got != stability+2 {
		t.Fatalf("stability = %d, want %d", got, stability+2)
	}
	if !s.gs.HasFlag("dorm_restored") {
		t.Fatal("unlock flag not set")
	}
	want := 5 + s.gs.Rebuild.Scores[ScoreHospitality]/2
	if s.gs.Rebuild.VisitorCapacity != want {
		t.Fatalf("capacity = %d, want %d", s.gs.Rebuild.VisitorCapacity, want)
	}
}

func TestFullyRestoredNodeRefusesFurtherWork(t *testing.T) {
	s := newTestSession(t, 1)
	s.gs.Coin = 100
	s.gs.Inventory = []string{"Logs", "Logs"}
	s.gs.Rebuild.NodeLevels["dormitory"] = 1

	var lines []string
	if s.startRebuildProject("dormitory", &lines) {
		t.Fatal("work started past the top level")
	}
}

func TestEffectiveLaborWeightsAndStress(t *testing.T) {
	rb := &RebuildState{
		Scores: map[string]int{ScoreEconomy: 10},
		Labor:  LaborAllocation{Brothers: 2, Laborers: 5, Volunteers: 4},
	}
	// 2*1.0 + 5*0.8 + 4*0.5 + 10/10 = 9.0
	if got := effectiveLabor(rb); got != 9.0 {
		t.Fatalf("effectiveLabor = %v, want 9.0", got)
	}

	rb.Stress = 4
	if got := effectiveLabor(rb); got != 7.0 {
		t.Fatalf("effectiveLabor under stress = %v, want 7.0", got)
	}

	rb.Labor = LaborAllocation{}
	rb.Stress = 10
	if got := effectiveLabor(rb); got != 0 {
		t.Fatalf("effectiveLabor = %v, want floor of 0", got)
	}
}

func TestVisitorEconomyIsDeterministic(t *testing.T) {
	s := newTestSession(t, 1)
	rb := &s.gs.Rebuild
	rb.Scores[ScoreHospitality] = 20
	rb.Scores[ScoreSanctity] = 20
	s.gs.Stats[StatRelations] = 40
	rb.VisitorCapacity = 5
	s.gs.Virtues[VirtueCharity] = 15

	coin := s.gs.Coin
	var lines []string
	s.visitorEconomy(&lines)

	// flow = (20+20+20)/8 = 7, capped at capacity 5; per visitor 2 + 15/15 = 3.
	if rb.VisitorsToday != 5 {
		t.Fatalf("visitors = %d, want 5", rb.VisitorsToday)
	}
	if s.gs.Coin != coin+15 {
		t.Fatalf("coin = %d, want %d", s.gs.Coin, coin+15)
	}
	if rb.DonationTotal != 15 || s.gs.Counters["donations_received"] != 15 {
		t.Fatalf("donation tallies = %d / %d, want 15", rb.DonationTotal, s.gs.Counters["donations_received"])
	}
}

func TestRebuildLaborCommand(t *testing.T) {
	s := newTestSession(t, 1)

	s.HandleInput("rebuild labor 3 2 1")
	want := LaborAllocation{Brothers: 3, Laborers: 2, Volunteers: 1}
	if s.gs.Rebuild.Labor != want {
		t.Fatalf("labor = %+v, want %+v", s.gs.Rebuild.Labor, want)
	}

	// Out-of-range pools are rejected whole.
	s.HandleInput("rebuild labor 3 2 99")
	if s.gs.Rebuild.Labor != want {
		t.Fatalf("labor overwritten by invalid allocation: %+v", s.gs.Rebuild.Labor)
	}
}
