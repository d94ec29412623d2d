package game

import (
	"errors"
	"testing"

	"lifesim/internal/catalog"
)

func TestNewPlayerDefaults(t *testing.T) {
	p := NewPlayer("Alex", "apartment")
	if p.Day != 1 {
		t.Fatalf("day got %d want 1", p.Day)
	}
	if p.Cash != StarterCash {
		t.Fatalf("cash got %v want %v", p.Cash, StarterCash)
	}
	if len(p.Stats) != len(StatNames) {
		t.Fatalf("stats got %v want the fixed set %v", p.Stats, StatNames)
	}
	if err := p.ValidateAgainst(catalog.Builtin()); err != nil {
		t.Fatalf("fresh player should validate: %v", err)
	}
}

func TestStatClamping(t *testing.T) {
	p := NewPlayer("Alex", "apartment")

	if err := p.AdjustStat(StatMood, 1000); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if p.Stats[StatMood] != StatMax {
		t.Fatalf("mood got %d want %d", p.Stats[StatMood], StatMax)
	}
	if err := p.AdjustStat(StatMood, -1000); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if p.Stats[StatMood] != StatMin {
		t.Fatalf("mood got %d want %d", p.Stats[StatMood], StatMin)
	}
	if err := p.AdjustStat("Charisma", 5); !errors.Is(err, ErrUnknownStat) {
		t.Fatalf("expected ErrUnknownStat, got %v", err)
	}
}

func TestScoreClamping(t *testing.T) {
	c := catalog.Builtin()
	p := NewPlayer("Alex", "apartment")

	if err := p.AdjustNPCScore(c, "mia", 500); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if p.NPCScores["mia"] != ScoreMax {
		t.Fatalf("score got %d want %d", p.NPCScores["mia"], ScoreMax)
	}
	if err := p.AdjustNPCScore(c, "mia", -500); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if p.NPCScores["mia"] != ScoreMin {
		t.Fatalf("score got %d want %d", p.NPCScores["mia"], ScoreMin)
	}
	if err := p.AdjustNPCScore(c, "stranger", 1); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected catalog.ErrNotFound, got %v", err)
	}
}

func TestEqualIsFieldByField(t *testing.T) {
	a := NewPlayer("Alex", "apartment")
	b := NewPlayer("Alex", "apartment")
	if !a.Equal(b) {
		t.Fatalf("identically built players should compare equal")
	}

	b.Inventory["coffee"] = 1
	if a.Equal(b) {
		t.Fatalf("players with different inventories should not compare equal")
	}

	a.Inventory["coffee"] = 1
	if !a.Equal(b) {
		t.Fatalf("equality must depend on values, not allocation")
	}

	b.EventLog = append(b.EventLog, "promotion")
	a.EventLog = append(a.EventLog, "promotion")
	if !a.Equal(b) {
		t.Fatalf("equal logs should compare equal")
	}
	b.EventLog[0] = "picnic"
	if a.Equal(b) {
		t.Fatalf("log order and content must participate in equality")
	}
}

func TestValidateAgainstDanglingKey(t *testing.T) {
	c := catalog.Builtin()
	p := NewPlayer("Alex", "apartment")
	p.Portfolio["GHOSTX"] = 1
	if err := p.ValidateAgainst(c); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected catalog.ErrNotFound for dangling portfolio key, got %v", err)
	}
}

func TestApplyEventAllOrNothing(t *testing.T) {
	c := catalog.Builtin()
	p := NewPlayer("Alex", "apartment")
	p.Cash = 5

	ev, err := c.LookupEvent("picnic") // costs 12
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	moodBefore := p.Stats[StatMood]
	if err := p.ApplyEvent(c, ev); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if p.Cash != 5 || p.Stats[StatMood] != moodBefore || len(p.EventLog) != 0 {
		t.Fatalf("failed event must leave the aggregate untouched: %+v", p)
	}

	p.Cash = 100
	if err := p.ApplyEvent(c, ev); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if p.Cash != 88 {
		t.Fatalf("cash got %v want 88", p.Cash)
	}
	if p.NPCScores["mia"] != 10 {
		t.Fatalf("mia score got %d want 10", p.NPCScores["mia"])
	}
	if len(p.EventLog) != 1 || p.EventLog[0] != "picnic" {
		t.Fatalf("event log got %v", p.EventLog)
	}
}

func TestWorkAndAdvanceDay(t *testing.T) {
	p := NewPlayer("Alex", "apartment")
	cash := p.Cash
	energy := p.Stats[StatEnergy]

	if err := p.Work(60, 20); err != nil {
		t.Fatalf("work: %v", err)
	}
	if p.Cash != cash+60 {
		t.Fatalf("cash got %v want %v", p.Cash, cash+60)
	}
	if p.Stats[StatEnergy] != energy-20 {
		t.Fatalf("energy got %d want %d", p.Stats[StatEnergy], energy-20)
	}
	if err := p.Work(0, 5); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero wage, got %v", err)
	}

	hunger := p.Stats[StatHunger]
	if rolled := p.AdvanceDay(); rolled {
		t.Fatalf("day 1 -> 2 must not roll the week")
	}
	if p.Day != 2 {
		t.Fatalf("day got %d want 2", p.Day)
	}
	if p.Stats[StatHunger] != hunger-DailyHungerDecay {
		t.Fatalf("hunger got %d want %d", p.Stats[StatHunger], hunger-DailyHungerDecay)
	}
}

func TestWeekRollsEverySeventhDay(t *testing.T) {
	p := NewPlayer("Alex", "apartment")
	rolls := 0
	for i := 0; i < 14; i++ {
		if p.AdvanceDay() {
			rolls++
		}
	}
	if rolls != 2 {
		t.Fatalf("expected 2 week rolls over 14 days, got %d", rolls)
	}
	if p.Week() != 2 {
		t.Fatalf("week got %d want 2", p.Week())
	}
}

func TestMoveToAdjacency(t *testing.T) {
	c := catalog.Builtin()
	p := NewPlayer("Alex", "apartment")

	if err := p.MoveTo(c, "office"); !errors.Is(err, ErrNotAdjacent) {
		t.Fatalf("expected ErrNotAdjacent, got %v", err)
	}
	if p.Zone != "apartment" {
		t.Fatalf("failed move must not relocate the player")
	}
	if err := p.MoveTo(c, "street"); err != nil {
		t.Fatalf("move: %v", err)
	}
	if err := p.MoveTo(c, "office"); err != nil {
		t.Fatalf("move: %v", err)
	}
	if err := p.MoveTo(c, "atlantis"); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected catalog.ErrNotFound, got %v", err)
	}
}

func TestConsumeItem(t *testing.T) {
	c := catalog.Builtin()
	p := NewPlayer("Alex", "apartment")

	if err := p.ConsumeItem(c, "coffee"); !errors.Is(err, ErrItemNotHeld) {
		t.Fatalf("expected ErrItemNotHeld, got %v", err)
	}
	if err := p.AddItem(c, "coffee", 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	energy := p.Stats[StatEnergy]
	if err := p.ConsumeItem(c, "coffee"); err != nil {
		t.Fatalf("consume: %v", err)
	}
	if _, held := p.Inventory["coffee"]; held {
		t.Fatalf("consuming the last unit must remove the inventory entry")
	}
	want := energy + 15
	if want > StatMax {
		want = StatMax
	}
	if p.Stats[StatEnergy] != want {
		t.Fatalf("energy got %d want %d", p.Stats[StatEnergy], want)
	}
}

func TestBuyItem(t *testing.T) {
	c := catalog.Builtin()
	p := NewPlayer("Alex", "apartment")
	p.Cash = 5

	if err := p.BuyItem(c, "concert_ticket", 1); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if p.Cash != 5 || len(p.Inventory) != 0 {
		t.Fatalf("failed purchase must not mutate the player")
	}
	if err := p.BuyItem(c, "coffee", 1); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if p.Cash != 2 || p.Inventory["coffee"] != 1 {
		t.Fatalf("cash=%v inventory=%v", p.Cash, p.Inventory)
	}
}
