package game

import (
	"testing"

	"github.com/everforgeworks/dopewars/internal/random"
)

// stoppedGame returns an extended game carrying 10 Weed (street value 990)
// that has just been stopped on the way to Brooklyn.
func stoppedGame(t *testing.T) (*Game, *random.Sequence) {
	t.Helper()
	g, seq := newTestGame(t, ExtendedFeatures())
	g.player.Inventory[Weed] = 10
	seq.Push(0)
	mustOK(t, g.Travel(Brooklyn))
	if _, ok := g.Encounter(); !ok {
		t.Fatal("expected a pending encounter")
	}
	return g, seq
}

func TestPoliceStopSuspendsTrip(t *testing.T) {
	g, _ := stoppedGame(t)

	enc, _ := g.Encounter()
	if enc.Destination != Brooklyn || enc.Value != 990 {
		t.Fatalf("encounter = %+v", enc)
	}
	if g.player.Day != 1 || g.player.Location != Bronx {
		t.Fatalf("trip finished early: day %d at %s", g.player.Day, g.player.Location)
	}

	mustReject(t, g.Buy(Weed, 1), ReasonEncounterPending)
	mustReject(t, g.Travel(Queens), ReasonEncounterPending)
	mustReject(t, g.Heal(), ReasonEncounterPending)
}

func TestResolveEncounter(t *testing.T) {
	tests := []struct {
		name       string
		health     int
		choice     PoliceChoice
		offer      int
		draws      []int
		want       EncounterOutcome
		wantWeed   int
		wantCash   int
		wantHealth int
	}{
		{"fight won", 100, ChoiceFight, 0, []int{0, 7}, OutcomeFightWon, 10, 2000, 88},
		{"fight lost", 100, ChoiceFight, 0, []int{50, 10}, OutcomeFightLost, 0, 2000, 75},
		{"fight never kills", 10, ChoiceFight, 0, []int{99, 24}, OutcomeFightLost, 0, 2000, 1},
		{"ran away", 100, ChoiceRun, 0, []int{54}, OutcomeRanAway, 10, 2000, 100},
		{"caught", 100, ChoiceRun, 0, []int{55}, OutcomeCaught, 0, 2000, 100},
		{"slow when hurt", 20, ChoiceRun, 0, []int{35}, OutcomeCaught, 0, 2000, 20},
		{"demanded bribe taken", 100, ChoiceBribe, 0, []int{0, 69}, OutcomeBribeAccepted, 10, 1753, 100},
		{"demanded bribe refused", 100, ChoiceBribe, 0, []int{0, 70, 500}, OutcomeBribeRejected, 0, 1000, 100},
		{"offered bribe taken", 100, ChoiceBribe, 495, []int{49}, OutcomeBribeAccepted, 10, 1505, 100},
		{"offered bribe refused", 100, ChoiceBribe, 495, []int{50, 0}, OutcomeBribeRejected, 0, 1500, 100},
		{"surrender fined", 100, ChoiceSurrender, 0, []int{69, 0}, OutcomeSurrendered, 0, 1500, 100},
		{"surrender unfined", 100, ChoiceSurrender, 0, []int{70}, OutcomeSurrendered, 0, 2000, 100},
		{"random picks run", 100, ChoiceRandom, 0, []int{1, 0}, OutcomeRanAway, 10, 2000, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, seq := stoppedGame(t)
			g.player.Health = tt.health
			seq.Push(tt.draws...)

			got, err := g.ResolveEncounter(tt.choice, tt.offer)
			mustOK(t, err)

			if got != tt.want {
				t.Fatalf("outcome = %s, want %s", got, tt.want)
			}
			if got.Escaped() != (tt.wantWeed == 10) {
				t.Fatalf("Escaped() = %v with %d weed left", got.Escaped(), tt.wantWeed)
			}
			p := g.Player()
			if p.Inventory[Weed] != tt.wantWeed || p.Cash != tt.wantCash || p.Health != tt.wantHealth {
				t.Fatalf("weed %d cash %d health %d, want %d %d %d",
					p.Inventory[Weed], p.Cash, p.Health, tt.wantWeed, tt.wantCash, tt.wantHealth)
			}

			// The interrupted trip is finished.
			if _, pending := g.Encounter(); pending {
				t.Fatal("encounter still pending")
			}
			if p.Day != 2 || p.Location != Brooklyn || p.Debt != 5500 {
				t.Fatalf("trip not finished: day %d at %s, debt %d", p.Day, p.Location, p.Debt)
			}
		})
	}
}

func TestResolveEncounterRejections(t *testing.T) {
	g, _ := newTestGame(t, ExtendedFeatures())
	_, err := g.ResolveEncounter(ChoiceFight, 0)
	mustReject(t, err, ReasonNoEncounter)

	g, _ = stoppedGame(t)
	_, err = g.ResolveEncounter(ChoiceBribe, 2001)
	mustReject(t, err, ReasonInsufficientCash)
	_, err = g.ResolveEncounter(ChoiceBribe, -1)
	mustReject(t, err, ReasonNonPositiveAmount)
	_, err = g.ResolveEncounter(PoliceChoice(9), 0)
	mustReject(t, err, ReasonUnknownItem)

	if _, pending := g.Encounter(); !pending {
		t.Fatal("rejected answers should leave the encounter pending")
	}
}

func TestPoliceFindNothing(t *testing.T) {
	g, seq := newTestGame(t, ExtendedFeatures())
	seq.Push(0)
	mustOK(t, g.Travel(Brooklyn))
	if _, pending := g.Encounter(); pending {
		t.Fatal("empty pockets should not open an encounter")
	}
	if g.player.Day != 2 {
		t.Fatalf("day = %d, want 2", g.player.Day)
	}
}

func TestGrenade(t *testing.T) {
	tests := []struct {
		name     string
		roll     int
		wantWeed int
	}{
		{"escape", 94, 10},
		{"dud", 95, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, seq := newTestGame(t, ExtendedFeatures())
			g.player.Inventory[Weed] = 10
			g.player.Weapons[Grenade] = 1
			g.player.Equipped = Grenade
			seq.Push(0, tt.roll)

			mustOK(t, g.Travel(Brooklyn))

			if _, pending := g.Encounter(); pending {
				t.Fatal("grenade should bypass the encounter")
			}
			if g.player.Weapons[Grenade] != 0 || g.player.Armed() {
				t.Fatalf("grenade not spent: %v, equipped %s", g.player.Weapons, g.player.Equipped)
			}
			if g.player.Inventory[Weed] != tt.wantWeed {
				t.Fatalf("weed = %d, want %d", g.player.Inventory[Weed], tt.wantWeed)
			}
			if g.player.Day != 2 {
				t.Fatalf("day = %d, want 2", g.player.Day)
			}
		})
	}
}

func TestNonInteractivePolice(t *testing.T) {
	f := ExtendedFeatures()
	f.InteractiveEncounters = false
	g, seq := newTestGame(t, f)
	g.player.Inventory[Weed] = 10
	// stop, random choice fight, win, damage 12
	seq.Push(0, 0, 0, 7)

	mustOK(t, g.Travel(Brooklyn))

	if _, pending := g.Encounter(); pending {
		t.Fatal("non-interactive stop should resolve itself")
	}
	if g.player.Health != 88 || g.player.Inventory[Weed] != 10 || g.player.Day != 2 {
		t.Fatalf("health %d weed %d day %d", g.player.Health, g.player.Inventory[Weed], g.player.Day)
	}
}

func TestBasicPoliceStop(t *testing.T) {
	g, seq := newTestGame(t, BasicFeatures())
	g.player.Inventory[Weed] = 10
	seq.Push(0, int(Weed), 3)
	mustOK(t, g.Travel(Brooklyn))
	if g.player.Inventory[Weed] != 6 {
		t.Fatalf("weed = %d, want 6", g.player.Inventory[Weed])
	}
	if !logContains(g, "They took 4 units of Weed") {
		t.Fatal("missing seizure line")
	}

	// Searching for something not carried takes nothing.
	seq.Push(0, int(Ludes))
	mustOK(t, g.Travel(Queens))
	if g.player.Inventory[Weed] != 6 || g.player.Day != 3 {
		t.Fatalf("weed %d day %d", g.player.Inventory[Weed], g.player.Day)
	}
}

func TestPoliceChoiceText(t *testing.T) {
	var c PoliceChoice
	if err := c.UnmarshalText([]byte("Bribe")); err != nil || c != ChoiceBribe {
		t.Fatalf("UnmarshalText(Bribe) = %v, %v", c, err)
	}
	if err := c.UnmarshalText([]byte("beg")); err == nil {
		t.Fatal("expected an error for an unknown choice")
	}
}
