package tui

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/everforgeworks/dopewars/internal/game"
	"github.com/everforgeworks/dopewars/internal/random"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"buy weed 10", Command{Verb: "buy", Target: "Weed", Amount: "10"}},
		{"B coc max", Command{Verb: "buy", Target: "Cocaine", Amount: "max"}},
		{"sell hrn all", Command{Verb: "sell", Target: "Heroin", Amount: "all"}},
		{"go staten island", Command{Verb: "travel", Target: "Staten Island"}},
		{"travel cpark", Command{Verb: "travel", Target: "Central Park"}},
		{"gun bat", Command{Verb: "weapon buy", Target: "Baseball Bat"}},
		{"equip uzi", Command{Verb: "equip", Target: "Uzi"}},
		{"repay all", Command{Verb: "repay", Amount: "all"}},
		{"stash put acid 5", Command{Verb: "stash deposit", Target: "Acid", Amount: "5"}},
		{"stash take spd all", Command{Verb: "stash withdraw", Target: "Speed", Amount: "all"}},
		{"stash buy", Command{Verb: "stash buy"}},
		{"bribe 300", Command{Verb: "bribe", Amount: "300"}},
		{"bribe", Command{Verb: "bribe"}},
		{"  Heal ", Command{Verb: "heal"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseCommand(tt.line)
			if err != nil {
				t.Fatalf("ParseCommand: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseCommandErrors(t *testing.T) {
	tests := []struct{ line, want string }{
		{"", "type a command"},
		{"dance", `unknown command "dance"`},
		{"buy weed", "usage: buy"},
		{"buy xyzzy 3", `no substance matches "xyzzy"`},
		{"travel", "which location?"},
		{"stash hide weed 1", "unknown stash command"},
		{"borrow", "usage: borrow"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, err := ParseCommand(tt.line)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func newGame(t *testing.T) (*game.Game, *random.Sequence) {
	t.Helper()
	seq := random.NewSequence()
	g := game.New(game.DefaultBalance(), seq, game.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	return g, seq
}

func run(t *testing.T, g *game.Game, line string) error {
	t.Helper()
	cmd, err := ParseCommand(line)
	if err != nil {
		t.Fatalf("parse %q: %v", line, err)
	}
	_, err = cmd.Run(g)
	return err
}

func TestRunResolvesAmounts(t *testing.T) {
	g, _ := newGame(t)

	// Weed opens at 99: max is 2000/99 = 20.
	if err := run(t, g, "buy weed max"); err != nil {
		t.Fatal(err)
	}
	if got := g.Player().Inventory[game.Weed]; got != 20 {
		t.Fatalf("weed = %d, want 20", got)
	}

	if err := run(t, g, "sell weed 5"); err != nil {
		t.Fatal(err)
	}
	if err := run(t, g, "sell weed all"); err != nil {
		t.Fatal(err)
	}
	if got := g.Player().Inventory[game.Weed]; got != 0 {
		t.Fatalf("weed = %d, want 0", got)
	}

	if err := run(t, g, "repay all"); err != nil {
		t.Fatal(err)
	}
	if p := g.Player(); p.Cash != 0 || p.Debt != 5000-2000 {
		t.Fatalf("cash %d debt %d", p.Cash, p.Debt)
	}

	err := run(t, g, "borrow lots")
	if !errors.Is(err, game.ReasonNonPositiveAmount) {
		t.Fatalf("err = %v, want non-positive amount", err)
	}
}

func TestRunPoliceChoices(t *testing.T) {
	g, seq := newGame(t)
	if err := run(t, g, "buy weed 10"); err != nil {
		t.Fatal(err)
	}
	seq.Push(0)
	if err := run(t, g, "go brooklyn"); err != nil {
		t.Fatal(err)
	}
	if _, ok := g.Encounter(); !ok {
		t.Fatal("expected an encounter")
	}

	seq.Push(0)
	cmd, _ := ParseCommand("run")
	outcome, err := cmd.Run(g)
	if err != nil || outcome != game.OutcomeRanAway {
		t.Fatalf("run: %v, %v", outcome, err)
	}
}

func TestModelEchoesAndSyncs(t *testing.T) {
	g, _ := newGame(t)
	var m tea.Model = NewModel(g)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	m = typeLine(m, "buy weed 3")
	mm := m.(model)
	if mm.notice != "" {
		t.Fatalf("notice = %q", mm.notice)
	}
	tail := mm.transcript[len(mm.transcript)-1]
	if tail != "Bought 3 units of Weed for $297" {
		t.Fatalf("transcript tail = %q", tail)
	}

	m = typeLine(m, "buy cocaine 100")
	if notice := m.(model).notice; !strings.Contains(notice, "not enough cash") {
		t.Fatalf("notice = %q", notice)
	}

	m = typeLine(m, "restart")
	if !strings.Contains(strings.Join(m.(model).transcript, "\n"), "Game restarted!") {
		t.Fatal("restart not shown")
	}
	if v := m.View(); !strings.Contains(v, "MARKET") {
		t.Fatal("state panel missing from view")
	}

	_, cmd := typeLineCmd(m, "quit")
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("quit should quit")
	}
}

func typeLine(m tea.Model, line string) tea.Model {
	m, _ = typeLineCmd(m, line)
	return m
}

func typeLineCmd(m tea.Model, line string) (tea.Model, tea.Cmd) {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(line)})
	return m.Update(tea.KeyMsg{Type: tea.KeyEnter})
}
