/*
Package game
File: state.go
Description:
    Manages the runtime state of one game.
    A Game owns the player, the market, the message log and the pending
    police encounter. Every mutation goes through its command methods
    (actions.go, travel.go, police.go); everything else reads snapshots.

    A Game is single-actor: callers that share one across goroutines must
    serialize access themselves.
*/

package game

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/everforgeworks/dopewars/internal/random"
)

// Status is Running unless Over is set.
type Status struct {
	Over   bool   `json:"over"`
	Reason string `json:"reason,omitempty"`
}

// Game is the simulation core.
type Game struct {
	balance *Balance
	rng     random.Source
	logger  *slog.Logger

	runID     string
	player    Player
	market    *Market
	status    Status
	log       []string
	encounter *Encounter
}

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the structured logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.logger = l
		}
	}
}

// New starts a game and rolls the opening prices.
// A nil balance uses DefaultBalance.
func New(b *Balance, rng random.Source, opts ...Option) *Game {
	if b == nil {
		b = DefaultBalance()
	}
	if !b.resolved {
		if err := b.Resolve(); err != nil {
			panic(fmt.Sprintf("game: invalid balance: %v", err))
		}
	}
	g := &Game{
		balance: b,
		rng:     rng,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.reset()
	g.generateMarket()
	g.logger.Info("game started", slog.String("run", g.runID))
	return g
}

// reset re-initializes player, market and log.
func (g *Game) reset() {
	g.runID = uuid.NewString()
	g.player = NewPlayer(g.balance)
	g.market = NewMarket(g.balance)
	g.status = Status{}
	g.encounter = nil
	g.log = nil

	g.logf("Welcome to Dope Wars!")
	g.logf("You have %d days to make as much money as possible.", g.balance.Rules.DayLimit)
	g.logf("Buy low, sell high, and watch out for the cops!")
}

// Restart throws the current game away and starts a new one.
// It is the only command accepted after game over.
func (g *Game) Restart() {
	g.reset()
	g.logf("Game restarted!")
	g.generateMarket()
	g.logger.Info("game restarted", slog.String("run", g.runID))
}

// generateMarket rolls a new day of prices and logs its headlines.
func (g *Game) generateMarket() {
	g.market.Generate(g.rng)
	g.log = append(g.log, g.market.Events...)
}

// logf appends one line to the message log.
func (g *Game) logf(format string, args ...any) {
	g.log = append(g.log, fmt.Sprintf(format, args...))
}

// begin opens a rejection for a command, refusing everything once the
// game is over or while the police are waiting for an answer.
func (g *Game) begin(op string) *rejection {
	rej := &rejection{op: op}
	rej.check(g.status.Over, ReasonGameOver)
	rej.check(g.encounter != nil, ReasonEncounterPending)
	return rej
}

// settle runs the game-over check after a command applied.
func (g *Game) settle() {
	if g.status.Over {
		return
	}
	switch {
	case g.player.Day > g.balance.Rules.DayLimit:
		g.status = Status{Over: true, Reason: fmt.Sprintf("Time's up! Your %d days are over.", g.balance.Rules.DayLimit)}
	case g.player.Health <= 0:
		g.status = Status{Over: true, Reason: "You died from your injuries!"}
	default:
		return
	}
	g.logf("%s", g.status.Reason)
	g.logger.Info("game over",
		slog.String("run", g.runID),
		slog.String("reason", g.status.Reason),
		slog.Int("net_worth", g.player.NetWorth()),
	)
}

// --- Queries ---

// RunID identifies the current run; it changes on Restart.
func (g *Game) RunID() string { return g.runID }

// Balance returns the tables the game runs on. Callers must not modify it.
func (g *Game) Balance() *Balance { return g.balance }

// Player returns a copy of the player state.
func (g *Game) Player() Player { return g.player.clone() }

// Market returns a copy of the market state.
func (g *Game) Market() MarketState { return g.market.Snapshot() }

// Status reports whether the game is over.
func (g *Game) Status() Status { return g.status }

// Log returns the full message log.
func (g *Game) Log() []string { return append([]string(nil), g.log...) }

// LogSince returns the log lines from index n on.
func (g *Game) LogSince(n int) []string {
	if n < 0 {
		n = 0
	}
	if n >= len(g.log) {
		return []string{}
	}
	return append([]string(nil), g.log[n:]...)
}

// LogLen is the number of log lines so far.
func (g *Game) LogLen() int { return len(g.log) }
