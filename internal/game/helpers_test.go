package game

import (
	"io"
	"log/slog"
	"testing"

	"github.com/everforgeworks/dopewars/internal/random"
)

// Opening prices when the market is generated from an exhausted Sequence:
// every base price is the top of its range and no events fire.
var quietPrices = Prices{99, 999, 199, 399, 1499, 699}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestGame starts a game on a scripted source. The opening market is
// rolled before any value is pushed, so it always lands on quietPrices.
func newTestGame(t *testing.T, f Features) (*Game, *random.Sequence) {
	t.Helper()
	b := DefaultBalance()
	b.Features = f
	if err := b.Resolve(); err != nil {
		t.Fatalf("resolve balance: %v", err)
	}
	seq := random.NewSequence()
	g := New(b, seq, WithLogger(quietLogger()))
	if g.market.Prices != quietPrices {
		t.Fatalf("opening prices = %v, want %v", g.market.Prices, quietPrices)
	}
	return g, seq
}

func mustReject(t *testing.T, err error, want ...Reason) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected rejection with %v, got nil", want)
	}
	got := Reasons(err)
	if len(got) != len(want) {
		t.Fatalf("reasons = %v, want %v", got, want)
	}
	for _, r := range want {
		if !errorsIs(err, r) {
			t.Fatalf("reasons = %v, missing %q", got, r)
		}
	}
}

func mustOK(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
