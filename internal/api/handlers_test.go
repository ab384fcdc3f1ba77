package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/everforgeworks/dopewars/internal/game"
	"github.com/everforgeworks/dopewars/internal/random"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServer serves an extended game whose opening market is all
// top-of-range prices (Weed 99) and whose later rolls are scripted by seq.
func newTestServer(t *testing.T, hub *Hub) (*Server, *random.Sequence) {
	t.Helper()
	seq := random.NewSequence()
	g := game.New(game.DefaultBalance(), seq, game.WithLogger(quietLogger()))
	return NewServer(g, hub, quietLogger()), seq
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}

// stateView decodes the parts of a snapshot the tests look at.
type stateView struct {
	RunID  string `json:"run_id"`
	Player struct {
		Cash      int            `json:"cash"`
		Day       int            `json:"day"`
		Health    int            `json:"health"`
		Location  string         `json:"location"`
		Inventory map[string]int `json:"inventory"`
	} `json:"player"`
	Market struct {
		Prices map[string]int `json:"prices"`
	} `json:"market"`
	Encounter *struct {
		Destination string `json:"destination"`
		Value       int    `json:"value"`
	} `json:"encounter"`
	Status game.Status `json:"status"`
	LogLen int         `json:"log_len"`
}

type commandView struct {
	State   stateView `json:"state"`
	Lines   []string  `json:"lines"`
	Outcome string    `json:"outcome"`
}

func TestGetState(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := do(t, s.Routes(), http.MethodGet, "/api/state", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	st := decode[stateView](t, rec)
	if st.RunID == "" || st.Player.Cash != 2000 || st.Player.Location != "Bronx" || st.Player.Day != 1 {
		t.Fatalf("state = %+v", st)
	}
	if st.Market.Prices["Weed"] != 99 {
		t.Fatalf("Weed price = %d, want 99", st.Market.Prices["Weed"])
	}
	if st.Encounter != nil {
		t.Fatal("no encounter expected")
	}
}

func TestBuyAndReject(t *testing.T) {
	s, _ := newTestServer(t, nil)
	h := s.Routes()

	rec := do(t, h, http.MethodPost, "/api/buy", `{"substance":"weed","amount":10}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	resp := decode[commandView](t, rec)
	if resp.State.Player.Cash != 1010 || resp.State.Player.Inventory["Weed"] != 10 {
		t.Fatalf("state = %+v", resp.State.Player)
	}
	if !slices.Equal(resp.Lines, []string{"Bought 10 units of Weed for $990"}) {
		t.Fatalf("lines = %q", resp.Lines)
	}

	rec = do(t, h, http.MethodPost, "/api/buy", `{"substance":"Heroin","amount":200}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	e := decode[errorResponse](t, rec)
	if !slices.Contains(e.Reasons, game.ReasonInsufficientCash) || !slices.Contains(e.Reasons, game.ReasonInsufficientSpace) {
		t.Fatalf("reasons = %v", e.Reasons)
	}
}

func TestBadRequests(t *testing.T) {
	s, _ := newTestServer(t, nil)
	h := s.Routes()

	tests := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodPost, "/api/buy", `{"substance":`, http.StatusBadRequest},
		{http.MethodPost, "/api/buy", `{"substance":"oregano","amount":1}`, http.StatusBadRequest},
		{http.MethodPost, "/api/travel", `{"destination":"Hoboken"}`, http.StatusBadRequest},
		{http.MethodPost, "/api/travel", `{"destination":"Bronx"}`, http.StatusConflict},
		{http.MethodPost, "/api/police", `{"choice":"fight"}`, http.StatusConflict},
		{http.MethodPost, "/api/repay", `{"amount":0}`, http.StatusConflict},
		{http.MethodPost, "/api/buy", `{"amount":1}`, http.StatusBadRequest},
		{http.MethodPost, "/api/sell", `{"substance":null,"amount":1}`, http.StatusBadRequest},
		{http.MethodPost, "/api/weapons/buy", `{}`, http.StatusBadRequest},
		{http.MethodPost, "/api/stash/deposit", `{"amount":1}`, http.StatusBadRequest},
		{http.MethodPost, "/api/travel", `{}`, http.StatusBadRequest},
		{http.MethodPost, "/api/police", `{}`, http.StatusBadRequest},
		{http.MethodPost, "/api/borrow", `{"amount":9223372036854775807}`, http.StatusConflict},
		{http.MethodGet, "/api/log?since=abc", "", http.StatusBadRequest},
		{http.MethodGet, "/api/buy", "", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path+" "+tt.body, func(t *testing.T) {
			if rec := do(t, h, tt.method, tt.path, tt.body); rec.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body)
			}
		})
	}
}

func TestGetLogSince(t *testing.T) {
	s, _ := newTestServer(t, nil)
	h := s.Routes()

	all := decode[LogResponse](t, do(t, h, http.MethodGet, "/api/log", ""))
	if len(all.Lines) == 0 || all.Lines[0] != "Welcome to Dope Wars!" || all.Next != len(all.Lines) {
		t.Fatalf("log = %+v", all)
	}

	do(t, h, http.MethodPost, "/api/borrow", `{"amount":100}`)
	tail := decode[LogResponse](t, do(t, h, http.MethodGet, "/api/log?since="+strconv.Itoa(all.Next), ""))
	if len(tail.Lines) != 1 || !strings.HasPrefix(tail.Lines[0], "You borrowed $100") {
		t.Fatalf("tail = %+v", tail)
	}
}

func TestPoliceFlow(t *testing.T) {
	s, seq := newTestServer(t, nil)
	h := s.Routes()

	do(t, h, http.MethodPost, "/api/buy", `{"substance":"Weed","amount":10}`)
	seq.Push(0) // police stop

	rec := do(t, h, http.MethodPost, "/api/travel", `{"destination":"Queens"}`)
	st := decode[commandView](t, rec).State
	if st.Encounter == nil || st.Encounter.Destination != "Queens" || st.Player.Day != 1 {
		t.Fatalf("expected a pending encounter: %+v", st)
	}

	rec = do(t, h, http.MethodPost, "/api/sell", `{"substance":"Weed","amount":1}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("sell during encounter: status %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/api/police", `{"offer":50}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("police without a choice: status %d", rec.Code)
	}
	if st := decode[stateView](t, do(t, h, http.MethodGet, "/api/state", "")); st.Encounter == nil {
		t.Fatal("a request without a choice resolved the encounter")
	}

	seq.Push(0, 7) // fight won, 12 damage
	rec = do(t, h, http.MethodPost, "/api/police", `{"choice":"fight"}`)
	resp := decode[commandView](t, rec)
	if resp.Outcome != "fight won" {
		t.Fatalf("outcome = %q", resp.Outcome)
	}
	if resp.State.Encounter != nil || resp.State.Player.Day != 2 || resp.State.Player.Health != 88 {
		t.Fatalf("state after fight = %+v", resp.State)
	}
}

func TestRestart(t *testing.T) {
	s, _ := newTestServer(t, nil)
	h := s.Routes()

	before := decode[stateView](t, do(t, h, http.MethodGet, "/api/state", ""))
	resp := decode[commandView](t, do(t, h, http.MethodPost, "/api/restart", ""))
	if resp.State.RunID == before.RunID {
		t.Fatal("restart kept the run id")
	}
	if !slices.Contains(resp.Lines, "Game restarted!") || resp.Lines[0] != "Welcome to Dope Wars!" {
		t.Fatalf("lines = %q", resp.Lines)
	}
}

func TestHubPushesLogLines(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(quietLogger())
	go hub.Run(ctx)

	s, _ := newTestServer(t, hub)
	srv := httptest.NewServer(s.Routes())
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	msgs := make(chan Message, 16)
	go func() {
		defer close(msgs)
		for {
			var m Message
			if err := conn.ReadJSON(&m); err != nil {
				return
			}
			msgs <- m
		}
	}()

	// Registration races the handshake; ping until the client is listed.
	deadline := time.After(2 * time.Second)
	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()
waitRegistered:
	for {
		select {
		case <-tick.C:
			hub.Publish("ping", nil, "test")
		case <-msgs:
			break waitRegistered
		case <-deadline:
			t.Fatal("client never registered")
		}
	}

	resp, err := http.Post(srv.URL+"/api/borrow", "application/json", strings.NewReader(`{"amount":250}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()

	for {
		select {
		case m, ok := <-msgs:
			if !ok {
				t.Fatal("socket closed")
			}
			if m.Type != "log" {
				continue
			}
			payload, _ := m.Payload.(map[string]any)
			lines, _ := payload["lines"].([]any)
			if len(lines) != 1 || !strings.HasPrefix(lines[0].(string), "You borrowed $250") {
				t.Fatalf("payload = %v", m.Payload)
			}
			if m.Sender == "" {
				t.Fatal("sender should carry the run id")
			}
			return
		case <-deadline:
			t.Fatal("no log message pushed")
		}
	}
}

func TestPublishAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(quietLogger())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	// Must not block or panic.
	for i := 0; i < sendBufferSize+10; i++ {
		hub.Publish("log", LogPayload{}, "test")
	}
}
