/*
Package api
File: handlers.go
Description:
    Contains the HTTP handlers for the local game API.
    These functions decode JSON commands, run them against the single game
    instance and return JSON snapshots.

    Key Responsibilities:
    - Input Validation (Is the JSON valid? Are the names known?)
    - Command Dispatch (Calling the game's command methods)
    - Thread Safety (One mutex serializes every request)
    - Push (New log lines are published on the Hub after each command)

    Rejected commands answer 409 with every failed precondition:
        {"error": "cannot buy: not enough cash", "reasons": ["not enough cash"]}
*/

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/everforgeworks/dopewars/internal/game"
)

// Request DTOs (Data Transfer Objects)
// These structs define exactly what we expect the client to send us.

type TradeRequest struct {
	Substance *game.Substance `json:"substance"`
	Amount    int             `json:"amount"`
}

func (r *TradeRequest) validate() error { return required("substance", r.Substance) }

type AmountRequest struct {
	Amount int `json:"amount"`
}

type WeaponRequest struct {
	Weapon *game.Weapon `json:"weapon"`
}

func (r *WeaponRequest) validate() error { return required("weapon", r.Weapon) }

type TravelRequest struct {
	Destination *game.Location `json:"destination"`
}

func (r *TravelRequest) validate() error { return required("destination", r.Destination) }

type PoliceRequest struct {
	Choice *game.PoliceChoice `json:"choice"`
	Offer  int                `json:"offer"` // Bribe only; 0 lets the cops name the price
}

func (r *PoliceRequest) validate() error { return required("choice", r.Choice) }

// validator is implemented by requests with required fields.
type validator interface {
	validate() error
}

// required rejects a field the body left out. Enum zero values are real
// names (Weed, Bronx, fight), so absence is only visible as a nil pointer.
func required[T any](field string, v *T) error {
	if v == nil {
		return fmt.Errorf("missing %s", field)
	}
	return nil
}

// StateResponse is the full snapshot a client renders from.
type StateResponse struct {
	RunID           string           `json:"run_id"`
	Status          game.Status      `json:"status"`
	Player          game.Player      `json:"player"`
	Market          game.MarketState `json:"market"`
	Encounter       *game.Encounter  `json:"encounter,omitempty"`
	Rules           game.GameRules   `json:"rules"`
	Features        game.Features    `json:"features"`
	HealCost        int              `json:"heal_cost"`
	StashHousePrice int              `json:"stash_house_price"`
	LogLen          int              `json:"log_len"`
}

// CommandResponse answers a successful command.
type CommandResponse struct {
	State   StateResponse `json:"state"`
	Lines   []string      `json:"lines"`             // Log lines the command produced
	Outcome string        `json:"outcome,omitempty"` // Police encounters only
}

// LogResponse answers GET /api/log.
type LogResponse struct {
	Lines []string `json:"lines"`
	Next  int      `json:"next"` // Pass as ?since= to continue
}

type errorResponse struct {
	Error   string        `json:"error"`
	Reasons []game.Reason `json:"reasons,omitempty"`
}

// Server serves one game over HTTP.
type Server struct {
	mu     sync.Mutex
	game   *game.Game
	hub    *Hub
	logger *slog.Logger
}

// NewServer wraps g. hub may be nil when no push channel is wanted.
func NewServer(g *game.Game, hub *Hub, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{game: g, hub: hub, logger: logger}
}

// Swap replaces the running game, e.g. after a balance reload.
func (s *Server) Swap(g *game.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.game = g
	s.publish("restart", LogPayload{From: 0, Lines: g.Log()}, g.RunID())
}

// Routes registers every endpoint on a new mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Queries
	mux.HandleFunc("GET /api/state", s.HandleGetState)
	mux.HandleFunc("GET /api/log", s.HandleGetLog)

	// Trading, loans and the hospital
	mux.HandleFunc("POST /api/buy", s.HandleBuy)
	mux.HandleFunc("POST /api/sell", s.HandleSell)
	mux.HandleFunc("POST /api/borrow", s.HandleBorrow)
	mux.HandleFunc("POST /api/repay", s.HandleRepay)
	mux.HandleFunc("POST /api/heal", s.HandleHeal)

	// Extended edition
	mux.HandleFunc("POST /api/weapons/buy", s.HandleBuyWeapon)
	mux.HandleFunc("POST /api/weapons/equip", s.HandleEquipWeapon)
	mux.HandleFunc("POST /api/stash/buy", s.HandleBuyStashHouse)
	mux.HandleFunc("POST /api/stash/deposit", s.HandleStashDeposit)
	mux.HandleFunc("POST /api/stash/withdraw", s.HandleStashWithdraw)

	// Turn flow
	mux.HandleFunc("POST /api/travel", s.HandleTravel)
	mux.HandleFunc("POST /api/police", s.HandlePolice)
	mux.HandleFunc("POST /api/restart", s.HandleRestart)

	if s.hub != nil {
		mux.HandleFunc("GET /ws", s.hub.ServeWs)
	}
	return mux
}

// HandleGetState returns the full game snapshot.
func (s *Server) HandleGetState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, snapshot(s.game))
}

// HandleGetLog returns the log lines from ?since= on (default 0).
func (s *Server) HandleGetLog(w http.ResponseWriter, r *http.Request) {
	since := 0
	if v := r.URL.Query().Get("since"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "since must be a non-negative integer"})
			return
		}
		since = n
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, LogResponse{Lines: s.game.LogSince(since), Next: s.game.LogLen()})
}

func (s *Server) HandleBuy(w http.ResponseWriter, r *http.Request) {
	var req TradeRequest
	s.command(w, r, &req, func(g *game.Game) (string, error) {
		return "", g.Buy(*req.Substance, req.Amount)
	})
}

func (s *Server) HandleSell(w http.ResponseWriter, r *http.Request) {
	var req TradeRequest
	s.command(w, r, &req, func(g *game.Game) (string, error) {
		return "", g.Sell(*req.Substance, req.Amount)
	})
}

func (s *Server) HandleBorrow(w http.ResponseWriter, r *http.Request) {
	var req AmountRequest
	s.command(w, r, &req, func(g *game.Game) (string, error) {
		return "", g.Borrow(req.Amount)
	})
}

func (s *Server) HandleRepay(w http.ResponseWriter, r *http.Request) {
	var req AmountRequest
	s.command(w, r, &req, func(g *game.Game) (string, error) {
		return "", g.Repay(req.Amount)
	})
}

func (s *Server) HandleHeal(w http.ResponseWriter, r *http.Request) {
	s.command(w, r, nil, func(g *game.Game) (string, error) {
		return "", g.Heal()
	})
}

func (s *Server) HandleBuyWeapon(w http.ResponseWriter, r *http.Request) {
	var req WeaponRequest
	s.command(w, r, &req, func(g *game.Game) (string, error) {
		return "", g.BuyWeapon(*req.Weapon)
	})
}

func (s *Server) HandleEquipWeapon(w http.ResponseWriter, r *http.Request) {
	var req WeaponRequest
	s.command(w, r, &req, func(g *game.Game) (string, error) {
		return "", g.EquipWeapon(*req.Weapon)
	})
}

func (s *Server) HandleBuyStashHouse(w http.ResponseWriter, r *http.Request) {
	s.command(w, r, nil, func(g *game.Game) (string, error) {
		return "", g.BuyStashHouse()
	})
}

func (s *Server) HandleStashDeposit(w http.ResponseWriter, r *http.Request) {
	var req TradeRequest
	s.command(w, r, &req, func(g *game.Game) (string, error) {
		return "", g.StashDeposit(*req.Substance, req.Amount)
	})
}

func (s *Server) HandleStashWithdraw(w http.ResponseWriter, r *http.Request) {
	var req TradeRequest
	s.command(w, r, &req, func(g *game.Game) (string, error) {
		return "", g.StashWithdraw(*req.Substance, req.Amount)
	})
}

// HandleTravel advances the day. A police stop in the interactive edition
// comes back with "encounter" set; answer it with POST /api/police.
func (s *Server) HandleTravel(w http.ResponseWriter, r *http.Request) {
	var req TravelRequest
	s.command(w, r, &req, func(g *game.Game) (string, error) {
		return "", g.Travel(*req.Destination)
	})
}

// HandlePolice answers a pending police encounter.
func (s *Server) HandlePolice(w http.ResponseWriter, r *http.Request) {
	var req PoliceRequest
	s.command(w, r, &req, func(g *game.Game) (string, error) {
		outcome, err := g.ResolveEncounter(*req.Choice, req.Offer)
		return outcome.String(), err
	})
}

func (s *Server) HandleRestart(w http.ResponseWriter, r *http.Request) {
	s.command(w, r, nil, func(g *game.Game) (string, error) {
		g.Restart()
		return "", nil
	})
}

// command is the shared shape of every POST handler:
// decode, lock, run, publish the new log lines, answer with a snapshot.
func (s *Server) command(w http.ResponseWriter, r *http.Request, req any, run func(*game.Game) (string, error)) {
	// 1. Decode the body, if the command takes one
	if req != nil {
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad request: " + err.Error()})
			return
		}
		if v, ok := req.(validator); ok {
			if err := v.validate(); err != nil {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad request: " + err.Error()})
				return
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// 2. Run it
	g := s.game
	runID, from := g.RunID(), g.LogLen()
	note, err := run(g)
	if err != nil {
		var rej *game.RejectedError
		if errors.As(err, &rej) {
			writeJSON(w, http.StatusConflict, errorResponse{Error: rej.Error(), Reasons: rej.Reasons})
			return
		}
		s.logger.Error("command failed", slog.String("path", r.URL.Path), slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	// 3. Push what happened
	msgType := "log"
	if g.RunID() != runID {
		msgType, from = "restart", 0
	}
	lines := g.LogSince(from)
	s.publish(msgType, LogPayload{From: from, Lines: lines}, g.RunID())

	writeJSON(w, http.StatusOK, CommandResponse{State: snapshot(g), Lines: lines, Outcome: note})
}

func (s *Server) publish(msgType string, payload LogPayload, sender string) {
	if s.hub != nil && len(payload.Lines) > 0 {
		s.hub.Publish(msgType, payload, sender)
	}
}

func snapshot(g *game.Game) StateResponse {
	b := g.Balance()
	resp := StateResponse{
		RunID:    g.RunID(),
		Status:   g.Status(),
		Player:   g.Player(),
		Market:   g.Market(),
		Rules:    b.Rules,
		Features: b.Features,
		HealCost: g.HealCost(),
		LogLen:   g.LogLen(),
	}
	if b.Features.StashHouses {
		resp.StashHousePrice = g.StashHousePrice()
	}
	if enc, ok := g.Encounter(); ok {
		resp.Encounter = &enc
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
