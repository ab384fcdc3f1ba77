/*
Package game
File: economy.go
Description:
    Handles the economic simulation of the street market.
    This includes:
    1. Rolling a city-wide "global event" that scales every price.
    2. Drawing a fresh base price per substance from its range.
    3. Rolling a per-substance special event (busts, floods, ...).
    4. Recording each new price in a bounded history for the charts.
*/

package game

import (
	"fmt"

	"github.com/everforgeworks/dopewars/internal/random"
)

const (
	globalEventSides  = 20 // 1-in-20 for each global outcome
	specialEventSides = 20 // 1-in-20 for each substance outcome
)

// globalEvent is a market-wide price modifier, in percent.
type globalEvent struct {
	percent int
	message string
}

var globalEvents = []globalEvent{
	{150, "Police launched a city-wide enforcement operation! Prices are up across the board."},
	{200, "A major cartel got busted! Prices have doubled across the board."},
	{50, "Cheap synthetics flooded the streets! Prices have halved."},
	{70, "The economy is in recession. Everything is selling cheap."},
}

// MarketState is the current market: prices, recent history and the
// special events of the last generation.
//
// History holds generated prices only. A travel price shock moves Prices
// after generation, so Prices can differ from the last History entry.
type MarketState struct {
	Prices  Prices       `json:"prices"`        // Current price per unit
	History PriceHistory `json:"price_history"` // Oldest first, capped at MaxHistory
	Events  []string     `json:"events"`        // Cleared and refilled on every generation
}

// Market owns the MarketState and the rules that regenerate it.
type Market struct {
	MarketState
	balance *Balance
}

// NewMarket creates an empty market. Prices stay zero until Generate.
func NewMarket(b *Balance) *Market {
	m := &Market{balance: b}
	for s := range m.History {
		m.History[s] = []int{}
	}
	m.Events = []string{}
	return m
}

// Generate is the daily pricing pass, run once per day-advance.
func (m *Market) Generate(src random.Source) {
	// 1. Forget yesterday's headlines
	m.Events = m.Events[:0]

	// 2. Global event (extended edition)
	globalPercent := 100
	if m.balance.Features.GlobalEvents {
		if roll := src.Intn(globalEventSides); roll < len(globalEvents) {
			ev := globalEvents[roll]
			globalPercent = ev.percent
			m.Events = append(m.Events, ev.message)
		}
	}

	for _, s := range Substances() {
		// 3. Base price from the substance's range
		lo, hi := m.balance.PriceRange(s)
		price := random.Range(src, lo, hi)

		// 4. Substance-specific special event
		switch roll := src.Intn(specialEventSides); {
		case roll == 0:
			m.Events = append(m.Events, fmt.Sprintf("Breaking news! Police busted a %s shipment! Prices skyrocketing!", s))
			price *= 5
		case roll == 1:
			m.Events = append(m.Events, fmt.Sprintf("Market flooded with %s! Prices have crashed!", s))
			price /= 5
		case roll == 2 && m.balance.Features.ExtraSpecialEvents:
			m.Events = append(m.Events, fmt.Sprintf("Premium %s hit the streets! Buyers are paying triple!", s))
			price *= 3
		case roll == 3 && m.balance.Features.ExtraSpecialEvents:
			m.Events = append(m.Events, fmt.Sprintf("Contaminated %s scare! Nobody wants to touch it.", s))
			price /= 3
		}

		// 5. Global modifier and floor
		price = price * globalPercent / 100
		if price < 1 {
			price = 1
		}

		// 6. Store and record
		m.Prices[s] = price
		m.record(s, price)
	}
}

// record appends to a substance's history, dropping the oldest past the cap.
func (m *Market) record(s Substance, price int) {
	h := append(m.History[s], price)
	if limit := m.balance.Rules.MaxHistory; len(h) > limit {
		h = append([]int(nil), h[len(h)-limit:]...)
	}
	m.History[s] = h
}

// Snapshot returns a deep copy of the market state.
func (m *Market) Snapshot() MarketState {
	out := MarketState{
		Prices: m.Prices,
		Events: append([]string{}, m.Events...),
	}
	for s, h := range m.History {
		out.History[s] = append([]int{}, h...)
	}
	return out
}
