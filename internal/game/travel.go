/*
Package game
File: travel.go
Description:
    Travel is the turn-advance operator. It rolls one travel event,
    resolves it, and then finishes the trip: the player moves, the day
    advances, interest accrues, stash houses may be raided and the market
    is regenerated.

    A police stop in the interactive edition suspends the trip instead;
    see police.go. The trip is finished once the encounter resolves.
*/

package game

import (
	"log/slog"

	"github.com/everforgeworks/dopewars/internal/random"
)

// Travel event outcomes. Rolls at or past eventUneventful are quiet.
const (
	eventPolice = iota
	eventMugging
	eventInjury
	eventPriceCrash
	eventPriceSpike
	eventFoundDrugs
	eventUneventful
)

const (
	basicTravelSides    = 10 // 1-in-10 per outcome
	extendedTravelSides = 12 // 1-in-12 per outcome
	raidChance          = 5  // percent per trip, when owning a stash house
	raidRemovalChance   = 10 // percent per raid
	raidFineCap         = 5000
)

// Travel moves the player to dest, advancing one day.
func (g *Game) Travel(dest Location) error {
	rej := g.begin("travel")
	if !dest.Valid() {
		rej.check(true, ReasonUnknownItem)
		return rej.err()
	}
	rej.check(dest == g.player.Location, ReasonSameLocation)
	if rej.failed() {
		return rej.err()
	}

	g.logf("Traveling to %s...", dest)

	// 1. Roll the travel event
	sides := basicTravelSides
	if g.balance.Features.TravelWindfalls {
		sides = extendedTravelSides
	}
	event := g.rng.Intn(sides)
	if event >= eventPriceCrash && !g.balance.Features.TravelWindfalls {
		event = eventUneventful
	}

	// 2. Resolve it
	var shock *priceShock
	switch event {
	case eventPolice:
		if !g.policeStop(dest) {
			// Trip suspended until the encounter is resolved.
			return nil
		}
	case eventMugging:
		g.mugging()
	case eventInjury:
		g.injury()
	case eventPriceCrash, eventPriceSpike:
		shock = &priceShock{substance: Substance(g.rng.Intn(NumSubstances)), crash: event == eventPriceCrash}
	case eventFoundDrugs:
		g.foundDrugs()
	default:
		g.logf("Journey was uneventful.")
	}

	// 3. Finish the turn
	g.finishTrip(dest)
	if shock != nil {
		g.applyShock(*shock)
	}
	g.settle()
	return nil
}

// priceShock is a travel rumour that moves one price on arrival.
type priceShock struct {
	substance Substance
	crash     bool
}

// applyShock scales the current price of one substance by 3, after the
// arrival market is generated. The history keeps the generated price.
func (g *Game) applyShock(sh priceShock) {
	s := sh.substance
	if sh.crash {
		g.market.Prices[s] = max(1, g.market.Prices[s]/3)
		g.logf("The bottom fell out of the %s market! It's going for $%d.", s, g.market.Prices[s])
		return
	}
	g.market.Prices[s] *= 3
	g.logf("Everyone wants %s right now! It's going for $%d.", s, g.market.Prices[s])
}

func (g *Game) mugging() {
	g.logf("You were jumped by a mugger!")
	if g.player.Armed() {
		power := g.player.ActiveWeaponPower(g.balance)
		if random.Chance(g.rng, muggingDefendChance(power)) {
			damage := g.rng.Intn(10)
			g.player.Health = applyDamage(g.player.Health, damage, 0)
			g.logf("You fought them off with your %s, taking %d damage.", g.player.Equipped, damage)
			return
		}
	}
	lost := capAt(random.Range(g.rng, 100, 500), g.player.Cash)
	g.player.Cash -= lost
	g.logf("You were mugged! You lost $%d", lost)
}

func (g *Game) injury() {
	g.logf("You got injured during travel!")
	damage := random.Range(g.rng, 5, 20)
	g.player.Health = applyDamage(g.player.Health, damage, 0)
	g.logf("You lost %d health points", damage)
	if g.player.Health == 0 {
		g.logf("You're severely injured and need medical attention!")
	}
}

func (g *Game) foundDrugs() {
	s := Substance(g.rng.Intn(NumSubstances))
	amount := random.Range(g.rng, 1, 5)
	if amount > g.player.SpaceAvailable() {
		g.logf("You found %d units of %s, but you have no room to carry them.", amount, s)
		return
	}
	g.player.Inventory[s] += amount
	g.logf("You found %d units of %s on the subway!", amount, s)
}

// finishTrip applies the end-of-turn bookkeeping.
func (g *Game) finishTrip(dest Location) {
	g.player.Location = dest
	g.player.Day++
	g.player.Debt = AccrueInterest(g.player.Debt, g.balance.Rules.InterestRate)
	g.logf("You've arrived at %s.", dest)
	g.logf("Your debt has increased to $%d due to interest.", g.player.Debt)

	g.raidCheck()
	g.generateMarket()

	g.logger.Debug("day advanced",
		slog.String("run", g.runID),
		slog.Int("day", g.player.Day),
		slog.String("location", dest.String()),
		slog.Int("cash", g.player.Cash),
		slog.Int("debt", g.player.Debt),
	)
}

// raidCheck may raid one of the player's stash houses.
func (g *Game) raidCheck() {
	if !g.balance.Features.StashHouses {
		return
	}
	owned := g.player.OwnedStashLocations()
	if len(owned) == 0 || !random.Chance(g.rng, raidChance) {
		return
	}

	loc := owned[g.rng.Intn(len(owned))]
	house := g.player.StashHouses[loc]
	g.logf("The police raided your stash house in %s!", loc)

	if !house.Inventory.IsEmpty() {
		for s, held := range house.Inventory {
			if held == 0 {
				continue
			}
			taken := held * random.Range(g.rng, 50, 101) / 100
			house.Inventory[s] -= taken
			if taken > 0 {
				g.logf("They seized %d units of %s.", taken, Substance(s))
			}
		}
		fine := capAt(random.Range(g.rng, 0, raidFineCap), g.player.Cash)
		g.player.Cash -= fine
		g.logf("You were fined $%d.", fine)
	}

	if random.Chance(g.rng, raidRemovalChance) {
		delete(g.player.StashHouses, loc)
		g.logf("The city condemned your stash house in %s. It's gone.", loc)
	}
	g.logger.Info("stash raid", slog.String("run", g.runID), slog.String("location", loc.String()))
}
