/*
Package game
File: actions.go
Description:
    The economic commands: trading, the loan shark, the hospital, the gun
    shop and stash houses.

    Every command validates all of its preconditions first and either
    applies the whole mutation or returns a *RejectedError listing every
    failed precondition, leaving the game untouched.
*/

package game

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// ParseAmount reads a user-typed amount. Anything unparseable is 0,
// which every command then rejects as a non-positive amount.
func ParseAmount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// Buy purchases amount units of s at the current price.
func (g *Game) Buy(s Substance, amount int) error {
	rej := g.begin("buy")
	if !s.Valid() {
		rej.check(true, ReasonUnknownItem)
		return rej.err()
	}
	cost := amount * g.market.Prices[s]
	rej.check(amount <= 0, ReasonNonPositiveAmount)
	rej.check(amount > g.player.SpaceAvailable(), ReasonInsufficientSpace)
	rej.check(cost > g.player.Cash, ReasonInsufficientCash)
	if rej.failed() {
		return rej.err()
	}

	g.player.Cash -= cost
	g.player.Inventory[s] += amount
	g.logf("Bought %d units of %s for $%d", amount, s, cost)
	g.settle()
	return nil
}

// Sell sells amount units of s at the current price.
func (g *Game) Sell(s Substance, amount int) error {
	rej := g.begin("sell")
	if !s.Valid() {
		rej.check(true, ReasonUnknownItem)
		return rej.err()
	}
	rej.check(amount <= 0, ReasonNonPositiveAmount)
	rej.check(amount > g.player.Inventory[s], ReasonInsufficientInventory)
	if rej.failed() {
		return rej.err()
	}

	earned := amount * g.market.Prices[s]
	g.player.Cash += earned
	g.player.Inventory[s] -= amount
	g.logf("Sold %d units of %s for $%d", amount, s, earned)
	g.settle()
	return nil
}

// MaxBuyable is the largest amount of s the player can afford and carry.
func (g *Game) MaxBuyable(s Substance) int {
	if !s.Valid() || g.market.Prices[s] <= 0 {
		return 0
	}
	return max(0, min(g.player.Cash/g.market.Prices[s], g.player.SpaceAvailable()))
}

// Borrow takes a loan from the loan shark.
func (g *Game) Borrow(amount int) error {
	rej := g.begin("borrow")
	rej.check(amount <= 0, ReasonNonPositiveAmount)
	rej.check(amount > math.MaxInt-g.player.Cash || amount > math.MaxInt-g.player.Debt, ReasonLoanTooLarge)
	if rej.failed() {
		return rej.err()
	}

	g.player.Cash += amount
	g.player.Debt += amount
	g.logf("You borrowed $%d, your debt is now $%d", amount, g.player.Debt)
	g.settle()
	return nil
}

// Repay pays back part of the debt.
func (g *Game) Repay(amount int) error {
	rej := g.begin("repay")
	rej.check(amount <= 0, ReasonNonPositiveAmount)
	rej.check(amount > g.player.Cash, ReasonInsufficientCash)
	rej.check(amount > g.player.Debt, ReasonExceedsDebt)
	if rej.failed() {
		return rej.err()
	}

	g.player.Cash -= amount
	g.player.Debt -= amount
	g.logf("You repaid $%d, your debt is now $%d", amount, g.player.Debt)
	g.settle()
	return nil
}

// HealCost is the current hospital bill.
func (g *Game) HealCost() int {
	return HealCost(g.player.Health, g.balance.Rules.HealCostPerPoint)
}

// Heal restores full health. It is a no-op at full health.
func (g *Game) Heal() error {
	rej := g.begin("heal")
	cost := g.HealCost()
	rej.check(cost > g.player.Cash, ReasonInsufficientCash)
	if rej.failed() {
		return rej.err()
	}
	if cost == 0 {
		return nil
	}

	g.player.Cash -= cost
	g.player.Health = MaxHealth
	g.logf("You've been treated and are now at full health!")
	g.settle()
	return nil
}

// BuyWeapon purchases one weapon and equips it if the player is unarmed.
func (g *Game) BuyWeapon(w Weapon) error {
	rej := g.begin("buy weapon")
	rej.check(!g.balance.Features.Weapons, ReasonFeatureDisabled)
	if !w.Valid() {
		rej.check(true, ReasonUnknownItem)
		return rej.err()
	}
	price := g.balance.Weapon(w).Price
	rej.check(price > g.player.Cash, ReasonInsufficientCash)
	if rej.failed() {
		return rej.err()
	}

	g.player.Cash -= price
	g.player.Weapons[w]++
	g.logf("You bought a %s for $%d", w, price)
	if !g.player.Armed() {
		g.player.Equipped = w
		g.logf("You equipped the %s", w)
	}
	g.settle()
	return nil
}

// EquipWeapon switches the active weapon to an owned one.
func (g *Game) EquipWeapon(w Weapon) error {
	rej := g.begin("equip")
	rej.check(!g.balance.Features.Weapons, ReasonFeatureDisabled)
	if !w.Valid() {
		rej.check(true, ReasonUnknownItem)
		return rej.err()
	}
	rej.check(g.player.Weapons[w] <= 0, ReasonWeaponNotOwned)
	if rej.failed() {
		return rej.err()
	}

	g.player.Equipped = w
	g.logf("You equipped the %s", w)
	g.settle()
	return nil
}

// StashHousePrice is what a stash house at the current location costs.
func (g *Game) StashHousePrice() int {
	return g.balance.StashHousePrice(g.player.Location)
}

// BuyStashHouse buys a stash house at the current location.
func (g *Game) BuyStashHouse() error {
	rej := g.begin("buy stash house")
	rej.check(!g.balance.Features.StashHouses, ReasonFeatureDisabled)
	loc := g.player.Location
	price := g.StashHousePrice()
	rej.check(g.player.OwnsStashHouse(loc), ReasonStashHouseExists)
	rej.check(price > g.player.Cash, ReasonInsufficientCash)
	if rej.failed() {
		return rej.err()
	}

	g.player.Cash -= price
	g.player.StashHouses[loc] = &StashHouse{
		Location: loc,
		Capacity: g.balance.StashHouse.Capacity,
	}
	g.logf("You bought a stash house in %s for $%d", loc, price)
	g.logger.Debug("stash house bought", slog.String("location", loc.String()), slog.Int("price", price))
	g.settle()
	return nil
}

// StashDeposit moves units from the player into the local stash house.
func (g *Game) StashDeposit(s Substance, amount int) error {
	rej := g.begin("deposit")
	house, ok := g.localStash(rej)
	if !s.Valid() {
		rej.check(true, ReasonUnknownItem)
		return rej.err()
	}
	rej.check(amount <= 0, ReasonNonPositiveAmount)
	rej.check(amount > g.player.Inventory[s], ReasonInsufficientInventory)
	if ok {
		rej.check(amount > house.SpaceAvailable(), ReasonStashFull)
	}
	if rej.failed() {
		return rej.err()
	}

	g.player.Inventory[s] -= amount
	house.Inventory[s] += amount
	g.logf("You stashed %d units of %s in %s", amount, s, house.Location)
	g.settle()
	return nil
}

// StashWithdraw moves units from the local stash house to the player.
func (g *Game) StashWithdraw(s Substance, amount int) error {
	rej := g.begin("withdraw")
	house, ok := g.localStash(rej)
	if !s.Valid() {
		rej.check(true, ReasonUnknownItem)
		return rej.err()
	}
	rej.check(amount <= 0, ReasonNonPositiveAmount)
	rej.check(amount > g.player.SpaceAvailable(), ReasonInsufficientSpace)
	if ok {
		rej.check(amount > house.Inventory[s], ReasonStashInsufficient)
	}
	if rej.failed() {
		return rej.err()
	}

	house.Inventory[s] -= amount
	g.player.Inventory[s] += amount
	g.logf("You took %d units of %s from your stash in %s", amount, s, house.Location)
	g.settle()
	return nil
}

// localStash finds the stash house at the current location, recording
// the reasons it is unusable on rej.
func (g *Game) localStash(rej *rejection) (*StashHouse, bool) {
	if !g.balance.Features.StashHouses {
		rej.check(true, ReasonFeatureDisabled)
		return nil, false
	}
	house, ok := g.player.StashHouses[g.player.Location]
	rej.check(!ok, ReasonNoStashHouse)
	return house, ok
}
