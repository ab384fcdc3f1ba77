/*
Package game
File: mechanics.go
Description:
    Contains the numeric rules of the game.
    Interest accrual, hospital pricing, damage and the percentage formulas
    used by encounters. It serves as the rules engine behind the actions.
*/

package game

import (
	"math"

	"github.com/shopspring/decimal"
)

var maxDebt = decimal.NewFromInt(math.MaxInt)

// AccrueInterest grows a debt by one period: floor(debt * (1 + rate)),
// saturating at math.MaxInt.
func AccrueInterest(debt int, rate float64) int {
	factor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(rate))
	grown := decimal.NewFromInt(int64(debt)).Mul(factor).Floor()
	if grown.GreaterThan(maxDebt) {
		return math.MaxInt
	}
	return int(grown.IntPart())
}

// HealCost is the hospital bill to restore full health.
func HealCost(health, perPoint int) int {
	if health >= MaxHealth {
		return 0
	}
	return (MaxHealth - health) * perPoint
}

// applyDamage lowers health, never below floor.
// Travel injuries use floor 0; police fights use floor 1.
func applyDamage(health, damage, floor int) int {
	return max(floor, health-damage)
}

// muggingDefendChance is the percent chance to fight off a mugger.
func muggingDefendChance(power int) int {
	return 30 + power/2
}

// fightChance is the percent chance to win a police fight.
func fightChance(armed bool, power int) int {
	if !armed {
		return 10
	}
	return 20 + power*7/10
}

// runChance is the percent chance to outrun the police.
func runChance(health int) int {
	return 30 + health/4
}

// offeredBribeChance is the percent chance a user-named bribe is taken:
// proportional to the share of the contraband value, clamped to [10, 95].
func offeredBribeChance(offer, value int) int {
	if value <= 0 {
		return 95
	}
	return min(95, max(10, offer*100/value))
}

// bribeDemandRange returns the [lo, hi) range of the bribe the police ask for.
func bribeDemandRange(value int) (lo, hi int) {
	return value / 4, value/2 + 1
}

// capAt limits a loss to what the player has.
func capAt(amount, available int) int {
	return max(0, min(amount, available))
}
