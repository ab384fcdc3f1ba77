/*
Package game
File: police.go
Description:
    The police encounter sub-state machine.

    Entered only from a police-stop travel event:
    - Basic edition: the cops take a random cut of one substance.
    - Empty pockets: nothing to find, the player walks.
    - Equipped grenade: 95% escape; the grenade is spent either way.
    - Otherwise an Encounter opens. Interactive games wait for
      ResolveEncounter; non-interactive games pick fight/run/bribe at random.

    Police can hurt but never kill: fight damage floors health at 1.
*/

package game

import (
	"fmt"
	"log/slog"

	"github.com/everforgeworks/dopewars/internal/random"
)

// PoliceChoice is the player's answer to a police stop.
type PoliceChoice int

const (
	ChoiceFight PoliceChoice = iota
	ChoiceRun
	ChoiceBribe
	ChoiceSurrender
	ChoiceRandom // fight, run or bribe, picked at random
)

var choiceNames = []string{"fight", "run", "bribe", "surrender", "random"}

func (c PoliceChoice) Valid() bool { return c >= ChoiceFight && c <= ChoiceRandom }

func (c PoliceChoice) String() string {
	if !c.Valid() {
		return fmt.Sprintf("PoliceChoice(%d)", int(c))
	}
	return choiceNames[c]
}

func (c PoliceChoice) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *PoliceChoice) UnmarshalText(b []byte) error {
	i, ok := parseName(choiceNames, string(b))
	if !ok {
		return fmt.Errorf("unknown police choice %q", string(b))
	}
	*c = PoliceChoice(i)
	return nil
}

// EncounterOutcome is how a police stop ended.
type EncounterOutcome int

const (
	OutcomeNone EncounterOutcome = iota
	OutcomeFightWon
	OutcomeFightLost
	OutcomeRanAway
	OutcomeCaught
	OutcomeBribeAccepted
	OutcomeBribeRejected
	OutcomeSurrendered
	OutcomeNoContraband
	OutcomeGrenadeEscape
	OutcomeGrenadeFailed
	OutcomeSearched // basic edition stop
)

var outcomeNames = []string{
	"none", "fight won", "fight lost", "ran away", "caught", "bribe accepted",
	"bribe rejected", "surrendered", "no contraband", "grenade escape",
	"grenade failed", "searched",
}

func (o EncounterOutcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return fmt.Sprintf("EncounterOutcome(%d)", int(o))
	}
	return outcomeNames[o]
}

func (o EncounterOutcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Escaped reports whether the player kept their stash.
func (o EncounterOutcome) Escaped() bool {
	switch o {
	case OutcomeFightWon, OutcomeRanAway, OutcomeBribeAccepted, OutcomeNoContraband, OutcomeGrenadeEscape:
		return true
	}
	return false
}

// Encounter is a police stop waiting for the player's choice.
type Encounter struct {
	Destination Location `json:"destination"` // Where the interrupted trip was going
	Value       int      `json:"value"`       // Street value of the contraband when stopped
}

// Encounter returns the pending police encounter, if any.
func (g *Game) Encounter() (Encounter, bool) {
	if g.encounter == nil {
		return Encounter{}, false
	}
	return *g.encounter, true
}

const (
	grenadeEscapeChance = 95
	bribeAcceptChance   = 70
	surrenderFineChance = 70
	policeFineLo        = 500
	policeFineHi        = 2000
)

// policeStop handles a police travel event. It returns false when the
// trip is suspended on a pending encounter.
func (g *Game) policeStop(dest Location) bool {
	if !g.balance.Features.PoliceEncounters {
		g.basicPoliceStop()
		return true
	}

	g.logf("You were stopped by the cops!")

	// 1. Nothing to find
	if g.player.Inventory.IsEmpty() {
		g.logf("They searched you and found nothing. You're free to go.")
		g.recordEncounter(OutcomeNoContraband)
		return true
	}

	// 2. The grenade bypasses the choice
	if g.player.Armed() && g.balance.Weapon(g.player.Equipped).SingleUse {
		g.throwGrenade()
		return true
	}

	// 3. Open the encounter
	enc := &Encounter{
		Destination: dest,
		Value:       g.player.Inventory.Value(g.market.Prices),
	}
	if g.balance.Features.InteractiveEncounters {
		g.encounter = enc
		g.logf("They want to search your coat. Fight, run, bribe or surrender?")
		g.logger.Debug("police encounter pending", slog.String("run", g.runID))
		return false
	}
	g.recordEncounter(g.resolvePolice(enc, ChoiceRandom, 0))
	return true
}

// basicPoliceStop is the basic edition stop: the cops take 1..n units of one
// random substance, if the player carries it.
func (g *Game) basicPoliceStop() {
	g.logf("You were stopped by cops! They want to search your stuff!")
	s := Substance(g.rng.Intn(NumSubstances))
	held := g.player.Inventory[s]
	if held > 0 {
		taken := random.Range(g.rng, 1, held+1)
		g.player.Inventory[s] -= taken
		g.logf("They took %d units of %s", taken, s)
	}
	g.recordEncounter(OutcomeSearched)
}

func (g *Game) throwGrenade() {
	w := g.player.Equipped
	g.player.Weapons[w]--
	g.player.Equipped = NoWeapon
	if random.Chance(g.rng, grenadeEscapeChance) {
		g.logf("You threw your %s and escaped in the chaos!", w)
		g.recordEncounter(OutcomeGrenadeEscape)
		return
	}
	g.logf("Your %s was a dud! The cops grabbed you.", w)
	g.confiscate()
	g.recordEncounter(OutcomeGrenadeFailed)
}

// ResolveEncounter answers a pending police encounter and finishes the
// interrupted trip. offer is only read for ChoiceBribe: 0 lets the police
// name their price, a positive offer is the player's own bribe.
func (g *Game) ResolveEncounter(choice PoliceChoice, offer int) (EncounterOutcome, error) {
	rej := &rejection{op: "resolve encounter"}
	rej.check(g.status.Over, ReasonGameOver)
	rej.check(g.encounter == nil, ReasonNoEncounter)
	rej.check(!choice.Valid(), ReasonUnknownItem)
	if choice == ChoiceBribe {
		rej.check(offer < 0, ReasonNonPositiveAmount)
		rej.check(offer > g.player.Cash, ReasonInsufficientCash)
	}
	if rej.failed() {
		return OutcomeNone, rej.err()
	}

	enc := g.encounter
	outcome := g.resolvePolice(enc, choice, offer)
	g.recordEncounter(outcome)
	g.encounter = nil

	g.finishTrip(enc.Destination)
	g.settle()
	return outcome, nil
}

// resolvePolice applies one choice to an encounter.
func (g *Game) resolvePolice(enc *Encounter, choice PoliceChoice, offer int) EncounterOutcome {
	if choice == ChoiceRandom {
		choice = PoliceChoice(g.rng.Intn(3))
	}

	switch choice {
	case ChoiceFight:
		return g.policeFight()
	case ChoiceRun:
		return g.policeRun()
	case ChoiceBribe:
		if offer > 0 {
			return g.offerBribe(enc, offer)
		}
		return g.demandedBribe(enc)
	default:
		return g.surrender()
	}
}

func (g *Game) policeFight() EncounterOutcome {
	chance := fightChance(g.player.Armed(), g.player.ActiveWeaponPower(g.balance))
	if random.Chance(g.rng, chance) {
		damage := random.Range(g.rng, 5, 20)
		g.player.Health = applyDamage(g.player.Health, damage, 1)
		g.logf("You fought your way out! You took %d damage.", damage)
		return OutcomeFightWon
	}
	g.confiscate()
	damage := random.Range(g.rng, 15, 40)
	g.player.Health = applyDamage(g.player.Health, damage, 1)
	g.logf("The cops beat you down. You took %d damage.", damage)
	return OutcomeFightLost
}

func (g *Game) policeRun() EncounterOutcome {
	if random.Chance(g.rng, runChance(g.player.Health)) {
		g.logf("You outran the cops!")
		return OutcomeRanAway
	}
	g.logf("You didn't get far.")
	g.confiscate()
	return OutcomeCaught
}

// demandedBribe is the automatic bribe: the police name a price between a
// quarter and half of the contraband value and take it 70% of the time.
func (g *Game) demandedBribe(enc *Encounter) EncounterOutcome {
	lo, hi := bribeDemandRange(enc.Value)
	bribe := random.Range(g.rng, lo, hi)
	if g.player.Cash >= bribe && random.Chance(g.rng, bribeAcceptChance) {
		g.player.Cash -= bribe
		g.logf("The cops took your $%d and looked the other way.", bribe)
		return OutcomeBribeAccepted
	}
	g.logf("The cops wanted $%d and weren't having it.", bribe)
	g.confiscate()
	g.policeFine()
	return OutcomeBribeRejected
}

// offerBribe is the player-named bribe: the bigger the share of the
// contraband value, the likelier it is accepted.
func (g *Game) offerBribe(enc *Encounter, offer int) EncounterOutcome {
	if random.Chance(g.rng, offeredBribeChance(offer, enc.Value)) {
		g.player.Cash -= offer
		g.logf("The cops pocketed your $%d and let you go.", offer)
		return OutcomeBribeAccepted
	}
	g.logf("The cops laughed at your $%d.", offer)
	g.confiscate()
	g.policeFine()
	return OutcomeBribeRejected
}

func (g *Game) surrender() EncounterOutcome {
	g.logf("You put your hands up.")
	g.confiscate()
	if random.Chance(g.rng, surrenderFineChance) {
		g.policeFine()
	}
	return OutcomeSurrendered
}

// confiscate empties the player's coat. Cash is never touched here.
func (g *Game) confiscate() {
	g.player.Inventory = Inventory{}
	g.logf("The cops confiscated everything you were carrying.")
}

func (g *Game) policeFine() {
	fine := capAt(random.Range(g.rng, policeFineLo, policeFineHi), g.player.Cash)
	g.player.Cash -= fine
	g.logf("You were fined $%d.", fine)
}

func (g *Game) recordEncounter(o EncounterOutcome) {
	g.logger.Info("police encounter", slog.String("run", g.runID), slog.String("outcome", o.String()))
}
