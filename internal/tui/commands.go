/*
Package tui
File: commands.go
Description:
    Parses typed player commands and runs them against the game.
    Names are matched exactly, then by prefix, then fuzzily.
*/

package tui

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/everforgeworks/dopewars/internal/game"
)

// Command is one parsed line of player input.
type Command struct {
	Verb   string // Canonical verb, e.g. "buy", "stash deposit"
	Target string // Resolved substance, location or weapon name
	Amount string // A number, "max"/"all", or empty
}

// nameList adapts a fixed name table to fuzzy.Source.
type nameList []string

func (n nameList) Len() int            { return len(n) }
func (n nameList) String(i int) string { return n[i] }

var (
	substanceNames = namesOf(game.Substances())
	locationNames  = namesOf(game.Locations())
	weaponNames    = namesOf(game.Weapons())
)

func namesOf[T fmt.Stringer](values []T) nameList {
	out := make(nameList, len(values))
	for i, v := range values {
		out[i] = v.String()
	}
	return out
}

// resolve matches typed text against a name table: exact, then prefix,
// then the best fuzzy match.
func resolve(kind string, names nameList, typed string) (string, error) {
	typed = strings.TrimSpace(typed)
	if typed == "" {
		return "", fmt.Errorf("which %s?", kind)
	}
	for _, n := range names {
		if strings.EqualFold(n, typed) {
			return n, nil
		}
	}
	lower := strings.ToLower(typed)
	for _, n := range names {
		if strings.HasPrefix(strings.ToLower(n), lower) {
			return n, nil
		}
	}
	if matches := fuzzy.FindFrom(lower, lowered(names)); len(matches) > 0 {
		return names[matches[0].Index], nil
	}
	return "", fmt.Errorf("no %s matches %q", kind, typed)
}

func lowered(names nameList) nameList {
	out := make(nameList, len(names))
	for i, n := range names {
		out[i] = strings.ToLower(n)
	}
	return out
}

// verbs maps typed words to canonical verbs.
var verbs = map[string]string{
	"buy": "buy", "b": "buy",
	"sell": "sell", "s": "sell",
	"borrow": "borrow", "loan": "borrow",
	"repay": "repay", "pay": "repay",
	"heal": "heal", "hospital": "heal",
	"travel": "travel", "go": "travel", "jet": "travel",
	"arm": "weapon buy", "gun": "weapon buy",
	"equip": "equip",
	"fight": "fight", "run": "run", "bribe": "bribe", "surrender": "surrender",
	"restart": "restart",
	"quit": "quit", "exit": "quit",
	"help": "help", "?": "help",
}

// ParseCommand turns a typed line into a Command.
//
//	buy <substance> <n|max>     sell <substance> <n|all>
//	borrow <n>   repay <n|all>  heal
//	travel <location>           gun <weapon>   equip <weapon>
//	stash buy | stash put <substance> <n|all> | stash take <substance> <n|all>
//	fight | run | bribe [n] | surrender
//	restart | help | quit
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("type a command, or help")
	}
	word, args := fields[0], fields[1:]

	if word == "stash" {
		return parseStash(args)
	}
	verb, ok := verbs[word]
	if !ok {
		return Command{}, fmt.Errorf("unknown command %q", word)
	}

	cmd := Command{Verb: verb}
	var err error
	switch verb {
	case "buy", "sell":
		if len(args) < 2 {
			return Command{}, fmt.Errorf("usage: %s <substance> <amount>", verb)
		}
		cmd.Amount = args[len(args)-1]
		cmd.Target, err = resolve("substance", substanceNames, strings.Join(args[:len(args)-1], " "))
	case "borrow", "repay":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: %s <amount>", verb)
		}
		cmd.Amount = args[0]
	case "travel":
		cmd.Target, err = resolve("location", locationNames, strings.Join(args, " "))
	case "weapon buy", "equip":
		cmd.Target, err = resolve("weapon", weaponNames, strings.Join(args, " "))
	case "bribe":
		if len(args) > 0 {
			cmd.Amount = args[0]
		}
	}
	if err != nil {
		return Command{}, err
	}
	return cmd, nil
}

func parseStash(args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, fmt.Errorf("usage: stash buy|put|take")
	}
	switch args[0] {
	case "buy":
		return Command{Verb: "stash buy"}, nil
	case "put", "deposit", "take", "withdraw":
		verb := "stash deposit"
		if args[0] == "take" || args[0] == "withdraw" {
			verb = "stash withdraw"
		}
		rest := args[1:]
		if len(rest) < 2 {
			return Command{}, fmt.Errorf("usage: stash %s <substance> <amount>", args[0])
		}
		target, err := resolve("substance", substanceNames, strings.Join(rest[:len(rest)-1], " "))
		if err != nil {
			return Command{}, err
		}
		return Command{Verb: verb, Target: target, Amount: rest[len(rest)-1]}, nil
	}
	return Command{}, fmt.Errorf("unknown stash command %q", args[0])
}

// Run applies the command to g. "max" and "all" are resolved against the
// current state; any other amount goes through game.ParseAmount.
func (c Command) Run(g *game.Game) (game.EncounterOutcome, error) {
	p := g.Player()
	switch c.Verb {
	case "buy":
		s, _ := game.ParseSubstance(c.Target)
		return game.OutcomeNone, g.Buy(s, c.amount(g.MaxBuyable(s)))
	case "sell":
		s, _ := game.ParseSubstance(c.Target)
		return game.OutcomeNone, g.Sell(s, c.amount(p.Inventory[s]))
	case "borrow":
		return game.OutcomeNone, g.Borrow(c.amount(0))
	case "repay":
		return game.OutcomeNone, g.Repay(c.amount(min(p.Cash, p.Debt)))
	case "heal":
		return game.OutcomeNone, g.Heal()
	case "travel":
		l, _ := game.ParseLocation(c.Target)
		return game.OutcomeNone, g.Travel(l)
	case "weapon buy":
		w, _ := game.ParseWeapon(c.Target)
		return game.OutcomeNone, g.BuyWeapon(w)
	case "equip":
		w, _ := game.ParseWeapon(c.Target)
		return game.OutcomeNone, g.EquipWeapon(w)
	case "stash buy":
		return game.OutcomeNone, g.BuyStashHouse()
	case "stash deposit":
		s, _ := game.ParseSubstance(c.Target)
		return game.OutcomeNone, g.StashDeposit(s, c.amount(p.Inventory[s]))
	case "stash withdraw":
		s, _ := game.ParseSubstance(c.Target)
		stored := 0
		if h, ok := p.StashHouses[p.Location]; ok {
			stored = min(h.Inventory[s], p.SpaceAvailable())
		}
		return game.OutcomeNone, g.StashWithdraw(s, c.amount(stored))
	case "fight":
		return g.ResolveEncounter(game.ChoiceFight, 0)
	case "run":
		return g.ResolveEncounter(game.ChoiceRun, 0)
	case "bribe":
		offer := 0
		if c.Amount != "" {
			offer = game.ParseAmount(c.Amount)
		}
		return g.ResolveEncounter(game.ChoiceBribe, offer)
	case "surrender":
		return g.ResolveEncounter(game.ChoiceSurrender, 0)
	case "restart":
		g.Restart()
		return game.OutcomeNone, nil
	}
	return game.OutcomeNone, fmt.Errorf("%s is not a game command", c.Verb)
}

// amount reads c.Amount, with "max" and "all" meaning all.
func (c Command) amount(all int) int {
	switch c.Amount {
	case "max", "all":
		return all
	}
	return game.ParseAmount(c.Amount)
}
