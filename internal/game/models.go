/*
Package game
File: models.go
Description:
    Defines the fixed enumerations of the game world (Substances, Locations,
    Weapons) and the per-enumeration tables used by the player and market.

    Every enumeration is closed: its values index fixed-size arrays, so a
    table can never be missing an entry. Names round-trip through
    MarshalText/UnmarshalText so they read naturally in JSON and config.
*/

package game

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Substance is a tradeable commodity.
type Substance int

const (
	Weed Substance = iota
	Cocaine
	Ludes
	Acid
	Heroin
	Speed
)

// NumSubstances is the size of every per-substance table.
const NumSubstances = int(Speed) + 1

var substanceNames = [NumSubstances]string{"Weed", "Cocaine", "Ludes", "Acid", "Heroin", "Speed"}

// Location is a neighbourhood the player can travel to.
type Location int

const (
	Bronx Location = iota
	Brooklyn
	Manhattan
	Queens
	StatenIsland
	CentralPark
)

const NumLocations = int(CentralPark) + 1

var locationNames = [NumLocations]string{"Bronx", "Brooklyn", "Manhattan", "Queens", "Staten Island", "Central Park"}

// Weapon is an item the player can buy and equip for encounters.
type Weapon int

const (
	BaseballBat Weapon = iota
	Knife
	Pistol
	Shotgun
	Uzi
	Grenade
)

const NumWeapons = int(Grenade) + 1

// NoWeapon marks an empty hand.
const NoWeapon Weapon = -1

var weaponNames = [NumWeapons]string{"Baseball Bat", "Knife", "Pistol", "Shotgun", "Uzi", "Grenade"}

// parseName matches a name case-insensitively against a name table.
func parseName(names []string, s string) (int, bool) {
	s = strings.TrimSpace(s)
	for i, n := range names {
		if strings.EqualFold(n, s) {
			return i, true
		}
	}
	return 0, false
}

// --- Substance ---

func (s Substance) Valid() bool { return s >= 0 && int(s) < NumSubstances }

func (s Substance) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Substance(%d)", int(s))
	}
	return substanceNames[s]
}

func (s Substance) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Substance) UnmarshalText(b []byte) error {
	v, err := ParseSubstance(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSubstance resolves a substance by name.
func ParseSubstance(name string) (Substance, error) {
	i, ok := parseName(substanceNames[:], name)
	if !ok {
		return 0, fmt.Errorf("unknown substance %q", name)
	}
	return Substance(i), nil
}

// Substances lists every substance in table order.
func Substances() []Substance {
	out := make([]Substance, NumSubstances)
	for i := range out {
		out[i] = Substance(i)
	}
	return out
}

// --- Location ---

func (l Location) Valid() bool { return l >= 0 && int(l) < NumLocations }

func (l Location) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Location(%d)", int(l))
	}
	return locationNames[l]
}

func (l Location) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

func (l *Location) UnmarshalText(b []byte) error {
	v, err := ParseLocation(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

func ParseLocation(name string) (Location, error) {
	i, ok := parseName(locationNames[:], name)
	if !ok {
		return 0, fmt.Errorf("unknown location %q", name)
	}
	return Location(i), nil
}

func Locations() []Location {
	out := make([]Location, NumLocations)
	for i := range out {
		out[i] = Location(i)
	}
	return out
}

// --- Weapon ---

func (w Weapon) Valid() bool { return w >= 0 && int(w) < NumWeapons }

func (w Weapon) String() string {
	if w == NoWeapon {
		return "none"
	}
	if !w.Valid() {
		return fmt.Sprintf("Weapon(%d)", int(w))
	}
	return weaponNames[w]
}

func (w Weapon) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

func (w *Weapon) UnmarshalText(b []byte) error {
	if strings.EqualFold(strings.TrimSpace(string(b)), "none") {
		*w = NoWeapon
		return nil
	}
	v, err := ParseWeapon(string(b))
	if err != nil {
		return err
	}
	*w = v
	return nil
}

func ParseWeapon(name string) (Weapon, error) {
	i, ok := parseName(weaponNames[:], name)
	if !ok {
		return 0, fmt.Errorf("unknown weapon %q", name)
	}
	return Weapon(i), nil
}

func Weapons() []Weapon {
	out := make([]Weapon, NumWeapons)
	for i := range out {
		out[i] = Weapon(i)
	}
	return out
}

// Inventory maps every substance to a held quantity.
type Inventory [NumSubstances]int

// Total sums all quantities.
func (inv Inventory) Total() int {
	total := 0
	for _, n := range inv {
		total += n
	}
	return total
}

func (inv Inventory) IsEmpty() bool { return inv.Total() == 0 }

// Value prices every held unit at the given prices.
func (inv Inventory) Value(prices Prices) int {
	value := 0
	for s, n := range inv {
		value += n * prices[s]
	}
	return value
}

func (inv Inventory) MarshalJSON() ([]byte, error) {
	out := make(map[string]int, NumSubstances)
	for s, n := range inv {
		out[substanceNames[s]] = n
	}
	return json.Marshal(out)
}

// Prices holds one current price per substance.
type Prices [NumSubstances]int

func (p Prices) MarshalJSON() ([]byte, error) {
	out := make(map[string]int, NumSubstances)
	for s, n := range p {
		out[substanceNames[s]] = n
	}
	return json.Marshal(out)
}

// PriceHistory holds the bounded price series per substance, oldest first.
type PriceHistory [NumSubstances][]int

func (h PriceHistory) MarshalJSON() ([]byte, error) {
	out := make(map[string][]int, NumSubstances)
	for s, series := range h {
		if series == nil {
			series = []int{}
		}
		out[substanceNames[s]] = series
	}
	return json.Marshal(out)
}

// Armory counts owned weapons.
type Armory [NumWeapons]int

// Any reports whether at least one weapon is owned.
func (a Armory) Any() bool {
	for _, n := range a {
		if n > 0 {
			return true
		}
	}
	return false
}

func (a Armory) MarshalJSON() ([]byte, error) {
	out := make(map[string]int, NumWeapons)
	for w, n := range a {
		out[weaponNames[w]] = n
	}
	return json.Marshal(out)
}
