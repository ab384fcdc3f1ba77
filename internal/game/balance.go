/*
Package game
File: balance.go
Description:
    Global tuning tables loaded from 'balance.yaml' (or a .toml file).
    These values control the economy, the risk tables and which edition
    features are switched on.

    The file lists substances, locations and weapons by name. Loading
    resolves them into fixed arrays indexed by the enumerations in
    models.go, and fails if any enumeration value is missing.
*/

package game

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// MaxHealth is the health of a fresh or fully treated player.
const MaxHealth = 100

// GameRules stores the scalar constants of a game.
type GameRules struct {
	DayLimit         int     `yaml:"day_limit" toml:"day_limit" json:"day_limit"`                            // Game ends once the day counter passes this
	StartingCash     int     `yaml:"starting_cash" toml:"starting_cash" json:"starting_cash"`                // Cash of a new player
	StartingDebt     int     `yaml:"starting_debt" toml:"starting_debt" json:"starting_debt"`                // Loan shark balance of a new player
	CarryingCapacity int     `yaml:"carrying_capacity" toml:"carrying_capacity" json:"carrying_capacity"`    // Max units in the player's coat
	InterestRate     float64 `yaml:"interest_rate" toml:"interest_rate" json:"interest_rate"`                // Debt growth per travel (0.1 = 10%)
	MaxHistory       int     `yaml:"max_history" toml:"max_history" json:"max_history"`                      // Price points kept per substance
	HealCostPerPoint int     `yaml:"heal_cost_per_point" toml:"heal_cost_per_point" json:"heal_cost_per_point"` // Hospital price per missing health point
}

// Features switches edition capabilities on and off.
// The basic edition runs with every flag false.
type Features struct {
	Weapons               bool `yaml:"weapons" toml:"weapons" json:"weapons"`
	GlobalEvents          bool `yaml:"global_events" toml:"global_events" json:"global_events"`
	ExtraSpecialEvents    bool `yaml:"extra_special_events" toml:"extra_special_events" json:"extra_special_events"`
	TravelWindfalls       bool `yaml:"travel_windfalls" toml:"travel_windfalls" json:"travel_windfalls"`
	PoliceEncounters      bool `yaml:"police_encounters" toml:"police_encounters" json:"police_encounters"`
	InteractiveEncounters bool `yaml:"interactive_encounters" toml:"interactive_encounters" json:"interactive_encounters"`
	StashHouses           bool `yaml:"stash_houses" toml:"stash_houses" json:"stash_houses"`
}

// BasicFeatures turns every optional rule off.
func BasicFeatures() Features { return Features{} }

// ExtendedFeatures turns everything on.
func ExtendedFeatures() Features {
	return Features{
		Weapons:               true,
		GlobalEvents:          true,
		ExtraSpecialEvents:    true,
		TravelWindfalls:       true,
		PoliceEncounters:      true,
		InteractiveEncounters: true,
		StashHouses:           true,
	}
}

// EditionFeatures maps an edition name to its feature set.
func EditionFeatures(edition string) (Features, error) {
	switch strings.ToLower(strings.TrimSpace(edition)) {
	case "basic":
		return BasicFeatures(), nil
	case "extended", "":
		return ExtendedFeatures(), nil
	}
	return Features{}, fmt.Errorf("unknown edition %q", edition)
}

// SubstanceConfig is the base price range of a substance: [MinPrice, MaxPrice).
type SubstanceConfig struct {
	Name     string `yaml:"name" toml:"name" json:"name"`
	MinPrice int    `yaml:"min_price" toml:"min_price" json:"min_price"`
	MaxPrice int    `yaml:"max_price" toml:"max_price" json:"max_price"`
}

// LocationConfig carries per-location flavour.
type LocationConfig struct {
	Name            string  `yaml:"name" toml:"name" json:"name"`
	StashMultiplier float64 `yaml:"stash_multiplier" toml:"stash_multiplier" json:"stash_multiplier"` // Stash house price = base * multiplier
}

// WeaponConfig is a buyable weapon.
type WeaponConfig struct {
	Name      string `yaml:"name" toml:"name" json:"name"`
	Price     int    `yaml:"price" toml:"price" json:"price"`
	Power     int    `yaml:"power" toml:"power" json:"power"`                // Attack/defense rating used by encounters
	SingleUse bool   `yaml:"single_use" toml:"single_use" json:"single_use"` // Consumed when used (Grenade)
}

// StashHouseConfig defines the secondary storage players can buy.
type StashHouseConfig struct {
	Capacity  int `yaml:"capacity" toml:"capacity" json:"capacity"`
	BasePrice int `yaml:"base_price" toml:"base_price" json:"base_price"`
}

// Balance is the root configuration struct, mapping to the entire balance file.
type Balance struct {
	Rules      GameRules         `yaml:"game_balance" toml:"game_balance" json:"game_balance"`
	Features   Features          `yaml:"features" toml:"features" json:"features"`
	Substances []SubstanceConfig `yaml:"substances" toml:"substances" json:"substances"`
	Locations  []LocationConfig  `yaml:"locations" toml:"locations" json:"locations"`
	Weapons    []WeaponConfig    `yaml:"weapons" toml:"weapons" json:"weapons"`
	StashHouse StashHouseConfig  `yaml:"stash_house" toml:"stash_house" json:"stash_house"`

	// Resolved tables, filled by Resolve.
	substances [NumSubstances]SubstanceConfig
	locations  [NumLocations]LocationConfig
	weapons    [NumWeapons]WeaponConfig
	resolved   bool
}

// DefaultBalance returns the stock extended-edition tables.
func DefaultBalance() *Balance {
	b := &Balance{
		Rules: GameRules{
			DayLimit:         30,
			StartingCash:     2000,
			StartingDebt:     5000,
			CarryingCapacity: 100,
			InterestRate:     0.10,
			MaxHistory:       10,
			HealCostPerPoint: 50,
		},
		Features: ExtendedFeatures(),
		Substances: []SubstanceConfig{
			{Name: "Weed", MinPrice: 10, MaxPrice: 100},
			{Name: "Cocaine", MinPrice: 100, MaxPrice: 1000},
			{Name: "Ludes", MinPrice: 20, MaxPrice: 200},
			{Name: "Acid", MinPrice: 50, MaxPrice: 400},
			{Name: "Heroin", MinPrice: 150, MaxPrice: 1500},
			{Name: "Speed", MinPrice: 50, MaxPrice: 700},
		},
		Locations: []LocationConfig{
			{Name: "Bronx", StashMultiplier: 0.8},
			{Name: "Brooklyn", StashMultiplier: 1.0},
			{Name: "Manhattan", StashMultiplier: 2.0},
			{Name: "Queens", StashMultiplier: 0.9},
			{Name: "Staten Island", StashMultiplier: 0.7},
			{Name: "Central Park", StashMultiplier: 1.5},
		},
		Weapons: []WeaponConfig{
			{Name: "Baseball Bat", Price: 200, Power: 10},
			{Name: "Knife", Price: 350, Power: 15},
			{Name: "Pistol", Price: 1500, Power: 40},
			{Name: "Shotgun", Price: 3000, Power: 60},
			{Name: "Uzi", Price: 6000, Power: 80},
			{Name: "Grenade", Price: 2500, Power: 100, SingleUse: true},
		},
		StashHouse: StashHouseConfig{Capacity: 200, BasePrice: 10000},
	}
	if err := b.Resolve(); err != nil {
		panic(fmt.Sprintf("default balance: %v", err))
	}
	return b
}

// LoadBalance reads a balance file on top of the defaults.
// Files ending in .toml are decoded as TOML, anything else as YAML.
// Sections missing from the file keep their default values.
func LoadBalance(path string) (*Balance, error) {
	// 1. Read the file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read balance: %w", err)
	}

	// 2. Decode over the defaults
	b := DefaultBalance()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, b)
	default:
		err = yaml.Unmarshal(data, b)
	}
	if err != nil {
		return nil, fmt.Errorf("decode balance %s: %w", path, err)
	}

	// 3. Index the tables by enumeration
	if err := b.Resolve(); err != nil {
		return nil, fmt.Errorf("balance %s: %w", path, err)
	}
	return b, nil
}

// Resolve validates the named tables and indexes them by enumeration.
func (b *Balance) Resolve() error {
	r := b.Rules
	if r.DayLimit <= 0 || r.CarryingCapacity <= 0 || r.MaxHistory <= 0 {
		return fmt.Errorf("day_limit, carrying_capacity and max_history must be positive")
	}
	if r.InterestRate < 0 || r.HealCostPerPoint < 0 || r.StartingCash < 0 || r.StartingDebt < 0 {
		return fmt.Errorf("money settings must not be negative")
	}

	var seenS [NumSubstances]bool
	for _, c := range b.Substances {
		s, err := ParseSubstance(c.Name)
		if err != nil {
			return err
		}
		if seenS[s] {
			return fmt.Errorf("substance %s listed twice", s)
		}
		if c.MinPrice < 1 || c.MaxPrice <= c.MinPrice {
			return fmt.Errorf("substance %s: need 1 <= min_price < max_price", s)
		}
		seenS[s] = true
		b.substances[s] = c
	}
	for i, ok := range seenS {
		if !ok {
			return fmt.Errorf("substance %s missing", Substance(i))
		}
	}

	var seenL [NumLocations]bool
	for _, c := range b.Locations {
		l, err := ParseLocation(c.Name)
		if err != nil {
			return err
		}
		if seenL[l] {
			return fmt.Errorf("location %s listed twice", l)
		}
		seenL[l] = true
		b.locations[l] = c
	}
	for i, ok := range seenL {
		if !ok {
			return fmt.Errorf("location %s missing", Location(i))
		}
	}

	// Weapons and stash houses only matter when their feature is on.
	if b.Features.Weapons {
		var seenW [NumWeapons]bool
		for _, c := range b.Weapons {
			w, err := ParseWeapon(c.Name)
			if err != nil {
				return err
			}
			if seenW[w] {
				return fmt.Errorf("weapon %s listed twice", w)
			}
			seenW[w] = true
			b.weapons[w] = c
		}
		for i, ok := range seenW {
			if !ok {
				return fmt.Errorf("weapon %s missing", Weapon(i))
			}
		}
	}
	if b.Features.StashHouses && b.StashHouse.Capacity <= 0 {
		return fmt.Errorf("stash_house.capacity must be positive")
	}

	b.resolved = true
	return nil
}

// PriceRange returns the base price range of a substance.
func (b *Balance) PriceRange(s Substance) (lo, hi int) {
	c := b.substances[s]
	return c.MinPrice, c.MaxPrice
}

// Weapon returns the table entry of a weapon.
func (b *Balance) Weapon(w Weapon) WeaponConfig {
	if !w.Valid() {
		return WeaponConfig{}
	}
	return b.weapons[w]
}

// StashHousePrice is base price times the location multiplier, truncated.
func (b *Balance) StashHousePrice(l Location) int {
	if !l.Valid() {
		return 0
	}
	price := decimal.NewFromInt(int64(b.StashHouse.BasePrice)).Mul(decimal.NewFromFloat(b.locations[l].StashMultiplier))
	return int(price.IntPart())
}
