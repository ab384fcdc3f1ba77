/*
Package game
File: player.go
Description:
    The player's own data: cash, debt, health, the coat and stash houses.
    Derived queries (space left, armed, owned stash locations) live here;
    every mutation goes through the Game commands.
*/

package game

// StashHouse is a location-bound secondary inventory owned by the player.
type StashHouse struct {
	Location  Location  `json:"location"`
	Inventory Inventory `json:"inventory"`
	Capacity  int       `json:"capacity"`
}

// TotalItems sums the stored units.
func (h *StashHouse) TotalItems() int { return h.Inventory.Total() }

// SpaceAvailable is capacity minus stored units, never negative.
func (h *StashHouse) SpaceAvailable() int {
	return max(0, h.Capacity-h.TotalItems())
}

// Player is the single player's state.
// It is plain data: the Game mutates it, presentation reads snapshots.
type Player struct {
	Cash      int       `json:"cash"`
	Debt      int       `json:"debt"`
	Inventory Inventory `json:"inventory"`
	Capacity  int       `json:"capacity"` // Max units carried
	Location  Location  `json:"location"`
	Day       int       `json:"day"`
	Health    int       `json:"health"`

	// Extended edition
	Weapons     Armory                   `json:"weapons"`
	Equipped    Weapon                   `json:"equipped"`
	StashHouses map[Location]*StashHouse `json:"stash_houses"`
}

// NewPlayer returns a player at the start of a game.
func NewPlayer(b *Balance) Player {
	return Player{
		Cash:        b.Rules.StartingCash,
		Debt:        b.Rules.StartingDebt,
		Capacity:    b.Rules.CarryingCapacity,
		Location:    Bronx,
		Day:         1,
		Health:      MaxHealth,
		Equipped:    NoWeapon,
		StashHouses: make(map[Location]*StashHouse),
	}
}

// TotalItems sums all carried units.
func (p *Player) TotalItems() int { return p.Inventory.Total() }

// SpaceAvailable is carrying capacity minus carried units, never negative.
func (p *Player) SpaceAvailable() int {
	return max(0, p.Capacity-p.TotalItems())
}

// HasWeapon reports whether any weapon is owned.
func (p *Player) HasWeapon() bool { return p.Weapons.Any() }

// Armed reports whether a weapon is equipped.
func (p *Player) Armed() bool { return p.Equipped != NoWeapon }

// ActiveWeaponPower is the power of the equipped weapon, 0 when unarmed.
func (p *Player) ActiveWeaponPower(b *Balance) int {
	if !p.Armed() {
		return 0
	}
	return b.Weapon(p.Equipped).Power
}

// OwnsStashHouse reports whether the player has a stash house at l.
func (p *Player) OwnsStashHouse(l Location) bool {
	_, ok := p.StashHouses[l]
	return ok
}

// OwnedStashLocations lists owned stash houses in location order.
func (p *Player) OwnedStashLocations() []Location {
	var out []Location
	for _, l := range Locations() {
		if p.OwnsStashHouse(l) {
			out = append(out, l)
		}
	}
	return out
}

// NetWorth is cash minus debt.
func (p *Player) NetWorth() int { return p.Cash - p.Debt }

// clone deep-copies the stash houses so snapshots can't alias live state.
func (p Player) clone() Player {
	houses := make(map[Location]*StashHouse, len(p.StashHouses))
	for l, h := range p.StashHouses {
		c := *h
		houses[l] = &c
	}
	p.StashHouses = houses
	return p
}
