package game

import (
	"fmt"
	"maps"
	"slices"

	"lifesim/internal/catalog"
)

// Player is the single mutable root of per-session game state. Every
// catalog-backed reference (inventory, scores, portfolio, event log, zone)
// is held by key; callers resolve through the catalogs when they need the
// full entry. All mutation goes through the methods below, which leave the
// aggregate untouched when they fail.
type Player struct {
	Name      string
	Day       int
	Zone      string
	Cash      float64
	Stats     map[string]int
	Inventory map[string]int
	NPCScores map[string]int
	EventLog  []string
	Portfolio map[string]float64
}

func NewPlayer(name, zone string) *Player {
	return &Player{
		Name: name,
		Day:  1,
		Zone: zone,
		Cash: StarterCash,
		Stats: map[string]int{
			StatHunger: 80,
			StatEnergy: 80,
			StatMood:   70,
		},
		Inventory: map[string]int{},
		NPCScores: map[string]int{},
		EventLog:  []string{},
		Portfolio: map[string]float64{},
	}
}

// Equal reports field-by-field value equality. Two players built from the
// same data compare equal regardless of how their references were allocated.
func (p *Player) Equal(o *Player) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.Name == o.Name &&
		p.Day == o.Day &&
		p.Zone == o.Zone &&
		p.Cash == o.Cash &&
		maps.Equal(p.Stats, o.Stats) &&
		maps.Equal(p.Inventory, o.Inventory) &&
		maps.Equal(p.NPCScores, o.NPCScores) &&
		slices.Equal(p.EventLog, o.EventLog) &&
		maps.Equal(p.Portfolio, o.Portfolio)
}

// Week derives the 0-based week counter from the 1-based day counter.
func (p *Player) Week() int {
	return (p.Day - 1) / 7
}

// ValidateAgainst checks that every key the aggregate holds resolves in the
// supplied catalogs. A dangling key is a data-integrity error, never a
// silent no-op.
func (p *Player) ValidateAgainst(c *catalog.Catalogs) error {
	if _, err := c.LookupZone(p.Zone); err != nil {
		return err
	}
	for key := range p.Inventory {
		if _, err := c.LookupItem(key); err != nil {
			return err
		}
	}
	for key := range p.NPCScores {
		if _, err := c.LookupNPC(key); err != nil {
			return err
		}
	}
	for key := range p.Portfolio {
		if _, err := c.LookupStock(key); err != nil {
			return err
		}
	}
	for _, key := range p.EventLog {
		if _, err := c.LookupEvent(key); err != nil {
			return err
		}
	}
	return nil
}

// Debit removes amount from cash; the balance never goes negative.
func (p *Player) Debit(amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > p.Cash {
		return fmt.Errorf("%w: need %.2f, have %.2f", ErrInsufficientFunds, amount, p.Cash)
	}
	p.Cash -= amount
	return nil
}

func (p *Player) Credit(amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	p.Cash += amount
	return nil
}

func (p *Player) AdjustStat(name string, delta int) error {
	if !IsStatName(name) {
		return fmt.Errorf("%w: %q", ErrUnknownStat, name)
	}
	p.Stats[name] = clampStat(p.Stats[name] + delta)
	return nil
}

func (p *Player) AdjustNPCScore(c *catalog.Catalogs, key string, delta int) error {
	if _, err := c.LookupNPC(key); err != nil {
		return err
	}
	p.NPCScores[key] = clampScore(p.NPCScores[key] + delta)
	return nil
}

func (p *Player) AddItem(c *catalog.Catalogs, key string, qty int) error {
	if qty <= 0 {
		return ErrInvalidAmount
	}
	if _, err := c.LookupItem(key); err != nil {
		return err
	}
	p.Inventory[key] += qty
	return nil
}
