package game

import (
	"fmt"
	"slices"

	"lifesim/internal/catalog"
)

// ApplyEvent applies a catalog event's deltas and appends its key to the
// log. All-or-nothing: an event whose cash cost exceeds the balance fails
// before any field is touched.
func (p *Player) ApplyEvent(c *catalog.Catalogs, ev catalog.Event) error {
	for name := range ev.Stats {
		if !IsStatName(name) {
			return fmt.Errorf("event %q: %w: %q", ev.Key, ErrUnknownStat, name)
		}
	}
	for key := range ev.NPCs {
		if _, err := c.LookupNPC(key); err != nil {
			return fmt.Errorf("event %q: %w", ev.Key, err)
		}
	}
	for key := range ev.Items {
		if _, err := c.LookupItem(key); err != nil {
			return fmt.Errorf("event %q: %w", ev.Key, err)
		}
	}
	if ev.Cash < 0 && -ev.Cash > p.Cash {
		return fmt.Errorf("event %q: %w: need %.2f, have %.2f", ev.Key, ErrInsufficientFunds, -ev.Cash, p.Cash)
	}

	for name, delta := range ev.Stats {
		p.Stats[name] = clampStat(p.Stats[name] + delta)
	}
	for key, delta := range ev.NPCs {
		p.NPCScores[key] = clampScore(p.NPCScores[key] + delta)
	}
	for key, qty := range ev.Items {
		next := p.Inventory[key] + qty
		if next < 0 {
			next = 0
		}
		p.Inventory[key] = next
	}
	p.Cash += ev.Cash
	p.EventLog = append(p.EventLog, ev.Key)
	return nil
}

// Work trades energy (and a little hunger) for a wage.
func (p *Player) Work(wage float64, energyCost int) error {
	if wage <= 0 {
		return ErrInvalidAmount
	}
	p.Cash += wage
	p.Stats[StatEnergy] = clampStat(p.Stats[StatEnergy] - energyCost)
	p.Stats[StatHunger] = clampStat(p.Stats[StatHunger] - energyCost/2)
	return nil
}

// MoveTo relocates the player to an adjacent zone.
func (p *Player) MoveTo(c *catalog.Catalogs, zoneKey string) error {
	if _, err := c.LookupZone(zoneKey); err != nil {
		return err
	}
	here, err := c.LookupZone(p.Zone)
	if err != nil {
		return err
	}
	if zoneKey != p.Zone && !slices.Contains(here.Adjacent, zoneKey) {
		return fmt.Errorf("%w: %q from %q", ErrNotAdjacent, zoneKey, p.Zone)
	}
	p.Zone = zoneKey
	return nil
}

// Talk bumps the relationship score with an NPC by the flat talk bonus.
func (p *Player) Talk(c *catalog.Catalogs, npcKey string) error {
	return p.AdjustNPCScore(c, npcKey, TalkBonus)
}

// ConsumeItem removes one unit from the inventory and applies the item's
// restorative stats.
func (p *Player) ConsumeItem(c *catalog.Catalogs, key string) error {
	item, err := c.LookupItem(key)
	if err != nil {
		return err
	}
	if p.Inventory[key] <= 0 {
		return fmt.Errorf("%w: %q", ErrItemNotHeld, key)
	}
	p.Inventory[key]--
	if p.Inventory[key] == 0 {
		delete(p.Inventory, key)
	}
	p.Stats[StatHunger] = clampStat(p.Stats[StatHunger] + item.Hunger)
	p.Stats[StatEnergy] = clampStat(p.Stats[StatEnergy] + item.Energy)
	p.Stats[StatMood] = clampStat(p.Stats[StatMood] + item.Mood)
	return nil
}

// BuyItem purchases qty units at the catalog price and adds them to the
// inventory.
func (p *Player) BuyItem(c *catalog.Catalogs, key string, qty int) error {
	if qty <= 0 {
		return ErrInvalidAmount
	}
	item, err := c.LookupItem(key)
	if err != nil {
		return err
	}
	if err := p.Debit(item.Price * float64(qty)); err != nil {
		return err
	}
	p.Inventory[key] += qty
	return nil
}

// AdvanceDay moves to the next game day and applies the daily stat decay.
// It reports whether the derived week counter rolled over, so the caller
// can run the weekly bill cycle.
func (p *Player) AdvanceDay() (weekRolled bool) {
	before := p.Week()
	p.Day++
	p.Stats[StatHunger] = clampStat(p.Stats[StatHunger] - DailyHungerDecay)
	p.Stats[StatEnergy] = clampStat(p.Stats[StatEnergy] - DailyEnergyDecay)
	p.Stats[StatMood] = clampStat(p.Stats[StatMood] - DailyMoodDecay)
	return p.Week() != before
}
