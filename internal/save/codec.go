// Package save round-trips the Player aggregate through a schema-versioned
// JSON document. Catalog-backed references are stored by key, never as
// structural copies, and every key is re-resolved on load.
package save

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"lifesim/internal/catalog"
	"lifesim/internal/game"
)

const SchemaVersion = 1

var (
	ErrSchema              = errors.New("malformed save data")
	ErrVersion             = errors.New("unsupported save schema version")
	ErrUnresolvedReference = errors.New("unresolved catalog reference")
	ErrSlotNotFound        = errors.New("save slot not found")
)

type document struct {
	SchemaVersion int                `json:"schema_version"`
	Name          string             `json:"name"`
	Day           int                `json:"day"`
	Zone          string             `json:"zone"`
	Cash          float64            `json:"cash"`
	Stats         map[string]int     `json:"stats"`
	Inventory     map[string]int     `json:"inventory"`
	NPCScores     map[string]int     `json:"npc_scores"`
	EventLog      []string           `json:"event_log"`
	Portfolio     map[string]float64 `json:"portfolio"`
}

// Encode serializes a Player to the durable representation.
func Encode(p *game.Player) ([]byte, error) {
	doc := document{
		SchemaVersion: SchemaVersion,
		Name:          p.Name,
		Day:           p.Day,
		Zone:          p.Zone,
		Cash:          p.Cash,
		Stats:         p.Stats,
		Inventory:     p.Inventory,
		NPCScores:     p.NPCScores,
		EventLog:      p.EventLog,
		Portfolio:     p.Portfolio,
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode save: %w", err)
	}
	return raw, nil
}

// Decode reconstitutes a Player, resolving every stored key against the
// supplied catalogs. The load is all-or-nothing: any schema violation or
// unresolved key fails the whole call and no partial Player escapes.
func Decode(data []byte, c *catalog.Catalogs) (*game.Player, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if doc.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrVersion, doc.SchemaVersion, SchemaVersion)
	}
	if err := validate(doc); err != nil {
		return nil, err
	}
	if err := resolve(doc, c); err != nil {
		return nil, err
	}

	p := &game.Player{
		Name:      doc.Name,
		Day:       doc.Day,
		Zone:      doc.Zone,
		Cash:      doc.Cash,
		Stats:     make(map[string]int, len(game.StatNames)),
		Inventory: map[string]int{},
		NPCScores: map[string]int{},
		EventLog:  append([]string{}, doc.EventLog...),
		Portfolio: map[string]float64{},
	}
	for k, v := range doc.Stats {
		p.Stats[k] = v
	}
	for k, v := range doc.Inventory {
		p.Inventory[k] = v
	}
	for k, v := range doc.NPCScores {
		p.NPCScores[k] = v
	}
	for k, v := range doc.Portfolio {
		p.Portfolio[k] = v
	}
	return p, nil
}

func validate(doc document) error {
	if doc.Name == "" {
		return fmt.Errorf("%w: empty player name", ErrSchema)
	}
	if doc.Day < 1 {
		return fmt.Errorf("%w: day %d", ErrSchema, doc.Day)
	}
	if doc.Cash < 0 {
		return fmt.Errorf("%w: negative cash %.2f", ErrSchema, doc.Cash)
	}
	if len(doc.Stats) != len(game.StatNames) {
		return fmt.Errorf("%w: expected stats %v", ErrSchema, game.StatNames)
	}
	for name, v := range doc.Stats {
		if !game.IsStatName(name) {
			return fmt.Errorf("%w: unknown stat %q", ErrSchema, name)
		}
		if v < game.StatMin || v > game.StatMax {
			return fmt.Errorf("%w: stat %s=%d out of range", ErrSchema, name, v)
		}
	}
	for key, qty := range doc.Inventory {
		if qty < 0 {
			return fmt.Errorf("%w: negative quantity %d of %q", ErrSchema, qty, key)
		}
	}
	for key, score := range doc.NPCScores {
		if score < game.ScoreMin || score > game.ScoreMax {
			return fmt.Errorf("%w: score %d for %q out of range", ErrSchema, score, key)
		}
	}
	for key, shares := range doc.Portfolio {
		if shares < 0 {
			return fmt.Errorf("%w: negative shares %.4f of %q", ErrSchema, shares, key)
		}
	}
	return nil
}

func resolve(doc document, c *catalog.Catalogs) error {
	if _, err := c.LookupZone(doc.Zone); err != nil {
		return fmt.Errorf("%w: zone %q", ErrUnresolvedReference, doc.Zone)
	}
	for key := range doc.Inventory {
		if _, err := c.LookupItem(key); err != nil {
			return fmt.Errorf("%w: item %q", ErrUnresolvedReference, key)
		}
	}
	for key := range doc.NPCScores {
		if _, err := c.LookupNPC(key); err != nil {
			return fmt.Errorf("%w: npc %q", ErrUnresolvedReference, key)
		}
	}
	for key := range doc.Portfolio {
		if _, err := c.LookupStock(key); err != nil {
			return fmt.Errorf("%w: stock %q", ErrUnresolvedReference, key)
		}
	}
	for _, key := range doc.EventLog {
		if _, err := c.LookupEvent(key); err != nil {
			return fmt.Errorf("%w: event %q", ErrUnresolvedReference, key)
		}
	}
	return nil
}

// Save encodes the player and writes it to a slot.
func Save(ctx context.Context, store Store, slot string, p *game.Player) error {
	raw, err := Encode(p)
	if err != nil {
		return err
	}
	return store.Write(ctx, slot, raw)
}

// Load reads a slot and decodes it against the catalogs.
func Load(ctx context.Context, store Store, slot string, c *catalog.Catalogs) (*game.Player, error) {
	raw, err := store.Read(ctx, slot)
	if err != nil {
		return nil, err
	}
	return Decode(raw, c)
}
