package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when a key has no entry in its catalog. Callers
// must treat it as a corrupted-reference condition, never as a soft default.
var ErrNotFound = errors.New("catalog entry not found")

type NPC struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Home string `json:"home"`
}

type Item struct {
	Key    string  `json:"key"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Hunger int     `json:"hunger"`
	Energy int     `json:"energy"`
	Mood   int     `json:"mood"`
}

type Stock struct {
	Ticker   string  `json:"ticker"`
	Name     string  `json:"name"`
	RefPrice float64 `json:"ref_price"`
}

type Event struct {
	Key   string         `json:"key"`
	Name  string         `json:"name"`
	Stats map[string]int `json:"stats,omitempty"`
	NPCs  map[string]int `json:"npcs,omitempty"`
	Items map[string]int `json:"items,omitempty"`
	Cash  float64        `json:"cash,omitempty"`
}

type Zone struct {
	Key      string   `json:"key"`
	Name     string   `json:"name"`
	Adjacent []string `json:"adjacent"`
}

// Catalogs holds every reference-entity registry. Loaded once at process
// start and read-only thereafter; entries compare by key and value, never
// by allocation identity.
type Catalogs struct {
	NPCs   map[string]NPC
	Items  map[string]Item
	Stocks map[string]Stock
	Events map[string]Event
	Zones  map[string]Zone
}

func (c *Catalogs) LookupNPC(key string) (NPC, error) {
	v, ok := c.NPCs[key]
	if !ok {
		return NPC{}, fmt.Errorf("npc %q: %w", key, ErrNotFound)
	}
	return v, nil
}

func (c *Catalogs) LookupItem(key string) (Item, error) {
	v, ok := c.Items[key]
	if !ok {
		return Item{}, fmt.Errorf("item %q: %w", key, ErrNotFound)
	}
	return v, nil
}

func (c *Catalogs) LookupStock(ticker string) (Stock, error) {
	v, ok := c.Stocks[ticker]
	if !ok {
		return Stock{}, fmt.Errorf("stock %q: %w", ticker, ErrNotFound)
	}
	return v, nil
}

func (c *Catalogs) LookupEvent(key string) (Event, error) {
	v, ok := c.Events[key]
	if !ok {
		return Event{}, fmt.Errorf("event %q: %w", key, ErrNotFound)
	}
	return v, nil
}

func (c *Catalogs) LookupZone(key string) (Zone, error) {
	v, ok := c.Zones[key]
	if !ok {
		return Zone{}, fmt.Errorf("zone %q: %w", key, ErrNotFound)
	}
	return v, nil
}

// Load reads one JSON array per catalog kind from dir. Missing files are an
// error: a deployment either ships the full data set or runs on Builtin().
func Load(dir string) (*Catalogs, error) {
	c := &Catalogs{
		NPCs:   map[string]NPC{},
		Items:  map[string]Item{},
		Stocks: map[string]Stock{},
		Events: map[string]Event{},
		Zones:  map[string]Zone{},
	}

	var npcs []NPC
	if err := readCatalogFile(dir, "npcs.json", &npcs); err != nil {
		return nil, err
	}
	for _, v := range npcs {
		if err := insert(c.NPCs, v.Key, v, "npc"); err != nil {
			return nil, err
		}
	}

	var items []Item
	if err := readCatalogFile(dir, "items.json", &items); err != nil {
		return nil, err
	}
	for _, v := range items {
		if err := insert(c.Items, v.Key, v, "item"); err != nil {
			return nil, err
		}
	}

	var stocks []Stock
	if err := readCatalogFile(dir, "stocks.json", &stocks); err != nil {
		return nil, err
	}
	for _, v := range stocks {
		if err := insert(c.Stocks, v.Ticker, v, "stock"); err != nil {
			return nil, err
		}
	}

	var events []Event
	if err := readCatalogFile(dir, "events.json", &events); err != nil {
		return nil, err
	}
	for _, v := range events {
		if err := insert(c.Events, v.Key, v, "event"); err != nil {
			return nil, err
		}
	}

	var zones []Zone
	if err := readCatalogFile(dir, "zones.json", &zones); err != nil {
		return nil, err
	}
	for _, v := range zones {
		if err := insert(c.Zones, v.Key, v, "zone"); err != nil {
			return nil, err
		}
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func readCatalogFile(dir, name string, out any) error {
	raw, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("read catalog %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse catalog %s: %w", name, err)
	}
	return nil
}

func insert[V any](m map[string]V, key string, v V, kind string) error {
	if key == "" {
		return fmt.Errorf("%s entry with empty key", kind)
	}
	if _, ok := m[key]; ok {
		return fmt.Errorf("duplicate %s key %q", kind, key)
	}
	m[key] = v
	return nil
}

// validate checks that cross-catalog references inside catalog entries
// themselves resolve, so downstream code can trust any entry it looked up.
func (c *Catalogs) validate() error {
	for key, z := range c.Zones {
		for _, adj := range z.Adjacent {
			if _, ok := c.Zones[adj]; !ok {
				return fmt.Errorf("zone %q adjacent %q: %w", key, adj, ErrNotFound)
			}
		}
	}
	for key, n := range c.NPCs {
		if n.Home != "" {
			if _, ok := c.Zones[n.Home]; !ok {
				return fmt.Errorf("npc %q home %q: %w", key, n.Home, ErrNotFound)
			}
		}
	}
	for key, ev := range c.Events {
		for npc := range ev.NPCs {
			if _, ok := c.NPCs[npc]; !ok {
				return fmt.Errorf("event %q npc %q: %w", key, npc, ErrNotFound)
			}
		}
		for item := range ev.Items {
			if _, ok := c.Items[item]; !ok {
				return fmt.Errorf("event %q item %q: %w", key, item, ErrNotFound)
			}
		}
	}
	return nil
}
