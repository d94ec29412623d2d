package save

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"lifesim/internal/catalog"
	"lifesim/internal/game"
)

func fullPlayer() *game.Player {
	p := game.NewPlayer("Alex", "apartment")
	p.Day = 9
	p.Zone = "market"
	p.Cash = 312.75
	p.Stats[game.StatHunger] = 55
	p.Stats[game.StatEnergy] = 40
	p.Stats[game.StatMood] = 90
	p.Inventory["coffee"] = 2
	p.Inventory["ramen"] = 5
	p.NPCScores["mia"] = 35
	p.NPCScores["devon"] = -10
	p.EventLog = []string{"promotion", "picnic", "promotion"}
	p.Portfolio["COBOLT"] = 1.5
	p.Portfolio["NIMBUS"] = 0.25
	return p
}

func TestRoundTrip(t *testing.T) {
	c := catalog.Builtin()
	p := fullPlayer()

	raw, err := Encode(p)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(raw, c)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Equal(p) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, p)
	}
}

func TestDecodeStoresReferencesByKey(t *testing.T) {
	raw, err := Encode(fullPlayer())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("save document must be valid json: %v", err)
	}
	if doc["schema_version"] != float64(SchemaVersion) {
		t.Fatalf("schema_version got %v want %d", doc["schema_version"], SchemaVersion)
	}
	port, ok := doc["portfolio"].(map[string]any)
	if !ok {
		t.Fatalf("portfolio should serialize as a key map, got %T", doc["portfolio"])
	}
	if _, ok := port["COBOLT"].(float64); !ok {
		t.Fatalf("portfolio entries must be key -> share count, got %v", port)
	}
}

func TestDecodeUnresolvedReference(t *testing.T) {
	c := catalog.Builtin()

	mutations := []func(p *game.Player){
		func(p *game.Player) { p.Portfolio["GHOSTX"] = 1 },
		func(p *game.Player) { p.Inventory["vortex_manipulator"] = 1 },
		func(p *game.Player) { p.NPCScores["stranger"] = 5 },
		func(p *game.Player) { p.EventLog = append(p.EventLog, "rapture") },
		func(p *game.Player) { p.Zone = "atlantis" },
	}
	for i, mutate := range mutations {
		p := fullPlayer()
		mutate(p)
		raw, err := Encode(p)
		if err != nil {
			t.Fatalf("case %d encode: %v", i, err)
		}
		if _, err := Decode(raw, c); !errors.Is(err, ErrUnresolvedReference) {
			t.Fatalf("case %d: expected ErrUnresolvedReference, got %v", i, err)
		}
	}
}

func TestDecodeSchemaViolations(t *testing.T) {
	c := catalog.Builtin()

	cases := []struct {
		name string
		data string
		want error
	}{
		{"not json", `{{{`, ErrSchema},
		{"version mismatch", `{"schema_version": 99, "name": "Alex", "day": 1, "zone": "apartment",
			"cash": 0, "stats": {"Hunger": 1, "Energy": 1, "Mood": 1}}`, ErrVersion},
		{"missing version", `{"name": "Alex", "day": 1, "zone": "apartment",
			"cash": 0, "stats": {"Hunger": 1, "Energy": 1, "Mood": 1}}`, ErrVersion},
		{"empty name", `{"schema_version": 1, "name": "", "day": 1, "zone": "apartment",
			"cash": 0, "stats": {"Hunger": 1, "Energy": 1, "Mood": 1}}`, ErrSchema},
		{"negative cash", `{"schema_version": 1, "name": "Alex", "day": 1, "zone": "apartment",
			"cash": -5, "stats": {"Hunger": 1, "Energy": 1, "Mood": 1}}`, ErrSchema},
		{"unknown stat", `{"schema_version": 1, "name": "Alex", "day": 1, "zone": "apartment",
			"cash": 0, "stats": {"Hunger": 1, "Energy": 1, "Charisma": 1}}`, ErrSchema},
		{"stat out of range", `{"schema_version": 1, "name": "Alex", "day": 1, "zone": "apartment",
			"cash": 0, "stats": {"Hunger": 1, "Energy": 1, "Mood": 900}}`, ErrSchema},
		{"negative quantity", `{"schema_version": 1, "name": "Alex", "day": 1, "zone": "apartment",
			"cash": 0, "stats": {"Hunger": 1, "Energy": 1, "Mood": 1}, "inventory": {"coffee": -1}}`, ErrSchema},
		{"negative shares", `{"schema_version": 1, "name": "Alex", "day": 1, "zone": "apartment",
			"cash": 0, "stats": {"Hunger": 1, "Energy": 1, "Mood": 1}, "portfolio": {"COBOLT": -0.5}}`, ErrSchema},
	}
	for _, tc := range cases {
		if _, err := Decode([]byte(tc.data), c); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := catalog.Builtin()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	p := fullPlayer()

	if err := Save(ctx, store, "slot1", p); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(ctx, store, "slot1", c)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.Equal(p) {
		t.Fatalf("file round trip mismatch")
	}

	slots, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(slots) != 1 || slots[0] != "slot1" {
		t.Fatalf("slots got %v want [slot1]", slots)
	}
}

func TestFileStoreMissingSlot(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, err := store.Read(ctx, "nope"); !errors.Is(err, ErrSlotNotFound) {
		t.Fatalf("expected ErrSlotNotFound, got %v", err)
	}
	if _, err := Load(ctx, store, "nope", catalog.Builtin()); !errors.Is(err, ErrSlotNotFound) {
		t.Fatalf("expected ErrSlotNotFound through Load, got %v", err)
	}
}

func TestFileStoreRejectsBadSlotNames(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	for _, slot := range []string{"", "../escape", "a/b", "name with spaces"} {
		if err := store.Write(ctx, slot, []byte("{}")); err == nil {
			t.Fatalf("slot %q should be rejected", slot)
		}
	}
}
