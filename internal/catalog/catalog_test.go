package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltinLookups(t *testing.T) {
	c := Builtin()

	if _, err := c.LookupStock("COBOLT"); err != nil {
		t.Fatalf("expected COBOLT in builtin stocks: %v", err)
	}
	if _, err := c.LookupNPC("mia"); err != nil {
		t.Fatalf("expected mia in builtin npcs: %v", err)
	}
	if _, err := c.LookupZone("apartment"); err != nil {
		t.Fatalf("expected apartment in builtin zones: %v", err)
	}
	if err := c.validate(); err != nil {
		t.Fatalf("builtin catalogs should be internally consistent: %v", err)
	}
}

func TestLookupUnknownKeyFails(t *testing.T) {
	c := Builtin()

	if _, err := c.LookupStock("NOSUCH"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := c.LookupItem("NOSUCH"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := c.LookupNPC("NOSUCH"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := c.LookupEvent("NOSUCH"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := c.LookupZone("NOSUCH"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func writeCatalogDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	defaults := map[string]string{
		"npcs.json":   `[]`,
		"items.json":  `[]`,
		"stocks.json": `[]`,
		"events.json": `[]`,
		"zones.json":  `[]`,
	}
	for name, body := range files {
		defaults[name] = body
	}
	for name, body := range defaults {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestLoadFromDir(t *testing.T) {
	dir := writeCatalogDir(t, map[string]string{
		"zones.json":  `[{"key":"home","name":"Home","adjacent":["town"]},{"key":"town","name":"Town","adjacent":["home"]}]`,
		"stocks.json": `[{"ticker":"ACMEXX","name":"Acme","ref_price":42.5}]`,
	})

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	st, err := c.LookupStock("ACMEXX")
	if err != nil {
		t.Fatalf("lookup loaded stock: %v", err)
	}
	if st.RefPrice != 42.5 {
		t.Fatalf("ref price got %v want 42.5", st.RefPrice)
	}
	z, err := c.LookupZone("home")
	if err != nil {
		t.Fatalf("lookup loaded zone: %v", err)
	}
	if len(z.Adjacent) != 1 || z.Adjacent[0] != "town" {
		t.Fatalf("unexpected adjacency: %v", z.Adjacent)
	}
}

func TestLoadRejectsDanglingReferences(t *testing.T) {
	dir := writeCatalogDir(t, map[string]string{
		"zones.json": `[{"key":"home","name":"Home","adjacent":["nowhere"]}]`,
	})
	if _, err := Load(dir); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for dangling adjacency, got %v", err)
	}

	dir = writeCatalogDir(t, map[string]string{
		"events.json": `[{"key":"party","name":"Party","items":{"cake":1}}]`,
	})
	if _, err := Load(dir); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for event item reference, got %v", err)
	}
}

func TestLoadRejectsDuplicateKeys(t *testing.T) {
	dir := writeCatalogDir(t, map[string]string{
		"npcs.json": `[{"key":"mia","name":"Mia"},{"key":"mia","name":"Other Mia"}]`,
	})
	if _, err := Load(dir); err == nil {
		t.Fatalf("expected duplicate key to fail the load")
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(dir); err == nil {
		t.Fatalf("expected missing catalog files to fail the load")
	}
}
