package save

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Store persists encoded save documents by slot name. The codec owns the
// bytes; a store only moves them.
type Store interface {
	Write(ctx context.Context, slot string, data []byte) error
	Read(ctx context.Context, slot string) ([]byte, error)
	List(ctx context.Context) ([]string, error)
}

var slotRE = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

func validateSlot(slot string) error {
	if !slotRE.MatchString(slot) {
		return fmt.Errorf("invalid slot name %q", slot)
	}
	return nil
}

// FileStore keeps one JSON file per slot in a directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create save dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(slot string) string {
	return filepath.Join(s.dir, slot+".json")
}

func (s *FileStore) Write(_ context.Context, slot string, data []byte) error {
	if err := validateSlot(slot); err != nil {
		return err
	}
	if err := os.WriteFile(s.path(slot), data, 0o600); err != nil {
		return fmt.Errorf("write save %s: %w", slot, err)
	}
	return nil
}

func (s *FileStore) Read(_ context.Context, slot string) ([]byte, error) {
	if err := validateSlot(slot); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(s.path(slot))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSlotNotFound, slot)
		}
		return nil, fmt.Errorf("read save %s: %w", slot, err)
	}
	return raw, nil
}

func (s *FileStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		out = append(out, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(out)
	return out, nil
}
