package snapshot

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/renameio/v2"
)

// Snapshots are CBOR: self-describing binary, so bootstrap can tell a
// canonical map apart from a legacy list without a version header.

func writeFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := cbor.Marshal(v)
	if err != nil {
		return err
	}
	// Whole-file write via temp + rename: a crash never leaves a
	// half-written snapshot behind.
	return renameio.WriteFile(path, data, 0o644)
}

// loadMap reads a registry snapshot. It accepts the canonical
// map-of-records form or a legacy ordered-list form, converting the
// list into a map via key. Missing or corrupt files yield an empty
// map: bootstrap never fails.
func loadMap[T any](path string, key func(T) string) map[string]T {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("snapshot unreadable, starting empty", "path", path, "err", err)
		}
		return map[string]T{}
	}

	var m map[string]T
	if err := cbor.Unmarshal(data, &m); err == nil {
		if m == nil {
			m = map[string]T{}
		}
		return m
	}

	var list []T
	if err := cbor.Unmarshal(data, &list); err == nil {
		m = make(map[string]T, len(list))
		for _, v := range list {
			m[key(v)] = v
		}
		return m
	}

	slog.Warn("snapshot corrupt, starting empty", "path", path)
	return map[string]T{}
}

// loadList reads a snapshot holding an ordered sequence. Missing or
// corrupt files yield nil.
func loadList[T any](path string) []T {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("snapshot unreadable, starting empty", "path", path, "err", err)
		}
		return nil
	}
	var list []T
	if err := cbor.Unmarshal(data, &list); err != nil {
		slog.Warn("snapshot corrupt, starting empty", "path", path)
		return nil
	}
	return list
}
