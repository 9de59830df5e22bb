// Package storage persists client-side state as JSON files.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// FavoritesStore persists the favorites id list. A missing file reads
// as empty; a corrupt file is treated as empty and logged, never
// surfaced to the user.
type FavoritesStore struct {
	path string
}

// NewFavoritesStore returns a store writing to path.
func NewFavoritesStore(path string) *FavoritesStore {
	return &FavoritesStore{path: path}
}

// Load reads the persisted favorites list.
func (s *FavoritesStore) Load() []int {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			zlog.Warn().Err(err).Str("path", s.path).Msg("storage: cannot read favorites, starting empty")
		}
		return nil
	}
	if len(data) == 0 {
		return nil
	}
	var ids []int
	if err := json.Unmarshal(data, &ids); err != nil {
		zlog.Warn().Err(err).Str("path", s.path).Msg("storage: corrupt favorites file, starting empty")
		return nil
	}
	return ids
}

// Save writes the favorites list atomically (write to a temp file,
// then rename over the target).
func (s *FavoritesStore) Save(ids []int) error {
	if ids == nil {
		ids = []int{}
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return errors.Wrap(err, "mkdir")
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return errors.Wrap(err, "encode favorites")
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "write tmp")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "rename tmp")
	}
	return nil
}
