package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"poimap-scraper/models"
)

// CheckpointStore tracks completed work units as unit-scoped CSV artifacts
// under one directory. Presence of an artifact IS the unit's completion
// state; there is no separate ledger. A crash before Commit leaves no
// artifact, so the next full run redoes exactly the crashed unit.
type CheckpointStore struct {
	dir string
	log zerolog.Logger
}

// NewCheckpointStore opens (creating if needed) the checkpoint directory.
func NewCheckpointStore(dir string, log zerolog.Logger) (*CheckpointStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("checkpoint: create dir %q: %w", dir, err)
	}
	return &CheckpointStore{dir: dir, log: log}, nil
}

// artifactName maps a unit to its artifact file. The halves are escaped
// before joining so an identifier containing the delimiter (or a path
// separator) can never collide with, or overwrite, another unit's artifact.
func artifactName(u models.Unit) string {
	return fmt.Sprintf("temp_%s_%s.csv", escapePart(u.Locality), escapePart(u.Category))
}

// escapePart percent-encodes the delimiter and path-hostile bytes of one
// identifier half. Everything else, multi-byte runes included, passes through
// so artifact names stay readable.
func escapePart(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' || c == '%' || c == '/' || c == '\\' || c < 0x20 {
			fmt.Fprintf(&b, "%%%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func unescapePart(s string) (string, bool) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			b.WriteByte(s[i])
			continue
		}
		if i+2 >= len(s) {
			return "", false
		}
		n, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
		if err != nil {
			return "", false
		}
		b.WriteByte(byte(n))
		i += 2
	}
	return b.String(), true
}

// IsCompleted reports whether the unit already has a committed artifact.
func (s *CheckpointStore) IsCompleted(u models.Unit) bool {
	_, err := os.Stat(filepath.Join(s.dir, artifactName(u)))
	return err == nil
}

// CompletedUnits returns a read-once snapshot of the committed units. The
// caller passes it into the remaining-work computation; it is not refreshed
// mid-run.
func (s *CheckpointStore) CompletedUnits() (map[models.Unit]struct{}, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: scan %q: %w", s.dir, err)
	}

	done := make(map[models.Unit]struct{})
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "temp_") || !strings.HasSuffix(name, ".csv") {
			continue
		}
		core := strings.TrimSuffix(strings.TrimPrefix(name, "temp_"), ".csv")
		parts := strings.SplitN(core, "_", 2)
		if len(parts) != 2 {
			continue
		}
		locality, locOK := unescapePart(parts[0])
		category, catOK := unescapePart(parts[1])
		if !locOK || !catOK {
			continue
		}
		done[models.Unit{Locality: locality, Category: category}] = struct{}{}
	}
	return done, nil
}

// Commit persists the unit's places, replacing any previous artifact for
// the same unit. Re-running a unit therefore overwrites rather than appends.
func (s *CheckpointStore) Commit(u models.Unit, places []*models.Place) error {
	path := filepath.Join(s.dir, artifactName(u))
	if err := writePlaces(path, places); err != nil {
		return fmt.Errorf("checkpoint: commit %s/%s: %w", u.Locality, u.Category, err)
	}
	return nil
}

// MergeAll concatenates every unit artifact into outPath and returns the
// merged rows. The artifacts (and the checkpoint directory) are removed only
// after the merged file is safely in place.
func (s *CheckpointStore) MergeAll(outPath string) ([]*models.Place, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: scan %q: %w", s.dir, err)
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "temp_") || !strings.HasSuffix(name, ".csv") {
			continue
		}
		paths = append(paths, filepath.Join(s.dir, name))
	}
	sort.Strings(paths)

	var all []*models.Place
	for _, p := range paths {
		rows, err := ReadPlaces(p)
		if err != nil {
			return nil, fmt.Errorf("checkpoint: merge: %w", err)
		}
		all = append(all, rows...)
	}

	if err := writePlaces(outPath, all); err != nil {
		return nil, fmt.Errorf("checkpoint: write merged dataset: %w", err)
	}

	if err := os.RemoveAll(s.dir); err != nil {
		s.log.Warn().Err(err).Str("dir", s.dir).Msg("could not remove checkpoint dir")
	}

	s.log.Info().Int("units", len(paths)).Int("rows", len(all)).Str("path", outPath).Msg("checkpoints merged")
	return all, nil
}
