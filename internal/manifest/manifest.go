// Package manifest records the artifacts emitted by a build so that the next
// build can remove the ones it no longer produces.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/multierr"

	"github.com/SunDr17/stencil/internal/selfcontained"
)

// SchemaVersion is bumped whenever the on-disk layout of Manifest changes.
// Manifests with another version are ignored on load.
const SchemaVersion uint16 = 1

// Digest is the SHA-256 of an artifact's contents.
type Digest [32]byte

// Sum hashes code.
func Sum(code string) Digest {
	return sha256.Sum256([]byte(code))
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Entry describes one written artifact.
type Entry struct {
	Path      string
	Component string
	Mode      string
	TargetDir string
	Digest    Digest
}

// Manifest is the list of artifacts written by one build.
type Manifest struct {
	Schema  uint16
	BuildID string
	Written time.Time
	Entries []Entry
}

// FromResult builds a manifest from the successfully written artifacts of res.
// Entries are sorted by path.
func FromResult(buildID uuid.UUID, res *selfcontained.Result) *Manifest {
	m := &Manifest{
		Schema:  SchemaVersion,
		BuildID: buildID.String(),
		Written: time.Now().UTC(),
	}
	if res == nil {
		return m
	}
	// код общий для всех артефактов режима: хешируем один раз
	digests := make(map[string]Digest, len(res.ModeResults))
	for _, mr := range res.ModeResults {
		digests[mr.Mode] = Sum(mr.Code)
	}
	for _, art := range res.Written() {
		m.Entries = append(m.Entries, Entry{
			Path:      art.Path,
			Component: art.Component,
			Mode:      art.Mode,
			TargetDir: art.TargetDir,
			Digest:    digests[art.Mode],
		})
	}
	sort.Slice(m.Entries, func(i, j int) bool { return m.Entries[i].Path < m.Entries[j].Path })
	return m
}

// Paths returns the artifact paths recorded in m.
func (m *Manifest) Paths() []string {
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(m.Entries))
	for _, e := range m.Entries {
		out = append(out, e.Path)
	}
	return out
}

// Stale returns the entries of prev whose paths are absent from cur.
func Stale(prev, cur *Manifest) []Entry {
	if prev == nil {
		return nil
	}
	keep := make(map[string]struct{}, len(cur.Paths()))
	for _, p := range cur.Paths() {
		keep[p] = struct{}{}
	}
	var stale []Entry
	for _, e := range prev.Entries {
		if _, ok := keep[e.Path]; !ok {
			stale = append(stale, e)
		}
	}
	return stale
}

// Store reads and writes a manifest file.
type Store struct {
	Fs   afero.Fs
	Path string
}

// NewStore returns a store for the manifest at path on the real file system.
func NewStore(path string) *Store {
	return &Store{Fs: afero.NewOsFs(), Path: path}
}

// Load reads the manifest. ok is false when the file does not exist or was
// written with another schema version.
func (s *Store) Load() (m *Manifest, ok bool, err error) {
	f, err := s.Fs.Open(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	m = &Manifest{}
	if err := msgpack.NewDecoder(f).Decode(m); err != nil {
		return nil, false, fmt.Errorf("decode manifest %s: %w", s.Path, err)
	}
	if m.Schema != SchemaVersion {
		return nil, false, nil
	}
	return m, true, nil
}

// Save writes m atomically: it is encoded into a temp file next to the
// manifest which then replaces it.
func (s *Store) Save(m *Manifest) (err error) {
	dir := filepath.Dir(s.Path)
	if err := s.Fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := afero.TempFile(s.Fs, dir, "manifest-*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = s.Fs.Remove(tmp)
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(m); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return s.Fs.Rename(tmp, s.Path)
}

// Remove deletes the manifest file. A missing file is not an error.
func (s *Store) Remove() error {
	err := s.Fs.Remove(s.Path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// RemoveEntries deletes the artifact files of entries, skipping files that are
// already gone. It attempts every entry and returns the paths actually removed
// together with the combined failures.
func RemoveEntries(fs afero.Fs, entries []Entry) ([]string, error) {
	var (
		removed []string
		errs    error
	)
	for _, e := range entries {
		if err := fs.Remove(e.Path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			errs = multierr.Append(errs, fmt.Errorf("remove %s: %w", e.Path, err))
			continue
		}
		removed = append(removed, e.Path)
	}
	return removed, errs
}
