package manifest

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/SunDr17/stencil/internal/selfcontained"
)

func sampleResult() *selfcontained.Result {
	return &selfcontained.Result{
		Modes: []string{"dark", "$"},
		ModeResults: []selfcontained.ModeResult{
			{Mode: "dark", Code: "dark-code"},
			{Mode: "$", Code: "default-code"},
		},
		Artifacts: []selfcontained.Artifact{
			{Component: "my-button", Mode: "dark", TargetDir: "/out", Path: "/out/my-button.dark.js"},
			{Component: "my-button", Mode: "$", TargetDir: "/out", Path: "/out/my-button.js"},
			{Component: "my-icon", Mode: "$", TargetDir: "/out", Path: "/out/my-icon.js", Err: afero.ErrFileNotFound},
		},
	}
}

func TestFromResultSkipsFailedWrites(t *testing.T) {
	id := uuid.New()
	m := FromResult(id, sampleResult())
	require.Equal(t, SchemaVersion, m.Schema)
	require.Equal(t, id.String(), m.BuildID)
	require.Equal(t, []string{"/out/my-button.dark.js", "/out/my-button.js"}, m.Paths())
	require.Equal(t, Sum("dark-code"), m.Entries[0].Digest)
	require.Equal(t, Sum("default-code"), m.Entries[1].Digest)
	require.Len(t, m.Entries[0].Digest.String(), 64)
}

func TestStoreRoundTripAndMissing(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := &Store{Fs: fs, Path: filepath.Join("/proj", ".stencil", "manifest.mp")}

	_, ok, err := store.Load()
	require.NoError(t, err)
	require.False(t, ok)

	m := FromResult(uuid.New(), sampleResult())
	require.NoError(t, store.Save(m))

	got, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, m.BuildID, got.BuildID)
	require.Equal(t, m.Entries, got.Entries)

	leftovers, err := afero.Glob(fs, filepath.Join("/proj", ".stencil", "*.tmp"))
	require.NoError(t, err)
	require.Empty(t, leftovers)

	require.NoError(t, store.Remove())
	require.NoError(t, store.Remove())
}

func TestLoadIgnoresOtherSchema(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := &Store{Fs: fs, Path: "/m.mp"}
	m := FromResult(uuid.New(), sampleResult())
	m.Schema = SchemaVersion + 1
	require.NoError(t, store.Save(m))

	_, ok, err := store.Load()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLoadRejectsGarbage(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/m.mp", []byte{0xc1}, 0o644))
	_, _, err := (&Store{Fs: fs, Path: "/m.mp"}).Load()
	require.Error(t, err)
}

func TestStaleAndRemoveEntries(t *testing.T) {
	prev := &Manifest{Entries: []Entry{{Path: "/out/a.js"}, {Path: "/out/a.dark.js"}, {Path: "/out/gone.js"}}}
	cur := &Manifest{Entries: []Entry{{Path: "/out/a.js"}}}

	stale := Stale(prev, cur)
	require.Len(t, stale, 2)
	require.Nil(t, Stale(nil, cur))

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/out/a.js", []byte("a"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/out/a.dark.js", []byte("d"), 0o644))

	removed, err := RemoveEntries(fs, stale)
	require.NoError(t, err)
	require.Equal(t, []string{"/out/a.dark.js"}, removed)

	ok, err := afero.Exists(fs, "/out/a.js")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRemoveEntriesCollectsFailures(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(base, "/out/a.js", []byte("a"), 0o644))
	require.NoError(t, afero.WriteFile(base, "/out/b.js", []byte("b"), 0o644))
	ro := afero.NewReadOnlyFs(base)

	removed, err := RemoveEntries(ro, []Entry{{Path: "/out/a.js"}, {Path: "/out/b.js"}})
	require.Error(t, err)
	require.Empty(t, removed)
	require.Contains(t, err.Error(), "/out/a.js")
	require.Contains(t, err.Error(), "/out/b.js")
}
