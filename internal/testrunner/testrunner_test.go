package testrunner

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectVariant(t *testing.T) {
	cases := map[string]Variant{
		"24.9.0":      Jest24,
		"26.6.3":      Jest24,
		"v27.5.1":     Jest27,
		"28.0.0":      Jest28,
		"29.7.0":      Jest29,
		"29.0.0-rc.1": Jest29,
	}
	for in, want := range cases {
		got, err := SelectVariant(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
}

func TestSelectVariantUnsupported(t *testing.T) {
	for _, in := range []string{"23.6.0", "30.0.0"} {
		_, err := SelectVariant(in)
		var unsupported *UnsupportedVersionError
		require.ErrorAs(t, err, &unsupported, in)
		require.Equal(t, in, unsupported.Version)
		require.Contains(t, err.Error(), SupportedRange)
	}
	_, err := SelectVariant("latest")
	require.ErrorContains(t, err, "invalid jest version")
}

func TestDefaultRunnerAndPresetPerVariant(t *testing.T) {
	for _, tc := range []struct {
		v      Variant
		runner string
		legacy bool
	}{
		{Jest24, RunnerJasmine, true},
		{Jest27, RunnerJasmine, true},
		{Jest28, RunnerCircus, false},
		{Jest29, RunnerCircus, false},
	} {
		a, err := NewAdapter(tc.v, "")
		require.NoError(t, err)
		require.Equal(t, tc.runner, a.DefaultRunner(), tc.v.String())
		p := a.Preset()
		require.Equal(t, tc.runner, p.TestRunner)
		require.Equal(t, []string{a.SetupHook()}, p.SetupFilesAfterEnv)
		require.Equal(t, a.Preprocessor().Module, p.Transform[a.Preprocessor().Pattern])
		if tc.legacy {
			require.Equal(t, "http://localhost", p.TestURL)
			require.Nil(t, p.TestEnvironmentOptions)
		} else {
			require.Empty(t, p.TestURL)
			require.Equal(t, "http://localhost", p.TestEnvironmentOptions["url"])
		}
	}
	_, err := NewAdapter(Variant(9), "")
	require.Error(t, err)
}

func TestCLIArgsAndEnv(t *testing.T) {
	a, err := NewAdapter(Jest29, "29.7.0")
	require.NoError(t, err)
	args, err := a.CLIArgs(RunOptions{CI: true, MaxWorkers: 2, Args: []string{"--", "button"}})
	require.NoError(t, err)
	require.Equal(t, "--config", args[0])

	var preset Preset
	require.NoError(t, json.Unmarshal([]byte(args[1]), &preset))
	require.Equal(t, RunnerCircus, preset.TestRunner)
	require.Equal(t, 2, preset.MaxWorkers)
	require.Equal(t, []string{"--ci", "--maxWorkers=2", "--", "button"}, args[2:])

	env := a.Env([]string{"PATH=/bin"}, RunOptions{E2E: true})
	joined := strings.Join(env, "\n")
	require.Contains(t, joined, "PATH=/bin")
	require.Contains(t, joined, "__STENCIL_SPEC_TESTS__=false")
	require.Contains(t, joined, "__STENCIL_E2E_TESTS__=true")
	require.Contains(t, joined, "__STENCIL_JEST_VARIANT__=jest29")

	env = a.Env(nil, RunOptions{})
	require.Contains(t, strings.Join(env, "\n"), "__STENCIL_SPEC_TESTS__=true")
}

func TestDetect(t *testing.T) {
	root := t.TempDir()
	_, err := Detect(root)
	require.ErrorIs(t, err, ErrJestNotInstalled)

	pkgDir := filepath.Join(root, "node_modules", "jest")
	require.NoError(t, os.MkdirAll(pkgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "package.json"), []byte(`{"name":"jest","version":"27.5.1"}`), 0o644))

	a, err := Detect(root)
	require.NoError(t, err)
	require.Equal(t, Jest27, a.Variant())
	require.Equal(t, "27.5.1", a.Version())

	inv, err := a.Prepare(root, RunOptions{})
	require.NoError(t, err)
	require.Equal(t, "node", inv.Bin)
	require.Equal(t, filepath.Join(pkgDir, "bin", "jest.js"), inv.Args[0])
	cmd := inv.Command(t.Context())
	require.Equal(t, root, cmd.Dir)
}
