package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jask/rulerview/internal/config"
)

func writeConfig(t *testing.T, backend string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	store := filepath.Join(dir, "values.json")
	if backend == config.BackendSQLite {
		store = filepath.Join(dir, "rulerview.db")
	}
	body := fmt.Sprintf(`
[ruler]
name = "weight"

[storage]
backend = %q
path = %q

[log]
path = %q
`, backend, store, filepath.Join(dir, "logs", "rulerview.log"))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestGetSetList(t *testing.T) {
	t.Parallel()

	for _, backend := range []string{config.BackendSQLite, config.BackendFile} {
		t.Run(backend, func(t *testing.T) {
			t.Parallel()

			cfg := writeConfig(t, backend)

			out, _, err := execute(t, "--config", cfg, "get")
			require.NoError(t, err)
			require.Equal(t, "50.0kg\n", out, "nothing stored yet: the midpoint")

			out, _, err = execute(t, "--config", cfg, "set", "42.26")
			require.NoError(t, err)
			require.Equal(t, "42.3kg\n", out)

			out, _, err = execute(t, "--config", cfg, "get")
			require.NoError(t, err)
			require.Equal(t, "42.3kg\n", out)

			out, _, err = execute(t, "--config", cfg, "list")
			require.NoError(t, err)
			require.Equal(t, "weight\t42.3\n", out)

			logs, err := os.ReadFile(filepath.Join(filepath.Dir(cfg), "logs", "rulerview.log"))
			require.NoError(t, err)
			require.NotContains(t, string(logs), "out of range")
		})
	}
}

func TestSetClamps(t *testing.T) {
	t.Parallel()

	cfg := writeConfig(t, config.BackendFile)
	out, errOut, err := execute(t, "--config", cfg, "set", "900")
	require.NoError(t, err)
	require.Equal(t, "100.0kg\n", out)
	require.Contains(t, errOut, "warning:")

	logs, err := os.ReadFile(filepath.Join(filepath.Dir(cfg), "logs", "rulerview.log"))
	require.NoError(t, err)
	require.Contains(t, string(logs), "value out of range, clamped")

	for _, arg := range []string{"inf", "+Inf", "1e30"} {
		out, errOut, err = execute(t, "--config", cfg, "set", arg)
		require.NoError(t, err, arg)
		require.Equal(t, "100.0kg\n", out, arg)
		require.Contains(t, errOut, "clamped", arg)
	}
	out, _, err = execute(t, "--config", cfg, "set", "--", "-inf")
	require.NoError(t, err)
	require.Equal(t, "0.0kg\n", out)
}

func TestSetRejectsGarbage(t *testing.T) {
	t.Parallel()

	cfg := writeConfig(t, config.BackendFile)
	_, _, err := execute(t, "--config", cfg, "set", "heavy")
	require.ErrorContains(t, err, `parse value "heavy"`)

	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(cfg), "values.json"), []byte(`{"weight": 61.5}`), 0o600))
	_, _, err = execute(t, "--config", cfg, "set", "NaN")
	require.ErrorContains(t, err, `parse value "NaN": not a number`)
	out, _, err := execute(t, "--config", cfg, "get")
	require.NoError(t, err)
	require.Equal(t, "61.5kg\n", out, "a rejected value leaves the stored one alone")

	_, _, err = execute(t, "--config", cfg, "set")
	require.Error(t, err)
}

func TestBadConfigFails(t *testing.T) {
	t.Parallel()

	cfg := writeConfig(t, config.BackendFile)
	_, _, err := execute(t, "--config", cfg, "--backend", "gtk", "get")
	require.ErrorContains(t, err, "ui.backend")

	bad := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[ruler]\nstep = 0\n"), 0o644))
	_, _, err = execute(t, "--config", bad, "get")
	require.ErrorContains(t, err, "axis configuration: step")
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "x.log")
	log, err := newLogger(config.LogConfig{Path: path, Level: "warn"}, false)
	require.NoError(t, err)
	require.False(t, log.Core().Enabled(zap.InfoLevel))
	require.FileExists(t, path)

	log, err = newLogger(config.LogConfig{Path: path, Level: "warn"}, true)
	require.NoError(t, err)
	require.True(t, log.Core().Enabled(zap.DebugLevel))

	_, err = newLogger(config.LogConfig{Path: path, Level: "loud"}, false)
	require.Error(t, err)
}
