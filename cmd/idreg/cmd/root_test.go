package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/idregistry/pkg/idregistry"
)

// run executes the command tree with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCommand("test")
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const sensorConfig = `
entries:
  - id: 1
    label: temp-sensor
  - id: 2
    label: humidity-sensor
`

func TestGet(t *testing.T) {
	cfg := writeConfig(t, sensorConfig)

	out, _, err := run(t, "get", "1", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "temp-sensor\n", out)
}

func TestGetNotFound(t *testing.T) {
	cfg := writeConfig(t, sensorConfig)

	_, stderr, err := run(t, "get", "3", "--config", cfg)
	assert.ErrorIs(t, err, idregistry.ErrNotFound)
	assert.Contains(t, stderr, "id 3: label not found")
}

func TestGetEmptyRegistry(t *testing.T) {
	_, _, err := run(t, "get", "42")
	assert.ErrorIs(t, err, idregistry.ErrNotFound)
}

func TestGetInvalidID(t *testing.T) {
	_, _, err := run(t, "get", "abc")
	assert.ErrorContains(t, err, `invalid id "abc"`)
}

func TestList(t *testing.T) {
	cfg := writeConfig(t, sensorConfig)

	out, _, err := run(t, "list", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "1\ttemp-sensor\n2\thumidity-sensor\n", out)
}

func TestSetPersistsWithSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "labels.db")
	cfg := writeConfig(t, "store:\n  driver: sqlite\n  path: "+dbPath+"\n")

	_, _, err := run(t, "set", "3", "pressure-sensor", "--config", cfg)
	require.NoError(t, err)

	out, _, err := run(t, "get", "3", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "pressure-sensor\n", out)
}

func TestSetEmptyLabel(t *testing.T) {
	_, _, err := run(t, "set", "3", "")
	assert.ErrorIs(t, err, idregistry.ErrEmptyLabel)
}

func TestBadConfig(t *testing.T) {
	cfg := writeConfig(t, "store:\n  driver: redis\n")

	_, _, err := run(t, "list", "--config", cfg)
	assert.ErrorIs(t, err, idregistry.ErrUnknownDriver)
}

func TestTraceWritesSpans(t *testing.T) {
	cfg := writeConfig(t, sensorConfig)

	_, stderr, err := run(t, "get", "2", "--trace", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, stderr, "idregistry.lookup")
	assert.Contains(t, stderr, "idregistry.load")
}

func TestVerboseLogs(t *testing.T) {
	cfg := writeConfig(t, sensorConfig)

	_, stderr, err := run(t, "get", "1", "-v", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, stderr, "registry loaded")
}

func TestNegativeIDs(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "labels.db")
	cfg := writeConfig(t, "store:\n  driver: sqlite\n  path: "+dbPath+"\n")

	_, _, err := run(t, "set", "-5", "neg-sensor", "--config", cfg)
	require.NoError(t, err)

	out, _, err := run(t, "get", "-5", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "neg-sensor\n", out)

	out, _, err = run(t, "list", "-c", cfg)
	require.NoError(t, err)
	assert.Equal(t, "-5\tneg-sensor\n", out)
}

func TestNegativeIDFromSeed(t *testing.T) {
	cfg := writeConfig(t, "entries:\n  - id: -12\n    label: basement-sensor\n")

	out, _, err := run(t, "get", "-c", cfg, "-12")
	require.NoError(t, err)
	assert.Equal(t, "basement-sensor\n", out)
}

func TestSetLabelLooksNumeric(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "labels.db")
	cfg := writeConfig(t, "store:\n  driver: sqlite\n  path: "+dbPath+"\n")

	_, _, err := run(t, "set", "4", "-40", "--config", cfg)
	require.NoError(t, err)

	out, _, err := run(t, "get", "4", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "-40\n", out)
}

func TestIDArgsValidation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"get without id", []string{"get"}, "accepts 1 arg(s), received 0"},
		{"get two ids", []string{"get", "-1", "2"}, "accepts 1 arg(s), received 2"},
		{"set without label", []string{"set", "-1"}, "accepts 2 arg(s), received 1"},
		{"unknown flag", []string{"get", "1", "--bogus"}, "unknown flag: --bogus"},
		{"unknown shorthand", []string{"get", "-x", "1"}, "unknown shorthand flag: 'x' in -x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestGetHelp(t *testing.T) {
	out, _, err := run(t, "get", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Print the label registered for an id.")
}
