package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "randhunt.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "uuid_v4", cfg.Scheme)
	assert.Equal(t, "random", cfg.Mode)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
scheme: otp_6
mode: sequential
workers: 3
batch_size: 500
max_attempts: 100000
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "otp_6", cfg.Scheme)
	assert.Equal(t, "sequential", cfg.Mode)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 500, cfg.BatchSize)
	assert.Equal(t, uint64(100000), cfg.MaxAttempts)
}

func TestLoadKeepsDefaultsForOmittedFields(t *testing.T) {
	path := writeConfig(t, "scheme: hex_color\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "hex_color", cfg.Scheme)
	assert.Equal(t, Default().Workers, cfg.Workers)
	assert.Equal(t, Default().BatchSize, cfg.BatchSize)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	for _, content := range []string{
		"workers: 0\n",
		"workers: 17\n",
		"batch_size: 99\n",
		"batch_size: 100001\n",
		"mode: bogus\n",
		"scheme: \"\"\n",
		"workers: [not, an, int]\n",
	} {
		path := writeConfig(t, content)
		_, err := Load(path)
		assert.Error(t, err, "content %q", content)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
