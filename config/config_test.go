package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port     int    `yaml:"port" validate:"required"`
	Interval uint64 `yaml:"interval" validate:"required"`
	Name     string `yaml:"name"`
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "port: 8080\ninterval: 60\nname: riskless\n")

	cfg := &testConfig{}
	require.NoError(t, Load(path, cfg))
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, uint64(60), cfg.Interval)
	require.Equal(t, "riskless", cfg.Name)
}

func TestLoadMissingRequired(t *testing.T) {
	path := writeConfig(t, "port: 8080\n")

	require.Error(t, Load(path, &testConfig{}))
}

func TestLoadMalformedYaml(t *testing.T) {
	path := writeConfig(t, "port: [8080\n")

	require.Error(t, Load(path, &testConfig{}))
}

func TestLoadMissingFile(t *testing.T) {
	require.Error(t, Load(filepath.Join(t.TempDir(), "nope.yaml"), &testConfig{}))
}
