package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalnine/benchdiff/internal/config"
)

func TestLoadMinimal(t *testing.T) {
	cfg, err := config.Load("testdata/minimal.yaml")
	require.NoError(t, err)
	assert.Equal(t, config.ListerWalk, cfg.Lister.Kind)
	assert.Equal(t, 2*time.Minute, cfg.Lister.Timeout, "defaults survive partial files")
	assert.Equal(t, "diff", cfg.Report.Format)
	assert.Equal(t, 4, cfg.Batch.Parallel)
}

func TestLoadFull(t *testing.T) {
	cfg, err := config.Load("testdata/full.yaml")
	require.NoError(t, err)
	assert.Equal(t, config.ListerDocker, cfg.Lister.Kind)
	assert.Equal(t, 90*time.Second, cfg.Lister.Timeout)
	assert.Equal(t, "claude-sonnet", cfg.Pricing.Model)
	assert.Equal(t, "markdown", cfg.Report.Format)
	assert.Equal(t, "never", cfg.Report.Color)
	assert.Equal(t, 8, cfg.Batch.Parallel)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"missing file", "testdata/nonexistent.yaml", "reading config"},
		{"invalid yaml", "testdata/invalid.yaml", "parsing config"},
		{"unknown key", "testdata/unknown_key.yaml", "schema validation failed"},
		{"missing script", "testdata/missing_script.yaml", "script is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadSchemaRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown lister kind", "lister:\n  kind: ftp\n"},
		{"numeric timeout", "lister:\n  timeout: 90\n"},
		{"bad format", "report:\n  format: html\n"},
		{"zero parallel", "batch:\n  parallel: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "benchdiff.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, err := config.Load(path)
			assert.ErrorContains(t, err, "invalid config")
		})
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "benchdiff.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadOptional(t *testing.T) {
	cfg, err := config.LoadOptional(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = config.LoadOptional("testdata/invalid.yaml")
	assert.Error(t, err)
}

func TestPricingRequiresModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "benchdiff.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pricing:\n  file: prices.yaml\n"), 0o644))
	_, err := config.Load(path)
	assert.ErrorContains(t, err, "provider and model are required")
}
