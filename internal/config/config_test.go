package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.PoolSize)
	assert.Equal(t, 0.4, cfg.NewUserMaxDifficulty)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.PoolSize = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.NewUserMaxDifficulty = 1.5
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.VarietyWindow = -1
	assert.Error(t, cfg.Validate())
}

func TestLoadFile_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("poolSize: 20\nminObservations: 8\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.PoolSize)
	assert.Equal(t, 8, cfg.MinObservations)
	assert.Equal(t, 50, cfg.PatternBound, "unset fields keep their defaults")
}

func TestLoadFile_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("poolSize: -3\n"), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile("/nonexistent/engine.yaml")
	assert.Error(t, err)
}
