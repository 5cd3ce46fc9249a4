package iofs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/sampledb/pkg/centres"
	"github.com/gnames/sampledb/pkg/config"
	"github.com/gnames/sampledb/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestEnsureDirs_CreatesDirectories verifies all required
// directories are created.
func TestEnsureDirs_CreatesDirectories(t *testing.T) {
	tmpDir := t.TempDir()

	err := EnsureDirs(tmpDir)
	require.NoError(t, err)

	dirs := []string{
		filepath.Join(tmpDir, ".config", "sampledb"),
		filepath.Join(tmpDir, ".local", "share", "sampledb"),
		filepath.Join(tmpDir, ".local", "share", "sampledb", "logs"),
	}
	for _, v := range dirs {
		info, err := os.Stat(v)
		require.NoError(t, err)
		assert.True(t, info.IsDir(), v)
		assert.Equal(t, os.FileMode(0755), info.Mode().Perm(), v)
	}

	// repeated calls succeed
	require.NoError(t, EnsureDirs(tmpDir))
}

// TestEnsureDirs_Error verifies a file in place of a directory
// is reported.
func TestEnsureDirs_Error(t *testing.T) {
	tmpDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tmpDir, ".config"), nil, 0644)
	require.NoError(t, err)

	err = EnsureDirs(tmpDir)
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.CreateDirError, gnErr.Code)
}

// TestEnsureConfigFile verifies config file is created once and
// never overwritten.
func TestEnsureConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, EnsureDirs(tmpDir))

	err := EnsureConfigFile(tmpDir)
	require.NoError(t, err)

	path := config.ConfigFilePath(tmpDir)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ConfigYAML, string(data))

	custom := "database:\n  backend: sqlite\n"
	require.NoError(t, os.WriteFile(path, []byte(custom), 0644))
	require.NoError(t, EnsureConfigFile(tmpDir))

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, custom, string(data),
		"existing config should be preserved")
}

// TestEnsureConfigFile_NoDir verifies error when config
// directory is absent.
func TestEnsureConfigFile_NoDir(t *testing.T) {
	err := EnsureConfigFile(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.WriteDefaultFileError, gnErr.Code)
}

// TestEmbeddedConfig verifies the default config matches defaults
// of config.New.
func TestEmbeddedConfig(t *testing.T) {
	var cfg config.Config
	err := yaml.Unmarshal([]byte(ConfigYAML), &cfg)
	require.NoError(t, err)

	def := config.New()
	assert.Equal(t, def.Database.Backend, cfg.Database.Backend)
	assert.Equal(t, def.Database.Host, cfg.Database.Host)
	assert.Equal(t, def.Database.Database, cfg.Database.Database)
	assert.Equal(t, def.Import.FilterField, cfg.Import.FilterField)
	assert.Equal(t, def.Import.DataDir, cfg.Import.DataDir)
	assert.Equal(t, def.Log, cfg.Log)
}

// TestEnsureCentresFile verifies the default centres are valid.
func TestEnsureCentresFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, EnsureDirs(tmpDir))
	require.NoError(t, EnsureCentresFile(tmpDir))

	data, err := os.ReadFile(config.CentresFilePath(tmpDir))
	require.NoError(t, err)

	var cfg centres.CentresConfig
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	require.NoError(t, cfg.Validate())

	require.Len(t, cfg.Centres, 3)
	assert.Equal(t, "Alderley", cfg.Centres[0].Name)
	assert.Equal(t, "MILK", cfg.Centres[1].Prefix)
	assert.True(t, cfg.Centres[1].Ignored("MK_sanger_report_200610_0001.csv"))
	assert.Equal(t, "QEUH", cfg.Centres[2].Prefix)
}
