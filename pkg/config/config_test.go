package config_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/sampledb/pkg/config"
	"github.com/gnames/sampledb/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	tempHome := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(tempHome, ".config", "sampledb"),
		},
		{
			msg: "data dir",
			fn:  config.DataDir,
			res: filepath.Join(tempHome, ".local", "share", "sampledb"),
		},
		{
			msg: "log dir",
			fn:  config.LogDir,
			res: filepath.Join(tempHome, ".local", "share", "sampledb", "logs"),
		},
		{
			msg: "centres file",
			fn:  config.CentresFilePath,
			res: filepath.Join(tempHome, ".config", "sampledb", "centres.yaml"),
		},
	}

	for _, v := range tests {
		res := v.fn(tempHome)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()

	t.Run("creates valid default config", func(t *testing.T) {
		require.NotNil(t, cfg)

		// Database defaults
		assert.Equal(t, "mongo", cfg.Database.Backend)
		assert.Equal(t, "127.0.0.1", cfg.Database.Host)
		assert.Equal(t, 0, cfg.Database.Port)
		assert.Equal(t, 27017, cfg.Database.ServerPort())
		assert.Equal(t, "sampledb", cfg.Database.Database)
		assert.Equal(t, "disable", cfg.Database.SSLMode)

		// Import defaults
		assert.Equal(t, "plate_barcode", cfg.Import.FilterField)
		assert.Equal(t, "data", cfg.Import.DataDir)
		assert.False(t, cfg.Import.Snapshot)

		// Log defaults
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "file", cfg.Log.Destination)

		assert.Equal(t, runtime.NumCPU(), cfg.JobsNumber)
		assert.NoError(t, cfg.Validate())
	})
}

func TestServerPort(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		port    int
		res     int
	}{
		{"mongo default", "mongo", 0, 27017},
		{"postgres default", "postgres", 0, 5432},
		{"explicit port", "postgres", 6543, 6543},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := config.DatabaseConfig{Backend: tt.backend, Port: tt.port}
			assert.Equal(t, tt.res, db.ServerPort())
		})
	}
}

func TestOptionDatabaseBackend(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets postgres",
			input:    "postgres",
			expected: "postgres",
		},
		{
			name:     "normalizes to lowercase",
			input:    " SQLite ",
			expected: "sqlite",
		},
		{
			name:     "ignores invalid value",
			input:    "couchdb",
			expected: "mongo", // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptDatabaseBackend(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Database.Backend)
		})
	}
}

// TestDatabaseOptions checks connection options. Rejected values keep
// defaults of New().
func TestDatabaseOptions(t *testing.T) {
	tests := []struct {
		msg string
		opt config.Option
		get func(config.DatabaseConfig) any
		res any
	}{
		{"uri", config.OptDatabaseURI(" mongodb://db:27017 "),
			func(d config.DatabaseConfig) any { return d.URI },
			"mongodb://db:27017"},
		{"empty uri", config.OptDatabaseURI(""),
			func(d config.DatabaseConfig) any { return d.URI }, ""},
		{"host", config.OptDatabaseHost("  mongo.lab.ac.uk "),
			func(d config.DatabaseConfig) any { return d.Host },
			"mongo.lab.ac.uk"},
		{"blank host", config.OptDatabaseHost("   "),
			func(d config.DatabaseConfig) any { return d.Host }, "127.0.0.1"},
		{"port", config.OptDatabasePort(27018),
			func(d config.DatabaseConfig) any { return d.Port }, 27018},
		{"negative port", config.OptDatabasePort(-1),
			func(d config.DatabaseConfig) any { return d.Port }, 0},
		{"auth source", config.OptDatabaseAuthSource("admin"),
			func(d config.DatabaseConfig) any { return d.AuthSource }, "admin"},
		{"ssl mode", config.OptDatabaseSSLMode("VERIFY-FULL"),
			func(d config.DatabaseConfig) any { return d.SSLMode },
			"verify-full"},
		{"unknown ssl mode", config.OptDatabaseSSLMode("sometimes"),
			func(d config.DatabaseConfig) any { return d.SSLMode }, "disable"},
		{"sqlite path", config.OptDatabasePath("/var/lib/samples.sqlite"),
			func(d config.DatabaseConfig) any { return d.Path },
			"/var/lib/samples.sqlite"},
	}

	for _, v := range tests {
		cfg := config.New()
		cfg.Update([]config.Option{v.opt})
		assert.Equal(t, v.res, v.get(cfg.Database), v.msg)
	}
}

func TestOptionImportFilterField(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{config.OptImportFilterField(" Root Sample ID ")})
	assert.Equal(t, "Root Sample ID", cfg.Import.FilterField)

	cfg.Update([]config.Option{config.OptImportFilterField("")})
	assert.Equal(t, "Root Sample ID", cfg.Import.FilterField,
		"empty filter field is ignored")
}

func TestOptionImportCentreNames(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "sets names",
			input:    []string{"Alderley", " UK Biocentre "},
			expected: []string{"Alderley", "UK Biocentre"},
		},
		{
			name:     "drops empty names",
			input:    []string{"", "Alderley", "  "},
			expected: []string{"Alderley"},
		},
		{
			name:     "ignores empty slice",
			input:    []string{},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptImportCentreNames(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Import.CentreNames)
		})
	}
}

func TestOptionLogDestination(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"sets stdout", "stdout", "stdout"},
		{"sets stderr", "STDERR", "stderr"},
		{"ignores invalid value", "syslog", "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptLogDestination(tt.input)})
			assert.Equal(t, tt.expected, cfg.Log.Destination)
		})
	}
}

func TestOptionJobsNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{
			name:     "sets valid jobs number",
			input:    8,
			expected: 8,
		},
		{
			name:     "ignores zero",
			input:    0,
			expected: runtime.NumCPU(), // Should keep default
		},
		{
			name:     "ignores negative",
			input:    -5,
			expected: runtime.NumCPU(), // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptJobsNumber(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.JobsNumber)
		})
	}
}

func TestToOptions(t *testing.T) {
	t.Run("converts config to options correctly", func(t *testing.T) {
		original := config.New()
		opts := []config.Option{
			config.OptDatabaseBackend("postgres"),
			config.OptDatabaseURI("mongodb://example.com"),
			config.OptDatabaseHost("test.host.com"),
			config.OptDatabasePort(6543),
			config.OptDatabaseUser("testuser"),
			config.OptDatabasePassword("testpass"),
			config.OptDatabaseDatabase("testdb"),
			config.OptDatabaseAuthSource("admin"),
			config.OptDatabaseSSLMode("require"),
			config.OptDatabasePath("/tmp/samples.sqlite"),
			config.OptImportFilterField("Root Sample ID"),
			config.OptImportDataDir("/srv/reports"),
			config.OptImportSnapshot(true),
			config.OptLogLevel("debug"),
			config.OptLogFormat("text"),
			config.OptLogDestination("stdout"),
			config.OptJobsNumber(8),
		}
		original.Update(opts)

		newCfg := config.New()
		newCfg.Update(original.ToOptions())

		assert.Equal(t, original.Database, newCfg.Database)
		assert.Equal(t, original.Import, newCfg.Import)
		assert.Equal(t, original.Log, newCfg.Log)
		assert.Equal(t, original.JobsNumber, newCfg.JobsNumber)
	})

	t.Run("excludes runtime-only fields", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{
			config.OptHomeDir("/custom/home"),
			config.OptImportCentreNames([]string{"Alderley"}),
			config.OptImportFile("report.csv"),
		})

		newCfg := config.New()
		newCfg.Update(cfg.ToOptions())

		assert.Equal(t, "", newCfg.HomeDir)
		assert.Nil(t, newCfg.Import.CentreNames)
		assert.Equal(t, "", newCfg.Import.File)
	})
}

func TestValidate(t *testing.T) {
	t.Run("postgres needs a user", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{config.OptDatabaseBackend("postgres")})

		err := cfg.Validate()
		require.Error(t, err)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok, "Error should be of type *gn.Error")
		assert.Equal(t, errcode.ConfigMissingParamError, gnErr.Code)
		assert.Equal(t, "postgres", gnErr.Vars[0])
		assert.Equal(t, []string{"user"}, gnErr.Vars[1])

		cfg.Update([]config.Option{config.OptDatabaseUser("postgres")})
		assert.NoError(t, cfg.Validate())
	})

	t.Run("mongo needs uri or host", func(t *testing.T) {
		cfg := &config.Config{
			Database: config.DatabaseConfig{Backend: "mongo", Database: "db"},
			Import:   config.ImportConfig{FilterField: "plate_barcode"},
		}
		err := cfg.Validate()
		require.Error(t, err)

		cfg.Database.URI = "mongodb://localhost"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("sqlite uses home dir by default", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{config.OptDatabaseBackend("sqlite")})
		require.Error(t, cfg.Validate())

		cfg.Update([]config.Option{config.OptHomeDir("/home/user")})
		require.NoError(t, cfg.Validate())
		assert.Equal(t,
			filepath.Join("/home/user", ".local", "share", "sampledb",
				"sampledb.sqlite"),
			cfg.SQLitePath(),
		)
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := config.New()
		cfg.Database.Backend = "couchdb"
		err := cfg.Validate()
		require.Error(t, err)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok)
		assert.Equal(t, errcode.ConfigBackendError, gnErr.Code)
	})
}
