// Package config provides configuration management for sampledb.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid
// - All mutations go through Option functions
// - Invalid options are rejected with gn.Warn() and the config keeps its
// previous value
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: backend, uri, host, port, user, password, database,
//     auth_source, ssl_mode, path
//   - Import: filter_field, data_dir, snapshot
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Import.CentreNames, Import.File
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use SAMPLEDB_ prefix with underscores for nesting:
//
//	SAMPLEDB_DATABASE_BACKEND=mongo
//	SAMPLEDB_DATABASE_URI=mongodb://localhost:27017
//	SAMPLEDB_IMPORT_FILTER_FIELD=plate_barcode
//	SAMPLEDB_LOG_LEVEL=info
package config

import (
	"runtime"
)

// Config represents the complete sampledb configuration.
type Config struct {
	// Database contains document store connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Import contains settings of the import and populate commands.
	Import ImportConfig `mapstructure:"import" yaml:"import"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for parsing
	// report files.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, data and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains document store connection parameters.
type DatabaseConfig struct {
	// Backend selects the document store implementation.
	// Valid values: "mongo", "postgres", "sqlite".
	Backend string `mapstructure:"backend" yaml:"backend"`

	// URI is a complete MongoDB connection string. When set, it takes
	// precedence over Host, Port, User and Password for the mongo backend.
	URI string `mapstructure:"uri" yaml:"uri"`

	// Host is the database server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the database server port number. Zero means the default
	// port of the backend.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the database name.
	Database string `mapstructure:"database" yaml:"database"`

	// AuthSource is the MongoDB authentication database.
	// If empty, Database is used.
	AuthSource string `mapstructure:"auth_source" yaml:"auth_source"`

	// SSLMode specifies the PostgreSQL SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// Path is the SQLite database file. If empty, the file is created
	// in the data directory.
	Path string `mapstructure:"path" yaml:"path"`
}

// ImportConfig contains settings for importing lab reports.
type ImportConfig struct {
	// FilterField is the record field used as the merge key when samples
	// are populated.
	FilterField string `mapstructure:"filter_field" yaml:"filter_field"`

	// DataDir is the directory with downloaded reports. Each centre keeps
	// its files in a subdirectory named after the centre's prefix.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`

	// Snapshot is true if the samples collection is copied before
	// it is modified.
	Snapshot bool `mapstructure:"snapshot" yaml:"snapshot"`

	// CentreNames limits import to the given centres.
	// Empty slice means all centres from centres.yaml.
	CentreNames []string `mapstructure:"centre_names" yaml:"centre_names"`

	// File overrides discovery of the latest report file.
	// Only valid when importing a single centre.
	File string `mapstructure:"file" yaml:"file"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Backend:  "mongo",
			Host:     "127.0.0.1",
			Database: "sampledb",
			SSLMode:  "disable",
		},
		Import: ImportConfig{
			FilterField: "plate_barcode",
			DataDir:     "data",
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(),
	}

	return res
}

// ServerPort returns the configured port or the default port of the
// backend.
func (d DatabaseConfig) ServerPort() int {
	if d.Port > 0 {
		return d.Port
	}
	switch d.Backend {
	case "postgres":
		return 5432
	default:
		return 27017
	}
}
