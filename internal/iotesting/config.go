// Package iotesting provides shared test utilities for integration tests.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/sampledb/pkg/config"
)

const (
	// TestDatabaseName is the database name used for all integration tests.
	// This ensures tests never accidentally run against production databases.
	TestDatabaseName = "sampledb_test"
)

// GetTestConfig returns a configuration suitable for integration tests
// with the given backend. Home directory and SQLite file are placed into
// a temporary directory. Server connections can be overridden with
// SAMPLEDB_TEST_MONGO_URI and SAMPLEDB_TEST_PG_* environment variables.
//
// Usage in integration tests:
//
//	func TestSomething(t *testing.T) {
//	    if testing.Short() {
//	        t.Skip("Skipping integration test")
//	    }
//	    cfg := iotesting.GetTestConfig(t, "sqlite")
//	    // ... use cfg for database operations
//	}
func GetTestConfig(t *testing.T, backend string) *config.Config {
	t.Helper()

	home := t.TempDir()
	cfg := config.New()
	opts := []config.Option{
		config.OptHomeDir(home),
		config.OptDatabaseBackend(backend),
		config.OptDatabaseDatabase(TestDatabaseName),
		config.OptDatabasePath(filepath.Join(home, "test.sqlite")),
		config.OptLogDestination("stderr"),
		config.OptJobsNumber(2),
	}

	switch backend {
	case "mongo":
		uri := envOr("SAMPLEDB_TEST_MONGO_URI", "mongodb://127.0.0.1:27017")
		opts = append(opts, config.OptDatabaseURI(uri))
	case "postgres":
		opts = append(opts,
			config.OptDatabaseHost(envOr("SAMPLEDB_TEST_PG_HOST", "127.0.0.1")),
			config.OptDatabaseUser(envOr("SAMPLEDB_TEST_PG_USER", "postgres")),
			config.OptDatabasePassword(
				envOr("SAMPLEDB_TEST_PG_PASSWORD", "postgres"),
			),
		)
	}

	cfg.Update(opts)
	return cfg
}

// SetupDataDir creates a directory with report files for a test and
// points the import configuration to it. Keys of files are paths relative
// to the data directory, values are file contents.
func SetupDataDir(
	t *testing.T,
	cfg *config.Config,
	files map[string]string,
) string {
	t.Helper()

	dataDir := filepath.Join(t.TempDir(), "data")
	for k, v := range files {
		path := filepath.Join(dataDir, k)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create data dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(v), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", path, err)
		}
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		t.Fatalf("Failed to create data dir: %v", err)
	}

	cfg.Update([]config.Option{config.OptImportDataDir(dataDir)})
	return dataDir
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
