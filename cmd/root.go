/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/gnames/gn"
	"github.com/gnames/sampledb/internal/iofs"
	"github.com/gnames/sampledb/internal/iologger"
	app "github.com/gnames/sampledb/pkg"
	"github.com/gnames/sampledb/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

const rootLong = `
	sampledb imports lab sample reports into a document database.

	Every centre sends CSV reports with sample results. sampledb finds the
	latest report of each centre, merges its samples into the 'samples'
	collection keyed on the plate barcode, and writes an import record
	into 'imports' for every centre, even when the import fails.

	Documents can be kept in MongoDB, PostgreSQL (jsonb) or SQLite.

	Configuration precedence (highest to lowest):
	  1. CLI flags
	  2. Environment variables (SAMPLEDB_*)
	  3. Config file (~/.config/sampledb/config.yaml)
	  4. Built-in defaults

	Examples:
	  SAMPLEDB_DATABASE_BACKEND   mongo, postgres or sqlite
	  SAMPLEDB_DATABASE_URI       MongoDB connection string
	  SAMPLEDB_IMPORT_DATA_DIR    directory with downloaded reports
	  SAMPLEDB_LOG_LEVEL          debug, info, warn or error
`

// getRootCmd returns the root command with all subcommands.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "sampledb",
		Short:   "Imports lab sample reports into a document database",
		Long:    heredoc.Doc(rootLong),
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "sampledb version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for sampledb")

	addDatabaseFlags(rootCmd)

	rootCmd.AddCommand(
		getImportCmd(),
		getPopulateCmd(),
		getSnapshotCmd(),
		getImportsCmd(),
	)
	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureCentresFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration files are available",
		"config_dir", config.ConfigDir(homeDir))

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Flags of the root command override config file and env vars
	cfg.Update(databaseFlagOptions(cmd))

	// Reconfigure logging with user's settings and proper log file location
	if err = reconfigureLogging(cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"backend", cfg.Database.Backend,
	)

	return nil
}

// reconfigureLogging reinitializes the logger with the loaded configuration.
func reconfigureLogging(cfg *config.Config) error {
	logDir := config.LogDir(cfg.HomeDir)
	return iologger.Init(logDir, cfg.Log)
}

func runRoot(cmd *cobra.Command, args []string) error {
	return cmd.Help()
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). Interrupt signals cancel
// the context of the running command.
func Execute() {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	err := getRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ConfigReadError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ConfigReadError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables are allowed.
	// These match the fields included in config.ToOptions() - i.e., persistent
	// configuration that can be stored in config.yaml.
	v.SetEnvPrefix("SAMPLEDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Database configuration
	v.BindEnv("database.backend", "SAMPLEDB_DATABASE_BACKEND")
	v.BindEnv("database.uri", "SAMPLEDB_DATABASE_URI")
	v.BindEnv("database.host", "SAMPLEDB_DATABASE_HOST")
	v.BindEnv("database.port", "SAMPLEDB_DATABASE_PORT")
	v.BindEnv("database.user", "SAMPLEDB_DATABASE_USER")
	v.BindEnv("database.password", "SAMPLEDB_DATABASE_PASSWORD")
	v.BindEnv("database.database", "SAMPLEDB_DATABASE_DATABASE")
	v.BindEnv("database.auth_source", "SAMPLEDB_DATABASE_AUTH_SOURCE")
	v.BindEnv("database.ssl_mode", "SAMPLEDB_DATABASE_SSL_MODE")
	v.BindEnv("database.path", "SAMPLEDB_DATABASE_PATH")

	// Import configuration
	v.BindEnv("import.filter_field", "SAMPLEDB_IMPORT_FILTER_FIELD")
	v.BindEnv("import.data_dir", "SAMPLEDB_IMPORT_DATA_DIR")
	v.BindEnv("import.snapshot", "SAMPLEDB_IMPORT_SNAPSHOT")

	// Log configuration
	v.BindEnv("log.level", "SAMPLEDB_LOG_LEVEL")
	v.BindEnv("log.format", "SAMPLEDB_LOG_FORMAT")
	v.BindEnv("log.destination", "SAMPLEDB_LOG_DESTINATION")

	// General configuration
	v.BindEnv("jobs_number", "SAMPLEDB_JOBS_NUMBER")

	v.AutomaticEnv()
}
