package cmd

import (
	"github.com/gnames/sampledb/pkg/config"
	"github.com/spf13/cobra"
)

// addDatabaseFlags adds connection flags shared by all commands.
func addDatabaseFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringP("backend", "b", "",
		"document store: mongo, postgres or sqlite")
	pf.String("uri", "", "MongoDB connection string")
	pf.StringP("database", "d", "", "database name")
	pf.String("path", "", "SQLite database file")
	pf.IntP("jobs", "j", 0, "number of reports parsed concurrently")
}

// databaseFlagOptions converts explicitly set connection flags to
// config options.
func databaseFlagOptions(cmd *cobra.Command) []config.Option {
	var res []config.Option
	flags := cmd.Flags()

	if flags.Changed("backend") {
		s, _ := flags.GetString("backend")
		res = append(res, config.OptDatabaseBackend(s))
	}
	if flags.Changed("uri") {
		s, _ := flags.GetString("uri")
		res = append(res, config.OptDatabaseURI(s))
	}
	if flags.Changed("database") {
		s, _ := flags.GetString("database")
		res = append(res, config.OptDatabaseDatabase(s))
	}
	if flags.Changed("path") {
		s, _ := flags.GetString("path")
		res = append(res, config.OptDatabasePath(s))
	}
	if flags.Changed("jobs") {
		i, _ := flags.GetInt("jobs")
		res = append(res, config.OptJobsNumber(i))
	}
	return res
}
