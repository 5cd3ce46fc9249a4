package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetRootCmd_Exists verifies getRootCmd returns
// a valid command.
func TestGetRootCmd_Exists(t *testing.T) {
	cmd := getRootCmd()
	require.NotNil(t, cmd, "Root command should exist")
	assert.Equal(t, "sampledb", cmd.Use,
		"Command name should be sampledb")
}

// TestGetRootCmd_VersionFormat verifies version
// output format.
func TestGetRootCmd_VersionFormat(t *testing.T) {
	cmd := getRootCmd()
	cmd.Version = "version: v1.2.3\nbuild:   abc123"

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--version"})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "v1.2.3",
		"Version output should contain version")
	assert.Contains(t, output, "abc123",
		"Version output should contain build")
	assert.NotContains(t, output, "sampledb version",
		"Version template should not add a prefix")
}

// TestGetRootCmd_ShortVersionFlag verifies
// -V flag works.
func TestGetRootCmd_ShortVersionFlag(t *testing.T) {
	cmd := getRootCmd()
	cmd.Version = "version: v1.2.3\nbuild:   abc123"

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"-V"})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "v1.2.3",
		"Version output should work with -V flag")
}

// TestGetRootCmd_HelpText verifies help text content.
func TestGetRootCmd_HelpText(t *testing.T) {
	cmd := getRootCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	require.NoError(t, err)

	helpText := buf.String()
	assert.Contains(t, helpText, "sampledb")
	assert.Contains(t, helpText, "samples")
	assert.Contains(t, helpText, "SAMPLEDB_DATABASE_BACKEND")
	for _, sub := range []string{"import", "populate", "snapshot", "imports"} {
		assert.Contains(t, helpText, sub,
			"Help should list the %s command", sub)
	}
}

// TestGetRootCmd_Subcommands verifies all commands are registered.
func TestGetRootCmd_Subcommands(t *testing.T) {
	cmd := getRootCmd()

	var names []string
	for _, v := range cmd.Commands() {
		names = append(names, v.Name())
	}
	assert.Subset(t, names,
		[]string{"import", "populate", "snapshot", "imports"})
}

// TestGetRootCmd_PersistentFlags verifies connection flags are
// inherited by subcommands.
func TestGetRootCmd_PersistentFlags(t *testing.T) {
	cmd := getRootCmd()

	tests := []struct {
		name, short string
	}{
		{"backend", "b"},
		{"uri", ""},
		{"database", "d"},
		{"path", ""},
		{"jobs", "j"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := cmd.PersistentFlags().Lookup(tt.name)
			require.NotNil(t, flag, "--%s flag should exist", tt.name)
			assert.Equal(t, tt.short, flag.Shorthand)
		})
	}

	sub, _, err := cmd.Find([]string{"populate"})
	require.NoError(t, err)
	assert.NotNil(t, sub.InheritedFlags().Lookup("backend"),
		"populate should inherit --backend")
}

// TestDatabaseFlagOptions verifies only changed flags become options.
func TestDatabaseFlagOptions(t *testing.T) {
	cmd := getRootCmd()
	err := cmd.PersistentFlags().Parse(
		[]string{"--backend", "sqlite", "-j", "3"},
	)
	require.NoError(t, err)
	cmd.Flags().AddFlagSet(cmd.PersistentFlags())

	opts := databaseFlagOptions(cmd)
	assert.Len(t, opts, 2)
}

// TestGetRootCmd_IndependentInstances verifies that every call
// creates a new command.
func TestGetRootCmd_IndependentInstances(t *testing.T) {
	cmd1 := getRootCmd()
	cmd2 := getRootCmd()

	assert.NotSame(t, cmd1, cmd2)
	cmd1.Short = "changed"
	assert.NotEqual(t, cmd1.Short, cmd2.Short)
}
