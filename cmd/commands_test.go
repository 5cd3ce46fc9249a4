package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/gnames/sampledb/pkg/importer"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetImportCmd verifies the import command and its flags.
func TestGetImportCmd(t *testing.T) {
	cmd := getImportCmd()
	require.NotNil(t, cmd)
	assert.Equal(t, "import", cmd.Use)
	assert.Contains(t, cmd.Aliases, "crawl")
	assert.NotNil(t, cmd.RunE, "RunE should be set")
	assert.Contains(t, cmd.Long, "centres.yaml")
	assert.Contains(t, cmd.Long, "imports")

	tests := []struct {
		name, short, def string
	}{
		{"centres", "c", "[]"},
		{"file", "f", ""},
		{"snapshot", "s", "false"},
		{"filter-field", "", ""},
		{"data-dir", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := cmd.Flags().Lookup(tt.name)
			require.NotNil(t, flag, "--%s flag should exist", tt.name)
			assert.Equal(t, tt.short, flag.Shorthand)
			assert.Equal(t, tt.def, flag.DefValue)
		})
	}
}

// TestRunImport_FileWithSeveralCentres verifies that a report file
// cannot be used for more than one centre.
func TestRunImport_FileWithSeveralCentres(t *testing.T) {
	cmd := getImportCmd()
	require.NoError(t, cmd.Flags().Set("centres", "Alderley,QEUH"))
	require.NoError(t, cmd.Flags().Set("file", "report.csv"))

	err := runImport(cmd, []string{"Alderley", "QEUH"}, "report.csv",
		false, "", "")
	assert.Error(t, err)
}

// TestGetPopulateCmd verifies the populate command and its flags.
func TestGetPopulateCmd(t *testing.T) {
	cmd := getPopulateCmd()
	require.NotNil(t, cmd)
	assert.Equal(t, "populate", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.Contains(t, cmd.Long, "import record")

	for _, name := range []string{"centre", "file"} {
		flag := cmd.Flags().Lookup(name)
		require.NotNil(t, flag, "--%s flag should exist", name)
		assert.Equal(t, []string{"true"},
			flag.Annotations[cobra.BashCompOneRequiredFlag],
			"--%s should be required", name)
	}

	flag := cmd.Flags().Lookup("collection")
	require.NotNil(t, flag)
	assert.Equal(t, importer.CollectionSamples, flag.DefValue)

	flag = cmd.Flags().Lookup("snapshot")
	require.NotNil(t, flag)
	assert.Equal(t, "s", flag.Shorthand)
	assert.Equal(t, "false", flag.DefValue)

	assert.NotNil(t, cmd.Flags().Lookup("filter-field"))
}

// TestGetSnapshotCmd verifies the snapshot command takes one argument.
func TestGetSnapshotCmd(t *testing.T) {
	cmd := getSnapshotCmd()
	require.NotNil(t, cmd)
	assert.Equal(t, "snapshot", cmd.Name())
	assert.Contains(t, cmd.Long, "YYMMDD_HHMM")

	require.NotNil(t, cmd.Args)
	assert.Error(t, cmd.Args(cmd, []string{}))
	assert.Error(t, cmd.Args(cmd, []string{"a", "b"}))
	assert.NoError(t, cmd.Args(cmd, []string{"samples"}))
}

// TestGetImportsCmd verifies the imports command and its flags.
func TestGetImportsCmd(t *testing.T) {
	cmd := getImportsCmd()
	require.NotNil(t, cmd)
	assert.Equal(t, "imports", cmd.Use)

	flag := cmd.Flags().Lookup("centre")
	require.NotNil(t, flag)
	assert.Equal(t, "c", flag.Shorthand)

	flag = cmd.Flags().Lookup("format")
	require.NotNil(t, flag)
	assert.Equal(t, "text", flag.DefValue)
}

func TestWriteImports(t *testing.T) {
	records := []importer.ImportRecord{
		{
			Date:            "2020-05-19T08:00:00",
			CentreName:      "Alderley",
			CSVFileUsed:     "AP_sanger_report_200519_0800.csv",
			NumberOfRecords: 2,
			Errors:          []string{`Wrong barcode "bad" in file line 4`},
		},
		{
			Date:       "2020-05-19T08:00:01",
			CentreName: "UK Biocentre",
		},
	}

	t.Run("text", func(t *testing.T) {
		buf := new(bytes.Buffer)
		err := writeImports(buf, records, "text")
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "2020-05-19T08:00:00")
		assert.Contains(t, out, "AP_sanger_report_200519_0800.csv")
		assert.Contains(t, out, `Wrong barcode "bad"`)
		assert.Contains(t, out, "UK Biocentre")
	})

	t.Run("json", func(t *testing.T) {
		buf := new(bytes.Buffer)
		err := writeImports(buf, records, "json")
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, `"centre_name": "Alderley"`)
		assert.Contains(t, out, `"number_of_records": 2`)
		assert.Contains(t, out, `"errors": []`)
	})
}

func TestRunImports_UnknownFormat(t *testing.T) {
	err := runImports(context.Background(), new(bytes.Buffer), "", "yaml")
	assert.Error(t, err)
}
