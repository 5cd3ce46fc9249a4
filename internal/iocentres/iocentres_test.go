package iocentres

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/sampledb/pkg/config"
	"github.com/gnames/sampledb/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const centresYAML = `
centres:
  - name: Alderley
    prefix: ALDP
    barcode_field: RNA ID
    barcode_regex: ^(.*)_([A-Z]\d\d)$
    file_regex: ^AP_sanger_report_(\d{6}_\d{4})\.csv$
    file_names_to_ignore:
      - AP_sanger_report_200503_2338.csv
  - name: UK Biocentre
    prefix: MILK
    barcode_field: RNA ID
    barcode_regex: ^(.*)_([A-Z]\d\d)$
    file_regex: ^MK_sanger_report_(\d{6}_\d{4})\.csv$
    merge_required: true
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "centres.yaml")
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)
	return path
}

func TestLoadCentresConfig(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	cfg, err := loadCentresConfig(writeFile(t, centresYAML))
	require.NoError(t, err)
	require.Len(t, cfg.Centres, 2)

	c := cfg.Centres[0]
	assert.Equal(t, "Alderley", c.Name)
	assert.Equal(t, "ALDP", c.Prefix)
	assert.Equal(t, `^(.*)_([A-Z]\d\d)$`, c.BarcodeRegex)
	assert.True(t, c.Ignored("AP_sanger_report_200503_2338.csv"))
	assert.True(t, cfg.Centres[1].MergeRequired)
}

func TestLoadCentresConfig_Errors(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	tests := []struct {
		msg     string
		content string
		errMsg  string
	}{
		{"bad yaml", "centres: [", "failed to parse"},
		{"empty", "centres: []", "no centres"},
		{
			"bad regex",
			"centres:\n  - name: A\n    prefix: A\n    barcode_field: RNA ID\n" +
				"    file_regex: \"(\"\n",
			"invalid file_regex",
		},
	}

	for _, v := range tests {
		_, err := loadCentresConfig(writeFile(t, v.content))
		require.Error(t, err, v.msg)
		assert.Contains(t, err.Error(), v.errMsg, v.msg)
	}

	_, err := loadCentresConfig("nonexistent.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read centres config file")
}

func TestLoad(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	home := t.TempDir()
	cfg := config.New()
	cfg.Update([]config.Option{config.OptHomeDir(home)})

	_, err := New(cfg).Load()
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")
	assert.Equal(t, errcode.CentresConfigError, gnErr.Code)

	path := config.CentresFilePath(home)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(centresYAML), 0644))

	res, err := New(cfg).Load()
	require.NoError(t, err)
	assert.Len(t, res.Centres, 2)
}

func TestCentresNotFoundError(t *testing.T) {
	err := CentresNotFoundError([]string{"A", "B"})
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.CentresNotFoundError, gnErr.Code)
	assert.Equal(t, "A, B", gnErr.Vars[0])
}
