// Package centres provides configuration and validation for the lab
// centres whose reports are imported.
//
// This package defines the schema of centres.yaml. Loading the file is
// done by internal/iocentres.
package centres

import (
	"slices"
)

// Centres loads the centres configuration.
type Centres interface {
	Load() (*CentresConfig, error)
}

// CentresConfig represents the complete centres.yaml configuration file.
type CentresConfig struct {
	// Centres is the list of organizations that send reports.
	Centres []Centre `yaml:"centres"`
}

// Centre is an organization that produces lab reports.
type Centre struct {
	// Name of the centre, unique across the configuration.
	Name string `yaml:"name"`

	// Prefix is a short code of the centre. Reports of the centre are kept
	// in a subdirectory of the data directory named after the prefix.
	Prefix string `yaml:"prefix"`

	// BarcodeField is the report column that contains the well barcode.
	BarcodeField string `yaml:"barcode_field"`

	// BarcodeRegex splits the barcode into a plate barcode (first group)
	// and a well coordinate (second group). Empty means no split.
	BarcodeRegex string `yaml:"barcode_regex,omitempty"`

	// FileRegex matches report file names of the centre.
	FileRegex string `yaml:"file_regex"`

	// SFTPRootRead is the remote directory the reports are downloaded from.
	SFTPRootRead string `yaml:"sftp_root_read,omitempty"`

	// MergeRequired is true if the centre sends partial reports that are
	// merged into a master file.
	MergeRequired bool `yaml:"merge_required,omitempty"`

	// FileNamesToIgnore lists reports that must never be imported.
	FileNamesToIgnore []string `yaml:"file_names_to_ignore,omitempty"`
}

// Fields returns the string fields of a centre in the form they are
// stored in the centres collection.
func (c Centre) Fields() map[string]string {
	res := map[string]string{
		"name":          c.Name,
		"prefix":        c.Prefix,
		"barcode_field": c.BarcodeField,
		"file_regex":    c.FileRegex,
	}
	if c.BarcodeRegex != "" {
		res["barcode_regex"] = c.BarcodeRegex
	}
	if c.SFTPRootRead != "" {
		res["sftp_root_read"] = c.SFTPRootRead
	}
	return res
}

// Ignored checks if a report file must be skipped.
func (c Centre) Ignored(fileName string) bool {
	return slices.Contains(c.FileNamesToIgnore, fileName)
}

// Select returns centres with the given names in the order of the
// configuration. Empty names select all centres. The second value lists
// names that were not found.
func (c *CentresConfig) Select(names []string) ([]Centre, []string) {
	if len(names) == 0 {
		return c.Centres, nil
	}

	var res []Centre
	found := make(map[string]bool)
	for _, v := range c.Centres {
		if slices.Contains(names, v.Name) {
			res = append(res, v)
			found[v.Name] = true
		}
	}

	var missing []string
	for _, v := range names {
		if !found[v] {
			missing = append(missing, v)
		}
	}
	return res, missing
}
