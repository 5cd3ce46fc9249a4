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

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/gnames/gn"
	"github.com/gnames/sampledb/internal/iocentres"
	"github.com/gnames/sampledb/internal/iocrawl"
	"github.com/gnames/sampledb/internal/iostore"
	"github.com/gnames/sampledb/pkg/centres"
	"github.com/gnames/sampledb/pkg/config"
	"github.com/gnames/sampledb/pkg/docstore"
	"github.com/spf13/cobra"
)

const importLong = `
	Import the latest reports of centres into the samples collection.

	This command:
	  1. Connects to the document store using configuration settings
	  2. Reads centres.yaml and saves centres into the 'centres' collection
	  3. Finds the latest report of every centre in <data_dir>/<prefix>
	  4. Copies 'samples' if snapshot is enabled
	  5. Merges samples of every centre, keyed on the filter field
	  6. Writes an import record of every centre into 'imports'

	A failure of one centre does not stop the others. The import fails
	only when all centres fail.

	Centres are configured in: ~/.config/sampledb/centres.yaml

	The --file flag only works when importing a single centre.

	Examples:
	  # Import all centres
	  sampledb import

	  # Import selected centres
	  sampledb import --centres Alderley,"UK Biocentre"
	  sampledb import -c Alderley

	  # Import a given report of one centre
	  sampledb import -c Alderley -f AP_sanger_report_200518_2132.csv

	  # Copy samples before the import
	  sampledb import --snapshot`

// getImportCmd returns the import command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getImportCmd() *cobra.Command {
	var (
		centreNames []string
		file        string
		snapshot    bool
		filterField string
		dataDir     string
	)

	importCmd := &cobra.Command{
		Use:     "import",
		Short:   "Import the latest centre reports into samples",
		Long:    heredoc.Doc(importLong),
		Aliases: []string{"crawl"},
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runImport(cmd, centreNames, file, snapshot,
				filterField, dataDir)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	importCmd.Flags().StringSliceVarP(
		&centreNames, "centres", "c", []string{},
		"names of centres to import (empty = all)",
	)
	importCmd.Flags().StringVarP(
		&file, "file", "f", "",
		"report to import (single centre only)",
	)
	importCmd.Flags().BoolVarP(
		&snapshot, "snapshot", "s", false,
		"copy samples before the import",
	)
	importCmd.Flags().StringVar(
		&filterField, "filter-field", "",
		"field used as the merge key of samples",
	)
	importCmd.Flags().StringVar(
		&dataDir, "data-dir", "",
		"directory with downloaded reports",
	)

	return importCmd
}

func runImport(
	cmd *cobra.Command,
	centreNames []string,
	file string,
	snapshot bool,
	filterField string,
	dataDir string,
) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	flags := cmd.Flags()
	if flags.Changed("file") && len(centreNames) != 1 {
		gn.Warn(`<warn>Cannot use a report file with several centres</warn>
   <warn>Use --centres to select a single centre</warn>`)
		err := fmt.Errorf("invalid flag combination")
		slog.Error("invalid flag combination", "error", err)
		return err
	}

	var importOpts []config.Option
	if flags.Changed("centres") {
		importOpts = append(importOpts, config.OptImportCentreNames(centreNames))
	}
	if flags.Changed("file") {
		importOpts = append(importOpts, config.OptImportFile(file))
	}
	if flags.Changed("snapshot") {
		importOpts = append(importOpts, config.OptImportSnapshot(snapshot))
	}
	if flags.Changed("filter-field") {
		importOpts = append(importOpts, config.OptImportFilterField(filterField))
	}
	if flags.Changed("data-dir") {
		importOpts = append(importOpts, config.OptImportDataDir(dataDir))
	}
	if len(importOpts) > 0 {
		cfg.Update(importOpts)
	}

	cs, err := selectCentres(cfg.Import.CentreNames)
	if err != nil {
		return err
	}

	return withStore(ctx, func(db docstore.Database) error {
		_, err := iocrawl.New(cfg, db, cs).Run(ctx)
		return err
	})
}

// selectCentres loads centres.yaml and returns centres with the given
// names. Empty names select all centres.
func selectCentres(names []string) ([]centres.Centre, error) {
	cc, err := iocentres.New(cfg).Load()
	if err != nil {
		return nil, err
	}

	res, missing := cc.Select(names)
	if len(missing) > 0 {
		return nil, iocentres.CentresNotFoundError(missing)
	}

	plural := "centre"
	if len(res) > 1 {
		plural += "s"
	}
	gn.Info("Processing %d %s", len(res), plural)
	return res, nil
}

// withStore connects to the configured document store, runs fn and
// closes the connection.
func withStore(
	ctx context.Context,
	fn func(db docstore.Database) error,
) error {
	p, err := iostore.New(cfg)
	if err != nil {
		return err
	}

	if err = p.Connect(ctx); err != nil {
		return err
	}
	defer p.Close(context.WithoutCancel(ctx))

	db := p.Database()
	gn.Info("Connected to <em>%s</em> database <em>%s</em>",
		cfg.Database.Backend, db.Name())

	return fn(db)
}
