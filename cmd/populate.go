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
	"path/filepath"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/sampledb/internal/iocsv"
	"github.com/gnames/sampledb/pkg/docstore"
	"github.com/gnames/sampledb/pkg/importer"
	"github.com/spf13/cobra"
)

const populateLong = `
	Merge one report file into a collection.

	Unlike 'import', this command does not look for the latest report and
	does not sync centres. It parses the given file using the settings of
	the given centre, merges records keyed on the filter field, and
	writes one import record.

	Examples:
	  # Merge a report into samples
	  sampledb populate -c Alderley -f ./AP_sanger_report_200518_2132.csv

	  # Merge into another collection, keyed on another field
	  sampledb populate -c QEUH -f ./report.csv \
	    --collection samples_test --filter-field "Root Sample ID"

	  # Copy the collection first
	  sampledb populate -c QEUH -f ./report.csv --snapshot`

// getPopulateCmd returns the populate command.
func getPopulateCmd() *cobra.Command {
	var (
		centreName  string
		file        string
		collection  string
		filterField string
		snapshot    bool
	)

	populateCmd := &cobra.Command{
		Use:   "populate",
		Short: "Merge one report file into a collection",
		Long:  heredoc.Doc(populateLong),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runPopulate(cmd.Context(), populateParams{
				centreName:  centreName,
				file:        file,
				collection:  collection,
				filterField: filterField,
				snapshot:    snapshot,
			})
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	populateCmd.Flags().StringVarP(
		&centreName, "centre", "c", "",
		"name of the centre that produced the report",
	)
	populateCmd.Flags().StringVarP(
		&file, "file", "f", "",
		"path to the report file",
	)
	populateCmd.Flags().StringVar(
		&collection, "collection", importer.CollectionSamples,
		"collection to merge records into",
	)
	populateCmd.Flags().StringVar(
		&filterField, "filter-field", "",
		"field used as the merge key (default from config)",
	)
	populateCmd.Flags().BoolVarP(
		&snapshot, "snapshot", "s", false,
		"copy the collection before merging",
	)
	_ = populateCmd.MarkFlagRequired("centre")
	_ = populateCmd.MarkFlagRequired("file")

	return populateCmd
}

type populateParams struct {
	centreName  string
	file        string
	collection  string
	filterField string
	snapshot    bool
}

func runPopulate(ctx context.Context, p populateParams) error {
	if ctx == nil {
		ctx = context.Background()
	}
	startTime := time.Now()

	if p.filterField == "" {
		p.filterField = cfg.Import.FilterField
	}

	cc, err := selectCentres([]string{p.centreName})
	if err != nil {
		return err
	}
	centre := cc[0]

	res, err := iocsv.Parse(p.file, centre)
	if err != nil {
		return err
	}
	for _, msg := range res.Errors {
		gn.Warn("%s", msg)
	}
	gn.Info("Parsed <em>%s</em> records from %s",
		humanize.Comma(int64(len(res.Records))), filepath.Base(p.file))

	return withStore(ctx, func(db docstore.Database) error {
		coll := db.Collection(p.collection)

		if p.snapshot {
			name, err := importer.CopyCollection(ctx, db, coll)
			if err != nil {
				return err
			}
			gn.Info("Copied <em>%s</em> to <em>%s</em>", coll.Name(), name)
		}

		var merged int
		bar := pb.Full.Start(len(res.Records))
		bar.Set("prefix", "Merging records: ")
		bar.Set(pb.CleanOnFinish, true)
		onMerge := func(n int) {
			merged = n
			bar.SetCurrent(int64(n))
		}
		popErr := importer.Populate(
			ctx, coll, res.Records, p.filterField,
			importer.OptOnMerge(onMerge),
		)
		bar.Finish()

		errs := res.Errors
		if popErr != nil {
			errs = append(errs, errorMessage(popErr))
		}

		imports := db.Collection(importer.CollectionImports)
		_, err := importer.RecordImport(
			context.WithoutCancel(ctx), imports, centre, merged,
			filepath.Base(p.file), errs,
		)
		if popErr != nil {
			return popErr
		}
		if err != nil {
			return err
		}

		duration := time.Since(startTime)
		slog.Info("Report merged",
			"centre", centre.Name,
			"collection", coll.FullName(),
			"records", merged,
			"duration", gnfmt.TimeString(duration.Seconds()),
		)
		gn.Info("Merged <em>%s</em> records into <em>%s</em> in %s",
			humanize.Comma(int64(merged)), coll.Name(),
			gnfmt.TimeString(duration.Seconds()),
		)
		return nil
	})
}

// errorMessage returns the technical description of an error.
func errorMessage(err error) string {
	if gnErr, ok := err.(*gn.Error); ok && gnErr.Err != nil {
		return gnErr.Err.Error()
	}
	return fmt.Sprint(err)
}
