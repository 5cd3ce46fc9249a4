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
	"io"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/sampledb/pkg/docstore"
	"github.com/gnames/sampledb/pkg/importer"
	"github.com/spf13/cobra"
)

const importsLong = `
	Show the history of imports.

	Every import attempt leaves a record with the date, the centre, the
	report used, the number of merged records, and the errors found.

	Examples:
	  # All imports
	  sampledb imports

	  # Imports of one centre as JSON
	  sampledb imports -c Alderley --format json`

// getImportsCmd returns the imports command.
func getImportsCmd() *cobra.Command {
	var (
		centreName string
		format     string
	)

	importsCmd := &cobra.Command{
		Use:   "imports",
		Short: "Show the history of imports",
		Long:  heredoc.Doc(importsLong),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runImports(cmd.Context(), os.Stdout, centreName, format)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	importsCmd.Flags().StringVarP(
		&centreName, "centre", "c", "",
		"show imports of one centre only",
	)
	importsCmd.Flags().StringVar(
		&format, "format", "text",
		"output format: text or json",
	)

	return importsCmd
}

func runImports(
	ctx context.Context,
	w io.Writer,
	centreName, format string,
) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format %q", format)
	}

	var records []importer.ImportRecord
	err := withStore(ctx, func(db docstore.Database) error {
		var err error
		coll := db.Collection(importer.CollectionImports)
		records, err = importer.ListImports(ctx, coll, centreName)
		return err
	})
	if err != nil {
		return err
	}

	return writeImports(w, records, format)
}

func writeImports(
	w io.Writer,
	records []importer.ImportRecord,
	format string,
) error {
	if format == "json" {
		docs := make([]docstore.Document, len(records))
		for i := range records {
			docs[i] = records[i].Doc()
		}
		enc := gnfmt.GNjson{Pretty: true}
		bs, err := enc.Encode(docs)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(bs))
		return err
	}

	for _, ir := range records {
		file := ir.CSVFileUsed
		if file == "" {
			file = "-"
		}
		fmt.Fprintf(w, "%s  %-20s %-40s %d\n",
			ir.Date, ir.CentreName, file, ir.NumberOfRecords)
		for _, e := range ir.Errors {
			fmt.Fprintf(w, "    %s\n", strings.TrimSpace(e))
		}
	}
	return nil
}
