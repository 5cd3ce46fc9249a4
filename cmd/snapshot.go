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
	"github.com/gnames/sampledb/pkg/docstore"
	"github.com/gnames/sampledb/pkg/importer"
	"github.com/spf13/cobra"
)

const snapshotLong = `
	Copy all documents of a collection into a new collection.

	The copy is named <collection>_<YYMMDD_HHMM>. Only one copy of a
	collection can be made per minute. Copying an empty collection
	does not create anything.

	Examples:
	  sampledb snapshot samples
	  sampledb snapshot imports`

// getSnapshotCmd returns the snapshot command.
func getSnapshotCmd() *cobra.Command {
	snapshotCmd := &cobra.Command{
		Use:   "snapshot <collection>",
		Short: "Copy a collection into a timestamped collection",
		Long:  heredoc.Doc(snapshotLong),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := runSnapshot(cmd.Context(), args[0])
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}
			fmt.Println(name)
			return nil
		},
	}
	return snapshotCmd
}

func runSnapshot(ctx context.Context, collName string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var res string
	err := withStore(ctx, func(db docstore.Database) error {
		var err error
		res, err = importer.CopyCollection(ctx, db, db.Collection(collName))
		return err
	})
	if err != nil {
		return "", err
	}

	slog.Info("Collection copied", "from", collName, "to", res)
	return res, nil
}
