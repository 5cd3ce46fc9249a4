// Package iocrawl implements the Crawler interface. It finds the latest
// reports of the centres, parses them and merges the samples into the
// document store, leaving an import record for every centre.
package iocrawl

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/sampledb/internal/iocsv"
	"github.com/gnames/sampledb/pkg/centres"
	"github.com/gnames/sampledb/pkg/config"
	"github.com/gnames/sampledb/pkg/docstore"
	"github.com/gnames/sampledb/pkg/importer"
	"golang.org/x/sync/errgroup"
)

type crawler struct {
	cfg     *config.Config
	db      docstore.Database
	centres []centres.Centre
}

// New creates a Crawler for the given centres.
func New(
	cfg *config.Config,
	db docstore.Database,
	cs []centres.Centre,
) importer.Crawler {
	return &crawler{cfg: cfg, db: db, centres: cs}
}

// report is a parsed report of a centre.
type report struct {
	file string
	res  *iocsv.Result
	err  error
}

// Run imports the latest report of every centre.
func (c *crawler) Run(ctx context.Context) (*importer.Summary, error) {
	startTime := time.Now()
	slog.Info("Starting import", "centres", len(c.centres))

	if err := SyncCentres(ctx, c.db, c.centres); err != nil {
		return nil, err
	}

	reports, err := c.parseReports(ctx)
	if err != nil {
		return nil, err
	}

	summary := &importer.Summary{}
	samples := c.db.Collection(importer.CollectionSamples)
	if c.cfg.Import.Snapshot {
		name, err := importer.CopyCollection(ctx, c.db, samples)
		if err != nil {
			return nil, err
		}
		summary.Snapshot = name
		gn.Info("Samples copied to <em>%s</em>", name)
	}

	if err = c.processCentres(ctx, reports, summary); err != nil {
		return summary, err
	}

	summary.Duration = time.Since(startTime)
	failed := summary.Failed()
	total := len(summary.Centres)
	slog.Info("Import complete",
		"success", total-failed,
		"errors", failed,
		"total", total,
		"duration", gnfmt.TimeString(summary.Duration.Seconds()),
	)
	gn.Info(`Import complete
Centres succeeded: %d, failed %d, total %d.
		Elapsed time: <em>%s</em>
`,
		total-failed,
		failed,
		total,
		gnfmt.TimeString(summary.Duration.Seconds()),
	)

	if failed > 0 && failed == total {
		return summary, AllCentresFailedError(failed)
	}

	if failed > 0 {
		slog.Warn("Some centres failed to import",
			"failed", failed,
			"succeeded", total-failed)
	}
	return summary, nil
}

// parseReports locates and parses reports of all centres concurrently.
// Problems with a report belong to its centre and do not stop others.
func (c *crawler) parseReports(ctx context.Context) ([]report, error) {
	res := make([]report, len(c.centres))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.JobsNumber)

	for i, centre := range c.centres {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res[i] = c.parseCentre(centre)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, CancelledError(err)
	}
	return res, nil
}

func (c *crawler) parseCentre(centre centres.Centre) report {
	var res report
	dataDir := c.cfg.Import.DataDir

	if c.cfg.Import.File != "" && len(c.centres) == 1 {
		res.file = reportPath(dataDir, centre, c.cfg.Import.File)
	} else {
		res.file, res.err = LatestFile(dataDir, centre)
		if res.err != nil {
			return res
		}
	}

	slog.Info("Parsing report", "centre", centre.Name, "file", res.file)
	res.res, res.err = iocsv.Parse(res.file, centre)
	return res
}

func (c *crawler) processCentres(
	ctx context.Context,
	reports []report,
	summary *importer.Summary,
) error {
	samples := c.db.Collection(importer.CollectionSamples)
	imports := c.db.Collection(importer.CollectionImports)

	for i, centre := range c.centres {
		centreStartTime := time.Now()
		fmt.Println(strings.Repeat("─", 60))
		gn.Info("Centre: %s", centre.Name)
		fmt.Println(strings.Repeat("─", 60))

		select {
		case <-ctx.Done():
			return CancelledError(ctx.Err())
		default:
		}

		cr := c.importCentre(ctx, samples, centre, reports[i])

		// the record documents failed imports too, so it must be written
		// even after cancellation
		var fileName string
		if cr.File != "" {
			fileName = filepath.Base(cr.File)
		}
		auditCtx := context.WithoutCancel(ctx)
		_, err := importer.RecordImport(
			auditCtx, imports, centre, cr.Inserted, fileName, cr.Errors,
		)
		if err != nil && cr.Err == nil {
			cr.Err = err
		}
		summary.Centres = append(summary.Centres, cr)

		if cr.Err != nil {
			slog.Error("Failed to import centre",
				"centre", centre.Name,
				"file", cr.File,
				"error", cr.Err,
			)
			gn.PrintErrorMessage(cr.Err)
			continue
		}

		duration := time.Since(centreStartTime)
		slog.Info("Centre imported successfully",
			"centre", centre.Name,
			"records", cr.Inserted,
			"errors", len(cr.Errors),
			"duration", gnfmt.TimeString(duration.Seconds()),
		)
		gn.Info("Merged <em>%s</em> records in %s",
			humanize.Comma(int64(cr.Inserted)),
			gnfmt.TimeString(duration.Seconds()),
		)
	}
	return nil
}

// importCentre populates samples from a parsed report. Errors of the
// report and the populate error become messages of the import record.
func (c *crawler) importCentre(
	ctx context.Context,
	samples docstore.Collection,
	centre centres.Centre,
	rep report,
) importer.CentreResult {
	res := importer.CentreResult{
		Centre: centre.Name,
		File:   rep.file,
	}
	if rep.err != nil {
		res.Err = rep.err
		res.Errors = []string{errorMessage(rep.err)}
		return res
	}

	res.Parsed = len(rep.res.Records)
	res.Errors = append(res.Errors, rep.res.Errors...)

	bar := pb.Full.Start(res.Parsed)
	bar.Set("prefix", "Merging samples: ")
	bar.Set(pb.CleanOnFinish, true)
	onMerge := func(n int) {
		res.Inserted = n
		bar.SetCurrent(int64(n))
	}

	err := importer.Populate(
		ctx, samples, rep.res.Records, c.cfg.Import.FilterField,
		importer.OptOnMerge(onMerge),
	)
	bar.Finish()
	if err != nil {
		res.Err = err
		res.Errors = append(res.Errors, errorMessage(err))
	}
	return res
}

// errorMessage returns the technical description of an error.
func errorMessage(err error) string {
	if gnErr, ok := err.(*gn.Error); ok && gnErr.Err != nil {
		return gnErr.Err.Error()
	}
	return err.Error()
}
