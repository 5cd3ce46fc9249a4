// Package iocsv reads lab reports into records ready to be populated.
package iocsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gnames/sampledb/pkg/centres"
	"github.com/gnames/sampledb/pkg/importer"
)

// RequiredColumns must be present in the header of every report.
var RequiredColumns = []string{
	importer.FieldRootSampleID,
	importer.FieldRNAID,
	importer.FieldResult,
	importer.FieldDateTested,
	importer.FieldLabID,
}

// Result of parsing a report.
type Result struct {
	// Records are rows that passed the checks, in file order.
	Records []importer.Record

	// Errors describe skipped rows.
	Errors []string
}

// Parse reads a report of a centre. Every row becomes a record with
// trimmed values, the name of the centre as its source and, if the centre
// has a barcode regex, the plate barcode and the well coordinate.
//
// Rows without a root sample ID, with a barcode that does not match the
// regex, or duplicates of earlier rows are skipped, each of them adds a
// message to Result.Errors. Problems with the file itself are returned
// as an error.
func Parse(path string, centre centres.Centre) (*Result, error) {
	var barcodeRe *regexp.Regexp
	if centre.BarcodeRegex != "" {
		re, err := regexp.Compile(centre.BarcodeRegex)
		if err != nil {
			return nil, ReadError(path, 0, err)
		}
		barcodeRe = re
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, OpenError(path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, HeaderError(path, RequiredColumns, err)
		}
		return nil, ReadError(path, 1, err)
	}
	header = cleanHeader(header)
	if missing := missingColumns(header, centre.BarcodeField); len(missing) > 0 {
		return nil, HeaderError(path, missing, nil)
	}

	fileName := filepath.Base(path)
	res := &Result{}
	seen := make(map[string]struct{})
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var line int
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return nil, ReadError(path, line, err)
		}
		line, _ := r.FieldPos(0)
		if isEmpty(row) {
			continue
		}

		rec := make(importer.Record, len(header)+3)
		for i, k := range header {
			if k == "" {
				continue
			}
			var v string
			if i < len(row) {
				v = strings.TrimSpace(row[i])
			}
			rec[k] = v
		}
		rec[importer.FieldSource] = centre.Name

		if rec[importer.FieldRootSampleID] == "" {
			res.addError("Missing %s in %s line %d",
				importer.FieldRootSampleID, fileName, line)
			continue
		}

		if barcodeRe != nil {
			barcode := rec[centre.BarcodeField]
			m := barcodeRe.FindStringSubmatch(barcode)
			if m == nil {
				res.addError("Wrong barcode %q in %s line %d",
					barcode, fileName, line)
				continue
			}
			rec[importer.FieldPlateBarcode] = m[1]
			rec[importer.FieldCoordinate] = m[2]
		}

		key := rowKey(rec)
		if _, ok := seen[key]; ok {
			res.addError("Duplicate row of %s %q in %s line %d",
				importer.FieldRootSampleID, rec[importer.FieldRootSampleID],
				fileName, line)
			continue
		}
		seen[key] = struct{}{}

		res.Records = append(res.Records, rec)
	}

	slog.Info("Report parsed",
		"file", fileName,
		"centre", centre.Name,
		"records", len(res.Records),
		"errors", len(res.Errors),
	)
	return res, nil
}

func (r *Result) addError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	slog.Warn(msg)
	r.Errors = append(r.Errors, msg)
}

// cleanHeader trims column names and removes UTF-8 byte order mark
// that spreadsheet exports add.
func cleanHeader(header []string) []string {
	res := make([]string, len(header))
	for i, v := range header {
		if i == 0 {
			v = strings.TrimPrefix(v, "\ufeff")
		}
		res[i] = strings.TrimSpace(v)
	}
	return res
}

func missingColumns(header []string, barcodeField string) []string {
	have := make(map[string]struct{}, len(header))
	for _, v := range header {
		have[v] = struct{}{}
	}

	cols := RequiredColumns
	if barcodeField != "" {
		cols = append(cols[:len(cols):len(cols)], barcodeField)
	}

	var res []string
	seen := make(map[string]struct{})
	for _, v := range cols {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		if _, ok := have[v]; !ok {
			res = append(res, v)
		}
	}
	return res
}

func isEmpty(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func rowKey(rec importer.Record) string {
	return strings.Join([]string{
		rec[importer.FieldRootSampleID],
		rec[importer.FieldRNAID],
		rec[importer.FieldResult],
		rec[importer.FieldLabID],
	}, "\x00")
}
