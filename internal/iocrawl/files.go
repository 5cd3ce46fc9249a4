package iocrawl

import (
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/gnames/sampledb/pkg/centres"
)

// centreDir returns the directory with reports of a centre.
func centreDir(dataDir string, c centres.Centre) string {
	return filepath.Join(dataDir, c.Prefix)
}

// LatestFile finds the newest report of a centre in its directory.
// Reports are ordered by the timestamp captured by the first group of
// file_regex, or by name if the regex has no groups. Ignored files are
// skipped.
func LatestFile(dataDir string, c centres.Centre) (string, error) {
	dir := centreDir(dataDir, c)
	re, err := regexp.Compile(c.FileRegex)
	if err != nil {
		return "", FileNotFoundError(c.Name, dir, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", FileNotFoundError(c.Name, dir, err)
	}

	type candidate struct {
		name, key string
	}
	var files []candidate
	for _, e := range entries {
		if e.IsDir() || c.Ignored(e.Name()) {
			continue
		}
		m := re.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		key := e.Name()
		if len(m) > 1 {
			key = m[1]
		}
		files = append(files, candidate{name: e.Name(), key: key})
	}

	if len(files) == 0 {
		return "", FileNotFoundError(c.Name, dir, nil)
	}

	latest := slices.MaxFunc(files, func(a, b candidate) int {
		if res := strings.Compare(a.key, b.key); res != 0 {
			return res
		}
		return strings.Compare(a.name, b.name)
	})
	return filepath.Join(dir, latest.name), nil
}

// reportPath resolves a report given by the user. A bare file name is
// looked up in the directory of the centre.
func reportPath(dataDir string, c centres.Centre, file string) string {
	if filepath.Base(file) == file {
		return filepath.Join(centreDir(dataDir, c), file)
	}
	return file
}
