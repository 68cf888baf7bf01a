package source

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// loadDir recursively loads every regular file under dir whose extension
// (case-sensitive compare against the raw extension bytes, per spec 4.A)
// equals ext. Subdirectories are entered depth-first and their findings
// are flattened into the same result list.
//
// The original implementation discarded the return value of its
// recursive call, silently dropping every pact nested below the first
// level of subdirectories (spec 9, Open Question c). This walk appends
// nested results explicitly, fixing that.
func loadDir(logger *zap.Logger, dir, ext string) []Result {
	var results []Result
	walkDir(logger, dir, ext, &results)
	return results
}

func walkDir(logger *zap.Logger, dir, ext string, out *[]Result) {
	logger.Debug("scanning directory", zap.String("dir", dir))

	entries, err := os.ReadDir(dir)
	if err != nil {
		*out = append(*out, Result{Err: errorf("could not load pacts from directory '%s' - %s", dir, err)})
		return
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			walkDir(logger, path, ext, out)
			continue
		}
		fileExt := strings.TrimPrefix(filepath.Ext(path), ".")
		if fileExt != ext {
			continue
		}
		logger.Debug("loading pact file", zap.String("path", path))
		*out = append(*out, loadFile(path))
	}
}
