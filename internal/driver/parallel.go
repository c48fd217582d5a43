package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"zyl/internal/diag"
	"zyl/internal/printer"
	"zyl/internal/source"
)

// FileResult is the outcome of optimizing one file.
type FileResult struct {
	Path   string
	FileID source.FileID
	Output string
	Cached bool
	Bag    *diag.Bag
	Err    error
}

// listZylFiles returns the sorted list of *.zyl files under dir.
func listZylFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".zyl") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Sorted for a deterministic result order.
	sort.Strings(files)
	return files, nil
}

// OptimizeDir optimizes every *.zyl file under dir in parallel. The dialect
// is shared read-only across workers; each file owns its dispenser, so the
// core stays single-threaded per program. Per-file failures land in the
// result, not in the returned error.
func (s *Session) OptimizeDir(ctx context.Context, dir, passes string, jobs int, cache *Cache) ([]FileResult, error) {
	files, err := listZylFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if passes == "" {
		passes = s.Config.Passes
	}

	// Indices are unique per goroutine; no mutex needed for results.
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = s.optimizeFile(path, passes, cache)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (s *Session) optimizeFile(path, passes string, cache *Cache) FileResult {
	fileSet := source.NewFileSet()
	id, err := fileSet.Load(path)
	if err != nil {
		return FileResult{Path: path, Err: err}
	}
	file := fileSet.Get(id)

	key := s.Key(file.Hash, passes)
	var payload CachePayload
	if hit, err := cache.Get(key, &payload); err == nil && hit {
		return FileResult{Path: path, FileID: id, Output: payload.Output, Cached: true}
	}

	prog, bag, err := s.Prepare(fileSet, id)
	if err != nil {
		return FileResult{Path: path, FileID: id, Bag: bag, Err: err}
	}
	block, err := s.Optimize(prog, passes)
	if err != nil {
		return FileResult{Path: path, FileID: id, Bag: bag, Err: err}
	}
	output := printer.Format(block)

	if putErr := cache.Put(key, &CachePayload{
		Schema:  cacheSchemaVersion,
		Path:    path,
		Passes:  passes,
		Dialect: s.Dialect.Name(),
		Output:  output,
	}); putErr != nil {
		// Cache failures are not optimization failures.
		return FileResult{Path: path, FileID: id, Output: output, Bag: bag}
	}
	return FileResult{Path: path, FileID: id, Output: output, Bag: bag}
}
