package kindprobe

import (
	"context"
	"os"

	"github.com/indexd/indextree"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 8

// Prober resolves path kinds via os.Lstat, limiting the number of
// in-flight syscalls the way internal/tree's Tree.grow bounds concurrent
// node loads: a buffered channel used as a semaphore, one goroutine per
// item, errgroup to collect the first error.
type Prober struct {
	concurrency int
}

// New returns a Prober that probes at most concurrency paths at once. A
// concurrency of 0 or less uses the default of 8.
func New(concurrency int) *Prober {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Prober{concurrency: concurrency}
}

// Probe resolves the kind of a single path, suitable for direct use as an
// indextree.KindProbe.
func (p *Prober) Probe(path indextree.Path) (indextree.FileKind, error) {
	fsPath, ok := path.FilesystemPath()
	if !ok {
		return indextree.KindUnknown, errors.Errorf("kindprobe: %s: not a file:// path", path.String())
	}
	return lstatKind(fsPath)
}

// Result pairs a Path with its resolved kind, for ProbeAll.
type Result struct {
	Path indextree.Path
	Kind indextree.FileKind
}

// ProbeAll resolves the kind of every path concurrently, bounded by
// p.concurrency, and returns one Result per input path in the same order.
// If ctx is canceled, or any individual stat fails, ProbeAll returns a
// nil slice and the first error encountered.
func (p *Prober) ProbeAll(ctx context.Context, paths []indextree.Path) ([]Result, error) {
	results := make([]Result, len(paths))
	semc := make(chan struct{}, p.concurrency)
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case semc <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			defer func() { <-semc }()

			fsPath, ok := path.FilesystemPath()
			if !ok {
				return errors.Errorf("kindprobe: %s: not a file:// path", path.String())
			}
			kind, err := lstatKind(fsPath)
			if err != nil {
				return errors.Wrapf(err, "kindprobe: %s", fsPath)
			}
			results[i] = Result{Path: path, Kind: kind}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func lstatKind(fsPath string) (indextree.FileKind, error) {
	fi, err := os.Lstat(fsPath)
	if err != nil {
		return indextree.KindUnknown, err
	}
	if fi.IsDir() {
		return indextree.KindDirectory, nil
	}
	return indextree.KindFile, nil
}
