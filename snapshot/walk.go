package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/tc-cache/tc-cache/internal/errs"
	"github.com/tc-cache/tc-cache/internal/parallelwork"
	"github.com/tc-cache/tc-cache/internal/stats"
)

// maxOpenDescriptors is the target cap on file descriptors open at once
// during a walk (§4.2). Directory traversal here is sequential
// depth-first recursion, so at most one directory handle is open per
// recursion level; the cap is documented as a target for the parallel
// stat+hash stage rather than enforced by a semaphore.
const maxOpenDescriptors = 256

// Walk recursively enumerates every descendant of roots, depth-first,
// without following symlinks, converts each path to an Entry (stat and,
// for files, hash) in parallel across a worker pool, and returns the
// result sorted by path (invariant 4).
func Walk(ctx context.Context, roots []string) ([]Entry, error) {
	timer := stats.Current().Walking.Timer()
	defer timer.Stop()

	perRoot := make([][]string, len(roots))

	g, _ := errgroup.WithContext(ctx)

	for i, root := range roots {
		i, root := i, root

		g.Go(func() error {
			return walkRoot(root, &perRoot[i])
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var paths []string
	for _, p := range perRoot {
		paths = append(paths, p...)
	}

	timer.AddBytes(uint64(len(paths)))

	entries := make([]Entry, len(paths))
	numWorkers := runtime.GOMAXPROCS(0)
	stats.Current().SetWorkerCount(numWorkers)

	q := parallelwork.NewQueue()

	for i, p := range paths {
		i, p := i, p

		q.EnqueueBack(ctx, func() error {
			e, err := FromPath(p)
			if err != nil {
				return err
			}

			entries[i] = e

			return nil
		})
	}

	if err := q.Process(ctx, numWorkers); err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	return entries, nil
}

// walkRoot appends root and every descendant path to out, depth-first,
// without following symlinks: a symlink is recorded but never
// traversed, even when it points at a directory.
func walkRoot(root string, out *[]string) error {
	info, err := os.Lstat(root)
	if err != nil {
		return errs.IO(root, err)
	}

	*out = append(*out, root)

	if info.Mode()&os.ModeSymlink != 0 || !info.IsDir() {
		return nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return errs.IO(root, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, de := range entries {
		if err := walkRoot(filepath.Join(root, de.Name()), out); err != nil {
			return err
		}
	}

	return nil
}
