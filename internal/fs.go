package internal

import (
	"context"
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"
	ignore "github.com/sabhiram/go-gitignore"
	"github.com/sirupsen/logrus"
)

const maxArchiveFiles = 10000 // zip-bomb protection

var errArchiveLimit = errors.New("archive file limit reached")

// IsArchive by extension. O(1) map lookup
var archiveExt = map[string]struct{}{
	".zip": {}, ".tar": {}, ".gz": {}, ".bz2": {}, ".xz": {},
	".rar": {}, ".br": {}, ".lz4": {}, ".lz": {}, ".mz": {},
	".sz": {}, ".s2": {}, ".zz": {}, ".zst": {}, ".7z": {},
}

func IsArchive(path string) bool {
	_, ok := archiveExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Task describes a unit of scan work: one regular file, or one entry inside
// an archive.
type Task struct {
	path      string
	innerPath string
	isArchive bool
}

// Display returns the task path as shown to the user.
func (t Task) Display() string {
	if t.innerPath != "" {
		return t.path + "::" + t.innerPath
	}
	return t.path
}

// ignoreLayer is one compiled .gitignore, rooted at the directory that
// contains it.
type ignoreLayer struct {
	base    string
	matcher *ignore.GitIgnore
}

// Enumerate produces the complete worklist before any scanning starts.
// Roots must already be existence-checked by PartitionPaths; a root that
// vanished in between is warned and skipped.
func Enumerate(ctx context.Context, opts ScanOptions) []Task {
	var tasks []Task
	for _, root := range opts.Roots {
		if ctx.Err() != nil {
			break
		}
		st, err := os.Stat(root)
		if err != nil {
			logrus.WithError(err).Warnf("Skip root: %s", root)
			continue
		}
		if st.Mode().IsRegular() {
			if opts.Archives && IsArchive(root) {
				expandArchive(ctx, root, opts, &tasks)
			} else {
				tasks = append(tasks, Task{path: root})
			}
			continue
		}
		walkRoot(ctx, root, opts, &tasks)
	}
	return tasks
}

// walkRoot descends one directory root, pruning .git and gitignored
// branches and honoring the depth cap. Unreadable directories contribute
// nothing and do not abort their siblings.
func walkRoot(ctx context.Context, root string, opts ScanOptions, tasks *[]Task) {
	var layers []ignoreLayer

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			logrus.WithError(err).Warnf("Skip unreadable: %s", path)
			return nil
		}

		if d.IsDir() {
			layers = pruneLayers(layers, path)
			if path != root {
				if d.Name() == ".git" {
					return filepath.SkipDir
				}
				if opts.Depth > 0 {
					rel, _ := filepath.Rel(root, path)
					if depthCount(rel) > opts.Depth {
						return filepath.SkipDir
					}
				}
				if !opts.NoIgnore && ignoredBy(layers, path) {
					return filepath.SkipDir
				}
			}
			if !opts.NoIgnore {
				gi := filepath.Join(path, ".gitignore")
				if _, err := os.Stat(gi); err == nil {
					if m, err := ignore.CompileIgnoreFile(gi); err == nil {
						layers = append(layers, ignoreLayer{base: path, matcher: m})
					} else {
						logrus.WithError(err).Warnf("Bad ignore file: %s", gi)
					}
				}
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		layers = pruneLayers(layers, filepath.Dir(path))
		if !opts.NoIgnore && ignoredBy(layers, path) {
			return nil
		}
		if !opts.allowedExt(strings.ToLower(filepath.Ext(d.Name()))) {
			return nil
		}
		if opts.Archives && IsArchive(path) {
			expandArchive(ctx, path, opts, tasks)
			return nil
		}
		*tasks = append(*tasks, Task{path: path})
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		logrus.WithError(err).Warnf("Walk aborted: %s", root)
	}
}

// pruneLayers drops ignore layers that do not contain dir anymore. Layers
// are pushed in descent order, so the first non-ancestor ends the stack.
func pruneLayers(layers []ignoreLayer, dir string) []ignoreLayer {
	for i, l := range layers {
		if !isAncestor(l.base, dir) {
			return layers[:i]
		}
	}
	return layers
}

func isAncestor(base, dir string) bool {
	rel, err := filepath.Rel(base, dir)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator))
}

// ignoredBy tests path against the layered ignore files, nearest first.
func ignoredBy(layers []ignoreLayer, path string) bool {
	for i := len(layers) - 1; i >= 0; i-- {
		rel, err := filepath.Rel(layers[i].base, path)
		if err != nil {
			continue
		}
		if layers[i].matcher.MatchesPath(rel) {
			return true
		}
	}
	return false
}

// expandArchive feeds archive entries into the worklist.
func expandArchive(ctx context.Context, path string, opts ScanOptions, tasks *[]Task) {
	fsys, err := archives.FileSystem(ctx, path, nil)
	if err != nil {
		logrus.WithError(err).WithField("archive", path).Error("open archive")
		return
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer closer.Close()
	}

	count := 0
	_ = iofs.WalkDir(fsys, ".", func(inner string, d iofs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil || d.IsDir() {
			return nil
		}
		if count >= maxArchiveFiles {
			logrus.Warnf("Archive %s skipped: too many files (>= %d)", path, maxArchiveFiles)
			return errArchiveLimit
		}
		if !opts.allowedExt(strings.ToLower(filepath.Ext(inner))) {
			return nil
		}
		*tasks = append(*tasks, Task{path: path, innerPath: inner, isArchive: true})
		count++
		return nil
	})
}

func depthCount(rel string) int {
	if rel == "" {
		return 0
	}
	return strings.Count(rel, string(os.PathSeparator)) + 1
}
