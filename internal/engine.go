package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mholt/archives"
	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"
)

// FileScanner runs the scan pipeline: enumerate, fan out over a fixed pool,
// aggregate behind a barrier.
type FileScanner struct{}

func NewFileScanner() *FileScanner { return &FileScanner{} }

// Scan enumerates the complete worklist, then processes one task per file
// on a fixed-size pool. Per-file failures are warned and skipped; they never
// cancel other tasks. The returned ResultSet is complete: nothing observes
// it before every worker has finished.
func (fs *FileScanner) Scan(ctx context.Context, opts ScanOptions, matchers []*Matcher, stats *AppStats) (*ResultSet, error) {
	stats.Start()

	tasks := Enumerate(ctx, opts)
	stats.FilesFound.Store(int64(len(tasks)))
	logrus.Debugf("Enumerated %d candidate files", len(tasks))

	results := NewResultSet()
	if len(tasks) == 0 {
		return results, ctx.Err()
	}

	bar := newProgress(len(tasks))
	var wg sync.WaitGroup
	pool, err := ants.NewPoolWithFunc(opts.Threads, func(i interface{}) {
		defer wg.Done()
		t := i.(Task)
		if ctx.Err() != nil {
			return
		}
		scanTask(t, matchers, results, stats)
		_ = bar.Add(1)
	})
	if err != nil {
		return nil, fmt.Errorf("pool: %w", err)
	}
	defer pool.Release()

	for _, t := range tasks {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		if err := pool.Invoke(t); err != nil {
			wg.Done()
			stats.Errors.Add(1)
			logrus.WithError(err).Error("submit task")
		}
	}

	wg.Wait()
	_ = bar.Finish()
	return results, ctx.Err()
}

// scanTask reads, decodes and matches one file, then appends its matches as
// one batch. Nothing here holds the result lock across I/O.
func scanTask(t Task, matchers []*Matcher, results *ResultSet, stats *AppStats) {
	data, err := readTask(t)
	if err != nil {
		stats.Errors.Add(1)
		logrus.WithFields(logrus.Fields{"file": t.Display(), "err": err}).Warn("Skip unreadable file")
		return
	}

	text, enc := Decode(data)
	logrus.WithFields(logrus.Fields{"file": t.Display(), "encoding": enc}).Trace("decoded")

	batch := MatchLines(t, text, matchers)
	stats.FilesScanned.Add(1)
	if len(batch) > 0 {
		stats.Matches.Add(int64(len(batch)))
		results.AppendBatch(batch)
	}
}

// readTask returns the full raw content of a task, opening the enclosing
// archive when needed.
func readTask(t Task) ([]byte, error) {
	if !t.isArchive {
		return os.ReadFile(t.path)
	}
	fsys, err := archives.FileSystem(context.Background(), t.path, nil)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer closer.Close()
	}
	f, err := fsys.Open(t.innerPath)
	if err != nil {
		return nil, fmt.Errorf("open archive entry: %w", err)
	}
	defer f.Close()
	return io.ReadAll(f)
}
