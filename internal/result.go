package internal

import "sync"

// Match is one recorded instance of a line satisfying a pattern. Line holds
// the line text stripped of its terminator only; display trimming is the
// reporter's job.
type Match struct {
	Path       string
	InnerPath  string
	LineNumber int
	Pattern    string
	Line       string
}

// Key returns the file identity of the match.
func (m Match) Key() string {
	if m.InnerPath != "" {
		return m.Path + "::" + m.InnerPath
	}
	return m.Path
}

// ResultSet accumulates matches from concurrent workers. Append-only under
// a mutex; each file's matches arrive as one contiguous batch, so records
// from the same file keep their line order even though cross-file order
// follows completion order.
type ResultSet struct {
	mu      sync.Mutex
	matches []Match
}

func NewResultSet() *ResultSet { return &ResultSet{} }

// AppendBatch merges one file's matches as a contiguous unit.
func (r *ResultSet) AppendBatch(batch []Match) {
	if len(batch) == 0 {
		return
	}
	r.mu.Lock()
	r.matches = append(r.matches, batch...)
	r.mu.Unlock()
}

func (r *ResultSet) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.matches)
}

// Matches hands off the collected records. Call only after all workers have
// finished; the engine's barrier guarantees that for its callers.
func (r *ResultSet) Matches() []Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.matches
}

// FilesWithMatches counts distinct files contributing at least one match.
func (r *ResultSet) FilesWithMatches() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]struct{}, len(r.matches))
	for _, m := range r.matches {
		seen[m.Key()] = struct{}{}
	}
	return len(seen)
}
