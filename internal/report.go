package internal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// Reporter consumes the complete ResultSet once the scan barrier has passed.
type Reporter interface {
	Report(rs *ResultSet, matchers []*Matcher) error
}

// ConsoleReporter prints matches as path:line:text with the matched
// substrings highlighted. fatih/color disables itself when stdout is not a
// terminal, so piped output stays plain.
type ConsoleReporter struct {
	Out io.Writer
}

func NewConsoleReporter() *ConsoleReporter { return &ConsoleReporter{Out: os.Stdout} }

func (r *ConsoleReporter) Report(rs *ResultSet, matchers []*Matcher) error {
	byText := matcherIndex(matchers)
	pathCol := color.New(color.FgGreen).SprintFunc()
	lineCol := color.New(color.FgYellow).SprintFunc()
	hit := color.New(color.FgRed, color.Bold).SprintFunc()

	w := bufio.NewWriter(r.Out)
	for _, m := range rs.Matches() {
		text := strings.TrimSpace(m.Line)
		if mt := byText[m.Pattern]; mt != nil {
			text = mt.Highlight(text, func(s string) string { return hit(s) })
		}
		fmt.Fprintf(w, "%s:%s:%s\n", pathCol(m.Key()), lineCol(strconv.Itoa(m.LineNumber)), text)
	}
	return w.Flush()
}

// FileReporter persists matches as path:line_number:pattern:text lines.
type FileReporter struct {
	Path string
}

func (r *FileReporter) Report(rs *ResultSet, _ []*Matcher) error {
	f, err := os.Create(r.Path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	w := bufio.NewWriter(f)
	for _, m := range rs.Matches() {
		fmt.Fprintf(w, "%s:%d:%s:%s\n", m.Key(), m.LineNumber, m.Pattern, strings.TrimSpace(m.Line))
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func matcherIndex(ms []*Matcher) map[string]*Matcher {
	idx := make(map[string]*Matcher, len(ms))
	for _, m := range ms {
		if _, ok := idx[m.Text()]; !ok {
			idx[m.Text()] = m
		}
	}
	return idx
}

// WriteStats prints the run summary.
func WriteStats(w io.Writer, stats *AppStats, rs *ResultSet) {
	fmt.Fprintf(w, "\n--- Statistics ---\n")
	fmt.Fprintf(w, "Total matches found: %d\n", rs.Len())
	fmt.Fprintf(w, "Files with matches: %d\n", rs.FilesWithMatches())
	fmt.Fprintf(w, "Files scanned: %d\n", stats.FilesScanned.Load())
	fmt.Fprintf(w, "Errors: %d\n", stats.Errors.Load())
	fmt.Fprintf(w, "Time elapsed: %s\n", stats.Elapsed())
}
