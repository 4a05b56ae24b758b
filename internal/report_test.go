package internal

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestFileReporter_Format(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "output.txt")

	rs := NewResultSet()
	rs.AppendBatch([]Match{
		{Path: "/in/input.txt", LineNumber: 1, Pattern: "pattern", Line: "Line 1 with pattern"},
		{Path: "/in/input.txt", LineNumber: 3, Pattern: "pattern", Line: "  Another line with pattern\t"},
	})

	r := &FileReporter{Path: out}
	if err := r.Report(rs, nil); err != nil {
		t.Fatalf("report: %v", err)
	}

	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	expected := "/in/input.txt:1:pattern:Line 1 with pattern\n" +
		"/in/input.txt:3:pattern:Another line with pattern\n"
	if string(content) != expected {
		t.Fatalf("unexpected output:\n%s", content)
	}
}

func TestConsoleReporter_PlainOutput(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	ms, err := NewCompiler().CompileAll([]string{"find"}, false)
	if err != nil {
		t.Fatal(err)
	}
	rs := NewResultSet()
	rs.AppendBatch([]Match{
		{Path: "/f.txt", LineNumber: 2, Pattern: "find", Line: " find me here "},
	})

	var buf bytes.Buffer
	r := &ConsoleReporter{Out: &buf}
	if err := r.Report(rs, ms); err != nil {
		t.Fatalf("report: %v", err)
	}
	if buf.String() != "/f.txt:2:find me here\n" {
		t.Fatalf("unexpected console output: %q", buf.String())
	}
}

func TestWriteStats(t *testing.T) {
	rs := NewResultSet()
	rs.AppendBatch([]Match{
		{Path: "/a.txt", LineNumber: 1, Pattern: "p", Line: "x"},
		{Path: "/a.txt", LineNumber: 2, Pattern: "p", Line: "x"},
		{Path: "/b.txt", LineNumber: 5, Pattern: "p", Line: "x"},
	})
	var stats AppStats
	stats.Start()
	stats.FilesScanned.Store(4)

	var buf bytes.Buffer
	WriteStats(&buf, &stats, rs)

	out := buf.String()
	if !strings.Contains(out, "Total matches found: 3") {
		t.Errorf("missing total matches: %s", out)
	}
	if !strings.Contains(out, "Files with matches: 2") {
		t.Errorf("missing files with matches: %s", out)
	}
	if !strings.Contains(out, "Time elapsed:") {
		t.Errorf("missing elapsed: %s", out)
	}
}
