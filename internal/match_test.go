package internal

import (
	"testing"
)

func compileList(t *testing.T, insensitive bool, texts ...string) []*Matcher {
	t.Helper()
	ms, err := NewCompiler().CompileAll(texts, insensitive)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return ms
}

func TestMatchLines_SingleMatch(t *testing.T) {
	ms := compileList(t, false, "find me")
	got := MatchLines(Task{path: "/f.txt"}, "hello world\nfind me here\nanother line", ms)

	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	if got[0].LineNumber != 2 || got[0].Line != "find me here" {
		t.Fatalf("unexpected match: %+v", got[0])
	}
	if got[0].Pattern != "find me" || got[0].Path != "/f.txt" {
		t.Fatalf("unexpected match metadata: %+v", got[0])
	}
}

func TestMatchLines_MultipleMatches(t *testing.T) {
	ms := compileList(t, false, "match")
	got := MatchLines(Task{path: "/f.txt"}, "match one\nsome line\nmatch two", ms)

	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].LineNumber != 1 || got[1].LineNumber != 3 {
		t.Fatalf("unexpected line numbers: %d, %d", got[0].LineNumber, got[1].LineNumber)
	}
}

func TestMatchLines_PatternFileOrder(t *testing.T) {
	ms := compileList(t, false, "one", "third")
	got := MatchLines(Task{path: "/f.txt"}, "This is line one.\nHere is the second line.\nAnd a third.", ms)

	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].LineNumber != 1 || got[0].Pattern != "one" {
		t.Fatalf("unexpected first match: %+v", got[0])
	}
	if got[1].LineNumber != 3 || got[1].Pattern != "third" {
		t.Fatalf("unexpected second match: %+v", got[1])
	}
}

func TestMatchLines_FirstMatchWins(t *testing.T) {
	// both patterns hit the same line; only the first in input order records
	ms := compileList(t, false, "wor", "hello")
	got := MatchLines(Task{path: "/f.txt"}, "hello world", ms)

	if len(got) != 1 {
		t.Fatalf("expected exactly 1 match per line, got %d", len(got))
	}
	if got[0].Pattern != "wor" {
		t.Fatalf("first pattern in input order must win, got %q", got[0].Pattern)
	}
}

func TestMatchLines_CRLF(t *testing.T) {
	ms := compileList(t, false, "b$")
	got := MatchLines(Task{path: "/f.txt"}, "a\r\nb\r\nc", ms)

	if len(got) != 1 || got[0].LineNumber != 2 || got[0].Line != "b" {
		t.Fatalf("CRLF terminator must be stripped before matching: %+v", got)
	}
}

func TestMatchLines_NoPhantomTrailingLine(t *testing.T) {
	ms := compileList(t, false, "^$")
	got := MatchLines(Task{path: "/f.txt"}, "a\nb\n", ms)
	if len(got) != 0 {
		t.Fatalf("trailing terminator must not create an empty extra line: %+v", got)
	}

	got = MatchLines(Task{path: "/f.txt"}, "a\n\nb\n", ms)
	if len(got) != 1 || got[0].LineNumber != 2 {
		t.Fatalf("interior empty line must still count: %+v", got)
	}
}

func TestMatchLines_EmptyText(t *testing.T) {
	ms := compileList(t, false, ".*")
	if got := MatchLines(Task{path: "/f.txt"}, "", ms); len(got) != 0 {
		t.Fatalf("empty content has no lines: %+v", got)
	}
}

func TestMatchLines_CaseInsensitive(t *testing.T) {
	ms := compileList(t, true, "hello")
	got := MatchLines(Task{path: "/f.txt"}, "Hello hello HeLLo", ms)
	if len(got) != 1 {
		t.Fatalf("one line means at most one match, got %d", len(got))
	}
}
