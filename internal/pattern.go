package internal

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Matcher is one compiled pattern. Immutable after compilation and shared
// read-only across all workers.
type Matcher struct {
	text string
	re   *regexp.Regexp
}

// Text returns the pattern text as the user supplied it.
func (m *Matcher) Text() string { return m.text }

func (m *Matcher) MatchString(s string) bool { return m.re.MatchString(s) }

// Highlight rewrites every occurrence of the pattern in s through wrap.
func (m *Matcher) Highlight(s string, wrap func(string) string) string {
	return m.re.ReplaceAllStringFunc(s, wrap)
}

type patternKey struct {
	text        string
	insensitive bool
}

// Compiler compiles patterns and memoizes them by (text, case flag), so a
// pattern file repeating entries never compiles the same regex twice.
type Compiler struct {
	mu    sync.Mutex
	cache map[patternKey]*Matcher
}

func NewCompiler() *Compiler {
	return &Compiler{cache: make(map[patternKey]*Matcher)}
}

// Compile returns the shared Matcher for (text, insensitive), compiling it
// on first use.
func (c *Compiler) Compile(text string, insensitive bool) (*Matcher, error) {
	key := patternKey{text: text, insensitive: insensitive}

	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.cache[key]; ok {
		return m, nil
	}

	expr := text
	if insensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", text, err)
	}
	m := &Matcher{text: text, re: re}
	c.cache[key] = m
	return m, nil
}

// CompileAll compiles patterns in input order. Any invalid pattern fails the
// whole batch.
func (c *Compiler) CompileAll(texts []string, insensitive bool) ([]*Matcher, error) {
	ms := make([]*Matcher, 0, len(texts))
	for _, t := range texts {
		m, err := c.Compile(t, insensitive)
		if err != nil {
			return nil, err
		}
		ms = append(ms, m)
	}
	logrus.Debugf("Compiled %d patterns", len(ms))
	return ms, nil
}

// LoadPatternFile reads one pattern per non-empty line.
func LoadPatternFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pattern file: %w", err)
	}
	defer f.Close()

	var texts []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		texts = append(texts, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read pattern file: %w", err)
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("pattern file %s contains no patterns", path)
	}
	return texts, nil
}
