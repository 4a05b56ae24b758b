package internal

import "strings"

// MatchLines splits decoded text into logical lines and tests each one
// against the matchers in caller order, stopping at the first hit per line.
// Line numbers are 1-based. Both LF and CRLF terminate a line, and a final
// terminator does not produce an extra empty line.
func MatchLines(t Task, text string, matchers []*Matcher) []Match {
	var out []Match
	lineNum := 0
	for start := 0; start < len(text); {
		var line string
		if idx := strings.IndexByte(text[start:], '\n'); idx >= 0 {
			line = text[start : start+idx]
			start += idx + 1
		} else {
			line = text[start:]
			start = len(text)
		}
		line = strings.TrimSuffix(line, "\r")
		lineNum++

		for _, m := range matchers {
			if m.MatchString(line) {
				out = append(out, Match{
					Path:       t.path,
					InnerPath:  t.innerPath,
					LineNumber: lineNum,
					Pattern:    m.Text(),
					Line:       line,
				})
				break
			}
		}
	}
	return out
}
