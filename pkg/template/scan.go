package template

import "strings"

const (
	openDelim  = "{%"
	closeDelim = "%}"
)

// splitSegments splits template source into alternating literal and code
// parts: even indices are literals (emitted verbatim), odd indices are
// trimmed code segments. The slice always has odd length, ending in a
// literal (possibly empty). The scan is a single left-to-right pass,
// linear in the input length. There is no escape syntax: every occurrence
// of the delimiters is structural.
func splitSegments(source string) ([]string, error) {
	parts := make([]string, 0, 4)
	rest := source

	for {
		open := strings.Index(rest, openDelim)
		if open < 0 {
			parts = append(parts, rest)
			return parts, nil
		}

		length := strings.Index(rest[open+len(openDelim):], closeDelim)
		if length < 0 {
			return nil, errUnmatchedDelimiter
		}

		parts = append(parts, rest[:open])
		parts = append(parts, strings.TrimSpace(rest[open+len(openDelim):open+len(openDelim)+length]))
		rest = rest[open+len(openDelim)+length+len(closeDelim):]
	}
}
