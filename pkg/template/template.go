package template

import (
	"fmt"
	"os"
	"strings"
)

// Template is a parsed template ready for repeated rendering. The source
// is split into literal and code parts at construction time, and every
// code segment is compiled up front so malformed templates fail at Parse
// rather than mid-render.
type Template struct {
	name     string
	parts    []string
	segments [][]stmt
}

// Parse compiles template source. name identifies the template in error
// messages, typically the file path it was loaded from.
func Parse(name, source string) (*Template, error) {
	parts, err := splitSegments(source)
	if err != nil {
		return nil, scanError(name, err.Error())
	}

	t := &Template{
		name:     name,
		parts:    parts,
		segments: make([][]stmt, len(parts)),
	}
	for i := 1; i < len(parts); i += 2 {
		stmts, err := parseSegment(parts[i])
		if err != nil {
			return nil, segmentError(name, parts[i], err)
		}
		t.segments[i] = stmts
	}
	return t, nil
}

// Name returns the template's identifier.
func (t *Template) Name() string {
	return t.name
}

// Render executes the template against vars and returns the rendered
// text. Literal parts pass through verbatim; each code segment's emitted
// values replace the segment in place. Any evaluation failure is
// reported as a *FormatError.
func (t *Template) Render(vars map[string]any) (string, error) {
	if vars == nil {
		vars = map[string]any{}
	}

	var b strings.Builder
	for i, part := range t.parts {
		if i%2 == 0 {
			b.WriteString(part)
			continue
		}
		var seg strings.Builder
		ev := newEvaluator(vars, &seg)
		if err := ev.execStmts(t.segments[i]); err != nil {
			return "", segmentError(t.name, part, err)
		}
		b.WriteString(seg.String())
	}
	return b.String(), nil
}

// Render parses and renders source in one step.
func Render(name, source string, vars map[string]any) (string, error) {
	t, err := Parse(name, source)
	if err != nil {
		return "", err
	}
	return t.Render(vars)
}

// RenderFile loads a template from path and renders it against vars.
// Read failures are returned as-is so callers can distinguish a missing
// template from a malformed one.
func RenderFile(path string, vars map[string]any) (string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read template: %w", err)
	}
	return Render(path, string(source), vars)
}
