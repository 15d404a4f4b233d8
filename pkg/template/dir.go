package template

import "path/filepath"

// Dir renders named templates from a directory on disk. Templates are
// read per render so edits show up without a restart; callers that need
// caching can Parse once and hold the *Template.
type Dir struct {
	root string
}

// NewDir creates a renderer rooted at the given directory.
func NewDir(root string) Dir {
	return Dir{root: root}
}

// Render loads <root>/<name>.html and renders it against vars.
func (d Dir) Render(name string, vars map[string]any) (string, error) {
	return RenderFile(filepath.Join(d.root, name+".html"), vars)
}
