// Package template renders text templates whose code segments are
// delimited by {% and %}. Segments run in a small sandboxed interpreter
// with access only to the bindings passed to Render, a handful of
// builtins (len, upper, lower, printf) and basic control flow, so
// template files can never execute arbitrary code.
//
//	out, err := template.Render("greeting", "Hello {% name %}!", map[string]any{
//		"name": "World",
//	})
//	// out == "Hello World!"
//
// All parse and evaluation failures surface as *FormatError.
package template
