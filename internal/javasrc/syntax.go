package javasrc

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"tagcheck/internal/diag"
	"tagcheck/internal/source"
)

// syntaxDiagnostic reports the first ERROR or MISSING node of a tree.
func syntaxDiagnostic(root *sitter.Node, file source.FileID, content []byte) diag.Diagnostic {
	msg := "Java syntax error"
	span := source.Span{File: file}
	if bad := firstError(root); bad != nil {
		span = source.Span{File: file, Start: bad.StartByte(), End: bad.EndByte()}
		switch {
		case bad.IsMissing():
			msg = fmt.Sprintf("syntax error: missing %s", bad.Type())
		case bad.EndByte() > bad.StartByte():
			msg = fmt.Sprintf("syntax error: unexpected %q", snippet(bad.Content(content)))
		}
	}
	return diag.ReportWarning(nil, diag.Syntax, span, msg).Diagnostic()
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !(child.HasError() || child.IsMissing()) {
			continue
		}
		if bad := firstError(child); bad != nil {
			return bad
		}
	}
	return nil
}

func snippet(s string) string {
	const max = 24
	for i, r := range s {
		if r == '\n' || i >= max {
			return s[:i] + "..."
		}
	}
	return s
}
