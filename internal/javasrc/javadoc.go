package javasrc

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"tagcheck/internal/facts"
	"tagcheck/internal/source"
)

// tags returns the restriction tags of the Javadoc comment attached to decl.
func (x *extractor) tags(decl *sitter.Node) []facts.TagUse {
	doc := docComment(decl, x.content)
	if doc == nil {
		return nil
	}
	return scanTags(x.content[doc.StartByte():doc.EndByte()], doc.StartByte(), x.file)
}

// docComment finds the nearest "/**" comment before decl. Only comments and
// separating commas may sit between the two.
func docComment(decl *sitter.Node, content []byte) *sitter.Node {
	for prev := decl.PrevSibling(); prev != nil; prev = prev.PrevSibling() {
		switch prev.Type() {
		case "block_comment", "comment":
			if strings.HasPrefix(prev.Content(content), "/**") {
				return prev
			}
		case "line_comment", ",":
		default:
			return nil
		}
	}
	return nil
}

// scanTags finds block tags of the vocabulary in a Javadoc comment. A block
// tag starts a line once leading whitespace and '*' are stripped; inline
// tags such as {@link} never match. base is the comment's file offset.
func scanTags(doc []byte, base uint32, file source.FileID) []facts.TagUse {
	var out []facts.TagUse
	lineStart := 0
	for lineStart <= len(doc) {
		end := lineStart
		for end < len(doc) && doc[end] != '\n' {
			end++
		}
		i := lineStart
		if lineStart == 0 {
			i = len("/**")
		}
		for i < end && (doc[i] == ' ' || doc[i] == '\t' || doc[i] == '\r') {
			i++
		}
		for i < end && doc[i] == '*' {
			i++
		}
		for i < end && (doc[i] == ' ' || doc[i] == '\t') {
			i++
		}
		if i < end && doc[i] == '@' {
			j := i + 1
			for j < end && isTagChar(doc[j]) {
				j++
			}
			if tag, ok := facts.ParseTag(string(doc[i:j])); ok {
				out = append(out, facts.TagUse{
					Tag: tag,
					Pos: source.Span{File: file, Start: base + uint32(i), End: base + uint32(j)},
				})
			}
		}
		lineStart = end + 1
	}
	return out
}

func isTagChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '.' || c == '-'
}
