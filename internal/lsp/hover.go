package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"tagcheck/internal/facts"
	"tagcheck/internal/javasrc"
	"tagcheck/internal/rules"
	"tagcheck/internal/source"
)

func (s *Server) handleHover(msg *rpcMessage) error {
	var params hoverParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	uri := canonicalURI(params.TextDocument.URI)
	s.mu.Lock()
	doc, ok := s.docs[uri]
	ctx := s.baseCtx
	s.mu.Unlock()
	if !ok {
		return s.sendResponse(msg.ID, nil)
	}
	h, err := buildHover(ctx, uriToPath(uri), doc.text, params.Position)
	if err != nil {
		s.logger.Warn("hover failed", "uri", uri, "err", err)
		return s.sendResponse(msg.ID, nil)
	}
	if h == nil {
		return s.sendResponse(msg.ID, nil)
	}
	return s.sendResponse(msg.ID, h)
}

// buildHover explains the restriction tag under pos, if any: which element
// carries it and whether the tag is supported there.
func buildHover(ctx context.Context, path, text string, pos position) (*hover, error) {
	opts, _, err := documentOptions(path)
	if err != nil {
		return nil, err
	}
	fs := source.NewFileSet()
	id := fs.AddOverlay(path, []byte(text))
	file := fs.Get(id)
	unit, _, err := javasrc.Extract(ctx, fs, id)
	if err != nil {
		return nil, err
	}
	off := offsetForPositionInFile(file, pos)

	for _, f := range unit.Facts {
		for i, use := range f.Tags {
			if off < use.Pos.Start || off >= use.Pos.End {
				continue
			}
			rng := rangeForSpan(file, use.Pos)
			return &hover{
				Contents: markupContent{Kind: "markdown", Value: describeTag(f, i, opts.Rules, opts.Catalog.Phrase)},
				Range:    &rng,
			}, nil
		}
	}
	return nil, nil
}

type phraser func(reason rules.Reason, kind, declaring facts.ElementKind) string

func describeTag(f *facts.ElementFact, idx int, opts rules.Options, phrase phraser) string {
	use := f.Tags[idx]
	var b strings.Builder
	fmt.Fprintf(&b, "**%s** on %s `%s`\n\n", use.Tag, f.Kind, f.QualifiedName())

	for _, prev := range f.Tags[:idx] {
		if prev.Tag == use.Tag {
			fmt.Fprintf(&b, "Duplicate: %s is already defined on this element.", use.Tag)
			return b.String()
		}
	}

	ctx := rules.NewResolver(opts).Resolve(f)
	reason, invalid := rules.Lookup(use.Tag, ctx).Reason()
	if !invalid {
		fmt.Fprintf(&b, "Supported: %s", tagMeaning(use.Tag))
		return b.String()
	}
	fmt.Fprintf(&b, "Not supported on %s.", phrase(reason, f.Kind, ctx.DeclaringTypeKind))
	return b.String()
}

func tagMeaning(tag facts.Tag) string {
	switch tag {
	case facts.NoExtend:
		return "clients may not subclass this type."
	case facts.NoImplement:
		return "clients may not implement this interface."
	case facts.NoInstantiate:
		return "clients may not instantiate this class."
	case facts.NoOverride:
		return "clients may not override this method."
	case facts.NoReference:
		return "clients may not reference this element."
	}
	return tag.String()
}
