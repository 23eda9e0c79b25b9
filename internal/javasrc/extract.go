package javasrc

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"tagcheck/internal/diag"
	"tagcheck/internal/facts"
	"tagcheck/internal/source"
	"tagcheck/internal/trace"
)

// Extract parses the file id of fs and returns its facts in declaration
// order. Syntax errors do not stop extraction: the facts of the recoverable
// parts are returned together with one Syntax diagnostic. An error is
// returned only for an unknown file or a failed (e.g. cancelled) parse.
func Extract(ctx context.Context, fs *source.FileSet, id source.FileID) (facts.Unit, []diag.Diagnostic, error) {
	file := fs.Get(id)
	if file == nil {
		return facts.Unit{}, nil, fmt.Errorf("javasrc: unknown file id %d", id)
	}
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "extract", 0).WithExtra("file", file.Path)
	defer span.End("")

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(java.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, file.Content)
	if err != nil {
		return facts.Unit{}, nil, fmt.Errorf("parse %s: %w", file.Path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	x := &extractor{content: file.Content, file: id, pkg: packageName(root, file.Content)}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		x.declaration(root.NamedChild(i), nil)
	}

	unit := facts.Unit{Path: file.Path, File: id, Facts: x.facts}
	var diags []diag.Diagnostic
	if root.HasError() {
		diags = append(diags, syntaxDiagnostic(root, id, file.Content))
	}
	return unit, diags, nil
}

// ExtractSource parses in-memory content registered as a virtual file.
func ExtractSource(ctx context.Context, fs *source.FileSet, name string, content []byte) (facts.Unit, []diag.Diagnostic, error) {
	return Extract(ctx, fs, fs.AddVirtual(name, content))
}

type extractor struct {
	content []byte
	file    source.FileID
	pkg     string
	facts   []*facts.ElementFact
}

func (x *extractor) span(n *sitter.Node) source.Span {
	return source.Span{File: x.file, Start: n.StartByte(), End: n.EndByte()}
}

func (x *extractor) text(n *sitter.Node) string {
	return n.Content(x.content)
}

func (x *extractor) add(f *facts.ElementFact) *facts.ElementFact {
	f.Package = x.pkg
	x.facts = append(x.facts, f)
	return f
}

var typeKinds = map[string]facts.ElementKind{
	"class_declaration":           facts.Class,
	"interface_declaration":       facts.Interface,
	"enum_declaration":            facts.Enum,
	"annotation_type_declaration": facts.Annotation,
	"record_declaration":          facts.Record,
}

// declaration handles a type declaration at top level or inside a type body.
func (x *extractor) declaration(n *sitter.Node, owner *facts.ElementFact) {
	kind, ok := typeKinds[n.Type()]
	if !ok {
		return
	}
	name := n.ChildByFieldName("name")
	if name == nil {
		return
	}
	mods := readModifiers(n)

	f := x.add(&facts.ElementFact{
		Kind:              kind,
		Name:              x.text(name),
		OwnVisibility:     mods.visibility(memberDefault(owner)),
		Modifiers:         mods.flags(),
		Enclosing:         owner,
		DeclaringTypeKind: kind,
		Pos:               x.span(name),
		Tags:              x.tags(n),
	})
	if owner != nil && (kind != facts.Class || implicitlyPublic(owner)) {
		f.Modifiers |= facts.Static
	}
	if kind == facts.Record {
		f.Modifiers |= facts.Final
	}

	body := n.ChildByFieldName("body")
	if body == nil {
		return
	}
	constantBodies := x.members(body, f, make(map[string]bool))
	if kind == facts.Enum && !constantBodies {
		f.Modifiers |= facts.Final
	}
}

// members walks a type body. It reports whether an enum constant declares a body.
func (x *extractor) members(body *sitter.Node, owner *facts.ElementFact, constants map[string]bool) bool {
	constantBodies := false
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		switch child.Type() {
		case "class_declaration", "interface_declaration", "enum_declaration",
			"annotation_type_declaration", "record_declaration":
			x.declaration(child, owner)
		case "field_declaration", "constant_declaration":
			x.fields(child, owner, constants)
		case "method_declaration":
			x.method(child, owner)
		case "constructor_declaration", "compact_constructor_declaration":
			x.constructor(child, owner)
		case "annotation_type_element_declaration":
			x.annotationElement(child, owner)
		case "enum_constant":
			if x.enumConstant(child, owner) {
				constantBodies = true
			}
		case "enum_body_declarations":
			if x.members(child, owner, constants) {
				constantBodies = true
			}
		}
	}
	return constantBodies
}

func (x *extractor) member(kind facts.ElementKind, name *sitter.Node, decl *sitter.Node, owner *facts.ElementFact) *facts.ElementFact {
	return x.add(&facts.ElementFact{
		Kind:              kind,
		Name:              x.text(name),
		Enclosing:         owner,
		DeclaringTypeKind: owner.Kind,
		Pos:               x.span(name),
		Tags:              x.tags(decl),
	})
}

func (x *extractor) fields(n *sitter.Node, owner *facts.ElementFact, constants map[string]bool) {
	mods := readModifiers(n)
	kind := facts.Field
	if owner.Kind == facts.Annotation {
		kind = facts.AnnotationField
	}
	typeNode := n.ChildByFieldName("type")
	constType := typeNode != nil && isConstantType(x.text(typeNode))

	for i := 0; i < int(n.NamedChildCount()); i++ {
		decl := n.NamedChild(i)
		if decl.Type() != "variable_declarator" {
			continue
		}
		name := decl.ChildByFieldName("name")
		if name == nil {
			continue
		}
		f := x.member(kind, name, n, owner)
		f.OwnVisibility = mods.visibility(memberDefault(owner))
		f.Modifiers = mods.flags()
		if implicitlyPublic(owner) {
			f.Modifiers |= facts.Static | facts.Final
		}
		if f.Has(facts.Static|facts.Final) && constType && decl.ChildByFieldName("dimensions") == nil {
			if value := decl.ChildByFieldName("value"); value != nil && x.isConstant(value, constants) {
				f.Modifiers |= facts.ConstantField
				constants[f.Name] = true
			}
		}
	}
}

func (x *extractor) method(n *sitter.Node, owner *facts.ElementFact) {
	name := n.ChildByFieldName("name")
	if name == nil {
		return
	}
	mods := readModifiers(n)
	f := x.member(facts.Method, name, n, owner)
	f.OwnVisibility = mods.visibility(memberDefault(owner))
	f.Modifiers = mods.flags()
	if mods.isDefault {
		f.Modifiers |= facts.DefaultMethod
	}
	if owner.Kind == facts.Interface && n.ChildByFieldName("body") == nil &&
		!mods.isDefault && !mods.isStatic && mods.access != accessPrivate {
		f.Modifiers |= facts.Abstract
	}
}

func (x *extractor) constructor(n *sitter.Node, owner *facts.ElementFact) {
	name := n.ChildByFieldName("name")
	if name == nil {
		return
	}
	mods := readModifiers(n)
	def := facts.Package
	if owner.Kind == facts.Enum {
		def = facts.Private
	}
	f := x.member(facts.Constructor, name, n, owner)
	f.OwnVisibility = mods.visibility(def)
	f.Modifiers = mods.flags()
}

func (x *extractor) annotationElement(n *sitter.Node, owner *facts.ElementFact) {
	name := n.ChildByFieldName("name")
	if name == nil {
		return
	}
	f := x.member(facts.AnnotationMethod, name, n, owner)
	f.OwnVisibility = facts.Public
	f.Modifiers = facts.Abstract
}

// enumConstant records an enum constant; the constant's class body is not
// walked. It reports whether the constant has a body.
func (x *extractor) enumConstant(n *sitter.Node, owner *facts.ElementFact) bool {
	name := n.ChildByFieldName("name")
	if name == nil {
		return false
	}
	f := x.member(facts.EnumConstant, name, n, owner)
	f.OwnVisibility = facts.Public
	f.Modifiers = facts.Static | facts.Final
	return n.ChildByFieldName("body") != nil
}

func memberDefault(owner *facts.ElementFact) facts.Visibility {
	if owner != nil && implicitlyPublic(owner) {
		return facts.Public
	}
	return facts.Package
}

// implicitlyPublic reports whether members of owner are public without a modifier.
func implicitlyPublic(owner *facts.ElementFact) bool {
	return owner.Kind == facts.Interface || owner.Kind == facts.Annotation
}

func packageName(root *sitter.Node, content []byte) string {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() != "package_declaration" {
			continue
		}
		for j := 0; j < int(child.NamedChildCount()); j++ {
			n := child.NamedChild(j)
			if n.Type() == "scoped_identifier" || n.Type() == "identifier" {
				return n.Content(content)
			}
		}
	}
	return ""
}
