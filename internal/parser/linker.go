package parser

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/bisgardo/reification/internal/errors"
	"github.com/bisgardo/reification/internal/models"
)

// markerNames are the annotation names that bind a type parameter
var markerNames = map[string]bool{
	"Reify":             true,
	"reification.Reify": true,
}

// scope maps simple names visible at a point of a file
type scope struct {
	parent *scope
	vars   map[string]bool   // type variables
	types  map[string]string // simple name -> qualified name
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, vars: make(map[string]bool), types: make(map[string]string)}
}

func (s *scope) isVar(name string) bool {
	for c := s; c != nil; c = c.parent {
		if c.vars[name] {
			return true
		}
		// A nested type name shadows an outer type variable.
		if _, ok := c.types[name]; ok {
			return false
		}
	}
	return false
}

func (s *scope) lookupType(name string) (string, bool) {
	for c := s; c != nil; c = c.parent {
		if q, ok := c.types[name]; ok {
			return q, true
		}
	}
	return "", false
}

// linker qualifies names and converts syntax trees into declarations
type linker struct {
	known    map[string]bool              // qualified names of every declaration
	packages map[string]map[string]string // package -> top-level simple name -> qualified name
	onDemand []string                     // on-demand import prefixes of the file being linked
	file     string                       // file being linked
	errs     *errors.MultipleErrors
}

func newLinker() *linker {
	return &linker{
		known:    make(map[string]bool),
		packages: make(map[string]map[string]string),
		errs:     errors.NewMultipleErrors(),
	}
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

func (l *linker) declare(pkg, name, qualified string, topLevel bool) {
	l.known[qualified] = true
	if !topLevel {
		return
	}
	if l.packages[pkg] == nil {
		l.packages[pkg] = make(map[string]string)
	}
	l.packages[pkg][name] = qualified
}

// index records the names a parsed file declares
func (l *linker) index(file string, node *fileNode) {
	for _, d := range node.Types {
		q := qualify(node.Package, d.Body.Name)
		l.declare(node.Package, d.Body.Name, q, true)
		l.indexNested(node.Package, q, d.Body)
	}
}

func (l *linker) indexNested(pkg, enclosing string, body *bodyNode) {
	for _, m := range body.Members {
		if m.Nested == nil {
			continue
		}
		q := enclosing + "." + m.Nested.Name
		l.declare(pkg, m.Nested.Name, q, false)
		l.indexNested(pkg, q, m.Nested)
	}
}

// indexLinked records declarations that were read already linked
func (l *linker) indexLinked(decls []*models.TypeDeclaration) {
	for _, d := range decls {
		l.declare(d.Package, d.Name, d.QualifiedName(), d.Enclosing == "")
	}
}

func (l *linker) location(pos lexer.Position) models.SourceLocation {
	return models.SourceLocation{File: l.file, Line: pos.Line, Column: pos.Column}
}

func (l *linker) fail(pos lexer.Position, format string, args ...interface{}) {
	l.errs.Add(errors.NewSyntaxError(fmt.Sprintf(format, args...)).WithLocation(l.location(pos)))
}

// link converts one parsed file into declarations
func (l *linker) link(file string, node *fileNode) ([]*models.TypeDeclaration, error) {
	l.file = file
	l.onDemand = nil
	l.errs = errors.NewMultipleErrors()

	fileScope := newScope(nil)
	for name, q := range l.packages[node.Package] {
		fileScope.types[name] = q
	}
	for _, imp := range node.Imports {
		if imp.Static {
			continue
		}
		if strings.HasSuffix(imp.Path, ".*") {
			l.onDemand = append(l.onDemand, strings.TrimSuffix(imp.Path, ".*"))
			continue
		}
		i := strings.LastIndex(imp.Path, ".")
		if i < 0 {
			l.fail(imp.Pos, "import of '%s' from the unnamed package", imp.Path)
			continue
		}
		fileScope.types[imp.Path[i+1:]] = imp.Path
	}

	var decls []*models.TypeDeclaration
	for _, d := range node.Types {
		decls = append(decls, l.linkType(node.Package, "", d.Pos, d.Prefix, d.Body, fileScope)...)
	}

	if err := l.errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return decls, nil
}

// modifiers converts prefix keywords and returns the annotations alongside
func (l *linker) modifiers(prefix []*prefixNode) (models.Modifier, []*annotationNode) {
	var mods models.Modifier
	var annotations []*annotationNode
	for _, p := range prefix {
		if p.Annotation != nil {
			annotations = append(annotations, p.Annotation)
			continue
		}
		if m, err := models.ParseModifier(p.Modifier); err == nil {
			mods |= m
		}
	}
	return mods, annotations
}

// linkType converts a type body and its nested types. The declaration comes
// first, followed by its nested types depth first.
func (l *linker) linkType(pkg, enclosing string, pos lexer.Position, prefix []*prefixNode, body *bodyNode, parent *scope) []*models.TypeDeclaration {
	mods, _ := l.modifiers(prefix)
	decl := &models.TypeDeclaration{
		Package:   pkg,
		Name:      body.Name,
		Kind:      models.ClassKind,
		Modifiers: mods,
		Enclosing: enclosing,
		Location:  l.location(pos),
	}
	if body.Kind == "interface" {
		decl.Kind = models.InterfaceKind
	}
	qualified := decl.QualifiedName()

	s := newScope(parent)
	for _, tp := range body.TypeParams {
		s.vars[tp.Name] = true
	}
	for _, m := range body.Members {
		if m.Nested != nil {
			s.types[m.Nested.Name] = qualified + "." + m.Nested.Name
		}
	}

	for _, tp := range body.TypeParams {
		decl.TypeParams = append(decl.TypeParams, l.typeParam(tp, s))
	}

	l.supertypes(decl, body, s)

	var nested []*models.TypeDeclaration
	for _, m := range body.Members {
		switch {
		case m.Nested != nil:
			member := l.linkType(pkg, qualified, m.Pos, m.Prefix, m.Nested, s)
			// Member types of interfaces are implicitly static.
			if decl.Kind == models.InterfaceKind {
				member[0].Modifiers |= models.Static
			}
			nested = append(nested, member...)
		case m.Constructor != nil:
			l.constructor(decl, m, s)
		case m.Method != nil:
			l.method(decl, m, s)
		}
	}

	if decl.Kind == models.ClassKind && len(decl.Constructors) == 0 {
		decl.Constructors = append(decl.Constructors, models.ConstructorSignature{
			Modifiers: decl.Modifiers.Visibility(),
			Location:  decl.Location,
		})
	}

	return append([]*models.TypeDeclaration{decl}, nested...)
}

func (l *linker) typeParam(tp *typeParamNode, s *scope) models.TypeParameter {
	param := models.TypeParameter{Name: tp.Name, Location: l.location(tp.Pos)}
	for _, a := range tp.Annotations {
		if !markerNames[a.Name] {
			continue
		}
		t, err := l.classLiteral(a, s)
		if err != nil {
			l.errs.Add(err)
			continue
		}
		param.Bindings = append(param.Bindings, t)
	}
	return param
}

// classLiteral reads the argument of a marker: a class literal such as
// "Widget.class", optionally written as "value = Widget.class"
func (l *linker) classLiteral(a *annotationNode, s *scope) (models.TypeRef, *errors.SyntaxError) {
	args := a.Args
	if len(args) >= 2 && args[1] == "=" {
		if args[0] != "value" {
			return models.TypeRef{}, errors.NewSyntaxErrorWithToken("unknown marker element", args[0]).WithLocation(l.location(a.Pos))
		}
		args = args[2:]
	}
	n := len(args)
	if n < 3 || args[n-2] != "." || args[n-1] != "class" {
		return models.TypeRef{}, errors.NewSyntaxError(fmt.Sprintf("'@%s' expects a class literal such as '@%s(Widget.class)'", a.Name, a.Name)).
			WithLocation(l.location(a.Pos))
	}

	node, err := typeParser.ParseString(l.file, strings.Join(args[:n-2], " "))
	if err != nil {
		return models.TypeRef{}, errors.NewSyntaxError(fmt.Sprintf("invalid class literal in '@%s'", a.Name)).WithLocation(l.location(a.Pos))
	}
	t, terr := l.typeRef(node, s)
	if terr != nil {
		return models.TypeRef{}, errors.NewSyntaxError(terr.Error()).WithLocation(l.location(a.Pos))
	}
	return t, nil
}

func (l *linker) supertypes(decl *models.TypeDeclaration, body *bodyNode, s *scope) {
	refs := func(nodes []*typeNode) []models.TypeRef {
		var out []models.TypeRef
		for _, n := range nodes {
			if t, ok := l.mustTypeRef(n, s); ok {
				out = append(out, t)
			}
		}
		return out
	}

	if decl.Kind == models.InterfaceKind {
		if len(body.Implements) > 0 {
			l.fail(body.Pos, "interface '%s' cannot implement other types", body.Name)
		}
		decl.Interfaces = refs(body.Extends)
		return
	}

	supers := refs(body.Extends)
	switch {
	case len(supers) > 1:
		l.fail(body.Pos, "class '%s' cannot extend more than one class", body.Name)
	case len(supers) == 1:
		decl.Superclass = &supers[0]
	}
	decl.Interfaces = refs(body.Implements)
}

func (l *linker) constructor(decl *models.TypeDeclaration, m *memberNode, s *scope) {
	c := m.Constructor
	if c.Name != decl.Name {
		l.fail(c.Pos, "method '%s' has no return type", c.Name)
		return
	}
	if decl.Kind == models.InterfaceKind {
		l.fail(c.Pos, "interface '%s' cannot declare constructors", decl.Name)
		return
	}
	mods, _ := l.modifiers(m.Prefix)
	decl.Constructors = append(decl.Constructors, models.ConstructorSignature{
		Params:    l.params(c.Params, s),
		Throws:    l.types(c.Throws, s),
		Modifiers: mods,
		Location:  l.location(m.Pos),
	})
}

func (l *linker) method(decl *models.TypeDeclaration, m *memberNode, s *scope) {
	n := m.Method
	mods, _ := l.modifiers(m.Prefix)

	ms := newScope(s)
	var typeParams []string
	for _, tp := range n.TypeParams {
		ms.vars[tp.Name] = true
		typeParams = append(typeParams, tp.Name)
	}

	hasBody := n.Body != nil
	switch decl.Kind {
	case models.InterfaceKind:
		// Interface members are implicitly public.
		if !mods.Has(models.Private) {
			mods |= models.Public
		}
		if !hasBody && !mods.Has(models.Default) && !mods.Has(models.Static) && !mods.Has(models.Private) {
			mods |= models.Abstract
		}
		if hasBody && !mods.Has(models.Default) && !mods.Has(models.Static) && !mods.Has(models.Private) {
			l.fail(m.Pos, "interface method '%s' with a body must be default, static or private", n.Name)
		}
	case models.ClassKind:
		if mods.Has(models.Abstract) && hasBody {
			l.fail(m.Pos, "abstract method '%s' cannot have a body", n.Name)
		}
		if !mods.Has(models.Abstract) && !hasBody {
			l.fail(m.Pos, "method '%s' is missing a body, or should be declared abstract", n.Name)
		}
	}

	ret, _ := l.mustTypeRef(n.Return, ms)
	decl.Methods = append(decl.Methods, models.MethodSignature{
		Name:       n.Name,
		TypeParams: typeParams,
		Params:     l.params(n.Params, ms),
		Return:     ret,
		Throws:     l.types(n.Throws, ms),
		Modifiers:  mods,
		Owner:      decl.QualifiedName(),
		Location:   l.location(m.Pos),
	})
}

func (l *linker) params(nodes []*paramNode, s *scope) []models.Parameter {
	var params []models.Parameter
	for _, p := range nodes {
		t, _ := l.mustTypeRef(p.Type, s)
		params = append(params, models.Parameter{Name: p.Name, Type: t})
	}
	return params
}

func (l *linker) types(nodes []*typeNode, s *scope) []models.TypeRef {
	var out []models.TypeRef
	for _, n := range nodes {
		if t, ok := l.mustTypeRef(n, s); ok {
			out = append(out, t)
		}
	}
	return out
}

func (l *linker) mustTypeRef(n *typeNode, s *scope) (models.TypeRef, bool) {
	t, err := l.typeRef(n, s)
	if err != nil {
		l.fail(n.Pos, "%s", err.Error())
		return models.TypeRef{}, false
	}
	return t, true
}

// typeRef converts a type expression, qualifying names through s
func (l *linker) typeRef(n *typeNode, s *scope) (models.TypeRef, error) {
	var t models.TypeRef
	switch {
	case !strings.Contains(n.Name, ".") && len(n.Args) == 0 && s.isVar(n.Name):
		t = models.TypeVariable(n.Name)
	case models.IsPrimitiveName(n.Name):
		if len(n.Args) > 0 {
			return models.TypeRef{}, fmt.Errorf("primitive type '%s' cannot have type arguments", n.Name)
		}
		t = models.Primitive(n.Name)
	default:
		args := make([]models.TypeRef, 0, len(n.Args))
		for _, a := range n.Args {
			arg, err := l.typeArg(a, s)
			if err != nil {
				return models.TypeRef{}, err
			}
			args = append(args, arg)
		}
		t = models.Declared(l.qualifyName(n.Name, s), args...)
	}

	for range n.Dims {
		t = models.ArrayOf(t)
	}
	return t, nil
}

func (l *linker) typeArg(a *typeArgNode, s *scope) (models.TypeRef, error) {
	if a.Type != nil {
		return l.typeRef(a.Type, s)
	}
	w := a.Wildcard
	if w.Bound == nil {
		if w.Direction != "" {
			return models.TypeRef{}, fmt.Errorf("wildcard '? %s' is missing its bound", w.Direction)
		}
		return models.Wildcard(models.UnboundedWildcard, nil), nil
	}
	if w.Direction == "" {
		return models.TypeRef{}, fmt.Errorf("wildcard bound must follow 'extends' or 'super'")
	}
	bound, err := l.typeRef(w.Bound, s)
	if err != nil {
		return models.TypeRef{}, err
	}
	direction := models.ExtendsWildcard
	if w.Direction == "super" {
		direction = models.SuperWildcard
	}
	return models.Wildcard(direction, &bound), nil
}

// qualifyName resolves the first segment of name through the scope, then
// through on-demand imports and the implicit package. Names that resolve
// nowhere are kept as written.
func (l *linker) qualifyName(name string, s *scope) string {
	first, rest := name, ""
	if i := strings.Index(name, "."); i >= 0 {
		first, rest = name[:i], name[i:]
	}
	if q, ok := s.lookupType(first); ok {
		return q + rest
	}
	if rest != "" {
		return name
	}
	for _, prefix := range l.onDemand {
		if q := prefix + "." + name; l.known[q] {
			return q
		}
	}
	if q, ok := models.ImplicitTypeName(name); ok {
		return q
	}
	return name
}
