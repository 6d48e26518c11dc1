package models

import (
	"fmt"
	"strings"
)

// TypeKind represents whether a declaration is a class or an interface
type TypeKind int

const (
	ClassKind TypeKind = iota
	InterfaceKind
)

// String returns the keyword used for the kind in source
func (k TypeKind) String() string {
	if k == InterfaceKind {
		return "interface"
	}
	return "class"
}

// Modifier is a set of declaration modifiers
type Modifier uint16

const (
	Public Modifier = 1 << iota
	Protected
	Private
	Abstract
	Static
	Final
	Default
)

// VisibilityMask selects the access modifiers of a set
const VisibilityMask = Public | Protected | Private

var modifierOrder = []struct {
	mod  Modifier
	word string
}{
	{Public, "public"},
	{Protected, "protected"},
	{Private, "private"},
	{Abstract, "abstract"},
	{Default, "default"},
	{Static, "static"},
	{Final, "final"},
}

// ParseModifier converts a source keyword into a Modifier
func ParseModifier(word string) (Modifier, error) {
	for _, m := range modifierOrder {
		if m.word == word {
			return m.mod, nil
		}
	}
	return 0, fmt.Errorf("unknown modifier: %s", word)
}

// Has reports whether every modifier in m is present
func (s Modifier) Has(m Modifier) bool {
	return s&m == m
}

// Visibility returns only the access modifiers of the set
func (s Modifier) Visibility() Modifier {
	return s & VisibilityMask
}

// Keywords returns the modifiers in canonical source order
func (s Modifier) Keywords() []string {
	var words []string
	for _, m := range modifierOrder {
		if s.Has(m.mod) {
			words = append(words, m.word)
		}
	}
	return words
}

// String renders the modifiers separated by spaces
func (s Modifier) String() string {
	return strings.Join(s.Keywords(), " ")
}

// SourceLocation anchors a declaration or diagnostic in an input file
type SourceLocation struct {
	File   string `json:"file,omitempty"`   // input file path
	Line   int    `json:"line,omitempty"`   // line number (1-based)
	Column int    `json:"column,omitempty"` // column number (1-based)
}

// String returns a formatted string representation of the location
func (s SourceLocation) String() string {
	if s.File == "" {
		return ""
	}
	if s.Line == 0 {
		return s.File
	}
	if s.Column == 0 {
		return fmt.Sprintf("%s:%d", s.File, s.Line)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// Parameter represents a named method or constructor parameter
type Parameter struct {
	Name string  // parameter name, forwarded positionally by synthesized bodies
	Type TypeRef // declared parameter type
}

// ParameterTypes returns the ordered types of a parameter list
func ParameterTypes(params []Parameter) []TypeRef {
	types := make([]TypeRef, len(params))
	for i, p := range params {
		types[i] = p.Type
	}
	return types
}

// MethodSignature represents a method declared by a type
type MethodSignature struct {
	Name       string         // method name
	TypeParams []string       // method-level type parameters
	Params     []Parameter    // ordered parameters
	Return     TypeRef        // declared return type
	Throws     []TypeRef      // ordered thrown exception types
	Modifiers  Modifier       // abstract/default/static/visibility
	Owner      string         // qualified name of the declaring type
	Location   SourceLocation // where the method was declared
}

// IsAbstract reports whether the method has no implementation
func (m MethodSignature) IsAbstract() bool {
	return m.Modifiers.Has(Abstract)
}

// SameSignature reports whether two methods share a name and exactly equal
// ordered parameter types
func (m MethodSignature) SameSignature(other MethodSignature, same func(a, b TypeRef) bool) bool {
	return m.Name == other.Name && EqualTypes(ParameterTypes(m.Params), ParameterTypes(other.Params), same)
}

// String renders the method as name(paramTypes)
func (m MethodSignature) String() string {
	types := make([]string, len(m.Params))
	for i, p := range m.Params {
		types[i] = p.Type.String()
	}
	return fmt.Sprintf("%s(%s)", m.Name, strings.Join(types, ", "))
}

// ConstructorSignature represents a constructor declared by a type
type ConstructorSignature struct {
	Params    []Parameter    // ordered parameters
	Throws    []TypeRef      // ordered thrown exception types
	Modifiers Modifier       // visibility
	Location  SourceLocation // where the constructor was declared
}

// TypeParameter represents a declared type parameter with its reification markers
type TypeParameter struct {
	Name     string         // type parameter name
	Bindings []TypeRef      // one entry per @Reify marker, in source order
	Location SourceLocation // where the parameter was declared
}

// Placement describes where a declaration sits relative to its enclosing type
type Placement int

const (
	TopLevel Placement = iota
	StaticNested
	InnerNested
)

// TypeDeclaration represents a class or interface in the type graph
type TypeDeclaration struct {
	Package      string                 // namespace, empty for the unnamed package
	Name         string                 // simple name
	Kind         TypeKind               // class or interface
	TypeParams   []TypeParameter        // ordered type parameters
	Superclass   *TypeRef               // superclass reference, nil when absent
	Interfaces   []TypeRef              // ordered implemented/extended interfaces
	Methods      []MethodSignature      // methods in declaration order
	Constructors []ConstructorSignature // constructors in declaration order
	Modifiers    Modifier               // final/abstract/static/visibility
	Enclosing    string                 // qualified name of the enclosing type, empty for top level
	Location     SourceLocation         // where the type was declared
}

// QualifiedName returns the package-qualified name of the type
func (d *TypeDeclaration) QualifiedName() string {
	if d.Enclosing != "" {
		return d.Enclosing + "." + d.Name
	}
	if d.Package == "" {
		return d.Name
	}
	return d.Package + "." + d.Name
}

// Placement classifies the declaration as top level, static nested or inner
func (d *TypeDeclaration) Placement() Placement {
	if d.Enclosing == "" {
		return TopLevel
	}
	if d.Modifiers.Has(Static) || d.Kind == InterfaceKind {
		return StaticNested
	}
	return InnerNested
}

// Ref returns a reference to the declaration applied to the given arguments
func (d *TypeDeclaration) Ref(args ...TypeRef) TypeRef {
	return Declared(d.QualifiedName(), args...)
}

// BoundParameters returns the type parameters that carry at least one marker
func (d *TypeDeclaration) BoundParameters() []TypeParameter {
	var bound []TypeParameter
	for _, tp := range d.TypeParams {
		if len(tp.Bindings) > 0 {
			bound = append(bound, tp)
		}
	}
	return bound
}
