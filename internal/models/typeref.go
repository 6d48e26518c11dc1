package models

import "strings"

// TypeRefKind represents the shape of a type reference
type TypeRefKind int

const (
	DeclaredRef TypeRefKind = iota
	PrimitiveRef
	TypeVariableRef
	WildcardRef
	ArrayRef
)

// String returns the string representation of the reference kind
func (k TypeRefKind) String() string {
	switch k {
	case DeclaredRef:
		return "declared"
	case PrimitiveRef:
		return "primitive"
	case TypeVariableRef:
		return "type variable"
	case WildcardRef:
		return "wildcard"
	case ArrayRef:
		return "array"
	default:
		return "unknown"
	}
}

// WildcardBound represents the bound direction of a wildcard type argument
type WildcardBound int

const (
	UnboundedWildcard WildcardBound = iota
	ExtendsWildcard
	SuperWildcard
)

// ImplicitPackage is visible in every compilation unit without an import
const ImplicitPackage = "java.lang"

// DescriptorTypeName is the declared type whose instantiation describes a concrete type
const DescriptorTypeName = ImplicitPackage + ".Class"

// implicitTypeNames lists the simple names of ImplicitPackage that declarations
// may use without qualification
var implicitTypeNames = map[string]bool{
	"AutoCloseable":                 true,
	"Boolean":                       true,
	"Byte":                          true,
	"CharSequence":                  true,
	"Character":                     true,
	"Class":                         true,
	"ClassCastException":            true,
	"CloneNotSupportedException":    true,
	"Cloneable":                     true,
	"Comparable":                    true,
	"Double":                        true,
	"Enum":                          true,
	"Error":                         true,
	"Exception":                     true,
	"Float":                         true,
	"IllegalAccessException":        true,
	"IllegalArgumentException":      true,
	"IllegalStateException":         true,
	"IndexOutOfBoundsException":     true,
	"InstantiationException":        true,
	"Integer":                       true,
	"InterruptedException":          true,
	"Iterable":                      true,
	"Long":                          true,
	"NullPointerException":          true,
	"Number":                        true,
	"Object":                        true,
	"ReflectiveOperationException":  true,
	"Runnable":                      true,
	"RuntimeException":              true,
	"Short":                         true,
	"String":                        true,
	"StringBuilder":                 true,
	"Thread":                        true,
	"Throwable":                     true,
	"UnsupportedOperationException": true,
	"Void":                          true,
}

// ImplicitTypeName returns the qualified name of a simple name that resolves
// to ImplicitPackage without an import
func ImplicitTypeName(simpleName string) (string, bool) {
	if !implicitTypeNames[simpleName] {
		return "", false
	}
	return ImplicitPackage + "." + simpleName, true
}

// primitiveNames lists the host type system's primitive types
var primitiveNames = map[string]bool{
	"boolean": true,
	"byte":    true,
	"char":    true,
	"short":   true,
	"int":     true,
	"long":    true,
	"float":   true,
	"double":  true,
	"void":    true,
}

// IsPrimitiveName reports whether name denotes a primitive type
func IsPrimitiveName(name string) bool {
	return primitiveNames[name]
}

// TypeRef is a reference to a type as it appears in a declaration.
//
// Declared references carry a qualified name (or a bare simple name when the
// front-end could not qualify it) and ordered type arguments. Wildcards carry
// their bound in Bound/BoundType and arrays their element in Elem.
type TypeRef struct {
	Kind      TypeRefKind   // shape of the reference
	Name      string        // qualified name, primitive keyword or type variable name
	Args      []TypeRef     // type arguments of a declared reference
	Bound     WildcardBound // wildcard bound direction
	BoundType *TypeRef      // wildcard bound type
	Elem      *TypeRef      // array element type
}

// Declared creates a declared type reference
func Declared(name string, args ...TypeRef) TypeRef {
	return TypeRef{Kind: DeclaredRef, Name: name, Args: args}
}

// Primitive creates a primitive type reference
func Primitive(name string) TypeRef {
	return TypeRef{Kind: PrimitiveRef, Name: name}
}

// TypeVariable creates a type variable reference
func TypeVariable(name string) TypeRef {
	return TypeRef{Kind: TypeVariableRef, Name: name}
}

// Wildcard creates a wildcard type argument; bound is ignored for unbounded wildcards
func Wildcard(direction WildcardBound, bound *TypeRef) TypeRef {
	if direction == UnboundedWildcard {
		return TypeRef{Kind: WildcardRef}
	}
	return TypeRef{Kind: WildcardRef, Bound: direction, BoundType: bound}
}

// ArrayOf creates an array type reference
func ArrayOf(elem TypeRef) TypeRef {
	return TypeRef{Kind: ArrayRef, Elem: &elem}
}

// DescriptorOf returns the type-descriptor type of t
func DescriptorOf(t TypeRef) TypeRef {
	return Declared(DescriptorTypeName, t)
}

// Equal is the exact type equality predicate: two references are equal only
// if they are structurally identical. No assignability or erasure is applied.
func (t TypeRef) Equal(other TypeRef) bool {
	if t.Kind != other.Kind || t.Name != other.Name || len(t.Args) != len(other.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equal(other.Args[i]) {
			return false
		}
	}
	switch t.Kind {
	case WildcardRef:
		if t.Bound != other.Bound {
			return false
		}
		return equalPtr(t.BoundType, other.BoundType)
	case ArrayRef:
		return equalPtr(t.Elem, other.Elem)
	}
	return true
}

func equalPtr(a, b *TypeRef) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// IsDeclared reports whether the reference names a declared (class or interface) type
func (t TypeRef) IsDeclared() bool {
	return t.Kind == DeclaredRef
}

// IsPrimitive reports whether the reference is a primitive type
func (t TypeRef) IsPrimitive() bool {
	return t.Kind == PrimitiveRef
}

// SimpleName returns the last segment of a declared reference's name
func (t TypeRef) SimpleName() string {
	if i := strings.LastIndex(t.Name, "."); i >= 0 {
		return t.Name[i+1:]
	}
	return t.Name
}

// Erasure returns the reference without type arguments
func (t TypeRef) Erasure() TypeRef {
	if t.Kind != DeclaredRef {
		return t
	}
	return TypeRef{Kind: DeclaredRef, Name: t.Name}
}

// String renders the reference using fully qualified names
func (t TypeRef) String() string {
	return t.Format(func(name string) string { return name })
}

// Format renders the reference, passing every declared name through qualify
func (t TypeRef) Format(qualify func(string) string) string {
	var b strings.Builder
	t.format(&b, qualify)
	return b.String()
}

func (t TypeRef) format(b *strings.Builder, qualify func(string) string) {
	switch t.Kind {
	case DeclaredRef:
		b.WriteString(qualify(t.Name))
		if len(t.Args) > 0 {
			b.WriteString("<")
			for i, arg := range t.Args {
				if i > 0 {
					b.WriteString(", ")
				}
				arg.format(b, qualify)
			}
			b.WriteString(">")
		}
	case WildcardRef:
		b.WriteString("?")
		if t.BoundType != nil {
			switch t.Bound {
			case ExtendsWildcard:
				b.WriteString(" extends ")
			case SuperWildcard:
				b.WriteString(" super ")
			}
			t.BoundType.format(b, qualify)
		}
	case ArrayRef:
		if t.Elem != nil {
			t.Elem.format(b, qualify)
		}
		b.WriteString("[]")
	default:
		b.WriteString(t.Name)
	}
}

// Walk calls fn for t and every reference nested inside it
func (t TypeRef) Walk(fn func(TypeRef)) {
	fn(t)
	for _, arg := range t.Args {
		arg.Walk(fn)
	}
	if t.BoundType != nil {
		t.BoundType.Walk(fn)
	}
	if t.Elem != nil {
		t.Elem.Walk(fn)
	}
}

// EqualTypes reports whether two type lists have equal length and pairwise
// equal elements under the given predicate
func EqualTypes(left, right []TypeRef, same func(a, b TypeRef) bool) bool {
	if len(left) != len(right) {
		return false
	}
	for i := range left {
		if !same(left[i], right[i]) {
			return false
		}
	}
	return true
}
