package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModifier(t *testing.T) {
	mods := Final | Public | Static | Abstract
	assert.Equal(t, []string{"public", "abstract", "static", "final"}, mods.Keywords())
	assert.Equal(t, "public abstract static final", mods.String())
	assert.Equal(t, Public, mods.Visibility())
	assert.True(t, mods.Has(Public|Static))
	assert.False(t, mods.Has(Public|Private))

	m, err := ParseModifier("protected")
	require.NoError(t, err)
	assert.Equal(t, Protected, m)
	_, err = ParseModifier("volatile")
	assert.Error(t, err)
}

func TestSourceLocation_String(t *testing.T) {
	assert.Equal(t, "", SourceLocation{}.String())
	assert.Equal(t, "a.rdecl", SourceLocation{File: "a.rdecl"}.String())
	assert.Equal(t, "a.rdecl:3", SourceLocation{File: "a.rdecl", Line: 3}.String())
	assert.Equal(t, "a.rdecl:3:7", SourceLocation{File: "a.rdecl", Line: 3, Column: 7}.String())
}

func TestTypeDeclaration_Names(t *testing.T) {
	top := &TypeDeclaration{Package: "com.example", Name: "Box"}
	unnamed := &TypeDeclaration{Name: "Box"}
	nested := &TypeDeclaration{Package: "com.example", Name: "Inner", Enclosing: "com.example.Box"}

	assert.Equal(t, "com.example.Box", top.QualifiedName())
	assert.Equal(t, "Box", unnamed.QualifiedName())
	assert.Equal(t, "com.example.Box.Inner", nested.QualifiedName())
	assert.Equal(t, Declared("com.example.Box", TypeVariable("T")), top.Ref(TypeVariable("T")))
}

func TestTypeDeclaration_Placement(t *testing.T) {
	assert.Equal(t, TopLevel, (&TypeDeclaration{Name: "Box"}).Placement())
	assert.Equal(t, InnerNested, (&TypeDeclaration{Name: "In", Enclosing: "Box"}).Placement())
	assert.Equal(t, StaticNested, (&TypeDeclaration{Name: "In", Enclosing: "Box", Modifiers: Static}).Placement())
	assert.Equal(t, StaticNested, (&TypeDeclaration{Name: "In", Enclosing: "Box", Kind: InterfaceKind}).Placement())
}

func TestMethodSignature(t *testing.T) {
	m := MethodSignature{
		Name:      "newT",
		Params:    []Parameter{{Name: "name", Type: Declared("java.lang.String")}, {Name: "size", Type: Primitive("int")}},
		Modifiers: Public | Abstract,
	}
	assert.True(t, m.IsAbstract())
	assert.Equal(t, "newT(java.lang.String, int)", m.String())

	same := func(a, b TypeRef) bool { return a.Equal(b) }
	renamed := m
	renamed.Params = []Parameter{{Name: "n", Type: Declared("java.lang.String")}, {Name: "s", Type: Primitive("int")}}
	assert.True(t, m.SameSignature(renamed, same))

	other := m
	other.Params = m.Params[:1]
	assert.False(t, m.SameSignature(other, same))
}

func TestNewReificationRequest(t *testing.T) {
	widget := Declared("com.example.Widget")
	gadget := Declared("com.example.Gadget")
	decl := &TypeDeclaration{
		Name:     "Pair",
		Location: SourceLocation{File: "Pair.rdecl", Line: 1},
		TypeParams: []TypeParameter{
			{Name: "K"},
			{Name: "V", Bindings: []TypeRef{widget, gadget}, Location: SourceLocation{File: "Pair.rdecl", Line: 1, Column: 20}},
		},
	}

	req := NewReificationRequest(3, decl)
	assert.Equal(t, Handle(3), req.Target)
	require.Len(t, req.Bindings, 2)
	assert.False(t, req.Bindings[0].IsBound())
	assert.Equal(t, widget, *req.Bindings[1].Type)
	assert.Equal(t, 20, req.Anchor.Column)

	bound := req.Bound()
	require.Len(t, bound, 1)
	assert.Equal(t, "V", bound[0].Param)
	assert.Len(t, decl.BoundParameters(), 1)
}

func TestDiagnostic_JSON(t *testing.T) {
	d := Diagnostic{Severity: SeverityWarning, Message: "reserved", Anchor: SourceLocation{File: "a.rdecl", Line: 2}}
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"severity":"WARNING","message":"reserved","anchor":{"file":"a.rdecl","line":2}}`, string(data))

	var decoded Diagnostic
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, d, decoded)

	assert.Equal(t, "a.rdecl:2: WARNING: reserved", d.String())
	assert.Equal(t, "NOTE: hello", Diagnostic{Message: "hello"}.String())
	assert.Error(t, json.Unmarshal([]byte(`{"severity":"FATAL"}`), &decoded))
}
