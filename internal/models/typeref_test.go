package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeRef_Equal(t *testing.T) {
	widget := Declared("com.example.Widget")
	str := Declared("java.lang.String")
	extendsWidget := Wildcard(ExtendsWildcard, &widget)
	superWidget := Wildcard(SuperWildcard, &widget)

	tests := []struct {
		name  string
		a, b  TypeRef
		equal bool
	}{
		{"same declared", widget, Declared("com.example.Widget"), true},
		{"different names", widget, str, false},
		{"simple vs qualified", widget, Declared("Widget"), false},
		{"raw vs parameterized", Declared("java.util.List"), Declared("java.util.List", str), false},
		{"same arguments", Declared("java.util.List", str), Declared("java.util.List", str), true},
		{"different arguments", Declared("java.util.List", str), Declared("java.util.List", widget), false},
		{"primitive vs boxed", Primitive("int"), Declared("java.lang.Integer"), false},
		{"same primitive", Primitive("int"), Primitive("int"), true},
		{"variable vs declared", TypeVariable("T"), Declared("T"), false},
		{"arrays", ArrayOf(Primitive("int")), ArrayOf(Primitive("int")), true},
		{"array element differs", ArrayOf(Primitive("int")), ArrayOf(Primitive("long")), false},
		{"wildcard bounds", extendsWidget, superWidget, false},
		{"unbounded wildcards", Wildcard(UnboundedWildcard, &widget), Wildcard(UnboundedWildcard, nil), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, tt.a.Equal(tt.b))
			assert.Equal(t, tt.equal, tt.b.Equal(tt.a))
		})
	}
}

func TestTypeRef_String(t *testing.T) {
	widget := Declared("com.example.Widget")
	tests := []struct {
		ref  TypeRef
		want string
	}{
		{widget, "com.example.Widget"},
		{Declared("java.util.Map", Declared("java.lang.String"), ArrayOf(Primitive("int"))), "java.util.Map<java.lang.String, int[]>"},
		{Wildcard(ExtendsWildcard, &widget), "? extends com.example.Widget"},
		{Wildcard(SuperWildcard, &widget), "? super com.example.Widget"},
		{Wildcard(UnboundedWildcard, nil), "?"},
		{DescriptorOf(widget), "java.lang.Class<com.example.Widget>"},
		{TypeVariable("T"), "T"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.ref.String())
	}

	simple := func(name string) string { return name[strings.LastIndex(name, ".")+1:] }
	ref := Declared("java.util.List", Wildcard(ExtendsWildcard, &widget))
	assert.Equal(t, "List<? extends Widget>", ref.Format(simple))
}

func TestTypeRef_Helpers(t *testing.T) {
	list := Declared("java.util.List", Declared("com.example.Widget"))

	assert.Equal(t, "List", list.SimpleName())
	assert.Equal(t, Declared("java.util.List"), list.Erasure())
	assert.Equal(t, Primitive("int"), Primitive("int").Erasure())
	assert.True(t, list.IsDeclared())
	assert.True(t, Primitive("void").IsPrimitive())
	assert.True(t, IsPrimitiveName("boolean"))
	assert.False(t, IsPrimitiveName("String"))

	q, ok := ImplicitTypeName("String")
	assert.True(t, ok)
	assert.Equal(t, "java.lang.String", q)
	_, ok = ImplicitTypeName("List")
	assert.False(t, ok)
	assert.Equal(t, "java.lang.Class", DescriptorTypeName)

	var names []string
	ArrayOf(list).Walk(func(r TypeRef) {
		if r.IsDeclared() {
			names = append(names, r.Name)
		}
	})
	assert.Equal(t, []string{"java.util.List", "com.example.Widget"}, names)
}

func TestEqualTypes(t *testing.T) {
	same := func(a, b TypeRef) bool { return a.Equal(b) }
	a := []TypeRef{Primitive("int"), Declared("java.lang.String")}

	assert.True(t, EqualTypes(a, []TypeRef{Primitive("int"), Declared("java.lang.String")}, same))
	assert.False(t, EqualTypes(a, a[:1], same))
	assert.False(t, EqualTypes(a, []TypeRef{Declared("java.lang.String"), Primitive("int")}, same))
	assert.True(t, EqualTypes(nil, nil, same))
}
