package typegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bisgardo/reification/internal/models"
)

func TestSnapshot_Lookup(t *testing.T) {
	box := &models.TypeDeclaration{Package: "com.example", Name: "Box"}
	widget := &models.TypeDeclaration{Package: "com.example", Name: "Widget"}
	s := MustSnapshot(box, widget)

	h, ok := s.Lookup("com.example.Widget")
	require.True(t, ok)
	assert.Same(t, widget, s.Node(h))

	_, ok = s.Lookup("Widget")
	assert.False(t, ok)

	h, ok = s.Resolve(models.Declared("com.example.Box", models.TypeVariable("T")))
	require.True(t, ok)
	assert.Same(t, box, s.Node(h))

	_, ok = s.Resolve(models.Primitive("int"))
	assert.False(t, ok)

	assert.Nil(t, s.Node(models.NoHandle))
	assert.Nil(t, s.Node(models.Handle(2)))
	assert.Equal(t, []models.Handle{0, 1}, s.Handles())
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"com.example.Box", "com.example.Widget"}, s.Names())
}

func TestSnapshot_Duplicates(t *testing.T) {
	first := &models.TypeDeclaration{Name: "Box", Location: models.SourceLocation{File: "a.rdecl", Line: 1}}
	second := &models.TypeDeclaration{Name: "Box", Location: models.SourceLocation{File: "b.rdecl", Line: 4}}

	_, err := NewSnapshot(first, second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b.rdecl:4")
	assert.Contains(t, err.Error(), "a.rdecl:1")

	_, err = NewSnapshot(nil)
	assert.Error(t, err)
	assert.Panics(t, func() { MustSnapshot(first, second) })
}

func TestSnapshot_SameType(t *testing.T) {
	s := MustSnapshot()
	assert.True(t, s.SameType(models.Primitive("int"), models.Primitive("int")))
	assert.False(t, s.SameType(models.Primitive("int"), models.Declared("java.lang.Integer")))
}

func TestRequests(t *testing.T) {
	widget := models.Declared("Widget")
	plain := &models.TypeDeclaration{Name: "Plain", TypeParams: []models.TypeParameter{{Name: "T"}}}
	box := &models.TypeDeclaration{Name: "Box", TypeParams: []models.TypeParameter{{Name: "T", Bindings: []models.TypeRef{widget}}}}
	pair := &models.TypeDeclaration{Name: "Pair", TypeParams: []models.TypeParameter{{Name: "K"}, {Name: "V", Bindings: []models.TypeRef{widget}}}}

	reqs := Requests(MustSnapshot(plain, box, pair))
	require.Len(t, reqs, 2)
	assert.Equal(t, models.Handle(1), reqs[0].Target)
	assert.Equal(t, models.Handle(2), reqs[1].Target)
	assert.Len(t, reqs[1].Bindings, 2)
	assert.Empty(t, Requests(MustSnapshot(plain)))
}
