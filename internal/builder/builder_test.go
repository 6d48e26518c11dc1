package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bisgardo/reification/internal/models"
)

func TestBuild_Class(t *testing.T) {
	widget := models.Declared("com.example.model.Widget")
	target := &models.TypeDeclaration{
		Package:    "com.example",
		Name:       "Box",
		Kind:       models.ClassKind,
		TypeParams: []models.TypeParameter{{Name: "T"}},
	}
	methods := []models.MethodSpec{{Name: "newT", Modifiers: models.Public, Return: widget, Override: true}}

	desc := New("").Build(target, widget, methods, false)

	assert.Equal(t, "com.example", desc.Package)
	assert.Equal(t, "Box$Widget", desc.Name)
	assert.Equal(t, "com.example.Box$Widget", desc.QualifiedName())
	assert.Equal(t, models.ClassKind, desc.Kind)
	assert.Equal(t, models.Declared("com.example.Box", widget), desc.Supertype)
	assert.Equal(t, "com.example.Box", desc.Origin)
	assert.False(t, desc.Abstract)
	assert.Equal(t, methods, desc.Methods)

	assert.True(t, New("").Build(target, widget, methods, true).Abstract)
}

func TestBuild_Interface(t *testing.T) {
	widget := models.Declared("Widget")
	target := &models.TypeDeclaration{Name: "Factory", Kind: models.InterfaceKind}
	methods := []models.MethodSpec{{Name: "newT", Modifiers: models.Public}}

	desc := New("_").Build(target, widget, methods, true)

	assert.Equal(t, "Factory_Widget", desc.Name)
	assert.Equal(t, "Factory_Widget", desc.QualifiedName())
	assert.False(t, desc.Abstract)
	assert.Equal(t, models.Public|models.Default, desc.Methods[0].Modifiers)
	assert.Equal(t, models.Public, methods[0].Modifiers, "input specs are not modified")
}

func TestName(t *testing.T) {
	b := New("")
	target := &models.TypeDeclaration{Name: "Box"}
	assert.Equal(t, "Box$List", b.Name(target, models.Declared("java.util.List", models.Declared("java.lang.String"))))
	assert.Equal(t, "Box__Widget", New("__").Name(target, models.Declared("Widget")))
}
