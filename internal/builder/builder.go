// Package builder assembles the generated type descriptor from the target
// declaration, the bound type argument and the synthesized methods.
package builder

import "github.com/bisgardo/reification/internal/models"

// DefaultSeparator joins the target name and the bound type's simple name
const DefaultSeparator = "$"

// Builder assembles descriptors
type Builder struct {
	separator string
}

// New creates a builder; an empty separator selects DefaultSeparator
func New(separator string) *Builder {
	if separator == "" {
		separator = DefaultSeparator
	}
	return &Builder{separator: separator}
}

// Name returns the generated type name for target specialized to bound
func (b *Builder) Name(target *models.TypeDeclaration, bound models.TypeRef) string {
	return target.Name + b.separator + bound.SimpleName()
}

// Build creates the descriptor. methods are the successful syntheses in
// resolution order; unimplemented tells whether any abstract method was left
// without a strategy.
func (b *Builder) Build(target *models.TypeDeclaration, bound models.TypeRef, methods []models.MethodSpec, unimplemented bool) *models.GeneratedTypeDescriptor {
	desc := &models.GeneratedTypeDescriptor{
		Package:   target.Package,
		Name:      b.Name(target, bound),
		Kind:      target.Kind,
		Supertype: target.Ref(bound),
		Methods:   make([]models.MethodSpec, 0, len(methods)),
		Origin:    target.QualifiedName(),
	}

	for _, m := range methods {
		if target.Kind == models.InterfaceKind {
			m.Modifiers |= models.Default
		}
		desc.Methods = append(desc.Methods, m)
	}

	// Interfaces already permit abstract members.
	if target.Kind == models.ClassKind && unimplemented {
		desc.Abstract = true
	}

	return desc
}
