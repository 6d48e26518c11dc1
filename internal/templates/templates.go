// Package templates renders generated type descriptors as Java source.
package templates

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/bisgardo/reification/internal/models"
)

// GeneratedHeader is the first line of every generated file
const GeneratedHeader = "// Code generated by reify. DO NOT EDIT."

// TypeData is the input of the "type" template
type TypeData struct {
	Header    string
	Package   string
	Imports   string
	Modifiers string
	Kind      string
	Name      string
	Supertype string
	Methods   []MethodData
}

// MethodData is one rendered method
type MethodData struct {
	Override  bool
	Signature string
	Body      string
}

// BodyData is the input of the body templates
type BodyData struct {
	Type string
	Args []string
}

// Renderer turns descriptors into source text
type Renderer struct {
	registry *TemplateRegistry
}

// NewRenderer creates a renderer over the default templates
func NewRenderer() *Renderer {
	return &Renderer{registry: NewTemplateRegistry()}
}

// Render renders one generated type as a complete compilation unit
func (r *Renderer) Render(desc *models.GeneratedTypeDescriptor) (string, error) {
	if desc == nil {
		return "", fmt.Errorf("descriptor cannot be nil")
	}

	im := NewImportManager(desc.Package)
	im.Reserve(desc.Name)
	collectImports(im, desc)

	data := TypeData{
		Header:    GeneratedHeader,
		Package:   desc.Package,
		Imports:   im.GenerateImports(),
		Modifiers: typeModifiers(desc),
		Kind:      desc.Kind.String(),
		Name:      desc.Name,
		Supertype: desc.Supertype.Format(im.Name),
	}

	for _, m := range desc.Methods {
		body, err := r.renderBody(m.Body, im)
		if err != nil {
			return "", err
		}
		data.Methods = append(data.Methods, MethodData{
			Override:  m.Override,
			Signature: signature(m, desc.Kind, im),
			Body:      body,
		})
	}

	return executeTemplate("type", r.registry.MustGet("type"), data)
}

func (r *Renderer) renderBody(body models.MethodBody, im *ImportManager) (string, error) {
	switch b := body.(type) {
	case models.NewInstanceBody:
		return executeTemplate("new-instance", r.registry.MustGet("new-instance"), BodyData{
			Type: b.Type.Format(im.Name),
			Args: b.Args,
		})
	case models.DescriptorBody:
		// Class literals name the erased type.
		return executeTemplate("descriptor", r.registry.MustGet("descriptor"), BodyData{
			Type: b.Type.Erasure().Format(im.Name),
		})
	default:
		return "", fmt.Errorf("unknown method body %T", body)
	}
}

// collectImports registers every declared name the descriptor references, in
// rendering order
func collectImports(im *ImportManager, desc *models.GeneratedTypeDescriptor) {
	add := func(t models.TypeRef) {
		t.Walk(func(ref models.TypeRef) {
			if ref.Kind == models.DeclaredRef {
				im.AddImport(ref.Name)
			}
		})
	}

	add(desc.Supertype)
	for _, m := range desc.Methods {
		add(m.Return)
		for _, p := range m.Params {
			add(p.Type)
		}
		for _, t := range m.Throws {
			add(t)
		}
	}
}

func typeModifiers(desc *models.GeneratedTypeDescriptor) string {
	mods := models.Public
	if desc.Abstract {
		mods |= models.Abstract
	}
	return mods.String()
}

// signature renders modifiers, return type, name, parameters and throws.
// Interface members are implicitly public.
func signature(m models.MethodSpec, kind models.TypeKind, im *ImportManager) string {
	mods := m.Modifiers
	if kind == models.InterfaceKind {
		mods &^= models.Public
	}

	var b strings.Builder
	if s := mods.String(); s != "" {
		b.WriteString(s)
		b.WriteString(" ")
	}
	b.WriteString(m.Return.Format(im.Name))
	b.WriteString(" ")
	b.WriteString(m.Name)
	b.WriteString("(")
	for i, p := range m.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Type.Format(im.Name))
		b.WriteString(" ")
		b.WriteString(p.Name)
	}
	b.WriteString(")")
	if len(m.Throws) > 0 {
		throws := make([]string, len(m.Throws))
		for i, t := range m.Throws {
			throws[i] = t.Format(im.Name)
		}
		b.WriteString(" throws ")
		b.WriteString(strings.Join(throws, ", "))
	}
	return b.String()
}

// executeTemplate executes a template with the given data
func executeTemplate(name, templateStr string, data interface{}) (string, error) {
	funcMap := template.FuncMap{
		"join": strings.Join,
	}

	tmpl, err := template.New(name).Funcs(funcMap).Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}
