package templates

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerTypeTemplates()
	registry.registerBodyTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

// Names returns the registered template names
func (tr *TemplateRegistry) Names() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	return names
}

// registerTypeTemplates registers the compilation unit template
func (tr *TemplateRegistry) registerTypeTemplates() {
	tr.templates["type"] = `{{.Header}}
{{if .Package}}
package {{.Package}};
{{end}}{{if .Imports}}
{{.Imports}}{{end}}
{{.Modifiers}} {{.Kind}} {{.Name}} extends {{.Supertype}} {
{{range $i, $m := .Methods}}{{if $i}}
{{end}}{{if $m.Override}}	@Override
{{end}}	{{$m.Signature}} {
		{{$m.Body}}
	}
{{end}}}
`
}

// registerBodyTemplates registers the synthesized method bodies
func (tr *TemplateRegistry) registerBodyTemplates() {
	tr.templates["new-instance"] = `return new {{.Type}}({{join .Args ", "}});`
	tr.templates["descriptor"] = `return {{.Type}}.class;`
}
