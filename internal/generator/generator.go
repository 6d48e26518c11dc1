package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bisgardo/reification/internal/errors"
	"github.com/bisgardo/reification/internal/models"
	"github.com/bisgardo/reification/internal/templates"
)

// Output formats
const (
	FormatJava = "java"
	FormatJSON = "json"
)

// Generator implements the CodeGenerator interface
type Generator struct {
	renderer SourceRenderer
	format   string
}

var _ CodeGenerator = (*Generator)(nil)

// NewGenerator creates a generator emitting Java source
func NewGenerator() *Generator {
	return &Generator{renderer: templates.NewRenderer(), format: FormatJava}
}

// NewGeneratorWithFormat creates a generator for one of the output formats
func NewGeneratorWithFormat(format string) (*Generator, error) {
	switch format {
	case "", FormatJava:
		return NewGenerator(), nil
	case FormatJSON:
		return &Generator{renderer: templates.NewRenderer(), format: FormatJSON}, nil
	default:
		return nil, errors.NewValidationError("format", "one of java, json", format)
	}
}

// FilePath returns the output path of a descriptor relative to the output
// directory: the package as directories, then the type name
func FilePath(desc *models.GeneratedTypeDescriptor, format string) string {
	ext := ".java"
	if format == FormatJSON {
		ext = ".json"
	}
	var parts []string
	if desc.Package != "" {
		parts = strings.Split(desc.Package, ".")
	}
	parts = append(parts, desc.Name+ext)
	return filepath.Join(parts...)
}

// Generate renders a single descriptor
func (g *Generator) Generate(desc *models.GeneratedTypeDescriptor) (*models.GeneratedFile, error) {
	if desc == nil {
		return nil, fmt.Errorf("descriptor cannot be nil")
	}

	path := FilePath(desc, g.format)

	var content string
	switch g.format {
	case FormatJSON:
		data, err := json.MarshalIndent(newDescriptorJSON(desc), "", "  ")
		if err != nil {
			return nil, errors.WrapGenerateError(path, err)
		}
		content = string(data) + "\n"
	default:
		src, err := g.renderer.Render(desc)
		if err != nil {
			return nil, errors.WrapTemplateError("type", "execute", err).WithTargetFile(path)
		}
		content = src
	}

	return &models.GeneratedFile{
		Path:       path,
		Content:    content,
		Descriptor: desc,
	}, nil
}

// GenerateAll renders every descriptor, stopping at the first failure
func (g *Generator) GenerateAll(descs []*models.GeneratedTypeDescriptor) ([]*models.GeneratedFile, error) {
	files := make([]*models.GeneratedFile, 0, len(descs))
	for _, desc := range descs {
		file, err := g.Generate(desc)
		if err != nil {
			return nil, fmt.Errorf("failed to generate %s: %w", desc.QualifiedName(), err)
		}
		files = append(files, file)
	}
	return files, nil
}

// WriteFiles writes generated files below outDir, creating directories as needed
func WriteFiles(outDir string, files []*models.GeneratedFile) ([]string, error) {
	written := make([]string, 0, len(files))
	for _, f := range files {
		target := filepath.Join(outDir, f.Path)
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return written, errors.WrapFileSystemError("create directory for", target, err)
		}
		if err := os.WriteFile(target, []byte(f.Content), 0644); err != nil {
			return written, errors.WrapFileSystemError("write", target, err)
		}
		written = append(written, target)
	}
	return written, nil
}

// descriptorJSON is the machine-readable form of a descriptor
type descriptorJSON struct {
	Package   string       `json:"package,omitempty"`
	Name      string       `json:"name"`
	Kind      string       `json:"kind"`
	Supertype string       `json:"supertype"`
	Abstract  bool         `json:"abstract"`
	Origin    string       `json:"origin"`
	Methods   []methodJSON `json:"methods"`
}

type methodJSON struct {
	Name      string   `json:"name"`
	Modifiers []string `json:"modifiers,omitempty"`
	Params    []string `json:"params,omitempty"`
	Returns   string   `json:"returns"`
	Throws    []string `json:"throws,omitempty"`
	Strategy  string   `json:"strategy"`
	Body      string   `json:"body"`
}

func newDescriptorJSON(desc *models.GeneratedTypeDescriptor) descriptorJSON {
	out := descriptorJSON{
		Package:   desc.Package,
		Name:      desc.Name,
		Kind:      desc.Kind.String(),
		Supertype: desc.Supertype.String(),
		Abstract:  desc.Abstract,
		Origin:    desc.Origin,
		Methods:   make([]methodJSON, 0, len(desc.Methods)),
	}
	for _, m := range desc.Methods {
		mj := methodJSON{
			Name:      m.Name,
			Modifiers: m.Modifiers.Keywords(),
			Returns:   m.Return.String(),
		}
		for _, p := range m.Params {
			mj.Params = append(mj.Params, p.Type.String()+" "+p.Name)
		}
		for _, t := range m.Throws {
			mj.Throws = append(mj.Throws, t.String())
		}
		switch b := m.Body.(type) {
		case models.NewInstanceBody:
			mj.Strategy = "new-instance"
			mj.Body = fmt.Sprintf("new %s(%s)", b.Type, strings.Join(b.Args, ", "))
		case models.DescriptorBody:
			mj.Strategy = "class-descriptor"
			mj.Body = b.Type.Erasure().String() + ".class"
		}
		out.Methods = append(out.Methods, mj)
	}
	return out
}
