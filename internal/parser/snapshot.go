package parser

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/bisgardo/reification/internal/errors"
	"github.com/bisgardo/reification/internal/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// snapshotDoc is the root of a .snapshot.yaml file
type snapshotDoc struct {
	Types []snapshotType `yaml:"types" validate:"dive"`
}

// position records where a YAML mapping started
type position struct {
	line, column int
}

func (p position) at(file string) models.SourceLocation {
	return models.SourceLocation{File: file, Line: p.line, Column: p.column}
}

type snapshotType struct {
	Package      string                `yaml:"package"`
	Name         string                `yaml:"name" validate:"required"`
	Kind         string                `yaml:"kind" validate:"required,oneof=class interface"`
	Modifiers    []string              `yaml:"modifiers" validate:"dive,oneof=public protected private abstract static final"`
	Enclosing    string                `yaml:"enclosing"`
	TypeParams   []snapshotTypeParam   `yaml:"type_params" validate:"dive"`
	Superclass   string                `yaml:"superclass"`
	Interfaces   []string              `yaml:"interfaces"`
	Methods      []snapshotMethod      `yaml:"methods" validate:"dive"`
	Constructors []snapshotConstructor `yaml:"constructors" validate:"dive"`
	pos          position
}

type snapshotTypeParam struct {
	Name  string   `yaml:"name" validate:"required"`
	Reify []string `yaml:"reify"`
	pos   position
}

type snapshotParam struct {
	Name string `yaml:"name" validate:"required"`
	Type string `yaml:"type" validate:"required"`
}

type snapshotMethod struct {
	Name       string          `yaml:"name" validate:"required"`
	Modifiers  []string        `yaml:"modifiers" validate:"dive,oneof=public protected private abstract static final default"`
	TypeParams []string        `yaml:"type_params"`
	Params     []snapshotParam `yaml:"params" validate:"dive"`
	Returns    string          `yaml:"returns" validate:"required"`
	Throws     []string        `yaml:"throws"`
	pos        position
}

type snapshotConstructor struct {
	Modifiers []string        `yaml:"modifiers" validate:"dive,oneof=public protected private"`
	Params    []snapshotParam `yaml:"params" validate:"dive"`
	Throws    []string        `yaml:"throws"`
	pos       position
}

func (t *snapshotType) UnmarshalYAML(node *yaml.Node) error {
	type plain snapshotType
	if err := node.Decode((*plain)(t)); err != nil {
		return err
	}
	t.pos = position{node.Line, node.Column}
	return nil
}

func (t *snapshotTypeParam) UnmarshalYAML(node *yaml.Node) error {
	type plain snapshotTypeParam
	if err := node.Decode((*plain)(t)); err != nil {
		return err
	}
	t.pos = position{node.Line, node.Column}
	return nil
}

func (m *snapshotMethod) UnmarshalYAML(node *yaml.Node) error {
	type plain snapshotMethod
	if err := node.Decode((*plain)(m)); err != nil {
		return err
	}
	m.pos = position{node.Line, node.Column}
	return nil
}

func (c *snapshotConstructor) UnmarshalYAML(node *yaml.Node) error {
	type plain snapshotConstructor
	if err := node.Decode((*plain)(c)); err != nil {
		return err
	}
	c.pos = position{node.Line, node.Column}
	return nil
}

// ParseSnapshot reads a YAML snapshot. Type names are taken as written, so
// they should be fully qualified apart from simple names of the implicit
// package; type expressions use the declaration language syntax.
//
//	types:
//	  - package: com.example
//	    name: Box
//	    kind: interface
//	    type_params:
//	      - name: T
//	        reify: [com.example.Widget]
//	    methods:
//	      - name: newT
//	        modifiers: [abstract]
//	        returns: T
func ParseSnapshot(file string, data []byte) ([]*models.TypeDeclaration, error) {
	var doc snapshotDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapParseError(file, err).WithLocation(models.SourceLocation{File: file})
	}
	if err := validate.Struct(doc); err != nil {
		return nil, errors.FromValidation("snapshot "+file, err)
	}

	collected := errors.NewMultipleErrors()
	decls := make([]*models.TypeDeclaration, 0, len(doc.Types))
	for i := range doc.Types {
		decl, err := convertSnapshotType(file, &doc.Types[i])
		if err != nil {
			for _, e := range errors.Flatten(err) {
				collected.Add(e)
			}
			continue
		}
		decls = append(decls, decl)
	}
	if err := collected.ErrorOrNil(); err != nil {
		return nil, err
	}
	return decls, nil
}

func convertSnapshotType(file string, st *snapshotType) (*models.TypeDeclaration, error) {
	collected := errors.NewMultipleErrors()
	parse := func(expr string, at position, vars []string) models.TypeRef {
		t, err := ParseType(expr, vars...)
		if err != nil {
			collected.Add(errors.NewSyntaxErrorWithToken("invalid type expression", expr).WithLocation(at.at(file)))
		}
		return t
	}

	decl := &models.TypeDeclaration{
		Package:   st.Package,
		Name:      st.Name,
		Kind:      models.ClassKind,
		Modifiers: parseModifiers(st.Modifiers),
		Enclosing: st.Enclosing,
		Location:  st.pos.at(file),
	}
	if st.Kind == "interface" {
		decl.Kind = models.InterfaceKind
	}

	vars := make([]string, 0, len(st.TypeParams))
	for _, tp := range st.TypeParams {
		vars = append(vars, tp.Name)
	}
	for _, tp := range st.TypeParams {
		param := models.TypeParameter{Name: tp.Name, Location: tp.pos.at(file)}
		for _, expr := range tp.Reify {
			param.Bindings = append(param.Bindings, parse(expr, tp.pos, vars))
		}
		decl.TypeParams = append(decl.TypeParams, param)
	}

	if st.Superclass != "" {
		if decl.Kind == models.InterfaceKind {
			collected.Add(errors.NewSyntaxError("interface '" + st.Name + "' cannot have a superclass").WithLocation(st.pos.at(file)))
		}
		sc := parse(st.Superclass, st.pos, vars)
		decl.Superclass = &sc
	}
	for _, expr := range st.Interfaces {
		decl.Interfaces = append(decl.Interfaces, parse(expr, st.pos, vars))
	}

	for _, sm := range st.Methods {
		methodVars := append(append([]string(nil), vars...), sm.TypeParams...)
		m := models.MethodSignature{
			Name:       sm.Name,
			TypeParams: sm.TypeParams,
			Return:     parse(sm.Returns, sm.pos, methodVars),
			Modifiers:  parseModifiers(sm.Modifiers),
			Owner:      decl.QualifiedName(),
			Location:   sm.pos.at(file),
		}
		if decl.Kind == models.InterfaceKind && !m.Modifiers.Has(models.Private) {
			m.Modifiers |= models.Public
		}
		for _, p := range sm.Params {
			m.Params = append(m.Params, models.Parameter{Name: p.Name, Type: parse(p.Type, sm.pos, methodVars)})
		}
		for _, expr := range sm.Throws {
			m.Throws = append(m.Throws, parse(expr, sm.pos, methodVars))
		}
		decl.Methods = append(decl.Methods, m)
	}

	for _, sc := range st.Constructors {
		c := models.ConstructorSignature{
			Modifiers: parseModifiers(sc.Modifiers),
			Location:  sc.pos.at(file),
		}
		for _, p := range sc.Params {
			c.Params = append(c.Params, models.Parameter{Name: p.Name, Type: parse(p.Type, sc.pos, vars)})
		}
		for _, expr := range sc.Throws {
			c.Throws = append(c.Throws, parse(expr, sc.pos, vars))
		}
		decl.Constructors = append(decl.Constructors, c)
	}

	if err := collected.ErrorOrNil(); err != nil {
		return nil, err
	}
	return decl, nil
}

// parseModifiers converts validated modifier keywords
func parseModifiers(words []string) models.Modifier {
	var mods models.Modifier
	for _, w := range words {
		if m, err := models.ParseModifier(w); err == nil {
			mods |= m
		}
	}
	return mods
}
