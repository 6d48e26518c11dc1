// Package parser reads declaration sources into an immutable type graph
// snapshot. Two input formats are supported: the Java-like declaration
// language (.rdecl) and YAML snapshots (.snapshot.yaml).
package parser

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alecthomas/participle/v2"
	cerrors "github.com/cockroachdb/errors"

	"github.com/bisgardo/reification/internal/errors"
	"github.com/bisgardo/reification/internal/models"
	"github.com/bisgardo/reification/internal/typegraph"
)

// File extensions recognized by the parser
const (
	DeclExtension     = ".rdecl"
	SnapshotExtension = ".snapshot.yaml"
)

// IsInputFile reports whether name has a recognized input extension
func IsInputFile(name string) bool {
	return strings.HasSuffix(name, DeclExtension) || strings.HasSuffix(name, SnapshotExtension)
}

// Parser turns source files into declarations
type Parser struct {
	files []parsedFile
}

type parsedFile struct {
	name  string
	decl  *fileNode
	decls []*models.TypeDeclaration // snapshot inputs, already linked
}

// New creates an empty parser
func New() *Parser {
	return &Parser{}
}

// AddSource parses one source file. The format is chosen by file extension;
// anything other than a snapshot is read as the declaration language.
func (p *Parser) AddSource(name, content string) error {
	if strings.HasSuffix(name, SnapshotExtension) {
		decls, err := ParseSnapshot(name, []byte(content))
		if err != nil {
			return err
		}
		p.files = append(p.files, parsedFile{name: name, decls: decls})
		return nil
	}

	node, err := fileParser.ParseString(name, content)
	if err != nil {
		return syntaxError(name, err)
	}
	p.files = append(p.files, parsedFile{name: name, decl: node})
	return nil
}

// AddSources parses several files in name order
func (p *Parser) AddSources(sources map[string]string) error {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	collected := errors.NewMultipleErrors()
	for _, name := range names {
		if err := p.AddSource(name, sources[name]); err != nil {
			for _, e := range errors.Flatten(err) {
				collected.Add(e)
			}
		}
	}
	return collected.ErrorOrNil()
}

// Declarations links every parsed file and returns the declarations in file
// order, nested types directly after their enclosing type
func (p *Parser) Declarations() ([]*models.TypeDeclaration, error) {
	l := newLinker()
	for _, f := range p.files {
		if f.decl != nil {
			l.index(f.name, f.decl)
		} else {
			l.indexLinked(f.decls)
		}
	}

	var decls []*models.TypeDeclaration
	collected := errors.NewMultipleErrors()
	for _, f := range p.files {
		if f.decl == nil {
			decls = append(decls, f.decls...)
			continue
		}
		linked, err := l.link(f.name, f.decl)
		if err != nil {
			for _, e := range errors.Flatten(err) {
				collected.Add(e)
			}
			continue
		}
		decls = append(decls, linked...)
	}
	if err := collected.ErrorOrNil(); err != nil {
		return nil, err
	}
	return decls, nil
}

// Snapshot links every parsed file into a type graph snapshot
func (p *Parser) Snapshot() (*typegraph.Snapshot, error) {
	decls, err := p.Declarations()
	if err != nil {
		return nil, err
	}
	snap, err := typegraph.NewSnapshot(decls...)
	if err != nil {
		return nil, errors.Wrap(errors.ValidationErrorCode, "invalid type graph", err)
	}
	return snap, nil
}

// LoadSources parses and links sources into a snapshot in one step
func LoadSources(sources map[string]string) (*typegraph.Snapshot, error) {
	p := New()
	if err := p.AddSources(sources); err != nil {
		return nil, err
	}
	return p.Snapshot()
}

// ParseType parses a single type expression such as "java.util.List<? extends T>".
// Names are kept as written; type variables must be listed in vars.
func ParseType(expr string, vars ...string) (models.TypeRef, error) {
	node, err := typeParser.ParseString("", expr)
	if err != nil {
		return models.TypeRef{}, syntaxError("", err).WithSuggestion(fmt.Sprintf("check the type expression %q", expr))
	}
	s := newScope(nil)
	for _, v := range vars {
		s.vars[v] = true
	}
	return newLinker().typeRef(node, s)
}

func syntaxError(file string, err error) *errors.SyntaxError {
	var perr participle.Error
	if cerrors.As(err, &perr) {
		pos := perr.Position()
		loc := models.SourceLocation{File: file, Line: pos.Line, Column: pos.Column}
		if file == "" {
			loc = models.SourceLocation{}
		}
		return errors.NewSyntaxError(perr.Message()).WithLocation(loc)
	}
	return errors.WrapParseError(filepath.Base(file), err)
}
