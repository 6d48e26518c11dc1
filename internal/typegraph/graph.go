// Package typegraph provides the read-only type graph the specialization
// engine queries. Nodes are addressed by models.Handle rather than by pointer.
package typegraph

import (
	"fmt"
	"sort"

	"github.com/bisgardo/reification/internal/models"
)

// Graph is the query surface over an immutable snapshot of declarations
type Graph interface {
	// Lookup finds a declaration by qualified name
	Lookup(qualifiedName string) (models.Handle, bool)
	// Node returns the declaration addressed by h
	Node(h models.Handle) *models.TypeDeclaration
	// Resolve maps a declared type reference to the node it names
	Resolve(ref models.TypeRef) (models.Handle, bool)
	// SameType is the exact type equality predicate
	SameType(a, b models.TypeRef) bool
	// Handles returns every node handle in declaration order
	Handles() []models.Handle
}

// Snapshot is an index-addressed Graph built once per processing round
type Snapshot struct {
	nodes []*models.TypeDeclaration
	index map[string]models.Handle
}

// NewSnapshot creates a snapshot from declarations. Declarations keep the
// order in which they are given; duplicate qualified names are rejected.
func NewSnapshot(decls ...*models.TypeDeclaration) (*Snapshot, error) {
	s := &Snapshot{
		nodes: make([]*models.TypeDeclaration, 0, len(decls)),
		index: make(map[string]models.Handle, len(decls)),
	}
	for _, decl := range decls {
		if err := s.add(decl); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// MustSnapshot is like NewSnapshot but panics on error
func MustSnapshot(decls ...*models.TypeDeclaration) *Snapshot {
	s, err := NewSnapshot(decls...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Snapshot) add(decl *models.TypeDeclaration) error {
	if decl == nil {
		return fmt.Errorf("declaration cannot be nil")
	}
	name := decl.QualifiedName()
	if existing, ok := s.index[name]; ok {
		prev := s.nodes[existing]
		return fmt.Errorf("type '%s' declared at %s is already declared at %s", name, decl.Location, prev.Location)
	}
	s.index[name] = models.Handle(len(s.nodes))
	s.nodes = append(s.nodes, decl)
	return nil
}

// Lookup finds a declaration by qualified name
func (s *Snapshot) Lookup(qualifiedName string) (models.Handle, bool) {
	h, ok := s.index[qualifiedName]
	if !ok {
		return models.NoHandle, false
	}
	return h, true
}

// Node returns the declaration addressed by h, or nil for an invalid handle
func (s *Snapshot) Node(h models.Handle) *models.TypeDeclaration {
	if h < 0 || int(h) >= len(s.nodes) {
		return nil
	}
	return s.nodes[h]
}

// Resolve maps a declared type reference to the node it names
func (s *Snapshot) Resolve(ref models.TypeRef) (models.Handle, bool) {
	if !ref.IsDeclared() {
		return models.NoHandle, false
	}
	return s.Lookup(ref.Name)
}

// SameType is the exact type equality predicate
func (s *Snapshot) SameType(a, b models.TypeRef) bool {
	return a.Equal(b)
}

// Handles returns every node handle in declaration order
func (s *Snapshot) Handles() []models.Handle {
	handles := make([]models.Handle, len(s.nodes))
	for i := range s.nodes {
		handles[i] = models.Handle(i)
	}
	return handles
}

// Len returns the number of declarations in the snapshot
func (s *Snapshot) Len() int {
	return len(s.nodes)
}

// Names returns the qualified names of every declaration, sorted
func (s *Snapshot) Names() []string {
	names := make([]string, 0, len(s.index))
	for name := range s.index {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Requests discovers one reification request per declaration carrying a
// marker on any of its type parameters, in declaration order
func Requests(g Graph) []models.ReificationRequest {
	var requests []models.ReificationRequest
	for _, h := range g.Handles() {
		decl := g.Node(h)
		if len(decl.BoundParameters()) == 0 {
			continue
		}
		requests = append(requests, models.NewReificationRequest(h, decl))
	}
	return requests
}
