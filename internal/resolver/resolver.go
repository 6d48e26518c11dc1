// Package resolver computes the net set of abstract methods a type inherits
// and declares across its whole class/interface hierarchy.
package resolver

import (
	"github.com/bisgardo/reification/internal/errors"
	"github.com/bisgardo/reification/internal/models"
	"github.com/bisgardo/reification/internal/typegraph"
)

// DefaultMaxDepth bounds the ancestor walk when no limit is configured
const DefaultMaxDepth = 256

// Options configures the resolver
type Options struct {
	// StrictReferences turns supertype references missing from the snapshot
	// into MalformedHierarchy errors instead of opaque leaves
	StrictReferences bool
	// MaxDepth bounds the ancestor chain length; zero selects DefaultMaxDepth
	MaxDepth int
}

// Resolver walks type hierarchies over a read-only graph
type Resolver struct {
	graph typegraph.Graph
	opts  Options
}

// New creates a resolver over graph
func New(graph typegraph.Graph, opts Options) *Resolver {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Resolver{graph: graph, opts: opts}
}

// supertypeRef is a pending edge from a node to one of its supertypes
type supertypeRef struct {
	ref    models.TypeRef
	expect models.TypeKind
}

// frame is one node on the explicit walk stack
type frame struct {
	handle     models.Handle
	supertypes []supertypeRef
	next       int
}

// Resolve returns the abstract methods that remain unimplemented for the
// type addressed by h.
//
// Ancestors are merged before the node's own members: each interface in
// declared order, then the superclass. Afterwards the node's own methods are
// applied in declaration order, abstract ones inserted (replacing an entry
// with the same signature) and concrete ones removing any such entry. The walk
// uses an explicit stack of node handles.
func (r *Resolver) Resolve(h models.Handle) (*MethodSet, error) {
	root := r.graph.Node(h)
	if root == nil {
		return nil, errors.Newf(errors.MalformedHierarchyCode, "no type with handle %d", h)
	}

	set := NewMethodSet(r.graph.SameType)
	stack := []*frame{r.newFrame(h, root)}
	onStack := map[models.Handle]bool{h: true}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		decl := r.graph.Node(top.handle)

		if top.next < len(top.supertypes) {
			edge := top.supertypes[top.next]
			top.next++

			child, ok, err := r.follow(decl, edge)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			if onStack[child] {
				return nil, errors.NewHierarchyCycleError(root.QualifiedName(), r.path(stack, child))
			}
			if len(stack) >= r.opts.MaxDepth {
				return nil, errors.NewHierarchyDepthError(root.QualifiedName(), r.opts.MaxDepth)
			}
			stack = append(stack, r.newFrame(child, r.graph.Node(child)))
			onStack[child] = true
			continue
		}

		for _, m := range decl.Methods {
			if m.IsAbstract() {
				set.Put(m)
			} else {
				set.Remove(m)
			}
		}
		stack = stack[:len(stack)-1]
		delete(onStack, top.handle)
	}

	return set, nil
}

func (r *Resolver) newFrame(h models.Handle, decl *models.TypeDeclaration) *frame {
	f := &frame{handle: h}
	for _, iface := range decl.Interfaces {
		f.supertypes = append(f.supertypes, supertypeRef{ref: iface, expect: models.InterfaceKind})
	}
	if decl.Superclass != nil {
		f.supertypes = append(f.supertypes, supertypeRef{ref: *decl.Superclass, expect: models.ClassKind})
	}
	return f
}

// follow resolves a supertype edge and checks the kind of the node it names
func (r *Resolver) follow(decl *models.TypeDeclaration, edge supertypeRef) (models.Handle, bool, error) {
	child, ok := r.graph.Resolve(edge.ref)
	if !ok {
		if r.opts.StrictReferences {
			err := errors.NewUnresolvedReferenceError(decl.QualifiedName(), edge.ref.String())
			err.WithLocation(decl.Location)
			return models.NoHandle, false, err
		}
		return models.NoHandle, false, nil
	}
	node := r.graph.Node(child)
	if node.Kind != edge.expect {
		err := errors.NewMalformedHierarchyError(decl.QualifiedName(), node.QualifiedName(), edge.expect, node.Kind)
		err.WithLocation(decl.Location)
		return models.NoHandle, false, err
	}
	return child, true, nil
}

func (r *Resolver) path(stack []*frame, repeated models.Handle) []string {
	names := make([]string, 0, len(stack)+1)
	for _, f := range stack {
		names = append(names, r.graph.Node(f.handle).QualifiedName())
	}
	return append(names, r.graph.Node(repeated).QualifiedName())
}
