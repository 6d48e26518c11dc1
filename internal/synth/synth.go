// Package synth builds the overriding method for each abstract method the
// classifier assigned a synthesis strategy to.
package synth

import (
	"fmt"

	"github.com/bisgardo/reification/internal/errors"
	"github.com/bisgardo/reification/internal/models"
	"github.com/bisgardo/reification/internal/typegraph"
)

// Synthesizer produces method specs over a read-only graph
type Synthesizer struct {
	graph typegraph.Graph
}

// New creates a synthesizer
func New(graph typegraph.Graph) *Synthesizer {
	return &Synthesizer{graph: graph}
}

// Synthesize dispatches on the strategy. Unimplemented methods yield ok=false
// and no error.
func (s *Synthesizer) Synthesize(cm models.ClassifiedMethod) (spec models.MethodSpec, ok bool, err error) {
	switch strategy := cm.Strategy.(type) {
	case models.NewInstance:
		spec, err = s.NewInstance(cm.Method, strategy.Bound)
		return spec, err == nil, err
	case models.ClassDescriptor:
		spec, err = s.ClassDescriptor(cm.Method, strategy.Bound)
		return spec, err == nil, err
	case models.Unimplemented:
		return models.MethodSpec{}, false, nil
	default:
		panic(fmt.Sprintf("unknown strategy %T", cm.Strategy))
	}
}

// ResolveConstructor finds the constructor of bound whose ordered parameter
// types are exactly equal to params
func (s *Synthesizer) ResolveConstructor(bound models.TypeRef, params []models.Parameter) (models.ConstructorSignature, bool) {
	h, ok := s.graph.Resolve(bound)
	if !ok {
		return models.ConstructorSignature{}, false
	}
	want := models.ParameterTypes(params)
	for _, ctor := range s.graph.Node(h).Constructors {
		if models.EqualTypes(want, models.ParameterTypes(ctor.Params), s.graph.SameType) {
			return ctor, true
		}
	}
	return models.ConstructorSignature{}, false
}

// NewInstance overrides m with a method constructing bound. The return type
// becomes bound and the thrown types are replaced by the constructor's.
func (s *Synthesizer) NewInstance(m models.MethodSignature, bound models.TypeRef) (models.MethodSpec, error) {
	ctor, ok := s.ResolveConstructor(bound, m.Params)
	if !ok {
		return models.MethodSpec{}, errors.NewConstructorResolutionError(bound, m)
	}

	args := make([]string, len(m.Params))
	for i, p := range m.Params {
		args[i] = p.Name
	}

	return models.MethodSpec{
		Name:      m.Name,
		Modifiers: m.Modifiers.Visibility(),
		Params:    copyParams(m.Params),
		Return:    bound,
		Throws:    append([]models.TypeRef(nil), ctor.Throws...),
		Body:      models.NewInstanceBody{Type: bound, Args: args},
		Override:  true,
	}, nil
}

// ClassDescriptor overrides m with a method returning bound's descriptor.
// The return type is narrowed to the descriptor type of bound, which any
// compatible declared return type accepts covariantly.
func (s *Synthesizer) ClassDescriptor(m models.MethodSignature, bound models.TypeRef) (models.MethodSpec, error) {
	if len(m.Params) > 0 {
		return models.MethodSpec{}, errors.NewInvalidSignatureError(m, "must not have any parameters")
	}

	return models.MethodSpec{
		Name:      m.Name,
		Modifiers: m.Modifiers.Visibility(),
		Return:    models.DescriptorOf(bound),
		Body:      models.DescriptorBody{Type: bound},
		Override:  true,
	}, nil
}

func copyParams(params []models.Parameter) []models.Parameter {
	if len(params) == 0 {
		return nil
	}
	out := make([]models.Parameter, len(params))
	copy(out, params)
	return out
}
