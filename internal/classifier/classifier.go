// Package classifier decides how each abstract method of a target is
// synthesized, based on the method name and the bound type parameter.
package classifier

import (
	"sort"

	"github.com/bisgardo/reification/internal/models"
)

// StrategyKind names a strategy in the prefix table
type StrategyKind int

const (
	NewInstanceKind StrategyKind = iota
	ClassDescriptorKind
)

// Prefix maps a method name prefix to a strategy
type Prefix struct {
	Prefix string
	Kind   StrategyKind
}

// DefaultPrefixes is the naming convention: new<T> constructs T, class<T> describes T
var DefaultPrefixes = []Prefix{
	{Prefix: "new", Kind: NewInstanceKind},
	{Prefix: "class", Kind: ClassDescriptorKind},
}

// ReservedNames are method names set aside for strategies that are not wired yet
var ReservedNames = []string{"newInstance", "classDescriptor"}

// Classifier partitions abstract methods into strategies
type Classifier struct {
	prefixes []Prefix
	reserved map[string]bool
}

// New creates a classifier; an empty table selects DefaultPrefixes
func New(prefixes []Prefix) *Classifier {
	if len(prefixes) == 0 {
		prefixes = DefaultPrefixes
	}
	reserved := make(map[string]bool, len(ReservedNames))
	for _, name := range ReservedNames {
		reserved[name] = true
	}
	return &Classifier{prefixes: prefixes, reserved: reserved}
}

type candidate struct {
	name string
	kind StrategyKind
}

// Classify decides the strategy of every method. Only the single bound
// parameter participates: the method name must equal a prefix followed by
// that parameter's name. Candidates are tried longest first.
func (c *Classifier) Classify(methods []models.MethodSignature, binding models.Binding) []models.ClassifiedMethod {
	candidates := c.candidates(binding)

	classified := make([]models.ClassifiedMethod, 0, len(methods))
	for _, m := range methods {
		classified = append(classified, c.classify(m, binding, candidates))
	}
	return classified
}

// Strategy decides the strategy of a single method
func (c *Classifier) Strategy(m models.MethodSignature, binding models.Binding) models.Strategy {
	return c.classify(m, binding, c.candidates(binding)).Strategy
}

func (c *Classifier) classify(m models.MethodSignature, binding models.Binding, candidates []candidate) models.ClassifiedMethod {
	for _, cand := range candidates {
		if m.Name != cand.name {
			continue
		}
		switch cand.kind {
		case NewInstanceKind:
			return models.ClassifiedMethod{Method: m, Strategy: models.NewInstance{Bound: *binding.Type}}
		case ClassDescriptorKind:
			return models.ClassifiedMethod{Method: m, Strategy: models.ClassDescriptor{Bound: *binding.Type}}
		}
	}
	return models.ClassifiedMethod{
		Method:   m,
		Strategy: models.Unimplemented{},
		Reserved: c.reserved[m.Name],
	}
}

func (c *Classifier) candidates(binding models.Binding) []candidate {
	if !binding.IsBound() {
		return nil
	}
	candidates := make([]candidate, 0, len(c.prefixes))
	for _, p := range c.prefixes {
		candidates = append(candidates, candidate{name: p.Prefix + binding.Param, kind: p.Kind})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i].name) > len(candidates[j].name)
	})
	return candidates
}
