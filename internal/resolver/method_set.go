package resolver

import "github.com/bisgardo/reification/internal/models"

// MethodSet is an ordered set of methods keyed by exact signature: the
// method name plus its ordered parameter types under the graph's exact
// type equality predicate.
type MethodSet struct {
	methods []models.MethodSignature
	same    func(a, b models.TypeRef) bool
}

// NewMethodSet creates an empty set using the given type equality predicate
func NewMethodSet(same func(a, b models.TypeRef) bool) *MethodSet {
	return &MethodSet{same: same}
}

// Put inserts m, replacing an entry with the same signature in place
func (s *MethodSet) Put(m models.MethodSignature) {
	if i := s.indexOf(m); i >= 0 {
		s.methods[i] = m
		return
	}
	s.methods = append(s.methods, m)
}

// Remove deletes the entry with the same signature as m, if any
func (s *MethodSet) Remove(m models.MethodSignature) bool {
	i := s.indexOf(m)
	if i < 0 {
		return false
	}
	s.methods = append(s.methods[:i], s.methods[i+1:]...)
	return true
}

// Contains reports whether an entry with the same signature as m exists
func (s *MethodSet) Contains(m models.MethodSignature) bool {
	return s.indexOf(m) >= 0
}

// Get returns the first entry with the given name
func (s *MethodSet) Get(name string) (models.MethodSignature, bool) {
	for _, m := range s.methods {
		if m.Name == name {
			return m, true
		}
	}
	return models.MethodSignature{}, false
}

// Methods returns a copy of the entries in insertion order
func (s *MethodSet) Methods() []models.MethodSignature {
	out := make([]models.MethodSignature, len(s.methods))
	copy(out, s.methods)
	return out
}

// Len returns the number of entries
func (s *MethodSet) Len() int {
	return len(s.methods)
}

func (s *MethodSet) indexOf(m models.MethodSignature) int {
	for i, existing := range s.methods {
		if existing.SameSignature(m, s.same) {
			return i
		}
	}
	return -1
}
