package models

// Strategy is the synthesis approach chosen for one abstract method.
// The concrete variants are NewInstance, ClassDescriptor and Unimplemented.
type Strategy interface {
	strategy()
	String() string
}

// NewInstance synthesizes a method constructing the bound type
type NewInstance struct {
	Bound TypeRef
}

// ClassDescriptor synthesizes a method returning the bound type's descriptor
type ClassDescriptor struct {
	Bound TypeRef
}

// Unimplemented leaves the method abstract
type Unimplemented struct{}

func (NewInstance) strategy()     {}
func (ClassDescriptor) strategy() {}
func (Unimplemented) strategy()   {}

func (s NewInstance) String() string     { return "NewInstance{" + s.Bound.String() + "}" }
func (s ClassDescriptor) String() string { return "ClassDescriptor{" + s.Bound.String() + "}" }
func (Unimplemented) String() string     { return "Unimplemented" }

// ClassifiedMethod pairs an abstract method with its strategy
type ClassifiedMethod struct {
	Method   MethodSignature
	Strategy Strategy
	Reserved bool // name is reserved for a strategy that is not wired yet
}
