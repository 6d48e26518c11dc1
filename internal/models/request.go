package models

// Handle addresses a node in a type graph snapshot
type Handle int

// NoHandle is the zero value for an absent node
const NoHandle Handle = -1

// Binding associates a type parameter with its concrete type argument
type Binding struct {
	Param string   // type parameter name
	Type  *TypeRef // bound type argument, nil when unbound
}

// IsBound reports whether the parameter carries a concrete type argument
func (b Binding) IsBound() bool {
	return b.Type != nil
}

// ReificationRequest asks for one specialization of a generic type
type ReificationRequest struct {
	Target   Handle         // node handle of the generic type
	Bindings []Binding      // ordered type parameter bindings
	Anchor   SourceLocation // where the request originated
}

// NewReificationRequest derives a request from the markers on a declaration's
// type parameters. Only the first marker of a parameter becomes its binding;
// repeated markers are detected from the declaration itself.
func NewReificationRequest(target Handle, decl *TypeDeclaration) ReificationRequest {
	req := ReificationRequest{
		Target:   target,
		Bindings: make([]Binding, 0, len(decl.TypeParams)),
		Anchor:   decl.Location,
	}
	for _, tp := range decl.TypeParams {
		b := Binding{Param: tp.Name}
		if len(tp.Bindings) > 0 {
			t := tp.Bindings[0]
			b.Type = &t
			req.Anchor = tp.Location
		}
		req.Bindings = append(req.Bindings, b)
	}
	return req
}

// Bound returns the bound bindings in declaration order
func (r ReificationRequest) Bound() []Binding {
	var bound []Binding
	for _, b := range r.Bindings {
		if b.IsBound() {
			bound = append(bound, b)
		}
	}
	return bound
}
