package models

// MethodBody is the synthesized statement of a generated method.
// The concrete variants are NewInstanceBody and DescriptorBody.
type MethodBody interface {
	body()
}

// NewInstanceBody constructs Type passing Args positionally and returns it
type NewInstanceBody struct {
	Type TypeRef
	Args []string
}

// DescriptorBody returns the static type descriptor of Type
type DescriptorBody struct {
	Type TypeRef
}

func (NewInstanceBody) body() {}
func (DescriptorBody) body()  {}

// MethodSpec represents a synthesized overriding method
type MethodSpec struct {
	Name      string      // same name as the overridden method
	Modifiers Modifier    // visibility, plus Default inside interfaces
	Params    []Parameter // forwarded parameter list
	Return    TypeRef     // rewritten return type
	Throws    []TypeRef   // rewritten thrown exception types
	Body      MethodBody  // synthesized body
	Override  bool        // whether the method overrides an inherited one
}

// GeneratedTypeDescriptor represents the specialized type to emit
type GeneratedTypeDescriptor struct {
	Package   string       // namespace of the generated type
	Name      string       // simple name of the generated type
	Kind      TypeKind     // same kind as the target
	Supertype TypeRef      // target applied to the bound type argument
	Methods   []MethodSpec // synthesized methods in resolution order
	Abstract  bool         // class must remain abstract
	Origin    string       // qualified name of the target
}

// QualifiedName returns the package-qualified name of the generated type
func (d *GeneratedTypeDescriptor) QualifiedName() string {
	if d.Package == "" {
		return d.Name
	}
	return d.Package + "." + d.Name
}
