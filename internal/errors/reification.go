package errors

import (
	"fmt"
	"strings"

	"github.com/bisgardo/reification/internal/models"
)

// MalformedHierarchyError reports a hierarchy node whose kind does not match
// the way it is referenced, a cycle, or an unresolvable strict reference
type MalformedHierarchyError struct {
	*BaseError
	TypeName string // the node that holds the reference
	Expected string // expected kind of the referenced node
	Actual   string // actual kind of the referenced node
}

// NewMalformedHierarchyError creates a kind-mismatch error
func NewMalformedHierarchyError(typeName, referenced string, expected, actual models.TypeKind) *MalformedHierarchyError {
	message := fmt.Sprintf("expected type '%s' of kind '%s' to have kind '%s'", referenced, actual, strings.ToUpper(expected.String()))
	return &MalformedHierarchyError{
		BaseError: New(MalformedHierarchyCode, message).
			WithContext("type_name", typeName).
			WithContext("referenced_type", referenced),
		TypeName: typeName,
		Expected: expected.String(),
		Actual:   actual.String(),
	}
}

// NewHierarchyCycleError creates an error for a type that is its own ancestor
func NewHierarchyCycleError(typeName string, path []string) *MalformedHierarchyError {
	message := fmt.Sprintf("type '%s' is its own ancestor: %s", typeName, strings.Join(path, " -> "))
	return &MalformedHierarchyError{
		BaseError: New(MalformedHierarchyCode, message).WithContext("type_name", typeName),
		TypeName:  typeName,
	}
}

// NewHierarchyDepthError creates an error for a hierarchy deeper than the limit
func NewHierarchyDepthError(typeName string, limit int) *MalformedHierarchyError {
	message := fmt.Sprintf("hierarchy of type '%s' exceeds the maximum depth of %d", typeName, limit)
	return &MalformedHierarchyError{
		BaseError: New(MalformedHierarchyCode, message).
			WithContext("type_name", typeName).
			WithSuggestion("Raise max_depth in the configuration if the hierarchy is intentional"),
		TypeName: typeName,
	}
}

// NewUnresolvedReferenceError creates an error for a supertype missing from the snapshot
func NewUnresolvedReferenceError(typeName, referenced string) *MalformedHierarchyError {
	message := fmt.Sprintf("supertype '%s' of type '%s' is not declared", referenced, typeName)
	return &MalformedHierarchyError{
		BaseError: New(MalformedHierarchyCode, message).
			WithContext("type_name", typeName).
			WithContext("referenced_type", referenced).
			WithSuggestion("Declare the supertype in an input file or disable strict_references"),
		TypeName: typeName,
	}
}

// UnsupportedConstructError reports a request the engine permanently rejects
// or does not implement yet
type UnsupportedConstructError struct {
	*BaseError
	Construct string // short name of the rejected construct
}

// NotYetImplemented is appended to messages for constructs that may be supported later
const NotYetImplemented = "not yet implemented"

// NotSupported is appended to messages for constructs that are permanently rejected
const NotSupported = "not supported"

// NewUnsupportedConstructError creates an unsupported construct error
func NewUnsupportedConstructError(construct, message string, loc SourceLocation) *UnsupportedConstructError {
	return &UnsupportedConstructError{
		BaseError: New(UnsupportedConstructCode, message).
			WithLocation(loc).
			WithContext("construct", construct),
		Construct: construct,
	}
}

// InvalidSignatureError reports a convention method whose signature cannot be synthesized
type InvalidSignatureError struct {
	*BaseError
	Method string // the offending method
}

// NewInvalidSignatureError creates an invalid signature error
func NewInvalidSignatureError(method models.MethodSignature, reason string) *InvalidSignatureError {
	message := fmt.Sprintf("auto-implemented abstract method '%s' %s", method, reason)
	return &InvalidSignatureError{
		BaseError: New(InvalidSignatureCode, message).
			WithLocation(method.Location).
			WithContext("function_name", method.Name).
			WithContext("type_name", method.Owner),
		Method: method.String(),
	}
}

// ConstructorResolutionError reports that no constructor matches a NewInstance method exactly
type ConstructorResolutionError struct {
	*BaseError
	TypeName   string   // the type that should have been constructed
	Parameters []string // the parameter types searched for
}

// NewConstructorResolutionError creates a constructor resolution error
func NewConstructorResolutionError(bound models.TypeRef, method models.MethodSignature) *ConstructorResolutionError {
	params := make([]string, len(method.Params))
	for i, p := range method.Params {
		params[i] = p.Type.String()
	}
	message := fmt.Sprintf("could not resolve constructor of type '%s' with parameters (%s)", bound, strings.Join(params, ", "))
	return &ConstructorResolutionError{
		BaseError: New(ConstructorResolutionCode, message).
			WithLocation(method.Location).
			WithContext("function_name", method.Name).
			WithContext("type_name", bound.String()).
			WithSuggestion(fmt.Sprintf("Declare a constructor %s(%s) whose parameter types match exactly and in order", bound.SimpleName(), strings.Join(params, ", "))),
		TypeName:   bound.String(),
		Parameters: params,
	}
}
