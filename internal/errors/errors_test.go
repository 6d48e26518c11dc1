package errors

import (
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bisgardo/reification/internal/models"
)

func TestBaseError(t *testing.T) {
	err := New(SyntaxErrorCode, "unexpected token").
		WithLocation(SourceLocation{File: "Box.rdecl", Line: 2, Column: 7}).
		WithContext("token", "}").
		WithSuggestion("close the type parameter list")

	assert.Equal(t, "Box.rdecl:2:7: unexpected token", err.Error())
	assert.Equal(t, "unexpected token", err.Summary())
	assert.Equal(t, SyntaxErrorCode, err.ErrorCode())
	assert.Equal(t, "}", err.Context()["token"])
	assert.Equal(t, []string{"close the type parameter list"}, err.Suggestions())

	wrapped := Wrap(FileSystemErrorCode, "failed to read", fmt.Errorf("permission denied"))
	assert.Equal(t, "failed to read", wrapped.Error())
	assert.Equal(t, "failed to read: permission denied", wrapped.Summary())
	assert.EqualError(t, wrapped.Unwrap(), "permission denied")
}

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "MalformedHierarchy", MalformedHierarchyCode.String())
	assert.Equal(t, "UnsupportedConstruct", UnsupportedConstructCode.String())
	assert.Equal(t, "InvalidSignatureError", InvalidSignatureCode.String())
	assert.Equal(t, "ConstructorResolutionFailure", ConstructorResolutionCode.String())
	assert.Equal(t, "UnknownError", ErrorCode(99).String())
}

func TestMultipleErrors(t *testing.T) {
	collected := NewMultipleErrors()
	assert.NoError(t, collected.ErrorOrNil())
	assert.True(t, collected.IsEmpty())

	first := New(InvalidSignatureCode, "first").WithLocation(SourceLocation{File: "a.rdecl", Line: 1})
	collected.Add(first)
	assert.Same(t, first, collected.ErrorOrNil())

	collected.Add(New(ConstructorResolutionCode, "second"))
	err := collected.ErrorOrNil()
	require.Error(t, err)
	assert.Equal(t, 2, collected.Count())
	assert.Equal(t, "multiple errors (2 total):\n  1. a.rdecl:1: first\n  2. second", err.Error())
	assert.Equal(t, InvalidSignatureCode, CodeOf(err))
	assert.True(t, collected.HasCode(ConstructorResolutionCode))
	assert.Len(t, collected.GetByCode(InvalidSignatureCode), 1)
	assert.ErrorIs(t, err, first)
}

func TestCodeOfAndFlatten(t *testing.T) {
	assert.Equal(t, UnknownErrorCode, CodeOf(nil))
	assert.Equal(t, UnknownErrorCode, CodeOf(fmt.Errorf("plain")))

	inner := NewSyntaxError("bad")
	assert.Equal(t, SyntaxErrorCode, CodeOf(fmt.Errorf("context: %w", inner)))

	collected := CollectErrors(inner, New(ValidationErrorCode, "a"), New(ValidationErrorCode, "b"))
	flat := Flatten(collected)
	require.Len(t, flat, 3)
	assert.Equal(t, "b", flat[2].Summary())

	plain := Flatten(fmt.Errorf("plain"))
	require.Len(t, plain, 1)
	assert.Equal(t, UnknownErrorCode, plain[0].ErrorCode())
	assert.Nil(t, Flatten(nil))
}

func TestReificationErrors(t *testing.T) {
	method := models.MethodSignature{
		Name:     "newT",
		Params:   []models.Parameter{{Name: "size", Type: models.Primitive("int")}},
		Owner:    "com.example.Box",
		Location: SourceLocation{File: "Box.rdecl", Line: 4},
	}
	widget := models.Declared("com.example.Widget")

	ctor := NewConstructorResolutionError(widget, method)
	assert.Equal(t, "Box.rdecl:4: could not resolve constructor of type 'com.example.Widget' with parameters (int)", ctor.Error())
	assert.Equal(t, "newT", ctor.Context()["function_name"])
	assert.Equal(t, []string{"int"}, ctor.Parameters)

	sig := NewInvalidSignatureError(method, "must not have any parameters")
	assert.Equal(t, "auto-implemented abstract method 'newT(int)' must not have any parameters", sig.Summary())
	assert.Equal(t, InvalidSignatureCode, sig.ErrorCode())

	kind := NewMalformedHierarchyError("com.example.Box", "com.example.Base", models.InterfaceKind, models.ClassKind)
	assert.Equal(t, "expected type 'com.example.Base' of kind 'class' to have kind 'INTERFACE'", kind.Error())

	cycle := NewHierarchyCycleError("com.example.A", []string{"com.example.A", "com.example.B", "com.example.A"})
	assert.Contains(t, cycle.Error(), "com.example.A -> com.example.B -> com.example.A")

	unsupported := NewUnsupportedConstructError("final-class", "final class is "+NotYetImplemented, SourceLocation{})
	assert.Equal(t, "final-class", unsupported.Construct)
	assert.Equal(t, "final-class", unsupported.Context()["construct"])
}

func TestFromValidation(t *testing.T) {
	type settings struct {
		Format  string `validate:"oneof=java json"`
		Workers int    `validate:"gte=0"`
	}

	err := FromValidation("configuration", validator.New().Struct(settings{Format: "xml", Workers: -1}))
	require.Error(t, err)
	assert.Equal(t, ValidationErrorCode, CodeOf(err))

	flat := Flatten(err)
	require.Len(t, flat, 2)
	assert.Equal(t, "invalid configuration: validation failed for field 'Format': must be one of [java json]", flat[0].Summary())
	assert.Equal(t, "invalid configuration: validation failed for field 'Workers': must be at least 0", flat[1].Summary())

	assert.NoError(t, FromValidation("configuration", nil))
	assert.Equal(t, ValidationErrorCode, CodeOf(FromValidation("configuration", fmt.Errorf("odd"))))
}
