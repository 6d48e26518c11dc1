package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bisgardo/reification/internal/errors"
	"github.com/bisgardo/reification/internal/models"
)

const snapshotSource = `types:
  - package: com.example
    name: Box
    kind: class
    modifiers: [public, abstract]
    type_params:
      - name: T
        reify: [com.example.Widget]
    superclass: com.example.Base<T>
    methods:
      - name: newT
        modifiers: [public, abstract]
        params:
          - name: size
            type: int
        returns: T
        throws: [java.io.IOException]
      - name: map
        modifiers: [public, abstract]
        type_params: [R]
        returns: java.util.List<R>
  - package: com.example
    name: Widget
    kind: class
    constructors:
      - modifiers: [public]
        params:
          - name: size
            type: int
  - package: com.example
    name: Source
    kind: interface
    methods:
      - name: get
        returns: java.lang.Object
      - name: name
        returns: String
`

func TestParseSnapshot(t *testing.T) {
	decls, err := ParseSnapshot("types.snapshot.yaml", []byte(snapshotSource))
	require.NoError(t, err)
	require.Len(t, decls, 3)

	box := decls[0]
	assert.Equal(t, "com.example.Box", box.QualifiedName())
	assert.Equal(t, models.Public|models.Abstract, box.Modifiers)
	assert.Equal(t, models.SourceLocation{File: "types.snapshot.yaml", Line: 2, Column: 5}, box.Location)
	require.NotNil(t, box.Superclass)
	assert.Equal(t, models.Declared("com.example.Base", models.TypeVariable("T")), *box.Superclass)
	assert.Equal(t, []models.TypeRef{models.Declared("com.example.Widget")}, box.TypeParams[0].Bindings)
	assert.Equal(t, 7, box.TypeParams[0].Location.Line)

	require.Len(t, box.Methods, 2)
	assert.Equal(t, models.TypeVariable("T"), box.Methods[0].Return)
	assert.Equal(t, []models.Parameter{{Name: "size", Type: models.Primitive("int")}}, box.Methods[0].Params)
	assert.Equal(t, "com.example.Box", box.Methods[0].Owner)
	assert.Equal(t, models.Declared("java.util.List", models.TypeVariable("R")), box.Methods[1].Return)

	widget := decls[1]
	require.Len(t, widget.Constructors, 1)
	assert.Equal(t, models.Public, widget.Constructors[0].Modifiers)

	// Interface methods are implicitly public.
	source := decls[2]
	assert.Equal(t, models.InterfaceKind, source.Kind)
	assert.Equal(t, models.Public, source.Methods[0].Modifiers)
	assert.Equal(t, models.Declared("java.lang.String"), source.Methods[1].Return)
}

func TestParseSnapshot_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		code errors.ErrorCode
		want string
	}{
		{
			name: "malformed yaml",
			yaml: "types: [",
			code: errors.SyntaxErrorCode,
		},
		{
			name: "missing name",
			yaml: "types:\n  - kind: class\n",
			code: errors.ValidationErrorCode,
			want: "name",
		},
		{
			name: "unknown kind",
			yaml: "types:\n  - name: Box\n    kind: enum\n",
			code: errors.ValidationErrorCode,
			want: "kind",
		},
		{
			name: "unknown modifier",
			yaml: "types:\n  - name: Box\n    kind: class\n    modifiers: [sealed]\n",
			code: errors.ValidationErrorCode,
			want: "modifiers",
		},
		{
			name: "bad type expression",
			yaml: "types:\n  - name: Box\n    kind: class\n    methods:\n      - name: get\n        returns: List<\n",
			code: errors.SyntaxErrorCode,
			want: "invalid type expression",
		},
		{
			name: "interface with superclass",
			yaml: "types:\n  - name: Box\n    kind: interface\n    superclass: Base\n",
			code: errors.SyntaxErrorCode,
			want: "interface 'Box' cannot have a superclass",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSnapshot("types.snapshot.yaml", []byte(tt.yaml))
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.CodeOf(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
