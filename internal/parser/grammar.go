package parser

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// declLexer tokenizes the declaration language. Rules are tried in order.
var declLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*|/\*([^*]|\*+[^*/])*\*+/`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Char", Pattern: `'(\\.|[^'\\])*'`},
	{Name: "Number", Pattern: `[0-9][0-9a-zA-Z_.]*`},
	{Name: "Ident", Pattern: `[a-zA-Z_$][a-zA-Z0-9_$]*`},
	{Name: "Brace", Pattern: `[{}]`},
	{Name: "Punct", Pattern: `[-+*/%<>()\[\];,.@?&|=!~^:]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

func buildOptions() []participle.Option {
	return []participle.Option{
		participle.Lexer(declLexer),
		participle.Elide("Whitespace", "Comment"),
		participle.UseLookahead(64),
	}
}

var (
	fileParser = participle.MustBuild[fileNode](buildOptions()...)
	typeParser = participle.MustBuild[typeNode](buildOptions()...)
)

// fileNode is one declaration file
type fileNode struct {
	Pos     lexer.Position
	Package string        `parser:"('package' @Ident (@'.' @Ident)* ';')?"`
	Imports []*importNode `parser:"@@*"`
	Types   []*declNode   `parser:"@@*"`
}

// importNode is a single-type, on-demand or static import
type importNode struct {
	Pos    lexer.Position
	Static bool   `parser:"'import' @'static'?"`
	Path   string `parser:"@Ident (@'.' (@Ident | @'*'))* ';'"`
}

// declNode is a top-level type declaration
type declNode struct {
	Pos    lexer.Position
	Prefix []*prefixNode `parser:"@@*"`
	Body   *bodyNode     `parser:"@@"`
}

// prefixNode is an annotation or a modifier keyword
type prefixNode struct {
	Annotation *annotationNode `parser:"  @@"`
	Modifier   string          `parser:"| @('public' | 'protected' | 'private' | 'abstract' | 'static' | 'final' | 'default' | 'sealed' | 'strictfp')"`
}

// annotationNode is '@Name' with its raw argument tokens
type annotationNode struct {
	Pos  lexer.Position
	Name string   `parser:"'@' @Ident (@'.' @Ident)*"`
	Args []string `parser:"('(' @(~')')* ')')?"`
}

// bodyNode is the part of a type declaration following its modifiers
type bodyNode struct {
	Pos        lexer.Position
	Kind       string           `parser:"@('class' | 'interface')"`
	Name       string           `parser:"@Ident"`
	TypeParams []*typeParamNode `parser:"('<' @@ (',' @@)* '>')?"`
	Extends    []*typeNode      `parser:"('extends' @@ (',' @@)*)?"`
	Implements []*typeNode      `parser:"('implements' @@ (',' @@)*)?"`
	Members    []*memberNode    `parser:"'{' @@* '}'"`
}

// typeParamNode is a declared type parameter with its annotations and bounds
type typeParamNode struct {
	Pos         lexer.Position
	Annotations []*annotationNode `parser:"@@*"`
	Name        string            `parser:"@Ident"`
	Bounds      []*typeNode       `parser:"('extends' @@ ('&' @@)*)?"`
}

// memberNode is a nested type, constructor, method or field
type memberNode struct {
	Pos         lexer.Position
	Prefix      []*prefixNode    `parser:"@@*"`
	Nested      *bodyNode        `parser:"(  @@"`
	Constructor *constructorNode `parser:" | @@"`
	Method      *methodNode      `parser:" | @@"`
	Field       *fieldNode       `parser:" | @@"`
	Empty       bool             `parser:" | @';' )"`
}

// constructorNode is a constructor declaration
type constructorNode struct {
	Pos    lexer.Position
	Name   string       `parser:"@Ident '('"`
	Params []*paramNode `parser:"(@@ (',' @@)*)? ')'"`
	Throws []*typeNode  `parser:"('throws' @@ (',' @@)*)?"`
	Body   *blockNode   `parser:"@@"`
}

// methodNode is a method declaration, with or without a body
type methodNode struct {
	Pos        lexer.Position
	TypeParams []*typeParamNode `parser:"('<' @@ (',' @@)* '>')?"`
	Return     *typeNode        `parser:"@@"`
	Name       string           `parser:"@Ident '('"`
	Params     []*paramNode     `parser:"(@@ (',' @@)*)? ')'"`
	Throws     []*typeNode      `parser:"('throws' @@ (',' @@)*)?"`
	Body       *blockNode       `parser:"(';' | @@)"`
}

// fieldNode is a field declaration; initializers are skipped
type fieldNode struct {
	Pos  lexer.Position
	Type *typeNode `parser:"@@"`
	Name string    `parser:"@Ident ('=' (~';')*)? ';'"`
}

// paramNode is a formal parameter
type paramNode struct {
	Pos         lexer.Position
	Annotations []*annotationNode `parser:"@@*"`
	Final       bool              `parser:"@'final'?"`
	Type        *typeNode         `parser:"@@"`
	Name        string            `parser:"@Ident"`
}

// blockNode is a balanced brace block whose contents are not interpreted
type blockNode struct {
	Items []*blockItem `parser:"'{' @@* '}'"`
}

type blockItem struct {
	Block *blockNode `parser:"  @@"`
	Token string     `parser:"| @(Ident | Punct | String | Char | Number)"`
}

// typeNode is a type expression
type typeNode struct {
	Pos  lexer.Position
	Name string         `parser:"@Ident (@'.' @Ident)*"`
	Args []*typeArgNode `parser:"('<' (@@ (',' @@)*)? '>')?"`
	Dims []string       `parser:"(@'[' ']')*"`
}

// typeArgNode is a type argument: a wildcard or a type
type typeArgNode struct {
	Wildcard *wildcardNode `parser:"  @@"`
	Type     *typeNode     `parser:"| @@"`
}

// wildcardNode is '?' with an optional bound
type wildcardNode struct {
	Direction string    `parser:"'?' @('extends' | 'super')?"`
	Bound     *typeNode `parser:"@@?"`
}
