// Package token defines the lexical tokens produced by the lexer and consumed
// by the parser and semantic analyzer.
package token

import "fmt"

// Kind identifies the lexical category of a Token.
type Kind int

const (
	Invalid Kind = iota

	EOF
	Newline
	Indent
	Dedent

	Ident

	// Literal kinds, named to match types.FromTokenKind in internal/types.
	Int
	UInt
	Long
	ULong
	Float
	Double
	Bool

	// Keywords
	KwStruct
	KwFunc
	KwVar
	KwConst
	KwExport
	KwGlobal
	KwMap
	KwReturn
	KwIf
	KwElse
	KwWhile
	KwAs
	KwTo

	// Primitive type keywords
	KwVoid
	KwIntType
	KwUIntType
	KwLongType
	KwULongType
	KwFloatType
	KwDoubleType
	KwBoolType

	// Punctuation
	LParen
	RParen
	LBrace
	RBrace
	Comma
	Colon
	Dot

	// Operators
	Plus
	Minus
	Star
	Slash
	Percent
	Amp
	Pipe
	Caret
	Tilde
	Bang
	Shl
	Shr
	RotL
	RotR
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	AndAnd
	OrOr
	Assign
)

var names = map[Kind]string{
	Invalid: "Invalid", EOF: "EOF", Newline: "Newline", Indent: "Indent", Dedent: "Dedent",
	Ident: "Ident",
	Int: "Int", UInt: "UInt", Long: "Long", ULong: "ULong", Float: "Float", Double: "Double", Bool: "Bool",
	KwStruct: "struct", KwFunc: "func", KwVar: "var", KwConst: "const", KwExport: "export",
	KwGlobal: "global", KwMap: "map", KwReturn: "return", KwIf: "if", KwElse: "else", KwWhile: "while",
	KwAs: "as", KwTo: "to",
	KwVoid: "void", KwIntType: "int", KwUIntType: "uint", KwLongType: "long", KwULongType: "ulong",
	KwFloatType: "float", KwDoubleType: "double", KwBoolType: "bool",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", Comma: ",", Colon: ":", Dot: ".",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%",
	Amp: "&", Pipe: "|", Caret: "^", Tilde: "~", Bang: "!",
	Shl: "<<", Shr: ">>", RotL: "<|", RotR: "|>",
	Eq: "==", Ne: "!=", Lt: "<", Le: "<=", Gt: ">", Ge: ">=",
	AndAnd: "&&", OrOr: "||", Assign: "=",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords maps the reserved words (including primitive type names, which are
// keywords per the surface grammar) to their token kind.
var Keywords = map[string]Kind{
	"struct": KwStruct, "func": KwFunc, "var": KwVar, "const": KwConst,
	"export": KwExport, "global": KwGlobal, "map": KwMap,
	"return": KwReturn, "if": KwIf, "else": KwElse, "while": KwWhile,
	"as": KwAs, "to": KwTo,
	"void": KwVoid, "int": KwIntType, "uint": KwUIntType, "long": KwLongType,
	"ulong": KwULongType, "float": KwFloatType, "double": KwDoubleType, "bool": KwBoolType,
	"true": Bool, "false": Bool,
}

// MultiCharOps lists multi-character operator spellings, longest first so the
// lexer can match greedily before falling back to single-character operators.
var MultiCharOps = []struct {
	Text string
	Kind Kind
}{
	{"<|", RotL}, {"|>", RotR},
	{"&&", AndAnd}, {"||", OrOr},
	{"==", Eq}, {"!=", Ne}, {"<=", Le}, {">=", Ge}, {"<<", Shl}, {">>", Shr},
}

// SingleCharOps maps single-byte punctuation/operator characters to a kind.
var SingleCharOps = map[byte]Kind{
	'+': Plus, '-': Minus, '*': Star, '/': Slash, '%': Percent,
	'&': Amp, '|': Pipe, '^': Caret, '~': Tilde, '!': Bang,
	'<': Lt, '>': Gt, '=': Assign,
	'(': LParen, ')': RParen, '{': LBrace, '}': RBrace,
	',': Comma, ':': Colon, '.': Dot,
}

// Token is a single lexical unit with its source position.
type Token struct {
	Kind Kind
	Text string
	Row  int
	Col  int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Kind, t.Text, t.Row, t.Col)
}

// IsTypeKeyword reports whether k spells a primitive type name.
func (k Kind) IsTypeKeyword() bool {
	switch k {
	case KwVoid, KwIntType, KwUIntType, KwLongType, KwULongType, KwFloatType, KwDoubleType, KwBoolType:
		return true
	}
	return false
}
