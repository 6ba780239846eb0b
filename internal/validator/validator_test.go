package validator_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schwa-lang/schwa/internal/ast"
	"github.com/schwa-lang/schwa/internal/token"
	"github.com/schwa-lang/schwa/internal/validator"
)

func TestWellFormedTreePassesValidation(t *testing.T) {
	ret := ast.New(ast.Return, token.Token{}, ast.New(ast.Literal, token.Token{Kind: token.Int, Text: "1"}))
	body := ast.New(ast.Block, token.Token{}, ret)
	params := ast.New(ast.Parameters, token.Token{})
	fn := ast.New(ast.FunctionDef, token.Token{Kind: token.KwIntType, Text: "int"}, params, body)
	root := ast.New(ast.Program, token.Token{}, fn)

	log := validator.Validate(root)
	require.Empty(t, log.Diagnostics)
	require.True(t, fn.Valid)
	require.True(t, ret.Valid)
}

func TestFunctionDefWrongChildCountIsInvalid(t *testing.T) {
	fn := ast.New(ast.FunctionDef, token.Token{}, ast.New(ast.Parameters, token.Token{}))
	root := ast.New(ast.Program, token.Token{}, fn)

	log := validator.Validate(root)
	require.NotEmpty(t, log.Diagnostics)
	require.False(t, fn.Valid)
}

func TestFunctionDefWrongChildKindIsInvalid(t *testing.T) {
	fn := ast.New(ast.FunctionDef, token.Token{}, ast.New(ast.Block, token.Token{}), ast.New(ast.Block, token.Token{}))
	root := ast.New(ast.Program, token.Token{}, fn)

	log := validator.Validate(root)
	require.NotEmpty(t, log.Diagnostics)
	require.False(t, fn.Valid)
}

func TestReturnVoidMustHaveNoChildren(t *testing.T) {
	rv := ast.New(ast.ReturnVoid, token.Token{}, ast.New(ast.Literal, token.Token{}))
	root := ast.New(ast.Program, token.Token{}, rv)

	log := validator.Validate(root)
	require.NotEmpty(t, log.Diagnostics)
	require.False(t, rv.Valid)
}

func TestIfAcceptsTwoOrThreeChildren(t *testing.T) {
	cond := ast.New(ast.Literal, token.Token{Kind: token.Bool, Text: "true"})
	then := ast.New(ast.Block, token.Token{})
	twoChild := ast.New(ast.If, token.Token{}, cond, then)
	root := ast.New(ast.Program, token.Token{}, twoChild)

	log := validator.Validate(root)
	require.Empty(t, log.Diagnostics)
	require.True(t, twoChild.Valid)

	elseCond := ast.New(ast.Literal, token.Token{Kind: token.Bool, Text: "true"})
	threeChild := ast.New(ast.If, token.Token{}, elseCond, ast.New(ast.Block, token.Token{}), ast.New(ast.Block, token.Token{}))
	log = validator.Validate(ast.New(ast.Program, token.Token{}, threeChild))
	require.Empty(t, log.Diagnostics)
	require.True(t, threeChild.Valid)
}

func TestMapDeclRequiresVariableDefAndLiteral(t *testing.T) {
	decl := ast.New(ast.VariableDef, token.Token{Kind: token.Ident, Text: "Point"})
	decl.Name = "p"
	badOffset := ast.New(ast.VariableId, token.Token{Text: "notALiteral"})
	mapNode := ast.New(ast.Map, token.Token{}, decl, badOffset)
	root := ast.New(ast.Program, token.Token{}, mapNode)

	log := validator.Validate(root)
	require.NotEmpty(t, log.Diagnostics)
	require.False(t, mapNode.Valid)
}
