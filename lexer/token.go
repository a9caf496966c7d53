package lexer

import "fmt"

// TokenType identifies the kind of a lexed token.
type TokenType int

const (
	TokenTemplateData TokenType = iota

	TokenVariableStart // {{
	TokenVariableEnd   // }}
	TokenBlockStart    // {%
	TokenBlockEnd      // %}
	TokenCommentStart  // {#
	TokenCommentEnd    // #}

	TokenIdent
	TokenString
	TokenInteger // fits in int64
	TokenInt128  // overflowed int64, kept as decimal text
	TokenFloat

	TokenPlus
	TokenMinus
	TokenMul
	TokenDiv
	TokenMod
	TokenPow

	TokenEq
	TokenNe
	TokenLt
	TokenLe
	TokenGt
	TokenGe

	TokenAssign

	TokenDot
	TokenComma
	TokenColon
	TokenPipe
	TokenParenOpen
	TokenParenClose
	TokenBracketOpen
	TokenBracketClose

	// Keywords
	TokenTrue
	TokenFalse
	TokenNone
	TokenAnd
	TokenOr
	TokenNot
	TokenIn
	TokenIf
	TokenElse
	TokenElif
	TokenEndif
	TokenFor
	TokenEndfor
	TokenBlock
	TokenEndblock
	TokenExtends
	TokenInclude
	TokenSet
	TokenRaw
	TokenEndraw

	TokenEOF
)

var tokenTypeNames = map[TokenType]string{
	TokenTemplateData:  "TemplateData",
	TokenVariableStart: "VariableStart",
	TokenVariableEnd:   "VariableEnd",
	TokenBlockStart:    "BlockStart",
	TokenBlockEnd:      "BlockEnd",
	TokenCommentStart:  "CommentStart",
	TokenCommentEnd:    "CommentEnd",
	TokenIdent:         "Ident",
	TokenString:        "String",
	TokenInteger:       "Int",
	TokenInt128:        "Int128",
	TokenFloat:         "Float",
	TokenPlus:          "Plus",
	TokenMinus:         "Minus",
	TokenMul:           "Mul",
	TokenDiv:           "Div",
	TokenMod:           "Mod",
	TokenPow:           "Pow",
	TokenEq:            "Eq",
	TokenNe:            "Ne",
	TokenLt:            "Lt",
	TokenLe:            "Le",
	TokenGt:            "Gt",
	TokenGe:            "Ge",
	TokenAssign:        "Assign",
	TokenDot:           "Dot",
	TokenComma:         "Comma",
	TokenColon:         "Colon",
	TokenPipe:          "Pipe",
	TokenParenOpen:     "ParenOpen",
	TokenParenClose:    "ParenClose",
	TokenBracketOpen:   "BracketOpen",
	TokenBracketClose:  "BracketClose",
	TokenTrue:          "True",
	TokenFalse:         "False",
	TokenNone:          "None",
	TokenAnd:           "And",
	TokenOr:            "Or",
	TokenNot:           "Not",
	TokenIn:            "In",
	TokenIf:            "If",
	TokenElse:          "Else",
	TokenElif:          "Elif",
	TokenEndif:         "Endif",
	TokenFor:           "For",
	TokenEndfor:        "Endfor",
	TokenBlock:         "Block",
	TokenEndblock:      "Endblock",
	TokenExtends:       "Extends",
	TokenInclude:       "Include",
	TokenSet:           "Set",
	TokenRaw:           "Raw",
	TokenEndraw:        "Endraw",
	TokenEOF:           "EOF",
}

func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

// Keywords maps reserved identifiers to their token type. Anything not
// listed here lexes as a plain TokenIdent.
var Keywords = map[string]TokenType{
	"true":    TokenTrue,
	"false":   TokenFalse,
	"null":    TokenNone,
	"none":    TokenNone,
	"and":     TokenAnd,
	"or":      TokenOr,
	"not":     TokenNot,
	"in":      TokenIn,
	"if":      TokenIf,
	"else":    TokenElse,
	"elif":    TokenElif,
	"endif":   TokenEndif,
	"for":     TokenFor,
	"endfor":  TokenEndfor,
	"block":   TokenBlock,
	"endblock": TokenEndblock,
	"extends": TokenExtends,
	"include": TokenInclude,
	"set":     TokenSet,
	"raw":     TokenRaw,
	"endraw":  TokenEndraw,
}

// Span is a half-open byte range into a template's source text, together
// with the (line, column) of its start and end for diagnostics.
type Span struct {
	StartLine   uint32
	StartCol    uint32
	StartOffset uint32
	EndLine     uint32
	EndCol      uint32
	EndOffset   uint32
}

// Token is a single lexed unit: its type, literal text (for idents,
// strings, numbers, template data) and source span.
type Token struct {
	Type  TokenType
	Value string
	Span  Span
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Type, t.Value)
}
