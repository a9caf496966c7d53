package weave

import (
	"fmt"

	"github.com/sahilm/fuzzy"

	"github.com/weavetpl/weave/lexer"
)

// ErrorKind is a closed taxonomy of everything that can go wrong while
// parsing or rendering a template (§7).
type ErrorKind int

const (
	ErrSyntax ErrorKind = iota
	ErrUndefinedVariable
	ErrUnknownFunction
	ErrInvalidOperation
	ErrDivisionByZero
	ErrIndexOutOfRange
	ErrEmptyContainer
	ErrTemplateNotFound
	ErrFileIO
	ErrConfiguration
	ErrSuperOutsideBlock
	ErrJSONPointer
)

func (k ErrorKind) String() string {
	switch k {
	case ErrSyntax:
		return "syntax error"
	case ErrUndefinedVariable:
		return "undefined variable"
	case ErrUnknownFunction:
		return "unknown function"
	case ErrInvalidOperation:
		return "invalid operation"
	case ErrDivisionByZero:
		return "division by zero"
	case ErrIndexOutOfRange:
		return "index out of range"
	case ErrEmptyContainer:
		return "empty container"
	case ErrTemplateNotFound:
		return "template not found"
	case ErrFileIO:
		return "file I/O error"
	case ErrConfiguration:
		return "configuration error"
	case ErrSuperOutsideBlock:
		return "super() outside block"
	case ErrJSONPointer:
		return "invalid pointer"
	default:
		return "error"
	}
}

// Category groups ErrorKinds the way callers typically want to branch on
// them: did this fail before a byte of output was produced (parse), while
// producing output (render), talking to the filesystem, or configuring
// the Environment itself.
type Category int

const (
	CategoryParse Category = iota
	CategoryRender
	CategoryFile
	CategoryConfiguration
)

func (c Category) String() string {
	switch c {
	case CategoryParse:
		return "parse"
	case CategoryRender:
		return "render"
	case CategoryFile:
		return "file"
	case CategoryConfiguration:
		return "configuration"
	default:
		return "unknown"
	}
}

// Category classifies the error kind.
func (k ErrorKind) Category() Category {
	switch k {
	case ErrSyntax:
		return CategoryParse
	case ErrTemplateNotFound, ErrFileIO:
		return CategoryFile
	case ErrConfiguration:
		return CategoryConfiguration
	default:
		return CategoryRender
	}
}

// Error is the error type produced by render failures and by
// Environment-level failures such as template lookup and file I/O.
// Parse failures are returned as the parser's *parser.Error (or a plain
// lexer error) and are not converted to this type.
type Error struct {
	Kind       ErrorKind
	Message    string
	Span       *lexer.Span
	Name       string // template name
	Source     string // template source, for error display
	Suggestion string // best fuzzy match for an unknown name, if any
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Suggestion != "" {
		msg = fmt.Sprintf("%s (did you mean %q?)", msg, e.Suggestion)
	}
	if e.Name != "" && e.Span != nil {
		return fmt.Sprintf("%s: %s (at %s line %d)", e.Kind, msg, e.Name, e.Span.StartLine)
	}
	if e.Span != nil {
		return fmt.Sprintf("%s: %s (at line %d)", e.Kind, msg, e.Span.StartLine)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

// Category classifies the error.
func (e *Error) Category() Category {
	return e.Kind.Category()
}

// NewError creates a new error.
func NewError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// WithSpan attaches a source span.
func (e *Error) WithSpan(span lexer.Span) *Error {
	e.Span = &span
	return e
}

// WithName attaches the template name.
func (e *Error) WithName(name string) *Error {
	e.Name = name
	return e
}

// WithSource attaches the template source.
func (e *Error) WithSource(source string) *Error {
	e.Source = source
	return e
}

// WithSuggestion runs name through candidates and, if a reasonable fuzzy
// match is found, attaches it as the "did you mean" suggestion. Used for
// unknown function/filter/test/block names (§2.2).
func (e *Error) WithSuggestion(name string, candidates []string) *Error {
	matches := fuzzy.Find(name, candidates)
	if len(matches) > 0 {
		e.Suggestion = candidates[matches[0].Index]
	}
	return e
}
