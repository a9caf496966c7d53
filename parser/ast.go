package parser

import (
	"github.com/weavetpl/weave/registry"
	"github.com/weavetpl/weave/value"
)

// Span locates a node in the original source text: Offset/Length index
// into the template's source bytes, Line/Col are 1-based for error
// messages. Most nodes keep their span so graceful-error mode can echo
// the exact original text on failure.
type Span struct {
	Offset int
	Length int
	Line   uint32
	Col    uint32
}

// Node is implemented by every AST node.
type Node interface {
	Span() Span
}

// Text is a raw content slice emitted verbatim between tags.
type Text struct {
	Content string
	span    Span
}

func (t *Text) Span() Span { return t.span }

// Literal is a precomputed constant value.
type Literal struct {
	Value value.Value
	span  Span
}

func (l *Literal) Span() Span { return l.span }

// Data is a variable reference. Pointer is Name with dots converted to
// slashes, the form the value algebra's path lookup expects.
type Data struct {
	Name    string
	Pointer string
	span    Span
}

func (d *Data) Span() Span { return d.span }

// Function is an operator application or call, resolved against the
// function registry at parse time (§4.2). Builtins carry Op with Call
// nil; host callbacks carry OpCallback with Call (and optionally
// Inplace) set; unresolved names in graceful mode carry OpNone.
type Function struct {
	Name       string
	Op         registry.OperationID
	Args       []Node
	Call       registry.Callback
	Inplace    registry.InplaceCallback
	Precedence int
	RightAssoc bool
	span       Span
}

func (f *Function) Span() Span { return f.span }

// ExpressionList is the root of one expression: exactly one subtree
// that evaluates to exactly one value.
type ExpressionList struct {
	Root Node
	span Span
}

func (e *ExpressionList) Span() Span { return e.span }

// Block is an ordered sequence of statement nodes.
type Block struct {
	Statements []Node
	span       Span
}

func (b *Block) Span() Span { return b.span }

// ForArray iterates an array, binding each element to ValueName.
type ForArray struct {
	ValueName string
	Iter      Node
	Condition Node // optional
	Body      *Block
	Else      *Block // optional, rendered when Iter yields zero elements
	span      Span
}

func (f *ForArray) Span() Span { return f.span }

// ForObject iterates an object's entries, binding key/value names.
type ForObject struct {
	KeyName   string
	ValueName string
	Iter      Node
	Condition Node // optional
	Body      *Block
	Else      *Block // optional
	span      Span
}

func (f *ForObject) Span() Span { return f.span }

// If is a conditional; FalseBranch is nil, a *Block (else), or a nested
// *If (elif chain).
type If struct {
	Condition   Node
	TrueBranch  *Block
	FalseBranch Node
	span        Span
}

func (i *If) Span() Span { return i.span }

// Include renders another template's output inline at this point.
type Include struct {
	FileName      Node
	IgnoreMissing bool
	span          Span
}

func (i *Include) Span() Span { return i.span }

// Extends marks this template as inheriting a parent's layout. Resolved
// at parse time: the parser splices the parent's blocks into this
// template (§4.2) rather than leaving resolution to the renderer.
type Extends struct {
	FileName Node
	span     Span
}

func (e *Extends) Span() Span { return e.span }

// BlockStatement is a named block participating in inheritance.
type BlockStatement struct {
	Name string
	Body *Block
	span Span
}

func (b *BlockStatement) Span() Span { return b.span }

// Set assigns the evaluated Expr to Key (a dotted path) in the
// renderer's additional-data overlay.
type Set struct {
	Key  string
	Expr Node
	span Span
}

func (s *Set) Span() Span { return s.span }

// Raw emits its content span unchanged, bypassing expression/statement
// parsing entirely ({% raw %}...{% endraw %}).
type Raw struct {
	Content string
	span    Span
}

func (r *Raw) Span() Span { return r.span }

// Template is the parsed result: owned source text, the root block
// (after inheritance splicing, §4.2), and every named block this
// template defines or inherits.
//
// Blocks maps a block name to its override chain: index 0 is the
// most-derived body (the one that actually renders), later indices are
// ancestor bodies further up the `extends` chain that super(n) walks
// into. Root is the root-most ancestor's statement sequence, since
// rendering a child means rendering the base layout with the child's
// block bodies substituted in.
type Template struct {
	Content string
	Root    *Block
	Blocks  map[string][]*BlockStatement
	Name    string
}
