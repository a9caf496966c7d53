package lexer

// SyntaxConfig names the delimiter strings the Scanner recognizes for
// each marker kind, plus the optional line-statement prefix (`##` style
// tags that run to end-of-line instead of a closing delimiter).
type SyntaxConfig struct {
	VarStart string
	VarEnd   string

	BlockStart string
	BlockEnd   string

	CommentStart string
	CommentEnd   string

	LineStatementPrefix string
}

// DefaultSyntax is the Jinja2-compatible delimiter set: `{{ }}` for
// expressions, `{% %}` for tags, `{# #}` for comments, no line-statement
// prefix.
func DefaultSyntax() SyntaxConfig {
	return SyntaxConfig{
		VarStart:   "{{",
		VarEnd:     "}}",
		BlockStart: "{%",
		BlockEnd:   "%}",

		CommentStart: "{#",
		CommentEnd:   "#}",
	}
}

// WhitespaceConfig controls the automatic whitespace trimming applied
// around tags, independent of the explicit `-`/`+` trim markers a
// template author can put on any individual delimiter.
type WhitespaceConfig struct {
	// TrimBlocks removes the single newline immediately following a
	// `%}`/block-tag close, so a tag on its own line doesn't leave a
	// blank line behind.
	TrimBlocks bool

	// LstripBlocks removes leading spaces/tabs on the same line before
	// a tag, so indented block tags don't leave that indentation in
	// the output.
	LstripBlocks bool

	// KeepTrailingNewline disables stripping the template source's
	// final trailing newline before scanning begins.
	KeepTrailingNewline bool
}

// DefaultWhitespace applies no automatic trimming; templates rely on
// explicit `-`/`+` markers to control surrounding whitespace.
func DefaultWhitespace() WhitespaceConfig {
	return WhitespaceConfig{}
}
