package lexer

import (
	"fmt"
	"strings"
)

// Scanner tokenizes template source text one marker region at a time: it
// walks plain text looking for the next `{{`, `{%`, `{#`, or line-statement
// prefix, then switches into that region's own tokenization rules until
// the matching close marker is seen.
type Scanner struct {
	source string // input, trailing newline possibly stripped
	pos    int    // byte offset of the scan head
	start  int    // byte offset where the in-progress token began

	line, col           uint32 // scan head position, 1-indexed line
	startLine, startCol uint32 // position recorded by beginToken

	syntax     SyntaxConfig
	whitespace WhitespaceConfig

	regions       []region
	pendingTag    *pendingTag
	trimLeading   bool
	bracketDepth  int
}

// region is the scanner's nesting state: which marker (if any) it is
// currently inside.
type region int

const (
	regionText region = iota
	regionExpr
	regionTag
	regionLineTag
)

// pendingTag defers emitting an open-marker token until the surrounding
// template-data token (if any) has been produced, since a single regionText
// scan step can only return one token at a time.
type pendingTag struct {
	kind        tagKind
	length      int
	prefixStart int
}

// tagKind identifies which of the four marker forms was matched.
type tagKind int

const (
	kindExpr tagKind = iota
	kindTag
	kindComment
	kindLineTag
)

// trimMode is the whitespace-control character (if any) trailing a marker:
// `-` forces trimming, `+` suppresses it, absence defers to WhitespaceConfig.
type trimMode int

const (
	trimAuto trimMode = iota
	trimKeep          // +
	trimForce         // -
)

func trimModeFromByte(b byte) trimMode {
	switch b {
	case '-':
		return trimForce
	case '+':
		return trimKeep
	default:
		return trimAuto
	}
}

// New builds a Scanner over input. A trailing newline is dropped unless
// whitespace.KeepTrailingNewline is set, matching the reference engine's
// "templates don't echo their own file's final newline" convention.
func New(input string, syntax SyntaxConfig, whitespace WhitespaceConfig) *Scanner {
	source := input
	if !whitespace.KeepTrailingNewline {
		source = strings.TrimSuffix(source, "\n")
		source = strings.TrimSuffix(source, "\r")
	}
	return &Scanner{
		source:     source,
		line:       1,
		syntax:     syntax,
		whitespace: whitespace,
		regions:    []region{regionText},
	}
}

// Tokenize runs a Scanner over input to completion and returns every token.
func Tokenize(input string, syntax SyntaxConfig, whitespace WhitespaceConfig) ([]Token, error) {
	return New(input, syntax, whitespace).All()
}

// All drains the Scanner into a slice.
func (s *Scanner) All() ([]Token, error) {
	var toks []Token
	for {
		tok, err := s.Next()
		if err != nil {
			return nil, err
		}
		if tok == nil {
			return toks, nil
		}
		toks = append(toks, *tok)
	}
}

// Next produces the next token, or nil once the source is exhausted.
func (s *Scanner) Next() (*Token, error) {
	for {
		if s.atEnd() {
			if s.current() == regionLineTag {
				s.popRegion()
				s.beginToken()
				tok := s.emit(TokenBlockEnd, "")
				return &tok, nil
			}
			return nil, nil
		}

		var tok *Token
		var again bool
		var err error

		switch s.current() {
		case regionText:
			tok, again, err = s.scanText()
		case regionExpr:
			tok, again, err = s.scanTag(closeExpr)
		case regionTag:
			tok, again, err = s.scanTag(closeTag)
		case regionLineTag:
			tok, again, err = s.scanTag(closeLineTag)
		}

		if err != nil {
			return nil, err
		}
		if again {
			continue
		}
		if tok != nil {
			return tok, nil
		}
	}
}

func (s *Scanner) current() region {
	if len(s.regions) == 0 {
		return regionText
	}
	return s.regions[len(s.regions)-1]
}

func (s *Scanner) pushRegion(r region) { s.regions = append(s.regions, r) }

func (s *Scanner) popRegion() {
	if len(s.regions) > 0 {
		s.regions = s.regions[:len(s.regions)-1]
	}
}

func (s *Scanner) atEnd() bool { return s.pos >= len(s.source) }

func (s *Scanner) remaining() string {
	if s.pos >= len(s.source) {
		return ""
	}
	return s.source[s.pos:]
}

// advance consumes n bytes from the scan head, tracking line/column.
func (s *Scanner) advance(n int) string {
	if n <= 0 {
		return ""
	}
	end := s.pos + n
	if end > len(s.source) {
		end = len(s.source)
	}
	chunk := s.source[s.pos:end]
	for _, c := range chunk {
		if c == '\n' {
			s.line++
			s.col = 0
		} else {
			s.col++
		}
	}
	s.pos = end
	return chunk
}

func (s *Scanner) beginToken() {
	s.start, s.startLine, s.startCol = s.pos, s.line, s.col
}

func (s *Scanner) span() Span {
	return Span{
		StartLine:   s.startLine,
		StartCol:    s.startCol,
		StartOffset: uint32(s.start),
		EndLine:     s.line,
		EndCol:      s.col,
		EndOffset:   uint32(s.pos),
	}
}

func (s *Scanner) emit(typ TokenType, value string) Token {
	return Token{Type: typ, Value: value, Span: s.span()}
}

func (s *Scanner) skipHorizontalAndNewlines() {
	for !s.atEnd() {
		switch s.remaining()[0] {
		case ' ', '\t', '\n', '\r':
			s.advance(1)
		default:
			return
		}
	}
}

func (s *Scanner) syntaxError(msg string) error {
	return fmt.Errorf("syntax error at line %d, col %d: %s", s.line, s.col, msg)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
