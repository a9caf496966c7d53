package lexer

import "testing"

func tokenTypes(toks []Token) []TokenType {
	out := make([]TokenType, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func assertTypes(t *testing.T, toks []Token, want ...TokenType) {
	t.Helper()
	got := tokenTypes(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s (all: %v)", i, got[i], want[i], got)
		}
	}
}

func TestTokenizePlainText(t *testing.T) {
	toks, err := Tokenize("hello world", DefaultSyntax(), DefaultWhitespace())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertTypes(t, toks, TokenTemplateData)
	if toks[0].Value != "hello world" {
		t.Errorf("got %q", toks[0].Value)
	}
}

func TestTokenizeVariable(t *testing.T) {
	toks, err := Tokenize("Hello {{ name }}!", DefaultSyntax(), DefaultWhitespace())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertTypes(t, toks,
		TokenTemplateData, TokenVariableStart, TokenIdent, TokenVariableEnd, TokenTemplateData,
	)
}

func TestTokenizeDottedIdentifier(t *testing.T) {
	toks, err := Tokenize("{{ user.profile.name }}", DefaultSyntax(), DefaultWhitespace())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertTypes(t, toks, TokenVariableStart, TokenIdent, TokenVariableEnd)
	if toks[1].Value != "user.profile.name" {
		t.Errorf("expected dots to compose a single ident token, got %q", toks[1].Value)
	}
}

func TestTokenizeBareDotIsNotConsumedByIdent(t *testing.T) {
	// A dot not followed by an ident-start character is its own token,
	// used in postfix access on computed bases: foo().bar
	toks, err := Tokenize("{{ a . }}", DefaultSyntax(), DefaultWhitespace())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertTypes(t, toks, TokenVariableStart, TokenIdent, TokenDot, TokenVariableEnd)
}

func TestTokenizeIfBlock(t *testing.T) {
	toks, err := Tokenize("{% if n > 3 %}big{% else %}small{% endif %}", DefaultSyntax(), DefaultWhitespace())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertTypes(t, toks,
		TokenBlockStart, TokenIf, TokenIdent, TokenGt, TokenInteger, TokenBlockEnd,
		TokenTemplateData,
		TokenBlockStart, TokenElse, TokenBlockEnd,
		TokenTemplateData,
		TokenBlockStart, TokenEndif, TokenBlockEnd,
	)
}

func TestTokenizeStringEscapes(t *testing.T) {
	toks, err := Tokenize(`{{ "a\nb" }}`, DefaultSyntax(), DefaultWhitespace())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[1].Type != TokenString || toks[1].Value != "a\nb" {
		t.Fatalf("got %+v", toks[1])
	}
}

func TestTokenizeNumbers(t *testing.T) {
	toks, err := Tokenize("{{ 42 }}{{ 3.14 }}", DefaultSyntax(), DefaultWhitespace())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[1].Type != TokenInteger || toks[1].Value != "42" {
		t.Fatalf("got %+v", toks[1])
	}
	if toks[4].Type != TokenFloat || toks[4].Value != "3.14" {
		t.Fatalf("got %+v", toks[4])
	}
}

func TestTrimBlocksAndLstripBlocks(t *testing.T) {
	ws := DefaultWhitespace()
	ws.TrimBlocks = true
	ws.LstripBlocks = true
	toks, err := Tokenize("  {% if true %}\nX\n  {% endif %}\n", DefaultSyntax(), ws)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, tok := range toks {
		if tok.Type == TokenTemplateData && tok.Value == "  " {
			t.Fatalf("leading whitespace before block tag should have been lstripped: %+v", toks)
		}
	}
}

func TestRawBlockIsVerbatim(t *testing.T) {
	toks, err := Tokenize("{% raw %}{{ not_an_expr }}{% endraw %}", DefaultSyntax(), DefaultWhitespace())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertTypes(t, toks, TokenTemplateData)
	if toks[0].Value != "{{ not_an_expr }}" {
		t.Fatalf("got %q", toks[0].Value)
	}
}

func TestLineStatements(t *testing.T) {
	syn := DefaultSyntax()
	syn.LineStatementPrefix = "##"
	toks, err := Tokenize("## if true\nX\n## endif\n", syn, DefaultWhitespace())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertTypes(t, toks,
		TokenBlockStart, TokenIf, TokenTrue, TokenBlockEnd,
		TokenTemplateData,
		TokenBlockStart, TokenEndif, TokenBlockEnd,
	)
}

func TestPowerOperator(t *testing.T) {
	toks, err := Tokenize("{{ 2 ^ 3 }}", DefaultSyntax(), DefaultWhitespace())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertTypes(t, toks, TokenVariableStart, TokenInteger, TokenPow, TokenInteger, TokenVariableEnd)
}
