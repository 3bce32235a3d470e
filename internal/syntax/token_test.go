package syntax

import "testing"

func TestTokenPredicates(t *testing.T) {
	tests := []struct {
		name    string
		tok     Token
		trivia  bool
		literal bool
	}{
		{"whitespace", Token{Kind: Whitespace, Text: "  "}, true, false},
		{"line_cont", Token{Kind: LineCont, Text: "_"}, true, false},
		{"comment_is_not_trivia", Token{Kind: Comment, Text: "' hi"}, false, false},
		{"newline_is_not_trivia", Token{Kind: Newline, Text: "\n"}, false, false},
		{"number", Token{Kind: Number, Text: "42"}, false, true},
		{"float", Token{Kind: Float, Text: "3.14"}, false, true},
		{"hex", Token{Kind: Hex, Text: "&HFF"}, false, true},
		{"octal", Token{Kind: Octal, Text: "&O77"}, false, true},
		{"string", Token{Kind: String, Text: "hi"}, false, true},
		{"date", Token{Kind: Date, Text: "1/1/2000"}, false, true},
		{"ident", Token{Kind: Ident, Text: "x"}, false, false},
		{"keyword", Token{Kind: Keyword, Text: "True"}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tok.IsTrivia(); got != tt.trivia {
				t.Errorf("IsTrivia() = %v, want %v", got, tt.trivia)
			}
			if got := tt.tok.IsLiteral(); got != tt.literal {
				t.Errorf("IsLiteral() = %v, want %v", got, tt.literal)
			}
		})
	}
}

func TestTokenKeywordOperatorPunct(t *testing.T) {
	kw := Token{Kind: Keyword, Text: "SELECT"}
	if !kw.IsKeyword("select") {
		t.Error("keyword match should be case-insensitive")
	}
	if kw.IsKeyword("selection") {
		t.Error("SELECT should not match selection")
	}

	op := Token{Kind: Operator, Text: "<>"}
	if !op.IsOperator("<>") || op.IsOperator("<") {
		t.Error("operator match must compare full text")
	}

	pn := Token{Kind: Punct, Text: ":"}
	if !pn.IsPunct(":") || pn.IsPunct(";") {
		t.Error("punct match must compare full text")
	}
}
