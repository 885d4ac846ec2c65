package signature

import "strings"

// Lexer turns the source text of a callable into tokens on demand. It only
// knows the handful of tokens needed to locate a parameter list; everything
// else is skipped.
//
//	lex := signature.NewLexer("(a, b = 1)")
//	for tok := lex.Next(signature.ScanNormal); !lex.Done(); tok = lex.Next(signature.ScanNormal) {
//	    fmt.Println(tok)
//	}
type Lexer struct {
	src  string
	pos  int
	tok  Token
	mode ScanMode

	// Every paren seen is counted so default-value expressions can be
	// skipped up to the comma or paren that closes them.
	parenLeft  int
	parenRight int
}

// NewLexer creates a lexer over src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src}
}

// Next advances the lexer and returns the next token.
func (l *Lexer) Next(mode ScanMode) Token {
	l.mode = mode
	l.tok = l.advance()
	return l.tok
}

// Done reports whether the last token produced was EOF.
func (l *Lexer) Done() bool {
	return l.tok.Kind == TokenEOF
}

// Offset returns the current byte position in the source.
func (l *Lexer) Offset() int {
	return l.pos
}

// ── Scanning ──────────────────────────────────────────────────────────────────

func (l *Lexer) advance() Token {
	for l.pos < len(l.src) {
		ch := l.src[l.pos]

		if isWhiteSpace(ch) {
			l.pos++
			continue
		}

		switch ch {
		case '(':
			l.pos++
			l.parenLeft++
			return Token{Kind: TokenLParen}
		case ')':
			l.pos++
			l.parenRight++
			return Token{Kind: TokenRParen}
		case '*':
			l.pos++
			return Token{Kind: TokenStar}
		case ',':
			l.pos++
			return Token{Kind: TokenComma}
		case '=':
			l.pos++
			if l.mode != ScanDumb {
				l.skipExpression()
			}
			// The parser still needs the `=` to mark the parameter optional.
			return Token{Kind: TokenAssign}
		case '/':
			if l.skipComment() {
				continue
			}
		case '"', '\'', '`':
			l.skipString()
			continue
		}

		if isIdentStart(ch) {
			return l.scanIdentifier()
		}

		l.pos++
	}

	return Token{Kind: TokenEOF}
}

func (l *Lexer) scanIdentifier() Token {
	start := l.pos
	l.pos++
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}

	switch value := l.src[start:l.pos]; value {
	case "function":
		return Token{Kind: TokenFunction}
	case "class":
		return Token{Kind: TokenClass}
	default:
		return Token{Kind: TokenIdent, Value: value}
	}
}

// skipExpression skips a default-value expression. It stops in front of the
// comma or closing paren that ends the current parameter, so the next call
// to advance produces that token.
func (l *Lexer) skipExpression() {
	nested := 0 // open [ and { inside the expression

	for l.pos < len(l.src) {
		ch := l.src[l.pos]
		atRoot := nested == 0 && l.parenLeft == l.parenRight+1

		switch ch {
		case ',':
			if atRoot {
				return
			}
		case ')':
			if atRoot {
				return
			}
			l.parenRight++
		case '(':
			l.parenLeft++
		case '[', '{':
			nested++
		case ']', '}':
			if nested > 0 {
				nested--
			}
		case '"', '\'', '`':
			l.skipString()
			continue
		case '/':
			if l.skipComment() {
				continue
			}
		}

		l.pos++
	}
}

// skipComment skips a line or block comment starting at pos. It reports
// false when the slash does not open a comment.
func (l *Lexer) skipComment() bool {
	if l.pos+1 >= len(l.src) {
		return false
	}

	rest := l.src[l.pos+2:]
	switch l.src[l.pos+1] {
	case '/':
		if end := strings.IndexByte(rest, '\n'); end >= 0 {
			l.pos += 2 + end + 1
		} else {
			l.pos = len(l.src)
		}
		return true
	case '*':
		if end := strings.Index(rest, "*/"); end >= 0 {
			l.pos += 2 + end + 2
		} else {
			l.pos = len(l.src)
		}
		return true
	}
	return false
}

// skipString skips a string or template literal starting at the quote under
// pos, including nested ${...} interpolations.
func (l *Lexer) skipString() {
	quote := l.src[l.pos]
	l.pos++

	for l.pos < len(l.src) {
		ch := l.src[l.pos]
		switch {
		case ch == '\\':
			l.pos += 2
			continue
		case ch == quote:
			l.pos++
			return
		case quote == '`' && ch == '$' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '{':
			l.pos += 2
			l.skipInterpolation()
			continue
		}
		l.pos++
	}
}

// skipInterpolation skips to the brace closing a template interpolation.
// Braces of object literals and nested strings inside it are balanced.
func (l *Lexer) skipInterpolation() {
	depth := 1

	for l.pos < len(l.src) {
		switch ch := l.src[l.pos]; ch {
		case '"', '\'', '`':
			l.skipString()
			continue
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				l.pos++
				return
			}
		}
		l.pos++
	}
}

// ── Character classes ─────────────────────────────────────────────────────────

func isWhiteSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\n':
		return true
	}
	return false
}

// isIdentStart accepts any byte of a multi-byte UTF-8 sequence, which keeps
// non-ASCII identifiers in one piece.
func isIdentStart(ch byte) bool {
	return ch == '_' || ch == '$' ||
		(ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		ch >= 0x80
}

// isIdentPart also accepts `.` and `?` so member paths like `a.b?.c` lex as
// a single identifier and never look like a bare `constructor`.
func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9') || ch == '.' || ch == '?'
}
