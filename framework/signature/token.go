package signature

// TokenKind identifies the kind of a lexed token.
type TokenKind uint8

const (
	TokenEOF TokenKind = iota
	TokenIdent
	TokenFunction // the `function` keyword
	TokenClass    // the `class` keyword
	TokenLParen
	TokenRParen
	TokenComma
	TokenAssign
	TokenStar
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "EOF"
	case TokenIdent:
		return "ident"
	case TokenFunction:
		return "function"
	case TokenClass:
		return "class"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenComma:
		return ","
	case TokenAssign:
		return "="
	case TokenStar:
		return "*"
	default:
		return "unknown"
	}
}

// Token is a single lexical unit. Value is only set for identifiers.
type Token struct {
	Kind  TokenKind
	Value string
}

func (t Token) String() string {
	if t.Value != "" {
		return t.Kind.String() + " (" + t.Value + ")"
	}
	return t.Kind.String()
}

// ScanMode selects how the lexer treats the input while advancing.
type ScanMode uint8

const (
	// ScanNormal skips default-value expressions after `=`.
	ScanNormal ScanMode = iota

	// ScanDumb only produces tokens; `=` does not trigger an expression
	// skip. Used while hunting for a known delimiter such as a class
	// constructor.
	ScanDumb
)
