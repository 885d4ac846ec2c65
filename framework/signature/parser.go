package signature

import "fmt"

// Parameter is a single entry of a parameter list. Optional is true when
// the parameter declares a default value.
type Parameter struct {
	Name     string `json:"name"`
	Optional bool   `json:"optional"`
}

// SyntaxError reports a token the parameter-list grammar does not allow.
// It signals a malformed signature, not a runtime condition.
type SyntaxError struct {
	Token  Token
	Offset int
}

func (e *SyntaxError) Error() string {
	msg := fmt.Sprintf("signature: parsing parameter list, did not expect %s token", e.Token.Kind)
	if e.Token.Value != "" {
		msg += fmt.Sprintf(" (%s)", e.Token.Value)
	}
	return fmt.Sprintf("%s at offset %d", msg, e.Offset)
}

// ParseParameterList extracts the ordered parameter list of a callable from
// its source text. Accepted shapes:
//
//	(a, b = 1) => ...
//	a => ...
//	async (a) => ...
//	function name(a, b) { ... }
//	function* gen(a) { ... }
//	class Foo { constructor(a, b) { ... } }
//
// For a class without its own constructor the result is nil with a nil
// error: there is no parameter list to discover, which is different from an
// empty one. Parameters without a name are dropped.
func ParseParameterList(source string) ([]Parameter, error) {
	p := &parser{lex: NewLexer(source), params: []Parameter{}}
	return p.parse()
}

type parser struct {
	lex    *Lexer
	tok    Token
	params []Parameter
}

func (p *parser) parse() ([]Parameter, error) {
	p.next(ScanNormal)

	for !p.lex.Done() {
		switch p.tok.Kind {
		case TokenClass:
			if !p.advanceToConstructor() {
				return nil, nil
			}

		case TokenFunction:
			// An optional generator star, then an optional name, then `(`.
			t := p.next(ScanNormal)
			if t.Kind == TokenStar {
				t = p.next(ScanNormal)
			}
			if t.Kind == TokenIdent {
				t = p.next(ScanNormal)
			}
			if t.Kind != TokenLParen {
				return nil, p.unexpected()
			}
			if err := p.parseParams(); err != nil {
				return nil, err
			}

		case TokenLParen:
			if err := p.parseParams(); err != nil {
				return nil, err
			}

		case TokenRParen:
			return p.params, nil

		case TokenIdent:
			// A paren-less arrow function: exactly one parameter, no default.
			param := Parameter{Name: p.tok.Value}
			if p.tok.Value == "async" {
				// `async` is a modifier unless it is the parameter itself,
				// as in `async => ...`.
				if t := p.next(ScanNormal); t.Kind != TokenAssign {
					continue
				}
			}
			p.params = append(p.params, param)
			return p.params, nil

		default:
			return nil, p.unexpected()
		}
	}

	return p.params, nil
}

// parseParams consumes a parenthesised list. The current token is `(`.
func (p *parser) parseParams() error {
	var param Parameter

	for !p.lex.Done() {
		switch p.next(ScanNormal).Kind {
		case TokenIdent:
			param.Name = p.tok.Value
		case TokenAssign:
			param.Optional = true
		case TokenComma:
			p.push(param)
			param = Parameter{}
		case TokenRParen:
			p.push(param)
			return nil
		default:
			return p.unexpected()
		}
	}
	return nil
}

// advanceToConstructor scans the class body for `constructor` directly
// followed by `(`.
func (p *parser) advanceToConstructor() bool {
	for !p.lex.Done() {
		if p.tok.Kind == TokenIdent && p.tok.Value == "constructor" {
			if p.next(ScanDumb).Kind == TokenLParen {
				return true
			}
			continue
		}
		p.next(ScanDumb)
	}
	return false
}

func (p *parser) push(param Parameter) {
	if param.Name != "" {
		p.params = append(p.params, param)
	}
}

func (p *parser) next(mode ScanMode) Token {
	p.tok = p.lex.Next(mode)
	return p.tok
}

func (p *parser) unexpected() error {
	return &SyntaxError{Token: p.tok, Offset: p.lex.Offset()}
}
