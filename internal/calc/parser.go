package calc

import (
	"math/big"
	"strconv"
)

// Parse turns expr into an expression tree. Only number literals, the
// operators + - * / // % ** (binary), unary minus and parentheses are
// accepted; everything else fails with ErrUnsupported or ErrSyntax.
func Parse(expr string) (Node, error) {
	toks, err := newLexer(expr).tokens()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	if p.current().Type == TokEOF {
		return nil, syntaxErr("empty expression")
	}
	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.current(); tok.Type != TokEOF {
		return nil, p.unexpected(tok)
	}
	return n, nil
}

type parser struct {
	toks []Token
	pos  int
}

func (p *parser) current() Token {
	return p.toks[p.pos]
}

func (p *parser) advance() Token {
	tok := p.toks[p.pos]
	if tok.Type != TokEOF {
		p.pos++
	}
	return tok
}

// expr := term (('+' | '-') term)*
func (p *parser) parseExpr() (Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		typ := p.current().Type
		if typ != TokPlus && typ != TokMinus {
			return left, nil
		}
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: binaryOps[typ], Left: left, Right: right}
	}
}

// term := unary (('*' | '/' | '//' | '%') unary)*
func (p *parser) parseTerm() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		typ := p.current().Type
		if typ != TokStar && typ != TokSlash && typ != TokFloorDiv && typ != TokPercent {
			return left, nil
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: binaryOps[typ], Left: left, Right: right}
	}
}

// unary := '-' unary | power
func (p *parser) parseUnary() (Node, error) {
	switch tok := p.current(); tok.Type {
	case TokMinus:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: OpNeg, Operand: operand}, nil
	case TokPlus:
		return nil, unsupportedErr("unary '+' at position %d", tok.Pos)
	}
	return p.parsePower()
}

// power := atom ('**' unary)?
//
// The right operand goes back through unary so 2**-1 parses, while -2**2
// stays -(2**2).
func (p *parser) parsePower() (Node, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.current().Type != TokPow {
		return base, nil
	}
	p.advance()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &Binary{Op: OpPow, Left: base, Right: exp}, nil
}

// atom := NUMBER | '(' expr ')'
func (p *parser) parseAtom() (Node, error) {
	tok := p.current()
	switch tok.Type {
	case TokInt:
		p.advance()
		i, ok := new(big.Int).SetString(tok.Text, 10)
		if !ok {
			return nil, syntaxErr("invalid integer literal %q", tok.Text)
		}
		return &Number{Value: IntValue(i)}, nil
	case TokFloat:
		p.advance()
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil && !isRangeErr(err) {
			return nil, syntaxErr("invalid float literal %q", tok.Text)
		}
		return &Number{Value: FloatValue(f)}, nil
	case TokLParen:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if closing := p.current(); closing.Type != TokRParen {
			if closing.Type == TokEOF {
				return nil, syntaxErr("missing ')' for '(' at position %d", tok.Pos)
			}
			return nil, p.unexpected(closing)
		}
		p.advance()
		return inner, nil
	}
	return nil, p.unexpected(tok)
}

// unexpected classifies a token the grammar cannot take at this point.
// Constructs outside the allow-list are reported as unsupported so callers
// can tell them apart from plain typos.
func (p *parser) unexpected(tok Token) error {
	switch tok.Type {
	case TokIdent:
		return unsupportedErr("name %q at position %d", tok.Text, tok.Pos)
	case TokString:
		return unsupportedErr("string literal at position %d", tok.Pos)
	case TokOther:
		return unsupportedErr("operator %q at position %d", tok.Text, tok.Pos)
	case TokEOF:
		return syntaxErr("unexpected end of expression")
	case TokLParen:
		// "2(3)" reads as a call in most languages.
		return unsupportedErr("call or implicit multiplication at position %d", tok.Pos)
	}
	return syntaxErr("unexpected %s at position %d", tok.Type, tok.Pos)
}

func isRangeErr(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}
