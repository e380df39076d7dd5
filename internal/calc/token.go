package calc

import (
	"strings"
	"unicode"
)

type TokenType int

const (
	TokEOF TokenType = iota
	TokInt
	TokFloat
	TokPlus
	TokMinus
	TokStar
	TokSlash
	TokFloorDiv
	TokPercent
	TokPow
	TokLParen
	TokRParen
	// Tokens below are lexed only so the parser can reject them by name.
	TokIdent
	TokString
	TokOther
)

type Token struct {
	Type TokenType
	Text string
	Pos  int
}

var tokenNames = map[TokenType]string{
	TokEOF:      "end of input",
	TokInt:      "integer",
	TokFloat:    "float",
	TokPlus:     "'+'",
	TokMinus:    "'-'",
	TokStar:     "'*'",
	TokSlash:    "'/'",
	TokFloorDiv: "'//'",
	TokPercent:  "'%'",
	TokPow:      "'**'",
	TokLParen:   "'('",
	TokRParen:   "')'",
	TokIdent:    "name",
	TokString:   "string literal",
	TokOther:    "operator",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return "unknown"
}

type lexer struct {
	input []rune
	pos   int
}

func newLexer(input string) *lexer {
	return &lexer{input: []rune(input)}
}

func (l *lexer) peek() rune {
	return l.peekAt(0)
}

func (l *lexer) peekAt(offset int) rune {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

func (l *lexer) advance() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r := l.input[l.pos]
	l.pos++
	return r
}

func (l *lexer) skipWhitespace() {
	for l.pos < len(l.input) && unicode.IsSpace(l.peek()) {
		l.pos++
	}
}

// tokens lexes the whole input. Lexing never fails on foreign characters;
// they come back as TokIdent, TokString or TokOther for the parser to reject.
func (l *lexer) tokens() ([]Token, error) {
	var toks []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == TokEOF {
			return toks, nil
		}
	}
}

func (l *lexer) next() (Token, error) {
	l.skipWhitespace()
	start := l.pos
	if l.pos >= len(l.input) {
		return Token{Type: TokEOF, Pos: start}, nil
	}

	c := l.peek()
	switch {
	case isDigit(c), c == '.' && isDigit(l.peekAt(1)):
		return l.number()
	case c == '_' || unicode.IsLetter(c):
		for l.pos < len(l.input) && (l.peek() == '_' || unicode.IsLetter(l.peek()) || unicode.IsDigit(l.peek())) {
			l.advance()
		}
		return Token{Type: TokIdent, Text: string(l.input[start:l.pos]), Pos: start}, nil
	case c == '\'' || c == '"':
		quote := l.advance()
		for l.pos < len(l.input) && l.peek() != quote {
			l.advance()
		}
		l.advance()
		return Token{Type: TokString, Text: string(l.input[start:l.pos]), Pos: start}, nil
	}

	l.advance()
	tok := Token{Pos: start}
	switch c {
	case '+':
		tok.Type = TokPlus
	case '-':
		tok.Type = TokMinus
	case '%':
		tok.Type = TokPercent
	case '(':
		tok.Type = TokLParen
	case ')':
		tok.Type = TokRParen
	case '*':
		tok.Type = TokStar
		if l.peek() == '*' {
			l.advance()
			tok.Type = TokPow
		}
	case '/':
		tok.Type = TokSlash
		if l.peek() == '/' {
			l.advance()
			tok.Type = TokFloorDiv
		}
	default:
		tok.Type = TokOther
	}
	tok.Text = string(l.input[start:l.pos])
	return tok, nil
}

// number lexes a decimal integer or float literal. Underscores are accepted
// between digits only.
func (l *lexer) number() (Token, error) {
	start := l.pos
	typ := TokInt

	intDigits, err := l.digits()
	if err != nil {
		return Token{}, err
	}
	if l.peek() == '.' {
		typ = TokFloat
		l.advance()
		if isDigit(l.peek()) {
			if _, err := l.digits(); err != nil {
				return Token{}, err
			}
		}
	}
	if c := l.peek(); c == 'e' || c == 'E' {
		save := l.pos
		l.advance()
		if s := l.peek(); s == '+' || s == '-' {
			l.advance()
		}
		if isDigit(l.peek()) {
			typ = TokFloat
			if _, err := l.digits(); err != nil {
				return Token{}, err
			}
		} else {
			// "2e" or "2ex": leave the letter for the identifier rule.
			l.pos = save
		}
	}

	text := string(l.input[start:l.pos])
	if typ == TokInt && len(intDigits) > 1 && intDigits[0] == '0' && strings.Trim(intDigits, "0") != "" {
		return Token{}, syntaxErr("leading zeros in integer literal %q", text)
	}
	return Token{Type: typ, Text: strings.ReplaceAll(text, "_", ""), Pos: start}, nil
}

func (l *lexer) digits() (string, error) {
	var sb strings.Builder
	for l.pos < len(l.input) {
		c := l.peek()
		if isDigit(c) {
			sb.WriteRune(l.advance())
			continue
		}
		if c == '_' {
			if sb.Len() == 0 || !isDigit(l.peekAt(1)) {
				return "", syntaxErr("invalid underscore in numeric literal at position %d", l.pos)
			}
			l.advance()
			continue
		}
		break
	}
	return sb.String(), nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
