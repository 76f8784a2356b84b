package netedit

import (
	"bufio"
	"fmt"
	"io"
	"unicode"
)

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenLeftParen
	tokenRightParen
	tokenSymbol
	tokenString
)

type token struct {
	typ   tokenType
	value string
	line  int
}

// lexer tokenizes an edit file. '#' and ';' start comments.
type lexer struct {
	reader *bufio.Reader
	peeked *rune
	line   int
}

func newLexer(r io.Reader) *lexer {
	return &lexer{reader: bufio.NewReader(r), line: 1}
}

func (l *lexer) next() (token, error) {
	for {
		ch, err := l.peek()
		if err != nil {
			if err == io.EOF {
				return token{typ: tokenEOF, line: l.line}, nil
			}
			return token{}, err
		}
		if unicode.IsSpace(ch) {
			l.read()
			continue
		}
		if ch == '#' || ch == ';' {
			for {
				c, err := l.read()
				if err != nil || c == '\n' {
					break
				}
			}
			continue
		}
		break
	}

	ch, _ := l.peek()
	switch ch {
	case '(':
		l.read()
		return token{typ: tokenLeftParen, value: "(", line: l.line}, nil
	case ')':
		l.read()
		return token{typ: tokenRightParen, value: ")", line: l.line}, nil
	case '"':
		return l.readString()
	default:
		return l.readSymbol()
	}
}

func (l *lexer) peek() (rune, error) {
	if l.peeked != nil {
		return *l.peeked, nil
	}
	ch, _, err := l.reader.ReadRune()
	if err != nil {
		return 0, err
	}
	l.peeked = &ch
	return ch, nil
}

func (l *lexer) read() (rune, error) {
	var ch rune
	if l.peeked != nil {
		ch = *l.peeked
		l.peeked = nil
	} else {
		var err error
		ch, _, err = l.reader.ReadRune()
		if err != nil {
			return 0, err
		}
	}
	if ch == '\n' {
		l.line++
	}
	return ch, nil
}

func (l *lexer) readString() (token, error) {
	start := l.line
	l.read()

	var result []rune
	for {
		ch, err := l.read()
		if err != nil {
			return token{}, fmt.Errorf("line %d: unterminated string", start)
		}
		if ch == '"' {
			break
		}
		if ch == '\\' {
			next, err := l.read()
			if err != nil {
				return token{}, fmt.Errorf("line %d: unterminated string", start)
			}
			result = append(result, next)
			continue
		}
		result = append(result, ch)
	}
	return token{typ: tokenString, value: string(result), line: start}, nil
}

func (l *lexer) readSymbol() (token, error) {
	var result []rune
	for {
		ch, err := l.peek()
		if err != nil {
			if err == io.EOF {
				break
			}
			return token{}, err
		}
		if unicode.IsSpace(ch) || ch == '(' || ch == ')' || ch == '"' {
			break
		}
		l.read()
		result = append(result, ch)
	}
	if len(result) == 0 {
		return token{}, fmt.Errorf("line %d: empty symbol", l.line)
	}
	return token{typ: tokenSymbol, value: string(result), line: l.line}, nil
}
