package netedit

import (
	"fmt"
	"io"
)

type parser struct {
	lexer   *lexer
	current token
}

// parseAll reads every top-level expression.
func parseAll(r io.Reader) ([]Sexp, error) {
	p := &parser{lexer: newLexer(r)}
	var result []Sexp
	if err := p.advance(); err != nil {
		return nil, err
	}
	for p.current.typ != tokenEOF {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		result = append(result, expr)
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (p *parser) advance() error {
	tok, err := p.lexer.next()
	if err != nil {
		return err
	}
	p.current = tok
	return nil
}

func (p *parser) parseExpr() (Sexp, error) {
	switch p.current.typ {
	case tokenLeftParen:
		return p.parseList()
	case tokenSymbol, tokenString:
		return Symbol(p.current.value), nil
	case tokenRightParen:
		return nil, fmt.Errorf("line %d: unexpected ')'", p.current.line)
	default:
		return nil, fmt.Errorf("line %d: unexpected end of input", p.current.line)
	}
}

func (p *parser) parseList() (Sexp, error) {
	list := &List{Line: p.current.line}
	for {
		if err := p.advance(); err != nil {
			return nil, err
		}
		switch p.current.typ {
		case tokenRightParen:
			return list, nil
		case tokenEOF:
			return nil, fmt.Errorf("line %d: unterminated list", list.Line)
		}
		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		list.elements = append(list.elements, elem)
	}
}
