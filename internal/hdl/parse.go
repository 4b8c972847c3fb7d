// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hdl parses pin specifications ("a, b, bus[8]") and part connection
// strings ("a=x, bus[0..3]=w[4..7]").
package hdl

import (
	"github.com/pkg/errors"
)

// Pin is a simple pin name
type Pin struct {
	Name string
	Pos  Pos
}

// PinIndex is an indexed pin p[index]
type PinIndex struct {
	Pin
	Index int
}

// PinRange is a pin range p[start..end]
type PinRange struct {
	Pin
	Start int
	End   int
}

// PinAssignment is a part pin to chip pin assignment. pp=pc
type PinAssignment struct {
	LHS interface{}
	RHS interface{}
}

// Parser reads pin names and pin assignments from a comma separated list.
// The zero value for Parser is ready to use once Input is set.
type Parser struct {
	Input string
	l     *Lexer
	i     Item
	state parserState
}

type parserState int

const (
	atStart parserState = iota
	inList
	atEnd
)

func (p *Parser) next() Type {
	p.i = p.l.Lex()
	return p.i.Type
}

func (p *Parser) fail(err error) (interface{}, error) {
	p.state = atEnd
	return nil, err
}

// endItem consumes the separator after a list item.
func (p *Parser) endItem(it interface{}) (interface{}, error) {
	switch p.i.Type {
	case EOF:
		p.state = atEnd
	case Comma:
	default:
		return p.fail(parseError(p.Input, p.i.Pos, "unexpected "+p.i.String()))
	}
	return it, nil
}

// Next returns the next item in the input stream, or nil at the end of input.
// Items are Pin, PinIndex or PinRange values, or PinAssignment values if
// allowConns is true. Once the end of input or an error is reached, Next
// keeps returning nil, nil.
func (p *Parser) Next(allowConns bool) (interface{}, error) {
	if p.state == atEnd {
		return nil, nil
	}
	if p.l == nil {
		p.l = NewLexer(p.Input)
	}
	if p.next() == EOF && p.state == atStart {
		p.state = atEnd
		return nil, nil
	}
	p.state = inList

	lhs, err := p.pin()
	if err != nil {
		return p.fail(err)
	}
	if p.i.Type != Equal || !allowConns {
		return p.endItem(lhs)
	}
	p.next()
	rhs, err := p.pin()
	if err != nil {
		return p.fail(err)
	}
	return p.endItem(PinAssignment{lhs, rhs})
}

// pin parses a pin name with an optional index or range. On return, p.i is
// the first item after the pin.
func (p *Parser) pin() (interface{}, error) {
	if p.i.Type != Ident {
		return nil, parseError(p.Input, p.i.Pos, "expected pin name")
	}
	pin := Pin{p.i.Value.(string), p.i.Pos}
	if p.next() != BracketOpen {
		return pin, nil
	}
	if p.next() != Int {
		return nil, parseError(p.Input, p.i.Pos, "integer value expected after '['")
	}
	start, end := p.i.Value.(int), -1
	if p.next() == Range {
		if p.next() != Int {
			return nil, parseError(p.Input, p.i.Pos, "integer value expected after '..'")
		}
		end = p.i.Value.(int)
		p.next()
	}
	if p.i.Type != BracketClose {
		return nil, parseError(p.Input, p.i.Pos, "closing ']' expected after index or range")
	}
	p.next()
	if end < 0 {
		return PinIndex{pin, start}, nil
	}
	return PinRange{pin, start, end}, nil
}

func parseError(in string, pos Pos, msg string) error {
	return errors.Errorf("in %q at pos %d: %s", in, pos+1, msg)
}
