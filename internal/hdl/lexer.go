// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hdl

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Type is the type of a lexical item.
type Type int

// Tokens
const (
	EOF Type = iota
	Raw
	Ident
	BracketOpen
	BracketClose
	Comma
	Int
	Range
	Equal
)

var typeNames = [...]string{
	EOF:          "end of input",
	Raw:          "character",
	Ident:        "identifier",
	BracketOpen:  "'['",
	BracketClose: "']'",
	Comma:        "','",
	Int:          "integer",
	Range:        "'..'",
	Equal:        "'='",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "Type(" + strconv.Itoa(int(t)) + ")"
	}
	return typeNames[t]
}

// Pos is a byte offset in the input.
type Pos int

// An Item is a lexical item. Value is a string for identifiers and raw
// characters, and an int for integers.
type Item struct {
	Type  Type
	Pos   Pos
	Value interface{}
}

func (i Item) String() string {
	switch i.Type {
	case Ident:
		return "identifier " + strconv.Quote(i.Value.(string))
	case Int:
		return "integer " + strconv.Itoa(i.Value.(int))
	case Raw:
		return "character " + strconv.Quote(i.Value.(string))
	}
	return i.Type.String()
}

// A Lexer splits i/o specs and connection descriptions into items.
type Lexer struct {
	in  string
	pos int
	eof bool
}

// NewLexer returns a new lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{in: input}
}

// Lex returns the next item. Once the end of input or an invalid character is
// reached, Lex only returns EOF.
func (l *Lexer) Lex() Item {
	if l.eof {
		return Item{EOF, Pos(len(l.in)), nil}
	}
	for l.pos < len(l.in) {
		r, sz := utf8.DecodeRuneInString(l.in[l.pos:])
		if !unicode.IsSpace(r) {
			break
		}
		l.pos += sz
	}
	start := l.pos
	if start >= len(l.in) {
		l.eof = true
		return Item{EOF, Pos(start), nil}
	}
	r, sz := utf8.DecodeRuneInString(l.in[start:])
	l.pos += sz
	switch {
	case unicode.IsLetter(r) || r == '_':
		return l.ident(start)
	case '0' <= r && r <= '9':
		return l.number(start)
	case r == '[':
		return Item{BracketOpen, Pos(start), "["}
	case r == ']':
		return Item{BracketClose, Pos(start), "]"}
	case r == ',':
		return Item{Comma, Pos(start), ","}
	case r == '=':
		return Item{Equal, Pos(start), "="}
	case r == '.' && l.pos < len(l.in) && l.in[l.pos] == '.':
		l.pos++
		return Item{Range, Pos(start), ".."}
	}
	l.eof = true
	return Item{Raw, Pos(start), string(r)}
}

func (l *Lexer) ident(start int) Item {
	for l.pos < len(l.in) {
		r, sz := utf8.DecodeRuneInString(l.in[l.pos:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		l.pos += sz
	}
	return Item{Ident, Pos(start), l.in[start:l.pos]}
}

func (l *Lexer) number(start int) Item {
	i := int(l.in[start] - '0')
	for l.pos < len(l.in) && '0' <= l.in[l.pos] && l.in[l.pos] <= '9' {
		i = i*10 + int(l.in[l.pos]-'0')
		l.pos++
	}
	return Item{Int, Pos(start), i}
}
