package calc

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrEmpty          = errors.New("empty expression")
	ErrUnexpectedEnd  = errors.New("unexpected end of expression")
	ErrDivisionByZero = errors.New("division by zero")
	ErrNonFinite      = errors.New("result is not finite")
	ErrTooDeep        = errors.New("expression nested too deeply")
	ErrTooLong        = errors.New("expression too long")
)

const (
	// MaxDepth bounds nested parentheses and unary signs
	MaxDepth = 1000
	// MaxLength bounds the source, and with it the tree Eval walks
	MaxLength = 10000
)

// SyntaxError reports an unexpected character at a byte offset
type SyntaxError struct {
	Pos  int
	Char byte
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("unexpected %q at position %d", e.Char, e.Pos)
}

// Node is a parsed arithmetic expression
type Node interface {
	Eval() (float64, error)
}

// Number is a literal operand
type Number struct {
	Value float64
}

func (n Number) Eval() (float64, error) {
	return n.Value, nil
}

// Unary applies a sign to its operand
type Unary struct {
	Op      byte
	Operand Node
}

func (u Unary) Eval() (float64, error) {
	v, err := u.Operand.Eval()
	if err != nil {
		return 0, err
	}
	if u.Op == '-' {
		return -v, nil
	}
	return v, nil
}

// Binary is one of + - * / over two operands
type Binary struct {
	Op          byte
	Left, Right Node
}

func (b Binary) Eval() (float64, error) {
	l, err := b.Left.Eval()
	if err != nil {
		return 0, err
	}
	r, err := b.Right.Eval()
	if err != nil {
		return 0, err
	}

	switch b.Op {
	case '+':
		return l + r, nil
	case '-':
		return l - r, nil
	case '*':
		return l * r, nil
	case '/':
		if r == 0 {
			return 0, ErrDivisionByZero
		}
		return l / r, nil
	}
	return 0, fmt.Errorf("unknown operator %q", b.Op)
}

// Parse builds an expression tree from src.
//
//	expr    := term   (('+' | '-') term)*
//	term    := unary  (('*' | '/') unary)*
//	unary   := ('+' | '-') unary | primary
//	primary := number | '(' expr ')'
//
// Spaces and tabs between tokens are ignored.
func Parse(src string) (Node, error) {
	if len(src) > MaxLength {
		return nil, ErrTooLong
	}
	p := &parser{src: src}
	p.skipSpace()
	if p.done() {
		return nil, ErrEmpty
	}

	node, err := p.expr()
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	if !p.done() {
		return nil, &SyntaxError{Pos: p.pos, Char: p.src[p.pos]}
	}
	return node, nil
}

type parser struct {
	src   string
	pos   int
	depth int
}

// enter counts one level of nesting; callers defer leave
func (p *parser) enter() error {
	p.depth++
	if p.depth > MaxDepth {
		return ErrTooDeep
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

func (p *parser) done() bool {
	return p.pos >= len(p.src)
}

func (p *parser) skipSpace() {
	for !p.done() && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n') {
		p.pos++
	}
}

// peek returns the next non-space byte, or 0 at the end
func (p *parser) peek() byte {
	p.skipSpace()
	if p.done() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) expr() (Node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, Left: left, Right: right}
	}
}

func (p *parser) term() (Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, Left: left, Right: right}
	}
}

func (p *parser) unary() (Node, error) {
	op := p.peek()
	if op == '+' || op == '-' {
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()
		p.pos++
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return Unary{Op: op, Operand: operand}, nil
	}
	return p.primary()
}

func (p *parser) primary() (Node, error) {
	c := p.peek()
	switch {
	case c == 0:
		return nil, ErrUnexpectedEnd
	case c == '(':
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()
		p.pos++
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			if p.done() {
				return nil, ErrUnexpectedEnd
			}
			return nil, &SyntaxError{Pos: p.pos, Char: p.src[p.pos]}
		}
		p.pos++
		return inner, nil
	case isDigit(c) || c == '.':
		return p.number()
	}
	return nil, &SyntaxError{Pos: p.pos, Char: c}
}

func (p *parser) number() (Node, error) {
	start := p.pos
	digits := 0
	for !p.done() && isDigit(p.src[p.pos]) {
		p.pos++
		digits++
	}
	if !p.done() && p.src[p.pos] == '.' {
		p.pos++
		for !p.done() && isDigit(p.src[p.pos]) {
			p.pos++
			digits++
		}
	}
	if digits == 0 {
		return nil, &SyntaxError{Pos: start, Char: p.src[start]}
	}

	v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", p.src[start:p.pos], err)
	}
	return Number{Value: v}, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
