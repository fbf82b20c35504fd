package sexp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrIncomplete marks input that ran out before a datum was closed. REPL
// front-ends probe for it to decide whether to keep prompting.
var ErrIncomplete = errors.New("incomplete expression")

// IsIncomplete reports whether err stems from truncated input.
func IsIncomplete(err error) bool {
	return errors.Is(err, ErrIncomplete)
}

// Read parses exactly one datum from src. Trailing whitespace and comments
// are permitted; any further datum is an error.
func Read(src string) (Value, error) {
	r := &reader{input: src}
	r.skipSpace()
	if r.eof() {
		return nil, fmt.Errorf("read: empty input: %w", ErrIncomplete)
	}
	v, err := r.readValue()
	if err != nil {
		return nil, err
	}
	r.skipSpace()
	if !r.eof() {
		return nil, fmt.Errorf("read: unexpected trailing input at offset %d", r.pos)
	}
	return v, nil
}

type reader struct {
	input string
	pos   int
}

func (r *reader) eof() bool {
	return r.pos >= len(r.input)
}

func (r *reader) peek() byte {
	return r.input[r.pos]
}

func (r *reader) skipSpace() {
	for !r.eof() {
		c := r.peek()
		if c == ';' {
			for !r.eof() && r.peek() != '\n' {
				r.pos++
			}
			continue
		}
		if !unicode.IsSpace(rune(c)) {
			return
		}
		r.pos++
	}
}

func (r *reader) readValue() (Value, error) {
	r.skipSpace()
	if r.eof() {
		return nil, fmt.Errorf("read: unexpected end of input: %w", ErrIncomplete)
	}
	switch c := r.peek(); c {
	case '(':
		r.pos++
		return r.readList()
	case ')':
		return nil, fmt.Errorf("read: unexpected ')' at offset %d", r.pos)
	case '\'':
		r.pos++
		quoted, err := r.readValue()
		if err != nil {
			return nil, err
		}
		return List(Symbol{Name: "quote"}, quoted), nil
	case '"':
		return r.readString()
	default:
		return r.readAtom()
	}
}

func (r *reader) readList() (Value, error) {
	var elems []Value
	for {
		r.skipSpace()
		if r.eof() {
			return nil, fmt.Errorf("read: unterminated list: %w", ErrIncomplete)
		}
		switch r.peek() {
		case ')':
			r.pos++
			return List(elems...), nil
		case '.':
			if r.isDottedTail() {
				r.pos++
				if len(elems) == 0 {
					return nil, fmt.Errorf("read: dotted pair with no head at offset %d", r.pos)
				}
				tail, err := r.readValue()
				if err != nil {
					return nil, err
				}
				r.skipSpace()
				if r.eof() {
					return nil, fmt.Errorf("read: unterminated dotted pair: %w", ErrIncomplete)
				}
				if r.peek() != ')' {
					return nil, fmt.Errorf("read: expected ')' after dotted tail at offset %d", r.pos)
				}
				r.pos++
				out := tail
				for i := len(elems) - 1; i >= 0; i-- {
					out = Pair{Car: elems[i], Cdr: out}
				}
				return out, nil
			}
		}
		elem, err := r.readValue()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
	}
}

// isDottedTail distinguishes the pair dot from atoms that merely start
// with '.', such as the symbol "..." or a number like ".5".
func (r *reader) isDottedTail() bool {
	next := r.pos + 1
	if next >= len(r.input) {
		return true
	}
	c := r.input[next]
	return unicode.IsSpace(rune(c)) || c == '(' || c == ')' || c == '"' || c == '\''
}

func (r *reader) readString() (Value, error) {
	start := r.pos
	r.pos++ // opening quote
	var b strings.Builder
	for {
		if r.eof() {
			return nil, fmt.Errorf("read: unterminated string starting at offset %d: %w", start, ErrIncomplete)
		}
		c := r.peek()
		r.pos++
		switch c {
		case '"':
			return String{Val: b.String()}, nil
		case '\\':
			if r.eof() {
				return nil, fmt.Errorf("read: unterminated string escape: %w", ErrIncomplete)
			}
			esc := r.peek()
			r.pos++
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '\\', '"':
				b.WriteByte(esc)
			default:
				return nil, fmt.Errorf("read: unsupported string escape \\%c", esc)
			}
		default:
			b.WriteByte(c)
		}
	}
}

func isDelimiter(c byte) bool {
	return unicode.IsSpace(rune(c)) || c == '(' || c == ')' || c == '"' || c == '\'' || c == ';'
}

func (r *reader) readAtom() (Value, error) {
	start := r.pos
	for !r.eof() && !isDelimiter(r.peek()) {
		r.pos++
	}
	text := r.input[start:r.pos]
	switch text {
	case "#t":
		return Boolean{Val: true}, nil
	case "#f":
		return Boolean{Val: false}, nil
	}
	if strings.HasPrefix(text, "#") {
		return nil, fmt.Errorf("read: unsupported literal %q at offset %d", text, start)
	}
	if n, err := strconv.ParseFloat(text, 64); err == nil {
		return Number{Val: n}, nil
	}
	return Symbol{Name: text}, nil
}
