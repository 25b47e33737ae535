package vdf

import (
	"io"
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/stephen-fox/steamcmdw/internal/steamerr"
)

const (
	tokEOF tokenKind = iota
	tokString
	tokOpen
	tokClose
	tokCondition
)

type tokenKind int

type token struct {
	kind  tokenKind
	value string
	line  int
}

type lexer struct {
	src  string
	pos  int
	line int
	peek *token

	// conditions is set only while reading the token after a value, the
	// one place a [$COND] can appear.
	conditions bool
}

func (o *lexer) next() (token, error) {
	if o.peek != nil {
		t := *o.peek
		o.peek = nil
		return t, nil
	}

	return o.scan()
}

func (o *lexer) unread(t token) {
	o.peek = &t
}

func (o *lexer) scan() (token, error) {
	o.skipSpaceAndComments()

	if o.pos >= len(o.src) {
		return token{kind: tokEOF, line: o.line}, nil
	}

	c := o.src[o.pos]

	switch c {
	case '{':
		o.pos++
		return token{kind: tokOpen, value: "{", line: o.line}, nil
	case '}':
		o.pos++
		return token{kind: tokClose, value: "}", line: o.line}, nil
	case '"':
		return o.quoted()
	case '[':
		if !o.conditions {
			break
		}

		end := strings.IndexByte(o.src[o.pos:], ']')
		if end < 0 {
			return token{}, o.errorf("unterminated conditional")
		}

		t := token{kind: tokCondition, value: o.src[o.pos : o.pos+end+1], line: o.line}
		o.pos += end + 1
		return t, nil
	}

	start := o.pos
	for o.pos < len(o.src) && !isDelimiter(o.src[o.pos]) {
		o.pos++
	}

	return token{kind: tokString, value: o.src[start:o.pos], line: o.line}, nil
}

func (o *lexer) quoted() (token, error) {
	line := o.line
	o.pos++

	var b strings.Builder

	for o.pos < len(o.src) {
		c := o.src[o.pos]

		switch c {
		case '"':
			o.pos++
			return token{kind: tokString, value: b.String(), line: line}, nil
		case '\\':
			if o.pos+1 >= len(o.src) {
				return token{}, o.errorf("unterminated string")
			}

			o.pos++
			switch o.src[o.pos] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			default:
				b.WriteByte('\\')
				b.WriteByte(o.src[o.pos])
			}
		case '\n':
			o.line++
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}

		o.pos++
	}

	o.line = line
	return token{}, o.errorf("unterminated string")
}

func (o *lexer) skipSpaceAndComments() {
	for o.pos < len(o.src) {
		c := o.src[o.pos]

		switch {
		case c == '\n':
			o.line++
			o.pos++
		case c == ' ' || c == '\t' || c == '\r':
			o.pos++
		case c == '/' && o.pos+1 < len(o.src) && o.src[o.pos+1] == '/':
			end := strings.IndexByte(o.src[o.pos:], '\n')
			if end < 0 {
				o.pos = len(o.src)
			} else {
				o.pos += end
			}
		default:
			return
		}
	}
}

func (o *lexer) errorf(reason string) error {
	return steamerr.ParseError("Failed to parse VDF on line "+strconv.Itoa(o.line)+" - "+reason, nil)
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '{', '}', '"':
		return true
	}

	return false
}

// Decode parses VDF text into a Tree. Malformed input returns a parse
// error and no tree.
func Decode(raw string) (*Tree, error) {
	l := &lexer{
		src:  strings.TrimPrefix(raw, "\ufeff"),
		line: 1,
	}

	t, err := decodeObject(l, true)
	if err != nil {
		return nil, err
	}

	return t, nil
}

// DecodeReader reads all of r and decodes it.
func DecodeReader(r io.Reader) (*Tree, error) {
	raw, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, steamerr.ParseError("Failed to read VDF", err)
	}

	return Decode(string(raw))
}

func decodeObject(l *lexer, root bool) (*Tree, error) {
	t := NewTree()

	for {
		keyTok, err := l.next()
		if err != nil {
			return nil, err
		}

		switch keyTok.kind {
		case tokEOF:
			if !root {
				return nil, l.errorf("missing closing brace")
			}

			return t, nil
		case tokClose:
			if root {
				return nil, l.errorf("unexpected closing brace")
			}

			return t, nil
		case tokString:
		default:
			return nil, l.errorf("expected a key but found '" + keyTok.value + "'")
		}

		valueTok, err := l.next()
		if err != nil {
			return nil, err
		}

		switch valueTok.kind {
		case tokString:
			t.Set(keyTok.value, valueTok.value)
		case tokOpen:
			child, err := decodeObject(l, false)
			if err != nil {
				return nil, err
			}

			t.Set(keyTok.value, child)
		default:
			return nil, l.errorf("key '" + keyTok.value + "' has no value")
		}

		err = skipCondition(l)
		if err != nil {
			return nil, err
		}
	}
}

// skipCondition drops a platform conditional such as [$WIN32] that may
// follow a value.
func skipCondition(l *lexer) error {
	l.conditions = true
	t, err := l.next()
	l.conditions = false
	if err != nil {
		return err
	}

	if t.kind != tokCondition {
		l.unread(t)
	}

	return nil
}
