package record

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Kind is the declared type of a template placeholder.
type Kind int

const (
	kindLiteral Kind = iota
	// KindInt is a signed decimal integer: {int}
	KindInt
	// KindUint is an unsigned decimal integer: {uint}
	KindUint
	// KindChar is exactly one character: {char}
	KindChar
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindChar:
		return "char"
	default:
		return "literal"
	}
}

var placeholderKinds = map[string]Kind{
	"int":  KindInt,
	"uint": KindUint,
	"char": KindChar,
}

// Value is one converted placeholder. Int is set for integer kinds, Char for
// KindChar.
type Value struct {
	Kind Kind
	Int  int64
	Char rune
}

// IntValue and CharValue build placeholder values for Format.
func IntValue(v int64) Value { return Value{Kind: KindInt, Int: v} }
func CharValue(r rune) Value { return Value{Kind: KindChar, Char: r} }

func isNumeric(k Kind) bool { return k == KindInt || k == KindUint }

type token struct {
	kind Kind
	text string
}

// Template is a compiled line format: literal text interleaved with typed
// placeholders. Safe for concurrent use once compiled.
type Template struct {
	source string
	tokens []token
	arity  int
}

// Compile tokenizes a format string. Braces only introduce placeholders;
// an unknown name or an unterminated brace is an error.
func Compile(format string) (*Template, error) {
	t := &Template{source: format}
	rest := format

	for len(rest) > 0 {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			t.tokens = append(t.tokens, token{kind: kindLiteral, text: rest})
			break
		}
		if open > 0 {
			t.tokens = append(t.tokens, token{kind: kindLiteral, text: rest[:open]})
		}

		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return nil, fmt.Errorf("template %q: unterminated placeholder at offset %d", format, len(format)-len(rest)+open)
		}
		name := rest[open+1 : open+end]
		kind, ok := placeholderKinds[name]
		if !ok {
			return nil, fmt.Errorf("template %q: unknown placeholder {%s}", format, name)
		}
		if n := len(t.tokens); n > 0 && isNumeric(t.tokens[n-1].kind) && isNumeric(kind) {
			// two adjacent numbers cannot be split unambiguously
			return nil, fmt.Errorf("template %q: placeholder {%s} directly follows another placeholder", format, name)
		}

		t.tokens = append(t.tokens, token{kind: kind})
		t.arity++
		rest = rest[open+end+1:]
	}

	return t, nil
}

// MustCompile is Compile for package-level templates.
func MustCompile(format string) *Template {
	t, err := Compile(format)
	if err != nil {
		panic(err)
	}
	return t
}

// String returns the format the template was compiled from.
func (t *Template) String() string { return t.source }

// Arity is the number of placeholders.
func (t *Template) Arity() int { return t.arity }

// Match parses line against the template. On any mismatch it returns a
// *MalformedRecordError and no values.
func (t *Template) Match(line string) ([]Value, error) {
	values := make([]Value, 0, t.arity)
	pos := 0

	for _, tok := range t.tokens {
		switch tok.kind {
		case kindLiteral:
			if !strings.HasPrefix(line[pos:], tok.text) {
				return nil, t.malformed(line, fmt.Errorf("expected %q at column %d", tok.text, pos+1))
			}
			pos += len(tok.text)

		case KindInt, KindUint:
			end := scanDigits(line, pos, tok.kind == KindInt)
			if end == pos {
				return nil, t.malformed(line, fmt.Errorf("expected %s at column %d", tok.kind, pos+1))
			}
			v, err := strconv.ParseInt(line[pos:end], 10, 64)
			if err != nil {
				var numErr *strconv.NumError
				if errors.As(err, &numErr) {
					err = numErr.Err
				}
				return nil, t.malformed(line, fmt.Errorf("%s %q at column %d: %w", tok.kind, line[pos:end], pos+1, err))
			}
			values = append(values, Value{Kind: tok.kind, Int: v})
			pos = end

		case KindChar:
			r, size := utf8.DecodeRuneInString(line[pos:])
			if size == 0 || r == utf8.RuneError {
				return nil, t.malformed(line, fmt.Errorf("expected char at column %d", pos+1))
			}
			values = append(values, Value{Kind: KindChar, Char: r})
			pos += size
		}
	}

	if pos != len(line) {
		return nil, t.malformed(line, fmt.Errorf("unexpected trailing input %q at column %d", line[pos:], pos+1))
	}

	return values, nil
}

// scanDigits returns the end of the number starting at pos, or pos when there
// is none. A sign is only accepted for signed placeholders.
func scanDigits(s string, pos int, signed bool) int {
	i := pos
	if signed && i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return pos
	}
	return i
}

// Format renders values back into a line. Values must line up with the
// placeholders by position and kind (KindUint and KindInt are interchangeable).
func (t *Template) Format(values ...Value) (string, error) {
	if len(values) != t.arity {
		return "", fmt.Errorf("template %q: got %d values, want %d", t.source, len(values), t.arity)
	}

	var b strings.Builder
	i := 0
	for _, tok := range t.tokens {
		if tok.kind == kindLiteral {
			b.WriteString(tok.text)
			continue
		}

		v := values[i]
		i++
		switch tok.kind {
		case KindChar:
			if v.Kind != KindChar {
				return "", fmt.Errorf("template %q: value %d is %s, want char", t.source, i, v.Kind)
			}
			b.WriteRune(v.Char)
		case KindUint:
			if v.Kind == KindChar || v.Int < 0 {
				return "", fmt.Errorf("template %q: value %d is not an unsigned integer", t.source, i)
			}
			b.WriteString(strconv.FormatInt(v.Int, 10))
		default:
			if v.Kind == KindChar {
				return "", fmt.Errorf("template %q: value %d is char, want int", t.source, i)
			}
			b.WriteString(strconv.FormatInt(v.Int, 10))
		}
	}

	return b.String(), nil
}

func (t *Template) malformed(line string, err error) *MalformedRecordError {
	return &MalformedRecordError{Line: line, Template: t.source, Err: err}
}

// IsBlank reports whether a line carries no content. Blank lines are skipped
// by scans without being reported.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
