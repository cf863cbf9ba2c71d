// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bib

import (
	"fmt"
	"strings"
)

// field is one name = value pair of an entry, in source order.
type field struct {
	name  string
	value string
}

// entry is one @type{key, ...} record.
type entry struct {
	typ    string
	key    string
	fields []field
}

// valuePart is one operand of a # concatenation.
type valuePart struct {
	text  string
	delim byte // '{', '"', or 0 for a bare number or macro name
	macro bool
}

// scanner reads BibTeX source. Text outside @ entries is a comment, as it is
// for BibTeX itself; a % outside an entry hides the rest of its line, @
// included. @comment and @preamble blocks are skipped and @string definitions are
// read but not applied, so macro references keep their names.
type scanner struct {
	src string
	i   int
}

func scanEntries(src string) ([]entry, error) {
	s := &scanner{src: src}
	var entries []entry
	for {
		if !s.skipToEntry() {
			return entries, nil
		}
		s.i++ // @
		s.skipSpace()
		typ := strings.ToLower(s.ident())
		if typ == "" {
			return nil, s.errorf("expected entry type after @")
		}
		s.skipSpace()
		closer, err := s.open()
		if err != nil {
			return nil, err
		}

		switch typ {
		case "comment", "preamble":
			if err := s.skipBalanced(closer); err != nil {
				return nil, err
			}
		case "string":
			if err := s.stringDef(closer); err != nil {
				return nil, err
			}
		default:
			e, err := s.entry(typ, closer)
			if err != nil {
				return nil, err
			}
			entries = append(entries, e)
		}
	}
}

// skipToEntry advances to the next @ that starts an entry and reports whether
// one was found.
func (s *scanner) skipToEntry() bool {
	for s.i < len(s.src) {
		switch s.src[s.i] {
		case '@':
			return true
		case '%':
			for s.i < len(s.src) && s.src[s.i] != '\n' {
				s.i++
			}
		default:
			s.i++
		}
	}
	return false
}

func (s *scanner) entry(typ string, closer byte) (entry, error) {
	e := entry{typ: typ}

	start := s.i
	for s.i < len(s.src) && s.src[s.i] != ',' && s.src[s.i] != closer {
		s.i++
	}
	if s.i >= len(s.src) {
		return e, s.errorf("unterminated @%s entry", typ)
	}
	e.key = strings.TrimSpace(s.src[start:s.i])
	if s.src[s.i] == closer {
		s.i++
		return e, nil
	}
	s.i++ // ,

	for {
		s.skipSpace()
		if s.i >= len(s.src) {
			return e, s.errorf("unterminated entry %q", e.key)
		}
		if s.src[s.i] == closer {
			s.i++
			return e, nil
		}

		name := s.ident()
		if name == "" {
			return e, s.errorf("expected field name in entry %q", e.key)
		}
		s.skipSpace()
		if !s.consume('=') {
			return e, s.errorf("expected '=' after field %q in entry %q", name, e.key)
		}
		value, err := s.value()
		if err != nil {
			return e, fmt.Errorf("field %q in entry %q: %w", name, e.key, err)
		}
		e.fields = append(e.fields, field{name: name, value: value})

		s.skipSpace()
		switch {
		case s.consume(','):
		case s.consume(closer):
			return e, nil
		default:
			return e, s.errorf("expected ',' or %q after field %q in entry %q", closer, name, e.key)
		}
	}
}

func (s *scanner) stringDef(closer byte) error {
	s.skipSpace()
	name := s.ident()
	if name == "" {
		return s.errorf("expected macro name in @string")
	}
	s.skipSpace()
	if !s.consume('=') {
		return s.errorf("expected '=' after macro %q", name)
	}
	if _, err := s.value(); err != nil {
		return fmt.Errorf("macro %q: %w", name, err)
	}
	s.skipSpace()
	if !s.consume(closer) {
		return s.errorf("expected %q after macro %q", closer, name)
	}
	return nil
}

// value reads a field value: one or more parts joined by #. A value made only
// of literals is their concatenation; a value that references a macro is
// kept as written.
func (s *scanner) value() (string, error) {
	var parts []valuePart
	for {
		s.skipSpace()
		p, err := s.part()
		if err != nil {
			return "", err
		}
		parts = append(parts, p)
		s.skipSpace()
		if !s.consume('#') {
			break
		}
	}
	return renderValue(parts), nil
}

func (s *scanner) part() (valuePart, error) {
	if s.i >= len(s.src) {
		return valuePart{}, s.errorf("expected value")
	}
	switch s.src[s.i] {
	case '{':
		s.i++
		start := s.i
		if err := s.skipBalanced('}'); err != nil {
			return valuePart{}, err
		}
		return valuePart{text: s.src[start : s.i-1], delim: '{'}, nil
	case '"':
		s.i++
		start := s.i
		depth := 0
		for ; s.i < len(s.src); s.i++ {
			switch s.src[s.i] {
			case '\\':
				s.i++
			case '{':
				depth++
			case '}':
				depth--
			case '"':
				if depth == 0 {
					text := s.src[start:s.i]
					s.i++
					return valuePart{text: text, delim: '"'}, nil
				}
			}
		}
		return valuePart{}, s.errorf("unterminated quoted value")
	}

	word := s.ident()
	if word == "" {
		return valuePart{}, s.errorf("expected value")
	}
	return valuePart{text: word, macro: !isNumber(word)}, nil
}

func renderValue(parts []valuePart) string {
	if len(parts) == 1 {
		return parts[0].text
	}
	var b strings.Builder
	literal := true
	for _, p := range parts {
		if p.macro {
			literal = false
			break
		}
	}
	for i, p := range parts {
		if literal {
			b.WriteString(p.text)
			continue
		}
		if i > 0 {
			b.WriteString(" # ")
		}
		switch p.delim {
		case '{':
			b.WriteString("{" + p.text + "}")
		case '"':
			b.WriteString(`"` + p.text + `"`)
		default:
			b.WriteString(p.text)
		}
	}
	return b.String()
}

// open consumes the { or ( that starts an entry body and returns the
// matching closer.
func (s *scanner) open() (byte, error) {
	switch {
	case s.consume('{'):
		return '}', nil
	case s.consume('('):
		return ')', nil
	}
	return 0, s.errorf("expected '{' or '(' after entry type")
}

// skipBalanced advances past closer, skipping nested brace groups.
func (s *scanner) skipBalanced(closer byte) error {
	start := s.i
	depth := 0
	for ; s.i < len(s.src); s.i++ {
		c := s.src[s.i]
		switch {
		case c == '\\':
			s.i++
		case c == closer && depth == 0:
			s.i++
			return nil
		case c == '{':
			depth++
		case c == '}':
			depth--
		}
	}
	s.i = start
	return s.errorf("unbalanced braces")
}

func (s *scanner) ident() string {
	start := s.i
	for s.i < len(s.src) && isIdentByte(s.src[s.i]) {
		s.i++
	}
	return s.src[start:s.i]
}

func (s *scanner) skipSpace() {
	for s.i < len(s.src) && strings.IndexByte(" \t\r\n", s.src[s.i]) >= 0 {
		s.i++
	}
}

func (s *scanner) consume(c byte) bool {
	if s.i < len(s.src) && s.src[s.i] == c {
		s.i++
		return true
	}
	return false
}

func (s *scanner) errorf(format string, args ...any) error {
	line := strings.Count(s.src[:min(s.i, len(s.src))], "\n") + 1
	return fmt.Errorf("line %d: %s", line, fmt.Sprintf(format, args...))
}

func isIdentByte(c byte) bool {
	if c <= ' ' || c >= 0x7f {
		return false
	}
	return !strings.ContainsRune(`{}(),="#%@\`, rune(c))
}

func isNumber(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
