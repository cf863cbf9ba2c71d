// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cite finds citation keys in LaTeX documents.
// citations.go handles single-document extraction; collect.go walks a
// document tree and unions the results.
package cite

import (
	"regexp"
	"sort"
	"strings"
)

// citeRe matches \cite{body}. The body stops at the first closing brace and
// may be empty.
var citeRe = regexp.MustCompile(`\\cite\{([^}]*)\}`)

// Set is an unordered collection of unique citation keys.
type Set map[string]struct{}

// NewSet returns a set holding keys.
func NewSet(keys ...string) Set {
	s := make(Set, len(keys))
	for _, k := range keys {
		s.Add(k)
	}
	return s
}

// Add inserts key.
func (s Set) Add(key string) {
	s[key] = struct{}{}
}

// Has reports whether key is in the set.
func (s Set) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Union adds every key of other to s.
func (s Set) Union(other Set) {
	for k := range other {
		s[k] = struct{}{}
	}
}

// Sorted returns the keys in ascending order.
func (s Set) Sorted() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Extract returns every key referenced by a \cite{} macro in text. Lines are
// processed independently with inline comments removed first. A macro body
// is split on commas and each trimmed piece is a key, so \cite{a, b} yields
// "a" and "b" and an empty body yields the empty key.
func Extract(text string) Set {
	keys := make(Set)
	for _, line := range strings.Split(text, "\n") {
		line = stripComment(line)
		for _, m := range citeRe.FindAllStringSubmatch(line, -1) {
			for _, piece := range strings.Split(m[1], ",") {
				keys.Add(strings.TrimSpace(piece))
			}
		}
	}
	return keys
}

// stripComment cuts line at the first % that is not escaped as \%.
func stripComment(line string) string {
	for i := 0; i < len(line); i++ {
		if line[i] != '%' {
			continue
		}
		if i > 0 && line[i-1] == '\\' {
			continue
		}
		return line[:i]
	}
	return line
}
