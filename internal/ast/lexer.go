package ast

import "strings"

// IsIdentChar reports whether r belongs to the strict identifier alphabet
// `[A-Za-z0-9_]`, mirroring the teacher tokenizer's isKeyChar but narrowed
// to the spec's strict field/alias/cast alphabet (no '.', ':', '-': those
// belong to the permissive fallback, not the strict grammar).
func IsIdentChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
}

// IsIdent reports whether s is non-empty and every rune satisfies
// IsIdentChar, or s is the literal "*".
func IsIdent(s string) bool {
	if s == "*" {
		return true
	}
	if s == "" {
		return false
	}
	for _, r := range s {
		if !IsIdentChar(r) {
			return false
		}
	}
	return true
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

// ParsePermissiveField accepts field names containing characters outside
// the strict alphabet (e.g. "schema.table.column"), per spec.md §4.1 and
// §9: the base name is everything up to the first "::", and JSON path
// steps are re-extracted by pairing consecutive "->"/"->>" tokens with
// their following segments anywhere in that prefix.
func ParsePermissiveField(s string) Field {
	base := s
	var cast string
	if idx := strings.Index(s, "::"); idx >= 0 {
		base = s[:idx]
		cast = s[idx+2:]
	}

	var steps []PathStep
	name := base
	if idx := firstArrowIndex(base); idx >= 0 {
		name = base[:idx]
		tail := base[idx:]
		for len(tail) > 0 {
			var kind PathStepKind
			var skip int
			switch {
			case strings.HasPrefix(tail, "->>"):
				kind, skip = StepDoubleArrow, 3
			case strings.HasPrefix(tail, "->"):
				kind, skip = StepArrow, 2
			default:
				// Not a recognized step marker; fold the remainder into the
				// base name verbatim rather than losing characters.
				name += tail
				tail = ""
				continue
			}
			tail = tail[skip:]
			next := firstArrowIndex(tail)
			var key string
			if next < 0 {
				key = tail
				tail = ""
			} else {
				key = tail[:next]
				tail = tail[next:]
			}
			if isAllDigits(key) {
				steps = append(steps, PathStep{Kind: StepArrayIndex, Index: atoiSafe(key)})
			} else {
				steps = append(steps, PathStep{Kind: kind, Key: key})
			}
		}
	}

	return Field{Name: name, Path: steps, Cast: cast}
}

func firstArrowIndex(s string) int {
	return strings.Index(s, "->")
}
