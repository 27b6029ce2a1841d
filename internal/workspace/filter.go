// Package workspace discovers monorepo members, filters them by
// selector pattern, and builds a dependency graph over in-workspace
// packages for topological ordering.
package workspace

import (
	"strings"

	"github.com/gobwas/glob"
)

// AtomKind classifies one filter atom.
type AtomKind string

const (
	AtomName AtomKind = "name"
	AtomPath AtomKind = "path"
	AtomRoot AtomKind = "root"
)

// Atom is one parsed, possibly-negated filter token.
type Atom struct {
	Kind    AtomKind
	Pattern string
	Negate  bool
}

// ParseFilter splits a comma- or space-separated filter string into
// Atoms. An atom is classified as root if, after stripping a leading
// "!", it is exactly "./"; as path if it starts with "./" or "/"; else
// as name.
func ParseFilter(spec string) []Atom {
	var atoms []Atom
	for _, raw := range splitFilterSpec(spec) {
		if raw == "" {
			continue
		}
		negate := false
		token := raw
		if strings.HasPrefix(token, "!") {
			negate = true
			token = token[1:]
		}
		var kind AtomKind
		switch {
		case token == "./":
			kind = AtomRoot
		case strings.HasPrefix(token, "./") || strings.HasPrefix(token, "/"):
			kind = AtomPath
		default:
			kind = AtomName
		}
		atoms = append(atoms, Atom{Kind: kind, Pattern: token, Negate: negate})
	}
	return atoms
}

func splitFilterSpec(spec string) []string {
	fields := strings.FieldsFunc(spec, func(r rune) bool { return r == ',' || r == ' ' })
	return fields
}

// Member is one workspace package under consideration for filtering.
type Member struct {
	Name string
	Path string
	// IsRoot marks the workspace root package (matched by the "./" root atom).
	IsRoot bool
}

// Matches reports whether member satisfies atoms: at least one
// non-negated atom matches, and no negated atom matches. An empty atom
// list matches every member, including the root. A negated match always
// wins regardless of atom order.
func Matches(member Member, atoms []Atom) bool {
	if len(atoms) == 0 {
		return true
	}

	matchedPositive := false
	for _, atom := range atoms {
		if atomMatches(member, atom) {
			if atom.Negate {
				return false
			}
			matchedPositive = true
		}
	}
	return matchedPositive
}

func atomMatches(member Member, atom Atom) bool {
	if atom.Pattern == "" {
		return false
	}
	switch atom.Kind {
	case AtomRoot:
		return member.IsRoot
	case AtomPath:
		pattern := strings.TrimPrefix(atom.Pattern, "./")
		return matchGlob(pattern, member.Path)
	default:
		return matchGlob(atom.Pattern, member.Name)
	}
}

// matchGlob compiles pattern with gobwas/glob, supporting '*' (greedy,
// any substring) and '?' (single character). A trailing slash in the
// pattern requires a trailing slash in text.
func matchGlob(pattern, text string) bool {
	if strings.HasSuffix(pattern, "/") != strings.HasSuffix(text, "/") {
		return false
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return false
	}
	return g.Match(text)
}
