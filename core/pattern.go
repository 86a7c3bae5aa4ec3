package core

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	segmentGroup  = `([^/?]+)`
	wildcardGroup = `/([^/?]+)`
	greedyGroup   = `(.*)`
	querySuffix   = `(?:\?.*)?$`
)

// Pattern is a compiled route path: an anchored matcher and the names of its
// named params, in order of appearance.
type Pattern struct {
	Source     string
	Matcher    *regexp.Regexp
	ParamNames []string

	// paramGroups holds the capture group of each ParamNames entry.
	paramGroups []int
}

// Compile turns a path pattern into a Pattern.
//
// The pattern language is a regular-expression fragment with three shorthands:
//
//	"/user/:id"    ":id" captures one path segment as the param "id"
//	"/files/*"     "/*" captures one path segment as a splat
//	"/search/**"   "**" captures everything that follows as a splat
//
// Trailing slashes are ignored, a trailing query string is always allowed,
// and any other text is used verbatim. Groups written by the caller are
// captured as splats, in capture order with the wildcards. Escapes, character
// classes and group prefixes such as "(?:" or "(?i:" are copied as-is, so a
// ':' inside them never starts a param.
func Compile(pattern string, ignoreCase bool) (Pattern, error) {
	src := strings.TrimRight(pattern, "/")

	var b strings.Builder
	var names []string
	var groups []int
	captures := 0
	if ignoreCase {
		b.WriteString("(?i)")
	}
	b.WriteByte('^')

	for i := 0; i < len(src); {
		switch {
		case src[i] == '\\':
			j := min(i+2, len(src))
			b.WriteString(src[i:j])
			i = j
		case src[i] == '[':
			j := classEnd(src, i)
			b.WriteString(src[i:j])
			i = j
		case src[i] == '(' && i+1 < len(src) && src[i+1] == '?':
			j := groupPrefixEnd(src, i)
			prefix := src[i:j]
			if strings.HasPrefix(prefix, "(?P<") || strings.HasPrefix(prefix, "(?<") {
				captures++
			}
			b.WriteString(prefix)
			i = j
		case src[i] == '(':
			captures++
			b.WriteByte('(')
			i++
		case src[i] == ':' && i+1 < len(src) && isWordByte(src[i+1]):
			j := i + 1
			for j < len(src) && isWordByte(src[j]) {
				j++
			}
			captures++
			names = append(names, src[i+1:j])
			groups = append(groups, captures)
			b.WriteString(segmentGroup)
			i = j
		// ** is checked before /* so "/**" stays greedy.
		case strings.HasPrefix(src[i:], "**"):
			captures++
			b.WriteString(greedyGroup)
			i += 2
		case strings.HasPrefix(src[i:], "/*") && (i+2 == len(src) || src[i+2] != '*'):
			captures++
			b.WriteString(wildcardGroup)
			i += 2
		default:
			b.WriteByte(src[i])
			i++
		}
	}
	b.WriteString(querySuffix)

	re, err := regexp.Compile(b.String())
	if err != nil {
		return Pattern{}, fmt.Errorf("%w %q: %v", ErrInvalidPattern, pattern, err)
	}
	if re.NumSubexp() != captures {
		return Pattern{}, fmt.Errorf("%w %q: counted %d groups but matcher has %d", ErrInvalidPattern, pattern, captures, re.NumSubexp())
	}
	return Pattern{Source: pattern, Matcher: re, ParamNames: names, paramGroups: groups}, nil
}

// classEnd returns the index just past the character class opening at i.
func classEnd(src string, i int) int {
	j := i + 1
	if j < len(src) && src[j] == '^' {
		j++
	}
	if j < len(src) && src[j] == ']' {
		j++
	}
	for j < len(src) && src[j] != ']' {
		if src[j] == '\\' {
			j++
		}
		j++
	}
	return min(j+1, len(src))
}

// groupPrefixEnd returns the index just past the "(?...:", "(?...)" or
// "(?P<name>" prefix opening at i.
func groupPrefixEnd(src string, i int) int {
	j := i + 2
	for j < len(src) && src[j] != ':' && src[j] != ')' && src[j] != '>' {
		j++
	}
	return min(j+1, len(src))
}

// FromMatcher wraps a caller-built expression. It has no param names, so
// every capture group becomes a splat.
func FromMatcher(re *regexp.Regexp) Pattern {
	return Pattern{Source: re.String(), Matcher: re}
}

// Match reports whether path is accepted by the pattern.
func (p Pattern) Match(path string) bool {
	return p.Matcher != nil && p.Matcher.MatchString(path)
}

// Extract maps the named params of path to their captures. Every other
// capture is returned as a splat, in capture order.
func (p Pattern) Extract(path string) (params map[string]string, splat []string, ok bool) {
	if p.Matcher == nil {
		return nil, nil, false
	}
	m := p.Matcher.FindStringSubmatch(path)
	if m == nil {
		return nil, nil, false
	}

	named := make(map[int]bool, len(p.ParamNames))
	params = make(map[string]string, len(p.ParamNames))
	for i, name := range p.ParamNames {
		g := i + 1
		if i < len(p.paramGroups) {
			g = p.paramGroups[i]
		}
		params[name] = m[g]
		named[g] = true
	}
	splat = []string{}
	for g := 1; g < len(m); g++ {
		if !named[g] {
			splat = append(splat, m[g])
		}
	}
	return params, splat, true
}

func isWordByte(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}
