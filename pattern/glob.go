package pattern

import (
	"regexp"
	"strings"
)

// globSegment is one node of a parsed glob: either a literal run or a single
// wildcard standing for zero or more of any character.
type globSegment struct {
	literal  string
	wildcard bool
}

// parseGlob splits a glob pattern into literal and wildcard segments.
// Consecutive * characters collapse into one wildcard node.
func parseGlob(pattern string) []globSegment {
	var segs []globSegment
	var lit strings.Builder
	for _, r := range pattern {
		if r == '*' {
			if lit.Len() > 0 {
				segs = append(segs, globSegment{literal: lit.String()})
				lit.Reset()
			}
			if len(segs) == 0 || !segs[len(segs)-1].wildcard {
				segs = append(segs, globSegment{wildcard: true})
			}
			continue
		}
		lit.WriteRune(r)
	}
	if lit.Len() > 0 {
		segs = append(segs, globSegment{literal: lit.String()})
	}
	return segs
}

// globRegexp compiles a glob into an anchored regular expression. Literal
// segments are quoted so regex metacharacters in the pattern stay literal.
func globRegexp(pattern string, caseInsensitive bool) (*regexp.Regexp, error) {
	var b strings.Builder
	if caseInsensitive {
		b.WriteString("(?i)")
	}
	b.WriteString("^")
	for _, seg := range parseGlob(pattern) {
		if seg.wildcard {
			b.WriteString(".*")
		} else {
			b.WriteString(regexp.QuoteMeta(seg.literal))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}
