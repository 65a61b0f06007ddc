package pattern

import (
	"regexp"
	"strings"

	"github.com/greasekit/greasekit/errs"
)

// AllURLs is the special match pattern that matches every runtime URL.
const AllURLs = "<all_urls>"

// matchShape validates the full scheme://host/path grammar in one pass:
// scheme is http, https, or *; host is *, *.suffix, or a literal dotted
// host; path always begins with /.
var matchShape = regexp.MustCompile(`^(http|https|\*)://(\*|(?:\*\.)?[^/*]+)(/.*)$`)

// MatchPattern is a compiled match-pattern. Both the host expression and the
// path expression must succeed for a URL to match.
type MatchPattern struct {
	raw     string
	allURLs bool
	scheme  string         // "http:", "https:", or "*:"
	hostRe  *regexp.Regexp // nil means any host
	pathRe  *regexp.Regexp
}

// CompileMatch validates and compiles a match pattern. Malformed patterns
// return an errs.KindPattern error; callers that must never propagate treat
// that as "does not match".
func CompileMatch(raw string) (*MatchPattern, error) {
	if raw == AllURLs {
		return &MatchPattern{raw: raw, allURLs: true}, nil
	}

	m := matchShape.FindStringSubmatch(raw)
	if m == nil {
		return nil, errs.Newf(errs.KindPattern, "pattern.CompileMatch", "malformed match pattern: %q", raw)
	}

	hostRe, err := compileHost(m[2])
	if err != nil {
		return nil, err
	}
	pathRe, err := globRegexp(m[3], false)
	if err != nil {
		return nil, errs.Wrap(errs.KindPattern, "pattern.CompileMatch", err)
	}

	return &MatchPattern{
		raw:    raw,
		scheme: m[1] + ":",
		hostRe: hostRe,
		pathRe: pathRe,
	}, nil
}

// compileHost derives the host expression: nil for the bare * host, a
// suffix-or-any-subdomain expression for *.suffix, or an exact literal.
// Host matching is case-insensitive; URL hosts arrive lowercased already but
// pattern text may not be.
func compileHost(host string) (*regexp.Regexp, error) {
	if host == "*" {
		return nil, nil
	}
	host = strings.ToLower(host)
	if suffix, ok := strings.CutPrefix(host, "*."); ok {
		return regexp.Compile(`^(?:.*\.)?` + regexp.QuoteMeta(suffix) + `$`)
	}
	return regexp.Compile(`^` + regexp.QuoteMeta(host) + `$`)
}

// Matches evaluates the pattern against a decomposed URL. Only http and
// https URLs can ever match; a * scheme in the pattern covers both.
func (p *MatchPattern) Matches(u URL) bool {
	if !isRuntimeScheme(u.Scheme) {
		return false
	}
	if p.allURLs {
		return true
	}
	if p.scheme != "*:" && p.scheme != u.Scheme {
		return false
	}
	if p.hostRe != nil && !p.hostRe.MatchString(u.Host) {
		return false
	}
	return p.pathRe.MatchString(u.Path)
}

// Raw returns the pattern source text.
func (p *MatchPattern) Raw() string {
	return p.raw
}
