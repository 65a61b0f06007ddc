package pattern

import (
	"regexp"
	"strings"

	"github.com/greasekit/greasekit/errs"
)

// IncludePattern is a compiled include/exclude pattern, evaluated against the
// full URL string. A pattern wrapped in /…/ is taken as a literal regular
// expression; anything else is a whole-URL glob anchored at both ends. Both
// forms are case-insensitive.
type IncludePattern struct {
	raw string
	re  *regexp.Regexp
}

// CompileInclude compiles an include/exclude pattern.
func CompileInclude(raw string) (*IncludePattern, error) {
	if len(raw) > 2 && strings.HasPrefix(raw, "/") && strings.HasSuffix(raw, "/") {
		re, err := regexp.Compile("(?i)" + raw[1:len(raw)-1])
		if err != nil {
			return nil, errs.Wrap(errs.KindPattern, "pattern.CompileInclude", err)
		}
		return &IncludePattern{raw: raw, re: re}, nil
	}

	re, err := globRegexp(raw, true)
	if err != nil {
		return nil, errs.Wrap(errs.KindPattern, "pattern.CompileInclude", err)
	}
	return &IncludePattern{raw: raw, re: re}, nil
}

// Matches evaluates the pattern against the original URL string.
func (p *IncludePattern) Matches(rawURL string) bool {
	return p.re.MatchString(rawURL)
}

// Raw returns the pattern source text.
func (p *IncludePattern) Raw() string {
	return p.raw
}
