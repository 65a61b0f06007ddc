// Package pattern compiles and evaluates the two URL pattern dialects used
// for injection matching: the restricted scheme://host/path match-pattern
// grammar and the free-form include/exclude glob-or-regex grammar. Compiled
// patterns are cached per dialect.
package pattern

import (
	"regexp"
	"strings"

	"github.com/greasekit/greasekit/errs"
)

// URL is the decomposed form of a page URL. Scheme keeps its trailing colon
// ("https:"); Host is lowercased; Path defaults to "/" when absent.
type URL struct {
	Raw    string
	Scheme string
	Host   string
	Path   string
}

var urlShape = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9+.-]*:)//([^/]+)(/.*)?$`)

// ParseURL decomposes raw into scheme, host, and path. Failure to match the
// generic scheme://host[/path] shape is a hard failure for callers that need
// the components.
func ParseURL(raw string) (URL, error) {
	m := urlShape.FindStringSubmatch(raw)
	if m == nil {
		return URL{}, errs.Newf(errs.KindPattern, "pattern.ParseURL", "not a scheme://host/path url: %q", raw)
	}
	path := m[3]
	if path == "" {
		path = "/"
	}
	return URL{
		Raw:    raw,
		Scheme: strings.ToLower(m[1]),
		Host:   strings.ToLower(m[2]),
		Path:   path,
	}, nil
}

// isRuntimeScheme reports whether the URL uses a protocol injection can ever
// run on. Patterns with a * scheme still only match these two.
func isRuntimeScheme(scheme string) bool {
	return scheme == "http:" || scheme == "https:"
}
