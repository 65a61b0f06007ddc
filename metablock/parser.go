// Package metablock extracts structured directives from the delimited header
// of a userscript or userstyle file. Two framings are recognized: the
// line-comment form delimited by ==UserScript== sentinels and the
// block-comment form delimited by ==UserStyle== sentinels. Text before the
// opening sentinel is permitted and ignored.
package metablock

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/greasekit/greasekit/errs"
)

// FileType identifies which framing a metablock uses, and by extension which
// file extension its owning file carries.
type FileType string

const (
	TypeJS  FileType = "js"  // userscript framing
	TypeCSS FileType = "css" // userstyle framing
)

// Parse failure sentinels, always wrapped in an errs.KindParse error.
var (
	ErrNoMetablock = errs.New(errs.KindParse, "metablock.Parse", "no metablock found")
	ErrMissingName = errs.New(errs.KindParse, "metablock.Parse", "metablock has no @name")
)

// Parsed is the result of a successful parse. All four text fields are
// retained verbatim: Content for re-save, Block for display, Code for
// injection, Metadata for manifest population.
type Parsed struct {
	Type     FileType  // framing that matched
	Code     string    // trimmed code following the metablock
	Content  string    // full original content
	Block    string    // raw metablock text including sentinels
	Metadata *Metadata // extracted directives
}

var (
	openUserScript  = regexp.MustCompile(`^\s*//\s*==UserScript==\s*$`)
	closeUserScript = regexp.MustCompile(`^\s*//\s*==/UserScript==\s*$`)
	openUserStyle   = regexp.MustCompile(`^\s*/\*\s*==UserStyle==\s*$`)
	closeUserStyle  = regexp.MustCompile(`^\s*==/UserStyle==\s*\*/\s*$`)

	// @key value with an optional comment marker; key restricted to word
	// characters and hyphens, value separated by spaces or tabs.
	directiveLine = regexp.MustCompile(`^\s*(?://)?\s*@([\w-]+)[ \t]+(.+)$`)
	// @key with no value registers a presence-only directive.
	presenceLine = regexp.MustCompile(`^\s*(?://)?\s*@([\w-]+)\s*$`)
)

// Parse extracts the metablock from content. It fails with ErrNoMetablock
// when neither framing's sentinels are found and with ErrMissingName when the
// block declares no @name. A missing version or update URL is not a parse
// failure; it only disables update checking downstream.
func Parse(content string) (*Parsed, error) {
	lines := strings.Split(content, "\n")

	fileType, open, closed := findSentinels(lines)
	if open < 0 || closed < 0 {
		return nil, ErrNoMetablock
	}

	meta := newMetadata()
	for _, line := range lines[open+1 : closed] {
		if m := directiveLine.FindStringSubmatch(line); m != nil {
			meta.add(m[1], trimValue(m[2]))
			continue
		}
		if m := presenceLine.FindStringSubmatch(line); m != nil {
			meta.add(m[1], "")
		}
		// anything else is silently skipped
	}

	if _, ok := meta.First("name"); !ok {
		return nil, ErrMissingName
	}

	return &Parsed{
		Type:     fileType,
		Code:     strings.TrimSpace(strings.Join(lines[closed+1:], "\n")),
		Content:  content,
		Block:    strings.Join(lines[open:closed+1], "\n"),
		Metadata: meta,
	}, nil
}

// findSentinels locates the first opening sentinel of either framing and its
// matching closer. Returns -1 indices when no complete block exists.
func findSentinels(lines []string) (FileType, int, int) {
	for i, line := range lines {
		var closer *regexp.Regexp
		var fileType FileType
		switch {
		case openUserScript.MatchString(line):
			closer, fileType = closeUserScript, TypeJS
		case openUserStyle.MatchString(line):
			closer, fileType = closeUserStyle, TypeCSS
		default:
			continue
		}
		for j := i + 1; j < len(lines); j++ {
			if closer.MatchString(lines[j]) {
				return fileType, i, j
			}
		}
		return fileType, i, -1
	}
	return "", -1, -1
}

// trimValue strips trailing whitespace and control characters while keeping
// internal spacing intact.
func trimValue(v string) string {
	return strings.TrimRightFunc(v, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	})
}
