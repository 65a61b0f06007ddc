package metablock

import (
	"strings"
	"testing"

	"github.com/greasekit/greasekit/errs"
)

const sampleScript = `// ==UserScript==
// @name        Example Script
// @description Does example things
// @version     1.2.3
// @match       https://example.com/*
// @match       https://example.org/*
// @noframes
// @grant       GM.getValue
// ==/UserScript==
(function() {
    console.log("hi");
})();
`

const sampleStyle = `/* ==UserStyle==
@name Example Style
@description Styles example things
@match https://example.com/*
==/UserStyle== */
body { color: red; }
`

func TestParseUserScript(t *testing.T) {
	p, err := Parse(sampleScript)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Type != TypeJS {
		t.Errorf("expected type js, got %s", p.Type)
	}

	if name, _ := p.Metadata.First("name"); name != "Example Script" {
		t.Errorf("expected name 'Example Script', got %q", name)
	}

	matches := p.Metadata.Get("match")
	if len(matches) != 2 {
		t.Fatalf("expected 2 match values, got %d", len(matches))
	}
	if matches[0] != "https://example.com/*" || matches[1] != "https://example.org/*" {
		t.Errorf("match values out of order: %v", matches)
	}

	if !p.Metadata.Has("noframes") {
		t.Error("expected presence-only @noframes to be registered")
	}
	if len(p.Metadata.Get("noframes")) != 0 {
		t.Error("expected @noframes to carry no values")
	}

	if !strings.HasPrefix(p.Code, "(function()") {
		t.Errorf("code should start after the block, got %q", p.Code)
	}
	if !strings.HasPrefix(p.Block, "// ==UserScript==") || !strings.HasSuffix(p.Block, "// ==/UserScript==") {
		t.Errorf("block not captured verbatim: %q", p.Block)
	}
	if p.Content != sampleScript {
		t.Error("original content must be retained verbatim")
	}
}

func TestParseUserStyle(t *testing.T) {
	p, err := Parse(sampleStyle)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Type != TypeCSS {
		t.Errorf("expected type css, got %s", p.Type)
	}
	if name, _ := p.Metadata.First("name"); name != "Example Style" {
		t.Errorf("expected name 'Example Style', got %q", name)
	}
	if p.Code != "body { color: red; }" {
		t.Errorf("unexpected code: %q", p.Code)
	}
}

func TestParseLeadingContentIgnored(t *testing.T) {
	content := "#!shebang nonsense\nrandom text\n" + sampleScript
	p, err := Parse(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name, _ := p.Metadata.First("name"); name != "Example Script" {
		t.Errorf("expected name to survive leading content, got %q", name)
	}
}

func TestParseFailures(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"no sentinels", "console.log('hi');"},
		{"unclosed block", "// ==UserScript==\n// @name X\nconsole.log(1);"},
		{"missing name", "// ==UserScript==\n// @version 1.0\n// ==/UserScript==\n"},
		{"presence-only name", "// ==UserScript==\n// @name\n// ==/UserScript==\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatal("expected parse failure")
			}
			if !errs.IsKind(err, errs.KindParse) {
				t.Errorf("expected parse kind, got %v", err)
			}
		})
	}
}

func TestParseValueTrimming(t *testing.T) {
	content := "// ==UserScript==\n// @name   spaced  out name \t\r\n// ==/UserScript==\n"
	p, err := Parse(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	name, _ := p.Metadata.First("name")
	if name != "spaced  out name" {
		t.Errorf("internal spaces must survive, trailing must not: %q", name)
	}
}

func TestParseSkipsMalformedLines(t *testing.T) {
	content := "// ==UserScript==\n// @name X\nnot a directive\n// @@bad key\n// ==/UserScript==\n"
	p, err := Parse(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Metadata.Len() != 1 {
		t.Errorf("expected only @name to be recorded, got keys %v", p.Metadata.Keys())
	}
}

func TestParseStyleDirectivesWithCommentPrefix(t *testing.T) {
	// the // prefix is optional inside a userstyle block but still accepted
	content := "/* ==UserStyle==\n// @name Mixed\n@version 2.0\n==/UserStyle== */\n"
	p, err := Parse(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name, _ := p.Metadata.First("name"); name != "Mixed" {
		t.Errorf("expected name 'Mixed', got %q", name)
	}
	if v, _ := p.Metadata.First("version"); v != "2.0" {
		t.Errorf("expected version '2.0', got %q", v)
	}
}

func TestMetadataKeyOrder(t *testing.T) {
	p, err := Parse(sampleScript)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	keys := p.Metadata.Keys()
	want := []string{"name", "description", "version", "match", "noframes", "grant"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %v", len(want), keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d: expected %s, got %s", i, want[i], keys[i])
		}
	}
}
