// Package manifest holds the persisted index of URL patterns, disabled
// files, required resources, and settings, plus the consistency operations
// that keep it coherent with the files on disk. The manifest is always read
// fully, mutated in memory, and rewritten fully.
package manifest

import "sort"

// Manifest is the single persisted index. Pattern indices map a pattern
// string to the filenames that declared it; Require maps a filename to the
// sanitized resource names fetched for it.
type Manifest struct {
	Blacklist    []string            `json:"blacklist"`
	Disabled     []string            `json:"disabled"`
	Exclude      map[string][]string `json:"exclude"`
	ExcludeMatch map[string][]string `json:"exclude-match"`
	Include      map[string][]string `json:"include"`
	Match        map[string][]string `json:"match"`
	Require      map[string][]string `json:"require"`
	Settings     map[string]string   `json:"settings"`
}

// DefaultSettings returns the recognized setting keys with their seed values.
// Settings outside this set are purged.
func DefaultSettings() map[string]string {
	return map[string]string{
		"active":            "true",
		"autoCloseBrackets": "true",
		"autoHint":          "true",
		"descriptions":      "true",
		"languageCode":      "en",
		"lint":              "false",
		"log":               "false",
		"showCount":         "true",
		"showInvisibles":    "true",
		"sortOrder":         "lastModifiedDesc",
		"tabSize":           "4",
	}
}

// New returns an empty manifest seeded with the default settings.
func New() *Manifest {
	return &Manifest{
		Blacklist:    []string{},
		Disabled:     []string{},
		Exclude:      map[string][]string{},
		ExcludeMatch: map[string][]string{},
		Include:      map[string][]string{},
		Match:        map[string][]string{},
		Require:      map[string][]string{},
		Settings:     DefaultSettings(),
	}
}

// normalize fills in nil collections after deserialization so consistency
// operations never have to nil-check.
func (m *Manifest) normalize() {
	if m.Blacklist == nil {
		m.Blacklist = []string{}
	}
	if m.Disabled == nil {
		m.Disabled = []string{}
	}
	if m.Exclude == nil {
		m.Exclude = map[string][]string{}
	}
	if m.ExcludeMatch == nil {
		m.ExcludeMatch = map[string][]string{}
	}
	if m.Include == nil {
		m.Include = map[string][]string{}
	}
	if m.Match == nil {
		m.Match = map[string][]string{}
	}
	if m.Require == nil {
		m.Require = map[string][]string{}
	}
	if m.Settings == nil {
		m.Settings = map[string]string{}
	}
}

// IsDisabled reports whether filename is in the disabled set.
func (m *Manifest) IsDisabled(filename string) bool {
	for _, f := range m.Disabled {
		if f == filename {
			return true
		}
	}
	return false
}

// SetDisabled adds or removes filename from the disabled set. Adding twice is
// a no-op; the set stays sorted for stable serialization.
func (m *Manifest) SetDisabled(filename string, disabled bool) {
	if disabled {
		if m.IsDisabled(filename) {
			return
		}
		m.Disabled = append(m.Disabled, filename)
		sort.Strings(m.Disabled)
		return
	}
	out := m.Disabled[:0]
	for _, f := range m.Disabled {
		if f != filename {
			out = append(out, f)
		}
	}
	m.Disabled = out
}

// SetRequire records the resource names for filename, returning true when the
// record actually changed. An empty list removes the record.
func (m *Manifest) SetRequire(filename string, resources []string) bool {
	if len(resources) == 0 {
		if _, ok := m.Require[filename]; !ok {
			return false
		}
		delete(m.Require, filename)
		return true
	}
	if equalStrings(m.Require[filename], resources) {
		return false
	}
	m.Require[filename] = resources
	return true
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
