package metablock

// Metadata holds the directives extracted from a metablock. Each key maps to
// the values declared for it in line order; presence-only directives carry an
// empty value list. A Metadata is built once during parsing and treated as
// immutable afterwards.
type Metadata struct {
	values map[string][]string
	keys   []string // first-seen order, for display
}

func newMetadata() *Metadata {
	return &Metadata{values: make(map[string][]string)}
}

// add appends a value under key, registering the key on first sight. An empty
// value registers the key without contributing a value.
func (m *Metadata) add(key, value string) {
	if _, seen := m.values[key]; !seen {
		m.values[key] = []string{}
		m.keys = append(m.keys, key)
	}
	if value != "" {
		m.values[key] = append(m.values[key], value)
	}
}

// Has reports whether the directive was declared at all, including
// presence-only declarations.
func (m *Metadata) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Get returns all values declared for key, in declaration order.
func (m *Metadata) Get(key string) []string {
	return m.values[key]
}

// First returns the first value declared for key. The second return is false
// when the key is absent or presence-only.
func (m *Metadata) First(key string) (string, bool) {
	vs := m.values[key]
	if len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// Keys returns the directive keys in first-seen order.
func (m *Metadata) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of distinct directive keys.
func (m *Metadata) Len() int {
	return len(m.keys)
}
