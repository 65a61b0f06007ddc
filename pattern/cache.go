package pattern

import "sync"

// Patterns come out of the manifest on every resolve, so compilation results
// are cached for the life of the process. Compile failures are cached too:
// a malformed pattern stays malformed.

type matchEntry struct {
	pat *MatchPattern
	err error
}

type includeEntry struct {
	pat *IncludePattern
	err error
}

var cache = struct {
	sync.RWMutex
	match   map[string]matchEntry
	include map[string]includeEntry
}{
	match:   make(map[string]matchEntry),
	include: make(map[string]includeEntry),
}

// Match compiles (or recalls) a match pattern and evaluates it against u.
// A malformed pattern is reported through the error, never through a panic;
// callers decide whether to log or propagate.
func Match(raw string, u URL) (bool, error) {
	cache.RLock()
	entry, ok := cache.match[raw]
	cache.RUnlock()
	if !ok {
		pat, err := CompileMatch(raw)
		entry = matchEntry{pat: pat, err: err}
		cache.Lock()
		cache.match[raw] = entry
		cache.Unlock()
	}
	if entry.err != nil {
		return false, entry.err
	}
	return entry.pat.Matches(u), nil
}

// Include compiles (or recalls) an include/exclude pattern and evaluates it
// against the full URL string.
func Include(raw string, rawURL string) (bool, error) {
	cache.RLock()
	entry, ok := cache.include[raw]
	cache.RUnlock()
	if !ok {
		pat, err := CompileInclude(raw)
		entry = includeEntry{pat: pat, err: err}
		cache.Lock()
		cache.include[raw] = entry
		cache.Unlock()
	}
	if entry.err != nil {
		return false, entry.err
	}
	return entry.pat.Matches(rawURL), nil
}
