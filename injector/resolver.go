// Package injector turns a page URL into the partitioned, ordered set of
// files to inject. Resolution walks the manifest's pattern indices; assembly
// re-reads and re-parses each resolved file and groups it by execution phase.
package injector

import (
	"sort"

	"go.uber.org/zap"

	"github.com/greasekit/greasekit/internal/storage"
	"github.com/greasekit/greasekit/manifest"
	"github.com/greasekit/greasekit/pattern"
)

// Resolver answers "which files inject on this URL".
type Resolver struct {
	store   *manifest.Store
	storage storage.Storage
	log     *zap.Logger
}

// NewResolver returns a resolver. A nil logger is replaced with a no-op one.
func NewResolver(store *manifest.Store, st storage.Storage, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{store: store, storage: st, log: log}
}

// Resolve computes the filenames to inject for url, sorted for determinism.
// Injection disabled globally or a blacklisted URL yields an empty result.
// URL decomposition failure is the only error; a malformed pattern in the
// manifest only loses that one pattern, never the whole resolution.
func (r *Resolver) Resolve(url string) ([]string, error) {
	u, err := pattern.ParseURL(url)
	if err != nil {
		return nil, err
	}
	m, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	return r.resolve(m, u), nil
}

func (r *Resolver) resolve(m *manifest.Manifest, u pattern.URL) []string {
	if m.Settings["active"] != "true" {
		return nil
	}
	for _, b := range m.Blacklist {
		if r.matchPattern(b, u) {
			return nil
		}
	}

	excluded := map[string]bool{}
	for pat, files := range m.ExcludeMatch {
		r.accumulate(excluded, files, r.matchPattern(pat, u))
	}
	for pat, files := range m.Exclude {
		r.accumulate(excluded, files, r.includePattern(pat, u.Raw))
	}

	included := map[string]bool{}
	for pat, files := range m.Match {
		r.accumulate(included, files, r.matchPattern(pat, u))
	}
	for pat, files := range m.Include {
		r.accumulate(included, files, r.includePattern(pat, u.Raw))
	}

	var out []string
	for f := range included {
		if !excluded[f] && !m.IsDisabled(f) {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}

// accumulate adds files into the set when matched, suppressing duplicates
// during accumulation.
func (r *Resolver) accumulate(set map[string]bool, files []string, matched bool) {
	if !matched {
		return
	}
	for _, f := range files {
		if !set[f] {
			set[f] = true
		}
	}
}

func (r *Resolver) matchPattern(pat string, u pattern.URL) bool {
	ok, err := pattern.Match(pat, u)
	if err != nil {
		r.log.Warn("malformed match pattern ignored", zap.String("pattern", pat), zap.Error(err))
		return false
	}
	return ok
}

func (r *Resolver) includePattern(pat, rawURL string) bool {
	ok, err := pattern.Include(pat, rawURL)
	if err != nil {
		r.log.Warn("malformed include pattern ignored", zap.String("pattern", pat), zap.Error(err))
		return false
	}
	return ok
}
