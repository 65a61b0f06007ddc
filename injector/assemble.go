package injector

import (
	"sort"

	"go.uber.org/zap"

	"github.com/greasekit/greasekit/manifest"
	"github.com/greasekit/greasekit/metablock"
)

// Injection contexts and timing phases. Invalid or absent declarations fall
// back to page + document-end.
const (
	InjectAuto    = "auto"
	InjectContent = "content"
	InjectPage    = "page"

	RunAtStart = "document-start"
	RunAtEnd   = "document-end"
	RunAtIdle  = "document-idle"
	RunAtMenu  = "context-menu"
)

// Entry is one file prepared for injection: code with required dependencies
// prepended, grants deduplicated, weight normalized.
type Entry struct {
	Filename string   `json:"filename"`
	Name     string   `json:"name"`
	Code     string   `json:"code"`
	Weight   int      `json:"weight"`
	Grants   []string `json:"grants,omitempty"`
}

// Plan is the grouped injection plan for one page load. Styles form a single
// weight-ascending list; scripts partition into inject-context × timing
// buckets; context-menu scripts get their own per-context buckets. Every
// bucket is weight-ordered.
type Plan struct {
	Styles  []Entry                       `json:"styles"`
	Scripts map[string]map[string][]Entry `json:"scripts"`
	Menu    map[string][]Entry            `json:"menu"`
}

func newPlan() *Plan {
	scripts := make(map[string]map[string][]Entry, 3)
	for _, inject := range []string{InjectAuto, InjectContent, InjectPage} {
		scripts[inject] = map[string][]Entry{}
	}
	return &Plan{
		Scripts: scripts,
		Menu:    map[string][]Entry{},
	}
}

// Assemble re-reads and re-parses each resolved file and builds the grouped
// plan. Files that fail to read or parse are logged and skipped; files
// declaring @noframes are skipped when the request is not from the top frame.
func (r *Resolver) Assemble(filenames []string, isTop bool) (*Plan, error) {
	m, err := r.store.Load()
	if err != nil {
		return nil, err
	}

	plan := newPlan()
	for _, filename := range filenames {
		raw, err := r.storage.Read(filename)
		if err != nil {
			r.log.Warn("skipping unreadable file", zap.String("file", filename), zap.Error(err))
			continue
		}
		parsed, err := metablock.Parse(string(raw))
		if err != nil {
			r.log.Warn("skipping unparseable file", zap.String("file", filename), zap.Error(err))
			continue
		}
		if parsed.Metadata.Has("noframes") && !isTop {
			continue
		}

		name, _ := parsed.Metadata.First("name")
		weightValue, _ := parsed.Metadata.First("weight")
		entry := Entry{
			Filename: filename,
			Name:     name,
			Code:     r.withRequires(m, filename, parsed.Code),
			Weight:   manifest.NormalizeWeight(weightValue),
			Grants:   dedupe(parsed.Metadata.Get("grant")),
		}

		if parsed.Type == metablock.TypeCSS {
			plan.Styles = append(plan.Styles, entry)
			continue
		}

		inject := normalizeInject(parsed.Metadata)
		runAt := normalizeRunAt(parsed.Metadata)
		if runAt == RunAtMenu {
			plan.Menu[inject] = append(plan.Menu[inject], entry)
			continue
		}
		plan.Scripts[inject][runAt] = append(plan.Scripts[inject][runAt], entry)
	}

	sortEntries(plan.Styles)
	for _, timings := range plan.Scripts {
		for _, entries := range timings {
			sortEntries(entries)
		}
	}
	for _, entries := range plan.Menu {
		sortEntries(entries)
	}
	return plan, nil
}

// withRequires prepends the cached dependency code in declared order
// reversed, so the last-declared dependency ends up adjacent to the main
// code. A missing cached resource loses only that resource.
func (r *Resolver) withRequires(m *manifest.Manifest, filename, code string) string {
	resources := m.Require[filename]
	for i := len(resources) - 1; i >= 0; i-- {
		dep, err := r.storage.Read(manifest.RequirePath(filename, resources[i]))
		if err != nil {
			r.log.Warn("missing cached resource",
				zap.String("file", filename),
				zap.String("resource", resources[i]),
				zap.Error(err))
			continue
		}
		code = string(dep) + "\n" + code
	}
	return code
}

func normalizeInject(meta *metablock.Metadata) string {
	v, _ := meta.First("inject-into")
	switch v {
	case InjectAuto, InjectContent, InjectPage:
		return v
	default:
		return InjectPage
	}
}

func normalizeRunAt(meta *metablock.Metadata) string {
	v, _ := meta.First("run-at")
	switch v {
	case RunAtStart, RunAtEnd, RunAtIdle, RunAtMenu:
		return v
	default:
		return RunAtEnd
	}
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// sortEntries orders a bucket by weight ascending, filename as tiebreak.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Weight != entries[j].Weight {
			return entries[i].Weight < entries[j].Weight
		}
		return entries[i].Filename < entries[j].Filename
	})
}
