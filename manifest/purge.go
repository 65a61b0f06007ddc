package manifest

// Purge removes every trace of filenames that are no longer present in the
// save location: pattern index entries (dropping emptied pattern keys),
// require records, disabled entries, and settings keys outside the default
// set. Missing default settings are reseeded. The returned list names the
// files whose require records were removed, so the caller can discard their
// cached resources. Purge is idempotent.
func (m *Manifest) Purge(present map[string]bool) (removedRequire []string) {
	m.normalize()

	for _, index := range []map[string][]string{m.Match, m.ExcludeMatch, m.Include, m.Exclude} {
		purgeIndex(index, present)
	}

	// snapshot keys before deleting
	requireKeys := make([]string, 0, len(m.Require))
	for f := range m.Require {
		requireKeys = append(requireKeys, f)
	}
	for _, f := range requireKeys {
		if !present[f] {
			delete(m.Require, f)
			removedRequire = append(removedRequire, f)
		}
	}

	disabled := m.Disabled[:0]
	for _, f := range m.Disabled {
		if present[f] {
			disabled = append(disabled, f)
		}
	}
	m.Disabled = disabled

	defaults := DefaultSettings()
	settingKeys := make([]string, 0, len(m.Settings))
	for k := range m.Settings {
		settingKeys = append(settingKeys, k)
	}
	for _, k := range settingKeys {
		if _, ok := defaults[k]; !ok {
			delete(m.Settings, k)
		}
	}
	for k, v := range defaults {
		if _, ok := m.Settings[k]; !ok {
			m.Settings[k] = v
		}
	}

	return removedRequire
}

func purgeIndex(index map[string][]string, present map[string]bool) {
	keys := make([]string, 0, len(index))
	for p := range index {
		keys = append(keys, p)
	}
	for _, p := range keys {
		files := index[p][:0]
		for _, f := range index[p] {
			if present[f] {
				files = append(files, f)
			}
		}
		if len(files) == 0 {
			delete(index, p)
		} else {
			index[p] = files
		}
	}
}
