package manifest

// Reconcile brings one pattern index in line with the patterns a file
// currently declares. Patterns declared but not yet recording the file gain
// it; patterns recording the file but no longer declared lose it, and a
// pattern whose filename set empties is dropped entirely. Re-running with
// unchanged declarations is a no-op. This is the only mutation path for the
// four pattern indices.
func Reconcile(index map[string][]string, filename string, declared []string) map[string][]string {
	if index == nil {
		index = map[string][]string{}
	}

	want := make(map[string]bool, len(declared))
	for _, p := range declared {
		want[p] = true
	}

	// add under newly declared patterns
	for p := range want {
		if !containsString(index[p], filename) {
			index[p] = append(index[p], filename)
		}
	}

	// remove from patterns no longer declared; snapshot keys first since we
	// delete while walking
	keys := make([]string, 0, len(index))
	for p := range index {
		keys = append(keys, p)
	}
	for _, p := range keys {
		if want[p] {
			continue
		}
		files := removeString(index[p], filename)
		if len(files) == 0 {
			delete(index, p)
		} else {
			index[p] = files
		}
	}

	return index
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func removeString(list []string, s string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
