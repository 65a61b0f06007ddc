package manifest

import (
	"strconv"
	"strings"
)

// Sanitize makes a name safe to use as a filename. Path separators and
// backslashes are percent-encoded; a leading dot is rewritten to the reserved
// two-character escape %2 so the result is never a hidden file. Used both for
// filenames derived from script names and for cached resource names derived
// from URLs.
func Sanitize(name string) string {
	if strings.HasPrefix(name, ".") {
		name = "%2" + name[1:]
	}
	name = strings.ReplaceAll(name, "/", "%2F")
	return strings.ReplaceAll(name, `\`, "%5C")
}

// Unsanitize reverses Sanitize. It round-trips any name Sanitize produced.
func Unsanitize(name string) string {
	if strings.HasPrefix(name, "%2") && !strings.HasPrefix(name, "%2F") {
		name = "." + name[2:]
	}
	name = strings.ReplaceAll(name, "%2F", "/")
	return strings.ReplaceAll(name, "%5C", `\`)
}

// RequireRoot is the directory under the save location holding cached
// dependency resources, one subdirectory per owning file.
const RequireRoot = ".require"

// RequireDir returns the cache directory for a file's dependencies, relative
// to the save location.
func RequireDir(filename string) string {
	return RequireRoot + "/" + Sanitize(filename)
}

// RequirePath returns the cache path for one sanitized resource name.
func RequirePath(filename, resource string) string {
	return RequireDir(filename) + "/" + resource
}

// NormalizeWeight clamps a declared execution-order weight to [1, 999].
// Absent or non-numeric values default to 1.
func NormalizeWeight(value string) int {
	w, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 1
	}
	if w < 1 {
		return 1
	}
	if w > 999 {
		return 999
	}
	return w
}
