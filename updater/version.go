// Package updater decides whether a remote version of a script supersedes the
// local one and retrieves the replacement content.
package updater

import (
	"strconv"
	"strings"
)

// IsNewer reports whether remote supersedes current. Both strings split on
// "." and compare component-wise, driven by the remote's component count:
// components missing on either side count as 0, as do non-numeric ones. The
// first differing component decides; equal throughout means not newer. The
// asymmetry (current's surplus components are never examined) is part of
// the contract; downstream update-skip decisions depend on it.
func IsNewer(current, remote string) bool {
	cur := strings.Split(current, ".")
	rem := strings.Split(remote, ".")
	for i := range rem {
		rv := component(rem, i)
		cv := component(cur, i)
		if rv > cv {
			return true
		}
		if rv < cv {
			return false
		}
	}
	return false
}

func component(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
	if err != nil {
		return 0
	}
	return n
}
