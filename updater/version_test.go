package updater

import "testing"

func TestIsNewer(t *testing.T) {
	tests := []struct {
		current string
		remote  string
		want    bool
	}{
		{"1.2", "1.3", true},
		{"1.3", "1.2", false},
		{"2.0", "1.9", false},
		{"1.9", "2.0", true},
		{"1.2", "1.2", false},

		// remote-driven component count: missing components default to 0
		{"1.2.0", "1.2", false},
		{"1.2", "1.2.0", false},
		{"1.2", "1.2.1", true},
		{"1.2.5", "1.3", true},

		// non-numeric components count as 0
		{"1.beta", "1.0", false},
		{"1.0", "1.beta", false},
		{"abc", "0.1", true},
		{"abc", "def", false},

		// empty strings
		{"", "1", true},
		{"1", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.current+" vs "+tt.remote, func(t *testing.T) {
			if got := IsNewer(tt.current, tt.remote); got != tt.want {
				t.Errorf("IsNewer(%q, %q) = %v, want %v", tt.current, tt.remote, got, tt.want)
			}
		})
	}
}

func TestIsNewerExtraZeroComponent(t *testing.T) {
	// for any pair with equal dotted-numeric prefixes, a trailing "0" on the
	// remote never makes it newer
	pairs := [][2]string{
		{"1", "1.0"},
		{"1.2", "1.2.0"},
		{"3.4.5", "3.4.5.0"},
	}
	for _, p := range pairs {
		if IsNewer(p[0], p[1]) {
			t.Errorf("IsNewer(%q, %q) must be false", p[0], p[1])
		}
	}
}
