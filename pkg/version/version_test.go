package version

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"1.2.3", "1.2.3", false},
		{"0.0.1", "0.0.1", false},
		{"1.2.3-alpha.1", "1.2.3-alpha.1", false},
		{"1.2.3-alpha.1+build123", "1.2.3-alpha.1+build123", false},
		{"10.20.30", "10.20.30", false},

		// Strict grammar rejections
		{"1.2", "", true},
		{"1", "", true},
		{"invalid", "", true},
		{"01.2.3", "", true},
		{"1.02.3", "", true},
		{"1.2.03", "", true},
		{"v1.2.3", "", true},
		{"", "", true},
		{"1.2.3 ", "", true},
	}

	for _, tc := range tests {
		v, err := Parse(tc.input)

		if tc.wantErr {
			if err == nil {
				t.Errorf("Parse(%q) expected error, got none", tc.input)
				continue
			}
			var invalid *InvalidVersionError
			if !errors.As(err, &invalid) {
				t.Errorf("Parse(%q) error = %v, want *InvalidVersionError", tc.input, err)
			} else if invalid.Input != tc.input {
				t.Errorf("Parse(%q) error input = %q", tc.input, invalid.Input)
			}
			continue
		}

		if err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", tc.input, err)
			continue
		}
		if got := v.String(); got != tc.want {
			t.Errorf("Parse(%q).String() = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "2.0.0", -1},
		{"2.1.0", "2.0.9", 1},
		{"2.1.1", "2.1.1", 0},

		// A prerelease sorts below the same triple without one
		{"1.0.0-alpha", "1.0.0", -1},
		{"1.0.0", "1.0.0-rc.1", 1},

		// Prerelease identifier ordering per semver 2.0
		{"1.0.0-alpha", "1.0.0-alpha.1", -1},
		{"1.0.0-alpha.1", "1.0.0-alpha.beta", -1},
		{"1.0.0-alpha.beta", "1.0.0-beta", -1},
		{"1.0.0-beta.2", "1.0.0-beta.11", -1},
		{"1.0.0-beta.11", "1.0.0-rc.1", -1},

		// Build metadata is ignored
		{"1.0.0+a", "1.0.0+b", 0},
		{"1.0.0-alpha+001", "1.0.0-alpha+002", 0},
	}

	for _, tc := range tests {
		got, err := Compare(tc.a, tc.b)
		if err != nil {
			t.Errorf("Compare(%q, %q) unexpected error: %v", tc.a, tc.b, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Compare(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}

		// Ordering must be antisymmetric
		rev, err := Compare(tc.b, tc.a)
		if err != nil {
			t.Errorf("Compare(%q, %q) unexpected error: %v", tc.b, tc.a, err)
			continue
		}
		if rev != -tc.want {
			t.Errorf("Compare(%q, %q) = %d, want %d", tc.b, tc.a, rev, -tc.want)
		}
	}
}

func TestCompareInvalidInput(t *testing.T) {
	if _, err := Compare("not-a-version", "1.0.0"); err == nil {
		t.Error("expected error for invalid left operand")
	}
	if _, err := Compare("1.0.0", "1.2"); err == nil {
		t.Error("expected error for invalid right operand")
	}
}

func TestCompareTransitivity(t *testing.T) {
	// Ascending chain; every pair must agree with the chain order.
	chain := []string{
		"0.0.1",
		"0.9.9",
		"1.0.0-alpha",
		"1.0.0-alpha.1",
		"1.0.0-beta",
		"1.0.0",
		"1.0.1",
		"1.10.0",
		"2.0.0",
	}

	for i := range chain {
		for j := range chain {
			got, err := Compare(chain[i], chain[j])
			if err != nil {
				t.Fatalf("Compare(%q, %q): %v", chain[i], chain[j], err)
			}
			want := 0
			if i < j {
				want = -1
			} else if i > j {
				want = 1
			}
			if got != want {
				t.Errorf("Compare(%q, %q) = %d, want %d", chain[i], chain[j], got, want)
			}
		}
	}
}
