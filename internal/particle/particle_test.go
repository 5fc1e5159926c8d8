package particle

import "testing"

func TestCorsikaToPDG(t *testing.T) {
	t.Parallel()
	cases := []struct {
		corsika, pdg int
	}{
		{1, 22},
		{2, -11},
		{3, 11},
		{5, -13},
		{6, 13},
		{13, 2112},
		{14, 2212},
		{66, 12},
		{75, -13},
	}
	for _, c := range cases {
		if got := CorsikaToPDG(c.corsika); got != c.pdg {
			t.Errorf("CorsikaToPDG(%d) = %d, want %d", c.corsika, got, c.pdg)
		}
	}
}

func TestCorsikaToPDGNuclei(t *testing.T) {
	t.Parallel()
	// Helium-4: A=4, Z=2.
	if got := CorsikaToPDG(402); got != 1000020040 {
		t.Errorf("helium = %d, want 1000020040", got)
	}
	// Iron-56: A=56, Z=26.
	if got := CorsikaToPDG(5626); got != 1000260560 {
		t.Errorf("iron = %d, want 1000260560", got)
	}
}

func TestCorsikaToPDGUnknown(t *testing.T) {
	t.Parallel()
	if got := CorsikaToPDG(99); got != Undefined {
		t.Errorf("unknown code = %d, want Undefined", got)
	}
}

func TestName(t *testing.T) {
	t.Parallel()
	if got := Name(14); got != "proton" {
		t.Errorf("Name(14) = %q", got)
	}
	if got := Name(5626); got != "nucleus(A=56,Z=26)" {
		t.Errorf("Name(5626) = %q", got)
	}
	if got := Name(99); got != "corsika(99)" {
		t.Errorf("Name(99) = %q", got)
	}
}
