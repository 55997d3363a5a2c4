package h2fmi

import "testing"

// TestSetupTimingScenario reproduces spec.md §8 scenario 3's worked example:
// freq=96,000,000 Hz with f=10,g=6,h=3,i=3,j=0x1e,k=0xf,l=0xa,m=0x1e,n=0xf,
// p=0x19,q=0xa,r=0xf must pack to 0x2112.
func TestSetupTimingScenario(t *testing.T) {
	tb := setupTiming(96_000_000, 10, 6, 3, 3, 0x1e, 0xf, 0xa, 0x1e, 0xf, 0x19, 0xa, 0xf)

	want := timingBytes{2, 1, 0, 1, 2}
	if tb != want {
		t.Fatalf("setupTiming = %v, want %v", tb, want)
	}

	if got := packTimingRegister(tb); got != 0x2112 {
		t.Errorf("packTimingRegister(%v) = %#x, want 0x2112", tb, got)
	}
}

func TestSomeMathFn(t *testing.T) {
	cases := []struct {
		a, b, want int64
	}{
		{10, 21, 2},
		{10, 20, 1},
		{10, 9, 0},
		{10, 16, 1},
		{10, 25, 2},
		{0, 5, 0},
	}

	for _, c := range cases {
		if got := someMathFn(c.a, c.b); got != c.want {
			t.Errorf("someMathFn(%d,%d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestDeriveTimingRegisterMatchesScenario(t *testing.T) {
	ti := timingInfo{T: [8]uint8{0x1e, 0xf, 0xa, 0x1e, 0xf, 0xa, 0x19, 0xf}}

	if got := deriveTimingRegister(96_000_000, ti); got != 0x2112 {
		t.Errorf("deriveTimingRegister = %#x, want 0x2112", got)
	}
}
