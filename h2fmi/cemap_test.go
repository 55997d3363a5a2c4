package h2fmi

import "testing"

func newTestBus(num int, bitmap uint16, numChips int) *Bus {
	return &Bus{Num: num, bitmap: bitmap, numChips: numChips}
}

func TestBuildCEMapRoundRobin(t *testing.T) {
	bus0 := newTestBus(0, 0b101, 2) // chips 0 and 2 present
	bus1 := newTestBus(1, 0b010, 1) // chip 1 present

	got := buildCEMap(bus0, bus1)
	want := []CEMapEntry{{Bus: 0, Chip: 0}, {Bus: 1, Chip: 1}, {Bus: 0, Chip: 2}}

	if len(got) != len(want) {
		t.Fatalf("buildCEMap returned %d entries, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestBuildCEMapSingleBus(t *testing.T) {
	bus0 := newTestBus(0, 0b11, 2)
	bus1 := newTestBus(1, 0, 0)

	got := buildCEMap(bus0, bus1)
	want := []CEMapEntry{{Bus: 0, Chip: 0}, {Bus: 0, Chip: 1}}

	if len(got) != len(want) {
		t.Fatalf("buildCEMap returned %d entries, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestBuildCEMapBijection(t *testing.T) {
	bus0 := newTestBus(0, 0xFF, 8)
	bus1 := newTestBus(1, 0xFF, 8)

	got := buildCEMap(bus0, bus1)

	if len(got) != 16 {
		t.Fatalf("buildCEMap returned %d entries, want 16", len(got))
	}

	seen := make(map[CEMapEntry]bool)
	for _, e := range got {
		if seen[e] {
			t.Fatalf("duplicate entry %+v in CE map", e)
		}
		seen[e] = true
	}
}
