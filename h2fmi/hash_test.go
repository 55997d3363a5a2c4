package h2fmi

import "testing"

func TestSeedHashTableDeterministic(t *testing.T) {
	a := seedHashTable()
	b := seedHashTable()

	if a != b {
		t.Fatal("seedHashTable is not deterministic across calls")
	}
}

func TestSeedHashTableMatchesReferenceLCG(t *testing.T) {
	// Independent re-derivation of the same fixed whitening stream (§4.7):
	// v starts at hashSeed and is advanced 763 times per table entry via
	// the Numerical-Recipes LCG v = 0x19660D*v + 0x3C6EF35F.
	var want [256]uint32
	v := hashSeed
	for i := 0; i < 256; i++ {
		for n := 0; n < hashIterationsPer; n++ {
			v = 0x19660D*v + 0x3C6EF35F
		}
		want[i] = v
	}

	got := seedHashTable()
	if got != want {
		t.Fatal("seedHashTable does not match the reference LCG derivation")
	}
}

func TestSeedHashTableEntriesVary(t *testing.T) {
	table := seedHashTable()

	seen := make(map[uint32]bool)
	for _, v := range table {
		seen[v] = true
	}

	if len(seen) < 200 {
		t.Fatalf("seedHashTable produced only %d distinct values out of 256, expected near-uniform spread", len(seen))
	}
}
