// H2FMI NAND flash media controller driver
//
// Copyright (c) The H2FMI Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package h2fmi

// CEMapEntry maps one logical chip-enable index to a physical bus and
// bus-local chip position (§3, §4.4).
type CEMapEntry struct {
	Bus  int
	Chip int
}

// buildCEMap implements h2fmi_init_virtual_physical_map (§4.4): walk logical
// chip indices round-robining across the buses in ascending order, assigning
// the next logical index to a bus's next present chip and always advancing
// that bus's cursor regardless of whether the chip was present.
func buildCEMap(bus0, bus1 *Bus) []CEMapEntry {
	buses := []*Bus{bus0, bus1}

	total := bus0.numChips + bus1.numChips
	cursor := make([]int, len(buses))
	m := make([]CEMapEntry, 0, total)

	for logical := 0; logical < total; {
		advanced := false

		for bi, b := range buses {
			if cursor[bi] >= maxChipsPerBus {
				continue
			}

			chip := cursor[bi]
			present := b.bitmap&(1<<uint(chip)) != 0
			cursor[bi]++
			advanced = true

			if present {
				m = append(m, CEMapEntry{Bus: bi, Chip: chip})
				logical++
			}

			if logical >= total {
				break
			}
		}

		if !advanced {
			break
		}
	}

	return m
}
