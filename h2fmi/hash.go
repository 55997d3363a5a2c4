// H2FMI NAND flash media controller driver
//
// Copyright (c) The H2FMI Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package h2fmi

// hashSeed and hashIterations are the fixed parameters of the metadata
// whitening stream (§4.7): a Numerical-Recipes-style LCG applied 763 times
// per table entry, starting from a fixed seed.
const (
	hashSeed          uint32 = 0x50F4546A
	hashIterationsPer        = 763
)

// seedHashTable builds the 256-entry whitening table deterministically: v =
// 0x50F4546A, then for each of 256 entries advance v = 0x19660D*v +
// 0x3C6EF35F exactly 763 times and store the result.
func seedHashTable() [256]uint32 {
	var table [256]uint32

	v := hashSeed
	for i := 0; i < 256; i++ {
		for n := 0; n < hashIterationsPer; n++ {
			v = 0x19660D*v + 0x3C6EF35F
		}
		table[i] = v
	}

	return table
}
