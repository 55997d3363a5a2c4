// H2FMI NAND flash media controller driver
//
// Copyright (c) The H2FMI Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package h2fmi

// Register offsets relative to a bus's MMIO base, named after the original
// firmware's UNK-prefixed symbols (the hardware manual for this controller
// was never recovered; symbols are preserved bit-exact, semantics inferred
// from usage).
const (
	regUNKREG1 = 0x00
	regUNKREG2 = 0x04
	regUNKREG4 = 0x10
	regUNKREG5 = 0x14
	regUNKREG6 = 0x18
	regUNKREG9 = 0x20
	regUNKREG10 = 0x24

	regCHIPMASK = 0x28
	regPAGESIZE = 0x2C
	regECCBITS  = 0x30
	regDATA     = 0x34

	regUNK4  = 0x40
	regUNK8  = 0x44
	regUNKC  = 0x48
	regUNK10 = 0x4C
	regUNK14 = 0x50 // data FIFO source address for DMA
	regUNK18 = 0x54 // metadata FIFO source address for DMA

	regUNK41C = 0x41C
	regUNK440 = 0x440
	regUNK44C = 0x44C

	regUNK80C = 0x80C
	regUNK810 = 0x810
)

// H2FMI_CHIPID_LENGTH is the number of id bytes read back by READ ID (0x90).
const h2fmiChipIDLength = 6

// maxChipsPerBus is the number of CE lines a single FMI bus multiplexes
// (chips 0-7 on fmi0, 8-15 on fmi1, addressed via a shared 16-bit mask).
const maxChipsPerBus = 8
