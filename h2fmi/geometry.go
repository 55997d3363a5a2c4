// H2FMI NAND flash media controller driver
//
// Copyright (c) The H2FMI Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package h2fmi

import "github.com/openiboot/h2fmi/internal/bits"

// busGeometry holds the per-bus fields the read state machine and public
// read path consume directly.
type busGeometry struct {
	blocksPerCE    uint32
	pagesPerBlock  uint32
	bytesPerPage   uint32
	bytesPerSpare  uint32
	banksPerCE     uint32
	banksPerCEVFL  uint32
	bbtFormat      uint32
	eccBits        uint32
	eccTag         int8
	metaPerLogicalPage uint32
	numECCBytes    uint32
	pageSize       uint32
	isPPN          bool
}

// Geometry is the process-wide device geometry, derived once from bus 0
// after identification (§3). Device.GetInfo (§6) reports most fields;
// NumFMI, ECCTag and Unk14 are not returned directly.
type Geometry struct {
	NumFMI             uint32
	NumCE              uint32
	BlocksPerCE        uint32
	PagesPerBlock      uint32
	PagesPerBlock2     uint32
	BytesPerPage       uint32
	BBTFormat          uint32
	BytesPerSpare      uint32
	BanksPerCE         uint32
	BanksPerCEVFL      uint32
	BlocksPerBank      uint32
	PageNumberBitWidth uint32
	ECCBits            uint32
	ECCTag             int8
	MetaPerLogicalPage uint32
	NumECCBytes        uint32
	PagesPerCE         uint32
	VendorType         uint32
	IsPPN              bool

	// Unk14 is the POT-aligned virtual block-bank stride derived in
	// blockBankStride (§4.4 of spec.md refers to this as part of CE/bank
	// addressing math carried by the original geometry struct).
	Unk14 uint32
}

// calculateECCBits implements h2fmi_calculate_ecc_bits (§4.3): val =
// (spare-eccBytes)/(bytesPerPage/512); return the first matching threshold
// from {(26->16), (13->8)}; 0 on miss.
func calculateECCBits(bytesPerSpare, eccBytes, bytesPerPage uint32) uint32 {
	if bytesPerPage == 0 {
		return 0
	}

	val := (bytesPerSpare - eccBytes) / (bytesPerPage / 512)

	switch {
	case val >= 26:
		return 16
	case val >= 13:
		return 8
	default:
		return 0
	}
}

// eccTagFor implements the ecc_tag fixed-point derivation: ecc_tag =
// ecc_bits<=8 ? 8 : floor(ecc_bits*8/12), computed via a 35-bit fixed-point
// reciprocal of 12 to avoid a division instruction.
func eccTagFor(eccBits uint32) int8 {
	if eccBits <= 8 {
		return 8
	}

	z := ((uint64(eccBits) << 3) * 0xAAAAAAAB) >> 35
	return int8(z)
}

// pagesPerBlock2For implements pages_per_block_2 (§4.3/§8): next power of two
// >= pagesPerBlock, doubled again if pagesPerBlock itself is not a power of
// two.
func pagesPerBlock2For(pagesPerBlock uint32) uint32 {
	pot := bits.NextPowerOfTwo(pagesPerBlock)

	if !bits.IsPowerOfTwo(pagesPerBlock) {
		pot *= 2
	}

	return pot
}

// pageNumberBitWidthFor is next power of two >= pagesPerBlock-1.
func pageNumberBitWidthFor(pagesPerBlock uint32) uint32 {
	if pagesPerBlock == 0 {
		return 1
	}
	return bits.NextPowerOfTwo(pagesPerBlock - 1)
}

// blockBankStride implements the unk14 POT-alignment invariant from §3:
// blocksPerBank = blocksPerCE/banksPerCE; if blocksPerCE is a power of two,
// unk14 = blocksPerBank; otherwise unk14 is the next power of two >=
// blocksPerBank, doubled if not exact.
func blockBankStride(blocksPerCE, banksPerCE uint32) (blocksPerBank, unk14 uint32) {
	if banksPerCE == 0 {
		return 0, 0
	}

	blocksPerBank = blocksPerCE / banksPerCE

	if bits.IsPowerOfTwo(blocksPerCE) {
		return blocksPerBank, blocksPerBank
	}

	pot := bits.NextPowerOfTwo(blocksPerBank)
	if pot != blocksPerBank {
		pot *= 2
	}

	return blocksPerBank, pot
}

func configSectorsToPageSize(bbtFormat uint32) uint32 {
	return bbtFormat << 9
}
