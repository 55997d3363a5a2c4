// H2FMI NAND flash media controller driver
//
// Copyright (c) The H2FMI Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package h2fmi

// ChipID is a 6-byte NAND manufacturer identification string, as returned by
// the 0x90 READ ID command, packed into two words. Only the first four bytes
// (High) participate in chip_info matching; all six bytes (High, Low)
// participate in equality checks during bus classification.
type ChipID struct {
	High uint32
	Low  uint16
}

// BoardID identifies a physical chip arrangement: how many FMI buses carry
// chips, how many "symmetric" bus groups exist, and the chip id(s)/stride(s)
// observed in the primary and (if present) secondary symmetric group.
type BoardID struct {
	NumBusses     uint32
	NumSymmetric  uint32
	ChipIDPrimary uint32
	StridePrimary uint8
	ChipIDSecond  uint32
	StrideSecond  uint8
}

// chipInfo describes one known NAND part, keyed by the first four bytes of
// its identification string.
type chipInfo struct {
	ChipID         uint32
	BlocksPerCE    uint32
	PagesPerBlock  uint32
	BytesPerPage   uint32
	BytesPerSpare  uint32
	ECCBytes       uint32
	BanksPerCE     uint32
	SymmetricIndex uint32
}

// boardInfo gives the vendor type for a known board arrangement.
type boardInfo struct {
	Board      BoardID
	VendorType uint32
}

// timingInfo gives the eight raw timing bytes for a known board arrangement.
// Byte order matches the original firmware's packed record: T[0..4] feed the
// j/k/l/m/n inputs of setupTiming and T[6], T[5], T[7] feed p/q/r (see
// deriveTimingRegister in timing.go).
type timingInfo struct {
	Board BoardID
	T     [8]uint8
}

// chipInfoTable enumerates every NAND part this controller recognizes. It is
// immutable; entries are matched by the first four id bytes only.
var chipInfoTable = []chipInfo{
	{0x7294D7EC, 0x1038, 0x80, 0x2000, 0x1B4, 0xC, 1, 0},
	{0x72D5DEEC, 0x2070, 0x80, 0x2000, 0x1B4, 0xC, 2, 0},
	{0x29D5D7EC, 0x2000, 0x80, 0x1000, 0xDA, 8, 2, 0},
	{0x2994D5EC, 0x1000, 0x80, 0x1000, 0xDA, 8, 1, 0},
	{0xB614D5EC, 0x1000, 0x80, 0x1000, 0x80, 4, 1, 0},
	{0xB655D7EC, 0x2000, 0x80, 0x1000, 0x80, 4, 2, 0},
	{0xB614D5AD, 0x1000, 0x80, 0x1000, 0x80, 4, 1, 0},
	{0x3294E798, 0x1004, 0x80, 0x2000, 0x1C0, 0x10, 1, 0},
	{0xBA94D598, 0x1000, 0x80, 0x1000, 0xDA, 8, 1, 0},
	{0xBA95D798, 0x2000, 0x80, 0x1000, 0xDA, 8, 2, 0},
	{0x3294D798, 0x1034, 0x80, 0x2000, 0x178, 8, 1, 0},
	{0x3295DE98, 0x2068, 0x80, 0x2000, 0x178, 8, 2, 0},
	{0x3295EE98, 0x2008, 0x80, 0x2000, 0x1C0, 0x18, 2, 0},
	{0x3E94D789, 0x2000, 0x80, 0x1000, 0xDA, 0x10, 1, 0},
	{0x3ED5D789, 0x2000, 0x80, 0x1000, 0xDA, 8, 2, 0},
	{0x3ED5D72C, 0x2000, 0x80, 0x1000, 0xDA, 8, 2, 0},
	{0x3E94D72C, 0x2000, 0x80, 0x1000, 0xDA, 0xC, 1, 0},
	{0x4604682C, 0x1000, 0x100, 0x1000, 0xE0, 0xC, 1, 0},
	{0x3294D745, 0x1000, 0x80, 0x2000, 0x178, 8, 1, 0},
	{0x3295DE45, 0x2000, 0x80, 0x2000, 0x178, 8, 2, 0},
	{0x32944845, 0x1000, 0x80, 0x2000, 0x1C0, 8, 1, 0},
	{0x32956845, 0x2000, 0x80, 0x2000, 0x1C0, 8, 2, 0},
}

// boardInfoTable and timingInfoTable are keyed by BoardID equality. A board's
// entries sit at different positions in the two tables, and either table may
// lack an entry the other has, so each is searched independently.
var boardInfoTable = []boardInfo{
	{BoardID{2, 1, 0x7294D7EC, 2, 0, 0}, 1},
	{BoardID{2, 1, 0x7294D7EC, 4, 0, 0}, 1},
	{BoardID{2, 2, 0x7294D7EC, 2, 0x7294D7EC, 2}, 1},
	{BoardID{2, 1, 0x29D5D7EC, 4, 0, 0}, 1},
	{BoardID{1, 1, 0xB655D7EC, 4, 0, 0}, 1},
	{BoardID{2, 1, 0x2994D5EC, 4, 0, 0}, 1},
	{BoardID{2, 1, 0x72D5DEEC, 4, 0, 0}, 1},
	{BoardID{1, 1, 0xB614D5EC, 4, 0, 0}, 1},
	{BoardID{1, 1, 0xBA94D598, 4, 0, 0}, 1},
	{BoardID{2, 1, 0x3294D798, 2, 0, 0}, 1},
	{BoardID{2, 1, 0x3294D798, 4, 0, 0}, 1},
	{BoardID{2, 1, 0x3295DE98, 4, 0, 0}, 1},
	{BoardID{2, 2, 0x3295DE98, 6, 0x3295DE98, 6}, 1},
	{BoardID{2, 1, 0x3294E798, 4, 0, 0}, 1},
	{BoardID{2, 1, 0x3294E798, 2, 0, 0}, 1},
	{BoardID{2, 1, 0x3295EE98, 4, 0, 0}, 1},
	{BoardID{1, 1, 0xB614D5AD, 4, 0, 0}, 1},
	{BoardID{2, 1, 0xB614D5AD, 4, 0, 0}, 1},
	{BoardID{2, 2, 0xB614D5AD, 4, 0xB614D5AD, 4}, 1},
	{BoardID{2, 1, 0x3E94D789, 2, 0, 0}, 1},
	{BoardID{1, 1, 0x3ED5D789, 2, 0, 0}, 1},
	{BoardID{2, 1, 0x3E94D72C, 2, 0, 0}, 1},
	{BoardID{2, 1, 0x3E94D72C, 4, 0, 0}, 1},
	{BoardID{1, 1, 0x3ED5D72C, 2, 0, 0}, 1},
	{BoardID{2, 1, 0x3294D745, 4, 0, 0}, 1},
	{BoardID{2, 1, 0x3295DE45, 4, 0, 0}, 1},
	{BoardID{2, 2, 0xBA95D798, 4, 0xBA95D798, 4}, 1},
	{BoardID{2, 1, 0x4604682C, 2, 0, 0}, 1},
	{BoardID{2, 1, 0x4604682C, 4, 0, 0}, 1},
	{BoardID{2, 2, 0x4604682C, 4, 0x4604682C, 4}, 1},
	{BoardID{2, 1, 0x3294D745, 4, 0, 0}, 1},
	{BoardID{2, 1, 0x32944845, 4, 0, 0}, 17},
	{BoardID{2, 1, 0x32956845, 4, 0, 0}, 17},
}

var timingInfoTable = []timingInfo{
	{BoardID{2, 1, 0x7294D7EC, 2, 0, 0}, [8]uint8{0x1e, 0xf, 0xa, 0x1e, 0xf, 0xa, 0x19, 0xf}},
	{BoardID{2, 1, 0x7294D7EC, 4, 0, 0}, [8]uint8{0x1e, 0xf, 0xa, 0x1e, 0xf, 0xa, 0x19, 0xf}},
	{BoardID{2, 2, 0x7294D7EC, 2, 0x7294D7EC, 2}, [8]uint8{0x1e, 0xf, 0xa, 0x1e, 0xf, 0xa, 0x19, 0xf}},
	{BoardID{2, 1, 0x72D5DEEC, 4, 0, 0}, [8]uint8{0x1e, 0xf, 0xa, 0x1e, 0xf, 0xa, 0x14, 0xf}},
	{BoardID{2, 1, 0x29D5D7EC, 4, 0, 0}, [8]uint8{0x1e, 0xf, 0xa, 0x1e, 0xf, 0xa, 0x14, 0xf}},
	{BoardID{2, 1, 0x2994D5EC, 4, 0, 0}, [8]uint8{0x1e, 0xf, 0xa, 0x1e, 0xf, 0xa, 0x14, 0xf}},
	{BoardID{1, 1, 0xB614D5EC, 4, 0, 0}, [8]uint8{0x19, 0xc, 0x5, 0x1e, 0x14, 0xa, 0x14, 0xf}},
	{BoardID{1, 1, 0xB655D7EC, 4, 0, 0}, [8]uint8{0x2d, 0x19, 0xf, 0x32, 0x19, 0xf, 0x1e, 0xf}},
	{BoardID{1, 1, 0xB614D5AD, 4, 0, 0}, [8]uint8{0x19, 0xc, 0xa, 0x19, 0xc, 0xa, 0x14, 0xf}},
	{BoardID{2, 1, 0xB614D5AD, 4, 0, 0}, [8]uint8{0x19, 0xc, 0xa, 0x19, 0xc, 0xa, 0x14, 0xf}},
	{BoardID{2, 2, 0xB614D5AD, 4, 0xB614D5AD, 4}, [8]uint8{0x19, 0xc, 0xa, 0x19, 0xc, 0xa, 0x14, 0xf}},
	{BoardID{2, 1, 0x3294D798, 2, 0, 0}, [8]uint8{0x19, 0xc, 0xa, 0x19, 0xc, 0xa, 0x14, 0x19}},
	{BoardID{2, 1, 0x3294D798, 4, 0, 0}, [8]uint8{0x19, 0xc, 0xa, 0x19, 0xc, 0xa, 0x14, 0x19}},
	{BoardID{1, 1, 0xBA94D598, 4, 0, 0}, [8]uint8{0x1e, 0xf, 0xa, 0x1e, 0xf, 0xf, 0x19, 0x1e}},
	{BoardID{2, 2, 0xBA95D798, 4, 0xBA95D798, 4}, [8]uint8{0x1e, 0xf, 0xa, 0x1e, 0xf, 0xf, 0x19, 0x1e}},
	{BoardID{2, 1, 0x3295DE98, 4, 0, 0}, [8]uint8{0x19, 0xc, 0xa, 0x19, 0xc, 0xa, 0x14, 0x19}},
	{BoardID{2, 2, 0x3295DE98, 6, 0x3295DE98, 6}, [8]uint8{0x19, 0xc, 0xa, 0x19, 0xc, 0xa, 0x14, 0x19}},
	{BoardID{2, 1, 0x3294E798, 4, 0, 0}, [8]uint8{0x19, 0xc, 0xa, 0x19, 0xc, 0xa, 0x14, 0x19}},
	{BoardID{2, 1, 0x3295EE98, 4, 0, 0}, [8]uint8{0x19, 0xc, 0xa, 0x19, 0xc, 0xa, 0x14, 0x19}},
	{BoardID{1, 1, 0x3ED5D789, 2, 0, 0}, [8]uint8{0x19, 0xa, 0xf, 0x19, 0xa, 0xf, 0x14, 0xf}},
	{BoardID{2, 1, 0x3E94D789, 2, 0, 0}, [8]uint8{0x14, 0xa, 0x7, 0x14, 0xa, 0x7, 0x10, 0xf}},
	{BoardID{1, 1, 0x3ED5D72C, 2, 0, 0}, [8]uint8{0x19, 0xa, 0xf, 0x19, 0xa, 0xf, 0x14, 0xf}},
	{BoardID{2, 1, 0x3E94D72C, 4, 0, 0}, [8]uint8{0x14, 0xa, 0x7, 0x14, 0xa, 0x7, 0x10, 0xf}},
	{BoardID{2, 1, 0x3E94D72C, 2, 0, 0}, [8]uint8{0x14, 0xa, 0x7, 0x14, 0xa, 0x7, 0x10, 0xf}},
	{BoardID{2, 1, 0x4604682C, 2, 0, 0}, [8]uint8{0x19, 0xc, 0xa, 0x19, 0xc, 0xa, 0x14, 0xf}},
	{BoardID{2, 1, 0x4604682C, 4, 0, 0}, [8]uint8{0x19, 0xc, 0xa, 0x19, 0xc, 0xa, 0x14, 0xf}},
	{BoardID{2, 2, 0x4604682C, 4, 0x4604682C, 4}, [8]uint8{0x19, 0xc, 0xa, 0x19, 0xc, 0xa, 0x14, 0xf}},
	{BoardID{2, 1, 0x3294E798, 2, 0, 0}, [8]uint8{0x19, 0xc, 0xa, 0x19, 0xc, 0xa, 0x14, 0x19}},
	{BoardID{2, 1, 0x3294D745, 4, 0, 0}, [8]uint8{0x19, 0xc, 0xa, 0x19, 0xc, 0xa, 0x14, 0x1e}},
	{BoardID{2, 1, 0x3295DE45, 4, 0, 0}, [8]uint8{0x19, 0xc, 0xa, 0x19, 0xc, 0xa, 0x14, 0x1e}},
	{BoardID{2, 1, 0x32944845, 4, 0, 0}, [8]uint8{0x19, 0xc, 0xa, 0x19, 0xc, 0xa, 0x14, 0x19}},
	{BoardID{2, 1, 0x32956845, 4, 0, 0}, [8]uint8{0x19, 0xc, 0xa, 0x19, 0xc, 0xa, 0x14, 0x19}},
}

// symmetricMasks partitions a bus's chip bitmap for the "num_symmetric" check
// during board matching (§4.3); a zero mask ends the scan.
var symmetricMasks = [3]uint32{0xF0F, 0, 0}

// timingConstants are the fixed f/g/h/i inputs to setupTiming, invariant
// across every known chip/board.
var timingConstants = struct{ F, G, H, I uint32 }{F: 10, G: 6, H: 3, I: 3}

// fixedMetaPerLogicalPage and fixedNumECCBytes are process-wide constants
// (not sourced from chip_info) mirroring the original firmware's
// nand_some_array{0xC, 0xA, 0}.
const (
	fixedMetaPerLogicalPage = 0xC
	fixedNumECCBytes        = 0xA
)

func findChipInfo(id uint32) (chipInfo, bool) {
	for _, c := range chipInfoTable {
		if c.ChipID == id {
			return c, true
		}
	}
	return chipInfo{}, false
}

func findBoardInfo(b BoardID) (boardInfo, bool) {
	for _, bi := range boardInfoTable {
		if bi.Board == b {
			return bi, true
		}
	}
	return boardInfo{}, false
}

func findTimingInfo(b BoardID) (timingInfo, bool) {
	for _, ti := range timingInfoTable {
		if ti.Board == b {
			return ti, true
		}
	}
	return timingInfo{}, false
}
