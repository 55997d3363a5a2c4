package h2fmi

import "testing"

func TestFindChipInfoKnownPart(t *testing.T) {
	ci, ok := findChipInfo(0x7294D7EC)
	if !ok {
		t.Fatal("findChipInfo(0x7294D7EC) = not found, want found")
	}

	want := chipInfo{0x7294D7EC, 0x1038, 0x80, 0x2000, 0x1B4, 0xC, 1, 0}
	if ci != want {
		t.Errorf("findChipInfo(0x7294D7EC) = %+v, want %+v", ci, want)
	}
}

func TestFindChipInfoUnknownPart(t *testing.T) {
	if _, ok := findChipInfo(0xDEADBEEF); ok {
		t.Error("findChipInfo(0xDEADBEEF) = found, want not found")
	}
}

func TestFindBoardInfoAndTimingInfoAgree(t *testing.T) {
	board := BoardID{NumBusses: 2, NumSymmetric: 1, ChipIDPrimary: 0x7294D7EC, StridePrimary: 2}

	bi, ok := findBoardInfo(board)
	if !ok {
		t.Fatal("findBoardInfo: board not found")
	}
	if bi.VendorType != 1 {
		t.Errorf("findBoardInfo(%+v).VendorType = %d, want 1", board, bi.VendorType)
	}

	ti, ok := findTimingInfo(board)
	if !ok {
		t.Fatal("findTimingInfo: board not found")
	}

	want := [8]uint8{0x1e, 0xf, 0xa, 0x1e, 0xf, 0xa, 0x19, 0xf}
	if ti.T != want {
		t.Errorf("findTimingInfo(%+v).T = %v, want %v", board, ti.T, want)
	}
}

func TestFindBoardInfoUnknownBoard(t *testing.T) {
	if _, ok := findBoardInfo(BoardID{NumBusses: 9, ChipIDPrimary: 0x1}); ok {
		t.Error("findBoardInfo: unexpected match for a bogus board id")
	}
}
