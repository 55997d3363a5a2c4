package vfl

import (
	"errors"
	"testing"

	"github.com/openiboot/h2fmi/h2fmi"
)

type fakeNAND struct {
	pagesPerBlock uint32
	numCE         uint32

	lastCE, lastBlock, lastPage int
	readErr                     error
}

func (f *fakeNAND) ReadSinglePage(ce int, block int, page int, buffer []byte, spare []byte) error {
	f.lastCE, f.lastBlock, f.lastPage = ce, block, page
	return f.readErr
}

func (f *fakeNAND) GetInfo(key h2fmi.InfoKey) (uint32, error) {
	switch key {
	case h2fmi.InfoPagesPerBlock:
		return f.pagesPerBlock, nil
	case h2fmi.InfoNumCE:
		return f.numCE, nil
	default:
		return 0, errors.New("fakeNAND: unsupported key")
	}
}

func (f *fakeNAND) SetInfo(key h2fmi.SetInfoKey, val uint32) error { return nil }
func (f *fakeNAND) EnableEncryption(enabled bool)                  {}

func TestNewReadsGeometry(t *testing.T) {
	nand := &fakeNAND{pagesPerBlock: 0x80, numCE: 4}

	d, err := New(nand)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if d.PagesPerBlock() != 0x80 {
		t.Errorf("PagesPerBlock() = %d, want 0x80", d.PagesPerBlock())
	}
	if d.NumCE() != 4 {
		t.Errorf("NumCE() = %d, want 4", d.NumCE())
	}
}

func TestReadSinglePageDelegates(t *testing.T) {
	nand := &fakeNAND{pagesPerBlock: 0x80, numCE: 4}
	d, err := New(nand)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	data := make([]byte, 16)
	meta := make([]byte, 4)
	if err := d.ReadSinglePage(2, 5, 7, data, meta, false); err != nil {
		t.Fatalf("ReadSinglePage: %v", err)
	}

	if nand.lastCE != 2 || nand.lastBlock != 5 || nand.lastPage != 7 {
		t.Errorf("ReadSinglePage forwarded (%d,%d,%d), want (2,5,7)", nand.lastCE, nand.lastBlock, nand.lastPage)
	}
}

func TestReadSinglePageCERangeCheck(t *testing.T) {
	nand := &fakeNAND{pagesPerBlock: 0x80, numCE: 2}
	d, err := New(nand)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := d.ReadSinglePage(5, 0, 0, nil, nil, false); err == nil {
		t.Fatal("ReadSinglePage with ce out of range returned no error")
	}
}

func TestReadSinglePageEmptyOKToleratesNotFound(t *testing.T) {
	nand := &fakeNAND{pagesPerBlock: 0x80, numCE: 1, readErr: h2fmi.ErrNotFound}
	d, err := New(nand)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := d.ReadSinglePage(0, 0, 0, nil, nil, true); err != nil {
		t.Errorf("ReadSinglePage with emptyOK=true and ErrNotFound = %v, want nil", err)
	}

	if err := d.ReadSinglePage(0, 0, 0, nil, nil, false); err == nil {
		t.Error("ReadSinglePage with emptyOK=false and ErrNotFound returned no error")
	}
}
