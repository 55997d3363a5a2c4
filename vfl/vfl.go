// Virtual Flash Layer consumer of the H2FMI NAND-device interface.
//
// Copyright (c) The H2FMI Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package vfl is a thin consumer of h2fmi.NANDDevice. The VFL itself —
// logical-block mapping, bad-block management, wear levelling — is out of
// scope for this driver (spec.md §1 Non-goals); this package only shows the
// shape of the contract the NAND-device façade exposes.
package vfl

import (
	"fmt"

	"github.com/openiboot/h2fmi/h2fmi"
)

// Device is a minimal VFL-side client of a NANDDevice: single-page reads
// addressed by (block, page) rather than an absolute page, plus the
// geometry it needs to plan reads.
type Device struct {
	nand h2fmi.NANDDevice

	pagesPerBlock uint32
	numCE         uint32
}

// New wires a vfl.Device around an already-identified NANDDevice.
func New(nand h2fmi.NANDDevice) (*Device, error) {
	pagesPerBlock, err := nand.GetInfo(h2fmi.InfoPagesPerBlock)
	if err != nil {
		return nil, fmt.Errorf("vfl: %w", err)
	}

	numCE, err := nand.GetInfo(h2fmi.InfoNumCE)
	if err != nil {
		return nil, fmt.Errorf("vfl: %w", err)
	}

	return &Device{nand: nand, pagesPerBlock: pagesPerBlock, numCE: numCE}, nil
}

// ReadSinglePage implements vfl_read_single_page: read one (block, page)
// pair from the given CE, with empty-page tolerance controlled by emptyOK.
// There is no refresh parameter; the CLI's refresh argument has no effect
// on a pure read.
func (d *Device) ReadSinglePage(ce int, block int, page int, data []byte, meta []byte, emptyOK bool) error {
	if uint32(ce) >= d.numCE {
		return fmt.Errorf("vfl: ce %d out of range (numCE=%d)", ce, d.numCE)
	}

	err := d.nand.ReadSinglePage(ce, block, page, data, meta)
	if err != nil {
		if emptyOK && err == h2fmi.ErrNotFound {
			return nil
		}
		return fmt.Errorf("vfl: read ce=%d block=%d page=%d: %w", ce, block, page, err)
	}

	return nil
}

// NumCE reports the number of logical chip-enables visible to the VFL.
func (d *Device) NumCE() int {
	return int(d.numCE)
}

// PagesPerBlock reports the block size in pages.
func (d *Device) PagesPerBlock() int {
	return int(d.pagesPerBlock)
}
