// SPI NOR flash helper for configuration storage.
//
// Copyright (c) The H2FMI Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package nor is a small SPI flash helper, unrelated to the FMI core
// (spec.md §1): a thin wrapper over an SPI master, used for configuration
// storage rather than the NAND page path. The SPI master contract is
// expressed directly against periph.io's spi.Conn, the way periph's own
// device drivers consume it.
package nor

import (
	"fmt"

	"periph.io/x/conn/v3/spi"
)

// Standard SPI NOR opcodes (JEDEC-common subset; this helper targets the
// small configuration parts used alongside the FMI NAND, not a full JEDEC
// SFDP-discovery client).
const (
	opReadStatus  = 0x05
	opWriteEnable = 0x06
	opPageProgram = 0x02
	opSectorErase = 0xD8
	opRead        = 0x03

	statusWIP = 0x01 // write-in-progress

	pageSize   = 256
	sectorSize = 64 * 1024
)

// Device is a SPI NOR flash wrapper over an already-connected SPI port.
type Device struct {
	conn spi.Conn
}

// New wires a NOR Device around a connected SPI port.
func New(conn spi.Conn) *Device {
	return &Device{conn: conn}
}

// Read reads len(data) bytes starting at addr.
func (d *Device) Read(addr uint32, data []byte) error {
	w := append(d.addrCmd(opRead, addr), make([]byte, len(data))...)
	r := make([]byte, len(w))

	if err := d.conn.Tx(w, r); err != nil {
		return fmt.Errorf("nor: read addr=%#x: %w", addr, err)
	}

	copy(data, r[4:])
	return nil
}

// Write programs data starting at addr, one page at a time, matching the
// opWriteEnable/opPageProgram/wait cycle every SPI NOR part requires.
func (d *Device) Write(addr uint32, data []byte) error {
	for off := 0; off < len(data); {
		pageAddr := addr + uint32(off)
		n := pageSize - int(pageAddr%pageSize)
		if n > len(data)-off {
			n = len(data) - off
		}

		if err := d.writeEnable(); err != nil {
			return err
		}

		w := append(d.addrCmd(opPageProgram, pageAddr), data[off:off+n]...)
		if err := d.conn.Tx(w, nil); err != nil {
			return fmt.Errorf("nor: write addr=%#x: %w", pageAddr, err)
		}

		if err := d.waitReady(); err != nil {
			return err
		}

		off += n
	}

	return nil
}

// Erase erases the sector containing addr.
func (d *Device) Erase(addr uint32) error {
	if err := d.writeEnable(); err != nil {
		return err
	}

	sectorAddr := addr - (addr % sectorSize)
	if err := d.conn.Tx(d.addrCmd(opSectorErase, sectorAddr), nil); err != nil {
		return fmt.Errorf("nor: erase addr=%#x: %w", sectorAddr, err)
	}

	return d.waitReady()
}

func (d *Device) writeEnable() error {
	if err := d.conn.Tx([]byte{opWriteEnable}, nil); err != nil {
		return fmt.Errorf("nor: write enable: %w", err)
	}
	return nil
}

func (d *Device) waitReady() error {
	for {
		w := []byte{opReadStatus, 0}
		r := make([]byte, 2)
		if err := d.conn.Tx(w, r); err != nil {
			return fmt.Errorf("nor: read status: %w", err)
		}
		if r[1]&statusWIP == 0 {
			return nil
		}
	}
}

func (d *Device) addrCmd(op byte, addr uint32) []byte {
	return []byte{op, byte(addr >> 16), byte(addr >> 8), byte(addr)}
}
