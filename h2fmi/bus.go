// H2FMI NAND flash media controller driver
//
// Copyright (c) The H2FMI Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package h2fmi

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/openiboot/h2fmi/internal/reg"
)

// registerPollTimeout is the fixed 10ms timeout on register-ready polls
// (§4.1).
const registerPollTimeout = 10 * time.Millisecond

// Bus represents one FMI hardware instance. Two instances exist on a real
// S5L8920-family SoC, addressed as bus 0 and bus 1.
type Bus struct {
	sync.Mutex

	// Num is this bus's index, 0 or 1.
	Num int

	// Space is the 32-bit register space backing this bus, either real
	// MMIO or a host fake (see internal/reg.Mem).
	Space reg.Space

	// DMAData and DMAMeta are the two DMA channels driving the page-grid
	// transfer (§4.6.2): data and metadata respectively.
	DMAData DMAEngine
	DMAMeta DMAEngine

	// DataChannel and MetaChannel index this bus's slots in the global
	// 28-slot DMA event registry (§3).
	DataChannel int
	MetaChannel int

	// AES is the inline AES engine; nil disables encryption regardless of
	// the global enable flag.
	AES AESEngine

	Scheduler Scheduler

	// bitmap has bit i set if chip i responded during identification.
	bitmap   uint16
	numChips int

	// timingCache holds the packed UNKREG1 value restored on reset.
	timingCache uint32

	geom busGeometry
}

func (b *Bus) sched() Scheduler {
	if b.Scheduler != nil {
		return b.Scheduler
	}
	return defaultScheduler
}

// waitForDone polls addr cooperatively until (value & mask) == expected, or
// fails with context.DeadlineExceeded after registerPollTimeout (§4.1).
func (b *Bus) waitForDone(addr uint32, mask uint32, expected uint32) error {
	ctx, cancel := context.WithTimeout(context.Background(), registerPollTimeout)
	defer cancel()

	for {
		if b.Space.Read32(addr)&mask == expected {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("h2fmi: bus %d: timeout waiting for %#x&%#x==%#x: %w", b.Num, addr, mask, expected, ctx.Err())
		default:
		}

		b.sched().Yield()
	}
}

// deviceReset resets the controller (UNKREG2 <- 1) and restores the cached
// timing register, mirroring h2fmi_device_reset. The bus's clock gate is not
// reset here.
func (b *Bus) deviceReset() {
	b.Space.Write32(regUNKREG2, 1)
	b.Space.Write32(regUNKREG1, b.timingCache)
}

// enableChip sets the CE mask bit for chip (0-15, mapped to the half-bus it
// belongs to).
func (b *Bus) enableChip(chip int) {
	bit := uint32(1) << uint(chip&(maxChipsPerBus-1))
	reg.Set(b.Space, regCHIPMASK, int(chip&(maxChipsPerBus-1)))
	_ = bit
}

func (b *Bus) disableChip(chip int) {
	reg.Clear(b.Space, regCHIPMASK, int(chip&(maxChipsPerBus-1)))
}

func (b *Bus) disableBus() {
	b.Space.Write32(regCHIPMASK, 0)
}

// setAddress programs a 24-bit page address and triggers the controller to
// accept it, per §4.1's set_address sequence.
func (b *Bus) setAddress(page uint32) error {
	b.Space.Write32(regUNK41C, page&0xFFFFFF)
	b.Space.Write32(regUNKREG9, page&0xFFFFFF)
	b.Space.Write32(regUNKREG10, 4)
	b.Space.Write32(regUNKREG4, 0x3000)
	b.Space.Write32(regUNKREG5, 0xB)

	if err := b.waitForDone(regUNKREG6, 0xB, 0xB); err != nil {
		return err
	}

	b.Space.Write32(regUNKREG5, 0xB)
	return nil
}

// resetAll enables each of the bus's possible chips in turn and issues a
// controller-wide reset, mirroring nand_reset_all.
func (b *Bus) resetAll() error {
	for chip := 0; chip < maxChipsPerBus; chip++ {
		b.enableChip(chip)
		b.Space.Write32(regUNKREG4, 0xFF)
		b.Space.Write32(regUNKREG5, 1)

		if err := b.waitForDone(regUNKREG6, 1, 1); err != nil {
			b.disableChip(chip)
			return err
		}

		b.disableChip(chip)
	}

	return nil
}

// readChipID issues READ ID (0x90) to chip and returns its 6-byte id,
// mirroring h2fmi_read_chipid.
func (b *Bus) readChipID(chip int) ([h2fmiChipIDLength]byte, error) {
	var id [h2fmiChipIDLength]byte

	b.enableChip(chip)
	defer b.disableChip(chip)

	b.Space.Write32(regUNKREG4, 0x90)
	b.Space.Write32(regUNKREG5, 9)

	if err := b.waitForDone(regUNKREG6, 9, 9); err != nil {
		return id, err
	}

	for i := range id {
		b.Space.Write32(regUNKREG5, 0x50)
		id[i] = byte(b.Space.Read32(regDATA))
		b.Space.Write32(regUNKREG5, 0)
	}

	return id, nil
}
