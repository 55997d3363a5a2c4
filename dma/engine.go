// Bare-metal DMA engine for the H2FMI page-grid transfer.
//
// Copyright (c) The H2FMI Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package dma

import (
	"fmt"
	"time"

	"github.com/openiboot/h2fmi/h2fmi"
	"github.com/openiboot/h2fmi/internal/reg"
)

// dmaEnginePollTimeout bounds the completion poll; the caller (h2fmi's read
// state machine) enforces its own 2s dma_wait timeout on top of this.
const dmaEnginePollTimeout = 3 * time.Second

// Engine is an h2fmi.DMAEngine backed by a Region: it stages xfer.Dest in a
// DMA-coherent buffer, triggers the controller's channel-start register, and
// polls the channel's done bit, mirroring the ADMA2 descriptor-then-poll
// sequence of the teacher's usdhc driver adapted to the FMI's simpler
// single-buffer descriptor model.
type Engine struct {
	Space   reg.Space
	Region  *Region
	StartReg uint32
	DoneReg  uint32
	DoneMask uint32

	addr uint
	size int
}

// Start implements h2fmi.DMAEngine. It allocates a staging buffer sized to
// xfer.Dest, writes its address to the channel's start register (the size
// is not written to any register), and spawns a goroutine that polls DoneReg, copies the result into
// xfer.Dest, and invokes onDone — standing in for the real IRQ the hardware
// would raise on completion.
func (e *Engine) Start(xfer h2fmi.DMATransfer, onDone func(err error)) error {
	if e.addr != 0 {
		return fmt.Errorf("dma: engine busy")
	}

	size := len(xfer.Dest)
	addr := e.Region.Alloc(make([]byte, size), 0)
	e.addr, e.size = addr, size

	e.Space.Write32(e.StartReg, uint32(addr))

	go func() {
		if err := reg.WaitTimeout(e.Space, e.DoneReg, 0, int(e.DoneMask), e.DoneMask, dmaEnginePollTimeout); err != nil {
			onDone(err)
			return
		}

		e.Region.Read(addr, 0, xfer.Dest)
		onDone(nil)
	}()

	return nil
}

// Cancel implements h2fmi.DMAEngine: release the staging buffer, leaving the
// channel ready for reuse.
func (e *Engine) Cancel() {
	if e.addr == 0 {
		return
	}

	e.Region.Free(e.addr)
	e.addr, e.size = 0, 0
}
