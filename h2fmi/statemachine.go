// H2FMI NAND flash media controller driver
//
// Copyright (c) The H2FMI Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package h2fmi

import (
	"time"
)

// readState is the read-path sub-state (§4.6). The outer {Idle,Read,Write}
// variant from the original is collapsed here since program/erase (Write)
// is out of scope (spec.md §1 Non-goals); every operation this package
// performs is a read.
type readState int

const (
	stateIdle readState = iota
	stateS1
	stateS2
	stateS3
	stateS4
	stateDone
)

// Overall-status sentinels (§4.6, §7), bit-exact with the original firmware.
const (
	statusOK            uint32 = 0
	statusEmptyMultiple uint32 = 2
	statusEmptySingle   uint32 = 0x2
	statusSoftECCMany   uint32 = 0x80000025
	statusTimeoutIdle   uint32 = 0x8000001F
	statusTimeoutArm    uint32 = 0x8000001D
	statusTimeoutReady  uint32 = 0x8000001C
	statusDMAWaitFailed uint32 = 1
)

// ENAND_EMPTY/ENAND_ECC are named per spec.md's glossary/error section; the
// original firmware leaves their numeric values to a shared NAND error
// header not present in original_source, so they are defined here as the
// two status codes the ECC classifier and read_single_page's status mapping
// agree on.
const (
	enandEmpty uint32 = 0x80000001
	enandECC   uint32 = 0x1
)

// readRequest is the caller-supplied batch for one read_multi invocation
// (§4.6 entry point). Chips, Data and Meta must have the same length as
// Pages; ReadMulti rejects the batch otherwise.
//
// ECCOut and PerPageECC are the state machine's two distinct ECC reporting
// outputs (§4.6's per_page_ecc_out[] and unused[] parameters): ECCOut holds,
// per page, one correction-count byte per sector (bbt_format slots); PerPageECC
// holds one byte per page, the maximum correction count observed across that
// page's sectors. Either may be nil per page to skip that output.
type readRequest struct {
	Chips      []int
	Pages      []uint32
	Data       [][]byte
	Meta       [][]byte
	ECCOut     [][]byte
	PerPageECC []byte
}

// readOp is the per-operation scratch state the state machine mutates while
// driving one read_multi call (§3 "Bus ... per-operation scratch").
type readOp struct {
	req readRequest

	state readState

	currentIndex int
	currentChip  int

	deferAddress bool // field_140: chip enable and address still to be issued by S1
	issued       bool // field_13C: a transfer was actually issued

	events *eventRegistry

	emptyCount   int
	softECCCount int
	eccCount     int
	firstErrChip int

	overallStatus uint32

	deadline      time.Time // field_12C: 2s state-transition deadline
	shortDeadline time.Time // field_134: 500ms sub-deadline

	latchedStatus uint32
}

// dmaWaitTimeout and state-transition deadlines (§5).
const (
	dmaWaitTimeout   = 2 * time.Second
	stateDeadline    = 2 * time.Second
	shortDeadlineDur = stateDeadline / 4
)

// ReadMulti implements h2fmi_read_multi (§4.6): drives the cooperative state
// machine and the bus's two DMA channels to read req.Pages from req.Chips
// into req.Data/req.Meta, reporting per-sector correction counts into
// req.ECCOut and each page's maximum correction count into req.PerPageECC.
// It never returns an error for NAND-side conditions (empty page, ECC) —
// those are folded into the returned status code, exactly as the original.
// A DMA wait timeout is likewise reported as status statusDMAWaitFailed (1)
// with a nil error; Go errors here are reserved for programmer errors
// (mismatched slice lengths).
func (b *Bus) ReadMulti(req readRequest, aes *AESDescriptor, events *eventRegistry) (uint32, error) {
	n := len(req.Pages)
	if len(req.Chips) != n || len(req.Data) != n || len(req.Meta) != n {
		return 0, errMismatchedBatch
	}

	b.Lock()
	defer b.Unlock()

	op := &readOp{req: req, firstErrChip: -1, events: events}

	b.deviceReset()
	b.Space.Write32(regECCBITS, 0xF)
	op.state = stateS1_init(op)

	for op.state != stateDone {
		b.tick(op, aes)
		b.sched().Yield()
	}

	if op.issued {
		if err := events.wait(b.DataChannel, dmaWaitTimeout); err != nil {
			events.cancel(b.DataChannel, b.DMAData)
			events.cancel(b.MetaChannel, b.DMAMeta)
			return statusDMAWaitFailed, nil
		}
		if err := events.wait(b.MetaChannel, dmaWaitTimeout); err != nil {
			events.cancel(b.DataChannel, b.DMAData)
			events.cancel(b.MetaChannel, b.DMAMeta)
			return statusDMAWaitFailed, nil
		}
	}

	events.cancel(b.DataChannel, b.DMAData)
	events.cancel(b.MetaChannel, b.DMAMeta)

	if op.overallStatus != 0 {
		return op.overallStatus, nil
	}

	switch {
	case op.emptyCount != 0:
		if op.emptyCount > n {
			return statusEmptyMultiple, nil
		}
		return enandEmpty, nil
	case op.softECCCount != 0:
		if op.softECCCount > n {
			return statusSoftECCMany, nil
		}
		return enandECC, nil
	case op.eccCount != 0:
		return enandECC, nil
	}

	return statusOK, nil
}

var errMismatchedBatch = newDriverError("h2fmi: mismatched read batch slice lengths")

// stateS1_init implements the Idle state handler (§4.6): reset per-read
// counters and deadlines and move to S1. ReadMulti programs the ECC bits
// register for reading (0xF) just before calling it.
func stateS1_init(op *readOp) readState {
	op.emptyCount, op.softECCCount, op.eccCount = 0, 0, 0
	op.firstErrChip = -1
	op.overallStatus = 0
	op.currentIndex = 0
	op.issued = true
	op.deferAddress = true

	if len(op.req.Chips) > 0 {
		op.currentChip = op.req.Chips[0]
	}

	now := time.Now()
	op.deadline = now.Add(stateDeadline)
	op.shortDeadline = now.Add(shortDeadlineDur)

	return stateS1
}

// tick runs exactly one state-handler invocation under the bus lock, which
// the caller already holds (§5: "each state-machine tick" is a critical
// section).
func (b *Bus) tick(op *readOp, aes *AESDescriptor) {
	switch op.state {
	case stateS1:
		b.tickS1(op)
	case stateS2:
		b.tickS2(op, aes)
	case stateS3:
		b.tickS3(op)
	case stateS4:
		b.tickS4(op)
	default:
		op.state = stateDone
	}
}

// tickS1 implements the S1 handler (§4.6): enable/address the current chip
// unless a same-die batch deferred it, then arm the page-ready wait.
func (b *Bus) tickS1(op *readOp) {
	if op.currentIndex >= len(op.req.Pages) {
		op.state = stateS4
		return
	}

	if op.deferAddress {
		b.enableChip(op.currentChip)
		_ = b.setAddress(op.req.Pages[op.currentIndex])
		op.deferAddress = false
	}

	if next := op.currentIndex + 1; next < len(op.req.Chips) && op.req.Chips[next] == op.currentChip {
		op.deferAddress = true
	}

	b.Space.Write32(regUNK10, 0x2000)
	op.state = stateS4
}

// tickS4 implements the S4 handler: wait for the chip-ready status bit,
// enforcing the 500ms sub-deadline, then either finish the batch or arm the
// next page's command.
func (b *Bus) tickS4(op *readOp) {
	if b.Space.Read32(regUNK8)&4 == 0 {
		if time.Now().After(op.shortDeadline) {
			op.overallStatus = statusTimeoutReady
			op.state = stateDone
		}
		return
	}

	if op.currentIndex >= len(op.req.Pages) {
		op.latchedStatus = b.Space.Read32(regUNK810)
		b.classifyECC(op, op.latchedStatus)
		op.state = stateDone
		return
	}

	reg0 := b.Space.Read32(regUNKREG1)
	b.Space.Write32(regUNKREG1, reg0&^uint32(0x100000))
	op.state = stateS2
}

// tickS2 implements the S2 handler: poll for IRQ completion of the command
// phase, enforcing the 2s deadline; on the first page, issue the page-grid
// DMA; on subsequent pages, classify the previous page's latched status.
func (b *Bus) tickS2(op *readOp, aes *AESDescriptor) {
	irqComplete := b.Space.Read32(regUNKC)&0x100 != 0

	if !irqComplete {
		if time.Now().After(op.deadline) {
			op.overallStatus = statusTimeoutArm
			op.state = stateDone
		}
		return
	}

	op.latchedStatus = b.Space.Read32(regUNK810)
	b.Space.Write32(regUNKREG4, 0)
	b.Space.Write32(regUNKREG5, 1)
	_ = b.waitForDone(regUNKREG6, 1, 1)
	b.Space.Write32(regUNKREG6, 1)

	op.state = stateS3
	b.Space.Write32(regUNK10, 2)
	b.Space.Write32(regUNK4, 3)

	if op.currentIndex == 0 {
		b.issuePageGridDMA(op, aes)
	} else {
		b.classifyECC(op, op.latchedStatus)
	}
}

// tickS3 implements the S3 handler: wait for the page-ready bit, enforcing
// the 2s deadline, then advance to the next page.
func (b *Bus) tickS3(op *readOp) {
	field48 := b.Space.Read32(regUNKC)

	if field48&2 == 0 {
		if time.Now().After(op.deadline) {
			op.overallStatus = statusTimeoutIdle
			op.state = stateDone
		}
		return
	}

	b.Space.Write32(regUNK10, 0)
	op.currentIndex++
	op.deferAddress = true
	if op.currentIndex < len(op.req.Chips) {
		op.currentChip = op.req.Chips[op.currentIndex]
	}
	op.state = stateS1
}

// issuePageGridDMA implements h2fmi_rw_large_page (§4.6.2): issue the
// concurrent data+metadata DMAs for the whole page grid through the event
// registry, so that ReadMulti's waits observe their completion.
func (b *Bus) issuePageGridDMA(op *readOp, aes *AESDescriptor) {
	n := len(op.req.Pages)
	bytesPerPage := b.geom.bytesPerPage

	dataXfer := DMATransfer{
		Dir:       DMARead,
		Source:    regUNK14,
		Dest:      op.req.Data[0],
		WordSize:  4,
		BlockSize: 8,
		AES:       aes,
	}
	_ = bytesPerPage * uint32(n) // size carried by len(Dest); caller allocates exact size

	metaXfer := DMATransfer{
		Dir:       DMARead,
		Source:    regUNK18,
		Dest:      op.req.Meta[0],
		WordSize:  1,
		BlockSize: 1,
	}

	_ = op.events.executeAsync(b.DataChannel, b.DMAData, dataXfer)
	_ = op.events.executeAsync(b.MetaChannel, b.DMAMeta, metaXfer)
}

// classifyECC implements h2fmi_function_1/h2fmi_some_mysterious_function
// (§4.6.1): classify one latched UNK810 status word, updating the batch's
// empty/softECC/ecc counters, filling req.ECCOut's per-sector correction
// bytes (field_158/unused[]) and, when requested, req.PerPageECC's
// per-page maximum correction byte (field_148/per_page_ecc_out[]).
func (b *Bus) classifyECC(op *readOp, v uint32) {
	idx := op.currentIndex
	if idx > 0 {
		idx--
	}

	if v&0x40 != 0 {
		if idx < len(op.req.Meta) && op.req.Meta[idx] != nil {
			for i := range op.req.Meta[idx] {
				op.req.Meta[idx][i] = 0xFE
			}
		}
		op.emptyCount++
		if op.firstErrChip < 0 && idx < len(op.req.Chips) {
			op.firstErrChip = op.req.Chips[idx]
		}
		return
	}

	// code mirrors the original's `(v & 8) ? ENAND_ECC : 1` base code, but
	// here the "no ECC condition" case is kept as statusOK (0) rather than
	// 1: enandECC is itself 1, and reusing that value for "ok" made every
	// non-empty page classify as an ECC error below.
	code := statusOK
	if v&8 != 0 {
		code = enandECC
	}

	if idx < len(op.req.ECCOut) && op.req.ECCOut[idx] != nil || idx < len(op.req.PerPageECC) {
		max := byte(0)
		slots := int(b.geom.bbtFormat)
		for s := 0; s < slots; s++ {
			reg := b.Space.Read32(regUNK80C)
			corr := byte((reg >> 16) & 0x1F)

			if idx < len(op.req.ECCOut) && op.req.ECCOut[idx] != nil && s < len(op.req.ECCOut[idx]) {
				if reg&1 != 0 {
					op.req.ECCOut[idx][s] = 0xFF
				} else {
					op.req.ECCOut[idx][s] = corr
				}
			}

			if reg&1 == 0 && corr > max {
				max = corr
			}
		}

		if idx < len(op.req.PerPageECC) {
			op.req.PerPageECC[idx] = max
		}
	}

	switch code {
	case enandECC:
		op.eccCount++
	case statusSoftECCMany:
		op.softECCCount++
	case statusEmptyMultiple:
		op.emptyCount++
	}

	if op.firstErrChip < 0 && code != statusOK && idx < len(op.req.Chips) {
		op.firstErrChip = op.req.Chips[idx]
	}
}
