// H2FMI NAND flash media controller driver
//
// Copyright (c) The H2FMI Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package h2fmi

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Controller is the owned "driver context" (§9 Design Notes) replacing the
// original firmware's file-scope globals: the two buses, derived geometry,
// the CE virtualization map, the whitening hash table, and the mutable AES/
// FTL/encryption state a read touches.
type Controller struct {
	mu sync.Mutex

	buses [2]*Bus
	clock Clock
	cache CacheFlusher

	geometry Geometry
	ceMap    []CEMapEntry

	hashTable [256]uint32

	aesEnabled       atomic.Bool
	whiteningEnabled bool

	ftl   ftlContext
	ftlOK bool

	events *eventRegistry
}

// NewController constructs a Controller for two already-configured buses. It
// does not touch hardware until Identify is called.
func NewController(bus0, bus1 *Bus, clock Clock, cache CacheFlusher) *Controller {
	c := &Controller{
		clock:  clock,
		cache:  cache,
		events: newEventRegistry(),
	}
	c.buses[0] = bus0
	c.buses[1] = bus1
	bus0.Num, bus1.Num = 0, 1
	c.whiteningEnabled = true
	return c
}

// Identify runs the full device-identification sequence (§4.3): reset and
// read ids on both buses, match the static tables, derive geometry and
// timing, build the CE virtualization map, and seed the whitening hash
// table. It must be called exactly once before any read.
func (c *Controller) Identify() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	res, err := identify(c.buses[0], c.buses[1])
	if err != nil {
		return err
	}

	ci, ok := findChipInfo(chipIDTo32(res.referenceID))
	if !ok {
		return fmt.Errorf("%w: %x", ErrUnsupportedChip, res.referenceID)
	}

	bi, ok := findBoardInfo(res.board)
	if !ok {
		return fmt.Errorf("%w: %+v", ErrUnsupportedBoard, res.board)
	}

	ti, ok := findTimingInfo(res.board)
	if !ok {
		return fmt.Errorf("%w: %+v", ErrUnsupportedTiming, res.board)
	}

	bbtFormat := ci.BytesPerPage >> 9
	switch bbtFormat {
	case 1, 4, 8, 16:
	default:
		return fmt.Errorf("%w: bbt_format=%d", ErrInvalidPageSize, bbtFormat)
	}

	eccBits := calculateECCBits(ci.BytesPerSpare, fixedNumECCBytes, ci.BytesPerPage)
	eccTag := eccTagFor(eccBits)

	blocksPerBank, unk14 := blockBankStride(ci.BlocksPerCE, ci.BanksPerCE)

	geom := Geometry{
		NumFMI:             2,
		NumCE:              uint32(res.totalChips),
		BlocksPerCE:        ci.BlocksPerCE,
		PagesPerBlock:      ci.PagesPerBlock,
		PagesPerBlock2:     pagesPerBlock2For(ci.PagesPerBlock),
		BytesPerPage:       ci.BytesPerPage,
		BBTFormat:          bbtFormat,
		BytesPerSpare:      ci.BytesPerSpare,
		BanksPerCE:         ci.BanksPerCE,
		BanksPerCEVFL:      1,
		BlocksPerBank:      blocksPerBank,
		PageNumberBitWidth: pageNumberBitWidthFor(ci.PagesPerBlock),
		ECCBits:            eccBits,
		ECCTag:             eccTag,
		MetaPerLogicalPage: fixedMetaPerLogicalPage,
		NumECCBytes:        fixedNumECCBytes,
		PagesPerCE:         ci.BlocksPerCE * ci.PagesPerBlock,
		VendorType:         bi.VendorType,
		IsPPN:              false,
		Unk14:              unk14,
	}

	freqHz := uint32(0)
	if c.clock != nil {
		freqHz = c.clock.FrequencyNandHz()
	}
	timingReg := deriveTimingRegister(freqHz, ti)

	bg := busGeometry{
		blocksPerCE:        geom.BlocksPerCE,
		pagesPerBlock:      geom.PagesPerBlock,
		bytesPerPage:       geom.BytesPerPage,
		bytesPerSpare:      geom.BytesPerSpare,
		banksPerCE:         geom.BanksPerCE,
		banksPerCEVFL:      geom.BanksPerCEVFL,
		bbtFormat:          geom.BBTFormat,
		eccBits:            geom.ECCBits,
		eccTag:             geom.ECCTag,
		metaPerLogicalPage: geom.MetaPerLogicalPage,
		numECCBytes:        geom.NumECCBytes,
		pageSize:           configSectorsToPageSize(geom.BBTFormat),
		isPPN:              geom.IsPPN,
	}

	for _, b := range c.buses {
		if b.numChips == 0 {
			continue
		}
		b.geom = bg
		b.timingCache = timingReg
		b.Space.Write32(regUNKREG1, timingReg)
	}

	c.geometry = geom
	c.ceMap = buildCEMap(c.buses[0], c.buses[1])
	c.hashTable = seedHashTable()

	return nil
}

// Geometry returns the process-wide geometry derived by Identify.
func (c *Controller) Geometry() Geometry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.geometry
}
