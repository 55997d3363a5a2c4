// H2FMI NAND flash media controller driver
//
// Copyright (c) The H2FMI Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package h2fmi

import (
	"errors"
	"log"
)

// Public read outcomes (§7): read_single_page never returns the raw NAND
// status word, only this three-way classification.
var (
	// ErrNotFound covers both an empty (never-written) page and an
	// uncorrectable ECC failure, matching the original's ENAND_EMPTY and
	// ENAND_ECC both mapping to "not found" for the VFL.
	ErrNotFound = errors.New("h2fmi: page not found or uncorrectable")
	// ErrRetry is returned for the soft/partial-error status code 2.
	ErrRetry = errors.New("h2fmi: transient read error, retry")
	// ErrIO covers any other non-zero hardware status.
	ErrIO = errors.New("h2fmi: hardware error")
)

// ReadSinglePage implements h2fmi_read_single_page / h2fmi_device_read_single_page
// (§4.7): resolve ce to (bus, chip) via the CE map, configure AES for the
// region containing offset page*bytesPerPage, drive a one-page read_multi,
// then copy and whiten metadata.
//
// disableEncryption mirrors the caller's flag argument: when true, AES is
// skipped for this read regardless of the global enable flag.
func (c *Controller) ReadSinglePage(ce int, page uint32, data []byte, meta []byte, disableEncryption bool) error {
	c.mu.Lock()
	if ce < 0 || ce >= len(c.ceMap) {
		c.mu.Unlock()
		return errors.New("h2fmi: chip-enable index out of range")
	}
	entry := c.ceMap[ce]
	bus := c.buses[entry.Bus]
	bytesPerPage := c.geometry.BytesPerPage
	metaPerLogicalPage := int(c.geometry.MetaPerLogicalPage)
	numECCBytes := int(c.geometry.NumECCBytes)
	whitening := c.whiteningEnabled
	c.mu.Unlock()

	if c.cache != nil {
		c.cache.FlushRange(0, int(bytesPerPage))
	}

	offset := page * bytesPerPage
	aes := c.configureAES(offset, page, disableEncryption)

	wmr := make([]byte, metaPerLogicalPage)
	if numECCBytes > metaPerLogicalPage {
		numECCBytes = metaPerLogicalPage
	}

	req := readRequest{
		Chips:  []int{entry.Chip},
		Pages:  []uint32{page},
		Data:   [][]byte{data},
		Meta:   [][]byte{wmr},
		ECCOut: [][]byte{nil},
	}

	status, err := bus.ReadMulti(req, aes, c.events)
	if err != nil {
		return err
	}

	if meta != nil {
		n := copy(meta, wmr[:numECCBytes])

		if whitening && len(meta) >= 12 {
			hashIdx := int(page) % 256
			for w := 0; w < 3; w++ {
				hv := c.hashTable[(hashIdx+w)%256]
				for b := 0; b < 4; b++ {
					meta[w*4+b] ^= byte(hv >> (8 * uint(b)))
				}
			}
		}

		for i := n; i < len(meta); i++ {
			meta[i] = 0xFF
		}
	}

	return mapReadStatus(status)
}

// mapReadStatus implements the read_ret mapping of §4.7/§7: 0->nil,
// empty/UECC->ErrNotFound, 2->ErrRetry, else logged and ErrIO.
func mapReadStatus(status uint32) error {
	switch status {
	case statusOK:
		return nil
	case enandEmpty:
		return ErrNotFound
	case enandECC:
		log.Printf("h2fmi: uncorrectable ECC error")
		return ErrNotFound
	case statusEmptyMultiple:
		return ErrRetry
	default:
		log.Printf("h2fmi: hardware error, status=%#x", status)
		return ErrIO
	}
}
