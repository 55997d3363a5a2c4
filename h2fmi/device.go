// H2FMI NAND flash media controller driver
//
// Copyright (c) The H2FMI Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package h2fmi

import "fmt"

// InfoKey enumerates the closed set of keys a NANDDevice understands (§6).
type InfoKey int

const (
	InfoReturnOne InfoKey = iota
	InfoBanksPerCE
	InfoPagesPerBlock
	InfoPagesPerBlock2
	InfoBlocksPerCE
	InfoBytesPerPage
	InfoBytesPerSpare
	InfoVendorType
	InfoECCBits
	InfoECCBits2
	InfoTotalBanksVFL
	InfoBlocksPerBankDW
	InfoBanksPerCEDW
	InfoPagesPerBlockDW
	InfoPagesPerBlock2DW
	InfoPageNumberBitWidth
	InfoPageNumberBitWidth2
	InfoNumCEPerBus
	InfoPPN
	InfoBanksPerCEVFL
	InfoNumECCBytes
	InfoMetaPerLogicalPage
	InfoPagesPerCE
	InfoNumCE
)

// SetInfoKey enumerates the keys accepted by SetInfo (§6); VendorType is
// accepted but ignored (read-only at runtime), BanksPerCEVFL is writable.
type SetInfoKey int

const (
	SetInfoVendorType SetInfoKey = iota
	SetInfoBanksPerCEVFL
)

// NANDDevice is the contract exposed to the Virtual Flash Layer (§6). VFL
// logic itself lives outside this package; vfl.Device consumes this
// interface.
type NANDDevice interface {
	ReadSinglePage(ce int, block int, page int, buffer []byte, spare []byte) error
	GetInfo(key InfoKey) (uint32, error)
	SetInfo(key SetInfoKey, val uint32) error
	EnableEncryption(enabled bool)
}

// Device adapts a Controller to the NANDDevice contract, mirroring
// h2fmi_init_device's function-pointer table as a constructed value rather
// than file-scope globals (§9 Design Notes).
type Device struct {
	c *Controller
}

// NewDevice wires a NANDDevice around an already-identified Controller.
func NewDevice(c *Controller) *Device {
	return &Device{c: c}
}

// ReadSinglePage implements h2fmi_device_read_single_page: convert
// block*pagesPerBlock+page to an absolute page and delegate to C7.
func (d *Device) ReadSinglePage(ce int, block int, page int, buffer []byte, spare []byte) error {
	geom := d.c.Geometry()
	absolute := uint32(block)*geom.PagesPerBlock + uint32(page)
	return d.c.ReadSinglePage(ce, absolute, buffer, spare, false)
}

// EnableEncryption implements h2fmi_device_enable_encryption.
func (d *Device) EnableEncryption(enabled bool) {
	d.c.EnableEncryption(enabled)
}

// GetInfo implements h2fmi_device_get_info (§6): any key outside the closed
// set is a fatal programmer error in the original; here it is a plain error.
func (d *Device) GetInfo(key InfoKey) (uint32, error) {
	geom := d.c.Geometry()

	switch key {
	case InfoReturnOne:
		return 1, nil
	case InfoBanksPerCE, InfoBanksPerCEDW:
		return geom.BanksPerCE, nil
	case InfoPagesPerBlock, InfoPagesPerBlockDW:
		return geom.PagesPerBlock, nil
	case InfoPagesPerBlock2, InfoPagesPerBlock2DW:
		return geom.PagesPerBlock2, nil
	case InfoBlocksPerCE:
		return geom.BlocksPerCE, nil
	case InfoBytesPerPage:
		return geom.BBTFormat << 9, nil
	case InfoBytesPerSpare:
		return geom.BytesPerSpare, nil
	case InfoVendorType:
		return geom.VendorType, nil
	case InfoECCBits, InfoECCBits2:
		return geom.ECCBits, nil
	case InfoTotalBanksVFL:
		return geom.BanksPerCEVFL * geom.NumCE, nil
	case InfoBlocksPerBankDW:
		return geom.BlocksPerBank, nil
	case InfoPageNumberBitWidth, InfoPageNumberBitWidth2:
		return geom.PageNumberBitWidth, nil
	case InfoNumCEPerBus:
		if geom.NumFMI == 0 {
			return 0, nil
		}
		return geom.NumCE / geom.NumFMI, nil
	case InfoPPN:
		if geom.IsPPN {
			return 1, nil
		}
		return 0, nil
	case InfoBanksPerCEVFL:
		return geom.BanksPerCEVFL, nil
	case InfoNumECCBytes:
		return geom.NumECCBytes, nil
	case InfoMetaPerLogicalPage:
		return geom.MetaPerLogicalPage, nil
	case InfoPagesPerCE:
		return geom.PagesPerCE, nil
	case InfoNumCE:
		return geom.NumCE, nil
	default:
		return 0, fmt.Errorf("h2fmi: get_info: unknown key %d", key)
	}
}

// SetInfo implements h2fmi_device_set_info.
func (d *Device) SetInfo(key SetInfoKey, val uint32) error {
	switch key {
	case SetInfoVendorType:
		return nil
	case SetInfoBanksPerCEVFL:
		d.c.mu.Lock()
		d.c.geometry.BanksPerCEVFL = val
		d.c.mu.Unlock()
		return nil
	default:
		return fmt.Errorf("h2fmi: set_info: unknown key %d", key)
	}
}
