// H2FMI NAND flash media controller driver
//
// Copyright (c) The H2FMI Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package h2fmi

// Inline AES key constants (§4.5), bit-exact with the original firmware.
var (
	keyFTL = [4]uint32{0x95AE5DF6, 0x426C900E, 0x58CC54B2, 0xCEEE78FC}
	keyVFL = [4]uint32{0xAB42A792, 0xBF69C908, 0x12946C00, 0xA579CCD3}
)

// ftlContext holds the externally-set FTL region parameters (§6 "FTL
// context", setup_ftl/clear_ftl) used to decide whether a given read offset
// falls in the FTL or VFL AES region.
type ftlContext struct {
	startPage uint32
	databuf   uint32
	count     uint32
}

// SetupFTL records the FTL region window used by region selection in
// configureAES, mirroring h2fmi_setup_ftl.
func (c *Controller) SetupFTL(startPage, databuf, count uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ftl = ftlContext{startPage: startPage, databuf: databuf, count: count}
	c.ftlOK = true
}

// ClearFTL removes the FTL region window, mirroring h2fmi_clear_ftl; once
// cleared, every read is treated as VFL region.
func (c *Controller) ClearFTL() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ftlOK = false
}

// EnableEncryption sets the global inline-AES enable flag (§6).
func (c *Controller) EnableEncryption(enabled bool) {
	c.aesEnabled.Store(enabled)
}

// shiftXORChain implements the four-word IV derivation shared by the FTL and
// VFL generators (§4.5): iterating val, each word is produced by: if val&1,
// val = (val>>1) ^ xorConst; else val = val>>1; the post-iteration val is
// stored as that word.
func shiftXORChain(val uint32, xorConst uint32) (iv [4]uint32) {
	for i := 0; i < 4; i++ {
		if val&1 != 0 {
			val = (val >> 1) ^ xorConst
		} else {
			val = val >> 1
		}
		iv[i] = val
	}
	return iv
}

const ivXORConstant = 0x80000061

// ivFTL implements h2fmi_aes_handler_1: derive the four-word IV for an FTL
// region read at byte offset param, given the bus's bbt_format (sectors per
// page).
func ivFTL(ftl ftlContext, bbtFormat uint32, param uint32) [4]uint32 {
	val := (param-ftl.databuf)/(bbtFormat<<9) + ftl.startPage
	return shiftXORChain(val, ivXORConstant)
}

// ivVFL implements h2fmi_aes_handler_2: derive the four-word IV for a VFL
// region read from the absolute page number (segment).
func ivVFL(page uint32) [4]uint32 {
	return shiftXORChain(page, ivXORConstant)
}

// configureAES builds the AESDescriptor for one page read at absolute byte
// offset, or nil if encryption is disabled globally or by the caller's flag
// (§4.5: flag = clamp(1-userFlag,0,1) ∧ aesEnabled).
func (c *Controller) configureAES(offset uint32, page uint32, userDisable bool) *AESDescriptor {
	enabled := c.aesEnabled.Load()
	if userDisable {
		enabled = false
	}
	if !enabled {
		return nil
	}

	c.mu.Lock()
	ftl := c.ftl
	ftlOK := c.ftlOK
	c.mu.Unlock()

	bytesPerPage := c.geometry.BytesPerPage

	if ftlOK && offset >= ftl.databuf && offset < ftl.databuf+bytesPerPage*ftl.count {
		return &AESDescriptor{
			Key:       keyFTL,
			IV:        ivFTL(ftl, c.geometry.BBTFormat, offset),
			Direction: AESDecrypt,
			DataSize:  int(bytesPerPage),
		}
	}

	return &AESDescriptor{
		Key:       keyVFL,
		IV:        ivVFL(page),
		Direction: AESDecrypt,
		DataSize:  int(bytesPerPage),
	}
}
