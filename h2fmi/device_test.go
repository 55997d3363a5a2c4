package h2fmi

import "testing"

func testGeometry() Geometry {
	return Geometry{
		NumFMI:             2,
		NumCE:              4,
		BlocksPerCE:        0x1038,
		PagesPerBlock:      0x80,
		PagesPerBlock2:     0x100,
		BBTFormat:          4,
		BytesPerSpare:      0x1B4,
		BanksPerCE:         1,
		BanksPerCEVFL:      1,
		BlocksPerBank:      0x1038,
		PageNumberBitWidth: 0x80,
		ECCBits:            16,
		MetaPerLogicalPage: 0xC,
		NumECCBytes:        0xA,
		PagesPerCE:         0x1038 * 0x80,
		VendorType:         1,
	}
}

func TestDeviceGetInfoKnownKeys(t *testing.T) {
	c := &Controller{geometry: testGeometry()}
	d := NewDevice(c)

	cases := []struct {
		key  InfoKey
		want uint32
	}{
		{InfoReturnOne, 1},
		{InfoBanksPerCE, 1},
		{InfoBanksPerCEDW, 1},
		{InfoPagesPerBlock, 0x80},
		{InfoPagesPerBlockDW, 0x80},
		{InfoPagesPerBlock2, 0x100},
		{InfoBlocksPerCE, 0x1038},
		{InfoBytesPerPage, 4 << 9},
		{InfoBytesPerSpare, 0x1B4},
		{InfoVendorType, 1},
		{InfoECCBits, 16},
		{InfoECCBits2, 16},
		{InfoTotalBanksVFL, 4},
		{InfoBlocksPerBankDW, 0x1038},
		{InfoPageNumberBitWidth, 0x80},
		{InfoNumCEPerBus, 2},
		{InfoPPN, 0},
		{InfoBanksPerCEVFL, 1},
		{InfoNumECCBytes, 0xA},
		{InfoMetaPerLogicalPage, 0xC},
		{InfoPagesPerCE, 0x1038 * 0x80},
		{InfoNumCE, 4},
	}

	for _, c := range cases {
		got, err := d.GetInfo(c.key)
		if err != nil {
			t.Errorf("GetInfo(%d) returned error: %v", c.key, err)
			continue
		}
		if got != c.want {
			t.Errorf("GetInfo(%d) = %d, want %d", c.key, got, c.want)
		}
	}
}

func TestDeviceGetInfoUnknownKey(t *testing.T) {
	c := &Controller{geometry: testGeometry()}
	d := NewDevice(c)

	if _, err := d.GetInfo(InfoKey(9999)); err == nil {
		t.Fatal("GetInfo with an unknown key returned no error")
	}
}

func TestDeviceSetInfoBanksPerCEVFL(t *testing.T) {
	c := &Controller{geometry: testGeometry()}
	d := NewDevice(c)

	if err := d.SetInfo(SetInfoBanksPerCEVFL, 3); err != nil {
		t.Fatalf("SetInfo(BanksPerCEVFL): %v", err)
	}

	got, err := d.GetInfo(InfoBanksPerCEVFL)
	if err != nil {
		t.Fatalf("GetInfo(BanksPerCEVFL): %v", err)
	}
	if got != 3 {
		t.Errorf("GetInfo(BanksPerCEVFL) after SetInfo = %d, want 3", got)
	}
}

func TestDeviceSetInfoVendorTypeIgnored(t *testing.T) {
	c := &Controller{geometry: testGeometry()}
	d := NewDevice(c)

	if err := d.SetInfo(SetInfoVendorType, 99); err != nil {
		t.Fatalf("SetInfo(VendorType): %v", err)
	}

	got, _ := d.GetInfo(InfoVendorType)
	if got != 1 {
		t.Errorf("GetInfo(VendorType) after SetInfo(VendorType,99) = %d, want unchanged 1", got)
	}
}

func TestDeviceSetInfoUnknownKey(t *testing.T) {
	c := &Controller{geometry: testGeometry()}
	d := NewDevice(c)

	if err := d.SetInfo(SetInfoKey(9999), 0); err == nil {
		t.Fatal("SetInfo with an unknown key returned no error")
	}
}
