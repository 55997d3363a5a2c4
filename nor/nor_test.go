package nor

import (
	"bytes"
	"testing"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/spi"
)

// fakeConn simulates a small SPI NOR part backed by an in-memory byte slice.
// It implements spi.Conn directly rather than embedding a periph test fake,
// since this package only ever calls Tx.
type fakeConn struct {
	mem      [1024 * 1024]byte
	wip      bool
	calls    int
	lastCmds [][]byte
}

func (f *fakeConn) String() string { return "fakeConn" }

func (f *fakeConn) Duplex() conn.Duplex { return conn.Full }

func (f *fakeConn) TxPackets(p []spi.Packet) error {
	for _, pk := range p {
		if err := f.Tx(pk.W, pk.R); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeConn) Tx(w, r []byte) error {
	f.calls++
	f.lastCmds = append(f.lastCmds, append([]byte(nil), w...))

	switch w[0] {
	case opReadStatus:
		if len(r) >= 2 {
			r[1] = 0
			if f.wip {
				r[1] = statusWIP
			}
		}
	case opWriteEnable:
		// no-op
	case opRead:
		addr := uint32(w[1])<<16 | uint32(w[2])<<8 | uint32(w[3])
		copy(r[4:], f.mem[addr:])
	case opPageProgram:
		addr := uint32(w[1])<<16 | uint32(w[2])<<8 | uint32(w[3])
		copy(f.mem[addr:], w[4:])
	case opSectorErase:
		addr := uint32(w[1])<<16 | uint32(w[2])<<8 | uint32(w[3])
		for i := uint32(0); i < sectorSize; i++ {
			f.mem[addr+i] = 0xFF
		}
	}

	return nil
}

func TestReadReturnsStoredBytes(t *testing.T) {
	conn := &fakeConn{}
	copy(conn.mem[0x100:], []byte{1, 2, 3, 4})

	dev := New(conn)

	got := make([]byte, 4)
	if err := dev.Read(0x100, got); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(got, []byte{1, 2, 3, 4}) {
		t.Errorf("Read = %v, want [1 2 3 4]", got)
	}
}

func TestWriteProgramsAcrossPageBoundary(t *testing.T) {
	conn := &fakeConn{}
	dev := New(conn)

	data := make([]byte, pageSize+10)
	for i := range data {
		data[i] = byte(i)
	}

	if err := dev.Write(pageSize-5, data); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got := make([]byte, len(data))
	if err := dev.Read(pageSize-5, got); err != nil {
		t.Fatalf("Read back: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("data written across a page boundary does not read back intact")
	}
}

func TestEraseFillsSectorWithFF(t *testing.T) {
	conn := &fakeConn{}
	dev := New(conn)

	copy(conn.mem[0:], []byte{0, 0, 0, 0})

	if err := dev.Erase(10); err != nil {
		t.Fatalf("Erase: %v", err)
	}

	for i := 0; i < sectorSize; i++ {
		if conn.mem[i] != 0xFF {
			t.Fatalf("byte %d = %#x after erase, want 0xFF", i, conn.mem[i])
		}
	}
}

func TestWriteEnableCalledBeforeProgram(t *testing.T) {
	conn := &fakeConn{}
	dev := New(conn)

	if err := dev.Write(0, []byte{0xAB}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if len(conn.lastCmds) < 2 {
		t.Fatalf("expected at least 2 SPI transactions, got %d", len(conn.lastCmds))
	}
	if conn.lastCmds[0][0] != opWriteEnable {
		t.Errorf("first command opcode = %#x, want opWriteEnable", conn.lastCmds[0][0])
	}
}
