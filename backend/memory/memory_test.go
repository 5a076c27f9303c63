package memory

import (
	"bytes"
	"testing"

	"github.com/ext2fs/go-ext2/backend"
)

func TestNewRoundsDownToWholeSectors(t *testing.T) {
	d := New(backend.SectorSize*4 + 100)
	if got, want := d.SectorCount(), int64(4); got != want {
		t.Fatalf("SectorCount() = %d, want %d", got, want)
	}
}

func TestReadWriteSector(t *testing.T) {
	d := New(backend.SectorSize * 4)
	write := bytes.Repeat([]byte{0xAB}, backend.SectorSize)
	if err := d.WriteSector(2, write); err != nil {
		t.Fatalf("WriteSector: %v", err)
	}

	read := make([]byte, backend.SectorSize)
	if err := d.ReadSector(2, read); err != nil {
		t.Fatalf("ReadSector: %v", err)
	}
	if !bytes.Equal(read, write) {
		t.Fatalf("ReadSector returned %x, want %x", read, write)
	}

	// Neighboring sectors must remain untouched.
	other := make([]byte, backend.SectorSize)
	if err := d.ReadSector(1, other); err != nil {
		t.Fatalf("ReadSector(1): %v", err)
	}
	if !bytes.Equal(other, make([]byte, backend.SectorSize)) {
		t.Fatalf("ReadSector(1) = %x, want all zero", other)
	}
}

func TestReadWriteOutOfRange(t *testing.T) {
	d := New(backend.SectorSize * 2)
	buf := make([]byte, backend.SectorSize)
	if err := d.ReadSector(2, buf); err == nil {
		t.Fatal("ReadSector(2) on a 2-sector device: want error, got nil")
	}
	if err := d.WriteSector(-1, buf); err == nil {
		t.Fatal("WriteSector(-1): want error, got nil")
	}
}

func TestWriteSectorWrongSize(t *testing.T) {
	d := New(backend.SectorSize * 2)
	if err := d.WriteSector(0, make([]byte, backend.SectorSize-1)); err == nil {
		t.Fatal("WriteSector with undersized buffer: want error, got nil")
	}
}

func TestReadOnlyRejectsWrites(t *testing.T) {
	d := New(backend.SectorSize * 2)
	d.SetReadOnly(true)
	if err := d.WriteSector(0, make([]byte, backend.SectorSize)); err == nil {
		t.Fatal("WriteSector on a read-only device: want error, got nil")
	}
}

func TestBytesExposesBackingStore(t *testing.T) {
	d := New(backend.SectorSize)
	write := bytes.Repeat([]byte{0x11}, backend.SectorSize)
	if err := d.WriteSector(0, write); err != nil {
		t.Fatalf("WriteSector: %v", err)
	}
	if !bytes.Equal(d.Bytes(), write) {
		t.Fatalf("Bytes() = %x, want %x", d.Bytes(), write)
	}
}
