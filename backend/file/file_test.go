package file

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/ext2fs/go-ext2/backend"
)

func TestCreateFromPathThenReadWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.img")
	b, err := CreateFromPath(path, backend.SectorSize*8)
	if err != nil {
		t.Fatalf("CreateFromPath: %v", err)
	}
	defer b.Close()

	if got, want := b.SectorCount(), int64(8); got != want {
		t.Fatalf("SectorCount() = %d, want %d", got, want)
	}

	write := bytes.Repeat([]byte{0x5A}, backend.SectorSize)
	if err := b.WriteSector(3, write); err != nil {
		t.Fatalf("WriteSector: %v", err)
	}
	read := make([]byte, backend.SectorSize)
	if err := b.ReadSector(3, read); err != nil {
		t.Fatalf("ReadSector: %v", err)
	}
	if !bytes.Equal(read, write) {
		t.Fatalf("ReadSector = %x, want %x", read, write)
	}
}

func TestCreateFromPathRejectsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.img")
	if _, err := CreateFromPath(path, backend.SectorSize); err != nil {
		t.Fatalf("CreateFromPath: %v", err)
	}
	if _, err := CreateFromPath(path, backend.SectorSize); err == nil {
		t.Fatal("CreateFromPath on an existing path: want error, got nil")
	}
}

func TestOpenFromPathReadOnlyRejectsWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.img")
	b, err := CreateFromPath(path, backend.SectorSize*2)
	if err != nil {
		t.Fatalf("CreateFromPath: %v", err)
	}
	b.Close()

	ro, err := OpenFromPath(path, true)
	if err != nil {
		t.Fatalf("OpenFromPath: %v", err)
	}
	defer ro.Close()

	if err := ro.WriteSector(0, make([]byte, backend.SectorSize)); err == nil {
		t.Fatal("WriteSector on a read-only backend: want error, got nil")
	}
}

func TestOpenFromPathMissingFile(t *testing.T) {
	if _, err := OpenFromPath(filepath.Join(t.TempDir(), "missing.img"), true); err == nil {
		t.Fatal("OpenFromPath on a missing file: want error, got nil")
	}
}

func TestReadSectorWrongSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.img")
	b, err := CreateFromPath(path, backend.SectorSize*2)
	if err != nil {
		t.Fatalf("CreateFromPath: %v", err)
	}
	defer b.Close()

	if err := b.ReadSector(0, make([]byte, backend.SectorSize-1)); err == nil {
		t.Fatal("ReadSector with an undersized buffer: want error, got nil")
	}
}
