// Package file implements backend.Device on top of an os.File, so the ext2
// engine can run against a disk image or an actual block device passed as a
// path.
package file

import (
	"errors"
	"fmt"
	"os"

	"github.com/ext2fs/go-ext2/backend"
)

// Backend is a backend.Device backed by an *os.File.
type Backend struct {
	f        *os.File
	readOnly bool
	sectors  int64
}

var _ backend.Device = (*Backend)(nil)

// New wraps an already-open file as a backend.Device. size is the usable
// size in bytes, rounded down to a whole number of sectors.
func New(f *os.File, size int64, readOnly bool) *Backend {
	return &Backend{f: f, readOnly: readOnly, sectors: size / backend.SectorSize}
}

// OpenFromPath opens an existing file or block device at pathName.
func OpenFromPath(pathName string, readOnly bool) (*Backend, error) {
	if pathName == "" {
		return nil, errors.New("file: must pass a device or file name")
	}
	flag := os.O_RDONLY
	if !readOnly {
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(pathName, flag, 0o600)
	if err != nil {
		return nil, fmt.Errorf("file: could not open %s: %w", pathName, err)
	}
	size, err := sizeOf(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("file: could not determine size of %s: %w", pathName, err)
	}
	return New(f, size, readOnly), nil
}

// CreateFromPath creates a new regular file of the given size in bytes,
// suitable for formatting with ext2.Format. pathName must not already exist.
func CreateFromPath(pathName string, size int64) (*Backend, error) {
	if size <= 0 {
		return nil, errors.New("file: size must be positive")
	}
	f, err := os.OpenFile(pathName, os.O_RDWR|os.O_EXCL|os.O_CREATE, 0o666)
	if err != nil {
		return nil, fmt.Errorf("file: could not create %s: %w", pathName, err)
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, fmt.Errorf("file: could not size %s to %d bytes: %w", pathName, size, err)
	}
	return New(f, size, false), nil
}

// Close closes the underlying file.
func (b *Backend) Close() error {
	return b.f.Close()
}

// SectorCount reports the number of SectorSize-byte sectors available.
func (b *Backend) SectorCount() int64 {
	return b.sectors
}

// ReadSector implements backend.Device.
func (b *Backend) ReadSector(sector int64, buf []byte) error {
	if err := checkBuf(buf); err != nil {
		return err
	}
	if sector < 0 || sector >= b.sectors {
		return backend.ErrOutOfRange
	}
	_, err := b.f.ReadAt(buf, sector*backend.SectorSize)
	return err
}

// ReadSectorNoSleep implements backend.NoSleepReader. A plain file never
// suspends the caller on an interrupt, so it is identical to ReadSector; the
// method exists so file.Backend satisfies the same startup-probe contract a
// real block device would.
func (b *Backend) ReadSectorNoSleep(sector int64, buf []byte) error {
	return b.ReadSector(sector, buf)
}

// WriteSector implements backend.Device.
func (b *Backend) WriteSector(sector int64, buf []byte) error {
	if b.readOnly {
		return backend.ErrReadOnly
	}
	if err := checkBuf(buf); err != nil {
		return err
	}
	if sector < 0 || sector >= b.sectors {
		return backend.ErrOutOfRange
	}
	_, err := b.f.WriteAt(buf, sector*backend.SectorSize)
	return err
}

func checkBuf(buf []byte) error {
	if len(buf) != backend.SectorSize {
		return fmt.Errorf("file: buffer is %d bytes, want %d", len(buf), backend.SectorSize)
	}
	return nil
}
