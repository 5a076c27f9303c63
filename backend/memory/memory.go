// Package memory provides an in-memory backend.Device, the synthetic block
// device the ext2 engine's test suite exercises its invariants against.
package memory

import (
	"github.com/ext2fs/go-ext2/backend"
)

// Device is a backend.Device backed entirely by a byte slice. It never
// suspends the caller, so it is useful both as a test fixture and as a
// starting point for understanding the Device contract.
type Device struct {
	data     []byte
	readOnly bool
}

var _ backend.Device = (*Device)(nil)

// New creates a zero-filled in-memory device of the given size in bytes.
// size is rounded down to a whole number of sectors.
func New(size int64) *Device {
	sectors := size / backend.SectorSize
	return &Device{data: make([]byte, sectors*backend.SectorSize)}
}

// SetReadOnly toggles whether WriteSector rejects writes.
func (d *Device) SetReadOnly(ro bool) {
	d.readOnly = ro
}

// SectorCount implements backend.Device.
func (d *Device) SectorCount() int64 {
	return int64(len(d.data)) / backend.SectorSize
}

// ReadSector implements backend.Device.
func (d *Device) ReadSector(sector int64, buf []byte) error {
	off, err := d.offset(sector, buf)
	if err != nil {
		return err
	}
	copy(buf, d.data[off:off+backend.SectorSize])
	return nil
}

// WriteSector implements backend.Device.
func (d *Device) WriteSector(sector int64, buf []byte) error {
	if d.readOnly {
		return backend.ErrReadOnly
	}
	off, err := d.offset(sector, buf)
	if err != nil {
		return err
	}
	copy(d.data[off:off+backend.SectorSize], buf)
	return nil
}

func (d *Device) offset(sector int64, buf []byte) (int64, error) {
	if len(buf) != backend.SectorSize {
		return 0, backend.ErrOutOfRange
	}
	off := sector * backend.SectorSize
	if sector < 0 || off+backend.SectorSize > int64(len(d.data)) {
		return 0, backend.ErrOutOfRange
	}
	return off, nil
}

// Bytes returns the raw backing storage, for tests that want to assert on
// exact on-disk layout.
func (d *Device) Bytes() []byte {
	return d.data
}
