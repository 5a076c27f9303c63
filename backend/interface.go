// Package backend defines the sector-level block device contract that the ext2
// engine is built on. An ext2 device handle never touches a file descriptor or
// an os.File directly: it only ever reads and writes fixed 512-byte sectors
// through a Device, so the same engine runs unmodified against a disk image,
// a raw block device, or an in-memory fixture used by tests.
package backend

import "errors"

// SectorSize is the fixed logical sector size every Device implementation
// must honor. ext2 block sizes are always a multiple of SectorSize.
const SectorSize = 512

var (
	// ErrReadOnly is returned by WriteSector when the backing device was
	// opened read-only.
	ErrReadOnly = errors.New("backend: device is read-only")
	// ErrOutOfRange is returned when a sector index falls outside the device.
	ErrOutOfRange = errors.New("backend: sector index out of range")
)

// Device is the collaborator the ext2 engine requires from whatever transport
// sits underneath it (file, loopback device, virtio-blk, ...). Sectors are
// always exactly SectorSize bytes; callers never issue partial-sector I/O.
type Device interface {
	// ReadSector reads exactly SectorSize bytes starting at the given sector
	// index into buf. len(buf) must equal SectorSize.
	ReadSector(sector int64, buf []byte) error
	// WriteSector writes exactly SectorSize bytes from buf to the given
	// sector index. len(buf) must equal SectorSize.
	WriteSector(sector int64, buf []byte) error
	// SectorCount reports the total number of addressable sectors.
	SectorCount() int64
}

// NoSleepReader is implemented by devices that can distinguish a
// non-suspending read path, used only during startup probing before the
// caller's scheduler (or, for a hosted process, its goroutines) is prepared
// to block on device interrupts. Devices that have no such distinction, such
// as a plain file, may simply route ReadSectorNoSleep to ReadSector.
type NoSleepReader interface {
	ReadSectorNoSleep(sector int64, buf []byte) error
}

// ReadSectorNoSleep reads a sector via dev's non-suspending path if it
// implements NoSleepReader, falling back to the ordinary (possibly
// suspending) ReadSector otherwise.
func ReadSectorNoSleep(dev Device, sector int64, buf []byte) error {
	if ns, ok := dev.(NoSleepReader); ok {
		return ns.ReadSectorNoSleep(sector, buf)
	}
	return dev.ReadSector(sector, buf)
}
