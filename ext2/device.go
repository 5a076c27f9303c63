// Package ext2 implements the on-disk engine of a Second Extended Filesystem
// (ext2, revision 0 or 1): superblock and block-group descriptor parsing,
// bitmap-based inode/block allocation with locality heuristics, the
// direct/indirect block map, and directory-entry creation.
//
// The package speaks only to a backend.Device (sector-level block I/O); it
// has no notion of mounting, path resolution across filesystems, or a VFS
// layer. Everything above "here is an inode number, here is a byte range"
// is left to a caller such as a filesystem switch.
package ext2

import (
	"fmt"
	"sync"

	"github.com/ext2fs/go-ext2/backend"
)

// Device is a handle to one attached ext2 filesystem. Its geometry fields
// are derived from the superblock at probe time and never change for the
// lifetime of the handle, even if the on-disk superblock is later rewritten
// through this same handle: ext2 never resizes a live filesystem under this
// engine, so caching the geometry is safe and avoids re-deriving it on every
// operation.
type Device struct {
	// mu serializes every mutating (and, for simplicity and in keeping
	// with the single-threaded-cooperative model, every) top-level
	// operation against this device. No finer-grained locking exists.
	mu sync.Mutex

	dev backend.Device

	blockSize      uint32
	inodesCount    uint32
	blocksCount    uint32
	inodesPerGroup uint32
	blocksPerGroup uint32
	groupCount     uint32
	revLevel       uint32
	inodeSize      uint16
}

// Probe reads the superblock off dev via its non-suspending read path,
// verifies the ext2 magic number, and builds a Device handle from it. It
// returns ErrMagicMismatch if dev does not carry a recognized superblock;
// callers should treat that as "not an ext2 device, move on" rather than a
// fatal error, per §7.
func Probe(dev backend.Device) (*Device, error) {
	sectorsPerChunk := superblockSize / backend.SectorSize
	startSector := superblockOffset / backend.SectorSize
	raw := make([]byte, superblockSize)
	for i := 0; i < sectorsPerChunk; i++ {
		sec := raw[i*backend.SectorSize : (i+1)*backend.SectorSize]
		if err := backend.ReadSectorNoSleep(dev, int64(startSector+i), sec); err != nil {
			return nil, fmt.Errorf("%w: reading superblock: %v", ErrIO, err)
		}
	}

	sb, err := superblockFromBytes(raw)
	if err != nil {
		return nil, err
	}

	d := &Device{
		dev:            dev,
		blockSize:      sb.blockSize(),
		inodesCount:    sb.inodesCount,
		blocksCount:    sb.blocksCount,
		inodesPerGroup: sb.inodesPerGroup,
		blocksPerGroup: sb.blocksPerGroup,
		groupCount:     sb.groupCount(),
		revLevel:       sb.revLevel,
		inodeSize:      sb.inodeSize,
	}
	return d, nil
}

// BlockSize returns B, the logical block size in bytes.
func (d *Device) BlockSize() uint32 { return d.blockSize }

// GroupCount returns G, the number of block groups.
func (d *Device) GroupCount() uint32 { return d.groupCount }

// InodesCount returns the total number of inodes the filesystem was
// formatted with.
func (d *Device) InodesCount() uint32 { return d.inodesCount }

// BlocksCount returns the total number of blocks the filesystem was
// formatted with.
func (d *Device) BlocksCount() uint32 { return d.blocksCount }

// pointersPerBlock is k = B / 4, the number of 32-bit block pointers that
// fit in one indirect block.
func (d *Device) pointersPerBlock() uint64 {
	return uint64(d.blockSize) / 4
}
