package ext2

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

const (
	// superblockOffset is the fixed absolute byte offset of the primary
	// superblock, regardless of block size.
	superblockOffset = 1024
	// superblockSize is the on-disk size reserved for a superblock; ext2
	// pads the structure out to a full 1024 bytes even though revision 0
	// only defines the first 84 bytes of it.
	superblockSize = 1024

	magicExt2 = 0xEF53

	revGoodOld = 0
	revDynamic = 1

	defaultGoodOldInodeSize = 128
)

// superblock mirrors the fields of the ext2 superblock the engine actually
// consumes (§3 of the design). Every other byte of the 1024-byte structure
// is preserved verbatim in raw and round-tripped untouched: the engine never
// interprets feature flags, mount counts, or any field beyond the ones
// needed to compute geometry and free-space accounting.
type superblock struct {
	inodesCount      uint32
	blocksCount      uint32
	freeBlocksCount  uint32
	freeInodesCount  uint32
	logBlockSize     uint32
	blocksPerGroup   uint32
	inodesPerGroup   uint32
	magic            uint16
	revLevel         uint32
	inodeSize        uint16
	volumeUUID       uuid.UUID

	// raw holds the untouched 1024-byte on-disk image. toBytes() patches
	// only the fields above into a copy of raw; every unmodeled field
	// (mount counts, feature flags, timestamps, reserved GDT blocks, ...)
	// survives a read-modify-write cycle unchanged.
	raw [superblockSize]byte
}

func superblockFromBytes(b []byte) (*superblock, error) {
	if len(b) < superblockSize {
		return nil, fmt.Errorf("ext2: superblock data is %d bytes, want %d", len(b), superblockSize)
	}
	sb := &superblock{}
	copy(sb.raw[:], b[:superblockSize])

	sb.inodesCount = le32(b, 0x00)
	sb.blocksCount = le32(b, 0x04)
	sb.freeBlocksCount = le32(b, 0x0C)
	sb.freeInodesCount = le32(b, 0x10)
	sb.logBlockSize = le32(b, 0x18)
	sb.blocksPerGroup = le32(b, 0x20)
	sb.inodesPerGroup = le32(b, 0x28)
	sb.magic = le16(b, 0x38)
	sb.revLevel = le32(b, 0x4C)

	if sb.magic != magicExt2 {
		return nil, ErrMagicMismatch
	}

	if sb.revLevel == revGoodOld {
		sb.inodeSize = defaultGoodOldInodeSize
	} else {
		sb.inodeSize = le16(b, 0x58)
	}
	copy(sb.volumeUUID[:], b[0x68:0x78])

	return sb, nil
}

// toBytes renders the superblock back to its 1024-byte on-disk form,
// patching the fields the engine owns into a copy of the last raw image it
// either read or wrote, so unmodeled fields survive unchanged.
func (sb *superblock) toBytes() []byte {
	b := make([]byte, superblockSize)
	copy(b, sb.raw[:])

	putLE32(b, 0x00, sb.inodesCount)
	putLE32(b, 0x04, sb.blocksCount)
	putLE32(b, 0x0C, sb.freeBlocksCount)
	putLE32(b, 0x10, sb.freeInodesCount)
	putLE32(b, 0x18, sb.logBlockSize)
	putLE32(b, 0x20, sb.blocksPerGroup)
	putLE32(b, 0x28, sb.inodesPerGroup)
	putLE16(b, 0x38, sb.magic)
	putLE32(b, 0x4C, sb.revLevel)
	if sb.revLevel != revGoodOld {
		putLE16(b, 0x58, sb.inodeSize)
	}
	copy(b[0x68:0x78], sb.volumeUUID[:])

	copy(sb.raw[:], b)
	return b
}

// blockSize is B = 1024 << s_log_block_size.
func (sb *superblock) blockSize() uint32 {
	return 1024 << sb.logBlockSize
}

// groupCount is G = ceil(inodesCount / inodesPerGroup).
func (sb *superblock) groupCount() uint32 {
	if sb.inodesPerGroup == 0 {
		return 0
	}
	return (sb.inodesCount + sb.inodesPerGroup - 1) / sb.inodesPerGroup
}

func le16(b []byte, off int) uint16 { return binary.LittleEndian.Uint16(b[off : off+2]) }
func le32(b []byte, off int) uint32 { return binary.LittleEndian.Uint32(b[off : off+4]) }

func putLE16(b []byte, off int, v uint16) { binary.LittleEndian.PutUint16(b[off:off+2], v) }
func putLE32(b []byte, off int, v uint32) { binary.LittleEndian.PutUint32(b[off:off+4], v) }
