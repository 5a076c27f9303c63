package ext2

// groupDescriptorSize is the fixed 32-byte on-disk size of a block-group
// descriptor.
const groupDescriptorSize = 32

// groupDescriptor mirrors a single 32-byte entry of the block-group
// descriptor table.
type groupDescriptor struct {
	blockBitmap     uint32
	inodeBitmap     uint32
	inodeTable      uint32
	freeBlocksCount uint16
	freeInodesCount uint16
	usedDirsCount   uint16
	// reserved preserves the 14 trailing bytes (2 padding + 12 reserved)
	// verbatim, since the engine never interprets them.
	reserved [14]byte
}

func groupDescriptorFromBytes(b []byte) groupDescriptor {
	var gd groupDescriptor
	gd.blockBitmap = le32(b, 0x00)
	gd.inodeBitmap = le32(b, 0x04)
	gd.inodeTable = le32(b, 0x08)
	gd.freeBlocksCount = le16(b, 0x0C)
	gd.freeInodesCount = le16(b, 0x0E)
	gd.usedDirsCount = le16(b, 0x10)
	copy(gd.reserved[:], b[0x12:0x20])
	return gd
}

func (gd groupDescriptor) toBytes() []byte {
	b := make([]byte, groupDescriptorSize)
	putLE32(b, 0x00, gd.blockBitmap)
	putLE32(b, 0x04, gd.inodeBitmap)
	putLE32(b, 0x08, gd.inodeTable)
	putLE16(b, 0x0C, gd.freeBlocksCount)
	putLE16(b, 0x0E, gd.freeInodesCount)
	putLE16(b, 0x10, gd.usedDirsCount)
	copy(b[0x12:0x20], gd.reserved[:])
	return b
}
