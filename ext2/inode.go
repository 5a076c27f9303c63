package ext2

import "encoding/binary"

// fileType is the POSIX file-type nibble packed into the top 4 bits of
// i_mode, per §3.
type fileType uint16

const (
	fileTypeFIFO            fileType = 0x1000
	fileTypeCharacterDevice fileType = 0x2000
	fileTypeDirectory       fileType = 0x4000
	fileTypeBlockDevice     fileType = 0x6000
	fileTypeRegularFile     fileType = 0x8000
	fileTypeSymbolicLink    fileType = 0xA000
	fileTypeSocket          fileType = 0xC000

	fileTypeMask = 0xF000

	// directEntries is the number of direct block pointers in i_block.
	directEntries = 12
	// singlyIndirectIndex, doublyIndirectIndex, triplyIndirectIndex are the
	// i_block slots holding the indirection pointers, per §3/§4.5.
	singlyIndirectIndex = 12
	doublyIndirectIndex = 13
	triplyIndirectIndex = 14
	numBlockPointers    = 15
)

// dirEntryTypeByte maps a fileType to the one-byte type tag ext2 directory
// entries carry when filetype hinting is enabled (feature_incompat
// FILETYPE), per the glossary. Unknown types map to 0.
func dirEntryTypeByte(ft fileType) byte {
	switch ft {
	case fileTypeRegularFile:
		return 1
	case fileTypeDirectory:
		return 2
	case fileTypeCharacterDevice:
		return 3
	case fileTypeBlockDevice:
		return 4
	case fileTypeFIFO:
		return 5
	case fileTypeSocket:
		return 6
	case fileTypeSymbolicLink:
		return 7
	default:
		return 0
	}
}

// inode mirrors the on-disk ext2 inode (128 bytes for revision 0; larger
// revisions pad with an i_extra_isize-sized tail that this engine does not
// interpret and preserves verbatim in extra).
type inode struct {
	number uint32

	mode       uint16
	uid        uint16
	size       uint32
	accessTime uint32
	changeTime uint32
	modifyTime uint32
	deleteTime uint32
	gid        uint16
	linksCount uint16
	blocks     uint32 // 512-byte sector count, not block count
	flags      uint32
	osd1       uint32
	block      [numBlockPointers]uint32
	generation uint32
	fileACL    uint32
	dirACL     uint32
	faddr      uint32
	osd2       [12]byte

	// extra preserves any bytes of a larger-than-128-byte inode slot that
	// this engine does not model.
	extra []byte
}

func inodeFromBytes(b []byte, number uint32) *inode {
	i := &inode{number: number}
	i.mode = binary.LittleEndian.Uint16(b[0x00:0x02])
	i.uid = binary.LittleEndian.Uint16(b[0x02:0x04])
	i.size = binary.LittleEndian.Uint32(b[0x04:0x08])
	i.accessTime = binary.LittleEndian.Uint32(b[0x08:0x0C])
	i.changeTime = binary.LittleEndian.Uint32(b[0x0C:0x10])
	i.modifyTime = binary.LittleEndian.Uint32(b[0x10:0x14])
	i.deleteTime = binary.LittleEndian.Uint32(b[0x14:0x18])
	i.gid = binary.LittleEndian.Uint16(b[0x18:0x1A])
	i.linksCount = binary.LittleEndian.Uint16(b[0x1A:0x1C])
	i.blocks = binary.LittleEndian.Uint32(b[0x1C:0x20])
	i.flags = binary.LittleEndian.Uint32(b[0x20:0x24])
	i.osd1 = binary.LittleEndian.Uint32(b[0x24:0x28])
	for n := 0; n < numBlockPointers; n++ {
		off := 0x28 + n*4
		i.block[n] = binary.LittleEndian.Uint32(b[off : off+4])
	}
	i.generation = binary.LittleEndian.Uint32(b[0x64:0x68])
	i.fileACL = binary.LittleEndian.Uint32(b[0x68:0x6C])
	i.dirACL = binary.LittleEndian.Uint32(b[0x6C:0x70])
	i.faddr = binary.LittleEndian.Uint32(b[0x70:0x74])
	copy(i.osd2[:], b[0x74:0x80])
	if len(b) > 0x80 {
		i.extra = append([]byte(nil), b[0x80:]...)
	}
	return i
}

func (i *inode) toBytes(inodeSize uint16) []byte {
	b := make([]byte, inodeSize)
	binary.LittleEndian.PutUint16(b[0x00:0x02], i.mode)
	binary.LittleEndian.PutUint16(b[0x02:0x04], i.uid)
	binary.LittleEndian.PutUint32(b[0x04:0x08], i.size)
	binary.LittleEndian.PutUint32(b[0x08:0x0C], i.accessTime)
	binary.LittleEndian.PutUint32(b[0x0C:0x10], i.changeTime)
	binary.LittleEndian.PutUint32(b[0x10:0x14], i.modifyTime)
	binary.LittleEndian.PutUint32(b[0x14:0x18], i.deleteTime)
	binary.LittleEndian.PutUint16(b[0x18:0x1A], i.gid)
	binary.LittleEndian.PutUint16(b[0x1A:0x1C], i.linksCount)
	binary.LittleEndian.PutUint32(b[0x1C:0x20], i.blocks)
	binary.LittleEndian.PutUint32(b[0x20:0x24], i.flags)
	binary.LittleEndian.PutUint32(b[0x24:0x28], i.osd1)
	for n := 0; n < numBlockPointers; n++ {
		off := 0x28 + n*4
		binary.LittleEndian.PutUint32(b[off:off+4], i.block[n])
	}
	binary.LittleEndian.PutUint32(b[0x64:0x68], i.generation)
	binary.LittleEndian.PutUint32(b[0x68:0x6C], i.fileACL)
	binary.LittleEndian.PutUint32(b[0x6C:0x70], i.dirACL)
	binary.LittleEndian.PutUint32(b[0x70:0x74], i.faddr)
	copy(b[0x74:0x80], i.osd2[:])
	if len(i.extra) > 0 && len(b) > 0x80 {
		copy(b[0x80:], i.extra)
	}
	return b
}

func (i *inode) fileType() fileType {
	return fileType(i.mode & fileTypeMask)
}

func (i *inode) isDirectory() bool {
	return i.fileType() == fileTypeDirectory
}

// symlinkInline reports whether a symbolic link's target is short enough
// (<=60 bytes) to live inline in i_block rather than in a data block, per
// §4.7.
func (i *inode) symlinkInline() bool {
	return i.fileType() == fileTypeSymbolicLink && i.size <= 60 && i.blocks == 0
}
