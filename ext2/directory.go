package ext2

import (
	"encoding/binary"
	"fmt"
)

// dirEntryHeaderSize is the fixed portion of a directory entry: inode
// number, rec_len, name_len, and file_type, before the variable-length
// name.
const dirEntryHeaderSize = 8

// directoryEntry mirrors one packed entry in a directory's data blocks
// (§3, §4.7). recordLength is the entry's on-disk span, which may be larger
// than its header+name requires — the slack at the tail of a record is
// reusable space for a later insertion.
type directoryEntry struct {
	inode        uint32
	recordLength uint16
	nameLength   uint8
	fileType     byte
	name         string
}

func directoryEntryFromBytes(b []byte) directoryEntry {
	var e directoryEntry
	e.inode = binary.LittleEndian.Uint32(b[0x00:0x04])
	e.recordLength = binary.LittleEndian.Uint16(b[0x04:0x06])
	e.nameLength = b[0x06]
	e.fileType = b[0x07]
	e.name = string(b[dirEntryHeaderSize : dirEntryHeaderSize+int(e.nameLength)])
	return e
}

func (e directoryEntry) toBytes() []byte {
	b := make([]byte, e.recordLength)
	binary.LittleEndian.PutUint32(b[0x00:0x04], e.inode)
	binary.LittleEndian.PutUint16(b[0x04:0x06], e.recordLength)
	b[0x06] = e.nameLength
	b[0x07] = e.fileType
	copy(b[dirEntryHeaderSize:], e.name)
	return b
}

// usedSpan is the number of bytes this entry actually needs:
// header+name, rounded up to a 4-byte boundary (§4.7).
func (e directoryEntry) usedSpan() uint16 {
	return ceil4(dirEntryHeaderSize + uint16(e.nameLength))
}

func ceil4(n uint16) uint16 {
	return (n + 3) &^ 3
}

// CreateEntry links name to childInode inside directory dirInode, scanning
// the directory's data blocks for room and splitting or extending a record
// as needed (§4.7):
//
//  1. Scan each existing entry, in order, across every allocated block.
//  2. If a live entry's record has slack beyond its own usedSpan big enough
//     to hold a new entry's usedSpan, split the slack off into a new
//     record (FOUND_SPLIT).
//  3. If a deleted entry (inode == 0) has a record big enough on its own,
//     reuse it whole (FOUND_REUSE).
//  4. If scanning exhausts every block without finding room, append a new
//     block and place the entry as that block's sole record spanning the
//     whole block (FOUND_APPEND).
//
// dirInode must be a directory; CreateEntry returns ErrNotDirectory
// otherwise, and ErrNameTooLong if name is empty or exceeds 255 bytes.
func (d *Device) CreateEntry(dirInode uint32, name string, childInode uint32, ft FileType) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(name) == 0 || len(name) > 255 {
		return ErrNameTooLong
	}

	dir, err := d.readInode(dirInode)
	if err != nil {
		return err
	}
	if !dir.isDirectory() {
		return ErrNotDirectory
	}

	needed := directoryEntry{nameLength: uint8(len(name))}.usedSpan()
	b := int64(d.blockSize)
	newEntry := directoryEntry{inode: childInode, nameLength: uint8(len(name)), fileType: dirEntryTypeByte(fileType(ft)), name: name}

	numBlocks := (int64(dir.size) + b - 1) / b
	for logical := int64(0); logical < numBlocks; logical++ {
		phys, err := d.resolveBlock(dir, uint64(logical), false, false)
		if err != nil {
			return err
		}
		if phys == 0 {
			continue
		}
		buf := make([]byte, b)
		if err := d.blockRead(uint64(phys), buf); err != nil {
			return err
		}

		pos := 0
		for pos < int(b) {
			e := directoryEntryFromBytes(buf[pos:])
			if e.recordLength == 0 {
				break
			}
			if e.inode == 0 && e.recordLength >= needed {
				// FOUND_REUSE: the deleted record's whole span becomes the
				// new entry's record.
				newEntry.recordLength = e.recordLength
				copy(buf[pos:], newEntry.toBytes())
				return d.finishCreate(dir, uint64(phys), buf)
			}
			slack := e.recordLength - e.usedSpan()
			if e.inode != 0 && slack >= needed {
				// FOUND_SPLIT: shrink e to its own usedSpan and carve the
				// freed tail into the new record.
				tailOffset := pos + int(e.usedSpan())
				tailLength := e.recordLength - e.usedSpan()
				e.recordLength = e.usedSpan()
				copy(buf[pos:], e.toBytes())
				newEntry.recordLength = tailLength
				copy(buf[tailOffset:], newEntry.toBytes())
				return d.finishCreate(dir, uint64(phys), buf)
			}
			pos += int(e.recordLength)
		}
	}

	// FOUND_APPEND: no existing record had room; grow the directory by one
	// block and place the new entry as its only record.
	newLogical := numBlocks
	phys, err := d.resolveBlock(dir, uint64(newLogical), true, false)
	if err != nil {
		return err
	}
	buf := make([]byte, b)
	newEntry.recordLength = uint16(b)
	copy(buf, newEntry.toBytes())
	dir.size = uint32((newLogical + 1) * b)
	return d.finishCreate(dir, uint64(phys), buf)
}

func (d *Device) finishCreate(dir *inode, phys uint64, buf []byte) error {
	if err := d.blockWrite(phys, buf); err != nil {
		return err
	}
	return d.writeInode(dir)
}

// InitDirectory writes the "." and ".." entries a freshly allocated
// directory inode needs as the sole contents of its first data block, and
// sets the directory's link count and size to match (§4.7).
func (d *Device) InitDirectory(dirInode, parentInode uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	dir, err := d.readInode(dirInode)
	if err != nil {
		return err
	}
	if !dir.isDirectory() {
		return ErrNotDirectory
	}

	phys, err := d.resolveBlock(dir, 0, true, false)
	if err != nil {
		return err
	}

	b := int(d.blockSize)
	buf := make([]byte, b)

	dot := directoryEntry{inode: dirInode, nameLength: 1, fileType: dirEntryTypeByte(fileTypeDirectory), name: "."}
	dot.recordLength = dot.usedSpan()
	dotdot := directoryEntry{inode: parentInode, nameLength: 2, fileType: dirEntryTypeByte(fileTypeDirectory), name: ".."}
	dotdot.recordLength = uint16(b) - dot.recordLength

	copy(buf, dot.toBytes())
	copy(buf[dot.recordLength:], dotdot.toBytes())

	if err := d.blockWrite(uint64(phys), buf); err != nil {
		return err
	}
	dir.size = uint32(b)
	dir.linksCount = 2
	return d.writeInode(dir)
}

// WriteSymlinkTarget records a symlink's target, storing it inline in the
// inode's i_block array when it fits within 60 bytes and otherwise writing
// it as ordinary file data from offset 0 through FileWrite, which allocates
// as many data blocks as the target needs (§4.7).
func (d *Device) WriteSymlinkTarget(inodeNumber uint32, target string) error {
	if len(target) <= 60 {
		d.mu.Lock()
		defer d.mu.Unlock()

		i, err := d.readInode(inodeNumber)
		if err != nil {
			return err
		}
		if i.fileType() != fileTypeSymbolicLink {
			return fmt.Errorf("ext2: inode %d is not a symbolic link", inodeNumber)
		}
		var raw [60]byte
		copy(raw[:], target)
		for n := 0; n < numBlockPointers; n++ {
			off := n * 4
			i.block[n] = binary.LittleEndian.Uint32(raw[off : off+4])
		}
		i.size = uint32(len(target))
		return d.writeInode(i)
	}

	d.mu.Lock()
	i, err := d.readInode(inodeNumber)
	d.mu.Unlock()
	if err != nil {
		return err
	}
	if i.fileType() != fileTypeSymbolicLink {
		return fmt.Errorf("ext2: inode %d is not a symbolic link", inodeNumber)
	}
	_, err = d.FileWrite(inodeNumber, 0, []byte(target))
	return err
}
