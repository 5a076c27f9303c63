package ext2

import (
	"fmt"
	"io"
)

// FileRead reads up to len(buf) bytes of inode n's data starting at
// byteOffset, stopping at the inode's current size. A logical block with no
// allocated physical block (a hole) reads as zeros rather than an error,
// unless failonzero is set: then a zero indirect pointer one level or more
// above the data block (the index structure itself is missing, not just the
// leaf) is reported as ErrIO instead, for callers that want strict
// past-EOF-of-index semantics such as directory scanning (§4.5, §4.6).
func (d *Device) FileRead(n uint32, byteOffset int64, buf []byte, failonzero bool) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	i, err := d.readInode(n)
	if err != nil {
		return 0, err
	}
	fileSize := int64(i.size)
	if byteOffset >= fileSize {
		return 0, io.EOF
	}

	requested := int64(len(buf))
	toRead := requested
	if byteOffset+toRead > fileSize {
		toRead = fileSize - byteOffset
	}
	buf = buf[:toRead]

	b := int64(d.blockSize)
	firstBlock := byteOffset / b
	lastBlock := (byteOffset + toRead) / b

	read := int64(0)
	blockBuf := make([]byte, b)
	for blk := firstBlock; blk <= lastBlock; blk++ {
		start, end := blockSpan(blk, firstBlock, b, byteOffset, toRead)
		if end <= start {
			continue
		}
		phys, err := d.resolveBlock(i, uint64(blk), false, failonzero)
		if err != nil {
			return int(read), err
		}
		if phys == 0 {
			for j := start; j < end; j++ {
				blockBuf[j] = 0
			}
		} else if err := d.blockRead(uint64(phys), blockBuf); err != nil {
			return int(read), err
		}
		n := copy(buf[read:], blockBuf[start:end])
		read += int64(n)
	}

	var retErr error
	if read < requested {
		retErr = io.EOF
	}
	return int(read), retErr
}

// FileWrite writes len(buf) bytes of inode n's data starting at byteOffset,
// allocating and zero-filling any hole the write spans or crosses, and
// growing i_size to max(old size, byteOffset+len(buf)) once the write
// completes (§4.6, §9 open question on end-of-write size semantics).
func (d *Device) FileWrite(n uint32, byteOffset int64, buf []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	i, err := d.readInode(n)
	if err != nil {
		return 0, err
	}

	length := int64(len(buf))
	if length == 0 {
		return 0, nil
	}
	b := int64(d.blockSize)
	firstBlock := byteOffset / b
	lastBlock := (byteOffset + length) / b

	written := int64(0)
	for blk := firstBlock; blk <= lastBlock; blk++ {
		start, end := blockSpan(blk, firstBlock, b, byteOffset, length)
		if end <= start {
			continue
		}
		phys, err := d.resolveBlock(i, uint64(blk), true, false)
		if err != nil {
			return int(written), err
		}
		if start == 0 && end == b {
			if err := d.blockWrite(uint64(phys), buf[written:written+b]); err != nil {
				return int(written), err
			}
			written += b
			continue
		}
		blockBuf := make([]byte, b)
		if err := d.blockRead(uint64(phys), blockBuf); err != nil {
			return int(written), err
		}
		n := copy(blockBuf[start:end], buf[written:])
		written += int64(n)
		if err := d.blockWrite(uint64(phys), blockBuf); err != nil {
			return int(written), err
		}
	}

	if newSize := uint32(byteOffset + written); newSize > i.size {
		i.size = newSize
	}
	if err := d.writeInode(i); err != nil {
		return int(written), err
	}
	return int(written), nil
}

// File is a cursor over one inode's data, in the style of an os.File: Read,
// Write, and Seek all operate relative to an internally tracked offset.
type File struct {
	dev    *Device
	number uint32
	offset int64
}

// OpenFile returns a File cursor over inode n. It does not itself validate
// that n names a regular file; callers that care should check the inode's
// file type first.
func (d *Device) OpenFile(n uint32) *File {
	return &File{dev: d, number: n}
}

func (fl *File) Read(b []byte) (int, error) {
	n, err := fl.dev.FileRead(fl.number, fl.offset, b, false)
	fl.offset += int64(n)
	return n, err
}

func (fl *File) Write(b []byte) (int, error) {
	n, err := fl.dev.FileWrite(fl.number, fl.offset, b)
	fl.offset += int64(n)
	if err == nil && n != len(b) {
		return n, fmt.Errorf("ext2: short write (%d of %d bytes)", n, len(b))
	}
	return n, err
}

func (fl *File) Seek(offset int64, whence int) (int64, error) {
	newOffset := int64(0)
	switch whence {
	case io.SeekStart:
		newOffset = offset
	case io.SeekCurrent:
		newOffset = fl.offset + offset
	case io.SeekEnd:
		fl.dev.mu.Lock()
		i, err := fl.dev.readInode(fl.number)
		fl.dev.mu.Unlock()
		if err != nil {
			return fl.offset, err
		}
		newOffset = int64(i.size) + offset
	}
	if newOffset < 0 {
		return fl.offset, fmt.Errorf("ext2: cannot seek to negative offset %d", newOffset)
	}
	fl.offset = newOffset
	return fl.offset, nil
}

func (fl *File) Close() error {
	*fl = File{}
	return nil
}
