package ext2

// nbytesRead transfers len(buf) bytes starting at byteOffset into buf,
// crossing as many blocks as needed. The first block contributes only the
// bytes from byteOffset%B onward; the last block contributes only the
// residual bytes; every block in between contributes its full width.
func (d *Device) nbytesRead(buf []byte, byteOffset int64) error {
	length := int64(len(buf))
	if length == 0 {
		return nil
	}
	b := int64(d.blockSize)
	firstBlock := byteOffset / b
	lastBlock := (byteOffset + length) / b

	copied := int64(0)
	blockBuf := make([]byte, b)
	for blk := firstBlock; blk <= lastBlock; blk++ {
		start, end := blockSpan(blk, firstBlock, b, byteOffset, length)
		if end <= start {
			// Only the final iteration can be empty, when the read ends
			// exactly on a block boundary; nothing to transfer.
			continue
		}
		if err := d.blockRead(uint64(blk), blockBuf); err != nil {
			return err
		}
		n := copy(buf[copied:], blockBuf[start:end])
		copied += int64(n)
	}
	return nil
}

// nbytesWrite transfers len(buf) bytes from buf to byteOffset, crossing as
// many blocks as needed. A block that is only partially covered by the
// write (the first block when byteOffset is not block-aligned, the last
// block when the write does not end on a block boundary) is read-modified
// before being written back; a block fully covered by the write is written
// directly with no preceding read.
func (d *Device) nbytesWrite(buf []byte, byteOffset int64) error {
	length := int64(len(buf))
	if length == 0 {
		return nil
	}
	b := int64(d.blockSize)
	firstBlock := byteOffset / b
	lastBlock := (byteOffset + length) / b

	copied := int64(0)
	for blk := firstBlock; blk <= lastBlock; blk++ {
		start, end := blockSpan(blk, firstBlock, b, byteOffset, length)
		if end <= start {
			continue
		}
		if start == 0 && end == b {
			if err := d.blockWrite(uint64(blk), buf[copied:copied+b]); err != nil {
				return err
			}
			copied += b
			continue
		}
		blockBuf := make([]byte, b)
		if err := d.blockRead(uint64(blk), blockBuf); err != nil {
			return err
		}
		n := copy(blockBuf[start:end], buf[copied:])
		copied += int64(n)
		if err := d.blockWrite(uint64(blk), blockBuf); err != nil {
			return err
		}
	}
	return nil
}

// blockSpan computes the [start, end) byte range within block blk that the
// transfer touches, given the transfer's first block, block size, starting
// byte offset, and total length.
func blockSpan(blk, firstBlock, blockSize, byteOffset, length int64) (start, end int64) {
	blockStart := blk * blockSize
	start = 0
	if blk == firstBlock {
		start = byteOffset - blockStart
	}
	end = blockSize
	if blockStart+end > byteOffset+length {
		end = byteOffset + length - blockStart
	}
	return start, end
}
