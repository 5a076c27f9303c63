package ext2

import (
	"fmt"

	"github.com/ext2fs/go-ext2/backend"
)

// blockRead reads exactly one B-byte logical block by issuing B/512
// sequential sector reads starting at sector blockNumber*(B/512). buf must
// be exactly d.blockSize bytes.
func (d *Device) blockRead(blockNumber uint64, buf []byte) error {
	if uint32(len(buf)) != d.blockSize {
		return fmt.Errorf("ext2: block buffer is %d bytes, want %d", len(buf), d.blockSize)
	}
	sectorsPerBlock := int64(d.blockSize) / backend.SectorSize
	startSector := int64(blockNumber) * sectorsPerBlock
	for i := int64(0); i < sectorsPerBlock; i++ {
		sec := buf[i*backend.SectorSize : (i+1)*backend.SectorSize]
		if err := d.dev.ReadSector(startSector+i, sec); err != nil {
			return fmt.Errorf("%w: reading sector %d (block %d): %v", ErrIO, startSector+i, blockNumber, err)
		}
	}
	return nil
}

// blockWrite writes exactly one B-byte logical block by issuing B/512
// sequential sector writes starting at sector blockNumber*(B/512).
func (d *Device) blockWrite(blockNumber uint64, buf []byte) error {
	if uint32(len(buf)) != d.blockSize {
		return fmt.Errorf("ext2: block buffer is %d bytes, want %d", len(buf), d.blockSize)
	}
	sectorsPerBlock := int64(d.blockSize) / backend.SectorSize
	startSector := int64(blockNumber) * sectorsPerBlock
	for i := int64(0); i < sectorsPerBlock; i++ {
		sec := buf[i*backend.SectorSize : (i+1)*backend.SectorSize]
		if err := d.dev.WriteSector(startSector+i, sec); err != nil {
			return fmt.Errorf("%w: writing sector %d (block %d): %v", ErrIO, startSector+i, blockNumber, err)
		}
	}
	return nil
}

// zeroBlock writes a block of zero bytes, used to initialize a freshly
// allocated data or index block before it is linked into an inode.
func (d *Device) zeroBlock(blockNumber uint64) error {
	return d.blockWrite(blockNumber, make([]byte, d.blockSize))
}
