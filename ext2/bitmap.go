package ext2

import (
	"fmt"

	"github.com/ext2fs/go-ext2/util/bitmap"
)

// groupInodeCount returns the number of inode slots group g actually holds:
// inodesPerGroup for every group but the last, which may hold fewer when
// inodesCount is not an exact multiple.
func (d *Device) groupInodeCount(g uint32) int {
	if g < d.groupCount-1 {
		return int(d.inodesPerGroup)
	}
	return int(d.inodesCount - g*d.inodesPerGroup)
}

// groupBlockCount returns the number of block slots group g covers.
func (d *Device) groupBlockCount(g uint32) int {
	if g < d.groupCount-1 {
		return int(d.blocksPerGroup)
	}
	return int(d.blocksCount - g*d.blocksPerGroup)
}

func (d *Device) readBitmap(blockNumber uint32) (*bitmap.Bitmap, error) {
	buf := make([]byte, d.blockSize)
	if err := d.blockRead(uint64(blockNumber), buf); err != nil {
		return nil, err
	}
	return bitmap.FromBytes(buf), nil
}

func (d *Device) writeBitmap(blockNumber uint32, bm *bitmap.Bitmap) error {
	buf := make([]byte, d.blockSize)
	copy(buf, bm.Bytes())
	return d.blockWrite(uint64(blockNumber), buf)
}

// AllocateInode finds a free inode, starting the scan at group 0 and moving
// ascending through the groups until one with a free slot is found (§4.4).
// It marks the inode used in its group's bitmap, decrements the superblock
// and group-descriptor free-inode counters, and broadcasts both to every
// redundancy-set mirror, all before returning the new inode number.
func (d *Device) AllocateInode() (uint32, error) {
	for g := uint32(0); g < d.groupCount; g++ {
		gd, err := d.readGroupDescriptor(g)
		if err != nil {
			return 0, err
		}
		if gd.freeInodesCount == 0 {
			continue
		}
		bm, err := d.readBitmap(gd.inodeBitmap)
		if err != nil {
			return 0, err
		}
		bit := bm.FirstFree(d.groupInodeCount(g))
		if bit < 0 {
			continue
		}
		if err := bm.Set(bit); err != nil {
			return 0, err
		}
		if err := d.writeBitmap(gd.inodeBitmap, bm); err != nil {
			return 0, err
		}
		gd.freeInodesCount--
		if err := d.writeGroupDescriptor(g, gd); err != nil {
			return 0, err
		}
		sb, err := d.readSuperblock()
		if err != nil {
			return 0, err
		}
		sb.freeInodesCount--
		if err := d.writeSuperblock(sb); err != nil {
			return 0, err
		}
		return g*d.inodesPerGroup + uint32(bit) + 1, nil
	}
	return 0, ErrNoSpace
}

// FreeInode clears inode n's bitmap bit and restores the free-inode
// counters.
func (d *Device) FreeInode(n uint32) error {
	if n == 0 || n > d.inodesCount {
		return fmt.Errorf("ext2: inode %d out of range [1, %d]", n, d.inodesCount)
	}
	group, _ := d.inodeLocation(n)
	bit := int((n - 1) % d.inodesPerGroup)

	gd, err := d.readGroupDescriptor(group)
	if err != nil {
		return err
	}
	bm, err := d.readBitmap(gd.inodeBitmap)
	if err != nil {
		return err
	}
	if err := bm.Clear(bit); err != nil {
		return err
	}
	if err := d.writeBitmap(gd.inodeBitmap, bm); err != nil {
		return err
	}
	gd.freeInodesCount++
	if err := d.writeGroupDescriptor(group, gd); err != nil {
		return err
	}
	sb, err := d.readSuperblock()
	if err != nil {
		return err
	}
	sb.freeInodesCount++
	return d.writeSuperblock(sb)
}

// AllocateBlock finds a free block, preferring locality to hintGroup: it
// scans hintGroup fully first, then falls back to every other group in
// ascending order (§4.4). Passing a hintGroup >= GroupCount is equivalent to
// no hint.
func (d *Device) AllocateBlock(hintGroup uint32) (uint32, error) {
	order := make([]uint32, 0, d.groupCount)
	if hintGroup < d.groupCount {
		order = append(order, hintGroup)
	}
	for g := uint32(0); g < d.groupCount; g++ {
		if g != hintGroup {
			order = append(order, g)
		}
	}

	for _, g := range order {
		gd, err := d.readGroupDescriptor(g)
		if err != nil {
			return 0, err
		}
		if gd.freeBlocksCount == 0 {
			continue
		}
		bm, err := d.readBitmap(gd.blockBitmap)
		if err != nil {
			return 0, err
		}
		bit := bm.FirstFree(d.groupBlockCount(g))
		if bit < 0 {
			continue
		}
		if err := bm.Set(bit); err != nil {
			return 0, err
		}
		if err := d.writeBitmap(gd.blockBitmap, bm); err != nil {
			return 0, err
		}
		gd.freeBlocksCount--
		if err := d.writeGroupDescriptor(g, gd); err != nil {
			return 0, err
		}
		sb, err := d.readSuperblock()
		if err != nil {
			return 0, err
		}
		sb.freeBlocksCount--
		if err := d.writeSuperblock(sb); err != nil {
			return 0, err
		}
		return g*d.blocksPerGroup + uint32(bit), nil
	}
	return 0, ErrNoSpace
}

// FreeBlock clears block n's bitmap bit and restores the free-block
// counters.
func (d *Device) FreeBlock(n uint32) error {
	if n >= d.blocksCount {
		return fmt.Errorf("ext2: block %d out of range [0, %d)", n, d.blocksCount)
	}
	group := n / d.blocksPerGroup
	bit := int(n % d.blocksPerGroup)

	gd, err := d.readGroupDescriptor(group)
	if err != nil {
		return err
	}
	bm, err := d.readBitmap(gd.blockBitmap)
	if err != nil {
		return err
	}
	if err := bm.Clear(bit); err != nil {
		return err
	}
	if err := d.writeBitmap(gd.blockBitmap, bm); err != nil {
		return err
	}
	gd.freeBlocksCount++
	if err := d.writeGroupDescriptor(group, gd); err != nil {
		return err
	}
	sb, err := d.readSuperblock()
	if err != nil {
		return err
	}
	sb.freeBlocksCount++
	return d.writeSuperblock(sb)
}
