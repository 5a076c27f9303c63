package ext2

import "fmt"

// isRedundancyGroup reports whether group g holds a mirror copy of the
// superblock and block-group descriptor table: group 0 (the primary), group
// 1, and every group whose index is a power of 3, 5, or 7 (§3 invariant 5,
// §4.3).
func isRedundancyGroup(g uint32) bool {
	if g <= 1 {
		return true
	}
	return isPowerOf(g, 3) || isPowerOf(g, 5) || isPowerOf(g, 7)
}

func isPowerOf(n, base uint32) bool {
	if n < base {
		return false
	}
	for n%base == 0 {
		n /= base
	}
	return n == 1
}

// writeRedundant writes data (whole superblock bytes, or a single
// block-group descriptor's bytes) to primaryOffset, then to the same
// relative offset within every other redundancy-set group, per the mirror
// formula in §4.3: mirror offset = primaryOffset + g*B_g*B. The primary
// write always happens first and always happens even if every mirror write
// subsequently fails; mirror failures are collected but do not stop the
// remaining mirrors from being attempted, since each is independent.
func (d *Device) writeRedundant(primaryOffset int64, data []byte) error {
	if err := d.nbytesWrite(data, primaryOffset); err != nil {
		return fmt.Errorf("writing primary copy: %w", err)
	}
	groupStride := int64(d.blocksPerGroup) * int64(d.blockSize)
	var firstErr error
	for g := uint32(1); g < d.groupCount; g++ {
		if !isRedundancyGroup(g) {
			continue
		}
		offset := primaryOffset + int64(g)*groupStride
		if err := d.nbytesWrite(data, offset); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("writing mirror copy in group %d: %w", g, err)
		}
	}
	return firstErr
}

// readSuperblock reads the current on-disk superblock. Free-space counters
// live only on disk (§5), so every allocator call re-reads the superblock
// rather than trusting a cached copy.
func (d *Device) readSuperblock() (*superblock, error) {
	buf := make([]byte, superblockSize)
	if err := d.nbytesRead(buf, superblockOffset); err != nil {
		return nil, fmt.Errorf("reading superblock: %w", err)
	}
	return superblockFromBytes(buf)
}

// writeSuperblock writes sb to the primary location and to every mirror
// group.
func (d *Device) writeSuperblock(sb *superblock) error {
	return d.writeRedundant(superblockOffset, sb.toBytes())
}

func (d *Device) descriptorOffset(group uint32) int64 {
	start := int64(d.superblockDescriptorTableStart()) * int64(d.blockSize)
	return start + int64(group)*groupDescriptorSize
}

// superblockDescriptorTableStart returns the block index of the first
// block-group descriptor: the block following the primary superblock.
func (d *Device) superblockDescriptorTableStart() uint64 {
	blk := uint64(0)
	for blk*uint64(d.blockSize) < 2048 {
		blk++
	}
	return blk
}

// readGroupDescriptor reads group g's 32-byte descriptor fresh off disk.
func (d *Device) readGroupDescriptor(group uint32) (groupDescriptor, error) {
	if group >= d.groupCount {
		return groupDescriptor{}, fmt.Errorf("ext2: block group %d does not exist (have %d)", group, d.groupCount)
	}
	buf := make([]byte, groupDescriptorSize)
	if err := d.nbytesRead(buf, d.descriptorOffset(group)); err != nil {
		return groupDescriptor{}, fmt.Errorf("reading group descriptor %d: %w", group, err)
	}
	return groupDescriptorFromBytes(buf), nil
}

// writeGroupDescriptor writes group g's descriptor to the primary table and
// to the matching offset within every mirror group's copy of the table.
func (d *Device) writeGroupDescriptor(group uint32, gd groupDescriptor) error {
	if group >= d.groupCount {
		return fmt.Errorf("ext2: block group %d does not exist (have %d)", group, d.groupCount)
	}
	return d.writeRedundant(d.descriptorOffset(group), gd.toBytes())
}

// inodeLocation returns the group and in-table byte offset for inode
// number n (1-based), per §3 invariant 2.
func (d *Device) inodeLocation(n uint32) (group uint32, byteOffsetInTable uint64) {
	group = (n - 1) / d.inodesPerGroup
	slot := uint64((n - 1) % d.inodesPerGroup)
	return group, slot * uint64(d.inodeSize)
}

func (d *Device) readInode(n uint32) (*inode, error) {
	if n == 0 || n > d.inodesCount {
		return nil, fmt.Errorf("ext2: inode %d out of range [1, %d]", n, d.inodesCount)
	}
	group, off := d.inodeLocation(n)
	gd, err := d.readGroupDescriptor(group)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, d.inodeSize)
	offset := int64(gd.inodeTable)*int64(d.blockSize) + int64(off)
	if err := d.nbytesRead(buf, offset); err != nil {
		return nil, fmt.Errorf("reading inode %d: %w", n, err)
	}
	return inodeFromBytes(buf, n), nil
}

func (d *Device) writeInode(i *inode) error {
	if i.number == 0 || i.number > d.inodesCount {
		return fmt.Errorf("ext2: inode %d out of range [1, %d]", i.number, d.inodesCount)
	}
	group, off := d.inodeLocation(i.number)
	gd, err := d.readGroupDescriptor(group)
	if err != nil {
		return err
	}
	offset := int64(gd.inodeTable)*int64(d.blockSize) + int64(off)
	if err := d.nbytesWrite(i.toBytes(d.inodeSize), offset); err != nil {
		return fmt.Errorf("writing inode %d: %w", i.number, err)
	}
	return nil
}
