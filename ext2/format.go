package ext2

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ext2fs/go-ext2/backend"
	"github.com/ext2fs/go-ext2/util/bitmap"
)

// FormatOptions controls the handful of layout decisions Format makes
// itself rather than deriving from the device, mirroring the knobs a
// caller-provided Params struct would expose in a larger filesystem
// implementation.
type FormatOptions struct {
	// BlockSize is the logical block size in bytes; it must be 1024, 2048,
	// or 4096. Zero selects 1024.
	BlockSize uint32
	// BytesPerInode is the target ratio of filesystem bytes to inodes used
	// to size the inode table. Zero selects 4096.
	BytesPerInode uint32
	// VolumeUUID seeds the superblock's volume UUID. A zero value
	// generates a random one.
	VolumeUUID uuid.UUID
}

const (
	defaultBlockSize     = 1024
	defaultBytesPerInode = 4096
	// firstNonReservedInode is the first inode number available for
	// ordinary files; inodes 1..10 are reserved (2 is the root directory).
	firstNonReservedInode = 11
	rootInodeNumber       = 2
)

// Format lays out a fresh ext2 filesystem across the whole of dev: a
// superblock and block-group descriptor table (mirrored into the
// redundancy set), per-group block and inode bitmaps and inode tables, and
// a root directory inode containing only "." and "..". It returns a Device
// handle already probed against the new layout.
func Format(dev backend.Device, opts FormatOptions) (*Device, error) {
	blockSize := opts.BlockSize
	if blockSize == 0 {
		blockSize = defaultBlockSize
	}
	if blockSize != 1024 && blockSize != 2048 && blockSize != 4096 {
		return nil, fmt.Errorf("ext2: invalid block size %d, must be 1024, 2048, or 4096", blockSize)
	}
	bytesPerInode := opts.BytesPerInode
	if bytesPerInode == 0 {
		bytesPerInode = defaultBytesPerInode
	}

	totalBytes := dev.SectorCount() * backend.SectorSize
	numBlocks := uint32(totalBytes / int64(blockSize))
	if numBlocks < 8 {
		return nil, fmt.Errorf("ext2: device too small (%d bytes) to format", totalBytes)
	}

	blocksPerGroup := blockSize * 8
	groupCount := (numBlocks + blocksPerGroup - 1) / blocksPerGroup

	descStart := descriptorTableStartFor(blockSize)
	gdtBlocks := (uint64(groupCount)*groupDescriptorSize + uint64(blockSize) - 1) / uint64(blockSize)
	reservedMetaBlocks := uint32(descStart) + uint32(gdtBlocks)

	totalInodeCount := uint32((uint64(numBlocks) * uint64(blockSize)) / uint64(bytesPerInode))
	if totalInodeCount == 0 {
		totalInodeCount = 8
	}
	inodesPerGroup := (totalInodeCount + groupCount - 1) / groupCount
	inodesPerGroup = (inodesPerGroup + 7) &^ 7 // ext2 requires a multiple of 8
	inodesCount := inodesPerGroup * groupCount
	inodeTableBlocksPerGroup := (inodesPerGroup*defaultGoodOldInodeSize + blockSize - 1) / blockSize

	layout := groupLayout{
		blockSize:                blockSize,
		blocksPerGroup:           blocksPerGroup,
		inodesPerGroup:           inodesPerGroup,
		reservedMetaBlocks:       reservedMetaBlocks,
		inodeTableBlocksPerGroup: inodeTableBlocksPerGroup,
	}

	uid := opts.VolumeUUID
	if uid == uuid.Nil {
		var err error
		uid, err = uuid.NewRandom()
		if err != nil {
			return nil, fmt.Errorf("ext2: generating volume UUID: %w", err)
		}
	}

	sb := &superblock{
		inodesCount:    inodesCount,
		blocksCount:    numBlocks,
		logBlockSize:   logBlockSizeFor(blockSize),
		blocksPerGroup: blocksPerGroup,
		inodesPerGroup: inodesPerGroup,
		magic:          magicExt2,
		revLevel:       revDynamic,
		inodeSize:      defaultGoodOldInodeSize,
		volumeUUID:     uid,
	}

	descs := make([]groupDescriptor, groupCount)
	for g := uint32(0); g < groupCount; g++ {
		gd, err := layout.initGroup(dev, g, groupCount, numBlocks)
		if err != nil {
			return nil, fmt.Errorf("ext2: formatting group %d: %w", g, err)
		}
		descs[g] = gd
	}

	var freeBlocks, freeInodes uint32
	for g := uint32(0); g < groupCount; g++ {
		freeBlocks += uint32(descs[g].freeBlocksCount)
		freeInodes += uint32(descs[g].freeInodesCount)
	}
	sb.freeBlocksCount = freeBlocks
	sb.freeInodesCount = freeInodes

	d := &Device{
		dev:            dev,
		blockSize:      blockSize,
		inodesCount:    inodesCount,
		blocksCount:    numBlocks,
		inodesPerGroup: inodesPerGroup,
		blocksPerGroup: blocksPerGroup,
		groupCount:     groupCount,
		revLevel:       revDynamic,
		inodeSize:      defaultGoodOldInodeSize,
	}

	for g := uint32(0); g < groupCount; g++ {
		if err := d.writeGroupDescriptor(g, descs[g]); err != nil {
			return nil, err
		}
	}
	if err := d.writeSuperblock(sb); err != nil {
		return nil, err
	}

	root := &inode{
		number:     rootInodeNumber,
		mode:       uint16(fileTypeDirectory) | 0o755,
		linksCount: 2,
	}
	if err := d.writeInode(root); err != nil {
		return nil, err
	}
	if err := d.InitDirectory(rootInodeNumber, rootInodeNumber); err != nil {
		return nil, err
	}

	return d, nil
}

func logBlockSizeFor(blockSize uint32) uint32 {
	switch blockSize {
	case 1024:
		return 0
	case 2048:
		return 1
	default:
		return 2
	}
}

func descriptorTableStartFor(blockSize uint32) uint64 {
	blk := uint64(0)
	for blk*uint64(blockSize) < 2048 {
		blk++
	}
	return blk
}

// groupLayout captures the per-group geometry Format needs to lay out
// metadata deterministically.
type groupLayout struct {
	blockSize                uint32
	blocksPerGroup           uint32
	inodesPerGroup           uint32
	reservedMetaBlocks       uint32
	inodeTableBlocksPerGroup uint32
}

// initGroup zero-fills and writes group g's block bitmap, inode bitmap, and
// inode table, marking the blocks and inodes the layout itself consumes
// (superblock/GDT mirror, the bitmaps, the inode table, and the reserved
// inodes in group 0) as used, and returns the resulting group descriptor.
func (l groupLayout) initGroup(dev backend.Device, g, groupCount, totalBlocks uint32) (groupDescriptor, error) {
	groupStart := g * l.blocksPerGroup
	blocksInGroup := l.blocksPerGroup
	if g == groupCount-1 {
		blocksInGroup = totalBlocks - groupStart
	}

	localReserved := uint32(0)
	if isRedundancyGroup(g) {
		localReserved = l.reservedMetaBlocks
	}

	blockBitmapBlock := groupStart + localReserved
	inodeBitmapBlock := blockBitmapBlock + 1
	inodeTableStart := inodeBitmapBlock + 1

	d := blockDeviceWriter{dev: dev, blockSize: l.blockSize}

	zeroMeta := make([]byte, l.blockSize)
	for b := uint32(0); b < localReserved; b++ {
		if err := d.writeBlock(uint64(groupStart+b), zeroMeta); err != nil {
			return groupDescriptor{}, err
		}
	}

	blockBm := bitmap.New(int(l.blocksPerGroup))
	for b := uint32(0); b < localReserved+2+l.inodeTableBlocksPerGroup; b++ {
		if err := blockBm.Set(int(b)); err != nil {
			return groupDescriptor{}, err
		}
	}
	for b := blocksInGroup; b < l.blocksPerGroup; b++ {
		if err := blockBm.Set(int(b)); err != nil {
			return groupDescriptor{}, err
		}
	}
	if err := d.writeBlock(uint64(blockBitmapBlock), padTo(blockBm.Bytes(), l.blockSize)); err != nil {
		return groupDescriptor{}, err
	}

	inodeBm := bitmap.New(int(l.inodesPerGroup))
	if g == 0 {
		for n := 0; n < firstNonReservedInode-1; n++ {
			if err := inodeBm.Set(n); err != nil {
				return groupDescriptor{}, err
			}
		}
	}
	if err := d.writeBlock(uint64(inodeBitmapBlock), padTo(inodeBm.Bytes(), l.blockSize)); err != nil {
		return groupDescriptor{}, err
	}

	zero := make([]byte, l.blockSize)
	for b := uint32(0); b < l.inodeTableBlocksPerGroup; b++ {
		if err := d.writeBlock(uint64(inodeTableStart+b), zero); err != nil {
			return groupDescriptor{}, err
		}
	}

	usedBlocks := localReserved + 2 + l.inodeTableBlocksPerGroup
	freeBlocks := blocksInGroup - usedBlocks
	freeInodes := l.inodesPerGroup
	if g == 0 {
		freeInodes -= firstNonReservedInode - 1
	}

	return groupDescriptor{
		blockBitmap:     blockBitmapBlock,
		inodeBitmap:     inodeBitmapBlock,
		inodeTable:      inodeTableStart,
		freeBlocksCount: uint16(freeBlocks),
		freeInodesCount: uint16(freeInodes),
		usedDirsCount:   0,
	}, nil
}

func padTo(b []byte, size uint32) []byte {
	if uint32(len(b)) >= size {
		return b[:size]
	}
	out := make([]byte, size)
	copy(out, b)
	return out
}

// blockDeviceWriter is a minimal sector-looping block writer used only
// during formatting, before a Device handle (and its group-descriptor
// lookups) exists.
type blockDeviceWriter struct {
	dev       backend.Device
	blockSize uint32
}

func (w blockDeviceWriter) writeBlock(blockNumber uint64, buf []byte) error {
	sectorsPerBlock := int64(w.blockSize) / backend.SectorSize
	startSector := int64(blockNumber) * sectorsPerBlock
	for i := int64(0); i < sectorsPerBlock; i++ {
		sec := buf[i*backend.SectorSize : (i+1)*backend.SectorSize]
		if err := w.dev.WriteSector(startSector+i, sec); err != nil {
			return fmt.Errorf("%w: writing sector %d: %v", ErrIO, startSector+i, err)
		}
	}
	return nil
}
