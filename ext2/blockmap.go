package ext2

import "encoding/binary"

// blockMapRanges describes, for a given pointers-per-block k, the first
// logical block index addressed by the singly, doubly, and triply indirect
// ranges (the direct range always starts at 0), plus the first index beyond
// the triply indirect range
// (the FileTooBig boundary). Every boundary is recomputed directly from k
// and the level depth rather than carried through a running multiplication,
// which is what keeps deeply nested offsets correct (§4.5, §9 open question
// on indirect arithmetic).
type blockMapRanges struct {
	singly uint64
	doubly uint64
	triply uint64
	limit  uint64
}

func (d *Device) blockMapRanges() blockMapRanges {
	k := d.pointersPerBlock()
	singly := uint64(directEntries)
	doubly := singly + k
	triply := doubly + k*k
	limit := triply + k*k*k
	return blockMapRanges{singly: singly, doubly: doubly, triply: triply, limit: limit}
}

// resolveBlock maps logical block index L of inode i to a physical block
// number. When allocate is false, a hole anywhere along the path (an
// unallocated direct pointer, or an unallocated indirect pointer whose
// subtree therefore cannot exist) yields (0, nil): the caller should treat
// that logical block as all zero. failOnZero only affects non-leaf pointers
// — an indirect index block's own i.block[…] slot, or a non-final pointer
// inside an indirect block — which it turns from a silent hole into ErrIO,
// for strict callers such as directory scanning past the current last block
// (§4.5, §4.6). It has no effect when allocate is true. When allocate is
// true, every unallocated pointer encountered — indirect index blocks as
// well as the final leaf — is allocated, zero-filled, and linked in, with
// i.blocks incremented by B/512 for each block allocated; i is mutated in
// place and it is the caller's responsibility to persist it afterward.
func (d *Device) resolveBlock(i *inode, logical uint64, allocate, failOnZero bool) (uint32, error) {
	r := d.blockMapRanges()
	k := d.pointersPerBlock()

	switch {
	case logical < r.singly:
		return d.resolveDirect(i, logical, allocate)
	case logical < r.doubly:
		idx := logical - r.singly
		return d.resolveIndirect(i, singlyIndirectIndex, []uint64{idx}, allocate, failOnZero)
	case logical < r.triply:
		off := logical - r.doubly
		idx1 := off / k
		idx2 := off % k
		return d.resolveIndirect(i, doublyIndirectIndex, []uint64{idx1, idx2}, allocate, failOnZero)
	case logical < r.limit:
		off := logical - r.triply
		idx1 := off / (k * k)
		rem := off % (k * k)
		idx2 := rem / k
		idx3 := rem % k
		return d.resolveIndirect(i, triplyIndirectIndex, []uint64{idx1, idx2, idx3}, allocate, failOnZero)
	default:
		return 0, ErrFileTooBig
	}
}

func (d *Device) sectorsPerBlock() uint32 {
	return d.blockSize / 512
}

func (d *Device) hintGroupFor(i *inode) uint32 {
	if i.number == 0 {
		return 0
	}
	return (i.number - 1) / d.inodesPerGroup
}

func (d *Device) allocateAndZero(i *inode) (uint32, error) {
	blk, err := d.AllocateBlock(d.hintGroupFor(i))
	if err != nil {
		return 0, err
	}
	if err := d.zeroBlock(uint64(blk)); err != nil {
		return 0, err
	}
	i.blocks += d.sectorsPerBlock()
	return blk, nil
}

func (d *Device) resolveDirect(i *inode, logical uint64, allocate bool) (uint32, error) {
	ptr := i.block[logical]
	if ptr != 0 {
		return ptr, nil
	}
	if !allocate {
		return 0, nil
	}
	blk, err := d.allocateAndZero(i)
	if err != nil {
		return 0, err
	}
	i.block[logical] = blk
	return blk, nil
}

// resolveIndirect walks root (i.block[rootIndex]) down through path, a
// sequence of within-block pointer indices, returning the block number the
// final index names. Every pointer before the last one in path is a
// non-leaf (index block) pointer; the last is the leaf that addresses data.
// A zero non-leaf pointer under failOnZero is reported as ErrIO rather than
// treated as a hole (§4.5); a zero leaf pointer is always a hole.
func (d *Device) resolveIndirect(i *inode, rootIndex int, path []uint64, allocate, failOnZero bool) (uint32, error) {
	cur := i.block[rootIndex]
	if cur == 0 {
		if !allocate {
			if failOnZero {
				return 0, ErrIO
			}
			return 0, nil
		}
		blk, err := d.allocateAndZero(i)
		if err != nil {
			return 0, err
		}
		i.block[rootIndex] = blk
		cur = blk
	}

	last := len(path) - 1
	buf := make([]byte, d.blockSize)
	for level, idx := range path {
		if err := d.blockRead(uint64(cur), buf); err != nil {
			return 0, err
		}
		off := int(idx) * 4
		ptr := binary.LittleEndian.Uint32(buf[off : off+4])
		if ptr == 0 {
			if !allocate {
				if level != last && failOnZero {
					return 0, ErrIO
				}
				return 0, nil
			}
			blk, err := d.allocateAndZero(i)
			if err != nil {
				return 0, err
			}
			binary.LittleEndian.PutUint32(buf[off:off+4], blk)
			if err := d.blockWrite(uint64(cur), buf); err != nil {
				return 0, err
			}
			ptr = blk
		}
		if level == last {
			return ptr, nil
		}
		cur = ptr
	}
	panic("ext2: resolveIndirect called with an empty path")
}
