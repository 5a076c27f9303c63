package ext2

import (
	"testing"

	"github.com/go-test/deep"
	"github.com/google/uuid"
)

func testSuperblock() *superblock {
	sb := &superblock{
		inodesCount:    128,
		blocksCount:    1024,
		freeBlocksCount: 900,
		freeInodesCount: 117,
		logBlockSize:   0,
		blocksPerGroup: 8192,
		inodesPerGroup: 128,
		magic:          magicExt2,
		revLevel:       revDynamic,
		inodeSize:      defaultGoodOldInodeSize,
		volumeUUID:     uuid.MustParse("01234567-89ab-cdef-0123-456789abcdef"),
	}
	sb.toBytes()
	return sb
}

func TestSuperblockRoundTrip(t *testing.T) {
	want := testSuperblock()
	b := want.toBytes()

	got, err := superblockFromBytes(b)
	if err != nil {
		t.Fatalf("superblockFromBytes: %v", err)
	}

	deep.CompareUnexportedFields = true
	if diff := deep.Equal(*want, *got); diff != nil {
		t.Errorf("superblock round trip mismatch: %v", diff)
	}
}

func TestSuperblockFromBytesRejectsBadMagic(t *testing.T) {
	sb := testSuperblock()
	b := sb.toBytes()
	putLE16(b, 0x38, 0)

	if _, err := superblockFromBytes(b); err == nil {
		t.Fatal("superblockFromBytes with corrupted magic: want error, got nil")
	}
}

func TestSuperblockGoodOldRevFixesInodeSize(t *testing.T) {
	sb := testSuperblock()
	sb.revLevel = revGoodOld
	b := sb.toBytes()

	got, err := superblockFromBytes(b)
	if err != nil {
		t.Fatalf("superblockFromBytes: %v", err)
	}
	if got.inodeSize != defaultGoodOldInodeSize {
		t.Errorf("inodeSize = %d, want %d for revision 0", got.inodeSize, defaultGoodOldInodeSize)
	}
}

func TestBlockSize(t *testing.T) {
	cases := map[uint32]uint32{0: 1024, 1: 2048, 2: 4096}
	for log, want := range cases {
		sb := &superblock{logBlockSize: log}
		if got := sb.blockSize(); got != want {
			t.Errorf("blockSize() with log=%d = %d, want %d", log, got, want)
		}
	}
}

func TestGroupCount(t *testing.T) {
	sb := &superblock{inodesCount: 257, inodesPerGroup: 128}
	if got, want := sb.groupCount(), uint32(3); got != want {
		t.Errorf("groupCount() = %d, want %d", got, want)
	}
}

func TestUnmodeledFieldsSurviveRoundTrip(t *testing.T) {
	sb := testSuperblock()
	b := sb.toBytes()
	// A field this engine never models, e.g. s_max_mnt_count at 0x36.
	putLE16(b, 0x36, 42)

	reparsed, err := superblockFromBytes(b)
	if err != nil {
		t.Fatalf("superblockFromBytes: %v", err)
	}
	roundTripped := reparsed.toBytes()
	if got := roundTripped[0x36]; got != 42 {
		t.Errorf("unmodeled field at 0x36 = %d, want 42 to survive untouched", got)
	}
}
