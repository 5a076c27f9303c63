package ext2

import (
	"testing"

	"github.com/go-test/deep"
)

func TestGroupDescriptorRoundTrip(t *testing.T) {
	want := groupDescriptor{
		blockBitmap:     3,
		inodeBitmap:     4,
		inodeTable:      5,
		freeBlocksCount: 100,
		freeInodesCount: 50,
		usedDirsCount:   2,
	}
	got := groupDescriptorFromBytes(want.toBytes())

	deep.CompareUnexportedFields = true
	if diff := deep.Equal(want, got); diff != nil {
		t.Errorf("groupDescriptor round trip mismatch: %v", diff)
	}
}

func TestGroupDescriptorSize(t *testing.T) {
	gd := groupDescriptor{}
	if got := len(gd.toBytes()); got != groupDescriptorSize {
		t.Errorf("len(toBytes()) = %d, want %d", got, groupDescriptorSize)
	}
}
