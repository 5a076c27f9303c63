package ext2

import (
	"testing"

	"github.com/go-test/deep"
)

func TestInodeRoundTrip(t *testing.T) {
	want := &inode{
		number:     7,
		mode:       uint16(fileTypeRegularFile) | 0o644,
		uid:        1000,
		size:       4096,
		gid:        1000,
		linksCount: 1,
		blocks:     8,
		flags:      0,
		block:      [numBlockPointers]uint32{1, 2, 3},
		generation: 42,
	}
	got := inodeFromBytes(want.toBytes(defaultGoodOldInodeSize), want.number)

	deep.CompareUnexportedFields = true
	if diff := deep.Equal(*want, *got); diff != nil {
		t.Errorf("inode round trip mismatch: %v", diff)
	}
}

func TestInodeFileType(t *testing.T) {
	cases := map[fileType]bool{
		fileTypeRegularFile: false,
		fileTypeDirectory:   true,
		fileTypeSymbolicLink: false,
	}
	for ft, wantDir := range cases {
		i := &inode{mode: uint16(ft) | 0o755}
		if got := i.fileType(); got != ft {
			t.Errorf("fileType() = %#x, want %#x", got, ft)
		}
		if got := i.isDirectory(); got != wantDir {
			t.Errorf("isDirectory() for %#x = %v, want %v", ft, got, wantDir)
		}
	}
}

func TestDirEntryTypeByte(t *testing.T) {
	cases := map[fileType]byte{
		fileTypeRegularFile:     1,
		fileTypeDirectory:       2,
		fileTypeCharacterDevice: 3,
		fileTypeBlockDevice:     4,
		fileTypeFIFO:            5,
		fileTypeSocket:          6,
		fileTypeSymbolicLink:    7,
	}
	for ft, want := range cases {
		if got := dirEntryTypeByte(ft); got != want {
			t.Errorf("dirEntryTypeByte(%#x) = %d, want %d", ft, got, want)
		}
	}
}

func TestSymlinkInline(t *testing.T) {
	short := &inode{mode: uint16(fileTypeSymbolicLink) | 0o777, size: 10}
	if !short.symlinkInline() {
		t.Error("symlinkInline() = false for a 10-byte target, want true")
	}

	long := &inode{mode: uint16(fileTypeSymbolicLink) | 0o777, size: 200, blocks: 2}
	if long.symlinkInline() {
		t.Error("symlinkInline() = true for a 200-byte target, want false")
	}
}
