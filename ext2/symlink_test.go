package ext2

import (
	"bytes"
	"strings"
	"testing"
)

func newTestSymlink(t *testing.T) (*Device, uint32) {
	t.Helper()
	_, d := formatTestDevice(t)
	n, err := d.AllocateInode()
	if err != nil {
		t.Fatalf("AllocateInode: %v", err)
	}
	if err := d.InitInode(n, SymbolicLink, 0o777, 0, 0); err != nil {
		t.Fatalf("InitInode: %v", err)
	}
	return d, n
}

func TestWriteSymlinkTargetInline(t *testing.T) {
	d, n := newTestSymlink(t)
	target := "/usr/bin/env"
	if err := d.WriteSymlinkTarget(n, target); err != nil {
		t.Fatalf("WriteSymlinkTarget: %v", err)
	}

	i, err := d.readInode(n)
	if err != nil {
		t.Fatalf("readInode: %v", err)
	}
	if int(i.size) != len(target) {
		t.Errorf("i_size = %d, want %d", i.size, len(target))
	}
	if !i.symlinkInline() {
		t.Error("symlinkInline() = false for a short target, want true")
	}

	var raw [60]byte
	for n := 0; n < numBlockPointers; n++ {
		off := n * 4
		putLE32(raw[:], off, i.block[n])
	}
	if got := string(raw[:len(target)]); got != target {
		t.Errorf("inline target bytes = %q, want %q", got, target)
	}
}

func TestWriteSymlinkTargetOutOfLine(t *testing.T) {
	d, n := newTestSymlink(t)
	target := strings.Repeat("a", 200)
	if err := d.WriteSymlinkTarget(n, target); err != nil {
		t.Fatalf("WriteSymlinkTarget: %v", err)
	}

	buf := make([]byte, len(target))
	if _, err := d.FileRead(n, 0, buf, false); err != nil {
		t.Fatalf("FileRead: %v", err)
	}
	if !bytes.Equal(buf, []byte(target)) {
		t.Error("out-of-line symlink target does not match what was written")
	}
}

func TestWriteSymlinkTargetRejectsNonSymlink(t *testing.T) {
	d, n := newTestFile(t)
	if err := d.WriteSymlinkTarget(n, "x"); err == nil {
		t.Fatal("WriteSymlinkTarget on a regular file: want error, got nil")
	}
}
