package ext2

import "testing"

func TestInitInodeSetsModeOwnerAndLinkCount(t *testing.T) {
	_, d := formatTestDevice(t)
	n, err := d.AllocateInode()
	if err != nil {
		t.Fatalf("AllocateInode: %v", err)
	}
	if err := d.InitInode(n, RegularFile, 0o640, 1000, 1001); err != nil {
		t.Fatalf("InitInode: %v", err)
	}

	i, err := d.readInode(n)
	if err != nil {
		t.Fatalf("readInode: %v", err)
	}
	if got, want := i.fileType(), fileTypeRegularFile; got != want {
		t.Errorf("fileType() = %#x, want %#x", got, want)
	}
	if i.mode&0o7777 != 0o640 {
		t.Errorf("permission bits = %#o, want %#o", i.mode&0o7777, 0o640)
	}
	if i.uid != 1000 {
		t.Errorf("uid = %d, want 1000", i.uid)
	}
	if i.gid != 1001 {
		t.Errorf("gid = %d, want 1001", i.gid)
	}
	if i.linksCount != 1 {
		t.Errorf("linksCount = %d, want 1", i.linksCount)
	}
}
