//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package file

import (
	"os"

	"golang.org/x/sys/unix"
)

// blkGetSize64 is the Linux ioctl request number for BLKGETSIZE64, used to
// query the byte size of a block device that has no regular-file length.
const blkGetSize64 = 0x80081272

// sizeOf returns the usable size of f in bytes. Regular files report their
// length directly; block special files (e.g. /dev/sdb) have no length in
// their stat info, so an ioctl is required to ask the kernel how large the
// underlying device actually is.
func sizeOf(f *os.File) (int64, error) {
	fi, err := f.Stat()
	if err != nil {
		return 0, err
	}
	if fi.Mode()&os.ModeDevice == 0 {
		return fi.Size(), nil
	}
	size, err := unix.IoctlGetUint64(int(f.Fd()), blkGetSize64)
	if err != nil {
		return 0, err
	}
	return int64(size), nil
}
