package ext2

// FileType identifies the kind of file an inode describes, for callers
// outside this package that need to allocate a new inode or place a
// directory entry (§3, §4.7).
type FileType uint16

const (
	RegularFile     FileType = FileType(fileTypeRegularFile)
	Directory       FileType = FileType(fileTypeDirectory)
	CharacterDevice FileType = FileType(fileTypeCharacterDevice)
	BlockDevice     FileType = FileType(fileTypeBlockDevice)
	FIFO            FileType = FileType(fileTypeFIFO)
	Socket          FileType = FileType(fileTypeSocket)
	SymbolicLink    FileType = FileType(fileTypeSymbolicLink)
)

// InitInode allocates no new resources; it sets the mode (file type plus
// permission bits), owner, group, and a starting link count of 1 on an
// already-allocated inode number, and writes it out (§4.7 step 3: "given
// mode/uid/gid"). Callers creating a directory should use InitDirectory
// afterward, which also fixes up the link count to 2.
func (d *Device) InitInode(n uint32, ft FileType, perm uint16, uid, gid uint16) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := &inode{
		number:     n,
		mode:       uint16(ft) | (perm & 0o7777),
		uid:        uid,
		gid:        gid,
		linksCount: 1,
	}
	return d.writeInode(i)
}
