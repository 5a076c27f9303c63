package ext2

import (
	"testing"

	"github.com/ext2fs/go-ext2/backend/memory"
)

func newRawMemoryDevice(t *testing.T) *memory.Device {
	t.Helper()
	return memory.New(testImageSize)
}

func TestProbeRejectsUnformattedDevice(t *testing.T) {
	mem := newRawMemoryDevice(t)
	if _, err := Probe(mem); err != ErrMagicMismatch {
		t.Errorf("Probe(unformatted) error = %v, want ErrMagicMismatch", err)
	}
}

func TestProbeExposesGeometry(t *testing.T) {
	mem, want := formatTestDevice(t)
	got, err := Probe(mem)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if got.BlockSize() != want.BlockSize() {
		t.Errorf("BlockSize() = %d, want %d", got.BlockSize(), want.BlockSize())
	}
	if got.InodesCount() != want.InodesCount() {
		t.Errorf("InodesCount() = %d, want %d", got.InodesCount(), want.InodesCount())
	}
	if got.BlocksCount() != want.BlocksCount() {
		t.Errorf("BlocksCount() = %d, want %d", got.BlocksCount(), want.BlocksCount())
	}
	if got.GroupCount() != want.GroupCount() {
		t.Errorf("GroupCount() = %d, want %d", got.GroupCount(), want.GroupCount())
	}
}
