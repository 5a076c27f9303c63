package ext2

import "testing"

func TestRegistryAttachLookupDetach(t *testing.T) {
	mem, _ := formatTestDevice(t)
	r := NewRegistry()

	d, err := r.Attach("disk0", mem)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if d.BlockSize() == 0 {
		t.Error("Attach returned a Device with BlockSize() == 0")
	}

	got, ok := r.Lookup("disk0")
	if !ok || got != d {
		t.Errorf("Lookup(disk0) = (%v, %v), want (%v, true)", got, ok, d)
	}

	if _, err := r.Attach("disk0", mem); err == nil {
		t.Error("Attach with a duplicate name: want error, got nil")
	}

	r.Detach("disk0")
	if _, ok := r.Lookup("disk0"); ok {
		t.Error("Lookup after Detach: want ok=false")
	}
}

func TestRegistryAttachRejectsNonExt2Device(t *testing.T) {
	mem := newRawMemoryDevice(t)
	r := NewRegistry()
	if _, err := r.Attach("disk0", mem); err == nil {
		t.Fatal("Attach on an unformatted device: want error, got nil")
	}
}
