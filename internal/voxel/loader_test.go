package voxel

import (
	"strings"
	"testing"
)

func TestReadParsesRecords(t *testing.T) {
	in := "0 0 0 ff0000\n1 0 0 0000ff\n"
	tr, err := Read(strings.NewReader(in), LoadConfig{Depth: 3})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	// Input colors are 0xRRGGBB with swapped byte order on disk, so ff0000
	// reads back as opaque blue and 0000ff as opaque red.
	got, ok := tr.ColorAt(0, 0, 0, 3)
	if !ok || got != 0xff0000ff {
		t.Errorf("voxel 0 = %#x, %v, want 0xff0000ff", got, ok)
	}
	got, ok = tr.ColorAt(1, 0, 0, 3)
	if !ok || got != 0xffff0000 {
		t.Errorf("voxel 1 = %#x, %v, want 0xffff0000", got, ok)
	}
}

func TestReadStopsAtShortRecord(t *testing.T) {
	in := "0 0 0 ffffff\n1 1 1 123456\n2 2\n"
	tr, err := Read(strings.NewReader(in), LoadConfig{Depth: 3})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if _, ok := tr.ColorAt(1, 1, 1, 3); !ok {
		t.Error("record before the short one was dropped")
	}
	if _, ok := tr.ColorAt(2, 2, 2, 3); ok {
		t.Error("short record was ingested")
	}
}

func TestReadDownsampleShift(t *testing.T) {
	in := "4 4 4 808080\n"
	tr, err := Read(strings.NewReader(in), LoadConfig{Depth: 3, DownsampleShift: 2})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if tr.Depth != 3 {
		t.Errorf("tree depth = %d, want 3", tr.Depth)
	}
	// Coordinates shift right by 2 and the tree is populated at depth 1.
	got, ok := tr.ColorAt(1, 1, 1, 1)
	if !ok || got != 0xff808080 {
		t.Errorf("downsampled voxel = %#x, %v, want 0xff808080", got, ok)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("does-not-exist.vxl", LoadConfig{Depth: 3}); err == nil {
		t.Error("Load on a missing file succeeded")
	}
}
