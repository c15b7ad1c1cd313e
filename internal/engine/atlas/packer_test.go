package atlas

import (
	"testing"

	"github.com/veldtgames/skewline/pkg/geom"
)

func TestAllocateExactFit(t *testing.T) {
	p := NewPacker(64, 64)

	area := p.Allocate(geom.Pt(64, 64))
	if !area.Valid() {
		t.Fatal("exact-fit allocation failed")
	}
	if area.Min != geom.Pt(0, 0) || area.Max != geom.Pt(64, 64) {
		t.Errorf("bounds = %v-%v, want full surface", area.Min, area.Max)
	}

	if p.Allocate(geom.Pt(1, 1)).Valid() {
		t.Error("allocation on a full surface should fail")
	}
}

func TestAllocateFreeReuse(t *testing.T) {
	p := NewPacker(64, 64)

	first := p.Allocate(geom.Pt(64, 32))
	if !first.Valid() {
		t.Fatal("64x32 allocation failed")
	}
	second := p.Allocate(geom.Pt(32, 32))
	if !second.Valid() {
		t.Fatal("32x32 allocation failed")
	}

	p.Free(first)
	reused := p.Allocate(geom.Pt(64, 32))
	if !reused.Valid() {
		t.Fatal("reallocation after free failed")
	}
	if reused.Min != first.Min || reused.Max != first.Max {
		t.Errorf("reuse bounds = %v-%v, want %v-%v", reused.Min, reused.Max, first.Min, first.Max)
	}

	p.Free(second)
	back := p.Allocate(geom.Pt(32, 32))
	if back.Min != second.Min || back.Max != second.Max {
		t.Errorf("second reuse bounds = %v-%v, want %v-%v", back.Min, back.Max, second.Min, second.Max)
	}
}

func TestAllocationsNeverOverlap(t *testing.T) {
	p := NewPacker(128, 128)

	sizes := []geom.Point{
		{X: 64, Y: 64}, {X: 32, Y: 64}, {X: 32, Y: 32}, {X: 16, Y: 16},
		{X: 48, Y: 24}, {X: 8, Y: 8}, {X: 24, Y: 48}, {X: 16, Y: 32},
	}

	var live []Area
	for _, s := range sizes {
		a := p.Allocate(s)
		if !a.Valid() {
			continue
		}
		if got := a.Size(); got != s {
			t.Errorf("allocated size = %v, want %v", got, s)
		}
		live = append(live, a)
	}
	if len(live) < 4 {
		t.Fatalf("expected most allocations to fit, got %d", len(live))
	}

	for i := range live {
		for j := i + 1; j < len(live); j++ {
			ri := geom.Rect{Min: live[i].Min, Max: live[i].Max}
			rj := geom.Rect{Min: live[j].Min, Max: live[j].Max}
			if ri.Overlaps(rj) {
				t.Errorf("areas %d and %d overlap: %v-%v vs %v-%v",
					i, j, live[i].Min, live[i].Max, live[j].Min, live[j].Max)
			}
		}
	}
}

func TestEmptyTracksNetAllocations(t *testing.T) {
	p := NewPacker(64, 64)
	if !p.Empty() {
		t.Error("fresh packer should be empty")
	}

	a := p.Allocate(geom.Pt(16, 16))
	b := p.Allocate(geom.Pt(32, 16))
	if p.Empty() {
		t.Error("packer with live allocations should not be empty")
	}

	p.Free(a)
	if p.Empty() {
		t.Error("one allocation still live")
	}
	p.Free(b)
	if !p.Empty() {
		t.Error("all allocations freed, packer should be empty")
	}

	// Splits are permanent even after freeing.
	if p.NodeCount() == 1 {
		t.Error("expected split nodes to remain after free")
	}
}

func TestAllocateTooLargeFails(t *testing.T) {
	p := NewPacker(32, 32)
	if p.Allocate(geom.Pt(33, 16)).Valid() {
		t.Error("oversized width should fail")
	}
	if p.Allocate(geom.Pt(16, 33)).Valid() {
		t.Error("oversized height should fail")
	}
	if !p.Empty() {
		t.Error("failed allocations must not occupy space")
	}
}

func TestZeroSizeAllocatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("zero-sized allocation should panic")
		}
	}()
	NewPacker(32, 32).Allocate(geom.Pt(0, 8))
}

func TestDoubleFreePanics(t *testing.T) {
	p := NewPacker(32, 32)
	a := p.Allocate(geom.Pt(16, 16))
	p.Free(a)

	defer func() {
		if recover() == nil {
			t.Error("double free should panic")
		}
	}()
	p.Free(a)
}

func TestFreeInvalidAreaPanics(t *testing.T) {
	p := NewPacker(32, 32)

	defer func() {
		if recover() == nil {
			t.Error("freeing an invalid area should panic")
		}
	}()
	p.Free(Area{ID: InvalidNodeID})
}
