package motion

import "testing"

func TestLayerTargetsExactSize(t *testing.T) {
	var p layerTargets
	img := p.acquire(100, 50)
	defer p.release(img)

	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("size = %dx%d, want 100x50", b.Dx(), b.Dy())
	}
}

func TestLayerTargetsReuse(t *testing.T) {
	var p layerTargets
	a := p.acquire(64, 64)
	p.release(a)
	if b := p.acquire(64, 64); b != a {
		t.Error("expected the released image back")
	}
}

func TestLayerTargetsNested(t *testing.T) {
	var p layerTargets
	a := p.acquire(32, 32)
	b := p.acquire(32, 32)
	if a == b {
		t.Error("two live targets share an image")
	}
	p.release(a)
	p.release(b)
	if len(p.free) != 2 {
		t.Errorf("free = %d, want 2", len(p.free))
	}
}

func TestLayerTargetsResize(t *testing.T) {
	var p layerTargets
	old := p.acquire(32, 32)
	p.release(old)
	img := p.acquire(64, 32)
	if img == old {
		t.Error("resize reused an image of the old size")
	}
	if len(p.free) != 0 {
		t.Errorf("free = %d after resize, want 0", len(p.free))
	}
	p.release(old) // stale size is dropped
	if len(p.free) != 0 {
		t.Errorf("free = %d, stale image was pooled", len(p.free))
	}
}

func TestLayerTargetsReleaseNil(t *testing.T) {
	var p layerTargets
	p.release(nil)
}
