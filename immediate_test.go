package motion

import (
	"math"
	"testing"
)

func TestImmediateRendererSetFrame(t *testing.T) {
	r := NewImmediateRenderer(BuildGraph(fadeAnimation()))
	if r.DisplayList() != nil {
		t.Error("DisplayList before the first frame should be nil")
	}
	r.SetFrame(15)
	if r.CurrentFrame() != 15 {
		t.Errorf("CurrentFrame = %v, want 15", r.CurrentFrame())
	}
	list := r.DisplayList()
	if list == nil || list.Frame != 15 {
		t.Fatalf("DisplayList = %+v, want frame 15", list)
	}
	if got := firstAlpha(t, list); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Alpha = %v, want 0.5", got)
	}
}

func TestImmediateRendererRemoveAll(t *testing.T) {
	r := NewImmediateRenderer(BuildGraph(fadeAnimation()))
	r.SetFrame(15)
	r.RemoveAll()
	r.SetFrame(30)
	if r.CurrentFrame() != 30 {
		t.Errorf("CurrentFrame = %v, want 30", r.CurrentFrame())
	}
	if r.Graph().Frame() != 15 {
		t.Errorf("graph evaluated frame %v after RemoveAll, want 15", r.Graph().Frame())
	}
	if got := r.DisplayList().Frame; got != 15 {
		t.Errorf("DisplayList frame = %v, want 15", got)
	}
}

func TestImmediateRendererRefresh(t *testing.T) {
	r := NewImmediateRenderer(BuildGraph(fadeAnimation()))
	r.SetFrame(20)
	before := r.DisplayList().Layers[0].Commands[0].Version
	r.Refresh()
	if after := r.DisplayList().Layers[0].Commands[0].Version; after == before {
		t.Error("Refresh kept the cached output")
	}
}
