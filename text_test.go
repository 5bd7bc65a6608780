package motion

import (
	"math"
	"strings"
	"testing"
)

func TestTTFFontsLoadInvalid(t *testing.T) {
	f := NewTTFFonts()
	if err := f.Load("Broken", []byte("not a font")); err == nil {
		t.Error("expected error for invalid font data")
	}
	if face := f.Face("Broken", 12); face != nil {
		t.Error("failed load registered a face")
	}
}

func TestTTFFontsMissingFamily(t *testing.T) {
	if face := NewTTFFonts().Face("Nope", 12); face != nil {
		t.Errorf("Face = %v, want nil", face)
	}
}

func TestTextCacheFallbackFace(t *testing.T) {
	buf := captureLogs(t)
	tc := newTextCache(NewTTFFonts())
	doc := &TextDocument{Text: "hi", Font: "Helvetica", Size: 26}

	face, scale := tc.face(doc)
	if face == nil {
		t.Fatal("fallback face is nil")
	}
	if math.Abs(scale-2) > 1e-9 {
		t.Errorf("scale = %v, want 2", scale)
	}
	tc.face(doc)
	if n := strings.Count(buf.String(), "missing font"); n != 1 {
		t.Errorf("warned %d times, want once", n)
	}
}

func TestTextCacheNilProvider(t *testing.T) {
	tc := newTextCache(nil)
	_, scale := tc.face(&TextDocument{Size: 13})
	if scale != 1 {
		t.Errorf("scale = %v, want 1", scale)
	}
}
