package motion

import (
	"context"
	"errors"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestEngine(t *testing.T, a *Animation, cfg Config) (*Engine, *fakeClock) {
	t.Helper()
	clk := &fakeClock{t: time.Unix(1000, 0)}
	e, err := NewEngine(a, cfg, withClock(clk.now))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(e.RemoveAllAnimations)
	return e, clk
}

func scalarValue(t *testing.T, e *Engine, keypath string, frame float64) float64 {
	t.Helper()
	v, ok := e.Value(keypath, frame)
	if !ok {
		t.Fatalf("Value(%q) not found", keypath)
	}
	s, ok := v.(Scalar)
	if !ok {
		t.Fatalf("Value(%q) = %T, want Scalar", keypath, v)
	}
	return float64(s)
}

func TestEngineValue(t *testing.T) {
	e, _ := newTestEngine(t, fadeAnimation(), Config{})
	if got := scalarValue(t, e, "Layer.Transform.Opacity", 15); math.Abs(got-50) > 1e-9 {
		t.Errorf("Value = %v, want 50", got)
	}
	if _, ok := e.Value("Layer.Nothing", 15); ok {
		t.Error("Value found a missing keypath")
	}
	if _, ok := e.Value("Layer..Opacity", 15); ok {
		t.Error("Value accepted an invalid keypath")
	}
}

func TestEngineSelectsDeclarative(t *testing.T) {
	e, _ := newTestEngine(t, fadeAnimation(), Config{})
	if e.Backend() != BackendDeclarative {
		t.Fatalf("Backend = %v, want declarative (%v)", e.Backend(), e.CompatibilityReport())
	}
	e.SetFrame(15)
	if got := e.CurrentFrame(); got != 15 {
		t.Errorf("CurrentFrame = %v, want 15", got)
	}
	if got := firstAlpha(t, e.DisplayList()); math.Abs(got-0.5) > 1e-3 {
		t.Errorf("Alpha = %v, want 0.5", got)
	}
}

func TestEngineFallsBackToImmediate(t *testing.T) {
	e, _ := newTestEngine(t, withRoundedCorners(fadeAnimation()), Config{})
	if e.Backend() != BackendImmediate {
		t.Fatalf("Backend = %v, want immediate", e.Backend())
	}
	if e.CompatibilityReport().Compatible {
		t.Error("report should list the rounded corners")
	}
	e.SetFrame(15)
	if got := firstAlpha(t, e.DisplayList()); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Alpha = %v, want 0.5", got)
	}
}

func TestEnginePreferImmediate(t *testing.T) {
	e, _ := newTestEngine(t, fadeAnimation(), Config{Backend: PreferImmediate})
	if e.Backend() != BackendImmediate {
		t.Errorf("Backend = %v, want immediate", e.Backend())
	}
	if !e.CompatibilityReport().Compatible {
		t.Error("report should still be computed")
	}
}

func TestEngineClosureOverrideFallsBack(t *testing.T) {
	e, _ := newTestEngine(t, fadeAnimation(), Config{})
	err := e.SetValueOverride("Layer.Transform.Opacity", Closure(func(frame float64) Scalar { return 25 }))
	if err != nil {
		t.Fatal(err)
	}
	if e.Backend() != BackendImmediate {
		t.Errorf("Backend = %v, want immediate", e.Backend())
	}
	if got := scalarValue(t, e, "Layer.Transform.Opacity", 15); got != 25 {
		t.Errorf("Value = %v, want 25", got)
	}

	if err := e.SetValueOverride("Layer.Transform.Opacity", nil); err != nil {
		t.Fatal(err)
	}
	if e.Backend() != BackendDeclarative {
		t.Errorf("Backend after removal = %v, want declarative", e.Backend())
	}
	if got := scalarValue(t, e, "Layer.Transform.Opacity", 15); math.Abs(got-50) > 1e-9 {
		t.Errorf("Value after removal = %v, want 50", got)
	}
}

func TestEngineNilClosureIsNotInstalled(t *testing.T) {
	e, _ := newTestEngine(t, fadeAnimation(), Config{})
	if err := e.SetValueOverride("Layer.Transform.Opacity", Closure[Scalar](nil)); err != nil {
		t.Fatal(err)
	}
	if e.Backend() != BackendDeclarative {
		t.Errorf("Backend = %v, want declarative", e.Backend())
	}
	if got := scalarValue(t, e, "Layer.Transform.Opacity", 15); math.Abs(got-50) > 1e-9 {
		t.Errorf("Value = %v, want 50", got)
	}
	e.SetFrame(15)
	if got := firstAlpha(t, e.DisplayList()); math.Abs(got-0.5) > 1e-3 {
		t.Errorf("Alpha = %v, want 0.5", got)
	}
}

func TestEngineFixedOverrideStaysDeclarative(t *testing.T) {
	e, _ := newTestEngine(t, fadeAnimation(), Config{})
	if err := e.SetValueOverride("Layer.Transform.Opacity", Fixed(Scalar(80))); err != nil {
		t.Fatal(err)
	}
	if e.Backend() != BackendDeclarative {
		t.Fatalf("Backend = %v, want declarative", e.Backend())
	}
	e.SetFrame(5)
	if got := firstAlpha(t, e.DisplayList()); math.Abs(got-0.8) > 1e-3 {
		t.Errorf("Alpha = %v, want 0.8", got)
	}
}

func TestEngineMismatchedOverrideHasNoEffect(t *testing.T) {
	e, _ := newTestEngine(t, fadeAnimation(), Config{Backend: PreferImmediate})
	if err := e.SetValueOverride("Layer.Transform.Opacity", Fixed(Vec2{1, 2})); err != nil {
		t.Fatal(err)
	}
	if got := scalarValue(t, e, "Layer.Transform.Opacity", 15); math.Abs(got-50) > 1e-9 {
		t.Errorf("Value = %v, want 50", got)
	}
}

func TestEngineInvalidOverrideKeyPath(t *testing.T) {
	e, _ := newTestEngine(t, fadeAnimation(), Config{})
	if err := e.SetValueOverride("", Fixed(Scalar(1))); !errors.Is(err, ErrInvalidKeyPath) {
		t.Errorf("err = %v, want ErrInvalidKeyPath", err)
	}
}

func TestEngineWildcardOverride(t *testing.T) {
	e, _ := newTestEngine(t, fadeAnimation(), Config{})
	if err := e.SetValueOverride("**.Color", Fixed(ColorBlack)); err != nil {
		t.Fatal(err)
	}
	if e.Backend() != BackendImmediate {
		t.Errorf("Backend = %v, want immediate", e.Backend())
	}
	e.SetFrame(30)
	if got := e.DisplayList().Layers[0].Commands[0].Paint.Color; got != ColorBlack {
		t.Errorf("Color = %v, want black", got)
	}
}

func TestEngineAdvance(t *testing.T) {
	e, _ := newTestEngine(t, fadeAnimation(), Config{Backend: PreferImmediate})
	e.Play(context.Background())
	e.Advance(500 * time.Millisecond)
	if got := e.CurrentFrame(); math.Abs(got-15) > 1e-9 {
		t.Errorf("CurrentFrame = %v, want 15", got)
	}
	e.Pause()
	e.Advance(time.Second)
	if got := e.CurrentFrame(); math.Abs(got-15) > 1e-9 {
		t.Errorf("paused CurrentFrame = %v, want 15", got)
	}
}

func TestEngineAdvanceOnceStops(t *testing.T) {
	e, _ := newTestEngine(t, fadeAnimation(), Config{Backend: PreferImmediate, Loop: LoopOnce})
	e.Play(context.Background())
	e.Advance(3 * time.Second)
	if e.Playing() {
		t.Error("single play still running")
	}
	if got := e.CurrentFrame(); got != 60 {
		t.Errorf("CurrentFrame = %v, want 60", got)
	}
}

func TestEnginePlayDeclarative(t *testing.T) {
	e, clk := newTestEngine(t, fadeAnimation(), Config{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	e.Play(ctx)
	if !e.Playing() {
		t.Fatal("engine not playing")
	}
	clk.advance(time.Second)
	if got := e.CurrentFrame(); math.Abs(got-30) > 1e-9 {
		t.Errorf("CurrentFrame = %v, want 30", got)
	}
	e.Pause()
	if e.Playing() {
		t.Error("engine still playing after Pause")
	}
}

func TestEnginePlayAfterContextDone(t *testing.T) {
	e, clk := newTestEngine(t, fadeAnimation(), Config{})
	ctx, cancel := context.WithCancel(context.Background())
	e.Play(ctx)
	cancel()
	waitFor(t, "compositor to stop", func() bool { return !e.comp.running() })

	e.Play(context.Background())
	clk.advance(500 * time.Millisecond)
	waitFor(t, "display to follow the clock", func() bool {
		l := e.DisplayList()
		return l != nil && l.Frame == e.CurrentFrame()
	})
	if got := e.CurrentFrame(); math.Abs(got-15) > 1e-9 {
		t.Errorf("CurrentFrame = %v, want 15", got)
	}
}

func TestEngineRemoveAllWhilePlaying(t *testing.T) {
	e, clk := newTestEngine(t, fadeAnimation(), Config{})
	e.SetFrame(15)
	e.Play(context.Background())
	clk.advance(500 * time.Millisecond)
	e.RemoveAllAnimations()

	if e.Backend() != BackendImmediate {
		t.Errorf("Backend = %v, want immediate", e.Backend())
	}
	if e.Playing() {
		t.Error("engine still playing after removal")
	}
	if got := e.CurrentFrame(); got != 15 {
		t.Errorf("CurrentFrame = %v, want 15", got)
	}
	if got := firstAlpha(t, e.DisplayList()); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Alpha = %v, want 0.5", got)
	}

	e.SetFrame(45)
	e.Play(context.Background())
	e.Advance(time.Second)
	if got := e.CurrentFrame(); got != 15 {
		t.Errorf("CurrentFrame after SetFrame = %v, want frozen 15", got)
	}
}

func TestEngineRemoveAllAnimations(t *testing.T) {
	e, _ := newTestEngine(t, fadeAnimation(), Config{})
	e.SetFrame(15)
	e.RemoveAllAnimations()
	list := e.DisplayList()
	if got := firstAlpha(t, list); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Alpha = %v, want 0.5", got)
	}
	e.SetFrame(30)
	if got := firstAlpha(t, e.DisplayList()); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Alpha after SetFrame = %v, want frozen 0.5", got)
	}
}

func TestEngineForceDisplayUpdate(t *testing.T) {
	e, _ := newTestEngine(t, fadeAnimation(), Config{Backend: PreferImmediate})
	e.SetFrame(15)
	fill := mustFind(t, e.Graph(), "Layer", "Fill 1")
	version := e.Graph().Output(fill).Version
	e.ForceDisplayUpdate()
	if v := e.Graph().Output(fill).Version; v != version+1 {
		t.Errorf("Version = %d, want %d", v, version+1)
	}
}

func TestNewEngineErrors(t *testing.T) {
	if _, err := NewEngine(nil, Config{}); !errors.Is(err, ErrNoAnimation) {
		t.Errorf("nil animation: err = %v, want ErrNoAnimation", err)
	}
	bad := fadeAnimation()
	bad.FrameRate = 0
	if _, err := NewEngine(bad, Config{}); !errors.Is(err, ErrInvalidAnimation) {
		t.Errorf("bad animation: err = %v, want ErrInvalidAnimation", err)
	}
	if _, err := NewEngine(fadeAnimation(), Config{Loop: "sometimes"}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("bad config: err = %v, want ErrInvalidConfig", err)
	}
}

func TestEngineSnapshotPNG(t *testing.T) {
	for _, backend := range []BackendPreference{PreferAuto, PreferImmediate} {
		t.Run(string(backend), func(t *testing.T) {
			e, _ := newTestEngine(t, fadeAnimation(), Config{Backend: backend})
			path := filepath.Join(t.TempDir(), "frame.png")
			if err := e.SnapshotPNG(path, 30); err != nil {
				t.Fatal(err)
			}
			f, err := os.Open(path)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			img, err := png.Decode(f)
			if err != nil {
				t.Fatal(err)
			}
			if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
				t.Fatalf("size = %v, want 100x100", b)
			}
			r, g, _, a := img.At(50, 50).RGBA()
			if r>>8 < 250 || g>>8 > 5 || a>>8 < 250 {
				t.Errorf("centre = %v, want opaque red", img.At(50, 50))
			}
			if _, _, _, a := img.At(5, 5).RGBA(); a != 0 {
				t.Errorf("corner alpha = %d, want 0", a)
			}
			if e.CurrentFrame() != 0 {
				t.Errorf("snapshot moved the displayed frame to %v", e.CurrentFrame())
			}
		})
	}
}
