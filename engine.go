package motion

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrNoAnimation is returned by NewEngine for a nil animation.
var ErrNoAnimation = errors.New("motion: no animation")

// valueOverride is one installed SetValueOverride call.
type valueOverride struct {
	path     KeyPath
	provider ValueProvider
}

type options struct {
	images        ImageProvider
	fonts         FontProvider
	assetDir      string
	screenshotDir string
	now           func() time.Time
}

// Option configures an Engine.
type Option func(*options)

// WithImageProvider sets the source of image layer pixels.
func WithImageProvider(p ImageProvider) Option {
	return func(o *options) { o.images = p }
}

// WithFontProvider sets the source of text faces. Without one, text draws
// with a built-in bitmap face.
func WithFontProvider(p FontProvider) Option {
	return func(o *options) { o.fonts = p }
}

// WithAssetDir sets the directory relative image asset paths are read from.
// Without an image provider the engine draws from a DirImages on dir.
func WithAssetDir(dir string) Option {
	return func(o *options) { o.assetDir = dir }
}

// WithScreenshotDir sets where Screenshot writes its files.
func WithScreenshotDir(dir string) Option {
	return func(o *options) { o.screenshotDir = dir }
}

// withClock replaces the compositor's wall clock.
func withClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Engine plays one animation. It picks the declarative backend when the
// animation and its overrides allow it and the immediate backend otherwise.
//
// An Engine is driven from one goroutine, typically ebiten's game loop. It
// implements ebiten.Game.
type Engine struct {
	anim *Animation
	cfg  Config
	opts options

	g         *Graph
	overrides []valueOverride
	immediate *ImmediateRenderer
	comp      *Compositor
	backend   Backend
	report    CompatibilityReport
	removed   bool

	rng     playRange
	frame   float64
	pinned  float64 // last frame set by SetFrame, Pause or Advance
	playing bool
	ctx     context.Context

	bg        Color
	viewport  *Viewport
	canvas    *Canvas
	snapshots *snapshotRenderer

	script          *FrameScript
	screenshotQueue []string
	overlay         *statsOverlay
}

// NewEngine validates anim and cfg, builds the node graph and selects a
// backend. The first frame is the animation's start frame.
func NewEngine(anim *Animation, cfg Config, opts ...Option) (*Engine, error) {
	if anim == nil {
		return nil, ErrNoAnimation
	}
	if err := anim.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	bg, _ := cfg.background()

	e := &Engine{
		anim:  anim,
		cfg:   cfg,
		opts:  options{screenshotDir: "screenshots"},
		bg:    bg,
		frame:  anim.StartFrame,
		pinned: anim.StartFrame,
		ctx:    context.Background(),
	}
	for _, o := range opts {
		o(&e.opts)
	}

	rate := anim.FrameRate
	if cfg.FrameRate > 0 {
		rate = cfg.FrameRate
	}
	e.rng = playRange{start: anim.StartFrame, end: anim.EndFrame, rate: rate, loop: cfg.Loop}

	e.g = BuildGraph(anim)
	for _, r := range e.g.repairedProperties() {
		assertf(cfg.Debug, "repaired keyframes: %s", r)
	}
	if cfg.Debug {
		debugCheckParentDepth(e.g)
	}
	e.immediate = NewImmediateRenderer(e.g)
	e.immediate.debug = cfg.Debug

	e.viewport = NewViewport(anim.Bounds(), anim.Bounds(), cfg.ContentMode)
	if e.opts.images == nil && e.opts.assetDir != "" {
		e.opts.images = NewDirImages(e.opts.assetDir)
	}
	e.canvas = NewCanvas(e.opts.images, e.opts.fonts)
	e.snapshots = newSnapshotRenderer(e.opts.assetDir)

	e.selectBackend()
	return e, nil
}

// selectBackend stops the compositor, re-runs the compatibility check and
// installs the backend for the current frame.
func (e *Engine) selectBackend() {
	e.stopCompositor()
	e.report = CheckCompatibility(e.g, e.overrides)
	e.backend = BackendImmediate

	switch {
	case e.cfg.Backend == PreferImmediate:
	case !e.report.Compatible:
		Logger().Warn("declarative backend unavailable, using immediate", "reasons", e.report.String())
	default:
		scene, err := compileScene(e.g, e.cfg.BakeStep)
		if err != nil {
			Logger().Warn("curve compilation failed, using immediate", "err", err)
			break
		}
		e.comp = newCompositor(scene, e.rng, e.cfg.TickRate)
		if e.opts.now != nil {
			e.comp.now = e.opts.now
		}
		e.backend = BackendDeclarative
	}
	Logger().Info("backend selected", "animation", e.anim.Name, "backend", e.backend.String())

	if e.comp != nil {
		e.comp.SetTimeOffset(e.frame)
		if e.playing {
			e.comp.Start(e.ctx)
			e.comp.Play(e.cfg.Speed)
		}
		return
	}
	e.immediate.SetFrame(e.frame)
}

// stopCompositor halts the compositor goroutine and keeps its frame. The
// graph may be mutated after it returns.
func (e *Engine) stopCompositor() {
	if e.comp == nil {
		return
	}
	e.frame = e.comp.CurrentFrame()
	e.comp.Stop()
	e.comp.RemoveAll()
	e.comp = nil
}

// Backend returns the active backend.
func (e *Engine) Backend() Backend { return e.backend }

// CompatibilityReport returns the result of the last compatibility check.
func (e *Engine) CompatibilityReport() CompatibilityReport { return e.report }

// Animation returns the played animation.
func (e *Engine) Animation() *Animation { return e.anim }

// Graph returns the node graph. It is only current on the immediate backend.
func (e *Engine) Graph() *Graph { return e.g }

// Viewport returns the mapping used by Draw.
func (e *Engine) Viewport() *Viewport { return e.viewport }

// SetFrame stops playback and shows frame. It does nothing after
// RemoveAllAnimations.
func (e *Engine) SetFrame(frame float64) {
	if e.removed {
		return
	}
	e.playing = false
	e.frame = frame
	e.pinned = frame
	if e.comp != nil {
		e.comp.SetTimeOffset(frame)
		return
	}
	e.immediate.SetFrame(frame)
}

// CurrentFrame returns the displayed frame. On the declarative backend it
// is the compositor's live position.
func (e *Engine) CurrentFrame() float64 {
	if e.comp != nil {
		return e.comp.CurrentFrame()
	}
	return e.frame
}

// Playing reports whether playback is running.
func (e *Engine) Playing() bool {
	if e.comp != nil {
		return e.playing && e.comp.Playing()
	}
	return e.playing
}

// Play starts playback from the current frame at the configured speed. A
// finished single play restarts from the beginning. The compositor stops
// when ctx is done. Play does nothing after RemoveAllAnimations.
func (e *Engine) Play(ctx context.Context) {
	if e.removed {
		return
	}
	e.ctx = ctx
	frame := e.CurrentFrame()
	if e.rng.finished(frame, e.cfg.Speed) {
		frame = e.rng.start
		if e.cfg.Speed < 0 {
			frame = e.rng.end
		}
		e.SetFrame(frame)
	}
	e.playing = true
	if e.comp != nil {
		e.comp.Start(ctx)
		e.comp.Play(e.cfg.Speed)
	}
}

// Pause stops playback at the current frame.
func (e *Engine) Pause() {
	e.playing = false
	if e.comp != nil {
		e.comp.Pause()
		e.frame = e.comp.CurrentFrame()
	}
	e.pinned = e.frame
}

// Advance moves immediate playback forward by dt. The compositor keeps its
// own clock, so Advance does nothing on the declarative backend.
func (e *Engine) Advance(dt time.Duration) {
	if !e.playing || e.comp != nil {
		return
	}
	raw := e.frame + dt.Seconds()*e.cfg.Speed*e.rng.rate
	if e.rng.finished(raw, e.cfg.Speed) {
		e.playing = false
	}
	e.frame = e.rng.wrap(raw)
	e.pinned = e.frame
	e.immediate.SetFrame(e.frame)
}

// SetValueOverride installs provider on every property addressed by
// keypath, replacing an earlier provider for the same keypath. A nil
// provider removes it. Providers whose value type does not match a
// property, and closures with no function, leave it unchanged. The backend is chosen again afterwards.
func (e *Engine) SetValueOverride(keypath string, provider ValueProvider) error {
	k, err := ParseKeyPath(keypath)
	if err != nil {
		return err
	}
	e.stopCompositor()

	kept := e.overrides[:0]
	for _, o := range e.overrides {
		if o.path.String() != k.String() {
			kept = append(kept, o)
		}
	}
	e.overrides = kept
	if provider != nil {
		e.overrides = append(e.overrides, valueOverride{path: k, provider: provider})
	}
	e.applyOverrides()

	if e.removed {
		return nil
	}
	e.selectBackend()
	return nil
}

// applyOverrides reinstalls every override in call order. The compositor
// must not be running.
func (e *Engine) applyOverrides() {
	e.g.eachProperty(func(ref propertyRef) { ref.prop.clearOverride() })
	for _, o := range e.overrides {
		matched, installed := 0, 0
		e.g.eachProperty(func(ref propertyRef) {
			if !o.path.Matches(ref.names) {
				return
			}
			matched++
			if ref.prop.setOverride(o.provider) {
				installed++
				return
			}
			Logger().Debug("override rejected", "keypath", o.path.String(), "property", joinNames(ref.names))
		})
		Logger().Debug("override installed", "keypath", o.path.String(), "provider", o.provider.Kind().String(),
			"matched", matched, "installed", installed)
	}
}

// Value returns the value of the first property addressed by keypath at
// composition frame. Overrides apply. Caches are not touched.
func (e *Engine) Value(keypath string, frame float64) (any, bool) {
	k, err := ParseKeyPath(keypath)
	if err != nil {
		return nil, false
	}
	var (
		v     any
		found bool
	)
	e.g.eachProperty(func(ref propertyRef) {
		if found || !k.Matches(ref.names) {
			return
		}
		v, found = ref.prop.AnyValue(e.g.layerFrame(ref.node, frame)), true
	})
	return v, found
}

// ForceDisplayUpdate drops every cache, including retained shapes and
// loaded images, and redraws the current frame.
func (e *Engine) ForceDisplayUpdate() {
	e.canvas.Reset()
	if r, ok := e.opts.images.(interface{ Reset() }); ok {
		r.Reset()
	}
	e.snapshots = newSnapshotRenderer(e.opts.assetDir)
	if e.removed {
		return
	}
	if e.comp != nil {
		e.stopCompositor()
		e.g.ForceUpdate()
		e.selectBackend()
		return
	}
	e.immediate.Refresh()
}

// RemoveAllAnimations stops every per-frame update and freezes the display
// on the immediate backend. A running compositor is dropped and the last
// frame set by SetFrame, Pause or Advance stays on screen.
func (e *Engine) RemoveAllAnimations() {
	if e.removed {
		return
	}
	e.removed = true
	e.playing = false
	if e.comp != nil {
		e.stopCompositor()
		e.frame = e.pinned
		e.immediate.SetFrame(e.frame)
	}
	e.backend = BackendImmediate
	e.immediate.RemoveAll()
}

// DisplayList returns the list Draw paints, or nil when nothing has been
// evaluated.
func (e *Engine) DisplayList() *DisplayList {
	if e.comp != nil {
		if l := e.comp.DisplayList(); l != nil {
			return l
		}
	}
	return e.immediate.DisplayList()
}

// Update steps the attached frame script and advances immediate playback
// by one tick. It implements
// ebiten.Game.
func (e *Engine) Update() error {
	if e.script != nil {
		e.script.step(e)
	}
	tps := ebiten.TPS()
	if tps <= 0 {
		tps = 60
	}
	e.Advance(time.Second / time.Duration(tps))
	if e.cfg.Debug {
		if e.overlay == nil {
			e.overlay = newStatsOverlay()
		}
		e.overlay.update(1/float64(tps), e)
	}
	return nil
}

// Draw paints the current frame into screen through the viewport. It
// implements ebiten.Game.
func (e *Engine) Draw(screen *ebiten.Image) {
	b := screen.Bounds()
	e.viewport.SetTarget(Rect{X: float64(b.Min.X), Y: float64(b.Min.Y), Width: float64(b.Dx()), Height: float64(b.Dy())})
	if e.bg.A > 0 {
		screen.Fill(e.bg.toRGBA())
	}
	e.canvas.Draw(screen, e.DisplayList(), e.viewport.Matrix())
	e.flushScreenshots(screen)
	if e.overlay != nil {
		e.overlay.draw(screen)
	}
}

// Layout keeps the outside size. It implements ebiten.Game.
func (e *Engine) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// Snapshot rasterizes frame headlessly at the composition size. Text layers
// are not drawn. The displayed frame does not change.
func (e *Engine) Snapshot(frame float64) (*image.RGBA, error) {
	b := e.anim.Bounds()
	w, h := int(b.Width+0.5), int(b.Height+0.5)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("motion: snapshot: empty composition %vx%v", b.Width, b.Height)
	}
	view := NewViewport(b, Rect{Width: float64(w), Height: float64(h)}, ContentScaleToFill).Matrix()
	var img *image.RGBA
	e.evaluate(frame, func(list *DisplayList) {
		img = e.snapshots.render(list, w, h, view, e.bg)
	})
	return img, nil
}

// evaluate calls fn with the display list of frame without disturbing the
// displayed state.
func (e *Engine) evaluate(frame float64, fn func(list *DisplayList)) {
	switch {
	case e.comp != nil:
		var list DisplayList
		e.comp.mu.Lock()
		defer e.comp.mu.Unlock()
		if e.comp.scene != nil {
			tracks := e.comp.tracks
			s := sampler(func(cv *Curve) []float64 {
				return tracks[cv].sample(cv.Progress(frame))
			})
			e.comp.scene.emit(frame, s, 0, &list)
		}
		fn(&list)
	case e.removed:
		fn(e.immediate.DisplayList())
	default:
		shown := e.frame
		e.immediate.SetFrame(frame)
		fn(e.immediate.DisplayList())
		e.immediate.SetFrame(shown)
	}
}

// SnapshotPNG writes Snapshot(frame) to path.
func (e *Engine) SnapshotPNG(path string, frame float64) error {
	img, err := e.Snapshot(frame)
	if err != nil {
		return err
	}
	return writePNG(path, img)
}
