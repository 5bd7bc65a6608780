// Package motion plays keyframed vector animations on [Ebitengine].
//
// An [Animation] is a decoded scene: layers holding shape items, a
// transform per layer and keyframed properties. [NewEngine] turns it into
// a node graph and picks one of two backends to draw it.
//
// # Quick start
//
// [Engine] implements [ebiten.Game], so the simplest host is:
//
//	e, err := motion.NewEngine(anim, motion.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	e.Play(ctx)
//	ebiten.RunGame(e)
//
// For full control, call [Engine.SetFrame] or [Engine.Advance] from your
// own Update and [Engine.Draw] from your own Draw.
//
// # Backends
//
// The immediate backend walks the graph on the calling goroutine every
// time a frame is set. Only nodes whose properties change at that frame,
// or whose inputs rebuilt, produce new output.
//
// The declarative backend compiles every animated property into a curve
// normalized to its layer window and hands the set to a compositor
// goroutine that samples it on its own clock (tweens via [gween]). It is
// used when [CheckCompatibility] accepts the animation and its overrides;
// anything else falls back to immediate. [Engine.Backend] and
// [Engine.CompatibilityReport] tell which one is active and why.
//
// # Keypaths and overrides
//
// Properties are addressed by dot keypaths of layer, item and property
// names, with "*" matching one name and "**" any number:
//
//	e.SetValueOverride("Layer.Fill 1.Color", motion.Fixed(motion.ColorBlack))
//	v, ok := e.Value("Layer.Transform.Opacity", 15)
//
// # Output
//
// [Engine.Draw] paints through a [Viewport] that fits the composition into
// the screen by [ContentMode]. Plain fills and strokes are retained as
// ebiten triangles; gradients, dashes and masks are rasterized with [gg],
// which also renders headless snapshots ([Engine.SnapshotPNG]).
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [gg]: https://github.com/gogpu/gg
package motion
