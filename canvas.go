package motion

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// ImageProvider resolves image assets for image layers. A nil result logs a
// warning once and draws nothing.
type ImageProvider interface {
	Image(asset ImageAsset) *ebiten.Image
}

// customShape is a shape painted through gg, kept as a device-space image.
type customShape struct {
	version uint64
	view    [6]float64
	img     *ebiten.Image
	x, y    int
}

// Canvas draws display lists onto ebiten images. Plain fills and strokes
// are triangulated once per node version and drawn with DrawTriangles;
// gradients and dashes are rasterized by gg; masked layers are composited
// offscreen. A Canvas is not safe for concurrent use.
type Canvas struct {
	images  ImageProvider
	text    *textCache
	targets layerTargets

	shapes  map[NodeID]*retainedShape
	customs map[NodeID]*customShape
	seen    map[NodeID]bool
	warned  map[string]bool
	scratch []ebiten.Vertex
}

// NewCanvas returns a canvas resolving assets through images and fonts.
// Either may be nil.
func NewCanvas(images ImageProvider, fonts FontProvider) *Canvas {
	return &Canvas{
		images:  images,
		text:    newTextCache(fonts),
		shapes:  make(map[NodeID]*retainedShape),
		customs: make(map[NodeID]*customShape),
		seen:    make(map[NodeID]bool),
		warned:  make(map[string]bool),
	}
}

// maskBlend keeps the destination where the source has alpha.
var maskBlend = ebiten.Blend{
	BlendFactorSourceRGB:        ebiten.BlendFactorZero,
	BlendFactorSourceAlpha:      ebiten.BlendFactorZero,
	BlendFactorDestinationRGB:   ebiten.BlendFactorSourceAlpha,
	BlendFactorDestinationAlpha: ebiten.BlendFactorSourceAlpha,
	BlendOperationRGB:           ebiten.BlendOperationAdd,
	BlendOperationAlpha:         ebiten.BlendOperationAdd,
}

// Draw paints list onto dst. view maps composition coordinates to dst
// pixels.
func (c *Canvas) Draw(dst *ebiten.Image, list *DisplayList, view [6]float64) {
	clear(c.seen)
	if list == nil {
		return
	}
	for i := range list.Layers {
		dl := &list.Layers[i]
		if len(dl.Masks) == 0 {
			c.drawCommands(dst, dl.Commands, view, dl.Blend.EbitenBlend())
			continue
		}
		b := dst.Bounds()
		off := c.targets.acquire(b.Dx(), b.Dy())
		c.drawCommands(off, dl.Commands, view, ebiten.BlendSourceOver)
		if mask := c.maskImage(dl.Masks, b.Dx(), b.Dy(), view); mask != nil {
			var op ebiten.DrawImageOptions
			op.Blend = maskBlend
			off.DrawImage(mask, &op)
			mask.Deallocate()
		}
		var op ebiten.DrawImageOptions
		op.Blend = dl.Blend.EbitenBlend()
		dst.DrawImage(off, &op)
		c.targets.release(off)
	}
	c.evict()
}

func (c *Canvas) drawCommands(dst *ebiten.Image, cmds []DrawCommand, view [6]float64, blend ebiten.Blend) {
	for i := range cmds {
		cmd := &cmds[i]
		c.seen[cmd.Node] = true
		switch cmd.Type {
		case CommandShape:
			if cmd.Paint.needsCustomCompositing() {
				c.drawCustom(dst, cmd, view, blend)
			} else {
				c.drawRetained(dst, cmd, view, blend)
			}
		case CommandText:
			ct := c.text.get(cmd.Node, cmd.Text)
			if ct.img == nil {
				continue
			}
			op := &ebiten.DrawImageOptions{GeoM: ct.geoM(cmd.Transform, view), Blend: blend}
			op.ColorScale.ScaleAlpha(float32(clamp01(cmd.Alpha)))
			op.Filter = ebiten.FilterLinear
			dst.DrawImage(ct.img, op)
		case CommandImage:
			c.drawImage(dst, cmd, view, blend)
		}
	}
}

func (c *Canvas) drawImage(dst *ebiten.Image, cmd *DrawCommand, view [6]float64, blend ebiten.Blend) {
	if cmd.Image == nil || c.images == nil {
		return
	}
	img := c.images.Image(*cmd.Image)
	if img == nil {
		if !c.warned[cmd.Image.ID] {
			c.warned[cmd.Image.ID] = true
			Logger().Warn("missing image asset", "asset", cmd.Image.ID)
		}
		return
	}
	op := &ebiten.DrawImageOptions{Blend: blend, Filter: ebiten.FilterLinear}
	b := img.Bounds()
	if cmd.Image.Width > 0 && cmd.Image.Height > 0 && b.Dx() > 0 && b.Dy() > 0 {
		op.GeoM.Scale(cmd.Image.Width/float64(b.Dx()), cmd.Image.Height/float64(b.Dy()))
	}
	op.GeoM.Concat(affineGeoM(cmd.Transform))
	op.GeoM.Concat(affineGeoM(view))
	op.ColorScale.ScaleAlpha(float32(clamp01(cmd.Alpha)))
	dst.DrawImage(img, op)
}

// drawRetained draws a solid fill or stroke from its cached triangulation.
func (c *Canvas) drawRetained(dst *ebiten.Image, cmd *DrawCommand, view [6]float64, blend ebiten.Blend) {
	rs, ok := c.shapes[cmd.Node]
	if !ok || rs.version != cmd.Version {
		rs = triangulate(cmd)
		c.shapes[cmd.Node] = rs
	}
	if len(rs.indices) == 0 {
		return
	}
	p := cmd.Paint
	tint := p.Color.clamped()
	tint.A *= clamp01(p.Opacity * cmd.Alpha)
	c.scratch = rs.project(c.scratch[:0], view, tint)
	var op ebiten.DrawTrianglesOptions
	op.Blend = blend
	op.FillRule = rs.fillRule
	op.AntiAlias = true
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	dst.DrawTriangles(c.scratch, rs.indices, ensureWhitePixel(), &op)
}

// drawCustom paints a gradient or dashed shape through gg into a cropped
// device-space image and draws it.
func (c *Canvas) drawCustom(dst *ebiten.Image, cmd *DrawCommand, view [6]float64, blend ebiten.Blend) {
	cs, ok := c.customs[cmd.Node]
	if !ok || cs.version != cmd.Version || cs.view != view {
		if ok && cs.img != nil {
			cs.img.Deallocate()
		}
		cs = rasterizeCustom(cmd, view, dst.Bounds())
		c.customs[cmd.Node] = cs
	}
	if cs.img == nil {
		return
	}
	op := &ebiten.DrawImageOptions{Blend: blend}
	op.GeoM.Translate(float64(cs.x), float64(cs.y))
	dst.DrawImage(cs.img, op)
}

func rasterizeCustom(cmd *DrawCommand, view [6]float64, clip image.Rectangle) *customShape {
	cs := &customShape{version: cmd.Version, view: view}
	r := deviceBounds(cmd, view).Intersect(clip)
	if r.Empty() {
		return cs
	}
	local := multiplyAffine([6]float64{1, 0, 0, 1, -float64(r.Min.X), -float64(r.Min.Y)}, view)
	gr := newGGRaster(r.Dx(), r.Dy(), local)
	gr.drawShape(cmd)
	rgba := gr.dc.Image().(*image.RGBA)
	cs.img = ebiten.NewImage(r.Dx(), r.Dy())
	cs.img.WritePixels(rgba.Pix)
	cs.x, cs.y = r.Min.X, r.Min.Y
	return cs
}

// deviceBounds is the pixel rectangle covered by a shape command, padded
// for stroke width and miter joins.
func deviceBounds(cmd *DrawCommand, view [6]float64) image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, ref := range cmd.Paths {
		m := multiplyAffine(view, ref.Transform.Affine())
		b := ref.Path.Bounds()
		for _, pt := range [4][2]float64{{b.X, b.Y}, {b.X + b.Width, b.Y}, {b.X, b.Y + b.Height}, {b.X + b.Width, b.Y + b.Height}} {
			x, y := transformPoint(m, pt[0], pt[1])
			minX, minY = math.Min(minX, x), math.Min(minY, y)
			maxX, maxY = math.Max(maxX, x), math.Max(maxY, y)
		}
	}
	if minX > maxX {
		return image.Rectangle{}
	}
	pad := 1.0
	if p := cmd.Paint; p.Kind.isStroke() {
		pad += p.Width * affineScale(multiplyAffine(view, cmd.Transform)) / 2 * math.Max(1, p.MiterLimit)
	}
	return image.Rect(
		int(math.Floor(minX-pad)), int(math.Floor(minY-pad)),
		int(math.Ceil(maxX+pad)), int(math.Ceil(maxY+pad)),
	)
}

// maskImage rasterizes the combined layer mask as a white image whose
// alpha is the coverage.
func (c *Canvas) maskImage(masks []MaskCommand, w, h int, view [6]float64) *ebiten.Image {
	gr := newGGRaster(w, h, view)
	m := gr.layerMask(masks)
	if m == nil {
		return nil
	}
	data := m.Data()
	pix := make([]byte, 4*len(data))
	for i, v := range data {
		pix[4*i], pix[4*i+1], pix[4*i+2], pix[4*i+3] = v, v, v, v
	}
	img := ebiten.NewImage(w, h)
	img.WritePixels(pix)
	return img
}

// evict drops cached geometry of nodes not drawn this frame.
func (c *Canvas) evict() {
	for id := range c.shapes {
		if !c.seen[id] {
			delete(c.shapes, id)
		}
	}
	for id, cs := range c.customs {
		if !c.seen[id] {
			if cs.img != nil {
				cs.img.Deallocate()
			}
			delete(c.customs, id)
		}
	}
	c.text.prune(c.seen)
}

// Reset drops every cached shape, image and text.
func (c *Canvas) Reset() {
	clear(c.seen)
	c.evict()
	c.targets.dispose()
}

// affineGeoM converts an affine transform into an ebiten.GeoM.
func affineGeoM(t [6]float64) ebiten.GeoM {
	var m ebiten.GeoM
	m.SetElement(0, 0, t[0])
	m.SetElement(1, 0, t[1])
	m.SetElement(0, 1, t[2])
	m.SetElement(1, 1, t[3])
	m.SetElement(0, 2, t[4])
	m.SetElement(1, 2, t[5])
	return m
}
