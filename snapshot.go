package motion

import (
	"image"
	"path/filepath"

	"github.com/gogpu/gg"
)

// snapshotRenderer rasterizes display lists without a running ebiten game.
// Text layers are not drawn; image layers load their asset files from dir.
type snapshotRenderer struct {
	dir    string
	images map[string]*gg.ImageBuf
}

func newSnapshotRenderer(dir string) *snapshotRenderer {
	return &snapshotRenderer{dir: dir, images: make(map[string]*gg.ImageBuf)}
}

// image loads an asset once. Failures are logged once and cached as nil.
func (s *snapshotRenderer) image(a *ImageAsset) *gg.ImageBuf {
	if img, ok := s.images[a.ID]; ok {
		return img
	}
	path := a.Path
	if s.dir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(s.dir, path)
	}
	img, err := gg.LoadImage(path)
	if err != nil {
		Logger().Warn("missing image asset", "asset", a.ID, "path", path, "err", err)
		img = nil
	}
	s.images[a.ID] = img
	return img
}

// render draws list into a w x h image. view maps composition coordinates to
// pixels.
func (s *snapshotRenderer) render(list *DisplayList, w, h int, view [6]float64, bg Color) *image.RGBA {
	dst := newGGRaster(w, h, view)
	if bg.A > 0 {
		dst.dc.ClearWithColor(ggColor(bg, 1))
	}
	if list == nil {
		return dst.dc.Image().(*image.RGBA)
	}
	for i := range list.Layers {
		dl := &list.Layers[i]
		if len(dl.Masks) == 0 && dl.Blend == BlendNormal {
			s.drawCommands(dst, dl.Commands)
			continue
		}
		layer := newGGRaster(w, h, view)
		s.drawCommands(layer, dl.Commands)
		if mask := layer.layerMask(dl.Masks); mask != nil {
			layer.dc.ApplyMask(mask)
		}
		dst.dc.SetTransform(gg.Identity())
		dst.dc.DrawImageEx(gg.ImageBufFromImage(layer.dc.Image()), gg.DrawImageOptions{
			Opacity:   1,
			BlendMode: ggBlend(dl.Blend),
		})
	}
	return dst.dc.Image().(*image.RGBA)
}

func (s *snapshotRenderer) drawCommands(r *ggRaster, cmds []DrawCommand) {
	for i := range cmds {
		cmd := &cmds[i]
		switch cmd.Type {
		case CommandShape:
			r.drawShape(cmd)
		case CommandImage:
			if cmd.Image == nil || cmd.Alpha <= 0 {
				continue
			}
			img := s.image(cmd.Image)
			if img == nil {
				continue
			}
			r.dc.SetTransform(ggMatrix(multiplyAffine(r.view, cmd.Transform)))
			r.dc.DrawImageEx(img, gg.DrawImageOptions{
				DstWidth:  cmd.Image.Width,
				DstHeight: cmd.Image.Height,
				Opacity:   clamp01(cmd.Alpha),
			})
			r.dc.SetTransform(gg.Identity())
		case CommandText:
			Logger().Debug("snapshot skips text", "node", cmd.Node)
		}
	}
}

// ggBlend maps layer blends onto gg image blends. Modes gg lacks draw
// normally.
func ggBlend(b BlendMode) gg.BlendMode {
	switch b {
	case BlendMultiply:
		return gg.BlendMultiply
	case BlendScreen:
		return gg.BlendScreen
	case BlendOverlay:
		return gg.BlendOverlay
	}
	return gg.BlendNormal
}
