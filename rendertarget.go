package motion

import "github.com/hajimehoshi/ebiten/v2"

// layerTargets hands out offscreen images for masked layers. Layers are
// composited at screen size, so images are pooled by exact size and the
// pool is emptied when the screen size changes.
type layerTargets struct {
	w, h int
	free []*ebiten.Image
}

// acquire returns a cleared w x h image.
func (p *layerTargets) acquire(w, h int) *ebiten.Image {
	if w != p.w || h != p.h {
		p.dispose()
		p.w, p.h = w, h
	}
	if n := len(p.free); n > 0 {
		img := p.free[n-1]
		p.free = p.free[:n-1]
		img.Clear()
		return img
	}
	return ebiten.NewImage(max(w, 1), max(h, 1))
}

// release returns img for reuse. Images of another size are deallocated.
func (p *layerTargets) release(img *ebiten.Image) {
	if img == nil {
		return
	}
	if b := img.Bounds(); b.Dx() != p.w || b.Dy() != p.h {
		img.Deallocate()
		return
	}
	p.free = append(p.free, img)
}

// dispose deallocates every pooled image.
func (p *layerTargets) dispose() {
	for _, img := range p.free {
		img.Deallocate()
	}
	p.free = p.free[:0]
}
