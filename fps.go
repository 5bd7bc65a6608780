package motion

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// statsOverlay prints FPS, TPS and playback state in the top-left corner.
// The text is refreshed about every half second.
type statsOverlay struct {
	img     *ebiten.Image
	elapsed float64
}

func newStatsOverlay() *statsOverlay {
	// 160x64 fits four debug-print lines.
	return &statsOverlay{img: ebiten.NewImage(160, 64), elapsed: 1}
}

func (o *statsOverlay) update(dt float64, e *Engine) {
	o.elapsed += dt
	if o.elapsed < 0.5 {
		return
	}
	o.elapsed = 0

	o.img.Clear()
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\n%s %.1f\ncommands: %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(), e.Backend(), e.CurrentFrame(), e.DisplayList().commandCount()))
}

func (o *statsOverlay) draw(screen *ebiten.Image) {
	screen.DrawImage(o.img, nil)
}
