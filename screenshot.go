package motion

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
)

// Screenshot queues a labeled capture of the next drawn frame. The PNG is
// written to the screenshot directory with a timestamped filename. Safe to
// call from Update or Draw.
func (e *Engine) Screenshot(label string) {
	e.screenshotQueue = append(e.screenshotQueue, label)
}

// flushScreenshots captures screen for every queued label. Called at the
// end of Engine.Draw.
func (e *Engine) flushScreenshots(screen *ebiten.Image) {
	if len(e.screenshotQueue) == 0 {
		return
	}
	defer func() { e.screenshotQueue = e.screenshotQueue[:0] }()

	dir := e.opts.screenshotDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		Logger().Warn("screenshot directory", "dir", dir, "err", err)
		return
	}
	img := readScreen(screen)
	stamp := time.Now().Format("20060102_150405")
	for _, label := range e.screenshotQueue {
		path := filepath.Join(dir, stamp+"_"+sanitizeLabel(label)+".png")
		if err := writePNG(path, img); err != nil {
			Logger().Warn("screenshot", "err", err)
			continue
		}
		Logger().Debug("screenshot written", "path", path)
	}
}

// readScreen copies the premultiplied pixels of screen into a straight-alpha
// image, the form PNG stores.
func readScreen(screen *ebiten.Image) *image.NRGBA {
	b := screen.Bounds()
	src := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	screen.ReadPixels(src.Pix)
	return straightAlpha(src)
}

func straightAlpha(src *image.RGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Rect)
	for y := src.Rect.Min.Y; y < src.Rect.Max.Y; y++ {
		for x := src.Rect.Min.X; x < src.Rect.Max.X; x++ {
			dst.SetNRGBA(x, y, colorFromRGBA(src.RGBAAt(x, y)).toNRGBA())
		}
	}
	return dst
}

// writePNG encodes img to a new file at path.
func writePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("motion: png: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("motion: png %s: %w", path, cerr)
		}
	}()
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(f, img); err != nil {
		return fmt.Errorf("motion: png %s: %w", path, err)
	}
	return nil
}

// sanitizeLabel keeps ASCII letters, digits, '-' and '.' of label and maps
// every other rune to '_'. Blank labels become "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		if r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)) || r == '-' || r == '.' {
			return r
		}
		return '_'
	}, label)
}
