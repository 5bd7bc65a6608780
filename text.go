package motion

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

// FontProvider resolves the face used for a text document. A nil face
// draws with the built-in fallback face.
type FontProvider interface {
	Face(family string, size float64) text.Face
}

// TTFFonts is a FontProvider backed by TrueType sources keyed by family.
type TTFFonts struct {
	sources map[string]*text.GoTextFaceSource
}

// NewTTFFonts returns an empty font set.
func NewTTFFonts() *TTFFonts {
	return &TTFFonts{sources: make(map[string]*text.GoTextFaceSource)}
}

// Load parses TTF or OTF data and registers it under family.
func (f *TTFFonts) Load(family string, data []byte) error {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("motion: failed to parse font %q: %w", family, err)
	}
	f.sources[family] = source
	return nil
}

// Face returns the family at size, or nil when it is not loaded.
func (f *TTFFonts) Face(family string, size float64) text.Face {
	source, ok := f.sources[family]
	if !ok {
		return nil
	}
	return &text.GoTextFace{Source: source, Size: size}
}

// fallbackFaceSize is the pixel size of the fallback bitmap face.
const fallbackFaceSize = 13

var fallbackFace = sync.OnceValue(func() text.Face {
	return text.NewGoXFace(basicfont.Face7x13)
})

// cachedText is the rendered image of one text document. The image origin
// sits at (originX, originY) relative to the document's baseline origin,
// in face pixels; scale maps face pixels to document units.
type cachedText struct {
	doc              TextDocument
	img              *ebiten.Image
	originX, originY float64
	scale            float64
}

// textCache keeps one rendered image per text node. Images are only
// re-rendered when the document changes.
type textCache struct {
	fonts   FontProvider
	entries map[NodeID]*cachedText
	warned  map[string]bool
}

func newTextCache(fonts FontProvider) *textCache {
	return &textCache{fonts: fonts, entries: make(map[NodeID]*cachedText), warned: make(map[string]bool)}
}

func (tc *textCache) face(doc *TextDocument) (text.Face, float64) {
	if tc.fonts != nil {
		if f := tc.fonts.Face(doc.Font, doc.Size); f != nil {
			return f, 1
		}
	}
	if !tc.warned[doc.Font] {
		tc.warned[doc.Font] = true
		Logger().Warn("missing font, using fallback face", "font", doc.Font)
	}
	return fallbackFace(), doc.Size / fallbackFaceSize
}

func (tc *textCache) get(id NodeID, doc *TextDocument) *cachedText {
	if ct, ok := tc.entries[id]; ok && ct.doc == *doc {
		return ct
	}
	if old, ok := tc.entries[id]; ok && old.img != nil {
		old.img.Deallocate()
	}
	ct := renderText(doc, tc)
	tc.entries[id] = ct
	return ct
}

// renderText draws the document with its outline into a fresh image.
func renderText(doc *TextDocument, tc *textCache) *cachedText {
	face, scale := tc.face(doc)
	ct := &cachedText{doc: *doc, scale: scale}
	content := strings.ReplaceAll(strings.ReplaceAll(doc.Text, "\r\n", "\n"), "\r", "\n")

	m := face.Metrics()
	lh := m.HAscent + m.HDescent + m.HLineGap
	if doc.LineHeight > 0 {
		lh = doc.LineHeight / scale
	}
	w, h := text.Measure(content, face, lh)
	if w == 0 || h == 0 {
		return ct
	}
	pad := 0.0
	if doc.StrokeSize > 0 && doc.Stroke.A > 0 {
		pad = math.Ceil(doc.StrokeSize / 2 / scale)
	}
	ct.img = ebiten.NewImage(int(math.Ceil(w+2*pad))+1, int(math.Ceil(h+2*pad))+1)

	align := text.AlignStart
	x := pad
	switch doc.Justify {
	case JustifyCenter:
		align = text.AlignCenter
		x = pad + w/2
	case JustifyRight:
		align = text.AlignEnd
		x = pad + w
	}
	ct.originX, ct.originY = -x, -(pad + m.HAscent)

	draw := func(dx, dy float64, c Color) {
		op := &text.DrawOptions{}
		op.GeoM.Translate(x+dx, pad+dy)
		op.ColorScale.ScaleWithColor(c.toRGBA())
		op.LineSpacing = lh
		op.PrimaryAlign = align
		text.Draw(ct.img, content, face, op)
	}
	// Outline pass: the text offset in 8 directions with the stroke colour.
	if pad > 0 {
		t := pad
		offsets := [8][2]float64{
			{-t, 0}, {t, 0}, {0, -t}, {0, t},
			{-t, -t}, {t, -t}, {-t, t}, {t, t},
		}
		for _, off := range offsets {
			draw(off[0], off[1], doc.Stroke)
		}
	}
	draw(0, 0, doc.Fill)
	return ct
}

// geoM places the cached image for a command drawn with view.
func (ct *cachedText) geoM(transform, view [6]float64) ebiten.GeoM {
	var m ebiten.GeoM
	m.Translate(ct.originX, ct.originY)
	m.Scale(ct.scale, ct.scale)
	m.Concat(affineGeoM(transform))
	m.Concat(affineGeoM(view))
	return m
}

// prune drops the images of nodes not drawn this frame.
func (tc *textCache) prune(seen map[NodeID]bool) {
	for id, ct := range tc.entries {
		if !seen[id] {
			if ct.img != nil {
				ct.img.Deallocate()
			}
			delete(tc.entries, id)
		}
	}
}
