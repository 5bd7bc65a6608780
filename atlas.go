package motion

import (
	"encoding/json"
	"fmt"
	"image"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// DirImages is an ImageProvider that loads asset files relative to a
// directory. Each asset is read once; failed loads are remembered so the
// file is not retried every frame.
type DirImages struct {
	dir    string
	images map[string]*ebiten.Image
}

// NewDirImages returns a provider reading from dir.
func NewDirImages(dir string) *DirImages {
	return &DirImages{dir: dir, images: make(map[string]*ebiten.Image)}
}

// Image loads the asset's file. Absolute paths are used as they are.
func (d *DirImages) Image(a ImageAsset) *ebiten.Image {
	if img, ok := d.images[a.ID]; ok {
		return img
	}
	path := a.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(d.dir, path)
	}
	img, _, err := ebitenutil.NewImageFromFile(path)
	if err != nil {
		Logger().Warn("load image asset", "asset", a.ID, "path", path, "err", err)
		img = nil
	}
	d.images[a.ID] = img
	return img
}

// Reset forgets every loaded image so changed files are read again.
func (d *DirImages) Reset() {
	for _, img := range d.images {
		if img != nil {
			img.Deallocate()
		}
	}
	clear(d.images)
}

// atlasRegion is a sub-rectangle of one atlas page.
type atlasRegion struct {
	page    int
	rect    image.Rectangle
	rotated bool
}

// Atlas is an ImageProvider backed by TexturePacker pages. Assets are
// looked up by ID first and then by the base name of their path.
type Atlas struct {
	// Pages contains the atlas page images indexed by page number.
	Pages   []*ebiten.Image
	regions map[string]atlasRegion
	subs    map[string]*ebiten.Image
}

// Image returns the asset's region, or nil when the atlas has none.
// Rotated regions are not supported.
func (a *Atlas) Image(asset ImageAsset) *ebiten.Image {
	name := asset.ID
	r, ok := a.regions[name]
	if !ok {
		name = filepath.Base(asset.Path)
		if r, ok = a.regions[name]; !ok {
			return nil
		}
	}
	if img, ok := a.subs[name]; ok {
		return img
	}
	var img *ebiten.Image
	switch {
	case r.rotated:
		Logger().Warn("rotated atlas region", "region", name)
	case r.page < 0 || r.page >= len(a.Pages) || a.Pages[r.page] == nil:
		Logger().Warn("atlas region on missing page", "region", name, "page", r.page)
	default:
		img = a.Pages[r.page].SubImage(r.rect).(*ebiten.Image)
	}
	a.subs[name] = img
	return img
}

// LoadAtlas parses TexturePacker JSON data and associates the given page images.
// Supports both the hash format (single "frames" object) and the array format
// ("textures" array with per-page frame lists).
func LoadAtlas(jsonData []byte, pages []*ebiten.Image) (*Atlas, error) {
	var head struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &head); err != nil {
		return nil, fmt.Errorf("motion: failed to parse atlas JSON: %w", err)
	}

	atlas := &Atlas{
		Pages:   pages,
		regions: make(map[string]atlasRegion),
		subs:    make(map[string]*ebiten.Image),
	}
	switch {
	case head.Textures != nil:
		var textures []jsonTexturePage
		if err := json.Unmarshal(head.Textures, &textures); err != nil {
			return nil, fmt.Errorf("motion: failed to parse atlas textures array: %w", err)
		}
		for i, tex := range textures {
			atlas.addFrames(tex.Frames, i)
		}
	case head.Frames != nil:
		var frames map[string]jsonFrame
		if err := json.Unmarshal(head.Frames, &frames); err != nil {
			return nil, fmt.Errorf("motion: failed to parse atlas frames: %w", err)
		}
		atlas.addFrames(frames, 0)
	default:
		return nil, fmt.Errorf("motion: atlas JSON has neither \"frames\" nor \"textures\" key")
	}
	return atlas, nil
}

func (a *Atlas) addFrames(frames map[string]jsonFrame, page int) {
	for name, f := range frames {
		a.regions[name] = atlasRegion{
			page:    page,
			rect:    image.Rect(f.Frame.X, f.Frame.Y, f.Frame.X+f.Frame.W, f.Frame.Y+f.Frame.H),
			rotated: f.Rotated,
		}
	}
}

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame   jsonRect `json:"frame"`
	Rotated bool     `json:"rotated"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}
