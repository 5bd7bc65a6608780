package motion

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// scriptStep is a single action in a frame script.
type scriptStep struct {
	Action  string          `json:"action"`
	Frame   float64         `json:"frame,omitempty"`
	Frames  float64         `json:"frames,omitempty"`
	KeyPath string          `json:"keypath,omitempty"`
	Value   json.RawMessage `json:"value,omitempty"`
	Label   string          `json:"label,omitempty"`

	provider ValueProvider
}

// frameScriptFile is the top-level JSON structure for a frame script.
type frameScriptFile struct {
	Dir   string       `json:"dir,omitempty"`
	Steps []scriptStep `json:"steps"`
}

// FrameScript sequences frames, overrides and snapshots for automated
// visual checks. Actions:
//
//	frame      show "frame"
//	advance    move by "frames" within the play range
//	play       start playback
//	pause      stop playback
//	override   install "value" on "keypath"; null removes it
//	snapshot   write a headless PNG of the current frame to the script dir
//	screenshot queue a capture of the next drawn screen
//	wait       let "frames" ticks pass (live runs only)
//
// Override values are a number, a [x, y] pair or a "#rrggbb" colour.
type FrameScript struct {
	// Dir receives snapshot files. Defaults to "snapshots".
	Dir string

	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadFrameScript parses a JSON frame script.
func LoadFrameScript(jsonData []byte) (*FrameScript, error) {
	var file frameScriptFile
	if err := json.Unmarshal(jsonData, &file); err != nil {
		return nil, fmt.Errorf("parse frame script: %w", err)
	}
	if len(file.Steps) == 0 {
		return nil, fmt.Errorf("parse frame script: no steps")
	}
	for i := range file.Steps {
		st := &file.Steps[i]
		switch st.Action {
		case "frame", "advance", "play", "pause", "snapshot", "screenshot", "wait":
		case "override":
			if _, err := ParseKeyPath(st.KeyPath); err != nil {
				return nil, fmt.Errorf("parse frame script: step %d: %w", i, err)
			}
			p, err := scriptProvider(st.Value)
			if err != nil {
				return nil, fmt.Errorf("parse frame script: step %d: %w", i, err)
			}
			st.provider = p
		default:
			return nil, fmt.Errorf("parse frame script: step %d: unknown action %q", i, st.Action)
		}
	}
	if file.Dir == "" {
		file.Dir = "snapshots"
	}
	return &FrameScript{Dir: file.Dir, steps: file.Steps}, nil
}

// scriptProvider decodes an override value. Null means no provider.
func scriptProvider(raw json.RawMessage) (ValueProvider, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return nil, nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return Fixed(Scalar(n)), nil
	}
	var pair []float64
	if err := json.Unmarshal(raw, &pair); err == nil {
		if len(pair) != 2 {
			return nil, fmt.Errorf("vector value needs 2 numbers, got %d", len(pair))
		}
		return Fixed(Vec2{pair[0], pair[1]}), nil
	}
	var hex string
	if err := json.Unmarshal(raw, &hex); err == nil {
		c, err := ParseHexColor(hex)
		if err != nil {
			return nil, err
		}
		return Fixed(c), nil
	}
	return nil, fmt.Errorf("unsupported override value %s", s)
}

// SetFrameScript attaches a script that Update steps once per tick.
func (e *Engine) SetFrameScript(script *FrameScript) {
	e.script = script
}

// Done reports whether every step has run.
func (r *FrameScript) Done() bool {
	return r.done
}

// step runs the next action, or counts down a wait. Called from
// Engine.Update.
func (r *FrameScript) step(e *Engine) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}
	st := &r.steps[r.cursor]
	r.cursor++
	if st.Action == "wait" {
		if st.Frames > 0 {
			r.waitCount = int(st.Frames) - 1 // this tick counts as one
		}
	} else if err := r.apply(e, st); err != nil {
		Logger().Warn("frame script step failed", "action", st.Action, "err", err)
	}
	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}

// Run executes every step at once without drawing. Waits are skipped and
// screenshots are ignored. The first failing step stops the run.
func (r *FrameScript) Run(e *Engine) error {
	for r.cursor < len(r.steps) {
		st := &r.steps[r.cursor]
		r.cursor++
		if st.Action == "wait" || st.Action == "screenshot" {
			continue
		}
		if err := r.apply(e, st); err != nil {
			return fmt.Errorf("frame script step %d (%s): %w", r.cursor-1, st.Action, err)
		}
	}
	r.done = true
	return nil
}

func (r *FrameScript) apply(e *Engine, st *scriptStep) error {
	switch st.Action {
	case "frame":
		e.SetFrame(st.Frame)
	case "advance":
		e.SetFrame(e.rng.wrap(e.CurrentFrame() + st.Frames))
	case "play":
		e.Play(e.ctx)
	case "pause":
		e.Pause()
	case "override":
		return e.SetValueOverride(st.KeyPath, st.provider)
	case "snapshot":
		if err := os.MkdirAll(r.Dir, 0o755); err != nil {
			return err
		}
		name := fmt.Sprintf("%s_%06.2f.png", sanitizeLabel(st.Label), e.CurrentFrame())
		return e.SnapshotPNG(filepath.Join(r.Dir, name), e.CurrentFrame())
	case "screenshot":
		e.Screenshot(st.Label)
	}
	return nil
}
