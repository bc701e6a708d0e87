package render

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// Frame is one frame's worth of externally owned targets. The renderer binds
// its framebuffer and z-buffer to these between BeginFrame and Present.
type Frame struct {
	W           int
	H           int
	PitchPixels int
	Color       []uint32
	ZPitch      int
	Z           []float32
}

// Valid reports whether the frame addresses usable storage.
func (f Frame) Valid() bool {
	return len(f.Color) > 0 && f.W > 0 && f.H > 0
}

// Presenter is the presentation boundary. TryBeginFrame hands out the next
// writable frame, returning false when none is available right now (the
// caller simply skips rendering this tick). Present submits a frame the
// renderer has finished with.
type Presenter interface {
	TryBeginFrame() (Frame, bool)
	Present(Frame)
}

// recordedFrame is a deep copy of a submitted frame's pixels.
type recordedFrame struct {
	w, h int
	pix  []uint32
}

// Recorder captures frames for later playback or export. Submissions while
// not recording are dropped.
type Recorder struct {
	frames    []recordedFrame
	recording bool
}

// Begin starts capturing, discarding any previous recording.
func (rec *Recorder) Begin() {
	rec.frames = rec.frames[:0]
	rec.recording = true
}

// End stops capturing.
func (rec *Recorder) End() {
	rec.recording = false
}

// FrameCount returns the number of captured frames.
func (rec *Recorder) FrameCount() int {
	return len(rec.frames)
}

// Submit snapshots a frame's pixels. The frame may be reused by the caller
// immediately afterwards.
func (rec *Recorder) Submit(f Frame) {
	if !rec.recording || !f.Valid() {
		return
	}
	pix := make([]uint32, f.W*f.H)
	for y := 0; y < f.H; y++ {
		copy(pix[y*f.W:(y+1)*f.W], f.Color[y*f.PitchPixels:y*f.PitchPixels+f.W])
	}
	rec.frames = append(rec.frames, recordedFrame{w: f.W, h: f.H, pix: pix})
}

// WritePNGs exports every captured frame as dir/prefix_NNNN.png.
func (rec *Recorder) WritePNGs(dir, prefix string) error {
	for i, fr := range rec.frames {
		img := image.NewRGBA(image.Rect(0, 0, fr.w, fr.h))
		for j, p := range fr.pix {
			img.Pix[j*4+0] = uint8(p)
			img.Pix[j*4+1] = uint8(p >> 8)
			img.Pix[j*4+2] = uint8(p >> 16)
			img.Pix[j*4+3] = uint8(p >> 24)
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_%04d.png", prefix, i))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("render: create %s: %w", path, err)
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			return fmt.Errorf("render: encode %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("render: close %s: %w", path, err)
		}
	}
	return nil
}
