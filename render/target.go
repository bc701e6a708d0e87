package render

// Framebuffer is the colour target: RGBA8 pixels packed little-endian (byte
// order r, g, b, a), one row every PitchPixels entries. It never owns its
// storage; Bind points it at memory provided by a presenter or the offline
// targets.
type Framebuffer struct {
	W           int
	H           int
	PitchBytes  int
	PitchPixels int
	Pix         []uint32
}

// Bind points the framebuffer at external pixel storage.
func (fb *Framebuffer) Bind(w, h, pitchBytes, pitchPixels int, pix []uint32) {
	fb.W = w
	fb.H = h
	fb.PitchBytes = pitchBytes
	fb.PitchPixels = pitchPixels
	fb.Pix = pix
}

// Row returns the pixel row starting at y.
func (fb *Framebuffer) Row(y int) []uint32 {
	off := y * fb.PitchPixels
	return fb.Pix[off : off+fb.W]
}

// ZBuffer is the depth target. Values grow toward the camera: 0 is the far
// clearing value and the depth test passes on strictly greater.
type ZBuffer struct {
	W     int
	H     int
	Pitch int
	Data  []float32
}

// Row returns the depth row starting at y.
func (zb *ZBuffer) Row(y int) []float32 {
	off := y * zb.Pitch
	return zb.Data[off : off+zb.W]
}
