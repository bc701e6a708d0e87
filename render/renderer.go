// Package render is a CPU scanline rasterizer fed by an archetype entity
// store. Entities carrying a MeshRef, Transform, Material and TextureRef are
// drawn with flat Lambert shading and optional perspective-correct
// texturing into externally bound RGBA8 and float32 depth targets. A fixed
// pool of persistent workers splits every pass into horizontal framebuffer
// slices.
package render

import (
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/softrast/softrast/ecs"
	"github.com/softrast/softrast/fmath"
)

// Options configures a Renderer. Zero values pick the defaults noted on each
// field.
type Options struct {
	Width  int // target width in pixels; default 1024
	Height int // target height in pixels; default 768

	FovY float32 // vertical field of view in radians; default pi/2
	Near float32 // near plane; default 0.1
	Far  float32 // far plane; default 100

	// Workers is the number of persistent worker goroutines. The frame is
	// always split into Workers+1 slices, the extra one running on the
	// calling goroutine. Default max(1, NumCPU-1).
	Workers int

	// Presenter supplies per-frame targets. When nil the renderer runs
	// offline against its own buffers.
	Presenter Presenter
}

// Renderer owns the world being drawn, the worker pool and the current
// targets. All rendering entry points (BeginFrame, DrawWorld, the Apply*
// passes, Present) must be called from one goroutine; the renderer fans work
// out to its own pool internally.
type Renderer struct {
	World *ecs.World

	Projection      fmath.Mat4
	TexturesEnabled bool
	FlipV           bool

	PostProcess PostProcessSettings
	RainEffect  RainSettings
	Advanced    AdvancedSettings

	fb Framebuffer
	zb ZBuffer

	presenter Presenter
	curFrame  Frame

	width, height int
	offColor      []uint32
	offZ          []float32

	view    *ecs.View4[MeshRef, Transform, Material, TextureRef]
	rec     Recorder
	ssrSnap []uint32

	workers  int
	ranges   []rowRange
	mu       sync.Mutex
	jobCV    *sync.Cond
	doneCV   *sync.Cond
	shutdown atomic.Bool
	jobGen   uint64
	done     int
	job      drawJob
	wg       sync.WaitGroup
}

// New creates a renderer, registers the draw components on a fresh world and
// starts the worker pool. Call Close when done.
func New(opts Options) *Renderer {
	w := opts.Width
	if w == 0 {
		w = 1024
	}
	h := opts.Height
	if h == 0 {
		h = 768
	}
	fov := opts.FovY
	if fov == 0 {
		fov = float32(math.Pi / 2)
	}
	near := opts.Near
	if near == 0 {
		near = 0.1
	}
	far := opts.Far
	if far == 0 {
		far = 100
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU() - 1
		if workers < 1 {
			workers = 1
		}
	}

	r := &Renderer{
		World:           ecs.NewWorld(),
		TexturesEnabled: true,
		FlipV:           true,
		PostProcess:     DefaultPostProcessSettings(),
		RainEffect:      DefaultRainSettings(),
		Advanced:        DefaultAdvancedSettings(),
		presenter:       opts.Presenter,
		width:           w,
		height:          h,
		workers:         workers,
	}
	r.Projection = fmath.MakePerspective(fov, float32(w)/float32(h), near, far)

	ecs.RegisterComponent[MeshRef](r.World)
	ecs.RegisterComponent[Transform](r.World)
	ecs.RegisterComponent[Material](r.World)
	ecs.RegisterComponent[TextureRef](r.World)
	r.view = ecs.NewView4[MeshRef, Transform, Material, TextureRef](r.World)

	r.ranges = make([]rowRange, workers+1)
	r.jobCV = sync.NewCond(&r.mu)
	r.doneCV = sync.NewCond(&r.mu)
	r.startWorkers()
	return r
}

// Close shuts the worker pool down and joins every worker. The renderer must
// not be used afterwards.
func (r *Renderer) Close() {
	r.shutdown.Store(true)
	r.mu.Lock()
	r.jobGen++
	r.mu.Unlock()
	r.jobCV.Broadcast()
	r.wg.Wait()
}

// Targets exposes the currently bound framebuffer and z-buffer. Both are
// empty outside a BeginFrame/Present pair.
func (r *Renderer) Targets() (*Framebuffer, *ZBuffer) {
	return &r.fb, &r.zb
}

// CacheRescans reports how many times the draw view has re-scanned the world
// tables. It only moves when the world changes structurally.
func (r *Renderer) CacheRescans() uint64 {
	return r.view.Rescans()
}

// BeginFrame acquires targets for a new frame, clears the colour buffer to
// clearRGBA and the z-buffer to 0 (far). It returns false when the presenter
// has no frame available; the caller should skip rendering this tick and
// retry on the next one.
func (r *Renderer) BeginFrame(clearRGBA uint32) bool {
	if r.presenter == nil {
		r.ensureOfflineTargets(r.width, r.height)
		r.curFrame = Frame{
			W:           r.width,
			H:           r.height,
			PitchPixels: r.width,
			Color:       r.offColor,
			ZPitch:      r.width,
			Z:           r.offZ,
		}
	} else {
		f, ok := r.presenter.TryBeginFrame()
		if !ok {
			return false
		}
		r.curFrame = f
	}

	r.bindTargets(r.curFrame)
	r.clearColor(clearRGBA)
	clear(r.zb.Data[:r.zb.Pitch*r.zb.H])
	return true
}

// Present hands the finished frame to the presenter and releases the
// targets. Without a presenter it just releases.
func (r *Renderer) Present() {
	if !r.curFrame.Valid() {
		return
	}
	if r.presenter != nil {
		r.presenter.Present(r.curFrame)
	}
	r.curFrame = Frame{}
	r.fb = Framebuffer{}
	r.zb = ZBuffer{}
}

// StartRecording begins capturing frames submitted via RecordFrame.
func (r *Renderer) StartRecording() {
	r.rec.Begin()
}

// StopRecording ends the capture.
func (r *Renderer) StopRecording() {
	r.rec.End()
}

// RecordedFrameCount returns the number of frames captured so far.
func (r *Renderer) RecordedFrameCount() int {
	return r.rec.FrameCount()
}

// RecordFrame snapshots the current frame into the recording instead of
// presenting it, then releases the targets.
func (r *Renderer) RecordFrame() {
	if !r.curFrame.Valid() {
		return
	}
	r.rec.Submit(r.curFrame)
	r.curFrame = Frame{}
	r.fb = Framebuffer{}
	r.zb = ZBuffer{}
}

// WriteRecordingPNGs exports the captured frames as PNGs under dir.
func (r *Renderer) WriteRecordingPNGs(dir, prefix string) error {
	return r.rec.WritePNGs(dir, prefix)
}

// DrawWorld rasterizes every drawable entity with the given view matrix and
// directional light. It refreshes the draw view (a no-op while the world is
// structurally unchanged), splits the framebuffer into row slices and blocks
// until the full pass has finished.
func (r *Renderer) DrawWorld(view fmath.Mat4, lightDir fmath.Vec4) {
	if len(r.fb.Pix) == 0 || len(r.zb.Data) == 0 {
		return
	}

	r.view.Refresh()
	if len(r.view.Blocks()) == 0 {
		return
	}

	w, h := r.fb.W, r.fb.H
	r.computeSliceRanges(h)
	r.runJob(jobDraw, func(j *drawJob) {
		j.w = w
		j.h = h
		j.fw = float32(w)
		j.fh = float32(h)
		j.texturesOn = r.TexturesEnabled
		j.flipV = r.FlipV
		j.vp = r.Projection.Mul(view)
		j.lightDir = lightDir
	})
}

// ApplyPostProcess runs the tone pass (exposure, contrast, saturation,
// vignette) over the bound framebuffer.
func (r *Renderer) ApplyPostProcess(settings PostProcessSettings) {
	if !settings.Enabled {
		return
	}
	if len(r.fb.Pix) == 0 || r.fb.W == 0 || r.fb.H == 0 {
		return
	}
	if !settings.ExposureEnabled && !settings.ContrastEnabled &&
		!settings.SaturationEnabled && !settings.VignetteEnabled {
		return
	}

	r.computeSliceRanges(r.fb.H)
	r.runJob(jobPost, func(j *drawJob) {
		j.w = r.fb.W
		j.h = r.fb.H
		j.post = settings
	})
}

// ApplyRainEffect overlays depth-weighted rain streaks. timeS animates the
// streak phase and wind drift.
func (r *Renderer) ApplyRainEffect(settings RainSettings, timeS float32) {
	if !settings.Enabled {
		return
	}
	if len(r.fb.Pix) == 0 || r.fb.W == 0 || r.fb.H == 0 {
		return
	}
	if len(r.zb.Data) == 0 || r.zb.W == 0 || r.zb.H == 0 {
		return
	}
	if settings.Intensity <= 0 || settings.StreakProbability <= 0 {
		return
	}

	r.computeSliceRanges(r.fb.H)
	r.runJob(jobRain, func(j *drawJob) {
		j.w = r.fb.W
		j.h = r.fb.H
		j.rain = settings
		j.time = timeS
	})
}

// ApplyAdvancedEffects runs the combined effects pass (bloom, film grain,
// motion blur, fog, mirror reflection, depth of field, god rays).
func (r *Renderer) ApplyAdvancedEffects(settings AdvancedSettings, timeS float32) {
	if !settings.Enabled {
		return
	}
	if len(r.fb.Pix) == 0 || r.fb.W == 0 || r.fb.H == 0 {
		return
	}
	anyEnabled := settings.BloomEnabled || settings.FilmGrainEnabled ||
		settings.MotionBlurEnabled || settings.FogEnabled ||
		settings.SSREnabled || settings.DepthOfFieldEnabled ||
		settings.GodRaysEnabled
	if !anyEnabled {
		return
	}
	if (settings.FogEnabled || settings.DepthOfFieldEnabled || settings.SSREnabled) &&
		(len(r.zb.Data) == 0 || r.zb.W == 0 || r.zb.H == 0) {
		return
	}

	// The mirror reflection reads row H-1-y while another worker writes that
	// row, so it samples a snapshot taken before the pass starts.
	var mirror []uint32
	if settings.SSREnabled {
		n := r.fb.PitchPixels * r.fb.H
		if len(r.ssrSnap) < n {
			r.ssrSnap = make([]uint32, n)
		}
		mirror = r.ssrSnap[:n]
		copy(mirror, r.fb.Pix[:n])
	}

	r.computeSliceRanges(r.fb.H)
	r.runJob(jobAdvanced, func(j *drawJob) {
		j.w = r.fb.W
		j.h = r.fb.H
		j.advanced = settings
		j.time = timeS
		j.mirror = mirror
	})
}

func (r *Renderer) bindTargets(f Frame) {
	r.fb.Bind(f.W, f.H, f.PitchPixels*4, f.PitchPixels, f.Color)
	r.zb.W = f.W
	r.zb.H = f.H
	r.zb.Pitch = f.ZPitch
	r.zb.Data = f.Z
}

// clearColor fills the colour target with a packed RGBA value, with a bulk
// zeroing fast path.
func (r *Renderer) clearColor(rgba uint32) {
	if len(r.fb.Pix) == 0 || r.fb.H == 0 || r.fb.PitchPixels == 0 {
		return
	}
	if rgba == 0 {
		clear(r.fb.Pix[:r.fb.PitchPixels*r.fb.H])
		return
	}
	for y := 0; y < r.fb.H; y++ {
		row := r.fb.Row(y)
		for x := range row {
			row[x] = rgba
		}
	}
}

// ensureOfflineTargets sizes the renderer-owned buffers, reusing them while
// the dimensions are stable.
func (r *Renderer) ensureOfflineTargets(w, h int) {
	if w == 0 || h == 0 {
		return
	}
	if len(r.offColor) == w*h && len(r.offZ) == w*h {
		return
	}
	r.offColor = make([]uint32, w*h)
	r.offZ = make([]float32, w*h)
}
