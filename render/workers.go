package render

import "github.com/softrast/softrast/fmath"

// jobKind selects which slice function a published job runs.
type jobKind uint8

const (
	jobDraw jobKind = iota
	jobPost
	jobRain
	jobAdvanced
)

// rowRange is one slice's inclusive row span. y0 > y1 means the slice is
// empty (short targets can starve trailing slices).
type rowRange struct {
	y0 int
	y1 int
}

// drawJob is the shared job record. It is written by the caller under the
// job mutex before the generation bump and read by workers after they
// observe the new generation, so no field needs further synchronization.
type drawJob struct {
	kind     jobKind
	vp       fmath.Mat4
	lightDir fmath.Vec4
	fw, fh   float32
	w, h     int

	texturesOn bool
	flipV      bool

	post     PostProcessSettings
	rain     RainSettings
	advanced AdvancedSettings
	time     float32

	// mirror is a pre-pass snapshot of the colour buffer, set only when the
	// reflection effect is on. Mirrored rows belong to other workers' slices,
	// so they must never be read from the live framebuffer.
	mirror []uint32
}

// computeSliceRanges splits h rows into workers+1 contiguous slices. Every
// interior slice ends on a 4-row boundary; the final slice (run by the
// caller) absorbs whatever remains.
func (r *Renderer) computeSliceRanges(h int) {
	total := len(r.ranges)
	base := h / total
	rem := h % total

	const rowAlign = 4
	y := 0
	for s := 0; s < total; s++ {
		sliceH := base
		if s < rem {
			sliceH++
		}
		y0 := y
		y1 := y + sliceH - 1
		if s == total-1 {
			y1 = h - 1
		} else {
			alignedEnd := (y1+1+(rowAlign-1))/rowAlign*rowAlign - 1
			if alignedEnd < h-1 {
				y1 = alignedEnd
			}
		}
		r.ranges[s] = rowRange{y0: y0, y1: y1}
		y = y1 + 1
	}
}

func (r *Renderer) startWorkers() {
	r.wg.Add(r.workers)
	for i := 0; i < r.workers; i++ {
		go r.workerLoop(i)
	}
}

// workerLoop is the body of one persistent worker. A worker sleeps on the
// job condition until the generation counter moves, runs its fixed slice of
// the published job, then bumps the completion counter. The last worker to
// finish wakes the caller.
func (r *Renderer) workerLoop(index int) {
	defer r.wg.Done()

	var seenGen uint64
	for {
		r.mu.Lock()
		for !r.shutdown.Load() && r.jobGen == seenGen {
			r.jobCV.Wait()
		}
		if r.shutdown.Load() {
			r.mu.Unlock()
			return
		}
		seenGen = r.jobGen
		kind := r.job.kind
		r.mu.Unlock()

		rg := r.ranges[index]
		if rg.y0 <= rg.y1 {
			r.runSlice(kind, rg.y0, rg.y1)
		}

		r.mu.Lock()
		r.done++
		if r.done == r.workers {
			r.doneCV.Signal()
		}
		r.mu.Unlock()
	}
}

// runJob publishes a job, renders the final slice on the calling goroutine,
// and blocks until every worker slice has finished. Jobs are strictly
// sequential: a new one is never published while one is in flight.
func (r *Renderer) runJob(kind jobKind, setup func(j *drawJob)) {
	r.mu.Lock()
	setup(&r.job)
	r.job.kind = kind
	r.done = 0
	r.jobGen++
	r.mu.Unlock()
	r.jobCV.Broadcast()

	main := r.ranges[len(r.ranges)-1]
	if main.y0 <= main.y1 {
		r.runSlice(kind, main.y0, main.y1)
	}

	r.mu.Lock()
	for r.done != r.workers {
		r.doneCV.Wait()
	}
	r.mu.Unlock()
}

func (r *Renderer) runSlice(kind jobKind, y0, y1 int) {
	switch kind {
	case jobDraw:
		r.drawWorldSlice(y0, y1)
	case jobPost:
		r.postProcessSlice(y0, y1)
	case jobRain:
		r.rainSlice(y0, y1)
	default:
		r.advancedSlice(y0, y1)
	}
}
