// Interactive demo: spinning cubes rasterized on the CPU and presented
// through an Ebiten window.
package main

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/softrast/softrast/ecs"
	"github.com/softrast/softrast/fmath"
	"github.com/softrast/softrast/render"
	"github.com/softrast/softrast/texcache"
)

const (
	screenW = 640
	screenH = 480
)

// bufferPresenter hands the renderer one reusable CPU frame per tick; the
// Ebiten draw callback uploads whatever was last presented.
type bufferPresenter struct {
	w, h  int
	color []uint32
	z     []float32
}

func newBufferPresenter(w, h int) *bufferPresenter {
	return &bufferPresenter{
		w: w, h: h,
		color: make([]uint32, w*h),
		z:     make([]float32, w*h),
	}
}

func (p *bufferPresenter) TryBeginFrame() (render.Frame, bool) {
	return render.Frame{
		W: p.w, H: p.h,
		PitchPixels: p.w, Color: p.color,
		ZPitch: p.w, Z: p.z,
	}, true
}

func (p *bufferPresenter) Present(render.Frame) {}

type game struct {
	r     *render.Renderer
	pres  *bufferPresenter
	cubes []ecs.Entity
	img   *ebiten.Image
	pix   []byte
	t     float32
}

func (g *game) Update() error {
	g.t += 1.0 / 60.0

	// Spin the cubes in place. Writing through the component pointers is a
	// value mutation, so the renderer's draw cache stays memoized.
	for i, e := range g.cubes {
		tr := ecs.GetComponent[render.Transform](g.r.World, e)
		if tr == nil {
			continue
		}
		spin := g.t * (0.6 + 0.25*float32(i))
		offset := float32(i)*2.2 - 2.2
		tr.World = fmath.MakeTranslation(offset, 0, 3.5).
			Mul(fmath.MakeRotateXYZ(spin*0.7, spin, 0))
	}

	if !g.r.BeginFrame(0xFF281810) {
		return nil // no frame this tick, try again next one
	}
	view := fmath.LookAt(
		fmath.Vec4{Y: 0.8, Z: -1.5, W: 1},
		fmath.Vec4{Z: 3.5, W: 1},
		fmath.Vec4{Y: 1},
	)
	light := fmath.Vec4{X: 0.4, Y: 0.7, Z: -0.6}.Normalize3()

	g.r.DrawWorld(view, light)
	g.r.ApplyPostProcess(g.r.PostProcess)
	g.r.ApplyRainEffect(g.r.RainEffect, g.t)
	g.r.Present()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.img == nil {
		g.img = ebiten.NewImage(g.pres.w, g.pres.h)
		g.pix = make([]byte, g.pres.w*g.pres.h*4)
	}
	// Packed pixels are already r,g,b,a in byte order.
	for i, p := range g.pres.color {
		g.pix[i*4+0] = byte(p)
		g.pix[i*4+1] = byte(p >> 8)
		g.pix[i*4+2] = byte(p >> 16)
		g.pix[i*4+3] = byte(p >> 24)
	}
	g.img.WritePixels(g.pix)
	screen.DrawImage(g.img, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.pres.w, g.pres.h
}

func main() {
	pres := newBufferPresenter(screenW, screenH)
	r := render.New(render.Options{Width: screenW, Height: screenH, Presenter: pres})
	defer r.Close()

	r.RainEffect.Enabled = true

	cube := render.MakeCubeAsset(1, false)
	texCube := render.MakeCubeAsset(1, true)

	textures := texcache.NewCache()
	checker := textures.Checkerboard("checker", 64, 64, 8, 0xFF2060D0, 0xFFF0F0F0)

	cubes := []ecs.Entity{
		render.SpawnInstance(r.World, &cube, fmath.MakeTranslation(-2.2, 0, 3.5),
			fmath.Colour{R: 0.85, G: 0.3, B: 0.25}, 0.35, 0.75, render.TextureRef{}),
		render.SpawnInstance(r.World, &texCube, fmath.MakeTranslation(0, 0, 3.5),
			fmath.Colour{R: 1, G: 1, B: 1}, 0.35, 0.75, checker.Ref()),
		render.SpawnInstance(r.World, &cube, fmath.MakeTranslation(2.2, 0, 3.5),
			fmath.Colour{R: 0.25, G: 0.6, B: 0.9}, 0.35, 0.75, render.TextureRef{}),
	}

	g := &game{r: r, pres: pres, cubes: cubes}

	ebiten.SetWindowTitle("softrast viewer")
	ebiten.SetWindowSize(screenW*2, screenH*2)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
