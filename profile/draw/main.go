// Profiling:
// go build ./profile/draw
// go tool pprof -http=":8000" -nodefraction=0.001 ./draw cpu.pprof

package main

import (
	"github.com/pkg/profile"

	"github.com/softrast/softrast/ecs"
	"github.com/softrast/softrast/fmath"
	"github.com/softrast/softrast/render"
)

func main() {
	frames := 600
	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	run(frames)
	p.Stop()
}

func run(frames int) {
	r := render.New(render.Options{Width: 1024, Height: 768})
	defer r.Close()

	cube := render.MakeCubeAsset(1, false)
	entities := make([]ecs.Entity, 0, 64)
	for i := 0; i < 64; i++ {
		x := float32(i%8)*1.6 - 5.6
		y := float32(i/8)*1.6 - 5.6
		e := render.SpawnInstance(r.World, &cube,
			fmath.MakeTranslation(x, y, 12),
			fmath.Colour{R: 0.8, G: 0.75, B: 0.7}, 0.35, 0.75, render.TextureRef{})
		entities = append(entities, e)
	}

	view := fmath.LookAt(
		fmath.Vec4{Z: -4, W: 1},
		fmath.Vec4{Z: 12, W: 1},
		fmath.Vec4{Y: 1},
	)
	light := fmath.Vec4{X: 0.3, Y: 0.8, Z: -0.5}.Normalize3()

	for f := 0; f < frames; f++ {
		t := float32(f) * (1.0 / 60.0)
		for i, e := range entities {
			tr := ecs.GetComponent[render.Transform](r.World, e)
			x := float32(i%8)*1.6 - 5.6
			y := float32(i/8)*1.6 - 5.6
			tr.World = fmath.MakeTranslation(x, y, 12).
				Mul(fmath.MakeRotateXYZ(t*0.7, t+float32(i)*0.1, 0))
		}

		r.BeginFrame(0xFF101010)
		r.DrawWorld(view, light)
		r.ApplyPostProcess(r.PostProcess)
		r.Present()
	}
}
