package render

import "github.com/softrast/softrast/fmath"

// Pixel packing is RGBA8 little-endian: byte order r, g, b, a, so a packed
// value reads (a<<24 | b<<16 | g<<8 | r).

func packColour(c fmath.Colour) uint32 {
	cc := c.Clamp01()
	r := uint32(cc.R * 255)
	g := uint32(cc.G * 255)
	b := uint32(cc.B * 255)
	return 0xFF000000 | b<<16 | g<<8 | r
}

func packRGB(r, g, b float32) uint32 {
	rr := uint32(fmath.Clamp(r, 0, 1) * 255)
	gg := uint32(fmath.Clamp(g, 0, 1) * 255)
	bb := uint32(fmath.Clamp(b, 0, 1) * 255)
	return 0xFF000000 | bb<<16 | gg<<8 | rr
}

func unpackRGB(p uint32) (r, g, b float32) {
	r = float32(p&0xFF) / 255
	g = float32((p>>8)&0xFF) / 255
	b = float32((p>>16)&0xFF) / 255
	return
}

// modulateTexture scales a texel's channels by the triangle's light
// intensity, saturating at 255.
func modulateTexture(texRGBA uint32, intensity float32) uint32 {
	rf := float32(texRGBA&0xFF) * intensity
	gf := float32((texRGBA>>8)&0xFF) * intensity
	bf := float32((texRGBA>>16)&0xFF) * intensity

	r := uint32(min(rf, 255))
	g := uint32(min(gf, 255))
	b := uint32(min(bf, 255))
	return 0xFF000000 | b<<16 | g<<8 | r
}

// hash11 is a stateless float hash; all screen-space noise (rain phase, film
// grain) derives from it, so the passes are pure functions of (x, y, t).
func hash11(x float32) float32 {
	return fmath.Fract(fmath.Sin(x*12.9898) * 43758.5453)
}

// postProcessSlice applies exposure, contrast, saturation and vignette to
// rows [y0, y1].
func (r *Renderer) postProcessSlice(y0, y1 int) {
	if len(r.fb.Pix) == 0 || r.fb.W == 0 || r.fb.H == 0 {
		return
	}
	s := r.job.post
	if !s.Enabled {
		return
	}
	if !s.ExposureEnabled && !s.ContrastEnabled && !s.SaturationEnabled && !s.VignetteEnabled {
		return
	}

	w := r.fb.W
	invW := 1 / float32(w)
	invH := 1 / float32(r.fb.H)
	halfW := 0.5 * float32(w)
	halfH := 0.5 * float32(r.fb.H)

	for y := y0; y <= y1; y++ {
		row := r.fb.Row(y)
		fy := (float32(y) - halfH) * invH

		for x := 0; x < w; x++ {
			rr, gg, bb := unpackRGB(row[x])

			if s.ExposureEnabled {
				rr *= s.Exposure
				gg *= s.Exposure
				bb *= s.Exposure
			}

			if s.ContrastEnabled {
				rr = (rr-0.5)*s.Contrast + 0.5
				gg = (gg-0.5)*s.Contrast + 0.5
				bb = (bb-0.5)*s.Contrast + 0.5
			}

			if s.SaturationEnabled {
				lum := rr*0.2126 + gg*0.7152 + bb*0.0722
				rr = lum + (rr-lum)*s.Saturation
				gg = lum + (gg-lum)*s.Saturation
				bb = lum + (bb-lum)*s.Saturation
			}

			if s.VignetteEnabled {
				fx := (float32(x) - halfW) * invW
				dist2 := fx*fx + fy*fy
				vignette := 1 - s.VignetteStrength*fmath.Pow(dist2, s.VignettePower)
				rr *= vignette
				gg *= vignette
				bb *= vignette
			}

			row[x] = packRGB(rr, gg, bb)
		}
	}
}

// rainSlice overlays animated rain streaks on rows [y0, y1]. Streaks fall in
// hashed columns, fade along their length and weight toward nearby surfaces
// through the z-buffer.
func (r *Renderer) rainSlice(y0, y1 int) {
	if len(r.fb.Pix) == 0 || r.fb.W == 0 || r.fb.H == 0 {
		return
	}
	if len(r.zb.Data) == 0 || r.zb.W == 0 || r.zb.H == 0 {
		return
	}
	s := r.job.rain
	if !s.Enabled || s.Intensity <= 0 {
		return
	}

	w := r.fb.W
	timeS := r.job.time
	dropSpeed := s.StreakSpeed
	dropDensity := s.StreakDensity
	dropLength := s.StreakLength
	if dropLength <= 0.001 {
		dropLength = 0.001
	}
	dropProbability := fmath.Clamp(s.StreakProbability, 0, 1)

	for y := y0; y <= y1; y++ {
		row := r.fb.Row(y)
		zrow := r.zb.Row(y)
		fy := float32(r.fb.H - 1 - y)

		for x := 0; x < w; x++ {
			columnSeed := hash11(float32(x) * 0.271)
			if columnSeed > dropProbability {
				continue
			}

			drift := s.Wind * timeS
			phase := fmath.Fract(fy*dropDensity - timeS*dropSpeed + columnSeed*10 + drift)
			if phase >= dropLength {
				continue
			}

			z := zrow[x]
			depthFactor := fmath.Clamp(s.DepthBias+(1-z)*s.DepthWeight, 0, 1)
			streak := 1 - phase/dropLength
			drop := streak * s.Intensity * depthFactor
			if drop <= 0 {
				continue
			}

			jitter := 0.75 + 0.25*fmath.Sin(float32(x)*0.15+timeS)
			drop *= jitter

			rr, gg, bb := unpackRGB(row[x])

			darken := 1 - drop*s.Darken
			rr = rr*darken + s.Tint.R*drop
			gg = gg*darken + s.Tint.G*drop
			bb = bb*darken + s.Tint.B*drop

			row[x] = packRGB(rr, gg, bb)
		}
	}
}

// advancedSlice runs the combined effects pass over rows [y0, y1]: bloom,
// depth fog, mirror reflection, depth of field, god rays, motion blur and
// film grain, in that order.
func (r *Renderer) advancedSlice(y0, y1 int) {
	if len(r.fb.Pix) == 0 || r.fb.W == 0 || r.fb.H == 0 {
		return
	}
	s := r.job.advanced
	if !s.Enabled {
		return
	}

	w := r.fb.W
	h := r.fb.H
	timeS := r.job.time
	useDepth := s.FogEnabled || s.DepthOfFieldEnabled || s.SSREnabled

	rowCopy := make([]uint32, w)
	blurCopy := make([]uint32, w)

	for y := y0; y <= y1; y++ {
		row := r.fb.Row(y)
		var zrow []float32
		if useDepth {
			zrow = r.zb.Row(y)
		}
		var mirrorRow []uint32
		if s.SSREnabled && r.job.mirror != nil {
			my := (h - 1 - y) * r.fb.PitchPixels
			mirrorRow = r.job.mirror[my : my+w]
		}

		copy(rowCopy, row)
		if s.MotionBlurEnabled || s.DepthOfFieldEnabled {
			copy(blurCopy, rowCopy)
		}

		for x := 0; x < w; x++ {
			rr, gg, bb := unpackRGB(rowCopy[x])

			lum := rr*0.2126 + gg*0.7152 + bb*0.0722
			if s.BloomEnabled {
				boost := max(0, lum-s.BloomThreshold) * s.BloomIntensity
				rr += boost
				gg += boost
				bb += boost
			}

			var depth float32
			if zrow != nil {
				depth = fmath.Clamp(zrow[x], 0, 1)
			}

			if s.FogEnabled {
				fogRange := max(0.001, s.FogEnd-s.FogStart)
				fogT := fmath.Clamp((depth-s.FogStart)/fogRange, 0, 1)
				rr += (s.FogColour.R - rr) * fogT
				gg += (s.FogColour.G - gg) * fogT
				bb += (s.FogColour.B - bb) * fogT
			}

			if mirrorRow != nil {
				mr, mg, mb := unpackRGB(mirrorRow[x])
				reflect := s.SSRStrength * (1 - depth)
				rr += (mr - rr) * reflect
				gg += (mg - gg) * reflect
				bb += (mb - bb) * reflect
			}

			if s.DepthOfFieldEnabled {
				dofRange := max(0.001, s.DOFRange)
				blurT := fmath.Clamp(fmath.Abs(depth-s.DOFFocus)/dofRange, 0, 1)
				if blurT > 0 {
					x0, x1 := x, x
					if x > 0 {
						x0 = x - 1
					}
					if x+1 < w {
						x1 = x + 1
					}
					br0, bg0, bb0 := unpackRGB(blurCopy[x0])
					br1, bg1, bb1 := unpackRGB(blurCopy[x1])
					rr += ((br0+br1)*0.5 - rr) * blurT
					gg += ((bg0+bg1)*0.5 - gg) * blurT
					bb += ((bb0+bb1)*0.5 - bb) * blurT
				}
			}

			if s.GodRaysEnabled {
				fx := float32(x) / max(1, float32(w-1))
				fyn := float32(y) / max(1, float32(h-1))
				dx := fx - s.GodRaysScreenPos.X
				dy := fyn - s.GodRaysScreenPos.Y
				dist := fmath.Sqrt(dx*dx + dy*dy)
				shaft := fmath.Clamp(1-dist*1.5, 0, 1) * s.GodRaysStrength
				rr += shaft
				gg += shaft
				bb += shaft
			}

			if s.MotionBlurEnabled {
				x0, x1 := x, x
				if x > 0 {
					x0 = x - 1
				}
				if x+1 < w {
					x1 = x + 1
				}
				mr0, mg0, mb0 := unpackRGB(blurCopy[x0])
				mr1, mg1, mb1 := unpackRGB(blurCopy[x1])
				mb := fmath.Clamp(s.MotionBlurStrength, 0, 1)
				rr += ((mr0+mr1)*0.5 - rr) * mb
				gg += ((mg0+mg1)*0.5 - gg) * mb
				bb += ((mb0+mb1)*0.5 - bb) * mb
			}

			if s.FilmGrainEnabled {
				grain := (hash11(float32(x)*0.17+float32(y)*0.29+timeS*s.FilmGrainSpeed) - 0.5) * s.FilmGrainStrength
				rr += grain
				gg += grain
				bb += grain
			}

			row[x] = packRGB(rr, gg, bb)
		}
	}
}
