package render

import "github.com/softrast/softrast/fmath"

// svtx is a screen-space vertex after projection: pixel x/y, depth z
// (1 - ndc z, larger is nearer), the original clip w for perspective
// correction, the world-space normal and the texture coordinate.
type svtx struct {
	x, y, z, w float32
	n          fmath.Vec4
	u, v       float32
}

// makeSVtx maps a clip-space position to the screen: perspective divide,
// [-1,1] to pixel coordinates with the Y axis flipped to top-down, and depth
// remapped so the far plane lands at 0 and the near plane at 1.
func makeSVtx(hp fmath.Vec4, world fmath.Mat4, nrm fmath.Vec4, fw, fh, u, v float32) svtx {
	ww := hp.W
	if ww == 0 {
		ww = 1
	}
	ndcx := hp.X / ww
	ndcy := hp.Y / ww
	ndcz := hp.Z / ww

	var o svtx
	o.z = 1 - ndcz
	o.w = hp.W
	o.x = (ndcx + 1) * 0.5 * fw
	o.y = fh - (ndcy+1)*0.5*fh
	o.n = world.MulV4(nrm).Normalize3()
	o.u = u
	o.v = v
	return o
}

func edgeFn(ax, ay, bx, by, px, py float32) float32 {
	return (px-ax)*(by-ay) - (py-ay)*(bx-ax)
}

// drawWorldSlice rasterizes every visible triangle into rows [y0, y1]. Each
// slice owns its rows exclusively, so framebuffer and z-buffer writes need
// no locking. Triangles are culled per slice against the slice's row span in
// addition to the screen bounds.
func (r *Renderer) drawWorldSlice(y0, y1 int) {
	w := r.job.w
	fw, fh := r.job.fw, r.job.fh
	vp := r.job.vp
	lightDir := r.job.lightDir
	texOn := r.job.texturesOn
	flipV := r.job.flipV

	pitch := r.fb.PitchPixels
	zpitch := r.zb.Pitch
	pix := r.fb.Pix
	zbuf := r.zb.Data

	for _, block := range r.view.Blocks() {
		for ei := range block.C1 {
			mesh := &block.C1[ei]
			tr := &block.C2[ei]
			mat := &block.C3[ei]
			tex := &block.C4[ei]

			if len(mesh.Positions) == 0 || len(mesh.Normals) == 0 || mesh.TriCount == 0 {
				continue
			}
			useTex := texOn && tex.Valid() && mesh.HasUVs && len(mesh.UVs) > 0

			p := vp.Mul(tr.World)

			for ti := 0; ti < int(mesh.TriCount); ti++ {
				base := ti * 3
				hp0 := p.MulV4(mesh.Positions[base+0])
				hp1 := p.MulV4(mesh.Positions[base+1])
				hp2 := p.MulV4(mesh.Positions[base+2])

				// Vertices behind (or on) the eye plane are not clipped;
				// the whole triangle is dropped.
				if hp0.W <= 1e-4 || hp1.W <= 1e-4 || hp2.W <= 1e-4 {
					continue
				}

				// Conservative frustum reject: all three vertices outside
				// the same clip plane.
				if hp0.X < -hp0.W && hp1.X < -hp1.W && hp2.X < -hp2.W {
					continue
				}
				if hp0.X > hp0.W && hp1.X > hp1.W && hp2.X > hp2.W {
					continue
				}
				if hp0.Y < -hp0.W && hp1.Y < -hp1.W && hp2.Y < -hp2.W {
					continue
				}
				if hp0.Y > hp0.W && hp1.Y > hp1.W && hp2.Y > hp2.W {
					continue
				}
				if hp0.Z < 0 && hp1.Z < 0 && hp2.Z < 0 {
					continue
				}
				if hp0.Z > hp0.W && hp1.Z > hp1.W && hp2.Z > hp2.W {
					continue
				}

				var tu0, tv0, tu1, tv1, tu2, tv2 float32
				if useTex {
					uvBase := base * 2
					tu0, tv0 = mesh.UVs[uvBase+0], mesh.UVs[uvBase+1]
					tu1, tv1 = mesh.UVs[uvBase+2], mesh.UVs[uvBase+3]
					tu2, tv2 = mesh.UVs[uvBase+4], mesh.UVs[uvBase+5]
					if flipV {
						tv0 = 1 - tv0
						tv1 = 1 - tv1
						tv2 = 1 - tv2
					}
				}

				v0 := makeSVtx(hp0, tr.World, mesh.Normals[base+0], fw, fh, tu0, tv0)
				v1 := makeSVtx(hp1, tr.World, mesh.Normals[base+1], fw, fh, tu1, tv1)
				v2 := makeSVtx(hp2, tr.World, mesh.Normals[base+2], fw, fh, tu2, tv2)

				area := edgeFn(v0.x, v0.y, v1.x, v1.y, v2.x, v2.y)
				if area == 0 {
					continue
				}
				// Fold the winding sign into the edge coefficients so the
				// inside test is always >= 0.
				sign := float32(1)
				if area < 0 {
					sign = -1
				}
				invArea := 1 / (area * sign)

				minx := int(fmath.Floor(min(v0.x, v1.x, v2.x)))
				maxx := int(fmath.Ceil(max(v0.x, v1.x, v2.x)))
				miny := int(fmath.Floor(min(v0.y, v1.y, v2.y)))
				maxy := int(fmath.Ceil(max(v0.y, v1.y, v2.y)))

				if maxx < 0 || maxy < y0 || minx >= w || miny > y1 {
					continue
				}
				if minx < 0 {
					minx = 0
				}
				if maxx >= w {
					maxx = w - 1
				}
				if miny < y0 {
					miny = y0
				}
				if maxy > y1 {
					maxy = y1
				}
				if minx > maxx || miny > maxy {
					continue
				}

				// Flat Lambert from the area-summed normal.
				nrm := v0.n.Add(v1.n).Add(v2.n).Normalize3()
				ndotl := nrm.Dot3(lightDir)
				if ndotl < 0 {
					ndotl = 0
				}
				intensity := mat.Ka + mat.Kd*ndotl

				e0a := (v2.y - v1.y) * sign
				e0b := (v1.x - v2.x) * sign
				e0c := (v2.x*v1.y - v2.y*v1.x) * sign

				e1a := (v0.y - v2.y) * sign
				e1b := (v2.x - v0.x) * sign
				e1c := (v0.x*v2.y - v0.y*v2.x) * sign

				e2a := (v1.y - v0.y) * sign
				e2b := (v0.x - v1.x) * sign
				e2c := (v1.x*v0.y - v1.y*v0.x) * sign

				startX := float32(minx) + 0.5
				startY := float32(miny) + 0.5

				w0Row := e0a*startX + e0b*startY + e0c
				w1Row := e1a*startX + e1b*startY + e1c
				w2Row := e2a*startX + e2b*startY + e2c

				dzdx := (e0a*v0.z + e1a*v1.z + e2a*v2.z) * invArea
				dzdy := (e0b*v0.z + e1b*v1.z + e2b*v2.z) * invArea
				zRow := (w0Row*v0.z + w1Row*v1.z + w2Row*v2.z) * invArea

				// Perspective-correct texturing interpolates u/w, v/w and
				// 1/w affinely and divides per pixel.
				var dInvWdx, dInvWdy float32
				var dUowDx, dUowDy float32
				var dVowDx, dVowDy float32
				var invWRow, uowRow, vowRow float32

				if useTex {
					invW0 := 1 / v0.w
					invW1 := 1 / v1.w
					invW2 := 1 / v2.w

					u0w := v0.u * invW0
					v0w := v0.v * invW0
					u1w := v1.u * invW1
					v1w := v1.v * invW1
					u2w := v2.u * invW2
					v2w := v2.v * invW2

					dInvWdx = (e0a*invW0 + e1a*invW1 + e2a*invW2) * invArea
					dInvWdy = (e0b*invW0 + e1b*invW1 + e2b*invW2) * invArea

					dUowDx = (e0a*u0w + e1a*u1w + e2a*u2w) * invArea
					dUowDy = (e0b*u0w + e1b*u1w + e2b*u2w) * invArea

					dVowDx = (e0a*v0w + e1a*v1w + e2a*v2w) * invArea
					dVowDy = (e0b*v0w + e1b*v1w + e2b*v2w) * invArea

					invWRow = (w0Row*invW0 + w1Row*invW1 + w2Row*invW2) * invArea
					uowRow = (w0Row*u0w + w1Row*u1w + w2Row*u2w) * invArea
					vowRow = (w0Row*v0w + w1Row*v1w + w2Row*v2w) * invArea
				}

				var flatRGBA uint32
				if !useTex {
					flatRGBA = packColour(mat.Col.Scale(intensity))
				}

				for y := miny; y <= maxy; y++ {
					zi := y*zpitch + minx
					ci := y*pitch + minx

					w0, w1, w2, z := w0Row, w1Row, w2Row, zRow
					invWPx, uowPx, vowPx := invWRow, uowRow, vowRow

					if !useTex {
						for x := minx; x <= maxx; x++ {
							if w0 >= 0 && w1 >= 0 && w2 >= 0 && z > zbuf[zi] {
								zbuf[zi] = z
								pix[ci] = flatRGBA
							}
							w0 += e0a
							w1 += e1a
							w2 += e2a
							z += dzdx
							ci++
							zi++
						}
					} else {
						for x := minx; x <= maxx; x++ {
							if w0 >= 0 && w1 >= 0 && w2 >= 0 && z > zbuf[zi] {
								rcpInvW := float32(1)
								if invWPx > 1e-4 {
									rcpInvW = 1 / invWPx
								}
								uu := uowPx * rcpInvW
								vv := vowPx * rcpInvW

								zbuf[zi] = z
								pix[ci] = modulateTexture(tex.SampleNearest(uu, vv), intensity)
							}
							w0 += e0a
							w1 += e1a
							w2 += e2a
							z += dzdx
							invWPx += dInvWdx
							uowPx += dUowDx
							vowPx += dVowDx
							ci++
							zi++
						}
					}

					w0Row += e0b
					w1Row += e1b
					w2Row += e2b
					zRow += dzdy

					if useTex {
						invWRow += dInvWdy
						uowRow += dUowDy
						vowRow += dVowDy
					}
				}
			}
		}
	}
}
