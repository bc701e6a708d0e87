package fmath

// Mat4 is a 4x4 row-major matrix: element (r, c) lives at index r*4+c. It
// multiplies column vectors, so transforms compose left-to-right in
// application order when written a.Mul(b) = a after b.
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul returns m * o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			r[row*4+col] = m[row*4+0]*o[0*4+col] +
				m[row*4+1]*o[1*4+col] +
				m[row*4+2]*o[2*4+col] +
				m[row*4+3]*o[3*4+col]
		}
	}
	return r
}

// MulV4 returns m * v for a column vector v.
func (m Mat4) MulV4(v Vec4) Vec4 {
	return Vec4{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z + m[3]*v.W,
		Y: m[4]*v.X + m[5]*v.Y + m[6]*v.Z + m[7]*v.W,
		Z: m[8]*v.X + m[9]*v.Y + m[10]*v.Z + m[11]*v.W,
		W: m[12]*v.X + m[13]*v.Y + m[14]*v.Z + m[15]*v.W,
	}
}

// MakeTranslation returns a translation by (x, y, z).
func MakeTranslation(x, y, z float32) Mat4 {
	return Mat4{
		1, 0, 0, x,
		0, 1, 0, y,
		0, 0, 1, z,
		0, 0, 0, 1,
	}
}

// MakeScale returns a non-uniform scale by (x, y, z).
func MakeScale(x, y, z float32) Mat4 {
	return Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// MakeRotateX returns a rotation of a radians about the X axis.
func MakeRotateX(a float32) Mat4 {
	s, c := Sin(a), Cos(a)
	return Mat4{
		1, 0, 0, 0,
		0, c, -s, 0,
		0, s, c, 0,
		0, 0, 0, 1,
	}
}

// MakeRotateY returns a rotation of a radians about the Y axis.
func MakeRotateY(a float32) Mat4 {
	s, c := Sin(a), Cos(a)
	return Mat4{
		c, 0, s, 0,
		0, 1, 0, 0,
		-s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// MakeRotateZ returns a rotation of a radians about the Z axis.
func MakeRotateZ(a float32) Mat4 {
	s, c := Sin(a), Cos(a)
	return Mat4{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// MakeRotateXYZ rotates about X, then Y, then Z.
func MakeRotateXYZ(rx, ry, rz float32) Mat4 {
	return MakeRotateZ(rz).Mul(MakeRotateY(ry)).Mul(MakeRotateX(rx))
}

// MakePerspective builds a left-handed perspective projection with the given
// vertical field of view (radians) mapping depth into [0, w]: points on the
// near plane project to ndc z=0 and points on the far plane to z=1 after the
// perspective divide.
func MakePerspective(fovY, aspect, near, far float32) Mat4 {
	f := 1 / Tan(fovY*0.5)
	zr := far / (far - near)
	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, zr, -near * zr,
		0, 0, 1, 0,
	}
}

// LookAt builds a left-handed view matrix placing the camera at eye, looking
// at target.
func LookAt(eye, target, up Vec4) Mat4 {
	zax := target.Sub(eye).Normalize3()
	xax := up.Cross3(zax).Normalize3()
	yax := zax.Cross3(xax)
	return Mat4{
		xax.X, xax.Y, xax.Z, -xax.Dot3(eye),
		yax.X, yax.Y, yax.Z, -yax.Dot3(eye),
		zax.X, zax.Y, zax.Z, -zax.Dot3(eye),
		0, 0, 0, 1,
	}
}
