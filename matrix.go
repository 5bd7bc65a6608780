package motion

import "math"

// Matrix is a 4x4 transform stored row-major and applied to column vectors.
// Rotation around X and Y needs the third dimension; drawing flattens the
// result to a 2D affine with Affine.
type Matrix [16]float64

// IdentityMatrix is the identity transform.
var IdentityMatrix = Matrix{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// Mul returns m * n, i.e. n is applied first.
func (m Matrix) Mul(n Matrix) Matrix {
	var r Matrix
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			r[row*4+col] = m[row*4]*n[col] +
				m[row*4+1]*n[4+col] +
				m[row*4+2]*n[8+col] +
				m[row*4+3]*n[12+col]
		}
	}
	return r
}

// TransformPoint applies m to a point on the z=0 plane.
func (m Matrix) TransformPoint(p Vec2) Vec2 {
	return Vec2{
		X: m[0]*p.X + m[1]*p.Y + m[3],
		Y: m[4]*p.X + m[5]*p.Y + m[7],
	}
}

// Affine flattens m to the 2D affine [a, b, c, d, tx, ty] where
// x' = a*x + c*y + tx and y' = b*x + d*y + ty.
func (m Matrix) Affine() [6]float64 {
	return [6]float64{m[0], m[4], m[1], m[5], m[3], m[7]}
}

func translateMatrix(x, y float64) Matrix {
	m := IdentityMatrix
	m[3], m[7] = x, y
	return m
}

func scaleMatrix(sx, sy float64) Matrix {
	m := IdentityMatrix
	m[0], m[5] = sx, sy
	return m
}

func rotateZMatrix(rad float64) Matrix {
	sin, cos := math.Sincos(rad)
	m := IdentityMatrix
	m[0], m[1] = cos, -sin
	m[4], m[5] = sin, cos
	return m
}

func rotateXMatrix(rad float64) Matrix {
	sin, cos := math.Sincos(rad)
	m := IdentityMatrix
	m[5], m[6] = cos, -sin
	m[9], m[10] = sin, cos
	return m
}

func rotateYMatrix(rad float64) Matrix {
	sin, cos := math.Sincos(rad)
	m := IdentityMatrix
	m[0], m[2] = cos, sin
	m[8], m[10] = -sin, cos
	return m
}

// skewMatrix shears along the axis rotated by skewAxis degrees.
func skewMatrix(skew, skewAxis float64) Matrix {
	axis := skewAxis * math.Pi / 180
	shear := IdentityMatrix
	shear[1] = math.Tan(skew * math.Pi / 180)
	return rotateZMatrix(axis).Mul(shear).Mul(rotateZMatrix(-axis))
}

// transformValues are the resolved per-frame inputs of a layer or group
// transform. Scale is in percent and angles in degrees, as authored.
type transformValues struct {
	Anchor    Vec2
	Position  Vec2
	Scale     Vec2
	RotationX float64
	RotationY float64
	RotationZ float64
	Skew      float64
	SkewAxis  float64
}

// localMatrix computes the local transform.
//
// Composition order:
//
//	Translate(-Anchor) -> Scale -> Skew -> RotateZ -> RotateY -> RotateX -> Translate(Position)
func (t transformValues) localMatrix() Matrix {
	m := translateMatrix(t.Position.X, t.Position.Y)
	if t.RotationX != 0 {
		m = m.Mul(rotateXMatrix(t.RotationX * math.Pi / 180))
	}
	if t.RotationY != 0 {
		m = m.Mul(rotateYMatrix(t.RotationY * math.Pi / 180))
	}
	if t.RotationZ != 0 {
		m = m.Mul(rotateZMatrix(t.RotationZ * math.Pi / 180))
	}
	if t.Skew != 0 {
		m = m.Mul(skewMatrix(t.Skew, t.SkewAxis))
	}
	m = m.Mul(scaleMatrix(t.Scale.X/100, t.Scale.Y/100))
	return m.Mul(translateMatrix(-t.Anchor.X, -t.Anchor.Y))
}

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular.
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}
