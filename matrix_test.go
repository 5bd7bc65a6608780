package motion

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want [6]float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

func identityValues() transformValues {
	return transformValues{Scale: Vec2{100, 100}}
}

func TestLocalMatrixIdentity(t *testing.T) {
	got := identityValues().localMatrix().Affine()
	assertMatrix(t, "identity", got, identityTransform)
}

func TestLocalMatrixTranslation(t *testing.T) {
	v := identityValues()
	v.Position = Vec2{10, 20}
	assertMatrix(t, "translation", v.localMatrix().Affine(), [6]float64{1, 0, 0, 1, 10, 20})
}

func TestLocalMatrixAnchorIsPivot(t *testing.T) {
	v := identityValues()
	v.Anchor = Vec2{50, 50}
	v.Position = Vec2{50, 50}
	v.RotationZ = 90
	p := v.localMatrix().TransformPoint(Vec2{50, 50})
	assertNear(t, "pivot.X", p.X, 50)
	assertNear(t, "pivot.Y", p.Y, 50)

	// (100, 50) is 50 right of the anchor; rotated 90 degrees it lands below.
	p = v.localMatrix().TransformPoint(Vec2{100, 50})
	assertNear(t, "rotated.X", p.X, 50)
	assertNear(t, "rotated.Y", p.Y, 100)
}

func TestLocalMatrixScaleIsPercent(t *testing.T) {
	v := identityValues()
	v.Scale = Vec2{200, 50}
	p := v.localMatrix().TransformPoint(Vec2{10, 10})
	assertNear(t, "X", p.X, 20)
	assertNear(t, "Y", p.Y, 5)
}

func TestLocalMatrixScaleBeforePosition(t *testing.T) {
	v := identityValues()
	v.Scale = Vec2{200, 200}
	v.Position = Vec2{5, 5}
	p := v.localMatrix().TransformPoint(Vec2{1, 1})
	assertNear(t, "X", p.X, 7)
	assertNear(t, "Y", p.Y, 7)
}

func TestLocalMatrixRotationYFlattens(t *testing.T) {
	v := identityValues()
	v.RotationY = 180
	p := v.localMatrix().TransformPoint(Vec2{10, 3})
	if math.Abs(p.X+10) > 1e-6 {
		t.Errorf("X = %v, want -10", p.X)
	}
	if math.Abs(p.Y-3) > 1e-6 {
		t.Errorf("Y = %v, want 3", p.Y)
	}
}

func TestSkewShearsAlongAxis(t *testing.T) {
	m := skewMatrix(45, 0)
	p := m.TransformPoint(Vec2{0, 10})
	if math.Abs(p.X-10) > 1e-9 || math.Abs(p.Y-10) > 1e-9 {
		t.Errorf("skew(0,10) = %v, want (10,10)", p)
	}
	p = m.TransformPoint(Vec2{10, 0})
	if math.Abs(p.X-10) > 1e-9 || math.Abs(p.Y) > 1e-9 {
		t.Errorf("skew(10,0) = %v, want (10,0)", p)
	}
}

func TestMatrixMulOrder(t *testing.T) {
	m := translateMatrix(10, 0).Mul(scaleMatrix(2, 2))
	p := m.TransformPoint(Vec2{1, 1})
	assertNear(t, "X", p.X, 12)
	assertNear(t, "Y", p.Y, 2)
}

func TestMultiplyAffineMatchesMatrix(t *testing.T) {
	a := translateMatrix(3, 4).Mul(rotateZMatrix(0.5))
	b := scaleMatrix(2, 3).Mul(translateMatrix(-1, 7))
	assertMatrix(t, "composed", multiplyAffine(a.Affine(), b.Affine()), a.Mul(b).Affine())
}

func TestInvertAffine(t *testing.T) {
	m := translateMatrix(10, -4).Mul(rotateZMatrix(1.2)).Mul(scaleMatrix(2, 0.5)).Affine()
	assertMatrix(t, "m*inv", multiplyAffine(m, invertAffine(m)), identityTransform)
}

func TestInvertAffineSingular(t *testing.T) {
	assertMatrix(t, "singular", invertAffine([6]float64{0, 0, 0, 0, 5, 5}), identityTransform)
}
