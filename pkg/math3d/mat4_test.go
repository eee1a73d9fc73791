package math3d

import (
	"math"
	"testing"
)

const eps = 1e-5

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) <= eps
}

func TestPerspectiveFovLHDepthRange(t *testing.T) {
	proj := PerspectiveFovLH(math.Pi/2, 1, 0.1, 1.0)

	tests := []struct {
		name  string
		z     float32
		depth float32
	}{
		{"near plane", 0.1, 0},
		{"far plane", 1.0, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := TransformCoordinates(Point(0, 0, tc.z), proj)
			if !approx(p.Z, tc.depth) {
				t.Errorf("depth at z=%v = %v, want %v", tc.z, p.Z, tc.depth)
			}
			if !approx(p.InvW, 1/tc.z) {
				t.Errorf("InvW at z=%v = %v, want %v", tc.z, p.InvW, 1/tc.z)
			}
		})
	}

	t.Run("monotonic", func(t *testing.T) {
		prev := float32(-1)
		for z := float32(0.1); z <= 1.0; z += 0.1 {
			d := TransformCoordinates(Point(0, 0, z), proj).Z
			if d <= prev {
				t.Fatalf("depth not increasing at z=%v: %v <= %v", z, d, prev)
			}
			prev = d
		}
	})
}

func TestPerspectiveFovLHAspect(t *testing.T) {
	proj := PerspectiveFovLH(math.Pi/2, 2, 0.1, 1.0)
	// With fov 90° the height scale is 1, width scale is 1/aspect.
	if !approx(proj.At(0, 0), 0.5) || !approx(proj.At(1, 1), 1) {
		t.Errorf("scale = (%v, %v), want (0.5, 1)", proj.At(0, 0), proj.At(1, 1))
	}
	if proj.At(2, 3) != 1 || proj.At(3, 3) != 0 {
		t.Errorf("w column = (%v, %v), want (1, 0)", proj.At(2, 3), proj.At(3, 3))
	}
}

func TestTransformCoordinatesZeroW(t *testing.T) {
	var m Mat4 // all zero: w is 0 for every input
	p := TransformCoordinates(Point(1, 2, 3), m)
	if p.Finite() {
		t.Errorf("expected non-finite result for w=0, got %+v", p)
	}
}

func TestTransformNormalIgnoresTranslation(t *testing.T) {
	m := Translation(V3(10, 20, 30))
	n := TransformNormal(Point(0, 1, 0), m)
	if n != Direction(0, 1, 0) {
		t.Errorf("TransformNormal = %+v, want (0,1,0,0)", n)
	}

	p := TransformCoordinates(Point(0, 1, 0), m)
	if !approx(p.X, 10) || !approx(p.Y, 21) || !approx(p.Z, 30) || !approx(p.InvW, 1) {
		t.Errorf("TransformCoordinates = %+v, want (10,21,30) invW 1", p)
	}
}

func TestMulAppliesLeftFirst(t *testing.T) {
	// Rotate 90° around Y then translate: (1,0,0) -> (0,0,-1) -> (5,0,-1).
	m := RotationY(math.Pi / 2).Mul(Translation(V3(5, 0, 0)))
	p := TransformCoordinates(Point(1, 0, 0), m)
	if !approx(p.X, 5) || !approx(p.Y, 0) || !approx(p.Z, -1) {
		t.Errorf("got %+v, want (5, 0, -1)", p.Vec3())
	}
}

func TestRotationAxes(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		in   Vec3
		want Vec3
	}{
		{"X rotates Y toward Z", RotationX(math.Pi / 2), V3(0, 1, 0), V3(0, 0, 1)},
		{"Y rotates Z toward X", RotationY(math.Pi / 2), V3(0, 0, 1), V3(1, 0, 0)},
		{"Z rotates X toward Y", RotationZ(math.Pi / 2), V3(1, 0, 0), V3(0, 1, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := TransformNormal(tc.in.Point(), tc.m).Vec3()
			if !approx(got.X, tc.want.X) || !approx(got.Y, tc.want.Y) || !approx(got.Z, tc.want.Z) {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestRotationComposition(t *testing.T) {
	angles := V3(0.3, -0.7, 1.1)
	want := RotationX(angles.X).Mul(RotationY(angles.Y)).Mul(RotationZ(angles.Z))
	if !Rotation(angles).ApproxEqual(want, eps) {
		t.Error("Rotation should equal Rx*Ry*Rz")
	}
}

func TestLegacyRotationUsesYForZ(t *testing.T) {
	angles := V3(0.2, 0.4, 0.6)
	want := RotationX(angles.X).Mul(RotationY(angles.Y)).Mul(RotationY(angles.Z))
	if !LegacyRotation(angles).ApproxEqual(want, eps) {
		t.Error("LegacyRotation should equal Rx*Ry*Ry(z)")
	}
	if LegacyRotation(angles).ApproxEqual(Rotation(angles), eps) {
		t.Error("LegacyRotation should differ from Rotation when Z is non-zero")
	}
	// Without a Z component the two agree.
	flat := V3(0.2, 0.4, 0)
	if !LegacyRotation(flat).ApproxEqual(Rotation(flat), eps) {
		t.Error("LegacyRotation should equal Rotation when Z is zero")
	}
}

func TestLookAtLH(t *testing.T) {
	view := LookAtLH(V3(0, 0, -20), Zero3(), Up())

	// The target sits straight ahead at distance 20.
	p := TransformCoordinates(Point(0, 0, 0), view)
	if !approx(p.X, 0) || !approx(p.Y, 0) || !approx(p.Z, 20) {
		t.Errorf("origin in view space = %+v, want (0, 0, 20)", p.Vec3())
	}

	// Right stays right and up stays up for a camera on -Z.
	r := TransformCoordinates(Point(1, 2, 0), view)
	if !approx(r.X, 1) || !approx(r.Y, 2) {
		t.Errorf("(1,2,0) in view space = %+v, want x=1 y=2", r.Vec3())
	}
}

func TestIdentityAndTranspose(t *testing.T) {
	m := Translation(V3(1, 2, 3))
	if m.Mul(Identity()) != m || Identity().Mul(m) != m {
		t.Error("identity should be neutral")
	}
	if m.Transpose().Transpose() != m {
		t.Error("double transpose should round-trip")
	}
	if c := m.Transpose().Column(3); c != Point(1, 2, 3) {
		t.Errorf("transposed translation column = %+v", c)
	}
}
