package math3d

// Scalar is a numeric type that can be interpolated directly.
type Scalar interface {
	~float32 | ~uint8
}

// Lerp returns a + (b-a)*factor. Integer results are truncated.
func Lerp[T Scalar](a, b T, factor float32) T {
	return T(float32(a) + (float32(b)-float32(a))*factor)
}

// Interpolator is implemented by values that know how to blend themselves
// with another value of the same type.
type Interpolator[T any] interface {
	Lerp(other T, factor float32) T
}

// Interpolate blends a towards b by factor. A factor of 0 yields a and a
// factor of 1 yields b.
func Interpolate[T Interpolator[T]](a, b T, factor float32) T {
	return a.Lerp(b, factor)
}

// Factor returns (x-from)/(to-from), or 0 when the span is empty.
// Rasterizer edges and scanlines use it so that coincident endpoints never
// divide by zero.
func Factor(x, from, to float32) float32 {
	if to == from {
		return 0
	}
	return (x - from) / (to - from)
}

// Clamp01 limits x to [0, 1]. NaN maps to 0.
func Clamp01(x float32) float32 {
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
