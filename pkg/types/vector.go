package types

import "math"

// DefaultDimension is the width of the pretrained skill space
const DefaultDimension = 200

// Vector is a point in the skill space. Anchor and token vectors share the
// same coordinate system, so arithmetic across vocabularies is meaningful.
type Vector []float32

// NewVector returns a zero vector of the given dimension
func NewVector(dim int) Vector {
	return make(Vector, dim)
}

// Clone returns a copy that does not alias v
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Add adds o to v in place. Both vectors must have the same dimension.
func (v Vector) Add(o Vector) error {
	if len(v) != len(o) {
		return ErrDimensionMismatch
	}
	for i := range v {
		v[i] += o[i]
	}
	return nil
}

// Sub subtracts o from v in place
func (v Vector) Sub(o Vector) error {
	if len(v) != len(o) {
		return ErrDimensionMismatch
	}
	for i := range v {
		v[i] -= o[i]
	}
	return nil
}

// Dot returns the dot product accumulated in float64
func (v Vector) Dot(o Vector) float64 {
	var sum float64
	for i := range v {
		if i >= len(o) {
			break
		}
		sum += float64(v[i]) * float64(o[i])
	}
	return sum
}

// Norm returns the Euclidean length of v
func (v Vector) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// IsZero reports whether every component is zero
func (v Vector) IsZero() bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// Cosine computes dot(a,b) / sqrt(dot(a,a) * dot(b,b)).
// It returns ErrUndefinedSimilarity when either vector has zero length
// and ErrDimensionMismatch when the widths differ.
func Cosine(a, b Vector) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}
	aa := a.Dot(a)
	bb := b.Dot(b)
	if aa == 0 || bb == 0 {
		return 0, ErrUndefinedSimilarity
	}
	return a.Dot(b) / math.Sqrt(aa*bb), nil
}
