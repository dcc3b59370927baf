package probability

import "math"

// Kind tags which backend a Value holds. Dispatch happens once per
// arithmetic call, on Kind, never through an interface method set — see
// doc.go's rationale (spec.md §9: "dynamic dispatch ... at arithmetic
// sites, not through deep polymorphism").
type Kind uint8

const (
	// KindScalar holds a single float64 in [0,1].
	KindScalar Kind = iota
	// KindInterval holds an ordered pair [Lo, Hi] with 0 <= Lo <= Hi <= 1.
	KindInterval
	// KindPBox holds a pair of discretized monotone quantile functions
	// bounding a CDF (see pbox.go).
	KindPBox
)

// Value is the tagged union shared by all three probability backends.
// Exactly one of the per-Kind fields is meaningful for a given Kind.
type Value struct {
	Kind Kind

	scalar float64 // KindScalar

	lo, hi float64 // KindInterval

	box *PBox // KindPBox
}

// NewScalar builds a KindScalar Value. Returns a DomainError if x is
// outside [0,1].
func NewScalar(x float64) (Value, error) {
	if x < 0 || x > 1 {
		return Value{}, NewDomainError("NewScalar", x)
	}
	return Value{Kind: KindScalar, scalar: x}, nil
}

// NewInterval builds a KindInterval Value. Returns a DomainError if lo or
// hi is outside [0,1], or if lo > hi.
func NewInterval(lo, hi float64) (Value, error) {
	if lo < 0 || lo > 1 {
		return Value{}, NewDomainError("NewInterval", lo)
	}
	if hi < 0 || hi > 1 {
		return Value{}, NewDomainError("NewInterval", hi)
	}
	if lo > hi {
		return Value{}, NewDomainError("NewInterval", hi-lo)
	}
	return Value{Kind: KindInterval, lo: lo, hi: hi}, nil
}

// Zero returns the additive identity for kind: 0 (scalar), [0,0]
// (interval), or a p-box degenerate at 0.
func Zero(kind Kind) Value {
	switch kind {
	case KindInterval:
		v, _ := NewInterval(0, 0)
		return v
	case KindPBox:
		v, _ := NewPBoxScalar(0)
		return v
	default:
		v, _ := NewScalar(0)
		return v
	}
}

// One returns the multiplicative identity for kind: 1 (scalar), [1,1]
// (interval), or a p-box degenerate at 1.
func One(kind Kind) Value {
	switch kind {
	case KindInterval:
		v, _ := NewInterval(1, 1)
		return v
	case KindPBox:
		v, _ := NewPBoxScalar(1)
		return v
	default:
		v, _ := NewScalar(1)
		return v
	}
}

// NonFixedValue is the literal constant the reference hierarchy-builder
// uses as a structural-only sentinel prior (spec.md §4.5 step (f), §9
// "Open questions"). hierarchy stores it as the synthesized prior of
// non-conditioning sub-sources; belief re-derives those priors instead of
// reading it, and diamond identification takes no priors, so it lives here
// as a plain constant rather than a Kind-dispatched helper.
const NonFixedValue = 0.9

// NonFixed returns the non_fixed sentinel for kind, degenerate at
// NonFixedValue.
func NonFixed(kind Kind) Value {
	switch kind {
	case KindInterval:
		v, _ := NewInterval(NonFixedValue, NonFixedValue)
		return v
	case KindPBox:
		v, _ := NewPBoxScalar(NonFixedValue)
		return v
	default:
		v, _ := NewScalar(NonFixedValue)
		return v
	}
}

// Scalar reports the scalar payload and whether v is KindScalar.
func (v Value) Scalar() (float64, bool) {
	if v.Kind != KindScalar {
		return 0, false
	}
	return v.scalar, true
}

// Bounds reports the [lo, hi] payload and whether v is KindInterval.
func (v Value) Bounds() (lo, hi float64, ok bool) {
	if v.Kind != KindInterval {
		return 0, 0, false
	}
	return v.lo, v.hi, true
}

// Box reports the *PBox payload and whether v is KindPBox.
func (v Value) Box() (*PBox, bool) {
	if v.Kind != KindPBox {
		return nil, false
	}
	return v.box, true
}

// Mul returns a*b. a and b must share the same Kind.
func (a Value) Mul(b Value) (Value, error) {
	if a.Kind != b.Kind {
		return Value{}, NewDomainError("Mul: mismatched Kind", float64(b.Kind))
	}
	switch a.Kind {
	case KindInterval:
		return Value{Kind: KindInterval, lo: a.lo * b.lo, hi: a.hi * b.hi}, nil
	case KindPBox:
		return Value{Kind: KindPBox, box: mulPBox(a.box, b.box)}, nil
	default:
		return Value{Kind: KindScalar, scalar: a.scalar * b.scalar}, nil
	}
}

// Add returns a+b. a and b must share the same Kind. Internal arithmetic
// does not clamp to [0,1]; callers at the engine's output boundary decide
// whether a result outside tolerance is a NumericalError.
func (a Value) Add(b Value) (Value, error) {
	if a.Kind != b.Kind {
		return Value{}, NewDomainError("Add: mismatched Kind", float64(b.Kind))
	}
	switch a.Kind {
	case KindInterval:
		return Value{Kind: KindInterval, lo: a.lo + b.lo, hi: a.hi + b.hi}, nil
	case KindPBox:
		return Value{Kind: KindPBox, box: addPBox(a.box, b.box)}, nil
	default:
		return Value{Kind: KindScalar, scalar: a.scalar + b.scalar}, nil
	}
}

// Complement returns 1 - a.
func (a Value) Complement() Value {
	switch a.Kind {
	case KindInterval:
		return Value{Kind: KindInterval, lo: 1 - a.hi, hi: 1 - a.lo}
	case KindPBox:
		return Value{Kind: KindPBox, box: complementPBox(a.box)}
	default:
		return Value{Kind: KindScalar, scalar: 1 - a.scalar}
	}
}

// IsZero reports whether a is exactly the Zero value for its Kind.
func (a Value) IsZero() bool {
	switch a.Kind {
	case KindInterval:
		return a.lo == 0 && a.hi == 0
	case KindPBox:
		return a.box.isDegenerateAt(0)
	default:
		return a.scalar == 0
	}
}

// IsOne reports whether a is exactly the One value for its Kind.
func (a Value) IsOne() bool {
	switch a.Kind {
	case KindInterval:
		return a.lo == 1 && a.hi == 1
	case KindPBox:
		return a.box.isDegenerateAt(1)
	default:
		return a.scalar == 1
	}
}

// Equal reports structural equality: same Kind and identical payload.
func (a Value) Equal(b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindInterval:
		return a.lo == b.lo && a.hi == b.hi
	case KindPBox:
		return a.box.equal(b.box)
	default:
		return a.scalar == b.scalar
	}
}

// Midpoint returns the scalar midpoint of a, used by the interval-soundness
// test (spec.md §8 property 7): the scalar backend run at every midpoint
// must land inside the interval backend's [lo,hi].
func (a Value) Midpoint() float64 {
	switch a.Kind {
	case KindInterval:
		return (a.lo + a.hi) / 2
	case KindPBox:
		return a.box.mean()
	default:
		return a.scalar
	}
}

// clamp01 restricts x to [0,1]; used only at arithmetic-internal boundaries
// that are mathematically guaranteed to stay in range (e.g. quantile
// construction) and never to paper over a genuine out-of-range result.
func clamp01(x float64) float64 {
	return math.Min(1, math.Max(0, x))
}
