// Package probability implements the uniform arithmetic used throughout the
// belief-propagation core: scalar, interval, and p-box probability values
// behind a single tagged Value type, plus the sentinel DomainError raised
// when an operand falls outside [0,1].
//
// What
//
//   - Value: a tagged union over three backends (Kind):
//   - KindScalar:   a single float64 in [0,1].
//   - KindInterval: an ordered pair [Lo, Hi] with 0 <= Lo <= Hi <= 1.
//   - KindPBox:     a pair of monotone step functions bounding a CDF,
//     combined under the Fréchet (no-dependence-assumed) rule.
//   - Mul, Add, Complement: the three operations every backend must support,
//     dispatched by Kind rather than through an interface (arithmetic sites
//     switch on Kind and call a monomorphized per-Kind function).
//   - Zero, One, NonFixed: backend-appropriate constants; NonFixed is the
//     scratch prior used only by the hierarchy builder during structural
//     sub-diamond identification (never by belief arithmetic).
//
// Why
//
//   - Isolate numeric-backend choice from every other component: structural,
//     diamond, hierarchy, and belief never branch on Kind themselves — they
//     only ever call Mul/Add/Complement/IsZero/IsOne/Equal.
//   - Guarantee the three identities every backend must hold: one * x = x,
//     zero + x = x, and 1 - (1 - x) = x (the last up to p-box envelope
//     rounding), exercised directly by tests.
//
// Errors
//
//   - DomainError: a probability operand fell outside [0,1], or an interval
//     had Lo > Hi. Matches ErrDomain via errors.Is.
//
// Complexity
//
//   - All operations are O(1) for scalar/interval and O(n) for p-box, where
//     n is the number of step points in the envelope (bounded by the fixed
//     discretization used by NewPBoxComplex).
package probability
