package bloch

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

/*
SphericalCoordinate is the (theta, phi, r) triple a Bloch-sphere plot needs.
Theta is the polar angle in [0, pi], Phi the relative phase in (-pi, pi],
and R the radius, which is 1 for every pure state.
*/
type SphericalCoordinate struct {
	Theta float64 `json:"theta"`
	Phi   float64 `json:"phi"`
	R     float64 `json:"r"`
}

/*
ToSpherical maps alpha|0> + beta|1> onto the Bloch sphere. The amplitudes
must satisfy |alpha|^2 + |beta|^2 = 1 within DefaultTolerance, otherwise an
*InvalidStateError is returned. Any global phase on the pair is discarded.
*/
func ToSpherical(alpha, beta complex128) (SphericalCoordinate, error) {
	return ToSphericalWithin(alpha, beta, DefaultTolerance)
}

// ToSphericalWithin is ToSpherical with an explicit normalization tolerance.
func ToSphericalWithin(alpha, beta complex128, tolerance float64) (SphericalCoordinate, error) {
	q, err := NewQubitWithin(alpha, beta, tolerance)
	if err != nil {
		return SphericalCoordinate{}, err
	}

	return q.Spherical(), nil
}

/*
NewSphericalCoordinate accepts an explicit triple. Phi is wrapped into
(-pi, pi] and forced to 0 at the poles, where it carries no information.
Theta outside [0, pi] or a radius other than 1 is rejected.
*/
func NewSphericalCoordinate(theta, phi, r float64) (SphericalCoordinate, error) {
	for _, v := range []float64{theta, phi, r} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return SphericalCoordinate{}, &InvalidStateError{
				Norm:      v,
				Tolerance: DefaultTolerance,
				Reason:    "angles and radius must be finite",
			}
		}
	}

	if theta < -DefaultTolerance || theta > math.Pi+DefaultTolerance {
		return SphericalCoordinate{}, &InvalidStateError{
			Norm:      theta,
			Tolerance: DefaultTolerance,
			Reason:    fmt.Sprintf("theta %g outside [0, pi]", theta),
		}
	}

	if !scalar.EqualWithinAbs(r, 1, DefaultTolerance) {
		return SphericalCoordinate{}, &InvalidStateError{
			Norm:      r,
			Tolerance: DefaultTolerance,
			Reason:    fmt.Sprintf("radius %g, pure states sit on the unit sphere", r),
		}
	}

	theta = clamp(theta, 0, math.Pi)

	if theta <= DefaultTolerance || math.Pi-theta <= DefaultTolerance {
		phi = 0
	}

	return SphericalCoordinate{Theta: theta, Phi: wrapPhase(phi), R: 1}, nil
}

/*
FromVector is the inverse of Vector for points on the unit sphere.
*/
func FromVector(v r3.Vec) (SphericalCoordinate, error) {
	r := r3.Norm(v)

	if !scalar.EqualWithinAbs(r, 1, DefaultTolerance) {
		return SphericalCoordinate{}, &InvalidStateError{
			Norm:      r,
			Tolerance: DefaultTolerance,
			Reason:    fmt.Sprintf("bloch vector length %g, want 1", r),
		}
	}

	theta := math.Acos(clamp(v.Z/r, -1, 1))
	phi := 0.0

	if math.Hypot(v.X, v.Y) > DefaultTolerance {
		phi = math.Atan2(v.Y, v.X)
	}

	return NewSphericalCoordinate(theta, phi, 1)
}

// Amplitudes rebuilds the canonical state cos(theta/2)|0> + e^{i phi} sin(theta/2)|1>.
func (c SphericalCoordinate) Amplitudes() (alpha, beta complex128) {
	half := c.Theta / 2
	return complex(math.Cos(half), 0), cmplx.Rect(math.Sin(half), c.Phi)
}

// Vector returns the Cartesian Bloch vector.
func (c SphericalCoordinate) Vector() r3.Vec {
	sinTheta := math.Sin(c.Theta)

	return r3.Vec{
		X: c.R * sinTheta * math.Cos(c.Phi),
		Y: c.R * sinTheta * math.Sin(c.Phi),
		Z: c.R * math.Cos(c.Theta),
	}
}

// Triple is the [theta, phi, r] list plotting widgets take.
func (c SphericalCoordinate) Triple() [3]float64 {
	return [3]float64{c.Theta, c.Phi, c.R}
}

func (c SphericalCoordinate) String() string {
	return fmt.Sprintf("[%g, %g, %g]", c.Theta, c.Phi, c.R)
}

// poleCutoff is the amplitude magnitude below which phi is undefined. It is
// fixed so a loose normalization tolerance cannot erase a real phase.
const poleCutoff = DefaultTolerance / 2

func sphericalFrom(alpha, beta complex128) SphericalCoordinate {
	a, b := cmplx.Abs(alpha), cmplx.Abs(beta)

	// atan2 stays accurate near the poles where acos(|alpha|) loses digits.
	theta := clamp(2*math.Atan2(b, a), 0, math.Pi)
	phi := 0.0

	if a > poleCutoff && b > poleCutoff {
		phi = wrapPhase(cmplx.Phase(beta) - cmplx.Phase(alpha))
	}

	return SphericalCoordinate{Theta: theta, Phi: phi, R: 1}
}

// wrapPhase maps any angle into (-pi, pi].
func wrapPhase(phi float64) float64 {
	phi = math.Remainder(phi, 2*math.Pi)

	if phi <= -math.Pi {
		phi += 2 * math.Pi
	}

	if phi == 0 {
		return 0
	}

	return phi
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
