package bloch

import (
	"math"
	"math/cmplx"

	"github.com/theapemachine/errnie"
	"gonum.org/v1/gonum/floats/scalar"
)

// Qubit is a validated pure state alpha|0> + beta|1>.
type Qubit struct {
	alpha complex128 // |0> amplitude
	beta  complex128 // |1> amplitude
}

/*
NewQubit validates the amplitudes against the normalization constraint
|alpha|^2 + |beta|^2 = 1 using DefaultTolerance.
*/
func NewQubit(alpha, beta complex128) (*Qubit, error) {
	return NewQubitWithin(alpha, beta, DefaultTolerance)
}

// NewQubitWithin is NewQubit with an explicit normalization tolerance.
func NewQubitWithin(alpha, beta complex128, tolerance float64) (*Qubit, error) {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	if !finite(alpha) || !finite(beta) {
		return nil, &InvalidStateError{
			Norm:      math.NaN(),
			Tolerance: tolerance,
			Reason:    "amplitudes are not finite",
		}
	}

	norm := squaredNorm(alpha, beta)

	if !scalar.EqualWithinAbs(norm, 1, tolerance) {
		errnie.Info("NewQubit - rejected alpha %v, beta %v, norm %v", alpha, beta, norm)

		return nil, &InvalidStateError{Norm: norm, Tolerance: tolerance}
	}

	return &Qubit{alpha: alpha, beta: beta}, nil
}

/*
NewQubitFromAngles builds the canonical state
cos(theta/2)|0> + e^{i phi} sin(theta/2)|1>, whose |0> amplitude is real and
non-negative.
*/
func NewQubitFromAngles(theta, phi float64) (*Qubit, error) {
	coord, err := NewSphericalCoordinate(theta, phi, 1)
	if err != nil {
		return nil, err
	}

	alpha, beta := coord.Amplitudes()
	return &Qubit{alpha: alpha, beta: beta}, nil
}

func (q *Qubit) Alpha() complex128 { return q.alpha }
func (q *Qubit) Beta() complex128  { return q.beta }

// Norm returns |alpha|^2 + |beta|^2.
func (q *Qubit) Norm() float64 {
	return squaredNorm(q.alpha, q.beta)
}

// Probabilities returns the chance of measuring |0> and |1>.
func (q *Qubit) Probabilities() (p0, p1 float64) {
	norm := q.Norm()
	return squaredAbs(q.alpha) / norm, squaredAbs(q.beta) / norm
}

// Spherical places the qubit on the Bloch sphere.
func (q *Qubit) Spherical() SphericalCoordinate {
	return sphericalFrom(q.alpha, q.beta)
}

func squaredAbs(z complex128) float64 {
	return real(z)*real(z) + imag(z)*imag(z)
}

func squaredNorm(alpha, beta complex128) float64 {
	return squaredAbs(alpha) + squaredAbs(beta)
}

func finite(z complex128) bool {
	return !cmplx.IsNaN(z) && !cmplx.IsInf(z)
}
