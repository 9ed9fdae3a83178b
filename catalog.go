package bloch

import "math"

// NamedState is a textbook state with a short name and a ket label.
type NamedState struct {
	Name  string
	Label string
	Qubit *Qubit
}

var invSqrt2 = complex(1/math.Sqrt2, 0)

/*
catalogAmplitudes lists the states by their amplitudes only. The coordinates
always come out of ToSpherical, so "minus-i" and "i-zero", which differ by a
global phase of i, are expected to land on the same point.
*/
var catalogAmplitudes = []struct {
	name, label string
	alpha, beta complex128
}{
	{"zero", "|0>", 1, 0},
	{"one", "|1>", 0, 1},
	{"minus-i", "1/sqrt(2)(|0> - i|1>)", invSqrt2, -1i * invSqrt2},
	{"i-zero", "1/sqrt(2)(i|0> + |1>)", 1i * invSqrt2, invSqrt2},
	{"plus", "1/sqrt(2)(|0> + |1>)", invSqrt2, invSqrt2},
	{"minus", "1/sqrt(2)(|0> - |1>)", invSqrt2, -invSqrt2},
	{"plus-i", "1/sqrt(2)(|0> + i|1>)", invSqrt2, 1i * invSqrt2},
}

// Catalog returns the named states in a fixed order.
func Catalog() []NamedState {
	out := make([]NamedState, 0, len(catalogAmplitudes))

	for _, entry := range catalogAmplitudes {
		q, err := NewQubit(entry.alpha, entry.beta)
		if err != nil {
			// Every entry is normalized; a failure here is a typo in the table.
			panic(err)
		}

		out = append(out, NamedState{Name: entry.name, Label: entry.label, Qubit: q})
	}

	return out
}

func Lookup(name string) (NamedState, bool) {
	for _, state := range Catalog() {
		if state.Name == name {
			return state, true
		}
	}

	return NamedState{}, false
}
