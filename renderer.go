package bloch

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"sigs.k8s.io/yaml"
)

/*
Renderer is whatever draws a point on a Bloch sphere. The package never draws
anything itself; it only hands coordinates to a Renderer.
*/
type Renderer interface {
	Plot(coord SphericalCoordinate) error
}

// RendererFunc adapts a plain function to Renderer.
type RendererFunc func(SphericalCoordinate) error

func (fn RendererFunc) Plot(coord SphericalCoordinate) error {
	return fn(coord)
}

/*
Plot converts each qubit and hands the coordinate to the renderer, stopping
at the first renderer error.
*/
func Plot(renderer Renderer, qubits ...*Qubit) error {
	for i, q := range qubits {
		if err := renderer.Plot(q.Spherical()); err != nil {
			return fmt.Errorf("plotting qubit %d: %w", i, err)
		}
	}

	return nil
}

// Recorder keeps every coordinate it is asked to plot.
type Recorder struct {
	mu     sync.RWMutex
	points []SphericalCoordinate
}

func NewRecorder() *Recorder {
	return &Recorder{points: make([]SphericalCoordinate, 0)}
}

func (r *Recorder) Plot(coord SphericalCoordinate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.points = append(r.points, coord)
	return nil
}

// Points returns a copy of what has been plotted so far.
func (r *Recorder) Points() []SphericalCoordinate {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]SphericalCoordinate, len(r.points))
	copy(out, r.points)
	return out
}

// Format selects how an EncodingRenderer writes coordinates.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

/*
EncodingRenderer writes one record per coordinate to w, so an external
plotting tool can pick the triples up from a pipe or a file.
*/
type EncodingRenderer struct {
	mu     sync.Mutex
	w      io.Writer
	format Format
}

func NewEncodingRenderer(w io.Writer, format Format) (*EncodingRenderer, error) {
	switch format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}

	return &EncodingRenderer{w: w, format: format}, nil
}

func (e *EncodingRenderer) Plot(coord SphericalCoordinate) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var (
		buf []byte
		err error
	)

	switch e.format {
	case FormatJSON:
		buf, err = json.Marshal(coord)
		buf = append(buf, '\n')
	case FormatYAML:
		buf, err = yaml.Marshal([]SphericalCoordinate{coord})
	default:
		buf = []byte(coord.String() + "\n")
	}

	if err != nil {
		return fmt.Errorf("encoding %s: %w", coord, err)
	}

	_, err = e.w.Write(buf)
	return err
}
