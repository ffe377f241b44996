package sim

import (
	phyengine "github.com/physicslab/phyengine-go"
	"github.com/physicslab/phyengine-go/circuit"
)

// Analyze builds the graph in an engine, runs one analysis, and tears
// the circuit down again whatever happens. One-shot convenience over
// New, Circuit.Analyze, and Close for callers that do not reuse the
// built circuit.
func Analyze(g *circuit.Graph, req phyengine.Request, opts ...Option) (*Sample, error) {
	c, err := New(g, opts...)
	if err != nil {
		return nil, err
	}
	s, err := c.Analyze(req)
	if cerr := c.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
