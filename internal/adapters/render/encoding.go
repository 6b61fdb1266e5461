// Package render writes a finished social graph as a styled text table,
// Graphviz DOT or JSON. Every format shares one degree-proportional encoding:
// hubs are drawn larger and in a deeper blue.
package render

import (
	"cmp"
	"math"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
	"go.trai.ch/mutuals/internal/core/domain"
	"go.trai.ch/mutuals/internal/ui/style"
)

const (
	baseSize    = 2500
	sizePerEdge = 100
	// pointsPerInch converts a node area in square points to a Graphviz width.
	pointsPerInch = 72
)

var (
	rampLow  = mustHex(string(style.RampLow))
	rampHigh = mustHex(string(style.RampHigh))
)

// NodeStyle is the visual encoding of one node.
type NodeStyle struct {
	domain.Node
	Root      bool
	Degree    int
	Size      int
	Intensity float64
	Color     string
}

// Width returns the diameter, in inches, of a circle whose area is Size square points.
func (s NodeStyle) Width() float64 {
	return math.Sqrt(float64(s.Size)) / pointsPerInch
}

// Encode computes the style of every node of g, ordered by identifier.
// Intensity is minIntensity + (1-minIntensity) * normalized degree, where the
// degree is normalized over the graph's own degree range. A graph whose nodes
// all share one degree maps every node to minIntensity.
func Encode(g *domain.SocialGraph, minIntensity float64) []NodeStyle {
	root := g.Root()

	var styles []NodeStyle
	for n := range g.Nodes() {
		d := g.Degree(n.ID)
		styles = append(styles, NodeStyle{
			Node:   n,
			Root:   n.ID == root,
			Degree: d,
			Size:   baseSize + sizePerEdge*d,
		})
	}
	if len(styles) == 0 {
		return nil
	}

	lo := slices.MinFunc(styles, byDegree).Degree
	hi := slices.MaxFunc(styles, byDegree).Degree
	for i := range styles {
		var norm float64
		if hi > lo {
			norm = float64(styles[i].Degree-lo) / float64(hi-lo)
		}
		styles[i].Intensity = minIntensity + (1-minIntensity)*norm
		styles[i].Color = rampLow.BlendRgb(rampHigh, styles[i].Intensity).Hex()
	}
	return styles
}

// ranked orders styles root first, then by descending degree, then by identifier.
func ranked(styles []NodeStyle) []NodeStyle {
	out := slices.Clone(styles)
	slices.SortStableFunc(out, func(a, b NodeStyle) int {
		switch {
		case a.Root != b.Root:
			if a.Root {
				return -1
			}
			return 1
		case a.Degree != b.Degree:
			return cmp.Compare(b.Degree, a.Degree)
		default:
			return a.ID.Compare(b.ID)
		}
	})
	return out
}

func byDegree(a, b NodeStyle) int {
	return cmp.Compare(a.Degree, b.Degree)
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
