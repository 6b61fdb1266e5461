package render

import (
	"bytes"
	"encoding/json"
	"io"
	"math"

	"go.trai.ch/mutuals/internal/core/domain"
	"go.trai.ch/zerr"
)

// JSON writes the graph as a node-link document.
type JSON struct {
	minIntensity float64
}

type jsonGraph struct {
	Root  domain.AccountID `json:"root"`
	Nodes []jsonNode       `json:"nodes"`
	Edges []jsonEdge       `json:"edges"`
}

type jsonNode struct {
	ID        domain.AccountID `json:"id"`
	Label     string           `json:"label"`
	Degree    int              `json:"degree"`
	Size      int              `json:"size"`
	Intensity float64          `json:"intensity"`
	Color     string           `json:"color"`
}

type jsonEdge struct {
	Source domain.AccountID `json:"source"`
	Target domain.AccountID `json:"target"`
}

// Render writes g to w.
func (j *JSON) Render(w io.Writer, g *domain.SocialGraph) error {
	doc := jsonGraph{
		Root:  g.Root(),
		Nodes: []jsonNode{},
		Edges: []jsonEdge{},
	}
	for _, s := range Encode(g, j.minIntensity) {
		doc.Nodes = append(doc.Nodes, jsonNode{
			ID:        s.ID,
			Label:     s.Label,
			Degree:    s.Degree,
			Size:      s.Size,
			Intensity: math.Round(s.Intensity*1000) / 1000,
			Color:     s.Color,
		})
	}
	for e := range g.Edges() {
		doc.Edges = append(doc.Edges, jsonEdge{Source: e.A, Target: e.B})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrRenderFailed.Error()), "format", domain.FormatJSON)
	}
	return flush(w, &buf, domain.FormatJSON)
}
