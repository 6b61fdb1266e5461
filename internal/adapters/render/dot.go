package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"go.trai.ch/mutuals/internal/core/domain"
)

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// DOT writes the graph as an undirected Graphviz document.
type DOT struct {
	minIntensity float64
}

// Render writes g to w.
func (d *DOT) Render(w io.Writer, g *domain.SocialGraph) error {
	var buf bytes.Buffer

	buf.WriteString("graph mutuals {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString(`  node [shape=circle, style=filled, fixedsize=true, fontsize=10, fontname="Helvetica-Bold"];` + "\n")
	buf.WriteString(`  edge [color=gray, penwidth=2];` + "\n")

	for _, s := range Encode(g, d.minIntensity) {
		fontColor := "black"
		if s.Intensity > 0.5 {
			fontColor = "white"
		}
		fmt.Fprintf(&buf, "  %s [label=%s, width=%.2f, fillcolor=%q, fontcolor=%s];\n",
			dotID(s.ID), dotString(s.Label), s.Width(), s.Color, fontColor)
	}

	for e := range g.Edges() {
		fmt.Fprintf(&buf, "  %s -- %s;\n", dotID(e.A), dotID(e.B))
	}
	buf.WriteString("}\n")

	return flush(w, &buf, domain.FormatDOT)
}

func dotID(id domain.AccountID) string {
	return dotString(id.String())
}

func dotString(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}
