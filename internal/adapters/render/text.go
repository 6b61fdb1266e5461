package render

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/mutuals/internal/core/domain"
	"go.trai.ch/mutuals/internal/ui/style"
)

const columnGap = "  "

// Text writes the graph as a styled table for a terminal.
type Text struct {
	minIntensity float64
	profile      *termenv.Profile
}

// Render writes g to w.
func (t *Text) Render(w io.Writer, g *domain.SocialGraph) error {
	r := lipgloss.NewRenderer(w)
	if t.profile != nil {
		r.SetColorProfile(*t.profile)
	}

	title := r.NewStyle().Bold(true)
	muted := r.NewStyle().Foreground(style.Slate)

	styles := ranked(Encode(g, t.minIntensity))
	var buf bytes.Buffer

	heading := "Mutual graph"
	if root := g.Root(); !root.IsZero() {
		label, _ := g.Label(root)
		heading = fmt.Sprintf("Mutual graph of %s (%s)", label, root)
	}
	buf.WriteString(title.Render(heading) + "\n")
	buf.WriteString(muted.Render(fmt.Sprintf("%d nodes, %d edges", g.NodeCount(), g.EdgeCount())) + "\n")

	if len(styles) > 0 {
		rows := [][]string{{"NAME", "ACCOUNT", "DEGREE", "COLOR"}}
		for _, s := range styles {
			rows = append(rows, []string{s.Label, s.ID.String(), strconv.Itoa(s.Degree), s.Color})
		}
		widths := columnWidths(rows)

		buf.WriteString("\n")
		buf.WriteString(muted.Render("  "+joinRow(rows[0], widths)) + "\n")
		for i, s := range styles {
			dot := r.NewStyle().Foreground(lipgloss.Color(s.Color)).Render(style.Dot)
			buf.WriteString(dot + " " + joinRow(rows[i+1], widths) + "\n")
		}
	}

	if g.EdgeCount() > 0 {
		buf.WriteString("\n" + title.Render("Edges") + "\n")
		for e := range g.Edges() {
			a, _ := g.Label(e.A)
			b, _ := g.Label(e.B)
			fmt.Fprintf(&buf, "  %s %s %s\n", a, muted.Render("<->"), b)
		}
	}

	return flush(w, &buf, domain.FormatText)
}

func columnWidths(rows [][]string) []int {
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}
	return widths
}

// joinRow pads every cell but the last to its column width.
func joinRow(cells []string, widths []int) string {
	var sb strings.Builder
	for i, cell := range cells {
		if i > 0 {
			sb.WriteString(columnGap)
		}
		sb.WriteString(cell)
		if i < len(cells)-1 {
			sb.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)))
		}
	}
	return sb.String()
}
