package render_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/muesli/termenv"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mutuals/internal/adapters/render"
	"go.trai.ch/mutuals/internal/core/domain"
)

// fixtureGraph is a root with four mutuals of degrees 3, 2, 2 and 1.
func fixtureGraph(t *testing.T) *domain.SocialGraph {
	t.Helper()

	id := domain.NewAccountID
	g := domain.NewSocialGraph()
	require.NoError(t, g.SetRoot(id("did:plc:alice"), "Alice"))

	for _, m := range []struct{ id, label string }{
		{"did:plc:bob", "Bob"},
		{"did:plc:carol", "Carol"},
		{"did:plc:dave", ""},
		{"did:plc:erin", `Erin "E"`},
	} {
		_, err := g.Attach(id(m.id), m.label, id("did:plc:alice"))
		require.NoError(t, err)
	}
	for _, pair := range [][2]string{
		{"did:plc:bob", "did:plc:carol"},
		{"did:plc:dave", "did:plc:bob"},
	} {
		_, err := g.AddEdge(id(pair[0]), id(pair[1]))
		require.NoError(t, err)
	}
	return g
}

func renderString(t *testing.T, format string, g *domain.SocialGraph) []byte {
	t.Helper()

	r, err := render.New(domain.RenderConfig{Format: format, MinIntensity: 0.3}, render.WithProfile(termenv.Ascii))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, g))
	return buf.Bytes()
}

func TestRender_Golden(t *testing.T) {
	for _, format := range []string{domain.FormatText, domain.FormatDOT, domain.FormatJSON} {
		t.Run(format, func(t *testing.T) {
			goldie.New(t).Assert(t, format+"_graph", renderString(t, format, fixtureGraph(t)))
		})
	}
}

func TestRender_EmptyGraph(t *testing.T) {
	g := domain.NewSocialGraph()

	assert.Equal(t, "Mutual graph\n0 nodes, 0 edges\n", string(renderString(t, domain.FormatText, g)))
	assert.JSONEq(t, `{"root":"","nodes":[],"edges":[]}`, string(renderString(t, domain.FormatJSON, g)))
}

func TestEncode(t *testing.T) {
	styles := render.Encode(fixtureGraph(t), 0.3)
	require.Len(t, styles, 5)

	byID := make(map[string]render.NodeStyle)
	for _, s := range styles {
		byID[s.ID.String()] = s
	}

	alice := byID["did:plc:alice"]
	assert.True(t, alice.Root)
	assert.Equal(t, 4, alice.Degree)
	assert.Equal(t, 2900, alice.Size)
	assert.InDelta(t, 1.0, alice.Intensity, 1e-9)
	assert.Equal(t, "#08306b", alice.Color)

	erin := byID["did:plc:erin"]
	assert.Equal(t, 1, erin.Degree)
	assert.Equal(t, 2600, erin.Size)
	assert.InDelta(t, 0.3, erin.Intensity, 1e-9)

	assert.Equal(t, "did:plc:dave", byID["did:plc:dave"].Label)
	assert.Equal(t, byID["did:plc:carol"].Color, byID["did:plc:dave"].Color)
}

func TestEncode_UniformDegree(t *testing.T) {
	g := domain.NewSocialGraph()
	a, b := domain.NewAccountID("did:plc:a"), domain.NewAccountID("did:plc:b")
	require.NoError(t, g.SetRoot(a, "A"))
	_, err := g.Attach(b, "B", a)
	require.NoError(t, err)

	for _, s := range render.Encode(g, 0.4) {
		assert.InDelta(t, 0.4, s.Intensity, 1e-9, s.ID.String())
		assert.Equal(t, 2600, s.Size)
	}
	assert.Nil(t, render.Encode(domain.NewSocialGraph(), 0.4))
}

func TestNew_UnsupportedFormat(t *testing.T) {
	_, err := render.New(domain.RenderConfig{Format: "svg"})
	require.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

var errDiskFull = errors.New("disk full")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errDiskFull
}

func TestRender_WriteFailure(t *testing.T) {
	for _, format := range []string{domain.FormatText, domain.FormatDOT, domain.FormatJSON} {
		t.Run(format, func(t *testing.T) {
			r, err := render.New(domain.RenderConfig{Format: format, MinIntensity: 0.3}, render.WithProfile(termenv.Ascii))
			require.NoError(t, err)

			err = r.Render(failingWriter{}, fixtureGraph(t))
			require.ErrorIs(t, err, domain.ErrRenderFailed)
			require.ErrorIs(t, err, errDiskFull)
		})
	}
}
