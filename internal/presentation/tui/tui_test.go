package tui

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/checkmark/pkg/domain"
)

func sampleLocations() []domain.LocationStatus {
	return []domain.LocationStatus{
		{ID: "eastern_palace", Name: "Eastern Palace", Sections: []domain.SectionStatus{
			{Ref: domain.SectionRef{Location: "eastern_palace"}, Name: "chests", Kind: domain.KindDungeon, Total: 3, Available: 2, Accessibility: domain.Partial},
			{Ref: domain.SectionRef{Location: "eastern_palace", Index: 1}, Kind: domain.KindPrize, Total: 1, Available: 1, Boss: "armos", Prize: "green_pendant"},
		}},
		{ID: "mushroom", Sections: []domain.SectionStatus{
			{Ref: domain.SectionRef{Location: "mushroom"}, Kind: domain.KindItem, Total: 1, Available: 0, Accessibility: domain.Normal, UserManipulated: true},
		}},
	}
}

func TestPrintStatus_Ascii(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintStatus(&buf, sampleLocations(), termenv.Ascii))

	out := buf.String()
	assert.Contains(t, out, "LOCATION")
	assert.Contains(t, out, "partial")
	assert.Contains(t, out, "cleared")
	assert.Contains(t, out, "Eastern Palace")
	assert.NotContains(t, out, "\x1b[")
}

func TestReport(t *testing.T) {
	md := Report("demo", sampleLocations())

	assert.Contains(t, md, "# demo")
	assert.Contains(t, md, "| partial | 1 |")
	assert.Contains(t, md, "| normal | 0 |")
	assert.Contains(t, md, "## Eastern Palace")
	assert.Contains(t, md, "## mushroom")
	assert.Contains(t, md, "boss: armos, prize: green_pendant")
	assert.Contains(t, md, "| 0 |  | item | 0/1 | normal | manual |")
}

func TestRenderer_NotATerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, IsTerminal(f))
	assert.Equal(t, 72, Width(f, 72))

	render, err := NewRenderer(f)
	require.NoError(t, err)
	out, err := render("# Title\n\nbody")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "body")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), `\___|_| |_|`)
}
