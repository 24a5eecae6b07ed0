package presentation

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ayoisaiah/parkour/internal/geom"
	"github.com/ayoisaiah/parkour/internal/ui"
)

const barWidth = 20

// Console is a Sink that writes feedback to a terminal. It backs the
// simulate command.
type Console struct {
	w        io.Writer
	catalog  *Catalog
	barStyle lipgloss.Style
	urgent   lipgloss.Style
	mu       sync.Mutex
}

// NewConsole returns a Console writing to w.
func NewConsole(w io.Writer, catalog *Catalog) *Console {
	r := lipgloss.NewRenderer(w)

	return &Console{
		w:        w,
		catalog:  catalog,
		barStyle: r.NewStyle().Foreground(lipgloss.Color("#B0DB43")),
		urgent:   r.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true),
	}
}

func (c *Console) println(participant, s string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintln(c.w, ui.Cyan(participant+":"), s)
}

func (c *Console) Notify(participant, key string, placeholders ...string) {
	c.println(participant, c.catalog.Render(key, placeholders...))
}

func (c *Console) PlayCue(participant string, cue Cue) {
	c.println(participant, ui.Magenta("("+string(cue)+")"))
}

func (c *Console) SetProgressWidget(participant string, _ int, p Progress) {
	frac := math.Min(math.Max(p.Fraction, 0), 1)
	filled := int(math.Round(frac * barWidth))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	style := c.barStyle
	if p.Urgent {
		style = c.urgent
	}

	c.println(
		participant,
		fmt.Sprintf("%s %s %d%%", style.Render(bar), p.Label, int(math.Round(frac*100))),
	)
}

func (c *Console) ClearProgressWidget(string, int) {}

func (c *Console) ShowBlock(participant string, block geom.Block, material geom.Material, variant int) {
	c.println(participant, fmt.Sprintf("block %s shown as %s:%d", block, material, variant))
}

func (c *Console) RestoreBlock(participant string, block geom.Block) {
	c.println(participant, fmt.Sprintf("block %s restored", block))
}

// Teleport prints the destination. A console participant is always present.
func (c *Console) Teleport(participant string, to mgl64.Vec3) error {
	c.println(participant, ui.Green(fmt.Sprintf("teleported to %g,%g,%g", to[0], to[1], to[2])))

	return nil
}
