package progress

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const barWidth = 40

var labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#007BC0"))

// Bar draws a single-line progress bar, redrawn in place on every update.
type Bar struct {
	out     io.Writer
	model   progress.Model
	label   string
	total   int64
	current int64
}

// NewBar returns a bar drawing to out.
func NewBar(out io.Writer) *Bar {
	return &Bar{
		out:   out,
		model: progress.New(progress.WithGradient("#007BC0", "#011E5C"), progress.WithWidth(barWidth)),
		label: "Archiving",
	}
}

// Start resets the bar to zero of total bytes.
func (b *Bar) Start(total int64) {
	b.total = total
	b.current = 0
	b.render()
}

// Add advances the bar by n bytes.
func (b *Bar) Add(n int64) {
	b.current = advance(b.current, n, b.total)
	b.render()
}

// Finish draws the final state and ends the line.
func (b *Bar) Finish() {
	b.render()
	fmt.Fprintln(b.out)
}

func (b *Bar) percent() float64 {
	if b.total <= 0 {
		return 1
	}
	return float64(b.current) / float64(b.total)
}

func (b *Bar) render() {
	fmt.Fprintf(b.out, "\r%s %s %s/%s",
		labelStyle.Render(b.label),
		b.model.ViewAs(b.percent()),
		humanize.IBytes(uint64(b.current)),
		humanize.IBytes(uint64(b.total)),
	)
}
