// Package progress reports how many bytes an archive job has processed.
package progress

import (
	"os"

	"github.com/mattn/go-isatty"
)

// Reporter receives byte progress. Current never exceeds the total given
// to Start.
type Reporter interface {
	Start(total int64)
	Add(n int64)
	Finish()
}

// Nop discards progress.
type Nop struct{}

func (Nop) Start(int64) {}
func (Nop) Add(int64)   {}
func (Nop) Finish()     {}

// ForTerminal returns a Bar when f is a terminal and Nop otherwise.
func ForTerminal(f *os.File) Reporter {
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return NewBar(f)
	}
	return Nop{}
}

// Counter records progress in memory. Updates holds the value after every
// Add.
type Counter struct {
	Total   int64
	Current int64
	Updates []int64
	Done    bool
}

// Start resets the counter for total bytes.
func (c *Counter) Start(total int64) {
	c.Total = total
	c.Current = 0
	c.Updates = nil
	c.Done = false
}

// Add advances Current by n, bounded by Total.
func (c *Counter) Add(n int64) {
	c.Current = advance(c.Current, n, c.Total)
	c.Updates = append(c.Updates, c.Current)
}

// Finish marks the counter done.
func (c *Counter) Finish() { c.Done = true }

// advance adds n to cur without passing total or going backwards.
func advance(cur, n, total int64) int64 {
	if n <= 0 {
		return cur
	}
	cur += n
	if cur > total {
		cur = total
	}
	return cur
}
