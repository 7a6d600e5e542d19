// Package progress reports per-item progress of a sequential run.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// Reporter receives one Step per processed item.
type Reporter interface {
	Step(label string)
	Finish()
}

// New returns a progress bar when w is a terminal and a line-per-item
// reporter otherwise.
func New(w io.Writer, total int, desc string) Reporter {
	if isTerminal(w) {
		return newBar(w, total, desc)
	}
	return &lineReporter{w: w, total: total, desc: desc}
}

// Nop returns a Reporter that discards everything.
func Nop() Reporter { return nopReporter{} }

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type barReporter struct {
	bar *progressbar.ProgressBar
}

func newBar(w io.Writer, total int, desc string) *barReporter {
	return &barReporter{bar: progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionOnCompletion(func() { _, _ = fmt.Fprintln(w) }),
	)}
}

func (b *barReporter) Step(string) { _ = b.bar.Add(1) }

func (b *barReporter) Finish() { _ = b.bar.Finish() }

type lineReporter struct {
	w     io.Writer
	total int
	desc  string
	n     int
}

func (l *lineReporter) Step(label string) {
	l.n++
	_, _ = fmt.Fprintf(l.w, "%s %d/%d %s\n", l.desc, l.n, l.total, label)
}

func (l *lineReporter) Finish() {}

type nopReporter struct{}

func (nopReporter) Step(string) {}
func (nopReporter) Finish()     {}
