package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// progressReporter is implemented by both the plain-stdout logger and the
// tcell live display, so the render loop doesn't need to know which one it
// has.
type progressReporter interface {
	Report(batch, totalBatches int, elapsedSeconds float64)
	Close()
}

// plainProgress prints one line per batch via fmt.Printf, used when
// print_progress is false or stdout isn't a terminal tcell can attach to.
type plainProgress struct{}

func (plainProgress) Report(batch, totalBatches int, elapsedSeconds float64) {
	fmt.Printf("batch %d/%d complete (%.1fs elapsed)\n", batch, totalBatches, elapsedSeconds)
}

func (plainProgress) Close() {}

// tcellProgress renders a single live progress bar in an alternate terminal
// screen, replacing its one line of content on every report instead of
// scrolling new lines.
type tcellProgress struct {
	screen tcell.Screen
}

// newTcellProgress initializes a tcell screen for live progress display. The
// caller falls back to plainProgress if this returns an error, e.g. when
// stdout isn't attached to a terminal tcell recognizes.
func newTcellProgress() (*tcellProgress, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.Clear()
	return &tcellProgress{screen: screen}, nil
}

func (t *tcellProgress) Report(batch, totalBatches int, elapsedSeconds float64) {
	t.screen.Clear()
	fraction := float64(batch) / float64(totalBatches)
	width, _ := t.screen.Size()
	barWidth := width - 20
	if barWidth < 1 {
		barWidth = 1
	}
	filled := int(fraction * float64(barWidth))

	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	for x := 0; x < filled && x < barWidth; x++ {
		t.screen.SetContent(x, 0, '█', nil, style)
	}
	label := fmt.Sprintf(" batch %d/%d  %.1fs", batch, totalBatches, elapsedSeconds)
	for i, r := range label {
		t.screen.SetContent(barWidth+i, 0, r, nil, tcell.StyleDefault)
	}
	t.screen.Show()
}

func (t *tcellProgress) Close() {
	t.screen.Fini()
}
