package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const spinnerInterval = 120 * time.Millisecond

var spinnerFrames = [...]string{"⬡", "⬢"}

// spinner redraws one terminal line until it is stopped or its context
// ends. The line is blank again once done is closed.
type spinner struct {
	w    io.Writer
	msg  string
	quit chan struct{}
	done chan struct{}
	once sync.Once
}

func startSpinner(ctx context.Context, w io.Writer, msg string) *spinner {
	s := &spinner{w: w, msg: msg, quit: make(chan struct{}), done: make(chan struct{})}
	go s.run(ctx)
	return s
}

func (s *spinner) run(ctx context.Context) {
	defer close(s.done)
	defer fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.msg)+4))

	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()
	for frame := 0; ; frame++ {
		select {
		case <-ctx.Done():
			return
		case <-s.quit:
			return
		case <-tick.C:
			icon := spinnerFrames[frame%len(spinnerFrames)]
			fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(icon), StyleDim.Render(s.msg))
		}
	}
}

// stop clears the line and returns once the spinner has stopped drawing.
// It may be called more than once.
func (s *spinner) stop() {
	s.once.Do(func() { close(s.quit) })
	<-s.done
}

// fail stops the spinner and reports msg as an error.
func (s *spinner) fail(msg string) {
	s.stop()
	printError("%s", msg)
}
