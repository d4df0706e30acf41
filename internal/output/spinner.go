package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

const spinnerInterval = 80 * time.Millisecond

// Spinner animates a status line on w (typically stderr) while files are
// counted. Progress may be called from any goroutine.
type Spinner struct {
	mu      sync.Mutex
	w       io.Writer
	label   string
	done    int
	total   int
	width   int
	quit    chan struct{}
	wg      sync.WaitGroup
	running bool
}

// NewSpinner creates a spinner that writes to w.
func NewSpinner(w io.Writer) *Spinner {
	return &Spinner{w: w}
}

// Start begins the animation with the given label. Calling Start on a
// running spinner only changes the label.
func (s *Spinner) Start(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.label = label
	if s.running {
		return
	}
	s.running = true
	s.quit = make(chan struct{})
	s.wg.Add(1)
	go s.loop(s.quit)
}

// Progress records how many of total units are done. It matches the
// progress callback signature used by the pipeline.
func (s *Spinner) Progress(done, total int) {
	s.mu.Lock()
	s.done, s.total = done, total
	s.mu.Unlock()
}

// Stop halts the animation, waits for the last frame and clears the line.
// It is idempotent.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.quit)
	s.mu.Unlock()

	s.wg.Wait()

	s.mu.Lock()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	s.mu.Unlock()
}

func (s *Spinner) line(frame rune) string {
	if s.total > 0 {
		return fmt.Sprintf("%c %s %d/%d", frame, s.label, s.done, s.total)
	}
	return fmt.Sprintf("%c %s", frame, s.label)
}

func (s *Spinner) loop(quit <-chan struct{}) {
	defer s.wg.Done()
	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()

	for i := 0; ; i++ {
		select {
		case <-quit:
			return
		case <-tick.C:
			s.mu.Lock()
			text := s.line(spinnerFrames[i%len(spinnerFrames)])
			n := len([]rune(text))
			// Pad over leftovers from a longer previous line.
			fmt.Fprintf(s.w, "\r%s%s", text, strings.Repeat(" ", max(s.width-n, 0)))
			s.width = max(s.width, n)
			s.mu.Unlock()
		}
	}
}
