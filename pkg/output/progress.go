package output

import (
	"io"
	"sync"

	"github.com/cheggaaa/pb/v3"
)

// Progress draws one progress bar per scanned tree. A disabled Progress
// accepts every call and draws nothing.
type Progress struct {
	mu      sync.Mutex
	writer  io.Writer
	enabled bool
	bar     *pb.ProgressBar
}

// NewProgress creates a progress display on w. It only draws when enabled
// and w is a terminal.
func NewProgress(w io.Writer, enabled bool) *Progress {
	return &Progress{
		writer:  w,
		enabled: enabled && IsTerminal(w),
	}
}

// Begin starts a bar for label with total files
func (p *Progress) Begin(label string, total int) {
	if !p.enabled {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		p.bar.Finish()
	}
	bar := pb.New(total)
	bar.SetWriter(p.writer)
	bar.SetTemplate(pb.Full)
	bar.Set("prefix", label+" ")
	p.bar = bar.Start()
}

// Step advances the current bar by one file
func (p *Progress) Step(path string) {
	if !p.enabled {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		p.bar.Increment()
	}
}

// End finishes the current bar
func (p *Progress) End() {
	if !p.enabled {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
	}
}
