package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// pageProgress draws one bar for all extraction passes of a command. Passes
// may run concurrently, so each new pass grows the bar by its page count.
type pageProgress struct {
	mu    sync.Mutex
	w     io.Writer
	quiet bool
	bar   *progressbar.ProgressBar
	max   int
}

func newPageProgress(w io.Writer, quiet bool) *pageProgress {
	return &pageProgress{w: w, quiet: quiet}
}

// onPage is the extraction callback; done counts from 1 in every pass.
func (p *pageProgress) onPage(done, total int) {
	if p == nil || p.quiet {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if done == 1 {
		p.max += total
		if p.bar == nil {
			w := p.w
			p.bar = progressbar.NewOptions(p.max,
				progressbar.OptionSetWriter(w),
				progressbar.OptionSetDescription("Scanning pages"),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionThrottle(65*time.Millisecond),
				progressbar.OptionShowElapsedTimeOnFinish(),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(w)
				}),
			)
		} else {
			p.bar.ChangeMax(p.max)
		}
	}
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

// finish completes the current bar so the next command output starts on a clean line.
func (p *pageProgress) finish() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil && !p.bar.IsFinished() {
		_ = p.bar.Finish()
	}
	p.bar = nil
	p.max = 0
}
