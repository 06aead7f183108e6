package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// rebuildProgress spins on stderr while the indexer runs. It stays silent
// when stderr is not a terminal or JSON output was requested.
type rebuildProgress struct {
	enabled bool
	out     io.Writer
	label   string
	start   time.Time

	stop    chan struct{}
	done    sync.WaitGroup
	lastLen int
}

func newRebuildProgress(label string, asJSON bool) *rebuildProgress {
	stat, err := os.Stderr.Stat()
	enabled := err == nil && (stat.Mode()&os.ModeCharDevice) != 0 && !asJSON
	return &rebuildProgress{
		enabled: enabled,
		out:     os.Stderr,
		label:   label,
	}
}

func (r *rebuildProgress) Start() {
	r.start = time.Now()
	if !r.enabled {
		return
	}
	r.stop = make(chan struct{})
	r.done.Add(1)
	go func() {
		defer r.done.Done()
		frames := [4]string{"-", "\\", "|", "/"}
		ticker := time.NewTicker(120 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			elapsed := time.Since(r.start).Round(time.Second)
			r.printStatus(fmt.Sprintf("%s %s (%s)", frames[i%len(frames)], r.label, elapsed))
			select {
			case <-r.stop:
				return
			case <-ticker.C:
			}
		}
	}()
}

func (r *rebuildProgress) Done(err error) {
	if !r.enabled {
		return
	}
	close(r.stop)
	r.done.Wait()
	elapsed := time.Since(r.start).Round(time.Millisecond)
	status := fmt.Sprintf("%s complete in %s", r.label, elapsed)
	if err != nil {
		status = fmt.Sprintf("%s failed after %s", r.label, elapsed)
	}
	r.printStatus(status)
	fmt.Fprintln(r.out)
}

func (r *rebuildProgress) printStatus(status string) {
	if r.lastLen > len(status) {
		status = status + strings.Repeat(" ", r.lastLen-len(status))
	}
	r.lastLen = len(status)
	fmt.Fprintf(r.out, "\r%s", status)
}
