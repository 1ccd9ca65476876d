package progress

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Reporter provides progress feedback during page sync.
type Reporter interface {
	Start(total int)
	Update(current int, key string)
	Skip(key string, err error)
	Finish(synced, skipped int)
}

// NewReporter returns a TerminalReporter if running in an interactive
// terminal, or a CIReporter if the CI environment variable is set.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{}
	}
	return &TerminalReporter{}
}

// TerminalReporter displays a progress bar in the terminal.
type TerminalReporter struct {
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Syncing pages"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Update(current int, key string) {
	if r.bar != nil {
		r.bar.Describe(key)
		_ = r.bar.Set(current)
	}
}

func (r *TerminalReporter) Skip(key string, err error) {
	if r.bar != nil {
		_ = r.bar.Clear()
	}
	fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", key, err)
}

func (r *TerminalReporter) Finish(synced, skipped int) {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// CIReporter prints line-by-line progress suitable for CI logs.
type CIReporter struct {
	total int
}

func (r *CIReporter) Start(total int) {
	r.total = total
	fmt.Fprintf(os.Stderr, "Syncing %d pages\n", total)
}

func (r *CIReporter) Update(current int, key string) {
	fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", current, r.total, key)
}

func (r *CIReporter) Skip(key string, err error) {
	fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", key, err)
}

func (r *CIReporter) Finish(synced, skipped int) {
	fmt.Fprintf(os.Stderr, "Sync complete: %d synced, %d skipped\n", synced, skipped)
}
