package bench

import "github.com/schollz/progressbar/v3"

// BarProgress backs ProgressSink with a terminal progress bar, for
// interactive CLI use.
type BarProgress struct {
	bar *progressbar.ProgressBar
}

// NewBarProgress builds a BarProgress with an indeterminate bar that
// SetLength later turns determinate once the run count is known.
func NewBarProgress() *BarProgress {
	return &BarProgress{bar: progressbar.NewOptions(-1, progressbar.OptionSetDescription("benchmarking"))}
}

func (p *BarProgress) SetLength(n int) {
	p.bar.ChangeMax(n)
}

func (p *BarProgress) Inc() {
	_ = p.bar.Add(1)
}

func (p *BarProgress) SetMessage(msg string) {
	p.bar.Describe(msg)
}

func (p *BarProgress) FinishAndClear() {
	_ = p.bar.Clear()
	_ = p.bar.Close()
}
