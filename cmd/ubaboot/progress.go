package main

import (
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/moffa90/go-ubaboot/bootloader"
)

// progressDisplay draws one bar per phase.
type progressDisplay struct {
	out   io.Writer
	phase bootloader.Phase
	bar   *progressbar.ProgressBar
}

func newProgressDisplay(out io.Writer) *progressDisplay {
	return &progressDisplay{out: out}
}

func (d *progressDisplay) update(p bootloader.Progress) {
	if d.bar == nil || p.Phase != d.phase {
		d.finish()
		d.phase = p.Phase
		d.bar = progressbar.NewOptions(p.Total,
			progressbar.OptionSetWriter(d.out),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription(p.Space+" "+string(p.Phase)),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)
	}

	_ = d.bar.Set(p.Done)
}

func (d *progressDisplay) finish() {
	if d.bar != nil {
		_ = d.bar.Finish()
		d.bar = nil
	}
}
