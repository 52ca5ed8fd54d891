package cli

import (
	"io"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"
)

// WaitWithProgress runs wait and shows a spinner on out until it returns.
func WaitWithProgress(out io.Writer, description string, wait func()) {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(out),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription("[cyan][bold]"+description+"[reset]"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		wait()
	}()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			if err := bar.Finish(); err != nil {
				slog.Warn("Failed to finish progress spinner", "error", err)
			}
			return
		case <-ticker.C:
			if err := bar.Add(1); err != nil {
				slog.Warn("Failed to update progress spinner", "error", err)
			}
		}
	}
}
