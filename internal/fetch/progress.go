// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/pdiddy/confcorpus/pkg/types"
)

// Progress renders a live completed-count display for a run. The bar
// advances once per outcome whatever its kind, so the count is monotonic
// and ends at the reference total (R5.3). Observe is called only from the
// scheduler's collector goroutine; the summary itself lives there.
type Progress struct {
	bar *progressbar.ProgressBar
}

// NewProgress returns a display writing to w. Pass io.Discard to disable
// rendering; Observe stays safe to call.
func NewProgress(total int, desc string, w io.Writer) *Progress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowCount(),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
	)
	return &Progress{bar: bar}
}

// Observe advances the display by one completed reference.
func (p *Progress) Observe(types.Outcome) {
	_ = p.bar.Add(1)
}

// Finish completes the display even if the run ended early.
func (p *Progress) Finish() {
	_ = p.bar.Finish()
}

// PrintSummary writes the end-of-run tally to w: always all three outcome
// kinds plus the total, even when every reference failed (R5.4).
func PrintSummary(s types.RunSummary, w io.Writer) {
	fmt.Fprintf(w, "\nDownload summary: %d downloaded, %d skipped, %d failed (total: %d)\n",
		s.Downloaded, s.Skipped, s.Failed, s.Total())
}
