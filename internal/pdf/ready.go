package pdf

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/go-rod/rod"

	"cvcrafter/internal/layout"
)

const (
	rootSelector  = "#" + layout.RootID
	readySelector = "#" + layout.ReadyID
	pageHeightPx  = layout.PageHeightPx
	pollInterval  = 50 * time.Millisecond
	settleTimeout = 5 * time.Second
)

const fontsReadyJS = `() => {
  if (document && document.fonts && document.fonts.ready) {
    return Promise.race([
      document.fonts.ready.then(() => true),
      new Promise((resolve) => setTimeout(() => resolve(true), 3000))
    ]);
  }
  return true;
}`

const rootWidthJS = `() => {
  const el = document.querySelector('` + rootSelector + `');
  return el ? el.getBoundingClientRect().width : -1;
}`

// waitReady blocks until the ready marker exists, fonts have loaded and the
// root measures exactly width CSS pixels.
func waitReady(logger *slog.Logger, page *rod.Page, width int) error {
	if _, err := page.Element(readySelector); err != nil {
		return fmt.Errorf("wait for %s: %w", readySelector, err)
	}
	if _, err := page.Eval(fontsReadyJS); err != nil {
		logger.Warn("document.fonts.ready wait failed, continue", slog.Any("error", err))
	}

	deadline := time.Now().Add(settleTimeout)
	var last float64
	for {
		res, err := page.Eval(rootWidthJS)
		if err != nil {
			return fmt.Errorf("measure %s: %w", rootSelector, err)
		}
		last = res.Value.Num()
		if last < 0 {
			return fmt.Errorf("%s not found in document", rootSelector)
		}
		if math.Abs(last-float64(width)) < 0.5 {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%s width settled at %.1fpx, want %dpx", rootSelector, last, width)
		}
		time.Sleep(pollInterval)
	}
}
