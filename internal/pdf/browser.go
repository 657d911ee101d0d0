// Package pdf drives headless Chromium through go-rod for capture, PDF
// assembly and thumbnails.
package pdf

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// BrowserConfig selects and bounds the Chromium instance.
type BrowserConfig struct {
	// Bin is the Chromium binary. Empty means launcher.LookPath.
	Bin       string
	NoSandbox bool
	// Timeout bounds a single capture, assembly or thumbnail.
	Timeout time.Duration
}

// Browser is a lazily launched headless Chromium shared by all operations.
// Each operation gets its own page.
type Browser struct {
	cfg    BrowserConfig
	logger *slog.Logger

	mu      sync.Mutex
	launch  *launcher.Launcher
	browser *rod.Browser
}

func NewBrowser(cfg BrowserConfig, logger *slog.Logger) *Browser {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Browser{cfg: cfg, logger: logger}
}

func (b *Browser) connect() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.browser != nil {
		return b.browser, nil
	}

	launch := launcher.New().
		Headless(true).
		NoSandbox(b.cfg.NoSandbox)
	if bin := strings.TrimSpace(b.cfg.Bin); bin != "" {
		launch = launch.Bin(bin)
	} else if path, ok := launcher.LookPath(); ok {
		launch = launch.Bin(path)
	}

	controlURL, err := launch.Launch()
	if err != nil {
		launch.Cleanup()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		launch.Cleanup()
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	b.logger.Info("Chromium started", slog.String("control_url", controlURL))
	b.launch = launch
	b.browser = browser
	return browser, nil
}

// page opens a blank page bound to ctx and the configured timeout. The
// returned cleanup closes the page.
func (b *Browser) page(ctx context.Context) (*rod.Page, func(), error) {
	browser, err := b.connect()
	if err != nil {
		return nil, func() {}, err
	}
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		b.reset()
		return nil, func() {}, fmt.Errorf("create page: %w", err)
	}
	cleanup := func() {
		_ = page.Close()
	}
	return page.Context(ctx).Timeout(b.cfg.Timeout), cleanup, nil
}

// reset drops a browser that stopped answering so the next call relaunches.
func (b *Browser) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.browser != nil {
		_ = b.browser.Close()
		b.browser = nil
	}
	if b.launch != nil {
		b.launch.Cleanup()
		b.launch = nil
	}
}

// Close shuts Chromium down.
func (b *Browser) Close() error {
	b.reset()
	return nil
}

// load puts document into page at the given viewport and waits until the
// render is ready.
func (b *Browser) load(page *rod.Page, document []byte, width int, scale float64) error {
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            pageHeightPx,
		DeviceScaleFactor: scale,
	}); err != nil {
		return fmt.Errorf("set viewport: %w", err)
	}
	if err := page.SetDocumentContent(string(document)); err != nil {
		return fmt.Errorf("set document content: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait load: %w", err)
	}
	return waitReady(b.logger, page, width)
}
