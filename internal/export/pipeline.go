// Package export turns a rendered CV into a paginated A4 PDF.
package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"cvcrafter/internal/metrics"
)

var (
	ErrMissingTarget = errors.New("export: render target missing")
	ErrBusy          = errors.New("export: already in progress")
)

// State is the pipeline phase.
type State string

const (
	Idle       State = "idle"
	Capturing  State = "capturing"
	Paginating State = "paginating"
	Done       State = "done"
	Failed     State = "failed"
)

// Progress checkpoints.
const (
	progressCapture  = 10
	progressPaginate = 50
	progressAssemble = 90
	progressDone     = 100
)

// Defaults for Options.
const (
	DefaultScale = 2.0
	DefaultHold  = 1500 * time.Millisecond
)

// Status is the observable pipeline state.
type Status struct {
	State    State `json:"state"`
	Progress int   `json:"progress"`
	Busy     bool  `json:"busy"`
}

// Observer receives every status transition.
type Observer func(Status)

// Target is the document region being exported.
type Target interface {
	// PrintMode switches the target to its unscaled, fixed-width rendition
	// and returns a func restoring the previous one.
	PrintMode() (restore func())
	// Document returns the standalone HTML of the target as it is now.
	Document() ([]byte, error)
}

// Capturer rasterizes a document at width CSS pixels times scale.
type Capturer interface {
	Capture(ctx context.Context, document []byte, width int, scale float64) (image.Image, error)
}

// Assembler writes page images into a portrait A4 PDF, one image per page.
type Assembler interface {
	Assemble(ctx context.Context, pages []image.Image) ([]byte, error)
}

// Artifact is a finished export.
type Artifact struct {
	Filename string
	Pages    int
	Data     []byte
}

// Options tunes a Pipeline.
type Options struct {
	// Width is the capture width in CSS pixels.
	Width int
	// Scale is the supersampling factor.
	Scale float64
	// Hold is how long Done stays visible before the pipeline resets.
	Hold time.Duration
}

// Pipeline runs at most one export at a time.
type Pipeline struct {
	capturer  Capturer
	assembler Assembler
	opts      Options
	logger    *slog.Logger

	busy atomic.Bool

	mu       sync.Mutex
	status   Status
	observer Observer
}

// New creates an idle pipeline. A zero Width or Scale takes the default;
// a negative Hold disables the completion hold.
func New(capturer Capturer, assembler Assembler, opts Options, logger *slog.Logger) *Pipeline {
	if opts.Width <= 0 {
		opts.Width = A4WidthPx
	}
	if opts.Scale <= 0 {
		opts.Scale = DefaultScale
	}
	if opts.Hold < 0 {
		opts.Hold = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		capturer:  capturer,
		assembler: assembler,
		opts:      opts,
		logger:    logger,
		status:    Status{State: Idle},
	}
}

// OnStatus replaces the observer. Nil removes it.
func (p *Pipeline) OnStatus(o Observer) {
	p.mu.Lock()
	p.observer = o
	p.mu.Unlock()
}

// Status returns the current state.
func (p *Pipeline) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.status
	s.Busy = p.busy.Load()
	return s
}

func (p *Pipeline) set(state State, progress int) {
	p.mu.Lock()
	p.status = Status{State: state, Progress: progress}
	p.mu.Unlock()
	p.notify()
}

func (p *Pipeline) notify() {
	p.mu.Lock()
	o := p.observer
	p.mu.Unlock()
	if o != nil {
		o(p.Status())
	}
}

// Export captures target, paginates it and assembles the PDF. A nil target
// is a logged no-op. A second call while one is running fails with ErrBusy.
func (p *Pipeline) Export(ctx context.Context, target Target, personName string) (Artifact, error) {
	if target == nil {
		p.logger.Error("export requested without a render target")
		return Artifact{}, ErrMissingTarget
	}
	if !p.busy.CompareAndSwap(false, true) {
		metrics.ExportRejected()
		return Artifact{}, ErrBusy
	}
	metrics.ExportStarted()
	start := time.Now()

	art, err := p.run(ctx, target, personName)
	if err != nil {
		p.logger.Error("export failed", slog.Any("error", err))
		p.set(Failed, p.Status().Progress)
		metrics.ExportFinished(metrics.OutcomeFailed, 0, time.Since(start))
		p.reset()
		return Artifact{}, err
	}
	metrics.ExportFinished(metrics.OutcomeDone, art.Pages, time.Since(start))
	p.logger.Info("export finished",
		slog.String("filename", art.Filename),
		slog.Int("pages", art.Pages),
		slog.Duration("elapsed", time.Since(start)),
	)

	p.hold(ctx)
	p.reset()
	return art, nil
}

func (p *Pipeline) run(ctx context.Context, target Target, personName string) (Artifact, error) {
	restore := target.PrintMode()
	defer restore()

	p.set(Capturing, progressCapture)
	doc, err := target.Document()
	if err != nil {
		return Artifact{}, fmt.Errorf("render document: %w", err)
	}
	img, err := p.capturer.Capture(ctx, doc, p.opts.Width, p.opts.Scale)
	if err != nil {
		return Artifact{}, fmt.Errorf("capture: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}

	p.set(Paginating, progressPaginate)
	pages, err := Paginate(img)
	if err != nil {
		return Artifact{}, fmt.Errorf("paginate: %w", err)
	}

	data, err := p.assembler.Assemble(ctx, pages)
	if err != nil {
		return Artifact{}, fmt.Errorf("assemble: %w", err)
	}
	p.set(Paginating, progressAssemble)

	p.set(Done, progressDone)
	return Artifact{Filename: Filename(personName), Pages: len(pages), Data: data}, nil
}

func (p *Pipeline) hold(ctx context.Context) {
	if p.opts.Hold <= 0 {
		return
	}
	t := time.NewTimer(p.opts.Hold)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func (p *Pipeline) reset() {
	p.mu.Lock()
	p.status = Status{State: Idle}
	p.mu.Unlock()
	p.busy.Store(false)
	p.notify()
}
