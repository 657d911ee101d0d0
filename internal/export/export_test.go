package export

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"
)

type fakeTarget struct {
	mu       sync.Mutex
	print    bool
	restored int
	doc      []byte
	docErr   error
}

func (f *fakeTarget) PrintMode() func() {
	f.mu.Lock()
	f.print = true
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		f.print = false
		f.restored++
		f.mu.Unlock()
	}
}

func (f *fakeTarget) Document() ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.print {
		return nil, errors.New("document requested outside print mode")
	}
	return f.doc, f.docErr
}

type fakeCapturer struct {
	img     image.Image
	err     error
	gotW    int
	gotS    float64
	started chan struct{}
	release chan struct{}
}

func (f *fakeCapturer) Capture(ctx context.Context, _ []byte, width int, scale float64) (image.Image, error) {
	f.gotW, f.gotS = width, scale
	if f.started != nil {
		close(f.started)
		<-f.release
	}
	return f.img, f.err
}

type fakeAssembler struct {
	pages []image.Image
	err   error
	// status, when set, is sampled into during while Assemble runs.
	status func() Status
	during Status
}

func (f *fakeAssembler) Assemble(_ context.Context, pages []image.Image) ([]byte, error) {
	f.pages = pages
	if f.status != nil {
		f.during = f.status()
	}
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4"), nil
}

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	return img
}

func recordStates(p *Pipeline) *[]Status {
	var mu sync.Mutex
	seen := &[]Status{}
	p.OnStatus(func(s Status) {
		mu.Lock()
		*seen = append(*seen, s)
		mu.Unlock()
	})
	return seen
}

func TestExportMissingTargetIsNoOp(t *testing.T) {
	p := New(&fakeCapturer{}, &fakeAssembler{}, Options{}, nil)
	seen := recordStates(p)

	_, err := p.Export(context.Background(), nil, "Alex")
	if !errors.Is(err, ErrMissingTarget) {
		t.Fatalf("expected ErrMissingTarget, got %v", err)
	}
	if st := p.Status(); st != (Status{State: Idle}) {
		t.Fatalf("expected idle status, got %+v", st)
	}
	if len(*seen) != 0 {
		t.Fatalf("observer notified %d times", len(*seen))
	}
}

func TestExportHappyPath(t *testing.T) {
	capt := &fakeCapturer{img: solid(200, 600)}
	asm := &fakeAssembler{}
	p := New(capt, asm, Options{Width: 794}, nil)
	asm.status = p.Status
	seen := recordStates(p)
	target := &fakeTarget{doc: []byte("<html></html>")}

	art, err := p.Export(context.Background(), target, "Alex  Doe")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if art.Filename != "Alex_Doe_CV.pdf" {
		t.Fatalf("unexpected filename %q", art.Filename)
	}
	// 200px wide -> 283px pages -> 3 pages for 600px.
	if art.Pages != 3 || len(asm.pages) != 3 {
		t.Fatalf("expected 3 pages, got %d/%d", art.Pages, len(asm.pages))
	}
	if capt.gotW != 794 || capt.gotS != DefaultScale {
		t.Fatalf("unexpected capture geometry %d@%v", capt.gotW, capt.gotS)
	}
	if target.restored != 1 || target.print {
		t.Fatalf("target not restored: restored=%d print=%v", target.restored, target.print)
	}
	if asm.during.Progress != progressPaginate {
		t.Fatalf("assembler ran at progress %d, want %d", asm.during.Progress, progressPaginate)
	}

	want := []Status{
		{State: Capturing, Progress: 10, Busy: true},
		{State: Paginating, Progress: 50, Busy: true},
		{State: Paginating, Progress: 90, Busy: true},
		{State: Done, Progress: 100, Busy: true},
		{State: Idle, Progress: 0, Busy: false},
	}
	if len(*seen) != len(want) {
		t.Fatalf("expected %d transitions, got %+v", len(want), *seen)
	}
	for i := range want {
		if (*seen)[i] != want[i] {
			t.Fatalf("transition %d: expected %+v, got %+v", i, want[i], (*seen)[i])
		}
	}
}

func TestExportFailureRestoresAndClearsBusy(t *testing.T) {
	cases := map[string]*Pipeline{
		"capture":  New(&fakeCapturer{err: errors.New("browser gone")}, &fakeAssembler{}, Options{}, nil),
		"assemble": New(&fakeCapturer{img: solid(10, 10)}, &fakeAssembler{err: errors.New("disk full")}, Options{}, nil),
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			seen := recordStates(p)
			target := &fakeTarget{}
			if _, err := p.Export(context.Background(), target, "Alex"); err == nil {
				t.Fatal("expected error")
			}
			if target.restored != 1 {
				t.Fatalf("restore ran %d times", target.restored)
			}
			if st := p.Status(); st.Busy || st.State != Idle {
				t.Fatalf("pipeline not reset: %+v", st)
			}
			var failed bool
			for _, s := range *seen {
				failed = failed || s.State == Failed
			}
			if !failed {
				t.Fatalf("no Failed transition in %+v", *seen)
			}
			for _, s := range *seen {
				if s.Progress >= progressAssemble {
					t.Fatalf("assembly progress reported after failure: %+v", *seen)
				}
			}
		})
	}
}

func TestExportRejectsConcurrentRun(t *testing.T) {
	capt := &fakeCapturer{img: solid(10, 10), started: make(chan struct{}), release: make(chan struct{})}
	p := New(capt, &fakeAssembler{}, Options{}, nil)

	errc := make(chan error, 1)
	go func() {
		_, err := p.Export(context.Background(), &fakeTarget{}, "Alex")
		errc <- err
	}()
	<-capt.started

	if !p.Status().Busy {
		t.Fatal("expected busy status during capture")
	}
	if _, err := p.Export(context.Background(), &fakeTarget{}, "Alex"); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	close(capt.release)
	if err := <-errc; err != nil {
		t.Fatalf("first export: %v", err)
	}
	if p.Status().Busy {
		t.Fatal("busy flag not cleared")
	}
}

func TestExportHoldRespectsContext(t *testing.T) {
	p := New(&fakeCapturer{img: solid(10, 10)}, &fakeAssembler{}, Options{Hold: time.Hour}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := p.Export(ctx, &fakeTarget{}, "Alex"); err != nil {
		t.Fatalf("export: %v", err)
	}
	if st := p.Status(); st.State != Idle || st.Busy {
		t.Fatalf("expected reset after hold, got %+v", st)
	}
}

func TestPaginatePageCount(t *testing.T) {
	cases := []struct {
		w, h, pages int
	}{
		{w: 210, h: 297, pages: 1},
		{w: 210, h: 298, pages: 2},
		{w: 1588, h: 2246, pages: 1},
		{w: 1588, h: 2247, pages: 2},
		{w: 1588, h: 6000, pages: 3},
		{w: 100, h: 1, pages: 1},
	}
	for _, tc := range cases {
		pages, err := Paginate(image.NewRGBA(image.Rect(0, 0, tc.w, tc.h)))
		if err != nil {
			t.Fatalf("%dx%d: %v", tc.w, tc.h, err)
		}
		if len(pages) != tc.pages {
			t.Fatalf("%dx%d: expected %d pages, got %d", tc.w, tc.h, tc.pages, len(pages))
		}
		pageH := PageHeight(tc.w)
		for i, pg := range pages {
			if pg.Bounds().Dx() != tc.w || pg.Bounds().Dy() != pageH {
				t.Fatalf("%dx%d page %d: unexpected bounds %v", tc.w, tc.h, i, pg.Bounds())
			}
		}
	}
}

func TestPaginatePadsLastPageWhite(t *testing.T) {
	pages, err := Paginate(solid(210, 400))
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	last := pages[len(pages)-1]
	if got := color.RGBAModel.Convert(last.At(5, 5)).(color.RGBA); got != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Fatalf("expected content at top of last page, got %v", got)
	}
	if got := color.RGBAModel.Convert(last.At(5, 200)).(color.RGBA); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Fatalf("expected white padding, got %v", got)
	}
}

func TestPaginateEmpty(t *testing.T) {
	if _, err := Paginate(image.NewRGBA(image.Rect(0, 0, 0, 0))); !errors.Is(err, ErrEmptyImage) {
		t.Fatalf("expected ErrEmptyImage, got %v", err)
	}
}

func TestFilename(t *testing.T) {
	cases := map[string]string{
		"Alex Doe":            "Alex_Doe_CV.pdf",
		"  Jane \t Q  Public": "Jane_Q_Public_CV.pdf",
		"":                    "CV.pdf",
		"   ":                 "CV.pdf",
	}
	for in, want := range cases {
		if got := Filename(in); got != want {
			t.Fatalf("Filename(%q) = %q, want %q", in, got, want)
		}
	}
}
