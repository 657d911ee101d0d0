package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"cvcrafter/internal/config"
	"cvcrafter/internal/cv"
	"cvcrafter/internal/editor"
	"cvcrafter/internal/export"
	"cvcrafter/internal/layout"
	"cvcrafter/internal/pdf"
	"cvcrafter/internal/sections"
	"cvcrafter/internal/theme"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	var (
		in         = flag.String("in", "", "CV JSON file (empty renders the sample CV)")
		themeName  = flag.String("theme", cfg.Editor.DefaultTheme, "theme name")
		dark       = flag.Bool("dark", false, "use the dark palette")
		order      = flag.String("order", "", "comma separated section order, e.g. summary,experience,...")
		out        = flag.String("out", ".", "output directory")
		htmlOnly   = flag.Bool("html-only", false, "write the HTML page and skip the PDF")
		listThemes = flag.Bool("list-themes", false, "print the theme names and exit")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	catalog := theme.MustDefault()

	if *listThemes {
		for _, name := range catalog.Names() {
			fmt.Println(name)
		}
		return
	}

	snap, err := buildSnapshot(catalog, *in, *themeName, *order, *dark)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}

	base := strings.TrimSuffix(export.Filename(snap.Data.Personal.Name), ".pdf")
	page, err := snap.Document(layout.DocumentOptions{Print: true})
	if err != nil {
		log.Fatalf("render document: %v", err)
	}
	htmlPath := filepath.Join(*out, base+".html")
	if err := os.WriteFile(htmlPath, page, 0o644); err != nil {
		log.Fatalf("write html: %v", err)
	}
	logger.Info("html written", slog.String("path", htmlPath))
	if *htmlOnly {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	browser := pdf.NewBrowser(pdf.BrowserConfig{
		Bin:       cfg.Browser.Bin,
		NoSandbox: cfg.Browser.NoSandbox,
		Timeout:   cfg.Browser.Timeout(),
	}, logger)
	defer browser.Close()

	pipeline := export.New(browser, browser, export.Options{Scale: cfg.Export.Scale}, logger)
	art, err := pipeline.Export(ctx, snap.Target(), snap.Data.Personal.Name)
	if err != nil {
		log.Fatalf("export: %v", err)
	}
	pdfPath := filepath.Join(*out, art.Filename)
	if err := os.WriteFile(pdfPath, art.Data, 0o644); err != nil {
		log.Fatalf("write pdf: %v", err)
	}
	logger.Info("pdf written", slog.String("path", pdfPath), slog.Int("pages", art.Pages))
}

func buildSnapshot(catalog *theme.Registry, in, themeName, rawOrder string, dark bool) (editor.Snapshot, error) {
	data := cv.Default()
	if in != "" {
		raw, err := os.ReadFile(in)
		if err != nil {
			return editor.Snapshot{}, fmt.Errorf("read cv: %w", err)
		}
		data = cv.Data{}
		if err := json.Unmarshal(raw, &data); err != nil {
			return editor.Snapshot{}, fmt.Errorf("decode cv %s: %w", in, err)
		}
	}

	th, err := catalog.Lookup(themeName)
	if err != nil {
		return editor.Snapshot{}, fmt.Errorf("%w (run with -list-themes)", err)
	}

	order := sections.Default()
	if rawOrder != "" {
		order = nil
		for _, k := range strings.Split(rawOrder, ",") {
			order = append(order, sections.Key(strings.TrimSpace(k)))
		}
		if !order.Valid() {
			return editor.Snapshot{}, fmt.Errorf("order %q must list each of %v once", rawOrder, sections.Default())
		}
	}

	return editor.Snapshot{Data: data, Theme: th, Order: order, Dark: dark}, nil
}
