package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/go-rod/rod/lib/proto"

	"cvcrafter/internal/export"
)

var (
	_ export.Capturer  = (*Browser)(nil)
	_ export.Assembler = (*Browser)(nil)
)

// Capture rasterizes document at width CSS pixels with scale device pixels
// per CSS pixel and returns the full-height image.
func (b *Browser) Capture(ctx context.Context, document []byte, width int, scale float64) (image.Image, error) {
	page, cleanup, err := b.page(ctx)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if err := b.load(page, document, width, scale); err != nil {
		return nil, err
	}
	data, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("page screenshot: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	return img, nil
}

// Thumbnail renders document unscaled and returns a JPEG of the CV root.
func (b *Browser) Thumbnail(ctx context.Context, document []byte, quality int) ([]byte, error) {
	page, cleanup, err := b.page(ctx)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if err := b.load(page, document, A4WidthPx, 1); err != nil {
		return nil, err
	}
	if el, err := page.Element(rootSelector); err == nil {
		if data, shotErr := el.Screenshot(proto.PageCaptureScreenshotFormatJpeg, quality); shotErr == nil {
			return data, nil
		}
	}
	data, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: intPtr(quality),
	})
	if err != nil {
		return nil, fmt.Errorf("page screenshot: %w", err)
	}
	return data, nil
}

func intPtr(v int) *int {
	return &v
}

func float64Ptr(v float64) *float64 {
	return &v
}
