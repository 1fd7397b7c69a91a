package skintone

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"log/slog"
	"time"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decoder
)

// Preprocessing defaults.
const (
	DefaultMaxImageBytes  = 10 * 1024 * 1024
	DefaultMaxImagePixels = 40_000_000
	DefaultDecodeTimeout  = 5 * time.Second
)

// Preprocessor normalizes encoded photos into a fixed-size, lightly blurred grid.
// MaxPixels bounds the decoded raster; zero means DefaultMaxImagePixels.
type Preprocessor struct {
	MaxBytes      int64
	MaxPixels     int64
	DecodeTimeout time.Duration
}

// DefaultPreprocessor returns a preprocessor with the default limits.
func DefaultPreprocessor() Preprocessor {
	return Preprocessor{
		MaxBytes:      DefaultMaxImageBytes,
		MaxPixels:     DefaultMaxImagePixels,
		DecodeTimeout: DefaultDecodeTimeout,
	}
}

// Preprocess decodes data, resizes it to AnalysisSize×AnalysisSize and blurs it.
// Every failure is reported as *PreprocessingError.
func (p Preprocessor) Preprocess(ctx context.Context, data []byte) (*image.RGBA, error) {
	if len(data) == 0 {
		return nil, preprocessingError("read", ErrEmptyImage)
	}
	if p.MaxBytes > 0 && int64(len(data)) > p.MaxBytes {
		return nil, preprocessingError("read", fmt.Errorf("%w: %d bytes, limit %d", ErrImageTooLarge, len(data), p.MaxBytes))
	}

	if err := p.checkDimensions(data); err != nil {
		return nil, preprocessingError("decode", err)
	}

	src, format, err := p.decode(ctx, data)
	if err != nil {
		return nil, preprocessingError("decode", err)
	}
	if src.Bounds().Empty() {
		return nil, preprocessingError("decode", ErrEmptyImage)
	}

	slog.Debug("decoded image",
		"format", format,
		"width", src.Bounds().Dx(),
		"height", src.Bounds().Dy())

	return boxBlur(resize(src, AnalysisSize, AnalysisSize)), nil
}

// checkDimensions reads only the image header and rejects rasters whose
// decoded size would exceed the pixel limit.
func (p Preprocessor) checkDimensions(data []byte) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return err
	}

	limit := p.MaxPixels
	if limit <= 0 {
		limit = DefaultMaxImagePixels
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > limit {
		return fmt.Errorf("%w: %dx%d pixels, limit %d", ErrImageTooLarge, cfg.Width, cfg.Height, limit)
	}
	return nil
}

type decodeResult struct {
	err    error
	img    image.Image
	format string
}

// decode runs image.Decode under the configured wall-clock budget. A decode
// that overruns is abandoned; its goroutine finishes into a buffered channel.
func (p Preprocessor) decode(ctx context.Context, data []byte) (image.Image, string, error) {
	timeout := p.DecodeTimeout
	if timeout <= 0 {
		timeout = DefaultDecodeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan decodeResult, 1)
	go func() {
		img, format, err := image.Decode(bytes.NewReader(data))
		done <- decodeResult{img: img, format: format, err: err}
	}()

	select {
	case res := <-done:
		return res.img, res.format, res.err
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return nil, "", ErrDecodeTimeout
		}
		return nil, "", ctx.Err()
	}
}

// resize scales src to w×h with bilinear interpolation.
func resize(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// boxBlur averages every pixel with its 3×3 neighbourhood. Edge pixels
// average over the neighbours that exist.
func boxBlur(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			var sumR, sumG, sumB, n int
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < b.Min.X || nx >= b.Max.X || ny < b.Min.Y || ny >= b.Max.Y {
						continue
					}
					c := src.RGBAAt(nx, ny)
					sumR += int(c.R)
					sumG += int(c.G)
					sumB += int(c.B)
					n++
				}
			}
			dst.SetRGBA(x, y, color.RGBA{
				R: uint8((sumR + n/2) / n),
				G: uint8((sumG + n/2) / n),
				B: uint8((sumB + n/2) / n),
				A: 0xff,
			})
		}
	}

	return dst
}
