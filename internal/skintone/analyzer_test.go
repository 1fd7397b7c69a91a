package skintone

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/Veraticus/matchme/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// withPNGDimensions rewrites the IHDR chunk of an encoded PNG so its header
// claims w×h pixels while the payload stays tiny.
func withPNGDimensions(t *testing.T, data []byte, w, h uint32) []byte {
	t.Helper()
	require.Equal(t, "IHDR", string(data[12:16]))

	out := bytes.Clone(data)
	binary.BigEndian.PutUint32(out[16:20], w)
	binary.BigEndian.PutUint32(out[20:24], h)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

func TestPreprocess_NormalizesSize(t *testing.T) {
	data := encodePNG(t, solidImage(100, 80, color.RGBA{R: 220, G: 140, B: 90, A: 255}))

	img, err := DefaultPreprocessor().Preprocess(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, AnalysisSize, img.Bounds().Dx())
	assert.Equal(t, AnalysisSize, img.Bounds().Dy())

	c := img.RGBAAt(128, 128)
	assert.InDelta(t, 220, int(c.R), 1)
	assert.InDelta(t, 140, int(c.G), 1)
	assert.InDelta(t, 90, int(c.B), 1)
}

func TestPreprocess_Errors(t *testing.T) {
	valid := encodePNG(t, solidImage(4, 4, color.RGBA{R: 1, G: 2, B: 3, A: 255}))

	tests := []struct {
		name    string
		wantErr error
		pre     Preprocessor
		data    []byte
	}{
		{name: "empty input", pre: DefaultPreprocessor(), data: nil, wantErr: ErrEmptyImage},
		{name: "over size limit", pre: Preprocessor{MaxBytes: 10}, data: valid, wantErr: ErrImageTooLarge},
		{name: "garbage bytes", pre: DefaultPreprocessor(), data: []byte("definitely not a picture")},
		{name: "over pixel limit", pre: Preprocessor{MaxPixels: 15}, data: valid, wantErr: ErrImageTooLarge},
		{name: "huge dimensions in a small file", pre: DefaultPreprocessor(), data: withPNGDimensions(t, valid, 12000, 12000), wantErr: ErrImageTooLarge},
		{name: "zero pixel limit uses default", pre: Preprocessor{}, data: withPNGDimensions(t, valid, 8000, 8000), wantErr: ErrImageTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.pre.Preprocess(context.Background(), tt.data)
			require.Error(t, err)

			var preErr *PreprocessingError
			assert.True(t, errors.As(err, &preErr), "expected PreprocessingError, got %T", err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestBoxBlur(t *testing.T) {
	img := solidImage(3, 3, color.RGBA{A: 255})
	img.SetRGBA(1, 1, color.RGBA{R: 90, G: 180, B: 9, A: 255})

	blurred := boxBlur(img)

	// Center averages all nine pixels.
	assert.Equal(t, color.RGBA{R: 10, G: 20, B: 1, A: 255}, blurred.RGBAAt(1, 1))
	// A corner only sees four pixels.
	assert.Equal(t, color.RGBA{R: 23, G: 45, B: 2, A: 255}, blurred.RGBAAt(0, 0))
}

func TestSampleRegion_Extent(t *testing.T) {
	img := solidImage(AnalysisSize, AnalysisSize, color.RGBA{R: 200, G: 150, B: 120, A: 255})

	tests := []struct {
		name   string
		region Region
		want   int
	}{
		{name: "cheek", region: ToneRegions[0], want: 40 * 40},
		{name: "nose", region: ToneRegions[2], want: 30 * 30},
		{name: "chin has an odd size", region: ToneRegions[3], want: 24 * 24},
		{name: "clipped at the corner", region: Region{Name: "corner", CX: 0, CY: 0, Size: 40}, want: 20 * 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, SampleRegion(img, tt.region), tt.want)
		})
	}
}

func TestSampleRegion_RejectsNonSkin(t *testing.T) {
	img := solidImage(AnalysisSize, AnalysisSize, color.RGBA{R: 30, G: 40, B: 200, A: 255})
	assert.Empty(t, SampleRegion(img, ToneRegions[0]))

	stats, err := RegionStatistics(context.Background(), img, ToneRegions)
	require.NoError(t, err)
	assert.Equal(t, model.NeutralColorStatistics(), stats)
}

func TestRegionStatistics_MatchesSequentialPool(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, AnalysisSize, AnalysisSize))
	for y := 0; y < AnalysisSize; y++ {
		for x := 0; x < AnalysisSize; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(120 + x%100), G: uint8(90 + y%80), B: uint8(60 + (x+y)%50), A: 255})
		}
	}

	var pixels []model.Pixel
	for _, region := range ToneRegions {
		pixels = append(pixels, SampleRegion(img, region)...)
	}
	want := ComputeStatistics(pixels)

	got, err := RegionStatistics(context.Background(), img, ToneRegions)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRegionStatistics_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	img := solidImage(AnalysisSize, AnalysisSize, color.RGBA{R: 200, G: 150, B: 120, A: 255})
	_, err := RegionStatistics(ctx, img, ToneRegions)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzer_Analyze(t *testing.T) {
	data := encodePNG(t, solidImage(320, 400, color.RGBA{R: 220, G: 140, B: 90, A: 255}))

	result, err := NewAnalyzer().Analyze(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t, model.SkinToneMedium, result.SkinTone)
	assert.Equal(t, model.UndertoneWarm, result.Undertone)
	assert.Equal(t, 1.0, result.Confidence)
	assert.Equal(t, 40*40*2+30*30+24*24, result.ColorStatistics.Samples)
}

func TestAnalyzer_AnalyzeOrDefault(t *testing.T) {
	result, err := NewAnalyzer().AnalyzeOrDefault(context.Background(), []byte{0xff, 0xd8, 0x00})
	require.Error(t, err)

	var preErr *PreprocessingError
	assert.True(t, errors.As(err, &preErr))
	assert.Equal(t, model.DefaultClassification(), result)
}

func TestAnalyzer_AnalyzeOrDefault_HugeDimensions(t *testing.T) {
	data := withPNGDimensions(t, encodePNG(t, solidImage(4, 4, color.RGBA{R: 220, G: 140, B: 90, A: 255})), 12000, 12000)

	result, err := NewAnalyzer().AnalyzeOrDefault(context.Background(), data)
	require.ErrorIs(t, err, ErrImageTooLarge)
	assert.Equal(t, model.DefaultClassification(), result)
}

func TestAnalyzer_WithPreprocessor(t *testing.T) {
	data := encodePNG(t, solidImage(64, 64, color.RGBA{R: 220, G: 140, B: 90, A: 255}))

	a := NewAnalyzer(WithPreprocessor(Preprocessor{MaxBytes: 16}))
	_, err := a.Analyze(context.Background(), data)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}
