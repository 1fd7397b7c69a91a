package skintone

import (
	"context"
	"image"
	"math"

	"github.com/Veraticus/matchme/internal/model"
	"golang.org/x/sync/errgroup"
)

// IsSkinColor applies the channel-share heuristic. A pixel is kept only when
// red and green each exceed a quarter of its RGB sum and blue stays below 40%.
func IsSkinColor(p model.Pixel) bool {
	sum := float64(p.R) + float64(p.G) + float64(p.B)
	if sum == 0 {
		return false
	}
	rr := float64(p.R) / sum
	gr := float64(p.G) / sum
	br := float64(p.B) / sum
	return rr > SkinMinRedShare && gr > SkinMinGreenShare && br < SkinMaxBlueShare
}

// SampleRegion returns the skin pixels inside one region. Rejected and
// out-of-bounds pixels are dropped.
func SampleRegion(img *image.RGBA, region Region) []model.Pixel {
	var pixels []model.Pixel
	scanRegion(img, region, func(p model.Pixel) {
		pixels = append(pixels, p)
	})
	return pixels
}

// scanRegion walks x in [cx-half, cx+half) and likewise for y, keeping the
// fractional center. Coordinates are rounded for the lookup after the bounds
// check.
func scanRegion(img *image.RGBA, region Region, visit func(model.Pixel)) {
	b := img.Bounds()
	width := float64(b.Dx())
	height := float64(b.Dy())

	half := region.Size / 2
	startX := width*region.CX - float64(half)
	startY := height*region.CY - float64(half)

	// Integer steps keep the window exactly 2*half wide despite the
	// fractional start.
	for i := 0; i < 2*half; i++ {
		x := startX + float64(i)
		for j := 0; j < 2*half; j++ {
			y := startY + float64(j)
			if x < 0 || x >= width || y < 0 || y >= height {
				continue
			}
			px := clampIndex(int(math.Round(x)), b.Dx())
			py := clampIndex(int(math.Round(y)), b.Dy())
			c := img.RGBAAt(b.Min.X+px, b.Min.Y+py)
			p := model.Pixel{R: c.R, G: c.G, B: c.B}
			if IsSkinColor(p) {
				visit(p)
			}
		}
	}
}

func clampIndex(v, n int) int {
	if v >= n {
		return n - 1
	}
	if v < 0 {
		return 0
	}
	return v
}

// poolRegions samples all regions concurrently and reduces the accepted pixels
// into one accumulator. The reduction is order-independent.
func poolRegions(ctx context.Context, img *image.RGBA, regions []Region) (statsAccumulator, error) {
	partials := make([]statsAccumulator, len(regions))

	g, gctx := errgroup.WithContext(ctx)
	for i, region := range regions {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scanRegion(img, region, partials[i].add)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return statsAccumulator{}, err
	}

	var total statsAccumulator
	for _, part := range partials {
		total.merge(part)
	}
	return total, nil
}

// RegionStatistics samples regions and summarizes their pooled skin pixels.
func RegionStatistics(ctx context.Context, img *image.RGBA, regions []Region) (model.ColorStatistics, error) {
	acc, err := poolRegions(ctx, img, regions)
	if err != nil {
		return model.ColorStatistics{}, err
	}
	return acc.statistics(), nil
}
