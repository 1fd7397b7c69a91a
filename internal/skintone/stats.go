package skintone

import "github.com/Veraticus/matchme/internal/model"

// statsAccumulator is a sum-and-count reduction over pixels. Merging is
// commutative and associative, so regions can be sampled in any order.
type statsAccumulator struct {
	sumR  int64
	sumG  int64
	sumB  int64
	count int64
}

func (a *statsAccumulator) add(p model.Pixel) {
	a.sumR += int64(p.R)
	a.sumG += int64(p.G)
	a.sumB += int64(p.B)
	a.count++
}

func (a *statsAccumulator) merge(other statsAccumulator) {
	a.sumR += other.sumR
	a.sumG += other.sumG
	a.sumB += other.sumB
	a.count += other.count
}

func (a statsAccumulator) statistics() model.ColorStatistics {
	if a.count == 0 {
		return model.NeutralColorStatistics()
	}

	n := float64(a.count)
	avgR := float64(a.sumR) / n
	avgG := float64(a.sumG) / n
	avgB := float64(a.sumB) / n

	stats := model.ColorStatistics{
		AvgR:       avgR,
		AvgG:       avgG,
		AvgB:       avgB,
		Brightness: (avgR + avgG + avgB) / 3,
		RedRatio:   1.0 / 3.0,
		GreenRatio: 1.0 / 3.0,
		BlueRatio:  1.0 / 3.0,
		Samples:    int(a.count),
	}

	// An all-black pool has no chromaticity; keep the neutral ratios.
	if total := avgR + avgG + avgB; total > 0 {
		stats.RedRatio = avgR / total
		stats.GreenRatio = avgG / total
		stats.BlueRatio = avgB / total
	}

	return stats
}

// ComputeStatistics aggregates a pixel pool. An empty pool yields the neutral
// default (brightness 128, ratios of one third).
func ComputeStatistics(pixels []model.Pixel) model.ColorStatistics {
	var acc statsAccumulator
	for _, p := range pixels {
		acc.add(p)
	}
	return acc.statistics()
}
