package skintone

import (
	"math"

	"github.com/Veraticus/matchme/internal/model"
)

// UndertoneScore is the score of one undertone.
type UndertoneScore struct {
	Undertone model.Undertone
	Score     float64
}

// ScoreUndertones returns warm, cool and neutral scores in that order.
func ScoreUndertones(stats model.ColorStatistics) []UndertoneScore {
	w := DefaultUndertoneWeights
	return []UndertoneScore{
		{
			Undertone: model.UndertoneWarm,
			Score:     stats.RedRatio*w.WarmRed + (1-stats.BlueRatio)*w.WarmInverseBlue,
		},
		{
			Undertone: model.UndertoneCool,
			Score:     stats.BlueRatio*w.CoolBlue + (1-stats.RedRatio)*w.CoolInverseRed,
		},
		{
			Undertone: model.UndertoneNeutral,
			Score:     stats.GreenRatio*w.NeutralGreen + (1-math.Abs(stats.RedRatio-stats.BlueRatio))*w.NeutralBalance,
		},
	}
}

// DetectUndertone returns the highest-scoring undertone; ties go to the
// earlier of warm, cool, neutral.
func DetectUndertone(stats model.ColorStatistics) model.Undertone {
	return pickUndertone(ScoreUndertones(stats))
}

func pickUndertone(scores []UndertoneScore) model.Undertone {
	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	return best.Undertone
}
