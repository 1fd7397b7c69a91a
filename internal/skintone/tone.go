package skintone

import (
	"sort"

	"github.com/Veraticus/matchme/internal/model"
)

// ToneScore is the composite score of one band.
type ToneScore struct {
	Tone  model.SkinTone
	Score float64
}

// ScoreTones scores every band in ToneBands order.
func ScoreTones(stats model.ColorStatistics) []ToneScore {
	return scoreTones(stats, ToneBands, DefaultToneWeights)
}

func scoreTones(stats model.ColorStatistics, bands []ToneBand, w ToneWeights) []ToneScore {
	redScore := w.PartialCredit
	if stats.RedRatio > w.RedRatioAbove {
		redScore = 1
	}
	blueScore := w.PartialCredit
	if stats.BlueRatio < w.BlueRatioBelow {
		blueScore = 1
	}

	scores := make([]ToneScore, len(bands))
	for i, band := range bands {
		brightnessScore := 0.0
		if band.Contains(stats.Brightness) {
			brightnessScore = 1
		}
		scores[i] = ToneScore{
			Tone:  band.Tone,
			Score: brightnessScore*w.Brightness + redScore*w.Red + blueScore*w.Blue,
		}
	}
	return scores
}

// ClassifyTone picks the best band. Equal scores resolve to the band declared
// first, which matters at shared boundaries such as brightness 240.
// Probabilities are normalized in band order; confidence is the winner's raw
// score.
func ClassifyTone(stats model.ColorStatistics) (model.SkinTone, float64, [model.SkinToneCount]float64) {
	scores := ScoreTones(stats)

	var probabilities [model.SkinToneCount]float64
	total := 0.0
	for _, s := range scores {
		total += s.Score
	}
	for i, s := range scores {
		if i >= model.SkinToneCount {
			break
		}
		if total > 0 {
			probabilities[i] = s.Score / total
		} else {
			probabilities[i] = 1.0 / model.SkinToneCount
		}
	}

	ranked := make([]ToneScore, len(scores))
	copy(ranked, scores)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked[0].Tone, ranked[0].Score, probabilities
}
