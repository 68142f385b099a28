package api

import (
	"github.com/Givikap120/pp-rework/app/beatmap/difficulty"
)

// Score is a snapshot of a play used for performance calculation
type Score struct {
	CountGreat int
	CountOk    int
	CountMeh   int
	CountMiss  int

	CountGeki int
	CountKatu int

	// CountSliderTailHit and CountLargeTickMiss are only meaningful for non-classic (Lazer) scores
	CountSliderTailHit int
	CountLargeTickMiss int

	MaxCombo int

	// Accuracy is a fraction in 0..1
	Accuracy float64

	Mods difficulty.Modifier
}

func (s Score) TotalHits() int {
	return s.CountGreat + s.CountOk + s.CountMeh + s.CountMiss
}

func (s Score) TotalImperfectHits() int {
	return s.CountOk + s.CountMeh + s.CountMiss
}

// CalculateAccuracy returns osu!standard accuracy for given hit counts
func CalculateAccuracy(countGreat, countOk, countMeh, countMiss int) float64 {
	total := countGreat + countOk + countMeh + countMiss
	if total <= 0 {
		return 0
	}

	return float64(300*countGreat+100*countOk+50*countMeh) / float64(300*total)
}

// FullComboScore builds an SS-like score for the given attributes with optional misses and 100s/50s.
// Remaining objects are counted as greats.
func FullComboScore(attribs Attributes, mods difficulty.Modifier, countOk, countMeh, countMiss int) Score {
	countGreat := max(0, attribs.ObjectCount-countOk-countMeh-countMiss)

	score := Score{
		CountGreat:         countGreat,
		CountOk:            countOk,
		CountMeh:           countMeh,
		CountMiss:          countMiss,
		CountSliderTailHit: attribs.Sliders,
		MaxCombo:           attribs.MaxCombo,
		Mods:               mods,
	}

	score.Accuracy = CalculateAccuracy(countGreat, countOk, countMeh, countMiss)

	return score
}
