package skills

import (
	"math"
	"slices"

	"github.com/Givikap120/pp-rework/framework/math/mutils"
)

const (
	DefaultDifficultyMultiplier = 1.06
	DefaultDecayWeight          = 0.9
)

// SpikeNerf reduces the highest SectionCount strains, the top one down to Baseline
type SpikeNerf struct {
	SectionCount int
	Baseline     float64
}

var NoSpikeNerf = SpikeNerf{}

func (nerf SpikeNerf) weight(i int) float64 {
	scale := math.Log10(mutils.Lerp(1.0, 10.0, mutils.Clamp(float64(i)/float64(nerf.SectionCount), 0, 1)))
	return mutils.Lerp(nerf.Baseline, 1.0, scale)
}

// sortedStrains drops non positive strains and sorts the rest descending, applying the spike nerf
func sortedStrains(strains []float64, nerf SpikeNerf) []float64 {
	result := make([]float64, 0, len(strains))

	for _, s := range strains {
		if s > 0 {
			result = append(result, s)
		}
	}

	sortDescending(result)

	if nerf.SectionCount > 0 {
		for i := 0; i < min(len(result), nerf.SectionCount); i++ {
			result[i] *= nerf.weight(i)
		}

		sortDescending(result)
	}

	return result
}

func sortDescending(values []float64) {
	slices.SortFunc(values, func(a, b float64) int {
		switch {
		case a > b:
			return -1
		case a < b:
			return 1
		}

		return 0
	})
}

func GeometricSummation(strains []float64, decayWeight float64, nerf SpikeNerf) float64 {
	difficulty := 0.0
	weight := 1.0

	for _, strain := range sortedStrains(strains, nerf) {
		difficulty += strain * weight
		weight *= decayWeight
	}

	return difficulty
}

// HarmonicSummation weights strains by rank, making the sum logarithmic in map length
func HarmonicSummation(strains []float64, nerf SpikeNerf) float64 {
	difficulty := 0.0

	for i, strain := range sortedStrains(strains, nerf) {
		fi := float64(i)
		weight := (1.0 + 20.0/(1+fi)) / (math.Pow(fi, 0.9) + 1.0 + 20.0/(1.0+fi))

		difficulty += strain * weight
	}

	return difficulty
}

func PlainSummation(strains []float64) float64 {
	sum := 0.0
	for _, s := range strains {
		sum += max(0, s)
	}

	return sum
}

// CountTopWeightedStrains returns a weighted amount of object strains close to the top strain of the map
func CountTopWeightedStrains(objectStrains []float64, difficulty float64) float64 {
	if len(objectStrains) == 0 || difficulty <= 0 {
		return 0
	}

	// what a strain would be if all objects were equally hard
	consistentTopStrain := difficulty / 10

	count := 0.0
	for _, s := range objectStrains {
		count += 1.1 / (1 + math.Exp(-10*(s/consistentTopStrain-0.88)))
	}

	return count
}
