package skills

import (
	"math"

	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/reading/preprocessing"
)

const sectionLength = 400.0

type Skill interface {
	Process(current *preprocessing.DifficultyObject)
	DifficultyValue() float64
	GetCurrentStrainPeaks() []float64
}

// strainSections splits processed objects into 400ms sections and keeps the highest strain of every section.
// Lanes share one section clock, so all of them always have the same amount of peaks.
type strainSections struct {
	started    bool
	sectionEnd float64

	currentPeaks []float64
	savedPeaks   [][]float64

	// difficulty of the owning skill, valid until the next processed object
	difficulty       float64
	difficultyCached bool
}

func newStrainSections(lanes int) strainSections {
	return strainSections{
		currentPeaks: make([]float64, lanes),
		savedPeaks:   make([][]float64, lanes),
	}
}

// advance closes every section that ends before current and seeds the next one with initial.
// A nil initial starts new sections from 0.
func (s *strainSections) advance(current *preprocessing.DifficultyObject, initial func(lane int, time float64) float64) {
	s.difficultyCached = false

	if !s.started {
		s.sectionEnd = math.Ceil(current.StartTime/sectionLength) * sectionLength
		s.started = true
	}

	for current.StartTime > s.sectionEnd {
		for lane, peak := range s.currentPeaks {
			s.savedPeaks[lane] = append(s.savedPeaks[lane], peak)

			s.currentPeaks[lane] = 0
			if initial != nil {
				s.currentPeaks[lane] = initial(lane, s.sectionEnd)
			}
		}

		s.sectionEnd += sectionLength
	}
}

func (s *strainSections) update(lane int, strain float64) {
	s.currentPeaks[lane] = max(s.currentPeaks[lane], strain)
}

func (s *strainSections) currentPeak(lane int) float64 {
	return s.currentPeaks[lane]
}

// peaks returns saved peaks of the lane together with the in-progress one.
// The result is a copy, so processing can continue afterwards.
func (s *strainSections) peaks(lane int) []float64 {
	if !s.started {
		return nil
	}

	saved := s.savedPeaks[lane]

	result := make([]float64, len(saved), len(saved)+1)
	copy(result, saved)

	return append(result, s.currentPeaks[lane])
}

// cachedDifficulty returns the difficulty computed since the last processed object, computing it if there is none
func (s *strainSections) cachedDifficulty(compute func() float64) float64 {
	if !s.difficultyCached {
		s.difficulty = compute()
		s.difficultyCached = true
	}

	return s.difficulty
}

func strainDecay(base, ms float64) float64 {
	return math.Pow(base, ms/1000)
}

// decayedStrain returns strain decayed from the previous object's start up to time
func decayedStrain(strain, base, time float64, current *preprocessing.DifficultyObject) float64 {
	prev := current.Previous(0)
	if prev == nil {
		return strain
	}

	return strain * strainDecay(base, time-prev.StartTime)
}
