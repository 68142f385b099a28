package skills

import (
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/reading/evaluators"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/reading/preprocessing"
)

const (
	readingLowARSkillMultiplier        = 1.23
	readingLowARAimComponentMultiplier = 0.4
	readingLowARStrainDecayBase        = 0.15
)

var readingLowARSpikeNerf = SpikeNerf{SectionCount: 5, Baseline: 0.7}

// ReadingLowAR rewards dense screens: aiming between many visible notes and reading them at all.
// Its difficulty is summed over per-object values instead of section peaks.
type ReadingLowAR struct {
	sections strainSections

	currentDensityAimStrain float64

	objectDifficulties []float64
}

func NewReadingLowAR() *ReadingLowAR {
	return &ReadingLowAR{sections: newStrainSections(1)}
}

func (skill *ReadingLowAR) Process(current *preprocessing.DifficultyObject) {
	densityReadingDifficulty := evaluators.EvaluateReadingLowARDifficultyOf(current)
	densityAimingFactor := evaluators.EvaluateAimingDensityFactorOf(current)

	skill.currentDensityAimStrain *= strainDecay(readingLowARStrainDecayBase, current.DeltaTime)
	skill.currentDensityAimStrain += densityAimingFactor * evaluators.EvaluateAim(current, true) * readingLowARAimComponentMultiplier

	totalDensityDifficulty := (skill.currentDensityAimStrain + densityReadingDifficulty) * readingLowARSkillMultiplier

	skill.objectDifficulties = append(skill.objectDifficulties, totalDensityDifficulty)

	skill.sections.advance(current, nil)
	skill.sections.update(0, totalDensityDifficulty)
}

func (skill *ReadingLowAR) GetCurrentStrainPeaks() []float64 {
	return skill.sections.peaks(0)
}

func (skill *ReadingLowAR) DifficultyValue() float64 {
	return skill.sections.cachedDifficulty(func() float64 {
		return GeometricSummation(skill.objectDifficulties, DefaultDecayWeight, readingLowARSpikeNerf)
	})
}

func (skill *ReadingLowAR) DifficultStrainCount() float64 {
	return CountTopWeightedStrains(skill.objectDifficulties, skill.DifficultyValue())
}
