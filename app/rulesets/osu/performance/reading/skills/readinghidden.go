package skills

import (
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/reading/evaluators"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/reading/preprocessing"
)

const (
	readingHiddenSkillMultiplier = 7.632
	readingHiddenStrainDecayBase = 0.15
)

// ReadingHidden scales aim without sliders by how hard the object is to read with hidden
type ReadingHidden struct {
	sections      strainSections
	currentStrain float64

	objectStrains []float64
}

func NewReadingHidden() *ReadingHidden {
	return &ReadingHidden{sections: newStrainSections(1)}
}

func (skill *ReadingHidden) Process(current *preprocessing.DifficultyObject) {
	skill.sections.advance(current, func(_ int, time float64) float64 {
		return decayedStrain(skill.currentStrain, readingHiddenStrainDecayBase, time, current)
	})

	skill.currentStrain *= strainDecay(readingHiddenStrainDecayBase, current.DeltaTime)

	// sliders are assumed not to get harder with hidden
	hiddenDifficulty := evaluators.EvaluateAim(current, false)
	hiddenDifficulty *= evaluators.EvaluateHiddenDifficultyOf(current)
	hiddenDifficulty *= readingHiddenSkillMultiplier

	skill.currentStrain += hiddenDifficulty

	skill.objectStrains = append(skill.objectStrains, skill.currentStrain)
	skill.sections.update(0, skill.currentStrain)
}

func (skill *ReadingHidden) GetCurrentStrainPeaks() []float64 {
	return skill.sections.peaks(0)
}

func (skill *ReadingHidden) DifficultyValue() float64 {
	return skill.sections.cachedDifficulty(func() float64 {
		return HarmonicSummation(skill.GetCurrentStrainPeaks(), NoSpikeNerf) * DefaultDifficultyMultiplier
	})
}

func (skill *ReadingHidden) DifficultStrainCount() float64 {
	return CountTopWeightedStrains(skill.objectStrains, skill.DifficultyValue())
}
