package skills

import (
	"math"

	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/reading/evaluators"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/reading/preprocessing"
)

const (
	speedSkillMultiplier = 1.35
	speedStrainDecayBase = 0.3
)

type SpeedSkill struct {
	sections strainSections

	currentStrain float64
	currentRhythm float64

	objectStrains []float64
}

func NewSpeedSkill() *SpeedSkill {
	return &SpeedSkill{sections: newStrainSections(1)}
}

func (skill *SpeedSkill) Process(current *preprocessing.DifficultyObject) {
	skill.sections.advance(current, func(_ int, time float64) float64 {
		return decayedStrain(skill.currentStrain*skill.currentRhythm, speedStrainDecayBase, time, current)
	})

	skill.currentStrain *= strainDecay(speedStrainDecayBase, current.StrainTime)
	skill.currentStrain += evaluators.EvaluateSpeed(current) * speedSkillMultiplier

	skill.currentRhythm = current.RhythmDifficulty

	totalStrain := skill.currentStrain * skill.currentRhythm

	skill.objectStrains = append(skill.objectStrains, totalStrain)
	skill.sections.update(0, totalStrain)
}

func (skill *SpeedSkill) GetCurrentStrainPeaks() []float64 {
	return skill.sections.peaks(0)
}

func (skill *SpeedSkill) DifficultyValue() float64 {
	return skill.sections.cachedDifficulty(func() float64 {
		return HarmonicSummation(skill.GetCurrentStrainPeaks(), NoSpikeNerf) * DefaultDifficultyMultiplier
	})
}

// RelevantNoteCount returns the amount of objects weighted by how close their strain is to the hardest one
func (skill *SpeedSkill) RelevantNoteCount() float64 {
	maxStrain := 0.0
	for _, s := range skill.objectStrains {
		maxStrain = max(maxStrain, s)
	}

	if maxStrain == 0 {
		return 0
	}

	count := 0.0
	for _, s := range skill.objectStrains {
		count += 1.0 / (1.0 + math.Exp(-(s/maxStrain*12.0 - 6.0)))
	}

	return count
}

func (skill *SpeedSkill) DifficultStrainCount() float64 {
	return CountTopWeightedStrains(skill.objectStrains, skill.DifficultyValue())
}
