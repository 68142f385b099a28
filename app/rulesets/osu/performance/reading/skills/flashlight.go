package skills

import (
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/reading/evaluators"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/reading/preprocessing"
)

const (
	flashlightSkillMultiplier = 0.052
	flashlightStrainDecayBase = 0.15
)

type FlashlightSkill struct {
	hidden bool

	sections      strainSections
	currentStrain float64
}

func NewFlashlightSkill(hidden bool) *FlashlightSkill {
	return &FlashlightSkill{
		hidden:   hidden,
		sections: newStrainSections(1),
	}
}

func (skill *FlashlightSkill) Process(current *preprocessing.DifficultyObject) {
	skill.sections.advance(current, func(_ int, time float64) float64 {
		return decayedStrain(skill.currentStrain, flashlightStrainDecayBase, time, current)
	})

	skill.currentStrain *= strainDecay(flashlightStrainDecayBase, current.DeltaTime)
	skill.currentStrain += evaluators.EvaluateFlashlightOf(current, skill.hidden) * flashlightSkillMultiplier

	skill.sections.update(0, skill.currentStrain)
}

func (skill *FlashlightSkill) GetCurrentStrainPeaks() []float64 {
	return skill.sections.peaks(0)
}

func (skill *FlashlightSkill) DifficultyValue() float64 {
	return PlainSummation(skill.GetCurrentStrainPeaks()) * DefaultDifficultyMultiplier
}
