package skills

import (
	"math"

	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/reading/evaluators"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/reading/preprocessing"
	"github.com/Givikap120/pp-rework/framework/math/mutils"
)

const (
	aimSkillMultiplier = 32.0
	aimStrainDecayBase = evaluators.AimStrainDecayBase
)

const (
	aimLaneTotal = iota
	aimLaneSnap
	aimLaneFlow
	aimLanes
)

var aimSpikeNerf = SpikeNerf{SectionCount: 10, Baseline: 0.75}

// AimSkill tracks movement strain together with its snap only and flow only variants
type AimSkill struct {
	withSliders bool

	sections strainSections
	strains  [aimLanes]float64

	objectStrains []float64
}

func NewAimSkill(withSliders bool) *AimSkill {
	return &AimSkill{
		withSliders: withSliders,
		sections:    newStrainSections(aimLanes),
	}
}

func (skill *AimSkill) Process(current *preprocessing.DifficultyObject) {
	skill.sections.advance(current, func(lane int, time float64) float64 {
		return decayedStrain(skill.strains[lane], aimStrainDecayBase, time, current)
	})

	decay := strainDecay(aimStrainDecayBase, current.DeltaTime)
	for i := range skill.strains {
		skill.strains[i] *= decay
	}

	snap, flow := evaluators.EvaluateRawAimOf(current)

	skill.strains[aimLaneTotal] += evaluators.EvaluateTotalAimOf(current, skill.withSliders, snap, flow) * aimSkillMultiplier
	skill.strains[aimLaneSnap] += evaluators.EvaluateSnapAimOf(current, skill.withSliders, snap, flow) * aimSkillMultiplier
	skill.strains[aimLaneFlow] += evaluators.EvaluateFlowAimOf(current, skill.withSliders, snap, flow) * aimSkillMultiplier

	for lane, strain := range skill.strains {
		skill.sections.update(lane, strain)
	}

	skill.objectStrains = append(skill.objectStrains, skill.strains[aimLaneTotal])
}

func (skill *AimSkill) GetCurrentStrainPeaks() []float64 {
	return skill.sections.peaks(aimLaneTotal)
}

func (skill *AimSkill) GetSnapStrainPeaks() []float64 {
	return skill.sections.peaks(aimLaneSnap)
}

func (skill *AimSkill) GetFlowStrainPeaks() []float64 {
	return skill.sections.peaks(aimLaneFlow)
}

// DifficultyValue blends total aim difficulty with its lesser mode, rewarding maps mixing snap and flow
func (skill *AimSkill) DifficultyValue() float64 {
	return skill.sections.cachedDifficulty(func() float64 {
		difficulty := HarmonicSummation(skill.GetCurrentStrainPeaks(), aimSpikeNerf) * DefaultDifficultyMultiplier

		lesserDifficulty := difficulty * skill.mixedAimRatio()

		return mutils.PowMean(difficulty, lesserDifficulty, 4)
	})
}

func (skill *AimSkill) mixedAimRatio() float64 {
	snap := GeometricSummation(skill.GetSnapStrainPeaks(), DefaultDecayWeight, NoSpikeNerf)
	flow := GeometricSummation(skill.GetFlowStrainPeaks(), DefaultDecayWeight, NoSpikeNerf)

	if snap >= flow {
		if snap == 0 {
			return 0
		}

		return math.Pow(flow/snap, 2)
	}

	return math.Pow(snap/flow, 2.5)
}

func (skill *AimSkill) DifficultStrainCount() float64 {
	return CountTopWeightedStrains(skill.objectStrains, skill.DifficultyValue())
}
