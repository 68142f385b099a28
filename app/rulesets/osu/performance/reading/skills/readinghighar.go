package skills

import (
	"math"

	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/reading/evaluators"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/reading/preprocessing"
	"github.com/Givikap120/pp-rework/framework/math/mutils"
)

const (
	highARAimSkillMultiplier   = 17.8
	highARAimDefaultMultiplier = 30.0
	highARAimStrainDecayBase   = 0.15

	highARSpeedSkillMultiplier = 850.0
	highARSpeedStrainDecayBase = 0.3
)

// ReadingHighAR combines aim and speed scaled by high AR into one value living in the same space as aim and speed
type ReadingHighAR struct {
	sections strainSections

	aimComponent   *highARAimComponent
	speedComponent *highARSpeedComponent

	objectsCount int
}

func NewReadingHighAR() *ReadingHighAR {
	return &ReadingHighAR{
		sections:       newStrainSections(1),
		aimComponent:   newHighARAimComponent(),
		speedComponent: newHighARSpeedComponent(),
	}
}

func (skill *ReadingHighAR) Process(current *preprocessing.DifficultyObject) {
	skill.aimComponent.Process(current)
	skill.speedComponent.Process(current)

	if !current.IsSpinner {
		skill.objectsCount++
	}

	mergedDifficulty := mutils.PowMean(skill.aimComponent.sections.currentPeak(0), skill.speedComponent.sections.currentPeak(0), SumPower)

	skill.sections.advance(current, nil)
	skill.sections.update(0, mergedDifficulty)
}

func (skill *ReadingHighAR) GetCurrentStrainPeaks() []float64 {
	return skill.sections.peaks(0)
}

// DifficultyValue sums both components in performance space, applies the length bonus there and converts back
func (skill *ReadingHighAR) DifficultyValue() float64 {
	aimValue := math.Sqrt(skill.aimComponent.DifficultyValue()) * DifficultyMultiplier
	speedValue := math.Sqrt(skill.speedComponent.DifficultyValue()) * DifficultyMultiplier

	totalPerformance := mutils.PowMean(DifficultyToPerformance(aimValue), DifficultyToPerformance(speedValue), SumPower)

	// first half of the length bonus, the rest is applied in pp
	totalPerformance *= DefaultLengthBonus(skill.objectsCount)

	adjustedDifficulty := PerformanceToDifficulty(totalPerformance)
	difficultyValue := math.Pow(adjustedDifficulty/DifficultyMultiplier, 2.0)

	// matches raw difficulty at 500pp
	return 75 * math.Sqrt(difficultyValue)
}

type highARAimComponent struct {
	sections      strainSections
	currentStrain float64
}

func newHighARAimComponent() *highARAimComponent {
	return &highARAimComponent{sections: newStrainSections(1)}
}

func (c *highARAimComponent) Process(current *preprocessing.DifficultyObject) {
	c.sections.advance(current, func(_ int, time float64) float64 {
		return decayedStrain(c.currentStrain, highARAimStrainDecayBase, time, current)
	})

	c.currentStrain *= strainDecay(highARAimStrainDecayBase, current.DeltaTime)

	highAR := evaluators.EvaluateHighARDifficultyOf(current, true)

	c.currentStrain += evaluators.EvaluateAim(current, true) * highAR * highAR * highARAimSkillMultiplier

	c.sections.update(0, c.currentStrain+highARAimDefaultMultiplier*highAR)
}

func (c *highARAimComponent) DifficultyValue() float64 {
	return HarmonicSummation(c.sections.peaks(0), NoSpikeNerf) * DefaultDifficultyMultiplier
}

type highARSpeedComponent struct {
	sections      strainSections
	currentStrain float64
	currentRhythm float64
}

func newHighARSpeedComponent() *highARSpeedComponent {
	return &highARSpeedComponent{sections: newStrainSections(1)}
}

func (c *highARSpeedComponent) Process(current *preprocessing.DifficultyObject) {
	c.sections.advance(current, func(_ int, time float64) float64 {
		return decayedStrain(c.currentStrain*c.currentRhythm, highARSpeedStrainDecayBase, time, current)
	})

	c.currentStrain *= strainDecay(highARSpeedStrainDecayBase, current.StrainTime)

	highAR := evaluators.EvaluateHighARDifficultyOf(current, false)

	c.currentStrain += evaluators.EvaluateSpeed(current) * highARSpeedSkillMultiplier * highAR * highAR
	c.currentRhythm = current.RhythmDifficulty

	c.sections.update(0, c.currentStrain*c.currentRhythm)
}

func (c *highARSpeedComponent) DifficultyValue() float64 {
	return HarmonicSummation(c.sections.peaks(0), NoSpikeNerf) * DefaultDifficultyMultiplier
}
