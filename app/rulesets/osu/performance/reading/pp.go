package reading

import (
	"math"

	"github.com/Givikap120/pp-rework/app/beatmap/difficulty"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/api"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/reading/skills"
	"github.com/Givikap120/pp-rework/framework/math/mutils"
)

const (
	PerformanceBaseMultiplier float64 = 1.114
)

/* ------------------------------------------------------------- */
/* pp calc                                                       */

// PPv2 is stateless, every Calculate call works on its own ppState
type PPv2 struct{}

func NewPPCalculator() api.IPerformanceCalculator {
	return &PPv2{}
}

// ppState : structure to store values of a single ppv2 calculation
type ppState struct {
	attribs api.Attributes
	mods    difficulty.Modifier

	usingClassicSliderAccuracy bool

	scoreMaxCombo          int
	countGreat             int
	countOk                int
	countMeh               int
	countMiss              int
	countSliderEndsDropped int
	countSliderTickMiss    int
	effectiveMissCount     float64

	totalHits int
	accuracy  float64
}

func (pp *PPv2) Calculate(attribs api.Attributes, score api.Score) api.PPv2Results {
	attribs.MaxCombo = max(1, attribs.MaxCombo)

	state := &ppState{
		attribs:                    attribs,
		mods:                       score.Mods,
		usingClassicSliderAccuracy: !score.Mods.Active(difficulty.Lazer),
		scoreMaxCombo:              mutils.Clamp(score.MaxCombo, 0, attribs.MaxCombo),
		countGreat:                 max(0, score.CountGreat),
		countOk:                    max(0, score.CountOk),
		countMeh:                   max(0, score.CountMeh),
		countMiss:                  max(0, score.CountMiss),
		countSliderEndsDropped:     max(0, attribs.Sliders-score.CountSliderTailHit),
		countSliderTickMiss:        max(0, score.CountLargeTickMiss),
		accuracy:                   mutils.Clamp(score.Accuracy, 0, 1),
	}

	state.totalHits = state.countGreat + state.countOk + state.countMeh + state.countMiss
	state.effectiveMissCount = state.calculateEffectiveMissCount()

	// total pp

	multiplier := PerformanceBaseMultiplier

	if state.mods.Active(difficulty.NoFail) {
		multiplier *= max(0.90, 1.0-0.02*state.effectiveMissCount)
	}

	if state.mods.Active(difficulty.SpunOut) && state.totalHits > 0 {
		multiplier *= 1.0 - math.Pow(float64(attribs.Spinners)/float64(state.totalHits), 0.85)
	}

	if state.mods.Active(difficulty.Relax) {
		okMultiplier := 1.0
		mehMultiplier := 1.0

		if attribs.OverallDifficulty > 0.0 {
			okMultiplier = max(0.0, 1-math.Pow(attribs.OverallDifficulty/13.33, 1.8))
			mehMultiplier = max(0.0, 1-math.Pow(attribs.OverallDifficulty/13.33, 5))
		}

		// As we're adding Oks and Mehs to an approximated number of combo breaks the result can be higher than total hits
		state.effectiveMissCount = min(state.effectiveMissCount+float64(state.countOk)*okMultiplier+float64(state.countMeh)*mehMultiplier, float64(state.totalHits))
	}

	result := state.calculatePPv2Results()

	// Balance adjustment is computed as if the play was a full combo
	state.effectiveMissCount = 0
	state.countMiss = 0
	state.scoreMaxCombo = attribs.MaxCombo
	multiplier *= state.calculateBalanceAdjustingMultiplier()

	result.Total *= multiplier

	return result
}

func (pp *ppState) calculatePPv2Results() api.PPv2Results {
	aimValue := pp.computeAimValue()
	speedValue := pp.computeSpeedValue()
	mechanicalValue := mutils.PowMean(aimValue, speedValue, skills.SumPower)

	// Cognition
	lowARValue := pp.computeLowARValue()
	highARValue := pp.computeHighARValue()
	readingARValue := mutils.PowMean(lowARValue, highARValue, skills.SumPower)

	flashlightValue := pp.computeFlashlightValue()
	hiddenValue := pp.computeHiddenValue()

	// Reduce AR reading bonus if FL is present
	flashlightARValue := readingARValue
	if pp.mods.Active(difficulty.Flashlight) {
		flashlightARValue = mutils.PowMean(flashlightValue, readingARValue, skills.FlashlightSumPower)
	}

	cognitionValue := flashlightARValue + hiddenValue
	cognitionValue = AdjustCognitionPerformance(cognitionValue, mechanicalValue, flashlightValue)

	accValue := pp.computeAccuracyValue()

	// Cognition is added without the power mean
	totalValue := mutils.PowMean(mechanicalValue, accValue, skills.SumPower) + cognitionValue

	// Reading as if there was no FL, the rest is shown as flashlight
	visualReadingValue := AdjustCognitionPerformance(readingARValue+hiddenValue, mechanicalValue, flashlightValue)
	visualFlashlightValue := cognitionValue - visualReadingValue

	return api.PPv2Results{
		Aim:                aimValue,
		Speed:              speedValue,
		Acc:                accValue,
		Flashlight:         visualFlashlightValue,
		Reading:            visualReadingValue,
		Total:              totalValue,
		EffectiveMissCount: pp.effectiveMissCount,
	}
}

func (pp *ppState) computeAimValue() float64 {
	aimValue := skills.DifficultyToPerformance(pp.attribs.Aim)

	aimValue *= skills.DefaultLengthBonus(pp.totalHits)

	if pp.effectiveMissCount > 0 {
		aimValue *= calculateMissPenalty(pp.effectiveMissCount, pp.attribs.AimDifficultStrainCount)
	}

	if pp.mods.Active(difficulty.Blinds) {
		aimValue *= 1.3 + float64(pp.totalHits)*(0.0016/(1+2*pp.effectiveMissCount))*math.Pow(pp.accuracy, 16)*(1-0.003*pp.attribs.DrainRate*pp.attribs.DrainRate)
	} else if pp.mods.Active(difficulty.Traceable) {
		// Rewards lower AR, nerfs high AR
		aimValue *= 1.0 + 0.04*(12.0-pp.attribs.ApproachRate)
	}

	aimValue *= pp.sliderNerfFactor(pp.estimateImproperlyFollowedSliders())

	aimValue *= pp.accuracy
	// It is important to consider accuracy difficulty when scaling with accuracy.
	aimValue *= 0.98 + math.Pow(pp.attribs.OverallDifficulty, 2)/2500

	return aimValue
}

func (pp *ppState) computeSpeedValue() float64 {
	if pp.mods.Active(difficulty.Relax) {
		return 0
	}

	speedValue := skills.DifficultyToPerformance(pp.attribs.Speed)

	speedValue *= skills.DefaultLengthBonus(pp.totalHits)

	if pp.effectiveMissCount > 0 {
		speedValue *= calculateMissPenalty(pp.effectiveMissCount, pp.attribs.SpeedDifficultStrainCount)
	}

	if pp.mods.Active(difficulty.Blinds) {
		// Minimum buff, object count is not a good measure of speed under Blinds
		speedValue *= 1.12
	} else if pp.mods.Active(difficulty.Traceable) {
		speedValue *= 1.0 + 0.04*(12.0-pp.attribs.ApproachRate)
	}

	// Scale the speed value with accuracy and OD
	speedValue *= (0.95 + math.Pow(pp.attribs.OverallDifficulty, 2)/750) * math.Pow((pp.accuracy+pp.relevantAccuracy())/2.0, (14.5-pp.attribs.OverallDifficulty)/2)

	speedValue *= pp.mehPenalty()

	return speedValue
}

func (pp *ppState) computeAccuracyValue() float64 {
	if pp.mods.Active(difficulty.Relax) {
		return 0.0
	}

	amountHitObjectsWithAccuracy := pp.attribs.Circles
	if !pp.usingClassicSliderAccuracy {
		amountHitObjectsWithAccuracy += pp.attribs.Sliders
	}

	// This percentage only considers HitCircles of any value - in this part of the calculation we focus on hitting the timing hit window
	betterAccuracyPercentage := 0.0

	if amountHitObjectsWithAccuracy > 0 {
		betterAccuracyPercentage = float64((pp.countGreat-(pp.totalHits-amountHitObjectsWithAccuracy))*6+pp.countOk*2+pp.countMeh) / (float64(amountHitObjectsWithAccuracy) * 6)
	}

	// It is possible to reach a negative accuracy with this formula. Cap it at zero - zero points
	betterAccuracyPercentage = max(0, betterAccuracyPercentage)

	// Lots of arbitrary values from testing.
	// Considering to use derivation from perfect accuracy in a probabilistic manner - assume normal distribution
	accuracyValue := math.Pow(1.52163, pp.attribs.OverallDifficulty) * math.Pow(betterAccuracyPercentage, 24) * 2.92

	// Bonus for many hitcircles - it's harder to keep good accuracy up for longer
	accuracyValue *= min(1.15, math.Pow(float64(amountHitObjectsWithAccuracy)/1000.0, 0.3))

	if pp.mods.Active(difficulty.Blinds) {
		accuracyValue *= 1.14
	}

	if pp.mods.Active(difficulty.Flashlight) {
		accuracyValue *= 1.02
	}

	// Visual indication bonus
	visualBonus := 0.1 * mutils.Logistic(8.0-pp.attribs.ApproachRate, 0, 1, 1)

	// Buff if OD is way lower than AR
	arodDelta := max(0, pp.attribs.OverallDifficulty-pp.attribs.ApproachRate)

	// Goes from 0.0 on delta=0 to 1.0 somewhere around delta=3.4
	deltaBonus := 1 - math.Pow(0.95, math.Pow(arodDelta, 4))

	if pp.attribs.OverallDifficulty < 10 {
		deltaBonus *= math.Pow(pp.attribs.OverallDifficulty/10, 2)
	}

	if pp.attribs.OverallDifficulty < 9 {
		deltaBonus *= math.Pow(pp.attribs.OverallDifficulty/9, 4)
	}

	accuracyValue *= 1 + visualBonus*(1+2*deltaBonus)

	if pp.mods.Active(difficulty.Hidden | difficulty.Traceable) {
		accuracyValue *= 1 + visualBonus*(1+deltaBonus)
	}

	return accuracyValue
}

func (pp *ppState) computeFlashlightValue() float64 {
	flashlightValue := skills.FlashlightDifficultyToPerformance(pp.attribs.Flashlight)

	// Penalize misses by assessing # of misses relative to the total # of objects. Default a 3% reduction for any # of misses.
	if pp.effectiveMissCount > 0 && pp.totalHits > 0 {
		flashlightValue *= 0.97 * math.Pow(1-math.Pow(pp.effectiveMissCount/float64(pp.totalHits), 0.775), math.Pow(pp.effectiveMissCount, 0.875))
	}

	flashlightValue *= pp.getComboScalingFactor()

	// Account for shorter maps having a higher ratio of 0 combo/100 combo flashlight radius.
	scale := 0.7 + 0.1*min(1.0, float64(pp.totalHits)/200.0)
	if pp.totalHits > 200 {
		scale += 0.2 * min(1.0, float64(pp.totalHits-200)/200.0)
	}

	flashlightValue *= scale

	// Scale the flashlight value with accuracy _slightly_.
	flashlightValue *= 0.5 + pp.accuracy/2.0
	// It is important to also consider accuracy difficulty when doing that.
	flashlightValue *= 0.98 + math.Pow(pp.attribs.OverallDifficulty, 2)/2500

	return flashlightValue
}

func (pp *ppState) computeLowARValue() float64 {
	readingValue := skills.LowARDifficultyToPerformance(pp.attribs.ReadingDifficultyLowAR)

	if pp.effectiveMissCount > 0 {
		readingValue *= calculateMissPenalty(pp.effectiveMissCount, pp.attribs.LowArDifficultStrainCount)
	}

	// Scale the reading value with accuracy _harshly_
	readingValue *= pp.accuracy * pp.accuracy
	readingValue *= math.Pow(0.98+math.Pow(pp.attribs.OverallDifficulty, 2)/2500, 2)

	return readingValue
}

func (pp *ppState) computeHighARValue() float64 {
	highARValue := skills.DifficultyToPerformance(pp.attribs.ReadingDifficultyHighAR)

	// Approximate how much of high AR difficulty is aim
	aimPerformance := skills.DifficultyToPerformance(pp.attribs.Aim)
	speedPerformance := skills.DifficultyToPerformance(pp.attribs.Speed)

	aimRatio := mutils.SafeDiv(aimPerformance, aimPerformance+speedPerformance)

	// Aim part calculation
	aimPartValue := highARValue * aimRatio

	estimateSliderEndsDropped := float64(min(pp.countOk+pp.countMeh+pp.countMiss, pp.attribs.MaxCombo-pp.scoreMaxCombo))
	aimPartValue *= pp.sliderNerfFactor(estimateSliderEndsDropped)

	if pp.effectiveMissCount > 0 {
		aimPartValue *= calculateMissPenalty(pp.effectiveMissCount, pp.attribs.AimDifficultStrainCount)
	}

	aimPartValue *= pp.accuracy
	aimPartValue *= 0.98 + math.Pow(pp.attribs.OverallDifficulty, 2)/2500

	// Speed part calculation
	speedPartValue := highARValue * (1 - aimRatio)

	if pp.effectiveMissCount > 0 {
		speedPartValue *= calculateMissPenalty(pp.effectiveMissCount, pp.attribs.SpeedDifficultStrainCount)
	}

	speedPartValue *= (0.95 + math.Pow(pp.attribs.OverallDifficulty, 2)/750) * math.Pow((pp.accuracy+pp.relevantAccuracy())/2.0, (14.5-max(pp.attribs.OverallDifficulty, 8))/2)

	speedPartValue *= pp.mehPenalty()

	lengthBonus := math.Sqrt(skills.DefaultLengthBonus(pp.totalHits))

	return (aimPartValue + speedPartValue) * lengthBonus
}

func (pp *ppState) computeHiddenValue() float64 {
	if !pp.mods.Active(difficulty.Hidden) {
		return 0
	}

	readingValue := skills.HiddenDifficultyToPerformance(pp.attribs.HiddenDifficulty)

	readingValue *= skills.DefaultLengthBonus(pp.totalHits)

	if pp.effectiveMissCount > 0 {
		readingValue *= calculateMissPenalty(pp.effectiveMissCount, pp.attribs.HiddenDifficultStrainCount)
	}

	readingValue *= pp.accuracy * pp.accuracy
	readingValue *= 0.98 + math.Pow(pp.attribs.OverallDifficulty, 2)/2500

	return readingValue
}

// relevantAccuracy is the accuracy on speed-relevant notes assuming the worst case scenario
func (pp *ppState) relevantAccuracy() float64 {
	if pp.attribs.SpeedNoteCount == 0 {
		return 0
	}

	relevantTotalDiff := float64(pp.totalHits) - pp.attribs.SpeedNoteCount
	relevantCountGreat := max(0, float64(pp.countGreat)-relevantTotalDiff)
	relevantCountOk := max(0, float64(pp.countOk)-max(0, relevantTotalDiff-float64(pp.countGreat)))
	relevantCountMeh := max(0, float64(pp.countMeh)-max(0, relevantTotalDiff-float64(pp.countGreat)-float64(pp.countOk)))

	return (relevantCountGreat*6.0 + relevantCountOk*2.0 + relevantCountMeh) / (pp.attribs.SpeedNoteCount * 6.0)
}

// mehPenalty punishes doubletapping through the # of 50s
func (pp *ppState) mehPenalty() float64 {
	if float64(pp.countMeh) < float64(pp.totalHits)/500.0 {
		return 1
	}

	return math.Pow(0.99, float64(pp.countMeh)-float64(pp.totalHits)/500.0)
}

func (pp *ppState) estimateImproperlyFollowedSliders() float64 {
	if pp.usingClassicSliderAccuracy {
		// All missing combo is considered to be dropped difficult sliders
		return float64(min(pp.countOk+pp.countMeh+pp.countMiss, pp.attribs.MaxCombo-pp.scoreMaxCombo))
	}

	// Tick misses mean that the player didn't follow the slider properly
	return float64(pp.countSliderEndsDropped + pp.countSliderTickMiss)
}

// sliderNerfFactor assumes 15% of sliders in a map are difficult since there's no way to tell from the performance calculator
func (pp *ppState) sliderNerfFactor(improperlyFollowed float64) float64 {
	if pp.attribs.Sliders == 0 {
		return 1
	}

	estimateDifficultSliders := float64(pp.attribs.Sliders) * 0.15

	dropped := mutils.Clamp(improperlyFollowed, 0, estimateDifficultSliders)

	return (1-pp.attribs.SliderFactor)*math.Pow(1-dropped/estimateDifficultSliders, 3) + pp.attribs.SliderFactor
}

func (pp *ppState) calculateEffectiveMissCount() float64 {
	effectiveMissCount := float64(pp.countMiss)

	if pp.attribs.Sliders > 0 {
		var fullComboThreshold, maximumBreaks float64

		if pp.usingClassicSliderAccuracy {
			// In classic scores we can't know the amount of dropped sliders so we estimate to 10% of all sliders on the map
			fullComboThreshold = float64(pp.attribs.MaxCombo) - 0.1*float64(pp.attribs.Sliders)
			maximumBreaks = float64(pp.countOk + pp.countMeh + pp.countMiss)
		} else {
			// Dropped slider tails don't contribute to combo but also don't break it
			fullComboThreshold = float64(pp.attribs.MaxCombo - pp.countSliderEndsDropped)
			maximumBreaks = float64(pp.countSliderTickMiss + pp.countMiss)
		}

		if float64(pp.scoreMaxCombo) < fullComboThreshold {
			effectiveMissCount = fullComboThreshold / max(1.0, float64(pp.scoreMaxCombo))
		}

		effectiveMissCount = min(effectiveMissCount, maximumBreaks)
	}

	effectiveMissCount = max(float64(pp.countMiss), effectiveMissCount)

	return min(float64(pp.totalHits), effectiveMissCount)
}

func (pp *ppState) getComboScalingFactor() float64 {
	if pp.attribs.MaxCombo <= 0 {
		return 1.0
	}

	return min(math.Pow(float64(pp.scoreMaxCombo), 0.8)/math.Pow(float64(pp.attribs.MaxCombo), 0.8), 1.0)
}

func (pp *ppState) calculateBalanceAdjustingMultiplier() float64 {
	totalValue := pp.calculatePPv2Results().Total * PerformanceBaseMultiplier

	if totalValue < 600 {
		return 1
	}

	rescaledValue := (totalValue - 600) / 1000
	result := min(0.06*rescaledValue, 0.088*math.Pow(rescaledValue, 0.4))

	return 1 + result
}

// calculateMissPenalty assumes that a player will miss on the hardest parts of a map,
// so maps with fewer difficult sections are punished harder
func calculateMissPenalty(missCount, difficultStrainCount float64) float64 {
	logCount := math.Log(max(1, difficultStrainCount))
	if logCount == 0 {
		return 0
	}

	return 0.96 / ((missCount / (4 * math.Pow(logCount, 0.94))) + 1)
}

// AdjustCognitionPerformance limits reading performance by the performance of full memorisation,
// assumed to be mechanicalPerformance + flashlightPerformance + 25
func AdjustCognitionPerformance(cognitionPerformance, mechanicalPerformance, flashlightPerformance float64) float64 {
	// Assuming that less than 25 pp is not worthy for memory
	capPerformance := mechanicalPerformance + flashlightPerformance + 25

	ratio := cognitionPerformance / capPerformance
	if ratio > 50 {
		return capPerformance
	}

	ratio = softmin(ratio*10, 10, 5) / 10

	return ratio * capPerformance
}

// softmin computes a soft minimum of a and b in the given logarithm base
func softmin(a, b, base float64) float64 {
	hi, lo := max(a, b), min(a, b)

	// log_base(base^a + base^b) without overflowing for large arguments
	logSum := hi + math.Log1p(math.Pow(base, lo-hi))/math.Log(base)

	return a * b / logSum
}
