package reading

import (
	"log"
	"math"
	"time"

	"github.com/Givikap120/pp-rework/app/beatmap/difficulty"
	"github.com/Givikap120/pp-rework/app/beatmap/objects"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/api"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/reading/preprocessing"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/reading/skills"
	"github.com/Givikap120/pp-rework/framework/math/mutils"
)

const (
	CurrentVersion int = 20241007
)

type DifficultyCalculator struct{}

func NewDifficultyCalculator() api.IDifficultyCalculator {
	return &DifficultyCalculator{}
}

// rawValues holds skill outputs before conversion to star ratings
type rawValues struct {
	aim, aimNoSliders, speed, flashlight float64
	lowAR, highAR, hidden                float64
}

func rawValuesOf(processor *SkillsProcessor) rawValues {
	return rawValues{
		aim:          processor.Aim.DifficultyValue(),
		aimNoSliders: processor.AimWithoutSliders.DifficultyValue(),
		speed:        processor.Speed.DifficultyValue(),
		flashlight:   processor.Flashlight.DifficultyValue(),
		lowAR:        processor.ReadingLowAR.DifficultyValue(),
		highAR:       processor.ReadingHighAR.DifficultyValue(),
		hidden:       processor.ReadingHidden.DifficultyValue(),
	}
}

func rating(value float64) float64 {
	return math.Sqrt(value) * skills.DifficultyMultiplier
}

// getStarsFromRawValues converts raw skill values to Attributes
func (diffCalc *DifficultyCalculator) getStarsFromRawValues(raw rawValues, diff *difficulty.Difficulty, attr api.Attributes) api.Attributes {
	aimRating := rating(raw.aim)
	aimRatingNoSliders := rating(raw.aimNoSliders)
	speedRating := rating(raw.speed)
	flashlightRating := rating(raw.flashlight)

	lowARRating := rating(raw.lowAR)
	highARRating := rating(raw.highAR)

	hiddenRating := 0.0
	if diff.CheckModActive(difficulty.Hidden) {
		hiddenRating = rating(raw.hidden)
	}

	sliderFactor := 1.0
	if aimRating > 0 {
		sliderFactor = aimRatingNoSliders / aimRating
	}

	if diff.CheckModActive(difficulty.TouchDevice) {
		aimRating = math.Pow(aimRating, 0.8)
		flashlightRating = math.Pow(flashlightRating, 0.8)

		lowARRating = math.Pow(lowARRating, 0.8)
		highARRating = math.Pow(highARRating, 0.9)
		hiddenRating = math.Pow(hiddenRating, 0.8)
	}

	if diff.CheckModActive(difficulty.Relax) {
		aimRating *= 0.9
		speedRating = 0
		flashlightRating *= 0.7

		lowARRating *= 0.95
		highARRating *= 0.7
		hiddenRating *= 0.7
	}

	baseAimPerformance := skills.DifficultyToPerformance(aimRating)
	baseSpeedPerformance := skills.DifficultyToPerformance(speedRating)

	baseLowARPerformance := skills.LowARDifficultyToPerformance(lowARRating)
	baseHighARPerformance := skills.DifficultyToPerformance(highARRating)

	potentialFlashlightPerformance := skills.FlashlightDifficultyToPerformance(flashlightRating)

	baseFlashlightPerformance := 0.0
	if diff.CheckModActive(difficulty.Flashlight) {
		baseFlashlightPerformance = potentialFlashlightPerformance
	}

	baseHiddenPerformance := 0.0
	if diff.CheckModActive(difficulty.Hidden) {
		baseHiddenPerformance = skills.HiddenDifficultyToPerformance(hiddenRating)
	}

	baseARPerformance := mutils.PowMean(baseLowARPerformance, baseHighARPerformance, skills.SumPower)
	baseFlashlightARPerformance := mutils.PowMean(baseFlashlightPerformance, baseARPerformance, skills.FlashlightSumPower)

	baseCognitionPerformance := baseFlashlightARPerformance + baseHiddenPerformance
	baseMechanicalPerformance := mutils.PowMean(baseAimPerformance, baseSpeedPerformance, skills.SumPower)

	baseCognitionPerformance = AdjustCognitionPerformance(baseCognitionPerformance, baseMechanicalPerformance, potentialFlashlightPerformance)
	basePerformance := baseMechanicalPerformance + baseCognitionPerformance

	attr.Total = starRating(basePerformance)
	attr.Aim = aimRating
	attr.SliderFactor = sliderFactor
	attr.Speed = speedRating
	attr.Flashlight = flashlightRating

	attr.ReadingDifficultyLowAR = lowARRating
	attr.ReadingDifficultyHighAR = highARRating
	attr.HiddenDifficulty = hiddenRating

	attr.ApproachRate = diff.ARReal
	attr.OverallDifficulty = diff.ODReal
	attr.DrainRate = diff.GetHPDrain()

	return attr
}

// starRating maps total base performance to the star scale
func starRating(basePerformance float64) float64 {
	if basePerformance <= 0.00001 {
		return 0
	}

	return math.Cbrt(PerformanceBaseMultiplier) * 0.027 * (math.Cbrt(100000/math.Pow(2, 1/skills.SumPower)*basePerformance) + 4)
}

// Retrieves skill values and converts to Attributes
func (diffCalc *DifficultyCalculator) getStars(processor *SkillsProcessor, diff *difficulty.Difficulty, attr api.Attributes) api.Attributes {
	attr = diffCalc.getStarsFromRawValues(rawValuesOf(processor), diff, attr)

	attr.SpeedNoteCount = processor.Speed.RelevantNoteCount()
	attr.AimDifficultStrainCount = processor.Aim.DifficultStrainCount()
	attr.SpeedDifficultStrainCount = processor.Speed.DifficultStrainCount()
	attr.LowArDifficultStrainCount = processor.ReadingLowAR.DifficultStrainCount()

	if diff.CheckModActive(difficulty.Hidden) {
		attr.HiddenDifficultStrainCount = processor.ReadingHidden.DifficultStrainCount()
	}

	return attr
}

func (diffCalc *DifficultyCalculator) addObjectToAttribs(o objects.IHitObject, attr *api.Attributes) {
	switch o.GetType() {
	case objects.SliderType:
		attr.Sliders++

		if s, ok := o.(*objects.Slider); ok {
			attr.MaxCombo += len(s.ScorePoints())
		}
	case objects.CircleType:
		attr.Circles++
	case objects.SpinnerType:
		attr.Spinners++
	}

	attr.MaxCombo++
	attr.ObjectCount++
}

// CalculateSingle calculates the final difficulty attributes of a map
func (diffCalc *DifficultyCalculator) CalculateSingle(hitObjects []objects.IHitObject, diff *difficulty.Difficulty) api.Attributes {
	if len(hitObjects) == 0 {
		return api.Attributes{}
	}

	diffObjects := preprocessing.CreateDifficultyObjects(hitObjects, diff)

	processor := NewSkillsProcessor(diff)

	attr := api.Attributes{}

	for _, o := range hitObjects {
		diffCalc.addObjectToAttribs(o, &attr)
	}

	for _, o := range diffObjects {
		processor.Process(o)
	}

	return diffCalc.getStars(processor, diff, attr)
}

// CalculateStep calculates successive star ratings for every part of a beatmap
func (diffCalc *DifficultyCalculator) CalculateStep(hitObjects []objects.IHitObject, diff *difficulty.Difficulty) []api.Attributes {
	if len(hitObjects) == 0 {
		return nil
	}

	modString := difficulty.GetDiffMaskedMods(diff.Mods).String()
	if modString == "" {
		modString = "NM"
	}

	log.Println("Calculating step SR for mods:", modString)

	startTime := time.Now()

	diffObjects := preprocessing.CreateDifficultyObjects(hitObjects, diff)

	processor := NewSkillsProcessor(diff)

	stars := make([]api.Attributes, 1, len(hitObjects))

	diffCalc.addObjectToAttribs(hitObjects[0], &stars[0])
	stars[0] = diffCalc.getStars(processor, diff, stars[0])

	for i, o := range diffObjects {
		attr := stars[i]
		diffCalc.addObjectToAttribs(hitObjects[i+1], &attr)

		processor.Process(o)

		stars = append(stars, diffCalc.getStars(processor, diff, attr))
	}

	endTime := time.Now()

	log.Println("Calculations finished! Took ", endTime.Sub(startTime).Truncate(time.Millisecond).String())

	return stars
}

// CalculateStrainPeaks returns section peaks of every skill and the star rating each section would have on its own
func (diffCalc *DifficultyCalculator) CalculateStrainPeaks(hitObjects []objects.IHitObject, diff *difficulty.Difficulty) api.StrainPeaks {
	diffObjects := preprocessing.CreateDifficultyObjects(hitObjects, diff)

	processor := NewSkillsProcessor(diff)

	for _, o := range diffObjects {
		processor.Process(o)
	}

	peaks := api.StrainPeaks{
		Aim:           processor.Aim.GetCurrentStrainPeaks(),
		Speed:         processor.Speed.GetCurrentStrainPeaks(),
		Flashlight:    processor.Flashlight.GetCurrentStrainPeaks(),
		ReadingLowAR:  processor.ReadingLowAR.GetCurrentStrainPeaks(),
		ReadingHighAR: processor.ReadingHighAR.GetCurrentStrainPeaks(),
		ReadingHidden: processor.ReadingHidden.GetCurrentStrainPeaks(),
	}

	peaks.Total = make([]float64, len(peaks.Aim))

	at := func(values []float64, i int) float64 {
		if i < len(values) {
			return values[i]
		}

		return 0
	}

	for i := range peaks.Aim {
		raw := rawValues{
			aim:          peaks.Aim[i],
			aimNoSliders: peaks.Aim[i],
			speed:        at(peaks.Speed, i),
			flashlight:   at(peaks.Flashlight, i),
			lowAR:        at(peaks.ReadingLowAR, i),
			highAR:       at(peaks.ReadingHighAR, i),
			hidden:       at(peaks.ReadingHidden, i),
		}

		peaks.Total[i] = diffCalc.getStarsFromRawValues(raw, diff, api.Attributes{}).Total
	}

	return peaks
}

func (diffCalc *DifficultyCalculator) GetVersion() int {
	return CurrentVersion
}

func (diffCalc *DifficultyCalculator) GetVersionMessage() string {
	return "2024-10-07: reading rework"
}
