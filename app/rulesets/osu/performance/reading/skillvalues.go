package reading

import (
	"math"

	"github.com/Givikap120/pp-rework/app/beatmap/difficulty"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/api"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/reading/skills"
	"github.com/Givikap120/pp-rework/framework/math/mutils"
)

type SkillValue struct {
	Name  string
	Value float64
}

// SkillValues splits the map's performance into approximate per-skill parts for display
func SkillValues(attribs api.Attributes, mods difficulty.Modifier) []SkillValue {
	aimPerformance := skills.DifficultyToPerformance(attribs.Aim)
	aimPerformanceWithoutSliders := skills.DifficultyToPerformance(attribs.Aim * attribs.SliderFactor)

	speedPerformance := skills.DifficultyToPerformance(attribs.Speed)
	flashlightPerformance := skills.FlashlightDifficultyToPerformance(attribs.Flashlight)

	totalHits := attribs.Circles + attribs.Sliders
	lengthBonus := skills.DefaultLengthBonus(totalHits)

	highARBonus, lowARBonus := 0.0, 0.0
	if !mods.Active(difficulty.Relax) {
		highARBonus = max(0, 0.3*(attribs.ApproachRate-10.33)) * lengthBonus
		lowARBonus = max(0, 0.05*(8.0-attribs.ApproachRate)) * lengthBonus
	}

	isBlinds := mods.Active(difficulty.Blinds)
	isTraceable := mods.Active(difficulty.Traceable)

	blindsBonusAim, blindsBonusSpeed := 0.0, 0.0
	if isBlinds {
		blindsBonusAim = 0.3 + float64(totalHits)*0.0016*(1-0.003*attribs.DrainRate*attribs.DrainRate)
		blindsBonusSpeed = 0.16
	}

	hiddenBonus := 0.0
	if mods.Active(difficulty.Hidden|difficulty.Traceable) && !isBlinds {
		hiddenBonus = 0.04 * (12.0 - attribs.ApproachRate)
	}

	readingHighARPerformance := (aimPerformance + speedPerformance) * highARBonus
	readingLowARPerformance := aimPerformance * lowARBonus
	readingHiddenPerformance := (aimPerformance + speedPerformance) * hiddenBonus
	memoryPerformance := max(flashlightPerformance, aimPerformance*blindsBonusAim+speedPerformance*blindsBonusSpeed)

	// Rescale mechanical values so they add up to aim + speed
	mechanicalPerformance := aimPerformance + speedPerformance
	mechanicalPerformanceSqr := sqr(aimPerformance) + sqr(speedPerformance)

	aimPerformance = mechanicalPerformance * mutils.SafeDiv(sqr(aimPerformance), mechanicalPerformanceSqr)
	aimPerformanceWithoutSliders = mechanicalPerformance * mutils.SafeDiv(sqr(aimPerformanceWithoutSliders), mechanicalPerformanceSqr)
	speedPerformance = mechanicalPerformance * mutils.SafeDiv(sqr(speedPerformance), mechanicalPerformanceSqr)

	hiddenName, memoryName := "Hidden", "Flashlight"
	if isTraceable {
		hiddenName = "Traceable"
	}

	if isBlinds {
		memoryName = "Blinds"
	}

	return []SkillValue{
		{Name: "Slider Aim", Value: aimPerformance - aimPerformanceWithoutSliders},
		{Name: "Aim", Value: aimPerformanceWithoutSliders},
		{Name: "Speed", Value: speedPerformance},
		{Name: "High AR", Value: readingHighARPerformance},
		{Name: "Low AR", Value: readingLowARPerformance},
		{Name: hiddenName, Value: readingHiddenPerformance},
		{Name: memoryName, Value: memoryPerformance},
	}
}

func sqr(a float64) float64 {
	return math.Pow(a, 2)
}
