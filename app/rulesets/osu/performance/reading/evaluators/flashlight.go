package evaluators

import (
	"math"

	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/reading/preprocessing"
)

const (
	flashlightMaxOpacityBonus    = 0.4
	flashlightHiddenBonus        = 0.2
	flashlightMinVelocity        = 0.5
	flashlightSliderMultiplier   = 1.3
	flashlightMinAngleMultiplier = 0.2
)

// EvaluateFlashlightOf rewards the memory needed to play the last few objects under flashlight
func EvaluateFlashlightOf(current *preprocessing.DifficultyObject, hidden bool) float64 {
	if current.IsSpinner || current.Index == 0 {
		return 0
	}

	scalingFactor := 52.0 / current.Radius

	smallDistNerf := 1.0
	cumulativeStrainTime := 0.0

	result := 0.0

	last := current

	angleRepeatCount := 0.0

	for i := 0; i < min(current.Index, 10); i++ {
		loopObj := current.Previous(i)
		if loopObj == nil {
			break
		}

		cumulativeStrainTime += last.StrainTime

		if !loopObj.IsSpinner {
			jumpDistance := current.BaseObject.GetPosition().Sub(loopObj.BaseObject.GetEndPosition()).Len()

			// objects seen inside the flashlight circle are easy
			if i == 0 {
				smallDistNerf = min(1.0, jumpDistance/75.0)
			}

			// only the first object of a stack counts
			stackNerf := min(1.0, (loopObj.LazyJumpDistance/scalingFactor)/25.0)

			opacityBonus := 1.0 + flashlightMaxOpacityBonus*(1.0-current.OpacityAt(loopObj.StartTime, hidden))

			result += stackNerf * opacityBonus * scalingFactor * jumpDistance / cumulativeStrainTime

			if !math.IsNaN(loopObj.Angle) && !math.IsNaN(current.Angle) {
				if math.Abs(loopObj.Angle-current.Angle) < 0.02 {
					angleRepeatCount += max(1.0-0.1*float64(i), 0.0)
				}
			}
		}

		last = loopObj
	}

	result = math.Pow(smallDistNerf*result, 2.0)

	if hidden {
		result *= 1.0 + flashlightHiddenBonus
	}

	result *= flashlightMinAngleMultiplier + (1.0-flashlightMinAngleMultiplier)/(angleRepeatCount+1.0)

	if slider, ok := current.BaseObject.(*preprocessing.LazySlider); ok && current.TravelTime > 0 {
		pixelTravelDistance := slider.LazyTravelDistance / scalingFactor

		sliderBonus := math.Sqrt(max(0.0, pixelTravelDistance/current.TravelTime-flashlightMinVelocity))
		sliderBonus *= pixelTravelDistance

		// repeats need less memorisation
		if slider.Spans > 1 {
			sliderBonus /= float64(slider.Spans)
		}

		result += sliderBonus * flashlightSliderMultiplier
	}

	return result
}
