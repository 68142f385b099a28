package evaluators

import (
	"math"
	"sort"

	"github.com/Givikap120/pp-rework/app/beatmap/difficulty"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/reading/preprocessing"
	"github.com/Givikap120/pp-rework/framework/math/mutils"
)

const (
	readingWindowSize = 3000.0
	overlapMultiplier = 1.0

	overlapDecayWeight = 0.5
	overlapThreshold   = 0.6
)

// EvaluateReadingLowARDifficultyOf rewards the amount of notes visible on screen and their overlaps
func EvaluateReadingLowARDifficultyOf(current *preprocessing.DifficultyObject) float64 {
	if current.IsSpinner || current.Index == 0 {
		return 0
	}

	density := max(1, EvaluateDensityOf(current, true, true, 1.0))
	result := math.Pow(4*math.Log(density), 2.5)

	result += EvaluateOverlapDifficultyOf(current) * result

	return result
}

func EvaluateHiddenDifficultyOf(current *preprocessing.DifficultyObject) float64 {
	density := EvaluateDensityOf(current, false, false, 1.0)
	preempt := current.Preempt / 1000

	densityFactor := math.Pow(density/6.2, 1.5)

	invisibilityFactor := 0.0

	// AR11+DT and faster gets nothing unless the density is big
	if preempt >= 0.2 {
		invisibilityFactor = min(math.Pow(preempt*2.4-0.2, 5), max(preempt, preempt*3-2.4))
	}

	result := invisibilityFactor + densityFactor

	// up to 1.1x
	result *= 0.96 + 0.1*EvaluateInpredictabilityOf(current)

	return result
}

// EvaluateHighARDifficultyOf returns high AR scaling of the object, adjusted by its unpredictability if requested
func EvaluateHighARDifficultyOf(current *preprocessing.DifficultyObject, applyAdjust bool) float64 {
	result := GetHighARScaling(current.Preempt)

	if applyAdjust {
		inpredictability := EvaluateInpredictabilityOf(current)

		// follow lines show where the next note is
		inpredictability *= 1 + 0.1*(800-current.FollowLineTime)/800

		result *= 0.98 + 0.6*inpredictability
	}

	return result
}

// GetHighARScaling maps rate adjusted preempt in ms to a high AR multiplier
func GetHighARScaling(preempt float64) float64 {
	preempt /= 1000

	if preempt < 0.375 {
		// matches live high AR bonus, continuous with the exponential part at AR10.5
		return 0.63 * math.Pow(8-20*preempt, 2.0/3)
	}

	return math.Exp(9.07583 - 80.0*preempt/3)
}

// EvaluateDensityOf sums the visibility of objects on screen while the current one is being read
func EvaluateDensityOf(current *preprocessing.DifficultyObject, applyDistanceNerf, applySliderBodyDensity bool, angleNerfMultiplier float64) float64 {
	density := 0.0
	densityAnglesNerf := -2.0

	hidden := current.Diff.CheckModActive(difficulty.Hidden)

	prev := current

	for i, readingObject := range current.ReadingObjects {
		loopObj := readingObject.HitObject

		if loopObj.Index < 1 {
			continue
		}

		loopDifficulty := current.OpacityAt(loopObj.StartTime, hidden)

		if applyDistanceNerf {
			loopDifficulty *= (mutils.Logistic((loopObj.MinimumJumpDistance-80)/10, 0, 1, 1) + 0.2) / 1.2
		}

		if applySliderBodyDensity {
			loopDifficulty *= 1 + 1.5*sliderBodyBuff(current, i)
		}

		loopDifficulty *= getTimeNerfFactor(current.StartTime - loopObj.StartTime)

		if loopObj.StrainTime > prev.StrainTime {
			loopDifficulty *= rhythmSimilarityOf(loopObj.StrainTime, prev.StrainTime)
		}

		density += loopDifficulty

		angleNerf := loopObj.AnglePredictability/2 + 0.5
		densityAnglesNerf += angleNerf * loopDifficulty * angleNerfMultiplier

		prev = loopObj
	}

	return density - max(0, densityAnglesNerf)
}

func sliderBodyBuff(current *preprocessing.DifficultyObject, readingIndex int) float64 {
	slider, ok := current.BaseObject.(*preprocessing.LazySlider)
	if !ok {
		return 0
	}

	bodyLength := max(1, slider.Length()/current.Diff.CircleRadiusU)
	bodyLength = min(bodyLength, 1+slider.LazyTravelDistance/8)

	maxBuff := 0.5
	if readingIndex > 0 {
		maxBuff += 1
	}

	if readingIndex < len(current.ReadingObjects)-1 {
		maxBuff += 1
	}

	return min(math.Log10(bodyLength), maxBuff)
}

// EvaluateOverlapDifficultyOf rewards objects still visible under the current one, nerfing the ones stacked in the same place
func EvaluateOverlapDifficultyOf(current *preprocessing.DifficultyObject) float64 {
	if len(current.ReadingObjects) == 0 {
		return 0
	}

	targetStartTime := current.StartTime - current.Preempt

	overlaps := make([]preprocessing.ReadingObject, 0, len(current.ReadingObjects))

	for _, readingObject := range current.ReadingObjects {
		loopObj := readingObject.HitObject

		if len(loopObj.ReadingObjects) == 0 {
			continue
		}

		if overlapness := boundBinarySearch(loopObj.ReadingObjects, targetStartTime); overlapness > 0 {
			overlaps = append(overlaps, preprocessing.ReadingObject{HitObject: loopObj, Overlapness: overlapness})
		}
	}

	if len(overlaps) == 0 {
		return 0
	}

	sort.SliceStable(overlaps, func(i, j int) bool {
		return overlaps[i].Overlapness > overlaps[j].Overlapness
	})

	for i := 0; i < len(overlaps); i++ {
		harder := overlaps[i].HitObject

		for j := i + 1; j < len(overlaps); j++ {
			easier := overlaps[j].HitObject

			var overlapValue float64
			if harder.Index > easier.Index {
				overlapValue = harder.OverlapValues[easier.Index]
			} else {
				overlapValue = easier.OverlapValues[harder.Index]
			}

			overlaps[j].Overlapness *= math.Pow(1-overlapValue, 2)
		}
	}

	screenOverlapDifficulty := 0.0
	weight := 1.0

	for _, o := range overlaps {
		if o.Overlapness > overlapThreshold {
			screenOverlapDifficulty += (o.Overlapness - overlapThreshold) * weight
			weight *= overlapDecayWeight
		}
	}

	return overlapMultiplier * screenOverlapDifficulty
}

func EvaluateAimingDensityFactorOf(current *preprocessing.DifficultyObject) float64 {
	density := EvaluateDensityOf(current, true, false, 0.5)

	return max(0, math.Pow(density, 1.37)-1)
}

// EvaluateInpredictabilityOf measures changes of velocity, angle and rhythm, mostly velocity
func EvaluateInpredictabilityOf(current *preprocessing.DifficultyObject) float64 {
	const (
		velocityChangePart = 0.8
		angleChangePart    = 0.1
		rhythmChangePart   = 0.1
	)

	if current.IsSpinner || current.Index == 0 {
		return 0
	}

	last := current.Previous(0)
	if last == nil || last.IsSpinner {
		return 0
	}

	rhythmSimilarity := rhythmSimilarityOf(current.StrainTime, last.StrainTime)

	velocityChangeBonus := getVelocityChangeFactor(current, last) * rhythmSimilarity

	currVelocity := current.LazyJumpDistance / current.StrainTime
	prevVelocity := last.LazyJumpDistance / last.StrainTime

	angleChangeBonus := 0.0
	if !math.IsNaN(current.Angle) && !math.IsNaN(last.Angle) && currVelocity > 0 && prevVelocity > 0 {
		angleChangeBonus = 1 - current.AnglePredictability
		angleChangeBonus *= min(currVelocity, prevVelocity) / max(currVelocity, prevVelocity)
	}

	angleChangeBonus *= rhythmSimilarity

	rhythmChangeBonus := 0.0

	if lastLast := current.Previous(1); lastLast != nil {
		currDelta := current.StrainTime
		lastDelta := last.StrainTime

		if last.IsSlider {
			currDelta = max(0, currDelta-last.BaseObject.GetDuration()/current.ClockRate)
		}

		if lastLast.IsSlider {
			lastDelta = max(0, lastDelta-lastLast.BaseObject.GetDuration()/last.ClockRate)
		}

		rhythmChangeBonus = getRhythmDifference(currDelta, lastDelta)
	}

	return velocityChangePart*velocityChangeBonus + angleChangePart*angleChangeBonus + rhythmChangePart*rhythmChangeBonus
}

func getVelocityChangeFactor(current, last *preprocessing.DifficultyObject) float64 {
	currVelocity := current.LazyJumpDistance / current.StrainTime
	prevVelocity := last.LazyJumpDistance / last.StrainTime

	if currVelocity <= 0 && prevVelocity <= 0 {
		return 0
	}

	velocityChange := max(0, min(
		math.Abs(prevVelocity-currVelocity)-0.5*min(currVelocity, prevVelocity),
		max(current.Diff.CircleRadiusU/max(current.StrainTime, last.StrainTime), min(currVelocity, prevVelocity)),
	))

	// max is 0.4
	return velocityChange / max(currVelocity, prevVelocity) / 0.4
}

func rhythmSimilarityOf(t1, t2 float64) float64 {
	similarity := mutils.Clamp(1-getRhythmDifference(t1, t2), 0.5, 0.75)
	return 4 * (similarity - 0.5)
}

func getTimeNerfFactor(deltaTime float64) float64 {
	return mutils.Clamp(2.0-deltaTime/(readingWindowSize/2), 0.0, 1.0)
}

func getRhythmDifference(t1, t2 float64) float64 {
	if t1 <= 0 && t2 <= 0 {
		return 0
	}

	return 1 - min(t1, t2)/max(t1, t2)
}

// boundBinarySearch returns the cumulative overlapness of the last reading object still visible at target.
// Reading objects go from the most recent one backwards, so start times are descending.
func boundBinarySearch(arr []preprocessing.ReadingObject, target float64) float64 {
	low, high := 0, len(arr)
	result := -1

	for low < high {
		mid := low + (high-low)/2

		if arr[mid].HitObject.StartTime >= target {
			result = mid
			low = mid + 1
		} else {
			high = mid
		}
	}

	if result == -1 {
		return 0
	}

	return arr[result].Overlapness
}
