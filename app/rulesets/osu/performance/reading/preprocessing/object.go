package preprocessing

import (
	"math"

	"github.com/Givikap120/pp-rework/app/beatmap/difficulty"
	"github.com/Givikap120/pp-rework/app/beatmap/objects"
	"github.com/Givikap120/pp-rework/framework/math/mutils"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	NormalizedRadius        = 50.0
	CircleSizeBuffThreshold = 30.0
	MinDeltaTime            = 25
)

type ReadingObject struct {
	HitObject   *DifficultyObject
	Overlapness float64
}

// SliderSubObject is a movement between two consecutive nested objects of a slider
type SliderSubObject struct {
	Movement   mgl64.Vec2
	StrainTime float64
}

type DifficultyObject struct {
	sequence *[]*DifficultyObject
	Index    int

	Diff *difficulty.Difficulty

	BaseObject objects.IHitObject

	IsSlider  bool
	IsSpinner bool

	lastObject     objects.IHitObject
	lastLastObject objects.IHitObject

	DeltaTime float64

	StartTime float64

	EndTime float64

	StrainTime float64

	// Radius of the circle in osu!pixels
	Radius float64

	// Movement is the raw cursor movement from the end of the previous object
	Movement mgl64.Vec2

	MovementTime float64

	LazyJumpDistance float64

	MinimumJumpDistance float64

	MinimumJumpTime float64

	TravelDistance float64

	TravelTime float64

	// Angle and AngleSigned are NaN when undefined
	Angle float64

	AngleSigned float64

	GreatWindow float64

	ClockRate float64

	// Preempt is the rate adjusted approach duration
	Preempt float64

	ApproachRateTime float64

	FadeIn float64

	FollowLineTime float64

	SliderSubObjects []SliderSubObject

	RhythmDifficulty float64

	AnglePredictability float64

	ReadingObjects []ReadingObject

	OverlapValues map[int]float64
}

func NewDifficultyObject(hitObject, lastLastObject, lastObject objects.IHitObject, d *difficulty.Difficulty, sequence *[]*DifficultyObject, index int) *DifficultyObject {
	obj := &DifficultyObject{
		sequence:         sequence,
		Index:            index,
		Diff:             d,
		BaseObject:       hitObject,
		lastObject:       lastObject,
		lastLastObject:   lastLastObject,
		DeltaTime:        (hitObject.GetStartTime() - lastObject.GetStartTime()) / d.Speed,
		StartTime:        hitObject.GetStartTime() / d.Speed,
		EndTime:          hitObject.GetEndTime() / d.Speed,
		Radius:           d.CircleRadiusU,
		Angle:            math.NaN(),
		AngleSigned:      math.NaN(),
		GreatWindow:      2 * d.Hit300U / d.Speed,
		ClockRate:        d.Speed,
		Preempt:          d.PreemptU / d.Speed,
		ApproachRateTime: d.PreemptU / d.Speed,
		FadeIn:           d.TimeFadeIn / d.Speed,
		RhythmDifficulty: 1,
	}

	obj.IsSpinner = hitObject.GetType() == objects.SpinnerType

	if slider, ok := hitObject.(*LazySlider); ok {
		obj.IsSlider = true
		obj.SliderSubObjects = obj.createSliderSubObjects(slider)
	}

	obj.StrainTime = max(obj.DeltaTime, MinDeltaTime)

	obj.setDistances()

	obj.MovementTime = obj.MinimumJumpTime

	if !hitObject.IsNewCombo() {
		obj.FollowLineTime = 800.0 / d.Speed
	}

	obj.AnglePredictability = obj.CalculateAnglePredictability()
	obj.ReadingObjects = obj.getReadingObjects()

	return obj
}

// GetDoubletapness returns how much the current object can be doubletapped with the next one, 0..1
func (o *DifficultyObject) GetDoubletapness(osuNextObj *DifficultyObject) float64 {
	if osuNextObj != nil {
		currDeltaTime := max(1, o.DeltaTime)
		nextDeltaTime := max(1, osuNextObj.DeltaTime)
		deltaDifference := math.Abs(nextDeltaTime - currDeltaTime)
		speedRatio := currDeltaTime / max(currDeltaTime, deltaDifference)
		windowRatio := math.Pow(min(1, currDeltaTime/o.GreatWindow), 2)
		return 1 - math.Pow(speedRatio, 1-windowRatio)
	}

	return 0
}

// OpacityAt returns the opacity of the object at the given rate adjusted time
func (o *DifficultyObject) OpacityAt(time float64, hidden bool) float64 {
	if time > o.StartTime {
		return 0
	}

	fadeInStartTime := o.StartTime - o.Preempt
	fadeInDuration := o.FadeIn

	if hidden {
		fadeOutStartTime := o.StartTime - o.Preempt + o.FadeIn
		fadeOutDuration := o.Preempt * difficulty.FadeOutRate

		return min(
			mutils.Clamp((time-fadeInStartTime)/fadeInDuration, 0.0, 1.0),
			1.0-mutils.Clamp((time-fadeOutStartTime)/fadeOutDuration, 0.0, 1.0),
		)
	}

	return mutils.Clamp((time-fadeInStartTime)/fadeInDuration, 0.0, 1.0)
}

func (o *DifficultyObject) Previous(backwardsIndex int) *DifficultyObject {
	index := o.Index - (backwardsIndex + 1)

	if index < 0 || index >= len(*o.sequence) {
		return nil
	}

	return (*o.sequence)[index]
}

func (o *DifficultyObject) Next(forwardsIndex int) *DifficultyObject {
	index := o.Index + (forwardsIndex + 1)

	if index < 0 || index >= len(*o.sequence) {
		return nil
	}

	return (*o.sequence)[index]
}

func (o *DifficultyObject) createSliderSubObjects(slider *LazySlider) []SliderSubObject {
	nested := slider.Nested
	if len(nested) < 2 {
		return nil
	}

	subObjects := make([]SliderSubObject, 0, len(nested)-1)

	for i := 1; i < len(nested); i++ {
		subObjects = append(subObjects, SliderSubObject{
			Movement:   nested[i].Position.Sub(nested[i-1].Position),
			StrainTime: max((nested[i].Time-nested[i-1].Time)/o.Diff.Speed, MinDeltaTime),
		})
	}

	return subObjects
}

func (o *DifficultyObject) setDistances() {
	o.MinimumJumpTime = o.StrainTime

	if currentSlider, ok := o.BaseObject.(*LazySlider); ok {
		o.TravelDistance = currentSlider.LazyTravelDistance * math.Pow(1+float64(currentSlider.Spans-1)/2.5, 1.0/2.5)
		o.TravelTime = max(currentSlider.LazyTravelTime/o.Diff.Speed, MinDeltaTime)
	}

	if o.IsSpinner || o.lastObject.GetType() == objects.SpinnerType {
		return
	}

	scalingFactor := NormalizedRadius / o.Radius

	if o.Radius < CircleSizeBuffThreshold {
		smallCircleBonus := min(CircleSizeBuffThreshold-o.Radius, 5.0) / 50.0
		scalingFactor *= 1.0 + smallCircleBonus
	}

	lastCursorPosition := getEndCursorPosition(o.lastObject)

	o.Movement = o.BaseObject.GetPosition().Sub(lastCursorPosition)

	o.LazyJumpDistance = o.Movement.Mul(scalingFactor).Len()
	o.MinimumJumpDistance = o.LazyJumpDistance

	if lastSlider, ok := o.lastObject.(*LazySlider); ok {
		lastTravelTime := max(lastSlider.LazyTravelTime/o.Diff.Speed, MinDeltaTime)
		o.MinimumJumpTime = max(o.StrainTime-lastTravelTime, MinDeltaTime)

		// The player either cuts the slider short (lazy jump) or follows it to the tail before jumping, take the shorter one
		tailJumpDistance := lastSlider.Nested[len(lastSlider.Nested)-1].Position.Sub(o.BaseObject.GetPosition()).Len() * scalingFactor
		o.MinimumJumpDistance = max(0, min(o.LazyJumpDistance-(maximumSliderRadius-assumedSliderRadius), tailJumpDistance-maximumSliderRadius))
	}

	if o.lastLastObject != nil && o.lastLastObject.GetType() != objects.SpinnerType {
		lastLastCursorPosition := getEndCursorPosition(o.lastLastObject)

		v1 := lastLastCursorPosition.Sub(o.lastObject.GetPosition())
		v2 := o.BaseObject.GetPosition().Sub(lastCursorPosition)
		dot := v1.Dot(v2)
		det := v1[0]*v2[1] - v1[1]*v2[0]
		o.AngleSigned = math.Atan2(det, dot)
		o.Angle = math.Abs(o.AngleSigned)
	}
}

func getEndCursorPosition(obj objects.IHitObject) mgl64.Vec2 {
	if s, ok := obj.(*LazySlider); ok {
		return s.LazyEndPosition
	}

	return obj.GetPosition()
}

func (o *DifficultyObject) getOpacityMultiplier(loopObj *DifficultyObject) float64 {
	const threshold = 0.3

	opacity := o.OpacityAt(loopObj.StartTime, o.Diff.CheckModActive(difficulty.Hidden))

	opacity = math.Min(1, opacity+threshold) // objects with opacity 0.7 are still perfectly visible
	opacity -= threshold
	opacity /= 1 - threshold
	opacity = math.Sqrt(opacity)

	return opacity
}

func getTimeDifference(timeA, timeB float64) float64 {
	similarity := math.Min(timeA, timeB) / math.Max(timeA, timeB)
	if math.Max(timeA, timeB) == 0 {
		similarity = 1
	}

	if similarity < 0.75 {
		return 1.0
	}
	if similarity > 0.9 {
		return 0.0
	}

	// drops from 1 to 0 as similarity increases from 0.75 to 0.9
	return (math.Cos((similarity-0.75)*math.Pi/0.15) + 1) / 2
}

func getAngleSimilarity(angle1, angle2 float64) float64 {
	difference := math.Abs(angle1 - angle2)
	threshold := math.Pi / 12

	if difference > threshold {
		return 0
	}
	return 1 - difference/threshold
}

func calculateOverlapness(odho1, odho2 *DifficultyObject) float64 {
	const areaCoef = 0.85
	const stackDistanceRatio = 0.1414213562373

	distance := odho1.BaseObject.GetPosition().Sub(odho2.BaseObject.GetPosition()).Len()
	radius := odho1.Radius

	distanceSqr := distance * distance
	radiusSqr := radius * radius

	if distance > radius*2 {
		return 0
	}

	s1 := math.Acos(distance/(2*radius)) * radiusSqr        // Area of sector
	s2 := distance * math.Sqrt(radiusSqr-distanceSqr/4) / 2 // Area of triangle

	overlappingAreaNormalized := (s1 - s2) * 2 / (math.Pi * radiusSqr)

	// 0 on normal stack, 1 on perfect stack
	perfectStackBuff := (stackDistanceRatio - distance/radius) / stackDistanceRatio
	perfectStackBuff = math.Max(perfectStackBuff, 0)

	return overlappingAreaNormalized*areaCoef + perfectStackBuff*(1-areaCoef)
}

func retrieveCurrentVisibleObjects(current *DifficultyObject) []*DifficultyObject {
	visibleObjects := []*DifficultyObject{}

	for i := 0; i < current.Index+1; i++ {
		hitObject := current.Previous(i)

		if hitObject == nil || hitObject.StartTime < current.StartTime-current.Preempt {
			break
		}

		visibleObjects = append(visibleObjects, hitObject)
	}

	return visibleObjects
}

func getGeneralSimilarity(o1, o2 *DifficultyObject) float64 {
	if o1 == nil || o2 == nil {
		return 1.0
	}

	if math.IsNaN(o1.AngleSigned) || math.IsNaN(o2.AngleSigned) {
		if math.IsNaN(o1.AngleSigned) && math.IsNaN(o2.AngleSigned) {
			return 1.0
		}
		return 0.0
	}

	timeSimilarity := 1 - getTimeDifference(o1.StrainTime, o2.StrainTime)

	angleDelta := math.Abs(o1.AngleSigned - o2.AngleSigned)
	angleDelta = mutils.Clamp(angleDelta-0.1, 0, 0.15)
	angleSimilarity := 1 - angleDelta/0.15

	distanceDelta := math.Abs(o1.LazyJumpDistance-o2.LazyJumpDistance) / NormalizedRadius
	distanceSimilarity := 1 / math.Max(1, distanceDelta)

	return timeSimilarity * angleSimilarity * distanceSimilarity
}

// getReadingObjects collects visible objects with cumulative overlap difficulty, filling OverlapValues on the way
func (o *DifficultyObject) getReadingObjects() []ReadingObject {
	totalOverlapnessDifficulty := 0.0
	currentTime := o.DeltaTime
	historicTimes := make([]float64, 0)
	historicAngles := make([]float64, 0)

	prevObject := o

	visibleObjects := retrieveCurrentVisibleObjects(o)

	readingObjects := make([]ReadingObject, 0, len(visibleObjects))
	o.OverlapValues = make(map[int]float64)

	for _, loopObj := range visibleObjects {
		currentOverlapness := calculateOverlapness(o, loopObj)

		if currentOverlapness > 0 {
			o.OverlapValues[loopObj.Index] = currentOverlapness
		}

		if math.IsNaN(prevObject.Angle) {
			currentTime += prevObject.DeltaTime
			continue
		}

		// Previous angle because order is reversed
		angle := prevObject.Angle

		// Overlap between current and previous, so streams get no buff
		instantOverlapness := prevObject.OverlapValues[loopObj.Index]

		// =2 for wide angles, =1 for acute angles
		angleFactor := 1.0 + (-math.Cos(angle)+1)/2
		instantOverlapness = math.Min(1, (0.5+instantOverlapness)*angleFactor)

		currentOverlapness *= (1 - instantOverlapness) * 2

		// Control overlap repetitiveness
		if currentOverlapness > 0 {
			currentOverlapness *= o.getOpacityMultiplier(loopObj)

			currentMinOverlapness := currentOverlapness
			cumulativeTimeWithCurrent := currentTime

			for i := len(historicTimes) - 1; i >= 0; i-- {
				cumulativeTimeWithoutCurrent := 0.0

				for j := i; j >= 0; j-- {
					cumulativeTimeWithoutCurrent += historicTimes[j]

					angleSimilarity := getAngleSimilarity(angle, historicAngles[j]) * (1 - getTimeDifference(loopObj.StrainTime, prevObject.StrainTime))

					potentialMinOverlapness := currentOverlapness * getTimeDifference(cumulativeTimeWithCurrent, cumulativeTimeWithoutCurrent)
					potentialMinOverlapness *= 1 - angleSimilarity
					currentMinOverlapness = math.Min(currentMinOverlapness, potentialMinOverlapness)

					potentialMinOverlapness = currentOverlapness * getTimeDifference(currentTime, cumulativeTimeWithoutCurrent)
					potentialMinOverlapness *= 1 - angleSimilarity
					currentMinOverlapness = math.Min(currentMinOverlapness, potentialMinOverlapness)

					// No better match is possible from here
					if cumulativeTimeWithoutCurrent >= cumulativeTimeWithCurrent {
						break
					}
				}

				cumulativeTimeWithCurrent += historicTimes[i]
			}

			currentOverlapness = currentMinOverlapness

			historicTimes = append(historicTimes, currentTime)
			historicAngles = append(historicAngles, angle)

			currentTime = prevObject.DeltaTime
		} else {
			currentTime += prevObject.DeltaTime
		}

		totalOverlapnessDifficulty += currentOverlapness

		readingObjects = append(readingObjects, ReadingObject{
			HitObject:   loopObj,
			Overlapness: totalOverlapnessDifficulty,
		})

		prevObject = loopObj
	}

	return readingObjects
}

func (o *DifficultyObject) CalculateAnglePredictability() float64 {
	prevObj0 := o.Previous(0)
	prevObj1 := o.Previous(1)
	prevObj2 := o.Previous(2)

	if math.IsNaN(o.Angle) || prevObj0 == nil || math.IsNaN(prevObj0.Angle) {
		return 1.0
	}

	angleDifference := math.Abs(prevObj0.Angle - o.Angle)

	// Very low spacing means angles don't matter
	if prevObj0.LazyJumpDistance < NormalizedRadius {
		angleDifference *= math.Pow(prevObj0.LazyJumpDistance/NormalizedRadius, 2)
	}
	if o.LazyJumpDistance < NormalizedRadius {
		angleDifference *= math.Pow(o.LazyJumpDistance/NormalizedRadius, 2)
	}

	angleDifferencePrev := 0.0
	zeroAngleFactor := 1.0

	// Nerf alternating angles
	if prevObj1 != nil && prevObj2 != nil && !math.IsNaN(prevObj1.Angle) {
		angleDifferencePrev = math.Abs(prevObj1.Angle - o.Angle)
		zeroAngleFactor = math.Pow(1-math.Min(o.Angle, prevObj0.Angle)/math.Pi, 10)
	}

	rescaleFactor := math.Pow(1-angleDifferencePrev/math.Pi, 5)

	// 0 on different rhythm, 1 on same rhythm
	rhythmFactor := 1 - getTimeDifference(o.StrainTime, prevObj0.StrainTime)

	if prevObj1 != nil {
		rhythmFactor *= 1 - getTimeDifference(prevObj0.StrainTime, prevObj1.StrainTime)
	}
	if prevObj1 != nil && prevObj2 != nil {
		rhythmFactor *= 1 - getTimeDifference(prevObj1.StrainTime, prevObj2.StrainTime)
	}

	prevAngleAdjust := math.Max(angleDifference-angleDifferencePrev, 0)
	prevAngleAdjust *= rescaleFactor
	prevAngleAdjust *= rhythmFactor
	prevAngleAdjust *= zeroAngleFactor

	angleDifference -= prevAngleAdjust

	// Explicit nerf for repeating patterns
	prevObj3 := o.Previous(3)
	prevObj4 := o.Previous(4)
	prevObj5 := o.Previous(5)

	// 3-3 repeat
	similarity3 := getGeneralSimilarity(o, prevObj2) * getGeneralSimilarity(prevObj0, prevObj3) * getGeneralSimilarity(prevObj1, prevObj4)

	// 4-4 repeat
	similarity4 := getGeneralSimilarity(o, prevObj3) * getGeneralSimilarity(prevObj0, prevObj4) * getGeneralSimilarity(prevObj1, prevObj5)

	wideness := 0.0
	if o.Angle > math.Pi*0.5 {
		wideness = (o.Angle/math.Pi - 0.5) * 2
		wideness = 1 - math.Pow(1-wideness, 3)
	}

	angleDifference /= 1 + wideness

	// Angle difference above 15 degrees gets no penalty
	adjustedAngleDifference := math.Min(math.Pi/12, angleDifference)
	predictability := math.Cos(math.Min(math.Pi/2, 6*adjustedAngleDifference)) * rhythmFactor

	return 1 - (1-predictability)*(1-math.Max(similarity3, similarity4))
}
