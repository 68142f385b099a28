package evaluators

import (
	"math"

	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/reading/preprocessing"
	"github.com/Givikap120/pp-rework/framework/math/mutils"
	"github.com/go-gl/mathgl/mgl64"
)

// AimStrainDecayBase is used for sustained slider strain inside a single slider
const AimStrainDecayBase = 0.15

func isAimInvalid(current *preprocessing.DifficultyObject) bool {
	if current.Index <= 2 || current.IsSpinner {
		return true
	}

	for i := 0; i < 3; i++ {
		prev := current.Previous(i)
		if prev == nil || prev.IsSpinner {
			return true
		}
	}

	return false
}

// EvaluateAim returns total movement strain of the current object: the easier of snap and flow plus bonuses
func EvaluateAim(current *preprocessing.DifficultyObject, withSliders bool) float64 {
	if isAimInvalid(current) {
		return 0
	}

	snap, flow := EvaluateRawAimOf(current)

	return EvaluateTotalAimOf(current, withSliders, snap, flow)
}

// EvaluateTotalAimOf is EvaluateAim over already computed raw snap and flow difficulties
func EvaluateTotalAimOf(current *preprocessing.DifficultyObject, withSliders bool, snap, flow float64) float64 {
	if isAimInvalid(current) {
		return 0
	}

	return applyRemainingBonusesTo(current, withSliders, AimStrainDecayBase, min(snap, flow))
}

// EvaluateSnapAimOf returns the snap lane strain, flow dampens snap linearly when it's easier
func EvaluateSnapAimOf(current *preprocessing.DifficultyObject, withSliders bool, snap, flow float64) float64 {
	if isAimInvalid(current) {
		return 0
	}

	if flow < snap {
		snap = flow * (flow / snap)
	}

	return applyRemainingBonusesTo(current, withSliders, AimStrainDecayBase, min(snap, flow))
}

// EvaluateFlowAimOf returns the flow lane strain, snap dampens flow quadratically when it's easier
func EvaluateFlowAimOf(current *preprocessing.DifficultyObject, withSliders bool, snap, flow float64) float64 {
	if isAimInvalid(current) {
		return 0
	}

	if snap < flow {
		flow = snap * math.Pow(snap/flow, 2)
	}

	return applyRemainingBonusesTo(current, withSliders, AimStrainDecayBase, min(snap, flow))
}

// EvaluateRawAimOf returns raw snap and flow difficulties of moving to the current object
func EvaluateRawAimOf(current *preprocessing.DifficultyObject) (snap, flow float64) {
	if isAimInvalid(current) {
		return 0, 0
	}

	last0 := current.Previous(0)
	last1 := current.Previous(1)

	movement := current.Movement.Len()

	linearDifficulty := 32.0 / current.Radius

	flowDifficulty := linearDifficulty * movement / current.StrainTime
	flowDifficulty *= min(10, movement/(current.Radius*2))

	const (
		minJump      = 5.0
		expBase      = 1.9
		highBPMPower = 2.4
		lowBPMPower  = 1.2
		bpmPoint     = 120.0 // strain time in ms
	)

	normalisedDistance := movement / current.Radius

	lowSpacingBonusMultiplier := minJump

	if current.StrainTime < bpmPoint {
		lowSpacingBonusMultiplier *= math.Pow(bpmPoint/current.StrainTime, highBPMPower)
	} else {
		lowSpacingBonusMultiplier *= math.Pow(bpmPoint/current.StrainTime, lowBPMPower)
	}

	// Below this point increasing spacing must not lower difficulty
	extremumPoint := -math.Log(1/(lowSpacingBonusMultiplier*math.Log(expBase))) / math.Log(expBase)

	var lowSpacingBonus float64
	if normalisedDistance < extremumPoint {
		lowSpacingBonus = math.Pow(expBase, -extremumPoint)*lowSpacingBonusMultiplier - normalisedDistance + extremumPoint
	} else {
		lowSpacingBonus = math.Pow(expBase, -normalisedDistance) * lowSpacingBonusMultiplier
	}

	lowSpacingBonus += 2

	adjustedSnapDistance := movement + current.Radius*lowSpacingBonus

	angle := current.Angle
	if math.IsNaN(angle) {
		angle = 0
	}

	// 20ms of stopping time, 10ms more on wide angles
	snapStopTime := 20 + 10*angleSpline(angle, false)
	adjustedStrainTime := max(current.StrainTime-snapStopTime, 5)

	snapDifficulty := linearDifficulty * (adjustedSnapDistance / adjustedStrainTime)

	adjustedSnapRatio := 1.0
	if movement > 0 {
		adjustedSnapRatio = (adjustedSnapDistance / adjustedStrainTime) / (movement / current.StrainTime)
		adjustedSnapRatio = max(adjustedSnapRatio, 1)
	}

	// High bpm snap buff
	snapDifficulty *= math.Pow(max(1, 100/current.StrainTime), 0.4)

	currVelocity := movement / current.StrainTime
	prevVelocity := last0.Movement.Len() / last0.StrainTime
	minVelocity := min(currVelocity, prevVelocity)
	maxVelocity := max(currVelocity, prevVelocity)

	rhythmRatio := min(current.StrainTime, last0.StrainTime) / max(current.StrainTime, last0.StrainTime)
	maxStrainTime := max(current.StrainTime, last0.StrainTime)

	snapAngleBuff := 0.0

	if !math.IsNaN(current.Angle) && !math.IsNaN(last0.Angle) {
		currAngle := current.Angle
		lastAngle := last0.Angle

		summedMovement := current.Movement.Add(last0.Movement).Len() / maxStrainTime

		// Wide angles are rewarded on snap
		snapAngleBuff = adjustedSnapRatio * linearDifficulty * angleSpline(currAngle, false) * min(minVelocity, summedMovement)

		// Repeated wide angles are nerfed
		snapAngleBuff *= math.Pow(angleSpline(lastAngle, true), 2)

		spline := angleSpline(math.Pi/4+min(math.Pi/2, math.Abs(lastAngle-currAngle)), false)
		spline *= 1 - mutils.Clamp(last1.StrainTime-last0.StrainTime, 0, last0.StrainTime)/last0.StrainTime
		spline *= 1 - mutils.Clamp(last0.StrainTime-current.StrainTime, 0, current.StrainTime)/current.StrainTime

		acutenessBonus := linearDifficulty * spline * min(minVelocity, summedMovement)

		angleChangeBonus := linearDifficulty * angleSpline(currAngle, true) * min(minVelocity, current.Movement.Sub(last0.Movement).Len()/maxStrainTime)

		flowDifficulty += max(acutenessBonus, angleChangeBonus)
	}

	flowDifficulty += 1.5 * linearDifficulty * math.Abs(currVelocity-prevVelocity) * rhythmRatio

	snapVelocityBuff := linearDifficulty * max(0, min(math.Abs(currVelocity-prevVelocity)-minVelocity, minVelocity)) * rhythmRatio

	if currVelocity > prevVelocity {
		snapDifficulty += max(snapAngleBuff, snapVelocityBuff) + min(snapAngleBuff, snapVelocityBuff)*minVelocity/maxVelocity
	} else {
		snapDifficulty += snapAngleBuff + snapVelocityBuff
	}

	flowDifficulty *= 1.28
	snapDifficulty *= 0.86

	return snapDifficulty, flowDifficulty
}

// AdjustStrainDecay makes decay faster for spaced out movements that are easier to rest on
func AdjustStrainDecay(current *preprocessing.DifficultyObject, strainDecayBase float64) float64 {
	if isAimInvalid(current) {
		return strainDecayBase
	}

	// distance in circles
	normalisedDistance := 0.5 * current.Movement.Len() / current.Radius
	normalisedDistance *= getAngleMultiplier(current)

	const (
		basicK       = 0.45
		pointAddment = 3.0
		highBPMPoint = 111.0 // 270bpm
	)

	var targetDistance float64
	if current.StrainTime > highBPMPoint {
		targetDistance = basicK*normalisedDistance + pointAddment*math.Pow(highBPMPoint/current.StrainTime, 0.5)
	} else {
		targetDistance = basicK*normalisedDistance + pointAddment*math.Pow(highBPMPoint/current.StrainTime, 0.75)
	}

	if targetDistance >= normalisedDistance {
		return strainDecayBase
	}

	velocity := normalisedDistance / current.StrainTime
	adjustedStrainTime := targetDistance / velocity

	return math.Pow(strainDecayBase, adjustedStrainTime/current.StrainTime)
}

func getAngleMultiplier(current *preprocessing.DifficultyObject) float64 {
	last0 := current.Previous(0)

	linearDifficulty := 32.0 / current.Radius
	maxStrainTime := max(current.StrainTime, last0.StrainTime)

	snapDifficulty := linearDifficulty * (current.Movement.Len()/(current.StrainTime-20) + (current.Radius*2)/(maxStrainTime-20))

	currVelocity := current.Movement.Len() / current.StrainTime
	prevVelocity := last0.Movement.Len() / last0.StrainTime

	adjustedSnapDifficulty := snapDifficulty

	if !math.IsNaN(current.Angle) {
		adjustedSnapDifficulty += linearDifficulty * angleSpline(current.Angle, false) * min(currVelocity, prevVelocity, current.Movement.Add(last0.Movement).Len()/maxStrainTime)
	}

	return adjustedSnapDifficulty / snapDifficulty
}

func applyRemainingBonusesTo(current *preprocessing.DifficultyObject, withSliders bool, strainDecayBase, aimStrain float64) float64 {
	last0 := current.Previous(0)

	linearDifficulty := 32.0 / current.Radius
	currVelocity := current.Movement.Len() / current.StrainTime

	// Holding a slider makes the following jump harder
	aimStrain = max(aimStrain, (aimStrain-linearDifficulty*2.4*current.Radius/min(current.MovementTime, last0.MovementTime))*(current.StrainTime/current.MovementTime))

	// CS7 gets a 1.04x multiplier
	smallCSBonus := 1 + math.Pow(23.04/current.Radius, 4)/25
	aimStrain *= smallCSBonus

	aimStrain = min(aimStrain, linearDifficulty*currVelocity*3.25)

	if withSliders && len(current.SliderSubObjects) != 0 {
		aimStrain += 1.5 * calculateSustainedSliderStrain(current, strainDecayBase)
	}

	arBuff := 1.0

	// Follow lines make high AR easier
	adjustedApproachTime := current.ApproachRateTime + max(0, (current.FollowLineTime-200)/25)

	if adjustedApproachTime < 150 {
		arBuff += 0.5
	} else if adjustedApproachTime < 400 {
		arBuff += 0.25 * (1 + math.Cos(math.Pi*0.4*(adjustedApproachTime-150)/100))
	}

	return aimStrain * arBuff
}

func calculateSustainedSliderStrain(current *preprocessing.DifficultyObject, strainDecayBase float64) float64 {
	sliderRadius := 2.4 * current.Radius
	linearDifficulty := 32.0 / current.Radius

	var historyVector mgl64.Vec2
	historyTime := 0.0
	historyDistance := 0.0

	currentStrain := 0.0

	subObjects := current.SliderSubObjects

	for i, subObject := range subObjects {
		noteStrain := 0.0

		if i == 0 && len(subObjects) > 1 {
			noteStrain = max(0, linearDifficulty*subObject.Movement.Len()) / subObject.StrainTime
		}

		historyVector = historyVector.Add(subObject.Movement)
		historyTime += subObject.StrainTime
		historyDistance += subObject.Movement.Len()

		if historyVector.Len() > sliderRadius*2 {
			noteStrain += linearDifficulty * historyDistance / historyTime

			historyVector = mgl64.Vec2{}
			historyTime = 0
			historyDistance = 0
		}

		currentStrain *= math.Pow(strainDecayBase, subObject.StrainTime/1000)
		currentStrain += noteStrain
	}

	if historyTime > 0 {
		if len(subObjects) > 1 {
			currentStrain += max(0, linearDifficulty*historyVector.Len()/historyTime)
		} else {
			currentStrain += max(0, linearDifficulty*max(0, historyVector.Len()-2*current.Radius)/historyTime)
		}
	}

	return currentStrain
}

func angleSpline(angle float64, reversed bool) float64 {
	angle = math.Abs(angle)

	if reversed {
		return 1 - math.Pow(math.Sin(mutils.Clamp(angle, math.Pi/3, 5*math.Pi/6)-math.Pi/3), 2)
	}

	return math.Pow(math.Sin((mutils.Clamp(angle, math.Pi/3, 3*math.Pi/4)-math.Pi/3)*1.2), 0.5)
}
