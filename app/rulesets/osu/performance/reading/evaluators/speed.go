package evaluators

import (
	"math"

	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/reading/preprocessing"
)

const (
	speedBalancingFactor = 40.0
	reactionTime         = 150.0
)

// EvaluateSpeed returns tapping difficulty of the current object based on the time available to read and hit it
func EvaluateSpeed(current *preprocessing.DifficultyObject) float64 {
	if current.IsSpinner {
		return 0
	}

	prev := current.Previous(0)

	arBuff := 1.0

	adjustedApproachTime := current.ApproachRateTime + max(0, (current.FollowLineTime-200)/25)

	if adjustedApproachTime < 150 {
		arBuff += 0.4
	}

	if adjustedApproachTime < 400 {
		arBuff += 0.2 * (1 + math.Cos(math.Pi*0.4*(adjustedApproachTime-150)/100))
	}

	readingTime := current.StrainTime
	if prev != nil {
		readingTime = min(max(speedBalancingFactor, prev.MovementTime+current.StrainTime)/2, current.ApproachRateTime-reactionTime)
	}

	doubletapness := 1 - current.GetDoubletapness(current.Next(0))

	return arBuff * doubletapness / max(1, readingTime-20)
}
