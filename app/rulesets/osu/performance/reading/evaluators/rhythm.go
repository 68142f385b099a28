package evaluators

import (
	"math"

	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/reading/preprocessing"
	"github.com/Givikap120/pp-rework/framework/math/mutils"
)

const (
	rhythmHistoryTimeMax    = 5000.0
	rhythmHistoryObjectsMax = 32

	rhythmOverallMultiplier = 0.95
	rhythmRatioMultiplier   = 12.0
)

// island is a run of objects with similar delta times
type island struct {
	epsilon    float64
	delta      int
	deltaCount int
}

func newIsland(epsilon float64) *island {
	return &island{epsilon: epsilon, delta: math.MaxInt}
}

func newIslandWithDelta(delta int, epsilon float64) *island {
	return &island{
		epsilon:    epsilon,
		delta:      max(delta, preprocessing.MinDeltaTime),
		deltaCount: 1,
	}
}

func (i *island) addDelta(delta int) {
	if i.delta == math.MaxInt {
		i.delta = max(delta, preprocessing.MinDeltaTime)
	}

	i.deltaCount++
}

func (i *island) isSimilarPolarity(other *island) bool {
	return i.deltaCount%2 == other.deltaCount%2
}

func (i *island) equals(other *island) bool {
	if other == nil {
		return false
	}

	return math.Abs(float64(i.delta-other.delta)) < i.epsilon && i.deltaCount == other.deltaCount
}

type islandCount struct {
	island *island
	count  int
}

// EvaluateRhythmOf returns a rhythm complexity multiplier (1 and up) of the recent history ending at the current object
func EvaluateRhythmOf(current *preprocessing.DifficultyObject) float64 {
	if current.IsSpinner {
		return 0
	}

	historicalNoteCount := min(current.Index, rhythmHistoryObjectsMax)

	rhythmStart := 0
	for rhythmStart < historicalNoteCount-2 && current.StartTime-current.Previous(rhythmStart).StartTime < rhythmHistoryTimeMax {
		rhythmStart++
	}

	if rhythmStart == 0 {
		return 1
	}

	epsilon := current.GreatWindow * 0.3

	currIsland := newIsland(epsilon)
	prevIsland := newIsland(epsilon)

	var counts []*islandCount

	rhythmComplexitySum := 0.0
	startRatio := 0.0
	firstDeltaSwitch := false

	prevObj := current.Previous(rhythmStart)
	lastObj := current.Previous(rhythmStart + 1)

	for i := rhythmStart; i > 0; i-- {
		currObj := current.Previous(i - 1)

		timeDecay := (rhythmHistoryTimeMax - (current.StartTime - currObj.StartTime)) / rhythmHistoryTimeMax
		noteDecay := float64(historicalNoteCount-i) / float64(historicalNoteCount)
		historicalDecay := min(noteDecay, timeDecay)

		currDelta := currObj.StrainTime
		prevDelta := prevObj.StrainTime
		lastDelta := lastObj.StrainTime

		// multiples of each other (100 and 200) get less bonus
		deltaDifferenceRatio := min(prevDelta, currDelta) / max(prevDelta, currDelta)
		currRatio := 1.0 + rhythmRatioMultiplier*min(0.5, math.Pow(math.Sin(math.Pi/deltaDifferenceRatio), 2))

		fraction := max(prevDelta/currDelta, currDelta/prevDelta)
		fractionMultiplier := mutils.Clamp(2.0-fraction/8.0, 0.0, 1.0)

		windowPenalty := min(1, max(0, math.Abs(prevDelta-currDelta)-epsilon)/epsilon)

		effectiveRatio := windowPenalty * currRatio * fractionMultiplier

		if firstDeltaSwitch {
			if math.Abs(prevDelta-currDelta) < epsilon {
				currIsland.addDelta(int(currDelta))
			} else {
				// changes into or out of sliders are easier
				if currObj.IsSlider {
					effectiveRatio *= 0.125
				}

				if prevObj.IsSlider {
					effectiveRatio *= 0.3
				}

				if currIsland.isSimilarPolarity(prevIsland) {
					effectiveRatio *= 0.5
				}

				// 1/1 -> 1/2 -> 1/4
				if lastDelta > prevDelta+epsilon && prevDelta > currDelta+epsilon {
					effectiveRatio *= 0.125
				}

				if prevIsland.deltaCount == currIsland.deltaCount {
					effectiveRatio *= 0.5
				}

				var found *islandCount
				for _, c := range counts {
					if c.island.equals(currIsland) {
						found = c
						break
					}
				}

				if found != nil {
					if prevIsland.equals(currIsland) {
						found.count++
					}

					power := mutils.Logistic(float64(currIsland.delta), 58.33, 0.24, 2.75)
					effectiveRatio *= min(3.0/float64(found.count), math.Pow(1.0/float64(found.count), power))
				} else {
					counts = append(counts, &islandCount{island: currIsland, count: 1})
				}

				effectiveRatio *= 1 - prevObj.GetDoubletapness(currObj)*0.75

				rhythmComplexitySum += math.Sqrt(effectiveRatio*startRatio) * historicalDecay

				startRatio = effectiveRatio

				prevIsland = currIsland

				// slowing down stops the island
				if prevDelta+epsilon < currDelta {
					firstDeltaSwitch = false
				}

				currIsland = newIslandWithDelta(int(currDelta), epsilon)
			}
		} else if prevDelta > currDelta+epsilon {
			// speeding up starts a new island
			firstDeltaSwitch = true

			if currObj.IsSlider {
				effectiveRatio *= 0.6
			}

			if prevObj.IsSlider {
				effectiveRatio *= 0.6
			}

			startRatio = effectiveRatio

			currIsland = newIslandWithDelta(int(currDelta), epsilon)
		}

		lastObj = prevObj
		prevObj = currObj
	}

	return math.Sqrt(4+rhythmComplexitySum*rhythmOverallMultiplier) / 2.0
}
