package skills

import "math"

const (
	// DifficultyMultiplier converts raw skill values into star ratings
	DifficultyMultiplier = 0.0675
	SumPower             = 1.1
	FlashlightSumPower   = 1.5
)

func DifficultyToPerformance(difficulty float64) float64 {
	return math.Pow(5.0*max(1.0, difficulty/DifficultyMultiplier)-4.0, 3.0) / 100000.0
}

func PerformanceToDifficulty(performance float64) float64 {
	return (math.Cbrt(performance*100000.0) + 4.0) / 5.0 * DifficultyMultiplier
}

func FlashlightDifficultyToPerformance(difficulty float64) float64 {
	return 25 * difficulty * difficulty
}

func LowARDifficultyToPerformance(difficulty float64) float64 {
	return max(
		math.Pow(difficulty, 1.5)*20,
		math.Pow(difficulty, 2)*17.0,
		math.Pow(difficulty, 3)*10.5,
		math.Pow(difficulty, 4)*6.00,
	)
}

func HiddenDifficultyToPerformance(difficulty float64) float64 {
	return max(
		difficulty*16,
		math.Pow(difficulty, 2)*10,
		math.Pow(difficulty, 3)*4,
	)
}

// DefaultLengthBonus rewards maps with more objects, growing slowly past 2000
func DefaultLengthBonus(objectsCount int) float64 {
	bonus := 0.95 + 0.4*min(1.0, float64(objectsCount)/2000.0)

	if objectsCount > 2000 {
		bonus += math.Log10(float64(objectsCount)/2000.0) * 0.5
	}

	return bonus
}
