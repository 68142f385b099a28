package api

import (
	"github.com/Givikap120/pp-rework/app/beatmap/difficulty"
	"github.com/Givikap120/pp-rework/app/beatmap/objects"
)

type Attributes struct {
	// Total Star rating, visible on osu!'s beatmap page
	Total float64

	// Aim stars, needed for Performance Points (aka PP) calculations
	Aim float64

	// Speed stars, needed for Performance Points (aka PP) calculations
	Speed float64

	SpeedNoteCount float64

	AimDifficultStrainCount   float64
	SpeedDifficultStrainCount float64

	// Flashlight stars, needed for Performance Points (aka PP) calculations
	Flashlight float64

	// SliderFactor is a ratio of Aim calculated without sliders to Aim with them
	SliderFactor float64

	ReadingDifficultyLowAR  float64
	ReadingDifficultyHighAR float64
	HiddenDifficulty        float64

	LowArDifficultStrainCount  float64
	HiddenDifficultStrainCount float64

	// ApproachRate and OverallDifficulty are clock rate adjusted
	ApproachRate      float64
	OverallDifficulty float64
	DrainRate         float64

	ObjectCount int
	Circles     int
	Sliders     int
	Spinners    int
	MaxCombo    int
}

// StrainPeaks contains peaks of every skill, as well as peaks passed through star rating formula
type StrainPeaks struct {
	// Aim peaks
	Aim []float64

	// Speed peaks
	Speed []float64

	// Flashlight peaks
	Flashlight []float64

	ReadingLowAR  []float64
	ReadingHighAR []float64
	ReadingHidden []float64

	// Total contains all peaks passed through star rating formula
	Total []float64
}

type PPv2Results struct {
	Aim, Speed, Acc, Flashlight, Reading, Total float64

	EffectiveMissCount float64
}

type IDifficultyCalculator interface {
	CalculateSingle(objects []objects.IHitObject, diff *difficulty.Difficulty) Attributes
	CalculateStep(objects []objects.IHitObject, diff *difficulty.Difficulty) []Attributes
	CalculateStrainPeaks(objects []objects.IHitObject, diff *difficulty.Difficulty) StrainPeaks
	GetVersion() int
	GetVersionMessage() string
}

type IPerformanceCalculator interface {
	Calculate(attribs Attributes, score Score) PPv2Results
}
