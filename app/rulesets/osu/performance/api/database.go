package api

import "math"

// Attribute ids used in the flat encoding. Ids below 30 match osu-web's ids.
const (
	AttribIDAim                        = 1
	AttribIDSpeed                      = 3
	AttribIDOverallDifficulty          = 5
	AttribIDApproachRate               = 7
	AttribIDMaxCombo                   = 9
	AttribIDDifficulty                 = 11
	AttribIDFlashlight                 = 17
	AttribIDSliderFactor               = 19
	AttribIDSpeedNoteCount             = 21
	AttribIDSpeedDifficultStrainCount  = 23
	AttribIDAimDifficultStrainCount    = 25
	AttribIDReadingLowAR               = 31
	AttribIDReadingHighAR              = 33
	AttribIDHidden                     = 35
	AttribIDLowArDifficultStrainCount  = 37
	AttribIDHiddenDifficultStrainCount = 39
	AttribIDCircleCount                = 41
	AttribIDSliderCount                = 43
	AttribIDSpinnerCount               = 45
	AttribIDDrainRate                  = 47
	AttribIDObjectCount                = 49
)

// ToDatabaseAttributes flattens attributes to id -> value pairs.
// Flashlight difficulty is always written, it feeds cognition performance without FL too.
func ToDatabaseAttributes(attribs Attributes) map[int]float64 {
	return map[int]float64{
		AttribIDAim:                        attribs.Aim,
		AttribIDSpeed:                      attribs.Speed,
		AttribIDOverallDifficulty:          attribs.OverallDifficulty,
		AttribIDApproachRate:               attribs.ApproachRate,
		AttribIDMaxCombo:                   float64(attribs.MaxCombo),
		AttribIDDifficulty:                 attribs.Total,
		AttribIDSliderFactor:               attribs.SliderFactor,
		AttribIDSpeedNoteCount:             attribs.SpeedNoteCount,
		AttribIDSpeedDifficultStrainCount:  attribs.SpeedDifficultStrainCount,
		AttribIDAimDifficultStrainCount:    attribs.AimDifficultStrainCount,
		AttribIDReadingLowAR:               attribs.ReadingDifficultyLowAR,
		AttribIDReadingHighAR:              attribs.ReadingDifficultyHighAR,
		AttribIDHidden:                     attribs.HiddenDifficulty,
		AttribIDLowArDifficultStrainCount:  attribs.LowArDifficultStrainCount,
		AttribIDHiddenDifficultStrainCount: attribs.HiddenDifficultStrainCount,
		AttribIDCircleCount:                float64(attribs.Circles),
		AttribIDSliderCount:                float64(attribs.Sliders),
		AttribIDSpinnerCount:               float64(attribs.Spinners),
		AttribIDDrainRate:                  attribs.DrainRate,
		AttribIDObjectCount:                float64(attribs.ObjectCount),
		AttribIDFlashlight:                 attribs.Flashlight,
	}
}

// FromDatabaseAttributes rebuilds attributes from a flat encoding. Missing ids default to 0.
func FromDatabaseAttributes(values map[int]float64) Attributes {
	count := func(id int) int {
		return int(math.Round(values[id]))
	}

	return Attributes{
		Total:                      values[AttribIDDifficulty],
		Aim:                        values[AttribIDAim],
		Speed:                      values[AttribIDSpeed],
		SpeedNoteCount:             values[AttribIDSpeedNoteCount],
		AimDifficultStrainCount:    values[AttribIDAimDifficultStrainCount],
		SpeedDifficultStrainCount:  values[AttribIDSpeedDifficultStrainCount],
		Flashlight:                 values[AttribIDFlashlight],
		SliderFactor:               values[AttribIDSliderFactor],
		ReadingDifficultyLowAR:     values[AttribIDReadingLowAR],
		ReadingDifficultyHighAR:    values[AttribIDReadingHighAR],
		HiddenDifficulty:           values[AttribIDHidden],
		LowArDifficultStrainCount:  values[AttribIDLowArDifficultStrainCount],
		HiddenDifficultStrainCount: values[AttribIDHiddenDifficultStrainCount],
		ApproachRate:               values[AttribIDApproachRate],
		OverallDifficulty:          values[AttribIDOverallDifficulty],
		DrainRate:                  values[AttribIDDrainRate],
		ObjectCount:                count(AttribIDObjectCount),
		Circles:                    count(AttribIDCircleCount),
		Sliders:                    count(AttribIDSliderCount),
		Spinners:                   count(AttribIDSpinnerCount),
		MaxCombo:                   count(AttribIDMaxCombo),
	}
}
