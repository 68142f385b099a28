package difficulty

import (
	"math"
)

const (
	HitFadeIn   = 400.0
	PreemptMin  = 450.0
	PreemptMid  = 1200.0
	PreemptMax  = 1800.0
	FadeOutRate = 0.3
)

type Difficulty struct {
	baseHP, baseCS, baseOD, baseAR float64

	hpDrain, circleSize, od, ar float64

	Mods Modifier

	// Speed is the clock rate of the play
	Speed float64

	CircleRadiusU float64
	PreemptU      float64
	TimeFadeIn    float64
	Hit300U       float64
	Hit100U       float64
	Hit50U        float64

	// ARReal and ODReal are clock-rate adjusted values shown to players
	ARReal float64
	ODReal float64
}

func NewDifficulty(hp, cs, od, ar float64) *Difficulty {
	diff := new(Difficulty)
	diff.baseHP = hp
	diff.baseCS = cs
	diff.baseOD = od
	diff.baseAR = ar
	diff.Speed = 1
	diff.calculate()

	return diff
}

func (diff *Difficulty) calculate() {
	hpDrain, cs, od, ar := diff.baseHP, diff.baseCS, diff.baseOD, diff.baseAR

	if diff.Mods.Active(HardRock) {
		ar = min(ar*1.4, 10)
		cs = min(cs*1.3, 10)
		od = min(od*1.4, 10)
		hpDrain = min(hpDrain*1.4, 10)
	}

	if diff.Mods.Active(Easy) {
		ar /= 2
		cs /= 2
		od /= 2
		hpDrain /= 2
	}

	diff.hpDrain = hpDrain
	diff.circleSize = cs
	diff.od = od
	diff.ar = ar

	diff.CircleRadiusU = CircleRadius(cs)

	diff.PreemptU = DifficultyRange(ar, PreemptMax, PreemptMid, PreemptMin)
	diff.TimeFadeIn = HitFadeIn * min(1, diff.PreemptU/PreemptMin)

	diff.Hit50U = 200 - 10*od
	diff.Hit100U = 140 - 8*od
	diff.Hit300U = 80 - 6*od

	diff.Speed = diff.GetModifiedTime(1)

	diff.ARReal = InverseDifficultyRange(diff.PreemptU/diff.Speed, PreemptMax, PreemptMid, PreemptMin)
	diff.ODReal = (80 - diff.Hit300U/diff.Speed) / 6
}

func (diff *Difficulty) SetMods(mods Modifier) {
	diff.Mods = mods
	diff.calculate()
}

func (diff *Difficulty) CheckModActive(mods Modifier) bool {
	return diff.Mods&mods > 0
}

// GetModifiedTime returns the clock rate multiplier for the active mods
func (diff *Difficulty) GetModifiedTime(time float64) float64 {
	switch {
	case diff.Mods.Active(DoubleTime | Nightcore):
		return time * 1.5
	case diff.Mods.Active(HalfTime):
		return time * 0.75
	default:
		return time
	}
}

func (diff *Difficulty) GetHPDrain() float64 {
	return diff.hpDrain
}

func (diff *Difficulty) GetCS() float64 {
	return diff.circleSize
}

func (diff *Difficulty) GetOD() float64 {
	return diff.od
}

func (diff *Difficulty) GetAR() float64 {
	return diff.ar
}

func (diff *Difficulty) GetBaseHP() float64 {
	return diff.baseHP
}

func (diff *Difficulty) GetBaseCS() float64 {
	return diff.baseCS
}

func (diff *Difficulty) GetBaseOD() float64 {
	return diff.baseOD
}

func (diff *Difficulty) GetBaseAR() float64 {
	return diff.baseAR
}

func (diff *Difficulty) Clone() *Difficulty {
	c := *diff
	return &c
}

// CircleRadius converts circle size to radius in osu!pixels
func CircleRadius(cs float64) float64 {
	return 54.4 - 4.48*cs
}

func DifficultyRange(difficulty, min, mid, max float64) float64 {
	if difficulty > 5 {
		return mid + (max-mid)*(difficulty-5)/5
	}

	if difficulty < 5 {
		return mid - (mid-min)*(5-difficulty)/5
	}

	return mid
}

func InverseDifficultyRange(value, diff0, diff5, diff10 float64) float64 {
	if math.Signbit(value-diff5) == math.Signbit(diff10-diff5) {
		return (value-diff5)/(diff10-diff5)*5 + 5
	}

	return (value-diff5)/(diff5-diff0)*5 + 5
}
