package difficulty

import (
	"math"
	"testing"
)

func TestDifficultyRange(t *testing.T) {
	tests := []struct {
		ar       float64
		expected float64
	}{
		{0, 1800},
		{5, 1200},
		{9, 600},
		{10, 450},
	}

	for _, tt := range tests {
		got := DifficultyRange(tt.ar, PreemptMax, PreemptMid, PreemptMin)
		if math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("DifficultyRange(%v) = %v, want %v", tt.ar, got, tt.expected)
		}

		back := InverseDifficultyRange(got, PreemptMax, PreemptMid, PreemptMin)
		if math.Abs(back-tt.ar) > 1e-9 {
			t.Errorf("InverseDifficultyRange(%v) = %v, want %v", got, back, tt.ar)
		}
	}
}

func TestRateAdjustedValues(t *testing.T) {
	diff := NewDifficulty(5, 4, 8, 9)
	diff.SetMods(DoubleTime)

	if diff.Speed != 1.5 {
		t.Fatalf("Speed = %v, want 1.5", diff.Speed)
	}

	// AR9 preempt 600ms / 1.5 = 400ms -> AR 10.33
	if math.Abs(diff.ARReal-(10+50.0/150.0)) > 1e-9 {
		t.Errorf("ARReal = %v, want 10.333", diff.ARReal)
	}

	// OD8 great window 32ms / 1.5 -> OD 9.78
	expectedOD := (80 - 32/1.5) / 6
	if math.Abs(diff.ODReal-expectedOD) > 1e-9 {
		t.Errorf("ODReal = %v, want %v", diff.ODReal, expectedOD)
	}
}

func TestHardRockEasy(t *testing.T) {
	diff := NewDifficulty(5, 5, 8, 9)

	diff.SetMods(HardRock)
	if diff.GetCS() != 6.5 || diff.GetAR() != 10 {
		t.Errorf("HR cs/ar = %v/%v, want 6.5/10", diff.GetCS(), diff.GetAR())
	}

	diff.SetMods(Easy)
	if diff.GetCS() != 2.5 || diff.GetOD() != 4 {
		t.Errorf("EZ cs/od = %v/%v, want 2.5/4", diff.GetCS(), diff.GetOD())
	}

	if math.Abs(diff.CircleRadiusU-(54.4-4.48*2.5)) > 1e-9 {
		t.Errorf("CircleRadiusU = %v", diff.CircleRadiusU)
	}
}

func TestParseMods(t *testing.T) {
	tests := []struct {
		input    string
		expected Modifier
		wantErr  bool
	}{
		{"", None, false},
		{"NM", None, false},
		{"HDDT", Hidden | DoubleTime, false},
		{"hd,hr", Hidden | HardRock, false},
		{"NC", Nightcore | DoubleTime, false},
		{"HDLZ", Hidden | Lazer, false},
		{"tc,bl", Traceable | Blinds, false},
		{"EZHR", None, true},
		{"HDTC", None, true},
		{"FLBL", None, true},
		{"XX", None, true},
		{"HDD", None, true},
	}

	for _, tt := range tests {
		got, err := ParseMods(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMods(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}

		if got != tt.expected {
			t.Errorf("ParseMods(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestModString(t *testing.T) {
	tests := []struct {
		mods     Modifier
		expected string
	}{
		{Hidden | DoubleTime, "HDDT"},
		{Nightcore | DoubleTime, "NC"},
		{HardRock | Flashlight, "HRFL"},
		{Hidden | ScoreV2 | Lazer, "HDV2LZ"},
		{Traceable | Blinds, "BLTC"},
		{None, ""},
	}

	for _, tt := range tests {
		if got := tt.mods.String(); got != tt.expected {
			t.Errorf("String() = %q, want %q", got, tt.expected)
		}
	}
}

func TestModStringRoundTrip(t *testing.T) {
	for _, mods := range []Modifier{
		Hidden | DoubleTime,
		Nightcore | DoubleTime | Flashlight,
		Perfect | SuddenDeath | HardRock,
		Hidden | Lazer,
		DoubleTime | ScoreV2 | Lazer,
		Traceable | HardRock | Lazer,
		Blinds | Hidden,
	} {
		parsed, err := ParseMods(mods.String())
		if err != nil {
			t.Errorf("ParseMods(%q): %v", mods.String(), err)
			continue
		}

		if parsed != mods {
			t.Errorf("ParseMods(%q) = %v, want %v", mods.String(), parsed, mods)
		}
	}
}

func TestGetDiffMaskedMods(t *testing.T) {
	got := GetDiffMaskedMods(Hidden | NoFail | SpunOut | Nightcore)
	if got != Hidden|Nightcore|DoubleTime {
		t.Errorf("GetDiffMaskedMods = %v", got)
	}

	if got := GetDiffMaskedMods(Traceable | Blinds | HardRock); got != HardRock {
		t.Errorf("GetDiffMaskedMods(TCBLHR) = %v, want HR", got)
	}
}
