package difficulty

import (
	"fmt"
	"strings"
)

type Modifier int64

const (
	None        = Modifier(0)
	NoFail      = Modifier(1 << 0)
	Easy        = Modifier(1 << 1)
	TouchDevice = Modifier(1 << 2)
	Hidden      = Modifier(1 << 3)
	HardRock    = Modifier(1 << 4)
	SuddenDeath = Modifier(1 << 5)
	DoubleTime  = Modifier(1 << 6)
	Relax       = Modifier(1 << 7)
	HalfTime    = Modifier(1 << 8)
	Nightcore   = Modifier(1 << 9)
	Flashlight  = Modifier(1 << 10)
	Autoplay    = Modifier(1 << 11)
	SpunOut     = Modifier(1 << 12)
	Relax2      = Modifier(1 << 13)
	Perfect     = Modifier(1 << 14)
	ScoreV2     = Modifier(1 << 29)

	// Lazer marks scores set with non-classic slider accuracy (slider heads judged, tails and ticks counted).
	Lazer = Modifier(1 << 40)

	// Blinds and Traceable exist only in lazer and change performance, not difficulty.
	Blinds    = Modifier(1 << 41)
	Traceable = Modifier(1 << 42)

	// DifficultyAdjustMask holds mods that change difficulty attributes
	DifficultyAdjustMask = TouchDevice | Easy | HardRock | DoubleTime | Nightcore | HalfTime | Flashlight | Hidden | Relax
)

var modsString = [...]string{
	"NF",
	"EZ",
	"TD",
	"HD",
	"HR",
	"SD",
	"DT",
	"RX",
	"HT",
	"NC",
	"FL",
	"AT",
	"SO",
	"AP",
	"PF",
}

// extraModsString lists mods outside the stable bit range, in display order
var extraModsString = [...]struct {
	mod  Modifier
	code string
}{
	{ScoreV2, "V2"},
	{Lazer, "LZ"},
	{Blinds, "BL"},
	{Traceable, "TC"},
}

func (modifier Modifier) Active(mod Modifier) bool {
	return modifier&mod > 0
}

func (modifier Modifier) Compatible() bool {
	return !((modifier.Active(Easy) && modifier.Active(HardRock)) ||
		(modifier.Active(HalfTime) && (modifier.Active(DoubleTime) || modifier.Active(Nightcore))) ||
		(modifier.Active(Relax) && modifier.Active(Relax2)) ||
		(modifier.Active(Hidden) && modifier.Active(Traceable)) ||
		(modifier.Active(Flashlight) && modifier.Active(Blinds)) ||
		(modifier.Active(NoFail) && (modifier.Active(SuddenDeath) || modifier.Active(Perfect))))
}

func (modifier Modifier) String() (s string) {
	var sb strings.Builder

	for i, v := range modsString {
		if v == "DT" && modifier.Active(Nightcore) {
			continue
		}

		if v == "SD" && modifier.Active(Perfect) {
			continue
		}

		if modifier&(1<<uint(i)) > 0 {
			sb.WriteString(v)
		}
	}

	for _, extra := range extraModsString {
		if modifier.Active(extra.mod) {
			sb.WriteString(extra.code)
		}
	}

	return sb.String()
}

// ParseMods converts a string like "HDDT" or "hd,dt" into a Modifier
func ParseMods(mods string) (Modifier, error) {
	mods = strings.ToUpper(strings.NewReplacer(",", "", " ", "", "+", "").Replace(mods))

	if mods == "" || mods == "NM" {
		return None, nil
	}

	if len(mods)%2 != 0 {
		return None, fmt.Errorf("invalid mod string %q", mods)
	}

	var result Modifier

	for i := 0; i < len(mods); i += 2 {
		code := mods[i : i+2]

		mod, ok := lookupMod(code)
		if !ok {
			return None, fmt.Errorf("unknown mod %q", code)
		}

		result |= mod
	}

	if !result.Compatible() {
		return None, fmt.Errorf("incompatible mods %q", mods)
	}

	return result, nil
}

func lookupMod(code string) (Modifier, bool) {
	switch code {
	case "NC":
		return Nightcore | DoubleTime, true
	case "PF":
		return Perfect | SuddenDeath, true
	}

	for _, extra := range extraModsString {
		if extra.code == code {
			return extra.mod, true
		}
	}

	for i, v := range modsString {
		if v == code {
			return Modifier(1 << uint(i)), true
		}
	}

	return None, false
}

// GetDiffMaskedMods keeps only mods that change difficulty attributes
func GetDiffMaskedMods(mods Modifier) Modifier {
	masked := mods & DifficultyAdjustMask

	if masked.Active(Nightcore) {
		masked |= DoubleTime
	}

	return masked
}
