package reading

import (
	"math"
	"testing"

	"github.com/Givikap120/pp-rework/app/beatmap/difficulty"
	"github.com/Givikap120/pp-rework/app/beatmap/objects"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/api"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/reading/skills"
	"github.com/go-gl/mathgl/mgl64"
)

func jumps(count int, interval, spacing float64) []objects.IHitObject {
	hitObjects := make([]objects.IHitObject, count)
	for i := range hitObjects {
		x := 100.0
		if i%2 == 1 {
			x += spacing
		}

		hitObjects[i] = objects.NewCircle(1000+float64(i)*interval, mgl64.Vec2{x, 200}, false)
	}

	return hitObjects
}

func newDiff(mods difficulty.Modifier) *difficulty.Difficulty {
	diff := difficulty.NewDifficulty(5, 4, 8, 9)
	diff.SetMods(mods)

	return diff
}

func calculate(hitObjects []objects.IHitObject, mods difficulty.Modifier) api.Attributes {
	return NewDifficultyCalculator().CalculateSingle(hitObjects, newDiff(mods))
}

func TestEmptyMap(t *testing.T) {
	calc := NewDifficultyCalculator()

	if attr := calc.CalculateSingle(nil, newDiff(difficulty.None)); attr != (api.Attributes{}) {
		t.Errorf("CalculateSingle(empty) = %+v, want zero attributes", attr)
	}

	if steps := calc.CalculateStep(nil, newDiff(difficulty.None)); len(steps) != 0 {
		t.Errorf("CalculateStep(empty) returned %d steps", len(steps))
	}

	if peaks := calc.CalculateStrainPeaks(nil, newDiff(difficulty.None)); len(peaks.Total) != 0 {
		t.Errorf("CalculateStrainPeaks(empty) returned %d sections", len(peaks.Total))
	}
}

func TestSingleObjectMap(t *testing.T) {
	attr := calculate(jumps(1, 0, 0), difficulty.None)

	if attr.Aim != 0 || attr.Speed != 0 || attr.ReadingDifficultyLowAR != 0 {
		t.Errorf("single object has skill difficulty: %+v", attr)
	}

	if attr.ObjectCount != 1 || attr.Circles != 1 || attr.MaxCombo != 1 {
		t.Errorf("unexpected counts: %+v", attr)
	}
}

func TestObjectCounts(t *testing.T) {
	slider := objects.NewSlider(1300, mgl64.Vec2{200, 200}, []mgl64.Vec2{{0, 0}, {150, 0}}, 2, 300, 100, false)

	hitObjects := []objects.IHitObject{
		objects.NewCircle(1000, mgl64.Vec2{100, 100}, true),
		slider,
		objects.NewCircle(2200, mgl64.Vec2{300, 300}, false),
		objects.NewSpinner(2600, 4000),
	}

	attr := calculate(hitObjects, difficulty.None)

	tests := []struct {
		name      string
		got, want int
	}{
		{"objects", attr.ObjectCount, 4},
		{"circles", attr.Circles, 2},
		{"sliders", attr.Sliders, 1},
		{"spinners", attr.Spinners, 1},
		{"max combo", attr.MaxCombo, 4 + len(slider.ScorePoints())},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, tt.got, tt.want)
		}
	}

	if attr.Total < 0 || math.IsNaN(attr.Total) {
		t.Errorf("Total = %f", attr.Total)
	}
}

func TestDisplayValues(t *testing.T) {
	tests := []struct {
		mods   difficulty.Modifier
		ar, od float64
	}{
		{difficulty.None, 9, 8},
		{difficulty.DoubleTime, 10.333333333333334, 9.777777777777779},
		{difficulty.HalfTime, 7.666666666666667, 6.222222222222222},
	}

	for _, tt := range tests {
		attr := calculate(jumps(10, 200, 150), tt.mods)

		if math.Abs(attr.ApproachRate-tt.ar) > 1e-9 || math.Abs(attr.OverallDifficulty-tt.od) > 1e-9 {
			t.Errorf("%s: AR %f OD %f, want AR %f OD %f", tt.mods, attr.ApproachRate, attr.OverallDifficulty, tt.ar, tt.od)
		}

		if attr.DrainRate != 5 {
			t.Errorf("%s: DrainRate = %f, want 5", tt.mods, attr.DrainRate)
		}
	}
}

func TestFasterMapIsHarder(t *testing.T) {
	fast := calculate(jumps(200, 150, 200), difficulty.None)
	slow := calculate(jumps(200, 300, 200), difficulty.None)

	if fast.Total <= slow.Total {
		t.Errorf("fast map %f stars, slow map %f stars", fast.Total, slow.Total)
	}

	if fast.Aim <= slow.Aim || fast.Speed <= slow.Speed {
		t.Errorf("fast aim/speed %f/%f, slow %f/%f", fast.Aim, fast.Speed, slow.Aim, slow.Speed)
	}
}

func TestModSpecificRatings(t *testing.T) {
	hitObjects := jumps(100, 200, 220)

	nomod := calculate(hitObjects, difficulty.None)
	if nomod.HiddenDifficulty != 0 || nomod.HiddenDifficultStrainCount != 0 {
		t.Errorf("hidden rating without HD: %f", nomod.HiddenDifficulty)
	}

	hidden := calculate(hitObjects, difficulty.Hidden)
	if hidden.HiddenDifficulty <= 0 {
		t.Errorf("hidden rating with HD = %f, want > 0", hidden.HiddenDifficulty)
	}

	if hidden.Total <= nomod.Total {
		t.Errorf("HD %f stars, NM %f stars", hidden.Total, nomod.Total)
	}

	relax := calculate(hitObjects, difficulty.Relax)
	if relax.Speed != 0 {
		t.Errorf("relax speed rating = %f, want 0", relax.Speed)
	}

	if math.Abs(relax.Aim-nomod.Aim*0.9) > 1e-12 {
		t.Errorf("relax aim = %f, want %f", relax.Aim, nomod.Aim*0.9)
	}
}

func TestStepEndsWithSingle(t *testing.T) {
	hitObjects := jumps(50, 180, 160)
	diff := newDiff(difficulty.Hidden)

	calc := NewDifficultyCalculator()

	steps := calc.CalculateStep(hitObjects, diff)
	if len(steps) != len(hitObjects) {
		t.Fatalf("got %d steps, want %d", len(steps), len(hitObjects))
	}

	for i, step := range steps {
		if step.ObjectCount != i+1 {
			t.Errorf("step %d has %d objects", i, step.ObjectCount)
		}
	}

	if single := calc.CalculateSingle(hitObjects, diff); steps[len(steps)-1] != single {
		t.Errorf("last step %+v differs from single %+v", steps[len(steps)-1], single)
	}
}

func TestStrainPeaks(t *testing.T) {
	hitObjects := jumps(40, 100, 200)

	peaks := NewDifficultyCalculator().CalculateStrainPeaks(hitObjects, newDiff(difficulty.None))

	if len(peaks.Aim) == 0 || len(peaks.Total) != len(peaks.Aim) {
		t.Fatalf("got %d aim peaks and %d totals", len(peaks.Aim), len(peaks.Total))
	}

	for i, total := range peaks.Total {
		if total < 0 || math.IsNaN(total) {
			t.Errorf("section %d total = %f", i, total)
		}
	}
}

func fullCombo(attr api.Attributes, mods difficulty.Modifier, countMiss int) api.Score {
	return api.FullComboScore(attr, mods, 0, 0, countMiss)
}

func TestPerformanceFullCombo(t *testing.T) {
	attr := calculate(jumps(300, 160, 220), difficulty.Hidden)

	result := NewPPCalculator().Calculate(attr, fullCombo(attr, difficulty.Hidden, 0))

	if result.Total <= 0 || result.Aim <= 0 || result.Speed <= 0 || result.Acc <= 0 {
		t.Errorf("unexpected results %+v", result)
	}

	if result.EffectiveMissCount != 0 {
		t.Errorf("EffectiveMissCount = %f, want 0", result.EffectiveMissCount)
	}
}

func TestPerformanceDecreasesWithMisses(t *testing.T) {
	attr := calculate(jumps(300, 160, 220), difficulty.None)
	calc := NewPPCalculator()

	previous := math.Inf(1)

	for misses := 0; misses <= 5; misses++ {
		total := calc.Calculate(attr, fullCombo(attr, difficulty.None, misses)).Total

		if total >= previous {
			t.Errorf("%d misses: %f pp, not below %f", misses, total, previous)
		}

		previous = total
	}
}

func TestMissPenalty(t *testing.T) {
	previous := 1.0

	for misses := 1.0; misses <= 10; misses++ {
		penalty := calculateMissPenalty(misses, 25)

		if penalty >= previous || penalty <= 0 {
			t.Errorf("penalty for %v misses = %f, previous %f", misses, penalty, previous)
		}

		previous = penalty
	}

	if penalty := calculateMissPenalty(1, 0.5); penalty != 0 || math.IsNaN(penalty) {
		t.Errorf("penalty with no difficult strains = %f, want 0", penalty)
	}
}

func TestAllMissScore(t *testing.T) {
	attr := calculate(jumps(300, 160, 220), difficulty.None)

	score := api.Score{
		CountMiss: attr.ObjectCount,
		Accuracy:  0,
		MaxCombo:  0,
	}

	result := NewPPCalculator().Calculate(attr, score)

	tests := []struct {
		name  string
		value float64
	}{
		{"aim", result.Aim},
		{"speed", result.Speed},
		{"accuracy", result.Acc},
		{"reading", result.Reading},
		{"total", result.Total},
	}

	for _, tt := range tests {
		if tt.value != 0 {
			t.Errorf("%s = %f, want 0", tt.name, tt.value)
		}
	}
}

func TestComboAboveMaxIsClamped(t *testing.T) {
	attr := calculate(jumps(100, 160, 220), difficulty.None)
	calc := NewPPCalculator()

	score := fullCombo(attr, difficulty.None, 0)
	expected := calc.Calculate(attr, score).Total

	score.MaxCombo = attr.MaxCombo * 3

	if got := calc.Calculate(attr, score).Total; got != expected {
		t.Errorf("combo above max gives %f pp, want %f", got, expected)
	}
}

func TestRelaxPerformance(t *testing.T) {
	attr := calculate(jumps(100, 160, 220), difficulty.Relax)

	result := NewPPCalculator().Calculate(attr, fullCombo(attr, difficulty.Relax, 0))
	if result.Speed != 0 || result.Acc != 0 {
		t.Errorf("relax speed %f acc %f, want 0", result.Speed, result.Acc)
	}
}

func TestAdjustCognitionPerformance(t *testing.T) {
	tests := []struct {
		cognition, mechanical, flashlight float64
	}{
		{0, 100, 0},
		{10, 100, 0},
		{200, 100, 0},
		{500, 300, 50},
		{44 * 425, 400, 0},
		{1e6, 100, 0},
	}

	for _, tt := range tests {
		capPerformance := tt.mechanical + tt.flashlight + 25
		got := AdjustCognitionPerformance(tt.cognition, tt.mechanical, tt.flashlight)

		if math.IsNaN(got) || got < 0 {
			t.Errorf("AdjustCognitionPerformance(%v, %v, %v) = %f", tt.cognition, tt.mechanical, tt.flashlight, got)
			continue
		}

		if got > min(tt.cognition, capPerformance)+1e-9 {
			t.Errorf("AdjustCognitionPerformance(%v, %v, %v) = %f, above min(%v, %v)", tt.cognition, tt.mechanical, tt.flashlight, got, tt.cognition, capPerformance)
		}
	}

	if got := AdjustCognitionPerformance(44*425, 400, 0); math.Abs(got-425) > 1e-6 {
		t.Errorf("large ratio = %f, want 425", got)
	}
}

func TestSkillValues(t *testing.T) {
	attr := api.Attributes{
		Aim:          3,
		Speed:        2.5,
		SliderFactor: 0.9,
		ApproachRate: 10.5,
		Circles:      400,
		Sliders:      200,
	}

	values := SkillValues(attr, difficulty.Hidden)
	if len(values) != 7 {
		t.Fatalf("got %d skill values, want 7", len(values))
	}

	for _, v := range values {
		if v.Value < 0 || math.IsNaN(v.Value) {
			t.Errorf("%s = %f", v.Name, v.Value)
		}
	}

	mechanical := skills.DifficultyToPerformance(attr.Aim) + skills.DifficultyToPerformance(attr.Speed)
	if sum := values[0].Value + values[1].Value + values[2].Value; math.Abs(sum-mechanical) > 1e-9 {
		t.Errorf("slider aim + aim + speed = %f, want %f", sum, mechanical)
	}

	if empty := SkillValues(api.Attributes{}, difficulty.None); empty[0].Value != 0 {
		t.Errorf("slider aim of empty attributes = %f", empty[0].Value)
	}
}

func TestBlindsPerformance(t *testing.T) {
	attr := calculate(jumps(300, 160, 220), difficulty.None)
	calc := NewPPCalculator()

	plain := calc.Calculate(attr, fullCombo(attr, difficulty.None, 0))
	blinds := calc.Calculate(attr, fullCombo(attr, difficulty.Blinds, 0))

	// Full combo of circles: accuracy and miss terms vanish
	aimBonus := 1.3 + 300*0.0016*(1-0.003*attr.DrainRate*attr.DrainRate)

	if math.Abs(blinds.Aim/plain.Aim-aimBonus) > 1e-9 {
		t.Errorf("blinds aim ratio = %f, want %f", blinds.Aim/plain.Aim, aimBonus)
	}

	if math.Abs(blinds.Speed/plain.Speed-1.12) > 1e-9 {
		t.Errorf("blinds speed ratio = %f, want 1.12", blinds.Speed/plain.Speed)
	}

	if math.Abs(blinds.Acc/plain.Acc-1.14) > 1e-9 {
		t.Errorf("blinds accuracy ratio = %f, want 1.14", blinds.Acc/plain.Acc)
	}

	// Misses shrink the object count part of the aim bonus
	missed := calc.Calculate(attr, fullCombo(attr, difficulty.Blinds, 3))
	plainMissed := calc.Calculate(attr, fullCombo(attr, difficulty.None, 3))

	if missed.Aim/plainMissed.Aim >= aimBonus {
		t.Errorf("blinds aim ratio with misses = %f, want below %f", missed.Aim/plainMissed.Aim, aimBonus)
	}
}

func TestTraceablePerformance(t *testing.T) {
	attr := calculate(jumps(300, 160, 220), difficulty.None)
	calc := NewPPCalculator()

	plain := calc.Calculate(attr, fullCombo(attr, difficulty.None, 0))
	traceable := calc.Calculate(attr, fullCombo(attr, difficulty.Traceable, 0))
	hidden := calc.Calculate(attr, fullCombo(attr, difficulty.Hidden, 0))

	bonus := 1 + 0.04*(12-attr.ApproachRate)

	if math.Abs(traceable.Aim/plain.Aim-bonus) > 1e-9 {
		t.Errorf("traceable aim ratio = %f, want %f", traceable.Aim/plain.Aim, bonus)
	}

	if math.Abs(traceable.Speed/plain.Speed-bonus) > 1e-9 {
		t.Errorf("traceable speed ratio = %f, want %f", traceable.Speed/plain.Speed, bonus)
	}

	if math.Abs(traceable.Acc-hidden.Acc) > 1e-9 || traceable.Acc <= plain.Acc {
		t.Errorf("traceable accuracy = %f, want hidden %f above %f", traceable.Acc, hidden.Acc, plain.Acc)
	}

	// Blinds takes precedence
	both := calc.Calculate(attr, fullCombo(attr, difficulty.Blinds|difficulty.Traceable, 0))
	if math.Abs(both.Speed/plain.Speed-1.12) > 1e-9 {
		t.Errorf("blinds + traceable speed ratio = %f, want 1.12", both.Speed/plain.Speed)
	}
}

func TestSkillValuesVisibilityMods(t *testing.T) {
	attr := api.Attributes{
		Aim:          3,
		Speed:        2.5,
		Flashlight:   1,
		SliderFactor: 0.9,
		ApproachRate: 9,
		DrainRate:    5,
		Circles:      400,
		Sliders:      200,
	}

	aim := skills.DifficultyToPerformance(attr.Aim)
	speed := skills.DifficultyToPerformance(attr.Speed)

	hidden := SkillValues(attr, difficulty.Hidden)
	traceable := SkillValues(attr, difficulty.Traceable)

	if hidden[5].Name != "Hidden" || traceable[5].Name != "Traceable" {
		t.Errorf("names = %q, %q", hidden[5].Name, traceable[5].Name)
	}

	wantHidden := (aim + speed) * 0.04 * (12 - attr.ApproachRate)
	if math.Abs(traceable[5].Value-wantHidden) > 1e-9 || math.Abs(hidden[5].Value-wantHidden) > 1e-9 {
		t.Errorf("hidden %f traceable %f, want %f", hidden[5].Value, traceable[5].Value, wantHidden)
	}

	blinds := SkillValues(attr, difficulty.Blinds|difficulty.Hidden)
	if blinds[6].Name != "Blinds" {
		t.Errorf("memory skill name = %q, want Blinds", blinds[6].Name)
	}

	if blinds[5].Value != 0 {
		t.Errorf("hidden value with blinds = %f, want 0", blinds[5].Value)
	}

	blindsAim := 0.3 + 600*0.0016*(1-0.003*attr.DrainRate*attr.DrainRate)
	wantMemory := max(skills.FlashlightDifficultyToPerformance(attr.Flashlight), aim*blindsAim+speed*0.16)

	if math.Abs(blinds[6].Value-wantMemory) > 1e-9 {
		t.Errorf("blinds = %f, want %f", blinds[6].Value, wantMemory)
	}

	if plain := SkillValues(attr, difficulty.None); plain[6].Name != "Flashlight" || plain[6].Value != skills.FlashlightDifficultyToPerformance(attr.Flashlight) {
		t.Errorf("flashlight = %s %f", plain[6].Name, plain[6].Value)
	}
}

func TestPerformanceFromStoredAttributes(t *testing.T) {
	calc := NewPPCalculator()

	for _, mods := range []difficulty.Modifier{difficulty.None, difficulty.Hidden, difficulty.HardRock | difficulty.Flashlight} {
		attr := calculate(jumps(300, 160, 220), mods)
		stored := api.FromDatabaseAttributes(api.ToDatabaseAttributes(attr))

		if stored.Flashlight != attr.Flashlight {
			t.Errorf("%v: stored flashlight = %f, want %f", mods, stored.Flashlight, attr.Flashlight)
		}

		fresh := calc.Calculate(attr, fullCombo(attr, mods, 1))
		restored := calc.Calculate(stored, fullCombo(stored, mods, 1))

		if fresh != restored {
			t.Errorf("%v: pp from stored attributes = %+v, want %+v", mods, restored, fresh)
		}
	}
}
