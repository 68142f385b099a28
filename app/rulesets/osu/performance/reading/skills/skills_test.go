package skills

import (
	"math"
	"testing"

	"github.com/Givikap120/pp-rework/app/beatmap/difficulty"
	"github.com/Givikap120/pp-rework/app/beatmap/objects"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/reading/preprocessing"
	"github.com/go-gl/mathgl/mgl64"
)

func jumps(count int, interval, spacing float64) []objects.IHitObject {
	hitObjects := make([]objects.IHitObject, count)
	for i := range hitObjects {
		x := 100.0
		if i%2 == 1 {
			x += spacing
		}

		hitObjects[i] = objects.NewCircle(float64(i)*interval, mgl64.Vec2{x, 200}, false)
	}

	return hitObjects
}

func allSkills() map[string]Skill {
	return map[string]Skill{
		"aim":        NewAimSkill(true),
		"speed":      NewSpeedSkill(),
		"flashlight": NewFlashlightSkill(false),
		"lowAR":      NewReadingLowAR(),
		"highAR":     NewReadingHighAR(),
		"hidden":     NewReadingHidden(),
	}
}

func process(skill Skill, hitObjects []objects.IHitObject, ar float64) {
	diff := difficulty.NewDifficulty(5, 4, 8, ar)

	for _, obj := range preprocessing.CreateDifficultyObjects(hitObjects, diff) {
		skill.Process(obj)
	}
}

func TestEmptySkills(t *testing.T) {
	for name, skill := range allSkills() {
		if got := skill.DifficultyValue(); got != 0 {
			t.Errorf("%s: DifficultyValue = %f, want 0", name, got)
		}

		if peaks := skill.GetCurrentStrainPeaks(); len(peaks) != 0 {
			t.Errorf("%s: %d peaks without objects", name, len(peaks))
		}
	}
}

func TestSingleObject(t *testing.T) {
	tests := []struct {
		name  string
		skill Skill
	}{
		{"aim", NewAimSkill(true)},
		{"speed", NewSpeedSkill()},
		{"flashlight", NewFlashlightSkill(true)},
		{"lowAR", NewReadingLowAR()},
		{"hidden", NewReadingHidden()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			process(tt.skill, jumps(2, 300, 200), 9)

			if got := tt.skill.DifficultyValue(); got != 0 {
				t.Errorf("DifficultyValue = %f, want 0", got)
			}

			if got := len(tt.skill.GetCurrentStrainPeaks()); got != 1 {
				t.Errorf("len(peaks) = %d, want 1", got)
			}
		})
	}
}

func TestSectionCount(t *testing.T) {
	tests := []struct {
		count    int
		interval float64
		expected int
	}{
		{11, 100, 3},  // 100..1000
		{5, 100, 1},   // 100..400
		{6, 100, 2},   // 100..500
		{3, 1000, 3},  // 1000, 2000
		{41, 100, 10}, // 100..4000
	}

	for _, tt := range tests {
		for name, skill := range allSkills() {
			process(skill, jumps(tt.count, tt.interval, 150), 9)

			if got := len(skill.GetCurrentStrainPeaks()); got != tt.expected {
				t.Errorf("%s with %d objects every %.0fms: %d peaks, want %d", name, tt.count, tt.interval, got, tt.expected)
			}
		}
	}
}

func TestPeaksAreCopies(t *testing.T) {
	skill := NewSpeedSkill()
	diff := difficulty.NewDifficulty(5, 4, 8, 9)
	objs := preprocessing.CreateDifficultyObjects(jumps(20, 100, 50), diff)

	for _, obj := range objs[:10] {
		skill.Process(obj)
	}

	first := skill.GetCurrentStrainPeaks()
	for i := range first {
		first[i] = -1
	}

	second := skill.GetCurrentStrainPeaks()
	if len(first) != len(second) {
		t.Fatalf("peak count changed between calls: %d vs %d", len(first), len(second))
	}

	for _, p := range second {
		if p < 0 {
			t.Fatal("peaks share memory with the skill")
		}
	}

	for _, obj := range objs[10:] {
		skill.Process(obj)
	}

	if got := len(skill.GetCurrentStrainPeaks()); got <= len(second) {
		t.Errorf("processing after reading peaks gave %d peaks, want more than %d", got, len(second))
	}
}

func TestStrainsNeverNegative(t *testing.T) {
	hitObjects := jumps(60, 120, 250)
	hitObjects[30] = objects.NewSpinner(3600, 4000)

	for name, skill := range allSkills() {
		process(skill, hitObjects, 9)

		for i, p := range skill.GetCurrentStrainPeaks() {
			if p < 0 || math.IsNaN(p) {
				t.Errorf("%s: peak %d = %f", name, i, p)
			}
		}

		if v := skill.DifficultyValue(); v < 0 || math.IsNaN(v) {
			t.Errorf("%s: DifficultyValue = %f", name, v)
		}
	}
}

func TestAimSkill(t *testing.T) {
	near := NewAimSkill(true)
	far := NewAimSkill(true)

	process(near, jumps(40, 150, 100), 9)
	process(far, jumps(40, 150, 300), 9)

	if far.DifficultyValue() <= near.DifficultyValue() {
		t.Error("wider jumps must give more aim difficulty")
	}

	if got := len(far.GetSnapStrainPeaks()); got != len(far.GetCurrentStrainPeaks()) {
		t.Errorf("snap lane has %d peaks, total lane %d", got, len(far.GetCurrentStrainPeaks()))
	}

	if far.DifficultStrainCount() <= 0 {
		t.Error("expected difficult strains on a jump map")
	}
}

func TestSpeedSkill(t *testing.T) {
	skill := NewSpeedSkill()
	process(skill, jumps(50, 100, 30), 9)

	if skill.DifficultyValue() <= 0 {
		t.Error("stream must have speed difficulty")
	}

	if count := skill.RelevantNoteCount(); count <= 0 || count > 49 {
		t.Errorf("RelevantNoteCount = %f, want within (0, 49]", count)
	}

	if got := NewSpeedSkill().RelevantNoteCount(); got != 0 {
		t.Errorf("RelevantNoteCount without objects = %f, want 0", got)
	}
}

func TestReadingHighAR(t *testing.T) {
	low := NewReadingHighAR()
	high := NewReadingHighAR()

	process(low, jumps(40, 150, 250), 8)
	process(high, jumps(40, 150, 250), 10.5)

	if high.DifficultyValue() <= low.DifficultyValue() {
		t.Error("higher AR must be harder to read")
	}
}

func TestStrainDecay(t *testing.T) {
	// A short burst followed by a long break: every section of the break starts from a further decayed strain
	hitObjects := jumps(5, 100, 220)
	hitObjects = append(hitObjects, objects.NewCircle(2400, mgl64.Vec2{100, 200}, false))

	for _, skill := range []struct {
		name  string
		skill Skill
	}{
		{"speed", NewSpeedSkill()},
		{"flashlight", NewFlashlightSkill(false)},
	} {
		process(skill.skill, hitObjects, 9)

		peaks := skill.skill.GetCurrentStrainPeaks()
		if len(peaks) < 5 {
			t.Fatalf("%s: got %d peaks, want a section for every 400ms of the break", skill.name, len(peaks))
		}

		// First is the burst, last holds the object after the break
		gap := peaks[1 : len(peaks)-1]

		if gap[0] <= 0 {
			t.Fatalf("%s: no strain after the burst", skill.name)
		}

		for i := 1; i < len(gap); i++ {
			if gap[i] >= gap[i-1] {
				t.Errorf("%s: peak %d = %f, not below %f", skill.name, i+1, gap[i], gap[i-1])
			}
		}
	}
}

func TestDifficultyValueFollowsProcessing(t *testing.T) {
	skill := NewSpeedSkill()
	diff := difficulty.NewDifficulty(5, 4, 8, 9)

	previous := 0.0

	for _, obj := range preprocessing.CreateDifficultyObjects(jumps(20, 100, 20), diff) {
		skill.Process(obj)

		value := skill.DifficultyValue()
		if value != skill.DifficultyValue() {
			t.Fatalf("DifficultyValue changed without processing at object %d", obj.Index)
		}

		if value < previous {
			t.Errorf("DifficultyValue after object %d = %f, below %f", obj.Index, value, previous)
		}

		previous = value
	}

	if count := skill.DifficultStrainCount(); count != CountTopWeightedStrains(skill.objectStrains, previous) {
		t.Errorf("DifficultStrainCount = %f, want count at difficulty %f", count, previous)
	}
}

func TestSummation(t *testing.T) {
	tests := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"geometric", GeometricSummation([]float64{1, 3, 2, 0, -1}, 0.5, NoSpikeNerf), 4.25},
		{"harmonic single", HarmonicSummation([]float64{5}, NoSpikeNerf), 5},
		{"harmonic nerfed single", HarmonicSummation([]float64{1}, SpikeNerf{SectionCount: 10, Baseline: 0.75}), 0.75},
		{"geometric nerfed single", GeometricSummation([]float64{2}, 0.9, SpikeNerf{SectionCount: 5, Baseline: 0.7}), 1.4},
		{"plain", PlainSummation([]float64{1, 2, 3, -4}), 6},
		{"empty", HarmonicSummation(nil, NoSpikeNerf), 0},
		{"count empty", CountTopWeightedStrains(nil, 10), 0},
		{"count no difficulty", CountTopWeightedStrains([]float64{1, 2}, 0), 0},
	}

	for _, tt := range tests {
		if math.Abs(tt.got-tt.expected) > 1e-9 {
			t.Errorf("%s = %f, want %f", tt.name, tt.got, tt.expected)
		}
	}
}

func TestHarmonicSumGrows(t *testing.T) {
	strains := make([]float64, 50)
	for i := range strains {
		strains[i] = 1
	}

	prev := 0.0
	for n := 1; n <= len(strains); n++ {
		sum := HarmonicSummation(strains[:n], NoSpikeNerf)
		if sum <= prev {
			t.Fatalf("sum of %d strains = %f, not above %f", n, sum, prev)
		}

		prev = sum
	}
}

func TestPerformanceCurves(t *testing.T) {
	for _, p := range []float64{0.5, 10, 100, 750} {
		if got := DifficultyToPerformance(PerformanceToDifficulty(p)); math.Abs(got-p) > 1e-6*p {
			t.Errorf("round trip of %f = %f", p, got)
		}
	}

	if got := DifficultyToPerformance(0); got != 1e-5 {
		t.Errorf("DifficultyToPerformance(0) = %g, want 1e-5", got)
	}

	curves := map[string]func(float64) float64{
		"default":    DifficultyToPerformance,
		"flashlight": FlashlightDifficultyToPerformance,
		"lowAR":      LowARDifficultyToPerformance,
		"hidden":     HiddenDifficultyToPerformance,
	}

	for name, curve := range curves {
		if curve(2) <= curve(1) {
			t.Errorf("%s curve is not increasing", name)
		}
	}

	if got := DefaultLengthBonus(2000); math.Abs(got-1.35) > 1e-9 {
		t.Errorf("DefaultLengthBonus(2000) = %f, want 1.35", got)
	}

	if DefaultLengthBonus(4000) <= DefaultLengthBonus(2000) {
		t.Error("length bonus must keep growing past 2000 objects")
	}
}
