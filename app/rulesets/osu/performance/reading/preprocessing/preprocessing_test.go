package preprocessing

import (
	"math"
	"testing"

	"github.com/Givikap120/pp-rework/app/beatmap/difficulty"
	"github.com/Givikap120/pp-rework/app/beatmap/objects"
	"github.com/go-gl/mathgl/mgl64"
)

func circles(times []float64, positions []mgl64.Vec2) []objects.IHitObject {
	hitObjects := make([]objects.IHitObject, len(times))
	for i, t := range times {
		hitObjects[i] = objects.NewCircle(t, positions[i], false)
	}

	return hitObjects
}

func TestCreateDifficultyObjects(t *testing.T) {
	diff := difficulty.NewDifficulty(5, 4, 8, 9)

	tests := []struct {
		name     string
		count    int
		expected int
	}{
		{"empty", 0, 0},
		{"single", 1, 0},
		{"pair", 2, 1},
		{"many", 10, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			times := make([]float64, tt.count)
			positions := make([]mgl64.Vec2, tt.count)

			for i := range times {
				times[i] = float64(i) * 200
				positions[i] = mgl64.Vec2{float64(i) * 50, 100}
			}

			if got := len(CreateDifficultyObjects(circles(times, positions), diff)); got != tt.expected {
				t.Errorf("len = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestNeighbours(t *testing.T) {
	diff := difficulty.NewDifficulty(5, 4, 8, 9)

	objs := CreateDifficultyObjects(circles(
		[]float64{0, 100, 200, 300},
		[]mgl64.Vec2{{0, 0}, {100, 0}, {200, 0}, {300, 0}},
	), diff)

	if objs[0].Previous(0) != nil {
		t.Error("first object has a predecessor")
	}

	if objs[2].Next(0) != nil {
		t.Error("last object has a successor")
	}

	if objs[2].Previous(1) != objs[0] || objs[0].Next(1) != objs[2] {
		t.Error("neighbour lookup returned wrong objects")
	}

	if objs[0].Previous(-5) != nil || objs[0].Next(100) != nil {
		t.Error("out of range lookups must return nil")
	}
}

func TestTimingAndAngles(t *testing.T) {
	diff := difficulty.NewDifficulty(5, 4, 8, 9)
	diff.SetMods(difficulty.DoubleTime)

	objs := CreateDifficultyObjects(circles(
		[]float64{0, 15, 315, 615},
		[]mgl64.Vec2{{0, 0}, {100, 0}, {100, 100}, {0, 100}},
	), diff)

	if objs[0].DeltaTime != 10 || objs[0].StrainTime != MinDeltaTime {
		t.Errorf("DeltaTime = %v, StrainTime = %v", objs[0].DeltaTime, objs[0].StrainTime)
	}

	if objs[1].StrainTime != 200 {
		t.Errorf("StrainTime = %v, want 200", objs[1].StrainTime)
	}

	if !math.IsNaN(objs[0].Angle) {
		t.Errorf("angle of first transition = %v, want NaN", objs[0].Angle)
	}

	if math.Abs(objs[1].Angle-math.Pi/2) > 1e-9 {
		t.Errorf("angle = %v, want pi/2", objs[1].Angle)
	}

	if objs[1].Movement.Len() != 100 {
		t.Errorf("movement = %v, want 100", objs[1].Movement.Len())
	}

	if objs[0].Preempt != diff.PreemptU/1.5 || objs[0].GreatWindow != 2*diff.Hit300U/1.5 {
		t.Error("timing windows are not rate adjusted")
	}
}

func TestSpinnerBreaksAngles(t *testing.T) {
	diff := difficulty.NewDifficulty(5, 4, 8, 9)

	hitObjects := []objects.IHitObject{
		objects.NewCircle(0, mgl64.Vec2{0, 0}, false),
		objects.NewSpinner(200, 1000),
		objects.NewCircle(1200, mgl64.Vec2{100, 0}, false),
		objects.NewCircle(1400, mgl64.Vec2{200, 100}, false),
	}

	objs := CreateDifficultyObjects(hitObjects, diff)

	if !objs[0].IsSpinner {
		t.Error("spinner not detected")
	}

	if objs[1].LazyJumpDistance != 0 || !math.IsNaN(objs[1].Angle) {
		t.Errorf("object after spinner has distance %v and angle %v", objs[1].LazyJumpDistance, objs[1].Angle)
	}

	if !math.IsNaN(objs[2].Angle) {
		t.Errorf("angle across spinner = %v, want NaN", objs[2].Angle)
	}
}

func TestLazySlider(t *testing.T) {
	diff := difficulty.NewDifficulty(5, 4, 8, 9)

	slider := objects.NewSlider(0, mgl64.Vec2{100, 100}, []mgl64.Vec2{{0, 0}, {300, 0}}, 1, 600, 150, false)
	lazy := NewLazySlider(slider, diff.CircleRadiusU)

	if lazy.LazyTravelTime != 564 {
		t.Errorf("LazyTravelTime = %v, want 564", lazy.LazyTravelTime)
	}

	if lazy.LazyTravelDistance <= 0 {
		t.Errorf("LazyTravelDistance = %v, want positive", lazy.LazyTravelDistance)
	}

	if lazy.LazyEndPosition[0] >= 400 || lazy.LazyEndPosition[0] <= 100 {
		t.Errorf("LazyEndPosition = %v, expected between head and tail", lazy.LazyEndPosition)
	}

	short := NewLazySlider(objects.NewSlider(0, mgl64.Vec2{}, []mgl64.Vec2{{0, 0}, {10, 0}}, 1, 200, 0, false), diff.CircleRadiusU)
	if short.LazyTravelDistance != 0 {
		t.Errorf("short slider travel = %v, want 0", short.LazyTravelDistance)
	}
}

func TestSliderSubObjects(t *testing.T) {
	diff := difficulty.NewDifficulty(5, 4, 8, 9)

	hitObjects := []objects.IHitObject{
		objects.NewCircle(0, mgl64.Vec2{0, 0}, false),
		objects.NewSlider(500, mgl64.Vec2{100, 100}, []mgl64.Vec2{{0, 0}, {200, 0}}, 2, 400, 200, false),
		objects.NewCircle(1600, mgl64.Vec2{100, 300}, false),
	}

	objs := CreateDifficultyObjects(hitObjects, diff)

	if !objs[0].IsSlider {
		t.Fatal("slider not detected")
	}

	// head, tick, repeat, tick, tail
	if len(objs[0].SliderSubObjects) != 4 {
		t.Fatalf("len(SliderSubObjects) = %d, want 4", len(objs[0].SliderSubObjects))
	}

	if objs[0].TravelDistance <= 0 || objs[0].TravelTime <= 0 {
		t.Errorf("travel = %v over %v", objs[0].TravelDistance, objs[0].TravelTime)
	}

	if objs[1].MinimumJumpTime >= objs[1].StrainTime {
		t.Errorf("MinimumJumpTime = %v should be shorter than StrainTime %v", objs[1].MinimumJumpTime, objs[1].StrainTime)
	}
}

func TestOpacity(t *testing.T) {
	diff := difficulty.NewDifficulty(5, 4, 8, 5)

	objs := CreateDifficultyObjects(circles([]float64{0, 2000}, []mgl64.Vec2{{0, 0}, {0, 0}}), diff)
	obj := objs[0]

	tests := []struct {
		time     float64
		hidden   bool
		expected float64
	}{
		{2000 - 1200, false, 0},
		{2000 - 1000, false, 0.5},
		{2000 - 100, false, 1},
		{2001, false, 0},
		{2000 - 800, true, 1},
		{2000, true, 0},
	}

	for _, tt := range tests {
		if got := obj.OpacityAt(tt.time, tt.hidden); math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("OpacityAt(%v, %v) = %v, want %v", tt.time, tt.hidden, got, tt.expected)
		}
	}
}

func TestDoubletapness(t *testing.T) {
	diff := difficulty.NewDifficulty(5, 4, 8, 9)

	objs := CreateDifficultyObjects(circles(
		[]float64{0, 100, 110, 210},
		[]mgl64.Vec2{{0, 0}, {0, 0}, {0, 0}, {0, 0}},
	), diff)

	if got := objs[2].GetDoubletapness(nil); got != 0 {
		t.Errorf("doubletapness without next = %v", got)
	}

	if got := objs[1].GetDoubletapness(objs[2]); got <= 0.5 {
		t.Errorf("doubletapness of 10ms then 100ms = %v, want above 0.5", got)
	}
}
