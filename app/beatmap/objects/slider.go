package objects

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Ticks closer than this to the end of a span are not generated
const tickEndLeniency = 10.0

type NestedKind int

const (
	Head NestedKind = iota
	Tick
	Repeat
	Tail
)

type NestedObject struct {
	Kind     NestedKind
	Time     float64
	Position mgl64.Vec2
}

type Slider struct {
	HitObject

	// Path is a polyline relative to Position, starting at (0, 0)
	Path []mgl64.Vec2

	Spans        int
	SpanDuration float64

	// Nested holds the head, ticks, repeats and tail ordered by time
	Nested []NestedObject

	cumulative []float64
}

// NewSlider builds a slider and generates its nested objects from the tick interval.
// tickInterval <= 0 disables ticks.
func NewSlider(startTime float64, position mgl64.Vec2, path []mgl64.Vec2, spans int, spanDuration, tickInterval float64, newCombo bool) *Slider {
	slider := newSliderBase(startTime, position, path, spans, spanDuration, newCombo)
	slider.Nested = slider.generateNested(tickInterval)

	return slider
}

// NewSliderWithNested builds a slider with externally supplied nested objects
func NewSliderWithNested(startTime float64, position mgl64.Vec2, path []mgl64.Vec2, spans int, spanDuration float64, nested []NestedObject, newCombo bool) *Slider {
	slider := newSliderBase(startTime, position, path, spans, spanDuration, newCombo)

	slider.Nested = append([]NestedObject{{Kind: Head, Time: startTime, Position: position}}, nested...)

	sort.SliceStable(slider.Nested, func(i, j int) bool {
		return slider.Nested[i].Time < slider.Nested[j].Time
	})

	if slider.Nested[len(slider.Nested)-1].Kind != Tail {
		slider.Nested = append(slider.Nested, NestedObject{Kind: Tail, Time: slider.EndTime, Position: slider.GetEndPosition()})
	}

	return slider
}

func newSliderBase(startTime float64, position mgl64.Vec2, path []mgl64.Vec2, spans int, spanDuration float64, newCombo bool) *Slider {
	spans = max(spans, 1)

	if len(path) == 0 || path[0] != (mgl64.Vec2{}) {
		path = append([]mgl64.Vec2{{}}, path...)
	}

	slider := &Slider{
		HitObject: HitObject{
			StartTime: startTime,
			EndTime:   startTime + float64(spans)*spanDuration,
			Position:  position,
			NewCombo:  newCombo,
		},
		Path:         path,
		Spans:        spans,
		SpanDuration: spanDuration,
	}

	slider.cumulative = make([]float64, len(path))
	for i := 1; i < len(path); i++ {
		slider.cumulative[i] = slider.cumulative[i-1] + path[i].Sub(path[i-1]).Len()
	}

	return slider
}

func (s *Slider) generateNested(tickInterval float64) []NestedObject {
	nested := []NestedObject{{Kind: Head, Time: s.StartTime, Position: s.Position}}

	for span := 0; span < s.Spans; span++ {
		spanStart := s.StartTime + float64(span)*s.SpanDuration
		reversed := span%2 == 1

		if tickInterval > 0 && s.SpanDuration > 0 {
			for t := tickInterval; t < s.SpanDuration-tickEndLeniency; t += tickInterval {
				progress := t / s.SpanDuration
				if reversed {
					progress = 1 - progress
				}

				nested = append(nested, NestedObject{Kind: Tick, Time: spanStart + t, Position: s.Position.Add(s.PositionAt(progress))})
			}
		}

		if span < s.Spans-1 {
			progress := 1.0
			if reversed {
				progress = 0
			}

			nested = append(nested, NestedObject{Kind: Repeat, Time: spanStart + s.SpanDuration, Position: s.Position.Add(s.PositionAt(progress))})
		}
	}

	nested = append(nested, NestedObject{Kind: Tail, Time: s.EndTime, Position: s.GetEndPosition()})

	return nested
}

func (s *Slider) GetType() Type {
	return SliderType
}

// Length returns the length of a single span in osu!pixels
func (s *Slider) Length() float64 {
	return s.cumulative[len(s.cumulative)-1]
}

// PositionAt returns the position relative to the slider head at the given path progress (0..1)
func (s *Slider) PositionAt(progress float64) mgl64.Vec2 {
	if len(s.Path) == 1 || s.Length() == 0 {
		return s.Path[0]
	}

	target := max(0, min(1, progress)) * s.Length()

	i := sort.SearchFloat64s(s.cumulative, target)
	if i <= 0 {
		return s.Path[0]
	}

	if i >= len(s.cumulative) {
		return s.Path[len(s.Path)-1]
	}

	segment := s.cumulative[i] - s.cumulative[i-1]
	if segment == 0 {
		return s.Path[i]
	}

	t := (target - s.cumulative[i-1]) / segment

	return s.Path[i-1].Add(s.Path[i].Sub(s.Path[i-1]).Mul(t))
}

// PositionAtTime returns the absolute position of the slider ball at the given time
func (s *Slider) PositionAtTime(time float64) mgl64.Vec2 {
	if s.SpanDuration <= 0 {
		return s.Position
	}

	t := max(0, min(time, s.EndTime)-s.StartTime) / s.SpanDuration

	span := math.Floor(t)
	progress := t - span

	if span >= float64(s.Spans) {
		span = float64(s.Spans - 1)
		progress = 1
	}

	if int(span)%2 == 1 {
		progress = 1 - progress
	}

	return s.Position.Add(s.PositionAt(progress))
}

func (s *Slider) GetEndPosition() mgl64.Vec2 {
	if s.Spans%2 == 0 {
		return s.Position
	}

	return s.Position.Add(s.PositionAt(1))
}

// ScorePoints returns nested objects that award combo besides the head
func (s *Slider) ScorePoints() []NestedObject {
	return s.Nested[1:]
}
