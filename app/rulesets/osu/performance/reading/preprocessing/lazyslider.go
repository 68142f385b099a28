package preprocessing

import (
	"math"

	"github.com/Givikap120/pp-rework/app/beatmap/objects"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	assumedSliderRadius = NormalizedRadius * 1.8
	maximumSliderRadius = NormalizedRadius * 2.4

	// tailLeniency is how early the player may stop tracking before the slider tail
	tailLeniency = -36.0
)

// LazySlider is a slider with the cursor path a lazy player would take precomputed.
// Distances are in normalized units (radius 50), times are not rate adjusted.
type LazySlider struct {
	*objects.Slider

	LazyEndPosition    mgl64.Vec2
	LazyTravelDistance float64
	LazyTravelTime     float64
}

func NewLazySlider(slider *objects.Slider, radius float64) *LazySlider {
	lazy := &LazySlider{Slider: slider}
	lazy.computeCursorPosition(radius)

	return lazy
}

func (s *LazySlider) computeCursorPosition(radius float64) {
	trackingEndTime := max(s.EndTime+tailLeniency, s.StartTime+s.GetDuration()/2)

	nested := s.Nested

	lastTick := -1
	for i, n := range nested {
		if n.Kind == objects.Tick {
			lastTick = i
		}
	}

	// The last tick may fall after the tracking end time, in that case it's moved to the end to be tracked last
	if lastTick >= 0 && nested[lastTick].Time > trackingEndTime {
		trackingEndTime = nested[lastTick].Time

		reordered := make([]objects.NestedObject, 0, len(nested))
		reordered = append(reordered, nested[:lastTick]...)
		reordered = append(reordered, nested[lastTick+1:]...)
		reordered = append(reordered, nested[lastTick])

		nested = reordered
	}

	s.LazyTravelTime = trackingEndTime - s.StartTime

	endTimeMin := 0.0
	if s.SpanDuration > 0 {
		endTimeMin = s.LazyTravelTime / s.SpanDuration
	}

	if math.Mod(endTimeMin, 2) >= 1 {
		endTimeMin = 1 - math.Mod(endTimeMin, 1)
	} else {
		endTimeMin = math.Mod(endTimeMin, 1)
	}

	// Temporary until the real lazy end is derived below
	s.LazyEndPosition = s.Position.Add(s.PositionAt(endTimeMin))

	cursorPosition := s.Position
	scalingFactor := NormalizedRadius / radius

	for i := 1; i < len(nested); i++ {
		current := nested[i]

		movement := current.Position.Sub(cursorPosition)
		movementLength := scalingFactor * movement.Len()

		requiredMovement := assumedSliderRadius

		if i == len(nested)-1 {
			// Lazy end may be farther away than the real end on circular sliders, take the shorter movement
			lazyMovement := s.LazyEndPosition.Sub(cursorPosition)

			if lazyMovement.Len() < movement.Len() {
				movement = lazyMovement
			}

			movementLength = scalingFactor * movement.Len()
		} else if current.Kind == objects.Repeat {
			requiredMovement = NormalizedRadius
		}

		if movementLength > requiredMovement {
			cursorPosition = cursorPosition.Add(movement.Mul((movementLength - requiredMovement) / movementLength))
			movementLength *= (movementLength - requiredMovement) / movementLength
			s.LazyTravelDistance += movementLength
		}

		if i == len(nested)-1 {
			s.LazyEndPosition = cursorPosition
		}
	}
}
