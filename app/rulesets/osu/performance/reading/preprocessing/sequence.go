package preprocessing

import (
	"github.com/Givikap120/pp-rework/app/beatmap/difficulty"
	"github.com/Givikap120/pp-rework/app/beatmap/objects"
)

// CreateDifficultyObjects builds the difficulty object sequence. The first hit object only serves as context,
// so the sequence is one element shorter than the input.
func CreateDifficultyObjects(hitObjects []objects.IHitObject, d *difficulty.Difficulty) []*DifficultyObject {
	if len(hitObjects) < 2 {
		return nil
	}

	prepared := make([]objects.IHitObject, len(hitObjects))

	for i, o := range hitObjects {
		if s, ok := o.(*objects.Slider); ok {
			prepared[i] = NewLazySlider(s, d.CircleRadiusU)
			continue
		}

		prepared[i] = o
	}

	diffObjects := make([]*DifficultyObject, 0, len(prepared)-1)

	for i := 1; i < len(prepared); i++ {
		var lastLast objects.IHitObject
		if i > 1 {
			lastLast = prepared[i-2]
		}

		diffObjects = append(diffObjects, NewDifficultyObject(prepared[i], lastLast, prepared[i-1], d, &diffObjects, len(diffObjects)))
	}

	return diffObjects
}
