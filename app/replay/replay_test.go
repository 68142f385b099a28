package replay

import (
	"math"
	"testing"

	"github.com/Givikap120/pp-rework/app/beatmap/difficulty"
	"github.com/wieku/rplpa"
)

func TestScoreFromReplay(t *testing.T) {
	tests := []struct {
		name     string
		replay   rplpa.Replay
		mods     difficulty.Modifier
		accuracy float64
		total    int
	}{
		{
			name:     "SS",
			replay:   rplpa.Replay{Count300: 500, MaxCombo: 700, Mods: 8 | 64},
			mods:     difficulty.Hidden | difficulty.DoubleTime,
			accuracy: 1,
			total:    500,
		},
		{
			name:     "misses",
			replay:   rplpa.Replay{Count300: 90, Count100: 6, Count50: 2, CountMiss: 2, CountGeki: 20, CountKatu: 3, MaxCombo: 80},
			mods:     difficulty.None,
			accuracy: float64(300*90+100*6+50*2) / float64(300*100),
			total:    100,
		},
	}

	for _, tt := range tests {
		score := scoreFromReplay(&tt.replay)

		if score.Mods != tt.mods {
			t.Errorf("%s: mods %s, want %s", tt.name, score.Mods, tt.mods)
		}

		if math.Abs(score.Accuracy-tt.accuracy) > 1e-12 {
			t.Errorf("%s: accuracy %f, want %f", tt.name, score.Accuracy, tt.accuracy)
		}

		if score.TotalHits() != tt.total || score.MaxCombo != int(tt.replay.MaxCombo) {
			t.Errorf("%s: unexpected score %+v", tt.name, score)
		}
	}
}
