package replay

import (
	"fmt"
	"os"

	"github.com/Givikap120/pp-rework/app/beatmap/difficulty"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/api"
	"github.com/wieku/rplpa"
)

// Replay is the part of an .osr file needed for performance calculation
type Replay struct {
	Username   string
	BeatmapMD5 string
	Score      api.Score
}

func Load(path string) (*Replay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read replay: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Replay, error) {
	parsed, err := rplpa.ParseReplay(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse replay: %w", err)
	}

	if parsed.PlayMode != 0 {
		return nil, fmt.Errorf("unsupported game mode %d", parsed.PlayMode)
	}

	return &Replay{
		Username:   parsed.Username,
		BeatmapMD5: parsed.BeatmapMD5,
		Score:      scoreFromReplay(parsed),
	}, nil
}

func scoreFromReplay(r *rplpa.Replay) api.Score {
	score := api.Score{
		CountGreat: int(r.Count300),
		CountOk:    int(r.Count100),
		CountMeh:   int(r.Count50),
		CountMiss:  int(r.CountMiss),
		CountGeki:  int(r.CountGeki),
		CountKatu:  int(r.CountKatu),
		MaxCombo:   int(r.MaxCombo),
		Mods:       difficulty.Modifier(r.Mods),
	}

	score.Accuracy = api.CalculateAccuracy(score.CountGreat, score.CountOk, score.CountMeh, score.CountMiss)

	return score
}
