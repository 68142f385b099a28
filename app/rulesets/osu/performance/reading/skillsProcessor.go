package reading

import (
	"github.com/Givikap120/pp-rework/app/beatmap/difficulty"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/reading/evaluators"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/reading/preprocessing"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/reading/skills"
)

type SkillsProcessor struct {
	Aim               *skills.AimSkill
	AimWithoutSliders *skills.AimSkill
	Speed             *skills.SpeedSkill
	Flashlight        *skills.FlashlightSkill
	ReadingLowAR      *skills.ReadingLowAR
	ReadingHighAR     *skills.ReadingHighAR
	ReadingHidden     *skills.ReadingHidden
}

// NewSkillsProcessor creates every skill regardless of mods, hidden and flashlight values are filtered later
func NewSkillsProcessor(d *difficulty.Difficulty) *SkillsProcessor {
	return &SkillsProcessor{
		Aim:               skills.NewAimSkill(true),
		AimWithoutSliders: skills.NewAimSkill(false),
		Speed:             skills.NewSpeedSkill(),
		Flashlight:        skills.NewFlashlightSkill(d.CheckModActive(difficulty.Hidden)),
		ReadingLowAR:      skills.NewReadingLowAR(),
		ReadingHighAR:     skills.NewReadingHighAR(),
		ReadingHidden:     skills.NewReadingHidden(),
	}
}

func (processor *SkillsProcessor) all() []skills.Skill {
	return []skills.Skill{
		processor.Aim,
		processor.AimWithoutSliders,
		processor.Speed,
		processor.Flashlight,
		processor.ReadingLowAR,
		processor.ReadingHighAR,
		processor.ReadingHidden,
	}
}

// Process feeds the object to every skill. Objects have to be processed in order
func (processor *SkillsProcessor) Process(current *preprocessing.DifficultyObject) {
	current.RhythmDifficulty = evaluators.EvaluateRhythmOf(current)

	for _, skill := range processor.all() {
		skill.Process(current)
	}
}
