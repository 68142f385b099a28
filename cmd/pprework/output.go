package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/Givikap120/pp-rework/app/beatmap/difficulty"
	"github.com/Givikap120/pp-rework/app/beatmap/objects"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/api"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/reading"
	"github.com/Givikap120/pp-rework/app/settings"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	starStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFCC22"))
	ppStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF66AA"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF9900"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF0000"))
)

var printer = message.NewPrinter(language.English)

type beatmapAttributes struct {
	Beatmap    *objects.Beatmap
	Mods       difficulty.Modifier
	Attributes api.Attributes
}

type attributesOutput struct {
	Beatmap string `yaml:"beatmap"`
	MD5     string `yaml:"md5"`
	Mods    string `yaml:"mods"`

	Stars        float64 `yaml:"stars"`
	Aim          float64 `yaml:"aim"`
	Speed        float64 `yaml:"speed"`
	Flashlight   float64 `yaml:"flashlight,omitempty"`
	ReadingLowAR float64 `yaml:"reading_low_ar"`
	ReadingHigh  float64 `yaml:"reading_high_ar"`
	Hidden       float64 `yaml:"hidden,omitempty"`
	SliderFactor float64 `yaml:"slider_factor"`

	SpeedNoteCount float64 `yaml:"speed_note_count"`

	ApproachRate      float64 `yaml:"ar"`
	OverallDifficulty float64 `yaml:"od"`
	DrainRate         float64 `yaml:"hp"`

	Circles  int `yaml:"circles"`
	Sliders  int `yaml:"sliders"`
	Spinners int `yaml:"spinners"`
	MaxCombo int `yaml:"max_combo"`

	Skills map[string]float64 `yaml:"skills,omitempty"`
}

type performanceOutput struct {
	Attributes attributesOutput `yaml:"attributes"`

	Accuracy float64 `yaml:"accuracy"`
	Combo    int     `yaml:"combo"`
	Misses   int     `yaml:"misses"`

	PP struct {
		Aim        float64 `yaml:"aim"`
		Speed      float64 `yaml:"speed"`
		Accuracy   float64 `yaml:"accuracy"`
		Flashlight float64 `yaml:"flashlight"`
		Reading    float64 `yaml:"reading"`
		Total      float64 `yaml:"total"`
	} `yaml:"pp"`

	EffectiveMissCount float64 `yaml:"effective_miss_count"`
}

func newAttributesOutput(result *beatmapAttributes) attributesOutput {
	attribs := result.Attributes

	out := attributesOutput{
		Beatmap:           result.Beatmap.String(),
		MD5:               result.Beatmap.MD5,
		Mods:              modsString(result.Mods),
		Stars:             attribs.Total,
		Aim:               attribs.Aim,
		Speed:             attribs.Speed,
		Flashlight:        attribs.Flashlight,
		ReadingLowAR:      attribs.ReadingDifficultyLowAR,
		ReadingHigh:       attribs.ReadingDifficultyHighAR,
		Hidden:            attribs.HiddenDifficulty,
		SliderFactor:      attribs.SliderFactor,
		SpeedNoteCount:    attribs.SpeedNoteCount,
		ApproachRate:      attribs.ApproachRate,
		OverallDifficulty: attribs.OverallDifficulty,
		DrainRate:         attribs.DrainRate,
		Circles:           attribs.Circles,
		Sliders:           attribs.Sliders,
		Spinners:          attribs.Spinners,
		MaxCombo:          attribs.MaxCombo,
		Skills:            make(map[string]float64),
	}

	for _, skill := range reading.SkillValues(attribs, result.Mods) {
		out.Skills[skill.Name] = skill.Value
	}

	return out
}

func modsString(mods difficulty.Modifier) string {
	if s := mods.String(); s != "" {
		return s
	}

	return "NM"
}

func stars(value float64) string {
	return printer.Sprintf("%.2f★", value)
}

func pp(value float64) string {
	return printer.Sprintf("%.2fpp", value)
}

func decimal(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}

func writeYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	return encoder.Close()
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetBorder(false)

	return table
}

func printAttributes(w io.Writer, results []*beatmapAttributes) error {
	if config.Output.Format == settings.OutputYAML {
		out := make([]attributesOutput, 0, len(results))
		for _, result := range results {
			out = append(out, newAttributesOutput(result))
		}

		return writeYAML(w, out)
	}

	table := newTable(w, "Beatmap", "Mods", "Stars", "Aim", "Speed", "Low AR", "High AR", "Hidden", "FL", "AR", "OD", "Objects", "Combo")

	for _, result := range results {
		attribs := result.Attributes

		table.Append([]string{
			result.Beatmap.String(),
			modsString(result.Mods),
			starStyle.Render(stars(attribs.Total)),
			decimal(attribs.Aim),
			decimal(attribs.Speed),
			decimal(attribs.ReadingDifficultyLowAR),
			decimal(attribs.ReadingDifficultyHighAR),
			decimal(attribs.HiddenDifficulty),
			decimal(attribs.Flashlight),
			decimal(attribs.ApproachRate),
			decimal(attribs.OverallDifficulty),
			humanize.Comma(int64(attribs.ObjectCount)),
			humanize.Comma(int64(attribs.MaxCombo)) + "x",
		})
	}

	table.Render()

	if len(results) == 1 {
		fmt.Fprintln(w)
		printSkillValues(w, results[0])
	}

	return nil
}

func printSkillValues(w io.Writer, result *beatmapAttributes) {
	table := newTable(w, "Skill", "Stars")

	for _, skill := range reading.SkillValues(result.Attributes, result.Mods) {
		table.Append([]string{skill.Name, decimal(skill.Value)})
	}

	table.Render()
}

func printPerformance(w io.Writer, result *beatmapAttributes, score api.Score, perf api.PPv2Results) error {
	if config.Output.Format == settings.OutputYAML {
		out := performanceOutput{
			Attributes:         newAttributesOutput(result),
			Accuracy:           score.Accuracy,
			Combo:              score.MaxCombo,
			Misses:             score.CountMiss,
			EffectiveMissCount: perf.EffectiveMissCount,
		}

		out.PP.Aim = perf.Aim
		out.PP.Speed = perf.Speed
		out.PP.Accuracy = perf.Acc
		out.PP.Flashlight = perf.Flashlight
		out.PP.Reading = perf.Reading
		out.PP.Total = perf.Total

		return writeYAML(w, out)
	}

	fmt.Fprintf(w, "%s %s %s\n", titleStyle.Render(result.Beatmap.String()), mutedStyle.Render("+"+modsString(result.Mods)), starStyle.Render(stars(result.Attributes.Total)))
	fmt.Fprintf(w, "%s %s  %s  %s\n\n",
		mutedStyle.Render(printer.Sprintf("%.2f%%", score.Accuracy*100)),
		mutedStyle.Render(humanize.Comma(int64(score.MaxCombo))+"/"+humanize.Comma(int64(result.Attributes.MaxCombo))+"x"),
		mutedStyle.Render(fmt.Sprintf("%d/%d/%d/%d", score.CountGreat, score.CountOk, score.CountMeh, score.CountMiss)),
		mutedStyle.Render(fmt.Sprintf("effective misses %.2f", perf.EffectiveMissCount)),
	)

	table := newTable(w, "Aim", "Speed", "Accuracy", "Flashlight", "Reading", "Total")
	table.Append([]string{pp(perf.Aim), pp(perf.Speed), pp(perf.Acc), pp(perf.Flashlight), pp(perf.Reading), ppStyle.Render(pp(perf.Total))})
	table.Render()

	return nil
}

func printStrainPeaks(w io.Writer, peaks api.StrainPeaks) error {
	if config.Output.Format == settings.OutputYAML {
		return writeYAML(w, map[string][]float64{
			"aim":             peaks.Aim,
			"speed":           peaks.Speed,
			"flashlight":      peaks.Flashlight,
			"reading_low_ar":  peaks.ReadingLowAR,
			"reading_high_ar": peaks.ReadingHighAR,
			"reading_hidden":  peaks.ReadingHidden,
			"total":           peaks.Total,
		})
	}

	table := newTable(w, "Section", "Aim", "Speed", "Flashlight", "Low AR", "High AR", "Hidden", "Stars")

	for i := range peaks.Total {
		table.Append([]string{
			strconv.Itoa(i),
			decimal(at(peaks.Aim, i)),
			decimal(at(peaks.Speed, i)),
			decimal(at(peaks.Flashlight, i)),
			decimal(at(peaks.ReadingLowAR, i)),
			decimal(at(peaks.ReadingHighAR, i)),
			decimal(at(peaks.ReadingHidden, i)),
			decimal(peaks.Total[i]),
		})
	}

	table.Render()

	return nil
}

func printStep(w io.Writer, hitObjects []objects.IHitObject, steps []api.Attributes) error {
	if config.Output.Format == settings.OutputYAML {
		out := make([]float64, len(steps))
		for i, step := range steps {
			out[i] = step.Total
		}

		return writeYAML(w, map[string][]float64{"stars": out})
	}

	table := newTable(w, "Object", "Time", "Stars", "Aim", "Speed", "Combo")

	for i, step := range steps {
		table.Append([]string{
			humanize.Comma(int64(i + 1)),
			printer.Sprintf("%.0fms", hitObjects[i].GetStartTime()),
			decimal(step.Total),
			decimal(step.Aim),
			decimal(step.Speed),
			humanize.Comma(int64(step.MaxCombo)) + "x",
		})
	}

	table.Render()

	return nil
}

func at(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}

	return 0
}
