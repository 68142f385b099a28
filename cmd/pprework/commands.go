package main

import (
	"fmt"
	"math"
	"os"

	"github.com/Givikap120/pp-rework/app/beatmap/objects"
	"github.com/Givikap120/pp-rework/app/replay"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/api"
	"github.com/Givikap120/pp-rework/app/settings"
	"github.com/spf13/cobra"
)

// Score flags
var (
	countOk          int
	countMeh         int
	countMiss        int
	combo            int
	accuracyPercent  float64
	sliderTailMisses int
	largeTickMisses  int
	overwriteConfig  bool
)

var calcCmd = &cobra.Command{
	Use:   "calc <beatmap>",
	Short: "Calculate star rating of a beatmap",
	Args:  cobra.ExactArgs(1),
	RunE:  runCalc,
}

var ppCmd = &cobra.Command{
	Use:   "pp <beatmap>",
	Short: "Calculate performance points of a hypothetical play",
	Long: `Calculate performance points of a play described by hit counts.

Objects not counted as 100s, 50s or misses are greats. With --acc the number of 100s is derived
from accuracy instead.

Examples:
  pprework pp map.yaml --mods HDHR
  pprework pp map.yaml --acc 98.5 --miss 2 --combo 1200
  pprework pp map.yaml --mods DTLZ --slider-tail-misses 4`,
	Args: cobra.ExactArgs(1),
	RunE: runPP,
}

var replayCmd = &cobra.Command{
	Use:   "replay <replay.osr> <beatmap>",
	Short: "Calculate performance points of a replay",
	Args:  cobra.ExactArgs(2),
	RunE:  runReplay,
}

var peaksCmd = &cobra.Command{
	Use:   "peaks <beatmap>",
	Short: "Show strain peaks of every 400ms section",
	Args:  cobra.ExactArgs(1),
	RunE:  runPeaks,
}

var stepCmd = &cobra.Command{
	Use:   "step <beatmap>",
	Short: "Show star rating after every object",
	Args:  cobra.ExactArgs(1),
	RunE:  runStep,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Write a config file with default values",
	Args:  cobra.NoArgs,
	// Config is written before any of it is loaded
	PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
	PersistentPostRunE: func(*cobra.Command, []string) error { return nil },
	RunE:               runConfig,
}

func init() {
	ppCmd.Flags().IntVar(&countOk, "100", 0, "Number of 100s")
	ppCmd.Flags().IntVar(&countMeh, "50", 0, "Number of 50s")
	ppCmd.Flags().IntVar(&countMiss, "miss", 0, "Number of misses")
	ppCmd.Flags().IntVar(&combo, "combo", 0, "Max combo, 0 for full combo")
	ppCmd.Flags().Float64Var(&accuracyPercent, "acc", 0, "Accuracy in percent, replaces --100 and --50")
	ppCmd.Flags().IntVar(&sliderTailMisses, "slider-tail-misses", 0, "Missed slider tails, used with LZ")
	ppCmd.Flags().IntVar(&largeTickMisses, "large-tick-misses", 0, "Missed slider ticks and repeats, used with LZ")

	configCmd.Flags().BoolVar(&overwriteConfig, "force", false, "Overwrite existing config")
}

func runCalc(cmd *cobra.Command, args []string) error {
	mods, err := parseMods()
	if err != nil {
		return err
	}

	result, err := calculate(cmd.Context(), args[0], mods)
	if err != nil {
		return err
	}

	return printAttributes(cmd.OutOrStdout(), []*beatmapAttributes{result})
}

func runPP(cmd *cobra.Command, args []string) error {
	mods, err := parseMods()
	if err != nil {
		return err
	}

	result, err := calculate(cmd.Context(), args[0], mods)
	if err != nil {
		return err
	}

	ok, meh := countOk, countMeh
	if cmd.Flags().Changed("acc") {
		ok, meh = hitsFromAccuracy(result.Attributes.ObjectCount, countMiss, accuracyPercent/100)
	}

	score := api.FullComboScore(result.Attributes, mods, ok, meh, countMiss)

	if combo > 0 {
		score.MaxCombo = combo
	}

	score.CountSliderTailHit = max(0, score.CountSliderTailHit-sliderTailMisses)
	score.CountLargeTickMiss = largeTickMisses

	return printPerformance(cmd.OutOrStdout(), result, score, ppCalc.Calculate(result.Attributes, score))
}

// hitsFromAccuracy distributes non-miss hits into 100s and 50s so that accuracy is as close as possible to target
func hitsFromAccuracy(objectCount, misses int, accuracy float64) (countOk, countMeh int) {
	hits := max(0, objectCount-misses)
	total := float64(objectCount)

	accuracy = math.Max(0, math.Min(1, accuracy))

	countOk = int(math.Round(1.5 * (float64(hits) - accuracy*total)))
	countOk = max(0, min(countOk, hits))

	// 100s alone can't go this low
	if countOk == hits {
		countMeh = int(math.Round(6 * (float64(hits)/3 - accuracy*total)))
		countMeh = max(0, min(countMeh, hits))
		countOk = hits - countMeh
	}

	return countOk, countMeh
}

func runReplay(cmd *cobra.Command, args []string) error {
	play, err := replay.Load(args[0])
	if err != nil {
		return err
	}

	result, err := calculate(cmd.Context(), args[1], play.Score.Mods)
	if err != nil {
		return err
	}

	if play.BeatmapMD5 != result.Beatmap.MD5 {
		fmt.Fprintln(cmd.ErrOrStderr(), warningStyle.Render(fmt.Sprintf("Replay was set on beatmap %s, calculating on %s", play.BeatmapMD5, result.Beatmap.MD5)))
	}

	if play.Username != "" {
		fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Played by "+play.Username))
	}

	return printPerformance(cmd.OutOrStdout(), result, play.Score, ppCalc.Calculate(result.Attributes, play.Score))
}

func runPeaks(cmd *cobra.Command, args []string) error {
	mods, err := parseMods()
	if err != nil {
		return err
	}

	beatmap, err := objects.Load(args[0])
	if err != nil {
		return err
	}

	return printStrainPeaks(cmd.OutOrStdout(), diffCalc.CalculateStrainPeaks(beatmap.HitObjects, beatmap.Difficulty(mods)))
}

func runStep(cmd *cobra.Command, args []string) error {
	mods, err := parseMods()
	if err != nil {
		return err
	}

	beatmap, err := objects.Load(args[0])
	if err != nil {
		return err
	}

	return printStep(cmd.OutOrStdout(), beatmap.HitObjects, diffCalc.CalculateStep(beatmap.HitObjects, beatmap.Difficulty(mods)))
}

func runConfig(cmd *cobra.Command, _ []string) error {
	if _, err := os.Stat(configPath); err == nil && !overwriteConfig {
		return fmt.Errorf("%s already exists, use --force to overwrite", configPath)
	}

	if err := settings.Default().Save(configPath); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Config written to", configPath)

	return nil
}
