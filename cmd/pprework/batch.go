package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Givikap120/pp-rework/app/batch"
	"github.com/Givikap120/pp-rework/app/beatmap/difficulty"
	"github.com/Givikap120/pp-rework/app/beatmap/objects"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/api"
	"github.com/Givikap120/pp-rework/app/watch"
	"github.com/spf13/cobra"
)

var (
	failFast   bool
	sortByStar bool
	allMods    []string
)

var batchCmd = &cobra.Command{
	Use:   "batch <beatmap|directory>...",
	Short: "Calculate star rating of many beatmaps in parallel",
	Long: `Calculate star rating of many beatmaps in parallel.

Directories are searched for .yaml, .yml and .json beatmaps. Each beatmap is calculated once per
--with-mods entry, or once with --mods if none are given.

Examples:
  pprework batch maps/ --workers 8
  pprework batch maps/ --with-mods NM,HR,DT --sort`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

var watchCmd = &cobra.Command{
	Use:   "watch <beatmap>",
	Short: "Recalculate star rating whenever a beatmap is saved",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	batchCmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop on first failure")
	batchCmd.Flags().BoolVar(&sortByStar, "sort", false, "Sort results by star rating")
	batchCmd.Flags().StringSliceVar(&allMods, "with-mods", nil, "Mod combinations to calculate, e.g. NM,HD,DT")
}

func runBatch(cmd *cobra.Command, args []string) error {
	paths, err := collectBeatmaps(args)
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		return errors.New("no beatmaps found")
	}

	modSets := allMods
	if len(modSets) == 0 {
		modSets = []string{modsFlag}
	}

	jobs := make([]batch.Job, 0, len(paths)*len(modSets))

	for _, modString := range modSets {
		mods, err := difficulty.ParseMods(modString)
		if err != nil {
			return fmt.Errorf("--with-mods: %w", err)
		}

		for _, path := range paths {
			jobs = append(jobs, batch.Job{Path: path, Mods: mods})
		}
	}

	runner := batch.NewRunner(store, diffCalc, config.Batch.Workers)
	runner.FailFast = failFast
	runner.Progress = cmd.ErrOrStderr()

	fmt.Fprintln(cmd.ErrOrStderr(), mutedStyle.Render(fmt.Sprintf("Calculating %d jobs...", len(jobs))))

	results, err := runner.Run(cmd.Context(), jobs)
	if err != nil {
		return err
	}

	succeeded := make([]*beatmapAttributes, 0, len(results))
	cached := 0

	for _, result := range results {
		if result.Err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render("✗ ")+result.Err.Error())
			continue
		}

		if result.Cached {
			cached++
		}

		succeeded = append(succeeded, &beatmapAttributes{Beatmap: result.Beatmap, Mods: result.Job.Mods, Attributes: result.Attributes})
	}

	if sortByStar {
		sort.SliceStable(succeeded, func(i, j int) bool {
			return succeeded[i].Attributes.Total > succeeded[j].Attributes.Total
		})
	}

	if err := printAttributes(cmd.OutOrStdout(), succeeded); err != nil {
		return err
	}

	fmt.Fprintln(cmd.ErrOrStderr(), mutedStyle.Render(fmt.Sprintf("%d calculated, %d from cache, %d failed", len(succeeded)-cached, cached, len(results)-len(succeeded))))

	return nil
}

// collectBeatmaps expands directories into beatmap files
func collectBeatmaps(args []string) ([]string, error) {
	var paths []string

	for _, arg := range args {
		stat, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}

		if !stat.IsDir() {
			paths = append(paths, arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				return nil
			}

			switch filepath.Ext(path) {
			case ".yaml", ".yml", ".json":
				paths = append(paths, path)
			}

			return nil
		})

		if err != nil {
			return nil, fmt.Errorf("failed to search %s: %w", arg, err)
		}
	}

	return paths, nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	mods, err := parseMods()
	if err != nil {
		return err
	}

	watcher, err := watch.NewWatcher(watch.DefaultDebounce)
	if err != nil {
		return err
	}
	defer watcher.Close()

	out := cmd.OutOrStdout()

	report := func(beatmap *objects.Beatmap, attribs api.Attributes) {
		fmt.Fprintf(out, "%s %s %s %s\n",
			titleStyle.Render(beatmap.String()),
			mutedStyle.Render("+"+modsString(mods)),
			starStyle.Render(stars(attribs.Total)),
			mutedStyle.Render(fmt.Sprintf("aim %.2f speed %.2f reading %.2f/%.2f", attribs.Aim, attribs.Speed, attribs.ReadingDifficultyLowAR, attribs.ReadingDifficultyHighAR)),
		)
	}

	watcher.OnChange = watch.Recalculate(diffCalc, mods, report)
	watcher.OnError = func(path string, err error) {
		fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render("✗ ")+err.Error())
	}

	if err := watcher.OnChange(args[0]); err != nil {
		return err
	}

	if err := watcher.Watch(args[0]); err != nil {
		return err
	}

	fmt.Fprintln(cmd.ErrOrStderr(), mutedStyle.Render("Watching "+args[0]+", press Ctrl+C to stop"))

	if err := watcher.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}
