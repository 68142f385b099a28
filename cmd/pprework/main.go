// pprework calculates osu!standard star rating and performance points with the reading rework skill set.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Givikap120/pp-rework/app/beatmap/difficulty"
	"github.com/Givikap120/pp-rework/app/beatmap/objects"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/api"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/cache"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/reading"
	"github.com/Givikap120/pp-rework/app/settings"
	"github.com/Givikap120/pp-rework/app/telemetry"
	"github.com/spf13/cobra"
)

var version = "dev"

// Global flags
var (
	configPath   string
	cacheBackend string
	workers      int
	outputFormat string
	modsFlag     string
	verbose      bool
)

var (
	config *settings.Config
	store  cache.AttributeStore

	diffCalc = reading.NewDifficultyCalculator()
	ppCalc   = reading.NewPPCalculator()

	shutdownTelemetry func(context.Context) error
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pprework",
	Short: "osu!standard difficulty and performance calculator",
	Long: `pprework calculates star rating and performance points of osu!standard beatmaps
using aim, speed, reading (low AR, high AR, hidden) and flashlight skills.

Beatmaps are pre-processed YAML or JSON object lists.

Examples:
  pprework calc map.yaml --mods HDDT
  pprework pp map.yaml --mods HR --100 12 --miss 1 --combo 900
  pprework replay play.osr map.yaml
  pprework batch maps/*.yaml --cache sqlite --workers 8`,
	Version:            version,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "pprework.yaml", "Config file path")
	rootCmd.PersistentFlags().StringVar(&cacheBackend, "cache", "", "Attribute cache backend (none, sqlite, redis), overrides config")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", -1, "Batch workers, 0 for one per CPU, overrides config")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "", "Output format (table, yaml), overrides config")
	rootCmd.PersistentFlags().StringVarP(&modsFlag, "mods", "m", "", "Mods, e.g. HDDT or hd,hr")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(calcCmd)
	rootCmd.AddCommand(ppCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(peaksCmd)
	rootCmd.AddCommand(stepCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
}

func setup(cmd *cobra.Command, _ []string) error {
	if !verbose {
		log.SetOutput(io.Discard)
	}

	var err error

	config, err = settings.Load(configPath)
	if err != nil {
		return err
	}

	if cacheBackend != "" {
		config.Cache.Backend = cacheBackend
	}

	if workers >= 0 {
		config.Batch.Workers = workers
	}

	if outputFormat != "" {
		config.Output.Format = outputFormat
	}

	if err = config.Validate(); err != nil {
		return err
	}

	shutdownTelemetry, err = telemetry.Setup(cmd.Context(), config.Telemetry, version)
	if err != nil {
		return err
	}

	store, err = cache.NewStore(config.Cache)
	if err != nil {
		return fmt.Errorf("failed to open attribute cache: %w", err)
	}

	log.Println("Using", diffCalc.GetVersionMessage())

	return nil
}

func teardown(cmd *cobra.Command, _ []string) error {
	var err error

	if store != nil {
		err = store.Close()
	}

	if shutdownTelemetry != nil {
		if tErr := shutdownTelemetry(cmd.Context()); tErr != nil && err == nil {
			err = tErr
		}
	}

	return err
}

func parseMods() (difficulty.Modifier, error) {
	mods, err := difficulty.ParseMods(modsFlag)
	if err != nil {
		return difficulty.None, fmt.Errorf("--mods: %w", err)
	}

	return mods, nil
}

// calculate returns attributes of a beatmap, consulting the attribute cache
func calculate(ctx context.Context, path string, mods difficulty.Modifier) (*beatmapAttributes, error) {
	beatmap, err := objects.Load(path)
	if err != nil {
		return nil, err
	}

	key := cache.NewKey(beatmap.MD5, mods, diffCalc.GetVersion())

	attribs, cached, err := cache.GetOrCalculate(ctx, store, key, func() api.Attributes {
		return diffCalc.CalculateSingle(beatmap.HitObjects, beatmap.Difficulty(mods))
	})
	if err != nil {
		log.Println(err)
	}

	if cached {
		log.Println("Attributes read from cache:", key)
	}

	return &beatmapAttributes{Beatmap: beatmap, Mods: mods, Attributes: attribs}, nil
}
