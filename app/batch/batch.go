package batch

import (
	"context"
	"io"
	"log"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/Givikap120/pp-rework/app/beatmap/difficulty"
	"github.com/Givikap120/pp-rework/app/beatmap/objects"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/api"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/cache"
	"github.com/Givikap120/pp-rework/app/telemetry"
	"github.com/schollz/progressbar/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

// Job is a single beatmap calculated under a set of mods
type Job struct {
	Path string
	Mods difficulty.Modifier
}

type Result struct {
	Job     Job
	Beatmap *objects.Beatmap

	Attributes api.Attributes

	// Cached is true if attributes were read from the store
	Cached bool

	Err error
}

type Runner struct {
	Store      cache.AttributeStore
	Calculator api.IDifficultyCalculator

	// Workers limits concurrent calculations, 0 means one per CPU
	Workers int

	// FailFast stops remaining jobs after the first failure
	FailFast bool

	// Progress receives a progress bar if set
	Progress io.Writer
}

func NewRunner(store cache.AttributeStore, calculator api.IDifficultyCalculator, workers int) *Runner {
	return &Runner{
		Store:      store,
		Calculator: calculator,
		Workers:    workers,
	}
}

// Run calculates all jobs and returns results in job order.
// Job failures are reported in Result.Err, the returned error is set only with FailFast or cancelled context
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	results := make([]Result, len(jobs))
	for i, job := range jobs {
		results[i].Job = job
	}

	if len(jobs) == 0 {
		return results, nil
	}

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var bar *progressbar.ProgressBar
	if r.Progress != nil {
		bar = newProgressBar(r.Progress, len(jobs))
	}

	var failed atomic.Int64

	startTime := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, job := range jobs {
		if gctx.Err() != nil {
			break
		}

		i, job := i, job

		g.Go(func() error {
			results[i] = r.calculate(gctx, job)

			if bar != nil {
				bar.Add(1)
			}

			if results[i].Err != nil {
				failed.Add(1)

				if r.FailFast {
					return results[i].Err
				}
			}

			return nil
		})
	}

	err := g.Wait()

	if bar != nil {
		bar.Finish()
	}

	log.Printf("Calculated %d beatmaps (%d failed) in %s", len(jobs), failed.Load(), time.Since(startTime).Round(time.Millisecond))

	if err == nil {
		err = ctx.Err()
	}

	return results, err
}

func (r *Runner) calculate(ctx context.Context, job Job) (result Result) {
	result.Job = job

	ctx, span := telemetry.Tracer().Start(ctx, "batch.calculate")
	defer span.End()

	span.SetAttributes(
		attribute.String("beatmap.path", job.Path),
		attribute.String("mods", job.Mods.String()),
	)

	defer func() {
		if result.Err != nil {
			span.RecordError(result.Err)
			span.SetStatus(codes.Error, result.Err.Error())
		}
	}()

	if err := ctx.Err(); err != nil {
		result.Err = err
		return
	}

	beatmap, err := objects.Load(job.Path)
	if err != nil {
		result.Err = err
		return
	}

	result.Beatmap = beatmap

	span.SetAttributes(attribute.String("beatmap.md5", beatmap.MD5))

	key := cache.NewKey(beatmap.MD5, job.Mods, r.Calculator.GetVersion())

	attribs, cached, err := cache.GetOrCalculate(ctx, r.Store, key, func() api.Attributes {
		return r.Calculator.CalculateSingle(beatmap.HitObjects, beatmap.Difficulty(job.Mods))
	})

	if err != nil {
		log.Printf("%s: %s", beatmap, err)
	}

	span.SetAttributes(
		attribute.Bool("cache.hit", cached),
		attribute.Float64("stars", attribs.Total),
	)

	result.Attributes = attribs
	result.Cached = cached

	return
}

func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Calculating"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "",
			BarEnd:        "",
		}),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}
