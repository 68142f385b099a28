package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Givikap120/pp-rework/app/beatmap/difficulty"
	"github.com/Givikap120/pp-rework/app/beatmap/objects"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/cache"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/reading"
)

func writeBeatmap(t *testing.T, dir, name string, count int) string {
	t.Helper()

	var sb strings.Builder
	sb.WriteString("title: " + name + "\n")
	sb.WriteString("difficulty: {hp: 5, cs: 4, od: 8, ar: 9}\n")
	sb.WriteString("objects:\n")

	for i := 0; i < count; i++ {
		x := 100 + 300*float64(i%2)
		fmt.Fprintf(&sb, "  - {type: circle, time: %d, x: %v, y: 192}\n", 1000+i*150, x)
	}

	path := filepath.Join(dir, name+".yaml")
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestRunUsesCache(t *testing.T) {
	dir := t.TempDir()

	store, err := cache.NewSQLiteStore(filepath.Join(dir, "attributes.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	jobs := []Job{
		{Path: writeBeatmap(t, dir, "short", 20), Mods: difficulty.None},
		{Path: writeBeatmap(t, dir, "long", 60), Mods: difficulty.DoubleTime},
		{Path: writeBeatmap(t, dir, "long", 60), Mods: difficulty.Hidden},
	}

	runner := NewRunner(store, reading.NewDifficultyCalculator(), 2)
	runner.Progress = io.Discard

	first, err := runner.Run(context.Background(), jobs)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	second, err := runner.Run(context.Background(), jobs)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	for i := range jobs {
		if first[i].Err != nil || second[i].Err != nil {
			t.Fatalf("job %d failed: %v / %v", i, first[i].Err, second[i].Err)
		}

		if first[i].Job != jobs[i] {
			t.Errorf("result %d is for %+v, want %+v", i, first[i].Job, jobs[i])
		}

		if first[i].Cached || !second[i].Cached {
			t.Errorf("job %d: cached %v then %v", i, first[i].Cached, second[i].Cached)
		}

		if first[i].Attributes != second[i].Attributes {
			t.Errorf("job %d: cached attributes differ", i)
		}

		if first[i].Attributes.Total <= 0 {
			t.Errorf("job %d: stars = %f", i, first[i].Attributes.Total)
		}
	}

	if first[1].Attributes.Total <= first[0].Attributes.Total {
		t.Errorf("long DT map (%f) is not harder than short NM map (%f)", first[1].Attributes.Total, first[0].Attributes.Total)
	}
}

func TestRunReportsFailures(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, []byte("title: empty\n"), 0644); err != nil {
		t.Fatal(err)
	}

	jobs := []Job{
		{Path: writeBeatmap(t, dir, "ok", 10)},
		{Path: filepath.Join(dir, "missing.yaml")},
		{Path: empty},
	}

	runner := NewRunner(cache.NopStore{}, reading.NewDifficultyCalculator(), 0)

	results, err := runner.Run(context.Background(), jobs)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if results[0].Err != nil {
		t.Errorf("valid beatmap failed: %v", results[0].Err)
	}

	if results[1].Err == nil {
		t.Error("expected error for missing beatmap")
	}

	if !errors.Is(results[2].Err, objects.ErrEmptyBeatmap) {
		t.Errorf("empty beatmap error = %v, want ErrEmptyBeatmap", results[2].Err)
	}

	runner.FailFast = true
	runner.Workers = 1

	if _, err := runner.Run(context.Background(), jobs); err == nil {
		t.Error("expected error with FailFast")
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(cache.NopStore{}, reading.NewDifficultyCalculator(), 1)

	if _, err := runner.Run(ctx, []Job{{Path: "unused.yaml"}}); err == nil {
		t.Error("expected error for cancelled context")
	}
}
