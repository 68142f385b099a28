package objects

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Givikap120/pp-rework/app/beatmap/difficulty"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

var ErrEmptyBeatmap = errors.New("beatmap has no hit objects")

type Beatmap struct {
	Title   string
	Version string

	// MD5 identifies the beatmap in caches and replays
	MD5 string

	HPDrainRate       float64
	CircleSize        float64
	OverallDifficulty float64
	ApproachRate      float64

	HitObjects []IHitObject
}

func (b *Beatmap) String() string {
	if b.Version == "" {
		return b.Title
	}

	return fmt.Sprintf("%s [%s]", b.Title, b.Version)
}

// Difficulty returns beatmap's difficulty settings with mods applied
func (b *Beatmap) Difficulty(mods difficulty.Modifier) *difficulty.Difficulty {
	diff := difficulty.NewDifficulty(b.HPDrainRate, b.CircleSize, b.OverallDifficulty, b.ApproachRate)
	diff.SetMods(mods)

	return diff
}

type beatmapFile struct {
	Title   string `yaml:"title"`
	Version string `yaml:"version"`
	MD5     string `yaml:"md5"`

	Difficulty struct {
		HP float64 `yaml:"hp"`
		CS float64 `yaml:"cs"`
		OD float64 `yaml:"od"`
		AR float64 `yaml:"ar"`
	} `yaml:"difficulty"`

	Objects []objectFile `yaml:"objects"`
}

type objectFile struct {
	Type     string  `yaml:"type"`
	Time     float64 `yaml:"time"`
	EndTime  float64 `yaml:"end_time"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	NewCombo bool    `yaml:"new_combo"`

	Path         [][2]float64 `yaml:"path"`
	Spans        int          `yaml:"spans"`
	SpanDuration float64      `yaml:"span_duration"`
	TickInterval float64      `yaml:"tick_interval"`
	Nested       []nestedFile `yaml:"nested"`
}

type nestedFile struct {
	Kind string  `yaml:"kind"`
	Time float64 `yaml:"time"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

// Load reads a pre-processed beatmap description. YAML and JSON are both accepted.
func Load(path string) (*Beatmap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read beatmap: %w", err)
	}

	beatmap, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if len(beatmap.HitObjects) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyBeatmap)
	}

	return beatmap, nil
}

func Parse(data []byte) (*Beatmap, error) {
	var file beatmapFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	beatmap := &Beatmap{
		Title:             file.Title,
		Version:           file.Version,
		MD5:               file.MD5,
		HPDrainRate:       file.Difficulty.HP,
		CircleSize:        file.Difficulty.CS,
		OverallDifficulty: file.Difficulty.OD,
		ApproachRate:      file.Difficulty.AR,
		HitObjects:        make([]IHitObject, 0, len(file.Objects)),
	}

	if beatmap.MD5 == "" {
		sum := md5.Sum(data)
		beatmap.MD5 = hex.EncodeToString(sum[:])
	}

	for i, o := range file.Objects {
		obj, err := o.toHitObject()
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}

		beatmap.HitObjects = append(beatmap.HitObjects, obj)
	}

	sort.SliceStable(beatmap.HitObjects, func(i, j int) bool {
		return beatmap.HitObjects[i].GetStartTime() < beatmap.HitObjects[j].GetStartTime()
	})

	return beatmap, nil
}

func (o objectFile) toHitObject() (IHitObject, error) {
	position := mgl64.Vec2{o.X, o.Y}

	switch strings.ToLower(o.Type) {
	case "", "circle":
		return NewCircle(o.Time, position, o.NewCombo), nil
	case "spinner":
		if o.EndTime < o.Time {
			return nil, fmt.Errorf("spinner ends before it starts (%v < %v)", o.EndTime, o.Time)
		}

		return NewSpinner(o.Time, o.EndTime), nil
	case "slider":
		if len(o.Path) == 0 {
			return nil, fmt.Errorf("slider at %v has no path", o.Time)
		}

		if o.SpanDuration <= 0 {
			return nil, fmt.Errorf("slider at %v has non-positive span duration", o.Time)
		}

		path := make([]mgl64.Vec2, len(o.Path))
		for i, p := range o.Path {
			path[i] = mgl64.Vec2{p[0], p[1]}
		}

		if len(o.Nested) == 0 {
			return NewSlider(o.Time, position, path, o.Spans, o.SpanDuration, o.TickInterval, o.NewCombo), nil
		}

		nested := make([]NestedObject, 0, len(o.Nested))

		for _, n := range o.Nested {
			kind, err := parseNestedKind(n.Kind)
			if err != nil {
				return nil, err
			}

			nested = append(nested, NestedObject{Kind: kind, Time: n.Time, Position: mgl64.Vec2{n.X, n.Y}})
		}

		return NewSliderWithNested(o.Time, position, path, o.Spans, o.SpanDuration, nested, o.NewCombo), nil
	}

	return nil, fmt.Errorf("unknown object type %q", o.Type)
}

func parseNestedKind(kind string) (NestedKind, error) {
	switch strings.ToLower(kind) {
	case "tick":
		return Tick, nil
	case "repeat":
		return Repeat, nil
	case "tail":
		return Tail, nil
	}

	return Head, fmt.Errorf("unknown nested object kind %q", kind)
}
