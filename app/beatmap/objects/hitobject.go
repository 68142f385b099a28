package objects

import (
	"github.com/go-gl/mathgl/mgl64"
)

type Type int

const (
	CircleType Type = iota
	SliderType
	SpinnerType
)

func (t Type) String() string {
	switch t {
	case CircleType:
		return "circle"
	case SliderType:
		return "slider"
	case SpinnerType:
		return "spinner"
	}

	return "unknown"
}

type IHitObject interface {
	GetStartTime() float64
	GetEndTime() float64
	GetDuration() float64

	GetPosition() mgl64.Vec2
	GetEndPosition() mgl64.Vec2

	IsNewCombo() bool
	GetType() Type
}

type HitObject struct {
	StartTime float64
	EndTime   float64

	Position mgl64.Vec2

	NewCombo bool
}

func (o *HitObject) GetStartTime() float64 {
	return o.StartTime
}

func (o *HitObject) GetEndTime() float64 {
	return o.EndTime
}

func (o *HitObject) GetDuration() float64 {
	return o.EndTime - o.StartTime
}

func (o *HitObject) GetPosition() mgl64.Vec2 {
	return o.Position
}

func (o *HitObject) GetEndPosition() mgl64.Vec2 {
	return o.Position
}

func (o *HitObject) IsNewCombo() bool {
	return o.NewCombo
}

type Circle struct {
	HitObject
}

func NewCircle(time float64, position mgl64.Vec2, newCombo bool) *Circle {
	return &Circle{HitObject{StartTime: time, EndTime: time, Position: position, NewCombo: newCombo}}
}

func (c *Circle) GetType() Type {
	return CircleType
}

type Spinner struct {
	HitObject
}

func NewSpinner(startTime, endTime float64) *Spinner {
	return &Spinner{HitObject{StartTime: startTime, EndTime: endTime, Position: mgl64.Vec2{256, 192}, NewCombo: true}}
}

func (s *Spinner) GetType() Type {
	return SpinnerType
}
