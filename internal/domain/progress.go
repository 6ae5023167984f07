// internal/domain/progress.go
package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// Criterion selects how set-level volume is weighted when combining a week's
// sets into one scalar per exercise.
type Criterion string

const (
	// CriterionBalanced sums raw reps x weight across all sets.
	CriterionBalanced Criterion = "balanced"
	// CriterionWeightFocused adds extra emphasis on the heaviest set, for
	// coaches tracking load progression over rep fluctuation.
	CriterionWeightFocused Criterion = "weight_focused"
	// CriterionRepsFocused adds extra emphasis on the highest-rep set, for
	// coaches tracking endurance progression over load fluctuation.
	CriterionRepsFocused Criterion = "reps_focused"
)

// IsValid reports whether c is a known criterion.
func (c Criterion) IsValid() bool {
	switch c {
	case CriterionBalanced, CriterionWeightFocused, CriterionRepsFocused:
		return true
	}
	return false
}

// TopSetEmphasis is the extra share of the emphasized set's volume added on
// top of the balanced sum for the focused criteria. With 0.5 the heaviest
// (or highest-rep) set effectively counts one and a half times.
const TopSetEmphasis = 0.5

// Trend is the traffic-light classification of a percent change.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
	// TrendNoBaseline flags results whose previous-week volume was zero, so
	// no percent change can be computed.
	TrendNoBaseline Trend = "no_baseline"
)

// Trend classification thresholds, in percent change. Policy values, not
// physiology: anything at or above +2.5% counts as improving, at or below
// -2.5% as declining, the band in between as stable.
const (
	TrendImprovingThresholdPercent = 2.5
	TrendDecliningThresholdPercent = -2.5
)

// ClassifyTrend maps a percent change to its traffic-light status. A nil
// change means the previous volume was zero and there is no baseline.
func ClassifyTrend(changePercent *float64) Trend {
	if changePercent == nil {
		return TrendNoBaseline
	}
	switch {
	case *changePercent >= TrendImprovingThresholdPercent:
		return TrendImproving
	case *changePercent <= TrendDecliningThresholdPercent:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// ExerciseProgress compares one exercise's weighted volume across two weeks.
// VolumeChangePercent is nil when the previous week's volume was zero.
type ExerciseProgress struct {
	ExerciseID          primitive.ObjectID `json:"exerciseId"`
	Name                string             `json:"name"`
	MuscleGroup         MuscleGroup        `json:"muscleGroup"`
	CurrentWeekVolume   float64            `json:"currentWeekVolume"`
	PreviousWeekVolume  float64            `json:"previousWeekVolume"`
	VolumeChangePercent *float64           `json:"volumeChangePercent"`
	Trend               Trend              `json:"trend"`
}

// MuscleGroupProgress aggregates exercise progress per muscle group.
type MuscleGroupProgress struct {
	MuscleGroup         MuscleGroup `json:"muscleGroup"`
	CurrentWeekVolume   float64     `json:"currentWeekVolume"`
	PreviousWeekVolume  float64     `json:"previousWeekVolume"`
	VolumeChangePercent *float64    `json:"volumeChangePercent"`
	Trend               Trend       `json:"trend"`
}

// BestSet is the single highest reps x weight set observed in a week.
type BestSet struct {
	ExerciseName string  `json:"exerciseName"`
	Reps         int     `json:"reps"`
	Weight       float64 `json:"weight"`
	Volume       float64 `json:"volume"`
}

// ProgressReport is the full week-over-week comparison. InsufficientData is
// set when the two weeks share no exercises; such a report carries empty
// sections and must not be read as real zero progress.
type ProgressReport struct {
	CurrentWeek          int                   `json:"currentWeek"`
	PreviousWeek         int                   `json:"previousWeek"`
	Criterion            Criterion             `json:"criterion"`
	InsufficientData     bool                  `json:"insufficientData"`
	ExercisesProgress    []ExerciseProgress    `json:"exercisesProgress"`
	MuscleGroups         []MuscleGroupProgress `json:"muscleGroups"`
	TotalCurrentVolume   float64               `json:"totalCurrentVolume"`
	TotalPreviousVolume  float64               `json:"totalPreviousVolume"`
	TotalChangePercent   *float64              `json:"totalChangePercent"`
	Trend                Trend                 `json:"trend"`
	BestSetCurrent       *BestSet              `json:"bestSetCurrent,omitempty"`
	BestSetPrevious      *BestSet              `json:"bestSetPrevious,omitempty"`
	BestSetChangePercent *float64              `json:"bestSetChangePercent"`
}
