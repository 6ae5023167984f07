// internal/domain/workout_log.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutDayLog records what a client actually performed on one calendar
// date within a microcycle. The exercise/set subtree is embedded and always
// replaced as a whole on edit; individual sets are never patched in place.
type WorkoutDayLog struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MicrocycleID    primitive.ObjectID `bson:"microcycleId" json:"microcycleId"`
	ClientID        primitive.ObjectID `bson:"clientId" json:"clientId"`
	DayID           primitive.ObjectID `bson:"dayId" json:"dayId"`     // TemplateDay or ClientDay id
	DayName         string             `bson:"dayName" json:"dayName"` // Snapshot; survives later plan edits
	CompletedDate   time.Time          `bson:"completedDate" json:"completedDate"`
	DurationMinutes int                `bson:"durationMinutes,omitempty" json:"durationMinutes,omitempty"`
	RPE             *int               `bson:"rpe,omitempty" json:"rpe,omitempty"`         // 1-10
	Fatigue         *int               `bson:"fatigue,omitempty" json:"fatigue,omitempty"` // 1-10
	EmotionalState  string             `bson:"emotionalState,omitempty" json:"emotionalState,omitempty"`
	ClientNotes     string             `bson:"clientNotes,omitempty" json:"clientNotes,omitempty"`
	Exercises       []ExerciseLog      `bson:"exercises" json:"exercises"`
	SubmissionID    string             `bson:"submissionId,omitempty" json:"submissionId,omitempty"` // Client-side correlation id
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ExerciseLog groups the logged sets for one exercise definition.
type ExerciseLog struct {
	ExerciseID   primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	ExerciseName string             `bson:"exerciseName" json:"exerciseName"` // Snapshot
	MuscleGroup  MuscleGroup        `bson:"muscleGroup" json:"muscleGroup"`
	Sets         []SetLog           `bson:"sets" json:"sets"`
}

// SetLog is one performed set. Weight is in kilograms.
type SetLog struct {
	SetNumber int     `bson:"setNumber" json:"setNumber"`
	Reps      int     `bson:"reps" json:"reps"`
	Weight    float64 `bson:"weight" json:"weight"`
	RIR       *int    `bson:"rir,omitempty" json:"rir,omitempty"` // Reps in reserve, 0-10
	Notes     string  `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Volume is the base unit of training load: reps x weight.
func (s SetLog) Volume() float64 {
	return float64(s.Reps) * s.Weight
}
