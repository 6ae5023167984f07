// internal/domain/template.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MuscleGroup classifies an exercise for per-group volume aggregation.
type MuscleGroup string

const (
	MuscleGroupUpperBody MuscleGroup = "UPPER_BODY"
	MuscleGroupLowerBody MuscleGroup = "LOWER_BODY"
	MuscleGroupCore      MuscleGroup = "CORE"
	MuscleGroupFullBody  MuscleGroup = "FULL_BODY"
)

// IsValid reports whether mg is one of the known muscle groups.
func (mg MuscleGroup) IsValid() bool {
	switch mg {
	case MuscleGroupUpperBody, MuscleGroupLowerBody, MuscleGroupCore, MuscleGroupFullBody:
		return true
	}
	return false
}

// Template is a trainer-authored, reusable plan structure shared by many
// clients. The whole day/exercise/set tree is stored as one aggregate;
// templates are read-mostly and never mutated by the fork path.
type Template struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID    primitive.ObjectID `bson:"trainerId" json:"trainerId"` // Who authored/owns the template
	Title        string             `bson:"title" json:"title"`
	NumberOfDays int                `bson:"numberOfDays" json:"numberOfDays"`
	Archived     bool               `bson:"archived" json:"archived"`
	Days         []TemplateDay      `bson:"days" json:"days"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// TemplateDay is one training day within a template.
type TemplateDay struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DayNumber   int                `bson:"dayNumber" json:"dayNumber"`
	Name        string             `bson:"name" json:"name"` // e.g., "Day 1: Upper Body"
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Order       int                `bson:"order" json:"order"`
	Exercises   []TemplateExercise `bson:"exercises" json:"exercises"`
}

// TemplateExercise is one prescribed exercise within a template day.
type TemplateExercise struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	VideoURL       string             `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	TrainerComment string             `bson:"trainerComment,omitempty" json:"trainerComment,omitempty"`
	MuscleGroup    MuscleGroup        `bson:"muscleGroup" json:"muscleGroup"`
	Order          int                `bson:"order" json:"order"`
	Sets           []TemplateSet      `bson:"sets" json:"sets"`
}

// TemplateSet is the prescription for a single working set.
type TemplateSet struct {
	SetNumber   int `bson:"setNumber" json:"setNumber"`
	MinReps     int `bson:"minReps" json:"minReps"`
	MaxReps     int `bson:"maxReps" json:"maxReps"`
	RestSeconds int `bson:"restSeconds" json:"restSeconds"`
}
