// internal/domain/mesocycle.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mesocycle is one client's time-boxed assignment of a plan, spanning
// DurationWeeks weeks. It starts out bound to a shared Template; the first
// edit for this specific client forks the template into private Days.
//
// Invariant: exactly one of {TemplateID set, IsForked with Days populated}
// holds at any time. An unforked mesocycle without a template is corrupt.
type Mesocycle struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ClientID      primitive.ObjectID  `bson:"clientId" json:"clientId"`
	TrainerID     primitive.ObjectID  `bson:"trainerId" json:"trainerId"`
	StartDate     time.Time           `bson:"startDate" json:"startDate"`
	DurationWeeks int                 `bson:"durationWeeks" json:"durationWeeks"`
	EndDate       time.Time           `bson:"endDate" json:"endDate"` // startDate + durationWeeks*7 - 1 day
	IsActive      bool                `bson:"isActive" json:"isActive"`
	IsCompleted   bool                `bson:"isCompleted" json:"isCompleted"`
	CompletedAt   *time.Time          `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	IsForked      bool                `bson:"isForked" json:"isForked"`
	TemplateID    *primitive.ObjectID `bson:"templateId,omitempty" json:"templateId,omitempty"`
	PlanTitle     string              `bson:"planTitle,omitempty" json:"planTitle,omitempty"` // Snapshot of the template title, set at fork time
	TrainerNotes  string              `bson:"trainerNotes,omitempty" json:"trainerNotes,omitempty"`
	Days          []ClientDay         `bson:"days,omitempty" json:"days,omitempty"` // Populated only once forked
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// ClientDay mirrors TemplateDay but is owned by exactly one mesocycle.
// Edits here never touch the originating template or any other client.
type ClientDay struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DayNumber   int                `bson:"dayNumber" json:"dayNumber"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Order       int                `bson:"order" json:"order"`
	Exercises   []ClientExercise   `bson:"exercises" json:"exercises"`
}

// ClientExercise mirrors TemplateExercise on the forked side.
type ClientExercise struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name           string              `bson:"name" json:"name"`
	Description    string              `bson:"description,omitempty" json:"description,omitempty"`
	VideoURL       string              `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	TrainerComment string              `bson:"trainerComment,omitempty" json:"trainerComment,omitempty"`
	MuscleGroup    MuscleGroup         `bson:"muscleGroup" json:"muscleGroup"`
	Order          int                 `bson:"order" json:"order"`
	Sets           []ClientExerciseSet `bson:"sets" json:"sets"`
}

// ClientExerciseSet mirrors TemplateSet on the forked side.
type ClientExerciseSet struct {
	SetNumber   int `bson:"setNumber" json:"setNumber"`
	MinReps     int `bson:"minReps" json:"minReps"`
	MaxReps     int `bson:"maxReps" json:"maxReps"`
	RestSeconds int `bson:"restSeconds" json:"restSeconds"`
}

// ForkDays deep-copies a template's day tree into client-owned rows,
// preserving order. Day and exercise ids are carried over unchanged: workout
// logs reference exercises by id, and a log written before the fork must
// still match the same exercise after it.
func ForkDays(t *Template) []ClientDay {
	days := make([]ClientDay, 0, len(t.Days))
	for _, td := range t.Days {
		day := ClientDay{
			ID:          td.ID,
			DayNumber:   td.DayNumber,
			Name:        td.Name,
			Description: td.Description,
			Order:       td.Order,
			Exercises:   make([]ClientExercise, 0, len(td.Exercises)),
		}
		for _, te := range td.Exercises {
			ex := ClientExercise{
				ID:             te.ID,
				Name:           te.Name,
				Description:    te.Description,
				VideoURL:       te.VideoURL,
				TrainerComment: te.TrainerComment,
				MuscleGroup:    te.MuscleGroup,
				Order:          te.Order,
				Sets:           make([]ClientExerciseSet, 0, len(te.Sets)),
			}
			for _, ts := range te.Sets {
				ex.Sets = append(ex.Sets, ClientExerciseSet{
					SetNumber:   ts.SetNumber,
					MinReps:     ts.MinReps,
					MaxReps:     ts.MaxReps,
					RestSeconds: ts.RestSeconds,
				})
			}
			day.Exercises = append(day.Exercises, ex)
		}
		days = append(days, day)
	}
	return days
}
