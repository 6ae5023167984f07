// internal/domain/microcycle.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Microcycle is one week within a mesocycle, the unit workouts are logged
// against. Exactly durationWeeks of these are created at assignment time and
// never re-derived afterwards.
type Microcycle struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MesocycleID primitive.ObjectID `bson:"mesocycleId" json:"mesocycleId"`
	WeekNumber  int                `bson:"weekNumber" json:"weekNumber"` // 1..durationWeeks
	StartDate   time.Time          `bson:"startDate" json:"startDate"`
	EndDate     time.Time          `bson:"endDate" json:"endDate"` // startDate + 6 days
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// BuildMicrocycles lays out weekNumber 1..durationWeeks as contiguous,
// non-overlapping 7-day windows starting at startDate.
func BuildMicrocycles(mesocycleID primitive.ObjectID, startDate time.Time, durationWeeks int, now time.Time) []Microcycle {
	cycles := make([]Microcycle, 0, durationWeeks)
	for week := 1; week <= durationWeeks; week++ {
		weekStart := startDate.AddDate(0, 0, (week-1)*7)
		cycles = append(cycles, Microcycle{
			ID:          primitive.NewObjectID(),
			MesocycleID: mesocycleID,
			WeekNumber:  week,
			StartDate:   weekStart,
			EndDate:     weekStart.AddDate(0, 0, 6),
			CreatedAt:   now,
		})
	}
	return cycles
}
