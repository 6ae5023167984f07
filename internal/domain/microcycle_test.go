// internal/domain/microcycle_test.go
package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildMicrocycles_ContiguousWindows(t *testing.T) {
	mesocycleID := primitive.NewObjectID()
	start := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC) // a Monday
	now := time.Now().UTC()

	cycles := BuildMicrocycles(mesocycleID, start, 6, now)

	require.Len(t, cycles, 6)
	for i, c := range cycles {
		assert.Equal(t, mesocycleID, c.MesocycleID)
		assert.Equal(t, i+1, c.WeekNumber)
		assert.Equal(t, start.AddDate(0, 0, i*7), c.StartDate)
		assert.Equal(t, c.StartDate.AddDate(0, 0, 6), c.EndDate)
		assert.False(t, c.ID.IsZero())
	}

	// No gap and no overlap between adjacent weeks.
	for i := 1; i < len(cycles); i++ {
		assert.Equal(t, cycles[i-1].EndDate.AddDate(0, 0, 1), cycles[i].StartDate)
	}
}

func TestBuildMicrocycles_SingleWeek(t *testing.T) {
	start := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	cycles := BuildMicrocycles(primitive.NewObjectID(), start, 1, time.Now().UTC())

	require.Len(t, cycles, 1)
	assert.Equal(t, start, cycles[0].StartDate)
	assert.Equal(t, start.AddDate(0, 0, 6), cycles[0].EndDate)
}
