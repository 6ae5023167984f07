// internal/domain/mesocycle_test.go
package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func forkableTemplate() *Template {
	return &Template{
		ID:           primitive.NewObjectID(),
		TrainerID:    primitive.NewObjectID(),
		Title:        "Push/Pull",
		NumberOfDays: 1,
		Days: []TemplateDay{
			{
				ID:        primitive.NewObjectID(),
				DayNumber: 1,
				Name:      "Day 1: Push",
				Order:     1,
				Exercises: []TemplateExercise{
					{
						ID:          primitive.NewObjectID(),
						Name:        "Overhead Press",
						MuscleGroup: MuscleGroupUpperBody,
						Order:       1,
						Sets: []TemplateSet{
							{SetNumber: 1, MinReps: 6, MaxReps: 8, RestSeconds: 150},
						},
					},
				},
			},
		},
	}
}

func TestForkDays_PreservesIdentity(t *testing.T) {
	template := forkableTemplate()
	days := ForkDays(template)

	require.Len(t, days, 1)
	assert.Equal(t, template.Days[0].ID, days[0].ID)
	assert.Equal(t, template.Days[0].Exercises[0].ID, days[0].Exercises[0].ID)
	assert.Equal(t, "Overhead Press", days[0].Exercises[0].Name)
	require.Len(t, days[0].Exercises[0].Sets, 1)
	assert.Equal(t, 6, days[0].Exercises[0].Sets[0].MinReps)
}

func TestForkDays_DeepCopy(t *testing.T) {
	template := forkableTemplate()
	days := ForkDays(template)

	days[0].Name = "Renamed"
	days[0].Exercises[0].Name = "Push Press"
	days[0].Exercises[0].Sets[0].MinReps = 12

	assert.Equal(t, "Day 1: Push", template.Days[0].Name)
	assert.Equal(t, "Overhead Press", template.Days[0].Exercises[0].Name)
	assert.Equal(t, 6, template.Days[0].Exercises[0].Sets[0].MinReps)
}

func TestPlanSourceVariants(t *testing.T) {
	template := forkableTemplate()

	var source PlanSource = TemplateBasedPlan{Template: template}
	assert.False(t, source.Forked())
	assert.Equal(t, "Push/Pull", source.Title())
	assert.Equal(t, 1, source.DayCount())
	require.Len(t, source.Days(), 1)

	source = ForkedPlan{PlanTitle: "Push/Pull", ClientDays: ForkDays(template)}
	assert.True(t, source.Forked())
	assert.Equal(t, "Push/Pull", source.Title())
	assert.Equal(t, 1, source.DayCount())
}

func TestTemplateBasedPlanDaysAreProjection(t *testing.T) {
	template := forkableTemplate()
	source := TemplateBasedPlan{Template: template}

	days := source.Days()
	days[0].Exercises[0].Name = "Mutated"

	assert.Equal(t, "Overhead Press", template.Days[0].Exercises[0].Name)
}
