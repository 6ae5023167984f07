// internal/service/progress_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"fitcoach/periodization-app/internal/domain"
	"fitcoach/periodization-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrNoActiveMesocycle = errors.New("client has no active mesocycle")
	// ErrInsufficientData means fewer than two weeks carry workout logs. An
	// expected condition, not a server failure; callers render "need more
	// data" rather than an error page.
	ErrInsufficientData = errors.New("fewer than two weeks with logged workouts")
)

// ProgressService is the read-only analytics engine: it compares weighted
// training volume between two microcycles of the client's active mesocycle.
type ProgressService interface {
	// CompareProgress compares two weeks. When the week numbers are nil the
	// two most recent data-bearing weeks are selected automatically.
	CompareProgress(ctx context.Context, clientID primitive.ObjectID, currentWeek, previousWeek *int, criterion domain.Criterion) (*domain.ProgressReport, error)
	// ProgressHistory produces one report per consecutive pair of
	// data-bearing weeks in the active mesocycle.
	ProgressHistory(ctx context.Context, clientID primitive.ObjectID, criterion domain.Criterion) ([]domain.ProgressReport, error)
}

// progressService implements the ProgressService interface.
type progressService struct {
	mesocycleRepo  repository.MesocycleRepository
	microcycleRepo repository.MicrocycleRepository
	workoutLogRepo repository.WorkoutLogRepository
}

// NewProgressService creates a new instance of progressService.
func NewProgressService(
	mesocycleRepo repository.MesocycleRepository,
	microcycleRepo repository.MicrocycleRepository,
	workoutLogRepo repository.WorkoutLogRepository,
) ProgressService {
	return &progressService{
		mesocycleRepo:  mesocycleRepo,
		microcycleRepo: microcycleRepo,
		workoutLogRepo: workoutLogRepo,
	}
}

// CompareProgress resolves the week pair and runs the pure comparison.
func (s *progressService) CompareProgress(ctx context.Context, clientID primitive.ObjectID, currentWeek, previousWeek *int, criterion domain.Criterion) (*domain.ProgressReport, error) {
	if !criterion.IsValid() {
		return nil, fmt.Errorf("%w: unknown criterion %q", ErrValidationFailed, criterion)
	}
	if (currentWeek == nil) != (previousWeek == nil) {
		return nil, fmt.Errorf("%w: currentWeek and previousWeek must be given together", ErrValidationFailed)
	}

	cycles, counts, err := s.activeWeeks(ctx, clientID)
	if err != nil {
		return nil, err
	}

	var curNum, prevNum int
	if currentWeek != nil {
		if *previousWeek >= *currentWeek {
			return nil, fmt.Errorf("%w: previousWeek must precede currentWeek", ErrValidationFailed)
		}
		curNum, prevNum = *currentWeek, *previousWeek
	} else {
		dataWeeks := dataBearingWeeks(cycles, counts)
		if len(dataWeeks) < 2 {
			return nil, ErrInsufficientData
		}
		curNum = dataWeeks[len(dataWeeks)-1]
		prevNum = dataWeeks[len(dataWeeks)-2]
	}

	currentLogs, err := s.weekLogs(ctx, cycles, curNum)
	if err != nil {
		return nil, err
	}
	previousLogs, err := s.weekLogs(ctx, cycles, prevNum)
	if err != nil {
		return nil, err
	}
	if len(currentLogs) == 0 || len(previousLogs) == 0 {
		return nil, ErrInsufficientData
	}

	report := CompareWeeks(currentLogs, previousLogs, curNum, prevNum, criterion)
	return &report, nil
}

// ProgressHistory walks consecutive data-bearing week pairs oldest-first.
func (s *progressService) ProgressHistory(ctx context.Context, clientID primitive.ObjectID, criterion domain.Criterion) ([]domain.ProgressReport, error) {
	if !criterion.IsValid() {
		return nil, fmt.Errorf("%w: unknown criterion %q", ErrValidationFailed, criterion)
	}

	cycles, counts, err := s.activeWeeks(ctx, clientID)
	if err != nil {
		return nil, err
	}

	dataWeeks := dataBearingWeeks(cycles, counts)
	reports := make([]domain.ProgressReport, 0)
	if len(dataWeeks) < 2 {
		return reports, nil
	}

	logsByWeek := make(map[int][]domain.WorkoutDayLog, len(dataWeeks))
	for _, week := range dataWeeks {
		logs, err := s.weekLogs(ctx, cycles, week)
		if err != nil {
			return nil, err
		}
		logsByWeek[week] = logs
	}

	for i := 1; i < len(dataWeeks); i++ {
		prev, cur := dataWeeks[i-1], dataWeeks[i]
		reports = append(reports, CompareWeeks(logsByWeek[cur], logsByWeek[prev], cur, prev, criterion))
	}
	return reports, nil
}

// activeWeeks loads the active mesocycle's week rows and their log counts.
func (s *progressService) activeWeeks(ctx context.Context, clientID primitive.ObjectID) ([]domain.Microcycle, map[primitive.ObjectID]int64, error) {
	mesocycle, err := s.mesocycleRepo.GetActiveByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrNoActiveMesocycle
		}
		return nil, nil, err
	}

	cycles, err := s.microcycleRepo.GetByMesocycleID(ctx, mesocycle.ID)
	if err != nil {
		return nil, nil, err
	}

	ids := make([]primitive.ObjectID, len(cycles))
	for i, c := range cycles {
		ids[i] = c.ID
	}
	counts, err := s.workoutLogRepo.CountByMicrocycleIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	return cycles, counts, nil
}

// weekLogs loads the logs of one week number.
func (s *progressService) weekLogs(ctx context.Context, cycles []domain.Microcycle, weekNumber int) ([]domain.WorkoutDayLog, error) {
	for _, c := range cycles {
		if c.WeekNumber == weekNumber {
			return s.workoutLogRepo.GetByMicrocycleID(ctx, c.ID)
		}
	}
	return nil, fmt.Errorf("%w: week %d", ErrMicrocycleNotFound, weekNumber)
}

// === Pure computation ===

// weekExercise is one exercise's logged sets pooled across a whole week.
type weekExercise struct {
	id          primitive.ObjectID
	name        string
	muscleGroup domain.MuscleGroup
	sets        []domain.SetLog
}

// groupSetsByExercise pools all of a week's sets per exercise identity,
// regardless of which day log they were performed in.
func groupSetsByExercise(logs []domain.WorkoutDayLog) map[primitive.ObjectID]*weekExercise {
	grouped := make(map[primitive.ObjectID]*weekExercise)
	for _, dayLog := range logs {
		for _, exLog := range dayLog.Exercises {
			entry, ok := grouped[exLog.ExerciseID]
			if !ok {
				entry = &weekExercise{
					id:          exLog.ExerciseID,
					name:        exLog.ExerciseName,
					muscleGroup: exLog.MuscleGroup,
				}
				grouped[exLog.ExerciseID] = entry
			}
			entry.sets = append(entry.sets, exLog.Sets...)
		}
	}
	return grouped
}

// exerciseVolume collapses a week's sets of one exercise into a scalar.
// balanced is the plain sum of reps x weight; the focused criteria add
// TopSetEmphasis times the emphasized set's volume on top, so a heavier top
// set (or a longer top rep-set) moves the number more than rep shuffling.
func exerciseVolume(sets []domain.SetLog, criterion domain.Criterion) float64 {
	var total float64
	for _, set := range sets {
		total += set.Volume()
	}
	if len(sets) == 0 {
		return total
	}

	switch criterion {
	case domain.CriterionWeightFocused:
		top := sets[0]
		for _, set := range sets[1:] {
			if set.Weight > top.Weight {
				top = set
			}
		}
		total += domain.TopSetEmphasis * top.Volume()
	case domain.CriterionRepsFocused:
		top := sets[0]
		for _, set := range sets[1:] {
			if set.Reps > top.Reps {
				top = set
			}
		}
		total += domain.TopSetEmphasis * top.Volume()
	}
	return total
}

// changePercent computes (current-previous)/previous*100, or nil when the
// baseline is zero. Never Inf, never NaN.
func changePercent(current, previous float64) *float64 {
	if previous == 0 {
		return nil
	}
	pct := (current - previous) / previous * 100
	return &pct
}

// weekBestSet finds the single highest reps x weight set of a week.
func weekBestSet(logs []domain.WorkoutDayLog) *domain.BestSet {
	var best *domain.BestSet
	for _, dayLog := range logs {
		for _, exLog := range dayLog.Exercises {
			for _, set := range exLog.Sets {
				volume := set.Volume()
				if best == nil || volume > best.Volume {
					best = &domain.BestSet{
						ExerciseName: exLog.ExerciseName,
						Reps:         set.Reps,
						Weight:       set.Weight,
						Volume:       volume,
					}
				}
			}
		}
	}
	return best
}

// CompareWeeks is the pure core of the analytics engine. Only exercises
// present in both weeks are compared; an exercise unique to one week has no
// baseline and is dropped. An empty intersection yields a report flagged
// InsufficientData rather than a zero-filled one.
func CompareWeeks(currentLogs, previousLogs []domain.WorkoutDayLog, currentWeek, previousWeek int, criterion domain.Criterion) domain.ProgressReport {
	report := domain.ProgressReport{
		CurrentWeek:  currentWeek,
		PreviousWeek: previousWeek,
		Criterion:    criterion,
	}

	current := groupSetsByExercise(currentLogs)
	previous := groupSetsByExercise(previousLogs)

	exercises := make([]domain.ExerciseProgress, 0, len(current))
	for id, cur := range current {
		prev, ok := previous[id]
		if !ok {
			continue
		}
		curVolume := exerciseVolume(cur.sets, criterion)
		prevVolume := exerciseVolume(prev.sets, criterion)
		pct := changePercent(curVolume, prevVolume)
		exercises = append(exercises, domain.ExerciseProgress{
			ExerciseID:          id,
			Name:                cur.name,
			MuscleGroup:         cur.muscleGroup,
			CurrentWeekVolume:   curVolume,
			PreviousWeekVolume:  prevVolume,
			VolumeChangePercent: pct,
			Trend:               domain.ClassifyTrend(pct),
		})
	}

	if len(exercises) == 0 {
		report.InsufficientData = true
		report.ExercisesProgress = exercises
		report.MuscleGroups = []domain.MuscleGroupProgress{}
		report.Trend = domain.TrendNoBaseline
		return report
	}

	sort.Slice(exercises, func(i, j int) bool {
		if exercises[i].Name != exercises[j].Name {
			return exercises[i].Name < exercises[j].Name
		}
		return exercises[i].ExerciseID.Hex() < exercises[j].ExerciseID.Hex()
	})
	report.ExercisesProgress = exercises

	// Muscle-group aggregation over the matched exercises.
	type groupTotals struct {
		current  float64
		previous float64
	}
	totalsByGroup := make(map[domain.MuscleGroup]*groupTotals)
	for _, ex := range exercises {
		totals, ok := totalsByGroup[ex.MuscleGroup]
		if !ok {
			totals = &groupTotals{}
			totalsByGroup[ex.MuscleGroup] = totals
		}
		totals.current += ex.CurrentWeekVolume
		totals.previous += ex.PreviousWeekVolume
	}

	groups := make([]domain.MuscleGroupProgress, 0, len(totalsByGroup))
	for mg, totals := range totalsByGroup {
		pct := changePercent(totals.current, totals.previous)
		groups = append(groups, domain.MuscleGroupProgress{
			MuscleGroup:         mg,
			CurrentWeekVolume:   totals.current,
			PreviousWeekVolume:  totals.previous,
			VolumeChangePercent: pct,
			Trend:               domain.ClassifyTrend(pct),
		})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].MuscleGroup < groups[j].MuscleGroup })
	report.MuscleGroups = groups

	// Global aggregation across all muscle groups.
	for _, g := range groups {
		report.TotalCurrentVolume += g.CurrentWeekVolume
		report.TotalPreviousVolume += g.PreviousWeekVolume
	}
	report.TotalChangePercent = changePercent(report.TotalCurrentVolume, report.TotalPreviousVolume)
	report.Trend = domain.ClassifyTrend(report.TotalChangePercent)

	// Best single set, current week vs previous week.
	report.BestSetCurrent = weekBestSet(currentLogs)
	report.BestSetPrevious = weekBestSet(previousLogs)
	if report.BestSetCurrent != nil && report.BestSetPrevious != nil {
		report.BestSetChangePercent = changePercent(report.BestSetCurrent.Volume, report.BestSetPrevious.Volume)
	}

	return report
}

// dataBearingWeeks returns the week numbers that have at least one workout
// log, ascending. The "current week" of a mesocycle is re-derived from log
// presence on purpose; keeping this a pure function keeps it testable.
func dataBearingWeeks(cycles []domain.Microcycle, counts map[primitive.ObjectID]int64) []int {
	weeks := make([]int, 0, len(cycles))
	for _, c := range cycles {
		if counts[c.ID] > 0 {
			weeks = append(weeks, c.WeekNumber)
		}
	}
	sort.Ints(weeks)
	return weeks
}
