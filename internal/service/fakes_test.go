// internal/service/fakes_test.go
package service

import (
	"context"
	"sort"
	"time"

	"fitcoach/periodization-app/internal/domain"
	"fitcoach/periodization-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. They mirror the semantics the mongo
// implementations promise, including the compare-and-swap in MarkForked, so
// service tests exercise the same contracts without a database.

type fakeTxRunner struct {
	calls int
}

func (t *fakeTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

// --- users ---

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	clone := *user
	r.users[user.ID] = &clone
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) AddClientIDToTrainer(_ context.Context, trainerID, clientID primitive.ObjectID) error {
	trainer, ok := r.users[trainerID]
	if !ok {
		return repository.ErrNotFound
	}
	trainer.ClientIDs = append(trainer.ClientIDs, clientID)
	return nil
}

func (r *fakeUserRepo) GetClientsByTrainerID(_ context.Context, trainerID primitive.ObjectID) ([]domain.User, error) {
	var clients []domain.User
	for _, u := range r.users {
		if u.TrainerID != nil && *u.TrainerID == trainerID {
			clients = append(clients, *u)
		}
	}
	return clients, nil
}

func (r *fakeUserRepo) SetTrainerForClient(_ context.Context, clientID, trainerID primitive.ObjectID) error {
	client, ok := r.users[clientID]
	if !ok {
		return repository.ErrNotFound
	}
	client.TrainerID = &trainerID
	return nil
}

// --- templates ---

type fakeTemplateRepo struct {
	templates map[primitive.ObjectID]*domain.Template
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: make(map[primitive.ObjectID]*domain.Template)}
}

func (r *fakeTemplateRepo) Create(_ context.Context, template *domain.Template) (primitive.ObjectID, error) {
	if template.ID.IsZero() {
		template.ID = primitive.NewObjectID()
	}
	for i := range template.Days {
		if template.Days[i].ID.IsZero() {
			template.Days[i].ID = primitive.NewObjectID()
		}
		for j := range template.Days[i].Exercises {
			if template.Days[i].Exercises[j].ID.IsZero() {
				template.Days[i].Exercises[j].ID = primitive.NewObjectID()
			}
		}
	}
	clone := *template
	r.templates[template.ID] = &clone
	return template.ID, nil
}

func (r *fakeTemplateRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Template, error) {
	t, ok := r.templates[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *fakeTemplateRepo) GetByTrainerID(_ context.Context, trainerID primitive.ObjectID) ([]domain.Template, error) {
	var out []domain.Template
	for _, t := range r.templates {
		if t.TrainerID == trainerID && !t.Archived {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTemplateRepo) Update(_ context.Context, template *domain.Template) error {
	if _, ok := r.templates[template.ID]; !ok {
		return repository.ErrNotFound
	}
	clone := *template
	r.templates[template.ID] = &clone
	return nil
}

func (r *fakeTemplateRepo) Archive(_ context.Context, id, trainerID primitive.ObjectID) error {
	t, ok := r.templates[id]
	if !ok || t.TrainerID != trainerID {
		return repository.ErrNotFound
	}
	t.Archived = true
	return nil
}

// --- mesocycles ---

type fakeMesocycleRepo struct {
	mesocycles      map[primitive.ObjectID]*domain.Mesocycle
	markForkedCalls int
	// beforeMarkForked, when set, runs just before the compare-and-swap.
	// Tests use it to interleave a rival fork.
	beforeMarkForked func()
}

func newFakeMesocycleRepo() *fakeMesocycleRepo {
	return &fakeMesocycleRepo{mesocycles: make(map[primitive.ObjectID]*domain.Mesocycle)}
}

func (r *fakeMesocycleRepo) Create(_ context.Context, mesocycle *domain.Mesocycle) (primitive.ObjectID, error) {
	if mesocycle.ID.IsZero() {
		mesocycle.ID = primitive.NewObjectID()
	}
	clone := *mesocycle
	r.mesocycles[mesocycle.ID] = &clone
	return mesocycle.ID, nil
}

func (r *fakeMesocycleRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Mesocycle, error) {
	m, ok := r.mesocycles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *fakeMesocycleRepo) GetActiveByClientID(_ context.Context, clientID primitive.ObjectID) (*domain.Mesocycle, error) {
	for _, m := range r.mesocycles {
		if m.ClientID == clientID && m.IsActive {
			clone := *m
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeMesocycleRepo) DeactivateActiveForClient(_ context.Context, clientID primitive.ObjectID) error {
	now := time.Now().UTC()
	for _, m := range r.mesocycles {
		if m.ClientID == clientID && m.IsActive {
			m.IsActive = false
			m.IsCompleted = true
			m.CompletedAt = &now
		}
	}
	return nil
}

func (r *fakeMesocycleRepo) MarkForked(_ context.Context, id primitive.ObjectID, planTitle string, days []domain.ClientDay) error {
	r.markForkedCalls++
	if r.beforeMarkForked != nil {
		r.beforeMarkForked()
	}
	m, ok := r.mesocycles[id]
	if !ok {
		return repository.ErrNotFound
	}
	if m.IsForked {
		return repository.ErrAlreadyForked
	}
	m.IsForked = true
	m.TemplateID = nil
	m.PlanTitle = planTitle
	m.Days = days
	return nil
}

func (r *fakeMesocycleRepo) UpdateClientExercise(_ context.Context, mesocycleID, dayID primitive.ObjectID, exercise domain.ClientExercise) error {
	m, ok := r.mesocycles[mesocycleID]
	if !ok {
		return repository.ErrNotFound
	}
	for i := range m.Days {
		if m.Days[i].ID != dayID {
			continue
		}
		for j := range m.Days[i].Exercises {
			if m.Days[i].Exercises[j].ID == exercise.ID {
				m.Days[i].Exercises[j] = exercise
				return nil
			}
		}
	}
	return repository.ErrNotFound
}

// --- microcycles ---

type fakeMicrocycleRepo struct {
	cycles map[primitive.ObjectID]*domain.Microcycle
}

func newFakeMicrocycleRepo() *fakeMicrocycleRepo {
	return &fakeMicrocycleRepo{cycles: make(map[primitive.ObjectID]*domain.Microcycle)}
}

func (r *fakeMicrocycleRepo) CreateMany(_ context.Context, cycles []domain.Microcycle) error {
	for i := range cycles {
		clone := cycles[i]
		if clone.ID.IsZero() {
			clone.ID = primitive.NewObjectID()
		}
		r.cycles[clone.ID] = &clone
	}
	return nil
}

func (r *fakeMicrocycleRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Microcycle, error) {
	c, ok := r.cycles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *fakeMicrocycleRepo) GetByMesocycleID(_ context.Context, mesocycleID primitive.ObjectID) ([]domain.Microcycle, error) {
	var out []domain.Microcycle
	for _, c := range r.cycles {
		if c.MesocycleID == mesocycleID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekNumber < out[j].WeekNumber })
	return out, nil
}

func (r *fakeMicrocycleRepo) GetByMesocycleAndWeek(_ context.Context, mesocycleID primitive.ObjectID, weekNumber int) (*domain.Microcycle, error) {
	for _, c := range r.cycles {
		if c.MesocycleID == mesocycleID && c.WeekNumber == weekNumber {
			clone := *c
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

// --- workout logs ---

type fakeWorkoutLogRepo struct {
	logs map[primitive.ObjectID]*domain.WorkoutDayLog
}

func newFakeWorkoutLogRepo() *fakeWorkoutLogRepo {
	return &fakeWorkoutLogRepo{logs: make(map[primitive.ObjectID]*domain.WorkoutDayLog)}
}

func (r *fakeWorkoutLogRepo) Create(_ context.Context, log *domain.WorkoutDayLog) (primitive.ObjectID, error) {
	if log.ID.IsZero() {
		log.ID = primitive.NewObjectID()
	}
	log.CreatedAt = time.Now().UTC()
	log.UpdatedAt = log.CreatedAt
	clone := *log
	r.logs[log.ID] = &clone
	return log.ID, nil
}

func (r *fakeWorkoutLogRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutDayLog, error) {
	l, ok := r.logs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *l
	return &clone, nil
}

func (r *fakeWorkoutLogRepo) GetByMicrocycleID(_ context.Context, microcycleID primitive.ObjectID) ([]domain.WorkoutDayLog, error) {
	var out []domain.WorkoutDayLog
	for _, l := range r.logs {
		if l.MicrocycleID == microcycleID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedDate.Before(out[j].CompletedDate) })
	return out, nil
}

func (r *fakeWorkoutLogRepo) Replace(_ context.Context, log *domain.WorkoutDayLog) error {
	existing, ok := r.logs[log.ID]
	if !ok || existing.ClientID != log.ClientID {
		return repository.ErrNotFound
	}
	log.UpdatedAt = time.Now().UTC()
	clone := *log
	r.logs[log.ID] = &clone
	return nil
}

func (r *fakeWorkoutLogRepo) Delete(_ context.Context, id, clientID primitive.ObjectID) error {
	existing, ok := r.logs[id]
	if !ok || existing.ClientID != clientID {
		return repository.ErrNotFound
	}
	delete(r.logs, id)
	return nil
}

func (r *fakeWorkoutLogRepo) CountByMicrocycleIDs(_ context.Context, microcycleIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	counts := make(map[primitive.ObjectID]int64)
	for _, id := range microcycleIDs {
		for _, l := range r.logs {
			if l.MicrocycleID == id {
				counts[id]++
			}
		}
	}
	return counts, nil
}
