package service

import (
	"alcyxob/fitness-records/internal/domain"
	"alcyxob/fitness-records/internal/repository"
	"context"
	"errors"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[primitive.ObjectID]*domain.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type fakeWorkoutRepo struct {
	workouts  map[primitive.ObjectID]*domain.Workout
	updateErr error
	updates   int
}

func newFakeWorkoutRepo(workouts ...*domain.Workout) *fakeWorkoutRepo {
	r := &fakeWorkoutRepo{workouts: map[primitive.ObjectID]*domain.Workout{}}
	for _, w := range workouts {
		r.workouts[w.ID] = w
	}
	return r
}

func (r *fakeWorkoutRepo) GetByIDForClient(ctx context.Context, id, clientID primitive.ObjectID) (*domain.Workout, error) {
	w, ok := r.workouts[id]
	if !ok || w.ClientID != clientID {
		return nil, repository.ErrNotFound
	}
	return copyWorkout(w), nil
}

func (r *fakeWorkoutRepo) UpdateCompletions(ctx context.Context, id primitive.ObjectID, completions []domain.ExerciseCompletion, updatedAt time.Time) (*domain.Workout, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	w, ok := r.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	r.updates++
	w.ExerciseCompletions = append([]domain.ExerciseCompletion(nil), completions...)
	w.UpdatedAt = updatedAt
	return copyWorkout(w), nil
}

func (r *fakeWorkoutRepo) ListByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.Workout, error) {
	var out []domain.Workout
	for _, w := range r.workouts {
		if w.ClientID == clientID {
			out = append(out, *copyWorkout(w))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func copyWorkout(w *domain.Workout) *domain.Workout {
	cp := *w
	cp.Exercises = append([]string(nil), w.Exercises...)
	cp.ExerciseCompletions = append([]domain.ExerciseCompletion(nil), w.ExerciseCompletions...)
	return &cp
}

type fakeExerciseRepo struct {
	exercises []*domain.Exercise
	createErr error
	// raceOnCreate simulates a concurrent writer inserting the row just before us.
	raceOnCreate bool
	creates      int
}

func (r *fakeExerciseRepo) FindByName(ctx context.Context, name string, trainerID *primitive.ObjectID) (*domain.Exercise, error) {
	var legacy *domain.Exercise
	for _, e := range r.exercises {
		if e.Name != name {
			continue
		}
		if e.TrainerID == nil {
			legacy = e
			continue
		}
		if trainerID != nil && *e.TrainerID == *trainerID {
			cp := *e
			return &cp, nil
		}
	}
	if legacy != nil {
		cp := *legacy
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeExerciseRepo) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if r.createErr != nil {
		return primitive.NilObjectID, r.createErr
	}
	if r.raceOnCreate {
		r.raceOnCreate = false
		winner := *exercise
		winner.ID = primitive.NewObjectID()
		r.exercises = append(r.exercises, &winner)
		return primitive.NilObjectID, repository.ErrDuplicate
	}
	r.creates++
	stored := *exercise
	stored.ID = primitive.NewObjectID()
	r.exercises = append(r.exercises, &stored)
	return stored.ID, nil
}

func (r *fakeExerciseRepo) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, e := range r.exercises {
		if e.TrainerID != nil && *e.TrainerID == trainerID {
			out = append(out, *e)
		}
	}
	return out, nil
}

type fakePBRepo struct {
	pbs []*domain.ExercisePB
	// raceOnCreate simulates a concurrent writer inserting the row just before us.
	raceOnCreate bool
	findErr      error
	creates      int
	updates      int
}

func (r *fakePBRepo) FindByExerciseID(ctx context.Context, customerID, exerciseID primitive.ObjectID) (*domain.ExercisePB, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, pb := range r.pbs {
		if pb.CustomerID == customerID && pb.ExerciseID != nil && *pb.ExerciseID == exerciseID {
			cp := *pb
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakePBRepo) FindByExerciseName(ctx context.Context, customerID primitive.ObjectID, exerciseName string) (*domain.ExercisePB, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, pb := range r.pbs {
		if pb.CustomerID == customerID && pb.ExerciseName == exerciseName {
			cp := *pb
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakePBRepo) Create(ctx context.Context, pb *domain.ExercisePB) (primitive.ObjectID, error) {
	if r.raceOnCreate {
		r.raceOnCreate = false
		winner := *pb
		winner.ID = primitive.NewObjectID()
		winner.BestSet = domain.BestSet{Reps: "1"}
		r.pbs = append(r.pbs, &winner)
		return primitive.NilObjectID, repository.ErrDuplicate
	}
	r.creates++
	stored := *pb
	stored.ID = primitive.NewObjectID()
	r.pbs = append(r.pbs, &stored)
	return stored.ID, nil
}

func (r *fakePBRepo) Update(ctx context.Context, pb *domain.ExercisePB) error {
	for i, existing := range r.pbs {
		if existing.ID == pb.ID {
			r.updates++
			stored := *pb
			stored.CreatedAt = existing.CreatedAt
			r.pbs[i] = &stored
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakePBRepo) ListByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]domain.ExercisePB, error) {
	var out []domain.ExercisePB
	for _, pb := range r.pbs {
		if pb.CustomerID == customerID {
			out = append(out, *pb)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExerciseName < out[j].ExerciseName })
	return out, nil
}

type fakeArchiveRepo struct {
	archives  []domain.HistoryArchive
	createErr error
}

func (r *fakeArchiveRepo) Create(ctx context.Context, archive *domain.HistoryArchive) (primitive.ObjectID, error) {
	if r.createErr != nil {
		return primitive.NilObjectID, r.createErr
	}
	archive.ID = primitive.NewObjectID()
	r.archives = append(r.archives, *archive)
	return archive.ID, nil
}

func (r *fakeArchiveRepo) ListByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.HistoryArchive, error) {
	out := []domain.HistoryArchive{}
	for i := len(r.archives) - 1; i >= 0; i-- {
		if r.archives[i].ClientID == clientID {
			out = append(out, r.archives[i])
		}
	}
	return out, nil
}

// stubPBService lets completion tests observe or break reconciliation.
type stubPBService struct {
	calls []ReconcileInput
	err   error
}

func (s *stubPBService) Reconcile(ctx context.Context, in ReconcileInput) (bool, error) {
	s.calls = append(s.calls, in)
	if s.err != nil {
		return false, s.err
	}
	return true, nil
}

func (s *stubPBService) ListPersonalBests(ctx context.Context, customerID primitive.ObjectID) ([]domain.ExercisePB, error) {
	return nil, errors.New("not implemented")
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
