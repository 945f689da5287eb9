package service

import (
	"alcyxob/fitness-records/internal/domain"
	"alcyxob/fitness-records/internal/parser"
	"alcyxob/fitness-records/internal/repository"
	"alcyxob/fitness-records/internal/storage"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrHistoryExportFailed = errors.New("failed to export exercise history")

const exportContentType = "application/json"

// HistoryEntry is one occurrence of an exercise in a client's workouts,
// re-derived from the stored exercise string and its completion.
type HistoryEntry struct {
	WorkoutID     primitive.ObjectID    `json:"workout_id"`
	WorkoutTitle  string                `json:"workout_title"`
	WorkoutDate   time.Time             `json:"workout_date"`
	ExerciseIndex int                   `json:"exercise_index"`
	Exercise      string                `json:"exercise"`
	Parsed        parser.ParsedExercise `json:"parsed"`
	Completed     bool                  `json:"completed"`
	Rating        domain.Rating         `json:"rating,omitempty"`
	CompletedAt   *time.Time            `json:"completed_at,omitempty"`
	BestSet       *domain.BestSet       `json:"bestSet,omitempty"`
}

// EffectiveDate is when the entry happened: the completion time if known,
// otherwise the workout date.
func (e HistoryEntry) EffectiveDate() time.Time {
	if e.CompletedAt != nil {
		return *e.CompletedAt
	}
	return e.WorkoutDate
}

// ExerciseHistory is the full replayed record of one exercise for one client.
type ExerciseHistory struct {
	ExerciseName   string             `json:"exercise_name"`
	Exercise       *domain.Exercise   `json:"exercise,omitempty"`
	CurrentPB      *domain.ExercisePB `json:"pb,omitempty"`
	PBHistory      []HistoryEntry     `json:"history"`
	WorkoutHistory []HistoryEntry     `json:"workoutHistory"`
}

// HistoryExport points at an archived copy of an ExerciseHistory.
type HistoryExport struct {
	ArchiveID   string    `json:"archiveId"`
	ObjectKey   string    `json:"objectKey"`
	DownloadURL string    `json:"downloadUrl"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type HistoryService interface {
	// BuildHistory replays every workout of the customer. Only the first
	// occurrence of the exercise within a workout is considered.
	BuildHistory(ctx context.Context, customerID primitive.ObjectID, exerciseName string) (*ExerciseHistory, error)
	// ExportHistory archives the rebuilt history as JSON in object storage.
	ExportHistory(ctx context.Context, customerID primitive.ObjectID, exerciseName string) (*HistoryExport, error)
	// ListExports returns the customer's earlier archives, newest first.
	ListExports(ctx context.Context, customerID primitive.ObjectID) ([]domain.HistoryArchive, error)
}

// historyService implements the HistoryService interface.
type historyService struct {
	userRepo     repository.UserRepository
	workoutRepo  repository.WorkoutRepository
	exerciseRepo repository.ExerciseRepository
	pbRepo       repository.PersonalBestRepository
	archiveRepo  repository.ArchiveRepository
	fileStorage  storage.FileStorage
	exportExpiry time.Duration
	now          func() time.Time
}

// NewHistoryService creates a new instance of historyService.
func NewHistoryService(
	userRepo repository.UserRepository,
	workoutRepo repository.WorkoutRepository,
	exerciseRepo repository.ExerciseRepository,
	pbRepo repository.PersonalBestRepository,
	archiveRepo repository.ArchiveRepository,
	fileStorage storage.FileStorage,
	exportExpiry time.Duration,
) HistoryService {
	if exportExpiry <= 0 {
		exportExpiry = storage.DefaultPresignedURLExpiry
	}
	return &historyService{
		userRepo:     userRepo,
		workoutRepo:  workoutRepo,
		exerciseRepo: exerciseRepo,
		pbRepo:       pbRepo,
		archiveRepo:  archiveRepo,
		fileStorage:  fileStorage,
		exportExpiry: exportExpiry,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *historyService) BuildHistory(ctx context.Context, customerID primitive.ObjectID, exerciseName string) (*ExerciseHistory, error) {
	if customerID == primitive.NilObjectID {
		return nil, ErrMissingIdentifier
	}
	name := parser.Normalize(exerciseName)
	if name == "" {
		return nil, ErrMissingExerciseName
	}

	customer, err := s.userRepo.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	exercise, err := s.exerciseRepo.FindByName(ctx, name, customer.TrainerID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		exercise = nil
	}

	currentPB, err := findPersonalBest(ctx, s.pbRepo, customerID, exercise, name)
	if err != nil {
		return nil, err
	}

	workouts, err := s.workoutRepo.ListByClient(ctx, customerID)
	if err != nil {
		return nil, err
	}

	history := &ExerciseHistory{
		ExerciseName:   name,
		Exercise:       exercise,
		CurrentPB:      currentPB,
		PBHistory:      []HistoryEntry{},
		WorkoutHistory: []HistoryEntry{},
	}
	for i := range workouts {
		entry, ok := historyEntryFor(&workouts[i], name)
		if !ok {
			continue
		}
		history.WorkoutHistory = append(history.WorkoutHistory, entry)
		if entry.BestSet != nil {
			history.PBHistory = append(history.PBHistory, entry)
		}
	}

	sortByEffectiveDateDesc(history.WorkoutHistory)
	sortByEffectiveDateDesc(history.PBHistory)
	return history, nil
}

// historyEntryFor locates the first exercise in the workout whose canonical
// name matches and joins it with its completion, if any.
func historyEntryFor(workout *domain.Workout, name string) (HistoryEntry, bool) {
	idx := -1
	for i, raw := range workout.Exercises {
		if parser.ExtractAndNormalize(raw) == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return HistoryEntry{}, false
	}

	entry := HistoryEntry{
		WorkoutID:     workout.ID,
		WorkoutTitle:  workout.Title,
		WorkoutDate:   workout.Date,
		ExerciseIndex: idx,
		Exercise:      workout.Exercises[idx],
		Parsed:        parser.Parse(workout.Exercises[idx]),
	}
	if c := workout.CompletionFor(idx); c != nil {
		entry.Completed = c.Completed
		entry.Rating = c.Rating
		if !c.CompletedAt.IsZero() {
			completedAt := c.CompletedAt
			entry.CompletedAt = &completedAt
		}
		if c.BestSet.IsPresent() {
			bestSet := *c.BestSet
			entry.BestSet = &bestSet
		}
	}
	return entry, true
}

func sortByEffectiveDateDesc(entries []HistoryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].EffectiveDate().After(entries[j].EffectiveDate())
	})
}

func (s *historyService) ExportHistory(ctx context.Context, customerID primitive.ObjectID, exerciseName string) (*HistoryExport, error) {
	history, err := s.BuildHistory(ctx, customerID, exerciseName)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(history)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHistoryExportFailed, err)
	}

	objectKey := path.Join("exports", customerID.Hex(), slugify(history.ExerciseName), uuid.NewString()+".json")
	if err := s.fileStorage.PutObject(ctx, objectKey, exportContentType, body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHistoryExportFailed, err)
	}

	archiveID, err := s.archiveRepo.Create(ctx, &domain.HistoryArchive{
		ClientID:     customerID,
		ExerciseName: history.ExerciseName,
		S3ObjectKey:  objectKey,
		ContentType:  exportContentType,
		Size:         int64(len(body)),
		CreatedAt:    s.now(),
	})
	if err != nil {
		// The object is already stored; without metadata it is only unlisted.
		return nil, fmt.Errorf("%w: record archive: %v", ErrHistoryExportFailed, err)
	}

	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, s.exportExpiry)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHistoryExportFailed, err)
	}

	return &HistoryExport{
		ArchiveID:   archiveID.Hex(),
		ObjectKey:   objectKey,
		DownloadURL: url,
		ExpiresAt:   s.now().Add(s.exportExpiry),
	}, nil
}

func (s *historyService) ListExports(ctx context.Context, customerID primitive.ObjectID) ([]domain.HistoryArchive, error) {
	if customerID == primitive.NilObjectID {
		return nil, ErrMissingIdentifier
	}
	return s.archiveRepo.ListByClient(ctx, customerID)
}

// slugify keeps object keys readable: "bench press (paused)" becomes "bench-press-paused".
func slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "exercise"
	}
	return slug
}
