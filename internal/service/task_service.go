package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"lifeos/internal/model"
	"lifeos/internal/repository"
)

// TaskStats summarizes the task collection at the time of the call.
type TaskStats struct {
	Total          int
	Active         int
	Completed      int
	CompletionRate int // percent, 0 when no tasks exist
}

// TaskService owns the task collection and wires completions into the
// progress engine and the day ledger.
type TaskService struct {
	repo     *repository.TaskRepository
	progress *ProgressService
	ledger   *LedgerService
}

func NewTaskService(repo *repository.TaskRepository, progress *ProgressService, ledger *LedgerService) *TaskService {
	return &TaskService{repo: repo, progress: progress, ledger: ledger}
}

// Create adds a new task. Title must not be empty.
func (s *TaskService) Create(ctx context.Context, title string, priority model.Priority) (*model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !model.ValidPriority(priority) {
		return nil, fmt.Errorf("unknown priority %q", priority)
	}

	task := model.Task{
		ID:       uuid.NewString(),
		Title:    title,
		Priority: priority,
	}
	if err := s.repo.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) List(ctx context.Context) ([]model.Task, error) {
	return s.repo.ListAll(ctx)
}

func (s *TaskService) ListActive(ctx context.Context) ([]model.Task, error) {
	return s.repo.ListActive(ctx)
}

func (s *TaskService) Get(ctx context.Context, id string) (*model.Task, error) {
	return s.repo.FindByID(ctx, id)
}

// Update changes title and priority of an existing task.
func (s *TaskService) Update(ctx context.Context, id, title string, priority model.Priority) (*model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if !model.ValidPriority(priority) {
		return nil, fmt.Errorf("unknown priority %q", priority)
	}

	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	task.Title = title
	task.Priority = priority
	if err := s.repo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Toggle flips a task's completion state. Completing awards the priority's
// XP, advances the streak, and bumps the day ledger; uncompleting applies
// the exact mirror deltas against the recorded completion date, so toggling
// twice in a row is a net no-op on XP and ledger state.
func (s *TaskService) Toggle(ctx context.Context, id string, now time.Time) (*model.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	xp := XPForPriority(task.Priority)

	if !task.IsCompleted {
		completedAt := now
		task.IsCompleted = true
		task.CompletedAt = &completedAt
		if err := s.repo.Save(ctx, task); err != nil {
			return nil, err
		}

		s.progress.ApplyXPDelta(ctx, xp)
		s.progress.RecordCompletion(ctx, now)

		day := DayKey(now)
		if err := s.ledger.ApplyDelta(ctx, day, FieldTasksCompleted, 1); err != nil {
			return nil, err
		}
		if err := s.ledger.ApplyDelta(ctx, day, FieldXPEarned, float64(xp)); err != nil {
			return nil, err
		}
		return task, nil
	}

	day := DayKey(now)
	if task.CompletedAt != nil {
		day = DayKey(*task.CompletedAt)
	}
	task.IsCompleted = false
	task.CompletedAt = nil
	if err := s.repo.Save(ctx, task); err != nil {
		return nil, err
	}

	s.progress.ApplyXPDelta(ctx, -xp)
	if err := s.ledger.ApplyDelta(ctx, day, FieldTasksCompleted, -1); err != nil {
		return nil, err
	}
	if err := s.ledger.ApplyDelta(ctx, day, FieldXPEarned, float64(-xp)); err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes a task permanently. A completed task has its XP and ledger
// contributions reversed first; streak history is left as is.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if task.IsCompleted && task.CompletedAt != nil {
		xp := XPForPriority(task.Priority)
		day := DayKey(*task.CompletedAt)
		s.progress.ApplyXPDelta(ctx, -xp)
		if err := s.ledger.ApplyDelta(ctx, day, FieldTasksCompleted, -1); err != nil {
			return err
		}
		if err := s.ledger.ApplyDelta(ctx, day, FieldXPEarned, float64(-xp)); err != nil {
			return err
		}
	}

	return s.repo.Delete(ctx, id)
}

// RecentCompletions returns up to limit completed tasks, most recent first.
func (s *TaskService) RecentCompletions(ctx context.Context, limit int) ([]model.Task, error) {
	tasks, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var completed []model.Task
	for _, task := range tasks {
		if task.IsCompleted && task.CompletedAt != nil {
			completed = append(completed, task)
		}
	}
	// ListAll orders by creation time; order by completion time instead.
	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].CompletedAt.After(*completed[j].CompletedAt)
	})
	if len(completed) > limit {
		completed = completed[:limit]
	}
	return completed, nil
}

// Stats folds the current collection into summary numbers.
func (s *TaskService) Stats(ctx context.Context) (TaskStats, error) {
	tasks, err := s.repo.ListAll(ctx)
	if err != nil {
		return TaskStats{}, err
	}

	stats := TaskStats{Total: len(tasks)}
	for _, task := range tasks {
		if task.IsCompleted {
			stats.Completed++
		} else {
			stats.Active++
		}
	}
	if stats.Total > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	}
	return stats, nil
}
