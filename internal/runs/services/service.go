package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	moulinetteModels "go-mouli/internal/moulinettes/models"
	projectModels "go-mouli/internal/projects/models"
	"go-mouli/internal/runs/models"
	"go-mouli/pkg/ability"
	"go-mouli/pkg/errs"
)

// Store is the persistence surface the service depends on
type Store interface {
	GetByID(ctx context.Context, id string) (*models.Run, error)
	List(ctx context.Context, filter bson.M, page, limit int) ([]models.Run, int64, error)
	Create(ctx context.Context, run *models.Run) error
	Update(ctx context.Context, id string, updates bson.M) error
	Delete(ctx context.Context, id string) error
	MarkStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// ProjectDirectory validates project references
type ProjectDirectory interface {
	GetByID(ctx context.Context, id string) (*projectModels.Project, error)
}

// SourceDirectory validates moulinette source references
type SourceDirectory interface {
	GetSourceByID(ctx context.Context, id string) (*moulinetteModels.MoulinetteSource, error)
}

// Service implements run business logic
type Service struct {
	store    Store
	projects ProjectDirectory
	sources  SourceDirectory
}

// NewService creates a new service instance
func NewService(store Store, projects ProjectDirectory, sources SourceDirectory) *Service {
	return &Service{store: store, projects: projects, sources: sources}
}

// CreateRun requests a grading run for the acting account. The
// capability is checked first; missing referenced entities are then
// reported as bad input.
func (s *Service) CreateRun(ctx context.Context, acting ability.Snapshot, projectID, sourceID string) (*models.Run, error) {
	if !ability.ForAccount(acting).Can(ability.ActionCreate, ability.ResourceRun) {
		return nil, errs.ErrForbidden
	}

	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, fmt.Errorf("project %s does not exist: %w", projectID, errs.ErrBadRequest)
		}
		return nil, err
	}
	source, err := s.sources.GetSourceByID(ctx, sourceID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, fmt.Errorf("moulinette source %s does not exist: %w", sourceID, errs.ErrBadRequest)
		}
		return nil, err
	}

	run := &models.Run{
		ID:                 uuid.New().String(),
		ProjectID:          projectID,
		MoulinetteSourceID: source.ID,
		AccountID:          acting.ID,
		Status:             models.StatusPending,
		CreatedAt:          time.Now(),
	}
	if err := s.store.Create(ctx, run); err != nil {
		return nil, err
	}

	slog.Info("Run created", "run_id", run.ID, "project_id", projectID, "account_id", acting.ID)
	return run, nil
}

// GetRun returns one run. The record is loaded first so own-scoped
// read grants can be evaluated against it.
func (s *Service) GetRun(ctx context.Context, acting ability.Snapshot, id string) (*models.Run, error) {
	run, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ability.ForAccount(acting).Can(ability.ActionRead, run) {
		return nil, errs.ErrForbidden
	}
	return run, nil
}

// ListRuns returns a page of runs. Callers with the resource-wide read
// capability may list any account's runs; own-scoped readers are
// restricted to their own, checked against a representative instance.
func (s *Service) ListRuns(ctx context.Context, acting ability.Snapshot, accountID, projectID string, page, limit int) ([]models.Run, int64, error) {
	if accountID == "" && !ability.ForAccount(acting).Can(ability.ActionRead, ability.ResourceRun) {
		accountID = acting.ID
	}
	if accountID != "" {
		probe := &models.Run{AccountID: accountID}
		if !ability.ForAccount(acting).Can(ability.ActionRead, probe) {
			return nil, 0, errs.ErrForbidden
		}
	}

	filter := bson.M{}
	if accountID != "" {
		filter["account_id"] = accountID
	}
	if projectID != "" {
		filter["project_id"] = projectID
	}
	return s.store.List(ctx, filter, page, limit)
}

// UpdateStatus advances a run through its lifecycle. Only manage-level
// grants satisfy the update check since graders, not requesters, drive
// run state. Illegal transitions are bad input.
func (s *Service) UpdateStatus(ctx context.Context, acting ability.Snapshot, id string, next models.RunStatus, score *float64, output string) (*models.Run, error) {
	run, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ability.ForAccount(acting).Can(ability.ActionUpdate, run) {
		return nil, errs.ErrForbidden
	}

	if !run.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("run %s cannot move from %s to %s: %w", id, run.Status, next, errs.ErrBadRequest)
	}

	now := time.Now()
	updates := bson.M{"status": next}
	switch {
	case next == models.StatusRunning:
		updates["started_at"] = now
	case next.Terminal():
		updates["finished_at"] = now
		if score != nil {
			updates["score"] = *score
		}
		if output != "" {
			updates["output"] = output
		}
	}

	if err := s.store.Update(ctx, id, updates); err != nil {
		return nil, err
	}
	slog.Info("Run status updated", "run_id", id, "from", run.Status, "to", next, "updated_by", acting.ID)
	return s.store.GetByID(ctx, id)
}

// DeleteRun removes a run
func (s *Service) DeleteRun(ctx context.Context, acting ability.Snapshot, id string) error {
	run, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !ability.ForAccount(acting).Can(ability.ActionDelete, run) {
		return errs.ErrForbidden
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("Run deleted", "run_id", id, "deleted_by", acting.ID)
	return nil
}

// ExpireStale errors out runs that never reached a terminal state
// within the given age. Called from the module's background task, so
// no acting account is involved.
func (s *Service) ExpireStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	return s.store.MarkStale(ctx, time.Now().Add(-olderThan))
}
