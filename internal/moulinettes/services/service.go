package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"go-mouli/internal/moulinettes/models"
	projectModels "go-mouli/internal/projects/models"
	"go-mouli/pkg/ability"
	"go-mouli/pkg/errs"
)

// Store is the persistence surface the service depends on
type Store interface {
	GetByID(ctx context.Context, id string) (*models.Moulinette, error)
	List(ctx context.Context, projectID string, page, limit int) ([]models.Moulinette, int64, error)
	Create(ctx context.Context, moulinette *models.Moulinette) error
	Update(ctx context.Context, id string, updates bson.M) error
	Delete(ctx context.Context, id string) error

	GetSourceByID(ctx context.Context, id string) (*models.MoulinetteSource, error)
	ListSources(ctx context.Context, moulinetteID string) ([]models.MoulinetteSource, error)
	LatestSource(ctx context.Context, moulinetteID string) (*models.MoulinetteSource, error)
	CreateSource(ctx context.Context, source *models.MoulinetteSource) error
	DeleteSource(ctx context.Context, id string) error
}

// ProjectDirectory is the slice of the projects service used to
// validate moulinette references.
type ProjectDirectory interface {
	GetByID(ctx context.Context, id string) (*projectModels.Project, error)
}

// Service implements moulinette business logic
type Service struct {
	store    Store
	projects ProjectDirectory
}

// NewService creates a new service instance
func NewService(store Store, projects ProjectDirectory) *Service {
	return &Service{store: store, projects: projects}
}

// CreateMoulinette registers a moulinette maintained by the acting
// account. A missing referenced project is reported as bad input.
func (s *Service) CreateMoulinette(ctx context.Context, acting ability.Snapshot, projectID, name, repository string, isOfficial bool) (*models.Moulinette, error) {
	if !ability.ForAccount(acting).Can(ability.ActionCreate, ability.ResourceMoulinette) {
		return nil, errs.ErrForbidden
	}

	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, fmt.Errorf("project %s does not exist: %w", projectID, errs.ErrBadRequest)
		}
		return nil, err
	}

	now := time.Now()
	moulinette := &models.Moulinette{
		ID:           uuid.New().String(),
		ProjectID:    projectID,
		MaintainerID: acting.ID,
		Name:         name,
		Repository:   repository,
		IsOfficial:   isOfficial,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, moulinette); err != nil {
		return nil, err
	}

	slog.Info("Moulinette created", "moulinette_id", moulinette.ID, "project_id", projectID, "maintainer_id", acting.ID)
	return moulinette, nil
}

// GetMoulinette returns one moulinette
func (s *Service) GetMoulinette(ctx context.Context, acting ability.Snapshot, id string) (*models.Moulinette, error) {
	moulinette, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ability.ForAccount(acting).Can(ability.ActionRead, moulinette) {
		return nil, errs.ErrForbidden
	}
	return moulinette, nil
}

// ListMoulinettes returns a page of moulinettes, optionally scoped to
// one project. Requires the resource-wide read capability.
func (s *Service) ListMoulinettes(ctx context.Context, acting ability.Snapshot, projectID string, page, limit int) ([]models.Moulinette, int64, error) {
	if !ability.ForAccount(acting).Can(ability.ActionRead, ability.ResourceMoulinette) {
		return nil, 0, errs.ErrForbidden
	}
	return s.store.List(ctx, projectID, page, limit)
}

// UpdateMoulinette applies field updates after checking the ability
// against the loaded record.
func (s *Service) UpdateMoulinette(ctx context.Context, acting ability.Snapshot, id string, updates bson.M) (*models.Moulinette, error) {
	moulinette, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ability.ForAccount(acting).Can(ability.ActionUpdate, moulinette) {
		return nil, errs.ErrForbidden
	}

	if len(updates) > 0 {
		if err := s.store.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.store.GetByID(ctx, id)
}

// DeleteMoulinette removes a moulinette and its published sources
func (s *Service) DeleteMoulinette(ctx context.Context, acting ability.Snapshot, id string) error {
	moulinette, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !ability.ForAccount(acting).Can(ability.ActionDelete, moulinette) {
		return errs.ErrForbidden
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("Moulinette deleted", "moulinette_id", id, "deleted_by", acting.ID)
	return nil
}

// PublishSource publishes an immutable version of a moulinette. The
// create capability is checked against the bare source tag; the parent
// must exist, and a duplicate version surfaces as a conflict.
func (s *Service) PublishSource(ctx context.Context, acting ability.Snapshot, moulinetteID, version, tarballURL, checksum string) (*models.MoulinetteSource, error) {
	if !ability.ForAccount(acting).Can(ability.ActionCreate, ability.ResourceMoulinetteSource) {
		return nil, errs.ErrForbidden
	}

	moulinette, err := s.store.GetByID(ctx, moulinetteID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, fmt.Errorf("moulinette %s does not exist: %w", moulinetteID, errs.ErrBadRequest)
		}
		return nil, err
	}

	source := &models.MoulinetteSource{
		ID:           uuid.New().String(),
		MoulinetteID: moulinette.ID,
		MaintainerID: moulinette.MaintainerID,
		Version:      version,
		TarballURL:   tarballURL,
		Checksum:     checksum,
		PublishedAt:  time.Now(),
	}
	if err := s.store.CreateSource(ctx, source); err != nil {
		return nil, err
	}

	slog.Info("Moulinette source published", "source_id", source.ID, "moulinette_id", moulinette.ID, "version", version)
	return source, nil
}

// GetSource returns one published source
func (s *Service) GetSource(ctx context.Context, acting ability.Snapshot, id string) (*models.MoulinetteSource, error) {
	source, err := s.store.GetSourceByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ability.ForAccount(acting).Can(ability.ActionRead, source) {
		return nil, errs.ErrForbidden
	}
	return source, nil
}

// ListSources returns the published sources of a moulinette. Requires
// the resource-wide read capability.
func (s *Service) ListSources(ctx context.Context, acting ability.Snapshot, moulinetteID string) ([]models.MoulinetteSource, error) {
	if !ability.ForAccount(acting).Can(ability.ActionRead, ability.ResourceMoulinetteSource) {
		return nil, errs.ErrForbidden
	}
	if _, err := s.store.GetByID(ctx, moulinetteID); err != nil {
		return nil, err
	}
	return s.store.ListSources(ctx, moulinetteID)
}

// LatestSource returns the most recently published source of a
// moulinette
func (s *Service) LatestSource(ctx context.Context, acting ability.Snapshot, moulinetteID string) (*models.MoulinetteSource, error) {
	if !ability.ForAccount(acting).Can(ability.ActionRead, ability.ResourceMoulinetteSource) {
		return nil, errs.ErrForbidden
	}
	return s.store.LatestSource(ctx, moulinetteID)
}

// DeleteSource removes a published source
func (s *Service) DeleteSource(ctx context.Context, acting ability.Snapshot, id string) error {
	source, err := s.store.GetSourceByID(ctx, id)
	if err != nil {
		return err
	}
	if !ability.ForAccount(acting).Can(ability.ActionDelete, source) {
		return errs.ErrForbidden
	}

	if err := s.store.DeleteSource(ctx, id); err != nil {
		return err
	}
	slog.Info("Moulinette source deleted", "source_id", id, "deleted_by", acting.ID)
	return nil
}

// GetSourceByID loads a source without a capability check. Used by the
// runs module to validate references.
func (s *Service) GetSourceByID(ctx context.Context, id string) (*models.MoulinetteSource, error) {
	return s.store.GetSourceByID(ctx, id)
}
