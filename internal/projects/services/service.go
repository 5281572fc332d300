package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	orgModels "go-mouli/internal/organizations/models"
	"go-mouli/internal/projects/models"
	"go-mouli/pkg/ability"
	"go-mouli/pkg/errs"
)

// Store is the persistence surface the service depends on
type Store interface {
	GetByID(ctx context.Context, id string) (*models.Project, error)
	List(ctx context.Context, organizationID string, page, limit int) ([]models.Project, int64, error)
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, id string, updates bson.M) error
	Delete(ctx context.Context, id string) error
}

// OrganizationDirectory is the slice of the organizations service used
// to validate project references.
type OrganizationDirectory interface {
	GetByID(ctx context.Context, id string) (*orgModels.Organization, error)
}

// Service implements project business logic
type Service struct {
	store Store
	orgs  OrganizationDirectory
}

// NewService creates a new service instance
func NewService(store Store, orgs OrganizationDirectory) *Service {
	return &Service{store: store, orgs: orgs}
}

// CreateProject creates a project owned by the acting account. The
// capability is checked first against the bare resource tag; a missing
// referenced organization is then reported as bad input, not not-found,
// since the project itself is the addressed resource.
func (s *Service) CreateProject(ctx context.Context, acting ability.Snapshot, organizationID, name, slug, description, moduleRef string) (*models.Project, error) {
	if !ability.ForAccount(acting).Can(ability.ActionCreate, ability.ResourceProject) {
		return nil, errs.ErrForbidden
	}

	if _, err := s.orgs.GetByID(ctx, organizationID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, fmt.Errorf("organization %s does not exist: %w", organizationID, errs.ErrBadRequest)
		}
		return nil, err
	}

	now := time.Now()
	project := &models.Project{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		Name:           name,
		Slug:           slug,
		Description:    description,
		ModuleRef:      moduleRef,
		OwnerID:        acting.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.Create(ctx, project); err != nil {
		return nil, err
	}

	slog.Info("Project created", "project_id", project.ID, "organization_id", organizationID, "owner_id", acting.ID)
	return project, nil
}

// GetProject returns one project
func (s *Service) GetProject(ctx context.Context, acting ability.Snapshot, id string) (*models.Project, error) {
	project, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ability.ForAccount(acting).Can(ability.ActionRead, project) {
		return nil, errs.ErrForbidden
	}
	return project, nil
}

// ListProjects returns a page of projects, optionally scoped to one
// organization. Requires the resource-wide read capability.
func (s *Service) ListProjects(ctx context.Context, acting ability.Snapshot, organizationID string, page, limit int) ([]models.Project, int64, error) {
	if !ability.ForAccount(acting).Can(ability.ActionRead, ability.ResourceProject) {
		return nil, 0, errs.ErrForbidden
	}
	return s.store.List(ctx, organizationID, page, limit)
}

// UpdateProject applies field updates after checking the ability
// against the loaded record.
func (s *Service) UpdateProject(ctx context.Context, acting ability.Snapshot, id string, updates bson.M) (*models.Project, error) {
	project, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ability.ForAccount(acting).Can(ability.ActionUpdate, project) {
		return nil, errs.ErrForbidden
	}

	if len(updates) > 0 {
		if err := s.store.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.store.GetByID(ctx, id)
}

// DeleteProject removes a project
func (s *Service) DeleteProject(ctx context.Context, acting ability.Snapshot, id string) error {
	project, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !ability.ForAccount(acting).Can(ability.ActionDelete, project) {
		return errs.ErrForbidden
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("Project deleted", "project_id", id, "deleted_by", acting.ID)
	return nil
}

// GetByID loads a project without a capability check. Used by the
// moulinettes and runs modules to validate references.
func (s *Service) GetByID(ctx context.Context, id string) (*models.Project, error) {
	return s.store.GetByID(ctx, id)
}
