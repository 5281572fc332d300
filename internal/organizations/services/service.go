package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"go-mouli/internal/organizations/models"
	"go-mouli/pkg/ability"
	"go-mouli/pkg/errs"
)

// Store is the persistence surface the service depends on
type Store interface {
	GetByID(ctx context.Context, id string) (*models.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*models.Organization, error)
	List(ctx context.Context, page, limit int) ([]models.Organization, int64, error)
	Create(ctx context.Context, org *models.Organization) error
	Update(ctx context.Context, id string, updates bson.M) error
	Delete(ctx context.Context, id string) error
}

// Service implements organization business logic
type Service struct {
	store Store
}

// NewService creates a new service instance
func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateOrganization creates an organization owned by the acting
// account. Creation is checked against the bare resource tag since no
// instance exists yet.
func (s *Service) CreateOrganization(ctx context.Context, acting ability.Snapshot, name, slug, description string) (*models.Organization, error) {
	if !ability.ForAccount(acting).Can(ability.ActionCreate, ability.ResourceOrganization) {
		return nil, errs.ErrForbidden
	}

	now := time.Now()
	org := &models.Organization{
		ID:          uuid.New().String(),
		Name:        name,
		Slug:        slug,
		Description: description,
		OwnerID:     acting.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create(ctx, org); err != nil {
		return nil, err
	}

	slog.Info("Organization created", "organization_id", org.ID, "slug", slug, "owner_id", acting.ID)
	return org, nil
}

// GetOrganization returns one organization. The record is loaded first
// so own-scoped read grants can be evaluated against it.
func (s *Service) GetOrganization(ctx context.Context, acting ability.Snapshot, id string) (*models.Organization, error) {
	org, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ability.ForAccount(acting).Can(ability.ActionRead, org) {
		return nil, errs.ErrForbidden
	}
	return org, nil
}

// ListOrganizations returns a page of organizations. Requires the
// resource-wide read capability; own-scoped grants do not qualify.
func (s *Service) ListOrganizations(ctx context.Context, acting ability.Snapshot, page, limit int) ([]models.Organization, int64, error) {
	if !ability.ForAccount(acting).Can(ability.ActionRead, ability.ResourceOrganization) {
		return nil, 0, errs.ErrForbidden
	}
	return s.store.List(ctx, page, limit)
}

// UpdateOrganization applies field updates after checking the ability
// against the loaded record.
func (s *Service) UpdateOrganization(ctx context.Context, acting ability.Snapshot, id string, updates bson.M) (*models.Organization, error) {
	org, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ability.ForAccount(acting).Can(ability.ActionUpdate, org) {
		return nil, errs.ErrForbidden
	}

	if len(updates) > 0 {
		if err := s.store.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.store.GetByID(ctx, id)
}

// DeleteOrganization removes an organization
func (s *Service) DeleteOrganization(ctx context.Context, acting ability.Snapshot, id string) error {
	org, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !ability.ForAccount(acting).Can(ability.ActionDelete, org) {
		return errs.ErrForbidden
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("Organization deleted", "organization_id", id, "deleted_by", acting.ID)
	return nil
}

// GetByID loads an organization without a capability check. Used by the
// projects module to validate references.
func (s *Service) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	return s.store.GetByID(ctx, id)
}
