package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	orgModels "go-mouli/internal/organizations/models"
	"go-mouli/internal/projects/models"
	"go-mouli/pkg/ability"
	"go-mouli/pkg/errs"
	"go-mouli/pkg/permissions"
)

type fakeStore struct {
	projects map[string]*models.Project
}

func newFakeStore() *fakeStore {
	return &fakeStore{projects: make(map[string]*models.Project)}
}

func (s *fakeStore) GetByID(ctx context.Context, id string) (*models.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", id, errs.ErrNotFound)
	}
	copied := *p
	return &copied, nil
}

func (s *fakeStore) List(ctx context.Context, organizationID string, page, limit int) ([]models.Project, int64, error) {
	var out []models.Project
	for _, p := range s.projects {
		if organizationID != "" && p.OrganizationID != organizationID {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (s *fakeStore) Create(ctx context.Context, project *models.Project) error {
	for _, existing := range s.projects {
		if existing.OrganizationID == project.OrganizationID && existing.Slug == project.Slug {
			return fmt.Errorf("project slug %q already taken in organization: %w", project.Slug, errs.ErrConflict)
		}
	}
	copied := *project
	s.projects[project.ID] = &copied
	return nil
}

func (s *fakeStore) Update(ctx context.Context, id string, updates bson.M) error {
	p, ok := s.projects[id]
	if !ok {
		return fmt.Errorf("project %s: %w", id, errs.ErrNotFound)
	}
	if v, ok := updates["name"]; ok {
		p.Name = v.(string)
	}
	if v, ok := updates["description"]; ok {
		p.Description = v.(string)
	}
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, id string) error {
	if _, ok := s.projects[id]; !ok {
		return fmt.Errorf("project %s: %w", id, errs.ErrNotFound)
	}
	delete(s.projects, id)
	return nil
}

type fakeOrgs struct {
	ids map[string]bool
}

func (o *fakeOrgs) GetByID(ctx context.Context, id string) (*orgModels.Organization, error) {
	if !o.ids[id] {
		return nil, fmt.Errorf("organization %s: %w", id, errs.ErrNotFound)
	}
	return &orgModels.Organization{ID: id}, nil
}

func creatorSnapshot(id string) ability.Snapshot {
	atoms := permissions.Strings(permissions.DefaultBundle())
	atoms = append(atoms,
		string(permissions.CreateProject),
		string(permissions.UpdateOwnProject),
		string(permissions.DeleteOwnProject),
	)
	return ability.Snapshot{ID: id, Permissions: atoms}
}

func newTestService() (*Service, *fakeStore) {
	store := newFakeStore()
	return NewService(store, &fakeOrgs{ids: map[string]bool{"org1": true}}), store
}

func TestCreateProjectSetsOwner(t *testing.T) {
	service, _ := newTestService()

	p, err := service.CreateProject(context.Background(), creatorSnapshot("u1"), "org1", "Piscine", "piscine", "", "c-piscine/cpool")
	require.NoError(t, err)
	assert.Equal(t, "u1", p.OwnerID)
	assert.Equal(t, "org1", p.OrganizationID)
	assert.Equal(t, "c-piscine/cpool", p.ModuleRef)
}

func TestCreateProjectRequiresCapability(t *testing.T) {
	service, _ := newTestService()

	viewer := ability.Snapshot{ID: "u2", Permissions: permissions.Strings(permissions.DefaultBundle())}
	_, err := service.CreateProject(context.Background(), viewer, "org1", "Piscine", "piscine", "", "")
	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func TestCreateProjectRejectsMissingOrganization(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateProject(context.Background(), creatorSnapshot("u1"), "nope", "Piscine", "piscine", "", "")
	assert.ErrorIs(t, err, errs.ErrBadRequest)
}

func TestCreateProjectDuplicateSlugConflicts(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateProject(context.Background(), creatorSnapshot("u1"), "org1", "Piscine", "piscine", "", "")
	require.NoError(t, err)

	_, err = service.CreateProject(context.Background(), creatorSnapshot("u2"), "org1", "Piscine Bis", "piscine", "", "")
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestReadProjectOpenToDefaultBundle(t *testing.T) {
	service, _ := newTestService()

	p, err := service.CreateProject(context.Background(), creatorSnapshot("u1"), "org1", "Piscine", "piscine", "", "")
	require.NoError(t, err)

	viewer := ability.Snapshot{ID: "u2", Permissions: permissions.Strings(permissions.DefaultBundle())}
	got, err := service.GetProject(context.Background(), viewer, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	list, total, err := service.ListProjects(context.Background(), viewer, "org1", 1, 50)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list, 1)
}

func TestUpdateProjectOnlyByOwner(t *testing.T) {
	service, _ := newTestService()

	p, err := service.CreateProject(context.Background(), creatorSnapshot("u1"), "org1", "Piscine", "piscine", "", "")
	require.NoError(t, err)

	updated, err := service.UpdateProject(context.Background(), creatorSnapshot("u1"), p.ID, bson.M{"name": "Piscine 2026"})
	require.NoError(t, err)
	assert.Equal(t, "Piscine 2026", updated.Name)

	_, err = service.UpdateProject(context.Background(), creatorSnapshot("u2"), p.ID, bson.M{"name": "hijack"})
	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func TestDeleteProjectOnlyByOwner(t *testing.T) {
	service, store := newTestService()

	p, err := service.CreateProject(context.Background(), creatorSnapshot("u1"), "org1", "Piscine", "piscine", "", "")
	require.NoError(t, err)

	err = service.DeleteProject(context.Background(), creatorSnapshot("u2"), p.ID)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	require.NoError(t, service.DeleteProject(context.Background(), creatorSnapshot("u1"), p.ID))
	_, ok := store.projects[p.ID]
	assert.False(t, ok)
}
