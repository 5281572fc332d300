package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"go-mouli/internal/moulinettes/models"
	projectModels "go-mouli/internal/projects/models"
	"go-mouli/pkg/ability"
	"go-mouli/pkg/errs"
	"go-mouli/pkg/permissions"
)

// fakeStore is an in-memory Store for service tests
type fakeStore struct {
	moulinettes map[string]*models.Moulinette
	sources     map[string]*models.MoulinetteSource
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		moulinettes: make(map[string]*models.Moulinette),
		sources:     make(map[string]*models.MoulinetteSource),
	}
}

func (s *fakeStore) GetByID(ctx context.Context, id string) (*models.Moulinette, error) {
	m, ok := s.moulinettes[id]
	if !ok {
		return nil, fmt.Errorf("moulinette %s: %w", id, errs.ErrNotFound)
	}
	copied := *m
	return &copied, nil
}

func (s *fakeStore) List(ctx context.Context, projectID string, page, limit int) ([]models.Moulinette, int64, error) {
	var out []models.Moulinette
	for _, m := range s.moulinettes {
		if projectID != "" && m.ProjectID != projectID {
			continue
		}
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (s *fakeStore) Create(ctx context.Context, m *models.Moulinette) error {
	copied := *m
	s.moulinettes[m.ID] = &copied
	return nil
}

func (s *fakeStore) Update(ctx context.Context, id string, updates bson.M) error {
	m, ok := s.moulinettes[id]
	if !ok {
		return fmt.Errorf("moulinette %s: %w", id, errs.ErrNotFound)
	}
	if v, ok := updates["name"]; ok {
		m.Name = v.(string)
	}
	if v, ok := updates["repository"]; ok {
		m.Repository = v.(string)
	}
	if v, ok := updates["is_official"]; ok {
		m.IsOfficial = v.(bool)
	}
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, id string) error {
	if _, ok := s.moulinettes[id]; !ok {
		return fmt.Errorf("moulinette %s: %w", id, errs.ErrNotFound)
	}
	delete(s.moulinettes, id)
	for sid, source := range s.sources {
		if source.MoulinetteID == id {
			delete(s.sources, sid)
		}
	}
	return nil
}

func (s *fakeStore) GetSourceByID(ctx context.Context, id string) (*models.MoulinetteSource, error) {
	source, ok := s.sources[id]
	if !ok {
		return nil, fmt.Errorf("moulinette source %s: %w", id, errs.ErrNotFound)
	}
	copied := *source
	return &copied, nil
}

func (s *fakeStore) ListSources(ctx context.Context, moulinetteID string) ([]models.MoulinetteSource, error) {
	var out []models.MoulinetteSource
	for _, source := range s.sources {
		if source.MoulinetteID == moulinetteID {
			out = append(out, *source)
		}
	}
	return out, nil
}

func (s *fakeStore) LatestSource(ctx context.Context, moulinetteID string) (*models.MoulinetteSource, error) {
	var latest *models.MoulinetteSource
	for _, source := range s.sources {
		if source.MoulinetteID != moulinetteID {
			continue
		}
		if latest == nil || source.PublishedAt.After(latest.PublishedAt) {
			latest = source
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("moulinette %s has no published sources: %w", moulinetteID, errs.ErrNotFound)
	}
	copied := *latest
	return &copied, nil
}

func (s *fakeStore) CreateSource(ctx context.Context, source *models.MoulinetteSource) error {
	for _, existing := range s.sources {
		if existing.MoulinetteID == source.MoulinetteID && existing.Version == source.Version {
			return fmt.Errorf("version %s already published: %w", source.Version, errs.ErrConflict)
		}
	}
	copied := *source
	s.sources[source.ID] = &copied
	return nil
}

func (s *fakeStore) DeleteSource(ctx context.Context, id string) error {
	if _, ok := s.sources[id]; !ok {
		return fmt.Errorf("moulinette source %s: %w", id, errs.ErrNotFound)
	}
	delete(s.sources, id)
	return nil
}

type fakeProjects struct {
	ids map[string]bool
}

func (p *fakeProjects) GetByID(ctx context.Context, id string) (*projectModels.Project, error) {
	if !p.ids[id] {
		return nil, fmt.Errorf("project %s: %w", id, errs.ErrNotFound)
	}
	return &projectModels.Project{ID: id}, nil
}

func maintainerSnapshot(id string) ability.Snapshot {
	atoms := permissions.Strings(permissions.DefaultBundle())
	atoms = append(atoms,
		string(permissions.CreateMoulinette),
		string(permissions.UpdateOwnMoulinette),
		string(permissions.DeleteOwnMoulinette),
		string(permissions.CreateMoulinetteSource),
		string(permissions.DeleteOwnMoulinetteSource),
	)
	return ability.Snapshot{ID: id, Permissions: atoms}
}

func newTestService() (*Service, *fakeStore) {
	store := newFakeStore()
	return NewService(store, &fakeProjects{ids: map[string]bool{"p1": true}}), store
}

func TestCreateMoulinetteSetsMaintainer(t *testing.T) {
	service, _ := newTestService()

	m, err := service.CreateMoulinette(context.Background(), maintainerSnapshot("u1"), "p1", "grader", "https://example.com/grader.git", false)
	require.NoError(t, err)
	assert.Equal(t, "u1", m.MaintainerID)
	assert.Equal(t, "p1", m.ProjectID)
}

func TestCreateMoulinetteRejectsMissingProject(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateMoulinette(context.Background(), maintainerSnapshot("u1"), "nope", "grader", "https://example.com/grader.git", false)
	assert.ErrorIs(t, err, errs.ErrBadRequest)
}

func TestPublishSourceDenormalizesMaintainer(t *testing.T) {
	service, _ := newTestService()

	m, err := service.CreateMoulinette(context.Background(), maintainerSnapshot("u1"), "p1", "grader", "https://example.com/grader.git", false)
	require.NoError(t, err)

	source, err := service.PublishSource(context.Background(), maintainerSnapshot("u1"), m.ID, "1.0.0", "https://example.com/v1.tar.gz", "abc123")
	require.NoError(t, err)
	assert.Equal(t, m.MaintainerID, source.MaintainerID)
	assert.Equal(t, "1.0.0", source.Version)
}

func TestPublishSourceDuplicateVersionConflicts(t *testing.T) {
	service, _ := newTestService()

	m, err := service.CreateMoulinette(context.Background(), maintainerSnapshot("u1"), "p1", "grader", "https://example.com/grader.git", false)
	require.NoError(t, err)

	_, err = service.PublishSource(context.Background(), maintainerSnapshot("u1"), m.ID, "1.0.0", "https://example.com/v1.tar.gz", "abc123")
	require.NoError(t, err)

	_, err = service.PublishSource(context.Background(), maintainerSnapshot("u1"), m.ID, "1.0.0", "https://example.com/v1b.tar.gz", "def456")
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestPublishSourceMissingMoulinetteIsBadInput(t *testing.T) {
	service, _ := newTestService()

	_, err := service.PublishSource(context.Background(), maintainerSnapshot("u1"), "nope", "1.0.0", "https://example.com/v1.tar.gz", "abc123")
	assert.ErrorIs(t, err, errs.ErrBadRequest)
}

func TestLatestSourcePicksNewestVersion(t *testing.T) {
	service, store := newTestService()

	m, err := service.CreateMoulinette(context.Background(), maintainerSnapshot("u1"), "p1", "grader", "https://example.com/grader.git", false)
	require.NoError(t, err)

	_, err = service.PublishSource(context.Background(), maintainerSnapshot("u1"), m.ID, "1.0.0", "https://example.com/v1.tar.gz", "abc123")
	require.NoError(t, err)
	second, err := service.PublishSource(context.Background(), maintainerSnapshot("u1"), m.ID, "1.1.0", "https://example.com/v2.tar.gz", "def456")
	require.NoError(t, err)
	// Make the publish order unambiguous regardless of clock precision.
	store.sources[second.ID].PublishedAt = store.sources[second.ID].PublishedAt.Add(1)

	latest, err := service.LatestSource(context.Background(), maintainerSnapshot("u2"), m.ID)
	require.NoError(t, err)
	assert.Equal(t, "1.1.0", latest.Version)
}

func TestDeleteSourceOwnScopeFollowsParentMaintainer(t *testing.T) {
	service, store := newTestService()

	m, err := service.CreateMoulinette(context.Background(), maintainerSnapshot("u1"), "p1", "grader", "https://example.com/grader.git", false)
	require.NoError(t, err)
	source, err := service.PublishSource(context.Background(), maintainerSnapshot("u1"), m.ID, "1.0.0", "https://example.com/v1.tar.gz", "abc123")
	require.NoError(t, err)

	// A different maintainer's own-scoped delete grant does not match.
	err = service.DeleteSource(context.Background(), maintainerSnapshot("u2"), source.ID)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	require.NoError(t, service.DeleteSource(context.Background(), maintainerSnapshot("u1"), source.ID))
	_, ok := store.sources[source.ID]
	assert.False(t, ok)
}

func TestDeleteMoulinetteCascadesSources(t *testing.T) {
	service, store := newTestService()

	m, err := service.CreateMoulinette(context.Background(), maintainerSnapshot("u1"), "p1", "grader", "https://example.com/grader.git", false)
	require.NoError(t, err)
	source, err := service.PublishSource(context.Background(), maintainerSnapshot("u1"), m.ID, "1.0.0", "https://example.com/v1.tar.gz", "abc123")
	require.NoError(t, err)

	require.NoError(t, service.DeleteMoulinette(context.Background(), maintainerSnapshot("u1"), m.ID))
	_, ok := store.sources[source.ID]
	assert.False(t, ok)
}

func TestUpdateMoulinetteOnlyByMaintainer(t *testing.T) {
	service, _ := newTestService()

	m, err := service.CreateMoulinette(context.Background(), maintainerSnapshot("u1"), "p1", "grader", "https://example.com/grader.git", false)
	require.NoError(t, err)

	updated, err := service.UpdateMoulinette(context.Background(), maintainerSnapshot("u1"), m.ID, bson.M{"name": "grader-v2"})
	require.NoError(t, err)
	assert.Equal(t, "grader-v2", updated.Name)

	_, err = service.UpdateMoulinette(context.Background(), maintainerSnapshot("u2"), m.ID, bson.M{"name": "hijack"})
	assert.ErrorIs(t, err, errs.ErrForbidden)
}
