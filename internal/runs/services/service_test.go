package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	moulinetteModels "go-mouli/internal/moulinettes/models"
	projectModels "go-mouli/internal/projects/models"
	"go-mouli/internal/runs/models"
	"go-mouli/pkg/ability"
	"go-mouli/pkg/errs"
	"go-mouli/pkg/permissions"
)

// fakeStore is an in-memory Store for service tests
type fakeStore struct {
	runs map[string]*models.Run
}

func newFakeStore() *fakeStore {
	return &fakeStore{runs: make(map[string]*models.Run)}
}

func (s *fakeStore) GetByID(ctx context.Context, id string) (*models.Run, error) {
	run, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("run %s: %w", id, errs.ErrNotFound)
	}
	copied := *run
	return &copied, nil
}

func (s *fakeStore) List(ctx context.Context, filter bson.M, page, limit int) ([]models.Run, int64, error) {
	var out []models.Run
	for _, run := range s.runs {
		if accountID, ok := filter["account_id"]; ok && run.AccountID != accountID {
			continue
		}
		if projectID, ok := filter["project_id"]; ok && run.ProjectID != projectID {
			continue
		}
		out = append(out, *run)
	}
	return out, int64(len(out)), nil
}

func (s *fakeStore) Create(ctx context.Context, run *models.Run) error {
	copied := *run
	s.runs[run.ID] = &copied
	return nil
}

func (s *fakeStore) Update(ctx context.Context, id string, updates bson.M) error {
	run, ok := s.runs[id]
	if !ok {
		return fmt.Errorf("run %s: %w", id, errs.ErrNotFound)
	}
	if v, ok := updates["status"]; ok {
		run.Status = v.(models.RunStatus)
	}
	if v, ok := updates["score"]; ok {
		score := v.(float64)
		run.Score = &score
	}
	if v, ok := updates["output"]; ok {
		run.Output = v.(string)
	}
	if v, ok := updates["started_at"]; ok {
		t := v.(time.Time)
		run.StartedAt = &t
	}
	if v, ok := updates["finished_at"]; ok {
		t := v.(time.Time)
		run.FinishedAt = &t
	}
	return nil
}

func (s *fakeStore) MarkStale(ctx context.Context, cutoff time.Time) (int64, error) {
	var marked int64
	for _, run := range s.runs {
		if run.Status.Terminal() || !run.CreatedAt.Before(cutoff) {
			continue
		}
		now := time.Now()
		run.Status = models.StatusErrored
		run.Output = "run timed out"
		run.FinishedAt = &now
		marked++
	}
	return marked, nil
}

func (s *fakeStore) Delete(ctx context.Context, id string) error {
	if _, ok := s.runs[id]; !ok {
		return fmt.Errorf("run %s: %w", id, errs.ErrNotFound)
	}
	delete(s.runs, id)
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

type fakeSources struct {
	ids map[string]bool
}

func (s *fakeSources) GetSourceByID(ctx context.Context, id string) (*moulinetteModels.MoulinetteSource, error) {
	if !s.ids[id] {
		return nil, fmt.Errorf("moulinette source %s: %w", id, errs.ErrNotFound)
	}
	return &moulinetteModels.MoulinetteSource{ID: id}, nil
}

func defaultSnapshot(id string) ability.Snapshot {
	return ability.Snapshot{ID: id, Permissions: permissions.Strings(permissions.DefaultBundle())}
}

func adminSnapshot(id string) ability.Snapshot {
	return ability.Snapshot{ID: id, Permissions: permissions.Strings(permissions.AdminBundle())}
}

func newTestService() (*Service, *fakeStore) {
	store := newFakeStore()
	projects := &fakeProjects{ids: map[string]bool{"p1": true}}
	sources := &fakeSources{ids: map[string]bool{"s1": true}}
	return NewService(store, projects, sources), store
}

func TestCreateRunStartsPending(t *testing.T) {
	service, _ := newTestService()

	run, err := service.CreateRun(context.Background(), defaultSnapshot("u1"), "p1", "s1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, run.Status)
	assert.Equal(t, "u1", run.AccountID)
	assert.Nil(t, run.Score)
}

func TestCreateRunValidatesReferences(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateRun(context.Background(), defaultSnapshot("u1"), "nope", "s1")
	assert.ErrorIs(t, err, errs.ErrBadRequest)

	_, err = service.CreateRun(context.Background(), defaultSnapshot("u1"), "p1", "nope")
	assert.ErrorIs(t, err, errs.ErrBadRequest)
}

func TestCreateRunCapabilityCheckedBeforeReferences(t *testing.T) {
	service, _ := newTestService()

	// A caller without the create capability must see forbidden even
	// when the referenced entities are also invalid.
	_, err := service.CreateRun(context.Background(), ability.Snapshot{ID: "u1"}, "nope", "nope")
	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func TestRunLifecycleTransitions(t *testing.T) {
	service, _ := newTestService()

	run, err := service.CreateRun(context.Background(), defaultSnapshot("u1"), "p1", "s1")
	require.NoError(t, err)

	grader := adminSnapshot("grader")

	// pending cannot finish directly
	_, err = service.UpdateStatus(context.Background(), grader, run.ID, models.StatusPassed, nil, "")
	assert.ErrorIs(t, err, errs.ErrBadRequest)

	running, err := service.UpdateStatus(context.Background(), grader, run.ID, models.StatusRunning, nil, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRunning, running.Status)
	assert.NotNil(t, running.StartedAt)

	score := 87.5
	passed, err := service.UpdateStatus(context.Background(), grader, run.ID, models.StatusPassed, &score, "all tests passed")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPassed, passed.Status)
	require.NotNil(t, passed.Score)
	assert.Equal(t, 87.5, *passed.Score)

	// Terminal states are final.
	_, err = service.UpdateStatus(context.Background(), grader, run.ID, models.StatusRunning, nil, "")
	assert.ErrorIs(t, err, errs.ErrBadRequest)
}

func TestUpdateStatusRequiresManageCapability(t *testing.T) {
	service, _ := newTestService()

	run, err := service.CreateRun(context.Background(), defaultSnapshot("u1"), "p1", "s1")
	require.NoError(t, err)

	// The requester's own-scoped read grants do not allow driving the
	// lifecycle, even on their own run.
	_, err = service.UpdateStatus(context.Background(), defaultSnapshot("u1"), run.ID, models.StatusRunning, nil, "")
	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func TestGetRunOwnScopedReaderSeesOnlyOwn(t *testing.T) {
	service, _ := newTestService()

	run, err := service.CreateRun(context.Background(), defaultSnapshot("u1"), "p1", "s1")
	require.NoError(t, err)

	_, err = service.GetRun(context.Background(), defaultSnapshot("u1"), run.ID)
	assert.NoError(t, err)

	_, err = service.GetRun(context.Background(), defaultSnapshot("u2"), run.ID)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	_, err = service.GetRun(context.Background(), adminSnapshot("admin"), run.ID)
	assert.NoError(t, err)
}

func TestListRunsDefaultsToOwnForScopedReaders(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateRun(context.Background(), defaultSnapshot("u1"), "p1", "s1")
	require.NoError(t, err)
	_, err = service.CreateRun(context.Background(), defaultSnapshot("u2"), "p1", "s1")
	require.NoError(t, err)

	mine, _, err := service.ListRuns(context.Background(), defaultSnapshot("u1"), "", "", 1, 20)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "u1", mine[0].AccountID)

	_, _, err = service.ListRuns(context.Background(), defaultSnapshot("u1"), "u2", "", 1, 20)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	all, _, err := service.ListRuns(context.Background(), adminSnapshot("admin"), "", "", 1, 20)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeleteRunRequiresDeleteGrant(t *testing.T) {
	service, store := newTestService()

	run, err := service.CreateRun(context.Background(), defaultSnapshot("u1"), "p1", "s1")
	require.NoError(t, err)

	// The default bundle has no run delete atom at all.
	err = service.DeleteRun(context.Background(), defaultSnapshot("u1"), run.ID)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	require.NoError(t, service.DeleteRun(context.Background(), adminSnapshot("admin"), run.ID))
	_, ok := store.runs[run.ID]
	assert.False(t, ok)
}

func TestExpireStaleOnlyTouchesOldNonTerminalRuns(t *testing.T) {
	service, store := newTestService()

	stuck, err := service.CreateRun(context.Background(), defaultSnapshot("u1"), "p1", "s1")
	require.NoError(t, err)
	store.runs[stuck.ID].CreatedAt = time.Now().Add(-48 * time.Hour)

	fresh, err := service.CreateRun(context.Background(), defaultSnapshot("u2"), "p1", "s1")
	require.NoError(t, err)

	expired, err := service.ExpireStale(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, expired)

	assert.Equal(t, models.StatusErrored, store.runs[stuck.ID].Status)
	assert.Equal(t, models.StatusPending, store.runs[fresh.ID].Status)
}
