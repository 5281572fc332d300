package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"go-mouli/internal/accounts/models"
	"go-mouli/pkg/ability"
	"go-mouli/pkg/errs"
	"go-mouli/pkg/permissions"
)

// fakeStore is an in-memory Store for service tests. hiddenLookups
// makes the next N github-id lookups miss, simulating a concurrent
// first login that has not committed yet.
type fakeStore struct {
	accounts      map[string]*models.Account
	hiddenLookups int
}

func newFakeStore(accounts ...*models.Account) *fakeStore {
	s := &fakeStore{accounts: make(map[string]*models.Account)}
	for _, a := range accounts {
		copied := *a
		s.accounts[a.ID] = &copied
	}
	return s
}

func (s *fakeStore) GetByID(ctx context.Context, id string) (*models.Account, error) {
	account, ok := s.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", id, errs.ErrNotFound)
	}
	copied := *account
	return &copied, nil
}

func (s *fakeStore) GetByGitHubID(ctx context.Context, githubID int64) (*models.Account, error) {
	if s.hiddenLookups > 0 {
		s.hiddenLookups--
		return nil, nil
	}
	for _, a := range s.accounts {
		if a.GitHubID == githubID {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) List(ctx context.Context, page, limit int) ([]models.Account, int64, error) {
	var out []models.Account
	for _, a := range s.accounts {
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (s *fakeStore) Create(ctx context.Context, account *models.Account) error {
	for _, a := range s.accounts {
		if a.GitHubID == account.GitHubID {
			return fmt.Errorf("account for github id %d already exists: %w", account.GitHubID, errs.ErrConflict)
		}
	}
	copied := *account
	s.accounts[account.ID] = &copied
	return nil
}

func (s *fakeStore) Update(ctx context.Context, id string, updates bson.M) error {
	account, ok := s.accounts[id]
	if !ok {
		return fmt.Errorf("account %s: %w", id, errs.ErrNotFound)
	}
	if v, ok := updates["display_name"]; ok {
		account.DisplayName = v.(string)
	}
	if v, ok := updates["email"]; ok {
		account.Email = v.(string)
	}
	if v, ok := updates["github_login"]; ok {
		account.GitHubLogin = v.(string)
	}
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, id string) error {
	if _, ok := s.accounts[id]; !ok {
		return fmt.Errorf("account %s: %w", id, errs.ErrNotFound)
	}
	delete(s.accounts, id)
	return nil
}

func (s *fakeStore) ReplacePermissions(ctx context.Context, id string, perms []string) error {
	account, ok := s.accounts[id]
	if !ok {
		return fmt.Errorf("account %s: %w", id, errs.ErrNotFound)
	}
	account.Permissions = perms
	return nil
}

// fakeRevoker records cascade calls from account deletion
type fakeRevoker struct {
	revoked []string
}

func (r *fakeRevoker) RevokeAccountTokens(ctx context.Context, accountID string) error {
	r.revoked = append(r.revoked, accountID)
	return nil
}

func defaultSnapshot(id string) ability.Snapshot {
	return ability.Snapshot{ID: id, Permissions: permissions.Strings(permissions.DefaultBundle())}
}

func adminSnapshot(id string) ability.Snapshot {
	return ability.Snapshot{ID: id, Permissions: permissions.Strings(permissions.AdminBundle())}
}

func TestGetAccountOwnScopedReaderSeesOnlySelf(t *testing.T) {
	store := newFakeStore(
		&models.Account{ID: "u1"},
		&models.Account{ID: "u2"},
	)
	service := NewService(store, nil)

	own, err := service.GetAccount(context.Background(), defaultSnapshot("u1"), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", own.ID)

	_, err = service.GetAccount(context.Background(), defaultSnapshot("u1"), "u2")
	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func TestGetAccountMissingIsNotFoundBeforeForbidden(t *testing.T) {
	service := NewService(newFakeStore(), nil)

	_, err := service.GetAccount(context.Background(), defaultSnapshot("u1"), "missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestListAccountsRequiresResourceWideRead(t *testing.T) {
	store := newFakeStore(&models.Account{ID: "u1"}, &models.Account{ID: "u2"})
	service := NewService(store, nil)

	_, _, err := service.ListAccounts(context.Background(), defaultSnapshot("u1"), 1, 20)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	accounts, total, err := service.ListAccounts(context.Background(), adminSnapshot("admin"), 1, 20)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
	assert.Equal(t, int64(2), total)
}

func TestUpdateAccountChecksAbilityAgainstLoadedRecord(t *testing.T) {
	store := newFakeStore(&models.Account{ID: "u1"}, &models.Account{ID: "u2"})
	service := NewService(store, nil)

	updated, err := service.UpdateAccount(context.Background(), defaultSnapshot("u1"), "u1", bson.M{"display_name": "New Name"})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.DisplayName)

	_, err = service.UpdateAccount(context.Background(), defaultSnapshot("u1"), "u2", bson.M{"display_name": "Nope"})
	assert.ErrorIs(t, err, errs.ErrForbidden)
	unchanged, _ := store.GetByID(context.Background(), "u2")
	assert.Empty(t, unchanged.DisplayName)
}

func TestDeleteAccountCascadesTokenRevocation(t *testing.T) {
	store := newFakeStore(&models.Account{ID: "u1"})
	revoker := &fakeRevoker{}
	service := NewService(store, nil)
	service.SetTokenRevoker(revoker)

	err := service.DeleteAccount(context.Background(), defaultSnapshot("u1"), "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, revoker.revoked)

	_, err = store.GetByID(context.Background(), "u1")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUpdatePermissionsRequiresAdministrationCapability(t *testing.T) {
	store := newFakeStore(&models.Account{ID: "u1"}, &models.Account{ID: "u2"})
	service := NewService(store, nil)

	// The default bundle carries no permission administration atom,
	// not even for the caller's own account.
	_, err := service.UpdatePermissions(context.Background(), defaultSnapshot("u1"), "u1", nil)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	updated, err := service.UpdatePermissions(context.Background(), adminSnapshot("admin"), "u2",
		[]string{string(permissions.ReadOrganization)})
	require.NoError(t, err)
	assert.Equal(t, []string{string(permissions.ReadOrganization)}, updated.Permissions)
}

func TestUpdatePermissionsRejectsUnknownAtoms(t *testing.T) {
	store := newFakeStore(&models.Account{ID: "u1", Permissions: []string{string(permissions.ReadOwnAccount)}})
	service := NewService(store, nil)

	_, err := service.UpdatePermissions(context.Background(), adminSnapshot("admin"), "u1",
		[]string{"DoEverything"})
	assert.ErrorIs(t, err, errs.ErrBadRequest)

	// The rejected set must not be persisted.
	account, _ := store.GetByID(context.Background(), "u1")
	assert.Equal(t, []string{string(permissions.ReadOwnAccount)}, account.Permissions)
}

func TestFindOrCreateByGitHubSeedsDefaultBundle(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, nil)

	account, err := service.FindOrCreateByGitHub(context.Background(), 42, "octocat", "octo@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, account.ID)
	assert.Equal(t, permissions.Strings(permissions.DefaultBundle()), account.Permissions)

	again, err := service.FindOrCreateByGitHub(context.Background(), 42, "octocat", "octo@example.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID, again.ID)
}

func TestFindOrCreateByGitHubSurvivesConcurrentFirstLogin(t *testing.T) {
	store := newFakeStore(&models.Account{
		ID:          "a1",
		GitHubID:    42,
		GitHubLogin: "octocat",
		Permissions: permissions.Strings(permissions.DefaultBundle()),
	})
	// The other login committed between our lookup and our insert.
	store.hiddenLookups = 1
	service := NewService(store, nil)

	account, err := service.FindOrCreateByGitHub(context.Background(), 42, "octocat", "octo@example.com")
	require.NoError(t, err)
	assert.Equal(t, "a1", account.ID)
	assert.Len(t, store.accounts, 1)
}

func TestFindOrCreateByGitHubRefreshesProfile(t *testing.T) {
	store := newFakeStore()
	service := NewService(store, nil)

	account, err := service.FindOrCreateByGitHub(context.Background(), 42, "octocat", "octo@example.com")
	require.NoError(t, err)

	renamed, err := service.FindOrCreateByGitHub(context.Background(), 42, "octodog", "octo@example.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID, renamed.ID)
	assert.Equal(t, "octodog", renamed.GitHubLogin)
}

func TestDeleteAccountForbiddenLeavesStateUntouched(t *testing.T) {
	store := newFakeStore(&models.Account{ID: "u2"})
	revoker := &fakeRevoker{}
	service := NewService(store, nil)
	service.SetTokenRevoker(revoker)

	err := service.DeleteAccount(context.Background(), defaultSnapshot("u1"), "u2")
	require.True(t, errors.Is(err, errs.ErrForbidden))

	_, err = store.GetByID(context.Background(), "u2")
	assert.NoError(t, err)
	assert.Empty(t, revoker.revoked)
}
