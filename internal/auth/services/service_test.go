package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountsModels "go-mouli/internal/accounts/models"
	"go-mouli/internal/auth/models"
	"go-mouli/pkg/ability"
	"go-mouli/pkg/errs"
	"go-mouli/pkg/permissions"
)

// fakeTokenStore is an in-memory TokenStore for service tests
type fakeTokenStore struct {
	tokens map[string]*models.AuthToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]*models.AuthToken)}
}

func (s *fakeTokenStore) Create(ctx context.Context, token *models.AuthToken) error {
	copied := *token
	s.tokens[token.ID] = &copied
	return nil
}

func (s *fakeTokenStore) GetByID(ctx context.Context, id string) (*models.AuthToken, error) {
	token, ok := s.tokens[id]
	if !ok {
		return nil, fmt.Errorf("auth token %s: %w", id, errs.ErrNotFound)
	}
	copied := *token
	return &copied, nil
}

func (s *fakeTokenStore) ListByAccount(ctx context.Context, accountID string) ([]models.AuthToken, error) {
	var out []models.AuthToken
	for _, t := range s.tokens {
		if t.AccountID == accountID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *fakeTokenStore) ListAll(ctx context.Context) ([]models.AuthToken, error) {
	var out []models.AuthToken
	for _, t := range s.tokens {
		out = append(out, *t)
	}
	return out, nil
}

func (s *fakeTokenStore) Delete(ctx context.Context, id string) error {
	if _, ok := s.tokens[id]; !ok {
		return fmt.Errorf("auth token %s: %w", id, errs.ErrNotFound)
	}
	delete(s.tokens, id)
	return nil
}

func (s *fakeTokenStore) DeleteByAccount(ctx context.Context, accountID string) error {
	for id, t := range s.tokens {
		if t.AccountID == accountID {
			delete(s.tokens, id)
		}
	}
	return nil
}

func (s *fakeTokenStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	for id, t := range s.tokens {
		if t.ExpiresAt.Before(now) {
			delete(s.tokens, id)
			count++
		}
	}
	return count, nil
}

func (s *fakeTokenStore) Touch(ctx context.Context, id string, usedAt time.Time) error {
	if token, ok := s.tokens[id]; ok {
		token.LastUsedAt = &usedAt
	}
	return nil
}

// fakeDirectory serves a fixed set of accounts
type fakeDirectory struct {
	accounts map[string]*accountsModels.Account
}

func newFakeDirectory(accounts ...*accountsModels.Account) *fakeDirectory {
	d := &fakeDirectory{accounts: make(map[string]*accountsModels.Account)}
	for _, a := range accounts {
		d.accounts[a.ID] = a
	}
	return d
}

func (d *fakeDirectory) FindOrCreateByGitHub(ctx context.Context, githubID int64, login, email string) (*accountsModels.Account, error) {
	for _, a := range d.accounts {
		if a.GitHubID == githubID {
			return a, nil
		}
	}
	account := &accountsModels.Account{
		ID:          fmt.Sprintf("gh-%d", githubID),
		GitHubID:    githubID,
		GitHubLogin: login,
		Email:       email,
		Permissions: permissions.Strings(permissions.DefaultBundle()),
	}
	d.accounts[account.ID] = account
	return account, nil
}

func (d *fakeDirectory) GetByID(ctx context.Context, id string) (*accountsModels.Account, error) {
	account, ok := d.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", id, errs.ErrNotFound)
	}
	return account, nil
}

func defaultAccount(id string) *accountsModels.Account {
	return &accountsModels.Account{
		ID:          id,
		GitHubLogin: id,
		Permissions: permissions.Strings(permissions.DefaultBundle()),
	}
}

func defaultSnapshot(id string) ability.Snapshot {
	return ability.Snapshot{ID: id, Permissions: permissions.Strings(permissions.DefaultBundle())}
}

func newTestService(accounts ...*accountsModels.Account) (*Service, *fakeTokenStore) {
	store := newFakeTokenStore()
	return NewService(store, newFakeDirectory(accounts...), nil), store
}

func TestCreateAndVerifyTokenRoundTrip(t *testing.T) {
	service, _ := newTestService(defaultAccount("u1"))

	raw, token, err := service.CreateToken(context.Background(), defaultSnapshot("u1"), "ci", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "u1", token.AccountID)
	assert.Equal(t, "ci", token.Name)

	authenticated, err := service.VerifyToken(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "u1", authenticated.ID)
	assert.Equal(t, permissions.Strings(permissions.DefaultBundle()), authenticated.Permissions)
}

func TestCreateTokenRequiresCreateCapability(t *testing.T) {
	service, _ := newTestService(defaultAccount("u1"))

	_, _, err := service.CreateToken(context.Background(), ability.Snapshot{ID: "u1"}, "ci", time.Hour)
	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func TestVerifyTokenFailsAfterRevocation(t *testing.T) {
	service, _ := newTestService(defaultAccount("u1"))

	raw, token, err := service.CreateToken(context.Background(), defaultSnapshot("u1"), "ci", time.Hour)
	require.NoError(t, err)

	require.NoError(t, service.DeleteToken(context.Background(), defaultSnapshot("u1"), token.ID))

	_, err = service.VerifyToken(context.Background(), raw)
	assert.Error(t, err)
}

func TestVerifyTokenFailsWhenRecordExpired(t *testing.T) {
	service, store := newTestService(defaultAccount("u1"))

	raw, token, err := service.CreateToken(context.Background(), defaultSnapshot("u1"), "ci", time.Hour)
	require.NoError(t, err)

	store.tokens[token.ID].ExpiresAt = time.Now().Add(-time.Minute)

	_, err = service.VerifyToken(context.Background(), raw)
	assert.Error(t, err)
}

func TestVerifyTokenRejectsTampering(t *testing.T) {
	service, _ := newTestService(defaultAccount("u1"))

	raw, _, err := service.CreateToken(context.Background(), defaultSnapshot("u1"), "ci", time.Hour)
	require.NoError(t, err)

	_, err = service.VerifyToken(context.Background(), raw+"x")
	assert.Error(t, err)
}

func TestListTokensOwnScopedReaderSeesOnlyOwn(t *testing.T) {
	service, _ := newTestService(defaultAccount("u1"), defaultAccount("u2"))

	_, _, err := service.CreateToken(context.Background(), defaultSnapshot("u1"), "mine", time.Hour)
	require.NoError(t, err)
	_, _, err = service.CreateToken(context.Background(), defaultSnapshot("u2"), "theirs", time.Hour)
	require.NoError(t, err)

	// Target defaults to the caller.
	tokens, err := service.ListTokens(context.Background(), defaultSnapshot("u1"), "")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, "mine", tokens[0].Name)

	_, err = service.ListTokens(context.Background(), defaultSnapshot("u1"), "u2")
	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func TestListTokensResourceWideReaderSeesAll(t *testing.T) {
	service, _ := newTestService(defaultAccount("u1"), defaultAccount("u2"))

	_, _, err := service.CreateToken(context.Background(), defaultSnapshot("u1"), "mine", time.Hour)
	require.NoError(t, err)
	_, _, err = service.CreateToken(context.Background(), defaultSnapshot("u2"), "theirs", time.Hour)
	require.NoError(t, err)

	admin := ability.Snapshot{ID: "admin", Permissions: permissions.Strings(permissions.AdminBundle())}
	all, err := service.ListTokens(context.Background(), admin, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeleteTokenOfAnotherAccountIsForbidden(t *testing.T) {
	service, store := newTestService(defaultAccount("u1"), defaultAccount("u2"))

	_, token, err := service.CreateToken(context.Background(), defaultSnapshot("u2"), "theirs", time.Hour)
	require.NoError(t, err)

	err = service.DeleteToken(context.Background(), defaultSnapshot("u1"), token.ID)
	assert.ErrorIs(t, err, errs.ErrForbidden)
	_, ok := store.tokens[token.ID]
	assert.True(t, ok)
}

func TestCompleteLoginIssuesVerifiableSession(t *testing.T) {
	service, _ := newTestService()

	raw, account, err := service.CompleteLogin(context.Background(), 42, "octocat", "octo@example.com")
	require.NoError(t, err)
	assert.Equal(t, "octocat", account.GitHubLogin)

	authenticated, err := service.VerifyToken(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, account.ID, authenticated.ID)
}

func TestRevokeByRawTokenLogsOut(t *testing.T) {
	service, store := newTestService(defaultAccount("u1"))

	raw, token, err := service.CreateToken(context.Background(), defaultSnapshot("u1"), "session", time.Hour)
	require.NoError(t, err)

	require.NoError(t, service.RevokeByRawToken(context.Background(), raw))
	_, ok := store.tokens[token.ID]
	assert.False(t, ok)

	// Revoking twice is not an error.
	assert.NoError(t, service.RevokeByRawToken(context.Background(), raw))
}

func TestPurgeExpiredRemovesOnlyStaleRecords(t *testing.T) {
	service, store := newTestService(defaultAccount("u1"))

	_, live, err := service.CreateToken(context.Background(), defaultSnapshot("u1"), "live", time.Hour)
	require.NoError(t, err)
	_, stale, err := service.CreateToken(context.Background(), defaultSnapshot("u1"), "stale", time.Hour)
	require.NoError(t, err)
	store.tokens[stale.ID].ExpiresAt = time.Now().Add(-time.Minute)

	purged, err := service.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
	_, ok := store.tokens[live.ID]
	assert.True(t, ok)
}
