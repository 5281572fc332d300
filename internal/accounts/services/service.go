package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"go-mouli/internal/accounts/models"
	"go-mouli/pkg/ability"
	"go-mouli/pkg/database"
	"go-mouli/pkg/errs"
	"go-mouli/pkg/middleware"
	"go-mouli/pkg/permissions"
)

// Store is the persistence surface the service depends on
type Store interface {
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByGitHubID(ctx context.Context, githubID int64) (*models.Account, error)
	List(ctx context.Context, page, limit int) ([]models.Account, int64, error)
	Create(ctx context.Context, account *models.Account) error
	Update(ctx context.Context, id string, updates bson.M) error
	Delete(ctx context.Context, id string) error
	ReplacePermissions(ctx context.Context, id string, perms []string) error
}

// TokenRevoker lets account deletion cascade into credential
// revocation. Implemented by the auth module's service and injected
// after both modules are constructed.
type TokenRevoker interface {
	RevokeAccountTokens(ctx context.Context, accountID string) error
}

// Service implements account business logic. Every operation that acts
// on behalf of a caller takes the acting account's snapshot and checks
// the compiled ability before touching state.
type Service struct {
	store   Store
	cache   *database.Redis
	revoker TokenRevoker
}

// NewService creates a new service instance
func NewService(store Store, cache *database.Redis) *Service {
	return &Service{store: store, cache: cache}
}

// SetTokenRevoker wires the auth module in after construction
func (s *Service) SetTokenRevoker(revoker TokenRevoker) {
	s.revoker = revoker
}

// GetAccount returns one account. The record is loaded first so
// own-scoped read grants can be evaluated against it.
func (s *Service) GetAccount(ctx context.Context, acting ability.Snapshot, id string) (*models.Account, error) {
	account, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ability.ForAccount(acting).Can(ability.ActionRead, account) {
		return nil, errs.ErrForbidden
	}
	return account, nil
}

// ListAccounts returns a page of accounts. Listing exposes accounts the
// caller did not create, so it requires the bare resource-wide read
// capability; own-scoped grants do not qualify.
func (s *Service) ListAccounts(ctx context.Context, acting ability.Snapshot, page, limit int) ([]models.Account, int64, error) {
	if !ability.ForAccount(acting).Can(ability.ActionRead, ability.ResourceAccount) {
		return nil, 0, errs.ErrForbidden
	}
	return s.store.List(ctx, page, limit)
}

// UpdateAccount applies profile field updates
func (s *Service) UpdateAccount(ctx context.Context, acting ability.Snapshot, id string, updates bson.M) (*models.Account, error) {
	account, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ability.ForAccount(acting).Can(ability.ActionUpdate, account) {
		return nil, errs.ErrForbidden
	}

	if len(updates) > 0 {
		if err := s.store.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.store.GetByID(ctx, id)
}

// DeleteAccount removes an account and cascades into its credentials
// and cached snapshot.
func (s *Service) DeleteAccount(ctx context.Context, acting ability.Snapshot, id string) error {
	account, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !ability.ForAccount(acting).Can(ability.ActionDelete, account) {
		return errs.ErrForbidden
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if s.revoker != nil {
		if err := s.revoker.RevokeAccountTokens(ctx, id); err != nil {
			slog.Warn("Failed to revoke tokens of deleted account", "account_id", id, "error", err)
		}
	}
	s.dropSnapshot(ctx, id)

	slog.Info("Account deleted", "account_id", id, "deleted_by", acting.ID)
	return nil
}

// UpdatePermissions replaces the target account's permission atom set.
// Granting permissions is never own-scoped, so the check runs against
// the bare permissions resource tag. Unknown atoms are rejected rather
// than silently persisted.
func (s *Service) UpdatePermissions(ctx context.Context, acting ability.Snapshot, id string, perms []string) (*models.Account, error) {
	if !ability.ForAccount(acting).Can(ability.ActionUpdate, ability.ResourceAccountPermissions) {
		return nil, errs.ErrForbidden
	}

	for _, atom := range perms {
		if !permissions.IsKnown(permissions.Permission(atom)) {
			return nil, fmt.Errorf("unknown permission %q: %w", atom, errs.ErrBadRequest)
		}
	}

	if _, err := s.store.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.store.ReplacePermissions(ctx, id, perms); err != nil {
		return nil, err
	}
	s.dropSnapshot(ctx, id)

	slog.Info("Account permissions updated", "account_id", id, "updated_by", acting.ID, "atoms", len(perms))
	return s.store.GetByID(ctx, id)
}

// FindOrCreateByGitHub upserts the account for a completed GitHub
// login. New accounts start with the default permission bundle. Not
// capability-gated; login is the one path that creates accounts.
func (s *Service) FindOrCreateByGitHub(ctx context.Context, githubID int64, login, email string) (*models.Account, error) {
	account, err := s.store.GetByGitHubID(ctx, githubID)
	if err != nil {
		return nil, err
	}
	if account != nil {
		if account.GitHubLogin != login || account.Email != email {
			updates := bson.M{"github_login": login, "email": email}
			if err := s.store.Update(ctx, account.ID, updates); err != nil {
				return nil, err
			}
			return s.store.GetByID(ctx, account.ID)
		}
		return account, nil
	}

	now := time.Now()
	account = &models.Account{
		ID:          uuid.New().String(),
		GitHubID:    githubID,
		GitHubLogin: login,
		Email:       email,
		Permissions: permissions.Strings(permissions.DefaultBundle()),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create(ctx, account); err != nil {
		// Two first logins can race between lookup and insert; the
		// account that won the unique index is authoritative.
		if errors.Is(err, errs.ErrConflict) {
			existing, readErr := s.store.GetByGitHubID(ctx, githubID)
			if readErr != nil || existing == nil {
				return nil, err
			}
			return existing, nil
		}
		return nil, err
	}

	slog.Info("Account created", "account_id", account.ID, "github_login", login)
	return account, nil
}

// GetByID loads an account without a capability check. Used by the auth
// module while resolving credentials, before any acting account exists.
func (s *Service) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) dropSnapshot(ctx context.Context, accountID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, middleware.SnapshotCacheKey(accountID)); err != nil && !database.IsNotFound(err) {
		slog.Warn("Failed to drop cached snapshot", "account_id", accountID, "error", err)
	}
}
