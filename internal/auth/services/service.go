package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	accountsModels "go-mouli/internal/accounts/models"
	"go-mouli/internal/auth/models"
	"go-mouli/pkg/ability"
	"go-mouli/pkg/config"
	"go-mouli/pkg/database"
	"go-mouli/pkg/errs"
	"go-mouli/pkg/middleware"
)

// snapshotCacheTTL bounds how long a verified account snapshot is served
// from Redis. Token revocation and permission changes take effect within
// this window at the latest; permission updates additionally drop the
// key immediately.
const snapshotCacheTTL = 30 * time.Second

// TokenStore is the persistence surface for auth tokens. *Repository is
// the production implementation.
type TokenStore interface {
	Create(ctx context.Context, token *models.AuthToken) error
	GetByID(ctx context.Context, id string) (*models.AuthToken, error)
	ListByAccount(ctx context.Context, accountID string) ([]models.AuthToken, error)
	ListAll(ctx context.Context) ([]models.AuthToken, error)
	Delete(ctx context.Context, id string) error
	DeleteByAccount(ctx context.Context, accountID string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	Touch(ctx context.Context, id string, usedAt time.Time) error
}

// AccountDirectory is the slice of the accounts service the auth module
// depends on.
type AccountDirectory interface {
	FindOrCreateByGitHub(ctx context.Context, githubID int64, login, email string) (*accountsModels.Account, error)
	GetByID(ctx context.Context, id string) (*accountsModels.Account, error)
}

// Service issues and verifies platform credentials and manages the auth
// token records behind them.
type Service struct {
	store      TokenStore
	accounts   AccountDirectory
	cache      *database.Redis
	jwtSecret  []byte
	sessionTTL time.Duration
}

// NewService creates a new service instance
func NewService(store TokenStore, accounts AccountDirectory, cache *database.Redis) *Service {
	return &Service{
		store:      store,
		accounts:   accounts,
		cache:      cache,
		jwtSecret:  []byte(config.GetJWTSecret()),
		sessionTTL: config.GetDurationEnv("SESSION_TTL", 7*24*time.Hour),
	}
}

// SessionTTL returns the lifetime of session credentials.
func (s *Service) SessionTTL() time.Duration {
	return s.sessionTTL
}

// CompleteLogin finishes a GitHub OAuth exchange: upserts the account
// and issues a session credential. Not capability-gated; the account is
// acting on itself.
func (s *Service) CompleteLogin(ctx context.Context, githubID int64, login, email string) (string, *accountsModels.Account, error) {
	account, err := s.accounts.FindOrCreateByGitHub(ctx, githubID, login, email)
	if err != nil {
		return "", nil, err
	}

	raw, _, err := s.issue(ctx, account, "session", s.sessionTTL)
	if err != nil {
		return "", nil, err
	}

	slog.Info("Login completed", "account_id", account.ID, "github_login", login)
	return raw, account, nil
}

// VerifyToken implements middleware.AccountVerifier: it validates the
// JWT signature and expiry, confirms the backing token record still
// exists, and returns the account snapshot abilities are built from.
func (s *Service) VerifyToken(ctx context.Context, raw string) (*middleware.AuthenticatedAccount, error) {
	claims, err := s.parse(raw)
	if err != nil {
		return nil, err
	}

	accountID, _ := claims["sub"].(string)
	tokenID, _ := claims["jti"].(string)
	if accountID == "" || tokenID == "" {
		return nil, errors.New("token missing required claims")
	}

	cacheKey := middleware.SnapshotCacheKey(accountID)
	if s.cache != nil {
		var cached middleware.AuthenticatedAccount
		if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	token, err := s.store.GetByID(ctx, tokenID)
	if err != nil {
		return nil, errors.New("token has been revoked")
	}
	if token.TokenHash != hashToken(raw) {
		return nil, errors.New("token hash mismatch")
	}
	if time.Now().After(token.ExpiresAt) {
		return nil, errors.New("token expired")
	}

	account, err := s.accounts.GetByID(ctx, token.AccountID)
	if err != nil {
		return nil, fmt.Errorf("token subject no longer exists: %w", err)
	}

	authenticated := &middleware.AuthenticatedAccount{
		ID:          account.ID,
		GitHubLogin: account.GitHubLogin,
		Permissions: account.Permissions,
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, authenticated, snapshotCacheTTL); err != nil {
			slog.Warn("Failed to cache account snapshot", "account_id", account.ID, "error", err)
		}
	}
	if err := s.store.Touch(ctx, tokenID, time.Now()); err != nil {
		slog.Warn("Failed to record token use", "token_id", tokenID, "error", err)
	}

	return authenticated, nil
}

// CreateToken issues a named long-lived API token for the acting
// account. Creation is checked against the bare resource tag since no
// instance exists yet.
func (s *Service) CreateToken(ctx context.Context, acting ability.Snapshot, name string, ttl time.Duration) (string, *models.AuthToken, error) {
	if !ability.ForAccount(acting).Can(ability.ActionCreate, ability.ResourceAuthToken) {
		return "", nil, errs.ErrForbidden
	}

	account, err := s.accounts.GetByID(ctx, acting.ID)
	if err != nil {
		return "", nil, err
	}
	if ttl <= 0 {
		ttl = s.sessionTTL
	}

	raw, token, err := s.issue(ctx, account, name, ttl)
	if err != nil {
		return "", nil, err
	}

	slog.Info("API token created", "account_id", account.ID, "token_id", token.ID, "name", name)
	return raw, token, nil
}

// ListTokens returns the tokens of the target account. Callers with
// resource-wide read and no target see every account's tokens;
// own-scoped grants are checked against a representative instance of
// the target and cover only the caller's own.
func (s *Service) ListTokens(ctx context.Context, acting ability.Snapshot, targetAccountID string) ([]models.AuthToken, error) {
	if targetAccountID == "" {
		if ability.ForAccount(acting).Can(ability.ActionRead, ability.ResourceAuthToken) {
			return s.store.ListAll(ctx)
		}
		targetAccountID = acting.ID
	}

	probe := &models.AuthToken{AccountID: targetAccountID}
	if !ability.ForAccount(acting).Can(ability.ActionRead, probe) {
		return nil, errs.ErrForbidden
	}
	return s.store.ListByAccount(ctx, targetAccountID)
}

// GetToken returns one token record
func (s *Service) GetToken(ctx context.Context, acting ability.Snapshot, id string) (*models.AuthToken, error) {
	token, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ability.ForAccount(acting).Can(ability.ActionRead, token) {
		return nil, errs.ErrForbidden
	}
	return token, nil
}

// DeleteToken revokes one token. The record is loaded first so
// own-scoped delete grants can be evaluated against it.
func (s *Service) DeleteToken(ctx context.Context, acting ability.Snapshot, id string) error {
	token, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !ability.ForAccount(acting).Can(ability.ActionDelete, token) {
		return errs.ErrForbidden
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("Auth token revoked", "token_id", id, "account_id", token.AccountID, "revoked_by", acting.ID)
	return nil
}

// RevokeByRawToken revokes the credential presented by its bearer, for
// logout. No capability check: possession of the token is the authority.
func (s *Service) RevokeByRawToken(ctx context.Context, raw string) error {
	claims, err := s.parse(raw)
	if err != nil {
		return err
	}
	tokenID, _ := claims["jti"].(string)
	if tokenID == "" {
		return errors.New("token missing jti claim")
	}
	if err := s.store.Delete(ctx, tokenID); err != nil && !errors.Is(err, errs.ErrNotFound) {
		return err
	}
	return nil
}

// RevokeAccountTokens removes every credential of an account. Used by
// the accounts module when an account is deleted.
func (s *Service) RevokeAccountTokens(ctx context.Context, accountID string) error {
	return s.store.DeleteByAccount(ctx, accountID)
}

// PurgeExpired removes token records whose expiry has passed
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.store.DeleteExpired(ctx, time.Now())
}

func (s *Service) issue(ctx context.Context, account *accountsModels.Account, name string, ttl time.Duration) (string, *models.AuthToken, error) {
	now := time.Now()
	tokenID := uuid.New().String()

	claims := jwt.MapClaims{
		"sub":   account.ID,
		"login": account.GitHubLogin,
		"jti":   tokenID,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	token := &models.AuthToken{
		ID:        tokenID,
		AccountID: account.ID,
		Name:      name,
		TokenHash: hashToken(raw),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.store.Create(ctx, token); err != nil {
		return "", nil, err
	}
	return raw, token, nil
}

func (s *Service) parse(raw string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
