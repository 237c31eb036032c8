package identity

import (
	"context"
	"sync"
	"testing"

	"github.com/smarthomes/backend/internal/domain/identity"
	"github.com/smarthomes/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memAccountsRepository struct {
	mu       sync.Mutex
	accounts *identity.Accounts
	commits  int
}

func (r *memAccountsRepository) Load(ctx context.Context) (*identity.Accounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.accounts.Clone(), nil
}

func (r *memAccountsRepository) Update(ctx context.Context, fn func(a *identity.Accounts) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	working := r.accounts.Clone()
	if err := fn(working); err != nil {
		return err
	}
	r.accounts = working
	r.commits++
	return nil
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	repo := &memAccountsRepository{accounts: identity.NewAccounts()}
	svc := NewUserService(repo, zap.NewNop())

	p, err := svc.Register(ctx, RegisterRequest{Name: "Ada", Email: "Ada@Example.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", p.Email)

	_, err = svc.Register(ctx, RegisterRequest{Name: "Other Ada", Email: "ada@example.com", Password: "x"})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)

	_, err = svc.Register(ctx, RegisterRequest{Name: "No Password", Email: "np@example.com"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	p, err = svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, 1, repo.commits, "login with a hashed password writes nothing")

	_, err = svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "s3cret"})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestUserService_LoginUpgradesLegacyPassword(t *testing.T) {
	ctx := context.Background()
	repo := &memAccountsRepository{accounts: identity.NewAccounts(
		identity.User{Name: "Legacy", Email: "legacy@example.com", Password: "plain"},
	)}
	svc := NewUserService(repo, zap.NewNop())

	_, err := svc.Login(ctx, LoginRequest{Email: "legacy@example.com", Password: "plain"})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.commits)

	data, err := repo.accounts.MarshalJSON()
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"password":"plain"`)

	_, err = svc.Login(ctx, LoginRequest{Email: "legacy@example.com", Password: "plain"})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.commits)
}

func TestUserService_ListUsersHidesPasswords(t *testing.T) {
	ctx := context.Background()
	repo := &memAccountsRepository{accounts: identity.NewAccounts(
		identity.User{Name: "A", Email: "a@example.com", Password: "pw"},
		identity.User{Name: "B", Email: "b@example.com", Password: "pw"},
	)}
	svc := NewUserService(repo, zap.NewNop())

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []identity.Profile{{Name: "A", Email: "a@example.com"}, {Name: "B", Email: "b@example.com"}}, users)
}
