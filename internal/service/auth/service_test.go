package auth

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnisaude/saude-api/internal/model"
	pkgauth "github.com/omnisaude/saude-api/pkg/auth"
	apperrors "github.com/omnisaude/saude-api/pkg/errors"
	"github.com/omnisaude/saude-api/pkg/security"
)

type fakeUserRepo struct {
	byID    map[uuid.UUID]*model.User
	byEmail map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[uuid.UUID]*model.User),
		byEmail: make(map[string]*model.User),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("failed to get user: %w", sql.ErrNoRows)
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("failed to get user: %w", sql.ErrNoRows)
	}
	return user, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	f.byID[user.ID] = user
	return nil
}

func newTestService(repo *fakeUserRepo) *Service {
	jwtSvc := pkgauth.NewJWTService(pkgauth.Config{
		Secret:        "test-secret",
		RefreshSecret: "test-refresh-secret",
	})
	return NewService(repo, jwtSvc, security.NewBcryptHasher(4), 1)
}

func appCode(t *testing.T, err error) apperrors.ErrorCode {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Code
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	user, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:     "Maria Souza",
		Email:    "maria@example.com",
		Password: "long-enough-password",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Empty(t, user.Password)
	assert.NotEqual(t, "long-enough-password", user.PasswordHash)

	tokens, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "maria@example.com",
		Password: "long-enough-password",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.NotNil(t, repo.byID[user.ID].LastLoginAt)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	req := &model.RegisterRequest{Name: "A", Email: "dup@example.com", Password: "long-enough-password"}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	assert.Equal(t, apperrors.ErrConflict, appCode(t, err))
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:     "Maria",
		Email:    "maria@example.com",
		Password: "long-enough-password",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &model.LoginRequest{
		Email:    "maria@example.com",
		Password: "wrong-password-here",
	})
	assert.Equal(t, apperrors.ErrUnauthorized, appCode(t, err))
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever-password",
	})
	assert.Equal(t, apperrors.ErrUnauthorized, appCode(t, err))
}

func TestRefreshRoundTrip(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:     "Maria",
		Email:    "maria@example.com",
		Password: "long-enough-password",
	})
	require.NoError(t, err)

	tokens, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "maria@example.com",
		Password: "long-enough-password",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// An access token is signed with a different secret and must not
	// pass refresh validation.
	_, err = svc.Refresh(context.Background(), tokens.AccessToken)
	assert.Equal(t, apperrors.ErrUnauthorized, appCode(t, err))
}
