package service_test

import (
	"context"
	"testing"

	"comercio/internal/dto"
	"comercio/internal/model"
	"comercio/internal/repository"
	"comercio/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username && u.Active {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(_ context.Context, includeInactive bool) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if includeInactive || u.Active {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.Active = false
	}
	return nil
}

func (r *stubUserRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.Active = true
	}
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func buildAuthSvc() (service.AuthService, *stubUserRepo) {
	repo := newStubUserRepo()
	svc := service.NewAuthService(repo, "test-secret", 1, 24)
	return svc, repo
}

func TestAuth_LoginRoundTrip(t *testing.T) {
	svc, _ := buildAuthSvc()

	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "ana",
		Name:     "Ana Torres",
		Password: "s3cret-pass",
		Role:     "admin",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "admin", resp.User.Role)
}

func TestAuth_LoginWrongPassword(t *testing.T) {
	svc, _ := buildAuthSvc()
	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "ana", Name: "Ana", Password: "correct-pass", Role: "cashier",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "wrong"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuth_LoginUnknownUser(t *testing.T) {
	svc, _ := buildAuthSvc()
	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ghost", Password: "whatever"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuth_RefreshIssuesNewTokens(t *testing.T) {
	svc, _ := buildAuthSvc()
	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "leo", Name: "Leo", Password: "password123", Role: "manager",
	})
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "leo", Password: "password123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, "leo", refreshed.User.Username)
}

func TestAuth_RefreshRejectsAccessToken(t *testing.T) {
	svc, _ := buildAuthSvc()
	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "leo", Name: "Leo", Password: "password123", Role: "manager",
	})
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "leo", Password: "password123"})
	require.NoError(t, err)

	// An access token is not accepted where a refresh token is required.
	_, err = svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: login.AccessToken})
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestAuth_RefreshRejectsDeactivatedUser(t *testing.T) {
	svc, repo := buildAuthSvc()
	created, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "eva", Name: "Eva", Password: "password123", Role: "cashier",
	})
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "eva", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, repo.SoftDelete(context.Background(), uuid.MustParse(created.ID)))

	_, err = svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestAuth_DuplicateUsername(t *testing.T) {
	svc, _ := buildAuthSvc()
	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "ana", Name: "Ana", Password: "password123", Role: "admin",
	})
	require.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "ana", Name: "Other Ana", Password: "password456", Role: "cashier",
	})
	assert.ErrorIs(t, err, service.ErrDuplicateEntry)
}
