package queries

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/tasklane/internal/identity/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserRepo) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type mockUserCache struct {
	mock.Mock
}

func (m *mockUserCache) Get(ctx context.Context, id int64) (*domain.User, bool) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*domain.User), args.Bool(1)
}

func (m *mockUserCache) Set(ctx context.Context, user *domain.User) {
	m.Called(ctx, user)
}

func (m *mockUserCache) Invalidate(ctx context.Context, id int64) {
	m.Called(ctx, id)
}

func user(id int64, name string) *domain.User {
	ts := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(id) * time.Hour)
	return domain.RehydrateUser(id, name, name+"@example.com", ts, ts)
}

func TestListUsersHandler_Handle(t *testing.T) {
	repo := new(mockUserRepo)
	ctx := context.Background()
	repo.On("List", ctx).Return([]*domain.User{user(2, "bob"), user(1, "ann")}, nil)

	dtos, err := NewListUsersHandler(repo).Handle(ctx)
	require.NoError(t, err)
	require.Len(t, dtos, 2)
	assert.Equal(t, int64(2), dtos[0].ID)
	assert.Equal(t, "bob@example.com", dtos[0].Email)
}

func TestListUsersHandler_Empty(t *testing.T) {
	repo := new(mockUserRepo)
	ctx := context.Background()
	repo.On("List", ctx).Return([]*domain.User{}, nil)

	dtos, err := NewListUsersHandler(repo).Handle(ctx)
	require.NoError(t, err)
	assert.NotNil(t, dtos)
	assert.Empty(t, dtos)
}

func TestGetUserHandler_CacheHit(t *testing.T) {
	repo := new(mockUserRepo)
	cache := new(mockUserCache)
	ctx := context.Background()
	cache.On("Get", ctx, int64(1)).Return(user(1, "ann"), true)

	dto, err := NewGetUserHandler(repo, cache).Handle(ctx, GetUserQuery{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, "ann", dto.Name)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestGetUserHandler_CacheMissFillsCache(t *testing.T) {
	repo := new(mockUserRepo)
	cache := new(mockUserCache)
	ctx := context.Background()
	stored := user(1, "ann")
	cache.On("Get", ctx, int64(1)).Return(nil, false)
	repo.On("FindByID", ctx, int64(1)).Return(stored, nil)
	cache.On("Set", ctx, stored).Return()

	dto, err := NewGetUserHandler(repo, cache).Handle(ctx, GetUserQuery{UserID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), dto.ID)
	cache.AssertExpectations(t)
}

func TestGetUserHandler_NotFound(t *testing.T) {
	repo := new(mockUserRepo)
	ctx := context.Background()
	repo.On("FindByID", ctx, int64(9)).Return(nil, domain.ErrUserNotFound)

	_, err := NewGetUserHandler(repo, nil).Handle(ctx, GetUserQuery{UserID: 9})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.EqualError(t, err, "User not found")
}
