package cached

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/minhnd/parklot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockOwnerRepository - mock for the underlying owner repository
type MockOwnerRepository struct {
	mock.Mock
}

func (m *MockOwnerRepository) CreateWithVehicles(ctx context.Context, owner *domain.Owner, vehicles []*domain.Vehicle) error {
	args := m.Called(ctx, owner, vehicles)
	return args.Error(0)
}

func (m *MockOwnerRepository) GetByCCCD(ctx context.Context, cccd string) (*domain.Owner, error) {
	args := m.Called(ctx, cccd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Owner), args.Error(1)
}

func (m *MockOwnerRepository) Update(ctx context.Context, owner *domain.Owner) error {
	args := m.Called(ctx, owner)
	return args.Error(0)
}

func (m *MockOwnerRepository) Delete(ctx context.Context, cccd string) error {
	args := m.Called(ctx, cccd)
	return args.Error(0)
}

func (m *MockOwnerRepository) List(ctx context.Context, limit, offset int) ([]*domain.Owner, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Owner), args.Error(1)
}

func (m *MockOwnerRepository) Search(ctx context.Context, query string, limit int) ([]*domain.Owner, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Owner), args.Error(1)
}

func (m *MockOwnerRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// fakeCache - in-memory Cache implementation for tests.
type fakeCache struct {
	data map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	v, ok := c.data[key]
	if !ok {
		return "", errors.New("cache miss")
	}
	return v, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	switch v := value.(type) {
	case []byte:
		c.data[key] = string(v)
	case string:
		c.data[key] = v
	}
	return nil
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func TestOwnerRepository_GetByCCCD(t *testing.T) {
	owner := &domain.Owner{
		CCCD:     "012345678901",
		FullName: "Nguyễn Văn An",
	}

	t.Run("miss then hit", func(t *testing.T) {
		inner := new(MockOwnerRepository)
		cache := newFakeCache()
		// The database is hit exactly once; the second read is served from cache.
		inner.On("GetByCCCD", mock.Anything, "012345678901").Return(owner, nil).Once()

		repo := NewOwnerRepository(inner, cache, time.Minute)

		first, err := repo.GetByCCCD(context.Background(), "012345678901")
		assert.NoError(t, err)
		assert.Equal(t, owner.FullName, first.FullName)

		second, err := repo.GetByCCCD(context.Background(), "012345678901")
		assert.NoError(t, err)
		assert.Equal(t, owner.FullName, second.FullName)

		inner.AssertExpectations(t)
	})

	t.Run("not found is not cached", func(t *testing.T) {
		inner := new(MockOwnerRepository)
		cache := newFakeCache()
		inner.On("GetByCCCD", mock.Anything, "012345678902").
			Return(nil, domain.ErrOwnerNotFound).Twice()

		repo := NewOwnerRepository(inner, cache, time.Minute)

		_, err := repo.GetByCCCD(context.Background(), "012345678902")
		assert.ErrorIs(t, err, domain.ErrOwnerNotFound)

		_, err = repo.GetByCCCD(context.Background(), "012345678902")
		assert.ErrorIs(t, err, domain.ErrOwnerNotFound)

		inner.AssertExpectations(t)
	})

	t.Run("corrupt cache entry falls back to the database", func(t *testing.T) {
		inner := new(MockOwnerRepository)
		cache := newFakeCache()
		cache.data[ownerCachePrefix+"012345678901"] = "{not json"
		inner.On("GetByCCCD", mock.Anything, "012345678901").Return(owner, nil).Once()

		repo := NewOwnerRepository(inner, cache, time.Minute)

		got, err := repo.GetByCCCD(context.Background(), "012345678901")
		assert.NoError(t, err)
		assert.Equal(t, owner.FullName, got.FullName)

		inner.AssertExpectations(t)
	})
}

func TestOwnerRepository_Invalidation(t *testing.T) {
	owner := &domain.Owner{
		CCCD:     "012345678901",
		FullName: "Nguyễn Văn An",
	}

	t.Run("update drops the cached entry", func(t *testing.T) {
		inner := new(MockOwnerRepository)
		cache := newFakeCache()
		inner.On("GetByCCCD", mock.Anything, "012345678901").Return(owner, nil)
		inner.On("Update", mock.Anything, owner).Return(nil)

		repo := NewOwnerRepository(inner, cache, time.Minute)

		_, _ = repo.GetByCCCD(context.Background(), "012345678901")
		assert.Contains(t, cache.data, ownerCachePrefix+"012345678901")

		assert.NoError(t, repo.Update(context.Background(), owner))
		assert.NotContains(t, cache.data, ownerCachePrefix+"012345678901")
	})

	t.Run("delete drops the cached entry", func(t *testing.T) {
		inner := new(MockOwnerRepository)
		cache := newFakeCache()
		inner.On("GetByCCCD", mock.Anything, "012345678901").Return(owner, nil)
		inner.On("Delete", mock.Anything, "012345678901").Return(nil)

		repo := NewOwnerRepository(inner, cache, time.Minute)

		_, _ = repo.GetByCCCD(context.Background(), "012345678901")
		assert.NoError(t, repo.Delete(context.Background(), "012345678901"))
		assert.NotContains(t, cache.data, ownerCachePrefix+"012345678901")
	})

	t.Run("failed update leaves the cache alone", func(t *testing.T) {
		inner := new(MockOwnerRepository)
		cache := newFakeCache()
		inner.On("GetByCCCD", mock.Anything, "012345678901").Return(owner, nil)
		inner.On("Update", mock.Anything, owner).Return(errors.New("db down"))

		repo := NewOwnerRepository(inner, cache, time.Minute)

		_, _ = repo.GetByCCCD(context.Background(), "012345678901")
		assert.Error(t, repo.Update(context.Background(), owner))
		assert.Contains(t, cache.data, ownerCachePrefix+"012345678901")
	})
}
