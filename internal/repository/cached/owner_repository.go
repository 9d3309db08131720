package cached

import (
	"context"
	"encoding/json"
	"time"

	"github.com/minhnd/parklot/internal/domain"
	"github.com/minhnd/parklot/internal/repository"
)

const ownerCachePrefix = "owner:"

// Cache - the subset of the redis client the decorator needs.
// Satisfied by internal/pkg/redis.Client.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// OwnerRepository adds a redis read-through cache in front of owner lookups.
// Every QR scan at the booth resolves an owner by CCCD, so that read is the
// hot path; writes go straight through and invalidate the cached entry.
type OwnerRepository struct {
	repo  repository.OwnerRepository
	cache Cache
	ttl   time.Duration
}

// NewOwnerRepository wraps an owner repository with caching.
func NewOwnerRepository(repo repository.OwnerRepository, cache Cache, ttl time.Duration) *OwnerRepository {
	return &OwnerRepository{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
	}
}

// GetByCCCD serves from cache when possible.
func (r *OwnerRepository) GetByCCCD(ctx context.Context, cccd string) (*domain.Owner, error) {
	cacheKey := ownerCachePrefix + cccd

	// redis.Nil is a miss; any other cache error also falls back to the database.
	cachedValue, err := r.cache.Get(ctx, cacheKey)
	if err == nil {
		owner := &domain.Owner{}
		if jsonErr := json.Unmarshal([]byte(cachedValue), owner); jsonErr == nil {
			return owner, nil
		}
		// Unreadable entry: drop it and fall through to the database.
		_ = r.cache.Del(ctx, cacheKey)
	}

	owner, err := r.repo.GetByCCCD(ctx, cccd)
	if err != nil {
		return nil, err
	}

	if payload, jsonErr := json.Marshal(owner); jsonErr == nil {
		_ = r.cache.Set(ctx, cacheKey, payload, r.ttl)
	}

	return owner, nil
}

// CreateWithVehicles passes through and primes nothing: the next scan fills
// the cache.
func (r *OwnerRepository) CreateWithVehicles(ctx context.Context, owner *domain.Owner, vehicles []*domain.Vehicle) error {
	return r.repo.CreateWithVehicles(ctx, owner, vehicles)
}

// Update passes through and invalidates the cached entry.
func (r *OwnerRepository) Update(ctx context.Context, owner *domain.Owner) error {
	if err := r.repo.Update(ctx, owner); err != nil {
		return err
	}
	_ = r.cache.Del(ctx, ownerCachePrefix+owner.CCCD)
	return nil
}

// Delete passes through and invalidates the cached entry.
func (r *OwnerRepository) Delete(ctx context.Context, cccd string) error {
	if err := r.repo.Delete(ctx, cccd); err != nil {
		return err
	}
	_ = r.cache.Del(ctx, ownerCachePrefix+cccd)
	return nil
}

// List is admin-only and rare, not worth caching.
func (r *OwnerRepository) List(ctx context.Context, limit, offset int) ([]*domain.Owner, error) {
	return r.repo.List(ctx, limit, offset)
}

// Search is not cached: queries are free-form.
func (r *OwnerRepository) Search(ctx context.Context, query string, limit int) ([]*domain.Owner, error) {
	return r.repo.Search(ctx, query, limit)
}

// Count passes through.
func (r *OwnerRepository) Count(ctx context.Context) (int, error) {
	return r.repo.Count(ctx)
}
