package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/clinic-identity/internal/domain"
)

const userCacheTTL = 5 * time.Minute

// cachedUserRepository layers a Redis read-through cache over user
// lookups by internal id. Other services poll GetUser heavily; the
// identity record is immutable after creation apart from soft-delete,
// so a short TTL is enough. Cache failures degrade to the inner store.
type cachedUserRepository struct {
	inner  UserRepository
	client *redis.Client
}

// NewCachedUserRepository wraps a UserRepository with Redis caching.
// A nil client returns the inner repository unchanged.
func NewCachedUserRepository(inner UserRepository, client *redis.Client) UserRepository {
	if client == nil {
		return inner
	}
	return &cachedUserRepository{inner: inner, client: client}
}

func userCacheKey(id int64) string {
	return fmt.Sprintf("identity:user:%d", id)
}

func (r *cachedUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	key := userCacheKey(id)
	if raw, err := r.client.Get(ctx, key).Bytes(); err == nil {
		var user domain.User
		if err := json.Unmarshal(raw, &user); err == nil {
			return &user, nil
		}
	}

	user, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(user); err == nil {
		r.client.Set(ctx, key, raw, userCacheTTL)
	}
	return user, nil
}

func (r *cachedUserRepository) GetByNationalID(ctx context.Context, nationalID string) (*domain.User, error) {
	// Registration pre-checks must see committed state, never a stale
	// cache entry.
	return r.inner.GetByNationalID(ctx, nationalID)
}
