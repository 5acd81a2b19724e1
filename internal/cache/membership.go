// Package cache holds small redis-backed read-through caches. Membership
// lookups run on every draft creation and change rarely, so a short TTL saves
// a postgres round trip without risking stale grants for long.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fgc-incentivos/reports-backend/internal/reports/service"
)

const membershipTTL = 5 * time.Minute

// Membership caches IsMember answers in redis in front of the record store.
type Membership struct {
	client *redis.Client
	next   service.MembershipChecker
}

func NewMembership(client *redis.Client, next service.MembershipChecker) *Membership {
	return &Membership{client: client, next: next}
}

func membershipKey(beneficiaryID, projectID string) string {
	return fmt.Sprintf("fgc:member:%s:%s", beneficiaryID, projectID)
}

// IsMember answers from redis when possible, falling through to the record
// store and caching both positive and negative answers. Redis being down is
// not an error: the store answers and the cache heals later.
func (m *Membership) IsMember(ctx context.Context, beneficiaryID, projectID string) (bool, error) {
	key := membershipKey(beneficiaryID, projectID)

	val, err := m.client.Get(ctx, key).Result()
	if err == nil {
		return val == "1", nil
	}
	if !errors.Is(err, redis.Nil) {
		log.Printf("membership cache read failed, using store: %v", err)
	}

	ok, err := m.next.IsMember(ctx, beneficiaryID, projectID)
	if err != nil {
		return false, err
	}

	cached := "0"
	if ok {
		cached = "1"
	}
	m.client.Set(ctx, key, cached, membershipTTL)
	return ok, nil
}

// Invalidate drops a cached answer, for when memberships are edited while the
// service is running.
func (m *Membership) Invalidate(ctx context.Context, beneficiaryID, projectID string) error {
	return m.client.Del(ctx, membershipKey(beneficiaryID, projectID)).Err()
}
