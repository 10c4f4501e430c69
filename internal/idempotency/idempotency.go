package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

// SeenTTL bounds how long a payload hash stays in the fast path. The DB
// unique index remains authoritative after expiry.
const SeenTTL = 24 * time.Hour

// HashPayload returns the idempotency key for a raw webhook body.
func HashPayload(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// Checker answers "has this payload hash been seen recently". A nil client
// degrades to always-miss, leaving dedup to the database constraint.
type Checker struct {
	client *redis.Client
}

func NewChecker(client *redis.Client) *Checker {
	return &Checker{client: client}
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

// MarkIfNew records the hash and reports whether it was new. Redis errors are
// treated as a miss so ingestion never fails on a cache outage.
func (c *Checker) MarkIfNew(ctx context.Context, hash string) bool {
	if c == nil || c.client == nil {
		return true
	}
	ok, err := c.client.SetNX(ctx, "webhook:seen:"+hash, 1, SeenTTL).Result()
	if err != nil {
		return true
	}
	return ok
}

// Forget drops the hash from the fast path. Used when recording fails after
// the mark, so a retry of the same payload is not treated as a duplicate.
func (c *Checker) Forget(ctx context.Context, hash string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, "webhook:seen:"+hash)
}
