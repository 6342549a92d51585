package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/coocood/freecache"
	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

// revoked token ids live in a sorted set, scored by the token expiry (unix seconds)
const revokedTokensKey = "rehabtrack-revoked-tokens"

// RevocationStore keeps revoked token ids in redis, with a local cache above it
// so repeated checks of a revoked token do not hit redis.
type RevocationStore struct {
	redisClient *redis.Client
	cache       *freecache.Cache
	now         func() time.Time
}

func NewRevocationStore(redisClient *redis.Client, cacheSizeMB int) *RevocationStore {
	return &RevocationStore{
		redisClient: redisClient,
		cache:       freecache.NewCache(cacheSizeMB * 1024 * 1024),
		now:         time.Now,
	}
}

func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		// already expired, nothing to revoke
		return nil
	}

	cmd := s.redisClient.ZAdd(ctx, revokedTokensKey, &redis.Z{
		Score:  float64(expiresAt.Unix()),
		Member: tokenID,
	})
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	s.remember(tokenID, ttl)
	return nil
}

func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if _, err := s.cache.Get([]byte(tokenID)); err == nil {
		return true, nil
	}

	cmd := s.redisClient.ZScore(ctx, revokedTokensKey, tokenID)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("check revoked token: %w", err)
	}

	expiresAt := time.Unix(int64(cmd.Val()), 0)
	if ttl := expiresAt.Sub(s.now()); ttl > 0 {
		s.remember(tokenID, ttl)
	}

	return true, nil
}

// ScanAndClean removes revoked ids whose tokens have expired anyway.
func (s *RevocationStore) ScanAndClean(ctx context.Context) (int64, error) {
	cmd := s.redisClient.ZRemRangeByScore(
		ctx,
		revokedTokensKey,
		"-inf",
		strconv.FormatInt(s.now().Unix(), 10),
	)
	if err := cmd.Err(); err != nil {
		return 0, fmt.Errorf("clean revoked tokens: %w", err)
	}

	removed := cmd.Val()
	log.Debugf("revocation store, scan and clean: removed %d expired tokens", removed)
	return removed, nil
}

func (s *RevocationStore) remember(tokenID string, ttl time.Duration) {
	expireSecs := int(ttl.Seconds())
	if expireSecs < 1 {
		expireSecs = 1
	}
	if err := s.cache.Set([]byte(tokenID), []byte{1}, expireSecs); err != nil {
		log.Warnf("revocation store, cache token %s: %s", tokenID, err)
	}
}
