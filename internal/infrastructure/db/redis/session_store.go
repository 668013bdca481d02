package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
)

const defaultSessionTTL = 24 * time.Hour

// saveScript writes a session unless it has been ended.
// KEYS[1] session key, KEYS[2] tombstone key, ARGV[1] payload, ARGV[2] ttl ms.
var saveScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[2]) == 1 then
	return 0
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
return 1
`)

// SessionStore keeps visitor sessions as JSON documents with a sliding TTL.
// Ending a session leaves a tombstone so a request that loaded it earlier
// cannot write it back.
// Key format: portal:session:<id>, portal:session:ended:<id>
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore. If ttl <= 0, defaultSessionTTL is used.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{client: client, ttl: ttl}
}

// Load returns domain.ErrSessionNotFound for unknown or expired ids.
func (s *SessionStore) Load(ctx context.Context, id string) (*domain.Session, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

// Save writes the session and refreshes its TTL. It returns
// domain.ErrSessionEnded once the session has been deleted.
func (s *SessionStore) Save(ctx context.Context, sess *domain.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	keys := []string{s.key(sess.ID), s.endedKey(sess.ID)}
	saved, err := saveScript.Run(ctx, s.client, keys, raw, s.ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if saved == 0 {
		return domain.ErrSessionEnded
	}
	return nil
}

// Delete removes the session and tombstones its id for as long as a portal
// cookie naming it could still be valid.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key(id))
		pipe.Set(ctx, s.endedKey(id), 1, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Ended reports whether the session has been deleted.
func (s *SessionStore) Ended(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, s.endedKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("check session: %w", err)
	}
	return n == 1, nil
}

func (s *SessionStore) key(id string) string {
	return "portal:session:" + id
}

func (s *SessionStore) endedKey(id string) string {
	return "portal:session:ended:" + id
}
