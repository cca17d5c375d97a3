package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/1willcobb/myfilmfriends-server/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SessionStore persists login sessions.
type SessionStore interface {
	// Create stores a new session under a fresh random id.
	Create(ctx context.Context, userID uint, role string) (*models.Session, error)
	// Get returns nil, nil when the session does not exist or has expired.
	Get(ctx context.Context, id string) (*models.Session, error)
	// Destroy removes the session. Destroying an absent session succeeds.
	Destroy(ctx context.Context, id string) error
}

func newSession(userID uint, role string, now time.Time, ttl time.Duration) *models.Session {
	return &models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Role:      role,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

const sessionKeyPrefix = "session:%s"

func sessionKey(id string) string {
	return fmt.Sprintf(sessionKeyPrefix, id)
}

// RedisSessionStore keeps sessions as JSON values expiring with the session.
type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
	now func() time.Time
}

// NewRedisSessionStore returns a SessionStore backed by rdb.
func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl, now: time.Now}
}

func (s *RedisSessionStore) Create(ctx context.Context, userID uint, role string) (*models.Session, error) {
	sess := newSession(userID, role, s.now(), s.ttl)
	payload, err := json.Marshal(sess)
	if err != nil {
		return nil, err
	}
	if err := s.rdb.Set(ctx, sessionKey(sess.ID), payload, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	raw, err := s.rdb.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess models.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		_ = s.Destroy(ctx, id)
		return nil, nil
	}
	if sess.Expired(s.now()) {
		return nil, s.Destroy(ctx, id)
	}
	return &sess, nil
}

func (s *RedisSessionStore) Destroy(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

// DBSessionStore keeps sessions in the sessions table.
type DBSessionStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewDBSessionStore returns a SessionStore backed by db.
func NewDBSessionStore(db *gorm.DB, ttl time.Duration) *DBSessionStore {
	return &DBSessionStore{db: db, ttl: ttl, now: time.Now}
}

func (s *DBSessionStore) Create(ctx context.Context, userID uint, role string) (*models.Session, error) {
	sess := newSession(userID, role, s.now(), s.ttl)
	if err := s.db.WithContext(ctx).Create(sess).Error; err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

func (s *DBSessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	var sess models.Session
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess.Expired(s.now()) {
		return nil, s.Destroy(ctx, id)
	}
	return &sess, nil
}

func (s *DBSessionStore) Destroy(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

// Sweep deletes every expired session and reports how many were removed.
func (s *DBSessionStore) Sweep(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&models.Session{})
	return res.RowsAffected, res.Error
}
