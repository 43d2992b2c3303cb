// internal/pkg/session/manager.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Manager keeps live sessions in Redis, keyed by account and token ID. Redis
// is the only session store; a lost entry just forces a fresh login.
type Manager struct {
	client *redis.Client
	logger *zap.Logger
}

func NewManager(client *redis.Client, logger *zap.Logger) *Manager {
	return &Manager{client: client, logger: logger}
}

// CreateSession stores a new session with a TTL matching its expiry.
func (m *Manager) CreateSession(ctx context.Context, session *SessionData) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	key := m.sessionKey(session.AccountID, session.JTI)
	if err := m.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// GetSession retrieves a session, refreshing its activity timestamp.
func (m *Manager) GetSession(ctx context.Context, accountID int64, jti string) (*SessionData, error) {
	key := m.sessionKey(accountID, jti)

	data, err := m.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("session not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session SessionData
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	session.LastActivityAt = time.Now()
	go m.touch(context.Background(), &session)

	return &session, nil
}

// InvalidateSession removes one session.
func (m *Manager) InvalidateSession(ctx context.Context, accountID int64, jti string) error {
	return m.client.Del(ctx, m.sessionKey(accountID, jti)).Err()
}

// InvalidateAllAccountSessions removes every session of an account, used on
// password change and account deletion.
func (m *Manager) InvalidateAllAccountSessions(ctx context.Context, accountID int64) error {
	pattern := fmt.Sprintf("session:%d:*", accountID)

	iter := m.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := m.client.Del(ctx, iter.Val()).Err(); err != nil {
			m.logger.Warn("failed to delete session", zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	return iter.Err()
}

// BlacklistToken marks a token ID as revoked until it would have expired.
func (m *Manager) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return m.client.Set(ctx, m.blacklistKey(jti), "1", ttl).Err()
}

// IsTokenBlacklisted checks if a token ID was revoked.
func (m *Manager) IsTokenBlacklisted(ctx context.Context, jti string) (bool, error) {
	exists, err := m.client.Exists(ctx, m.blacklistKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}
	return exists > 0, nil
}

func (m *Manager) sessionKey(accountID int64, jti string) string {
	return fmt.Sprintf("session:%d:%s", accountID, jti)
}

func (m *Manager) blacklistKey(jti string) string {
	return fmt.Sprintf("blacklist:%s", jti)
}

func (m *Manager) touch(ctx context.Context, session *SessionData) {
	data, err := json.Marshal(session)
	if err != nil {
		return
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return
	}
	key := m.sessionKey(session.AccountID, session.JTI)
	if err := m.client.Set(ctx, key, data, ttl).Err(); err != nil {
		m.logger.Warn("failed to refresh session activity", zap.Error(err))
	}
}
