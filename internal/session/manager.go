package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CookieName is the cookie carrying the signed session token.
const CookieName = "codecanvas_session"

const keyPrefix = "session:"

var ErrNoSession = errors.New("no active session")

// Manager issues and resolves sessions. The cookie value is an HS256 JWT
// carrying a session id; the id maps to the user id in Redis with a TTL,
// so logging out invalidates the session server-side even while the
// cookie itself is still unexpired.
type Manager struct {
	redis  *redis.Client
	secret []byte
	ttl    time.Duration
}

func NewManager(redisClient *redis.Client, secret string, ttl time.Duration) *Manager {
	return &Manager{
		redis:  redisClient,
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue creates a server-side session for the user and returns the signed
// cookie value.
func (m *Manager) Issue(ctx context.Context, userID int64) (string, error) {
	sid := uuid.NewString()

	err := m.redis.Set(ctx, keyPrefix+sid, strconv.FormatInt(userID, 10), m.ttl).Err()
	if err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	claims := jwt.MapClaims{
		"sid": sid,
		"exp": time.Now().Add(m.ttl).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, nil
}

// Resolve verifies the cookie value and returns the user id bound to the
// session. ErrNoSession covers every failure mode a client can produce:
// tampered token, expired token, or a session already destroyed.
func (m *Manager) Resolve(ctx context.Context, cookieValue string) (int64, error) {
	sid, err := m.parseSessionID(cookieValue)
	if err != nil {
		return 0, ErrNoSession
	}

	val, err := m.redis.Get(ctx, keyPrefix+sid).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrNoSession
		}
		return 0, fmt.Errorf("failed to look up session: %w", err)
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, ErrNoSession
	}
	return userID, nil
}

// Destroy deletes the server-side session. Idempotent: an invalid or
// already-destroyed token is not an error.
func (m *Manager) Destroy(ctx context.Context, cookieValue string) error {
	sid, err := m.parseSessionID(cookieValue)
	if err != nil {
		return nil
	}

	if err := m.redis.Del(ctx, keyPrefix+sid).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (m *Manager) parseSessionID(cookieValue string) (string, error) {
	token, err := jwt.Parse(cookieValue, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}

	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return sid, nil
}
