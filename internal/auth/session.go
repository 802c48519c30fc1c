package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound indica sessão ausente, expirada ou revogada.
var ErrSessionNotFound = errors.New("sessão não encontrada")

const sessionKeyPrefix = "sessao:"

type redisCommander interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// SessionStore guarda as sessões ativas no Redis com TTL deslizante.
type SessionStore struct {
	redis redisCommander
	ttl   time.Duration
}

// NewSessionStore cria o registro de sessões.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{redis: client, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

// Create registra nova sessão e devolve seu identificador.
func (s *SessionStore) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	sessionID := uuid.NewString()
	if err := s.redis.Set(ctx, sessionKey(sessionID), userID.String(), s.ttl).Err(); err != nil {
		return "", err
	}
	return sessionID, nil
}

// Lookup resolve sessão ativa para o usuário dono e estende sua
// validade. Falha ao estender não invalida a leitura.
func (s *SessionStore) Lookup(ctx context.Context, sessionID string) (uuid.UUID, error) {
	val, err := s.redis.Get(ctx, sessionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, ErrSessionNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}

	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, ErrSessionNotFound
	}

	_ = s.redis.Expire(ctx, sessionKey(sessionID), s.ttl).Err()

	return userID, nil
}

// Destroy revoga a sessão. Revogar sessão inexistente não é erro.
func (s *SessionStore) Destroy(ctx context.Context, sessionID string) error {
	return s.redis.Del(ctx, sessionKey(sessionID)).Err()
}
