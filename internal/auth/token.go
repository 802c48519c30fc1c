package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims representa as informações presentes no token de sessão.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenManager encapsula geração e validação dos tokens de sessão que
// trafegam no cookie. O token é opaco para quem consome a API; o
// conteúdo só interessa ao resolvedor de sessão.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager cria o gerenciador com segredo e TTL configurados.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// TTL devolve a validade configurada dos tokens.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Generate cria um JWT HS256 com subject = usuário e jti = sessão.
func (m *TokenManager) Generate(subject, sessionID string) (string, error) {
	now := time.Now().UTC()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        sessionID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseAndValidate verifica assinatura e expiração.
func (m *TokenManager) ParseAndValidate(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("token inválido")
	}

	return claims, nil
}
