package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gestaosaude/distrito/internal/util"
)

var (
	// ErrInvalidCredentials indica falha na autenticação.
	ErrInvalidCredentials = errors.New("credenciais inválidas")
	// ErrNotAuthenticated cobre qualquer falha na resolução de sessão:
	// cookie ausente, token inválido/expirado ou sessão revogada. O
	// chamador nunca distingue a causa.
	ErrNotAuthenticated = errors.New("usuário não autenticado")
)

type userRepository interface {
	GetUsuarioByEmail(ctx context.Context, email string) (Usuario, error)
	CreateUsuarioComPerfil(ctx context.Context, email, senhaHash string) (uuid.UUID, error)
}

type sessionRegistry interface {
	Create(ctx context.Context, userID uuid.UUID) (string, error)
	Lookup(ctx context.Context, sessionID string) (uuid.UUID, error)
	Destroy(ctx context.Context, sessionID string) error
}

// Service concentra login, cadastro e resolução de sessão.
type Service struct {
	repo     userRepository
	sessions sessionRegistry
	tokens   *TokenManager
}

// NewService cria novo serviço de autenticação.
func NewService(repo *Repository, sessions *SessionStore, tokens *TokenManager) *Service {
	return &Service{repo: repo, sessions: sessions, tokens: tokens}
}

// NewServiceWith aceita as dependências por interface (testes).
func NewServiceWith(repo userRepository, sessions sessionRegistry, tokens *TokenManager) *Service {
	return &Service{repo: repo, sessions: sessions, tokens: tokens}
}

// ResolvedSession é o resultado da resolução de um token de cookie.
type ResolvedSession struct {
	UserID    uuid.UUID
	SessionID string
	// RefreshedToken vem preenchido quando o token deve ser regravado
	// no cookie com validade estendida.
	RefreshedToken string
}

// Login valida credenciais e abre uma sessão, devolvendo o token que
// vai para o cookie.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	usuario, err := s.repo.GetUsuarioByEmail(ctx, email)
	if errors.Is(err, ErrUsuarioNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("buscar usuário: %w", err)
	}

	ok, err := Verify(password, usuario.SenhaHash)
	if err != nil || !ok {
		return "", ErrInvalidCredentials
	}

	sessionID, err := s.sessions.Create(ctx, usuario.ID)
	if err != nil {
		return "", fmt.Errorf("criar sessão: %w", err)
	}

	token, err := s.tokens.Generate(usuario.ID.String(), sessionID)
	if err != nil {
		return "", fmt.Errorf("gerar token: %w", err)
	}

	return token, nil
}

// Signup cria conta e perfil vazio.
func (s *Service) Signup(ctx context.Context, email, password string) error {
	if err := util.ValidateEmail(email); err != nil {
		return err
	}
	if err := util.ValidatePassword(password); err != nil {
		return err
	}

	senhaHash, err := Hash(password)
	if err != nil {
		return fmt.Errorf("hash de senha: %w", err)
	}

	if _, err := s.repo.CreateUsuarioComPerfil(ctx, strings.TrimSpace(email), senhaHash); err != nil {
		return err
	}
	return nil
}

// Logout revoga a sessão indicada.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Destroy(ctx, sessionID)
}

// Resolve traduz o token vindo do cookie em sessão válida. Qualquer
// falha — assinatura, expiração, sessão revogada, backend fora do ar —
// vira ErrNotAuthenticated, nunca outra classe de erro.
func (s *Service) Resolve(ctx context.Context, rawToken string) (ResolvedSession, error) {
	if rawToken == "" {
		return ResolvedSession{}, ErrNotAuthenticated
	}

	claims, err := s.tokens.ParseAndValidate(rawToken)
	if err != nil {
		return ResolvedSession{}, ErrNotAuthenticated
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || claims.ID == "" {
		return ResolvedSession{}, ErrNotAuthenticated
	}

	owner, err := s.sessions.Lookup(ctx, claims.ID)
	if err != nil || owner != userID {
		return ResolvedSession{}, ErrNotAuthenticated
	}

	resolved := ResolvedSession{UserID: userID, SessionID: claims.ID}

	// Token na metade final da validade é reemitido para manter a
	// sessão deslizante em sincronia com o TTL do Redis.
	if claims.ExpiresAt != nil && time.Until(claims.ExpiresAt.Time) < s.tokens.TTL()/2 {
		if refreshed, err := s.tokens.Generate(userID.String(), claims.ID); err == nil {
			resolved.RefreshedToken = refreshed
		}
	}

	return resolved, nil
}
