package profile

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type perfilRepository interface {
	GetByID(ctx context.Context, userID uuid.UUID) (Perfil, error)
	Update(ctx context.Context, userID uuid.UUID, input UpdateInput) (Perfil, error)
}

// Service aplica as regras de perfil e o gate de cargo.
type Service struct {
	repo perfilRepository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// NewServiceWith permite injetar repositório alternativo (testes).
func NewServiceWith(repo perfilRepository) *Service {
	return &Service{repo: repo}
}

// Get devolve o perfil do usuário autenticado.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (Perfil, error) {
	return s.repo.GetByID(ctx, userID)
}

// Update aplica alterações permitidas ao perfil do próprio usuário.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, input UpdateInput) (Perfil, error) {
	return s.repo.Update(ctx, userID, input)
}

// RequireCargo é a checagem de autorização por cargo: carrega o perfil
// do usuário e exige igualdade exata. Perfil ausente ou falha de
// consulta não é "não autenticado" nem "proibido": é falha interna do
// gate. O banco reforça a mesma regra via política de linha, então um
// mismatch aqui e uma rejeição lá são ambos desfechos legítimos.
func (s *Service) RequireCargo(ctx context.Context, userID uuid.UUID, cargo string) (Perfil, error) {
	p, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return Perfil{}, fmt.Errorf("carregar perfil: %w", err)
	}

	if p.Cargo == nil || *p.Cargo != cargo {
		return Perfil{}, ErrForbidden
	}

	return p, nil
}
